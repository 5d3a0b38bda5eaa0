package services

import (
	"context"
	"testing"

	"kidwallet-api/internal/adapters/persistence/models"
	"kidwallet-api/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestReferralService(users ...models.User) (*ReferralService, *memUserRepo, *memFriendRepo, *memUserFileRepo) {
	userRepo := newMemUserRepo(users...)
	friendRepo := newMemFriendRepo()
	userFileRepo := newMemUserFileRepo()
	svc := NewReferralService(userRepo, friendRepo, userFileRepo, testConfig())
	return svc, userRepo, friendRepo, userFileRepo
}

func referrer() models.User {
	return models.User{
		ID:       "44444444",
		UserID:   "44444444",
		Username: "dave",
		FullName: "Dave Referrer",
		Email:    "dave@gmail.com",
		Level:    1,
	}
}

func validAddFriend() *AddFriendInput {
	return &AddFriendInput{
		Email:    "friend@gmail.com",
		Password: "friendpass",
		Whatsapp: "03009876543",
	}
}

func TestReferralService_AddFriend(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects malformed email", func(t *testing.T) {
		svc, _, _, _ := newTestReferralService(referrer())
		input := validAddFriend()
		input.Email = "broken"

		_, err := svc.AddFriend(ctx, "44444444", input)
		assert.ErrorIs(t, err, domain.ErrInvalidEmail)
	})

	t.Run("rejects email outside the domain allow-list", func(t *testing.T) {
		svc, _, _, _ := newTestReferralService(referrer())
		input := validAddFriend()
		input.Email = "friend@randommail.org"

		_, err := svc.AddFriend(ctx, "44444444", input)
		assert.ErrorIs(t, err, domain.ErrEmailNotAllowed)
	})

	t.Run("rejects short password", func(t *testing.T) {
		svc, _, _, _ := newTestReferralService(referrer())
		input := validAddFriend()
		input.Password = "12345"

		_, err := svc.AddFriend(ctx, "44444444", input)
		assert.ErrorIs(t, err, ErrPasswordTooShort)
	})

	t.Run("rejects the same email twice for one referrer", func(t *testing.T) {
		svc, _, _, _ := newTestReferralService(referrer())

		_, err := svc.AddFriend(ctx, "44444444", validAddFriend())
		require.NoError(t, err)

		_, err = svc.AddFriend(ctx, "44444444", validAddFriend())
		assert.ErrorIs(t, err, domain.ErrDuplicateFriend)
	})

	t.Run("allows the same email for different referrers", func(t *testing.T) {
		other := models.User{UserID: "55555555", Username: "erin", Email: "erin@gmail.com", Level: 1}
		svc, _, _, _ := newTestReferralService(referrer(), other)

		_, err := svc.AddFriend(ctx, "44444444", validAddFriend())
		require.NoError(t, err)

		_, err = svc.AddFriend(ctx, "55555555", validAddFriend())
		assert.NoError(t, err)
	})

	t.Run("unknown referrer", func(t *testing.T) {
		svc, _, _, _ := newTestReferralService()

		_, err := svc.AddFriend(ctx, "00000001", validAddFriend())
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("records the referral everywhere it is denormalized", func(t *testing.T) {
		svc, userRepo, friendRepo, userFileRepo := newTestReferralService(referrer())
		userFileRepo.Save(ctx, "44444444", &models.UserFile{
			User:        &models.User{UserID: "44444444"},
			Friends:     []models.Friend{},
			Withdrawals: []models.Withdrawal{},
			Activities:  []models.Activity{},
		}, "", "seed")

		friend, err := svc.AddFriend(ctx, "44444444", validAddFriend())
		require.NoError(t, err)

		assert.Equal(t, "friend@gmail.com", friend.Email)
		assert.Equal(t, "gmail.com", friend.Domain)
		assert.Equal(t, domain.FriendStatusPending, friend.Status)
		assert.Equal(t, "44444444", friend.AddedBy)
		assert.Equal(t, "dave", friend.AddedByUsername)
		assert.Equal(t, "Dave Referrer", friend.AddedByName)
		assert.NotEmpty(t, friend.ID)
		assert.NotEmpty(t, friend.AddedAt)

		// Referrer counters updated in the users collection
		user, err := userRepo.FindByUserID(ctx, "44444444")
		require.NoError(t, err)
		assert.Equal(t, 1, user.TotalFriends)
		assert.Equal(t, 1, user.PendingFriends)
		assert.Zero(t, user.VerifiedFriends)

		// Per-user document carries the friend and a log entry
		file, _, err := userFileRepo.Get(ctx, "44444444")
		require.NoError(t, err)
		require.Len(t, file.Friends, 1)
		assert.Equal(t, friend.ID, file.Friends[0].ID)
		require.Len(t, file.Activities, 1)
		assert.Equal(t, models.ActivityFriendAdded, file.Activities[0].Type)
		assert.Equal(t, friend.ID, file.Activities[0].FriendID)

		// Global friends collection carries the admin copy
		col, err := friendRepo.All(ctx)
		require.NoError(t, err)
		require.Len(t, col.Friends, 1)
		assert.Equal(t, friend.ID, col.Friends[0].ID)
	})

	t.Run("level rises with total friends", func(t *testing.T) {
		user := referrer()
		user.TotalFriends = 9
		user.PendingFriends = 9
		user.Level = 1
		svc, userRepo, _, _ := newTestReferralService(user)

		_, err := svc.AddFriend(ctx, "44444444", validAddFriend())
		require.NoError(t, err)

		updated, err := userRepo.FindByUserID(ctx, "44444444")
		require.NoError(t, err)
		assert.Equal(t, 10, updated.TotalFriends)
		assert.Equal(t, 2, updated.Level)
	})

	t.Run("lowercases and trims the email", func(t *testing.T) {
		svc, _, friendRepo, _ := newTestReferralService(referrer())
		input := validAddFriend()
		input.Email = "  Friend@GMAIL.com "

		friend, err := svc.AddFriend(ctx, "44444444", input)
		require.NoError(t, err)
		assert.Equal(t, "friend@gmail.com", friend.Email)

		col, err := friendRepo.All(ctx)
		require.NoError(t, err)
		require.Len(t, col.Friends, 1)
		assert.Equal(t, "friend@gmail.com", col.Friends[0].Email)
	})
}

func TestReferralService_ListFriends(t *testing.T) {
	ctx := context.Background()

	t.Run("missing per-user file means no friends", func(t *testing.T) {
		svc, _, _, _ := newTestReferralService(referrer())

		friends, err := svc.ListFriends(ctx, "44444444")
		require.NoError(t, err)
		assert.Empty(t, friends)
	})

	t.Run("newest first", func(t *testing.T) {
		svc, _, _, userFileRepo := newTestReferralService(referrer())
		userFileRepo.Save(ctx, "44444444", &models.UserFile{
			Friends: []models.Friend{
				{ID: "1", Email: "old@gmail.com", AddedAt: "2025-01-01T00:00:00.000Z"},
				{ID: "2", Email: "new@gmail.com", AddedAt: "2025-06-01T00:00:00.000Z"},
			},
		}, "", "seed")

		friends, err := svc.ListFriends(ctx, "44444444")
		require.NoError(t, err)
		require.Len(t, friends, 2)
		assert.Equal(t, "new@gmail.com", friends[0].Email)
		assert.Equal(t, "old@gmail.com", friends[1].Email)
	})
}

func TestReferralService_Summary(t *testing.T) {
	ctx := context.Background()

	user := referrer()
	user.Level = 3
	user.VerifiedFriends = 35
	svc, _, _, userFileRepo := newTestReferralService(user)
	userFileRepo.Save(ctx, "44444444", &models.UserFile{
		Friends: []models.Friend{
			{Status: domain.FriendStatusVerified, VerifiedAtVerifiedCount: 5},
			{Status: domain.FriendStatusVerified, VerifiedAtVerifiedCount: 25},
			{Status: domain.FriendStatusVerified, VerifiedAtVerifiedCount: 60},
			{Status: domain.FriendStatusPending},
		},
	}, "", "seed")

	summary, err := svc.Summary(ctx, "44444444")
	require.NoError(t, err)

	assert.Equal(t, "44444444", summary.UserID)
	assert.Equal(t, 3, summary.Level)
	assert.Equal(t, 35, summary.VerifiedFriends)
	assert.Equal(t, 110, summary.CurrentRate)
	// 90 + 100 + 130, each at the bracket in force when that friend verified
	assert.Equal(t, 320, summary.TotalEarnings)
}

func TestTotalEarnings(t *testing.T) {
	assert.Zero(t, TotalEarnings(nil))
	assert.Zero(t, TotalEarnings([]models.Friend{{Status: domain.FriendStatusPending}}))
	assert.Equal(t, 180, TotalEarnings([]models.Friend{
		{Status: domain.FriendStatusVerified, VerifiedAtVerifiedCount: 1},
		{Status: domain.FriendStatusVerified, VerifiedAtVerifiedCount: 20},
		{Status: domain.FriendStatusDeclined, VerifiedAtVerifiedCount: 90},
	}))
}
