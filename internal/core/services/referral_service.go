package services

import (
	"context"
	"errors"
	"log"
	"sort"
	"strings"
	"time"

	"kidwallet-api/internal/adapters/persistence/models"
	"kidwallet-api/internal/adapters/persistence/repositories"
	"kidwallet-api/internal/config"
	"kidwallet-api/internal/core/domain"
	"kidwallet-api/internal/pkg/identifier"
	"kidwallet-api/internal/pkg/password"
)

// ReferralService handles friend referrals and the reward summary
type ReferralService struct {
	userRepo     repositories.UserRepository
	friendRepo   repositories.FriendRepository
	userFileRepo repositories.UserFileRepository
	cfg          *config.Config
}

// NewReferralService creates a new referral service
func NewReferralService(
	userRepo repositories.UserRepository,
	friendRepo repositories.FriendRepository,
	userFileRepo repositories.UserFileRepository,
	cfg *config.Config,
) *ReferralService {
	return &ReferralService{
		userRepo:     userRepo,
		friendRepo:   friendRepo,
		userFileRepo: userFileRepo,
		cfg:          cfg,
	}
}

// AddFriendInput represents an add-friend submission
type AddFriendInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Whatsapp string `json:"whatsapp"`
}

// TaskSummary is the reward summary shown on the task page
type TaskSummary struct {
	UserID          string `json:"userId"`
	Level           int    `json:"level"`
	VerifiedFriends int    `json:"verifiedFriends"`
	CurrentRate     int    `json:"currentRate"`
	TotalEarnings   int    `json:"totalEarnings"`
}

// AddFriend validates and records a new referral. The three writes
// (users.json, the per-user document, friends.json) are not atomic as a unit;
// a failure in the middle leaves the earlier writes in place and is surfaced
// to the caller as-is.
func (s *ReferralService) AddFriend(ctx context.Context, userID string, input *AddFriendInput) (*models.Friend, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	// 1. Validate the submission
	if !domain.IsValidEmailFormat(email) {
		return nil, domain.ErrInvalidEmail
	}
	if !s.cfg.IsEmailDomainAllowed(domain.EmailDomain(email)) {
		return nil, domain.ErrEmailNotAllowed
	}
	if !password.Validate(input.Password) {
		return nil, ErrPasswordTooShort
	}

	// 2. Reject a duplicate (email, addedBy) pair against the global collection
	friendCol, err := s.friendRepo.All(ctx)
	if err != nil {
		return nil, err
	}
	for i := range friendCol.Friends {
		if friendCol.Friends[i].Email == email && friendCol.Friends[i].AddedBy == userID {
			return nil, domain.ErrDuplicateFriend
		}
	}

	// 3. Load the users collection and locate the referrer
	userCol, err := s.userRepo.All(ctx)
	if err != nil {
		return nil, err
	}
	idx := -1
	for i := range userCol.Users {
		if userCol.Users[i].UserID == userID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, ErrUserNotFound
	}
	user := &userCol.Users[idx]

	// 4. Build the friend record
	now := time.Now()
	newFriend := models.Friend{
		ID:              identifier.NewRecordID(now),
		Email:           email,
		Domain:          domain.EmailDomain(email),
		Password:        input.Password,
		Whatsapp:        strings.TrimSpace(input.Whatsapp),
		AddedBy:         user.UserID,
		AddedByUsername: user.Username,
		AddedByName:     user.FullName,
		Status:          domain.FriendStatusPending,
		AddedAt:         models.Timestamp(now),
	}

	// 5. Update the referrer's counters and level
	user.TotalFriends++
	user.PendingFriends++
	user.Level = domain.LevelForTotal(user.TotalFriends)

	// 6. Write the users collection back
	if err := s.userRepo.Save(ctx, userCol, "User "+user.Username+" added a friend"); err != nil {
		return nil, err
	}

	// 7. Append the friend and an activity entry to the per-user document
	if file, sha, err := s.userFileRepo.Get(ctx, user.UserID); err == nil {
		if file.Friends == nil {
			file.Friends = []models.Friend{}
		}
		file.Friends = append(file.Friends, newFriend)
		file.User = user
		file.AppendActivity(models.Activity{
			Type:     models.ActivityFriendAdded,
			Date:     models.Timestamp(time.Now()),
			Message:  "Added friend email: " + email,
			FriendID: newFriend.ID,
		})
		if err := s.userFileRepo.Save(ctx, user.UserID, file, sha, "New friend added by "+user.Username); err != nil {
			return nil, err
		}
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	// 8. Append to the global friends collection for admin views
	friendCol.Friends = append(friendCol.Friends, newFriend)
	if err := s.friendRepo.Save(ctx, friendCol, "New friend added by "+user.Username); err != nil {
		return nil, err
	}

	log.Printf("✅ Friend added: %s by %s", email, user.Username)
	return &newFriend, nil
}

// ListFriends returns the user's referrals, newest first
func (s *ReferralService) ListFriends(ctx context.Context, userID string) ([]models.Friend, error) {
	file, _, err := s.userFileRepo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return []models.Friend{}, nil
		}
		return nil, err
	}

	friends := file.Friends
	if friends == nil {
		friends = []models.Friend{}
	}
	sort.SliceStable(friends, func(i, j int) bool {
		return friends[i].AddedAt > friends[j].AddedAt
	})
	return friends, nil
}

// Summary computes the task page figures from fresh store state
func (s *ReferralService) Summary(ctx context.Context, userID string) (*TaskSummary, error) {
	user, err := s.userRepo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	summary := &TaskSummary{
		UserID:          user.UserID,
		Level:           user.Level,
		VerifiedFriends: user.VerifiedFriends,
		CurrentRate:     domain.RateForVerified(user.VerifiedFriends),
	}

	file, _, err := s.userFileRepo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return summary, nil
		}
		return nil, err
	}
	summary.TotalEarnings = TotalEarnings(file.Friends)
	return summary, nil
}

// TotalEarnings folds the reward rate over verified friends. Each verified
// friend pays out at the rate bracket the referrer was in when that friend
// was verified.
func TotalEarnings(friends []models.Friend) int {
	total := 0
	for i := range friends {
		if friends[i].Status == domain.FriendStatusVerified {
			total += domain.RateForVerified(friends[i].VerifiedAtVerifiedCount)
		}
	}
	return total
}
