package services

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"

	"kidwallet-api/internal/adapters/persistence/models"
	"kidwallet-api/internal/adapters/persistence/repositories"
	"kidwallet-api/internal/config"
	"kidwallet-api/internal/core/domain"
)

// In-memory repository doubles with the same read-copy / save-replace
// semantics as the document-store-backed implementations.

func clone(dst, src interface{}) {
	raw, err := json.Marshal(src)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		panic(err)
	}
}

type memUserRepo struct {
	mu      sync.Mutex
	users   []models.User
	version int
	saves   int
}

func newMemUserRepo(users ...models.User) *memUserRepo {
	return &memUserRepo{users: users}
}

func (r *memUserRepo) All(ctx context.Context) (*repositories.UserCollection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	col := &repositories.UserCollection{SHA: strconv.Itoa(r.version)}
	clone(&col.Users, r.users)
	if col.Users == nil {
		col.Users = []models.User{}
	}
	return col, nil
}

func (r *memUserRepo) Save(ctx context.Context, col *repositories.UserCollection, message string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone(&r.users, col.Users)
	r.version++
	r.saves++
	return nil
}

func (r *memUserRepo) FindByUserID(ctx context.Context, userID string) (*models.User, error) {
	col, _ := r.All(ctx)
	for i := range col.Users {
		if col.Users[i].UserID == userID {
			return &col.Users[i], nil
		}
	}
	return nil, domain.ErrUserNotFound
}

type memFriendRepo struct {
	mu      sync.Mutex
	friends []models.Friend
	version int
}

func newMemFriendRepo(friends ...models.Friend) *memFriendRepo {
	return &memFriendRepo{friends: friends}
}

func (r *memFriendRepo) All(ctx context.Context) (*repositories.FriendCollection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	col := &repositories.FriendCollection{SHA: strconv.Itoa(r.version)}
	clone(&col.Friends, r.friends)
	if col.Friends == nil {
		col.Friends = []models.Friend{}
	}
	return col, nil
}

func (r *memFriendRepo) Save(ctx context.Context, col *repositories.FriendCollection, message string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone(&r.friends, col.Friends)
	r.version++
	return nil
}

type memWithdrawalRepo struct {
	mu          sync.Mutex
	withdrawals []models.Withdrawal
	version     int
}

func newMemWithdrawalRepo() *memWithdrawalRepo {
	return &memWithdrawalRepo{}
}

func (r *memWithdrawalRepo) All(ctx context.Context) (*repositories.WithdrawalCollection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	col := &repositories.WithdrawalCollection{SHA: strconv.Itoa(r.version)}
	clone(&col.Withdrawals, r.withdrawals)
	if col.Withdrawals == nil {
		col.Withdrawals = []models.Withdrawal{}
	}
	return col, nil
}

func (r *memWithdrawalRepo) Save(ctx context.Context, col *repositories.WithdrawalCollection, message string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone(&r.withdrawals, col.Withdrawals)
	r.version++
	return nil
}

type memUserFileRepo struct {
	mu      sync.Mutex
	files   map[string]*models.UserFile
	version int
}

func newMemUserFileRepo() *memUserFileRepo {
	return &memUserFileRepo{files: make(map[string]*models.UserFile)}
}

func (r *memUserFileRepo) Get(ctx context.Context, userID string) (*models.UserFile, string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.files[userID]
	if !ok {
		return nil, "", domain.ErrNotFound
	}
	file := &models.UserFile{}
	clone(file, stored)
	return file, strconv.Itoa(r.version), nil
}

func (r *memUserFileRepo) Save(ctx context.Context, userID string, file *models.UserFile, sha, message string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := &models.UserFile{}
	clone(stored, file)
	r.files[userID] = stored
	r.version++
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		AppMode: "dev",
		Port:    "3000",
		JWT: config.JWTConfig{
			Secret:           "test-secret",
			RefreshSecret:    "test-refresh-secret",
			AccessTokenMins:  15,
			RefreshTokenDays: 7,
		},
		Admin:               config.AdminConfig{Username: "admin"},
		AllowedEmailDomains: []string{"gmail.com", "yahoo.com"},
	}
}
