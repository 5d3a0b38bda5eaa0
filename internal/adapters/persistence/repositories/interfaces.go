package repositories

import (
	"context"
	"time"

	"kidwallet-api/internal/adapters/persistence/models"
)

// Every domain operation follows the store's read-modify-write contract:
// load a collection together with its version tag, mutate it in memory, and
// save it back carrying that same tag. The *Collection types keep the two
// pieces together so a save can never use a tag from a different read.

// UserCollection is the data/users.json document plus its version tag
type UserCollection struct {
	Users []models.User
	SHA   string
}

// FriendCollection is the data/friends.json document plus its version tag
type FriendCollection struct {
	Friends []models.Friend
	SHA     string
}

// WithdrawalCollection is the data/withdrawals.json document plus its version tag
type WithdrawalCollection struct {
	Withdrawals []models.Withdrawal
	SHA         string
}

// UserRepository defines access to the global users collection. Lookups that
// precede a save are done by the services on the loaded collection itself, so
// the interface stays read-collection / save-collection plus the one by-id
// lookup the session layer needs.
type UserRepository interface {
	All(ctx context.Context) (*UserCollection, error)
	Save(ctx context.Context, col *UserCollection, message string) error
	FindByUserID(ctx context.Context, userID string) (*models.User, error)
}

// FriendRepository defines access to the global friends collection
type FriendRepository interface {
	All(ctx context.Context) (*FriendCollection, error)
	Save(ctx context.Context, col *FriendCollection, message string) error
}

// WithdrawalRepository defines access to the global withdrawals collection
type WithdrawalRepository interface {
	All(ctx context.Context) (*WithdrawalCollection, error)
	Save(ctx context.Context, col *WithdrawalCollection, message string) error
}

// UserFileRepository defines access to the per-user aggregate documents
type UserFileRepository interface {
	// Get returns the document and its version tag; domain.ErrNotFound when absent
	Get(ctx context.Context, userID string) (*models.UserFile, string, error)
	Save(ctx context.Context, userID string, file *models.UserFile, sha, message string) error
}

// RefreshToken is one issued refresh token. Session state is process-local
// by design, so these never reach the document store.
type RefreshToken struct {
	UserID    string
	TokenHash string
	ExpiresAt time.Time
	CreatedAt time.Time
	RevokedAt *time.Time
}

func (rt *RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}

func (rt *RefreshToken) IsExpired() bool {
	return time.Now().After(rt.ExpiresAt)
}

// RefreshTokenRepository defines the in-process session token table
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *RefreshToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*RefreshToken, error)
	RevokeByTokenHash(ctx context.Context, tokenHash string) error
	RevokeAllByUserID(ctx context.Context, userID string) error
	DeleteExpired(ctx context.Context) (int, error)
}
