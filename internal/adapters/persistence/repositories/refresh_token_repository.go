package repositories

import (
	"context"
	"sync"
	"time"

	"kidwallet-api/internal/core/domain"
)

// refreshTokenRepository keeps issued refresh tokens in process memory.
// Sessions are local to one running instance; a restart invalidates them all.
type refreshTokenRepository struct {
	mu     sync.RWMutex
	tokens map[string]*RefreshToken // keyed by token hash
}

// NewRefreshTokenRepository creates a new in-memory refresh token repository
func NewRefreshTokenRepository() RefreshTokenRepository {
	return &refreshTokenRepository{
		tokens: make(map[string]*RefreshToken),
	}
}

// Create stores a new refresh token
func (r *refreshTokenRepository) Create(_ context.Context, token *RefreshToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if token.CreatedAt.IsZero() {
		token.CreatedAt = time.Now()
	}
	r.tokens[token.TokenHash] = token
	return nil
}

// GetByTokenHash looks up a token by its hash
func (r *refreshTokenRepository) GetByTokenHash(_ context.Context, tokenHash string) (*RefreshToken, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	token, ok := r.tokens[tokenHash]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return token, nil
}

// RevokeByTokenHash revokes a single token
func (r *refreshTokenRepository) RevokeByTokenHash(_ context.Context, tokenHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	token, ok := r.tokens[tokenHash]
	if !ok {
		return domain.ErrNotFound
	}
	if token.RevokedAt == nil {
		now := time.Now()
		token.RevokedAt = &now
	}
	return nil
}

// RevokeAllByUserID revokes every token of one user
func (r *refreshTokenRepository) RevokeAllByUserID(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	for _, token := range r.tokens {
		if token.UserID == userID && token.RevokedAt == nil {
			token.RevokedAt = &now
		}
	}
	return nil
}

// DeleteExpired drops expired and revoked tokens, returning how many
func (r *refreshTokenRepository) DeleteExpired(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for hash, token := range r.tokens {
		if token.IsExpired() || token.IsRevoked() {
			delete(r.tokens, hash)
			removed++
		}
	}
	return removed, nil
}
