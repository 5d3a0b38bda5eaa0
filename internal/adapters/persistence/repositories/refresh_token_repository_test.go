package repositories

import (
	"context"
	"testing"
	"time"

	"kidwallet-api/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefreshTokenRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("create and look up", func(t *testing.T) {
		repo := NewRefreshTokenRepository()

		err := repo.Create(ctx, &RefreshToken{
			UserID:    "12345678",
			TokenHash: "hash-1",
			ExpiresAt: time.Now().Add(time.Hour),
		})
		require.NoError(t, err)

		token, err := repo.GetByTokenHash(ctx, "hash-1")
		require.NoError(t, err)
		assert.Equal(t, "12345678", token.UserID)
		assert.False(t, token.IsRevoked())
		assert.False(t, token.IsExpired())
		assert.False(t, token.CreatedAt.IsZero())
	})

	t.Run("unknown hash", func(t *testing.T) {
		repo := NewRefreshTokenRepository()

		_, err := repo.GetByTokenHash(ctx, "missing")
		assert.ErrorIs(t, err, domain.ErrNotFound)

		assert.ErrorIs(t, repo.RevokeByTokenHash(ctx, "missing"), domain.ErrNotFound)
	})

	t.Run("revoke single token", func(t *testing.T) {
		repo := NewRefreshTokenRepository()
		require.NoError(t, repo.Create(ctx, &RefreshToken{
			UserID: "12345678", TokenHash: "hash-1", ExpiresAt: time.Now().Add(time.Hour),
		}))

		require.NoError(t, repo.RevokeByTokenHash(ctx, "hash-1"))

		token, err := repo.GetByTokenHash(ctx, "hash-1")
		require.NoError(t, err)
		assert.True(t, token.IsRevoked())
	})

	t.Run("revoke all for one user only", func(t *testing.T) {
		repo := NewRefreshTokenRepository()
		require.NoError(t, repo.Create(ctx, &RefreshToken{
			UserID: "12345678", TokenHash: "hash-1", ExpiresAt: time.Now().Add(time.Hour),
		}))
		require.NoError(t, repo.Create(ctx, &RefreshToken{
			UserID: "12345678", TokenHash: "hash-2", ExpiresAt: time.Now().Add(time.Hour),
		}))
		require.NoError(t, repo.Create(ctx, &RefreshToken{
			UserID: "87654321", TokenHash: "hash-3", ExpiresAt: time.Now().Add(time.Hour),
		}))

		require.NoError(t, repo.RevokeAllByUserID(ctx, "12345678"))

		for _, hash := range []string{"hash-1", "hash-2"} {
			token, err := repo.GetByTokenHash(ctx, hash)
			require.NoError(t, err)
			assert.True(t, token.IsRevoked(), hash)
		}
		other, err := repo.GetByTokenHash(ctx, "hash-3")
		require.NoError(t, err)
		assert.False(t, other.IsRevoked())
	})

	t.Run("delete expired and revoked", func(t *testing.T) {
		repo := NewRefreshTokenRepository()
		require.NoError(t, repo.Create(ctx, &RefreshToken{
			UserID: "12345678", TokenHash: "live", ExpiresAt: time.Now().Add(time.Hour),
		}))
		require.NoError(t, repo.Create(ctx, &RefreshToken{
			UserID: "12345678", TokenHash: "expired", ExpiresAt: time.Now().Add(-time.Hour),
		}))
		require.NoError(t, repo.Create(ctx, &RefreshToken{
			UserID: "12345678", TokenHash: "revoked", ExpiresAt: time.Now().Add(time.Hour),
		}))
		require.NoError(t, repo.RevokeByTokenHash(ctx, "revoked"))

		removed, err := repo.DeleteExpired(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, removed)

		_, err = repo.GetByTokenHash(ctx, "live")
		assert.NoError(t, err)
		_, err = repo.GetByTokenHash(ctx, "expired")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}
