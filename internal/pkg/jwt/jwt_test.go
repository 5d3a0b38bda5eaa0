package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestAccessTokenRoundTrip(t *testing.T) {
	token, err := GenerateAccessToken("12345678", "alice", false, testSecret, 15)
	require.NoError(t, err)

	claims, err := ValidateAccessToken(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "12345678", claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.False(t, claims.IsAdmin)
	assert.Equal(t, "kidwallet-api", claims.Issuer)
}

func TestAccessTokenAdminFlag(t *testing.T) {
	token, err := GenerateAccessToken("00000000", "admin", true, testSecret, 15)
	require.NoError(t, err)

	claims, err := ValidateAccessToken(token, testSecret)
	require.NoError(t, err)
	assert.True(t, claims.IsAdmin)
}

func TestAccessTokenWrongSecret(t *testing.T) {
	token, err := GenerateAccessToken("12345678", "alice", false, testSecret, 15)
	require.NoError(t, err)

	_, err = ValidateAccessToken(token, "other-secret")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestAccessTokenExpired(t *testing.T) {
	token, err := GenerateAccessToken("12345678", "alice", false, testSecret, -1)
	require.NoError(t, err)

	_, err = ValidateAccessToken(token, testSecret)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	token, err := GenerateRefreshToken("12345678", "token-id-1", testSecret, 7)
	require.NoError(t, err)

	claims, err := ValidateRefreshToken(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "12345678", claims.UserID)
	assert.Equal(t, "token-id-1", claims.TokenID)
}

func TestTokenKindsAreNotInterchangeable(t *testing.T) {
	refresh, err := GenerateRefreshToken("12345678", "token-id-1", testSecret, 7)
	require.NoError(t, err)

	// A refresh token parsed as an access token has no username claim
	claims, err := ValidateAccessToken(refresh, testSecret)
	require.NoError(t, err)
	assert.Empty(t, claims.Username)
}
