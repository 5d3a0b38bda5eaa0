package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("requires store coordinates", func(t *testing.T) {
		t.Setenv("APP_MODE", "dev")
		t.Setenv("GITHUB_REPO", "")
		t.Setenv("GITHUB_TOKEN", "")

		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("rejects unknown app mode", func(t *testing.T) {
		t.Setenv("APP_MODE", "staging")

		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("loads defaults", func(t *testing.T) {
		t.Setenv("APP_MODE", "dev")
		t.Setenv("GITHUB_REPO", "owner/data-repo")
		t.Setenv("GITHUB_TOKEN", "token")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "3000", cfg.Port)
		assert.True(t, cfg.IsDev())
		assert.Equal(t, "https://api.github.com", cfg.GitHub.APIURL)
		assert.Equal(t, 15, cfg.JWT.AccessTokenMins)
		assert.Equal(t, 7, cfg.JWT.RefreshTokenDays)
		assert.Empty(t, cfg.Admin.Password)
		assert.Len(t, cfg.AllowedEmailDomains, 10)
	})

	t.Run("parses custom domain allow-list", func(t *testing.T) {
		t.Setenv("APP_MODE", "dev")
		t.Setenv("GITHUB_REPO", "owner/data-repo")
		t.Setenv("GITHUB_TOKEN", "token")
		t.Setenv("ALLOWED_EMAIL_DOMAINS", "Gmail.com, example.org ,")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, []string{"gmail.com", "example.org"}, cfg.AllowedEmailDomains)
	})
}

func TestIsEmailDomainAllowed(t *testing.T) {
	cfg := &Config{AllowedEmailDomains: []string{"gmail.com", "yahoo.com"}}

	assert.True(t, cfg.IsEmailDomainAllowed("gmail.com"))
	assert.True(t, cfg.IsEmailDomainAllowed("GMAIL.COM"))
	assert.False(t, cfg.IsEmailDomainAllowed("randommail.org"))
}
