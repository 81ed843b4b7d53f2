package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("ZOOM_ACCOUNT_ID", "account")
	t.Setenv("ZOOM_CLIENT_ID", "client")
	t.Setenv("ZOOM_CLIENT_SECRET", "secret")
}

func TestLoadFromEnv(t *testing.T) {
	t.Run("applies defaults", func(t *testing.T) {
		setRequired(t)
		t.Setenv("ADMIN_USER", "admin")
		t.Setenv("ADMIN_PASS", "hunter2")

		cfg, err := LoadFromEnv()
		require.NoError(t, err)

		assert.Equal(t, 3000, cfg.Port)
		assert.Equal(t, ":3000", cfg.ListenAddress())
		assert.Equal(t, "https://zoom.us/oauth/token", cfg.ZoomTokenURL)
		assert.Equal(t, "https://api.zoom.us/v2", cfg.ZoomAPIBaseURL)
		assert.Equal(t, 300, cfg.ZoomUsersPageSize)
		assert.Equal(t, 300, cfg.ZoomMeetingsPageSize)
		assert.Equal(t, 30, cfg.ZoomLiveMeetingsPageSize)
		assert.Equal(t, 4, cfg.ZoomFetchConcurrency)
		assert.Equal(t, time.Duration(0), cfg.ZoomRequestTimeout)
		assert.Equal(t, 24*time.Hour, cfg.SessionLifetime)
		assert.False(t, cfg.SessionCookieSecure)
		assert.True(t, cfg.IsEnvProduction())
		assert.False(t, cfg.UsesCredentialsFile())
	})

	t.Run("reads overrides", func(t *testing.T) {
		setRequired(t)
		t.Setenv("CREDENTIALS_FILE", "users.json")
		t.Setenv("PORT", "8081")
		t.Setenv("ENVIRONMENT", "dev")
		t.Setenv("ZOOM_FETCH_CONCURRENCY", "1")
		t.Setenv("SESSION_LIFETIME", "30m")

		cfg, err := LoadFromEnv()
		require.NoError(t, err)

		assert.Equal(t, ":8081", cfg.ListenAddress())
		assert.False(t, cfg.IsEnvProduction())
		assert.True(t, cfg.UsesCredentialsFile())
		assert.Equal(t, 1, cfg.ZoomFetchConcurrency)
		assert.Equal(t, 30*time.Minute, cfg.SessionLifetime)
	})

	t.Run("requires the Zoom credentials", func(t *testing.T) {
		setRequired(t)
		os.Unsetenv("ZOOM_ACCOUNT_ID")
		t.Setenv("CREDENTIALS_FILE", "users.json")

		_, err := LoadFromEnv()
		assert.Error(t, err)
	})

	t.Run("requires a credential source", func(t *testing.T) {
		setRequired(t)
		t.Setenv("ADMIN_USER", "admin")
		t.Setenv("ADMIN_PASS", "")
		t.Setenv("CREDENTIALS_FILE", "")

		_, err := LoadFromEnv()
		assert.ErrorIs(t, err, ErrNoCredentialSource)
	})
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			AdminUser:                "admin",
			AdminPass:                "pass",
			ZoomUsersPageSize:        300,
			ZoomMeetingsPageSize:     300,
			ZoomLiveMeetingsPageSize: 30,
			ZoomFetchConcurrency:     1,
		}
	}

	assert.NoError(t, valid().Validate())

	cfg := valid()
	cfg.ZoomLiveMeetingsPageSize = 0
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidPageSize)

	cfg = valid()
	cfg.ZoomFetchConcurrency = 0
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidConcurrency)
}

func TestStringRedactsSecrets(t *testing.T) {
	cfg := Config{
		ZoomClientID:     "client-id",
		ZoomClientSecret: "top-secret",
		AdminUser:        "admin",
		AdminPass:        "hunter2",
	}

	out := cfg.String()
	assert.Contains(t, out, "client-id")
	assert.Contains(t, out, "admin")
	assert.NotContains(t, out, "top-secret")
	assert.NotContains(t, out, "hunter2")
	assert.Equal(t, "top-secret", cfg.ZoomClientSecret)
}
