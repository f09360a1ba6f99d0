package config

import (
	"testing"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseConfig(t *testing.T, environ map[string]string) AppConfig {
	t.Helper()
	var cfg AppConfig
	require.NoError(t, env.ParseWithOptions(&cfg, env.Options{Environment: environ}))
	cfg.Sanitize()
	return cfg
}

func TestAppConfig_Defaults(t *testing.T) {
	cfg := parseConfig(t, map[string]string{})

	assert.False(t, cfg.IsDev)
	assert.Equal(t, 4000, cfg.HTTP.Port)
	assert.Equal(t, "http://localhost:3000", cfg.Auth.FrontendURL)
	assert.Equal(t, time.Hour, cfg.Auth.SessionTTL)
	assert.Equal(t, 10*time.Minute, cfg.Auth.StateTTL)
	assert.Equal(t, 10*time.Second, cfg.Auth.ProviderTimeout)
	assert.Empty(t, cfg.Auth.JWTSecret)
	assert.False(t, cfg.Auth.LinkedIn.Configured())
	assert.False(t, cfg.Auth.TikTok.Configured())
	assert.False(t, cfg.Postgres.Enabled())
	assert.False(t, cfg.Redis.Enabled())
}

func TestAppConfig_ProviderCredentials(t *testing.T) {
	cfg := parseConfig(t, map[string]string{
		"LINKEDIN_CLIENT_ID":     "li-id",
		"LINKEDIN_CLIENT_SECRET": "li-secret",
		"LINKEDIN_REDIRECT_URI":  "http://localhost:4000/auth/linkedin/callback",
		"TIKTOK_CLIENT_ID":       "tt-key",
	})

	assert.True(t, cfg.Auth.LinkedIn.Configured())
	// TikTok is missing its secret and redirect URI.
	assert.False(t, cfg.Auth.TikTok.Configured())
	assert.Equal(t, "tt-key", cfg.Auth.TikTok.ClientID)
}

func TestAppConfig_EnvOverrides(t *testing.T) {
	cfg := parseConfig(t, map[string]string{
		"PORT":            "8080",
		"FRONTEND_URL":    "https://app.example.com",
		"JWT_SECRET":      "super-secret",
		"SESSION_TTL":     "30m",
		"OAUTH_STATE_TTL": "5m",
		"DB_HOST":         "db.internal",
		"REDIS_ADDR":      "redis.internal:6379",
	})

	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, "https://app.example.com", cfg.Auth.FrontendURL)
	assert.Equal(t, "super-secret", cfg.Auth.JWTSecret)
	assert.Equal(t, 30*time.Minute, cfg.Auth.SessionTTL)
	assert.Equal(t, 5*time.Minute, cfg.Auth.StateTTL)
	assert.True(t, cfg.Postgres.Enabled())
	assert.True(t, cfg.Redis.Enabled())
}

func TestAppConfig_SanitizeClampsBadValues(t *testing.T) {
	cfg := parseConfig(t, map[string]string{
		"PORT":        "-1",
		"SESSION_TTL": "-5m",
	})

	assert.Equal(t, 4000, cfg.HTTP.Port)
	assert.Equal(t, time.Hour, cfg.Auth.SessionTTL)
}

func TestAppConfig_DevModeFromNodeEnv(t *testing.T) {
	t.Setenv("NODE_ENV", "development")

	cfg := parseConfig(t, map[string]string{})
	assert.True(t, cfg.IsDev)
}
