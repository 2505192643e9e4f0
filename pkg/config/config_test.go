package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "DB_DRIVER", "DB_DSN", "DB_AUTO_MIGRATE", "JWT_SECRET", "TOKEN_TTL",
		"CORS_ORIGINS", "SUPERADMIN_USERNAME", "SUPERADMIN_PASSWORD", "LOG_LEVEL", "LOG_FORMAT", "TRUSTED_PROXIES"} {
		t.Setenv(k, "")
	}

	cfg := Load()
	assert.Equal(t, "8081", cfg.Port)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.True(t, cfg.DBAutoMigrate)
	assert.Equal(t, 7*24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, "superadmin", cfg.SuperadminUsername)
	assert.Equal(t, "admin123", cfg.SuperadminPassword)
	assert.Empty(t, cfg.TrustedProxies)
	assert.True(t, cfg.UsesDevSecret())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("DB_DSN", "file::memory:")
	t.Setenv("DB_AUTO_MIGRATE", "no")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("TOKEN_TTL", "1h")
	t.Setenv("CORS_ORIGINS", "http://a.example, http://b.example ,")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8, 127.0.0.1")

	cfg := Load()
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.False(t, cfg.DBAutoMigrate)
	assert.Equal(t, time.Hour, cfg.TokenTTL)
	assert.Equal(t, []string{"http://a.example", "http://b.example"}, cfg.CORSOrigins)
	assert.Equal(t, []string{"10.0.0.0/8", "127.0.0.1"}, cfg.TrustedProxies)
	assert.False(t, cfg.UsesDevSecret())
	require.NoError(t, cfg.Validate())
}

func TestInvalidNumbersFallBackToDefaults(t *testing.T) {
	t.Setenv("TOKEN_TTL", "a week")
	t.Setenv("LOGIN_MAX_ATTEMPTS", "many")

	cfg := Load()
	assert.Equal(t, 7*24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 5, cfg.LoginMaxAttempts)
}

func TestValidateCollectsAllErrors(t *testing.T) {
	cfg := &Config{
		Port:               "99999",
		DBDriver:           "mongo",
		TokenTTL:           time.Second,
		SuperadminUsername: "superadmin",
		SuperadminPassword: "admin123",
		JWTSecret:          "x",
		LoginMaxAttempts:   5,
		LogLevel:           "loud",
		LogFormat:          "xml",
		TrustedProxies:     []string{"10.0.0.0/8", "proxy.local"},
	}
	err := cfg.Validate()
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "invalid port 99999")
	assert.Contains(t, msg, "invalid DB_DRIVER 'mongo'")
	assert.Contains(t, msg, "DB_DSN is not set")
	assert.Contains(t, msg, "invalid TOKEN_TTL")
	assert.Contains(t, msg, "invalid LOG_LEVEL 'loud'")
	assert.Contains(t, msg, "invalid LOG_FORMAT 'xml'")
	assert.Contains(t, msg, "invalid TRUSTED_PROXIES entry 'proxy.local'")
	assert.NotContains(t, msg, "10.0.0.0/8")
}
