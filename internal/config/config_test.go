package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	_, err := Load()
	assert.ErrorIs(t, err, ErrMissingSecret)
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	// t.Setenv registers the restore; unset so the fallbacks apply
	for _, key := range []string{"PORT", "TOKEN_TTL", "DATABASE_PATH"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, "test-secret", cfg.JWTSecret)
	assert.Equal(t, 1000*time.Hour, cfg.TokenTTL)
	assert.Equal(t, "./devconnect.db", cfg.DatabasePath)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("PORT", "9999")
	t.Setenv("TOKEN_TTL", "24h")
	t.Setenv("DATABASE_PATH", "/tmp/test.db")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9999, cfg.ServerPort)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, "/tmp/test.db", cfg.DatabasePath)
}

func TestLoadBadValues(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	t.Setenv("PORT", "not-a-port")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("PORT", "8080")
	t.Setenv("TOKEN_TTL", "not-a-duration")
	_, err = Load()
	assert.Error(t, err)
}
