package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, 5*time.Minute, cfg.AccessTokenLifetime)
	assert.Equal(t, 24*time.Hour, cfg.RefreshTokenLifetime)
	assert.Equal(t, "sql", cfg.BlacklistBackend)
	assert.False(t, cfg.IsProduction())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("ACCESS_TOKEN_LIFETIME", "90s")
	t.Setenv("REFRESH_TOKEN_LIFETIME", "garbage")
	t.Setenv("COOKIE_SECURE", "true")
	t.Setenv("CORS_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("MAX_REPLY_DEPTH", "8")

	cfg := Load()

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 90*time.Second, cfg.AccessTokenLifetime)
	assert.Equal(t, 24*time.Hour, cfg.RefreshTokenLifetime)
	assert.True(t, cfg.CookieSecure)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.Equal(t, 8, cfg.MaxReplyDepth)
}

func TestOpenSQLite(t *testing.T) {
	db, err := OpenSQL("sqlite", "file::memory:", false)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	_, err = OpenSQL("oracle", "", false)
	assert.Error(t, err)
}
