package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("ENV", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.AppEnv)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 5*time.Minute, cfg.AuthCodeTTL)
	assert.False(t, cfg.IsProd())
	assert.Contains(t, cfg.AllowedOrigins, "http://localhost:3000")
}

func TestLoad_InvalidDuration(t *testing.T) {
	t.Setenv("SESSION_TTL", "soon")

	_, err := Load()
	assert.ErrorContains(t, err, "SESSION_TTL")
}

func TestLoad_ProdRequiresSecrets(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("DATABASE_URL", "postgres://u:p@db/tours")

	_, err := Load()
	assert.ErrorContains(t, err, "JWT_SECRET")
}

func TestLoad_ProdRequiresPostgres(t *testing.T) {
	t.Setenv("APP_ENV", "prod")
	t.Setenv("JWT_SECRET", "real-secret")
	t.Setenv("SEARCH_SYNC_KEY", "real-key")
	t.Setenv("DATABASE_URL", "tours.db")

	_, err := Load()
	assert.ErrorContains(t, err, "PostgreSQL")
}

func TestLoad_ProdOK(t *testing.T) {
	t.Setenv("APP_ENV", "release")
	t.Setenv("JWT_SECRET", "real-secret")
	t.Setenv("SEARCH_SYNC_KEY", "real-key")
	t.Setenv("DATABASE_URL", "postgresql://u:p@db/tours")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://tours.example, https://admin.tours.example")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsProd())
	assert.Equal(t, []string{"https://tours.example", "https://admin.tours.example"}, cfg.AllowedOrigins)
}

func TestEnvPresence(t *testing.T) {
	t.Setenv("DATABASE_URL", "tours.db")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("SEARCH_SYNC_KEY", "k")

	got := EnvPresence()
	assert.Equal(t, map[string]bool{"DATABASE_URL": true, "JWT_SECRET": false, "SEARCH_SYNC_KEY": true}, got)
}

func TestLoadCacheConfig(t *testing.T) {
	t.Setenv("CACHE_ENABLED", "false")
	t.Setenv("CACHE_TTL", "bogus")

	cfg := LoadCacheConfig()
	assert.False(t, cfg.Enabled)
	assert.Equal(t, 30*time.Second, cfg.TTL)
	assert.Equal(t, "tours-cache", cfg.Prefix)
}
