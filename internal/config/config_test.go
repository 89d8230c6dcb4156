package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, time.Hour, cfg.JWT.Expiration)
	assert.Equal(t, 100, cfg.API.MaxPageSize)
	assert.Equal(t, 10, cfg.API.DefaultPageSize)
	assert.Equal(t, 10000, cfg.YouTube.MaxDailyQuota)
	assert.Equal(t, 100, cfg.YouTube.QuotaPerSearch)
	assert.Equal(t, 500*time.Millisecond, cfg.YouTube.VariantDelay)
	assert.Equal(t, "gpt-3.5-turbo", cfg.OpenAI.Model)
	assert.Equal(t, []string{"/", "/articles", "/exercises"}, cfg.Sitemap.StaticPages)
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	yaml := []byte(`
server:
  address: ":9090"
database:
  driver: mongo
  name: fitness_test
jwt:
  secret: file-secret
  expiration: 30m
youtube:
  max_daily_quota: 500
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), yaml, 0o600))
	t.Setenv("OPENAI_API_KEY", "sk-from-env")
	t.Setenv("JWT_SECRET", "env-secret")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Address)
	assert.Equal(t, "mongo", cfg.Database.Driver)
	assert.Equal(t, "fitness_test", cfg.Database.Name)
	assert.Equal(t, 30*time.Minute, cfg.JWT.Expiration)
	assert.Equal(t, "env-secret", cfg.JWT.Secret)
	assert.Equal(t, "sk-from-env", cfg.OpenAI.APIKey)
	assert.Equal(t, 500, cfg.YouTube.MaxDailyQuota)
}

func TestRequireAPIKeys(t *testing.T) {
	var cfg Config
	assert.True(t, errors.Is(cfg.RequireOpenAI(), ErrMissingAPIKey))
	assert.True(t, errors.Is(cfg.RequireYouTube(), ErrMissingAPIKey))

	cfg.OpenAI.APIKey = "sk"
	cfg.YouTube.APIKey = "yt"
	assert.NoError(t, cfg.RequireOpenAI())
	assert.NoError(t, cfg.RequireYouTube())
}
