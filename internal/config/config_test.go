package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/candidate-matcher/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "dev", cfg.AppEnv)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 300*time.Second, cfg.CatalogTTL)
	assert.Equal(t, 100, cfg.CatalogMaxRows)
	assert.Equal(t, 50, cfg.FilterMaxJobs)
	assert.Equal(t, "off", cfg.AIProvider)
	assert.True(t, cfg.IsDev())
	assert.False(t, cfg.AIEnabled())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_ENV", "prod")
	t.Setenv("JOBS_CSV_PATH", "/srv/jobs.csv")
	t.Setenv("CATALOG_TTL", "1m")
	t.Setenv("AI_PROVIDER", "openrouter")
	t.Setenv("OPENROUTER_API_KEY", "sk-test")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsProd())
	assert.Equal(t, "/srv/jobs.csv", cfg.JobsCSVPath)
	assert.Equal(t, time.Minute, cfg.CatalogTTL)
	assert.True(t, cfg.AIEnabled())
}

func TestAIEnabled_RequiresKey(t *testing.T) {
	t.Setenv("AI_PROVIDER", "gemini")
	cfg, err := config.Load()
	require.NoError(t, err)
	assert.False(t, cfg.AIEnabled(), "provider without key must stay disabled")
}

func TestGetAIBackoffConfig_TestEnv(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	cfg, err := config.Load()
	require.NoError(t, err)
	maxElapsed, initial, maxInterval, mult := cfg.GetAIBackoffConfig()
	assert.Less(t, maxElapsed, 10*time.Second)
	assert.Less(t, initial, time.Second)
	assert.Less(t, maxInterval, time.Second)
	assert.Equal(t, 2.0, mult)
}

func TestLoadRelevanceKeywords(t *testing.T) {
	t.Run("empty path keeps defaults", func(t *testing.T) {
		words, err := config.LoadRelevanceKeywords("")
		require.NoError(t, err)
		assert.Nil(t, words)
	})

	t.Run("yaml list", func(t *testing.T) {
		p := filepath.Join(t.TempDir(), "keywords.yaml")
		require.NoError(t, os.WriteFile(p, []byte("- Developer\n- ' data '\n- ''\n"), 0o600))
		words, err := config.LoadRelevanceKeywords(p)
		require.NoError(t, err)
		assert.Equal(t, []string{"developer", "data"}, words)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := config.LoadRelevanceKeywords(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
	})
}
