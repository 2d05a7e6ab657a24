package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("MENULENS_LLM_GEMINI_API_KEY", "test-key")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Server.LogLevel)
	assert.Equal(t, "./media", cfg.Server.MediaDir)

	assert.Empty(t, cfg.Cache.RedisAddress, "durable tier is disabled by default")
	assert.Equal(t, 7*24*time.Hour, cfg.Cache.TTL)
	assert.Equal(t, 5*time.Second, cfg.Cache.ProbeTimeout)

	assert.Equal(t, "test-key", cfg.LLM.GeminiAPIKey)
	assert.Equal(t, "gemini-2.0-flash", cfg.LLM.VisionModel)
	assert.Equal(t, "imagen-3.0-generate-002", cfg.LLM.ImageModel)

	assert.Equal(t, 2, cfg.Pipeline.BatchSize)
	assert.Equal(t, 500*time.Millisecond, cfg.Pipeline.BatchPause)
	assert.Equal(t, 3, cfg.Pipeline.TranslationAttempts)
	assert.Equal(t, 2*time.Second, cfg.Pipeline.TranslationBackoff)
	assert.Equal(t, 2, cfg.Pipeline.SynthesisAttempts)
	assert.Equal(t, time.Second, cfg.Pipeline.SynthesisBackoff)
	assert.Equal(t, 10, cfg.Pipeline.MinExtractedTextSize)
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Setenv("MENULENS_LLM_GEMINI_API_KEY", "test-key")
	t.Setenv("MENULENS_SERVER_PORT", "9090")
	t.Setenv("MENULENS_CACHE_REDIS_ADDRESS", "localhost:6379")
	t.Setenv("MENULENS_CACHE_TTL", "24h")
	t.Setenv("MENULENS_PIPELINE_BATCH_SIZE", "5")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "localhost:6379", cfg.Cache.RedisAddress)
	assert.Equal(t, 24*time.Hour, cfg.Cache.TTL)
	assert.Equal(t, 5, cfg.Pipeline.BatchSize)
}

func TestLoadRequiresAPIKey(t *testing.T) {
	t.Setenv("MENULENS_LLM_GEMINI_API_KEY", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation")
}

func TestLoadRejectsInvalidLogLevel(t *testing.T) {
	t.Setenv("MENULENS_LLM_GEMINI_API_KEY", "test-key")
	t.Setenv("MENULENS_SERVER_LOG_LEVEL", "chatty")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation")
}

func TestLoadRejectsInvalidPort(t *testing.T) {
	t.Setenv("MENULENS_LLM_GEMINI_API_KEY", "test-key")
	t.Setenv("MENULENS_SERVER_PORT", "70000")

	_, err := Load()
	require.Error(t, err)
}
