package config

import (
	"testing"

	"browsing-agent/internal/infrastructure/env"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Setenv("OPENROUTER_API_KEY", "key")
	t.Setenv("OPENROUTER_MODEL_NAME", "main-model")
	t.Setenv("VISION_MODEL_NAME", "vision-model")
	t.Setenv("BROWSER_HEADLESS", "true")
	t.Setenv("CHROME_PROFILE_PATH", "/chrome/Profile 1")
	t.Setenv("MAX_ITERATIONS", "20")

	cfg, err := Load(&env.EnvService{})
	require.NoError(t, err)

	assert.Equal(t, "key", cfg.OpenRouterAPIKey)
	assert.Equal(t, "vision-model", cfg.VisionModel)
	assert.Equal(t, "main-model", cfg.SummaryModel)
	assert.Equal(t, "https://openrouter.ai/api/v1", cfg.OpenRouterBaseURL)
	assert.True(t, cfg.Headless)
	assert.False(t, cfg.FullPageScreenshot)
	assert.Equal(t, "/chrome/Profile 1", cfg.ProfilePath)
	assert.Equal(t, 20, cfg.MaxIterations)
	assert.Equal(t, DefaultLogDir, cfg.LogDir)
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
}

func TestLoad_MissingKeys(t *testing.T) {
	t.Setenv("OPENROUTER_API_KEY", "")
	t.Setenv("OPENROUTER_MODEL_NAME", "")

	_, err := Load(&env.EnvService{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "OPENROUTER_API_KEY is missing")
	assert.Contains(t, err.Error(), "OPENROUTER_MODEL_NAME is missing")
}

func TestValidate_MaxIterations(t *testing.T) {
	cfg := Config{OpenRouterAPIKey: "k", OpenRouterModel: "m", MaxIterations: 0}

	assert.Error(t, cfg.Validate())
}

func TestFromEnv_LeavesValidationToCaller(t *testing.T) {
	t.Setenv("OPENROUTER_API_KEY", "")
	t.Setenv("OPENROUTER_MODEL_NAME", "main-model")
	t.Setenv("MAX_ITERATIONS", "0")

	cfg := FromEnv(&env.EnvService{})
	assert.Equal(t, "main-model", cfg.SummaryModel)
	require.Error(t, cfg.Validate())

	cfg.OpenRouterAPIKey = "from-flag"
	cfg.MaxIterations = 5
	assert.NoError(t, cfg.Validate())
}
