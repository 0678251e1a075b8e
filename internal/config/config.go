// Package config assembles the typed runtime configuration from the
// environment.
package config

import (
	"errors"
	"fmt"
	"strings"

	"browsing-agent/internal/application/port/output"
	"browsing-agent/internal/infrastructure/llm/openrouter"
)

const (
	DefaultMaxIterations = 50
	DefaultLogDir        = "log"
	DefaultLogLevel      = "info"
)

type Config struct {
	OpenRouterAPIKey  string
	OpenRouterModel   string
	OpenRouterBaseURL string
	// VisionModel classifies captcha tiles; SummaryModel summarizes pages.
	// Both default to OpenRouterModel.
	VisionModel  string
	SummaryModel string

	OpenAIAPIKey  string
	OpenAIBaseURL string

	Headless           bool
	ProfilePath        string
	FullPageScreenshot bool

	LogLevel    string
	LogDir      string
	MetricsAddr string
	ExportDir   string

	MaxIterations int
}

// Load reads and validates the configuration.
func Load(env output.ConfigPort) (Config, error) {
	cfg := FromEnv(env)
	return cfg, cfg.Validate()
}

// FromEnv reads the configuration without validating it, for callers that
// apply overrides first.
func FromEnv(env output.ConfigPort) Config {
	cfg := Config{
		OpenRouterAPIKey:   env.Get("OPENROUTER_API_KEY"),
		OpenRouterModel:    env.Get("OPENROUTER_MODEL_NAME"),
		OpenRouterBaseURL:  env.GetWithDefault("OPENROUTER_BASE_URL", openrouter.DefaultBaseURL),
		OpenAIAPIKey:       env.Get("OPENAI_API_KEY"),
		OpenAIBaseURL:      env.Get("OPENAI_BASE_URL"),
		Headless:           env.GetBool("BROWSER_HEADLESS", false),
		ProfilePath:        env.Get("CHROME_PROFILE_PATH"),
		FullPageScreenshot: env.GetBool("FULL_PAGE_SCREENSHOT", false),
		LogLevel:           env.GetWithDefault("LOG_LEVEL", DefaultLogLevel),
		LogDir:             env.GetWithDefault("LOG_DIR", DefaultLogDir),
		MetricsAddr:        env.Get("METRICS_ADDR"),
		ExportDir:          env.Get("EXPORT_DIR"),
		MaxIterations:      env.GetInt("MAX_ITERATIONS", DefaultMaxIterations),
	}
	cfg.VisionModel = env.GetWithDefault("VISION_MODEL_NAME", cfg.OpenRouterModel)
	cfg.SummaryModel = env.GetWithDefault("SUMMARY_MODEL_NAME", cfg.OpenRouterModel)
	return cfg
}

func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.OpenRouterAPIKey) == "" {
		errs = append(errs, errors.New("OPENROUTER_API_KEY is missing"))
	}
	if strings.TrimSpace(c.OpenRouterModel) == "" {
		errs = append(errs, errors.New("OPENROUTER_MODEL_NAME is missing"))
	}
	if c.MaxIterations <= 0 {
		errs = append(errs, fmt.Errorf("max iterations must be positive, got %d", c.MaxIterations))
	}
	return errors.Join(errs...)
}
