package env

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"browsing-agent/internal/application/port/output"

	"github.com/joho/godotenv"
)

var _ output.ConfigPort = (*EnvService)(nil)

type EnvService struct {
	// Loaded lists the env files that were found and applied.
	Loaded []string
}

// NewEnvService loads .env and then .env.<APP_ENV> (default dev) on top of
// the process environment. Missing files are skipped.
func NewEnvService() *EnvService {
	appEnv := os.Getenv("APP_ENV")
	if appEnv == "" {
		appEnv = "dev"
	}
	return LoadFiles(".env", fmt.Sprintf(".env.%s", appEnv))
}

// LoadFiles applies files in order; later files override earlier ones, and
// the first file never overrides variables already set in the process.
func LoadFiles(files ...string) *EnvService {
	e := &EnvService{}
	for i, f := range files {
		load := godotenv.Overload
		if i == 0 {
			load = godotenv.Load
		}
		if err := load(f); err == nil {
			e.Loaded = append(e.Loaded, f)
		}
	}
	return e
}

func (e *EnvService) Get(key string) string {
	return os.Getenv(key)
}

func (e *EnvService) MustGet(key string) string {
	val := os.Getenv(key)
	if val == "" {
		log.Fatalf("ENV %s is missing", key)
	}
	return val
}

func (e *EnvService) GetWithDefault(key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultValue
}

func (e *EnvService) GetBool(key string, defaultValue bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func (e *EnvService) GetInt(key string, defaultValue int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return parsed
}

// GetDuration accepts Go duration strings ("3s") or plain seconds ("3").
func (e *EnvService) GetDuration(key string, defaultValue time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(val); err == nil {
		return d
	}
	if secs, err := strconv.ParseFloat(val, 64); err == nil {
		return time.Duration(secs * float64(time.Second))
	}
	return defaultValue
}
