package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

// DefaultBackendOrigin is used when neither BACKEND_ORIGIN nor API_URL is set.
const DefaultBackendOrigin = "http://localhost:8080"

var (
	errInvalidPort        = errors.New("config: invalid PORT number")
	errInvalidTimeout     = errors.New("config: BACKEND_TIMEOUT must be positive")
	errInvalidRateLimit   = errors.New("config: RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
	errInvalidShutdownTTL = errors.New("config: SHUTDOWN_TIMEOUT must be positive")
)

// Config holds all application configuration loaded from environment variables.
// The backend origin is deliberately absent: it is resolved per call through
// BackendOrigin so that a changed environment takes effect without a restart.
type Config struct {
	Port            string
	LogLevel        string
	BackendTimeout  time.Duration
	RateLimitRPS    int
	RateLimitBurst  int
	ShutdownTimeout time.Duration
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (Config, error) {
	cfg := Config{
		Port:            getEnv("PORT", "3000"),
		LogLevel:        getEnv("LOG_LEVEL", "ERROR"),
		BackendTimeout:  getEnvAsDuration("BACKEND_TIMEOUT", 30*time.Second),
		RateLimitRPS:    getEnvAsInt("RATE_LIMIT_RPS", 5),
		RateLimitBurst:  getEnvAsInt("RATE_LIMIT_BURST", 10),
		ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
	}

	return cfg, cfg.Validate()
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	port, err := strconv.Atoi(c.Port)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("%w: %q", errInvalidPort, c.Port)
	}

	if c.BackendTimeout <= 0 {
		return fmt.Errorf("%w: got %s", errInvalidTimeout, c.BackendTimeout)
	}

	if c.RateLimitRPS < 1 || c.RateLimitBurst < 1 {
		return fmt.Errorf("%w: got %d/%d", errInvalidRateLimit, c.RateLimitRPS, c.RateLimitBurst)
	}

	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("%w: got %s", errInvalidShutdownTTL, c.ShutdownTimeout)
	}

	return nil
}

// BackendOrigin returns the configured backend origin as the operator wrote
// it. It reads the environment on every call.
func BackendOrigin() string {
	if v := os.Getenv("BACKEND_ORIGIN"); v != "" {
		return v
	}
	return getEnv("API_URL", DefaultBackendOrigin)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	s := os.Getenv(key)
	if s == "" {
		return fallback
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return v
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	s := os.Getenv(key)
	if s == "" {
		return fallback
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return v
}
