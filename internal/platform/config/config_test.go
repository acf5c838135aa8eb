package config

import (
	"errors"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "LOG_LEVEL", "BACKEND_TIMEOUT", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST", "SHUTDOWN_TIMEOUT"} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "3000" {
		t.Errorf("Port = %q, want %q", cfg.Port, "3000")
	}
	if cfg.LogLevel != "ERROR" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "ERROR")
	}
	if cfg.BackendTimeout != 30*time.Second {
		t.Errorf("BackendTimeout = %s, want 30s", cfg.BackendTimeout)
	}
	if cfg.RateLimitRPS != 5 || cfg.RateLimitBurst != 10 {
		t.Errorf("rate limit = %d/%d, want 5/10", cfg.RateLimitRPS, cfg.RateLimitBurst)
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr error
	}{
		{name: "non numeric port", env: map[string]string{"PORT": "abc"}, wantErr: errInvalidPort},
		{name: "port out of range", env: map[string]string{"PORT": "70000"}, wantErr: errInvalidPort},
		{name: "negative timeout", env: map[string]string{"BACKEND_TIMEOUT": "-1s"}, wantErr: errInvalidTimeout},
		{name: "zero rps", env: map[string]string{"RATE_LIMIT_RPS": "0"}, wantErr: errInvalidRateLimit},
		{name: "zero shutdown", env: map[string]string{"SHUTDOWN_TIMEOUT": "0s"}, wantErr: errInvalidShutdownTTL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Load() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_UnparsableFallsBackToDefault(t *testing.T) {
	t.Setenv("BACKEND_TIMEOUT", "soon")
	t.Setenv("RATE_LIMIT_BURST", "many")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.BackendTimeout != 30*time.Second {
		t.Errorf("BackendTimeout = %s, want 30s", cfg.BackendTimeout)
	}
	if cfg.RateLimitBurst != 10 {
		t.Errorf("RateLimitBurst = %d, want 10", cfg.RateLimitBurst)
	}
}

func TestBackendOrigin(t *testing.T) {
	t.Setenv("BACKEND_ORIGIN", "")
	t.Setenv("API_URL", "")
	if got := BackendOrigin(); got != DefaultBackendOrigin {
		t.Errorf("BackendOrigin() = %q, want %q", got, DefaultBackendOrigin)
	}

	t.Setenv("API_URL", "http://api:8080/api/v1")
	if got := BackendOrigin(); got != "http://api:8080/api/v1" {
		t.Errorf("BackendOrigin() = %q, want API_URL value", got)
	}

	// Re-read on every call, and BACKEND_ORIGIN wins.
	t.Setenv("BACKEND_ORIGIN", "http://backend:9090")
	if got := BackendOrigin(); got != "http://backend:9090" {
		t.Errorf("BackendOrigin() = %q, want %q", got, "http://backend:9090")
	}
}
