package config

import (
	"strings"
	"testing"
)

func TestLoad_RequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	if err == nil {
		t.Fatal("Load() succeeded without JWT_SECRET; refusing to start is the whole point")
	}
	if !strings.Contains(err.Error(), "JWT_SECRET") {
		t.Errorf("error %q does not name the missing variable", err)
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret-at-least-16-chars!!")
	t.Setenv("PORT", "")
	t.Setenv("DB_PATH", "")
	t.Setenv("BASE_URL", "")
	t.Setenv("FRONTEND_URL", "")
	t.Setenv("ALLOWED_ORIGIN", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Port != 5000 {
		t.Errorf("Port = %d, want 5000", cfg.Port)
	}
	if cfg.DBPath != "data/specia.db" {
		t.Errorf("DBPath = %q", cfg.DBPath)
	}
	if cfg.BaseURL != "http://localhost:5000" {
		t.Errorf("BaseURL = %q, want derived from port", cfg.BaseURL)
	}
	if cfg.AllowedOrigin != "" {
		t.Errorf("AllowedOrigin = %q, want empty (allow-any in development)", cfg.AllowedOrigin)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret-at-least-16-chars!!")
	t.Setenv("PORT", "8080")
	t.Setenv("DB_PATH", ":memory:")
	t.Setenv("BASE_URL", "https://api.specia.example")
	t.Setenv("ALLOWED_ORIGIN", "https://specia.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Port != 8080 || cfg.DBPath != ":memory:" {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.BaseURL != "https://api.specia.example" {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
}

func TestLoad_BadPort(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret-at-least-16-chars!!")
	t.Setenv("PORT", "not-a-port")

	if _, err := Load(); err == nil {
		t.Fatal("Load() accepted a non-numeric PORT")
	}
}
