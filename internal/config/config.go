// Package config loads the process-wide configuration from environment
// variables, once, at startup.
//
// CONFIG AS IMMUTABLE STATE:
// Every value here is read exactly once in main() and treated as read-only
// afterwards. Nothing in the request path touches os.Getenv — handlers get
// what they need through constructor injection.
//
// WHY JWT_SECRET IS REQUIRED (no default):
// An earlier version of this system shipped with a fallback signing secret
// baked into the source. Anyone reading the code could mint valid tokens.
// Load refuses to start the server instead of silently defaulting.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
)

// Config holds the server configuration.
type Config struct {
	// Server
	Port    int
	BaseURL string // public-facing base URL, used to build OAuth redirect URIs

	// Storage
	DBPath string // SQLite database file, ":memory:" allowed for tests

	// Auth
	JWTSecret string // required — startup fails when absent

	// CORS
	AllowedOrigin string // "" means allow any origin (development)

	// Social login (optional — routes redirect with an error when unset)
	KakaoClientID  string
	NaverClientID  string
	GoogleClientID string

	// FrontendURL is where social-login error redirects land.
	FrontendURL string
}

// Load reads the configuration from the environment.
// It returns an error when JWT_SECRET is missing or PORT is malformed.
func Load() (*Config, error) {
	cfg := &Config{
		Port:           5000,
		DBPath:         "data/specia.db",
		FrontendURL:    "http://localhost:5500",
		JWTSecret:      os.Getenv("JWT_SECRET"),
		AllowedOrigin:  os.Getenv("ALLOWED_ORIGIN"),
		KakaoClientID:  os.Getenv("KAKAO_CLIENT_ID"),
		NaverClientID:  os.Getenv("NAVER_CLIENT_ID"),
		GoogleClientID: os.Getenv("GOOGLE_CLIENT_ID"),
	}

	if cfg.JWTSecret == "" {
		return nil, errors.New("config: JWT_SECRET must be set (generate one with `openssl rand -hex 32`)")
	}

	if portStr := os.Getenv("PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return nil, fmt.Errorf("config: invalid PORT %q: %w", portStr, err)
		}
		cfg.Port = port
	}

	if v := os.Getenv("DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("FRONTEND_URL"); v != "" {
		cfg.FrontendURL = v
	}

	cfg.BaseURL = os.Getenv("BASE_URL")
	if cfg.BaseURL == "" {
		cfg.BaseURL = fmt.Sprintf("http://localhost:%d", cfg.Port)
	}

	return cfg, nil
}
