// Package config loads application configuration from the environment.
//
// Configuration is read once at process start and treated as immutable.
// Missing required values are reported together as a single ConfigError
// so the operator can fix everything in one pass; there is no silent
// fallback for credentials.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Environment variable names for the Google OAuth client.
const (
	EnvClientID     = "GOOGLE_CLIENT_ID"
	EnvClientSecret = "GOOGLE_CLIENT_SECRET"
	EnvRedirectURI  = "OAUTH_REDIRECT_URI"
)

// ConfigError indicates missing or invalid startup configuration.
// It is fatal: callers are expected to exit rather than degrade.
type ConfigError struct {
	Missing []string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("required environment variables are not set: %s", strings.Join(e.Missing, ", "))
}

// Config holds the application configuration.
type Config struct {
	// Google OAuth client
	GoogleClientID     string
	GoogleClientSecret string
	OAuthRedirectURI   string

	// Persisted state
	TokenPath    string
	HabitsDBPath string

	// Server
	ServerAddr string

	// Aggregation
	FetchTimeout time.Duration

	// Logging
	LogLevel string
}

// Load reads the configuration from the environment. Google credentials
// are not validated here; call ValidateGoogle before any live API use so
// that mock-only modes work without a Google project.
func Load() *Config {
	return &Config{
		GoogleClientID:     os.Getenv(EnvClientID),
		GoogleClientSecret: os.Getenv(EnvClientSecret),
		OAuthRedirectURI:   os.Getenv(EnvRedirectURI),
		TokenPath:          getEnvString("DAYDASH_TOKEN_PATH", defaultTokenPath()),
		HabitsDBPath:       getEnvString("DAYDASH_HABITS_DB", defaultHabitsDBPath()),
		ServerAddr:         getEnvString("DAYDASH_ADDR", ":8080"),
		FetchTimeout:       getEnvDuration("DAYDASH_FETCH_TIMEOUT", 10*time.Second),
		LogLevel:           getEnvString("DAYDASH_LOG_LEVEL", "info"),
	}
}

// ValidateGoogle checks that the OAuth client configuration is complete.
// It returns a *ConfigError naming every missing variable.
func (c *Config) ValidateGoogle() error {
	var missing []string
	if c.GoogleClientID == "" {
		missing = append(missing, EnvClientID)
	}
	if c.GoogleClientSecret == "" {
		missing = append(missing, EnvClientSecret)
	}
	if c.OAuthRedirectURI == "" {
		missing = append(missing, EnvRedirectURI)
	}
	if len(missing) > 0 {
		return &ConfigError{Missing: missing}
	}
	return nil
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}

func defaultTokenPath() string {
	return filepath.Join(userCacheDir(), "daydash", "google-token.json")
}

func defaultHabitsDBPath() string {
	return filepath.Join(userCacheDir(), "daydash", "habits.db")
}

func userCacheDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return dir
	}
	return "."
}
