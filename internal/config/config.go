// Package config contains everything related to configuration
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	BaseURL         string
	Token           string
	Demo            bool
	DatabasePath    string
	CredentialsPath string
	PollInterval    time.Duration
}

// Default values
const (
	defaultPollInterval = 2 * time.Second
)

// Load reads configuration from .env files and environment variables.
func Load() (*Config, error) {
	// Try loading .env from multiple locations
	envPaths := getEnvPaths()
	for _, path := range envPaths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			break
		}
	}

	cfg := &Config{
		BaseURL:         getEnvString("GWADMIN_BASE_URL", ""),
		Token:           getEnvString("GWADMIN_TOKEN", ""),
		Demo:            getEnvBool("GWADMIN_DEMO", false),
		DatabasePath:    getEnvString("DATABASE_PATH", getDefaultDatabasePath()),
		CredentialsPath: getEnvString("CREDENTIALS_PATH", getDefaultCredentialsPath()),
		PollInterval:    getEnvDuration("GWADMIN_POLL_INTERVAL", defaultPollInterval),
	}

	// Env vars take priority; the credentials file fills whatever is missing.
	if cfg.BaseURL == "" || cfg.Token == "" {
		if creds := LoadCredentials(cfg.CredentialsPath); creds != nil {
			if cfg.BaseURL == "" {
				cfg.BaseURL = creds.BaseURL
			}
			if cfg.Token == "" {
				cfg.Token = creds.Token
			}
		}
	}

	if !cfg.Demo && cfg.BaseURL == "" {
		return nil, fmt.Errorf(
			"GWADMIN_BASE_URL is required (set via env, %s, or run with GWADMIN_DEMO=1)", cfg.CredentialsPath)
	}
	if cfg.Demo && cfg.BaseURL == "" {
		cfg.BaseURL = "http://demo.local"
	}

	// Ensure database directory exists
	if err := ensureDir(filepath.Dir(cfg.DatabasePath)); err != nil {
		return nil, err
	}

	return cfg, nil
}

// getEnvPaths returns a list of paths to check for .env files.
func getEnvPaths() []string {
	var paths []string

	// Current directory
	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, ".env"))
	}

	// Home directory locations
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths,
			filepath.Join(home, ".config", "gwadmin", ".env"),
			filepath.Join(home, ".gwadmin", ".env"),
		)
	}

	// Parent directories (useful for development)
	if cwd, err := os.Getwd(); err == nil {
		parent := filepath.Dir(cwd)
		paths = append(paths, filepath.Join(parent, ".env"))
	}

	return paths
}

// getDefaultDatabasePath returns the default path for the SQLite database.
func getDefaultDatabasePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "requests.db"
	}
	return filepath.Join(home, ".config", "gwadmin", "requests.db")
}

// getDefaultCredentialsPath returns the default path for the credentials JSON file.
func getDefaultCredentialsPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "gwadmin-credentials.json"
	}
	return filepath.Join(home, ".config", "gwadmin", "credentials.json")
}

// getEnvString retrieves a string environment variable or returns the default.
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool retrieves a boolean environment variable or returns the default.
// Accepts 1/0, true/false, yes/no.
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	switch value {
	case "1", "true", "yes":
		return true
	case "0", "false", "no":
		return false
	}
	if b, err := strconv.ParseBool(value); err == nil {
		return b
	}
	return defaultValue
}

// getEnvDuration retrieves a duration environment variable or returns the default.
// Accepts values like "30s", "1m", "500ms".
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		// Try parsing as seconds if no unit specified
		if secs, err := strconv.Atoi(value); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultValue
}

// ensureDir creates a directory and all parent directories if they don't exist.
func ensureDir(path string) error {
	if path == "" || path == "." {
		return nil
	}
	return os.MkdirAll(path, 0o750)
}
