// Package config contains everything related to configuration
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	AppID                 string
	ClientToken           string
	AccessToken           string
	GraphBaseURL          string
	GraphAPIVersion       string
	DatabasePath          string
	MetricsAddr           string
	LogFile               string
	HTTPTimeout           time.Duration
	MaxConcurrentRequests int
	DefaultRangeDays      int
	DesktopNotifications  bool
	Debug                 bool
}

// Default values
const (
	defaultHTTPTimeout           = 30 * time.Second
	defaultMaxConcurrentRequests = 5
	defaultRangeDays             = 28
	defaultDatabasePath          = ":memory:"

	// maxRangeDays mirrors the longest window the insights API accepts.
	maxRangeDays = 93
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
		AppID:                 getEnvString("GRAPH_APP_ID", AppID),
		ClientToken:           getEnvString("GRAPH_CLIENT_TOKEN", ""),
		AccessToken:           getEnvString("GRAPH_ACCESS_TOKEN", ""),
		GraphBaseURL:          strings.TrimRight(getEnvString("GRAPH_BASE_URL", defaultGraphBaseURL), "/"),
		GraphAPIVersion:       getEnvString("GRAPH_API_VERSION", defaultGraphAPIVersion),
		DatabasePath:          getEnvString("DATABASE_PATH", defaultDatabasePath),
		MetricsAddr:           getEnvString("METRICS_ADDR", ""),
		LogFile:               getEnvString("LOG_FILE", ""),
		HTTPTimeout:           getEnvDuration("HTTP_TIMEOUT", defaultHTTPTimeout),
		MaxConcurrentRequests: getEnvInt("MAX_CONCURRENT_REQUESTS", defaultMaxConcurrentRequests),
		DefaultRangeDays:      getEnvInt("DEFAULT_RANGE_DAYS", defaultRangeDays),
		DesktopNotifications:  getEnvBool("DESKTOP_NOTIFICATIONS", true),
		Debug:                 getEnvBool("DEBUG", false),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that the configuration can be used to log in and fetch data.
func (c *Config) Validate() error {
	if c.AppID == "" {
		return fmt.Errorf("GRAPH_APP_ID is required")
	}
	if c.ClientToken == "" && c.AccessToken == "" {
		return fmt.Errorf("either GRAPH_CLIENT_TOKEN (device login) or GRAPH_ACCESS_TOKEN is required")
	}
	if c.MaxConcurrentRequests < 1 {
		return fmt.Errorf("MAX_CONCURRENT_REQUESTS must be at least 1, got %d", c.MaxConcurrentRequests)
	}
	if c.DefaultRangeDays < 0 || c.DefaultRangeDays > maxRangeDays {
		return fmt.Errorf("DEFAULT_RANGE_DAYS must be between 0 and %d, got %d", maxRangeDays, c.DefaultRangeDays)
	}
	return nil
}

// UsesDeviceLogin reports whether login goes through the device flow
// rather than a pre-issued access token.
func (c *Config) UsesDeviceLogin() bool {
	return c.AccessToken == ""
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
			filepath.Join(home, ".config", "insights-tui", ".env"),
			filepath.Join(home, ".insights-tui", ".env"),
		)
	}

	// Parent directories (useful for development)
	if cwd, err := os.Getwd(); err == nil {
		parent := filepath.Dir(cwd)
		paths = append(paths, filepath.Join(parent, ".env"))
	}

	return paths
}

// getEnvString retrieves a string environment variable or returns the default.
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
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

// getEnvInt retrieves an integer environment variable or returns the default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

// getEnvBool retrieves a boolean environment variable or returns the default.
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
