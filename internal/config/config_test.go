package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// isolateEnv points the .env lookup chain at an empty directory and clears
// every key Load reads.
func isolateEnv(t *testing.T) {
	t.Helper()

	tmpDir := t.TempDir()
	wd, _ := os.Getwd()
	t.Cleanup(func() { _ = os.Chdir(wd) })
	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("Chdir failed: %v", err)
	}
	t.Setenv("HOME", tmpDir)

	for _, key := range []string{
		"GRAPH_APP_ID", "GRAPH_CLIENT_TOKEN", "GRAPH_ACCESS_TOKEN", "GRAPH_BASE_URL",
		"GRAPH_API_VERSION", "DATABASE_PATH", "METRICS_ADDR", "LOG_FILE", "HTTP_TIMEOUT",
		"MAX_CONCURRENT_REQUESTS", "DEFAULT_RANGE_DAYS", "DESKTOP_NOTIFICATIONS", "DEBUG",
	} {
		t.Setenv(key, "")
	}
}

func TestGetEnvString(t *testing.T) {
	key := "TEST_ENV_STRING"
	val := "test_value"
	os.Setenv(key, val)
	defer os.Unsetenv(key)

	if got := getEnvString(key, "default"); got != val {
		t.Errorf("getEnvString() = %q, want %q", got, val)
	}

	if got := getEnvString("NON_EXISTENT", "default"); got != "default" {
		t.Errorf("getEnvString() = %q, want %q", got, "default")
	}
}

func TestGetEnvDuration(t *testing.T) {
	key := "TEST_ENV_DURATION"

	tests := []struct {
		name       string
		envVal     string
		defaultVal time.Duration
		want       time.Duration
	}{
		{"ValidDuration", "1m", time.Second, time.Minute},
		{"ValidSeconds", "60", time.Second, 60 * time.Second},
		{"Invalid", "invalid", time.Second, time.Second},
		{"Empty", "", time.Second, time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(key, tt.envVal)

			if got := getEnvDuration(key, tt.defaultVal); got != tt.want {
				t.Errorf("getEnvDuration() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetEnvInt(t *testing.T) {
	key := "TEST_ENV_INT"

	tests := []struct {
		name   string
		envVal string
		want   int
	}{
		{"Valid", "12", 12},
		{"Negative", "-3", -3},
		{"Invalid", "twelve", 7},
		{"Empty", "", 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(key, tt.envVal)
			if got := getEnvInt(key, 7); got != tt.want {
				t.Errorf("getEnvInt() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestGetEnvBool(t *testing.T) {
	key := "TEST_ENV_BOOL"

	tests := []struct {
		name       string
		envVal     string
		defaultVal bool
		want       bool
	}{
		{"True", "true", false, true},
		{"One", "1", false, true},
		{"False", "false", true, false},
		{"Invalid", "maybe", true, true},
		{"Empty", "", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(key, tt.envVal)
			if got := getEnvBool(key, tt.defaultVal); got != tt.want {
				t.Errorf("getEnvBool() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetEnvPaths(t *testing.T) {
	paths := getEnvPaths()
	if len(paths) == 0 {
		t.Error("getEnvPaths() returned empty list")
	}

	// Basic check that it contains current directory
	cwd, _ := os.Getwd()
	found := false
	for _, p := range paths {
		if p == filepath.Join(cwd, ".env") {
			found = true
			break
		}
	}
	if !found {
		t.Error("getEnvPaths() missing current directory .env")
	}
}

func TestLoad(t *testing.T) {
	isolateEnv(t)
	t.Setenv("GRAPH_CLIENT_TOKEN", "client-token")
	t.Setenv("GRAPH_BASE_URL", "http://localhost:9999/")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.AppID != AppID {
		t.Errorf("AppID = %q, want build-time default %q", cfg.AppID, AppID)
	}
	if cfg.GraphBaseURL != "http://localhost:9999" {
		t.Errorf("GraphBaseURL = %q, trailing slash should be trimmed", cfg.GraphBaseURL)
	}
	if cfg.GraphAPIVersion != defaultGraphAPIVersion {
		t.Errorf("GraphAPIVersion = %q, want %q", cfg.GraphAPIVersion, defaultGraphAPIVersion)
	}
	if cfg.HTTPTimeout != defaultHTTPTimeout {
		t.Errorf("HTTPTimeout = %v, want %v", cfg.HTTPTimeout, defaultHTTPTimeout)
	}
	if cfg.DatabasePath != ":memory:" {
		t.Errorf("DatabasePath = %q, want :memory:", cfg.DatabasePath)
	}
	if !cfg.DesktopNotifications {
		t.Error("DesktopNotifications should default to true")
	}
	if !cfg.UsesDeviceLogin() {
		t.Error("UsesDeviceLogin() should be true without an access token")
	}
}

func TestLoad_AccessToken(t *testing.T) {
	isolateEnv(t)
	t.Setenv("GRAPH_ACCESS_TOKEN", "user-token")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.UsesDeviceLogin() {
		t.Error("UsesDeviceLogin() should be false when an access token is configured")
	}
}

func TestLoad_MissingCredentials(t *testing.T) {
	isolateEnv(t)

	_, err := Load()
	if err == nil {
		t.Fatal("Load() should fail when neither client token nor access token is set")
	}
	if !strings.Contains(err.Error(), "GRAPH_CLIENT_TOKEN") {
		t.Errorf("error should name the missing key, got %v", err)
	}
}

func TestLoad_WithEnvFile(t *testing.T) {
	isolateEnv(t)
	// godotenv.Load does not override variables that already exist, even empty ones.
	os.Unsetenv("GRAPH_CLIENT_TOKEN")
	os.Unsetenv("GRAPH_API_VERSION")

	content := "GRAPH_CLIENT_TOKEN=env-token\nGRAPH_API_VERSION=v21.0"
	if err := os.WriteFile(".env", []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.ClientToken != "env-token" {
		t.Errorf("ClientToken = %q, want env-token", cfg.ClientToken)
	}
	if cfg.GraphAPIVersion != "v21.0" {
		t.Errorf("GraphAPIVersion = %q, want v21.0", cfg.GraphAPIVersion)
	}
	os.Unsetenv("GRAPH_CLIENT_TOKEN")
	os.Unsetenv("GRAPH_API_VERSION")
}

func TestValidate(t *testing.T) {
	base := Config{
		AppID:                 "app",
		ClientToken:           "token",
		MaxConcurrentRequests: 1,
		DefaultRangeDays:      28,
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"Valid", func(c *Config) {}, false},
		{"MissingAppID", func(c *Config) { c.AppID = "" }, true},
		{"NoConcurrency", func(c *Config) { c.MaxConcurrentRequests = 0 }, true},
		{"RangeTooLong", func(c *Config) { c.DefaultRangeDays = 94 }, true},
		{"RangeMax", func(c *Config) { c.DefaultRangeDays = 93 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.mutate(&cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestScopeString(t *testing.T) {
	got := ScopeString()
	if !strings.Contains(got, "pages_show_list") {
		t.Errorf("ScopeString() = %q, missing pages_show_list", got)
	}
	if strings.Contains(got, " ") {
		t.Errorf("ScopeString() = %q, should be comma separated without spaces", got)
	}
}
