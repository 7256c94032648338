package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

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

func TestGetEnvBool(t *testing.T) {
	key := "TEST_ENV_BOOL"

	tests := []struct {
		name       string
		envVal     string
		defaultVal bool
		want       bool
	}{
		{"One", "1", false, true},
		{"True", "true", false, true},
		{"Yes", "yes", false, true},
		{"Zero", "0", true, false},
		{"No", "no", true, false},
		{"Invalid", "maybe", true, true},
		{"Empty", "", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envVal != "" {
				os.Setenv(key, tt.envVal)
				defer os.Unsetenv(key)
			} else {
				os.Unsetenv(key)
			}

			if got := getEnvBool(key, tt.defaultVal); got != tt.want {
				t.Errorf("getEnvBool() = %v, want %v", got, tt.want)
			}
		})
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
			if tt.envVal != "" {
				os.Setenv(key, tt.envVal)
				defer os.Unsetenv(key)
			} else {
				os.Unsetenv(key)
			}

			if got := getEnvDuration(key, tt.defaultVal); got != tt.want {
				t.Errorf("getEnvDuration() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEnsureDir(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "nested", "dir")

	if err := ensureDir(path); err != nil {
		t.Fatalf("ensureDir() failed: %v", err)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("directory was not created")
	}

	if err := ensureDir(""); err != nil {
		t.Error("ensureDir(\"\") should not error")
	}
}

func TestGetDefaultPaths(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("Skipping test because user home dir cannot be found")
	}

	dbPath := getDefaultDatabasePath()
	expectedDb := filepath.Join(home, ".config", "gwadmin", "requests.db")
	if dbPath != expectedDb {
		t.Errorf("getDefaultDatabasePath() = %q, want %q", dbPath, expectedDb)
	}

	credsPath := getDefaultCredentialsPath()
	expectedCreds := filepath.Join(home, ".config", "gwadmin", "credentials.json")
	if credsPath != expectedCreds {
		t.Errorf("getDefaultCredentialsPath() = %q, want %q", credsPath, expectedCreds)
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

func TestLoadCredentials(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "credentials.json")
	content := `{"base_url": "https://gw.example.com", "token": "tok-123"}`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	creds := LoadCredentials(path)
	if creds == nil {
		t.Fatal("LoadCredentials returned nil")
	}
	if creds.BaseURL != "https://gw.example.com" {
		t.Errorf("BaseURL = %q", creds.BaseURL)
	}
	if creds.Token != "tok-123" {
		t.Errorf("Token = %q", creds.Token)
	}
}

func TestLoadCredentials_Invalid(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name    string
		content string
	}{
		{"Empty", ""},
		{"EmptyObject", "{}"},
		{"Garbage", "not json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(tmpDir, tt.name+".json")
			if err := os.WriteFile(path, []byte(tt.content), 0600); err != nil {
				t.Fatalf("WriteFile failed: %v", err)
			}
			if got := LoadCredentials(path); got != nil {
				t.Errorf("LoadCredentials() should return nil for %s", tt.name)
			}
		})
	}

	if got := LoadCredentials(filepath.Join(tmpDir, "missing.json")); got != nil {
		t.Error("LoadCredentials() should return nil for a missing file")
	}

	if got := LoadCredentials(""); got != nil {
		t.Error("LoadCredentials(\"\") should return nil")
	}
}

func TestLoad(t *testing.T) {
	os.Setenv("GWADMIN_BASE_URL", "https://gw.example.com")
	os.Setenv("GWADMIN_TOKEN", "tok-123")
	defer os.Unsetenv("GWADMIN_BASE_URL")
	defer os.Unsetenv("GWADMIN_TOKEN")

	// Use temp dir for paths to avoid permission issues
	tmpDir := t.TempDir()
	os.Setenv("DATABASE_PATH", filepath.Join(tmpDir, "requests.db"))
	defer os.Unsetenv("DATABASE_PATH")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.BaseURL != "https://gw.example.com" {
		t.Errorf("BaseURL = %q, want %q", cfg.BaseURL, "https://gw.example.com")
	}
	if cfg.PollInterval != defaultPollInterval {
		t.Errorf("PollInterval = %v, want %v", cfg.PollInterval, defaultPollInterval)
	}
}

func TestLoad_MissingBaseURL(t *testing.T) {
	os.Unsetenv("GWADMIN_BASE_URL")
	os.Unsetenv("GWADMIN_TOKEN")
	os.Unsetenv("GWADMIN_DEMO")

	// Create a temp directory and cd into it to avoid picking up local .env
	tmpDir := t.TempDir()
	wd, _ := os.Getwd()
	defer os.Chdir(wd)
	os.Chdir(tmpDir)

	// We also need to unset HOME to prevent loading from ~/.config
	origHome := os.Getenv("HOME")
	os.Setenv("HOME", tmpDir)
	defer os.Setenv("HOME", origHome)

	_, err := Load()
	if err == nil {
		t.Error("Load() should fail when the base URL is missing")
	}
}

func TestLoad_DemoNeedsNoServer(t *testing.T) {
	os.Unsetenv("GWADMIN_BASE_URL")
	os.Unsetenv("GWADMIN_TOKEN")
	os.Setenv("GWADMIN_DEMO", "1")
	defer os.Unsetenv("GWADMIN_DEMO")

	tmpDir := t.TempDir()
	wd, _ := os.Getwd()
	defer os.Chdir(wd)
	os.Chdir(tmpDir)

	origHome := os.Getenv("HOME")
	os.Setenv("HOME", tmpDir)
	defer os.Setenv("HOME", origHome)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed in demo mode: %v", err)
	}
	if !cfg.Demo {
		t.Error("Demo flag not set")
	}
	if cfg.BaseURL == "" {
		t.Error("demo mode should get a placeholder base URL")
	}
}

func TestLoad_CredentialsFileFallback(t *testing.T) {
	os.Unsetenv("GWADMIN_BASE_URL")
	os.Unsetenv("GWADMIN_TOKEN")
	os.Unsetenv("GWADMIN_DEMO")

	tmpDir := t.TempDir()
	credsPath := filepath.Join(tmpDir, "credentials.json")
	content := `{"base_url": "https://file.example.com", "token": "file-tok"}`
	if err := os.WriteFile(credsPath, []byte(content), 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	os.Setenv("CREDENTIALS_PATH", credsPath)
	os.Setenv("DATABASE_PATH", filepath.Join(tmpDir, "requests.db"))
	defer os.Unsetenv("CREDENTIALS_PATH")
	defer os.Unsetenv("DATABASE_PATH")

	wd, _ := os.Getwd()
	defer os.Chdir(wd)
	os.Chdir(tmpDir)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.BaseURL != "https://file.example.com" {
		t.Errorf("BaseURL = %q, want the credentials-file value", cfg.BaseURL)
	}
	if cfg.Token != "file-tok" {
		t.Errorf("Token = %q, want the credentials-file value", cfg.Token)
	}
}
