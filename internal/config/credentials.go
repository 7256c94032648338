// Package config contains everything related to configuration
package config

import (
	"encoding/json"
	"os"
)

// Credentials is the on-disk server credential file. It is written by the
// platform login tooling and can be rotated while the TUI is running; the
// credentials service watches it for changes.
type Credentials struct {
	BaseURL string `json:"base_url"`
	Token   string `json:"token"`
}

// LoadCredentials reads and parses the credentials file at path. Returns nil
// if the file is missing, unreadable, or incomplete.
func LoadCredentials(path string) *Credentials {
	if path == "" {
		return nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil
	}

	var creds Credentials
	if err := json.Unmarshal(content, &creds); err != nil {
		return nil
	}
	if creds.BaseURL == "" && creds.Token == "" {
		return nil
	}
	return &creds
}
