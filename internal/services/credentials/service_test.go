package credentials

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeCreds(t *testing.T, path, baseURL, token string) {
	t.Helper()
	content := `{"base_url": "` + baseURL + `", "token": "` + token + `"}`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func TestCurrentFromExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	writeCreds(t, path, "https://gw.example.com", "tok-1")

	s, err := New(path)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer s.Close()

	creds := s.Current()
	if creds == nil {
		t.Fatal("Current() = nil for an existing file")
	}
	if creds.Token != "tok-1" {
		t.Errorf("token = %q, want tok-1", creds.Token)
	}
}

func TestMissingFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")

	s, err := New(path)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer s.Close()

	if s.Current() != nil {
		t.Error("Current() should be nil before the file exists")
	}
}

func TestRotationEmitsEvent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "credentials.json")
	writeCreds(t, path, "https://gw.example.com", "tok-1")

	s, err := New(path)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer s.Close()

	writeCreds(t, path, "https://gw.example.com", "tok-2")

	select {
	case ev := <-s.Events():
		if ev.Type != EventChanged {
			t.Fatalf("event type = %v, want EventChanged", ev.Type)
		}
		if ev.Credentials.Token != "tok-2" {
			t.Errorf("token = %q, want tok-2", ev.Credentials.Token)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no event after rotation")
	}

	if got := s.Current().Token; got != "tok-2" {
		t.Errorf("Current() token = %q, want tok-2", got)
	}
}

func TestGarbageWriteKeepsPrevious(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "credentials.json")
	writeCreds(t, path, "https://gw.example.com", "tok-1")

	s, err := New(path)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer s.Close()

	if err := os.WriteFile(path, []byte("not json"), 0600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	// No change event; give the debounce a moment to run.
	select {
	case ev := <-s.Events():
		t.Fatalf("unexpected event %v after garbage write", ev.Type)
	case <-time.After(500 * time.Millisecond):
	}

	if got := s.Current().Token; got != "tok-1" {
		t.Errorf("Current() token = %q, want the previous tok-1", got)
	}
}

func TestIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "credentials.json")
	writeCreds(t, path, "https://gw.example.com", "tok-1")

	s, err := New(path)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer s.Close()

	if err := os.WriteFile(filepath.Join(dir, "other.json"), []byte("{}"), 0600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	select {
	case ev := <-s.Events():
		t.Fatalf("unexpected event %v for an unrelated file", ev.Type)
	case <-time.After(500 * time.Millisecond):
	}
}
