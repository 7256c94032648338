package services

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/inference-gw/admin-tui/internal/api"
	"github.com/inference-gw/admin-tui/internal/config"
	"github.com/inference-gw/admin-tui/internal/query"
	"github.com/inference-gw/admin-tui/internal/services/credentials"
)

func demoManager(t *testing.T) *Manager {
	t.Helper()
	tmpDir := t.TempDir()
	cfg := &config.Config{
		BaseURL:      "http://demo.local",
		Demo:         true,
		DatabasePath: filepath.Join(tmpDir, "requests.db"),
		PollInterval: time.Hour,
	}

	m, err := NewManager(cfg)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	t.Cleanup(func() { _ = m.Close() })
	return m
}

func TestDemoManagerServesFixtures(t *testing.T) {
	m := demoManager(t)

	if !m.Demo() {
		t.Error("Demo() = false")
	}

	page, err := m.Catalog().Users(context.Background(), api.ListParams{Limit: 10})
	if err != nil {
		t.Fatalf("Users through demo manager: %v", err)
	}
	if len(page.Data) == 0 {
		t.Error("demo mode returned no users")
	}
}

func TestSubscriberSeesInvalidations(t *testing.T) {
	m := demoManager(t)
	ch, _ := m.Subscribe()
	defer m.Unsubscribe(ch)

	if err := m.Catalog().DeleteGroup(context.Background(), groupFixtureID(t, m)); err != nil {
		t.Fatalf("DeleteGroup: %v", err)
	}

	deadline := time.After(2 * time.Second)
	families := make(map[string]bool)
	for len(families) < 2 {
		select {
		case ev := <-ch:
			if cache, ok := ev.(CacheChangedEvent); ok && cache.Invalidated {
				families[cache.Key[0]] = true
			}
		case <-deadline:
			t.Fatalf("saw invalidations for %v, want groups and users", families)
		}
	}
	if !families["groups"] || !families["users"] {
		t.Errorf("invalidated families = %v", families)
	}
}

func groupFixtureID(t *testing.T, m *Manager) string {
	t.Helper()
	page, err := m.Catalog().Groups(context.Background(), api.ListParams{Limit: 1})
	if err != nil {
		t.Fatalf("Groups: %v", err)
	}
	if len(page.Data) == 0 {
		t.Fatal("no fixture groups")
	}
	return page.Data[0].ID
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	m := demoManager(t)
	ch, _ := m.Subscribe()
	m.Unsubscribe(ch)

	select {
	case _, ok := <-ch:
		if ok {
			// A buffered event may still drain; the channel must end closed.
			for range ch {
			}
		}
	case <-time.After(time.Second):
		t.Fatal("channel not closed after Unsubscribe")
	}
}

func TestCredentialRotationUpdatesClient(t *testing.T) {
	m := demoManager(t)

	m.handleCredentialsEvent(credentials.Event{
		Type: credentials.EventChanged,
		Credentials: &config.Credentials{
			BaseURL: "http://rotated.local",
			Token:   "rotated-token",
		},
	})

	if got := m.Client().BaseURL(); got != "http://rotated.local" {
		t.Errorf("client base URL after rotation = %q", got)
	}
}

func TestStoreAccessor(t *testing.T) {
	m := demoManager(t)

	key := query.Key{"scratch"}
	m.Store().Set(key, 1)
	if _, ok := m.Store().Get(key); !ok {
		t.Error("Store() accessor does not reach the live cache")
	}
}
