package users

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/inference-gw/admin-tui/internal/app"
	"github.com/inference-gw/admin-tui/internal/config"
	"github.com/inference-gw/admin-tui/internal/models"
	"github.com/inference-gw/admin-tui/internal/services"
)

func newTestModel(t *testing.T) *Model {
	t.Helper()

	cfg := &config.Config{
		Demo:         true,
		BaseURL:      "http://demo.local",
		DatabasePath: filepath.Join(t.TempDir(), "test.db"),
		PollInterval: time.Second,
	}
	mgr, err := services.NewManager(cfg)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	t.Cleanup(func() { _ = mgr.Close() })

	return New(app.NewState(), app.NewCommands(mgr))
}

func testPage() models.Page[models.User] {
	balance := 42.5
	return models.Page[models.User]{
		Data: []models.User{
			{ID: "u1", Username: "alice", Email: "alice@example.com", IsAdmin: true, CreditBalance: &balance},
			{ID: "u2", Username: "bob", Email: "bob@example.com"},
		},
		TotalCount: 2,
		Limit:      pageSize,
	}
}

func TestNew(t *testing.T) {
	m := newTestModel(t)
	if m == nil {
		t.Fatal("New returned nil")
	}
}

func TestModel_Init(t *testing.T) {
	m := newTestModel(t)
	if m.Init() == nil {
		t.Error("Init returned nil")
	}
}

func TestModel_ListView(t *testing.T) {
	m := newTestModel(t)
	m.SetSize(100, 40)

	updated, _ := m.Update(app.UsersLoadedMsg{Page: testPage()})
	m = updated.(*Model)

	view := m.View()
	if !strings.Contains(view, "alice") {
		t.Error("View should list usernames")
	}
	if !strings.Contains(view, "admin") {
		t.Error("View should mark admin users")
	}
}

func TestModel_Selection(t *testing.T) {
	m := newTestModel(t)
	updated, _ := m.Update(app.UsersLoadedMsg{Page: testPage()})
	m = updated.(*Model)

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = updated.(*Model)
	if m.selected != 1 {
		t.Errorf("selected = %d, want 1", m.selected)
	}

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = updated.(*Model)
	if m.selected != 1 {
		t.Error("selection should stop at the last row")
	}

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m = updated.(*Model)
	if m.selected != 0 {
		t.Errorf("selected = %d, want 0", m.selected)
	}
}

func TestModel_DetailView(t *testing.T) {
	m := newTestModel(t)
	m.SetSize(100, 40)

	updated, _ := m.Update(app.UserDetailLoadedMsg{
		User: models.User{ID: "u1", Username: "alice", Email: "alice@example.com",
			Groups: []models.Group{{ID: "g1", Name: "engineering"}}},
		Keys: []models.APIKey{
			{ID: "k1", Name: "ci-key", Purpose: models.PurposeInference, CreatedAt: time.Now()},
		},
	})
	m = updated.(*Model)

	view := m.View()
	if !strings.Contains(view, "engineering") {
		t.Error("detail view should list groups")
	}
	if !strings.Contains(view, "ci-key") {
		t.Error("detail view should list API keys")
	}

	// esc closes the detail view
	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyEscape})
	m = updated.(*Model)
	if m.detail != nil {
		t.Error("esc should return to the list")
	}
}

func TestModel_SearchDebounce(t *testing.T) {
	m := newTestModel(t)
	updated, _ := m.Update(app.UsersLoadedMsg{Page: testPage()})
	m = updated.(*Model)
	m.skip = pageSize
	m.searchSeq = 3

	// Stale timer: wrong sequence number, ignored.
	updated, cmd := m.Update(app.SearchDebouncedMsg{Seq: 2, Query: "ali"})
	m = updated.(*Model)
	if m.query != "" {
		t.Error("stale debounce timer should not change the query")
	}
	_ = cmd

	// Current timer fires: query applied, pagination reset.
	updated, cmd = m.Update(app.SearchDebouncedMsg{Seq: 3, Query: "ali"})
	m = updated.(*Model)
	if m.query != "ali" {
		t.Errorf("query = %q, want %q", m.query, "ali")
	}
	if m.skip != 0 {
		t.Error("a new search should reset to the first page")
	}
	if cmd == nil {
		t.Error("a settled search should trigger a reload")
	}
}

func TestModel_CreatePrompt(t *testing.T) {
	m := newTestModel(t)
	m.SetSize(100, 40)
	updated, _ := m.Update(app.UsersLoadedMsg{Page: testPage()})
	m = updated.(*Model)

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}})
	m = updated.(*Model)
	if !m.creating {
		t.Fatal("'a' should open the new-user prompt")
	}
	if !strings.Contains(m.View(), "New user") {
		t.Error("view should render the prompt")
	}

	// A bare username is rejected and the prompt stays open.
	m.create.SetValue("carol")
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(*Model)
	if !m.creating {
		t.Error("invalid input should keep the prompt open")
	}
	if cmd == nil {
		t.Error("invalid input should produce a warning")
	}

	m.create.SetValue("carol carol@example.com")
	updated, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(*Model)
	if m.creating {
		t.Error("valid input should close the prompt")
	}
	if cmd == nil {
		t.Error("valid input should submit the creation")
	}

	// The creation result reloads the list from page one.
	m.skip = pageSize
	updated, cmd = m.Update(app.UserCreatedMsg{User: models.User{Username: "carol"}})
	m = updated.(*Model)
	if m.skip != 0 {
		t.Error("a created user should reset to the first page")
	}
	if cmd == nil {
		t.Error("a created user should trigger a reload")
	}
}

func TestModel_CacheInvalidationReloads(t *testing.T) {
	m := newTestModel(t)

	_, cmd := m.Update(app.ServiceEventMsg{
		Event: services.CacheChangedEvent{Key: []string{"users", "list"}, Invalidated: true},
	})
	if cmd == nil {
		t.Error("users cache invalidation should trigger a reload")
	}

	_, cmd = m.Update(app.ServiceEventMsg{
		Event: services.CacheChangedEvent{Key: []string{"models", "list"}, Invalidated: true},
	})
	if cmd != nil {
		t.Error("unrelated cache invalidation should be ignored")
	}
}

func TestModel_Help(t *testing.T) {
	m := newTestModel(t)
	if len(m.ShortHelp()) == 0 {
		t.Error("ShortHelp empty")
	}
	if len(m.FullHelp()) == 0 {
		t.Error("FullHelp empty")
	}
}
