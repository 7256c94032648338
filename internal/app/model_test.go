package app

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/inference-gw/admin-tui/internal/models"
	"github.com/inference-gw/admin-tui/internal/services"
)

func modelsBatchFixture() models.Batch {
	return models.Batch{ID: "batch_abcdef123456", Status: models.BatchCompleted}
}

func TestNewModel(t *testing.T) {
	model := NewModel(nil)
	if model == nil {
		t.Fatal("NewModel returned nil")
	}
	if model.state == nil {
		t.Error("State should be initialized")
	}
	if model.activeTab != TabDashboard {
		t.Error("Default tab should be Dashboard")
	}
	if len(model.tabs) != 6 {
		t.Errorf("Should have 6 tab slots, got %d", len(model.tabs))
	}
}

func TestModel_Init(t *testing.T) {
	model := NewModel(nil)
	cmd := model.Init()
	if cmd == nil {
		t.Error("Init returned nil command")
	}
}

func TestModel_Update_WindowSize(t *testing.T) {
	model := NewModel(nil)
	msg := tea.WindowSizeMsg{Width: 100, Height: 50}

	newModel, _ := model.Update(msg)

	m, ok := newModel.(*Model)
	if !ok {
		t.Fatal("Update returned wrong model type")
	}

	if m.width != 100 {
		t.Errorf("Width = %d, want 100", m.width)
	}
	if m.height != 50 {
		t.Errorf("Height = %d, want 50", m.height)
	}
	if !m.ready {
		t.Error("Model should be ready after WindowSizeMsg")
	}
}

func TestModel_Update_TabSwitch(t *testing.T) {
	model := NewModel(nil)
	model.ready = true
	model.width = 100
	model.height = 50

	msg := TabSwitchMsg{Tab: TabBatches}
	newModel, cmd := model.Update(msg)
	m := newModel.(*Model)

	if m.activeTab != TabBatches {
		t.Errorf("ActiveTab = %v, want Batches", m.activeTab)
	}
	if cmd == nil {
		t.Fatal("switching tabs should emit a refresh")
	}

	// Key binding '2' switches to Users.
	keyMsg := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'2'}}
	newModel, _ = m.Update(keyMsg)
	m = newModel.(*Model)
	if m.activeTab != TabUsers {
		t.Errorf("ActiveTab = %v, want Users", m.activeTab)
	}
}

func TestModel_SwitchTabEmitsRefresh(t *testing.T) {
	model := NewModel(nil)

	cmd := model.switchTab(TabBilling)
	if cmd == nil {
		t.Fatal("switchTab returned nil command")
	}
	msg := cmd()
	refresh, ok := msg.(RefreshMsg)
	if !ok {
		t.Fatalf("Expected RefreshMsg, got %T", msg)
	}
	if refresh.Resource != "tab" {
		t.Errorf("Resource = %q, want tab", refresh.Resource)
	}
}

func TestModel_TabCycling(t *testing.T) {
	model := NewModel(nil)

	model.handleKeyMsg(tea.KeyMsg{Type: tea.KeyTab})
	if model.activeTab != TabUsers {
		t.Errorf("tab should advance to Users, got %v", model.activeTab)
	}

	model.handleKeyMsg(tea.KeyMsg{Type: tea.KeyShiftTab})
	if model.activeTab != TabDashboard {
		t.Errorf("shift+tab should go back to Dashboard, got %v", model.activeTab)
	}

	// Wrapping backwards from the first tab lands on the last.
	model.handleKeyMsg(tea.KeyMsg{Type: tea.KeyShiftTab})
	if model.activeTab != TabInfo {
		t.Errorf("shift+tab from Dashboard should wrap to Info, got %v", model.activeTab)
	}
}

// capturingTab is a stub tab whose text input owns the keyboard.
type capturingTab struct {
	active bool
}

func (c *capturingTab) Init() tea.Cmd                 { return nil }
func (c *capturingTab) Update(tea.Msg) (Tab, tea.Cmd) { return c, nil }
func (c *capturingTab) View() string                  { return "" }
func (c *capturingTab) SetSize(int, int)              {}
func (c *capturingTab) ShortHelp() []key.Binding      { return nil }
func (c *capturingTab) FullHelp() [][]key.Binding     { return nil }
func (c *capturingTab) InputActive() bool             { return c.active }

func TestModel_InputCaptureSuppressesGlobalKeys(t *testing.T) {
	model := NewModel(nil)
	tab := &capturingTab{active: true}
	model.tabs[TabDashboard] = tab

	// A rune that is normally a tab switch stays with the input.
	cmd := model.handleKeyMsg(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'2'}})
	if cmd != nil {
		t.Error("global bindings should be suppressed while a tab captures input")
	}
	if model.activeTab != TabDashboard {
		t.Error("tab should not switch while input is captured")
	}

	// ctrl+c always quits.
	cmd = model.handleKeyMsg(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("ctrl+c should stay global")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("ctrl+c should quit")
	}

	// With the input blurred, globals apply again.
	tab.active = false
	model.handleKeyMsg(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'2'}})
	if model.activeTab != TabUsers {
		t.Error("tab switching should resume once input is released")
	}
}

func TestModel_Update_Tick(t *testing.T) {
	model := NewModel(nil)
	msg := TickMsg{Time: time.Now()}

	_, cmd := model.Update(msg)
	if cmd == nil {
		t.Error("TickMsg should return a command (next tick)")
	}
}

func TestModel_View(t *testing.T) {
	model := NewModel(nil)

	// Not ready
	view := model.View()
	if !strings.Contains(view, "Loading...") {
		t.Error("View should show Loading when not ready")
	}

	// Ready
	model.ready = true
	model.width = 80
	model.height = 24

	view = model.View()
	if !strings.Contains(view, "Dashboard") {
		t.Error("View should show Dashboard tab")
	}
	// Tabs are nil until SetTabs, so the placeholder shows.
	if !strings.Contains(view, "not yet implemented") {
		t.Error("View should show placeholder text")
	}
}

func TestModel_Help(t *testing.T) {
	model := NewModel(nil)
	model.ready = true
	model.width = 80
	model.height = 24

	model.Update(ToggleHelpMsg{})
	if !model.showHelp {
		t.Error("showHelp should be true")
	}

	view := model.View()
	if !strings.Contains(view, "Keyboard Shortcuts") {
		t.Error("View should show help modal")
	}

	model.handleKeyMsg(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'?'}})
	if model.showHelp {
		t.Error("showHelp should be false after toggle")
	}
}

func TestModel_Notifications(t *testing.T) {
	model := NewModel(nil)

	msg := AddNotificationMsg{
		Message:  "Test Note",
		Type:     NotificationInfo,
		Duration: 0,
	}

	model.Update(msg)

	notifs := model.state.GetNotifications()
	if len(notifs) != 1 {
		t.Errorf("Expected 1 notification, got %d", len(notifs))
	}

	model.ready = true
	model.width = 80
	model.height = 24
	view := model.View()
	if !strings.Contains(view, "Test Note") {
		t.Error("View should show notification")
	}
}

func TestModel_HandleServiceEvent(t *testing.T) {
	model := NewModel(nil)

	// A terminal batch transition surfaces a toast.
	cmd := model.handleServiceEvent(services.BatchTransitionEvent{
		Batch:    modelsBatchFixture(),
		From:     "finalizing",
		Terminal: true,
	})
	if cmd == nil {
		t.Error("terminal batch transition should produce a notification")
	}

	// Non-terminal transitions stay quiet.
	cmd = model.handleServiceEvent(services.BatchTransitionEvent{
		Batch:    modelsBatchFixture(),
		From:     "validating",
		Terminal: false,
	})
	if cmd != nil {
		t.Error("non-terminal transition should not notify")
	}

	// Synced requests refresh the dashboard only while it is active.
	cmd = model.handleServiceEvent(services.RequestsSyncedEvent{Inserted: 3})
	if cmd == nil {
		t.Error("synced requests should refresh the active dashboard")
	}
	model.activeTab = TabUsers
	cmd = model.handleServiceEvent(services.RequestsSyncedEvent{Inserted: 3})
	if cmd != nil {
		t.Error("synced requests should be quiet on other tabs")
	}

	// Errors always surface.
	cmd = model.handleServiceEvent(services.ErrorEvent{Service: "batches", Error: errors.New("poll failed")})
	if cmd == nil {
		t.Error("error event should trigger a notification")
	}
}

func TestModel_Update_Messages(t *testing.T) {
	model := NewModel(nil)

	model.Update(StartLoadingMsg{Resource: "users"})
	if !model.state.Loading.Users {
		t.Error("Loading.Users should be true")
	}

	model.Update(StopLoadingMsg{Resource: "users"})
	if model.state.Loading.Users {
		t.Error("Loading.Users should be false")
	}

	model.Update(RequestsSyncedMsg{Inserted: 2})
	if model.state.Loading.Initial {
		t.Error("first sync should clear the initial loading flag")
	}
	if model.state.GetLastUpdated().IsZero() {
		t.Error("a sync should stamp LastUpdated")
	}

	model.Update(ErrorMsg{Error: errors.New("boom")})
	model.Update(AddNotificationMsg{Message: "test", Type: NotificationInfo})
	model.Update(RemoveNotificationMsg{ID: "nonexistent"})
	model.Update(ClearExpiredNotificationsMsg{})
}

func TestModel_HandleSpinnerTick(t *testing.T) {
	model := NewModel(nil)
	_, cmd := model.Update(spinner.TickMsg{})
	if cmd == nil {
		t.Error("Spinner tick should return command")
	}
}

func TestShortID(t *testing.T) {
	if got := shortID("batch_abcdef123456"); got != "batch_ab" {
		t.Errorf("shortID = %q, want batch_ab", got)
	}
	if got := shortID("abc"); got != "abc" {
		t.Errorf("shortID = %q, want abc", got)
	}
}

func TestTabID_String(t *testing.T) {
	cases := []struct {
		id   TabID
		want string
	}{
		{TabDashboard, "Dashboard"},
		{TabUsers, "Users"},
		{TabModels, "Models"},
		{TabBatches, "Batches"},
		{TabBilling, "Billing"},
		{TabInfo, "Info"},
		{TabID(999), "Unknown"},
	}
	for _, tc := range cases {
		if got := tc.id.String(); got != tc.want {
			t.Errorf("TabID(%d).String() = %q, want %q", tc.id, got, tc.want)
		}
	}
}

func TestDefaultKeyMap(t *testing.T) {
	km := DefaultKeyMap()
	if len(km.ShortHelp()) == 0 {
		t.Error("ShortHelp empty")
	}
	if len(km.FullHelp()) == 0 {
		t.Error("FullHelp empty")
	}
}

func TestDefaultStyles(t *testing.T) {
	s := DefaultStyles()
	_ = s
}
