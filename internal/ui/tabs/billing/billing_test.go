package billing

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

func withLedger(t *testing.T) *Model {
	t.Helper()
	m := newTestModel(t)
	m.SetSize(100, 40)

	balance := 80.0
	updated, _ := m.Update(app.UsersLoadedMsg{Page: models.Page[models.User]{
		Data: []models.User{
			{ID: "u1", Username: "alice", Email: "alice@example.com", CreditBalance: &balance},
		},
		TotalCount: 1,
		Limit:      pageSize,
	}})
	m = updated.(*Model)

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(*Model)
	if cmd == nil {
		t.Fatal("selecting a user should load their ledger")
	}
	return m
}

func TestNew(t *testing.T) {
	if newTestModel(t) == nil {
		t.Fatal("New returned nil")
	}
}

func TestModel_PickerView(t *testing.T) {
	m := newTestModel(t)
	m.SetSize(100, 40)

	balance := -4.2
	updated, _ := m.Update(app.UsersLoadedMsg{Page: models.Page[models.User]{
		Data:       []models.User{{ID: "u1", Username: "alice", Email: "alice@example.com", CreditBalance: &balance}},
		TotalCount: 1,
		Limit:      pageSize,
	}})
	m = updated.(*Model)

	view := m.View()
	if !strings.Contains(view, "alice") {
		t.Error("picker should list usernames")
	}
	if !strings.Contains(view, "-4.20") {
		t.Error("picker should show credit balances")
	}
}

func TestModel_LedgerView(t *testing.T) {
	m := withLedger(t)

	updated, _ := m.Update(app.BalanceLoadedMsg{Balance: models.Balance{UserID: "u1", CurrentBalance: 80}})
	m = updated.(*Model)

	updated, _ = m.Update(app.TransactionsLoadedMsg{Page: models.TransactionPage{
		Data: []models.Transaction{
			{ID: "tx1", UserID: "u1", Type: models.TxAdminGrant, Amount: 100, BalanceAfter: 100, Description: "starter grant", CreatedAt: time.Now()},
			{ID: "tx2", UserID: "u1", Type: models.TxUsage, Amount: -20, BalanceAfter: 80, CreatedAt: time.Now()},
		},
		TotalCount:       2,
		Limit:            pageSize,
		PageStartBalance: 80,
	}})
	m = updated.(*Model)

	view := m.View()
	if !strings.Contains(view, "80.00 credits") {
		t.Error("ledger should show the current balance")
	}
	if !strings.Contains(view, "starter grant") {
		t.Error("ledger should show transaction descriptions")
	}
	if !strings.Contains(view, "usage") {
		t.Error("ledger should show transaction types")
	}
}

func TestModel_AmountPrompt(t *testing.T) {
	m := withLedger(t)

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}})
	m = updated.(*Model)
	if m.mode != modeAmount {
		t.Fatal("a should open the amount prompt")
	}

	// Junk input is rejected and the prompt stays open.
	m.amount.SetValue("not-a-number")
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(*Model)
	if cmd == nil {
		t.Error("invalid amount should produce a warning")
	}
	if m.mode != modeAmount {
		t.Error("invalid amount should keep the prompt open")
	}

	// A valid amount submits a grant and closes the prompt.
	m.amount.SetValue("25.50")
	updated, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(*Model)
	if m.mode != modeLedger {
		t.Error("a submitted amount should close the prompt")
	}
	if cmd == nil {
		t.Error("a submitted amount should produce a command")
	}
}

func TestModel_EscLeavesLedger(t *testing.T) {
	m := withLedger(t)

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyEscape})
	m = updated.(*Model)
	if m.mode != modePicker {
		t.Error("esc should return to the user picker")
	}
	if m.ledgerUser != nil {
		t.Error("esc should clear the ledger user")
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
