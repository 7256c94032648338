// Package billing provides the credit ledger tab.
package billing

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/inference-gw/admin-tui/internal/api"
	"github.com/inference-gw/admin-tui/internal/app"
	"github.com/inference-gw/admin-tui/internal/models"
	"github.com/inference-gw/admin-tui/internal/services"
	"github.com/inference-gw/admin-tui/internal/ui/components"
)

const pageSize = 15

// viewMode selects what the billing tab is showing.
type viewMode int

const (
	modePicker viewMode = iota
	modeLedger
	modeAmount
)

// keyMap defines the key bindings specific to the billing tab.
type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	NextPage key.Binding
	PrevPage key.Binding
	Select   key.Binding
	Add      key.Binding
	Remove   key.Binding
	Checkout key.Binding
	Back     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		NextPage: key.NewBinding(
			key.WithKeys("right", "n"),
			key.WithHelp("→/n", "next page"),
		),
		PrevPage: key.NewBinding(
			key.WithKeys("left", "p"),
			key.WithHelp("←/p", "prev page"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open ledger"),
		),
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "grant credits"),
		),
		Remove: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "remove credits"),
		),
		Checkout: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "checkout link"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
	}
}

// Model represents the billing tab state.
type Model struct {
	state    *app.State
	commands *app.Commands
	keys     keyMap
	spinner  components.LoadingSpinner
	amount   textinput.Model

	mode viewMode

	users    models.Page[models.User]
	userSel  int
	userSkip int64

	ledgerUser   *models.User
	transactions models.TransactionPage
	balance      *models.Balance
	txSkip       int64

	// removing is true while the amount prompt is for a removal.
	removing bool

	loading bool
	loaded  bool
	width   int
	height  int
}

// New creates a new billing tab.
func New(state *app.State, commands *app.Commands) *Model {
	amount := textinput.New()
	amount.Placeholder = "credits, e.g. 100.00"
	amount.CharLimit = 16
	amount.Width = 24

	return &Model{
		state:    state,
		commands: commands,
		keys:     defaultKeyMap(),
		spinner:  components.NewSpinner("Loading billing..."),
		amount:   amount,
	}
}

// Init initializes the billing tab.
func (m *Model) Init() tea.Cmd {
	m.loading = true
	return tea.Batch(m.spinner.Init(), m.loadUsersCmd())
}

func (m *Model) loadUsersCmd() tea.Cmd {
	return m.commands.LoadUsers(api.ListParams{
		Include: "billing",
		Skip:    m.userSkip,
		Limit:   pageSize,
	})
}

func (m *Model) loadLedgerCmd() tea.Cmd {
	return tea.Batch(
		m.commands.LoadTransactions(api.ListParams{
			UserID: m.ledgerUser.ID,
			Skip:   m.txSkip,
			Limit:  pageSize,
		}),
		m.commands.LoadBalance(m.ledgerUser.ID),
	)
}

// Update handles messages for the billing tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case app.UsersLoadedMsg:
		m.loading = false
		m.loaded = true
		if msg.Err != nil {
			cmds = append(cmds, m.commands.NotifyError(fmt.Sprintf("Billing users: %v", msg.Err)))
		} else {
			m.users = msg.Page
			if m.userSel >= len(m.users.Data) {
				m.userSel = max(0, len(m.users.Data)-1)
			}
		}

	case app.TransactionsLoadedMsg:
		m.loading = false
		if msg.Err != nil {
			cmds = append(cmds, m.commands.NotifyError(fmt.Sprintf("Transactions: %v", msg.Err)))
		} else {
			m.transactions = msg.Page
		}

	case app.BalanceLoadedMsg:
		if msg.Err != nil {
			cmds = append(cmds, m.commands.NotifyError(fmt.Sprintf("Balance: %v", msg.Err)))
		} else {
			bal := msg.Balance
			m.balance = &bal
		}

	case app.FundsChangedMsg:
		if msg.Err != nil {
			cmds = append(cmds, m.commands.NotifyError(fmt.Sprintf("Adjust credits: %v", msg.Err)))
		} else {
			verb := "granted"
			if msg.Tx.Amount < 0 {
				verb = "removed"
			}
			cmds = append(cmds, m.commands.NotifySuccess(
				fmt.Sprintf("Credits %s, balance %.2f", verb, msg.Tx.BalanceAfter)))
			if m.ledgerUser != nil {
				m.txSkip = 0
				cmds = append(cmds, m.loadLedgerCmd())
			}
		}

	case app.CheckoutReadyMsg:
		if msg.Err != nil {
			cmds = append(cmds, m.commands.NotifyError(fmt.Sprintf("Checkout: %v", msg.Err)))
		} else {
			cmds = append(cmds, m.commands.NotifyInfo("Checkout: "+msg.URL))
		}

	case app.RefreshMsg:
		m.loading = true
		if m.mode == modeLedger && m.ledgerUser != nil {
			cmds = append(cmds, m.commands.Reload(m.loadLedgerCmd(), "transactions", "users"))
		} else {
			cmds = append(cmds, m.commands.Reload(m.loadUsersCmd(), "users"))
		}

	case app.ServiceEventMsg:
		if cache, ok := msg.Event.(services.CacheChangedEvent); ok {
			if cache.Invalidated && len(cache.Key) > 0 && cache.Key[0] == "transactions" {
				if m.ledgerUser != nil {
					cmds = append(cmds, m.loadLedgerCmd())
				}
			}
		}

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) (app.Tab, tea.Cmd) {
	if m.mode == modeAmount {
		return m.handleAmountKey(msg)
	}

	var cmds []tea.Cmd

	switch {
	case key.Matches(msg, m.keys.Back):
		if m.mode == modeLedger {
			m.mode = modePicker
			m.ledgerUser = nil
			m.balance = nil
			m.txSkip = 0
		}

	case key.Matches(msg, m.keys.Up):
		if m.mode == modePicker && m.userSel > 0 {
			m.userSel--
		}

	case key.Matches(msg, m.keys.Down):
		if m.mode == modePicker && m.userSel < len(m.users.Data)-1 {
			m.userSel++
		}

	case key.Matches(msg, m.keys.NextPage):
		if m.mode == modePicker && m.userSkip+pageSize < m.users.TotalCount {
			m.userSkip += pageSize
			m.userSel = 0
			m.loading = true
			cmds = append(cmds, m.loadUsersCmd())
		} else if m.mode == modeLedger && m.txSkip+pageSize < m.transactions.TotalCount {
			m.txSkip += pageSize
			m.loading = true
			cmds = append(cmds, m.loadLedgerCmd())
		}

	case key.Matches(msg, m.keys.PrevPage):
		if m.mode == modePicker && m.userSkip > 0 {
			m.userSkip = max(0, m.userSkip-pageSize)
			m.userSel = 0
			m.loading = true
			cmds = append(cmds, m.loadUsersCmd())
		} else if m.mode == modeLedger && m.txSkip > 0 {
			m.txSkip = max(0, m.txSkip-pageSize)
			m.loading = true
			cmds = append(cmds, m.loadLedgerCmd())
		}

	case key.Matches(msg, m.keys.Select):
		if m.mode == modePicker && m.userSel >= 0 && m.userSel < len(m.users.Data) {
			user := m.users.Data[m.userSel]
			m.ledgerUser = &user
			m.mode = modeLedger
			m.txSkip = 0
			m.loading = true
			cmds = append(cmds, m.loadLedgerCmd())
		}

	case key.Matches(msg, m.keys.Add):
		if m.mode == modeLedger {
			m.removing = false
			m.mode = modeAmount
			m.amount.SetValue("")
			m.amount.Focus()
			cmds = append(cmds, textinput.Blink)
		}

	case key.Matches(msg, m.keys.Remove):
		if m.mode == modeLedger {
			m.removing = true
			m.mode = modeAmount
			m.amount.SetValue("")
			m.amount.Focus()
			cmds = append(cmds, textinput.Blink)
		}

	case key.Matches(msg, m.keys.Checkout):
		cmds = append(cmds, m.commands.Checkout())
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) handleAmountKey(msg tea.KeyMsg) (app.Tab, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg.Type {
	case tea.KeyEscape:
		m.mode = modeLedger
		m.amount.Blur()

	case tea.KeyEnter:
		value, err := strconv.ParseFloat(m.amount.Value(), 64)
		if err != nil || value <= 0 {
			cmds = append(cmds, m.commands.NotifyWarning("Enter a positive credit amount"))
			break
		}
		m.mode = modeLedger
		m.amount.Blur()
		if m.removing {
			cmds = append(cmds, m.commands.RemoveFunds(m.ledgerUser.ID, value, "admin removal"))
		} else {
			cmds = append(cmds, m.commands.AddFunds(m.ledgerUser.ID, value, "admin grant"))
		}

	default:
		var cmd tea.Cmd
		m.amount, cmd = m.amount.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// InputActive reports whether the amount prompt currently owns the keyboard.
func (m *Model) InputActive() bool {
	return m.mode == modeAmount
}

// SetSize sets the available size for the billing tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	if m.mode == modeLedger {
		return []key.Binding{m.keys.Add, m.keys.Remove, m.keys.Checkout, m.keys.Back}
	}
	return []key.Binding{m.keys.Select, m.keys.Checkout}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.Select, m.keys.Add, m.keys.Remove, m.keys.Checkout},
		{m.keys.Up, m.keys.Down, m.keys.NextPage, m.keys.PrevPage, m.keys.Back},
	}
}
