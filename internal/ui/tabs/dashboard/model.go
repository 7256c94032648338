// Package dashboard provides the request analytics tab.
package dashboard

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/inference-gw/admin-tui/internal/app"
	"github.com/inference-gw/admin-tui/internal/db"
	"github.com/inference-gw/admin-tui/internal/models"
	"github.com/inference-gw/admin-tui/internal/ui/components"
)

// keyMap defines the key bindings specific to the dashboard tab.
type keyMap struct {
	Refresh key.Binding
	Sync    key.Binding
	Up      key.Binding
	Down    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Sync: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "sync request log"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "scroll down"),
		),
	}
}

// Model represents the dashboard tab state.
type Model struct {
	state    *app.State
	commands *app.Commands
	keys     keyMap
	spinner  components.LoadingSpinner
	viewport viewport.Model

	volume    []db.HourlyVolume
	totals    []db.ModelTotal
	recent    []models.RequestEntry
	aggregate models.RequestAggregate

	loaded  bool
	loading bool
	errMsg  string
	width   int
	height  int
}

// New creates a new dashboard model.
func New(state *app.State, commands *app.Commands) *Model {
	return &Model{
		state:    state,
		commands: commands,
		keys:     defaultKeyMap(),
		spinner:  components.NewSpinner("Loading request analytics..."),
		viewport: viewport.New(0, 0),
	}
}

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	m.loading = true
	return tea.Batch(m.spinner.Init(), m.commands.LoadDashboard())
}

// Update handles messages and updates the model.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case app.DashboardLoadedMsg:
		m.loading = false
		m.loaded = true
		if msg.Err != nil {
			m.errMsg = msg.Err.Error()
			cmds = append(cmds, m.commands.NotifyError(fmt.Sprintf("Dashboard: %v", msg.Err)))
		} else {
			m.errMsg = ""
			m.volume = msg.Volume
			m.totals = msg.Totals
			m.recent = msg.Recent
			m.aggregate = msg.Aggregate
		}

	case app.RequestsSyncedMsg:
		if msg.Inserted > 0 {
			cmds = append(cmds, m.commands.LoadDashboard())
		}

	case app.RefreshMsg:
		m.loading = true
		cmds = append(cmds, m.commands.Reload(m.commands.LoadDashboard(), "requests"))

	case tea.KeyMsg:
		cmds = append(cmds, m.handleKeyMsg(msg))

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Sync):
		return tea.Batch(
			m.commands.NotifyInfo("Syncing request log..."),
			m.commands.SyncRequests(),
		)
	default:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return cmd
	}
}

// SetSize sets the available size for the dashboard.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{
		m.keys.Sync,
		m.keys.Refresh,
	}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.Sync, m.keys.Refresh},
		{m.keys.Up, m.keys.Down},
	}
}
