// Package info provides the configuration and diagnostics tab.
package info

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/inference-gw/admin-tui/internal/app"
	"github.com/inference-gw/admin-tui/internal/config"
)

// keyMap defines the key bindings specific to the info tab.
type keyMap struct {
	Refresh key.Binding
	Up      key.Binding
	Down    key.Binding
}

// defaultKeyMap returns the default key bindings for the info tab.
func defaultKeyMap() keyMap {
	return keyMap{
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
	}
}

// statsLoadedMsg carries the local database counters.
type statsLoadedMsg struct {
	requestCount int64
	batchEvents  int64
	err          error
}

// Model represents the info tab state.
type Model struct {
	state    *app.State
	config   *config.Config
	commands *app.Commands
	keys     keyMap
	viewport viewport.Model

	requestCount int64
	batchEvents  int64
	statsErr     error
	width        int
	height       int
}

// New creates a new info model.
func New(state *app.State, cfg *config.Config, commands *app.Commands) *Model {
	return &Model{
		state:    state,
		config:   cfg,
		commands: commands,
		keys:     defaultKeyMap(),
		viewport: viewport.New(0, 0),
	}
}

// Init initializes the info tab.
func (m *Model) Init() tea.Cmd {
	return m.loadStatsCmd()
}

func (m *Model) loadStatsCmd() tea.Cmd {
	return func() tea.Msg {
		mgr := m.commands.Manager()
		count, err := mgr.Requests().Count()
		if err != nil {
			return statsLoadedMsg{err: err}
		}
		events, err := mgr.Database().CountBatchEvents()
		return statsLoadedMsg{requestCount: count, batchEvents: events, err: err}
	}
}

// Update handles messages for the info tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case statsLoadedMsg:
		m.requestCount = msg.requestCount
		m.batchEvents = msg.batchEvents
		m.statsErr = msg.err

	case app.RefreshMsg:
		cmds = append(cmds, m.loadStatsCmd())

	case tea.KeyMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// SetSize sets the available size for the info tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{
		m.keys.Refresh,
	}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.Refresh},
		{m.keys.Up, m.keys.Down},
	}
}
