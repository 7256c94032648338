// Package deployments provides the model catalog tab.
package deployments

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/inference-gw/admin-tui/internal/api"
	"github.com/inference-gw/admin-tui/internal/app"
	"github.com/inference-gw/admin-tui/internal/models"
	"github.com/inference-gw/admin-tui/internal/services"
	"github.com/inference-gw/admin-tui/internal/ui/components"
)

const pageSize = 10

// hostFilters are the hosted_on values the filter key cycles through. The
// empty string means no filter.
var hostFilters = []string{"", "vLLM", "ollama", "openai"}

// keyMap defines the key bindings specific to the models tab.
type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	NextPage key.Binding
	PrevPage key.Binding
	Select   key.Binding
	Filter   key.Binding
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
			key.WithHelp("enter", "details"),
		),
		Filter: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "cycle host filter"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
	}
}

// Model represents the models tab state.
type Model struct {
	state    *app.State
	commands *app.Commands
	keys     keyMap
	spinner  components.LoadingSpinner

	page      models.Page[models.Deployment]
	endpoints models.Page[models.Endpoint]
	selected  int
	skip      int64
	hostIdx   int

	detail *models.Deployment

	loading bool
	loaded  bool
	width   int
	height  int
}

// New creates a new models tab.
func New(state *app.State, commands *app.Commands) *Model {
	return &Model{
		state:    state,
		commands: commands,
		keys:     defaultKeyMap(),
		spinner:  components.NewSpinner("Loading model catalog..."),
	}
}

// Init initializes the models tab.
func (m *Model) Init() tea.Cmd {
	m.loading = true
	return tea.Batch(m.spinner.Init(), m.loadCmd(), m.commands.LoadEndpoints(api.ListParams{Limit: 50}))
}

func (m *Model) loadCmd() tea.Cmd {
	return m.commands.LoadModels(api.ListParams{
		Include:  "groups",
		HostedOn: hostFilters[m.hostIdx],
		Skip:     m.skip,
		Limit:    pageSize,
	})
}

// Update handles messages for the models tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case app.ModelsLoadedMsg:
		m.loading = false
		m.loaded = true
		if msg.Err != nil {
			cmds = append(cmds, m.commands.NotifyError(fmt.Sprintf("Models: %v", msg.Err)))
		} else {
			m.page = msg.Page
			if m.selected >= len(m.page.Data) {
				m.selected = max(0, len(m.page.Data)-1)
			}
		}

	case app.ModelDetailLoadedMsg:
		m.loading = false
		if msg.Err != nil {
			cmds = append(cmds, m.commands.NotifyError(fmt.Sprintf("Model detail: %v", msg.Err)))
		} else {
			dep := msg.Model
			m.detail = &dep
		}

	case app.EndpointsLoadedMsg:
		if msg.Err != nil {
			cmds = append(cmds, m.commands.NotifyError(fmt.Sprintf("Endpoints: %v", msg.Err)))
		} else {
			m.endpoints = msg.Page
		}

	case app.RefreshMsg:
		m.loading = true
		cmds = append(cmds,
			m.commands.Reload(m.loadCmd(), "models"),
			m.commands.Reload(m.commands.LoadEndpoints(api.ListParams{Limit: 50}), "endpoints"))

	case app.ServiceEventMsg:
		if cache, ok := msg.Event.(services.CacheChangedEvent); ok {
			if cache.Invalidated && len(cache.Key) > 0 && cache.Key[0] == "models" {
				cmds = append(cmds, m.loadCmd())
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
	var cmds []tea.Cmd

	switch {
	case key.Matches(msg, m.keys.Back):
		m.detail = nil

	case key.Matches(msg, m.keys.Up):
		if m.selected > 0 {
			m.selected--
		}

	case key.Matches(msg, m.keys.Down):
		if m.selected < len(m.page.Data)-1 {
			m.selected++
		}

	case key.Matches(msg, m.keys.NextPage):
		if m.skip+pageSize < m.page.TotalCount {
			m.skip += pageSize
			m.selected = 0
			m.loading = true
			cmds = append(cmds, m.loadCmd())
		}

	case key.Matches(msg, m.keys.PrevPage):
		if m.skip > 0 {
			m.skip = max(0, m.skip-pageSize)
			m.selected = 0
			m.loading = true
			cmds = append(cmds, m.loadCmd())
		}

	case key.Matches(msg, m.keys.Filter):
		m.hostIdx = (m.hostIdx + 1) % len(hostFilters)
		m.skip = 0
		m.selected = 0
		m.loading = true
		cmds = append(cmds, m.loadCmd())

	case key.Matches(msg, m.keys.Select):
		if m.selected >= 0 && m.selected < len(m.page.Data) {
			m.loading = true
			cmds = append(cmds, m.commands.LoadModelDetail(m.page.Data[m.selected].ID))
		}
	}

	return m, tea.Batch(cmds...)
}

// SetSize sets the available size for the models tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{
		m.keys.Select,
		m.keys.Filter,
	}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.Select, m.keys.Filter, m.keys.Back},
		{m.keys.Up, m.keys.Down, m.keys.NextPage, m.keys.PrevPage},
	}
}
