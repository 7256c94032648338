// Package users provides the user management tab.
package users

import (
	"fmt"
	"strings"

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

const pageSize = 10

// keyMap defines the key bindings specific to the users tab.
type keyMap struct {
	Search   key.Binding
	Up       key.Binding
	Down     key.Binding
	NextPage key.Binding
	PrevPage key.Binding
	Select   key.Binding
	Create   key.Binding
	Delete   key.Binding
	Back     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
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
		Create: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add user"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete user"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
	}
}

// Model represents the users tab state.
type Model struct {
	state    *app.State
	commands *app.Commands
	keys     keyMap
	spinner  components.LoadingSpinner
	search   textinput.Model
	create   textinput.Model

	page     models.Page[models.User]
	selected int
	skip     int64
	query    string

	detail     *models.User
	detailKeys []models.APIKey

	searchSeq int
	searching bool
	creating  bool
	loading   bool
	loaded    bool
	width     int
	height    int
}

// New creates a new users model.
func New(state *app.State, commands *app.Commands) *Model {
	search := textinput.New()
	search.Placeholder = "username or email"
	search.CharLimit = 64
	search.Width = 30

	create := textinput.New()
	create.Placeholder = "username email@example.com"
	create.CharLimit = 96
	create.Width = 40

	return &Model{
		state:    state,
		commands: commands,
		keys:     defaultKeyMap(),
		spinner:  components.NewSpinner("Loading users..."),
		search:   search,
		create:   create,
	}
}

// Init initializes the users tab.
func (m *Model) Init() tea.Cmd {
	m.loading = true
	return tea.Batch(m.spinner.Init(), m.loadCmd())
}

func (m *Model) loadCmd() tea.Cmd {
	return m.commands.LoadUsers(api.ListParams{
		Include: "groups,billing",
		Search:  m.query,
		Skip:    m.skip,
		Limit:   pageSize,
	})
}

// Update handles messages for the users tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case app.UsersLoadedMsg:
		m.loading = false
		m.loaded = true
		if msg.Err != nil {
			cmds = append(cmds, m.commands.NotifyError(fmt.Sprintf("Users: %v", msg.Err)))
		} else {
			m.page = msg.Page
			if m.selected >= len(m.page.Data) {
				m.selected = max(0, len(m.page.Data)-1)
			}
		}

	case app.UserDetailLoadedMsg:
		m.loading = false
		if msg.Err != nil {
			cmds = append(cmds, m.commands.NotifyError(fmt.Sprintf("User detail: %v", msg.Err)))
		} else {
			user := msg.User
			m.detail = &user
			m.detailKeys = msg.Keys
		}

	case app.UserCreatedMsg:
		if msg.Err != nil {
			cmds = append(cmds, m.commands.NotifyError(fmt.Sprintf("Create user: %v", msg.Err)))
		} else {
			cmds = append(cmds, m.commands.NotifySuccess(fmt.Sprintf("User %s created", msg.User.Username)))
			m.skip = 0
			m.loading = true
			cmds = append(cmds, m.loadCmd())
		}

	case app.UserDeletedMsg:
		if msg.Err != nil {
			cmds = append(cmds, m.commands.NotifyError(fmt.Sprintf("Delete user: %v", msg.Err)))
		} else {
			cmds = append(cmds, m.commands.NotifySuccess("User deleted"))
			m.detail = nil
			m.loading = true
			cmds = append(cmds, m.loadCmd())
		}

	case app.SearchDebouncedMsg:
		// Only the latest keystroke's timer may fire a request.
		if msg.Seq == m.searchSeq && msg.Query != m.query {
			m.query = msg.Query
			m.skip = 0
			m.selected = 0
			m.loading = true
			cmds = append(cmds, m.loadCmd())
		}

	case app.RefreshMsg:
		m.loading = true
		cmds = append(cmds, m.commands.Reload(m.loadCmd(), "users"))

	case app.ServiceEventMsg:
		if cache, ok := msg.Event.(services.CacheChangedEvent); ok {
			if cache.Invalidated && len(cache.Key) > 0 && cache.Key[0] == "users" {
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

	if m.creating {
		return m.handleCreateKey(msg)
	}

	if m.searching {
		switch {
		case key.Matches(msg, m.keys.Back):
			m.searching = false
			m.search.Blur()
		case msg.Type == tea.KeyEnter:
			m.searching = false
			m.search.Blur()
		default:
			var cmd tea.Cmd
			m.search, cmd = m.search.Update(msg)
			cmds = append(cmds, cmd)
			m.searchSeq++
			cmds = append(cmds, m.commands.DebounceSearch(m.searchSeq, m.search.Value()))
		}
		return m, tea.Batch(cmds...)
	}

	switch {
	case key.Matches(msg, m.keys.Search):
		m.searching = true
		m.search.Focus()
		cmds = append(cmds, textinput.Blink)

	case key.Matches(msg, m.keys.Back):
		m.detail = nil
		m.detailKeys = nil

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

	case key.Matches(msg, m.keys.Select):
		if u := m.selectedUser(); u != nil {
			m.loading = true
			cmds = append(cmds, m.commands.LoadUserDetail(u.ID))
		}

	case key.Matches(msg, m.keys.Create):
		m.creating = true
		m.create.SetValue("")
		m.create.Focus()
		cmds = append(cmds, textinput.Blink)

	case key.Matches(msg, m.keys.Delete):
		if u := m.selectedUser(); u != nil {
			cmds = append(cmds, m.commands.DeleteUser(u.ID))
		}
	}

	return m, tea.Batch(cmds...)
}

// handleCreateKey drives the new-user prompt. Input is "username email";
// new users start with the standard role.
func (m *Model) handleCreateKey(msg tea.KeyMsg) (app.Tab, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.creating = false
		m.create.Blur()
		return m, nil

	case tea.KeyEnter:
		fields := strings.Fields(m.create.Value())
		if len(fields) != 2 || !strings.Contains(fields[1], "@") {
			return m, m.commands.NotifyWarning("Enter a username and an email address")
		}
		m.creating = false
		m.create.Blur()
		return m, m.commands.CreateUser(models.UserCreate{
			Username: fields[0],
			Email:    fields[1],
			Roles:    []models.Role{models.RoleStandardUser},
		})

	default:
		var cmd tea.Cmd
		m.create, cmd = m.create.Update(msg)
		return m, cmd
	}
}

// InputActive reports whether a text prompt currently owns the keyboard.
func (m *Model) InputActive() bool {
	return m.searching || m.creating
}

func (m *Model) selectedUser() *models.User {
	if m.selected < 0 || m.selected >= len(m.page.Data) {
		return nil
	}
	return &m.page.Data[m.selected]
}

// SetSize sets the available size for the users tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{
		m.keys.Search,
		m.keys.Select,
		m.keys.Create,
		m.keys.Delete,
	}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.Search, m.keys.Select, m.keys.Create, m.keys.Delete},
		{m.keys.Up, m.keys.Down, m.keys.NextPage, m.keys.PrevPage},
	}
}
