// Package batches provides the batch jobs and files tab.
package batches

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/inference-gw/admin-tui/internal/api"
	"github.com/inference-gw/admin-tui/internal/app"
	"github.com/inference-gw/admin-tui/internal/models"
	"github.com/inference-gw/admin-tui/internal/services"
	"github.com/inference-gw/admin-tui/internal/ui/components"
)

const pageSize = 10

// viewMode selects which listing the tab is showing.
type viewMode int

const (
	modeBatches viewMode = iota
	modeFiles
	modeRecords
)

// purposeFilters are the file purposes the filter key cycles through.
var purposeFilters = []string{"", "batch", "batch_output", "batch_error"}

// keyMap defines the key bindings specific to the batches tab.
type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	NextPage key.Binding
	PrevPage key.Binding
	Select   key.Binding
	Cancel   key.Binding
	Curl     key.Binding
	Files    key.Binding
	Purpose  key.Binding
	Delete   key.Binding
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
			key.WithHelp("enter", "open"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "cancel batch"),
		),
		Curl: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "curl snippet"),
		),
		Files: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "toggle files"),
		),
		Purpose: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "cycle purpose"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete file"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
	}
}

// Model represents the batches tab state.
type Model struct {
	state    *app.State
	commands *app.Commands
	keys     keyMap
	spinner  components.LoadingSpinner
	bar      components.BatchBar
	viewport viewport.Model

	mode viewMode

	batches      models.CursorPage[models.Batch]
	batchSel     int
	batchCursors []string

	files       models.CursorPage[models.File]
	fileSel     int
	fileCursors []string
	purposeIdx  int

	recordsFile string
	records     []models.BatchRecord

	loading bool
	loaded  bool
	width   int
	height  int
}

// New creates a new batches tab.
func New(state *app.State, commands *app.Commands) *Model {
	return &Model{
		state:    state,
		commands: commands,
		keys:     defaultKeyMap(),
		spinner:  components.NewSpinner("Loading batch jobs..."),
		bar:      components.NewBatchBar(),
		viewport: viewport.New(0, 0),
	}
}

// Init initializes the batches tab.
func (m *Model) Init() tea.Cmd {
	m.loading = true
	return tea.Batch(m.spinner.Init(), m.loadBatchesCmd(""))
}

func (m *Model) loadBatchesCmd(after string) tea.Cmd {
	return m.commands.LoadBatches(api.ListParams{
		Limit: pageSize,
		After: after,
	})
}

func (m *Model) loadFilesCmd(after string) tea.Cmd {
	return m.commands.LoadFiles(api.ListParams{
		Purpose: purposeFilters[m.purposeIdx],
		Limit:   pageSize,
		After:   after,
	})
}

func (m *Model) currentBatchCursor() string {
	if len(m.batchCursors) == 0 {
		return ""
	}
	return m.batchCursors[len(m.batchCursors)-1]
}

func (m *Model) currentFileCursor() string {
	if len(m.fileCursors) == 0 {
		return ""
	}
	return m.fileCursors[len(m.fileCursors)-1]
}

// Update handles messages for the batches tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case app.BatchesLoadedMsg:
		m.loading = false
		m.loaded = true
		if msg.Err != nil {
			cmds = append(cmds, m.commands.NotifyError(fmt.Sprintf("Batches: %v", msg.Err)))
		} else {
			m.batches = msg.Page
			if m.batchSel >= len(m.batches.Data) {
				m.batchSel = max(0, len(m.batches.Data)-1)
			}
		}

	case app.BatchCancelledMsg:
		if msg.Err != nil {
			cmds = append(cmds, m.commands.NotifyError(fmt.Sprintf("Cancel batch: %v", msg.Err)))
		} else {
			cmds = append(cmds,
				m.commands.NotifySuccess(fmt.Sprintf("Batch %s cancelling", shortID(msg.Batch.ID))),
				m.loadBatchesCmd(m.currentBatchCursor()),
			)
		}

	case app.FilesLoadedMsg:
		m.loading = false
		if msg.Err != nil {
			cmds = append(cmds, m.commands.NotifyError(fmt.Sprintf("Files: %v", msg.Err)))
		} else {
			m.files = msg.Page
			if m.fileSel >= len(m.files.Data) {
				m.fileSel = max(0, len(m.files.Data)-1)
			}
		}

	case app.FileContentLoadedMsg:
		m.loading = false
		if msg.Err != nil {
			cmds = append(cmds, m.commands.NotifyError(fmt.Sprintf("File content: %v", msg.Err)))
		} else {
			m.recordsFile = msg.FileID
			m.records = msg.Records
			m.mode = modeRecords
			m.viewport.GotoTop()
		}

	case app.FileDeletedMsg:
		if msg.Err != nil {
			cmds = append(cmds, m.commands.NotifyError(fmt.Sprintf("Delete file: %v", msg.Err)))
		} else {
			cmds = append(cmds,
				m.commands.NotifySuccess("File deleted"),
				m.loadFilesCmd(m.currentFileCursor()),
			)
		}

	case app.RefreshMsg:
		m.loading = true
		switch m.mode {
		case modeFiles:
			cmds = append(cmds, m.commands.Reload(m.loadFilesCmd(m.currentFileCursor()), "files"))
		default:
			cmds = append(cmds, m.commands.Reload(m.loadBatchesCmd(m.currentBatchCursor()), "batches"))
		}

	case app.ServiceEventMsg:
		if _, ok := msg.Event.(services.BatchTransitionEvent); ok {
			cmds = append(cmds, m.loadBatchesCmd(m.currentBatchCursor()))
		}

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case components.AnimationTickMsg:
		var cmd tea.Cmd
		m.bar, cmd = m.bar.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) (app.Tab, tea.Cmd) {
	if m.mode == modeRecords {
		if key.Matches(msg, m.keys.Back) {
			m.mode = modeFiles
			m.records = nil
			return m, nil
		}
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	var cmds []tea.Cmd

	switch {
	case key.Matches(msg, m.keys.Files):
		if m.mode == modeBatches {
			m.mode = modeFiles
			m.loading = true
			cmds = append(cmds, m.loadFilesCmd(m.currentFileCursor()))
		} else {
			m.mode = modeBatches
		}

	case key.Matches(msg, m.keys.Back):
		m.mode = modeBatches

	case key.Matches(msg, m.keys.Up):
		if m.mode == modeFiles && m.fileSel > 0 {
			m.fileSel--
		} else if m.mode == modeBatches && m.batchSel > 0 {
			m.batchSel--
		}

	case key.Matches(msg, m.keys.Down):
		if m.mode == modeFiles && m.fileSel < len(m.files.Data)-1 {
			m.fileSel++
		} else if m.mode == modeBatches && m.batchSel < len(m.batches.Data)-1 {
			m.batchSel++
		}

	case key.Matches(msg, m.keys.NextPage):
		if m.mode == modeFiles && m.files.HasMore {
			m.fileCursors = append(m.fileCursors, m.files.LastID)
			m.fileSel = 0
			m.loading = true
			cmds = append(cmds, m.loadFilesCmd(m.files.LastID))
		} else if m.mode == modeBatches && m.batches.HasMore {
			m.batchCursors = append(m.batchCursors, m.batches.LastID)
			m.batchSel = 0
			m.loading = true
			cmds = append(cmds, m.loadBatchesCmd(m.batches.LastID))
		}

	case key.Matches(msg, m.keys.PrevPage):
		if m.mode == modeFiles && len(m.fileCursors) > 0 {
			m.fileCursors = m.fileCursors[:len(m.fileCursors)-1]
			m.fileSel = 0
			m.loading = true
			cmds = append(cmds, m.loadFilesCmd(m.currentFileCursor()))
		} else if m.mode == modeBatches && len(m.batchCursors) > 0 {
			m.batchCursors = m.batchCursors[:len(m.batchCursors)-1]
			m.batchSel = 0
			m.loading = true
			cmds = append(cmds, m.loadBatchesCmd(m.currentBatchCursor()))
		}

	case key.Matches(msg, m.keys.Purpose):
		if m.mode == modeFiles {
			m.purposeIdx = (m.purposeIdx + 1) % len(purposeFilters)
			m.fileCursors = nil
			m.fileSel = 0
			m.loading = true
			cmds = append(cmds, m.loadFilesCmd(""))
		}

	case key.Matches(msg, m.keys.Select):
		if m.mode == modeFiles {
			if f := m.selectedFile(); f != nil {
				m.loading = true
				cmds = append(cmds, m.commands.LoadFileContent(f.ID))
			}
		} else if b := m.selectedBatch(); b != nil {
			// Open the output when there is one, otherwise the input.
			fileID := b.InputFileID
			if b.OutputFileID != nil {
				fileID = *b.OutputFileID
			}
			m.loading = true
			cmds = append(cmds, m.commands.LoadFileContent(fileID))
		}

	case key.Matches(msg, m.keys.Cancel):
		if m.mode == modeBatches {
			if b := m.selectedBatch(); b != nil && !b.Status.IsTerminal() {
				cmds = append(cmds, m.commands.CancelBatch(b.ID))
			}
		}

	case key.Matches(msg, m.keys.Curl):
		if m.mode == modeBatches {
			if b := m.selectedBatch(); b != nil {
				cmds = append(cmds, m.commands.NotifyInfo(m.curlSnippet(b.ID)))
			}
		}

	case key.Matches(msg, m.keys.Delete):
		if m.mode == modeFiles {
			if f := m.selectedFile(); f != nil {
				cmds = append(cmds, m.commands.DeleteFile(f.ID))
			}
		}
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) selectedBatch() *models.Batch {
	if m.batchSel < 0 || m.batchSel >= len(m.batches.Data) {
		return nil
	}
	return &m.batches.Data[m.batchSel]
}

func (m *Model) selectedFile() *models.File {
	if m.fileSel < 0 || m.fileSel >= len(m.files.Data) {
		return nil
	}
	return &m.files.Data[m.fileSel]
}

// curlSnippet builds a ready-to-paste request for the selected batch.
func (m *Model) curlSnippet(batchID string) string {
	base := m.commands.Manager().Client().BaseURL()
	return fmt.Sprintf(`curl -H "Authorization: Bearer $GWADMIN_TOKEN" %s%s/batches/%s`,
		base, api.BasePath, batchID)
}

func shortID(id string) string {
	if len(id) > 14 {
		return id[:14]
	}
	return id
}

// SetSize sets the available size for the batches tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = max(0, height-4)
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	if m.mode == modeFiles {
		return []key.Binding{m.keys.Select, m.keys.Purpose, m.keys.Delete, m.keys.Files}
	}
	return []key.Binding{m.keys.Select, m.keys.Cancel, m.keys.Curl, m.keys.Files}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.Select, m.keys.Cancel, m.keys.Curl, m.keys.Files, m.keys.Purpose, m.keys.Delete},
		{m.keys.Up, m.keys.Down, m.keys.NextPage, m.keys.PrevPage, m.keys.Back},
	}
}
