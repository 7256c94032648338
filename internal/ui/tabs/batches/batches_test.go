package batches

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

func testBatches() models.CursorPage[models.Batch] {
	return models.CursorPage[models.Batch]{
		Data: []models.Batch{
			{
				ID:            "batch_abc123def456",
				Endpoint:      "/v1/chat/completions",
				Status:        models.BatchInProgress,
				InputFileID:   "file_in",
				RequestCounts: models.RequestCounts{Total: 10, Completed: 3, Failed: 2},
				CreatedAt:     time.Now().Unix(),
			},
			{
				ID:          "batch_done",
				Endpoint:    "/v1/embeddings",
				Status:      models.BatchCompleted,
				InputFileID: "file_in2",
				CreatedAt:   time.Now().Unix(),
			},
		},
		FirstID: "batch_abc123def456",
		LastID:  "batch_done",
		HasMore: true,
	}
}

func TestNew(t *testing.T) {
	m := newTestModel(t)
	if m == nil {
		t.Fatal("New returned nil")
	}
}

func TestModel_BatchesView(t *testing.T) {
	m := newTestModel(t)
	m.SetSize(100, 40)

	updated, _ := m.Update(app.BatchesLoadedMsg{Page: testBatches()})
	m = updated.(*Model)

	view := m.View()
	if !strings.Contains(view, "in_progress") {
		t.Error("View should show the batch status")
	}
	if !strings.Contains(view, "3/10") {
		t.Error("View should show progress counts for running batches")
	}
	if !strings.Contains(view, "2 failed") {
		t.Error("View should call out failed request counts")
	}
}

func TestModel_CursorPagination(t *testing.T) {
	m := newTestModel(t)
	updated, _ := m.Update(app.BatchesLoadedMsg{Page: testBatches()})
	m = updated.(*Model)

	// Next page pushes the cursor.
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRight})
	m = updated.(*Model)
	if cmd == nil {
		t.Fatal("next page should trigger a load")
	}
	if m.currentBatchCursor() != "batch_done" {
		t.Errorf("cursor = %q, want %q", m.currentBatchCursor(), "batch_done")
	}

	// Previous page pops it.
	updated, cmd = m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	m = updated.(*Model)
	if cmd == nil {
		t.Fatal("prev page should trigger a load")
	}
	if m.currentBatchCursor() != "" {
		t.Errorf("cursor = %q, want empty after popping", m.currentBatchCursor())
	}
}

func TestModel_CancelOnlyNonTerminal(t *testing.T) {
	m := newTestModel(t)
	updated, _ := m.Update(app.BatchesLoadedMsg{Page: testBatches()})
	m = updated.(*Model)

	// First batch is in_progress: cancellable.
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'c'}})
	if cmd == nil {
		t.Error("cancel on a running batch should produce a command")
	}

	// Second batch is completed: nothing to cancel.
	m.batchSel = 1
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'c'}})
	if cmd != nil {
		t.Error("cancel on a terminal batch should be a no-op")
	}
}

func TestModel_CurlSnippet(t *testing.T) {
	m := newTestModel(t)
	updated, _ := m.Update(app.BatchesLoadedMsg{Page: testBatches()})
	m = updated.(*Model)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'u'}})
	if cmd == nil {
		t.Fatal("u should surface a curl snippet")
	}
	msg := cmd()
	note, ok := msg.(app.AddNotificationMsg)
	if !ok {
		t.Fatalf("Expected AddNotificationMsg, got %T", msg)
	}
	if !strings.Contains(note.Message, "curl") {
		t.Errorf("snippet %q should start with curl", note.Message)
	}
	if !strings.Contains(note.Message, "batch_abc123def456") {
		t.Errorf("snippet %q should target the selected batch", note.Message)
	}
	if !strings.Contains(note.Message, "http://demo.local/admin/api/v1/batches/") {
		t.Errorf("snippet %q should use the configured base URL", note.Message)
	}
}

func TestModel_FilesMode(t *testing.T) {
	m := newTestModel(t)
	m.SetSize(100, 40)
	m.loaded = true

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'f'}})
	m = updated.(*Model)
	if m.mode != modeFiles {
		t.Fatal("f should switch to the files listing")
	}
	if cmd == nil {
		t.Error("switching to files should load them")
	}

	updated, _ = m.Update(app.FilesLoadedMsg{Page: models.CursorPage[models.File]{
		Data: []models.File{
			{ID: "file_1", Filename: "input.jsonl", Bytes: 2048, Purpose: models.FilePurposeBatch, CreatedAt: time.Now().Unix()},
		},
	}})
	m = updated.(*Model)

	view := m.View()
	if !strings.Contains(view, "input.jsonl") {
		t.Error("files view should list filenames")
	}
	if !strings.Contains(view, "2.0 KiB") {
		t.Error("files view should humanize sizes")
	}
}

func TestModel_RecordsView(t *testing.T) {
	m := newTestModel(t)
	m.SetSize(100, 40)
	m.loaded = true

	updated, _ := m.Update(app.FileContentLoadedMsg{
		FileID: "file_1",
		Records: []models.BatchRecord{
			{CustomID: "req-1", Method: "POST", URL: "/v1/chat/completions", Body: []byte(`{"model":"llama"}`)},
		},
	})
	m = updated.(*Model)
	if m.mode != modeRecords {
		t.Fatal("loaded file content should open the records view")
	}

	view := m.View()
	if !strings.Contains(view, "req-1") {
		t.Error("records view should show custom IDs")
	}

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyEscape})
	m = updated.(*Model)
	if m.mode != modeFiles {
		t.Error("esc should leave the records view")
	}
}

func TestModel_BatchTransitionReloads(t *testing.T) {
	m := newTestModel(t)

	_, cmd := m.Update(app.ServiceEventMsg{
		Event: services.BatchTransitionEvent{
			Batch:    models.Batch{ID: "batch_done", Status: models.BatchCompleted},
			From:     models.BatchFinalizing,
			Terminal: true,
		},
	})
	if cmd == nil {
		t.Error("a batch transition should reload the listing")
	}
}

func TestFormatBytes(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{512, "512 B"},
		{2048, "2.0 KiB"},
		{3 << 20, "3.0 MiB"},
	}
	for _, tc := range cases {
		if got := formatBytes(tc.in); got != tc.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tc.in, got, tc.want)
		}
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
