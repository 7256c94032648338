package batches

import (
	"context"
	"testing"
	"time"

	"github.com/inference-gw/admin-tui/internal/api"
	"github.com/inference-gw/admin-tui/internal/api/mock"
	"github.com/inference-gw/admin-tui/internal/models"
	"github.com/inference-gw/admin-tui/internal/query"
)

func newService(t *testing.T) (*Service, *query.Store) {
	t.Helper()
	store := query.NewStore()
	client := api.New("http://gateway.test", "test-token", mock.New())
	// A long interval keeps the background poller quiet during tests;
	// observe is driven directly.
	s := New(client, store, time.Hour)
	s.notify = func(title, body string) error { return nil }
	t.Cleanup(func() { _ = s.Close() })
	return s, store
}

func collectEvents(s *Service) []Event {
	var events []Event
	for {
		select {
		case ev := <-s.Events():
			events = append(events, ev)
		default:
			return events
		}
	}
}

func TestObserveEmitsTransitions(t *testing.T) {
	s, _ := newService(t)

	running := models.Batch{ID: "b1", Status: models.BatchInProgress}
	s.observe([]models.Batch{running})

	// First sighting is not a transition.
	if events := collectEvents(s); len(events) != 0 {
		t.Fatalf("first observation emitted %d events, want 0", len(events))
	}

	running.Status = models.BatchFinalizing
	s.observe([]models.Batch{running})

	events := collectEvents(s)
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	if events[0].Type != EventBatchTransition {
		t.Errorf("event type = %v, want transition", events[0].Type)
	}
	if events[0].From != models.BatchInProgress {
		t.Errorf("from = %s, want in_progress", events[0].From)
	}
}

func TestTerminalTransitionInvalidatesFiles(t *testing.T) {
	s, store := newService(t)

	// Prime a file listing so there is something to invalidate.
	fileKey := query.ListKey(ResourceFiles, query.Options{Limit: 10})
	store.Set(fileKey, models.CursorPage[models.File]{})

	batch := models.Batch{ID: "b1", Status: models.BatchFinalizing,
		RequestCounts: models.RequestCounts{Total: 3, Completed: 3}}
	s.observe([]models.Batch{batch})
	collectEvents(s)

	batch.Status = models.BatchCompleted
	s.observe([]models.Batch{batch})

	if _, ok := store.Get(fileKey); ok {
		t.Error("file listing survived a terminal batch transition")
	}

	events := collectEvents(s)
	var sawTerminal bool
	for _, ev := range events {
		if ev.Type == EventBatchTerminal {
			sawTerminal = true
		}
	}
	if !sawTerminal {
		t.Error("no terminal event emitted")
	}
}

func TestTransitionInvalidatesBatchListings(t *testing.T) {
	s, store := newService(t)

	// A page cached under a different limit than the poller's own key. It
	// must not keep serving the old status after the poller sees a change.
	listKey := query.ListKey(ResourceBatches, query.Options{Limit: 10})
	batch := models.Batch{ID: "b1", Status: models.BatchInProgress,
		RequestCounts: models.RequestCounts{Total: 5, Completed: 2}}
	store.Set(listKey, models.CursorPage[models.Batch]{Data: []models.Batch{batch}})

	s.observe([]models.Batch{batch})
	if _, ok := store.Get(listKey); !ok {
		t.Fatal("first sighting dropped the batch listing")
	}

	batch.Status = models.BatchCompleted
	batch.RequestCounts.Completed = 5
	s.observe([]models.Batch{batch})

	if _, ok := store.Get(listKey); ok {
		t.Error("batch listing survived a status transition")
	}
}

func TestNonTerminalTransitionKeepsFiles(t *testing.T) {
	s, store := newService(t)

	fileKey := query.ListKey(ResourceFiles, query.Options{Limit: 10})
	store.Set(fileKey, models.CursorPage[models.File]{})

	batch := models.Batch{ID: "b1", Status: models.BatchValidating}
	s.observe([]models.Batch{batch})
	batch.Status = models.BatchInProgress
	s.observe([]models.Batch{batch})

	if _, ok := store.Get(fileKey); !ok {
		t.Error("file listing dropped on a non-terminal transition")
	}
}

func TestHasPending(t *testing.T) {
	s, _ := newService(t)

	if s.HasPending() {
		t.Error("empty service should have nothing pending")
	}

	s.observe([]models.Batch{{ID: "b1", Status: models.BatchCompleted}})
	if s.HasPending() {
		t.Error("terminal-only statuses should not be pending")
	}

	s.observe([]models.Batch{{ID: "b2", Status: models.BatchInProgress}})
	if !s.HasPending() {
		t.Error("in_progress batch should be pending")
	}

	s.observe([]models.Batch{{ID: "b2", Status: models.BatchCancelling}})
	if !s.HasPending() {
		t.Error("cancelling batch should still be pending")
	}

	s.observe([]models.Batch{{ID: "b2", Status: models.BatchCancelled}})
	if s.HasPending() {
		t.Error("cancelled batch should not be pending")
	}
}

func TestCancelInvalidatesAndWakesPoller(t *testing.T) {
	s, store := newService(t)
	ctx := context.Background()

	page, err := s.Batches(ctx, api.ListParams{Limit: 10})
	if err != nil {
		t.Fatalf("Batches: %v", err)
	}
	if len(page.Data) == 0 {
		t.Fatal("no seeded batches")
	}

	s.mu.Lock()
	s.active = false
	s.mu.Unlock()

	batch, err := s.Cancel(ctx, mock.BatchRunningID)
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if batch.Status != models.BatchCancelling {
		t.Errorf("status = %s, want cancelling", batch.Status)
	}

	listKey := query.ListKey(ResourceBatches, query.Options{Limit: 10})
	if _, ok := store.Get(listKey); ok {
		t.Error("batch listing survived cancel")
	}

	s.mu.Lock()
	active := s.active
	s.mu.Unlock()
	if !active {
		t.Error("cancel did not wake the poller")
	}
}

func TestFileContentCached(t *testing.T) {
	s, store := newService(t)
	ctx := context.Background()

	records, err := s.FileContent(ctx, mock.FileInputID)
	if err != nil {
		t.Fatalf("FileContent: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d records, want 3", len(records))
	}

	key := query.DetailKey(ResourceFiles, mock.FileInputID, "content")
	if _, ok := store.Get(key); !ok {
		t.Error("file content not cached")
	}

	if err := s.DeleteFile(ctx, mock.FileErrorID); err != nil {
		t.Fatalf("DeleteFile: %v", err)
	}
	if _, ok := store.Get(key); ok {
		t.Error("file-family invalidation left content behind")
	}
}
