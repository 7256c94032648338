// Package batches tracks batch jobs and stored files: cached reads, the
// cancel/create mutations, and a polling loop that keeps non-terminal
// batches fresh and reacts when one finishes.
package batches

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gen2brain/beeep"

	"github.com/inference-gw/admin-tui/internal/api"
	"github.com/inference-gw/admin-tui/internal/logger"
	"github.com/inference-gw/admin-tui/internal/models"
	"github.com/inference-gw/admin-tui/internal/query"
)

// Resource family names used as cache key roots.
const (
	ResourceBatches = "batches"
	ResourceFiles   = "files"
)

// Event represents a batch service event.
type Event struct {
	Type  EventType
	Batch models.Batch
	From  models.BatchStatus
	Error error
}

// EventType defines the type of batch event.
type EventType int

const (
	// EventBatchTransition indicates a batch changed status.
	EventBatchTransition EventType = iota
	// EventBatchTerminal indicates a batch reached a terminal status.
	EventBatchTerminal
	// EventPollError indicates a background poll failed.
	EventPollError
)

// Service manages batch and file resources and the status polling loop.
type Service struct {
	client *api.Client
	store  *query.Store

	mu       sync.Mutex
	statuses map[string]models.BatchStatus
	active   bool

	interval  time.Duration
	eventChan chan Event
	stopChan  chan struct{}
	notify    func(title, body string) error
}

// New creates the batch service and starts the polling goroutine. The loop
// only refreshes while at least one known batch is non-terminal; Kick
// restarts it after a mutation.
func New(client *api.Client, store *query.Store, interval time.Duration) *Service {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	s := &Service{
		client:    client,
		store:     store,
		statuses:  make(map[string]models.BatchStatus),
		active:    true,
		interval:  interval,
		eventChan: make(chan Event, 100),
		stopChan:  make(chan struct{}),
		notify: func(title, body string) error {
			return beeep.Notify(title, body, "")
		},
	}
	go s.poll()
	return s
}

// Events returns the event channel.
func (s *Service) Events() <-chan Event {
	return s.eventChan
}

// Batches returns a cached cursor page of batches and records the observed
// statuses for transition detection.
func (s *Service) Batches(ctx context.Context, params api.ListParams) (models.CursorPage[models.Batch], error) {
	key := query.ListKey(ResourceBatches, query.Options{
		Skip: params.Skip, Limit: params.Limit, After: params.After,
	})
	page, err := query.FetchAs(ctx, s.store, key, func(ctx context.Context) (models.CursorPage[models.Batch], error) {
		return s.client.ListBatches(ctx, params)
	})
	if err == nil {
		s.observe(page.Data)
	}
	return page, err
}

// Batch returns a single batch, cached by id.
func (s *Service) Batch(ctx context.Context, id string) (models.Batch, error) {
	key := query.DetailKey(ResourceBatches, id, "")
	batch, err := query.FetchAs(ctx, s.store, key, func(ctx context.Context) (models.Batch, error) {
		return s.client.GetBatch(ctx, id)
	})
	if err == nil {
		s.observe([]models.Batch{batch})
	}
	return batch, err
}

// Create submits a batch, invalidates the batch family and wakes the poller.
func (s *Service) Create(ctx context.Context, req models.BatchCreate) (models.Batch, error) {
	batch, err := s.client.CreateBatch(ctx, req)
	if err != nil {
		return batch, err
	}
	s.store.Invalidate(query.FamilyKey(ResourceBatches))
	s.Kick()
	return batch, nil
}

// Cancel requests cancellation, invalidates the batch family and wakes the
// poller so the cancelling to cancelled transition is picked up.
func (s *Service) Cancel(ctx context.Context, id string) (models.Batch, error) {
	batch, err := s.client.CancelBatch(ctx, id)
	if err != nil {
		return batch, err
	}
	s.store.Invalidate(query.FamilyKey(ResourceBatches))
	s.Kick()
	return batch, nil
}

// Files returns a cached cursor page of stored files.
func (s *Service) Files(ctx context.Context, params api.ListParams) (models.CursorPage[models.File], error) {
	key := query.ListKey(ResourceFiles, query.Options{
		Purpose: params.Purpose, Skip: params.Skip, Limit: params.Limit, After: params.After,
	})
	return query.FetchAs(ctx, s.store, key, func(ctx context.Context) (models.CursorPage[models.File], error) {
		return s.client.ListFiles(ctx, params)
	})
}

// File returns a single file's metadata, cached by id.
func (s *Service) File(ctx context.Context, id string) (models.File, error) {
	key := query.DetailKey(ResourceFiles, id, "")
	return query.FetchAs(ctx, s.store, key, func(ctx context.Context) (models.File, error) {
		return s.client.GetFile(ctx, id)
	})
}

// DeleteFile deletes a file and invalidates the file family.
func (s *Service) DeleteFile(ctx context.Context, id string) error {
	if err := s.client.DeleteFile(ctx, id); err != nil {
		return err
	}
	s.store.Invalidate(query.FamilyKey(ResourceFiles))
	return nil
}

// FileContent returns a file's parsed records, cached by id. Content is
// immutable server-side, so the cache is only dropped with the file family.
func (s *Service) FileContent(ctx context.Context, id string) ([]models.BatchRecord, error) {
	key := query.DetailKey(ResourceFiles, id, "content")
	return query.FetchAs(ctx, s.store, key, func(ctx context.Context) ([]models.BatchRecord, error) {
		return s.client.FileContent(ctx, id)
	})
}

// Kick marks the poller active so the next tick refreshes even if every
// previously known batch had settled.
func (s *Service) Kick() {
	s.mu.Lock()
	s.active = true
	s.mu.Unlock()
}

// observe records the latest statuses and emits transition events. A batch
// newly reaching a terminal status invalidates the file family: its output
// or error file has just appeared.
func (s *Service) observe(batches []models.Batch) {
	type transition struct {
		batch models.Batch
		from  models.BatchStatus
	}
	var transitions []transition

	s.mu.Lock()
	for _, b := range batches {
		prev, seen := s.statuses[b.ID]
		s.statuses[b.ID] = b.Status
		if seen && prev != b.Status {
			transitions = append(transitions, transition{batch: b, from: prev})
		}
	}
	s.mu.Unlock()

	// Any transition makes every cached batch page stale, not just the one
	// the poller refreshes. Drop the whole family so other pages refetch.
	if len(transitions) > 0 {
		s.store.Invalidate(query.FamilyKey(ResourceBatches))
	}

	for _, tr := range transitions {
		s.sendEvent(Event{Type: EventBatchTransition, Batch: tr.batch, From: tr.from})
		if tr.batch.Status.IsTerminal() {
			s.store.Invalidate(query.FamilyKey(ResourceFiles))
			s.sendEvent(Event{Type: EventBatchTerminal, Batch: tr.batch, From: tr.from})
			title := fmt.Sprintf("Batch %s", tr.batch.Status)
			body := fmt.Sprintf("%s: %d/%d requests completed",
				tr.batch.ID, tr.batch.RequestCounts.Completed, tr.batch.RequestCounts.Total)
			if err := s.notify(title, body); err != nil {
				logger.Debug("desktop notification failed", "error", err)
			}
		}
	}
}

// HasPending reports whether any known batch is still non-terminal.
func (s *Service) HasPending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, status := range s.statuses {
		if !status.IsTerminal() {
			return true
		}
	}
	return false
}

// poll refreshes the first page of batches while any batch is pending.
func (s *Service) poll() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.mu.Lock()
			active := s.active
			s.mu.Unlock()
			if !active {
				continue
			}

			ctx, cancel := context.WithTimeout(context.Background(), s.interval)
			s.refresh(ctx)
			cancel()

			if !s.HasPending() {
				s.mu.Lock()
				s.active = false
				s.mu.Unlock()
			}
		case <-s.stopChan:
			return
		}
	}
}

// refresh forces the default batch listing and reconciles observed statuses.
func (s *Service) refresh(ctx context.Context) {
	key := query.ListKey(ResourceBatches, query.Options{Limit: 20})
	page, err := query.ForceFetchAs(ctx, s.store, key, func(ctx context.Context) (models.CursorPage[models.Batch], error) {
		return s.client.ListBatches(ctx, api.ListParams{Limit: 20})
	})
	if err != nil {
		s.sendEvent(Event{Type: EventPollError, Error: err})
		return
	}
	s.observe(page.Data)
}

// sendEvent sends an event to the event channel non-blocking.
func (s *Service) sendEvent(event Event) {
	select {
	case s.eventChan <- event:
	default:
		// Channel full, drop oldest
		select {
		case <-s.eventChan:
		default:
		}
		select {
		case s.eventChan <- event:
		default:
		}
	}
}

// Close stops the polling goroutine.
func (s *Service) Close() error {
	close(s.stopChan)
	return nil
}
