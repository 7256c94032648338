// Package services provides service orchestration for the TUI.
package services

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/inference-gw/admin-tui/internal/api"
	"github.com/inference-gw/admin-tui/internal/api/mock"
	"github.com/inference-gw/admin-tui/internal/config"
	"github.com/inference-gw/admin-tui/internal/db"
	"github.com/inference-gw/admin-tui/internal/logger"
	"github.com/inference-gw/admin-tui/internal/models"
	"github.com/inference-gw/admin-tui/internal/query"
	"github.com/inference-gw/admin-tui/internal/services/batches"
	"github.com/inference-gw/admin-tui/internal/services/billing"
	"github.com/inference-gw/admin-tui/internal/services/catalog"
	"github.com/inference-gw/admin-tui/internal/services/credentials"
	"github.com/inference-gw/admin-tui/internal/services/requests"
)

type (
	// CacheChangedEvent is emitted when a cache family is written or
	// invalidated; tabs showing that family refetch.
	CacheChangedEvent struct {
		Key         query.Key
		Invalidated bool
	}

	// BatchTransitionEvent is emitted when a polled batch changes status.
	BatchTransitionEvent struct {
		Batch    models.Batch
		From     models.BatchStatus
		Terminal bool
	}

	// RequestsSyncedEvent is emitted after a history sync landed new entries.
	RequestsSyncedEvent struct {
		Inserted int
	}

	// CredentialsChangedEvent is emitted when the credential file rotates.
	CredentialsChangedEvent struct {
		BaseURL string
	}

	// ErrorEvent is emitted when an error occurs in any service.
	ErrorEvent struct {
		Service string
		Error   error
	}
)

// ServiceEvent is the interface implemented by all service events.
type ServiceEvent interface {
	isServiceEvent()
}

func (CacheChangedEvent) isServiceEvent()       {}
func (BatchTransitionEvent) isServiceEvent()    {}
func (RequestsSyncedEvent) isServiceEvent()     {}
func (CredentialsChangedEvent) isServiceEvent() {}
func (ErrorEvent) isServiceEvent()              {}

// requestSyncInterval is how often the history sync runs; it is a slow
// background pull, unrelated to the batch poll cadence.
const requestSyncInterval = time.Minute

// Manager orchestrates services and event routing.
type Manager struct {
	mu          sync.RWMutex
	client      *api.Client
	store       *query.Store
	database    *db.DB
	catalog     *catalog.Service
	batches     *batches.Service
	billing     *billing.Service
	requests    *requests.Service
	credentials *credentials.Service
	demo        bool
	storeEvents chan query.Event
	stopChan    chan struct{}
	subscribers []chan<- ServiceEvent
}

// NewManager creates a new service manager. In demo mode the REST client is
// backed by the fixture transport instead of the network.
func NewManager(cfg *config.Config) (*Manager, error) {
	var transport http.RoundTripper
	if cfg.Demo {
		transport = mock.New()
	}
	client := api.New(cfg.BaseURL, cfg.Token, transport)
	store := query.NewStore()

	m := &Manager{
		client:   client,
		store:    store,
		demo:     cfg.Demo,
		stopChan: make(chan struct{}),
	}

	var err error
	m.database, err = db.New(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	m.catalog = catalog.New(client, store)
	m.batches = batches.New(client, store, cfg.PollInterval)
	m.billing = billing.New(client, store)
	m.requests = requests.New(client, store, m.database)

	// The credential watcher is best-effort: a missing directory just means
	// nothing to watch, not a startup failure.
	if !cfg.Demo {
		m.credentials, err = credentials.New(cfg.CredentialsPath)
		if err != nil {
			logger.Warn("credential watching disabled", "path", cfg.CredentialsPath, "error", err)
		}
	}

	m.storeEvents = store.Subscribe()

	go m.routeEvents()
	go m.syncRequests()

	return m, nil
}

// routeEvents routes events from individual services to subscribers.
func (m *Manager) routeEvents() {
	var credEvents <-chan credentials.Event
	if m.credentials != nil {
		credEvents = m.credentials.Events()
	}

	for {
		select {
		case event, ok := <-m.storeEvents:
			if !ok {
				return
			}
			m.broadcast(CacheChangedEvent{
				Key:         event.Key,
				Invalidated: event.Type == query.EventInvalidate,
			})

		case event := <-m.batches.Events():
			m.handleBatchEvent(event)

		case event := <-credEvents:
			m.handleCredentialsEvent(event)

		case <-m.stopChan:
			return
		}
	}
}

func (m *Manager) handleBatchEvent(event batches.Event) {
	switch event.Type {
	// A terminal transition arrives as both event types; only the terminal
	// one is forwarded so subscribers see each change exactly once.
	case batches.EventBatchTransition:
		if event.Batch.Status.IsTerminal() {
			return
		}
		m.broadcast(BatchTransitionEvent{
			Batch: event.Batch,
			From:  event.From,
		})
	case batches.EventBatchTerminal:
		if m.database != nil {
			if err := m.database.InsertBatchEvent(event.Batch); err != nil {
				logger.Warn("failed to record batch event", "batch", event.Batch.ID, "error", err)
			}
		}
		m.broadcast(BatchTransitionEvent{
			Batch:    event.Batch,
			From:     event.From,
			Terminal: true,
		})
	case batches.EventPollError:
		m.broadcast(ErrorEvent{Service: "batches", Error: event.Error})
	}
}

func (m *Manager) handleCredentialsEvent(event credentials.Event) {
	switch event.Type {
	case credentials.EventChanged:
		m.client.SetCredentials(event.Credentials.BaseURL, event.Credentials.Token)
		m.broadcast(CredentialsChangedEvent{BaseURL: event.Credentials.BaseURL})
	case credentials.EventError:
		m.broadcast(ErrorEvent{Service: "credentials", Error: event.Error})
	}
}

// syncRequests runs the history sync loop.
func (m *Manager) syncRequests() {
	m.runSync()

	ticker := time.NewTicker(requestSyncInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.runSync()
		case <-m.stopChan:
			return
		}
	}
}

func (m *Manager) runSync() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	inserted, err := m.requests.Sync(ctx)
	if err != nil {
		m.broadcast(ErrorEvent{Service: "requests", Error: err})
		return
	}
	if inserted > 0 {
		m.requests.InvalidateAggregates()
		m.broadcast(RequestsSyncedEvent{Inserted: inserted})
	}

	if pruned, err := m.requests.PruneOld(); err != nil {
		logger.Warn("failed to prune request history", "error", err)
	} else if pruned > 0 {
		logger.Debug("pruned request history", "rows", pruned)
	}
}

// broadcast sends an event to all subscribers.
func (m *Manager) broadcast(event ServiceEvent) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, sub := range m.subscribers {
		select {
		case sub <- event:
		default:
			// Subscriber channel full, skip
		}
	}
}

// Subscribe creates a channel for receiving service events.
// Returns a tea.Cmd that can be used in Bubble Tea's Init or Update.
func (m *Manager) Subscribe() (chan ServiceEvent, tea.Cmd) {
	ch := make(chan ServiceEvent, 50)

	m.mu.Lock()
	m.subscribers = append(m.subscribers, ch)
	m.mu.Unlock()

	return ch, waitForEvent(ch)
}

// waitForEvent returns a tea.Cmd that waits for the next event.
func waitForEvent(ch <-chan ServiceEvent) tea.Cmd {
	return func() tea.Msg {
		return <-ch
	}
}

// WaitForEvent returns a tea.Cmd for the next event on a channel.
func WaitForEvent(ch <-chan ServiceEvent) tea.Cmd {
	return waitForEvent(ch)
}

// Unsubscribe removes a subscriber channel.
func (m *Manager) Unsubscribe(ch chan ServiceEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, sub := range m.subscribers {
		if sub == ch {
			m.subscribers = append(m.subscribers[:i], m.subscribers[i+1:]...)
			close(ch)
			break
		}
	}
}

// Catalog returns the user/group/model/endpoint service.
func (m *Manager) Catalog() *catalog.Service {
	return m.catalog
}

// Batches returns the batch and file service.
func (m *Manager) Batches() *batches.Service {
	return m.batches
}

// Billing returns the billing service.
func (m *Manager) Billing() *billing.Service {
	return m.billing
}

// Requests returns the request-analytics service.
func (m *Manager) Requests() *requests.Service {
	return m.requests
}

// Store returns the query cache for direct inspection.
func (m *Manager) Store() *query.Store {
	return m.store
}

// Client returns the underlying REST client.
func (m *Manager) Client() *api.Client {
	return m.client
}

// Database returns the database instance for direct access.
func (m *Manager) Database() *db.DB {
	return m.database
}

// Demo reports whether the manager runs against fixture data.
func (m *Manager) Demo() bool {
	return m.demo
}

// Close closes the manager and all its services.
func (m *Manager) Close() error {
	close(m.stopChan)

	m.mu.Lock()
	for _, sub := range m.subscribers {
		close(sub)
	}
	m.subscribers = nil
	m.mu.Unlock()

	var errs []error

	if err := m.batches.Close(); err != nil {
		errs = append(errs, err)
	}

	if m.credentials != nil {
		if err := m.credentials.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	if m.database != nil {
		if err := m.database.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}
