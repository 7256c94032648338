// Package credentials watches the on-disk server credential file so a token
// rotated by the login tooling reaches the running TUI without a restart.
package credentials

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/inference-gw/admin-tui/internal/config"
	"github.com/inference-gw/admin-tui/internal/logger"
)

// Event represents a credentials service event.
type Event struct {
	Type        EventType
	Credentials *config.Credentials
	Error       error
}

// EventType defines the type of credentials event.
type EventType int

const (
	// EventChanged indicates the credential file changed and parsed cleanly.
	EventChanged EventType = iota
	// EventError indicates a watch or parse failure.
	EventError
)

// Service watches the credentials file and republishes its content.
type Service struct {
	mu            sync.RWMutex
	current       *config.Credentials
	filePath      string
	watcher       *fsnotify.Watcher
	eventChan     chan Event
	stopChan      chan struct{}
	debounceTimer *time.Timer
}

// New creates the service and starts watching the file's directory, which
// also catches atomic replace-by-rename writes.
func New(filePath string) (*Service, error) {
	s := &Service{
		current:   config.LoadCredentials(filePath),
		filePath:  filePath,
		eventChan: make(chan Event, 100),
		stopChan:  make(chan struct{}),
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	s.watcher = watcher

	dir := filepath.Dir(filePath)
	if err := watcher.Add(dir); err != nil {
		if closeErr := watcher.Close(); closeErr != nil {
			logger.Error("failed to close watcher", "error", closeErr)
		}
		return nil, err
	}

	go s.watchLoop()
	return s, nil
}

// Events returns the event channel.
func (s *Service) Events() <-chan Event {
	return s.eventChan
}

// Current returns the last successfully parsed credentials, or nil.
func (s *Service) Current() *config.Credentials {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// watchLoop handles file system events with debouncing.
func (s *Service) watchLoop() {
	const debounceInterval = 100 * time.Millisecond

	for {
		select {
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}

			// Only care about our credentials file
			if filepath.Base(event.Name) != filepath.Base(s.filePath) {
				continue
			}

			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				// Debounce rapid changes
				if s.debounceTimer != nil {
					s.debounceTimer.Stop()
				}
				s.debounceTimer = time.AfterFunc(debounceInterval, func() {
					s.handleFileChange()
				})
			}

		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.sendEvent(Event{Type: EventError, Error: err})

		case <-s.stopChan:
			return
		}
	}
}

// handleFileChange reloads credentials after an external change. A file
// that no longer parses keeps the previous credentials in place.
func (s *Service) handleFileChange() {
	creds := config.LoadCredentials(s.filePath)
	if creds == nil {
		return
	}

	s.mu.Lock()
	unchanged := s.current != nil && *s.current == *creds
	s.current = creds
	s.mu.Unlock()

	if unchanged {
		return
	}
	s.sendEvent(Event{Type: EventChanged, Credentials: creds})
}

// sendEvent sends an event to the event channel non-blocking.
func (s *Service) sendEvent(event Event) {
	select {
	case s.eventChan <- event:
	default:
		// Channel full, drop oldest event
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

// Close stops the file watcher and cleans up resources.
func (s *Service) Close() error {
	close(s.stopChan)

	if s.debounceTimer != nil {
		s.debounceTimer.Stop()
	}

	if s.watcher != nil {
		return s.watcher.Close()
	}
	return nil
}
