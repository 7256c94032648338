package query

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// EventType classifies a store event.
type EventType int

const (
	// EventSet indicates an entry was written (fetch result or promotion).
	EventSet EventType = iota
	// EventInvalidate indicates a key family was invalidated.
	EventInvalidate
)

// Event is emitted to subscribers on every store mutation.
type Event struct {
	Type EventType
	Key  Key
}

// Entry is a cached value plus its bookkeeping.
type Entry struct {
	Key         Key
	Value       any
	UpdatedAt   time.Time
	Placeholder bool
}

// Store is the single key-addressed cache instance for an application
// session. All mutation goes through Set/SetPlaceholder/Invalidate/Remove;
// there is no other shared state.
type Store struct {
	mu      sync.RWMutex
	entries map[string]Entry
	subs    []chan Event
	flight  singleflight.Group
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		entries: make(map[string]Entry),
	}
}

// Lookup returns the entry for a key, placeholder or not.
func (s *Store) Lookup(k Key) (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[k.String()]
	return e, ok
}

// Get returns the cached value for a key. Placeholder entries are returned
// too; callers that need authoritative data use Fetch.
func (s *Store) Get(k Key) (any, bool) {
	e, ok := s.Lookup(k)
	if !ok {
		return nil, false
	}
	return e.Value, true
}

// Set writes an authoritative value and notifies subscribers.
func (s *Store) Set(k Key, v any) {
	s.mu.Lock()
	s.entries[k.String()] = Entry{
		Key:       k,
		Value:     v,
		UpdatedAt: time.Now(),
	}
	s.mu.Unlock()

	s.notify(Event{Type: EventSet, Key: k})
}

// SetPlaceholder writes promoted data for a key unless an authoritative
// value is already present. Promoted data renders instantly while the real
// detail fetch is still in flight.
func (s *Store) SetPlaceholder(k Key, v any) {
	s.mu.Lock()
	if existing, ok := s.entries[k.String()]; ok && !existing.Placeholder {
		s.mu.Unlock()
		return
	}
	s.entries[k.String()] = Entry{
		Key:         k,
		Value:       v,
		UpdatedAt:   time.Now(),
		Placeholder: true,
	}
	s.mu.Unlock()

	s.notify(Event{Type: EventSet, Key: k})
}

// Remove deletes a single entry without emitting an invalidation event.
func (s *Store) Remove(k Key) {
	s.mu.Lock()
	delete(s.entries, k.String())
	s.mu.Unlock()
}

// Invalidate removes every entry under the given prefix and returns the
// number of entries dropped. One event is emitted per call regardless of
// how many entries matched, so invalidation counts observed by subscribers
// equal the number of declared families a mutation touched.
func (s *Store) Invalidate(prefix Key) int {
	s.mu.Lock()
	dropped := 0
	for mapKey, e := range s.entries {
		if e.Key.HasPrefix(prefix) {
			delete(s.entries, mapKey)
			dropped++
		}
	}
	s.mu.Unlock()

	s.notify(Event{Type: EventInvalidate, Key: prefix})
	return dropped
}

// Len returns the number of cached entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Subscribe returns a channel receiving store events. The channel is
// buffered and events are dropped rather than blocking the mutator.
func (s *Store) Subscribe() chan Event {
	ch := make(chan Event, 64)
	s.mu.Lock()
	s.subs = append(s.subs, ch)
	s.mu.Unlock()
	return ch
}

// Unsubscribe removes and closes a subscriber channel.
func (s *Store) Unsubscribe(ch chan Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, sub := range s.subs {
		if sub == ch {
			s.subs = append(s.subs[:i], s.subs[i+1:]...)
			close(ch)
			return
		}
	}
}

func (s *Store) notify(ev Event) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, sub := range s.subs {
		select {
		case sub <- ev:
		default:
		}
	}
}

// FetchFunc loads a value from the network.
type FetchFunc func(ctx context.Context) (any, error)

// Fetch returns the cached authoritative value for a key, or runs fn to
// load it. Concurrent fetches for the same key are coalesced: fn runs once
// and every caller receives the same result. A placeholder entry does not
// satisfy the fetch; it is returned by Get/Lookup for instant rendering
// while Fetch revalidates.
func (s *Store) Fetch(ctx context.Context, k Key, fn FetchFunc) (any, error) {
	if e, ok := s.Lookup(k); ok && !e.Placeholder {
		return e.Value, nil
	}
	return s.ForceFetch(ctx, k, fn)
}

// ForceFetch always goes to the network (still coalescing identical
// concurrent calls) and stores the result on success.
func (s *Store) ForceFetch(ctx context.Context, k Key, fn FetchFunc) (any, error) {
	v, err, _ := s.flight.Do(k.String(), func() (any, error) {
		v, err := fn(ctx)
		if err != nil {
			return nil, err
		}
		s.Set(k, v)
		return v, nil
	})
	return v, err
}
