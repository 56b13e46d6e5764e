// Package store is the application state object: the session controller and
// the domain cache. It is created once by the composition root and passed to
// every consumer. All mutation goes through its methods.
package store

import (
	"context"
	"log"
	"sync"
	"time"

	"parking-client/internal/api"
	"parking-client/internal/metrics"
	"parking-client/internal/storage"
)

// Result is the uniform outcome of every store operation
type Result = api.Result

// Listener is called with a fresh snapshot after every applied change
type Listener func(State)

type Store struct {
	api     *api.Client
	storage storage.Store
	now     func() time.Time

	// sessionMu serializes a login commit with logout so neither can
	// interleave its storage writes with the other's
	sessionMu sync.Mutex

	mu      sync.RWMutex
	state   State
	seq     map[Slot]uint64
	loading map[string]int

	listenersMu sync.Mutex
	listeners   map[int]Listener
	nextID      int
}

// New creates the store. The client's token source is pointed at the store.
func New(client *api.Client, st storage.Store) *Store {
	s := &Store{
		api:       client,
		storage:   st,
		now:       time.Now,
		state:     emptyState(),
		seq:       make(map[Slot]uint64),
		loading:   make(map[string]int),
		listeners: make(map[int]Listener),
	}
	client.SetTokenSource(s)
	return s
}

// SetClock replaces the time source used for token expiry checks
func (s *Store) SetClock(now func() time.Time) {
	s.now = now
}

// Snapshot returns an independent copy of the current state
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.clone()
}

// Subscribe registers fn for change notifications and returns a function
// that unregisters it
func (s *Store) Subscribe(fn Listener) func() {
	s.listenersMu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.listenersMu.Unlock()

	return func() {
		s.listenersMu.Lock()
		delete(s.listeners, id)
		s.listenersMu.Unlock()
	}
}

func (s *Store) notify() {
	s.listenersMu.Lock()
	fns := make([]Listener, 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.listenersMu.Unlock()

	if len(fns) == 0 {
		return
	}
	snap := s.Snapshot()
	for _, fn := range fns {
		fn(snap)
	}
}

// Token implements api.TokenSource. The in-memory token wins; the persisted
// one is the fallback.
func (s *Store) Token(ctx context.Context) string {
	s.mu.RLock()
	token := s.state.Token
	s.mu.RUnlock()
	if token != "" {
		return token
	}

	stored, ok, err := s.storage.Get(ctx, storage.KeyToken)
	if err != nil {
		log.Printf("[Storage] Failed to read token: %v", err)
		return ""
	}
	if !ok {
		return ""
	}
	return stored
}

// update applies fn under the write lock and notifies listeners
func (s *Store) update(fn func(*State)) {
	s.mu.Lock()
	fn(&s.state)
	s.mu.Unlock()
	s.notify()
}

// begin issues a new request sequence for slot. Only the response to the
// latest issued sequence may be applied.
func (s *Store) begin(slot Slot) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq[slot]++
	return s.seq[slot]
}

// apply runs fn if seq is still the latest request for slot. Stale responses
// are dropped and counted.
func (s *Store) apply(slot Slot, seq uint64, fn func(*State)) bool {
	s.mu.Lock()
	if s.seq[slot] != seq {
		s.mu.Unlock()
		metrics.StaleResponsesTotal.WithLabelValues(string(slot)).Inc()
		log.Printf("[Store] Discarded stale %s response (seq %d)", slot, seq)
		return false
	}
	fn(&s.state)
	s.mu.Unlock()
	s.notify()
	return true
}

// applyLatest applies fn as a new request for slot, making any response
// still in flight for it stale
func (s *Store) applyLatest(slot Slot, fn func(*State)) {
	s.mu.Lock()
	s.seq[slot]++
	fn(&s.state)
	s.mu.Unlock()
	s.notify()
}

// invalidateAll makes every in-flight response stale. Caller holds s.mu.
func (s *Store) invalidateAll() {
	for _, slot := range allSlots {
		s.seq[slot]++
	}
}

// startLoading marks group busy and returns the function that clears it.
// Overlapping calls in one group keep the flag set until the last finishes.
func (s *Store) startLoading(group string) func() {
	s.mu.Lock()
	s.loading[group]++
	s.state.Loading[group] = true
	s.mu.Unlock()
	s.notify()

	return func() {
		s.mu.Lock()
		if s.loading[group] > 0 {
			s.loading[group]--
		}
		if s.loading[group] == 0 {
			delete(s.state.Loading, group)
		}
		s.mu.Unlock()
		s.notify()
	}
}

// session returns the current token and user id, or a failed result when no
// session is active
func (s *Store) session(ctx context.Context) (token, userID string, res Result) {
	s.mu.RLock()
	token = s.state.Token
	if s.state.User != nil {
		userID = s.state.User.ID
	}
	s.mu.RUnlock()

	if token == "" {
		token = s.Token(ctx)
	}
	if token == "" {
		return "", "", api.Fail("No token found")
	}
	return token, userID, api.OK()
}

// persist writes one key, logging failures. Storage is best-effort.
func (s *Store) persist(ctx context.Context, key, value string) {
	if err := s.storage.Set(ctx, key, value); err != nil {
		log.Printf("[Storage] Failed to write %s: %v", key, err)
	}
}

func (s *Store) persistJSON(ctx context.Context, key string, v any) {
	if err := storage.SetJSON(ctx, s.storage, key, v); err != nil {
		log.Printf("[Storage] Failed to write %s: %v", key, err)
	}
}
