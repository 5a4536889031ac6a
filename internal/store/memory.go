package store

import (
	"slices"
	"sync"

	"github.com/google/uuid"
)

// Listener is notified with the new state after every dispatch.
type Listener func(AppState)

type subscription struct {
	id string
	fn Listener
}

// Store is a concurrency-safe in-memory holder of the display state.
// State only changes through Dispatch.
type Store struct {
	mu sync.RWMutex

	state   AppState
	reducer Reducer

	// listeners in subscription order
	subs []subscription

	// snapshots committed but not yet delivered, oldest first
	pending    []AppState
	delivering bool
}

// New creates a Store and initializes its state by dispatching Initialization.
// A nil reducer means Reduce.
func New(reducer Reducer) *Store {
	if reducer == nil {
		reducer = Reduce
	}
	return &Store{
		state:   reducer(nil, Initialization{}),
		reducer: reducer,
	}
}

// State returns a snapshot of the current state. Callers may keep it; later
// dispatches do not change it.
func (s *Store) State() AppState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.clone()
}

// Dispatch applies the action and notifies every listener, outside the lock,
// in the order they subscribed. Listeners see snapshots in the order the
// actions were applied, even when Dispatch is called from several goroutines.
// A Dispatch made while another one is delivering (including from inside a
// listener) queues its snapshot for that delivery and returns at once.
func (s *Store) Dispatch(action Action) AppState {
	s.mu.Lock()
	current := s.state
	s.state = s.reducer(&current, action)
	next := s.state.clone()
	s.pending = append(s.pending, next)
	if s.delivering {
		s.mu.Unlock()
		return next
	}
	s.delivering = true
	s.mu.Unlock()

	s.deliver()
	return next
}

func (s *Store) deliver() {
	defer func() {
		if r := recover(); r != nil {
			s.mu.Lock()
			s.pending = nil
			s.delivering = false
			s.mu.Unlock()
			panic(r)
		}
	}()

	for {
		s.mu.Lock()
		if len(s.pending) == 0 {
			s.delivering = false
			s.mu.Unlock()
			return
		}
		snap := s.pending[0]
		s.pending = s.pending[1:]
		subs := slices.Clone(s.subs)
		s.mu.Unlock()

		for _, sub := range subs {
			sub.fn(snap.clone())
		}
	}
}

// Subscribe registers fn and returns a function that removes it again.
// Calling the returned function more than once is a no-op.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	id := uuid.NewString()

	s.mu.Lock()
	s.subs = append(s.subs, subscription{id: id, fn: fn})
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

// Listeners returns how many listeners are currently subscribed.
func (s *Store) Listeners() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subs)
}
