package store

import (
	"log/slog"
	"reflect"
	"sync"
	"time"
)

// Listener receives the newly selected value after a change.
type Listener func(selected any)

type subscription struct {
	selector func(State) any
	listener Listener
	last     any
}

// Store serializes state transitions and notifies subscribers.
type Store struct {
	mu     sync.Mutex
	state  State
	subs   map[int]*subscription
	nextID int
	logger *slog.Logger
	now    func() time.Time
}

// New creates a store holding initial.
func New(initial State, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		state:  initial,
		subs:   map[int]*subscription{},
		logger: logger,
		now:    time.Now,
	}
}

// State returns the current state snapshot.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Dispatch applies an action.
func (s *Store) Dispatch(a Action) {
	s.dispatchIf(nil, a)
}

// Subscribe calls listener whenever the value returned by selector changes.
// The returned function removes the subscription.
func (s *Store) Subscribe(selector func(State) any, listener Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.subs[id] = &subscription{selector: selector, listener: listener, last: selector(s.state)}

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// dispatchIf applies a when guard accepts the current state. Listeners run
// after the lock is released.
func (s *Store) dispatchIf(guard func(State) bool, a Action) bool {
	type notification struct {
		listener Listener
		value    any
	}

	s.mu.Lock()
	if guard != nil && !guard(s.state) {
		s.mu.Unlock()
		return false
	}
	s.state = Reduce(s.state, a)

	var pending []notification
	for _, sub := range s.subs {
		selected := sub.selector(s.state)
		if reflect.DeepEqual(selected, sub.last) {
			continue
		}
		sub.last = selected
		pending = append(pending, notification{listener: sub.listener, value: selected})
	}
	s.mu.Unlock()

	s.logger.Debug("action dispatched", "action", reflect.TypeOf(a).Name(), "notified", len(pending))
	for _, n := range pending {
		n.listener(n.value)
	}
	return true
}
