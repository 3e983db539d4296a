package state

import (
	"sync"
	"time"
)

// Store coordinates concurrent access to the fetch state. Writes are
// serialized; every publication is delivered to subscribers in order.
type Store struct {
	mu      sync.RWMutex
	state   State
	subs    map[*Subscription]struct{}
	version uint64
	now     func() time.Time
}

// NewStore returns a Store in the Idle phase.
func NewStore() *Store {
	return &Store{state: State{Phase: Idle}}
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current().clone()
}

// Publish replaces the stored state.
func (s *Store) Publish(next State) State {
	return s.Apply(func(State) State { return next })
}

// Apply derives the next state from the current one under the write lock and
// publishes it. Version, UpdatedAt and ConsecutiveFailures are maintained by
// the store.
func (s *Store) Apply(fn func(prev State) State) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.current()
	next := fn(prev.clone())
	if next.Phase == "" {
		next.Phase = Idle
	}
	switch next.Phase {
	case Failed:
		next.ConsecutiveFailures = prev.ConsecutiveFailures + 1
	case Loaded:
		next.ConsecutiveFailures = 0
	default:
		next.ConsecutiveFailures = prev.ConsecutiveFailures
	}
	if next.Phase != Failed {
		next.Err = ""
		next.Kind = NoError
	}
	s.version++
	next.Version = s.version
	next.UpdatedAt = s.clock()
	next.Feed = next.Feed.Clone()
	s.state = next

	for sub := range s.subs {
		sub.enqueue(next.clone())
	}
	return next.clone()
}

// Subscribe registers a subscriber. The current state is delivered first,
// followed by every later publication in order.
func (s *Store) Subscribe() *Subscription {
	sub := newSubscription(s)

	s.mu.Lock()
	if s.subs == nil {
		s.subs = make(map[*Subscription]struct{})
	}
	s.subs[sub] = struct{}{}
	sub.enqueue(s.current().clone())
	s.mu.Unlock()

	go sub.pump()
	return sub
}

func (s *Store) unsubscribe(sub *Subscription) {
	s.mu.Lock()
	delete(s.subs, sub)
	s.mu.Unlock()
}

func (s *Store) current() State {
	if s.state.Phase == "" {
		return State{Phase: Idle}
	}
	return s.state
}

func (s *Store) clock() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now()
}
