package state

import "sync"

// Subscription receives published states on C in publication order.
// Publishing never blocks on a slow reader; pending states queue up until
// they are read or the subscription is closed.
type Subscription struct {
	store *Store

	mu    sync.Mutex
	queue []State

	wake      chan struct{}
	out       chan State
	done      chan struct{}
	closeOnce sync.Once
}

func newSubscription(store *Store) *Subscription {
	return &Subscription{
		store: store,
		wake:  make(chan struct{}, 1),
		out:   make(chan State),
		done:  make(chan struct{}),
	}
}

// C returns the delivery channel. It is closed after Close.
func (s *Subscription) C() <-chan State {
	return s.out
}

// Close stops delivery and releases the subscription.
func (s *Subscription) Close() {
	s.closeOnce.Do(func() {
		s.store.unsubscribe(s)
		close(s.done)
	})
}

func (s *Subscription) enqueue(st State) {
	s.mu.Lock()
	s.queue = append(s.queue, st)
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *Subscription) pump() {
	defer close(s.out)
	for {
		s.mu.Lock()
		if len(s.queue) == 0 {
			s.mu.Unlock()
			select {
			case <-s.wake:
				continue
			case <-s.done:
				return
			}
		}
		next := s.queue[0]
		s.queue[0] = State{}
		s.queue = s.queue[1:]
		s.mu.Unlock()

		select {
		case s.out <- next:
		case <-s.done:
			return
		}
	}
}
