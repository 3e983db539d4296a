package fetch

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/five82/galley/internal/state"
)

// Attempt is the handle for one fetch. It completes exactly once with the
// terminal state that fetch published.
type Attempt struct {
	id     string
	done   chan struct{}
	once   sync.Once
	result state.State
}

func newAttempt() *Attempt {
	return &Attempt{id: newAttemptID(), done: make(chan struct{})}
}

func newAttemptID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// ID identifies the attempt; the same value is stored in State.Attempt.
func (a *Attempt) ID() string {
	return a.id
}

// Done is closed when the attempt reaches its terminal state.
func (a *Attempt) Done() <-chan struct{} {
	return a.done
}

// Result returns the terminal state if the attempt has completed.
func (a *Attempt) Result() (state.State, bool) {
	select {
	case <-a.done:
		return a.result, true
	default:
		return state.State{}, false
	}
}

// Wait blocks until the attempt completes or ctx is done.
func (a *Attempt) Wait(ctx context.Context) (state.State, error) {
	select {
	case <-a.done:
		return a.result, nil
	case <-ctx.Done():
		return state.State{}, ctx.Err()
	}
}

func (a *Attempt) complete(st state.State) {
	a.once.Do(func() {
		a.result = st
		close(a.done)
	})
}
