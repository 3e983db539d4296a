package state

import (
	"time"

	"github.com/five82/galley/internal/recipe"
)

// Phase is the lifecycle position of the recipe feed.
type Phase string

const (
	// Idle means no fetch has run yet.
	Idle Phase = "idle"
	// Loading means a fetch is in flight.
	Loading Phase = "loading"
	// Loaded means the last fetch produced a feed.
	Loaded Phase = "loaded"
	// Failed means the last fetch ended with an error.
	Failed Phase = "failed"
)

// String returns the string representation of Phase.
func (p Phase) String() string {
	return string(p)
}

// IsTerminal reports whether the phase ends a fetch.
func (p Phase) IsTerminal() bool {
	return p == Loaded || p == Failed
}

// ErrorKind classifies a Failed state.
type ErrorKind string

const (
	NoError          ErrorKind = ""
	InvalidEndpoint  ErrorKind = "invalid_endpoint"
	TransportFailure ErrorKind = "transport_failure"
	EmptyBody        ErrorKind = "empty_body"
	DecodeFailure    ErrorKind = "decode_failure"
)

// State is the observable fetch state. Feed is kept while Loading and after a
// failure so renderers can keep showing the last good list.
type State struct {
	Phase     Phase
	Feed      recipe.Feed
	Err       string
	Kind      ErrorKind
	Attempt   string
	UpdatedAt time.Time

	// ConsecutiveFailures counts Failed states since the last Loaded.
	ConsecutiveFailures int
	// Version increases by one on every publication.
	Version uint64
}

// HasFeed reports whether a decoded feed is available.
func (s State) HasFeed() bool {
	return s.Phase == Loaded || len(s.Feed) > 0
}

// IsOffline returns true after repeated failures.
func (s State) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

func (s State) clone() State {
	s.Feed = s.Feed.Clone()
	return s
}
