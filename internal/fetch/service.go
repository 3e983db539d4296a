package fetch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/five82/galley/internal/logger"
	"github.com/five82/galley/internal/recipe"
	"github.com/five82/galley/internal/remote"
	"github.com/five82/galley/internal/state"
)

// ErrInvalidEndpoint is returned by Configure for malformed URLs.
var ErrInvalidEndpoint = errors.New("invalid endpoint")

// User-facing failure messages.
const (
	MsgInvalidURL   = "Invalid URL"
	MsgNoData       = "No data received"
	msgLoadFailed   = "Failed to load recipes"
	msgDecodeFailed = "Failed to parse data"
)

// Transport retrieves the raw feed body.
type Transport interface {
	Get(ctx context.Context, endpoint string) ([]byte, error)
}

// Ensure remote.Client satisfies Transport at compile time.
var _ Transport = (*remote.Client)(nil)

// DecodeErrorPolicy selects what a decode failure does to the state.
type DecodeErrorPolicy int

const (
	// SurfaceDecodeErrors publishes decode failures as Failed.
	SurfaceDecodeErrors DecodeErrorPolicy = iota
	// SwallowDecodeErrors only logs decode failures and restores the state
	// from before the fetch, minus Loading.
	SwallowDecodeErrors
)

// String returns the config spelling of the policy.
func (p DecodeErrorPolicy) String() string {
	if p == SwallowDecodeErrors {
		return "swallow"
	}
	return "surface"
}

// ParseDecodeErrorPolicy maps "surface" and "swallow". Empty means surface.
func ParseDecodeErrorPolicy(value string) (DecodeErrorPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "surface":
		return SurfaceDecodeErrors, nil
	case "swallow", "legacy":
		return SwallowDecodeErrors, nil
	default:
		return SurfaceDecodeErrors, fmt.Errorf("unknown decode error policy %q", value)
	}
}

// Options configure a Service.
type Options struct {
	Endpoint     string
	Store        *state.Store // nil creates a private store
	DecodeErrors DecodeErrorPolicy
	DecodePolicy recipe.Policy
	Logger       *logger.Logger
}

// Service owns the recipe fetch lifecycle. At most one fetch is in flight;
// Fetch calls made while loading join the running attempt.
type Service struct {
	transport    Transport
	store        *state.Store
	log          *logger.Logger
	decodeErrors DecodeErrorPolicy
	decodeOpts   []recipe.DecodeOption

	mu          sync.Mutex
	endpoint    string
	endpointErr error
	inflight    *Attempt
	wg          sync.WaitGroup
}

// New builds a Service. An invalid Options.Endpoint is recorded without
// publishing; the first Fetch reports it.
func New(t Transport, opts Options) *Service {
	store := opts.Store
	if store == nil {
		store = state.NewStore()
	}
	log := opts.Logger
	if log == nil {
		log = logger.Discard()
	}
	s := &Service{
		transport:    t,
		store:        store,
		log:          log,
		decodeErrors: opts.DecodeErrors,
	}
	s.decodeOpts = []recipe.DecodeOption{
		recipe.WithPolicy(opts.DecodePolicy),
		recipe.WithSkipped(func(fe recipe.FieldError) {
			s.log.Warn("skipping %s", fe.Error())
		}),
	}
	s.endpoint, s.endpointErr = validateEndpoint(opts.Endpoint)
	return s
}

// Configure sets the feed URL. A malformed URL publishes Failed("Invalid URL")
// right away unless a fetch is in flight, in which case the next Fetch
// reports it.
func (s *Service) Configure(endpoint string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.endpoint, s.endpointErr = validateEndpoint(endpoint)
	if s.endpointErr == nil {
		s.log.Info("feed endpoint set to %s", s.endpoint)
		return nil
	}
	s.log.Warn("rejected feed endpoint %q: %v", endpoint, s.endpointErr)
	if s.inflight == nil {
		s.store.Apply(func(prev state.State) state.State {
			return invalidEndpoint(prev, "")
		})
	}
	return s.endpointErr
}

// Endpoint returns the configured URL, empty when invalid.
func (s *Service) Endpoint() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.endpoint
}

// Fetch starts a fetch and returns its Attempt without waiting for the
// network. If one is already in flight that attempt is returned and the
// transport is not called again. ctx bounds the request.
func (s *Service) Fetch(ctx context.Context) *Attempt {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.inflight != nil {
		s.log.Debug("fetch %s already in flight; ignoring request", s.inflight.ID())
		return s.inflight
	}

	a := newAttempt()
	if s.endpointErr != nil {
		st := s.store.Apply(func(prev state.State) state.State {
			return invalidEndpoint(prev, a.ID())
		})
		a.complete(st)
		return a
	}

	var before state.State
	s.store.Apply(func(prev state.State) state.State {
		before = prev
		prev.Phase = state.Loading
		prev.Attempt = a.ID()
		return prev
	})
	s.log.Debug("fetch %s started: GET %s", a.ID(), s.endpoint)

	s.inflight = a
	s.wg.Add(1)
	go s.run(ctx, a, s.endpoint, before)
	return a
}

// Current returns the latest published state.
func (s *Service) Current() state.State {
	return s.store.Snapshot()
}

// Subscribe streams every state transition, starting with the current one.
func (s *Service) Subscribe() *state.Subscription {
	return s.store.Subscribe()
}

// Store exposes the underlying state store.
func (s *Service) Store() *state.Store {
	return s.store
}

// Wait blocks until no fetch goroutine is running.
func (s *Service) Wait() {
	s.wg.Wait()
}

func (s *Service) run(ctx context.Context, a *Attempt, endpoint string, before state.State) {
	defer s.wg.Done()

	transition := s.resolve(ctx, endpoint, before)

	s.mu.Lock()
	st := s.store.Apply(func(prev state.State) state.State {
		next := transition(prev)
		next.Attempt = a.ID()
		return next
	})
	s.inflight = nil
	s.mu.Unlock()

	if st.Phase == state.Failed {
		s.log.Warn("fetch %s failed: %s", a.ID(), st.Err)
	} else {
		s.log.Info("fetch %s finished: %s with %d recipes", a.ID(), st.Phase, len(st.Feed))
	}
	a.complete(st)
}

// resolve performs the GET and decode and returns how the state changes.
// It never panics.
func (s *Service) resolve(ctx context.Context, endpoint string, before state.State) (transition func(state.State) state.State) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("fetch panicked: %v", r)
			transition = failed(state.TransportFailure, fmt.Sprintf("%s: %v", msgLoadFailed, r))
		}
	}()

	if s.transport == nil {
		return failed(state.TransportFailure, msgLoadFailed+": no transport configured")
	}
	body, err := s.transport.Get(ctx, endpoint)
	switch {
	case errors.Is(err, remote.ErrEmptyBody), err == nil && len(body) == 0:
		return failed(state.EmptyBody, MsgNoData)
	case err != nil:
		return failed(state.TransportFailure, fmt.Sprintf("%s: %v", msgLoadFailed, err))
	}

	feed, err := recipe.Decode(body, s.decodeOpts...)
	if err != nil {
		s.log.Error("decode feed from %s: %v", endpoint, err)
		if s.decodeErrors == SwallowDecodeErrors {
			return restore(before)
		}
		return failed(state.DecodeFailure, fmt.Sprintf("%s: %v", msgDecodeFailed, err))
	}
	return func(prev state.State) state.State {
		prev.Phase = state.Loaded
		prev.Feed = feed
		return prev
	}
}

func failed(kind state.ErrorKind, msg string) func(state.State) state.State {
	return func(prev state.State) state.State {
		prev.Phase = state.Failed
		prev.Err = msg
		prev.Kind = kind
		return prev
	}
}

// restore rebuilds the pre-fetch view with Loading and any old error cleared:
// the previous feed stays Loaded, otherwise the state returns to Idle.
func restore(before state.State) func(state.State) state.State {
	return func(prev state.State) state.State {
		prev.Feed = before.Feed
		if before.HasFeed() {
			prev.Phase = state.Loaded
		} else {
			prev.Phase = state.Idle
		}
		return prev
	}
}

func invalidEndpoint(prev state.State, attempt string) state.State {
	prev.Phase = state.Failed
	prev.Err = MsgInvalidURL
	prev.Kind = state.InvalidEndpoint
	prev.Attempt = attempt
	return prev
}

func validateEndpoint(raw string) (string, error) {
	u, err := remote.ParseEndpoint(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidEndpoint, err)
	}
	return u.String(), nil
}
