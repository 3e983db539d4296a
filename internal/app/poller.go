package app

import (
	"context"
	"time"

	"github.com/five82/galley/internal/fetch"
	"github.com/five82/galley/internal/logger"
	"github.com/five82/galley/internal/state"
)

// Refresher starts feed fetches.
type Refresher interface {
	Fetch(ctx context.Context) *fetch.Attempt
}

// StartPoller refetches the feed at a fixed cadence until ctx is done. An
// interval of zero or less disables it. The returned channel is closed when
// the poller stops.
func StartPoller(ctx context.Context, svc Refresher, interval time.Duration, log *logger.Logger) <-chan struct{} {
	done := make(chan struct{})
	if interval <= 0 {
		close(done)
		return done
	}
	if log == nil {
		log = logger.Discard()
	}

	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}

			// A fetch already running (user refresh) is joined, not repeated.
			st, err := svc.Fetch(ctx).Wait(ctx)
			if err != nil {
				return
			}
			if st.Phase == state.Failed {
				log.Warn("scheduled refresh failed: %s", st.Err)
			}
		}
	}()
	return done
}
