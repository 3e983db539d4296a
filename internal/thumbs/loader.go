package thumbs

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/five82/galley/internal/logger"
	"github.com/five82/galley/internal/remote"
)

// Fetcher downloads image bytes.
type Fetcher interface {
	FetchImage(ctx context.Context, url string) ([]byte, error)
}

var _ Fetcher = (*remote.Client)(nil)

// DefaultLoadTimeout bounds a shared download once no single caller owns it.
const DefaultLoadTimeout = 30 * time.Second

// Loader serves thumbnails from the cache and downloads misses. Concurrent
// loads of the same URL share one download.
type Loader struct {
	fetcher Fetcher
	cache   Cache
	log     *logger.Logger
	group   singleflight.Group
	timeout time.Duration
}

// NewLoader builds a Loader. A nil cache disables caching.
func NewLoader(f Fetcher, c Cache, log *logger.Logger) *Loader {
	if c == nil {
		c = Nop{}
	}
	if log == nil {
		log = logger.Discard()
	}
	return &Loader{fetcher: f, cache: c, log: log, timeout: DefaultLoadTimeout}
}

// Load returns the image bytes for url.
func (l *Loader) Load(ctx context.Context, url string) ([]byte, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, fmt.Errorf("thumbnail url is empty")
	}
	if data, ok := l.cache.Get(ctx, url); ok {
		return data, nil
	}

	// The download outlives any one caller; each caller stops waiting when
	// its own ctx ends.
	ch := l.group.DoChan(url, func() (any, error) {
		dctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), l.timeout)
		defer cancel()
		if data, ok := l.cache.Get(dctx, url); ok {
			return data, nil
		}
		data, err := l.fetcher.FetchImage(dctx, url)
		if err != nil {
			return nil, err
		}
		l.cache.Put(dctx, url, data)
		l.log.Debug("thumbs: cached %s (%d bytes)", url, len(data))
		return data, nil
	})

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("load thumbnail: %w", ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, fmt.Errorf("load thumbnail: %w", res.Err)
		}
		data := res.Val.([]byte)
		if res.Shared {
			data = cloneBytes(data)
		}
		return data, nil
	}
}
