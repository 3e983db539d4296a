package ui

import (
	"context"

	"github.com/five82/galley/internal/fetch"
	"github.com/five82/galley/internal/logger"
	"github.com/five82/galley/internal/state"
)

// Fetcher is the part of fetch.Service the UI drives.
type Fetcher interface {
	Fetch(ctx context.Context) *fetch.Attempt
	Subscribe() *state.Subscription
	Current() state.State
}

// ThumbnailLoader returns photo bytes for a URL.
type ThumbnailLoader interface {
	Load(ctx context.Context, url string) ([]byte, error)
}

// Options configures the UI.
type Options struct {
	Context   context.Context
	Service   Fetcher
	Thumbs    ThumbnailLoader // nil disables photo previews
	Logger    *logger.Logger
	ThemeName string
	SortMode  string
	PrefsPath string
	LogPath   string // file shown by the log view
}
