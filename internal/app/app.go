package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/five82/galley/internal/config"
	"github.com/five82/galley/internal/fetch"
	"github.com/five82/galley/internal/logger"
	"github.com/five82/galley/internal/prefs"
	"github.com/five82/galley/internal/remote"
	"github.com/five82/galley/internal/server"
	"github.com/five82/galley/internal/thumbs"
	"github.com/five82/galley/internal/ui"
)

// Options configure a Galley run. Zero values defer to the config file.
type Options struct {
	ConfigPath   string
	PrefsPath    string        // empty uses ~/.config/galley/prefs.toml
	Endpoint     string        // overrides the configured endpoint
	RefreshEvery time.Duration // overrides refresh_interval when > 0
	Listen       string        // overrides listen for Serve
	Version      string        // sent as galley/<version> in User-Agent

	// LogWriter receives log output instead of the configured log file.
	LogWriter io.Writer
}

// Runtime is the wired set of services a command runs against.
type Runtime struct {
	Config  config.Config
	Log     *logger.Logger
	LogPath string // empty when not logging to a file
	Client  *remote.Client
	Service *fetch.Service
	Thumbs  *thumbs.Loader // nil when previews are off

	closers []io.Closer
}

// Build loads configuration and wires the fetch service, logger and
// thumbnail loader.
func Build(ctx context.Context, opts Options) (*Runtime, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if v := strings.TrimSpace(opts.Endpoint); v != "" {
		cfg.Endpoint = v
	}
	if opts.RefreshEvery > 0 {
		cfg.RefreshInterval = opts.RefreshEvery
	}
	if v := strings.TrimSpace(opts.Listen); v != "" {
		cfg.Listen = v
	}

	rt := &Runtime{Config: cfg}
	if err := rt.openLog(opts.LogWriter); err != nil {
		return nil, err
	}

	var clientOpts []remote.Option
	if v := strings.TrimSpace(opts.Version); v != "" {
		clientOpts = append(clientOpts, remote.WithUserAgent("galley/"+v))
	}
	rt.Client = remote.NewClient(cfg.RequestTimeout, clientOpts...)
	rt.Service = fetch.New(rt.Client, fetch.Options{
		Endpoint:     cfg.Endpoint,
		DecodeErrors: cfg.DecodeErrors,
		DecodePolicy: cfg.DecodePolicy,
		Logger:       rt.Log,
	})

	if cache := rt.thumbCache(ctx); cache != nil {
		rt.Thumbs = thumbs.NewLoader(rt.Client, cache, rt.Log)
	}
	rt.Log.Info("galley starting: endpoint=%s thumbnails=%s", cfg.Endpoint, cfg.Thumbnails.Backend)
	return rt, nil
}

func (rt *Runtime) openLog(w io.Writer) error {
	cfg := rt.Config
	switch {
	case w != nil:
		rt.Log = logger.New(cfg.LogLevel, w)
	case cfg.LogLevel == logger.LevelOff || cfg.LogFile == "":
		rt.Log = logger.Discard()
	default:
		f, err := logger.OpenFile(cfg.LogFile)
		if err != nil {
			return err
		}
		rt.closers = append(rt.closers, f)
		rt.Log = logger.New(cfg.LogLevel, f)
		rt.LogPath = cfg.LogFile
	}
	return nil
}

// thumbCache builds the configured cache tiers. Slow tiers that fail to
// open fall back to memory only. It returns nil when previews are off.
func (rt *Runtime) thumbCache(ctx context.Context) thumbs.Cache {
	th := rt.Config.Thumbnails
	if th.Backend == config.BackendOff {
		return nil
	}
	mem := thumbs.NewMemoryCache(th.MaxEntries)

	switch th.Backend {
	case config.BackendDisk:
		disk, err := thumbs.NewDiskCache(th.Dir, rt.Log)
		if err != nil {
			rt.Log.Warn("thumbnail disk cache unavailable, using memory: %v", err)
			return mem
		}
		return thumbs.Tiered{Fast: mem, Slow: disk}
	case config.BackendRedis:
		rc, err := thumbs.NewRedisCache(ctx, th.RedisURL, th.TTL, rt.Log)
		if err != nil {
			rt.Log.Warn("thumbnail redis cache unavailable, using memory: %v", err)
			return mem
		}
		rt.closers = append(rt.closers, rc)
		return thumbs.Tiered{Fast: mem, Slow: rc}
	}
	return mem
}

// Close waits for running fetches and releases the log file and caches.
func (rt *Runtime) Close() error {
	if rt.Service != nil {
		rt.Service.Wait()
	}
	var errs []error
	for i := len(rt.closers) - 1; i >= 0; i-- {
		if err := rt.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	rt.closers = nil
	return errors.Join(errs...)
}

// Run boots the Galley TUI until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	rt, err := Build(ctx, opts)
	if err != nil {
		return err
	}
	defer rt.Close()

	userPrefs, err := prefs.Load(opts.PrefsPath)
	if err != nil {
		rt.Log.Warn("using default preferences: %v", err)
	}

	StartPoller(ctx, rt.Service, rt.Config.RefreshInterval, rt.Log)

	uiOpts := ui.Options{
		Context:   ctx,
		Service:   rt.Service,
		Logger:    rt.Log,
		ThemeName: userPrefs.Theme,
		SortMode:  userPrefs.Sort,
		PrefsPath: opts.PrefsPath,
		LogPath:   rt.LogPath,
	}
	if rt.Thumbs != nil {
		uiOpts.Thumbs = rt.Thumbs
	}
	return ui.Run(uiOpts)
}

// Serve runs the HTTP API until the context is cancelled. The feed is
// loaded once at startup and then on the refresh interval.
func Serve(ctx context.Context, opts Options) error {
	rt, err := Build(ctx, opts)
	if err != nil {
		return err
	}
	defer rt.Close()

	var loader server.ThumbnailLoader
	if rt.Thumbs != nil {
		loader = rt.Thumbs
	}
	srv := server.New(rt.Service, loader, rt.Log)

	rt.Service.Fetch(ctx)
	StartPoller(ctx, rt.Service, rt.Config.RefreshInterval, rt.Log)

	rt.Log.Info("listening on %s", rt.Config.Listen)
	return srv.Run(ctx, rt.Config.Listen)
}
