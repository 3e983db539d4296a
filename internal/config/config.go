package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/galley/internal/fetch"
	"github.com/five82/galley/internal/logger"
	"github.com/five82/galley/internal/recipe"
	"github.com/five82/galley/internal/remote"
)

// Backend names the thumbnail cache tier.
type Backend string

const (
	BackendMemory Backend = "memory"
	BackendDisk   Backend = "disk"
	BackendRedis  Backend = "redis"
	BackendOff    Backend = "off"
)

// Thumbnails configures the photo preview cache.
type Thumbnails struct {
	Backend    Backend
	MaxEntries int
	Dir        string
	RedisURL   string
	TTL        time.Duration
}

// Config is Galley's resolved configuration.
type Config struct {
	Endpoint        string
	RequestTimeout  time.Duration
	RefreshInterval time.Duration
	DecodeErrors    fetch.DecodeErrorPolicy
	DecodePolicy    recipe.Policy
	LogFile         string
	LogLevel        logger.Level
	Listen          string
	Thumbnails      Thumbnails
}

const (
	defaultConfigPath     = "~/.config/galley/config.toml"
	defaultLogFile        = "~/.local/state/galley/galley.log"
	defaultThumbDir       = "~/.cache/galley/thumbs"
	defaultRedisURL       = "redis://localhost:6379/0"
	defaultListen         = "127.0.0.1:7480"
	defaultRequestTimeout = 10 * time.Second
	defaultMaxEntries     = 256
	defaultThumbTTL       = 24 * time.Hour
)

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Endpoint:       remote.DefaultEndpoint,
		RequestTimeout: defaultRequestTimeout,
		DecodeErrors:   fetch.SurfaceDecodeErrors,
		DecodePolicy:   recipe.Strict,
		LogFile:        mustExpand(defaultLogFile),
		LogLevel:       logger.LevelNormal,
		Listen:         defaultListen,
		Thumbnails: Thumbnails{
			Backend:    BackendMemory,
			MaxEntries: defaultMaxEntries,
			Dir:        mustExpand(defaultThumbDir),
			RedisURL:   defaultRedisURL,
			TTL:        defaultThumbTTL,
		},
	}
}

type rawConfig struct {
	Endpoint        string `toml:"endpoint"`
	RequestTimeout  string `toml:"request_timeout"`
	RefreshInterval string `toml:"refresh_interval"`
	DecodeErrors    string `toml:"decode_errors"`
	DecodePolicy    string `toml:"decode_policy"`
	LogFile         string `toml:"log_file"`
	LogLevel        string `toml:"log_level"`
	Listen          string `toml:"listen"`
	Thumbnails      struct {
		Backend    string `toml:"backend"`
		MaxEntries int    `toml:"max_entries"`
		Dir        string `toml:"dir"`
		RedisURL   string `toml:"redis_url"`
		TTL        string `toml:"ttl"`
	} `toml:"thumbnails"`
}

// Load locates and parses the Galley config, falling back to defaults when
// the file is missing or a value is blank.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw rawConfig
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.apply(raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

func (c *Config) apply(raw rawConfig) error {
	if v := strings.TrimSpace(raw.Endpoint); v != "" {
		c.Endpoint = v
	}
	if err := parseDuration("request_timeout", raw.RequestTimeout, &c.RequestTimeout); err != nil {
		return err
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = defaultRequestTimeout
	}
	if err := parseDuration("refresh_interval", raw.RefreshInterval, &c.RefreshInterval); err != nil {
		return err
	}
	if c.RefreshInterval < 0 {
		c.RefreshInterval = 0
	}

	var err error
	if c.DecodeErrors, err = fetch.ParseDecodeErrorPolicy(raw.DecodeErrors); err != nil {
		return fmt.Errorf("decode_errors: %w", err)
	}
	if c.DecodePolicy, err = recipe.ParsePolicy(strings.ToLower(strings.TrimSpace(raw.DecodePolicy))); err != nil {
		return fmt.Errorf("decode_policy: %w", err)
	}
	if c.LogLevel, err = logger.ParseLevel(raw.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	if v := strings.TrimSpace(raw.LogFile); v != "" {
		c.LogFile = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.Listen); v != "" {
		c.Listen = v
	}

	t := raw.Thumbnails
	switch b := Backend(strings.ToLower(strings.TrimSpace(t.Backend))); b {
	case "":
	case BackendMemory, BackendDisk, BackendRedis, BackendOff:
		c.Thumbnails.Backend = b
	default:
		return fmt.Errorf("thumbnails.backend: unknown backend %q", t.Backend)
	}
	if t.MaxEntries > 0 {
		c.Thumbnails.MaxEntries = t.MaxEntries
	}
	if v := strings.TrimSpace(t.Dir); v != "" {
		c.Thumbnails.Dir = mustExpand(v)
	}
	if v := strings.TrimSpace(t.RedisURL); v != "" {
		c.Thumbnails.RedisURL = v
	}
	if err := parseDuration("thumbnails.ttl", t.TTL, &c.Thumbnails.TTL); err != nil {
		return err
	}
	if c.Thumbnails.TTL <= 0 {
		c.Thumbnails.TTL = defaultThumbTTL
	}
	return nil
}

// DefaultPath returns the expanded default config location.
func DefaultPath() string {
	return mustExpand(defaultConfigPath)
}

func parseDuration(key, value string, dst *time.Duration) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = d
	return nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

// ExpandPath resolves a leading ~ and returns an absolute path.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
