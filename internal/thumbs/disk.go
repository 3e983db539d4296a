package thumbs

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/five82/galley/internal/logger"
)

// DiskCache stores one file per image under dir, named by sha256 of the URL.
// It never evicts; clearing the directory is left to the user.
type DiskCache struct {
	dir string
	log *logger.Logger
}

// NewDiskCache creates dir if needed.
func NewDiskCache(dir string, log *logger.Logger) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.Discard()
	}
	return &DiskCache{dir: dir, log: log}, nil
}

// Get reads the cached file for key.
func (c *DiskCache) Get(_ context.Context, key string) ([]byte, bool) {
	data, err := os.ReadFile(c.path(key))
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			c.log.Warn("thumbs: read %s: %v", c.path(key), err)
		}
		return nil, false
	}
	return data, true
}

// Put writes data atomically through a temp file.
func (c *DiskCache) Put(_ context.Context, key string, data []byte) {
	final := c.path(key)
	tmp, err := os.CreateTemp(c.dir, ".thumb-*")
	if err != nil {
		c.log.Warn("thumbs: create temp file: %v", err)
		return
	}
	tmpName := tmp.Name()
	_, werr := tmp.Write(data)
	cerr := tmp.Close()
	if werr != nil || cerr != nil {
		_ = os.Remove(tmpName)
		c.log.Warn("thumbs: write %s: %v", final, errors.Join(werr, cerr))
		return
	}
	if err := os.Rename(tmpName, final); err != nil {
		_ = os.Remove(tmpName)
		c.log.Warn("thumbs: rename %s: %v", final, err)
	}
}

func (c *DiskCache) path(key string) string {
	return filepath.Join(c.dir, hashKey(key)+".img")
}
