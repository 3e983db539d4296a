package thumbs

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
)

// Cache stores image bytes by URL. Implementations are best effort: a failed
// Put is logged, a failed Get is a miss.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Put(ctx context.Context, key string, data []byte)
}

// Nop never stores anything.
type Nop struct{}

// Get always misses.
func (Nop) Get(context.Context, string) ([]byte, bool) { return nil, false }

// Put discards data.
func (Nop) Put(context.Context, string, []byte) {}

// hashKey turns a URL into a fixed-length, filesystem and Redis safe key.
func hashKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	dup := make([]byte, len(b))
	copy(dup, b)
	return dup
}
