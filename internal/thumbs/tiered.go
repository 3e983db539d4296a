package thumbs

import "context"

// Tiered reads the fast cache first and backfills it from the slow one.
// Writes go to both.
type Tiered struct {
	Fast Cache
	Slow Cache
}

// Get checks Fast, then Slow.
func (t Tiered) Get(ctx context.Context, key string) ([]byte, bool) {
	if data, ok := t.Fast.Get(ctx, key); ok {
		return data, true
	}
	data, ok := t.Slow.Get(ctx, key)
	if ok {
		t.Fast.Put(ctx, key, data)
	}
	return data, ok
}

// Put writes to both tiers.
func (t Tiered) Put(ctx context.Context, key string, data []byte) {
	t.Fast.Put(ctx, key, data)
	t.Slow.Put(ctx, key, data)
}
