package thumbs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/five82/galley/internal/logger"
)

// DefaultRedisTTL is how long an image stays in Redis when no TTL is set.
const DefaultRedisTTL = 24 * time.Hour

const redisKeyPrefix = "galley:thumb:"

// RedisCache shares thumbnails between Galley processes. Entries expire after
// ttl; Redis' own maxmemory policy applies on top.
type RedisCache struct {
	rdb *redis.Client
	ttl time.Duration
	log *logger.Logger
}

// NewRedisCache connects using a redis:// URL and verifies the connection.
func NewRedisCache(ctx context.Context, redisURL string, ttl time.Duration, log *logger.Logger) (*RedisCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	c := NewRedisCacheWithOptions(opts, ttl, log)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := c.Ping(pingCtx); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return c, nil
}

// NewRedisCacheWithOptions builds a cache without checking connectivity.
func NewRedisCacheWithOptions(opts *redis.Options, ttl time.Duration, log *logger.Logger) *RedisCache {
	if ttl <= 0 {
		ttl = DefaultRedisTTL
	}
	if log == nil {
		log = logger.Discard()
	}
	return &RedisCache{rdb: redis.NewClient(opts), ttl: ttl, log: log}
}

// Ping verifies Redis connectivity.
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// Close closes the Redis connection.
func (c *RedisCache) Close() error {
	return c.rdb.Close()
}

// Get returns the cached bytes; redis.Nil and errors are misses.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	data, err := c.rdb.Get(ctx, redisKey(key)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn("thumbs: redis get: %v", err)
		}
		return nil, false
	}
	return data, true
}

// Put stores data with the cache TTL.
func (c *RedisCache) Put(ctx context.Context, key string, data []byte) {
	if err := c.rdb.Set(ctx, redisKey(key), data, c.ttl).Err(); err != nil {
		c.log.Warn("thumbs: redis set: %v", err)
	}
}

func redisKey(key string) string {
	return redisKeyPrefix + hashKey(key)
}
