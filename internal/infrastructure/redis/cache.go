package redis

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/avatarctic/user-management-service/internal/infrastructure/cache"
)

// scanCount is the COUNT hint passed to each SCAN step.
const scanCount = 500

// RedisCache is a cache.Backend on Redis.
type RedisCache struct {
	r redis.Cmdable
	// optional key prefix to namespace entries
	prefix string
}

var _ cache.Backend = (*RedisCache)(nil)

// NewRedisCache creates a new Redis-backed cache backend.
func NewRedisCache(r redis.Cmdable, prefix string) *RedisCache {
	return &RedisCache{r: r, prefix: prefix}
}

// NewCacheConnector returns a cache.Connector that pings Redis before handing out the backend.
func NewCacheConnector(r redis.Cmdable, prefix string) cache.Connector {
	return func(ctx context.Context) (cache.Backend, error) {
		if err := Ping(ctx, r); err != nil {
			return nil, err
		}
		return NewRedisCache(r, prefix), nil
	}
}

func (c *RedisCache) namespaced(key string) string {
	if c.prefix == "" {
		return key
	}
	return c.prefix + ":" + key
}

func (c *RedisCache) Name() string { return "redis" }

// Get implements cache.Backend.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := c.r.Get(ctx, c.namespaced(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

// Set implements cache.Backend.
func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.r.Set(ctx, c.namespaced(key), value, ttl).Err()
}

// DeletePattern walks the keyspace with SCAN MATCH and deletes each batch.
// Keys written between two SCAN steps may be missed.
func (c *RedisCache) DeletePattern(ctx context.Context, pattern string) (int, error) {
	match := c.namespaced(pattern)
	var (
		cursor  uint64
		deleted int64
	)
	for {
		keys, next, err := c.r.Scan(ctx, cursor, match, scanCount).Result()
		if err != nil {
			return int(deleted), err
		}
		if len(keys) > 0 {
			n, err := c.r.Del(ctx, keys...).Result()
			if err != nil {
				return int(deleted), err
			}
			deleted += n
		}
		if next == 0 {
			return int(deleted), nil
		}
		cursor = next
	}
}

// Ping implements cache.Backend.
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.r.Ping(ctx).Err()
}
