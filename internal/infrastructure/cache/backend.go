// Package cache implements the cache-aside consistency layer: a fault
// tolerant store adapter over a raw key-value backend, deterministic key
// derivation, and the read-through and write-invalidation wrappers used by
// the repository decorators.
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrStoreDisabled is reported by Ping once the store gave up on its backend.
var ErrStoreDisabled = errors.New("cache: store disabled")

// Backend is a raw byte-oriented key-value store.
// Get reports ok=false with a nil error on a miss.
type Backend interface {
	Name() string
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// DeletePattern removes all keys matching a glob pattern and returns the number removed.
	DeletePattern(ctx context.Context, pattern string) (int, error)
	Ping(ctx context.Context) error
}

// Connector opens a Backend. Store calls it at most once, on first use.
type Connector func(ctx context.Context) (Backend, error)

// StaticConnector returns a Connector that always yields b.
func StaticConnector(b Backend) Connector {
	return func(context.Context) (Backend, error) { return b, nil }
}
