package ports

import (
	"context"
	"time"
)

// Cache defines the cache-aside store contract used by the caching decorators.
// Implementations never return store failures to callers: an unreachable or
// misbehaving backend makes Get report a miss, Set report false and
// DeletePattern report only the keys removed before the failure, so
// application logic keeps working against the primary datastore.
type Cache interface {
	// Get decodes the entry stored under key into dest. ok=false on miss,
	// expiry, decode failure or store unavailability.
	Get(ctx context.Context, key string, dest any) bool
	// Set encodes value and stores it under key for ttl (ttl <= 0 uses the
	// store default). Returns false if the value was not stored.
	Set(ctx context.Context, key string, value any, ttl time.Duration) bool
	// DeletePattern removes every key matching the glob pattern and returns how many were deleted.
	DeletePattern(ctx context.Context, pattern string) int
	// Ping reports whether the backing store is reachable.
	Ping(ctx context.Context) error
}
