package cache

import (
	"context"
	"errors"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/dgraph-io/ristretto"
)

const sweepInterval = time.Minute

// ErrMemoryClosed is returned by a closed MemoryBackend.
var ErrMemoryClosed = errors.New("cache: memory backend closed")

// MemoryConfig sizes the in-process backend.
type MemoryConfig struct {
	// MaxCost bounds the total stored bytes.
	MaxCost int64
	// NumCounters is the number of admission counters, roughly 10x the expected item count.
	NumCounters int64
}

// MemoryBackend is an in-process Backend built on ristretto. Ristretto does
// not enumerate keys, so a side index grouped by key prefix (text before the
// first ':') backs DeletePattern.
type MemoryBackend struct {
	c *ristretto.Cache

	mu        sync.Mutex
	index     map[string]map[string]time.Time
	lastSweep time.Time
	closed    bool
}

// NewMemoryBackend creates an in-process backend.
func NewMemoryBackend(cfg MemoryConfig) (*MemoryBackend, error) {
	if cfg.MaxCost <= 0 {
		cfg.MaxCost = 64 << 20
	}
	if cfg.NumCounters <= 0 {
		cfg.NumCounters = 1e5
	}
	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: cfg.NumCounters,
		MaxCost:     cfg.MaxCost,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &MemoryBackend{
		c:         c,
		index:     make(map[string]map[string]time.Time),
		lastSweep: time.Now(),
	}, nil
}

func (m *MemoryBackend) Name() string { return "memory" }

func (m *MemoryBackend) Get(_ context.Context, key string) ([]byte, bool, error) {
	if m.isClosed() {
		return nil, false, ErrMemoryClosed
	}
	v, ok := m.c.Get(key)
	if !ok {
		return nil, false, nil
	}
	b, ok := v.([]byte)
	return b, ok, nil
}

func (m *MemoryBackend) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if m.isClosed() {
		return ErrMemoryClosed
	}
	buf := append([]byte(nil), value...)
	if !m.c.SetWithTTL(key, buf, int64(len(buf))+1, ttl) {
		return errors.New("cache: memory backend dropped write")
	}
	// make the write visible to the next Get
	m.c.Wait()

	now := time.Now()
	m.mu.Lock()
	defer m.mu.Unlock()
	bucket := bucketOf(key)
	keys, ok := m.index[bucket]
	if !ok {
		keys = make(map[string]time.Time)
		m.index[bucket] = keys
	}
	exp := now.Add(ttl)
	if ttl <= 0 {
		exp = now.Add(100 * 365 * 24 * time.Hour)
	}
	keys[key] = exp
	if now.Sub(m.lastSweep) >= sweepInterval {
		m.sweepLocked(now)
	}
	return nil
}

func (m *MemoryBackend) DeletePattern(_ context.Context, pattern string) (int, error) {
	if m.isClosed() {
		return 0, ErrMemoryClosed
	}
	if _, err := path.Match(pattern, ""); err != nil {
		return 0, err
	}
	lit := literalPrefix(pattern)

	m.mu.Lock()
	defer m.mu.Unlock()
	deleted := 0
	for bucket, keys := range m.index {
		if !bucketMayMatch(bucket, lit) {
			continue
		}
		for key := range keys {
			if ok, _ := path.Match(pattern, key); !ok {
				continue
			}
			if _, live := m.c.Get(key); live {
				deleted++
			}
			m.c.Del(key)
			delete(keys, key)
		}
		if len(keys) == 0 {
			delete(m.index, bucket)
		}
	}
	return deleted, nil
}

func (m *MemoryBackend) Ping(context.Context) error {
	if m.isClosed() {
		return ErrMemoryClosed
	}
	return nil
}

// Close releases ristretto goroutines. Subsequent operations fail.
func (m *MemoryBackend) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	m.closed = true
	m.c.Close()
}

func (m *MemoryBackend) isClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

func (m *MemoryBackend) sweepLocked(now time.Time) {
	for bucket, keys := range m.index {
		for key, exp := range keys {
			if now.After(exp) {
				delete(keys, key)
			}
		}
		if len(keys) == 0 {
			delete(m.index, bucket)
		}
	}
	m.lastSweep = now
}

func bucketOf(key string) string {
	if i := strings.IndexByte(key, ':'); i >= 0 {
		return key[:i]
	}
	return key
}

func literalPrefix(pattern string) string {
	if i := strings.IndexAny(pattern, `*?[\`); i >= 0 {
		return pattern[:i]
	}
	return pattern
}

// bucketMayMatch reports whether keys in bucket can start with lit.
func bucketMayMatch(bucket, lit string) bool {
	if i := strings.IndexByte(lit, ':'); i >= 0 {
		return bucket == lit[:i]
	}
	return strings.HasPrefix(bucket, lit)
}
