package cache_test

import (
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/avatarctic/user-management-service/internal/infrastructure/cache"
)

var errBackendDown = errors.New("connection refused")

// flakyBackend is a map backed Backend whose failures can be switched on.
type flakyBackend struct {
	mu   sync.Mutex
	data map[string][]byte
	fail atomic.Bool

	gets    atomic.Int32
	sets    atomic.Int32
	deletes atomic.Int32
}

func newFlakyBackend() *flakyBackend {
	return &flakyBackend{data: map[string][]byte{}}
}

func (f *flakyBackend) Name() string { return "flaky" }

func (f *flakyBackend) Get(_ context.Context, key string) ([]byte, bool, error) {
	f.gets.Add(1)
	if f.fail.Load() {
		return nil, false, errBackendDown
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.data[key]
	return b, ok, nil
}

func (f *flakyBackend) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	f.sets.Add(1)
	if f.fail.Load() {
		return errBackendDown
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = value
	return nil
}

func (f *flakyBackend) DeletePattern(_ context.Context, pattern string) (int, error) {
	f.deletes.Add(1)
	if f.fail.Load() {
		return 0, errBackendDown
	}
	lit := pattern
	if n := len(lit); n > 0 && lit[n-1] == '*' {
		lit = lit[:n-1]
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for k := range f.data {
		if len(k) >= len(lit) && k[:len(lit)] == lit {
			delete(f.data, k)
			n++
		}
	}
	return n, nil
}

func (f *flakyBackend) Ping(context.Context) error {
	if f.fail.Load() {
		return errBackendDown
	}
	return nil
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newMemoryStore(t *testing.T, codec cache.Codec) *cache.Store {
	t.Helper()
	mem, err := cache.NewMemoryBackend(cache.MemoryConfig{})
	require.NoError(t, err)
	t.Cleanup(mem.Close)
	return cache.NewStore(cache.StaticConnector(mem), &cache.StoreConfig{Codec: codec}, nil, quietLogger())
}

func unreachableStore(calls *atomic.Int32) *cache.Store {
	connect := func(context.Context) (cache.Backend, error) {
		calls.Add(1)
		return nil, errBackendDown
	}
	return cache.NewStore(connect, nil, nil, quietLogger())
}

// user mirrors the shape of a persisted record with an internal column.
type user struct {
	ID         int64     `json:"id"`
	Email      string    `json:"email"`
	Country    *string   `json:"country"`
	CreatedAt  time.Time `json:"created_at"`
	RowVersion string    `json:"_row_version,omitempty"`
}
