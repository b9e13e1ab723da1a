package cache_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avatarctic/user-management-service/internal/infrastructure/cache"
)

func byID(id int64) cache.Args { return cache.Pos(id) }

func newUserReader(store *cache.Store, calls *atomic.Int32, load func(id int64) (*user, error)) *cache.CachedReader[int64, *user] {
	return cache.NewCachedReader(store, "user_by_id", time.Minute, byID, cache.RecordShape[user]{},
		func(_ context.Context, id int64) (*user, error) {
			calls.Add(1)
			return load(id)
		}, quietLogger())
}

func TestCachedReader_HitSkipsLoad(t *testing.T) {
	ctx := context.Background()
	var calls atomic.Int32
	country := "US"
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	r := newUserReader(newMemoryStore(t, nil), &calls, func(id int64) (*user, error) {
		return &user{ID: id, Email: "a@b.c", Country: &country, CreatedAt: created, RowVersion: "991"}, nil
	})

	first, err := r.Read(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "991", first.RowVersion)

	second, err := r.Read(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, int64(1), second.ID)
	assert.Equal(t, "US", *second.Country)
	assert.True(t, created.Equal(second.CreatedAt))
	assert.Empty(t, second.RowVersion, "internal fields are not cached")

	_, err = r.Read(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestCachedReader_MsgpackCodec(t *testing.T) {
	ctx := context.Background()
	var calls atomic.Int32
	r := newUserReader(newMemoryStore(t, cache.MsgpackCodec{}), &calls, func(id int64) (*user, error) {
		return &user{ID: id, Email: "m@p.k"}, nil
	})
	_, err := r.Read(ctx, 5)
	require.NoError(t, err)
	got, err := r.Read(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, "m@p.k", got.Email)
	assert.Nil(t, got.Country)
}

func TestCachedReader_ErrorsAndNilAreNotCached(t *testing.T) {
	ctx := context.Background()
	var calls atomic.Int32
	boom := errors.New("db down")
	r := newUserReader(newMemoryStore(t, nil), &calls, func(id int64) (*user, error) {
		if id == 1 {
			return nil, boom
		}
		return nil, nil
	})

	for i := 0; i < 2; i++ {
		_, err := r.Read(ctx, 1)
		assert.ErrorIs(t, err, boom)
	}
	for i := 0; i < 2; i++ {
		u, err := r.Read(ctx, 2)
		require.NoError(t, err)
		assert.Nil(t, u)
	}
	assert.Equal(t, int32(4), calls.Load())
}

func TestCachedReader_EmptyListIsCached(t *testing.T) {
	ctx := context.Background()
	var calls atomic.Int32
	r := cache.NewCachedReader(newMemoryStore(t, nil), "users_list", time.Minute,
		func(limit int) cache.Args { return cache.KW(map[string]any{"skip": 0, "limit": limit}) },
		cache.RecordsShape[user]{},
		func(context.Context, int) ([]*user, error) {
			calls.Add(1)
			return []*user{}, nil
		}, quietLogger())

	for i := 0; i < 3; i++ {
		got, err := r.Read(ctx, 10)
		require.NoError(t, err)
		assert.Empty(t, got)
		assert.NotNil(t, got)
	}
	assert.Equal(t, int32(1), calls.Load())
}

func TestCachedReader_ValueShape(t *testing.T) {
	type overall struct {
		TotalUsers  int `json:"total_users"`
		ActiveUsers int `json:"active_users"`
	}
	ctx := context.Background()
	var calls atomic.Int32
	r := cache.NewCachedReader(newMemoryStore(t, cache.MsgpackCodec{}), "stats_overall", time.Minute,
		func(struct{}) cache.Args { return cache.Args{} },
		cache.ValueShape[overall]{},
		func(context.Context, struct{}) (overall, error) {
			calls.Add(1)
			return overall{TotalUsers: 10, ActiveUsers: 7}, nil
		}, quietLogger())

	_, err := r.Read(ctx, struct{}{})
	require.NoError(t, err)
	got, err := r.Read(ctx, struct{}{})
	require.NoError(t, err)
	assert.Equal(t, overall{TotalUsers: 10, ActiveUsers: 7}, got)
	assert.Equal(t, int32(1), calls.Load())
}

func TestCachedReader_KindMismatchIsMiss(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore(t, nil)
	var calls atomic.Int32
	r := newUserReader(store, &calls, func(id int64) (*user, error) { return &user{ID: id}, nil })

	require.True(t, store.Set(ctx, r.Key(3), cache.Payload{Kind: cache.KindValue, Value: 1}, time.Minute))
	got, err := r.Read(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(3), got.ID)
	assert.Equal(t, int32(1), calls.Load())
}

func TestCachedReader_DegradesWithoutBackend(t *testing.T) {
	ctx := context.Background()
	var connects, calls atomic.Int32
	r := newUserReader(unreachableStore(&connects), &calls, func(id int64) (*user, error) {
		return &user{ID: id}, nil
	})
	for i := 0; i < 3; i++ {
		got, err := r.Read(ctx, 9)
		require.NoError(t, err)
		assert.Equal(t, int64(9), got.ID)
	}
	assert.Equal(t, int32(3), calls.Load())
	assert.Equal(t, int32(1), connects.Load())
}

func TestCachedReader_NilCachePassesThrough(t *testing.T) {
	var calls atomic.Int32
	r := cache.NewCachedReader[int64, *user](nil, "user_by_id", time.Minute, byID, cache.RecordShape[user]{},
		func(_ context.Context, id int64) (*user, error) {
			calls.Add(1)
			return &user{ID: id}, nil
		}, nil)
	_, _ = r.Read(context.Background(), 1)
	_, _ = r.Read(context.Background(), 1)
	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, "user_by_id", r.Prefix())
}

// blockingLoad returns a load that signals started once and then waits for release.
func blockingLoad(started chan<- struct{}, release <-chan struct{}) func(ctx context.Context, id int64) (*user, error) {
	var once sync.Once
	return func(ctx context.Context, id int64) (*user, error) {
		once.Do(func() { close(started) })
		select {
		case <-release:
			return &user{ID: id, Email: "shared@x.io"}, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

func TestCachedReader_ConcurrentMissesShareOneLoad(t *testing.T) {
	var calls atomic.Int32
	started, release := make(chan struct{}), make(chan struct{})
	load := blockingLoad(started, release)
	r := cache.NewCachedReader(newMemoryStore(t, nil), "user_by_id", time.Minute, byID, cache.RecordShape[user]{},
		func(ctx context.Context, id int64) (*user, error) {
			calls.Add(1)
			return load(ctx, id)
		}, quietLogger())

	const readers = 8
	results := make([]*user, readers)
	errs := make([]error, readers)
	var wg sync.WaitGroup
	for i := 0; i < readers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = r.Read(context.Background(), 4)
		}(i)
	}
	<-started
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	for i := 0; i < readers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, "shared@x.io", results[i].Email)
	}
}

func TestCachedReader_SharedMissReturnsCopies(t *testing.T) {
	var calls atomic.Int32
	started, release := make(chan struct{}), make(chan struct{})
	load := blockingLoad(started, release)
	r := newUserReader(newMemoryStore(t, nil), &calls, func(id int64) (*user, error) {
		return load(context.Background(), id)
	})

	var first, second *user
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		first, _ = r.Read(context.Background(), 8)
	}()
	<-started
	go func() {
		defer wg.Done()
		second, _ = r.Read(context.Background(), 8)
	}()
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	require.NotNil(t, first)
	require.NotNil(t, second)
	assert.NotSame(t, first, second)
	first.Email = "edited@x.io"
	assert.Equal(t, "shared@x.io", second.Email)
}

func TestCachedReader_CancelledCallerDoesNotFailOthers(t *testing.T) {
	var calls atomic.Int32
	started, release := make(chan struct{}), make(chan struct{})
	load := blockingLoad(started, release)
	r := cache.NewCachedReader(newMemoryStore(t, nil), "user_by_id", time.Minute, byID, cache.RecordShape[user]{},
		func(ctx context.Context, id int64) (*user, error) {
			calls.Add(1)
			return load(ctx, id)
		}, quietLogger())

	leaderCtx, cancel := context.WithCancel(context.Background())
	leaderErr := make(chan error, 1)
	go func() {
		_, err := r.Read(leaderCtx, 6)
		leaderErr <- err
	}()
	<-started

	type result struct {
		u   *user
		err error
	}
	other := make(chan result, 1)
	go func() {
		u, err := r.Read(context.Background(), 6)
		other <- result{u, err}
	}()
	time.Sleep(50 * time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-leaderErr, context.Canceled)

	close(release)
	got := <-other
	require.NoError(t, got.err)
	assert.Equal(t, int64(6), got.u.ID)
	assert.Equal(t, int32(1), calls.Load())

	// the detached load still populated the cache
	_, err := r.Read(context.Background(), 6)
	require.NoError(t, err)
	assert.Equal(t, int32(1), calls.Load())
}
