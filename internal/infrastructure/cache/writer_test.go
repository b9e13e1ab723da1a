package cache_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avatarctic/user-management-service/internal/infrastructure/cache"
)

var userWritePatterns = []string{"users_list:*", "user_by_id:*"}

func TestInvalidatingWriter_InvalidatesOnSuccess(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore(t, nil)
	var loads atomic.Int32
	email := "old@x.io"
	reader := newUserReader(store, &loads, func(id int64) (*user, error) {
		return &user{ID: id, Email: email}, nil
	})
	writer := cache.NewInvalidatingWriter(store, userWritePatterns,
		func(_ context.Context, newEmail string) (struct{}, error) {
			email = newEmail
			return struct{}{}, nil
		}, quietLogger())

	got, err := reader.Read(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "old@x.io", got.Email)

	_, err = writer.Write(ctx, "new@x.io")
	require.NoError(t, err)

	got, err = reader.Read(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "new@x.io", got.Email)
	assert.Equal(t, int32(2), loads.Load())
}

func TestInvalidatingWriter_FailureLeavesCache(t *testing.T) {
	ctx := context.Background()
	b := newFlakyBackend()
	store := cache.NewStore(cache.StaticConnector(b), nil, nil, quietLogger())
	require.True(t, store.Set(ctx, "users_list:abc", 1, time.Minute))

	boom := errors.New("unique violation")
	writer := cache.NewInvalidatingWriter(store, userWritePatterns,
		func(context.Context, int) (int, error) { return 0, boom }, nil)

	_, err := writer.Write(ctx, 1)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, int32(0), b.deletes.Load())

	var out int
	assert.True(t, store.Get(ctx, "users_list:abc", &out))
}

func TestInvalidatingWriter_CountsAndCancelledContext(t *testing.T) {
	b := newFlakyBackend()
	store := cache.NewStore(cache.StaticConnector(b), nil, nil, quietLogger())
	ctx := context.Background()
	require.True(t, store.Set(ctx, "users_list:a", 1, time.Minute))
	require.True(t, store.Set(ctx, "users_list:b", 1, time.Minute))
	require.True(t, store.Set(ctx, "user_by_id:c", 1, time.Minute))
	require.True(t, store.Set(ctx, "project_by_id:d", 1, time.Minute))

	writer := cache.NewInvalidatingWriter(store, userWritePatterns,
		func(context.Context, int) (int, error) { return 1, nil }, nil)
	assert.Equal(t, userWritePatterns, writer.Patterns())

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	assert.Equal(t, 3, writer.Invalidate(cancelled))

	var out int
	assert.True(t, store.Get(ctx, "project_by_id:d", &out))
}

func TestInvalidatingWriter_StoreDownStillWrites(t *testing.T) {
	var connects atomic.Int32
	writes := 0
	writer := cache.NewInvalidatingWriter(unreachableStore(&connects), userWritePatterns,
		func(context.Context, int) (int, error) { writes++; return writes, nil }, nil)

	n, err := writer.Write(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestInvalidatingWriter_DeletesEachPatternOnce(t *testing.T) {
	ctx := context.Background()
	b := newFlakyBackend()
	store := cache.NewStore(cache.StaticConnector(b), nil, nil, quietLogger())
	patterns := []string{"users_list:*", "users_by_countries:*", "user_by_id:*"}
	writer := cache.NewInvalidatingWriter(store, patterns,
		func(context.Context, int) (int, error) { return 1, nil }, nil)

	_, err := writer.Write(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int32(len(patterns)), b.deletes.Load())

	_, err = writer.Write(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, int32(2*len(patterns)), b.deletes.Load())
}
