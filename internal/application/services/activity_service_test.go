package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avatarctic/user-management-service/internal/core/domain/activity"
	"github.com/avatarctic/user-management-service/test/mocks"
)

var fixedNow = time.Date(2024, time.March, 15, 14, 30, 0, 0, time.UTC)

func TestActivityService_ListByDateRangeCoversWholeDays(t *testing.T) {
	var got *activity.Filter
	repo := &mocks.ActivityRepositoryMock{
		ListFn: func(ctx context.Context, f *activity.Filter) ([]*activity.Activity, error) {
			got = f
			return nil, nil
		},
	}
	svc := NewActivityService(repo, nil)

	start := time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC)
	end := time.Date(2024, time.March, 3, 9, 0, 0, 0, time.UTC)
	_, err := svc.ListByDateRange(context.Background(), 7, start, end)
	require.NoError(t, err)

	require.NotNil(t, got)
	assert.Equal(t, int64(7), got.UserID)
	assert.Equal(t, time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC), *got.Since)
	assert.Equal(t, time.Date(2024, time.March, 3, 23, 59, 59, 999999000, time.UTC), *got.Until)
}

func TestActivityService_ListRecent(t *testing.T) {
	var got *activity.Filter
	repo := &mocks.ActivityRepositoryMock{
		ListFn: func(ctx context.Context, f *activity.Filter) ([]*activity.Activity, error) {
			got = f
			return []*activity.Activity{{ID: 1}}, nil
		},
	}
	svc := NewActivityService(repo, nil)
	svc.now = func() time.Time { return fixedNow }

	out, err := svc.ListRecent(context.Background(), 3, 24)
	require.NoError(t, err)
	assert.Len(t, out, 1)
	assert.Equal(t, fixedNow.Add(-24*time.Hour), *got.Since)
	assert.Nil(t, got.Until)
}

func TestActivityService_StatsTotals(t *testing.T) {
	repo := &mocks.ActivityRepositoryMock{
		CountByTypeFn: func(ctx context.Context, userID int64, since, until time.Time) (map[string]int, error) {
			return map[string]int{activity.ActionLogin: 3, "VIEW": 2}, nil
		},
	}
	stats, err := NewActivityService(repo, nil).Stats(context.Background(), 5, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, 5, stats.TotalActivities)
	assert.Equal(t, int64(5), stats.UserID)
	assert.Equal(t, time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC), stats.Date)
}

func TestActivityService_PurgeOlderThan(t *testing.T) {
	var cutoff time.Time
	repo := &mocks.ActivityRepositoryMock{
		DeleteOlderThanFn: func(ctx context.Context, c time.Time) (int64, error) {
			cutoff = c
			return 4, nil
		},
	}
	svc := NewActivityService(repo, nil)
	svc.now = func() time.Time { return fixedNow }

	_, err := svc.PurgeOlderThan(context.Background(), 0)
	assert.Error(t, err)

	n, err := svc.PurgeOlderThan(context.Background(), activity.RetentionDays)
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
	assert.Equal(t, fixedNow.AddDate(0, 0, -90), cutoff)
}

func TestActivityService_LogActionSwallowsErrors(t *testing.T) {
	var recorded *activity.Activity
	repo := &mocks.ActivityRepositoryMock{
		CreateFn: func(ctx context.Context, a *activity.Activity) error {
			recorded = a
			return errors.New("db down")
		},
	}
	NewActivityService(repo, nil).LogAction(context.Background(), 2, activity.ActionLogin, "", "10.0.0.1", "")

	require.NotNil(t, recorded)
	assert.Nil(t, recorded.Description)
	require.NotNil(t, recorded.IPAddress)
	assert.Equal(t, "10.0.0.1", *recorded.IPAddress)
	assert.Nil(t, recorded.UserAgent)
}
