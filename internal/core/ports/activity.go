package ports

import (
	"context"
	"time"

	"github.com/avatarctic/user-management-service/internal/core/domain/activity"
)

// ActivityRepository defines the interface for activity log data operations
type ActivityRepository interface {
	Create(ctx context.Context, a *activity.Activity) error
	List(ctx context.Context, filter *activity.Filter) ([]*activity.Activity, error)
	Count(ctx context.Context, filter *activity.Filter) (int, error)
	CountByType(ctx context.Context, userID int64, since, until time.Time) (map[string]int, error)
	LatestOfType(ctx context.Context, userID int64, actionType string) (*activity.Activity, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// ActivityService defines the interface for activity logging business logic
type ActivityService interface {
	Record(ctx context.Context, userID int64, req *activity.CreateActivityRequest) (*activity.Activity, error)
	// LogAction records an activity without failing the caller
	LogAction(ctx context.Context, userID int64, actionType, description, ipAddress, userAgent string)
	List(ctx context.Context, userID int64, skip, limit int) ([]*activity.Activity, error)
	ListByDate(ctx context.Context, userID int64, day time.Time) ([]*activity.Activity, error)
	ListByDateRange(ctx context.Context, userID int64, start, end time.Time) ([]*activity.Activity, error)
	ListByType(ctx context.Context, userID int64, actionType string) ([]*activity.Activity, error)
	ListRecent(ctx context.Context, userID int64, hours int) ([]*activity.Activity, error)
	Stats(ctx context.Context, userID int64, day time.Time) (*activity.Stats, error)
	PurgeOlderThan(ctx context.Context, days int) (int64, error)
}
