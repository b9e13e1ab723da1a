package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/avatarctic/user-management-service/internal/core/domain/activity"
	"github.com/avatarctic/user-management-service/internal/core/ports"
	"github.com/avatarctic/user-management-service/internal/infrastructure/db"
)

const activityColumns = `id, user_id, action_type, description, ip_address, user_agent, created_at`

type activityRepository struct {
	db     *db.Database
	logger *logrus.Logger
}

// NewActivityRepository creates a new instance of ActivityRepository
func NewActivityRepository(database *db.Database, logger *logrus.Logger) ports.ActivityRepository {
	return &activityRepository{
		db:     database,
		logger: logger,
	}
}

// Create inserts a new activity entry into the database
func (r *activityRepository) Create(ctx context.Context, a *activity.Activity) error {
	query := `
		INSERT INTO user_activities (user_id, action_type, description, ip_address, user_agent)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := r.db.DB.QueryRowxContext(ctx, query,
		a.UserID,
		a.ActionType,
		a.Description,
		a.IPAddress,
		a.UserAgent,
	).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"user_id": a.UserID, "action_type": a.ActionType}).WithError(err).Error("db: failed to insert activity")
		}
		return fmt.Errorf("failed to create activity: %w", err)
	}
	if r.logger != nil {
		r.logger.WithFields(logrus.Fields{"user_id": a.UserID, "action_type": a.ActionType, "activity_id": a.ID}).Debug("db: activity inserted")
	}
	return nil
}

// List retrieves activities based on the provided filter, newest first
func (r *activityRepository) List(ctx context.Context, filter *activity.Filter) ([]*activity.Activity, error) {
	query, args := r.buildListQuery(filter, false)
	if r.logger != nil {
		r.logger.WithFields(logrus.Fields{"query": query, "args": args}).Debug("db: executing activity list query")
	}
	activities := []*activity.Activity{}
	if err := r.db.DB.SelectContext(ctx, &activities, query, args...); err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"query": query}).WithError(err).Error("db: failed to execute activity list query")
		}
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	return activities, nil
}

// Count returns the number of activities matching the filter
func (r *activityRepository) Count(ctx context.Context, filter *activity.Filter) (int, error) {
	query, args := r.buildListQuery(filter, true)

	var count int
	if err := r.db.DB.GetContext(ctx, &count, query, args...); err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"query": query}).WithError(err).Error("db: failed to execute activity count query")
		}
		return 0, fmt.Errorf("failed to count activities: %w", err)
	}
	return count, nil
}

// CountByType groups a user's activities in [since, until] by action type
func (r *activityRepository) CountByType(ctx context.Context, userID int64, since, until time.Time) (map[string]int, error) {
	var rows []struct {
		ActionType string `db:"action_type"`
		Count      int    `db:"count"`
	}
	query := `
		SELECT action_type, COUNT(*) AS count
		FROM user_activities
		WHERE user_id = $1 AND created_at >= $2 AND created_at <= $3
		GROUP BY action_type`
	if err := r.db.DB.SelectContext(ctx, &rows, query, userID, since, until); err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"user_id": userID}).WithError(err).Error("db: failed to count activities by type")
		}
		return nil, fmt.Errorf("failed to count activities by type: %w", err)
	}
	out := make(map[string]int, len(rows))
	for _, row := range rows {
		out[row.ActionType] = row.Count
	}
	return out, nil
}

// LatestOfType returns the most recent activity of actionType, or nil if there is none
func (r *activityRepository) LatestOfType(ctx context.Context, userID int64, actionType string) (*activity.Activity, error) {
	var a activity.Activity
	query := `SELECT ` + activityColumns + `
		FROM user_activities
		WHERE user_id = $1 AND action_type = $2
		ORDER BY created_at DESC
		LIMIT 1`
	if err := r.db.DB.GetContext(ctx, &a, query, userID, actionType); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get latest activity: %w", err)
	}
	return &a, nil
}

// DeleteOlderThan removes activities created before cutoff
func (r *activityRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.db.DB.ExecContext(ctx, `DELETE FROM user_activities WHERE created_at < $1`, cutoff)
	if err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"cutoff": cutoff}).WithError(err).Error("db: failed to delete old activities")
		}
		return 0, fmt.Errorf("failed to delete old activities: %w", err)
	}
	return result.RowsAffected()
}

// buildListQuery constructs the SQL query and arguments for listing/counting activities
func (r *activityRepository) buildListQuery(filter *activity.Filter, isCount bool) (string, []interface{}) {
	selectClause := "SELECT " + activityColumns
	if isCount {
		selectClause = "SELECT COUNT(*)"
	}

	query := selectClause + " FROM user_activities"
	var conditions []string
	var args []interface{}
	argIndex := 1

	if filter != nil {
		if filter.UserID != 0 {
			conditions = append(conditions, "user_id = $"+strconv.Itoa(argIndex))
			args = append(args, filter.UserID)
			argIndex++
		}

		if filter.ActionType != "" {
			conditions = append(conditions, "action_type = $"+strconv.Itoa(argIndex))
			args = append(args, filter.ActionType)
			argIndex++
		}

		if filter.Since != nil {
			conditions = append(conditions, "created_at >= $"+strconv.Itoa(argIndex))
			args = append(args, *filter.Since)
			argIndex++
		}

		if filter.Until != nil {
			conditions = append(conditions, "created_at <= $"+strconv.Itoa(argIndex))
			args = append(args, *filter.Until)
			argIndex++
		}
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	if !isCount {
		query += " ORDER BY created_at DESC"

		if filter != nil {
			if filter.Limit > 0 {
				query += " LIMIT $" + strconv.Itoa(argIndex)
				args = append(args, filter.Limit)
				argIndex++
			}

			if filter.Skip > 0 {
				query += " OFFSET $" + strconv.Itoa(argIndex)
				args = append(args, filter.Skip)
			}
		}
	}

	return query, args
}
