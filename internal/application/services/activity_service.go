package services

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/avatarctic/user-management-service/internal/core/domain/activity"
	"github.com/avatarctic/user-management-service/internal/core/domain/report"
	"github.com/avatarctic/user-management-service/internal/core/ports"
)

// ActivityService implements ports.ActivityService.
type ActivityService struct {
	repo   ports.ActivityRepository
	logger *logrus.Logger
	now    func() time.Time
}

func NewActivityService(repo ports.ActivityRepository, logger *logrus.Logger) *ActivityService {
	return &ActivityService{repo: repo, logger: logger, now: time.Now}
}

func (s *ActivityService) Record(ctx context.Context, userID int64, req *activity.CreateActivityRequest) (*activity.Activity, error) {
	a := &activity.Activity{
		UserID:      userID,
		ActionType:  req.ActionType,
		Description: req.Description,
		IPAddress:   req.IPAddress,
		UserAgent:   req.UserAgent,
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// LogAction records an activity and only logs on failure.
func (s *ActivityService) LogAction(ctx context.Context, userID int64, actionType, description, ipAddress, userAgent string) {
	req := &activity.CreateActivityRequest{ActionType: actionType}
	if description != "" {
		req.Description = &description
	}
	if ipAddress != "" {
		req.IPAddress = &ipAddress
	}
	if userAgent != "" {
		req.UserAgent = &userAgent
	}
	if _, err := s.Record(ctx, userID, req); err != nil && s.logger != nil {
		s.logger.WithFields(logrus.Fields{"user_id": userID, "action_type": actionType}).WithError(err).Warn("failed to record activity")
	}
}

func (s *ActivityService) List(ctx context.Context, userID int64, skip, limit int) ([]*activity.Activity, error) {
	return s.repo.List(ctx, &activity.Filter{UserID: userID, Skip: skip, Limit: limit})
}

func (s *ActivityService) ListByDate(ctx context.Context, userID int64, day time.Time) ([]*activity.Activity, error) {
	start, end := report.StartOfDay(day), report.EndOfDay(day)
	return s.repo.List(ctx, &activity.Filter{UserID: userID, Since: &start, Until: &end})
}

// ListByDateRange includes every activity on the end day.
func (s *ActivityService) ListByDateRange(ctx context.Context, userID int64, start, end time.Time) ([]*activity.Activity, error) {
	from, until := report.StartOfDay(start), report.EndOfDay(end)
	return s.repo.List(ctx, &activity.Filter{UserID: userID, Since: &from, Until: &until})
}

func (s *ActivityService) ListByType(ctx context.Context, userID int64, actionType string) ([]*activity.Activity, error) {
	return s.repo.List(ctx, &activity.Filter{UserID: userID, ActionType: actionType})
}

func (s *ActivityService) ListRecent(ctx context.Context, userID int64, hours int) ([]*activity.Activity, error) {
	since := s.now().Add(-time.Duration(hours) * time.Hour)
	return s.repo.List(ctx, &activity.Filter{UserID: userID, Since: &since})
}

func (s *ActivityService) Stats(ctx context.Context, userID int64, day time.Time) (*activity.Stats, error) {
	start, end := report.StartOfDay(day), report.EndOfDay(day)
	breakdown, err := s.repo.CountByType(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}
	total := 0
	for _, n := range breakdown {
		total += n
	}
	return &activity.Stats{
		UserID:            userID,
		Date:              start,
		TotalActivities:   total,
		ActivityBreakdown: breakdown,
	}, nil
}

func (s *ActivityService) PurgeOlderThan(ctx context.Context, days int) (int64, error) {
	if days <= 0 {
		return 0, fmt.Errorf("retention must be positive, got %d days", days)
	}
	cutoff := s.now().AddDate(0, 0, -days)
	n, err := s.repo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if s.logger != nil && n > 0 {
		s.logger.WithFields(logrus.Fields{"deleted": n, "cutoff": cutoff}).Info("purged old activities")
	}
	return n, nil
}

// RunRetention purges activities past activity.RetentionDays every interval until ctx is done.
func (s *ActivityService) RunRetention(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			runCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
			if _, err := s.PurgeOlderThan(runCtx, activity.RetentionDays); err != nil && s.logger != nil {
				s.logger.WithError(err).Error("failed to purge old activities")
			}
			cancel()
		}
	}
}
