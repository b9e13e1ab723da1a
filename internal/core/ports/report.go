package ports

import (
	"context"
	"time"

	"github.com/avatarctic/user-management-service/internal/core/domain/report"
	"github.com/avatarctic/user-management-service/internal/core/domain/user"
)

// ReportRepository defines the aggregate queries behind the admin reports
type ReportRepository interface {
	// OverallStats computes the headline user counts as of now
	OverallStats(ctx context.Context) (*report.OverallStats, error)
	// CountryStats aggregates users per country, largest first
	CountryStats(ctx context.Context) ([]report.CountryStats, error)
	CountCreatedBetween(ctx context.Context, start, end time.Time) (int, error)
	CountCreatedUntil(ctx context.Context, until time.Time) (total int, active int, err error)
	FilterUsers(ctx context.Context, f *report.UserFilter) ([]*user.User, error)
	UsersByCountry(ctx context.Context, country string, skip, limit int) ([]*user.User, error)
}

// ReportService defines the admin analytics use cases
type ReportService interface {
	Overall(ctx context.Context) (*report.OverallStats, error)
	NewUsers(ctx context.Context, period report.Period) (*report.NewUsersReport, error)
	ByCountry(ctx context.Context) ([]report.CountryStats, error)
	Daily(ctx context.Context, days int) ([]report.DailyStats, error)
	FilterUsers(ctx context.Context, f *report.UserFilter) ([]*user.User, error)
	UsersByCountry(ctx context.Context, country string, skip, limit int) ([]*user.User, error)
}
