package repositories

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/avatarctic/user-management-service/internal/core/domain/report"
	"github.com/avatarctic/user-management-service/internal/core/domain/user"
	"github.com/avatarctic/user-management-service/internal/core/ports"
	"github.com/avatarctic/user-management-service/internal/infrastructure/db"
)

type reportRepository struct {
	db     *db.Database
	logger *logrus.Logger
}

// NewReportRepository creates the aggregate query repository used by admin reports
func NewReportRepository(database *db.Database, logger *logrus.Logger) ports.ReportRepository {
	return &reportRepository{db: database, logger: logger}
}

type totals struct {
	Total  int `db:"total"`
	Active int `db:"active"`
}

func (r *reportRepository) OverallStats(ctx context.Context) (*report.OverallStats, error) {
	now := time.Now().UTC()
	today := report.StartOfDay(now)
	yesterday := today.AddDate(0, 0, -1)
	weekAgo := now.AddDate(0, 0, -7)

	var row struct {
		Total     int `db:"total"`
		Active    int `db:"active"`
		Today     int `db:"today"`
		Yesterday int `db:"yesterday"`
		Week      int `db:"week"`
		Countries int `db:"countries"`
	}
	query := `
		SELECT
			COUNT(*) AS total,
			COUNT(*) FILTER (WHERE is_active) AS active,
			COUNT(*) FILTER (WHERE created_at >= $1) AS today,
			COUNT(*) FILTER (WHERE created_at >= $2 AND created_at < $1) AS yesterday,
			COUNT(*) FILTER (WHERE created_at >= $3) AS week,
			COUNT(DISTINCT country) AS countries
		FROM users`
	if err := r.db.DB.GetContext(ctx, &row, query, today, yesterday, weekAgo); err != nil {
		r.logError(err, "overall stats")
		return nil, fmt.Errorf("failed to compute overall stats: %w", err)
	}
	return &report.OverallStats{
		TotalUsers:     row.Total,
		ActiveUsers:    row.Active,
		InactiveUsers:  row.Total - row.Active,
		NewToday:       row.Today,
		NewYesterday:   row.Yesterday,
		NewLast7Days:   row.Week,
		TotalCountries: row.Countries,
	}, nil
}

func (r *reportRepository) CountryStats(ctx context.Context) ([]report.CountryStats, error) {
	var total int
	if err := r.db.DB.GetContext(ctx, &total, `SELECT COUNT(*) FROM users`); err != nil {
		r.logError(err, "count users")
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	stats := []report.CountryStats{}
	query := `
		SELECT country, COUNT(*) AS total_users, COUNT(*) FILTER (WHERE is_active) AS active_users
		FROM users
		WHERE country IS NOT NULL
		GROUP BY country
		ORDER BY total_users DESC, country`
	if err := r.db.DB.SelectContext(ctx, &stats, query); err != nil {
		r.logError(err, "country breakdown")
		return nil, fmt.Errorf("failed to aggregate users by country: %w", err)
	}
	for i := range stats {
		stats[i].Percentage = report.Percentage(stats[i].TotalUsers, total)
	}
	return stats, nil
}

func (r *reportRepository) CountCreatedBetween(ctx context.Context, start, end time.Time) (int, error) {
	var n int
	query := `SELECT COUNT(*) FROM users WHERE created_at >= $1 AND created_at <= $2`
	if err := r.db.DB.GetContext(ctx, &n, query, start, end); err != nil {
		r.logError(err, "count users created between")
		return 0, fmt.Errorf("failed to count new users: %w", err)
	}
	return n, nil
}

func (r *reportRepository) CountCreatedUntil(ctx context.Context, until time.Time) (int, int, error) {
	var t totals
	query := `SELECT COUNT(*) AS total, COUNT(*) FILTER (WHERE is_active) AS active FROM users WHERE created_at <= $1`
	if err := r.db.DB.GetContext(ctx, &t, query, until); err != nil {
		r.logError(err, "count users created until")
		return 0, 0, fmt.Errorf("failed to count users: %w", err)
	}
	return t.Total, t.Active, nil
}

func (r *reportRepository) FilterUsers(ctx context.Context, f *report.UserFilter) ([]*user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users`
	var conditions []string
	var args []interface{}
	argIndex := 1

	if f.Country != nil {
		conditions = append(conditions, "country = $"+strconv.Itoa(argIndex))
		args = append(args, *f.Country)
		argIndex++
	}
	if f.IsActive != nil {
		conditions = append(conditions, "is_active = $"+strconv.Itoa(argIndex))
		args = append(args, *f.IsActive)
		argIndex++
	}
	if f.IsSuperuser != nil {
		conditions = append(conditions, "is_superuser = $"+strconv.Itoa(argIndex))
		args = append(args, *f.IsSuperuser)
		argIndex++
	}
	if f.Days != nil {
		conditions = append(conditions, "created_at >= $"+strconv.Itoa(argIndex))
		args = append(args, time.Now().UTC().AddDate(0, 0, -*f.Days))
		argIndex++
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY id LIMIT $" + strconv.Itoa(argIndex) + " OFFSET $" + strconv.Itoa(argIndex+1)
	args = append(args, f.Limit, f.Skip)

	users := []*user.User{}
	if err := r.db.DB.SelectContext(ctx, &users, query, args...); err != nil {
		r.logError(err, "filter users")
		return nil, fmt.Errorf("failed to filter users: %w", err)
	}
	return users, nil
}

func (r *reportRepository) UsersByCountry(ctx context.Context, country string, skip, limit int) ([]*user.User, error) {
	users := []*user.User{}
	query := `SELECT ` + userColumns + ` FROM users WHERE country = $1 ORDER BY id LIMIT $2 OFFSET $3`
	if err := r.db.DB.SelectContext(ctx, &users, query, country, limit, skip); err != nil {
		r.logError(err, "users by country")
		return nil, fmt.Errorf("failed to list users by country: %w", err)
	}
	return users, nil
}

func (r *reportRepository) logError(err error, op string) {
	if r.logger != nil {
		r.logger.WithField("op", op).WithError(err).Error("db: report query failed")
	}
}
