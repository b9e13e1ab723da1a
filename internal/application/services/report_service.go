package services

import (
	"context"
	"strings"
	"time"

	"github.com/avatarctic/user-management-service/internal/core/domain/report"
	"github.com/avatarctic/user-management-service/internal/core/domain/user"
	"github.com/avatarctic/user-management-service/internal/core/ports"
)

type ReportService struct {
	repo ports.ReportRepository
	now  func() time.Time
}

func NewReportService(repo ports.ReportRepository) ports.ReportService {
	return &ReportService{repo: repo, now: time.Now}
}

func (s *ReportService) Overall(ctx context.Context) (*report.OverallStats, error) {
	return s.repo.OverallStats(ctx)
}

// NewUsers counts registrations in the named period. The period is echoed back as given.
func (s *ReportService) NewUsers(ctx context.Context, period report.Period) (*report.NewUsersReport, error) {
	start, end := report.PeriodRange(period, s.now())
	total, err := s.repo.CountCreatedBetween(ctx, start, end)
	if err != nil {
		return nil, err
	}
	return &report.NewUsersReport{Total: total, Period: string(period), StartDate: start, EndDate: end}, nil
}

func (s *ReportService) ByCountry(ctx context.Context) ([]report.CountryStats, error) {
	return s.repo.CountryStats(ctx)
}

// Daily returns one entry per day for the last days days, oldest first, ending today.
func (s *ReportService) Daily(ctx context.Context, days int) ([]report.DailyStats, error) {
	now := s.now()
	first := report.StartOfDay(now.AddDate(0, 0, -(days - 1)))
	out := make([]report.DailyStats, 0, days)
	for day := first; !day.After(now); day = day.AddDate(0, 0, 1) {
		end := report.EndOfDay(day)
		created, err := s.repo.CountCreatedBetween(ctx, day, end)
		if err != nil {
			return nil, err
		}
		total, active, err := s.repo.CountCreatedUntil(ctx, end)
		if err != nil {
			return nil, err
		}
		out = append(out, report.DailyStats{
			Date:        day.Format("2006-01-02"),
			NewUsers:    created,
			ActiveUsers: active,
			TotalUsers:  total,
		})
	}
	return out, nil
}

func (s *ReportService) FilterUsers(ctx context.Context, f *report.UserFilter) ([]*user.User, error) {
	if f.Country != nil {
		c := strings.ToUpper(*f.Country)
		f.Country = &c
	}
	return s.repo.FilterUsers(ctx, f)
}

func (s *ReportService) UsersByCountry(ctx context.Context, country string, skip, limit int) ([]*user.User, error) {
	return s.repo.UsersByCountry(ctx, strings.ToUpper(country), skip, limit)
}
