package report

import (
	"math"
	"time"
)

type Period string

const (
	PeriodToday      Period = "today"
	PeriodYesterday  Period = "yesterday"
	PeriodLast7Days  Period = "last_7_days"
	PeriodLast30Days Period = "last_30_days"
)

type OverallStats struct {
	TotalUsers     int `json:"total_users"`
	ActiveUsers    int `json:"active_users"`
	InactiveUsers  int `json:"inactive_users"`
	NewToday       int `json:"new_today"`
	NewYesterday   int `json:"new_yesterday"`
	NewLast7Days   int `json:"new_last_7_days"`
	TotalCountries int `json:"total_countries"`
}

type NewUsersReport struct {
	Total     int       `json:"total"`
	Period    string    `json:"period"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

type CountryStats struct {
	Country     string  `json:"country" db:"country"`
	TotalUsers  int     `json:"total_users" db:"total_users"`
	ActiveUsers int     `json:"active_users" db:"active_users"`
	Percentage  float64 `json:"percentage" db:"-"`
}

type DailyStats struct {
	Date        string `json:"date"`
	NewUsers    int    `json:"new_users"`
	ActiveUsers int    `json:"active_users"`
	TotalUsers  int    `json:"total_users"`
}

// UserFilter is the admin user search. Nil fields are ignored.
type UserFilter struct {
	Country     *string
	IsActive    *bool
	IsSuperuser *bool
	Days        *int
	Skip        int
	Limit       int
}

// StartOfDay returns midnight of t's day in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// EndOfDay returns the last representable instant of t's day.
func EndOfDay(t time.Time) time.Time {
	return StartOfDay(t).AddDate(0, 0, 1).Add(-time.Microsecond)
}

// PeriodRange resolves a named period relative to now. Unknown names mean today.
func PeriodRange(p Period, now time.Time) (time.Time, time.Time) {
	switch p {
	case PeriodYesterday:
		y := now.AddDate(0, 0, -1)
		return StartOfDay(y), EndOfDay(y)
	case PeriodLast7Days:
		return now.AddDate(0, 0, -7), now
	case PeriodLast30Days:
		return now.AddDate(0, 0, -30), now
	default:
		return StartOfDay(now), EndOfDay(now)
	}
}

// Percentage returns part/total as a percentage rounded to two places, or 0 when total is 0.
func Percentage(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(part)/float64(total)*10000) / 100
}
