package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/avatarctic/user-management-service/internal/core/domain/report"
	"github.com/avatarctic/user-management-service/internal/core/domain/user"
	"github.com/avatarctic/user-management-service/internal/infrastructure/httpserver/helpers"
)

// Admin report handlers; all routes require a superuser.

func (s *Server) overallStats(c echo.Context) error {
	stats, err := s.reportSvc.Overall(c.Request().Context())
	if err != nil {
		return s.toHTTPError(c, err, "failed to compute overall statistics")
	}
	return c.JSON(http.StatusOK, stats)
}

func (s *Server) newUsersStats(c echo.Context) error {
	period := report.Period(c.QueryParam("period"))
	if period == "" {
		period = report.PeriodToday
	}
	rep, err := s.reportSvc.NewUsers(c.Request().Context(), period)
	if err != nil {
		return s.toHTTPError(c, err, "failed to compute new users report")
	}
	return c.JSON(http.StatusOK, rep)
}

func (s *Server) countryStats(c echo.Context) error {
	stats, err := s.reportSvc.ByCountry(c.Request().Context())
	if err != nil {
		return s.toHTTPError(c, err, "failed to compute country statistics")
	}
	return c.JSON(http.StatusOK, nonNil(stats))
}

func (s *Server) dailyStats(c echo.Context) error {
	days, err := helpers.QueryInt(c, "days", 7, 1, 90)
	if err != nil {
		return err
	}
	stats, err := s.reportSvc.Daily(c.Request().Context(), days)
	if err != nil {
		return s.toHTTPError(c, err, "failed to compute daily statistics")
	}
	return c.JSON(http.StatusOK, nonNil(stats))
}

func (s *Server) filterUsers(c echo.Context) error {
	skip, limit, err := helpers.Pagination(c, 1000)
	if err != nil {
		return err
	}
	f := &report.UserFilter{Skip: skip, Limit: limit}
	if country := c.QueryParam("country"); country != "" {
		f.Country = &country
	}
	if f.IsActive, err = helpers.QueryBool(c, "is_active"); err != nil {
		return err
	}
	if f.IsSuperuser, err = helpers.QueryBool(c, "is_superuser"); err != nil {
		return err
	}
	if c.QueryParam("days") != "" {
		days, err := helpers.QueryInt(c, "days", 0, 1, 0)
		if err != nil {
			return err
		}
		f.Days = &days
	}

	users, err := s.reportSvc.FilterUsers(c.Request().Context(), f)
	if err != nil {
		return s.toHTTPError(c, err, "failed to filter users")
	}
	return c.JSON(http.StatusOK, user.PublicList(users))
}

func (s *Server) usersByCountry(c echo.Context) error {
	skip, limit, err := helpers.Pagination(c, 1000)
	if err != nil {
		return err
	}
	users, err := s.reportSvc.UsersByCountry(c.Request().Context(), c.Param("country"), skip, limit)
	if err != nil {
		return s.toHTTPError(c, err, "failed to list users by country")
	}
	return c.JSON(http.StatusOK, user.PublicList(users))
}
