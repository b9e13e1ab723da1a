package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/avatarctic/user-management-service/internal/core/domain/activity"
	"github.com/avatarctic/user-management-service/internal/infrastructure/httpserver/helpers"
)

// Activity routes run behind RequireUserAction on :user_id, so the target user exists and the caller may act on them.

// nonNil keeps empty results serialising as [] rather than null.
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

func (s *Server) createActivity(c echo.Context) error {
	target, err := helpers.GetTargetUserFromContext(c)
	if err != nil {
		return err
	}
	var req activity.CreateActivityRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if req.IPAddress == nil {
		ip := c.RealIP()
		req.IPAddress = &ip
	}
	if req.UserAgent == nil {
		if ua := c.Request().UserAgent(); ua != "" {
			req.UserAgent = &ua
		}
	}

	created, err := s.activitySvc.Record(c.Request().Context(), target.ID, &req)
	if err != nil {
		return s.toHTTPError(c, err, "failed to record activity")
	}
	return c.JSON(http.StatusCreated, created)
}

func (s *Server) listActivities(c echo.Context) error {
	target, err := helpers.GetTargetUserFromContext(c)
	if err != nil {
		return err
	}
	skip, limit, err := helpers.Pagination(c, 100)
	if err != nil {
		return err
	}
	items, err := s.activitySvc.List(c.Request().Context(), target.ID, skip, limit)
	if err != nil {
		return s.toHTTPError(c, err, "failed to list activities")
	}
	return c.JSON(http.StatusOK, nonNil(items))
}

func (s *Server) listActivitiesByDate(c echo.Context) error {
	target, err := helpers.GetTargetUserFromContext(c)
	if err != nil {
		return err
	}
	day, err := helpers.ParseDate(c.Param("date"), "date")
	if err != nil {
		return err
	}
	items, err := s.activitySvc.ListByDate(c.Request().Context(), target.ID, day)
	if err != nil {
		return s.toHTTPError(c, err, "failed to list activities")
	}
	return c.JSON(http.StatusOK, nonNil(items))
}

func (s *Server) listActivitiesByDateRange(c echo.Context) error {
	target, err := helpers.GetTargetUserFromContext(c)
	if err != nil {
		return err
	}
	start, err := helpers.ParseDate(c.QueryParam("start_date"), "start_date")
	if err != nil {
		return err
	}
	end, err := helpers.ParseDate(c.QueryParam("end_date"), "end_date")
	if err != nil {
		return err
	}
	items, err := s.activitySvc.ListByDateRange(c.Request().Context(), target.ID, start, end)
	if err != nil {
		return s.toHTTPError(c, err, "failed to list activities")
	}
	return c.JSON(http.StatusOK, nonNil(items))
}

func (s *Server) listActivitiesByType(c echo.Context) error {
	target, err := helpers.GetTargetUserFromContext(c)
	if err != nil {
		return err
	}
	items, err := s.activitySvc.ListByType(c.Request().Context(), target.ID, c.Param("action_type"))
	if err != nil {
		return s.toHTTPError(c, err, "failed to list activities")
	}
	return c.JSON(http.StatusOK, nonNil(items))
}

func (s *Server) activityStats(c echo.Context) error {
	target, err := helpers.GetTargetUserFromContext(c)
	if err != nil {
		return err
	}
	day, err := helpers.ParseDate(c.Param("date"), "date")
	if err != nil {
		return err
	}
	stats, err := s.activitySvc.Stats(c.Request().Context(), target.ID, day)
	if err != nil {
		return s.toHTTPError(c, err, "failed to compute activity stats")
	}
	return c.JSON(http.StatusOK, stats)
}

func (s *Server) listRecentActivities(c echo.Context) error {
	target, err := helpers.GetTargetUserFromContext(c)
	if err != nil {
		return err
	}
	hours, err := helpers.QueryInt(c, "hours", 24, 1, 168)
	if err != nil {
		return err
	}
	items, err := s.activitySvc.ListRecent(c.Request().Context(), target.ID, hours)
	if err != nil {
		return s.toHTTPError(c, err, "failed to list activities")
	}
	return c.JSON(http.StatusOK, nonNil(items))
}
