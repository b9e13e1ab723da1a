package httpserver

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/avatarctic/user-management-service/internal/core/domain/report"
	"github.com/avatarctic/user-management-service/internal/core/domain/user"
	"github.com/avatarctic/user-management-service/internal/infrastructure/httpserver/helpers"
)

// listUsers pages over users. countries may be repeated or comma separated.
func (s *Server) listUsers(c echo.Context) error {
	skip, limit, err := helpers.Pagination(c, 100)
	if err != nil {
		return err
	}
	var countries []string
	for _, raw := range c.QueryParams()["countries"] {
		for _, part := range strings.Split(raw, ",") {
			if p := strings.TrimSpace(part); p != "" {
				countries = append(countries, p)
			}
		}
	}

	users, err := s.userService.ListUsers(c.Request().Context(), user.ListQuery{Countries: countries, Skip: skip, Limit: limit})
	if err != nil {
		return s.toHTTPError(c, err, "failed to list users")
	}
	return c.JSON(http.StatusOK, user.PublicList(users))
}

func (s *Server) listUsersCreatedToday(c echo.Context) error {
	users, err := s.userService.ListCreatedToday(c.Request().Context())
	if err != nil {
		return s.toHTTPError(c, err, "failed to list users")
	}
	return c.JSON(http.StatusOK, user.PublicList(users))
}

func (s *Server) listUsersByDateRange(c echo.Context) error {
	start, err := helpers.ParseDate(c.QueryParam("start_date"), "start_date")
	if err != nil {
		return err
	}
	end, err := helpers.ParseDate(c.QueryParam("end_date"), "end_date")
	if err != nil {
		return err
	}

	users, err := s.userService.ListCreatedBetween(c.Request().Context(), report.StartOfDay(start), report.EndOfDay(end))
	if err != nil {
		return s.toHTTPError(c, err, "failed to list users")
	}
	return c.JSON(http.StatusOK, user.PublicList(users))
}

func (s *Server) getUser(c echo.Context) error {
	id, err := helpers.ParseIDParam(c, "id")
	if err != nil {
		return err
	}
	u, err := s.userService.GetUser(c.Request().Context(), id)
	if err != nil {
		return s.toHTTPError(c, err, "failed to get user")
	}
	return c.JSON(http.StatusOK, u.Public())
}

func (s *Server) getUserStatistics(c echo.Context) error {
	id, err := helpers.ParseIDParam(c, "id")
	if err != nil {
		return err
	}
	stats, err := s.userService.Statistics(c.Request().Context(), id)
	if err != nil {
		return s.toHTTPError(c, err, "failed to compute user statistics")
	}
	return c.JSON(http.StatusOK, stats)
}

// updateUser runs behind RequireUserAction, which has already loaded and authorized the target.
func (s *Server) updateUser(c echo.Context) error {
	target, err := helpers.GetTargetUserFromContext(c)
	if err != nil {
		return err
	}
	var req user.UpdateUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	updated, err := s.userService.UpdateUser(c.Request().Context(), target.ID, &req)
	if err != nil {
		return s.toHTTPError(c, err, "failed to update user")
	}
	return c.JSON(http.StatusOK, updated.Public())
}

func (s *Server) deleteUser(c echo.Context) error {
	id, err := helpers.ParseIDParam(c, "id")
	if err != nil {
		return err
	}
	deleted, err := s.userService.DeleteUser(c.Request().Context(), id)
	if err != nil {
		return s.toHTTPError(c, err, "failed to delete user")
	}
	return c.JSON(http.StatusOK, deleted.Public())
}
