package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/avatarctic/user-management-service/internal/core/domain/project"
	"github.com/avatarctic/user-management-service/internal/core/domain/user"
)

var domainErrors = []struct {
	err     error
	status  int
	message string
}{
	{user.ErrUserNotFound, http.StatusNotFound, "User not found"},
	{user.ErrEmailAlreadyRegistered, http.StatusBadRequest, "Email already registered"},
	{user.ErrEmailExists, http.StatusBadRequest, "Email already exists"},
	{user.ErrInactiveUser, http.StatusBadRequest, "Inactive user"},
	{user.ErrInvalidCredentials, http.StatusUnauthorized, "Incorrect email or password"},
	{project.ErrProjectNotFound, http.StatusNotFound, "Project not found"},
	{project.ErrProjectNameTaken, http.StatusBadRequest, "Project name already exists"},
	{project.ErrAlreadyMember, http.StatusBadRequest, "User is already a member of this project"},
	{project.ErrNotMember, http.StatusBadRequest, "User is not a member of this project"},
	{project.ErrCannotRemoveOwner, http.StatusBadRequest, "Cannot remove project owner"},
}

// toHTTPError maps domain sentinels to their API status and message.
// Anything else is a 500 that keeps the cause as the internal error.
func (s *Server) toHTTPError(c echo.Context, err error, fallback string) error {
	for _, d := range domainErrors {
		if errors.Is(err, d.err) {
			if d.status == http.StatusUnauthorized {
				c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
			}
			return echo.NewHTTPError(d.status, d.message)
		}
	}
	if s.logger != nil {
		s.logger.WithError(err).WithField("path", c.Path()).Error(fallback)
	}
	return echo.NewHTTPError(http.StatusInternalServerError, fallback).SetInternal(err)
}

func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "invalid request body")
	}
	return c.Validate(req)
}
