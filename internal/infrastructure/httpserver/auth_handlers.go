package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/avatarctic/user-management-service/internal/core/domain/auth"
	"github.com/avatarctic/user-management-service/internal/core/domain/user"
	"github.com/avatarctic/user-management-service/internal/infrastructure/httpserver/helpers"
)

func (s *Server) register(c echo.Context) error {
	var req user.CreateUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	created, err := s.userService.Register(c.Request().Context(), &req)
	if err != nil {
		return s.toHTTPError(c, err, "failed to register user")
	}
	return c.JSON(http.StatusCreated, created.Public())
}

// login accepts either an OAuth2 password form (username, password) or a JSON body (email, password).
func (s *Server) login(c echo.Context) error {
	var req auth.LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	token, err := s.authSvc.Login(c.Request().Context(), &req, c.RealIP(), c.Request().UserAgent())
	if err != nil {
		return s.toHTTPError(c, err, "failed to log in")
	}
	return c.JSON(http.StatusOK, token)
}

// me serves both GET /auth/me and POST /auth/test-token.
func (s *Server) me(c echo.Context) error {
	current, err := helpers.GetCurrentUserFromContext(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, current.Public())
}
