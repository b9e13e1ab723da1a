package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func (s *Server) root(c echo.Context) error {
	prefix := s.config.APIPrefix
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Welcome to " + s.config.ProjectName,
		"docs":    "/docs",
		"version": "1.0",
		"api_endpoints": map[string]string{
			"auth":       prefix + "/auth",
			"users":      prefix + "/users",
			"activities": prefix + "/users/{user_id}/activities",
			"projects":   prefix + "/projects",
			"admin":      prefix + "/admin/reports",
		},
	})
}
