package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/avatarctic/user-management-service/internal/core/ports"
	"github.com/avatarctic/user-management-service/internal/infrastructure/httpserver/helpers"
)

type AccessControlMiddleware struct {
	accessControl ports.AccessControlService
}

func NewAccessControlMiddleware(accessControl ports.AccessControlService) *AccessControlMiddleware {
	return &AccessControlMiddleware{accessControl: accessControl}
}

// RequireUserAction authorizes action on the user named by the param path
// parameter and preloads that user for the handler.
func (m *AccessControlMiddleware) RequireUserAction(param string, action ports.AccessAction) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			targetID, err := helpers.ParseIDParam(c, param)
			if err != nil {
				return err
			}
			actor, err := helpers.GetCurrentUserFromContext(c)
			if err != nil {
				return err
			}

			target, err := m.accessControl.CanActOnUser(c.Request().Context(), actor, targetID, action)
			if err != nil {
				return m.mapAccessControlError(err)
			}
			helpers.SetTargetUser(c, target)
			return next(c)
		}
	}
}

// RequireProjectAction authorizes action on the project named by the project_id path parameter.
func (m *AccessControlMiddleware) RequireProjectAction(action ports.AccessAction) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			projectID, err := helpers.ParseIDParam(c, "project_id")
			if err != nil {
				return err
			}
			actor, err := helpers.GetCurrentUserFromContext(c)
			if err != nil {
				return err
			}
			if err := m.accessControl.CanActOnProject(c.Request().Context(), actor, projectID, action); err != nil {
				return m.mapAccessControlError(err)
			}
			return next(c)
		}
	}
}

// mapAccessControlError converts AccessControlError into appropriate HTTP errors.
func (m *AccessControlMiddleware) mapAccessControlError(err error) error {
	var ace ports.AccessControlError
	if errors.As(err, &ace) {
		switch ace.Code() {
		case ports.ACCodeNotFound:
			return echo.NewHTTPError(http.StatusNotFound, ace.Message())
		case ports.ACCodeForbidden:
			return echo.NewHTTPError(http.StatusForbidden, ace.Message())
		default:
			return echo.NewHTTPError(http.StatusForbidden, ace.Message())
		}
	}
	return echo.NewHTTPError(http.StatusInternalServerError, "failed to authorize request").SetInternal(err)
}
