package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/avatarctic/user-management-service/internal/core/domain/user"
	"github.com/avatarctic/user-management-service/internal/core/ports"
	"github.com/avatarctic/user-management-service/internal/infrastructure/httpserver/helpers"
)

type JWTMiddleware struct {
	authService ports.AuthService
	logger      *logrus.Logger
}

func NewJWTMiddleware(authService ports.AuthService, logger *logrus.Logger) *JWTMiddleware {
	return &JWTMiddleware{authService: authService, logger: logger}
}

// RequireJWT validates the bearer token and sets the current user on the context
func (m *JWTMiddleware) RequireJWT() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tokenString, err := helpers.GetJWTTokenFromContext(c)
			if err != nil {
				c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
				return err
			}

			claims, err := m.authService.ValidateToken(tokenString)
			if err != nil {
				if m.logger != nil {
					m.logger.WithFields(logrus.Fields{"ip": c.RealIP(), "path": c.Request().URL.Path, "error": err.Error()}).Warn("JWT validation failed")
				}
				c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
				return helpers.ErrCredentials
			}

			current, err := m.authService.ResolveUser(c.Request().Context(), claims)
			if err != nil {
				switch {
				case errors.Is(err, user.ErrUserNotFound):
					return echo.NewHTTPError(http.StatusNotFound, "User not found")
				case errors.Is(err, user.ErrInactiveUser):
					return echo.NewHTTPError(http.StatusBadRequest, "Inactive user")
				default:
					if m.logger != nil {
						m.logger.WithError(err).WithField("sub", claims.Subject).Error("failed to resolve token subject")
					}
					return echo.NewHTTPError(http.StatusInternalServerError, "failed to resolve user")
				}
			}
			helpers.SetCurrentUser(c, current)

			if m.logger != nil {
				m.logger.WithFields(logrus.Fields{"user_id": current.ID, "superuser": current.IsSuperuser}).Debug("jwt validated and user context set")
			}
			return next(c)
		}
	}
}

// RequireSuperuser must run after RequireJWT.
func (m *JWTMiddleware) RequireSuperuser() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			current, err := helpers.GetCurrentUserFromContext(c)
			if err != nil {
				return err
			}
			if !current.IsSuperuser {
				return echo.NewHTTPError(http.StatusForbidden, "The user doesn't have enough privileges")
			}
			return next(c)
		}
	}
}
