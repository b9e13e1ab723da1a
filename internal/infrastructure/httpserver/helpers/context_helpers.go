package helpers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/avatarctic/user-management-service/internal/core/domain/user"
)

// DateLayout is the wire format of date path and query parameters.
const DateLayout = "2006-01-02"

// ErrCredentials is returned for any token problem so callers cannot tell them apart.
var ErrCredentials = &echo.HTTPError{Code: http.StatusUnauthorized, Message: "Could not validate credentials"}

func GetJWTTokenFromContext(c echo.Context) (string, error) {
	authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
	if authHeader == "" {
		return "", ErrCredentials
	}
	scheme, token, ok := strings.Cut(authHeader, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", ErrCredentials
	}
	return strings.TrimSpace(token), nil
}

// GetCurrentUserFromContext returns the acting user set by JWT middleware
func GetCurrentUserFromContext(c echo.Context) (*user.User, error) {
	u, ok := GetCurrentUserRaw(c)
	if !ok || u == nil {
		return nil, ErrCredentials
	}
	return u, nil
}

// GetTargetUserFromContext returns the target user preloaded by access control middleware
func GetTargetUserFromContext(c echo.Context) (*user.User, error) {
	tu, ok := GetTargetUserRaw(c)
	if !ok || tu == nil {
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "target user not available in context")
	}
	return tu, nil
}

// ParseIDParam reads a positive integer path parameter.
func ParseIDParam(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusUnprocessableEntity, "invalid "+name)
	}
	return id, nil
}

// QueryInt reads an optional integer query parameter and checks it lies in [min, max].
// max <= 0 means unbounded.
func QueryInt(c echo.Context, name string, def, min, max int) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < min || (max > 0 && v > max) {
		return 0, echo.NewHTTPError(http.StatusUnprocessableEntity, "invalid "+name)
	}
	return v, nil
}

// QueryBool reads an optional boolean query parameter; nil when absent.
func QueryBool(c echo.Context, name string) (*bool, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusUnprocessableEntity, "invalid "+name)
	}
	return &b, nil
}

// ParseDate parses a YYYY-MM-DD value in the server's local zone.
func ParseDate(raw, name string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, echo.NewHTTPError(http.StatusUnprocessableEntity, name+" is required")
	}
	d, err := time.ParseInLocation(DateLayout, raw, time.Local)
	if err != nil {
		return time.Time{}, echo.NewHTTPError(http.StatusUnprocessableEntity, "invalid "+name)
	}
	return d, nil
}

// Pagination reads skip and limit with the given limit ceiling.
func Pagination(c echo.Context, maxLimit int) (skip, limit int, err error) {
	if skip, err = QueryInt(c, "skip", 0, 0, 0); err != nil {
		return 0, 0, err
	}
	if limit, err = QueryInt(c, "limit", 100, 1, maxLimit); err != nil {
		return 0, 0, err
	}
	return skip, limit, nil
}
