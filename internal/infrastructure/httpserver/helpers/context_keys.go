package helpers

import (
	"github.com/labstack/echo/v4"

	"github.com/avatarctic/user-management-service/internal/core/domain/user"
)

type ctxKey string

const (
	keyCurrentUser ctxKey = "current_user"
	keyTargetUser  ctxKey = "target_user"
)

func SetCurrentUser(c echo.Context, u *user.User) { c.Set(string(keyCurrentUser), u) }
func GetCurrentUserRaw(c echo.Context) (*user.User, bool) {
	v := c.Get(string(keyCurrentUser))
	u, ok := v.(*user.User)
	return u, ok
}

func SetTargetUser(c echo.Context, u *user.User) { c.Set(string(keyTargetUser), u) }
func GetTargetUserRaw(c echo.Context) (*user.User, bool) {
	v := c.Get(string(keyTargetUser))
	u, ok := v.(*user.User)
	return u, ok
}
