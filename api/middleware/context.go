package middleware

import (
	"github.com/dotdotgod/boilerplate/internal/entity"

	"github.com/labstack/echo/v4"
)

const (
	contextUserKey         = "auth_user"
	contextRefreshTokenKey = "auth_refresh_token"
)

func SetAuthUser(c echo.Context, user *entity.User) {
	c.Set(contextUserKey, user)
}

func AuthUserFromContext(c echo.Context) (*entity.User, bool) {
	user, ok := c.Get(contextUserKey).(*entity.User)
	return user, ok && user != nil
}

func SetRefreshToken(c echo.Context, token string) {
	c.Set(contextRefreshTokenKey, token)
}

func RefreshTokenFromContext(c echo.Context) (string, bool) {
	token, ok := c.Get(contextRefreshTokenKey).(string)
	return token, ok && token != ""
}
