package middleware

import (
	"net/http"
	"strings"

	"github.com/dotdotgod/boilerplate/internal/entity"
	"github.com/dotdotgod/boilerplate/internal/repository"
	"github.com/dotdotgod/boilerplate/internal/utils"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const RefreshCookieName = "refresh_token"

// AuthMiddleware resolves the request's user from a signed token before the
// handler runs: RequireAccess from the Authorization header, RequireRefresh
// from the refresh cookie. Both reject with 401 when the signature, expiry,
// or user lookup fails.
type AuthMiddleware struct {
	JWT   utils.JWTManager
	Users repository.UserRepository
}

func (m AuthMiddleware) RequireAccess(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token := extractBearerToken(c.Request())
		if token == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
		}
		claims, err := m.JWT.ParseAccessToken(token)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
		}
		user, err := m.resolveUser(c, claims.UserUUID)
		if err != nil {
			return err
		}
		SetAuthUser(c, user)
		return next(c)
	}
}

func (m AuthMiddleware) RequireRefresh(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		cookie, err := c.Cookie(RefreshCookieName)
		if err != nil || cookie.Value == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing refresh token")
		}
		claims, err := m.JWT.ParseRefreshToken(cookie.Value)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
		}
		user, err := m.resolveUser(c, claims.UserUUID)
		if err != nil {
			return err
		}
		SetAuthUser(c, user)
		SetRefreshToken(c, cookie.Value)
		return next(c)
	}
}

func (m AuthMiddleware) resolveUser(c echo.Context, rawUUID string) (*entity.User, error) {
	userUUID, err := uuid.Parse(rawUUID)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	user, err := m.Users.FindByUUID(c.Request().Context(), userUUID)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	if user == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	return user, nil
}

func extractBearerToken(r *http.Request) string {
	authorization := r.Header.Get("Authorization")
	if authorization == "" {
		return ""
	}
	parts := strings.SplitN(authorization, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
