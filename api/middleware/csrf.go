package middleware

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/dotdotgod/boilerplate/internal/utils"

	"github.com/labstack/echo/v4"
)

// CSRFGuard implements the double-submit-cookie check. Safe methods always
// pass. For unsafe methods a client without the cookie gets one minted and
// the current request rejected; once the cookie exists its value must be
// echoed back in the header. The cookie is deliberately not httpOnly so the
// frontend can read it, unlike the refresh-token cookie.
type CSRFGuard struct {
	CookieName   string
	HeaderName   string
	CookieMaxAge time.Duration
	CookieDomain string
	Secure       bool
	// Skipper exempts bearer-only routes such as the streaming endpoint.
	Skipper func(echo.Context) bool
}

func NewCSRFGuard(secure bool, cookieDomain string) *CSRFGuard {
	return &CSRFGuard{
		CookieName:   "csrf_token",
		HeaderName:   "X-CSRF-Token",
		CookieMaxAge: 24 * time.Hour,
		CookieDomain: cookieDomain,
		Secure:       secure,
	}
}

func (g *CSRFGuard) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if g.Skipper != nil && g.Skipper(c) {
				return next(c)
			}

			switch c.Request().Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				return next(c)
			}

			cookie, err := c.Cookie(g.CookieName)
			if err != nil || cookie.Value == "" {
				token, err := utils.GenerateRandomToken(32)
				if err != nil {
					return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
				}
				g.setCookie(c, token)
				// The first mutating request from a fresh client always
				// fails; it retries with the cookie it just received.
				return echo.NewHTTPError(http.StatusForbidden, "csrf token missing, please retry the request")
			}

			header := c.Request().Header.Get(g.HeaderName)
			if header == "" {
				return echo.NewHTTPError(http.StatusForbidden, "csrf token header missing")
			}
			if subtle.ConstantTimeCompare([]byte(cookie.Value), []byte(header)) != 1 {
				return echo.NewHTTPError(http.StatusForbidden, "invalid csrf token")
			}
			return next(c)
		}
	}
}

func (g *CSRFGuard) setCookie(c echo.Context, token string) {
	c.SetCookie(&http.Cookie{
		Name:     g.CookieName,
		Value:    token,
		Path:     "/",
		Domain:   g.CookieDomain,
		MaxAge:   int(g.CookieMaxAge.Seconds()),
		HttpOnly: false,
		Secure:   g.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}
