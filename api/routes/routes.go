package routes

import (
	"strings"
	"time"

	"github.com/dotdotgod/boilerplate/api/handler"
	"github.com/dotdotgod/boilerplate/api/middleware"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

const agentStreamPath = "/v1/ai-agent/stream"

type Router struct {
	Echo           *echo.Echo
	User           *handler.UserHandler
	Agent          *handler.AgentHandler
	AuthMiddleware middleware.AuthMiddleware
	CSRF           *middleware.CSRFGuard
	AuthRate       *middleware.RateLimiter
	SignInRate     *middleware.RateLimiter
}

func NewRouter(
	e *echo.Echo,
	userHandler *handler.UserHandler,
	agentHandler *handler.AgentHandler,
	authMiddleware middleware.AuthMiddleware,
	csrf *middleware.CSRFGuard,
) *Router {
	csrf.Skipper = func(c echo.Context) bool {
		return strings.HasPrefix(c.Path(), agentStreamPath)
	}
	return &Router{
		Echo:           e,
		User:           userHandler,
		Agent:          agentHandler,
		AuthMiddleware: authMiddleware,
		CSRF:           csrf,
		AuthRate:       middleware.NewRateLimiter(rate.Limit(5), 10, 5*time.Minute),
		SignInRate:     middleware.NewRateLimiter(rate.Limit(2), 4, 10*time.Minute),
	}
}

func (r *Router) RegisterRoutes() {
	e := r.Echo
	e.Use(r.CSRF.Middleware())

	user := e.Group("/v1/user")
	user.POST("/sign-in", r.User.SignIn, r.SignInRate.Middleware())
	user.POST("/google", r.User.GoogleAuth, r.SignInRate.Middleware())
	user.POST("/refresh", r.User.Refresh, r.AuthRate.Middleware(), r.AuthMiddleware.RequireRefresh)
	user.POST("/logout", r.User.Logout)
	user.POST("/register-email", r.User.RegisterEmail, r.AuthRate.Middleware())
	user.POST("/get-registration-info", r.User.GetRegistrationInfo, r.AuthRate.Middleware())
	user.POST("/complete-registration", r.User.CompleteRegistration, r.AuthRate.Middleware())
	user.POST("/verify-email", r.User.VerifyEmail, r.AuthRate.Middleware())
	user.POST("/resend-verification", r.User.ResendVerification, r.AuthRate.Middleware())
	user.POST("/reset-password", r.User.ResetPassword, r.SignInRate.Middleware())
	user.POST("/verify-reset-token", r.User.VerifyResetToken, r.AuthRate.Middleware())
	user.POST("/confirm-reset-password", r.User.ConfirmResetPassword, r.AuthRate.Middleware())
	user.GET("/me", r.User.Me, r.AuthMiddleware.RequireAccess)

	e.POST(agentStreamPath, r.Agent.StreamChat, r.AuthMiddleware.RequireAccess)
}
