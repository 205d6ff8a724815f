package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/dotdotgod/boilerplate/api/middleware"
	"github.com/dotdotgod/boilerplate/internal/dto"
	"github.com/dotdotgod/boilerplate/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type UserHandler struct {
	Service       *service.AuthService
	Validate      *validator.Validate
	CookieDomain  string
	SecureCookies bool
	RefreshMaxAge time.Duration
}

func NewUserHandler(svc *service.AuthService, validate *validator.Validate) *UserHandler {
	return &UserHandler{
		Service:       svc,
		Validate:      validate,
		SecureCookies: true,
		RefreshMaxAge: 7 * 24 * time.Hour,
	}
}

func (h *UserHandler) SignIn(c echo.Context) error {
	var req dto.SignInRequest
	if err := h.bind(c, &req); err != nil {
		return err
	}
	user, pair, err := h.Service.SignInPassword(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return writeServiceError(c, err)
	}
	h.setRefreshCookie(c, pair.RefreshToken)
	return c.JSON(http.StatusOK, dto.SignInResponse{
		Message:     "Sign in successful",
		User:        dto.UserResponseFromEntity(user),
		AccessToken: pair.AccessToken,
	})
}

func (h *UserHandler) GoogleAuth(c echo.Context) error {
	var req dto.GoogleAuthRequest
	if err := h.bind(c, &req); err != nil {
		return err
	}
	user, pair, err := h.Service.SignInGoogle(c.Request().Context(), req.AccessToken)
	if err != nil {
		return writeServiceError(c, err)
	}
	h.setRefreshCookie(c, pair.RefreshToken)
	return c.JSON(http.StatusOK, dto.SignInResponse{
		Message:     "Authentication successful",
		User:        dto.UserResponseFromEntity(user),
		AccessToken: pair.AccessToken,
	})
}

// Refresh runs behind the refresh guard, which already verified the cookie's
// signature and resolved the user; rotation against the whitelist happens in
// the service.
func (h *UserHandler) Refresh(c echo.Context) error {
	user, ok := middleware.AuthUserFromContext(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	refreshToken, ok := middleware.RefreshTokenFromContext(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing refresh token")
	}
	pair, err := h.Service.Refresh(c.Request().Context(), user, refreshToken)
	if err != nil {
		return writeServiceError(c, err)
	}
	h.setRefreshCookie(c, pair.RefreshToken)
	return c.JSON(http.StatusOK, dto.RefreshResponse{
		Message:     "Token refreshed successfully",
		AccessToken: pair.AccessToken,
	})
}

// Logout always reports success; revocation inside the service is
// best-effort.
func (h *UserHandler) Logout(c echo.Context) error {
	if cookie, err := c.Cookie(middleware.RefreshCookieName); err == nil {
		h.Service.Logout(c.Request().Context(), cookie.Value)
	}
	h.clearRefreshCookie(c)
	return c.JSON(http.StatusOK, dto.MessageResponse{Message: "Logged out successfully"})
}

func (h *UserHandler) RegisterEmail(c echo.Context) error {
	var req dto.RegisterEmailRequest
	if err := h.bind(c, &req); err != nil {
		return err
	}
	if err := h.Service.RegisterEmail(c.Request().Context(), req.Email); err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.SuccessResponse{
		Message: "Registration email sent. Please check your email to complete registration.",
		Success: true,
	})
}

func (h *UserHandler) GetRegistrationInfo(c echo.Context) error {
	var req dto.GetRegistrationInfoRequest
	if err := h.bind(c, &req); err != nil {
		return err
	}
	email, err := h.Service.GetRegistrationInfo(c.Request().Context(), req.Token)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.RegistrationInfoResponse{Email: email, Success: true})
}

func (h *UserHandler) CompleteRegistration(c echo.Context) error {
	var req dto.CompleteRegistrationRequest
	if err := h.bind(c, &req); err != nil {
		return err
	}
	user, pair, err := h.Service.CompleteRegistration(c.Request().Context(), req.Token, req.Name, req.Password)
	if err != nil {
		return writeServiceError(c, err)
	}
	h.setRefreshCookie(c, pair.RefreshToken)
	return c.JSON(http.StatusOK, dto.SignInResponse{
		Message:     "Registration completed successfully",
		User:        dto.UserResponseFromEntity(user),
		AccessToken: pair.AccessToken,
	})
}

func (h *UserHandler) VerifyEmail(c echo.Context) error {
	var req dto.VerifyEmailRequest
	if err := h.bind(c, &req); err != nil {
		return err
	}
	if err := h.Service.VerifyEmail(c.Request().Context(), req.Token); err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.SuccessResponse{Message: "Email verified successfully", Success: true})
}

func (h *UserHandler) ResendVerification(c echo.Context) error {
	var req dto.ResendVerificationRequest
	if err := h.bind(c, &req); err != nil {
		return err
	}
	if err := h.Service.ResendVerification(c.Request().Context(), req.Email); err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.SuccessResponse{Message: "Verification email sent successfully", Success: true})
}

func (h *UserHandler) ResetPassword(c echo.Context) error {
	var req dto.ResetPasswordRequest
	if err := h.bind(c, &req); err != nil {
		return err
	}
	if err := h.Service.RequestPasswordReset(c.Request().Context(), req.Email); err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.SuccessResponse{Message: "Password reset email sent successfully", Success: true})
}

func (h *UserHandler) VerifyResetToken(c echo.Context) error {
	var req dto.VerifyResetTokenRequest
	if err := h.bind(c, &req); err != nil {
		return err
	}
	email, err := h.Service.VerifyResetToken(c.Request().Context(), req.Token)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.ResetTokenInfoResponse{Email: email, Success: true})
}

func (h *UserHandler) ConfirmResetPassword(c echo.Context) error {
	var req dto.ConfirmResetPasswordRequest
	if err := h.bind(c, &req); err != nil {
		return err
	}
	if err := h.Service.ConfirmPasswordReset(c.Request().Context(), req.Token, req.Password); err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.SuccessResponse{Message: "Password reset successfully", Success: true})
}

func (h *UserHandler) Me(c echo.Context) error {
	user, ok := middleware.AuthUserFromContext(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	return c.JSON(http.StatusOK, dto.UserResponseFromEntity(user))
}

func (h *UserHandler) bind(c echo.Context, target any) error {
	decoder := json.NewDecoder(c.Request().Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(target); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if h.Validate != nil {
		if err := h.Validate.Struct(target); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
	}
	return nil
}

func (h *UserHandler) setRefreshCookie(c echo.Context, token string) {
	if token == "" {
		return
	}
	maxAge := h.RefreshMaxAge
	if maxAge == 0 {
		maxAge = 7 * 24 * time.Hour
	}
	c.SetCookie(&http.Cookie{
		Name:     middleware.RefreshCookieName,
		Value:    token,
		Path:     "/",
		Domain:   h.CookieDomain,
		MaxAge:   int(maxAge.Seconds()),
		Expires:  time.Now().Add(maxAge),
		HttpOnly: true,
		Secure:   h.SecureCookies,
		SameSite: http.SameSiteStrictMode,
	})
}

func (h *UserHandler) clearRefreshCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     middleware.RefreshCookieName,
		Value:    "",
		Path:     "/",
		Domain:   h.CookieDomain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.SecureCookies,
		SameSite: http.SameSiteStrictMode,
	})
}

func writeServiceError(c echo.Context, err error) error {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrInvalidToken),
		errors.Is(err, service.ErrTokenExpired),
		errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrAlreadyVerified),
		errors.Is(err, service.ErrNotVerified):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrOAuthExchangeFailed),
		errors.Is(err, service.ErrInvalidRefreshToken):
		status = http.StatusUnauthorized
	case errors.Is(err, service.ErrUserNotFound):
		status = http.StatusNotFound
	}
	return c.JSON(status, dto.MessageResponse{Message: err.Error()})
}
