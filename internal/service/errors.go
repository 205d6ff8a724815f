package service

import "errors"

var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrNotVerified         = errors.New("please verify your email address before signing in")
	ErrEmailTaken          = errors.New("user with this email already exists")
	ErrInvalidToken        = errors.New("invalid token")
	ErrTokenExpired        = errors.New("token has expired")
	ErrAlreadyVerified     = errors.New("email is already verified")
	ErrUserNotFound        = errors.New("user not found")
	ErrOAuthExchangeFailed = errors.New("oauth token exchange failed")
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")
)
