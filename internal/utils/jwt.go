package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// JWTManager signs and verifies the access/refresh token pair. The two token
// kinds use distinct secrets so possession of one cannot forge the other.
type JWTManager struct {
	AccessSecret  []byte
	RefreshSecret []byte
	Issuer        string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

type TokenClaims struct {
	UserUUID string `json:"user_uuid"`
	jwt.RegisteredClaims
}

func (m JWTManager) SignAccessToken(userUUID string) (string, error) {
	ttl := m.AccessTTL
	if ttl == 0 {
		ttl = 15 * time.Minute
	}
	return m.sign(userUUID, m.AccessSecret, ttl)
}

func (m JWTManager) SignRefreshToken(userUUID string) (string, error) {
	ttl := m.RefreshTTL
	if ttl == 0 {
		ttl = 7 * 24 * time.Hour
	}
	return m.sign(userUUID, m.RefreshSecret, ttl)
}

func (m JWTManager) ParseAccessToken(token string) (*TokenClaims, error) {
	return m.parse(token, m.AccessSecret)
}

func (m JWTManager) ParseRefreshToken(token string) (*TokenClaims, error) {
	return m.parse(token, m.RefreshSecret)
}

func (m JWTManager) sign(userUUID string, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := TokenClaims{
		UserUUID: userUUID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.Issuer,
			Subject:   userUUID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

func (m JWTManager) parse(tokenString string, secret []byte) (*TokenClaims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &TokenClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*TokenClaims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
