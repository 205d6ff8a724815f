package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/alexedwards/argon2id"
)

type AuthConfig struct {
	AccessTokenTTL       time.Duration
	RefreshTokenTTL      time.Duration
	RegistrationTokenTTL time.Duration
	VerificationTokenTTL time.Duration
	ResetTokenTTL        time.Duration
}

type Mailer interface {
	SendRegistrationEmail(ctx context.Context, email string, token string) error
	SendVerificationEmail(ctx context.Context, email string, name string, token string) error
	SendPasswordResetEmail(ctx context.Context, email string, name string, token string) error
	SendWelcomeEmail(ctx context.Context, email string, name string) error
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hash string, password string) bool
}

// OAuthUserInfo is the provider's view of the authenticated user. Raw carries
// the unmodified userinfo response for auditing.
type OAuthUserInfo struct {
	ProviderID string
	Email      string
	Name       string
	Picture    string
	Raw        json.RawMessage
}

type OAuthProvider interface {
	FetchUserInfo(ctx context.Context, accessToken string) (*OAuthUserInfo, error)
}

type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func (RealClock) Now() time.Time {
	return time.Now()
}

// Argon2idHasher hashes passwords with argon2id, salt and parameters encoded
// in the digest by the library.
type Argon2idHasher struct {
	Params *argon2id.Params
}

func (h Argon2idHasher) Hash(password string) (string, error) {
	params := h.Params
	if params == nil {
		params = argon2id.DefaultParams
	}
	return argon2id.CreateHash(password, params)
}

func (h Argon2idHasher) Verify(hash string, password string) bool {
	match, err := argon2id.ComparePasswordAndHash(password, hash)
	return err == nil && match
}
