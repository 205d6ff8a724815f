package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dotdotgod/boilerplate/internal/entity"
	"github.com/dotdotgod/boilerplate/internal/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserRepo struct {
	users  map[uint]*entity.User
	nextID uint
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uint]*entity.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, user *entity.User) error {
	r.nextID++
	user.ID = r.nextID
	if user.UUID == uuid.Nil {
		user.UUID = uuid.New()
	}
	user.CreatedAt = time.Now()
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uint) (*entity.User, error) {
	if user, ok := r.users[id]; ok {
		copied := *user
		return &copied, nil
	}
	return nil, nil
}

func (r *fakeUserRepo) FindByUUID(_ context.Context, userUUID uuid.UUID) (*entity.User, error) {
	for _, user := range r.users {
		if user.UUID == userUUID {
			copied := *user
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *entity.User) error {
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) MarkVerified(_ context.Context, userID uint, at time.Time) error {
	user, ok := r.users[userID]
	if !ok {
		return errors.New("no such user")
	}
	user.IsVerified = true
	user.VerifiedAt = &at
	return nil
}

func (r *fakeUserRepo) UpdatePassword(_ context.Context, userID uint, hash string) error {
	user, ok := r.users[userID]
	if !ok {
		return errors.New("no such user")
	}
	user.Password = &hash
	return nil
}

type fakeOAuthRepo struct {
	accounts []*entity.OAuthAccount
}

func (r *fakeOAuthRepo) Create(_ context.Context, account *entity.OAuthAccount) error {
	account.ID = uint(len(r.accounts) + 1)
	r.accounts = append(r.accounts, account)
	return nil
}

func (r *fakeOAuthRepo) FindByProvider(
	_ context.Context,
	provider entity.OAuthProvider,
	providerID string,
) (*entity.OAuthAccount, error) {
	for _, account := range r.accounts {
		if account.Provider == provider && account.ProviderID == providerID {
			return account, nil
		}
	}
	return nil, nil
}

type fakeRefreshRepo struct {
	rows   map[uint]*entity.RefreshToken
	nextID uint
}

func newFakeRefreshRepo() *fakeRefreshRepo {
	return &fakeRefreshRepo{rows: map[uint]*entity.RefreshToken{}}
}

func (r *fakeRefreshRepo) Create(_ context.Context, token *entity.RefreshToken) error {
	r.nextID++
	token.ID = r.nextID
	copied := *token
	r.rows[token.ID] = &copied
	return nil
}

func (r *fakeRefreshRepo) FindByHash(_ context.Context, userID uint, tokenHash string) (*entity.RefreshToken, error) {
	for _, row := range r.rows {
		if row.UserID == userID && row.TokenHash == tokenHash {
			copied := *row
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeRefreshRepo) Delete(_ context.Context, id uint) error {
	delete(r.rows, id)
	return nil
}

func (r *fakeRefreshRepo) DeleteByHash(_ context.Context, userID uint, tokenHash string) error {
	for id, row := range r.rows {
		if row.UserID == userID && row.TokenHash == tokenHash {
			delete(r.rows, id)
		}
	}
	return nil
}

func (r *fakeRefreshRepo) DeleteAllByUser(_ context.Context, userID uint) error {
	for id, row := range r.rows {
		if row.UserID == userID {
			delete(r.rows, id)
		}
	}
	return nil
}

func (r *fakeRefreshRepo) DeleteExpired(_ context.Context) error {
	now := time.Now()
	for id, row := range r.rows {
		if row.ExpiresAt.Before(now) {
			delete(r.rows, id)
		}
	}
	return nil
}

func (r *fakeRefreshRepo) countForUser(userID uint) int {
	count := 0
	for _, row := range r.rows {
		if row.UserID == userID {
			count++
		}
	}
	return count
}

type fakeVerificationRepo struct {
	rows   map[uint]*entity.EmailVerification
	nextID uint
}

func newFakeVerificationRepo() *fakeVerificationRepo {
	return &fakeVerificationRepo{rows: map[uint]*entity.EmailVerification{}}
}

func (r *fakeVerificationRepo) Create(_ context.Context, verification *entity.EmailVerification) error {
	r.nextID++
	verification.ID = r.nextID
	copied := *verification
	r.rows[verification.ID] = &copied
	return nil
}

func (r *fakeVerificationRepo) FindUnused(
	_ context.Context,
	token string,
	purpose entity.VerificationPurpose,
) (*entity.EmailVerification, error) {
	for _, row := range r.rows {
		if row.Token == token && row.Purpose == purpose && !row.IsUsed {
			copied := *row
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeVerificationRepo) MarkUsed(_ context.Context, id uint) error {
	row, ok := r.rows[id]
	if !ok {
		return errors.New("no such verification")
	}
	row.IsUsed = true
	return nil
}

func (r *fakeVerificationRepo) MarkUsedForUser(_ context.Context, id uint, userID uint) error {
	row, ok := r.rows[id]
	if !ok {
		return errors.New("no such verification")
	}
	row.IsUsed = true
	row.UserID = &userID
	return nil
}

func (r *fakeVerificationRepo) DeleteUnusedByUser(_ context.Context, userID uint, purpose entity.VerificationPurpose) error {
	for id, row := range r.rows {
		if row.UserID != nil && *row.UserID == userID && row.Purpose == purpose && !row.IsUsed {
			delete(r.rows, id)
		}
	}
	return nil
}

func (r *fakeVerificationRepo) DeleteUnusedByEmail(_ context.Context, email string, purpose entity.VerificationPurpose) error {
	for id, row := range r.rows {
		if row.Email == email && row.Purpose == purpose && !row.IsUsed {
			delete(r.rows, id)
		}
	}
	return nil
}

func (r *fakeVerificationRepo) DeleteExpired(_ context.Context) error {
	now := time.Now()
	for id, row := range r.rows {
		if row.ExpiresAt.Before(now) {
			delete(r.rows, id)
		}
	}
	return nil
}

func (r *fakeVerificationRepo) countUnused(purpose entity.VerificationPurpose) int {
	count := 0
	for _, row := range r.rows {
		if row.Purpose == purpose && !row.IsUsed {
			count++
		}
	}
	return count
}

type fakeMailer struct {
	registrationTokens []string
	verificationTokens []string
	resetTokens        []string
	welcomeCount       int
}

func (m *fakeMailer) SendRegistrationEmail(_ context.Context, _ string, token string) error {
	m.registrationTokens = append(m.registrationTokens, token)
	return nil
}

func (m *fakeMailer) SendVerificationEmail(_ context.Context, _ string, _ string, token string) error {
	m.verificationTokens = append(m.verificationTokens, token)
	return nil
}

func (m *fakeMailer) SendPasswordResetEmail(_ context.Context, _ string, _ string, token string) error {
	m.resetTokens = append(m.resetTokens, token)
	return nil
}

func (m *fakeMailer) SendWelcomeEmail(_ context.Context, _ string, _ string) error {
	m.welcomeCount++
	return nil
}

type fakeOAuthProvider struct {
	info *OAuthUserInfo
	err  error
}

func (p *fakeOAuthProvider) FetchUserInfo(_ context.Context, _ string) (*OAuthUserInfo, error) {
	return p.info, p.err
}

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) advance(d time.Duration) { c.now = c.now.Add(d) }

type authFixture struct {
	service       *AuthService
	users         *fakeUserRepo
	oauthAccounts *fakeOAuthRepo
	refreshTokens *fakeRefreshRepo
	verifications *fakeVerificationRepo
	mailer        *fakeMailer
	oauth         *fakeOAuthProvider
	clock         *fakeClock
	hasher        Argon2idHasher
}

func newAuthFixture() *authFixture {
	f := &authFixture{
		users:         newFakeUserRepo(),
		oauthAccounts: &fakeOAuthRepo{},
		refreshTokens: newFakeRefreshRepo(),
		verifications: newFakeVerificationRepo(),
		mailer:        &fakeMailer{},
		oauth:         &fakeOAuthProvider{},
		clock:         &fakeClock{now: time.Now()},
		hasher:        Argon2idHasher{},
	}
	f.service = NewAuthService(
		f.users,
		f.oauthAccounts,
		f.refreshTokens,
		f.verifications,
		f.mailer,
		f.oauth,
		f.hasher,
		utils.JWTManager{
			AccessSecret:  []byte("access-secret"),
			RefreshSecret: []byte("refresh-secret"),
			Issuer:        "test",
			AccessTTL:     15 * time.Minute,
			RefreshTTL:    7 * 24 * time.Hour,
		},
		f.clock,
		AuthConfig{
			RefreshTokenTTL:      7 * 24 * time.Hour,
			RegistrationTokenTTL: 30 * time.Minute,
			VerificationTokenTTL: 10 * time.Minute,
			ResetTokenTTL:        10 * time.Minute,
		},
		nil,
	)
	return f
}

func (f *authFixture) createVerifiedUser(t *testing.T, email string, password string) *entity.User {
	t.Helper()
	hash, err := f.hasher.Hash(password)
	require.NoError(t, err)
	now := f.clock.Now()
	user := &entity.User{
		Name:       "Test User",
		Email:      email,
		Password:   &hash,
		IsVerified: true,
		VerifiedAt: &now,
	}
	require.NoError(t, f.users.Create(context.Background(), user))
	return user
}

func TestSignInPassword(t *testing.T) {
	ctx := context.Background()

	t.Run("success returns token pair and whitelist row", func(t *testing.T) {
		f := newAuthFixture()
		f.createVerifiedUser(t, "a@x.com", "password123")

		user, pair, err := f.service.SignInPassword(ctx, "a@x.com", "password123")
		require.NoError(t, err)
		assert.Equal(t, "a@x.com", user.Email)
		assert.NotEmpty(t, pair.AccessToken)
		assert.NotEmpty(t, pair.RefreshToken)
		assert.Equal(t, 1, f.refreshTokens.countForUser(user.ID))
	})

	t.Run("wrong password fails without creating a session", func(t *testing.T) {
		f := newAuthFixture()
		user := f.createVerifiedUser(t, "a@x.com", "password123")

		_, _, err := f.service.SignInPassword(ctx, "a@x.com", "wrong-password")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
		assert.Equal(t, 0, f.refreshTokens.countForUser(user.ID))
	})

	t.Run("unknown email fails with the same error", func(t *testing.T) {
		f := newAuthFixture()
		_, _, err := f.service.SignInPassword(ctx, "nobody@x.com", "password123")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unverified user cannot sign in", func(t *testing.T) {
		f := newAuthFixture()
		hash, err := f.hasher.Hash("password123")
		require.NoError(t, err)
		user := &entity.User{Name: "U", Email: "u@x.com", Password: &hash}
		require.NoError(t, f.users.Create(ctx, user))

		_, _, err = f.service.SignInPassword(ctx, "u@x.com", "password123")
		assert.ErrorIs(t, err, ErrNotVerified)
		assert.Equal(t, 0, f.refreshTokens.countForUser(user.ID))
	})

	t.Run("email lookup is normalized", func(t *testing.T) {
		f := newAuthFixture()
		f.createVerifiedUser(t, "a@x.com", "password123")

		_, _, err := f.service.SignInPassword(ctx, "  A@X.COM ", "password123")
		assert.NoError(t, err)
	})
}

func TestRefreshRotation(t *testing.T) {
	ctx := context.Background()

	t.Run("refresh token is single use", func(t *testing.T) {
		f := newAuthFixture()
		user := f.createVerifiedUser(t, "a@x.com", "password123")
		pair, err := f.service.GenerateTokens(ctx, user)
		require.NoError(t, err)

		rotated, err := f.service.Refresh(ctx, user, pair.RefreshToken)
		require.NoError(t, err)
		assert.NotEqual(t, pair.RefreshToken, rotated.RefreshToken)

		_, err = f.service.Refresh(ctx, user, pair.RefreshToken)
		assert.ErrorIs(t, err, ErrInvalidRefreshToken)
	})

	t.Run("expired ledger row is deleted on check", func(t *testing.T) {
		f := newAuthFixture()
		user := f.createVerifiedUser(t, "a@x.com", "password123")
		pair, err := f.service.GenerateTokens(ctx, user)
		require.NoError(t, err)

		f.clock.advance(8 * 24 * time.Hour)
		_, err = f.service.Refresh(ctx, user, pair.RefreshToken)
		assert.ErrorIs(t, err, ErrInvalidRefreshToken)
		assert.Equal(t, 0, f.refreshTokens.countForUser(user.ID))
	})

	t.Run("logout revokes and a later refresh fails", func(t *testing.T) {
		f := newAuthFixture()
		user := f.createVerifiedUser(t, "a@x.com", "password123")
		pair, err := f.service.GenerateTokens(ctx, user)
		require.NoError(t, err)

		f.service.Logout(ctx, pair.RefreshToken)
		assert.Equal(t, 0, f.refreshTokens.countForUser(user.ID))

		_, err = f.service.Refresh(ctx, user, pair.RefreshToken)
		assert.ErrorIs(t, err, ErrInvalidRefreshToken)
	})

	t.Run("logout with garbage token is silent", func(t *testing.T) {
		f := newAuthFixture()
		f.service.Logout(ctx, "not-a-jwt")
	})

	t.Run("multi-device sessions coexist", func(t *testing.T) {
		f := newAuthFixture()
		user := f.createVerifiedUser(t, "a@x.com", "password123")
		first, err := f.service.GenerateTokens(ctx, user)
		require.NoError(t, err)
		_, err = f.service.GenerateTokens(ctx, user)
		require.NoError(t, err)
		assert.Equal(t, 2, f.refreshTokens.countForUser(user.ID))

		f.service.Logout(ctx, first.RefreshToken)
		assert.Equal(t, 1, f.refreshTokens.countForUser(user.ID))
	})
}

func TestEmailRegistration(t *testing.T) {
	ctx := context.Background()

	t.Run("full two-phase flow", func(t *testing.T) {
		f := newAuthFixture()
		require.NoError(t, f.service.RegisterEmail(ctx, "a@x.com"))
		require.Len(t, f.mailer.registrationTokens, 1)
		token := f.mailer.registrationTokens[0]

		email, err := f.service.GetRegistrationInfo(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, "a@x.com", email)

		user, pair, err := f.service.CompleteRegistration(ctx, token, "A", "password123")
		require.NoError(t, err)
		assert.True(t, user.IsVerified)
		assert.NotNil(t, user.VerifiedAt)
		assert.NotEmpty(t, pair.AccessToken)
		assert.Equal(t, 1, f.mailer.welcomeCount)

		signedIn, _, err := f.service.SignInPassword(ctx, "a@x.com", "password123")
		require.NoError(t, err)
		assert.Equal(t, user.ID, signedIn.ID)
	})

	t.Run("taken email is rejected in phase one", func(t *testing.T) {
		f := newAuthFixture()
		f.createVerifiedUser(t, "a@x.com", "password123")
		assert.ErrorIs(t, f.service.RegisterEmail(ctx, "a@x.com"), ErrEmailTaken)
		assert.Empty(t, f.mailer.registrationTokens)
	})

	t.Run("completion re-checks the email race", func(t *testing.T) {
		f := newAuthFixture()
		require.NoError(t, f.service.RegisterEmail(ctx, "a@x.com"))
		token := f.mailer.registrationTokens[0]

		f.createVerifiedUser(t, "a@x.com", "password123")
		_, _, err := f.service.CompleteRegistration(ctx, token, "A", "password123")
		assert.ErrorIs(t, err, ErrEmailTaken)
	})

	t.Run("used token is inert", func(t *testing.T) {
		f := newAuthFixture()
		require.NoError(t, f.service.RegisterEmail(ctx, "a@x.com"))
		token := f.mailer.registrationTokens[0]
		_, _, err := f.service.CompleteRegistration(ctx, token, "A", "password123")
		require.NoError(t, err)

		_, _, err = f.service.CompleteRegistration(ctx, token, "A", "password123")
		assert.ErrorIs(t, err, ErrInvalidToken)
		_, err = f.service.GetRegistrationInfo(ctx, token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired token is rejected", func(t *testing.T) {
		f := newAuthFixture()
		require.NoError(t, f.service.RegisterEmail(ctx, "a@x.com"))
		token := f.mailer.registrationTokens[0]

		f.clock.advance(31 * time.Minute)
		_, err := f.service.GetRegistrationInfo(ctx, token)
		assert.ErrorIs(t, err, ErrTokenExpired)
	})

	t.Run("new request supersedes the previous token", func(t *testing.T) {
		f := newAuthFixture()
		require.NoError(t, f.service.RegisterEmail(ctx, "a@x.com"))
		require.NoError(t, f.service.RegisterEmail(ctx, "a@x.com"))
		require.Len(t, f.mailer.registrationTokens, 2)
		assert.Equal(t, 1, f.verifications.countUnused(entity.PurposeRegistration))

		_, err := f.service.GetRegistrationInfo(ctx, f.mailer.registrationTokens[0])
		assert.ErrorIs(t, err, ErrInvalidToken)
		_, err = f.service.GetRegistrationInfo(ctx, f.mailer.registrationTokens[1])
		assert.NoError(t, err)
	})
}

func TestEmailVerification(t *testing.T) {
	ctx := context.Background()

	t.Run("resend then verify sets the flag", func(t *testing.T) {
		f := newAuthFixture()
		user := &entity.User{Name: "U", Email: "u@x.com"}
		require.NoError(t, f.users.Create(ctx, user))

		require.NoError(t, f.service.ResendVerification(ctx, "u@x.com"))
		require.Len(t, f.mailer.verificationTokens, 1)

		require.NoError(t, f.service.VerifyEmail(ctx, f.mailer.verificationTokens[0]))
		stored, err := f.users.FindByID(ctx, user.ID)
		require.NoError(t, err)
		assert.True(t, stored.IsVerified)
		assert.NotNil(t, stored.VerifiedAt)

		// Second use of the consumed token fails.
		assert.ErrorIs(t, f.service.VerifyEmail(ctx, f.mailer.verificationTokens[0]), ErrInvalidToken)
	})

	t.Run("resend for verified user fails", func(t *testing.T) {
		f := newAuthFixture()
		f.createVerifiedUser(t, "a@x.com", "password123")
		assert.ErrorIs(t, f.service.ResendVerification(ctx, "a@x.com"), ErrAlreadyVerified)
	})

	t.Run("resend for unknown user fails", func(t *testing.T) {
		f := newAuthFixture()
		assert.ErrorIs(t, f.service.ResendVerification(ctx, "nobody@x.com"), ErrUserNotFound)
	})

	t.Run("registration token cannot verify an email", func(t *testing.T) {
		f := newAuthFixture()
		require.NoError(t, f.service.RegisterEmail(ctx, "a@x.com"))
		assert.ErrorIs(t, f.service.VerifyEmail(ctx, f.mailer.registrationTokens[0]), ErrInvalidToken)
	})
}

func TestPasswordReset(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown email reports success and sends nothing", func(t *testing.T) {
		f := newAuthFixture()
		require.NoError(t, f.service.RequestPasswordReset(ctx, "nobody@x.com"))
		assert.Empty(t, f.mailer.resetTokens)
	})

	t.Run("full reset flow revokes sessions", func(t *testing.T) {
		f := newAuthFixture()
		user := f.createVerifiedUser(t, "a@x.com", "old-password")
		_, err := f.service.GenerateTokens(ctx, user)
		require.NoError(t, err)

		require.NoError(t, f.service.RequestPasswordReset(ctx, "a@x.com"))
		require.Len(t, f.mailer.resetTokens, 1)
		token := f.mailer.resetTokens[0]

		email, err := f.service.VerifyResetToken(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, "a@x.com", email)

		require.NoError(t, f.service.ConfirmPasswordReset(ctx, token, "new-password"))
		assert.Equal(t, 0, f.refreshTokens.countForUser(user.ID))

		_, _, err = f.service.SignInPassword(ctx, "a@x.com", "old-password")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
		_, _, err = f.service.SignInPassword(ctx, "a@x.com", "new-password")
		assert.NoError(t, err)

		assert.ErrorIs(t, f.service.ConfirmPasswordReset(ctx, token, "another"), ErrInvalidToken)
	})

	t.Run("expired reset token", func(t *testing.T) {
		f := newAuthFixture()
		f.createVerifiedUser(t, "a@x.com", "password123")
		require.NoError(t, f.service.RequestPasswordReset(ctx, "a@x.com"))

		f.clock.advance(11 * time.Minute)
		_, err := f.service.VerifyResetToken(ctx, f.mailer.resetTokens[0])
		assert.ErrorIs(t, err, ErrTokenExpired)
	})

	t.Run("new request supersedes prior token", func(t *testing.T) {
		f := newAuthFixture()
		f.createVerifiedUser(t, "a@x.com", "password123")
		require.NoError(t, f.service.RequestPasswordReset(ctx, "a@x.com"))
		require.NoError(t, f.service.RequestPasswordReset(ctx, "a@x.com"))
		assert.Equal(t, 1, f.verifications.countUnused(entity.PurposePasswordReset))

		_, err := f.service.VerifyResetToken(ctx, f.mailer.resetTokens[0])
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestSignInGoogle(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a passwordless user on first sign-in", func(t *testing.T) {
		f := newAuthFixture()
		f.oauth.info = &OAuthUserInfo{
			ProviderID: "g-1",
			Email:      "b@x.com",
			Name:       "B",
			Raw:        []byte(`{"id":"g-1"}`),
		}

		user, pair, err := f.service.SignInGoogle(ctx, "provider-token")
		require.NoError(t, err)
		assert.Nil(t, user.Password)
		assert.Equal(t, "b@x.com", user.Email)
		assert.NotEmpty(t, pair.AccessToken)
		require.Len(t, f.oauthAccounts.accounts, 1)
		assert.Equal(t, user.ID, f.oauthAccounts.accounts[0].UserID)
	})

	t.Run("links a new provider identity to an existing email", func(t *testing.T) {
		f := newAuthFixture()
		existing := f.createVerifiedUser(t, "b@x.com", "password123")
		f.oauth.info = &OAuthUserInfo{ProviderID: "g-1", Email: "b@x.com", Name: "B"}

		user, _, err := f.service.SignInGoogle(ctx, "provider-token")
		require.NoError(t, err)
		assert.Equal(t, existing.ID, user.ID)
		require.Len(t, f.oauthAccounts.accounts, 1)
		assert.Equal(t, existing.ID, f.oauthAccounts.accounts[0].UserID)
	})

	t.Run("second sign-in reuses the link", func(t *testing.T) {
		f := newAuthFixture()
		f.oauth.info = &OAuthUserInfo{ProviderID: "g-1", Email: "b@x.com", Name: "B"}

		first, _, err := f.service.SignInGoogle(ctx, "provider-token")
		require.NoError(t, err)
		second, _, err := f.service.SignInGoogle(ctx, "provider-token")
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)
		assert.Len(t, f.oauthAccounts.accounts, 1)
	})

	t.Run("exchange failure surfaces as oauth error", func(t *testing.T) {
		f := newAuthFixture()
		f.oauth.err = errors.New("upstream said no")
		_, _, err := f.service.SignInGoogle(ctx, "bad-token")
		assert.ErrorIs(t, err, ErrOAuthExchangeFailed)
	})
}

func TestCleanup(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture()
	user := f.createVerifiedUser(t, "a@x.com", "password123")

	require.NoError(t, f.refreshTokens.Create(ctx, &entity.RefreshToken{
		UserID:    user.ID,
		TokenHash: "stale",
		ExpiresAt: time.Now().Add(-time.Hour),
	}))
	require.NoError(t, f.service.CleanupExpiredTokens(ctx))
	assert.Equal(t, 0, f.refreshTokens.countForUser(user.ID))
}
