package service

import (
	"context"
	"time"

	"github.com/dotdotgod/boilerplate/internal/entity"
	"github.com/dotdotgod/boilerplate/internal/repository"
	"github.com/dotdotgod/boilerplate/internal/utils"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

// Burned when the user lookup fails so the response time does not reveal
// whether the account exists.
const dummyPasswordHash = "$argon2id$v=19$m=65536,t=1,p=2$WVZNVnlDyUgW8ZRM3bXgpQ$GkOmYtyhyZl5RSqMJHUJBcMQHyPSUXFtd1DC64mgW0Y"

type AuthService struct {
	users         repository.UserRepository
	oauthAccounts repository.OAuthAccountRepository
	refreshTokens repository.RefreshTokenRepository
	verifications repository.EmailVerificationRepository

	mailer       Mailer
	oauthGoogle  OAuthProvider
	passwordHash PasswordHasher
	tokens       utils.JWTManager
	clock        Clock
	config       AuthConfig
	logger       logrus.FieldLogger
}

func NewAuthService(
	users repository.UserRepository,
	oauthAccounts repository.OAuthAccountRepository,
	refreshTokens repository.RefreshTokenRepository,
	verifications repository.EmailVerificationRepository,
	mailer Mailer,
	oauthGoogle OAuthProvider,
	passwordHash PasswordHasher,
	tokens utils.JWTManager,
	clock Clock,
	config AuthConfig,
	logger logrus.FieldLogger,
) *AuthService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &AuthService{
		users:         users,
		oauthAccounts: oauthAccounts,
		refreshTokens: refreshTokens,
		verifications: verifications,
		mailer:        mailer,
		oauthGoogle:   oauthGoogle,
		passwordHash:  passwordHash,
		tokens:        tokens,
		clock:         clock,
		config:        config,
		logger:        logger,
	}
}

func (s *AuthService) SignInPassword(ctx context.Context, email string, password string) (*entity.User, TokenPair, error) {
	user, err := s.users.FindByEmail(ctx, utils.NormalizeEmail(email))
	if err != nil {
		return nil, TokenPair{}, err
	}
	if user == nil || user.Password == nil {
		_ = s.passwordHash.Verify(dummyPasswordHash, password)
		return nil, TokenPair{}, ErrInvalidCredentials
	}
	if !user.IsVerified {
		return nil, TokenPair{}, ErrNotVerified
	}
	if !s.passwordHash.Verify(*user.Password, password) {
		return nil, TokenPair{}, ErrInvalidCredentials
	}

	pair, err := s.GenerateTokens(ctx, user)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return user, pair, nil
}

func (s *AuthService) SignInGoogle(ctx context.Context, providerToken string) (*entity.User, TokenPair, error) {
	info, err := s.oauthGoogle.FetchUserInfo(ctx, providerToken)
	if err != nil {
		s.logger.WithError(err).Warn("google userinfo exchange failed")
		return nil, TokenPair{}, ErrOAuthExchangeFailed
	}

	user, err := s.resolveOAuthUser(ctx, entity.ProviderGoogle, info)
	if err != nil {
		return nil, TokenPair{}, err
	}

	pair, err := s.GenerateTokens(ctx, user)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return user, pair, nil
}

// resolveOAuthUser is find-or-create: match by (provider, provider_id) first,
// fall back to email, create a fresh passwordless account last. Whenever the
// provider identity is new it gets linked to the resolved user.
func (s *AuthService) resolveOAuthUser(
	ctx context.Context,
	provider entity.OAuthProvider,
	info *OAuthUserInfo,
) (*entity.User, error) {
	account, err := s.oauthAccounts.FindByProvider(ctx, provider, info.ProviderID)
	if err != nil {
		return nil, err
	}
	if account != nil {
		user, err := s.users.FindByID(ctx, account.UserID)
		if err != nil {
			return nil, err
		}
		if user == nil {
			return nil, ErrUserNotFound
		}
		return user, nil
	}

	user, err := s.users.FindByEmail(ctx, utils.NormalizeEmail(info.Email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		user = &entity.User{
			Name:  info.Name,
			Email: utils.NormalizeEmail(info.Email),
		}
		if err := s.users.Create(ctx, user); err != nil {
			return nil, err
		}
	}

	link := &entity.OAuthAccount{
		UserID:         user.ID,
		Provider:       provider,
		ProviderID:     info.ProviderID,
		OriginResponse: datatypes.JSON(info.Raw),
	}
	if err := s.oauthAccounts.Create(ctx, link); err != nil {
		return nil, err
	}
	return user, nil
}

// GenerateTokens mints a fresh access/refresh pair and appends the refresh
// token's hash to the whitelist. Every call creates a new row; rotation and
// logout are the only ways a row goes away.
func (s *AuthService) GenerateTokens(ctx context.Context, user *entity.User) (TokenPair, error) {
	accessToken, err := s.tokens.SignAccessToken(user.UUID.String())
	if err != nil {
		return TokenPair{}, err
	}
	refreshToken, err := s.tokens.SignRefreshToken(user.UUID.String())
	if err != nil {
		return TokenPair{}, err
	}

	expiresAt := s.now().Add(s.refreshTokenTTL())
	row := &entity.RefreshToken{
		UserID:    user.ID,
		TokenHash: utils.HashToken(refreshToken),
		ExpiresAt: expiresAt,
	}
	if err := s.refreshTokens.Create(ctx, row); err != nil {
		return TokenPair{}, err
	}

	return TokenPair{
		AccessToken:      accessToken,
		RefreshToken:     refreshToken,
		RefreshExpiresIn: int64(s.refreshTokenTTL().Seconds()),
	}, nil
}

// Refresh rotates the presented refresh token: the whitelist row is deleted
// and a brand-new pair issued, so each raw token works exactly once. Expired
// rows are dropped lazily here rather than by an inline sweep.
func (s *AuthService) Refresh(ctx context.Context, user *entity.User, refreshToken string) (TokenPair, error) {
	row, err := s.refreshTokens.FindByHash(ctx, user.ID, utils.HashToken(refreshToken))
	if err != nil {
		return TokenPair{}, err
	}
	if row == nil {
		return TokenPair{}, ErrInvalidRefreshToken
	}
	if row.ExpiresAt.Before(s.now()) {
		_ = s.refreshTokens.Delete(ctx, row.ID)
		return TokenPair{}, ErrInvalidRefreshToken
	}

	if err := s.refreshTokens.Delete(ctx, row.ID); err != nil {
		return TokenPair{}, err
	}
	return s.GenerateTokens(ctx, user)
}

// Logout is best-effort: revocation failures are logged and swallowed so the
// client always sees a successful logout.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) {
	if refreshToken == "" {
		return
	}
	claims, err := s.tokens.ParseRefreshToken(refreshToken)
	if err != nil {
		s.logger.WithError(err).Debug("logout with unverifiable refresh token")
		return
	}
	userUUID, err := uuid.Parse(claims.UserUUID)
	if err != nil {
		return
	}
	user, err := s.users.FindByUUID(ctx, userUUID)
	if err != nil || user == nil {
		return
	}
	if err := s.refreshTokens.DeleteByHash(ctx, user.ID, utils.HashToken(refreshToken)); err != nil {
		s.logger.WithError(err).Warn("failed to revoke refresh token on logout")
	}
}

// RegisterEmail starts the two-phase signup: it issues a registration token
// bound to the email only and mails a completion link. Prior unused
// registration tokens for the same address are superseded.
func (s *AuthService) RegisterEmail(ctx context.Context, email string) error {
	email = utils.NormalizeEmail(email)
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user != nil {
		return ErrEmailTaken
	}

	if err := s.verifications.DeleteUnusedByEmail(ctx, email, entity.PurposeRegistration); err != nil {
		return err
	}
	verification := &entity.EmailVerification{
		Email:     email,
		Token:     uuid.NewString(),
		Purpose:   entity.PurposeRegistration,
		ExpiresAt: s.now().Add(s.registrationTokenTTL()),
	}
	if err := s.verifications.Create(ctx, verification); err != nil {
		return err
	}
	return s.mailer.SendRegistrationEmail(ctx, email, verification.Token)
}

func (s *AuthService) GetRegistrationInfo(ctx context.Context, token string) (string, error) {
	verification, err := s.findUsableToken(ctx, token, entity.PurposeRegistration)
	if err != nil {
		return "", err
	}
	return verification.Email, nil
}

// CompleteRegistration finishes signup: possession of the emailed token is
// the verification, so the account is created already verified.
func (s *AuthService) CompleteRegistration(
	ctx context.Context,
	token string,
	name string,
	password string,
) (*entity.User, TokenPair, error) {
	verification, err := s.findUsableToken(ctx, token, entity.PurposeRegistration)
	if err != nil {
		return nil, TokenPair{}, err
	}

	// Race guard: someone may have claimed the email since phase one.
	existing, err := s.users.FindByEmail(ctx, verification.Email)
	if err != nil {
		return nil, TokenPair{}, err
	}
	if existing != nil {
		return nil, TokenPair{}, ErrEmailTaken
	}

	hash, err := s.passwordHash.Hash(password)
	if err != nil {
		return nil, TokenPair{}, err
	}
	now := s.now()
	user := &entity.User{
		Name:       name,
		Email:      verification.Email,
		Password:   &hash,
		IsVerified: true,
		VerifiedAt: &now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, TokenPair{}, err
	}
	if err := s.verifications.MarkUsedForUser(ctx, verification.ID, user.ID); err != nil {
		return nil, TokenPair{}, err
	}

	pair, err := s.GenerateTokens(ctx, user)
	if err != nil {
		return nil, TokenPair{}, err
	}

	if err := s.mailer.SendWelcomeEmail(ctx, user.Email, user.Name); err != nil {
		s.logger.WithError(err).Warn("failed to send welcome email")
	}
	return user, pair, nil
}

func (s *AuthService) VerifyEmail(ctx context.Context, token string) error {
	verification, err := s.findUsableToken(ctx, token, entity.PurposeVerification)
	if err != nil {
		return err
	}
	if verification.UserID == nil {
		return ErrInvalidToken
	}
	if err := s.verifications.MarkUsed(ctx, verification.ID); err != nil {
		return err
	}
	return s.users.MarkVerified(ctx, *verification.UserID, s.now())
}

// ResendVerification issues a fresh standalone verification token, e.g. for
// OAuth-created accounts that want verified status.
func (s *AuthService) ResendVerification(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, utils.NormalizeEmail(email))
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	if user.IsVerified {
		return ErrAlreadyVerified
	}

	if err := s.verifications.DeleteUnusedByUser(ctx, user.ID, entity.PurposeVerification); err != nil {
		return err
	}
	verification := &entity.EmailVerification{
		UserID:    &user.ID,
		Email:     user.Email,
		Token:     uuid.NewString(),
		Purpose:   entity.PurposeVerification,
		ExpiresAt: s.now().Add(s.verificationTokenTTL()),
	}
	if err := s.verifications.Create(ctx, verification); err != nil {
		return err
	}
	return s.mailer.SendVerificationEmail(ctx, user.Email, user.Name, verification.Token)
}

// RequestPasswordReset reports success whether or not the email exists; no
// mail goes out for unknown addresses.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, utils.NormalizeEmail(email))
	if err != nil {
		return err
	}
	if user == nil {
		return nil
	}

	if err := s.verifications.DeleteUnusedByUser(ctx, user.ID, entity.PurposePasswordReset); err != nil {
		return err
	}
	verification := &entity.EmailVerification{
		UserID:    &user.ID,
		Email:     user.Email,
		Token:     uuid.NewString(),
		Purpose:   entity.PurposePasswordReset,
		ExpiresAt: s.now().Add(s.resetTokenTTL()),
	}
	if err := s.verifications.Create(ctx, verification); err != nil {
		return err
	}
	return s.mailer.SendPasswordResetEmail(ctx, user.Email, user.Name, verification.Token)
}

func (s *AuthService) VerifyResetToken(ctx context.Context, token string) (string, error) {
	verification, err := s.findUsableToken(ctx, token, entity.PurposePasswordReset)
	if err != nil {
		return "", err
	}
	return verification.Email, nil
}

// ConfirmPasswordReset overwrites the password and revokes every outstanding
// session of the user, so a stolen refresh token dies with the old password.
func (s *AuthService) ConfirmPasswordReset(ctx context.Context, token string, newPassword string) error {
	verification, err := s.findUsableToken(ctx, token, entity.PurposePasswordReset)
	if err != nil {
		return err
	}
	if verification.UserID == nil {
		return ErrInvalidToken
	}
	user, err := s.users.FindByID(ctx, *verification.UserID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	hash, err := s.passwordHash.Hash(newPassword)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return err
	}
	if err := s.verifications.MarkUsed(ctx, verification.ID); err != nil {
		return err
	}
	if err := s.refreshTokens.DeleteAllByUser(ctx, user.ID); err != nil {
		s.logger.WithError(err).Warn("failed to revoke sessions after password reset")
	}
	return nil
}

func (s *AuthService) FindByUUID(ctx context.Context, userUUID uuid.UUID) (*entity.User, error) {
	return s.users.FindByUUID(ctx, userUUID)
}

// CleanupExpiredTokens and CleanupExpiredVerifications are meant for an
// external scheduler; nothing in the request path calls them.
func (s *AuthService) CleanupExpiredTokens(ctx context.Context) error {
	return s.refreshTokens.DeleteExpired(ctx)
}

func (s *AuthService) CleanupExpiredVerifications(ctx context.Context) error {
	return s.verifications.DeleteExpired(ctx)
}

func (s *AuthService) findUsableToken(
	ctx context.Context,
	token string,
	purpose entity.VerificationPurpose,
) (*entity.EmailVerification, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}
	verification, err := s.verifications.FindUnused(ctx, token, purpose)
	if err != nil {
		return nil, err
	}
	if verification == nil {
		return nil, ErrInvalidToken
	}
	if verification.ExpiresAt.Before(s.now()) {
		return nil, ErrTokenExpired
	}
	return verification, nil
}

func (s *AuthService) now() time.Time {
	if s.clock == nil {
		return time.Now()
	}
	return s.clock.Now()
}

func (s *AuthService) refreshTokenTTL() time.Duration {
	if s.config.RefreshTokenTTL > 0 {
		return s.config.RefreshTokenTTL
	}
	return 7 * 24 * time.Hour
}

func (s *AuthService) registrationTokenTTL() time.Duration {
	if s.config.RegistrationTokenTTL > 0 {
		return s.config.RegistrationTokenTTL
	}
	return 30 * time.Minute
}

func (s *AuthService) verificationTokenTTL() time.Duration {
	if s.config.VerificationTokenTTL > 0 {
		return s.config.VerificationTokenTTL
	}
	return 10 * time.Minute
}

func (s *AuthService) resetTokenTTL() time.Duration {
	if s.config.ResetTokenTTL > 0 {
		return s.config.ResetTokenTTL
	}
	return 10 * time.Minute
}
