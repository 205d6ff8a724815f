package repository

import (
	"context"
	"errors"

	"github.com/dotdotgod/boilerplate/internal/entity"

	"gorm.io/gorm"
)

type EmailVerificationRepository interface {
	Create(ctx context.Context, verification *entity.EmailVerification) error
	FindUnused(ctx context.Context, token string, purpose entity.VerificationPurpose) (*entity.EmailVerification, error)
	MarkUsed(ctx context.Context, id uint) error
	// MarkUsedForUser consumes a pre-account token and binds it to the user
	// created from it.
	MarkUsedForUser(ctx context.Context, id uint, userID uint) error
	DeleteUnusedByUser(ctx context.Context, userID uint, purpose entity.VerificationPurpose) error
	DeleteUnusedByEmail(ctx context.Context, email string, purpose entity.VerificationPurpose) error
	DeleteExpired(ctx context.Context) error
}

type emailVerificationRepository struct {
	db *gorm.DB
}

func NewEmailVerificationRepository(db *gorm.DB) EmailVerificationRepository {
	return &emailVerificationRepository{db: db}
}

func (r *emailVerificationRepository) Create(ctx context.Context, verification *entity.EmailVerification) error {
	return r.db.WithContext(ctx).Create(verification).Error
}

func (r *emailVerificationRepository) FindUnused(
	ctx context.Context,
	token string,
	purpose entity.VerificationPurpose,
) (*entity.EmailVerification, error) {
	var verification entity.EmailVerification
	err := r.db.WithContext(ctx).
		Where("token = ? AND purpose = ? AND is_used = false", token, purpose).
		First(&verification).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &verification, err
}

func (r *emailVerificationRepository) MarkUsed(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).
		Model(&entity.EmailVerification{}).
		Where("id = ?", id).
		Update("is_used", true).
		Error
}

func (r *emailVerificationRepository) MarkUsedForUser(ctx context.Context, id uint, userID uint) error {
	return r.db.WithContext(ctx).
		Model(&entity.EmailVerification{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"is_used": true,
			"user_id": userID,
		}).
		Error
}

func (r *emailVerificationRepository) DeleteUnusedByUser(
	ctx context.Context,
	userID uint,
	purpose entity.VerificationPurpose,
) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND purpose = ? AND is_used = false", userID, purpose).
		Delete(&entity.EmailVerification{}).
		Error
}

func (r *emailVerificationRepository) DeleteUnusedByEmail(
	ctx context.Context,
	email string,
	purpose entity.VerificationPurpose,
) error {
	return r.db.WithContext(ctx).
		Where("email = ? AND purpose = ? AND is_used = false", email, purpose).
		Delete(&entity.EmailVerification{}).
		Error
}

func (r *emailVerificationRepository) DeleteExpired(ctx context.Context) error {
	return r.db.WithContext(ctx).
		Where("expires_at < NOW()").
		Delete(&entity.EmailVerification{}).
		Error
}
