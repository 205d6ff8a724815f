package repository

import (
	"context"
	"errors"

	"github.com/dotdotgod/boilerplate/internal/entity"

	"gorm.io/gorm"
)

type OAuthAccountRepository interface {
	Create(ctx context.Context, account *entity.OAuthAccount) error
	FindByProvider(ctx context.Context, provider entity.OAuthProvider, providerID string) (*entity.OAuthAccount, error)
}

type oauthAccountRepository struct {
	db *gorm.DB
}

func NewOAuthAccountRepository(db *gorm.DB) OAuthAccountRepository {
	return &oauthAccountRepository{db: db}
}

func (r *oauthAccountRepository) Create(ctx context.Context, account *entity.OAuthAccount) error {
	return r.db.WithContext(ctx).Create(account).Error
}

func (r *oauthAccountRepository) FindByProvider(
	ctx context.Context,
	provider entity.OAuthProvider,
	providerID string,
) (*entity.OAuthAccount, error) {
	var account entity.OAuthAccount
	err := r.db.WithContext(ctx).
		Where("provider = ? AND provider_id = ?", provider, providerID).
		First(&account).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &account, err
}
