package entity

import (
	"time"

	"gorm.io/datatypes"
)

type OAuthProvider string

const (
	ProviderGoogle   OAuthProvider = "google"
	ProviderApple    OAuthProvider = "apple"
	ProviderFacebook OAuthProvider = "facebook"
)

type OAuthAccount struct {
	ID     uint `gorm:"primaryKey"`
	UserID uint `gorm:"not null;index;uniqueIndex:idx_oauth_identity"`
	User   User `gorm:"constraint:OnDelete:CASCADE"`

	Provider   OAuthProvider `gorm:"type:varchar(20);not null;uniqueIndex:idx_oauth_identity"`
	ProviderID string        `gorm:"type:varchar(255);not null;uniqueIndex:idx_oauth_identity"`

	// Raw provider userinfo response. Never serialized to clients.
	OriginResponse datatypes.JSON

	CreatedAt time.Time
	UpdatedAt time.Time
}
