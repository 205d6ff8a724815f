package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID   uint      `gorm:"primaryKey"`
	UUID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();uniqueIndex;not null"`

	Name  string `gorm:"type:varchar(100);not null"`
	Email string `gorm:"type:varchar(255);uniqueIndex;not null"`

	// Nil for accounts created through an OAuth provider only.
	Password *string `gorm:"type:text"`

	IsVerified bool `gorm:"default:false;not null"`
	VerifiedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`

	OAuthAccounts []OAuthAccount
	RefreshTokens []RefreshToken
}
