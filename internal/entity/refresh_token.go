package entity

import "time"

// RefreshToken is one row of the session whitelist. Only the SHA-256 hash of
// the presented token is stored; the raw value never touches the database.
type RefreshToken struct {
	ID     uint `gorm:"primaryKey"`
	UserID uint `gorm:"not null;index"`
	User   User `gorm:"constraint:OnDelete:CASCADE"`

	TokenHash string `gorm:"type:varchar(64);not null;index"`

	ExpiresAt time.Time `gorm:"index"`
	CreatedAt time.Time
}
