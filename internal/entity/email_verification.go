package entity

import "time"

type VerificationPurpose string

const (
	PurposeRegistration  VerificationPurpose = "registration"
	PurposeVerification  VerificationPurpose = "verification"
	PurposePasswordReset VerificationPurpose = "password_reset"
)

// EmailVerification is a single-use, time-boxed token. Registration tokens
// are issued before an account exists, so UserID is nullable and gets bound
// when registration completes.
type EmailVerification struct {
	ID     uint  `gorm:"primaryKey"`
	UserID *uint `gorm:"index"`
	User   *User `gorm:"constraint:OnDelete:CASCADE"`

	Email   string              `gorm:"type:varchar(255);not null;index"`
	Token   string              `gorm:"type:varchar(64);uniqueIndex;not null"`
	Purpose VerificationPurpose `gorm:"type:varchar(20);not null;index"`

	ExpiresAt time.Time `gorm:"index"`
	IsUsed    bool      `gorm:"default:false;not null"`

	CreatedAt time.Time
}
