package model

import "time"

// PasswordResetToken is single-use. The row is deleted when the reset
// succeeds or when the sweep finds it expired
type PasswordResetToken struct {
	Token     string    `gorm:"primaryKey"`
	UserID    string    `gorm:"index"`
	ExpiresAt time.Time
	CreatedAt time.Time
}
