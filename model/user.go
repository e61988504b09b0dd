// Package model defines database models
package model

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID       string `gorm:"primaryKey" json:"id"`
	Email    string `gorm:"unique;not null" json:"email"`
	Username string `json:"username"`

	// Empty for accounts provisioned through Google OAuth that never set a password
	PasswordHash string `json:"-"`

	// Google's subject id, only set for OAuth-provisioned accounts
	GoogleID *string `gorm:"unique" json:"-"`

	Role      string    `gorm:"default:user" json:"role"`
	CreatedAt time.Time `json:"created_at"`

	Photos      []Photo              `gorm:"foreignKey:UserID" json:"-"`
	Albums      []Album              `gorm:"foreignKey:UserID" json:"-"`
	ResetTokens []PasswordResetToken `gorm:"foreignKey:UserID" json:"-"`
}
