package models

import "time"

type User struct {
	ID       string `gorm:"primaryKey" json:"id"`
	Name     string `json:"name"`
	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	Password string `gorm:"column:password_hash" json:"-"` // empty for OAuth users
	Image    string `json:"image"`
	Bio      string `json:"bio"`

	// OAuth fields
	GoogleID     string `gorm:"index" json:"-"`
	AuthProvider string `json:"auth_provider"` // "email" or "google"

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
