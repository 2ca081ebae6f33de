package models

import "time"

// User represents the user model in the database
type User struct {
	Base
	FirstName  string `gorm:"size:50;not null" json:"first_name"`
	LastName   string `gorm:"size:50;not null" json:"last_name"`
	Email      string `gorm:"uniqueIndex;not null" json:"email"`
	Password   string `gorm:"not null" json:"-"`
	IsActive   bool   `gorm:"default:true" json:"is_active"`
	IsVerified bool   `gorm:"default:false" json:"is_verified"`

	// SessionToken mirrors the last-issued session token. It is written on
	// login only; tokens are never checked against it.
	SessionToken string     `json:"-"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
}

// FullName returns the user's display name.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}
