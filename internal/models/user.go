// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// User represents an account in the Tavern application.
//
// Username is empty until the first profile save; the client derives its
// "needs profile" state from that. Verified is operator-managed and defaults
// to false.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"unique;not null" json:"email"`
	Password  string    `gorm:"not null" json:"-"`
	Username  string    `gorm:"index" json:"username"`
	PhotoURL  *string   `json:"photo_url"`
	Verified  bool      `gorm:"not null;default:false" json:"verified"`
	Anonymous bool      `gorm:"not null;default:false" json:"anonymous"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasProfile reports whether the account has completed profile setup.
func (u *User) HasProfile() bool {
	return u != nil && u.Username != ""
}
