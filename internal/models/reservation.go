package models

import "time"

// UsernameReservation enforces case-insensitive username uniqueness.
//
// Name is the lowercased username and is the primary key, so the database
// guarantees at most one reservation per lowercased name. The row is claimed
// in the same transaction that writes the profile.
type UsernameReservation struct {
	Name      string    `gorm:"primaryKey;size:64" json:"name"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Username  string    `gorm:"not null" json:"username"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
