package models

import (
	"time"
)

// Reply is a short response under a post. Replies are immutable once created
// and carry the same author snapshot fields as posts.
type Reply struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	PostID         uint      `gorm:"not null;index" json:"post_id"`
	Text           string    `gorm:"type:text;not null" json:"text"`
	AuthorID       uint      `gorm:"not null" json:"author_id"`
	AuthorUsername string    `json:"author_username"`
	AuthorPhotoURL *string   `json:"author_photo_url"`
	AuthorVerified *bool     `json:"author_verified,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}
