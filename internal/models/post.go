package models

import (
	"time"
)

// DefaultCategory is assigned to posts published without an explicit category.
const DefaultCategory = "general"

// Post represents a published forum post.
//
// The author* columns are snapshots of the author's profile at publish time
// and are never back-filled when the profile changes later. AuthorVerified is
// a pointer so rows predating the column read as "unknown" and fall back to a
// live profile lookup at render time. LegacyAuthor carries the author email
// written by the oldest client revision; it is read-only and only consulted
// as a display-name fallback.
type Post struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Category       string    `gorm:"not null;default:general;index" json:"category"`
	Title          string    `gorm:"not null" json:"title"`
	Body           string    `gorm:"type:text;not null" json:"body"`
	ImageURL       *string   `json:"image_url"`
	VideoURL       *string   `json:"video_url"`
	AuthorID       uint      `gorm:"not null;index" json:"author_id"`
	AuthorUsername string    `json:"author_username"`
	AuthorPhotoURL *string   `json:"author_photo_url"`
	AuthorVerified *bool     `json:"author_verified,omitempty"`
	LegacyAuthor   string    `gorm:"column:legacy_author" json:"-"`
	LikeCount      int       `gorm:"not null;default:0" json:"like_count"`
	DislikeCount   int       `gorm:"not null;default:0" json:"dislike_count"`
	CreatedAt      time.Time `json:"created_at"`
}
