package models

import (
	"time"
)

// MediaObject records a file uploaded to blob storage. URL is the public
// address handed back to the client for use as a post image/video URL or a
// profile photo.
type MediaObject struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Key         string    `gorm:"unique;not null" json:"key"`
	URL         string    `gorm:"not null" json:"url"`
	OwnerID     uint      `gorm:"not null;index" json:"owner_id"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	CreatedAt   time.Time `json:"created_at"`
}
