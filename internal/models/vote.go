package models

import (
	"time"
)

// Vote values. A missing row and a stored zero both mean "no vote" and every
// reader must treat them identically.
const (
	VoteLike    = 1
	VoteNone    = 0
	VoteDislike = -1
)

// Vote records a user's signed preference on a post.
// The combination of PostID and UserID must be unique.
type Vote struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_post_voter" json:"post_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_post_voter" json:"user_id"`
	Value     int       `gorm:"not null;default:0" json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NextVote applies the toggle rule: repeating the previous direction cancels
// the vote, anything else switches straight to the clicked direction.
func NextVote(prev, direction int) int {
	if prev == direction {
		return VoteNone
	}
	return direction
}
