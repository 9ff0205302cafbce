package repository

import (
	"context"
	"errors"

	"tavern/internal/cache"
	"tavern/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// VoteRepository defines persistence operations for post votes.
type VoteRepository interface {
	Get(ctx context.Context, postID, userID uint) (int, error)
	GetForPosts(ctx context.Context, userID uint, postIDs []uint) (map[uint]int, error)
	Apply(ctx context.Context, postID, userID uint, direction int) (*models.Post, int, error)
}

type voteRepository struct {
	db *gorm.DB
}

// NewVoteRepository returns a new VoteRepository implementation.
func NewVoteRepository(db *gorm.DB) VoteRepository {
	return &voteRepository{db: db}
}

func (r *voteRepository) Get(ctx context.Context, postID, userID uint) (int, error) {
	var vote models.Vote
	err := r.db.WithContext(ctx).
		Where("post_id = ? AND user_id = ?", postID, userID).
		First(&vote).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.VoteNone, nil
	}
	if err != nil {
		return models.VoteNone, models.NewInternalError(err)
	}
	return vote.Value, nil
}

// GetForPosts returns the user's vote per post in one query. Posts without a
// recorded vote are absent from the map.
func (r *voteRepository) GetForPosts(ctx context.Context, userID uint, postIDs []uint) (map[uint]int, error) {
	result := make(map[uint]int, len(postIDs))
	if len(postIDs) == 0 {
		return result, nil
	}

	var votes []models.Vote
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND post_id IN ?", userID, postIDs).
		Find(&votes).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	for _, v := range votes {
		if v.Value != models.VoteNone {
			result[v.PostID] = v.Value
		}
	}
	return result, nil
}

// Apply toggles the user's vote on a post and adjusts the denormalized
// counters in the same transaction. Voting in the current direction clears it;
// switching directions moves the vote. Counters never go below zero. A missing
// post is a silent no-op, matching delete races on the feed.
func (r *voteRepository) Apply(ctx context.Context, postID, userID uint, direction int) (*models.Post, int, error) {
	if direction != models.VoteLike && direction != models.VoteDislike {
		return nil, models.VoteNone, models.NewValidationError("Vote direction must be like or dislike")
	}

	var post models.Post
	next := models.VoteNone

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&post, postID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return models.NewInternalError(err)
		}

		prev := models.VoteNone
		var vote models.Vote
		err := tx.Where("post_id = ? AND user_id = ?", postID, userID).First(&vote).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewInternalError(err)
		}
		if err == nil {
			prev = vote.Value
		}

		next = models.NextVote(prev, direction)
		if next == prev {
			return nil
		}

		// Retract the previous vote
		switch prev {
		case models.VoteLike:
			if post.LikeCount > 0 {
				post.LikeCount--
			}
		case models.VoteDislike:
			if post.DislikeCount > 0 {
				post.DislikeCount--
			}
		}

		// Record the new one
		switch next {
		case models.VoteLike:
			post.LikeCount++
		case models.VoteDislike:
			post.DislikeCount++
		}

		upsert := models.Vote{
			PostID: postID,
			UserID: userID,
			Value:  next,
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "post_id"}, {Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).Create(&upsert).Error; err != nil {
			return models.NewInternalError(err)
		}

		if err := tx.Model(&models.Post{}).Where("id = ?", postID).
			Updates(map[string]interface{}{
				"like_count":    post.LikeCount,
				"dislike_count": post.DislikeCount,
			}).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})

	if err != nil {
		return nil, models.VoteNone, err
	}

	if post.ID == 0 {
		// Post vanished before the vote landed
		return nil, models.VoteNone, nil
	}

	cache.InvalidatePost(ctx, postID, post.Category)
	return &post, next, nil
}
