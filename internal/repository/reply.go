package repository

import (
	"context"
	"errors"

	"tavern/internal/models"

	"gorm.io/gorm"
)

// ReplyRepository defines persistence operations for post replies.
type ReplyRepository interface {
	Create(ctx context.Context, reply *models.Reply) error
	ListRecent(ctx context.Context, postID uint, limit int) ([]*models.Reply, error)
	CountForPost(ctx context.Context, postID uint) (int64, error)
}

type replyRepository struct {
	db *gorm.DB
}

// NewReplyRepository returns a new ReplyRepository implementation.
func NewReplyRepository(db *gorm.DB) ReplyRepository {
	return &replyRepository{db: db}
}

func (r *replyRepository) Create(ctx context.Context, reply *models.Reply) error {
	// The parent post must still exist; replying to a deleted post is a 404.
	var post models.Post
	if err := r.db.WithContext(ctx).Select("id").First(&post, reply.PostID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Post", reply.PostID)
		}
		return models.NewInternalError(err)
	}

	if err := r.db.WithContext(ctx).Create(reply).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// ListRecent returns the newest replies for a post, newest first.
func (r *replyRepository) ListRecent(ctx context.Context, postID uint, limit int) ([]*models.Reply, error) {
	var replies []*models.Reply
	err := r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&replies).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return replies, nil
}

func (r *replyRepository) CountForPost(ctx context.Context, postID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Reply{}).
		Where("post_id = ?", postID).
		Count(&count).Error
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}
