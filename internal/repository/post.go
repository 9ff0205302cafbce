package repository

import (
	"context"
	"errors"
	"sort"

	"tavern/internal/cache"
	"tavern/internal/models"

	"gorm.io/gorm"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	List(ctx context.Context, category string, limit int) ([]*models.Post, error)
}

// postRepository implements PostRepository
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if post.Category == "" {
		post.Category = models.DefaultCategory
	}
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateFeed(ctx, post.Category)
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	key := cache.PostKey(id)

	err := cache.Aside(ctx, key, &post, cache.PostTTL, func() error {
		if err := r.db.WithContext(ctx).First(&post, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Post", id)
			}
			return models.NewInternalError(err)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return &post, nil
}

// List returns the newest posts, optionally filtered by category. When the
// ordered query fails (e.g. a partially indexed legacy table) it falls back to
// an unordered scan sorted in memory, with zero timestamps sorting last.
func (r *postRepository) List(ctx context.Context, category string, limit int) ([]*models.Post, error) {
	var posts []*models.Post

	base := func() *gorm.DB {
		q := r.db.WithContext(ctx).Model(&models.Post{})
		if category != "" {
			q = q.Where("category = ?", category)
		}
		return q
	}

	err := base().Order("created_at DESC").Limit(limit).Find(&posts).Error
	if err == nil {
		return posts, nil
	}

	posts = nil
	if err := base().Limit(limit).Find(&posts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}

	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
	return posts, nil
}
