package repository

import (
	"context"

	"tavern/internal/models"

	"gorm.io/gorm"
)

// MediaRepository records uploaded media objects.
type MediaRepository interface {
	Create(ctx context.Context, obj *models.MediaObject) error
	ListByOwner(ctx context.Context, ownerID uint, limit int) ([]*models.MediaObject, error)
}

type mediaRepository struct {
	db *gorm.DB
}

// NewMediaRepository returns a new MediaRepository implementation.
func NewMediaRepository(db *gorm.DB) MediaRepository {
	return &mediaRepository{db: db}
}

func (r *mediaRepository) Create(ctx context.Context, obj *models.MediaObject) error {
	if err := r.db.WithContext(ctx).Create(obj).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *mediaRepository) ListByOwner(ctx context.Context, ownerID uint, limit int) ([]*models.MediaObject, error) {
	var objs []*models.MediaObject
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Limit(limit).
		Find(&objs).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return objs, nil
}
