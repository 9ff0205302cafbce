// Package repository implements the data access layer for the application.
package repository

import (
	"context"
	"errors"
	"strings"

	"tavern/internal/cache"
	"tavern/internal/models"

	"gorm.io/gorm"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	SaveProfile(ctx context.Context, userID uint, username string, photoURL *string) (*models.User, error)
	GetReservation(ctx context.Context, username string) (*models.UsernameReservation, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	key := cache.UserKey(id)

	err := cache.Aside(ctx, key, &user, cache.UserTTL, func() error {
		if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("User", id)
			}
			return models.NewInternalError(err)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewValidationError("User already exists")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateUser(ctx, user.ID)
	return nil
}

// GetReservation looks up the case-insensitive claim for a username.
// Returns nil when the name is unclaimed.
func (r *userRepository) GetReservation(ctx context.Context, username string) (*models.UsernameReservation, error) {
	var res models.UsernameReservation
	name := strings.ToLower(username)
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&res).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &res, nil
}

// SaveProfile claims the username and writes the profile in one transaction.
// A name claimed by another account is a conflict; re-saving your own name
// (including a casing change) succeeds. Releases the previous claim when the
// user picks a new name.
func (r *userRepository) SaveProfile(ctx context.Context, userID uint, username string, photoURL *string) (*models.User, error) {
	var user models.User

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("User", userID)
			}
			return models.NewInternalError(err)
		}

		name := strings.ToLower(username)

		var existing models.UsernameReservation
		err := tx.Where("name = ?", name).First(&existing).Error
		switch {
		case err == nil:
			if existing.UserID != userID {
				return models.NewConflictError("Username is already taken")
			}
			// Re-save, possibly with different casing
			existing.Username = username
			if err := tx.Save(&existing).Error; err != nil {
				return models.NewInternalError(err)
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			res := models.UsernameReservation{
				Name:     name,
				UserID:   userID,
				Username: username,
			}
			if err := tx.Create(&res).Error; err != nil {
				if isUniqueConstraintError(err) {
					return models.NewConflictError("Username is already taken")
				}
				return models.NewInternalError(err)
			}
		default:
			return models.NewInternalError(err)
		}

		// Release the old claim when the name changed
		if old := strings.ToLower(user.Username); old != "" && old != name {
			if err := tx.Where("name = ? AND user_id = ?", old, userID).
				Delete(&models.UsernameReservation{}).Error; err != nil {
				return models.NewInternalError(err)
			}
		}

		user.Username = username
		user.PhotoURL = photoURL
		if err := tx.Save(&user).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	cache.InvalidateUser(ctx, userID)
	return &user, nil
}

// isUniqueConstraintError checks if a DB error is a unique constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	// PostgreSQL unique violation SQLSTATE 23505
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "23505")
}
