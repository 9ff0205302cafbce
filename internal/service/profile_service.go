// Package service implements the application's business logic.
package service

import (
	"context"
	"strings"

	"tavern/internal/models"
	"tavern/internal/repository"
	"tavern/internal/validation"
)

// ProfileService manages user profiles and the username registry.
type ProfileService struct {
	userRepo repository.UserRepository
}

type SaveProfileInput struct {
	UserID   uint
	Username string
	PhotoURL string
}

func NewProfileService(userRepo repository.UserRepository) *ProfileService {
	return &ProfileService{userRepo: userRepo}
}

func (s *ProfileService) GetMe(ctx context.Context, userID uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

// SaveProfile validates the requested username and photo URL and writes both
// together with the username claim. An account without a completed profile
// cannot publish, vote, or reply.
func (s *ProfileService) SaveProfile(ctx context.Context, in SaveProfileInput) (*models.User, error) {
	username := strings.TrimSpace(in.Username)
	if err := validation.ValidateUsername(username); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	photoURL, err := validation.NormalizeURL(in.PhotoURL)
	if err != nil {
		return nil, models.NewValidationError("Photo URL " + err.Error())
	}

	return s.userRepo.SaveProfile(ctx, in.UserID, username, photoURL)
}

// IsUsernameAvailable reports whether a name is free for the given user.
// A user's own claim counts as available so re-saving works.
func (s *ProfileService) IsUsernameAvailable(ctx context.Context, userID uint, username string) (bool, error) {
	if err := validation.ValidateUsername(strings.TrimSpace(username)); err != nil {
		return false, models.NewValidationError(err.Error())
	}
	res, err := s.userRepo.GetReservation(ctx, username)
	if err != nil {
		return false, err
	}
	if res == nil {
		return true, nil
	}
	return res.UserID == userID, nil
}
