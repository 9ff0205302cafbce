package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"tavern/internal/models"
	"tavern/internal/repository"
)

// AnonymousName labels posts whose author left no usable name behind.
const AnonymousName = "Anonymous"

// DefaultAvatarURL returns a deterministic generated avatar for users without
// a photo, keyed by display name so the same author always gets the same face.
func DefaultAvatarURL(seed string) string {
	if seed == "" {
		seed = "anonymous"
	}
	return fmt.Sprintf("https://api.dicebear.com/9.x/personas/svg?seed=%s", url.QueryEscape(seed))
}

// resolveDisplayName picks the best available author name: the profile
// username snapshot, then the author field written by pre-profile clients,
// then the anonymous label.
func resolveDisplayName(username, legacy string) string {
	if username != "" {
		return username
	}
	if legacy != "" {
		return legacy
	}
	return AnonymousName
}

// resolveAvatar prefers the author's photo snapshot over the generated one.
func resolveAvatar(photoURL *string, displayName string) string {
	if photoURL != nil && *photoURL != "" {
		return *photoURL
	}
	return DefaultAvatarURL(displayName)
}

// resolveVerified reads the denormalized snapshot when present; rows written
// before the column existed fall back to a live profile lookup, memoized per
// author for the page. Feed items and reply views share this so a badge never
// depends on which endpoint rendered it.
func resolveVerified(ctx context.Context, userRepo repository.UserRepository, snapshot *bool, authorID uint, memo map[uint]bool) (bool, error) {
	if snapshot != nil {
		return *snapshot, nil
	}
	if authorID == 0 {
		return false, nil
	}
	if v, ok := memo[authorID]; ok {
		return v, nil
	}

	user, err := userRepo.GetByID(ctx, authorID)
	if err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) && appErr.Code == "NOT_FOUND" {
			// Author account is gone; no badge
			memo[authorID] = false
			return false, nil
		}
		return false, err
	}
	memo[authorID] = user.Verified
	return user.Verified, nil
}
