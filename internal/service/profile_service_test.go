package service

import (
	"context"
	"testing"

	"tavern/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileService_SaveProfile(t *testing.T) {
	users := noopUserRepo()
	var gotUsername string
	var gotPhoto *string
	users.saveProfileFn = func(_ context.Context, userID uint, username string, photoURL *string) (*models.User, error) {
		gotUsername = username
		gotPhoto = photoURL
		return &models.User{ID: userID, Username: username, PhotoURL: photoURL}, nil
	}

	svc := NewProfileService(users)
	user, err := svc.SaveProfile(context.Background(), SaveProfileInput{
		UserID:   3,
		Username: "  Tavernkeeper  ",
		PhotoURL: "https://cdn.example.com/keeper.png",
	})
	require.NoError(t, err)
	assert.Equal(t, "Tavernkeeper", user.Username)
	assert.Equal(t, "Tavernkeeper", gotUsername)
	require.NotNil(t, gotPhoto)
	assert.Equal(t, "https://cdn.example.com/keeper.png", *gotPhoto)
}

func TestProfileService_SaveProfile_EmptyPhotoStoresNull(t *testing.T) {
	users := noopUserRepo()
	var gotPhoto *string
	users.saveProfileFn = func(_ context.Context, userID uint, username string, photoURL *string) (*models.User, error) {
		gotPhoto = photoURL
		return &models.User{ID: userID, Username: username}, nil
	}

	svc := NewProfileService(users)
	_, err := svc.SaveProfile(context.Background(), SaveProfileInput{UserID: 1, Username: "abc", PhotoURL: "  "})
	require.NoError(t, err)
	assert.Nil(t, gotPhoto)
}

func TestProfileService_SaveProfile_Validation(t *testing.T) {
	svc := NewProfileService(noopUserRepo())
	ctx := context.Background()

	t.Run("short username", func(t *testing.T) {
		_, err := svc.SaveProfile(ctx, SaveProfileInput{UserID: 1, Username: "ab"})
		assertValidationError(t, err)
	})

	t.Run("bad charset", func(t *testing.T) {
		_, err := svc.SaveProfile(ctx, SaveProfileInput{UserID: 1, Username: "no spaces"})
		assertValidationError(t, err)
	})

	t.Run("relative photo URL", func(t *testing.T) {
		_, err := svc.SaveProfile(ctx, SaveProfileInput{UserID: 1, Username: "fine", PhotoURL: "/p.png"})
		assertValidationError(t, err)
	})
}

func TestProfileService_IsUsernameAvailable(t *testing.T) {
	users := noopUserRepo()
	users.getReservationFn = func(_ context.Context, username string) (*models.UsernameReservation, error) {
		if username == "taken" {
			return &models.UsernameReservation{Name: "taken", UserID: 2, Username: "Taken"}, nil
		}
		return nil, nil
	}

	svc := NewProfileService(users)
	ctx := context.Background()

	free, err := svc.IsUsernameAvailable(ctx, 1, "fresh")
	require.NoError(t, err)
	assert.True(t, free)

	free, err = svc.IsUsernameAvailable(ctx, 1, "taken")
	require.NoError(t, err)
	assert.False(t, free)

	// The claim owner can keep their own name
	free, err = svc.IsUsernameAvailable(ctx, 2, "taken")
	require.NoError(t, err)
	assert.True(t, free)
}
