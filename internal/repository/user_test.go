package repository

import (
	"context"
	"testing"

	"tavern/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_SaveProfile(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "alice@example.com", "")

	photo := "https://cdn.example.com/alice.png"
	saved, err := repo.SaveProfile(ctx, user.ID, "Alice", &photo)
	require.NoError(t, err)
	assert.Equal(t, "Alice", saved.Username)
	require.NotNil(t, saved.PhotoURL)
	assert.Equal(t, photo, *saved.PhotoURL)

	res, err := repo.GetReservation(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, user.ID, res.UserID)
	assert.Equal(t, "Alice", res.Username)
}

func TestUserRepository_SaveProfile_TakenName(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice@example.com", "")
	bob := createTestUser(t, db, "bob@example.com", "")

	_, err := repo.SaveProfile(ctx, alice.ID, "Alice", nil)
	require.NoError(t, err)

	// Case-insensitive collision with Alice's claim
	_, err = repo.SaveProfile(ctx, bob.ID, "ALICE", nil)
	require.Error(t, err)

	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "CONFLICT", appErr.Code)
}

func TestUserRepository_SaveProfile_ReSaveOwnName(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "alice@example.com", "")

	_, err := repo.SaveProfile(ctx, user.ID, "alice", nil)
	require.NoError(t, err)

	// Changing only the casing of your own name is allowed
	saved, err := repo.SaveProfile(ctx, user.ID, "Alice", nil)
	require.NoError(t, err)
	assert.Equal(t, "Alice", saved.Username)

	res, err := repo.GetReservation(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, "Alice", res.Username)
}

func TestUserRepository_SaveProfile_RenameReleasesOldClaim(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice@example.com", "")
	bob := createTestUser(t, db, "bob@example.com", "")

	_, err := repo.SaveProfile(ctx, alice.ID, "Alice", nil)
	require.NoError(t, err)

	_, err = repo.SaveProfile(ctx, alice.ID, "Wanderer", nil)
	require.NoError(t, err)

	// The old name is free again
	_, err = repo.SaveProfile(ctx, bob.ID, "Alice", nil)
	require.NoError(t, err)
}

func TestUserRepository_SaveProfile_MissingUser(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)

	_, err := repo.SaveProfile(context.Background(), 9999, "ghost", nil)
	require.Error(t, err)

	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}

func TestUserRepository_GetByEmail(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	created := createTestUser(t, db, "found@example.com", "found")

	user, err := repo.GetByEmail(ctx, "found@example.com")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, created.ID, user.ID)

	missing, err := repo.GetByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestUserRepository_Create_DuplicateEmail(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.User{Email: "dup@example.com", Password: "x"}))

	err := repo.Create(ctx, &models.User{Email: "dup@example.com", Password: "y"})
	require.Error(t, err)

	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
}
