package repository

import (
	"testing"

	"tavern/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.UsernameReservation{},
		&models.Post{},
		&models.Vote{},
		&models.Reply{},
		&models.MediaObject{},
	); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, email, username string) *models.User {
	t.Helper()
	user := &models.User{
		Email:    email,
		Password: "hashed",
		Username: username,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func createTestPost(t *testing.T, db *gorm.DB, authorID uint, title, category string) *models.Post {
	t.Helper()
	post := &models.Post{
		Category: category,
		Title:    title,
		AuthorID: authorID,
	}
	if post.Category == "" {
		post.Category = models.DefaultCategory
	}
	if err := db.Create(post).Error; err != nil {
		t.Fatalf("create post: %v", err)
	}
	return post
}
