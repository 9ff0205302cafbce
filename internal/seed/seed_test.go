package seed

import (
	"testing"

	"tavern/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func seedDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.UsernameReservation{},
		&models.Post{}, &models.Vote{}, &models.Reply{},
	))
	return db
}

func TestSeeder_Users(t *testing.T) {
	db := seedDB(t)
	s := NewSeeder(db)

	users, err := s.SeedUsers(10)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(users), 10)

	profiledCount := 0
	for _, u := range users {
		if u.HasProfile() {
			profiledCount++
			var res models.UsernameReservation
			require.NoError(t, db.First(&res, "user_id = ?", u.ID).Error)
			require.Equal(t, u.Username, res.Username)
		} else {
			require.True(t, u.Anonymous)
		}
	}
	require.Equal(t, 10, profiledCount)
}

func TestSeeder_VoteCountersMatchRows(t *testing.T) {
	db := seedDB(t)
	s := NewSeeder(db)

	users, err := s.SeedUsers(20)
	require.NoError(t, err)
	posts, err := s.SeedPosts(users, 15)
	require.NoError(t, err)
	_, err = s.SeedVotes(users, posts)
	require.NoError(t, err)

	for _, p := range posts {
		var stored models.Post
		require.NoError(t, db.First(&stored, p.ID).Error)

		var likes, dislikes int64
		require.NoError(t, db.Model(&models.Vote{}).
			Where("post_id = ? AND value = ?", p.ID, models.VoteLike).Count(&likes).Error)
		require.NoError(t, db.Model(&models.Vote{}).
			Where("post_id = ? AND value = ?", p.ID, models.VoteDislike).Count(&dislikes).Error)

		require.EqualValues(t, likes, stored.LikeCount)
		require.EqualValues(t, dislikes, stored.DislikeCount)
	}
}

func TestSeeder_RepliesOnlyFromProfiledAuthors(t *testing.T) {
	db := seedDB(t)
	s := NewSeeder(db)

	users, err := s.SeedUsers(5)
	require.NoError(t, err)
	posts, err := s.SeedPosts(users, 5)
	require.NoError(t, err)
	created, err := s.SeedReplies(users, posts, 25)
	require.NoError(t, err)
	require.Equal(t, 25, created)

	var replies []models.Reply
	require.NoError(t, db.Find(&replies).Error)
	for _, r := range replies {
		require.NotEmpty(t, r.AuthorUsername)
		require.NotEmpty(t, r.Text)
	}
}
