// Package seed provides helpers to create demo data for the application
// database. These helpers are intended for development and testing only.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"tavern/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var categories = []string{
	"general", "tech", "gaming", "music", "movies",
	"sports", "food", "travel", "books", "science",
}

// Seeder builds domain entities and persists them to the database.
type Seeder struct {
	db *gorm.DB
	r  *rand.Rand
}

// NewSeeder creates a Seeder bound to the provided Gorm DB.
func NewSeeder(db *gorm.DB) *Seeder {
	gofakeit.Seed(time.Now().UnixNano())
	//nolint:gosec // Weak random number generator is fine for seeding
	return &Seeder{db: db, r: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// ClearAll removes all seeded data. Postgres only.
func (s *Seeder) ClearAll() error {
	log.Println("🗑️  Clearing existing data...")
	sql := `TRUNCATE TABLE replies, votes, posts, media_objects, username_reservations, users RESTART IDENTITY CASCADE;`
	return s.db.Exec(sql).Error
}

// SeedUsers creates count accounts with completed profiles plus a handful of
// anonymous guests. All accounts share the password "password123".
func (s *Seeder) SeedUsers(count int) ([]models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash seed password: %w", err)
	}

	users := make([]models.User, 0, count)
	for i := 0; i < count; i++ {
		username := fmt.Sprintf("%s%d", strings.ToLower(gofakeit.Username()), gofakeit.Number(10, 999))
		photo := fmt.Sprintf("https://i.pravatar.cc/150?u=%s", username)

		user := models.User{
			Email:    fmt.Sprintf("%s@example.com", username),
			Password: string(hashed),
			Username: username,
			PhotoURL: &photo,
			Verified: s.r.Float32() < 0.08,
		}
		if err := s.db.Create(&user).Error; err != nil {
			log.Printf("Failed to create user %s: %v", username, err)
			continue
		}

		reservation := models.UsernameReservation{
			Name:     strings.ToLower(username),
			UserID:   user.ID,
			Username: username,
		}
		if err := s.db.Create(&reservation).Error; err != nil {
			log.Printf("Failed to reserve username %s: %v", username, err)
		}
		users = append(users, user)

		if i > 0 && i%100 == 0 {
			log.Printf("Created %d users...", i)
		}
	}

	// A few guests that never saved a profile.
	for i := 0; i < count/10+1; i++ {
		guest := models.User{
			Email:     fmt.Sprintf("guest-%s@anonymous.local", gofakeit.UUID()),
			Password:  string(hashed),
			Anonymous: true,
		}
		if err := s.db.Create(&guest).Error; err != nil {
			log.Printf("Failed to create guest: %v", err)
			continue
		}
		users = append(users, guest)
	}

	return users, nil
}

// SeedPosts creates count posts authored by random profiled users. Around 40%
// carry an image and a smaller share embed a video.
func (s *Seeder) SeedPosts(users []models.User, count int) ([]models.Post, error) {
	authors := profiled(users)
	if len(authors) == 0 {
		return nil, fmt.Errorf("no profiled users to author posts")
	}

	youtubeIDs := []string{"dQw4w9WgXcQ", "9bZkp7q19f0", "3JZ_D3ELwOQ", "L_jWHffIx5E", "kXYiU_JCYtU"}

	posts := make([]models.Post, 0, count)
	for i := 0; i < count; i++ {
		author := authors[s.r.Intn(len(authors))]

		post := models.Post{
			Category:       categories[s.r.Intn(len(categories))],
			Title:          gofakeit.Sentence(5),
			Body:           gofakeit.Paragraph(1, 3, 6, "\n"),
			AuthorID:       author.ID,
			AuthorUsername: author.Username,
			AuthorPhotoURL: author.PhotoURL,
			AuthorVerified: &author.Verified,
			CreatedAt:      s.pastTime(90),
		}

		switch {
		case s.r.Float32() < 0.4:
			img := fmt.Sprintf("https://picsum.photos/seed/%s/800/800", gofakeit.UUID())
			post.ImageURL = &img
		case s.r.Float32() < 0.25:
			id := youtubeIDs[s.r.Intn(len(youtubeIDs))]
			video := fmt.Sprintf("https://www.youtube.com/watch?v=%s", id)
			thumb := fmt.Sprintf("https://img.youtube.com/vi/%s/hqdefault.jpg", id)
			post.VideoURL = &video
			post.ImageURL = &thumb
		}

		if err := s.db.Create(&post).Error; err != nil {
			return nil, err
		}
		posts = append(posts, post)

		if i > 0 && i%100 == 0 {
			log.Printf("Created %d posts...", i)
		}
	}

	return posts, nil
}

// SeedVotes records random like/dislike rows and sets each post's counters to
// match the rows actually written.
func (s *Seeder) SeedVotes(users []models.User, posts []models.Post) (int, error) {
	total := 0
	for i := range posts {
		likes, dislikes := 0, 0
		for _, user := range users {
			roll := s.r.Float32()
			if roll > 0.3 {
				continue
			}
			value := models.VoteLike
			if roll < 0.1 {
				value = models.VoteDislike
			}
			vote := models.Vote{PostID: posts[i].ID, UserID: user.ID, Value: value}
			if err := s.db.Create(&vote).Error; err != nil {
				return total, err
			}
			if value == models.VoteLike {
				likes++
			} else {
				dislikes++
			}
			total++
		}

		err := s.db.Model(&models.Post{}).Where("id = ?", posts[i].ID).
			Updates(map[string]interface{}{"like_count": likes, "dislike_count": dislikes}).Error
		if err != nil {
			return total, err
		}
		posts[i].LikeCount = likes
		posts[i].DislikeCount = dislikes
	}
	return total, nil
}

// SeedReplies spreads count replies across random posts.
func (s *Seeder) SeedReplies(users []models.User, posts []models.Post, count int) (int, error) {
	authors := profiled(users)
	if len(authors) == 0 || len(posts) == 0 {
		return 0, nil
	}

	created := 0
	for i := 0; i < count; i++ {
		author := authors[s.r.Intn(len(authors))]
		post := posts[s.r.Intn(len(posts))]

		reply := models.Reply{
			PostID:         post.ID,
			Text:           gofakeit.Sentence(s.r.Intn(15) + 3),
			AuthorID:       author.ID,
			AuthorUsername: author.Username,
			AuthorPhotoURL: author.PhotoURL,
			AuthorVerified: &author.Verified,
			CreatedAt:      s.pastTime(30),
		}
		if err := s.db.Create(&reply).Error; err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}

func (s *Seeder) pastTime(maxDays int) time.Time {
	daysBack := s.r.Intn(maxDays)
	hoursBack := s.r.Intn(24)
	minsBack := s.r.Intn(60)
	return time.Now().Add(-time.Duration(daysBack)*24*time.Hour -
		time.Duration(hoursBack)*time.Hour - time.Duration(minsBack)*time.Minute)
}

func profiled(users []models.User) []models.User {
	out := make([]models.User, 0, len(users))
	for _, u := range users {
		if u.HasProfile() {
			out = append(out, u)
		}
	}
	return out
}
