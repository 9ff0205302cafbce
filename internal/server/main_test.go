package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"tavern/internal/cache"
	"tavern/internal/config"
	"tavern/internal/models"
	"tavern/internal/storage"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/gofiber/fiber/v2"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		JWTSecret:         "test-secret-key-for-handler-tests",
		Port:              "0",
		Env:               "test",
		FeedPageSize:      50,
		ReplyPreviewCount: 5,
		MediaBackend:      "local",
		MediaDir:          t.TempDir(),
		MediaBaseURL:      "http://localhost:8470/media",
		MediaMaxBytes:     10 * 1024 * 1024,
	}
}

// setupTestServer builds a Server on in-memory sqlite plus miniredis and
// returns it with a routed fiber app.
func setupTestServer(t *testing.T) (*Server, *fiber.App, *gorm.DB) {
	t.Helper()
	t.Setenv("APP_ENV", "test")

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

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	cache.SetClient(rdb)
	t.Cleanup(func() { cache.SetClient(nil) })

	cfg := testConfig(t)
	store, err := storage.NewLocalStore(cfg.MediaDir, cfg.MediaBaseURL)
	if err != nil {
		t.Fatalf("local store: %v", err)
	}

	s, err := NewServerWithDeps(cfg, db, rdb, store)
	if err != nil {
		t.Fatalf("server: %v", err)
	}

	app := fiber.New()
	s.SetupRoutes(app)

	return s, app, db
}

func seedUser(t *testing.T, db *gorm.DB, email, username string) *models.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte("Password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := &models.User{
		Email:    email,
		Password: string(hashed),
		Username: username,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	if username != "" {
		res := &models.UsernameReservation{
			Name:     strings.ToLower(username),
			Username: username,
			UserID:   user.ID,
		}
		if err := db.Create(res).Error; err != nil {
			t.Fatalf("reserve username: %v", err)
		}
	}
	return user
}

func seedPost(t *testing.T, db *gorm.DB, authorID uint, title, category string) *models.Post {
	t.Helper()
	post := &models.Post{
		Category: category,
		Title:    title,
		Body:     "body of " + title,
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

func bearerFor(t *testing.T, s *Server, userID uint) string {
	t.Helper()
	token, err := s.generateToken(userID)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return "Bearer " + token
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any, bearer string) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", bearer)
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}
