package service

import (
	"context"
	"strings"

	"tavern/internal/models"
	"tavern/internal/observability"
	"tavern/internal/repository"
	"tavern/internal/validation"
)

const (
	maxTitleLen    = 300
	maxBodyLen     = 10000
	maxCategoryLen = 64
)

// PostService handles post publishing.
type PostService struct {
	postRepo repository.PostRepository
	userRepo repository.UserRepository
}

type PublishPostInput struct {
	UserID   uint
	Category string
	Title    string
	Body     string
	ImageURL string
	VideoURL string
}

func NewPostService(postRepo repository.PostRepository, userRepo repository.UserRepository) *PostService {
	return &PostService{postRepo: postRepo, userRepo: userRepo}
}

// Publish validates the draft, snapshots the author's profile onto the post,
// and stores it. Publishing requires a completed profile.
func (s *PostService) Publish(ctx context.Context, in PublishPostInput) (*models.Post, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if len(title) > maxTitleLen {
		return nil, models.NewValidationError("Title too long (max 300 characters)")
	}

	body := strings.TrimSpace(in.Body)
	if body == "" {
		return nil, models.NewValidationError("Body is required")
	}
	if len(body) > maxBodyLen {
		return nil, models.NewValidationError("Body too long (max 10000 characters)")
	}

	category := strings.TrimSpace(strings.ToLower(in.Category))
	if category == "" {
		category = models.DefaultCategory
	}
	if len(category) > maxCategoryLen {
		return nil, models.NewValidationError("Category too long")
	}

	imageURL, err := validation.NormalizeURL(in.ImageURL)
	if err != nil {
		return nil, models.NewValidationError("Image URL " + err.Error())
	}
	videoURL, err := validation.NormalizeURL(in.VideoURL)
	if err != nil {
		return nil, models.NewValidationError("Video URL " + err.Error())
	}

	author, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	if !author.HasProfile() {
		return nil, models.NewValidationError("Complete your profile before posting")
	}

	verified := author.Verified
	post := &models.Post{
		Category:       category,
		Title:          title,
		Body:           body,
		ImageURL:       imageURL,
		VideoURL:       videoURL,
		AuthorID:       author.ID,
		AuthorUsername: author.Username,
		AuthorPhotoURL: author.PhotoURL,
		AuthorVerified: &verified,
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	observability.PostsPublished.WithLabelValues(post.Category).Inc()
	return post, nil
}

// Get returns a single post by ID.
func (s *PostService) Get(ctx context.Context, id uint) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, id)
}
