package service

import (
	"context"
	"strings"

	"tavern/internal/models"
	"tavern/internal/observability"
	"tavern/internal/repository"
)

const (
	maxReplyLen  = 2000
	maxReplyPage = 50
)

// ReplyService handles post replies.
type ReplyService struct {
	replyRepo repository.ReplyRepository
	userRepo  repository.UserRepository
	preview   int
}

type AddReplyInput struct {
	UserID uint
	PostID uint
	Text   string
}

func NewReplyService(replyRepo repository.ReplyRepository, userRepo repository.UserRepository, preview int) *ReplyService {
	if preview <= 0 {
		preview = 5
	}
	return &ReplyService{replyRepo: replyRepo, userRepo: userRepo, preview: preview}
}

// Add validates and stores a reply, snapshotting the author's profile the same
// way posts do.
func (s *ReplyService) Add(ctx context.Context, in AddReplyInput) (*models.Reply, error) {
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, models.NewValidationError("Reply text is required")
	}
	if len(text) > maxReplyLen {
		return nil, models.NewValidationError("Reply too long (max 2000 characters)")
	}

	author, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	if !author.HasProfile() {
		return nil, models.NewValidationError("Complete your profile before replying")
	}

	verified := author.Verified
	reply := &models.Reply{
		PostID:         in.PostID,
		Text:           text,
		AuthorID:       author.ID,
		AuthorUsername: author.Username,
		AuthorPhotoURL: author.PhotoURL,
		AuthorVerified: &verified,
	}

	if err := s.replyRepo.Create(ctx, reply); err != nil {
		return nil, err
	}

	observability.RepliesPosted.Inc()
	return reply, nil
}

// Recent returns the newest replies for a post as display-ready views.
// A non-positive limit falls back to the configured preview count.
func (s *ReplyService) Recent(ctx context.Context, postID uint, limit int) ([]*ReplyView, error) {
	if limit <= 0 {
		limit = s.preview
	}
	if limit > maxReplyPage {
		limit = maxReplyPage
	}
	replies, err := s.replyRepo.ListRecent(ctx, postID, limit)
	if err != nil {
		return nil, err
	}

	verifiedByAuthor := map[uint]bool{}
	views := make([]*ReplyView, 0, len(replies))
	for _, r := range replies {
		displayName := resolveDisplayName(r.AuthorUsername, "")
		verified, err := resolveVerified(ctx, s.userRepo, r.AuthorVerified, r.AuthorID, verifiedByAuthor)
		if err != nil {
			return nil, err
		}
		views = append(views, &ReplyView{
			ID:          r.ID,
			Text:        r.Text,
			DisplayName: displayName,
			AvatarURL:   resolveAvatar(r.AuthorPhotoURL, displayName),
			Verified:    verified,
			CreatedAt:   r.CreatedAt,
		})
	}
	return views, nil
}
