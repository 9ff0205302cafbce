package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"tavern/internal/models"
	"tavern/internal/observability"
	"tavern/internal/repository"
)

// FeedService assembles the rendered feed: posts with resolved author
// display fields, the viewer's votes, and a reply preview per post.
type FeedService struct {
	postRepo     repository.PostRepository
	voteRepo     repository.VoteRepository
	replyRepo    repository.ReplyRepository
	userRepo     repository.UserRepository
	pageSize     int
	replyPreview int
}

// FeedQuery selects what the feed shows. Permalink pins the feed to a single
// post and takes precedence over Category; the two are mutually exclusive
// filters by design.
type FeedQuery struct {
	Category  string
	Permalink uint
	ViewerID  uint
}

// FeedItem is a post prepared for rendering.
type FeedItem struct {
	Post        *models.Post `json:"post"`
	DisplayName string       `json:"display_name"`
	AvatarURL   string       `json:"avatar_url"`
	Verified    bool         `json:"verified"`
	MyVote      int          `json:"my_vote"`
	Replies     []*ReplyView `json:"replies"`
	ReplyCount  int64        `json:"reply_count"`
}

// ReplyView is a reply prepared for rendering.
type ReplyView struct {
	ID          uint      `json:"id"`
	Text        string    `json:"text"`
	DisplayName string    `json:"display_name"`
	AvatarURL   string    `json:"avatar_url"`
	Verified    bool      `json:"verified"`
	CreatedAt   time.Time `json:"created_at"`
}

func NewFeedService(
	postRepo repository.PostRepository,
	voteRepo repository.VoteRepository,
	replyRepo repository.ReplyRepository,
	userRepo repository.UserRepository,
	pageSize, replyPreview int,
) *FeedService {
	if pageSize <= 0 {
		pageSize = 50
	}
	if replyPreview <= 0 {
		replyPreview = 5
	}
	return &FeedService{
		postRepo:     postRepo,
		voteRepo:     voteRepo,
		replyRepo:    replyRepo,
		userRepo:     userRepo,
		pageSize:     pageSize,
		replyPreview: replyPreview,
	}
}

// GetFeed returns the newest posts for the query, fully resolved for display.
func (s *FeedService) GetFeed(ctx context.Context, q FeedQuery) ([]*FeedItem, error) {
	var posts []*models.Post

	// "all" is the client's explicit no-filter value
	category := strings.ToLower(strings.TrimSpace(q.Category))
	if category == "all" {
		category = ""
	}

	switch {
	case q.Permalink != 0:
		post, err := s.postRepo.GetByID(ctx, q.Permalink)
		if err != nil {
			// A vanished pinned post renders an empty feed, not an error page.
			var appErr *models.AppError
			if errors.As(err, &appErr) && appErr.Code == "NOT_FOUND" {
				observability.FeedServed.WithLabelValues("permalink").Inc()
				return []*FeedItem{}, nil
			}
			return nil, err
		}
		posts = []*models.Post{post}
		observability.FeedServed.WithLabelValues("permalink").Inc()
	case category != "":
		var err error
		posts, err = s.postRepo.List(ctx, category, s.pageSize)
		if err != nil {
			return nil, err
		}
		observability.FeedServed.WithLabelValues("category").Inc()
	default:
		var err error
		posts, err = s.postRepo.List(ctx, "", s.pageSize)
		if err != nil {
			return nil, err
		}
		observability.FeedServed.WithLabelValues("all").Inc()
	}

	// One vote query for the whole page
	votes := map[uint]int{}
	if q.ViewerID != 0 && len(posts) > 0 {
		ids := make([]uint, len(posts))
		for i, p := range posts {
			ids[i] = p.ID
		}
		var err error
		votes, err = s.voteRepo.GetForPosts(ctx, q.ViewerID, ids)
		if err != nil {
			return nil, err
		}
	}

	verifiedByAuthor := map[uint]bool{}
	items := make([]*FeedItem, 0, len(posts))
	for _, post := range posts {
		item, err := s.buildItem(ctx, post, verifiedByAuthor)
		if err != nil {
			return nil, err
		}
		item.MyVote = votes[post.ID]
		items = append(items, item)
	}
	return items, nil
}

func (s *FeedService) buildItem(ctx context.Context, post *models.Post, verifiedByAuthor map[uint]bool) (*FeedItem, error) {
	displayName := resolveDisplayName(post.AuthorUsername, post.LegacyAuthor)

	verified, err := resolveVerified(ctx, s.userRepo, post.AuthorVerified, post.AuthorID, verifiedByAuthor)
	if err != nil {
		return nil, err
	}

	replies, err := s.replyRepo.ListRecent(ctx, post.ID, s.replyPreview)
	if err != nil {
		return nil, err
	}
	replyCount, err := s.replyRepo.CountForPost(ctx, post.ID)
	if err != nil {
		return nil, err
	}

	views := make([]*ReplyView, 0, len(replies))
	for _, r := range replies {
		rv, err := s.buildReplyView(ctx, r, verifiedByAuthor)
		if err != nil {
			return nil, err
		}
		views = append(views, rv)
	}

	return &FeedItem{
		Post:        post,
		DisplayName: displayName,
		AvatarURL:   resolveAvatar(post.AuthorPhotoURL, displayName),
		Verified:    verified,
		Replies:     views,
		ReplyCount:  replyCount,
	}, nil
}

func (s *FeedService) buildReplyView(ctx context.Context, r *models.Reply, verifiedByAuthor map[uint]bool) (*ReplyView, error) {
	displayName := resolveDisplayName(r.AuthorUsername, "")
	verified, err := resolveVerified(ctx, s.userRepo, r.AuthorVerified, r.AuthorID, verifiedByAuthor)
	if err != nil {
		return nil, err
	}
	return &ReplyView{
		ID:          r.ID,
		Text:        r.Text,
		DisplayName: displayName,
		AvatarURL:   resolveAvatar(r.AuthorPhotoURL, displayName),
		Verified:    verified,
		CreatedAt:   r.CreatedAt,
	}, nil
}

