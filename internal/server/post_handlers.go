package server

import (
	"time"

	"tavern/internal/models"
	"tavern/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetFeed handles GET /api/feed?c=<category>&p=<postID>. The permalink
// parameter pins the feed to a single post and wins over the category filter.
func (s *Server) GetFeed(c *fiber.Ctx) error {
	viewerID, _ := currentUserID(c)

	q := service.FeedQuery{
		Category: c.Query("c"),
		ViewerID: viewerID,
	}
	if p := c.QueryInt("p", 0); p > 0 {
		q.Permalink = uint(p)
	}

	items, err := s.feedService.GetFeed(c.Context(), q)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"items": items})
}

// GetPost handles GET /api/posts/:id
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.Get(c.Context(), id)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(post)
}

// CreatePost handles POST /api/posts
func (s *Server) CreatePost(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req struct {
		Category string `json:"category"`
		Title    string `json:"title"`
		Body     string `json:"body"`
		ImageURL string `json:"image_url,omitempty"`
		VideoURL string `json:"video_url,omitempty"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.Publish(c.Context(), service.PublishPostInput{
		UserID:   userID,
		Category: req.Category,
		Title:    req.Title,
		Body:     req.Body,
		ImageURL: req.ImageURL,
		VideoURL: req.VideoURL,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	s.publishBroadcastEvent(EventPostCreated, map[string]interface{}{
		"post_id":    post.ID,
		"category":   post.Category,
		"author_id":  post.AuthorID,
		"created_at": time.Now().UTC().Format(time.RFC3339Nano),
	})

	return c.Status(fiber.StatusCreated).JSON(post)
}

// VotePost handles POST /api/posts/:id/vote
func (s *Server) VotePost(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Direction int `json:"direction"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	result, err := s.voteService.Vote(c.Context(), service.VoteInput{
		UserID:    userID,
		PostID:    postID,
		Direction: req.Direction,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	if result.Post != nil {
		payload := map[string]interface{}{
			"post_id":       result.Post.ID,
			"like_count":    result.Post.LikeCount,
			"dislike_count": result.Post.DislikeCount,
		}
		s.publishBroadcastEvent(EventPostReactionUpdated, payload)
		if result.Post.AuthorID != userID {
			s.publishUserEvent(result.Post.AuthorID, EventPostReactionUpdated, payload)
		}
	}

	return c.JSON(result)
}
