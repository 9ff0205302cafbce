package server

import (
	"time"

	"tavern/internal/models"
	"tavern/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateReply handles POST /api/posts/:id/replies
func (s *Server) CreateReply(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Text string `json:"text"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	reply, err := s.replyService.Add(c.Context(), service.AddReplyInput{
		UserID: userID,
		PostID: postID,
		Text:   req.Text,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	payload := map[string]interface{}{
		"post_id":    reply.PostID,
		"reply_id":   reply.ID,
		"author_id":  reply.AuthorID,
		"created_at": time.Now().UTC().Format(time.RFC3339Nano),
	}
	s.publishBroadcastEvent(EventReplyCreated, payload)

	// Nudge the post's author directly, unless they replied to themselves
	if post, perr := s.postService.Get(c.Context(), postID); perr == nil && post.AuthorID != userID {
		s.publishUserEvent(post.AuthorID, EventReplyCreated, payload)
	}

	return c.Status(fiber.StatusCreated).JSON(reply)
}

// GetReplies handles GET /api/posts/:id/replies
func (s *Server) GetReplies(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	views, err := s.replyService.Recent(c.Context(), postID, c.QueryInt("limit"))
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"replies": views})
}
