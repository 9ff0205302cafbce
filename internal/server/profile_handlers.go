package server

import (
	"tavern/internal/models"
	"tavern/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetMyProfile handles GET /api/users/me
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	user, err := s.profileService.GetMe(c.Context(), userID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"user":          user,
		"needs_profile": !user.HasProfile(),
	})
}

// SaveMyProfile handles PUT /api/users/me/profile
func (s *Server) SaveMyProfile(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req struct {
		Username string `json:"username"`
		PhotoURL string `json:"photo_url"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.profileService.SaveProfile(c.Context(), service.SaveProfileInput{
		UserID:   userID,
		Username: req.Username,
		PhotoURL: req.PhotoURL,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"user": user})
}

// CheckUsernameAvailable handles GET /api/users/username-available?u=name
func (s *Server) CheckUsernameAvailable(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	username := c.Query("u")
	if username == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Query parameter 'u' is required"))
	}

	available, err := s.profileService.IsUsernameAvailable(c.Context(), userID, username)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"username":  username,
		"available": available,
	})
}
