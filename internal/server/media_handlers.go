package server

import (
	"io"

	"tavern/internal/models"
	"tavern/internal/service"

	"github.com/gofiber/fiber/v2"
)

// UploadMedia handles POST /api/media. Expects a multipart form with a
// single "file" field. Images are re-encoded server side; videos are stored
// as uploaded.
func (s *Server) UploadMedia(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("A 'file' form field is required"))
	}

	f, err := fileHeader.Open()
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Could not read uploaded file"))
	}
	defer func() { _ = f.Close() }()

	content, err := io.ReadAll(io.LimitReader(f, s.config.MediaMaxBytes+1))
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	obj, err := s.mediaService.Upload(c.Context(), service.UploadMediaInput{
		OwnerID:     userID,
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Content:     content,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(obj)
}
