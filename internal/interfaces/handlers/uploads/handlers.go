package uploads

import (
	"context"
	"io"

	uploadsvc "aquafund-backend/internal/application/uploads"
	"aquafund-backend/internal/middleware"
	"aquafund-backend/internal/pkg/apperr"
	"aquafund-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// Uploader stores an image and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, filename, contentType string, body io.Reader, size int64) (string, error)
}

// Handlers serves project image uploads. A nil Uploader means storage is not configured.
type Handlers struct {
	Uploader Uploader
}

// Upload POST /api/upload (auth required, multipart field "file")
func (h *Handlers) Upload(c *fiber.Ctx) error {
	if h.Uploader == nil {
		return response.FromError(c, apperr.ErrStorageNotSet)
	}
	fh, err := c.FormFile("file")
	if err != nil {
		return response.FromError(c, &apperr.ValidationError{Missing: []string{"file"}})
	}
	contentType := fh.Header.Get(fiber.HeaderContentType)
	if !uploadsvc.IsImage(contentType) {
		return response.Error(c, "Only image files are allowed", fiber.StatusBadRequest)
	}
	if fh.Size > uploadsvc.MaxImageBytes {
		return response.Error(c, "File too large (max 5MB)", fiber.StatusBadRequest)
	}

	f, err := fh.Open()
	if err != nil {
		return response.Error(c, "Failed to read file", fiber.StatusBadRequest)
	}
	defer f.Close()

	url, err := h.Uploader.Upload(c.UserContext(), fh.Filename, contentType, f, fh.Size)
	if err != nil {
		log.Error().Err(err).Str("trace_id", middleware.GetTraceID(c)).Str("file", fh.Filename).Msg("upload: failed to store image")
		return response.Error(c, "Failed to upload file", fiber.StatusBadGateway)
	}
	return response.JSON(c, fiber.StatusOK, fiber.Map{"url": url})
}
