package handlers

import (
	"io"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/society-api/internal/api/dto"
	"github.com/spec-kit/society-api/internal/service"
	apperrors "github.com/spec-kit/society-api/pkg/util"
)

// UploadsHandler accepts admin image uploads.
type UploadsHandler struct {
	uploads  *service.UploadService
	maxBytes int64
}

func NewUploadsHandler(uploads *service.UploadService, maxBytes int) *UploadsHandler {
	return &UploadsHandler{uploads: uploads, maxBytes: int64(maxBytes)}
}

// Upload handles POST /api/uploads with multipart fields file and folder.
func (h *UploadsHandler) Upload(c *fiber.Ctx) error {
	header, err := c.FormFile("file")
	if err != nil {
		return apperrors.NewValidationError("No file provided", []apperrors.FieldError{{Field: "file", Message: "File is required"}})
	}
	f, err := header.Open()
	if err != nil {
		return err
	}
	defer f.Close()

	// One byte over the limit is enough for the service to reject it.
	data, err := io.ReadAll(io.LimitReader(f, h.maxBytes+1))
	if err != nil {
		return err
	}

	uploaded, err := h.uploads.Upload(c.UserContext(), c.FormValue("folder"), data)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Image uploaded successfully", dto.UploadResponse{
		SecureURL: uploaded.SecureURL,
		PublicID:  uploaded.PublicID,
	})
}
