package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/society-api/internal/config"
	"github.com/spec-kit/society-api/internal/media"
	apperrors "github.com/spec-kit/society-api/pkg/util"
)

var folderPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+(/[A-Za-z0-9_-]+)*$`)

// UploadService validates images and forwards them to the image host.
type UploadService struct {
	normalizer    *media.Normalizer
	host          media.ImageHost
	maxBytes      int
	defaultFolder string
	logger        *zap.Logger
}

// NewUploadService builds the service.
func NewUploadService(cfg config.UploadConfig, host media.ImageHost, logger *zap.Logger) *UploadService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UploadService{
		normalizer:    media.NewNormalizer(cfg.MaxDimension),
		host:          host,
		maxBytes:      cfg.MaxBytes,
		defaultFolder: cfg.DefaultFolder,
		logger:        logger,
	}
}

// Upload normalizes data and stores it in folder.
func (s *UploadService) Upload(ctx context.Context, folder string, data []byte) (*media.Uploaded, error) {
	folder = strings.Trim(strings.TrimSpace(folder), "/")
	if folder == "" {
		folder = s.defaultFolder
	}
	if !folderPattern.MatchString(folder) {
		return nil, apperrors.NewValidationError("", []apperrors.FieldError{{Field: "folder", Message: "Folder may only contain letters, digits, dashes and underscores"}})
	}
	if len(data) == 0 {
		return nil, apperrors.NewValidationError("No file uploaded", []apperrors.FieldError{{Field: "file", Message: "File is required"}})
	}
	if len(data) > s.maxBytes {
		return nil, apperrors.NewValidationError("", []apperrors.FieldError{{Field: "file", Message: fmt.Sprintf("File must be at most %d bytes", s.maxBytes)}})
	}

	img, err := s.normalizer.Normalize(data)
	if err != nil {
		if errors.Is(err, media.ErrUnsupportedFormat) {
			return nil, apperrors.NewValidationError("Only image files are allowed", []apperrors.FieldError{{Field: "file", Message: "Only image files are allowed"}})
		}
		return nil, apperrors.NewValidationError("Image could not be read", []apperrors.FieldError{{Field: "file", Message: "Image could not be read"}})
	}

	uploaded, err := s.host.Upload(ctx, folder, img)
	if err != nil {
		s.logger.Error("image host upload failed", zap.String("folder", folder), zap.Error(err))
		return nil, apperrors.NewUpstreamError("Image upload failed", err)
	}
	s.logger.Info("image uploaded", zap.String("public_id", uploaded.PublicID), zap.Int("width", img.Width), zap.Int("height", img.Height))
	return uploaded, nil
}
