package media

import (
	"bytes"
	"context"
	"errors"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/google/uuid"

	"github.com/spec-kit/society-api/internal/config"
)

// ErrHostNotConfigured is returned by Unconfigured.
var ErrHostNotConfigured = errors.New("image host not configured")

// Uploaded describes a stored image.
type Uploaded struct {
	SecureURL string
	PublicID  string
}

// ImageHost stores images and returns their public location.
type ImageHost interface {
	Upload(ctx context.Context, folder string, img *Image) (*Uploaded, error)
}

// Unconfigured rejects every upload. Used when no bucket is set.
type Unconfigured struct{}

func (Unconfigured) Upload(context.Context, string, *Image) (*Uploaded, error) {
	return nil, ErrHostNotConfigured
}

type s3Uploader interface {
	UploadWithContext(ctx aws.Context, input *s3manager.UploadInput, opts ...func(*s3manager.Uploader)) (*s3manager.UploadOutput, error)
}

// S3Host puts images into an S3-compatible bucket.
type S3Host struct {
	uploader      s3Uploader
	bucket        string
	publicBaseURL string
}

// NewS3Host opens an AWS session for the configured bucket.
func NewS3Host(cfg config.S3Config) (*S3Host, error) {
	if !cfg.Enabled() {
		return nil, ErrHostNotConfigured
	}
	awsCfg := aws.NewConfig().
		WithRegion(cfg.Region).
		WithS3ForcePathStyle(cfg.ForcePathStyle)
	if cfg.Endpoint != "" {
		awsCfg = awsCfg.WithEndpoint(cfg.Endpoint)
	}
	if cfg.AccessKey != "" {
		awsCfg = awsCfg.WithCredentials(credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, ""))
	}

	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, err
	}
	return &S3Host{
		uploader:      s3manager.NewUploader(sess),
		bucket:        cfg.Bucket,
		publicBaseURL: cfg.PublicBaseURL,
	}, nil
}

// Upload stores the image under folder/<uuid><ext>. The public id omits the extension.
func (h *S3Host) Upload(ctx context.Context, folder string, img *Image) (*Uploaded, error) {
	publicID := path.Join(strings.Trim(folder, "/"), uuid.NewString())
	key := publicID + img.Ext

	out, err := h.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket:      aws.String(h.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(img.Data),
		ContentType: aws.String(img.ContentType),
	})
	if err != nil {
		return nil, err
	}

	location := out.Location
	if h.publicBaseURL != "" {
		location = h.publicBaseURL + "/" + key
	}
	return &Uploaded{SecureURL: location, PublicID: publicID}, nil
}
