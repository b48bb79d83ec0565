package uploads

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	appconfig "aquafund-backend/internal/config"
	"aquafund-backend/internal/pkg/apperr"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// MaxImageBytes is the largest accepted upload.
const MaxImageBytes = 5 << 20

// keyPrefix is the folder project images are stored under.
const keyPrefix = "projects/"

// ObjectPutter is the part of *s3.Client an upload needs.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Service stores project images in an S3-compatible bucket served by a CDN.
type Service struct {
	Client     ObjectPutter
	Bucket     string
	CDNBaseURL string
}

// NewR2 builds a Service against Cloudflare R2 with static credentials.
func NewR2(ctx context.Context, cfg appconfig.StorageConfig) (*Service, error) {
	if !cfg.Enabled() {
		return nil, apperr.ErrStorageNotSet
	}
	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion("auto"),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.AccessKeySecret, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("uploads: load R2 config: %w", err)
	}
	endpoint := fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.AccountID)
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
	})

	cdn := cfg.CDNBaseURL
	if cdn == "" {
		cdn = endpoint + "/" + cfg.Bucket
	}
	return &Service{Client: client, Bucket: cfg.Bucket, CDNBaseURL: strings.TrimRight(cdn, "/")}, nil
}

// IsImage reports whether contentType is an image/* type.
func IsImage(contentType string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(contentType)), "image/")
}

// ObjectKey returns projects/<uuid><ext> for filename, keeping a lower-cased extension.
func ObjectKey(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if len(ext) > 10 || strings.ContainsAny(ext, "/\\ ") {
		ext = ""
	}
	return keyPrefix + uuid.NewString() + ext
}

// Upload stores body under a fresh key and returns its public CDN URL.
func (s *Service) Upload(ctx context.Context, filename, contentType string, body io.Reader, size int64) (string, error) {
	if s == nil || s.Client == nil {
		return "", apperr.ErrStorageNotSet
	}
	key := ObjectKey(filename)
	_, err := s.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.Bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(size),
	})
	if err != nil {
		return "", fmt.Errorf("uploads: put %s: %w", key, err)
	}
	return s.CDNBaseURL + "/" + key, nil
}
