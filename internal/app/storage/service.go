package storage

import (
	"context"
	"io"
	"time"
)

// ServiceConfig holds the configuration required to connect to the storage service.
type ServiceConfig struct {
	S3BucketName      string
	S3Endpoint        string
	S3AccessKeyID     string
	S3SecretAccessKey string

	// PublicBaseURL, when set, is the CDN or bucket URL prefix used to build
	// the public URL of uploaded assets. Empty means assets are served via
	// presigned downloads only.
	PublicBaseURL string
}

// StorageService defines the public interface for the file storage service.
type StorageService interface {
	// Upload streams an object into the bucket and returns its public URL.
	Upload(ctx context.Context, key, mimeType string, body io.Reader) (string, error)

	// PresignDownload generates a time-limited URL for downloading the object.
	PresignDownload(ctx context.Context, key string, duration time.Duration) (string, error)

	// Delete removes the object with the given key.
	Delete(ctx context.Context, key string) error
}

// NewService initializes the S3-backed storage service.
func NewService(cfg ServiceConfig) (StorageService, error) {
	return newS3Client(cfg)
}
