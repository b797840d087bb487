// Package storage provides object storage for uploaded media.
package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"path"
	"strings"
	"time"

	"viewtube/internal/config"
	"viewtube/internal/middleware"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Uploader abstracts the blob store so services and tests do not depend on MinIO directly.
type Uploader interface {
	Upload(ctx context.Context, reader io.Reader, size int64, contentType string) (url string, objectKey string, err error)
	Delete(ctx context.Context, objectKey string) error
	BulkDelete(ctx context.Context, objectKeys []string)
}

// MinioStore implements Uploader on a MinIO (S3-compatible) bucket.
type MinioStore struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

// NewMinioStore connects to MinIO and ensures the configured bucket exists.
func NewMinioStore(cfg *config.Config) (*MinioStore, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, cfg.MinioBucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %q: %w", cfg.MinioBucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.MinioBucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %q: %w", cfg.MinioBucket, err)
		}
	}

	publicURL := cfg.MinioPublicURL
	if publicURL == "" {
		scheme := "http"
		if cfg.MinioUseSSL {
			scheme = "https"
		}
		publicURL = fmt.Sprintf("%s://%s", scheme, cfg.MinioEndpoint)
	}

	return &MinioStore{
		client:    client,
		bucket:    cfg.MinioBucket,
		publicURL: strings.TrimRight(publicURL, "/"),
	}, nil
}

// Upload stores the stream under a fresh object key and returns its public URL and key.
func (s *MinioStore) Upload(ctx context.Context, reader io.Reader, size int64, contentType string) (string, string, error) {
	objectKey := objectKeyFor(contentType)

	_, err := s.client.PutObject(ctx, s.bucket, objectKey, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		middleware.BlobOperations.WithLabelValues("upload", "error").Inc()
		return "", "", fmt.Errorf("failed to upload object: %w", err)
	}

	middleware.BlobOperations.WithLabelValues("upload", "success").Inc()
	return fmt.Sprintf("%s/%s/%s", s.publicURL, s.bucket, objectKey), objectKey, nil
}

// Delete removes a single object from the bucket.
func (s *MinioStore) Delete(ctx context.Context, objectKey string) error {
	if objectKey == "" {
		return nil
	}
	if err := s.client.RemoveObject(ctx, s.bucket, objectKey, minio.RemoveObjectOptions{}); err != nil {
		middleware.BlobOperations.WithLabelValues("delete", "error").Inc()
		return fmt.Errorf("failed to delete object %q: %w", objectKey, err)
	}
	middleware.BlobOperations.WithLabelValues("delete", "success").Inc()
	return nil
}

// BulkDelete removes a batch of objects. Per-object failures are logged and
// counted but do not stop the rest of the batch; blob cleanup is best effort
// once the owning database row is gone.
func (s *MinioStore) BulkDelete(ctx context.Context, objectKeys []string) {
	for _, key := range objectKeys {
		if key == "" {
			continue
		}
		if err := s.Delete(ctx, key); err != nil {
			middleware.Logger.WarnContext(ctx, "Orphaned blob after failed delete",
				slog.String("object_key", key),
				slog.String("error", err.Error()),
			)
		}
	}
}

func objectKeyFor(contentType string) string {
	now := time.Now().UTC()
	ext := extensionFor(contentType)
	return path.Join(now.Format("2006/01/02"), uuid.NewString()+ext)
}

func extensionFor(contentType string) string {
	switch contentType {
	case "video/mp4":
		return ".mp4"
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	case "audio/mpeg":
		return ".mp3"
	}
	if exts, err := mime.ExtensionsByType(contentType); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ""
}
