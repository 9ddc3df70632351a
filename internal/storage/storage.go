package storage

import (
	"bytes"
	"context"
	"fmt"

	"github.com/andresuchdata/stockpulse/internal/config"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ObjectStorage archives binary artifacts (generated report workbooks).
type ObjectStorage interface {
	Upload(ctx context.Context, key string, content []byte, contentType string) error
}

type minioStorage struct {
	client *minio.Client
	bucket string
}

// NewMinioStorage builds an ObjectStorage backed by any S3-compatible
// endpoint (MinIO, Sevalla, AWS).
func NewMinioStorage(cfg config.StorageConfig) (ObjectStorage, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("storage endpoint must be provided")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("storage credentials must be provided")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("storage bucket must be provided")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build storage client: %w", err)
	}

	return &minioStorage{client: client, bucket: cfg.Bucket}, nil
}

func (s *minioStorage) Upload(ctx context.Context, key string, content []byte, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(content), int64(len(content)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("storage upload %s failed: %w", key, err)
	}
	return nil
}
