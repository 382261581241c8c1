package infra

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"path/filepath"
	"time"

	"github.com/Vovarama1992/sintesi/internal/config"
	"github.com/Vovarama1992/sintesi/internal/ports"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type s3Client struct {
	client *minio.Client
	bucket string
	host   string
}

func NewS3Client(cfg config.S3Config) (ports.S3Client, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: true,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to init S3 client: %w", err)
	}

	// проверим, что бакет существует
	exists, err := client.BucketExists(context.Background(), cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("bucket %q does not exist", cfg.Bucket)
	}

	return &s3Client{
		client: client,
		bucket: cfg.Bucket,
		host:   fmt.Sprintf("https://%s", cfg.Endpoint),
	}, nil
}

// PutObject загружает файл и возвращает публичный URL
func (s *s3Client) PutObject(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	buf := new(bytes.Buffer)
	if _, err := io.Copy(buf, r); err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}

	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(buf.Bytes()), int64(buf.Len()), minio.PutObjectOptions{
		ContentType:  contentType,
		UserMetadata: map[string]string{"uploaded-at": time.Now().Format(time.RFC3339)},
	})
	if err != nil {
		return "", fmt.Errorf("upload failed: %w", err)
	}

	return s.buildPublicURL(key), nil
}

func (s *s3Client) PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error) {
	u, err := s.client.PresignedGetObject(ctx, s.bucket, key, ttl, nil)
	if err != nil {
		return "", fmt.Errorf("presign failed: %w", err)
	}
	return u.String(), nil
}

func (s *s3Client) buildPublicURL(key string) string {
	escapedKey := url.PathEscape(filepath.ToSlash(key))
	return fmt.Sprintf("%s/%s/%s", s.host, s.bucket, escapedKey)
}
