package domain

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/Vovarama1992/sintesi/internal/ports"
)

const signedURLTTL = 24 * time.Hour

type s3Service struct {
	client ports.S3Client
}

func NewS3Service(client ports.S3Client) ports.S3Service {
	return &s3Service{client: client}
}

// ObjectKey — путь в бакете, партиционированный по дате
func (s *s3Service) ObjectKey(channel, title, ext string) string {
	now := time.Now()
	date := now.Format("2006/01/02")
	return fmt.Sprintf("audio/%s/%s-%s-%d.%s", date, channel, title, now.UnixMilli(), ext)
}

func (s *s3Service) SaveAudio(ctx context.Context, localPath, key string) (string, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("open audio file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("stat audio file: %w", err)
	}

	if _, err := s.client.PutObject(ctx, key, f, info.Size(), "audio/mpeg"); err != nil {
		return "", err
	}

	return s.client.PresignGet(ctx, key, signedURLTTL)
}
