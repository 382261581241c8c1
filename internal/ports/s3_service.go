package ports

import "context"

type S3Service interface {
	ObjectKey(channel, title, ext string) string
	// SaveAudio загружает локальный файл и возвращает подписанный URL (24ч)
	SaveAudio(ctx context.Context, localPath, key string) (signedURL string, err error)
}
