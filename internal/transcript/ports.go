package transcript

import (
	"context"
	"errors"
)

type Track struct {
	LanguageCode string `json:"language_code"`
	URL          string `json:"url"`
	Label        string `json:"label,omitempty"`
}

type Segment struct {
	Text  string  `json:"text"`
	Start float64 `json:"start,omitempty"`
	Dur   float64 `json:"dur,omitempty"`
}

// ErrRateLimited — провайдер ответил 429, идём к следующему зеркалу
var ErrRateLimited = errors.New("subtitle provider rate limited")

// Provider — одно зеркало субтитров
type Provider interface {
	Name() string
	ListTracks(ctx context.Context, videoID string) ([]Track, error)
	FetchCaptions(ctx context.Context, track Track) ([]Segment, error)
}

type Acquirer interface {
	Fetch(ctx context.Context, videoURL, language string) (string, error)
}

type VideoMetadata struct {
	Channel     string
	Title       string
	Description string
}

type MetadataFetcher interface {
	Metadata(ctx context.Context, videoURL string) VideoMetadata
}
