package transcript

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"
)

var videoIDRe = regexp.MustCompile(`(?:youtube\.com/(?:[^/]+/.+/|(?:v|e(?:mbed)?|shorts)/|.*[?&]v=)|youtu\.be/)([^"&?/\s]{11})`)

var ErrInvalidVideoURL = errors.New("invalid video url: could not extract video id")

// UnavailableError — все зеркала обошли, транскрипта нет
type UnavailableError struct {
	LastErr error
}

func (e *UnavailableError) Error() string {
	if e.LastErr != nil {
		return fmt.Sprintf("unable to fetch transcript from any mirror (last error: %v)", e.LastErr)
	}
	return "unable to fetch transcript from any mirror"
}

func (e *UnavailableError) Unwrap() error { return e.LastErr }

func ExtractVideoID(videoURL string) (string, error) {
	m := videoIDRe.FindStringSubmatch(videoURL)
	if m == nil {
		return "", ErrInvalidVideoURL
	}
	return m[1], nil
}

type attemptStatus int

const (
	attemptOK attemptStatus = iota
	attemptRateLimited
	attemptEmpty
	attemptFailed
)

type attempt struct {
	status attemptStatus
	text   string
	err    error
}

type service struct {
	providers []Provider
}

// NewService — порядок providers фиксирован, побеждает первое зеркало с непустым текстом
func NewService(providers []Provider) Acquirer {
	return &service{providers: providers}
}

func (s *service) Fetch(ctx context.Context, videoURL, language string) (string, error) {
	videoID, err := ExtractVideoID(videoURL)
	if err != nil {
		return "", err
	}

	var lastErr error
	for _, p := range s.providers {
		a := tryProvider(ctx, p, videoID, language)
		switch a.status {
		case attemptOK:
			log.Printf("[transcript] fetched via %s (%d chars)", p.Name(), len(a.text))
			return a.text, nil
		case attemptRateLimited:
			log.Printf("[transcript] %s rate limited, trying next mirror", p.Name())
		case attemptEmpty:
			log.Printf("[transcript] %s has no usable subtitles, trying next mirror", p.Name())
		case attemptFailed:
			lastErr = a.err
			log.Printf("[transcript] %s failed: %v", p.Name(), a.err)
		}
	}

	return "", &UnavailableError{LastErr: lastErr}
}

func tryProvider(ctx context.Context, p Provider, videoID, language string) attempt {
	tracks, err := p.ListTracks(ctx, videoID)
	if errors.Is(err, ErrRateLimited) {
		return attempt{status: attemptRateLimited}
	}
	if err != nil {
		return attempt{status: attemptFailed, err: err}
	}
	if len(tracks) == 0 {
		return attempt{status: attemptEmpty}
	}

	segments, err := p.FetchCaptions(ctx, selectTrack(tracks, language))
	if err != nil {
		return attempt{status: attemptFailed, err: err}
	}

	text := joinSegments(segments)
	if text == "" {
		return attempt{status: attemptEmpty}
	}
	return attempt{status: attemptOK, text: text}
}

// selectTrack: точное совпадение > региональный вариант > общий базовый язык > первый трек
func selectTrack(tracks []Track, target string) Track {
	for _, t := range tracks {
		if t.LanguageCode == target {
			return t
		}
	}
	for _, t := range tracks {
		if strings.HasPrefix(t.LanguageCode, target+"-") {
			return t
		}
	}
	for _, t := range tracks {
		base, _, _ := strings.Cut(t.LanguageCode, "-")
		if base == target {
			return t
		}
	}
	return tracks[0]
}

func joinSegments(segments []Segment) string {
	var sb strings.Builder
	for _, seg := range segments {
		text := strings.TrimSpace(seg.Text)
		if text == "" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(text)
	}
	return sb.String()
}
