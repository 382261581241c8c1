package transcript

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const mirrorUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

// mirrorProvider — invidious-совместимое зеркало
type mirrorProvider struct {
	base       string
	httpClient *http.Client
}

func NewMirrorProvider(base string) Provider {
	return &mirrorProvider{
		base:       strings.TrimRight(base, "/"),
		httpClient: &http.Client{Timeout: 20 * time.Second},
	}
}

func NewMirrorProviders(bases []string) []Provider {
	out := make([]Provider, 0, len(bases))
	for _, b := range bases {
		out = append(out, NewMirrorProvider(b))
	}
	return out
}

func (m *mirrorProvider) Name() string { return m.base }

func (m *mirrorProvider) ListTracks(ctx context.Context, videoID string) ([]Track, error) {
	body, status, err := m.get(ctx, fmt.Sprintf("%s/api/v1/videos/%s/subtitles", m.base, videoID))
	if err != nil {
		return nil, err
	}
	if status == http.StatusTooManyRequests {
		return nil, ErrRateLimited
	}
	if status >= 300 {
		return nil, fmt.Errorf("mirror %s returned %d", m.base, status)
	}

	var tracks []Track
	if err := json.Unmarshal(body, &tracks); err != nil {
		return nil, fmt.Errorf("decode track list from %s: %w", m.base, err)
	}
	return tracks, nil
}

func (m *mirrorProvider) FetchCaptions(ctx context.Context, track Track) ([]Segment, error) {
	if track.URL == "" {
		return nil, fmt.Errorf("track %q has no fetch url", track.LanguageCode)
	}

	fetchURL := track.URL
	if strings.HasPrefix(fetchURL, "/") {
		fetchURL = m.base + fetchURL
	}

	body, status, err := m.get(ctx, fetchURL)
	if err != nil {
		return nil, err
	}
	if status >= 300 {
		return nil, fmt.Errorf("caption fetch from %s returned %d", m.base, status)
	}

	var segments []Segment
	if err := json.Unmarshal(body, &segments); err != nil {
		return nil, fmt.Errorf("decode captions from %s: %w", m.base, err)
	}
	return segments, nil
}

func (m *mirrorProvider) get(ctx context.Context, rawURL string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("User-Agent", mirrorUserAgent)

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, err
	}
	return body, resp.StatusCode, nil
}
