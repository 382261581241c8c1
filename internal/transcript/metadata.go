package transcript

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"regexp"
	"strings"
	"time"
)

var (
	urlRe         = regexp.MustCompile(`https?://\S+`)
	underscoresRe = regexp.MustCompile(`_+`)
	nonAlnumRe    = regexp.MustCompile(`[^a-zA-Z0-9]`)
	whitespaceRe  = regexp.MustCompile(`\s{2,}`)

	// рекламные фразы, которые выкидываем из описания
	promoPhrases = []*regexp.Regexp{
		regexp.MustCompile(`(?i)iscriviti al canale`),
		regexp.MustCompile(`(?i)link in descrizione`),
		regexp.MustCompile(`(?i)seguimi su`),
		regexp.MustCompile(`(?i)codice sconto`),
		regexp.MustCompile(`(?i)visita il sito`),
		regexp.MustCompile(`(?i)offerta speciale`),
		regexp.MustCompile(`(?i)supporta il canale`),
		regexp.MustCompile(`(?i)compra qui`),
		regexp.MustCompile(`(?i)acquist[ai] su`),
	}
)

// SanitizeName — безопасное имя файла из названия канала/ролика
func SanitizeName(s string) string {
	s = nonAlnumRe.ReplaceAllString(s, "_")
	s = underscoresRe.ReplaceAllString(s, "_")
	return strings.ToLower(strings.Trim(s, "_"))
}

func CleanDescription(description string) string {
	cleaned := urlRe.ReplaceAllString(description, "")
	for _, re := range promoPhrases {
		cleaned = re.ReplaceAllString(cleaned, "")
	}
	cleaned = whitespaceRe.ReplaceAllString(cleaned, " ")
	return strings.TrimSpace(cleaned)
}

// MetadataService тянет канал/название/описание с тех же зеркал.
// Никогда не фейлит пайплайн: при любой ошибке отдаёт заглушки.
type MetadataService struct {
	bases      []string
	httpClient *http.Client
}

func NewMetadataService(bases []string) *MetadataService {
	return &MetadataService{
		bases:      bases,
		httpClient: &http.Client{Timeout: 20 * time.Second},
	}
}

func (s *MetadataService) Metadata(ctx context.Context, videoURL string) VideoMetadata {
	meta := VideoMetadata{Channel: "unknown_channel", Title: "unknown_title"}

	videoID, err := ExtractVideoID(videoURL)
	if err != nil {
		return meta
	}

	for _, base := range s.bases {
		info, err := s.fetchInfo(ctx, base, videoID)
		if err != nil {
			log.Printf("[metadata] %s failed: %v", base, err)
			continue
		}
		if info.Author != "" {
			meta.Channel = SanitizeName(info.Author)
		}
		if info.Title != "" {
			meta.Title = SanitizeName(info.Title)
		}
		meta.Description = info.Description
		return meta
	}
	return meta
}

type videoInfo struct {
	Title       string `json:"title"`
	Author      string `json:"author"`
	Description string `json:"description"`
}

func (s *MetadataService) fetchInfo(ctx context.Context, base, videoID string) (*videoInfo, error) {
	apiURL := fmt.Sprintf("%s/api/v1/videos/%s?fields=title,author,description", strings.TrimRight(base, "/"), videoID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", mirrorUserAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("mirror returned %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var info videoInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, fmt.Errorf("decode video info: %w", err)
	}
	return &info, nil
}
