package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

type ElevenLabsClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewElevenLabsClient(apiKey string) *ElevenLabsClient {
	return &ElevenLabsClient{
		apiKey:     apiKey,
		baseURL:    "https://api.elevenlabs.io",
		httpClient: http.DefaultClient,
	}
}

// TEXT → SPEECH
func (c *ElevenLabsClient) Synthesize(ctx context.Context, req SynthesisRequest) (AudioPayload, error) {
	url := fmt.Sprintf("%s/v1/text-to-speech/%s", c.baseURL, req.VoiceID)

	payload, err := json.Marshal(map[string]any{
		"text":          req.Text,
		"model_id":      req.ModelID,
		"language_code": req.LanguageCode,
		"voice_settings": map[string]any{
			"speed": req.Speed,
		},
	})
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("xi-api-key", c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "audio/mpeg")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 300 {
		defer resp.Body.Close()
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("tts failed (%d): %s", resp.StatusCode, string(b))
	}

	// тело отдаём как поток, закроет normalize
	return AudioStream{R: resp.Body}, nil
}
