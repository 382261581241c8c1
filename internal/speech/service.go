package speech

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/Vovarama1992/sintesi/internal/ports"
)

const (
	voiceID = "W71zT1VwIFFx3mMGH2uZ"
	modelID = "eleven_turbo_v2_5"
)

type AudioResult struct {
	LocalPath string
	SignedURL string
}

// Ref — что отдаём наружу: подписанный URL, если загрузка в S3 удалась
func (r *AudioResult) Ref() string {
	if r.SignedURL != "" {
		return r.SignedURL
	}
	return r.LocalPath
}

type Synthesizer interface {
	Render(ctx context.Context, summary, channel, title, language string, speed float64) (*AudioResult, error)
}

type Service struct {
	tts TTSClient
	s3  ports.S3Service // nil → только локальный файл
	dir string
}

func NewService(tts TTSClient, s3 ports.S3Service, dir string) *Service {
	return &Service{tts: tts, s3: s3, dir: dir}
}

func (s *Service) Render(ctx context.Context, summary, channel, title, language string, speed float64) (*AudioResult, error) {
	payload, err := s.tts.Synthesize(ctx, SynthesisRequest{
		Text:         summary,
		VoiceID:      voiceID,
		ModelID:      modelID,
		LanguageCode: language,
		Speed:        speed,
	})
	if err != nil {
		return nil, &ProviderError{Err: err}
	}

	audio, err := normalize(payload)
	if err != nil {
		return nil, &ProviderError{Err: err}
	}

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return nil, fmt.Errorf("create summaries dir: %w", err)
	}

	localPath := filepath.Join(s.dir, fmt.Sprintf("%s-%s.mp3", channel, title))
	if err := os.WriteFile(localPath, audio, 0644); err != nil {
		return nil, fmt.Errorf("write audio file: %w", err)
	}

	result := &AudioResult{LocalPath: localPath}

	// загрузка в S3 опциональна: при любой ошибке остаёмся на локальном файле
	if s.s3 != nil {
		key := s.s3.ObjectKey(channel, title, "mp3")
		signedURL, err := s.s3.SaveAudio(ctx, localPath, key)
		if err != nil {
			log.Printf("[speech] s3 upload failed, falling back to local file: %v", err)
		} else {
			result.SignedURL = signedURL
		}
	}

	return result, nil
}

// normalize сводит все формы payload к одному буферу байтов.
// Единственное место, где ветвимся по форме ответа провайдера.
func normalize(payload AudioPayload) ([]byte, error) {
	switch p := payload.(type) {
	case AudioBuffer:
		if len(p) == 0 {
			return nil, errors.New("provider returned empty audio buffer")
		}
		return p, nil

	case AudioStream:
		defer p.R.Close()
		audio, err := io.ReadAll(p.R)
		if err != nil {
			return nil, fmt.Errorf("drain audio stream: %w", err)
		}
		if len(audio) == 0 {
			return nil, errors.New("audio stream ended with zero bytes")
		}
		return audio, nil

	case AudioChunks:
		var audio []byte
		for {
			chunk, err := p.Chunks.Next()
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				return nil, fmt.Errorf("read audio chunk: %w", err)
			}
			audio = append(audio, chunk...)
		}
		if len(audio) == 0 {
			return nil, errors.New("audio chunk sequence ended with zero bytes")
		}
		return audio, nil

	default:
		return nil, fmt.Errorf("unknown audio payload type %T", payload)
	}
}
