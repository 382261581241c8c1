package speech

import (
	"context"
	"fmt"
	"io"
)

type SynthesisRequest struct {
	Text         string
	VoiceID      string
	ModelID      string
	LanguageCode string
	Speed        float64
}

// AudioPayload — форма ответа TTS-провайдера меняется от версии к версии SDK,
// поэтому закрытый union из трёх форм, нормализуется один раз в normalize
type AudioPayload interface {
	isAudioPayload()
}

// Готовый буфер байтов
type AudioBuffer []byte

func (AudioBuffer) isAudioPayload() {}

// Push-поток, читается до конца
type AudioStream struct {
	R io.ReadCloser
}

func (AudioStream) isAudioPayload() {}

// Pull-последовательность чанков, Next возвращает io.EOF в конце
type ChunkReader interface {
	Next() ([]byte, error)
}

type AudioChunks struct {
	Chunks ChunkReader
}

func (AudioChunks) isAudioPayload() {}

type TTSClient interface {
	Synthesize(ctx context.Context, req SynthesisRequest) (AudioPayload, error)
}

// ProviderError — ошибка синтеза речи (в т.ч. поток с нулём байт)
type ProviderError struct {
	Err error
}

func (e *ProviderError) Error() string { return fmt.Sprintf("speech provider: %v", e.Err) }
func (e *ProviderError) Unwrap() error { return e.Err }
