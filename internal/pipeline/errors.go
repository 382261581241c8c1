package pipeline

import (
	"errors"

	"github.com/Vovarama1992/sintesi/internal/ai"
	"github.com/Vovarama1992/sintesi/internal/speech"
	"github.com/Vovarama1992/sintesi/internal/transcript"
)

var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrCreditExhausted = errors.New("no credits remaining")
	ErrLedgerWrite     = errors.New("ledger write failed")
)

// сырой текст ошибок провайдеров наружу не уходит
const (
	msgNoTranscript     = "No transcript is available for this video."
	msgAIUnavailable    = "The AI service is temporarily unavailable. Please try again later."
	msgAudioUnavailable = "The audio service is temporarily unavailable. Please try again later."
	msgGeneric          = "Something went wrong while processing the video."
)

func Classify(err error) string {
	var (
		unavailable *transcript.UnavailableError
		aiErr       *ai.ProviderError
		speechErr   *speech.ProviderError
	)

	switch {
	case errors.As(err, &unavailable):
		return msgNoTranscript
	case errors.As(err, &aiErr):
		return msgAIUnavailable
	case errors.As(err, &speechErr):
		return msgAudioUnavailable
	default:
		return msgGeneric
	}
}
