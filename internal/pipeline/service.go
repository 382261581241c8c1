package pipeline

import (
	"context"
	"fmt"
	"log"

	"github.com/Vovarama1992/sintesi/internal/ai"
	"github.com/Vovarama1992/sintesi/internal/credits"
	"github.com/Vovarama1992/sintesi/internal/error_notificator"
	"github.com/Vovarama1992/sintesi/internal/speech"
	"github.com/Vovarama1992/sintesi/internal/transcript"
)

const (
	defaultLanguage = "en"
	defaultLength   = "medium"
	speechSpeed     = 1.0
)

var supportedLanguages = map[string]bool{
	"en": true,
	"it": true,
	"fr": true,
	"es": true,
	"de": true,
}

// бюджет строк по тарифу длины
var lengthBudgets = map[string]int{
	"short":  10,
	"medium": 30,
	"long":   85,
}

type Request struct {
	URL      string
	Language string
	Length   string
	Caller   credits.Caller
}

type Result struct {
	Summary     string
	AudioRef    string
	Entitlement credits.Entitlement
}

type Service struct {
	acquirer    transcript.Acquirer
	metadata    transcript.MetadataFetcher
	summarizer  ai.Summarizer
	synthesizer speech.Synthesizer
	ledger      credits.Ledger
	notifier    error_notificator.Notificator
}

func NewService(
	acquirer transcript.Acquirer,
	metadata transcript.MetadataFetcher,
	summarizer ai.Summarizer,
	synthesizer speech.Synthesizer,
	ledger credits.Ledger,
	notifier error_notificator.Notificator,
) *Service {
	return &Service{
		acquirer:    acquirer,
		metadata:    metadata,
		summarizer:  summarizer,
		synthesizer: synthesizer,
		ledger:      ledger,
		notifier:    notifier,
	}
}

func (s *Service) Process(ctx context.Context, req Request) (*Result, error) {

	// 1. Валидация строго до кассы
	language, maxLines, err := validate(&req)
	if err != nil {
		return nil, err
	}

	// единственное место, где учитывается привилегированный режим
	charge := !req.Caller.Privileged

	// 2-3. Проверка прав непосредственно перед списанием (не из кэша)
	if charge {
		ent, err := s.ledger.Check(ctx, req.Caller)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLedgerWrite, err)
		}
		if !ent.HasCredits {
			return nil, ErrCreditExhausted
		}

		ok, err := s.ledger.Consume(ctx, req.Caller)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLedgerWrite, err)
		}
		if !ok {
			return nil, ErrCreditExhausted
		}
	} else {
		log.Printf("[pipeline] privileged bypass, ledger untouched (caller=%s)", callerKey(req.Caller))
	}

	// 4. Сами стадии; после списания любой фейл возвращает ровно один кредит
	result, err := s.run(ctx, req.URL, language, maxLines)
	if err != nil {
		if charge {
			if _, refundErr := s.ledger.Refund(ctx, req.Caller); refundErr != nil {
				log.Printf("[pipeline] refund failed for %s: %v", callerKey(req.Caller), refundErr)
			}
		}
		s.notifier.Notify(ctx, err, "video processing failed: "+req.URL)
		return nil, err
	}

	// 5. Свежий снимок прав в ответ
	if charge {
		ent, err := s.ledger.Check(ctx, req.Caller)
		if err != nil {
			log.Printf("[pipeline] entitlement snapshot failed: %v", err)
		} else {
			result.Entitlement = ent
		}
	}

	return result, nil
}

func (s *Service) run(ctx context.Context, videoURL, language string, maxLines int) (*Result, error) {
	text, err := s.acquirer.Fetch(ctx, videoURL, language)
	if err != nil {
		return nil, err
	}

	meta := s.metadata.Metadata(ctx, videoURL)
	description := transcript.CleanDescription(meta.Description)

	summary, err := s.summarizer.Summarize(ctx, text, description, language, maxLines)
	if err != nil {
		return nil, err
	}

	audio, err := s.synthesizer.Render(ctx, summary, meta.Channel, meta.Title, language, speechSpeed)
	if err != nil {
		return nil, err
	}

	return &Result{Summary: summary, AudioRef: audio.Ref()}, nil
}

func validate(req *Request) (language string, maxLines int, err error) {
	if _, err := transcript.ExtractVideoID(req.URL); err != nil {
		return "", 0, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	language = req.Language
	if language == "" {
		language = defaultLanguage
	}
	if !supportedLanguages[language] {
		return "", 0, fmt.Errorf("%w: unsupported language %q", ErrInvalidInput, req.Language)
	}

	length := req.Length
	if length == "" {
		length = defaultLength
	}
	maxLines, ok := lengthBudgets[length]
	if !ok {
		return "", 0, fmt.Errorf("%w: unknown summary length %q", ErrInvalidInput, req.Length)
	}

	return language, maxLines, nil
}

func callerKey(c credits.Caller) string {
	if c.Email != "" {
		return c.Email
	}
	return c.SessionID
}
