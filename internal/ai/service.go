package ai

import (
	"context"
	"fmt"
	"log"
	"strings"
)

const (
	summaryTemperature = 0.7
	summaryMaxTokens   = 500

	// если модель вернула пустоту — отдаём заглушку, пайплайн не валим
	emptySummaryFallback = "Non è stato possibile generare un riassunto."
)

// ProviderError — ошибка генеративной модели, наружу уходит уже классифицированной
type ProviderError struct {
	Err error
}

func (e *ProviderError) Error() string { return fmt.Sprintf("summarization provider: %v", e.Err) }
func (e *ProviderError) Unwrap() error { return e.Err }

var languageNames = map[string]string{
	"it": "italiano",
	"en": "inglese",
	"fr": "francese",
	"es": "spagnolo",
	"de": "tedesco",
}

type service struct {
	provider TextGenerationProvider
}

func NewService(provider TextGenerationProvider) Summarizer {
	return &service{provider: provider}
}

func (s *service) Summarize(ctx context.Context, transcript, description, language string, maxLines int) (string, error) {
	targetLanguage, ok := languageNames[language]
	if !ok {
		targetLanguage = "italiano"
	}

	system := fmt.Sprintf(
		"Sei un assistente esperto nel riassumere video. Il seguente input contiene prima la descrizione del video e poi la sua trascrizione. "+
			"Crea un riassunto conciso ma informativo **in %s**, combinando le informazioni da entrambe le fonti, in massimo %d righe di testo. "+
			"Il riassunto deve catturare i punti principali e mantenere il tono originale del contenuto.",
		targetLanguage, maxLines,
	)

	combined := fmt.Sprintf("Descrizione del video:\n%s\n\nTrascrizione:\n%s", description, transcript)
	user := fmt.Sprintf(
		"Riassumi questo contenuto (descrizione e trascrizione) in massimo %d righe **in %s**. "+
			"Non cominciare con 'In questo video...' o 'In questo video si parla di...', vai direttamente al punto.:\n\n%s",
		maxLines, targetLanguage, combined,
	)

	summary, err := s.provider.Complete(ctx, system, user, summaryMaxTokens, summaryTemperature)
	if err != nil {
		return "", &ProviderError{Err: err}
	}

	if strings.TrimSpace(summary) == "" {
		log.Printf("[ai] model returned empty summary, using fallback")
		return emptySummaryFallback, nil
	}
	return summary, nil
}
