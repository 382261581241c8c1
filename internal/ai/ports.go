package ai

import "context"

type TextGenerationProvider interface {
	Complete(ctx context.Context, system, user string, maxTokens int, temperature float32) (string, error)
}

type Summarizer interface {
	// Summarize строит резюме на целевом языке, не длиннее maxLines строк
	Summarize(ctx context.Context, transcript, description, language string, maxLines int) (string, error)
}
