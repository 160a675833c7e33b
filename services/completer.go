package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"validea/config"
)

// Completer sends a single prompt to an upstream language model and returns
// the text of its first answer. An empty answer is not an error.
type Completer interface {
	Name() string
	Complete(ctx context.Context, prompt string) (string, error)
}

// NewCompleter builds the completer selected by cfg.Provider.
func NewCompleter(ctx context.Context, cfg config.Upstream) (Completer, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case config.ProviderOpenAI, "":
		return NewOpenAICompleter(cfg.OpenAI.APIKey, cfg.OpenAI.Model,
			WithBaseURL(cfg.OpenAI.BaseURL),
			WithHTTPTimeout(time.Duration(cfg.OpenAI.HTTPTimeoutSeconds)*time.Second),
		), nil
	case config.ProviderGemini:
		return NewGeminiCompleter(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
	default:
		return nil, fmt.Errorf("unknown upstream provider %q", cfg.Provider)
	}
}
