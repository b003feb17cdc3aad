package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/faqhub/faq-service/internal/faq"
	"github.com/faqhub/faq-service/internal/retry"
	"github.com/faqhub/faq-service/internal/translate"
)

// InlineTranslator is the degraded fallback mode: translating synchronously
// on the read path. It honors the retry policy's backoff by sleeping the
// calling goroutine, so it must only be configured with a short base delay.
type InlineTranslator struct {
	provider translate.Provider
	policy   retry.Policy
	logger   *slog.Logger
}

// NewInlineTranslator creates an inline translator.
func NewInlineTranslator(provider translate.Provider, policy retry.Policy, logger *slog.Logger) *InlineTranslator {
	return &InlineTranslator{
		provider: provider,
		policy:   policy,
		logger:   logger,
	}
}

// Translate produces a complete translation pair for lang or fails. Partial
// results are not returned; the async path handles per-field persistence.
func (t *InlineTranslator) Translate(ctx context.Context, f *faq.FAQ, lang string) (*faq.Translation, error) {
	question, err := t.translateWithBackoff(ctx, f.Question, lang)
	if err != nil {
		return nil, fmt.Errorf("question: %w", err)
	}

	answer, err := t.translateWithBackoff(ctx, translate.StripMarkup(f.Answer), lang)
	if err != nil {
		return nil, fmt.Errorf("answer: %w", err)
	}

	return &faq.Translation{Question: question, Answer: answer}, nil
}

func (t *InlineTranslator) translateWithBackoff(ctx context.Context, text, lang string) (string, error) {
	var lastErr error

	for attempt := 1; ; attempt++ {
		out, err := t.provider.Translate(ctx, text, lang)
		if err == nil {
			return out, nil
		}
		lastErr = err

		decision := t.policy.Decide(translate.Classify(err), attempt)
		if !decision.Retry {
			return "", lastErr
		}

		t.logger.Debug("Inline translation backing off",
			slog.String("lang", lang),
			slog.Int("attempt", attempt),
			slog.Duration("delay", decision.After),
		)

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(decision.After):
		}
	}
}
