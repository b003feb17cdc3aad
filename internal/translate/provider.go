// Package translate wraps the external translation provider: the client,
// failure classification, circuit breaking, and markup stripping.
package translate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/faqhub/faq-service/internal/retry"
)

// Provider translates a single text into the target language.
type Provider interface {
	Translate(ctx context.Context, text, targetLang string) (string, error)
}

// ErrProviderUnavailable signals that the provider itself is down (circuit
// open), as opposed to a per-request failure. Callers should stop issuing
// further calls for now.
var ErrProviderUnavailable = errors.New("translation provider unavailable")

// RateLimitError marks provider-side throttling, the one failure mode the
// retry policy treats as recoverable. RetryAfter is an optional hint; zero
// means the provider gave none.
type RateLimitError struct {
	RetryAfter time.Duration
	Cause      error
}

func (e *RateLimitError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("provider rate limited: %v", e.Cause)
	}
	return "provider rate limited"
}

func (e *RateLimitError) Unwrap() error {
	return e.Cause
}

// Classify buckets a provider failure for the retry policy.
func Classify(err error) retry.Classification {
	var rl *RateLimitError
	if errors.As(err, &rl) {
		return retry.ClassRateLimited
	}
	return retry.ClassOther
}
