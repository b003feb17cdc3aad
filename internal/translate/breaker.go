package translate

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"
)

// BreakerProvider wraps a Provider with a circuit breaker. When the breaker
// opens, calls fail fast with ErrProviderUnavailable; the worker uses that
// signal to stop hammering the provider with sibling languages.
type BreakerProvider struct {
	provider Provider
	breaker  *gobreaker.CircuitBreaker
}

// BreakerConfig tunes the circuit breaker.
type BreakerConfig struct {
	ConsecutiveFailures uint32        // failures before the circuit opens
	OpenTimeout         time.Duration // how long the circuit stays open
}

// NewBreakerProvider creates a breaker-guarded provider. Zero config fields
// get sensible defaults (5 consecutive failures, 1 minute open).
func NewBreakerProvider(provider Provider, cfg BreakerConfig, logger *slog.Logger) *BreakerProvider {
	failures := cfg.ConsecutiveFailures
	if failures == 0 {
		failures = 5
	}

	timeout := cfg.OpenTimeout
	if timeout <= 0 {
		timeout = time.Minute
	}

	settings := gobreaker.Settings{
		Name:    "translation-provider",
		Timeout: timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Translation provider circuit state changed",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
		},
	}

	return &BreakerProvider{
		provider: provider,
		breaker:  gobreaker.NewCircuitBreaker(settings),
	}
}

// Translate implements Provider through the breaker.
func (p *BreakerProvider) Translate(ctx context.Context, text, targetLang string) (string, error) {
	result, err := p.breaker.Execute(func() (interface{}, error) {
		return p.provider.Translate(ctx, text, targetLang)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return "", ErrProviderUnavailable
		}
		return "", err
	}

	return result.(string), nil
}
