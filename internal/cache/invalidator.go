package cache

import (
	"context"
	"log/slog"

	"github.com/faqhub/faq-service/internal/language"
)

// KeyDeleter is the slice of the cache the invalidator needs.
type KeyDeleter interface {
	DeleteKeys(ctx context.Context, keys ...string) error
}

// Invalidator purges every cache key that can embed a FAQ's translated
// content: the per-language entry keys and every aggregate list key.
type Invalidator struct {
	cache  KeyDeleter
	langs  *language.Set
	logger *slog.Logger
}

// NewInvalidator creates an Invalidator over the supported-language set.
func NewInvalidator(cache KeyDeleter, langs *language.Set, logger *slog.Logger) *Invalidator {
	return &Invalidator{
		cache:  cache,
		langs:  langs,
		logger: logger,
	}
}

// Invalidate drops all cached content for the FAQ. The key set is derived
// from the fixed language set, so no index of written keys is needed.
// Failures are logged and swallowed: a stale entry is bounded by its TTL and
// the cache is never a correctness dependency.
func (i *Invalidator) Invalidate(ctx context.Context, faqID string) {
	keys := KeysForFAQ(faqID, i.langs.All())

	if err := i.cache.DeleteKeys(ctx, keys...); err != nil {
		i.logger.Warn("Cache invalidation failed",
			slog.String("faq_id", faqID),
			slog.Int("key_count", len(keys)),
			slog.Any("error", err),
		)
		return
	}

	i.logger.Debug("Cache invalidated",
		slog.String("faq_id", faqID),
		slog.Int("key_count", len(keys)),
	)
}
