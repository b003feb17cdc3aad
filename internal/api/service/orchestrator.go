// Package service contains the request-facing translation orchestration:
// cache-first reads, pending signalling, job enqueueing, and the
// invalidate-before-write mutation flow.
package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/faqhub/faq-service/internal/faq"
	"github.com/faqhub/faq-service/internal/language"
	"github.com/faqhub/faq-service/internal/queue"
	"github.com/faqhub/faq-service/internal/translate"
)

// ContentStore is the slice of the content store the orchestrator needs.
type ContentStore interface {
	CreateFAQ(ctx context.Context, f *faq.FAQ) error
	GetFAQByID(ctx context.Context, faqID string) (*faq.FAQ, error)
	ListFAQs(ctx context.Context) ([]faq.FAQ, error)
	UpdateFAQ(ctx context.Context, faqID, question, answer string) (*faq.FAQ, error)
	DeleteFAQ(ctx context.Context, faqID string) error
	SetTranslation(ctx context.Context, faqID, lang, question, answer string) error
}

// TranslationCache is the slice of the cache the orchestrator needs.
type TranslationCache interface {
	GetEntry(ctx context.Context, faqID, lang string) (*faq.TranslatedFAQ, bool)
	SetEntry(ctx context.Context, lang string, view faq.TranslatedFAQ) error
	GetList(ctx context.Context, lang string) ([]faq.TranslatedFAQ, bool)
	SetList(ctx context.Context, lang string, views []faq.TranslatedFAQ) error
}

// Invalidator purges all cached content for a FAQ.
type Invalidator interface {
	Invalidate(ctx context.Context, faqID string)
}

// Config holds orchestrator dependencies.
type Config struct {
	Logger      *slog.Logger
	Store       ContentStore
	Cache       TranslationCache
	Invalidator Invalidator
	Queue       queue.Publisher
	Languages   *language.Set
	Inline      *InlineTranslator // optional degraded fallback, nil = async only
}

// Orchestrator decides, per request, whether to serve a cached translation,
// a persisted one, or the base language flagged pending while a job is
// enqueued.
type Orchestrator struct {
	logger      *slog.Logger
	store       ContentStore
	cache       TranslationCache
	invalidator Invalidator
	queue       queue.Publisher
	langs       *language.Set
	inline      *InlineTranslator
}

// NewOrchestrator creates a new Orchestrator.
func NewOrchestrator(cfg *Config) *Orchestrator {
	return &Orchestrator{
		logger:      cfg.Logger,
		store:       cfg.Store,
		cache:       cfg.Cache,
		invalidator: cfg.Invalidator,
		queue:       cfg.Queue,
		langs:       cfg.Languages,
		inline:      cfg.Inline,
	}
}

// ResolveLanguage maps a requested language code to the one actually served:
// normalized when supported, the default otherwise. Handlers echo it so
// callers can tell when a fallback occurred.
func (o *Orchestrator) ResolveLanguage(lang string) string {
	return o.langs.Resolve(lang)
}

// ListFAQs returns every FAQ in insertion order, translated into lang.
// Unsupported languages silently fall back to the default. The second
// return value reports whether any item is still pending translation.
func (o *Orchestrator) ListFAQs(ctx context.Context, lang string) ([]faq.TranslatedFAQ, bool, error) {
	lang = o.langs.Resolve(lang)

	if views, ok := o.cache.GetList(ctx, lang); ok {
		return views, anyPending(views), nil
	}

	faqs, err := o.store.ListFAQs(ctx)
	if err != nil {
		return nil, false, err
	}

	views := make([]faq.TranslatedFAQ, 0, len(faqs))
	for i := range faqs {
		view := faq.Resolve(&faqs[i], lang, o.langs.Default())
		if view.Pending {
			o.enqueue(ctx, queue.NewJob(view.ID, lang))
		}
		views = append(views, view)
	}

	if err := o.cache.SetList(ctx, lang, views); err != nil {
		o.logger.Warn("Failed to cache faq list",
			slog.String("lang", lang),
			slog.Any("error", err),
		)
	}

	return views, anyPending(views), nil
}

// GetFAQ returns one FAQ translated into lang. When the translation is not
// available yet the view carries the default-language text with
// Pending=true and exactly one job is enqueued for (id, lang).
func (o *Orchestrator) GetFAQ(ctx context.Context, faqID, lang string) (*faq.TranslatedFAQ, error) {
	lang = o.langs.Resolve(lang)

	if view, ok := o.cache.GetEntry(ctx, faqID, lang); ok {
		return view, nil
	}

	f, err := o.store.GetFAQByID(ctx, faqID)
	if err != nil {
		return nil, err
	}

	view := faq.Resolve(f, lang, o.langs.Default())

	if view.Pending && o.inline != nil {
		if t, err := o.inline.Translate(ctx, f, lang); err == nil {
			if err := o.store.SetTranslation(ctx, faqID, lang, t.Question, t.Answer); err != nil {
				o.logger.Error("Failed to persist inline translation",
					slog.String("faq_id", faqID),
					slog.String("lang", lang),
					slog.Any("error", err),
				)
			} else {
				view.Question = t.Question
				view.Answer = t.Answer
				view.Pending = false
			}
		} else {
			o.logger.Warn("Inline translation failed, falling back to async",
				slog.String("faq_id", faqID),
				slog.String("lang", lang),
				slog.Any("error", err),
			)
		}
	}

	if view.Pending {
		o.enqueue(ctx, queue.NewJob(faqID, lang))
	}

	if err := o.cache.SetEntry(ctx, lang, view); err != nil {
		o.logger.Warn("Failed to cache faq entry",
			slog.String("faq_id", faqID),
			slog.String("lang", lang),
			slog.Any("error", err),
		)
	}

	return &view, nil
}

// CreateFAQ persists a new FAQ in the default language and enqueues a full
// translation job. The response never inlines pending translations.
func (o *Orchestrator) CreateFAQ(ctx context.Context, question, answer string) (*faq.FAQ, error) {
	now := time.Now().UTC()
	f := &faq.FAQ{
		ID:           uuid.New().String(),
		Question:     question,
		Answer:       translate.SanitizeRichText(answer),
		Translations: map[string]faq.Translation{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := o.store.CreateFAQ(ctx, f); err != nil {
		return nil, err
	}

	o.enqueue(ctx, queue.NewJob(f.ID))

	o.logger.Info("FAQ created",
		slog.String("faq_id", f.ID),
	)

	return f, nil
}

// UpdateFAQ invalidates the cache before applying the store mutation, then
// enqueues a full re-translation job. Invalidating first closes the window
// where a reader could repopulate the cache with pre-update translations
// between the write and a later invalidation.
func (o *Orchestrator) UpdateFAQ(ctx context.Context, faqID, question, answer string) (*faq.FAQ, error) {
	o.invalidator.Invalidate(ctx, faqID)

	f, err := o.store.UpdateFAQ(ctx, faqID, question, translate.SanitizeRichText(answer))
	if err != nil {
		return nil, err
	}

	o.enqueue(ctx, queue.NewJob(faqID))

	o.logger.Info("FAQ updated",
		slog.String("faq_id", faqID),
	)

	return f, nil
}

// DeleteFAQ invalidates the cache and removes the FAQ. No re-enqueue; a job
// already in flight discovers the deletion and discards itself.
func (o *Orchestrator) DeleteFAQ(ctx context.Context, faqID string) error {
	o.invalidator.Invalidate(ctx, faqID)

	if err := o.store.DeleteFAQ(ctx, faqID); err != nil {
		return err
	}

	o.logger.Info("FAQ deleted",
		slog.String("faq_id", faqID),
	)

	return nil
}

// enqueue publishes a job, degrading to a log line on failure: reads never
// fail because of the queue, the next read retries the enqueue.
func (o *Orchestrator) enqueue(ctx context.Context, job queue.TranslationJob) {
	if err := o.queue.EnqueueTranslation(ctx, job); err != nil {
		o.logger.Error("Failed to enqueue translation job",
			slog.String("faq_id", job.FAQID),
			slog.Any("languages", job.Languages),
			slog.Any("error", err),
		)
	}
}

func anyPending(views []faq.TranslatedFAQ) bool {
	for i := range views {
		if views[i].Pending {
			return true
		}
	}
	return false
}
