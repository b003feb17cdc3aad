package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/faqhub/faq-service/internal/faq"
	"github.com/faqhub/faq-service/internal/language"
	"github.com/faqhub/faq-service/internal/queue"
	"github.com/faqhub/faq-service/internal/retry"
	"github.com/faqhub/faq-service/internal/translate"
	"github.com/faqhub/faq-service/internal/worker/domain"
	"github.com/faqhub/faq-service/internal/worker/storage"
)

// ContentStore is the slice of worker storage the processor needs.
type ContentStore interface {
	GetFAQByID(ctx context.Context, faqID string) (*faq.FAQ, error)
	ListFAQs(ctx context.Context) ([]faq.FAQ, error)
	SetTranslationField(ctx context.Context, faqID, lang string, field storage.Field, text string) error
}

// ViewCache refreshes read-side cache entries after translations land.
type ViewCache interface {
	SetEntry(ctx context.Context, lang string, view faq.TranslatedFAQ) error
	SetList(ctx context.Context, lang string, views []faq.TranslatedFAQ) error
}

// Processor executes translation jobs: it translates each missing field of
// each requested language, persists progress per field, and schedules its own
// retries by re-publishing the job with a later eligibility time.
type Processor struct {
	store     ContentStore
	cache     ViewCache
	provider  translate.Provider
	publisher queue.Publisher
	langs     *language.Set
	policy    retry.Policy
	logger    *slog.Logger

	now func() time.Time
}

// ProcessorConfig holds Processor dependencies.
type ProcessorConfig struct {
	Store     ContentStore
	Cache     ViewCache
	Provider  translate.Provider
	Publisher queue.Publisher
	Languages *language.Set
	Policy    retry.Policy
	Logger    *slog.Logger
}

// NewProcessor creates a Processor.
func NewProcessor(cfg *ProcessorConfig) *Processor {
	return &Processor{
		store:     cfg.Store,
		cache:     cfg.Cache,
		provider:  cfg.Provider,
		publisher: cfg.Publisher,
		langs:     cfg.Languages,
		policy:    cfg.Policy,
		logger:    cfg.Logger,
		now:       time.Now,
	}
}

// Process runs one translation job to completion. A nil return means the
// delivery should be ACKed: either every requested language is translated, or
// the leftovers have been handed off to a re-published retry job, or the job
// is terminally unprocessable (FAQ deleted, retries exhausted). An error
// return means the delivery itself should be NACKed.
func (p *Processor) Process(ctx context.Context, job queue.TranslationJob) error {
	if err := p.waitUntilEligible(ctx, job); err != nil {
		return err
	}

	f, err := p.store.GetFAQByID(ctx, job.FAQID)
	if err != nil {
		if errors.Is(err, faq.ErrNotFound) {
			// FAQ deleted between enqueue and processing; nothing to translate
			p.logger.Info("FAQ gone, discarding translation job",
				slog.String("job_id", job.JobID),
				slog.String("faq_id", job.FAQID),
			)
			return nil
		}
		return domain.NewRetryableError(fmt.Errorf("failed to load faq: %w", err))
	}

	targets := p.jobTargets(job)

	var (
		settled    []string
		retryLangs []string
		haltLangs  []string
		completed  []string
	)

	for i, lang := range targets {
		t := f.Translations[lang]
		if t.Complete() {
			// duplicate delivery or overlapping job; already done
			p.logger.Debug("Language already translated, skipping",
				slog.String("faq_id", f.ID),
				slog.String("lang", lang),
			)
			settled = append(settled, lang)
			continue
		}

		outcome := p.translateLanguage(ctx, job, f, lang, &t)
		f.Translations[lang] = t
		switch outcome {
		case outcomeDone:
			completed = append(completed, lang)
			settled = append(settled, lang)
		case outcomeRetry:
			retryLangs = append(retryLangs, lang)
		case outcomeSkipped:
			// gave up on this language; its view stays pending
			settled = append(settled, lang)
		case outcomeHalt:
			// provider unavailable: stop burning calls and requeue the
			// remainder of this job, current language included
			haltLangs = append(haltLangs, targets[i:]...)
		}

		if outcome == outcomeHalt {
			break
		}
	}

	if len(retryLangs) > 0 {
		p.scheduleRetry(ctx, job, retryLangs)
	}

	if len(haltLangs) > 0 {
		p.scheduleResume(ctx, job, haltLangs)
	}

	if len(settled) > 0 {
		p.refreshCaches(ctx, f, settled)
	}

	p.logger.Info("Translation job processed",
		slog.String("job_id", job.JobID),
		slog.String("faq_id", job.FAQID),
		slog.Int("attempt", job.Attempt),
		slog.Any("completed", completed),
		slog.Any("retrying", retryLangs),
		slog.Any("halted", haltLangs),
	)

	return nil
}

type languageOutcome int

const (
	outcomeDone languageOutcome = iota
	outcomeRetry
	outcomeSkipped
	outcomeHalt
)

// translateLanguage fills in the missing fields of one language's pair,
// persisting each field as soon as it is translated. The pair t is mutated to
// reflect persisted progress.
func (p *Processor) translateLanguage(ctx context.Context, job queue.TranslationJob, f *faq.FAQ, lang string, t *faq.Translation) languageOutcome {
	if t.Question == "" {
		outcome := p.translateField(ctx, job, f.ID, lang, storage.FieldQuestion, f.Question, &t.Question)
		if outcome == outcomeRetry || outcome == outcomeHalt {
			return outcome
		}
	}

	if t.Answer == "" {
		// answers may carry rich text; the provider only sees plain text
		source := translate.StripMarkup(f.Answer)
		outcome := p.translateField(ctx, job, f.ID, lang, storage.FieldAnswer, source, &t.Answer)
		if outcome != outcomeDone {
			return outcome
		}
	}

	if t.Complete() {
		return outcomeDone
	}
	return outcomeSkipped
}

// translateField translates and persists a single field, writing the result
// into dst only once it is durably stored.
func (p *Processor) translateField(ctx context.Context, job queue.TranslationJob, faqID, lang string, field storage.Field, source string, dst *string) languageOutcome {
	translated, err := p.provider.Translate(ctx, source, lang)
	if err != nil {
		if errors.Is(err, translate.ErrProviderUnavailable) {
			p.logger.Warn("Translation provider unavailable",
				slog.String("faq_id", faqID),
				slog.String("lang", lang),
				slog.String("field", string(field)),
			)
			return outcomeHalt
		}

		class := translate.Classify(err)
		decision := p.policy.Decide(class, job.Attempt)
		if decision.Retry {
			p.logger.Warn("Translation rate limited, will retry",
				slog.String("faq_id", faqID),
				slog.String("lang", lang),
				slog.String("field", string(field)),
				slog.Int("attempt", job.Attempt),
				slog.Duration("after", decision.After),
			)
			return outcomeRetry
		}

		p.logger.Error("Translation failed, giving up on field",
			slog.String("faq_id", faqID),
			slog.String("lang", lang),
			slog.String("field", string(field)),
			slog.Int("attempt", job.Attempt),
			slog.String("error", err.Error()),
		)
		return outcomeSkipped
	}

	if err := p.store.SetTranslationField(ctx, faqID, lang, field, translated); err != nil {
		// the translation result is lost but reproducible; retry the language
		p.logger.Error("Failed to persist translation",
			slog.String("faq_id", faqID),
			slog.String("lang", lang),
			slog.String("field", string(field)),
			slog.String("error", err.Error()),
		)
		if p.policy.Decide(retry.ClassRateLimited, job.Attempt).Retry {
			return outcomeRetry
		}
		return outcomeSkipped
	}

	*dst = translated
	return outcomeDone
}

// scheduleRetry re-publishes the job for the leftover languages with a bumped
// attempt counter and a backoff-delayed eligibility time. Publish failure is
// swallowed: the languages stay untranslated and the next read re-enqueues
// them through the pending path.
func (p *Processor) scheduleRetry(ctx context.Context, job queue.TranslationJob, langs []string) {
	next := queue.TranslationJob{
		JobID:          job.JobID,
		FAQID:          job.FAQID,
		Languages:      langs,
		Attempt:        job.Attempt + 1,
		NextEligibleAt: p.now().Add(p.policy.DelayFor(job.Attempt)),
	}

	if err := p.publisher.EnqueueTranslation(ctx, next); err != nil {
		p.logger.Error("Failed to re-publish translation job",
			slog.String("job_id", job.JobID),
			slog.String("faq_id", job.FAQID),
			slog.Any("languages", langs),
			slog.String("error", err.Error()),
		)
		return
	}

	p.logger.Info("Translation job re-published for retry",
		slog.String("job_id", job.JobID),
		slog.String("faq_id", job.FAQID),
		slog.Any("languages", langs),
		slog.Int("attempt", next.Attempt),
		slog.Time("next_eligible_at", next.NextEligibleAt),
	)
}

// scheduleResume re-publishes the remainder of a job halted by provider
// unavailability. An outage is not a per-job failure, so the attempt counter
// stays put and the retry budget remains reserved for rate limits; the job
// waits one base delay before probing the provider again.
func (p *Processor) scheduleResume(ctx context.Context, job queue.TranslationJob, langs []string) {
	next := queue.TranslationJob{
		JobID:          job.JobID,
		FAQID:          job.FAQID,
		Languages:      langs,
		Attempt:        job.Attempt,
		NextEligibleAt: p.now().Add(p.policy.BaseDelay),
	}

	if err := p.publisher.EnqueueTranslation(ctx, next); err != nil {
		p.logger.Error("Failed to re-publish halted translation job",
			slog.String("job_id", job.JobID),
			slog.String("faq_id", job.FAQID),
			slog.Any("languages", langs),
			slog.String("error", err.Error()),
		)
		return
	}

	p.logger.Info("Translation job re-published after provider outage",
		slog.String("job_id", job.JobID),
		slog.String("faq_id", job.FAQID),
		slog.Any("languages", langs),
		slog.Int("attempt", next.Attempt),
		slog.Time("next_eligible_at", next.NextEligibleAt),
	)
}

// refreshCaches rewrites the per-entry and aggregate cache keys for each
// language whose outcome is settled: completed languages get their translated
// view, exhausted ones a fresh pending view so readers see current default
// text instead of cold or stale keys. Cache failures only cost a later
// recompute, so they are logged and dropped.
func (p *Processor) refreshCaches(ctx context.Context, f *faq.FAQ, langs []string) {
	for _, lang := range langs {
		view := faq.Resolve(f, lang, p.langs.Default())
		if err := p.cache.SetEntry(ctx, lang, view); err != nil {
			p.logger.Warn("Failed to refresh entry cache",
				slog.String("faq_id", f.ID),
				slog.String("lang", lang),
				slog.String("error", err.Error()),
			)
		}
	}

	all, err := p.store.ListFAQs(ctx)
	if err != nil {
		p.logger.Warn("Failed to load FAQs for list cache refresh",
			slog.String("error", err.Error()),
		)
		return
	}

	for _, lang := range langs {
		views := make([]faq.TranslatedFAQ, 0, len(all))
		for i := range all {
			views = append(views, faq.Resolve(&all[i], lang, p.langs.Default()))
		}
		if err := p.cache.SetList(ctx, lang, views); err != nil {
			p.logger.Warn("Failed to refresh list cache",
				slog.String("lang", lang),
				slog.String("error", err.Error()),
			)
		}
	}
}

// jobTargets resolves the job's language list: an empty list means every
// supported non-default language. Unsupported and default-language codes are
// dropped rather than erroring.
func (p *Processor) jobTargets(job queue.TranslationJob) []string {
	if len(job.Languages) == 0 {
		return p.langs.Targets()
	}

	targets := make([]string, 0, len(job.Languages))
	seen := make(map[string]struct{}, len(job.Languages))
	for _, code := range job.Languages {
		lang := language.Normalize(code)
		if !p.langs.Contains(lang) || lang == p.langs.Default() {
			continue
		}
		if _, ok := seen[lang]; ok {
			continue
		}
		seen[lang] = struct{}{}
		targets = append(targets, lang)
	}
	return targets
}

// waitUntilEligible blocks until the job's eligibility time. Jobs land back
// on the queue immediately after a retry publish; the delay is enforced here
// at consumption time.
func (p *Processor) waitUntilEligible(ctx context.Context, job queue.TranslationJob) error {
	delay := job.NextEligibleAt.Sub(p.now())
	if delay <= 0 {
		return nil
	}

	p.logger.Debug("Job not yet eligible, waiting",
		slog.String("job_id", job.JobID),
		slog.Duration("delay", delay),
	)

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return domain.NewRetryableError(fmt.Errorf("canceled while waiting for eligibility: %w", ctx.Err()))
	}
}
