package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/faqhub/faq-service/internal/cache"
	"github.com/faqhub/faq-service/internal/faq"
	"github.com/faqhub/faq-service/internal/language"
	"github.com/faqhub/faq-service/internal/queue"
	"github.com/faqhub/faq-service/internal/retry"
)

// fakeStore is an in-memory ContentStore preserving insertion order.
type fakeStore struct {
	mu           sync.Mutex
	faqs         map[string]*faq.FAQ
	order        []string
	events       *[]string
	failMutation error
}

func newFakeStore(events *[]string) *fakeStore {
	return &fakeStore{
		faqs:   make(map[string]*faq.FAQ),
		events: events,
	}
}

func (s *fakeStore) record(event string) {
	if s.events != nil {
		*s.events = append(*s.events, event)
	}
}

func (s *fakeStore) CreateFAQ(ctx context.Context, f *faq.FAQ) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failMutation != nil {
		return s.failMutation
	}
	clone := *f
	clone.Translations = map[string]faq.Translation{}
	s.faqs[f.ID] = &clone
	s.order = append(s.order, f.ID)
	s.record("create")
	return nil
}

func (s *fakeStore) GetFAQByID(ctx context.Context, faqID string) (*faq.FAQ, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.faqs[faqID]
	if !ok {
		return nil, faq.ErrNotFound
	}
	clone := *f
	return &clone, nil
}

func (s *fakeStore) ListFAQs(ctx context.Context) ([]faq.FAQ, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]faq.FAQ, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.faqs[id])
	}
	return out, nil
}

func (s *fakeStore) UpdateFAQ(ctx context.Context, faqID, question, answer string) (*faq.FAQ, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failMutation != nil {
		return nil, s.failMutation
	}
	f, ok := s.faqs[faqID]
	if !ok {
		return nil, faq.ErrNotFound
	}
	f.Question = question
	f.Answer = answer
	f.Translations = map[string]faq.Translation{}
	f.UpdatedAt = time.Now().UTC()
	s.record("write")
	clone := *f
	return &clone, nil
}

func (s *fakeStore) DeleteFAQ(ctx context.Context, faqID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.faqs[faqID]; !ok {
		return faq.ErrNotFound
	}
	delete(s.faqs, faqID)
	s.record("delete")
	return nil
}

func (s *fakeStore) SetTranslation(ctx context.Context, faqID, lang, question, answer string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.faqs[faqID]
	if !ok {
		return faq.ErrNotFound
	}
	f.Translations[lang] = faq.Translation{Question: question, Answer: answer}
	return nil
}

// fakeCache implements TranslationCache and cache.KeyDeleter on a plain map.
type fakeCache struct {
	mu     sync.Mutex
	values map[string]faq.TranslatedFAQ
	lists  map[string][]faq.TranslatedFAQ
}

func newFakeCache() *fakeCache {
	return &fakeCache{
		values: make(map[string]faq.TranslatedFAQ),
		lists:  make(map[string][]faq.TranslatedFAQ),
	}
}

func (c *fakeCache) GetEntry(ctx context.Context, faqID, lang string) (*faq.TranslatedFAQ, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.values[cache.EntryKey(faqID, lang)]
	if !ok {
		return nil, false
	}
	return &v, true
}

func (c *fakeCache) SetEntry(ctx context.Context, lang string, view faq.TranslatedFAQ) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[cache.EntryKey(view.ID, lang)] = view
	return nil
}

func (c *fakeCache) GetList(ctx context.Context, lang string) ([]faq.TranslatedFAQ, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.lists[cache.ListKey(lang)]
	return v, ok
}

func (c *fakeCache) SetList(ctx context.Context, lang string, views []faq.TranslatedFAQ) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lists[cache.ListKey(lang)] = views
	return nil
}

func (c *fakeCache) DeleteKeys(ctx context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range keys {
		delete(c.values, key)
		delete(c.lists, key)
	}
	return nil
}

// fakeQueue records enqueued jobs.
type fakeQueue struct {
	mu   sync.Mutex
	jobs []queue.TranslationJob
	fail error
}

func (q *fakeQueue) EnqueueTranslation(ctx context.Context, job queue.TranslationJob) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.fail != nil {
		return q.fail
	}
	q.jobs = append(q.jobs, job)
	return nil
}

func (q *fakeQueue) jobsFor(faqID string) []queue.TranslationJob {
	q.mu.Lock()
	defer q.mu.Unlock()
	var out []queue.TranslationJob
	for _, j := range q.jobs {
		if j.FAQID == faqID {
			out = append(out, j)
		}
	}
	return out
}

// recordingInvalidator wraps the real invalidator and records event order.
type recordingInvalidator struct {
	inner  *cache.Invalidator
	events *[]string
}

func (r *recordingInvalidator) Invalidate(ctx context.Context, faqID string) {
	*r.events = append(*r.events, "invalidate")
	r.inner.Invalidate(ctx, faqID)
}

type fixture struct {
	orch   *Orchestrator
	store  *fakeStore
	cache  *fakeCache
	queue  *fakeQueue
	langs  *language.Set
	events []string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	fx := &fixture{
		cache: newFakeCache(),
		queue: &fakeQueue{},
		langs: language.NewSet("en", []string{"en", "es", "fr"}),
	}
	fx.store = newFakeStore(&fx.events)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	fx.orch = NewOrchestrator(&Config{
		Logger: logger,
		Store:  fx.store,
		Cache:  fx.cache,
		Invalidator: &recordingInvalidator{
			inner:  cache.NewInvalidator(fx.cache, fx.langs, logger),
			events: &fx.events,
		},
		Queue:     fx.queue,
		Languages: fx.langs,
	})

	return fx
}

func (fx *fixture) createFAQ(t *testing.T, question, answer string) *faq.FAQ {
	t.Helper()
	f, err := fx.orch.CreateFAQ(context.Background(), question, answer)
	require.NoError(t, err)
	return f
}

func TestGetFAQ_PendingContract(t *testing.T) {
	fx := newFixture(t)
	f := fx.createFAQ(t, "What is X?", "X is a thing.")

	view, err := fx.orch.GetFAQ(context.Background(), f.ID, "es")
	require.NoError(t, err)

	assert.True(t, view.Pending)
	assert.Equal(t, "What is X?", view.Question)
	assert.Equal(t, "X is a thing.", view.Answer)

	// one full job from create, plus exactly one (id, es) job from the read
	jobs := fx.queue.jobsFor(f.ID)
	require.Len(t, jobs, 2)
	assert.Empty(t, jobs[0].Languages)
	assert.Equal(t, []string{"es"}, jobs[1].Languages)
}

func TestGetFAQ_CachedPendingDoesNotReEnqueue(t *testing.T) {
	fx := newFixture(t)
	f := fx.createFAQ(t, "What is X?", "X is a thing.")

	_, err := fx.orch.GetFAQ(context.Background(), f.ID, "es")
	require.NoError(t, err)
	jobsAfterFirst := len(fx.queue.jobsFor(f.ID))

	// second read hits the cached pending view
	view, err := fx.orch.GetFAQ(context.Background(), f.ID, "es")
	require.NoError(t, err)
	assert.True(t, view.Pending)
	assert.Len(t, fx.queue.jobsFor(f.ID), jobsAfterFirst)
}

func TestGetFAQ_TranslatedServesStoredPair(t *testing.T) {
	fx := newFixture(t)
	f := fx.createFAQ(t, "What is X?", "X is a thing.")
	require.NoError(t, fx.store.SetTranslation(context.Background(), f.ID, "es", "¿Qué es X?", "X es una cosa."))

	view, err := fx.orch.GetFAQ(context.Background(), f.ID, "es")
	require.NoError(t, err)

	assert.False(t, view.Pending)
	assert.Equal(t, "¿Qué es X?", view.Question)
	assert.Equal(t, "X es una cosa.", view.Answer)
}

func TestResolveLanguage(t *testing.T) {
	fx := newFixture(t)

	assert.Equal(t, "es", fx.orch.ResolveLanguage("ES"))
	assert.Equal(t, "en", fx.orch.ResolveLanguage("xx"))
	assert.Equal(t, "en", fx.orch.ResolveLanguage(""))
}

func TestGetFAQ_UnsupportedLanguageFallsBackToDefault(t *testing.T) {
	fx := newFixture(t)
	f := fx.createFAQ(t, "What is X?", "X is a thing.")

	unsupported, err := fx.orch.GetFAQ(context.Background(), f.ID, "xx")
	require.NoError(t, err)

	defaultLang, err := fx.orch.GetFAQ(context.Background(), f.ID, "en")
	require.NoError(t, err)

	assert.Equal(t, defaultLang, unsupported)
	assert.False(t, unsupported.Pending)
}

func TestGetFAQ_NotFound(t *testing.T) {
	fx := newFixture(t)

	_, err := fx.orch.GetFAQ(context.Background(), "missing", "en")
	assert.ErrorIs(t, err, faq.ErrNotFound)
}

func TestListFAQs_InsertionOrderAndAggregateCache(t *testing.T) {
	fx := newFixture(t)
	first := fx.createFAQ(t, "First?", "First.")
	second := fx.createFAQ(t, "Second?", "Second.")

	views, pending, err := fx.orch.ListFAQs(context.Background(), "en")
	require.NoError(t, err)
	assert.False(t, pending)
	require.Len(t, views, 2)
	assert.Equal(t, first.ID, views[0].ID)
	assert.Equal(t, second.ID, views[1].ID)

	// cached verbatim
	cached, ok := fx.cache.GetList(context.Background(), "en")
	require.True(t, ok)
	assert.Equal(t, views, cached)
}

func TestListFAQs_PendingEnqueuesPerEntry(t *testing.T) {
	fx := newFixture(t)
	first := fx.createFAQ(t, "First?", "First.")
	second := fx.createFAQ(t, "Second?", "Second.")
	require.NoError(t, fx.store.SetTranslation(context.Background(), first.ID, "es", "¿Primera?", "Primera."))

	views, pending, err := fx.orch.ListFAQs(context.Background(), "es")
	require.NoError(t, err)

	assert.True(t, pending)
	assert.False(t, views[0].Pending)
	assert.True(t, views[1].Pending)

	// only the untranslated entry got a read-triggered job
	assert.Len(t, fx.queue.jobsFor(second.ID), 2) // create + read
	assert.Len(t, fx.queue.jobsFor(first.ID), 1)  // create only
}

func TestCreateFAQ_EnqueuesFullJobAndSanitizesAnswer(t *testing.T) {
	fx := newFixture(t)

	f := fx.createFAQ(t, "What is X?", `<p>X is <script>alert(1)</script>a thing.</p>`)

	assert.NotContains(t, f.Answer, "script")
	assert.Contains(t, f.Answer, "<p>")

	jobs := fx.queue.jobsFor(f.ID)
	require.Len(t, jobs, 1)
	assert.Empty(t, jobs[0].Languages, "create enqueues a full job")
	assert.Equal(t, 1, jobs[0].Attempt)
}

func TestUpdateFAQ_InvalidatesBeforeWrite(t *testing.T) {
	fx := newFixture(t)
	f := fx.createFAQ(t, "What is X?", "X is a thing.")
	fx.events = fx.events[:0]

	_, err := fx.orch.UpdateFAQ(context.Background(), f.ID, "What is Y?", "Y is a thing.")
	require.NoError(t, err)

	require.GreaterOrEqual(t, len(fx.events), 2)
	assert.Equal(t, []string{"invalidate", "write"}, fx.events[:2])
}

func TestUpdateFAQ_InvalidationCompleteness(t *testing.T) {
	fx := newFixture(t)
	f := fx.createFAQ(t, "What is X?", "X is a thing.")
	require.NoError(t, fx.store.SetTranslation(context.Background(), f.ID, "es", "¿Qué es X?", "X es una cosa."))

	// warm entry and list caches in every supported language
	ctx := context.Background()
	for _, lang := range fx.langs.All() {
		_, err := fx.orch.GetFAQ(ctx, f.ID, lang)
		require.NoError(t, err)
		_, _, err = fx.orch.ListFAQs(ctx, lang)
		require.NoError(t, err)
	}

	_, err := fx.orch.UpdateFAQ(ctx, f.ID, "What is Y?", "Y is different.")
	require.NoError(t, err)

	for _, lang := range fx.langs.All() {
		_, ok := fx.cache.GetEntry(ctx, f.ID, lang)
		assert.False(t, ok, "entry cache for %s must be purged", lang)
		_, ok = fx.cache.GetList(ctx, lang)
		assert.False(t, ok, "list cache for %s must be purged", lang)
	}

	// post-update reads never serve pre-update content
	view, err := fx.orch.GetFAQ(ctx, f.ID, "es")
	require.NoError(t, err)
	assert.Equal(t, "What is Y?", view.Question)
	assert.True(t, view.Pending)
}

func TestUpdateFAQ_StoreFailureSurfaces(t *testing.T) {
	fx := newFixture(t)
	f := fx.createFAQ(t, "What is X?", "X is a thing.")
	fx.store.failMutation = errors.New("db down")

	_, err := fx.orch.UpdateFAQ(context.Background(), f.ID, "q", "a")
	require.Error(t, err)

	// no re-translation job on a failed mutation
	assert.Len(t, fx.queue.jobsFor(f.ID), 1)
}

func TestDeleteFAQ_InvalidatesAndDeletes(t *testing.T) {
	fx := newFixture(t)
	f := fx.createFAQ(t, "What is X?", "X is a thing.")

	_, err := fx.orch.GetFAQ(context.Background(), f.ID, "en")
	require.NoError(t, err)

	require.NoError(t, fx.orch.DeleteFAQ(context.Background(), f.ID))

	_, ok := fx.cache.GetEntry(context.Background(), f.ID, "en")
	assert.False(t, ok)

	_, err = fx.orch.GetFAQ(context.Background(), f.ID, "en")
	assert.ErrorIs(t, err, faq.ErrNotFound)

	// delete does not enqueue a re-translation job
	assert.Len(t, fx.queue.jobsFor(f.ID), 1)
}

func TestGetFAQ_QueueFailureStillServesPending(t *testing.T) {
	fx := newFixture(t)
	f := fx.createFAQ(t, "What is X?", "X is a thing.")
	fx.queue.fail = errors.New("broker down")

	view, err := fx.orch.GetFAQ(context.Background(), f.ID, "es")
	require.NoError(t, err)
	assert.True(t, view.Pending)
	assert.Equal(t, "What is X?", view.Question)
}

// inlineProvider translates by prefixing the language code.
type inlineProvider struct {
	mu       sync.Mutex
	failures int
	calls    int
}

func (p *inlineProvider) Translate(ctx context.Context, text, lang string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	if p.failures > 0 {
		p.failures--
		return "", errors.New("provider boom")
	}
	return lang + ":" + text, nil
}

func TestGetFAQ_InlineFallbackServesCompleteTranslation(t *testing.T) {
	fx := newFixture(t)
	f := fx.createFAQ(t, "What is X?", "X is a thing.")

	provider := &inlineProvider{}
	fx.orch.inline = NewInlineTranslator(provider, retry.Policy{MaxAttempts: 2, BaseDelay: time.Millisecond}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	view, err := fx.orch.GetFAQ(context.Background(), f.ID, "es")
	require.NoError(t, err)

	assert.False(t, view.Pending)
	assert.Equal(t, "es:What is X?", view.Question)
	assert.Equal(t, "es:X is a thing.", view.Answer)

	// persisted, so later reads resolve from the store
	stored, err := fx.store.GetFAQByID(context.Background(), f.ID)
	require.NoError(t, err)
	_, ok := stored.Translated("es")
	assert.True(t, ok)

	// no async job needed
	assert.Len(t, fx.queue.jobsFor(f.ID), 1) // create only
}

func TestGetFAQ_InlineFailureDegradesToAsyncPending(t *testing.T) {
	fx := newFixture(t)
	f := fx.createFAQ(t, "What is X?", "X is a thing.")

	provider := &inlineProvider{failures: 10}
	fx.orch.inline = NewInlineTranslator(provider, retry.Policy{MaxAttempts: 2, BaseDelay: time.Millisecond}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	view, err := fx.orch.GetFAQ(context.Background(), f.ID, "es")
	require.NoError(t, err)

	assert.True(t, view.Pending)
	assert.Len(t, fx.queue.jobsFor(f.ID), 2) // create + async fallback
}
