// Package queue defines the translation job message and its RabbitMQ
// publisher.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/faqhub/faq-service/shared/rabbitmq"
)

// TranslationJob is the work descriptor carried over the queue. An empty
// Languages slice means "all supported languages the FAQ lacks". Attempt and
// NextEligibleAt implement the worker-side backoff: a redelivered job is not
// processed before its eligibility time.
type TranslationJob struct {
	JobID          string    `json:"job_id"`
	FAQID          string    `json:"faq_id"`
	Languages      []string  `json:"languages,omitempty"`
	Attempt        int       `json:"attempt"`
	NextEligibleAt time.Time `json:"next_eligible_at,omitzero"`
}

// NewJob creates a first-attempt job for the given FAQ. Passing no languages
// requests all missing translations.
func NewJob(faqID string, languages ...string) TranslationJob {
	return TranslationJob{
		JobID:     uuid.New().String(),
		FAQID:     faqID,
		Languages: languages,
		Attempt:   1,
	}
}

// Publisher enqueues translation jobs for asynchronous processing.
type Publisher interface {
	EnqueueTranslation(ctx context.Context, job TranslationJob) error
}

// RabbitPublisher publishes jobs as persistent JSON messages.
type RabbitPublisher struct {
	client *rabbitmq.Client
	logger *slog.Logger
}

// NewRabbitPublisher creates a publisher over an established RabbitMQ client.
func NewRabbitPublisher(client *rabbitmq.Client, logger *slog.Logger) *RabbitPublisher {
	return &RabbitPublisher{
		client: client,
		logger: logger,
	}
}

// EnqueueTranslation implements Publisher.
func (p *RabbitPublisher) EnqueueTranslation(ctx context.Context, job TranslationJob) error {
	body, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal translation job: %w", err)
	}

	if err := p.client.PublishWithRetry(ctx, body, "application/json"); err != nil {
		return fmt.Errorf("failed to enqueue translation job: %w", err)
	}

	p.logger.Debug("Translation job enqueued",
		slog.String("job_id", job.JobID),
		slog.String("faq_id", job.FAQID),
		slog.Any("languages", job.Languages),
		slog.Int("attempt", job.Attempt),
	)

	return nil
}
