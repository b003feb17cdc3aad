// Package worker consumes translation jobs from RabbitMQ and executes them
// against the translation provider with per-field persistence and
// self-scheduled retries.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/faqhub/faq-service/internal/worker/domain"
	"github.com/faqhub/faq-service/shared/rabbitmq"
)

// Config holds worker configuration
type Config struct {
	Logger        *slog.Logger
	RabbitClient  *rabbitmq.Client
	Processor     *Processor
	QueueName     string
	Concurrency   int
	PrefetchCount int
	JobTimeout    time.Duration
}

// Worker represents the background translation worker
type Worker struct {
	logger        *slog.Logger
	rabbitClient  *rabbitmq.Client
	processor     *Processor
	queueName     string
	concurrency   int
	prefetchCount int
	jobTimeout    time.Duration
	workerID      string
	jobsChan      chan *domain.JobMessage
	wg            sync.WaitGroup
	stopChan      chan struct{}
}

// NewWorker creates a new worker instance
func NewWorker(cfg *Config) *Worker {
	return &Worker{
		logger:        cfg.Logger,
		rabbitClient:  cfg.RabbitClient,
		processor:     cfg.Processor,
		queueName:     cfg.QueueName,
		concurrency:   cfg.Concurrency,
		prefetchCount: cfg.PrefetchCount,
		jobTimeout:    cfg.JobTimeout,
		workerID:      fmt.Sprintf("translation-worker-%s", uuid.New().String()[:8]),
		jobsChan:      make(chan *domain.JobMessage),
		stopChan:      make(chan struct{}),
	}
}

// Start begins consuming and processing translation jobs. It blocks until the
// context is canceled.
func (w *Worker) Start(ctx context.Context) error {
	w.logger.Info("Starting translation worker",
		slog.String("worker_id", w.workerID),
		slog.Int("concurrency", w.concurrency),
		slog.Duration("job_timeout", w.jobTimeout),
	)

	deliveries, err := w.setupConsumer(ctx)
	if err != nil {
		return fmt.Errorf("failed to set up consumer: %w", err)
	}

	w.spawnWorkerPool(ctx)
	w.startMessageDispatcher(ctx, deliveries)

	return nil
}

// Stop gracefully stops the worker
func (w *Worker) Stop() {
	w.logger.Info("Stopping worker...")
	close(w.stopChan)
	w.wg.Wait()
	w.logger.Info("Worker stopped")
}

// processJob runs one job through the processor under the job timeout. A job
// that times out while waiting for its eligibility window is NACKed back to
// the queue and picked up again later.
func (w *Worker) processJob(ctx context.Context, msg *domain.JobMessage) error {
	jobCtx := ctx
	if w.jobTimeout > 0 {
		var cancel context.CancelFunc
		jobCtx, cancel = context.WithTimeout(ctx, w.jobTimeout)
		defer cancel()
	}

	return w.processor.Process(jobCtx, msg.Job)
}
