package tasks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"barakah/models"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// Publisher renders (and optionally archives) one PDF job.
type Publisher interface {
	Publish(ctx context.Context, job models.PDFJob) error
}

// Dispatcher hands PDF work off after the HTTP response is decided.
type Dispatcher interface {
	Dispatch(ctx context.Context, job models.PDFJob) error
}

// InlineDispatcher renders in a detached goroutine of this process.
type InlineDispatcher struct {
	publisher Publisher
	timeout   time.Duration
	logger    *zap.Logger
}

func NewInlineDispatcher(publisher Publisher, timeout time.Duration, logger *zap.Logger) *InlineDispatcher {
	return &InlineDispatcher{publisher: publisher, timeout: timeout, logger: logger}
}

// Dispatch returns immediately; the request context is not inherited.
func (d *InlineDispatcher) Dispatch(_ context.Context, job models.PDFJob) error {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()
		if err := d.publisher.Publish(ctx, job); err != nil {
			d.logger.Error("pdf render failed", zap.String("id", job.ID), zap.Error(err))
		}
	}()
	return nil
}

// QueueDispatcher enqueues render tasks for the asynq worker.
type QueueDispatcher struct {
	client *asynq.Client
}

func NewQueueDispatcher(client *asynq.Client) *QueueDispatcher {
	return &QueueDispatcher{client: client}
}

func (d *QueueDispatcher) Dispatch(ctx context.Context, job models.PDFJob) error {
	task, opts, err := NewRenderPDFTask(job)
	if err != nil {
		return fmt.Errorf("build pdf task: %w", err)
	}
	if _, err := d.client.EnqueueContext(ctx, task, opts...); err != nil {
		// A duplicate id means the same dua is already queued.
		if errors.Is(err, asynq.ErrTaskIDConflict) {
			return nil
		}
		return fmt.Errorf("enqueue pdf task: %w", err)
	}
	return nil
}
