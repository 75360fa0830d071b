package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"callnote.app/server/common/logger"
	"callnote.app/server/internal/queue"
)

// EnrichmentTrigger requests enrichment for a bot's meeting without waiting for it.
type EnrichmentTrigger interface {
	Request(ctx context.Context, botID string) error
}

type queueTrigger struct {
	producer queue.Producer
}

// NewQueueTrigger hands enrichment to the worker through the task stream.
func NewQueueTrigger(producer queue.Producer) EnrichmentTrigger {
	return &queueTrigger{producer: producer}
}

func (t *queueTrigger) Request(ctx context.Context, botID string) error {
	task := queue.Task{
		TaskType: queue.TaskTypeEnrichment,
		BotID:    botID,
	}
	if traceID := logger.TraceIDFromContext(ctx); traceID != "" {
		task.TraceID = &traceID
	}
	return t.producer.Enqueue(ctx, task)
}

type enrichmentFailure struct {
	botID string
	err   error
}

// DetachedTrigger runs enrichment in-process on its own goroutine and
// timeout. Failures are reported on an error channel drained by a logging
// goroutine, never to the caller.
type DetachedTrigger struct {
	enricher EnrichmentService
	timeout  time.Duration
	logger   *slog.Logger

	mu      sync.Mutex
	closed  bool
	errs    chan enrichmentFailure
	wg      sync.WaitGroup
	drained chan struct{}
}

// ErrTriggerClosed is returned by Request once Close has been called.
var ErrTriggerClosed = errors.New("enrichment trigger closed")

func NewDetachedTrigger(enricher EnrichmentService, timeout time.Duration, logger *slog.Logger) *DetachedTrigger {
	if logger == nil {
		logger = slog.Default()
	}
	t := &DetachedTrigger{
		enricher: enricher,
		timeout:  timeout,
		logger:   logger,
		errs:     make(chan enrichmentFailure, 16),
		drained:  make(chan struct{}),
	}
	go t.drain()
	return t
}

func (t *DetachedTrigger) Request(ctx context.Context, botID string) error {
	// The request context ends with the webhook response; keep only its values.
	runCtx := context.WithoutCancel(ctx)

	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return ErrTriggerClosed
	}
	t.wg.Add(1)
	t.mu.Unlock()

	go func() {
		defer t.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				t.logger.ErrorContext(runCtx, "panic in detached enrichment", "panic", r, "bot_id", botID)
			}
		}()

		ctx, cancel := context.WithTimeout(runCtx, t.timeout)
		defer cancel()

		if _, err := t.enricher.Enrich(ctx, botID); err != nil && !errors.Is(err, ErrEnrichmentInFlight) {
			t.errs <- enrichmentFailure{botID: botID, err: err}
		}
	}()
	return nil
}

// Close rejects new requests, waits for running enrichments and stops the
// error drain. Later calls are no-ops.
func (t *DetachedTrigger) Close() {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	t.closed = true
	t.mu.Unlock()

	t.wg.Wait()
	close(t.errs)
	<-t.drained
}

func (t *DetachedTrigger) drain() {
	defer close(t.drained)
	for f := range t.errs {
		t.logger.Error("detached enrichment failed", "bot_id", f.botID, "error", f.err)
	}
}
