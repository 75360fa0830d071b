package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"callnote.app/server/common/logger"
	"callnote.app/server/common/metrics"
	"callnote.app/server/internal/queue"
)

type Config struct {
	MaxAttempts int
	// ErrorBackoff is the pause after a failed read.
	ErrorBackoff time.Duration
}

type Worker struct {
	consumer  Consumer
	processor TaskProcessor
	metrics   *metrics.Metrics
	cfg       Config

	stopCh    chan struct{}
	stoppedCh chan struct{}
}

func New(consumer Consumer, processor TaskProcessor, m *metrics.Metrics, cfg Config) *Worker {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}
	if cfg.ErrorBackoff <= 0 {
		cfg.ErrorBackoff = time.Second
	}
	return &Worker{
		consumer:  consumer,
		processor: processor,
		metrics:   m,
		cfg:       cfg,
		stopCh:    make(chan struct{}),
		stoppedCh: make(chan struct{}),
	}
}

func (w *Worker) Run(ctx context.Context) error {
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		Component: "callnote.worker",
	})
	defer close(w.stoppedCh)

	slog.InfoContext(ctx, "worker started", "max_attempts", w.cfg.MaxAttempts)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.stopCh:
			slog.InfoContext(ctx, "worker stopping")
			return nil
		default:
			if err := w.processOneBatch(ctx); err != nil {
				slog.ErrorContext(ctx, "batch processing error", "error", err)
				select {
				case <-ctx.Done():
				case <-w.stopCh:
				case <-time.After(w.cfg.ErrorBackoff):
				}
			}
		}
	}
}

// Stop waits for the in-flight batch to finish.
func (w *Worker) Stop() {
	close(w.stopCh)
	<-w.stoppedCh
}

func (w *Worker) processOneBatch(ctx context.Context) error {
	messages, err := w.consumer.Read(ctx)
	if err != nil {
		return fmt.Errorf("reading from stream: %w", err)
	}

	for _, msg := range messages {
		_ = w.HandleMessage(ctx, msg)
	}
	return nil
}

// HandleMessage processes msg and settles it: ack on success, requeue or
// dead-letter on failure. Exported so the reclaimer settles messages the same way.
func (w *Worker) HandleMessage(ctx context.Context, msg queue.Message) error {
	sc := logger.StartSpanFromTraceID(ctx, msg.TraceID, "worker.process_task")
	defer sc.End()
	ctx = logger.WithLogFields(sc.Context(), messageFields(msg))

	start := time.Now()
	slog.InfoContext(ctx, "processing task",
		"task_type", msg.TaskType,
		"attempt", msg.Attempt)

	if err := w.processMessageSafe(ctx, msg); err != nil {
		sc.RecordError(err)
		slog.ErrorContext(ctx, "task failed",
			"error", err,
			"task_type", msg.TaskType,
			"duration_ms", time.Since(start).Milliseconds())
		w.handleFailedMessage(ctx, msg, err)
		return err
	}

	if err := w.consumer.Ack(ctx, msg); err != nil {
		// The reclaimer redelivers it; every task is safe to repeat.
		slog.WarnContext(ctx, "failed to ACK message", "error", err)
	}
	w.metrics.RecordTask(string(msg.TaskType), "success")
	slog.InfoContext(ctx, "task completed",
		"task_type", msg.TaskType,
		"duration_ms", time.Since(start).Milliseconds())
	return nil
}

func (w *Worker) processMessageSafe(ctx context.Context, msg queue.Message) (err error) {
	defer func() {
		if r := recover(); r != nil {
			slog.ErrorContext(ctx, "panic recovered in task processing", "panic", r)
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return w.processor.Process(ctx, msg)
}

func (w *Worker) handleFailedMessage(ctx context.Context, msg queue.Message, err error) {
	if IsPermanent(err) || msg.Attempt >= w.cfg.MaxAttempts {
		slog.ErrorContext(ctx, "giving up on task, sending to DLQ",
			"attempts", msg.Attempt,
			"permanent", IsPermanent(err))
		if dlqErr := w.consumer.SendDLQ(ctx, msg, err.Error()); dlqErr != nil {
			slog.ErrorContext(ctx, "failed to send to DLQ", "error", dlqErr)
		}
		w.metrics.RecordTask(string(msg.TaskType), "dead_lettered")
		return
	}

	slog.WarnContext(ctx, "requeuing failed task", "attempt", msg.Attempt)
	if requeueErr := w.consumer.Requeue(ctx, msg, err.Error()); requeueErr != nil {
		slog.ErrorContext(ctx, "failed to requeue message", "error", requeueErr)
	}
	w.metrics.RecordTask(string(msg.TaskType), "retried")
}

func messageFields(msg queue.Message) logger.LogFields {
	fields := logger.LogFields{
		MessageID: &msg.ID,
		MeetingID: msg.MeetingID,
	}
	if msg.BotID != "" {
		fields.BotID = &msg.BotID
	}
	return fields
}
