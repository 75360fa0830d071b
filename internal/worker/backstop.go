package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"callnote.app/server/common/logger"
	"callnote.app/server/common/metrics"
	"callnote.app/server/internal/model"
	"callnote.app/server/internal/queue"
	"callnote.app/server/internal/store"
)

// staleStatuses are the states a meeting leaves only through a provider push.
var staleStatuses = []model.MeetingStatus{
	model.MeetingStatusRecording,
	model.MeetingStatusProcessing,
}

type BackstopConfig struct {
	Interval   time.Duration
	StaleAfter time.Duration
	BatchSize  int32
}

// Backstop re-syncs meetings whose webhooks never arrived.
type Backstop struct {
	meetings store.MeetingStore
	producer queue.Producer
	metrics  *metrics.Metrics
	cfg      BackstopConfig
	now      func() time.Time

	stopCh    chan struct{}
	stoppedCh chan struct{}
}

func NewBackstop(meetings store.MeetingStore, producer queue.Producer, m *metrics.Metrics, cfg BackstopConfig) *Backstop {
	return &Backstop{
		meetings:  meetings,
		producer:  producer,
		metrics:   m,
		cfg:       cfg,
		now:       time.Now,
		stopCh:    make(chan struct{}),
		stoppedCh: make(chan struct{}),
	}
}

func (b *Backstop) Run(ctx context.Context) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		Component: "callnote.worker.backstop",
	})
	defer close(b.stoppedCh)

	ticker := time.NewTicker(b.cfg.Interval)
	defer ticker.Stop()

	slog.InfoContext(ctx, "backstop started",
		"interval", b.cfg.Interval,
		"stale_after", b.cfg.StaleAfter,
		"batch_size", b.cfg.BatchSize)

	for {
		select {
		case <-ctx.Done():
			return
		case <-b.stopCh:
			slog.InfoContext(ctx, "backstop stopping")
			return
		case <-ticker.C:
			if _, err := b.RunOnce(ctx); err != nil {
				slog.ErrorContext(ctx, "backstop cycle error", "error", err)
			}
		}
	}
}

func (b *Backstop) Stop() {
	close(b.stopCh)
	<-b.stoppedCh
}

// RunOnce enqueues a sync for each stale meeting and returns how many were enqueued.
func (b *Backstop) RunOnce(ctx context.Context) (int, error) {
	cutoff := b.now().Add(-b.cfg.StaleAfter)
	stale, err := b.meetings.ListStale(ctx, staleStatuses, cutoff, b.cfg.BatchSize)
	if err != nil {
		return 0, fmt.Errorf("listing stale meetings: %w", err)
	}
	if len(stale) == 0 {
		return 0, nil
	}

	enqueued := 0
	for _, m := range stale {
		meetingID := m.ID
		mctx := logger.WithLogFields(ctx, logger.LogFields{
			MeetingID: &meetingID,
			BotID:     &m.BotID,
		})

		if err := b.producer.Enqueue(mctx, queue.Task{
			TaskType:  queue.TaskTypeMeetingSync,
			BotID:     m.BotID,
			MeetingID: &meetingID,
		}); err != nil {
			slog.ErrorContext(mctx, "failed to enqueue backstop sync", "error", err)
			continue
		}

		// Push the meeting out of the stale window until the sync lands.
		if err := b.meetings.Touch(mctx, meetingID); err != nil {
			slog.WarnContext(mctx, "failed to touch meeting after enqueue", "error", err)
		}

		slog.InfoContext(mctx, "stale meeting queued for sync",
			"status", m.Status,
			"updated_at", m.UpdatedAt)
		enqueued++
	}

	b.metrics.RecordBackstop(enqueued)
	return enqueued, nil
}
