package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"callnote.app/server/common/llm"
	"callnote.app/server/internal/queue"
	"callnote.app/server/internal/service"
)

// Processor routes queued tasks to the services that own them.
type Processor struct {
	enrichment service.EnrichmentService
	sync       service.SyncService
	calendar   service.CalendarScheduler
}

func NewProcessor(enrichment service.EnrichmentService, sync service.SyncService, calendar service.CalendarScheduler) *Processor {
	return &Processor{
		enrichment: enrichment,
		sync:       sync,
		calendar:   calendar,
	}
}

func (p *Processor) Process(ctx context.Context, msg queue.Message) error {
	switch msg.TaskType {
	case queue.TaskTypeEnrichment:
		return p.enrich(ctx, msg)
	case queue.TaskTypeMeetingSync:
		return p.syncMeeting(ctx, msg)
	case queue.TaskTypeCalendarAutoJoin:
		return p.autoJoin(ctx, msg)
	default:
		return Permanent(fmt.Errorf("unknown task type %q", msg.TaskType))
	}
}

func (p *Processor) enrich(ctx context.Context, msg queue.Message) error {
	result, err := p.enrichment.Enrich(ctx, msg.BotID)
	switch {
	case errors.Is(err, service.ErrEnrichmentInFlight):
		// The live claim owner finishes the run; its TTL covers crashes.
		slog.InfoContext(ctx, "enrichment already claimed, skipping")
		return nil
	case errors.Is(err, service.ErrNoTranscript), errors.Is(err, service.ErrMeetingNotFound):
		slog.WarnContext(ctx, "nothing to enrich, dropping task", "reason", err)
		return nil
	case err != nil && unrecoverable(ctx, err):
		// Enrichment is already recorded as failed.
		return Permanent(fmt.Errorf("enriching meeting: %w", err))
	case err != nil:
		return fmt.Errorf("enriching meeting: %w", err)
	}

	if result.Skipped {
		slog.InfoContext(ctx, "transcript already enriched", "version", result.Version)
		return nil
	}
	slog.InfoContext(ctx, "enrichment task completed",
		"analyzer", result.Analyzer,
		"version", result.Version)
	return nil
}

// unrecoverable reports analyzer failures a retry would repeat, such as
// undecodable or truncated output.
func unrecoverable(ctx context.Context, err error) bool {
	var decodeErr *llm.DecodeError
	if errors.As(err, &decodeErr) || errors.Is(err, llm.ErrTruncated) {
		return true
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return !llm.IsRetryable(ctx, err)
}

func (p *Processor) syncMeeting(ctx context.Context, msg queue.Message) error {
	result, err := p.sync.SyncByBotID(ctx, msg.BotID)
	switch {
	case errors.Is(err, service.ErrProviderNotConfigured):
		return Permanent(err)
	case errors.Is(err, service.ErrMeetingNotFound):
		slog.WarnContext(ctx, "meeting gone before sync, dropping task")
		return nil
	case err != nil:
		return fmt.Errorf("syncing meeting: %w", err)
	}

	attrs := []any{
		"transcript_source", result.TranscriptSource,
		"enrichment_requested", result.EnrichmentRequested,
	}
	if result.Meeting != nil {
		attrs = append(attrs, "status", result.Meeting.Status)
	}
	slog.InfoContext(ctx, "sync task completed", attrs...)
	return nil
}

func (p *Processor) autoJoin(ctx context.Context, msg queue.Message) error {
	if msg.SeriesID != "" {
		err := p.calendar.ScheduleSeries(ctx, msg.CalendarID, msg.SeriesID)
		if errors.Is(err, service.ErrProviderNotConfigured) {
			return Permanent(err)
		}
		if err != nil {
			return fmt.Errorf("scheduling series %s: %w", msg.SeriesID, err)
		}
		slog.InfoContext(ctx, "calendar series scheduled",
			"calendar_id", msg.CalendarID,
			"series_id", msg.SeriesID)
		return nil
	}

	result, err := p.calendar.AutoJoin(ctx, msg.CalendarID)
	if errors.Is(err, service.ErrProviderNotConfigured) {
		return Permanent(err)
	}
	if err != nil {
		return fmt.Errorf("auto-joining calendar %s: %w", msg.CalendarID, err)
	}

	slog.InfoContext(ctx, "calendar auto-join refreshed",
		"calendar_id", result.CalendarID,
		"scheduled", len(result.Scheduled),
		"failed", len(result.Failed))
	return nil
}
