package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"callnote.app/server/common/logger"
	"callnote.app/server/internal/mapper"
	"callnote.app/server/internal/provider/meetingbaas"
	"callnote.app/server/internal/queue"
)

const (
	DefaultUpcomingDays = 3
	autoJoinLookahead   = 14 * 24 * time.Hour
	maxCalendarEvents   = 100
)

type AutoJoinResult struct {
	CalendarID string
	Scheduled  []string
	Failed     []string
}

// CalendarScheduler sends bots to calendar meetings.
type CalendarScheduler interface {
	// Schedule enqueues an auto-join for the calendar, or for one series when
	// the event names a series and a meeting URL.
	Schedule(ctx context.Context, calendarID string, event *mapper.CalendarEvent) error
	// AutoJoin creates a calendar bot for every upcoming series with a meeting URL.
	AutoJoin(ctx context.Context, calendarID string) (*AutoJoinResult, error)
	ScheduleSeries(ctx context.Context, calendarID, seriesID string) error
	UpcomingEvents(ctx context.Context, calendarID string, days int) ([]meetingbaas.CalendarEvent, error)
}

type calendarScheduler struct {
	provider RecordingProvider
	producer queue.Producer
	defaults BotDefaults
	now      func() time.Time
	logger   *slog.Logger
}

func NewCalendarScheduler(provider RecordingProvider, producer queue.Producer, defaults BotDefaults, logger *slog.Logger) CalendarScheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &calendarScheduler{
		provider: provider,
		producer: producer,
		defaults: defaults,
		now:      time.Now,
		logger:   logger,
	}
}

func (s *calendarScheduler) Schedule(ctx context.Context, calendarID string, event *mapper.CalendarEvent) error {
	if calendarID == "" {
		return fmt.Errorf("%w: calendar_id is required", ErrInvalidInput)
	}

	task := queue.Task{
		TaskType:   queue.TaskTypeCalendarAutoJoin,
		CalendarID: calendarID,
	}
	if event != nil && event.SeriesID != "" && event.MeetingURL != "" {
		task.SeriesID = event.SeriesID
		task.MeetingURL = event.MeetingURL
	}
	if traceID := logger.TraceIDFromContext(ctx); traceID != "" {
		task.TraceID = &traceID
	}
	return s.producer.Enqueue(ctx, task)
}

func (s *calendarScheduler) AutoJoin(ctx context.Context, calendarID string) (*AutoJoinResult, error) {
	if !s.provider.Configured() {
		return nil, ErrProviderNotConfigured
	}

	now := s.now()
	events, err := s.provider.ListCalendarEvents(ctx, calendarID, meetingbaas.ListEventsOptions{
		Start: now,
		End:   now.Add(autoJoinLookahead),
		Limit: maxCalendarEvents,
	})
	if err != nil {
		return nil, fmt.Errorf("listing events for calendar %s: %w", calendarID, providerError(err))
	}

	result := &AutoJoinResult{CalendarID: calendarID}
	for _, event := range meetingbaas.SeriesWithMeetingURL(events) {
		if err := s.ScheduleSeries(ctx, calendarID, event.SeriesID); err != nil {
			s.logger.WarnContext(ctx, "failed to schedule calendar bot",
				"calendar_id", calendarID,
				"series_id", event.SeriesID,
				"title", event.DisplayTitle(),
				"error", err)
			result.Failed = append(result.Failed, event.SeriesID)
			continue
		}
		result.Scheduled = append(result.Scheduled, event.SeriesID)
	}

	s.logger.InfoContext(ctx, "calendar auto-join finished",
		"calendar_id", calendarID,
		"events", len(events),
		"scheduled", len(result.Scheduled),
		"failed", len(result.Failed))
	return result, nil
}

func (s *calendarScheduler) ScheduleSeries(ctx context.Context, calendarID, seriesID string) error {
	if calendarID == "" || seriesID == "" {
		return fmt.Errorf("%w: calendar_id and series_id are required", ErrInvalidInput)
	}
	err := s.provider.CreateCalendarBot(ctx, calendarID, meetingbaas.CreateCalendarBotRequest{
		SeriesID:             seriesID,
		BotName:              s.defaults.Name,
		RecordingMode:        recordingModeSpeakerView,
		EntryMessage:         s.defaults.EntryMessage,
		AllOccurrences:       true,
		DeduplicationID:      calendarID + ":" + seriesID,
		TranscriptionEnabled: true,
		TranscriptionConfig:  transcriptionConfig(),
		AutomaticLeave:       meetingbaas.DefaultAutomaticLeave(),
		WebhookURL:           s.defaults.WebhookURL,
	})
	if err != nil {
		return providerError(err)
	}
	return nil
}

func (s *calendarScheduler) UpcomingEvents(ctx context.Context, calendarID string, days int) ([]meetingbaas.CalendarEvent, error) {
	if days <= 0 {
		days = DefaultUpcomingDays
	}
	now := s.now()
	events, err := s.provider.ListCalendarEvents(ctx, calendarID, meetingbaas.ListEventsOptions{
		Start: now,
		End:   now.AddDate(0, 0, days),
		Limit: maxCalendarEvents,
	})
	if err != nil {
		return nil, providerError(err)
	}

	events = meetingbaas.FilterEventsNextNDays(events, now, days)
	meetingbaas.SortEventsAscending(events)
	return events, nil
}
