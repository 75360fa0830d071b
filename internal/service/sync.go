package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"callnote.app/server/common/id"
	"callnote.app/server/common/logger"
	"callnote.app/server/common/metrics"
	"callnote.app/server/internal/domain"
	"callnote.app/server/internal/model"
	"callnote.app/server/internal/store"
	"callnote.app/server/internal/transcript"
)

const syncNotificationKind = "sync"

type TranscriptSource string

const (
	TranscriptSourceNone     TranscriptSource = ""
	TranscriptSourceInline   TranscriptSource = "inline"
	TranscriptSourceDocument TranscriptSource = "document"
)

type SyncResult struct {
	Meeting             *model.Meeting
	Transition          domain.Transition
	TranscriptSource    TranscriptSource
	EnrichmentRequested bool
}

// SyncService pulls a bot's state from the recording provider and applies it
// like a pushed notification.
type SyncService interface {
	Sync(ctx context.Context, meetingID int64) (*SyncResult, error)
	SyncByBotID(ctx context.Context, botID string) (*SyncResult, error)
}

type syncService struct {
	meetings store.MeetingStore
	txRunner TxRunner
	state    MeetingStateService
	provider RecordingProvider
	trigger  EnrichmentTrigger
	metrics  *metrics.Metrics
	now      func() time.Time
	logger   *slog.Logger
}

func NewSyncService(
	meetings store.MeetingStore,
	txRunner TxRunner,
	state MeetingStateService,
	provider RecordingProvider,
	trigger EnrichmentTrigger,
	m *metrics.Metrics,
	logger *slog.Logger,
) SyncService {
	if logger == nil {
		logger = slog.Default()
	}
	return &syncService{
		meetings: meetings,
		txRunner: txRunner,
		state:    state,
		provider: provider,
		trigger:  trigger,
		metrics:  m,
		now:      time.Now,
		logger:   logger,
	}
}

func (s *syncService) Sync(ctx context.Context, meetingID int64) (*SyncResult, error) {
	meeting, err := s.meetings.GetByID(ctx, meetingID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrMeetingNotFound
		}
		return nil, fmt.Errorf("loading meeting %d: %w", meetingID, err)
	}
	if meeting.BotID == "" {
		return nil, ErrNoBotID
	}
	return s.SyncByBotID(ctx, meeting.BotID)
}

func (s *syncService) SyncByBotID(ctx context.Context, botID string) (*SyncResult, error) {
	if botID == "" {
		return nil, ErrNoBotID
	}
	if !s.provider.Configured() {
		return nil, ErrProviderNotConfigured
	}

	ctx = logger.WithLogFields(ctx, logger.LogFields{
		BotID:     logger.Ptr(botID),
		Component: "callnote.service.sync",
	})

	result, err := s.sync(ctx, botID)
	if err != nil {
		s.metrics.RecordSync(metrics.OutcomeFailure)
		return nil, err
	}
	s.metrics.RecordSync(metrics.OutcomeSuccess)

	if result.Transition.EnrichmentEligible {
		ctx = logger.WithLogFields(ctx, logger.LogFields{MeetingID: &result.Meeting.ID})
		if err := s.trigger.Request(ctx, botID); err != nil {
			s.logger.ErrorContext(ctx, "failed to request enrichment after sync", "error", err)
		} else {
			result.EnrichmentRequested = true
		}
	}
	return result, nil
}

func (s *syncService) sync(ctx context.Context, botID string) (*SyncResult, error) {
	bot, err := s.provider.GetBot(ctx, botID)
	if err != nil {
		return nil, fmt.Errorf("fetching bot %s: %w", botID, providerError(err))
	}

	var (
		raw    json.RawMessage
		source TranscriptSource
	)
	switch {
	case bot.HasInlineTranscript():
		raw, source = bot.Transcript, TranscriptSourceInline
	case isHTTPURL(bot.Transcription):
		// A failed download fails the whole sync so nothing is written half way.
		raw, err = s.provider.FetchTranscriptDocument(ctx, *bot.Transcription)
		if err != nil {
			return nil, fmt.Errorf("fetching transcript for bot %s: %w", botID, err)
		}
		source = TranscriptSourceDocument
	}

	segments, hasTranscript, err := transcript.Normalize(raw)
	if err != nil {
		return nil, fmt.Errorf("decoding transcript for bot %s: %w", botID, err)
	}
	if !hasTranscript {
		source = TranscriptSourceNone
	}

	now := s.now()
	input := domain.SignalInput{
		At:              now,
		Signal:          domain.SignalSync,
		MeetingURL:      bot.MeetingURL,
		MediaURL:        bot.MediaURL(),
		DurationSeconds: bot.DurationSecs(),
		Segments:        segments,
		HasTranscript:   hasTranscript,
	}

	payload, err := json.Marshal(bot)
	if err != nil {
		return nil, fmt.Errorf("encoding bot %s: %w", botID, err)
	}
	entry := &model.NotificationLog{
		ID:      id.New(),
		BotID:   botID,
		Source:  model.NotificationSourceSync,
		Kind:    syncNotificationKind,
		Payload: payload,
		// Pulls are recorded for audit only; every pull gets its own key.
		DedupeKey: notificationSignature(model.NotificationSourceSync, syncNotificationKind, botID, payload, now.UnixNano()),
	}

	var applied *ApplyResult
	err = s.txRunner.WithTx(ctx, func(stores StoreProvider) error {
		if _, _, err := stores.NotificationLogs().CreateOrGet(ctx, entry); err != nil {
			return fmt.Errorf("recording sync: %w", err)
		}
		applied, err = s.state.ApplyInTx(ctx, stores, botID, input)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "meeting synced",
		"provider_status", bot.Status,
		"transcript_source", source,
		"segments", len(segments),
		"status", applied.Meeting.Status)

	return &SyncResult{
		Meeting:          applied.Meeting,
		Transition:       applied.Transition,
		TranscriptSource: source,
	}, nil
}

// isHTTPURL reports whether the provider's transcription field is a
// downloadable document. Other values, such as storage keys, mean no transcript yet.
func isHTTPURL(s *string) bool {
	if s == nil || *s == "" {
		return false
	}
	u, err := url.Parse(*s)
	if err != nil || u.Host == "" {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}
