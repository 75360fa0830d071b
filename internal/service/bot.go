package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"callnote.app/server/common/id"
	"callnote.app/server/internal/model"
	"callnote.app/server/internal/provider/meetingbaas"
	"callnote.app/server/internal/store"
)

type SpawnBotParams struct {
	MeetingURL string
	BotName    *string
	Title      *string
}

type SpawnBotResult struct {
	Meeting *model.Meeting
	BotID   string
}

// BotService sends recording bots into meetings.
type BotService interface {
	Spawn(ctx context.Context, params SpawnBotParams) (*SpawnBotResult, error)
	List(ctx context.Context) (json.RawMessage, error)
}

type botService struct {
	meetings store.MeetingStore
	provider RecordingProvider
	defaults BotDefaults
	logger   *slog.Logger
}

func NewBotService(meetings store.MeetingStore, provider RecordingProvider, defaults BotDefaults, logger *slog.Logger) BotService {
	if logger == nil {
		logger = slog.Default()
	}
	return &botService{
		meetings: meetings,
		provider: provider,
		defaults: defaults,
		logger:   logger,
	}
}

func (s *botService) Spawn(ctx context.Context, params SpawnBotParams) (*SpawnBotResult, error) {
	meetingURL := strings.TrimSpace(params.MeetingURL)
	if err := validateMeetingURL(meetingURL); err != nil {
		return nil, err
	}
	if !s.provider.Configured() {
		return nil, ErrProviderNotConfigured
	}

	botName := s.defaults.Name
	if params.BotName != nil && strings.TrimSpace(*params.BotName) != "" {
		botName = strings.TrimSpace(*params.BotName)
	}

	resp, err := s.provider.CreateBot(ctx, meetingbaas.CreateBotRequest{
		MeetingURL:           meetingURL,
		BotName:              botName,
		DeduplicationID:      meetingURL,
		RecordingMode:        recordingModeSpeakerView,
		EntryMessage:         s.defaults.EntryMessage,
		AutomaticLeave:       meetingbaas.DefaultAutomaticLeave(),
		TranscriptionEnabled: true,
		TranscriptionConfig:  transcriptionConfig(),
		WebhookURL:           s.defaults.WebhookURL,
	})
	if err != nil {
		return nil, fmt.Errorf("creating bot: %w", providerError(err))
	}

	// The provider returns the existing bot for a duplicate meeting URL.
	if err := s.meetings.Ensure(ctx, id.New(), resp.BotID, &meetingURL); err != nil {
		return nil, fmt.Errorf("recording meeting for bot %s: %w", resp.BotID, err)
	}
	meeting, err := s.meetings.GetByBotID(ctx, resp.BotID)
	if err != nil {
		return nil, fmt.Errorf("loading meeting for bot %s: %w", resp.BotID, err)
	}

	if title := params.Title; title != nil && strings.TrimSpace(*title) != "" {
		trimmed := strings.TrimSpace(*title)
		meetingID := meeting.ID
		meeting, err = s.meetings.UpdateDetails(ctx, meetingID, &trimmed, nil)
		if err != nil {
			return nil, fmt.Errorf("titling meeting %d: %w", meetingID, err)
		}
	}

	s.logger.InfoContext(ctx, "bot spawned",
		"bot_id", resp.BotID,
		"meeting_id", meeting.ID)

	return &SpawnBotResult{Meeting: meeting, BotID: resp.BotID}, nil
}

func (s *botService) List(ctx context.Context) (json.RawMessage, error) {
	if !s.provider.Configured() {
		return nil, ErrProviderNotConfigured
	}
	bots, err := s.provider.ListBots(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing bots: %w", providerError(err))
	}
	return bots, nil
}

func validateMeetingURL(raw string) error {
	if raw == "" {
		return fmt.Errorf("%w: meeting_url is required", ErrInvalidInput)
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: meeting_url must be an http(s) url", ErrInvalidInput)
	}
	return nil
}
