package service

import (
	"context"
	"encoding/json"
	"errors"

	"callnote.app/server/internal/provider/meetingbaas"
)

// RecordingProvider is the part of the MeetingBaas client the services call.
type RecordingProvider interface {
	Configured() bool
	GetBot(ctx context.Context, botID string) (*meetingbaas.Bot, error)
	CreateBot(ctx context.Context, req meetingbaas.CreateBotRequest) (*meetingbaas.CreateBotResponse, error)
	ListBots(ctx context.Context) (json.RawMessage, error)
	ListCalendarEvents(ctx context.Context, calendarID string, opts meetingbaas.ListEventsOptions) ([]meetingbaas.CalendarEvent, error)
	CreateCalendarBot(ctx context.Context, calendarID string, req meetingbaas.CreateCalendarBotRequest) error
	FetchTranscriptDocument(ctx context.Context, url string) (json.RawMessage, error)
}

// BotDefaults are applied to every bot the service spawns.
type BotDefaults struct {
	Name         string
	EntryMessage string
	WebhookURL   string
}

const (
	recordingModeSpeakerView = "speaker_view"
	transcriptionProvider    = "gladia"
)

func transcriptionConfig() meetingbaas.TranscriptionConfig {
	return meetingbaas.TranscriptionConfig{Provider: transcriptionProvider, Diarization: true}
}

func providerError(err error) error {
	if errors.Is(err, meetingbaas.ErrNotConfigured) {
		return ErrProviderNotConfigured
	}
	return err
}
