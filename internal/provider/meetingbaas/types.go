package meetingbaas

import (
	"encoding/json"
	"math"
	"time"
)

// Bot is the v2 bot resource. Only fields the service reads are mapped.
type Bot struct {
	BotID           string          `json:"bot_id"`
	Status          string          `json:"status"`
	MeetingURL      *string         `json:"meeting_url"`
	MP4URL          *string         `json:"mp4_url"`
	Video           *string         `json:"video"`
	Audio           *string         `json:"audio"`
	Duration        *float64        `json:"duration"`
	DurationSeconds *float64        `json:"duration_seconds"`
	Transcript      json.RawMessage `json:"transcript"`
	// Transcription is a pre-signed URL to the transcript document.
	Transcription *string `json:"transcription"`
}

// MediaURL picks the recording by priority mp4 > video > audio.
func (b *Bot) MediaURL() *string {
	for _, candidate := range []*string{b.MP4URL, b.Video, b.Audio} {
		if candidate != nil && *candidate != "" {
			return candidate
		}
	}
	return nil
}

// DurationSecs prefers the v2 "duration" field over "duration_seconds".
// Whole seconds, truncated.
func (b *Bot) DurationSecs() *int32 {
	for _, candidate := range []*float64{b.Duration, b.DurationSeconds} {
		if candidate == nil || math.IsNaN(*candidate) || *candidate <= 0 {
			continue
		}
		v := int32(math.Floor(*candidate))
		return &v
	}
	return nil
}

// HasInlineTranscript reports whether the bot resource embeds its transcript.
func (b *Bot) HasInlineTranscript() bool {
	s := string(b.Transcript)
	return s != "" && s != "null"
}

type AutomaticLeave struct {
	WaitingRoomTimeout  int `json:"waiting_room_timeout"`
	NooneJoinedTimeout  int `json:"noone_joined_timeout"`
	EveryoneLeftTimeout int `json:"everyone_left_timeout"`
}

type TranscriptionConfig struct {
	Provider    string `json:"provider"`
	Diarization bool   `json:"diarization,omitempty"`
}

// DefaultAutomaticLeave leaves after five minutes in a waiting room or alone,
// and one minute after everyone else has left.
func DefaultAutomaticLeave() AutomaticLeave {
	return AutomaticLeave{
		WaitingRoomTimeout:  300,
		NooneJoinedTimeout:  300,
		EveryoneLeftTimeout: 60,
	}
}

type CreateBotRequest struct {
	MeetingURL           string              `json:"meeting_url"`
	BotName              string              `json:"bot_name"`
	DeduplicationID      string              `json:"deduplication_id,omitempty"`
	AllowMultipleBots    bool                `json:"allow_multiple_bots"`
	RecordingMode        string              `json:"recording_mode"`
	EntryMessage         string              `json:"entry_message,omitempty"`
	Reserved             bool                `json:"reserved"`
	AutomaticLeave       AutomaticLeave      `json:"automatic_leave"`
	TranscriptionEnabled bool                `json:"transcription_enabled"`
	TranscriptionConfig  TranscriptionConfig `json:"transcription_config"`
	WebhookURL           string              `json:"webhook_url,omitempty"`
}

type CreateBotResponse struct {
	BotID string `json:"bot_id"`
}

type CreateCalendarBotRequest struct {
	SeriesID             string              `json:"series_id"`
	BotName              string              `json:"bot_name"`
	RecordingMode        string              `json:"recording_mode"`
	EntryMessage         string              `json:"entry_message,omitempty"`
	AllOccurrences       bool                `json:"all_occurrences"`
	DeduplicationID      string              `json:"deduplication_id,omitempty"`
	AllowMultipleBots    bool                `json:"allow_multiple_bots"`
	TranscriptionEnabled bool                `json:"transcription_enabled"`
	TranscriptionConfig  TranscriptionConfig `json:"transcription_config"`
	AutomaticLeave       AutomaticLeave      `json:"automatic_leave"`
	WebhookURL           string              `json:"webhook_url,omitempty"`
}

type ListEventsOptions struct {
	Start time.Time
	End   time.Time
	Limit int
}

type CalendarEvent struct {
	ID         string    `json:"id"`
	SeriesID   string    `json:"series_id"`
	Title      string    `json:"title"`
	Summary    string    `json:"summary,omitempty"`
	MeetingURL string    `json:"meeting_url"`
	StartTime  time.Time `json:"start_time"`
	EndTime    time.Time `json:"end_time"`
}

// DisplayTitle falls back to the summary, then to a generic label.
func (e CalendarEvent) DisplayTitle() string {
	switch {
	case e.Title != "":
		return e.Title
	case e.Summary != "":
		return e.Summary
	default:
		return "Meeting"
	}
}
