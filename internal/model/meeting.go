package model

import "time"

type MeetingStatus string

const (
	MeetingStatusScheduled  MeetingStatus = "scheduled"
	MeetingStatusRecording  MeetingStatus = "recording"
	MeetingStatusProcessing MeetingStatus = "processing"
	MeetingStatusReady      MeetingStatus = "ready"
	MeetingStatusFailed     MeetingStatus = "failed"
)

func (s MeetingStatus) IsValid() bool {
	switch s {
	case MeetingStatusScheduled, MeetingStatusRecording, MeetingStatusProcessing,
		MeetingStatusReady, MeetingStatusFailed:
		return true
	}
	return false
}

// EnrichmentState tracks the intelligence run for the meeting's current transcript version.
type EnrichmentState string

const (
	EnrichmentStateNone      EnrichmentState = "none"
	EnrichmentStateRequested EnrichmentState = "requested"
	EnrichmentStateCompleted EnrichmentState = "completed"
	EnrichmentStateFailed    EnrichmentState = "failed"
)

// Utterance is one merged block of speech by a single speaker.
// JSON names match the transcript_json documents the dashboard already reads.
type Utterance struct {
	Start     float64 `json:"time"`
	End       float64 `json:"end"`
	TimeLabel string  `json:"timeLabel"`
	Speaker   string  `json:"speaker"`
	Text      string  `json:"text"`
}

type LanguageStats struct {
	EN float64 `json:"en"`
	ID float64 `json:"id"`
}

type Meeting struct {
	CreatedAt             time.Time       `json:"created_at"`
	UpdatedAt             time.Time       `json:"updated_at"`
	StartedAt             *time.Time      `json:"started_at,omitempty"`
	EnrichmentRequestedAt *time.Time      `json:"enrichment_requested_at,omitempty"`
	Title                 *string         `json:"title,omitempty"`
	MeetingURL            *string         `json:"meeting_url,omitempty"`
	AudioURL              *string         `json:"audio_url,omitempty"`
	TranscriptFull        *string         `json:"transcript_full,omitempty"`
	SummaryOverview       *string         `json:"summary_overview,omitempty"`
	DurationSeconds       *int32          `json:"duration_seconds,omitempty"`
	ParticipantCount      *int32          `json:"participant_count,omitempty"`
	LanguageStats         *LanguageStats  `json:"language_stats,omitempty"`
	Transcript            []Utterance     `json:"transcript_json,omitempty"`
	BotID                 string          `json:"bot_id"`
	Status                MeetingStatus   `json:"status"`
	EnrichmentState       EnrichmentState `json:"enrichment_state"`
	ID                    int64           `json:"id"`
	TranscriptVersion     int32           `json:"transcript_version"`
	EnrichedVersion       int32           `json:"enriched_version"`
}

// HasTranscript reports whether the meeting carries non-empty full text.
func (m *Meeting) HasTranscript() bool {
	return m.TranscriptFull != nil && *m.TranscriptFull != ""
}

// MeetingDetails is a meeting with its derived intelligence records.
type MeetingDetails struct {
	Meeting
	Segments     []MeetingSegment `json:"segments"`
	ActionItems  []ActionItem     `json:"action_items"`
	SpeakerStats []SpeakerStat    `json:"speaker_stats"`
}

// MeetingSummary is a list row: the meeting plus participant names from speaker stats.
type MeetingSummary struct {
	Meeting
	Participants []string `json:"participants"`
}
