package dto

import (
	"time"

	"callnote.app/server/internal/model"
	"callnote.app/server/internal/service"
)

const untitledMeeting = "Untitled Meeting"

type UpdateMeetingRequest struct {
	Title     *string    `json:"title,omitempty" binding:"omitempty,max=500"`
	StartedAt *time.Time `json:"started_at,omitempty"`
}

type MeetingResponse struct {
	ID                int64                 `json:"id,string"`
	BotID             string                `json:"bot_id"`
	Title             string                `json:"title"`
	MeetingURL        *string               `json:"meeting_url,omitempty"`
	AudioURL          *string               `json:"audio_url,omitempty"`
	Status            model.MeetingStatus   `json:"status"`
	EnrichmentState   model.EnrichmentState `json:"enrichment_state"`
	StartedAt         *time.Time            `json:"started_at,omitempty"`
	DurationSeconds   *int32                `json:"duration_seconds,omitempty"`
	ParticipantCount  *int32                `json:"participant_count,omitempty"`
	SummaryOverview   *string               `json:"summary_overview,omitempty"`
	TranscriptFull    *string               `json:"transcript_full,omitempty"`
	Transcript        []model.Utterance     `json:"transcript_json"`
	LanguageStats     *model.LanguageStats  `json:"language_stats,omitempty"`
	TranscriptVersion int32                 `json:"transcript_version"`
	EnrichedVersion   int32                 `json:"enriched_version"`
	CreatedAt         time.Time             `json:"created_at"`
	UpdatedAt         time.Time             `json:"updated_at"`
}

func ToMeetingResponse(m *model.Meeting) *MeetingResponse {
	transcript := m.Transcript
	if transcript == nil {
		transcript = []model.Utterance{}
	}
	return &MeetingResponse{
		ID:                m.ID,
		BotID:             m.BotID,
		Title:             titleOrDefault(m.Title),
		MeetingURL:        m.MeetingURL,
		AudioURL:          m.AudioURL,
		Status:            m.Status,
		EnrichmentState:   m.EnrichmentState,
		StartedAt:         m.StartedAt,
		DurationSeconds:   m.DurationSeconds,
		ParticipantCount:  m.ParticipantCount,
		SummaryOverview:   m.SummaryOverview,
		TranscriptFull:    m.TranscriptFull,
		Transcript:        transcript,
		LanguageStats:     m.LanguageStats,
		TranscriptVersion: m.TranscriptVersion,
		EnrichedVersion:   m.EnrichedVersion,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}

// MeetingListItem is the dashboard card shape.
type MeetingListItem struct {
	ID               int64                 `json:"id,string"`
	BotID            string                `json:"bot_id"`
	Title            string                `json:"title"`
	MeetingURL       *string               `json:"meeting_url,omitempty"`
	Date             *time.Time            `json:"date,omitempty"`
	DurationSeconds  *int32                `json:"duration_seconds,omitempty"`
	ParticipantCount *int32                `json:"participant_count,omitempty"`
	Status           model.MeetingStatus   `json:"status"`
	EnrichmentState  model.EnrichmentState `json:"enrichment_state"`
	Participants     []string              `json:"participants"`
	CreatedAt        time.Time             `json:"created_at"`
}

func ToMeetingList(summaries []model.MeetingSummary) []MeetingListItem {
	items := make([]MeetingListItem, len(summaries))
	for i, s := range summaries {
		participants := s.Participants
		if participants == nil {
			participants = []string{}
		}
		items[i] = MeetingListItem{
			ID:               s.ID,
			BotID:            s.BotID,
			Title:            titleOrDefault(s.Title),
			MeetingURL:       s.MeetingURL,
			Date:             s.StartedAt,
			DurationSeconds:  s.DurationSeconds,
			ParticipantCount: s.ParticipantCount,
			Status:           s.Status,
			EnrichmentState:  s.EnrichmentState,
			Participants:     participants,
			CreatedAt:        s.CreatedAt,
		}
	}
	return items
}

type MeetingDetailResponse struct {
	*MeetingResponse
	Segments     []SegmentResponse     `json:"segments"`
	ActionItems  []ActionItemResponse  `json:"action_items"`
	SpeakerStats []SpeakerStatResponse `json:"speaker_stats"`
}

func ToMeetingDetailResponse(d *model.MeetingDetails) *MeetingDetailResponse {
	resp := &MeetingDetailResponse{
		MeetingResponse: ToMeetingResponse(&d.Meeting),
		Segments:        make([]SegmentResponse, len(d.Segments)),
		ActionItems:     make([]ActionItemResponse, len(d.ActionItems)),
		SpeakerStats:    make([]SpeakerStatResponse, len(d.SpeakerStats)),
	}
	for i := range d.Segments {
		resp.Segments[i] = toSegmentResponse(&d.Segments[i])
	}
	for i := range d.ActionItems {
		resp.ActionItems[i] = *ToActionItemResponse(&d.ActionItems[i])
	}
	for i := range d.SpeakerStats {
		resp.SpeakerStats[i] = *ToSpeakerStatResponse(&d.SpeakerStats[i])
	}
	return resp
}

type SyncMeetingResponse struct {
	Success             bool                     `json:"success"`
	Message             string                   `json:"message"`
	Status              model.MeetingStatus      `json:"status"`
	TranscriptSource    service.TranscriptSource `json:"transcript_source,omitempty"`
	EnrichmentRequested bool                     `json:"enrichment_requested"`
}

func ToSyncMeetingResponse(r *service.SyncResult) *SyncMeetingResponse {
	resp := &SyncMeetingResponse{
		Success:             true,
		Message:             "Synced successfully",
		TranscriptSource:    r.TranscriptSource,
		EnrichmentRequested: r.EnrichmentRequested,
	}
	if r.Meeting != nil {
		resp.Status = r.Meeting.Status
	}
	return resp
}

func titleOrDefault(title *string) string {
	if title == nil || *title == "" {
		return untitledMeeting
	}
	return *title
}
