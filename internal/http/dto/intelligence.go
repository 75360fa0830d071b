package dto

import (
	"callnote.app/server/internal/model"
	"callnote.app/server/internal/service"
	"callnote.app/server/internal/store"
)

type ProcessIntelligenceRequest struct {
	BotID string `json:"bot_id" binding:"required"`
}

type ProcessIntelligenceResponse struct {
	Success   bool   `json:"success"`
	MeetingID int64  `json:"meeting_id,string"`
	Analyzer  string `json:"analyzer,omitempty"`
	Version   int32  `json:"version"`
	Skipped   bool   `json:"skipped,omitempty"`
}

func ToProcessIntelligenceResponse(r *service.EnrichmentResult) *ProcessIntelligenceResponse {
	resp := &ProcessIntelligenceResponse{
		Success:  true,
		Analyzer: r.Analyzer,
		Version:  r.Version,
		Skipped:  r.Skipped,
	}
	if r.Meeting != nil {
		resp.MeetingID = r.Meeting.ID
	}
	return resp
}

type SegmentResponse struct {
	ID        int64             `json:"id,string"`
	Topic     string            `json:"topic"`
	Type      model.SegmentType `json:"type"`
	StartTime int32             `json:"start_time"`
	EndTime   int32             `json:"end_time"`
}

func toSegmentResponse(s *model.MeetingSegment) SegmentResponse {
	return SegmentResponse{
		ID:        s.ID,
		Topic:     s.Topic,
		Type:      s.Type,
		StartTime: s.StartTime,
		EndTime:   s.EndTime,
	}
}

type UpdateActionItemRequest struct {
	Task        *string         `json:"task,omitempty" binding:"omitempty,max=2000"`
	Assignee    *string         `json:"assignee,omitempty" binding:"omitempty,max=255"`
	Priority    *model.Priority `json:"priority,omitempty"`
	IsCompleted *bool           `json:"is_completed,omitempty"`
}

func (r UpdateActionItemRequest) ToUpdate() store.ActionItemUpdate {
	return store.ActionItemUpdate{
		Task:        r.Task,
		Assignee:    r.Assignee,
		Priority:    r.Priority,
		IsCompleted: r.IsCompleted,
	}
}

type ActionItemResponse struct {
	ID           int64          `json:"id,string"`
	MeetingID    int64          `json:"meeting_id,string"`
	Task         string         `json:"task"`
	Assignee     *string        `json:"assignee,omitempty"`
	Priority     model.Priority `json:"priority"`
	TimestampRef *string        `json:"timestamp_ref,omitempty"`
	IsCompleted  bool           `json:"is_completed"`
}

func ToActionItemResponse(a *model.ActionItem) *ActionItemResponse {
	return &ActionItemResponse{
		ID:           a.ID,
		MeetingID:    a.MeetingID,
		Task:         a.Task,
		Assignee:     a.Assignee,
		Priority:     a.Priority,
		TimestampRef: a.TimestampRef,
		IsCompleted:  a.IsCompleted,
	}
}

type UpdateSpeakerStatRequest struct {
	SpeakerName string `json:"speaker_name" binding:"required,max=255"`
}

type SpeakerStatResponse struct {
	ID              int64   `json:"id,string"`
	MeetingID       int64   `json:"meeting_id,string"`
	SpeakerLabel    string  `json:"speaker_label"`
	SpeakerName     *string `json:"speaker_name,omitempty"`
	TalkTimeSeconds int32   `json:"talk_time_seconds"`
	ContributionPct float64 `json:"contribution_pct"`
}

func ToSpeakerStatResponse(s *model.SpeakerStat) *SpeakerStatResponse {
	return &SpeakerStatResponse{
		ID:              s.ID,
		MeetingID:       s.MeetingID,
		SpeakerLabel:    s.SpeakerLabel,
		SpeakerName:     s.SpeakerName,
		TalkTimeSeconds: s.TalkTimeSeconds,
		ContributionPct: s.ContributionPct,
	}
}
