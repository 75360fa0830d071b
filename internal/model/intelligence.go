package model

type SegmentType string

const (
	SegmentTypeDiscussion SegmentType = "discussion"
	SegmentTypeDecision   SegmentType = "decision"
	SegmentTypeIssue      SegmentType = "issue"
	SegmentTypeQuestion   SegmentType = "question"
)

func (t SegmentType) IsValid() bool {
	switch t {
	case SegmentTypeDiscussion, SegmentTypeDecision, SegmentTypeIssue, SegmentTypeQuestion:
		return true
	}
	return false
}

type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

func (p Priority) IsValid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// MeetingSegment is a topic chapter of a meeting.
type MeetingSegment struct {
	Topic     string      `json:"topic"`
	Type      SegmentType `json:"type"`
	ID        int64       `json:"id"`
	MeetingID int64       `json:"meeting_id"`
	StartTime int32       `json:"start_time"`
	EndTime   int32       `json:"end_time"`
}

type ActionItem struct {
	Task         string   `json:"task"`
	Assignee     *string  `json:"assignee,omitempty"`
	Priority     Priority `json:"priority"`
	TimestampRef *string  `json:"timestamp_ref,omitempty"`
	ID           int64    `json:"id"`
	MeetingID    int64    `json:"meeting_id"`
	IsCompleted  bool     `json:"is_completed"`
}

type SpeakerStat struct {
	SpeakerLabel    string  `json:"speaker_label"`
	SpeakerName     *string `json:"speaker_name,omitempty"`
	ID              int64   `json:"id"`
	MeetingID       int64   `json:"meeting_id"`
	TalkTimeSeconds int32   `json:"talk_time_seconds"`
	ContributionPct float64 `json:"contribution_pct"`
}

// Intelligence is the full derived record set for one enrichment run.
type Intelligence struct {
	Summary       string
	LanguageStats LanguageStats
	Segments      []MeetingSegment
	ActionItems   []ActionItem
	SpeakerStats  []SpeakerStat
}
