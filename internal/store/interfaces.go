package store

import (
	"context"
	"errors"
	"time"

	"callnote.app/server/internal/domain"
	"callnote.app/server/internal/model"
)

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = errors.New("not found")

// MeetingStore defines the contract for meeting data access.
// Lifecycle writes are keyed by bot id.
type MeetingStore interface {
	// Ensure creates a scheduled meeting for botID unless one exists.
	Ensure(ctx context.Context, id int64, botID string, meetingURL *string) error
	GetByID(ctx context.Context, id int64) (*model.Meeting, error)
	GetByBotID(ctx context.Context, botID string) (*model.Meeting, error)
	GetByBotIDForUpdate(ctx context.Context, botID string) (*model.Meeting, error)
	ApplyTransition(ctx context.Context, botID string, t domain.Transition) (*model.Meeting, error)
	List(ctx context.Context, status *model.MeetingStatus, limit int32) ([]model.Meeting, error)
	ListStale(ctx context.Context, statuses []model.MeetingStatus, updatedBefore time.Time, limit int32) ([]model.Meeting, error)
	UpdateDetails(ctx context.Context, id int64, title *string, startedAt *time.Time) (*model.Meeting, error)
	Touch(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error

	// ClaimEnrichment marks the meeting's transcript as being enriched.
	// Returns false when there is nothing to enrich or another claim is live.
	ClaimEnrichment(ctx context.Context, botID string, force bool, staleBefore time.Time) (bool, *model.Meeting, error)
	CompleteEnrichment(ctx context.Context, meetingID int64, intel *model.Intelligence, version int32) error
	FailEnrichment(ctx context.Context, meetingID int64) error
}

// ActionItemUpdate carries the fields a user may change. Nil means unchanged.
type ActionItemUpdate struct {
	Task        *string
	Assignee    *string
	Priority    *model.Priority
	IsCompleted *bool
}

// IntelligenceStore defines the contract for derived meeting records.
type IntelligenceStore interface {
	// Replace swaps all segments, action items and speaker stats of a meeting.
	// Callers run it inside a transaction.
	Replace(ctx context.Context, meetingID int64, intel *model.Intelligence) error
	ListSegments(ctx context.Context, meetingID int64) ([]model.MeetingSegment, error)
	ListActionItems(ctx context.Context, meetingID int64) ([]model.ActionItem, error)
	ListSpeakerStats(ctx context.Context, meetingID int64) ([]model.SpeakerStat, error)
	ListSpeakerStatsForMeetings(ctx context.Context, meetingIDs []int64) (map[int64][]model.SpeakerStat, error)
	UpdateActionItem(ctx context.Context, id int64, update ActionItemUpdate) (*model.ActionItem, error)
	DeleteActionItem(ctx context.Context, id int64) error
	RenameSpeaker(ctx context.Context, id int64, name string) (*model.SpeakerStat, error)
}

// NotificationLogStore defines the contract for processed notification signatures.
type NotificationLogStore interface {
	// CreateOrGet inserts the log unless its dedupe key exists; created reports which.
	CreateOrGet(ctx context.Context, log *model.NotificationLog) (*model.NotificationLog, bool, error)
}

type LLMEvalStore interface {
	Create(ctx context.Context, eval *model.LLMEval) (*model.LLMEval, error)
}
