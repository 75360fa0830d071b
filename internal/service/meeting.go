package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"callnote.app/server/internal/model"
	"callnote.app/server/internal/store"
)

const (
	DefaultMeetingListLimit = 20
	MaxMeetingListLimit     = 100
)

type ListMeetingsParams struct {
	Status *model.MeetingStatus
	Limit  int32
}

type UpdateMeetingParams struct {
	Title     *string
	StartedAt *time.Time
}

// MeetingService serves the dashboard's reads and user edits.
type MeetingService interface {
	List(ctx context.Context, params ListMeetingsParams) ([]model.MeetingSummary, error)
	Get(ctx context.Context, id int64) (*model.MeetingDetails, error)
	Update(ctx context.Context, id int64, params UpdateMeetingParams) (*model.Meeting, error)
	Delete(ctx context.Context, id int64) error

	UpdateActionItem(ctx context.Context, id int64, update store.ActionItemUpdate) (*model.ActionItem, error)
	DeleteActionItem(ctx context.Context, id int64) error
	RenameSpeaker(ctx context.Context, id int64, name string) (*model.SpeakerStat, error)
}

type meetingService struct {
	meetings     store.MeetingStore
	intelligence store.IntelligenceStore
	logger       *slog.Logger
}

func NewMeetingService(meetings store.MeetingStore, intelligence store.IntelligenceStore, logger *slog.Logger) MeetingService {
	if logger == nil {
		logger = slog.Default()
	}
	return &meetingService{
		meetings:     meetings,
		intelligence: intelligence,
		logger:       logger,
	}
}

func (s *meetingService) List(ctx context.Context, params ListMeetingsParams) ([]model.MeetingSummary, error) {
	if params.Status != nil && !params.Status.IsValid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, *params.Status)
	}
	limit := params.Limit
	if limit <= 0 {
		limit = DefaultMeetingListLimit
	}
	if limit > MaxMeetingListLimit {
		limit = MaxMeetingListLimit
	}

	meetings, err := s.meetings.List(ctx, params.Status, limit)
	if err != nil {
		return nil, fmt.Errorf("listing meetings: %w", err)
	}
	if len(meetings) == 0 {
		return []model.MeetingSummary{}, nil
	}

	ids := make([]int64, len(meetings))
	for i, m := range meetings {
		ids[i] = m.ID
	}
	stats, err := s.intelligence.ListSpeakerStatsForMeetings(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("listing speaker stats: %w", err)
	}

	summaries := make([]model.MeetingSummary, len(meetings))
	for i, m := range meetings {
		summaries[i] = model.MeetingSummary{
			Meeting:      m,
			Participants: participantNames(stats[m.ID]),
		}
	}
	return summaries, nil
}

func (s *meetingService) Get(ctx context.Context, id int64) (*model.MeetingDetails, error) {
	meeting, err := s.meetings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrMeetingNotFound
		}
		return nil, fmt.Errorf("loading meeting %d: %w", id, err)
	}

	segments, err := s.intelligence.ListSegments(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("listing segments: %w", err)
	}
	actionItems, err := s.intelligence.ListActionItems(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("listing action items: %w", err)
	}
	speakerStats, err := s.intelligence.ListSpeakerStats(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("listing speaker stats: %w", err)
	}

	return &model.MeetingDetails{
		Meeting:      *meeting,
		Segments:     orEmpty(segments),
		ActionItems:  orEmpty(actionItems),
		SpeakerStats: orEmpty(speakerStats),
	}, nil
}

func (s *meetingService) Update(ctx context.Context, id int64, params UpdateMeetingParams) (*model.Meeting, error) {
	if params.Title != nil {
		title := strings.TrimSpace(*params.Title)
		if title == "" {
			return nil, fmt.Errorf("%w: title cannot be empty", ErrInvalidInput)
		}
		params.Title = &title
	}

	meeting, err := s.meetings.UpdateDetails(ctx, id, params.Title, params.StartedAt)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrMeetingNotFound
		}
		return nil, fmt.Errorf("updating meeting %d: %w", id, err)
	}
	return meeting, nil
}

func (s *meetingService) Delete(ctx context.Context, id int64) error {
	if err := s.meetings.Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrMeetingNotFound
		}
		return fmt.Errorf("deleting meeting %d: %w", id, err)
	}
	s.logger.InfoContext(ctx, "meeting deleted", "meeting_id", id)
	return nil
}

func (s *meetingService) UpdateActionItem(ctx context.Context, id int64, update store.ActionItemUpdate) (*model.ActionItem, error) {
	if update.Task != nil && strings.TrimSpace(*update.Task) == "" {
		return nil, fmt.Errorf("%w: task cannot be empty", ErrInvalidInput)
	}
	if update.Priority != nil && !update.Priority.IsValid() {
		return nil, fmt.Errorf("%w: unknown priority %q", ErrInvalidInput, *update.Priority)
	}

	item, err := s.intelligence.UpdateActionItem(ctx, id, update)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrActionItemNotFound
		}
		return nil, fmt.Errorf("updating action item %d: %w", id, err)
	}
	return item, nil
}

func (s *meetingService) DeleteActionItem(ctx context.Context, id int64) error {
	if err := s.intelligence.DeleteActionItem(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrActionItemNotFound
		}
		return fmt.Errorf("deleting action item %d: %w", id, err)
	}
	return nil
}

func (s *meetingService) RenameSpeaker(ctx context.Context, id int64, name string) (*model.SpeakerStat, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: speaker_name cannot be empty", ErrInvalidInput)
	}

	stat, err := s.intelligence.RenameSpeaker(ctx, id, name)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrSpeakerStatNotFound
		}
		return nil, fmt.Errorf("renaming speaker %d: %w", id, err)
	}
	return stat, nil
}

// participantNames prefers the user-given name over the transcript label.
func participantNames(stats []model.SpeakerStat) []string {
	names := make([]string, 0, len(stats))
	for _, st := range stats {
		if st.SpeakerName != nil && *st.SpeakerName != "" {
			names = append(names, *st.SpeakerName)
			continue
		}
		names = append(names, st.SpeakerLabel)
	}
	return names
}

func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
