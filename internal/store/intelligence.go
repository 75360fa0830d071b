package store

import (
	"context"
	"errors"
	"fmt"

	"callnote.app/server/core/db/sqlc"
	"callnote.app/server/internal/model"
	"github.com/jackc/pgx/v5"
)

type intelligenceStore struct {
	queries *sqlc.Queries
}

func newIntelligenceStore(queries *sqlc.Queries) IntelligenceStore {
	return &intelligenceStore{queries: queries}
}

func (s *intelligenceStore) Replace(ctx context.Context, meetingID int64, intel *model.Intelligence) error {
	if err := s.queries.DeleteMeetingSegments(ctx, meetingID); err != nil {
		return fmt.Errorf("delete segments: %w", err)
	}
	if err := s.queries.DeleteActionItems(ctx, meetingID); err != nil {
		return fmt.Errorf("delete action items: %w", err)
	}
	if err := s.queries.DeleteSpeakerStats(ctx, meetingID); err != nil {
		return fmt.Errorf("delete speaker stats: %w", err)
	}

	if len(intel.Segments) > 0 {
		rows := make([]sqlc.InsertMeetingSegmentsParams, len(intel.Segments))
		for i, seg := range intel.Segments {
			rows[i] = sqlc.InsertMeetingSegmentsParams{
				ID:        seg.ID,
				MeetingID: meetingID,
				Topic:     seg.Topic,
				StartTime: seg.StartTime,
				EndTime:   seg.EndTime,
				Type:      string(seg.Type),
			}
		}
		if _, err := s.queries.InsertMeetingSegments(ctx, rows); err != nil {
			return fmt.Errorf("insert segments: %w", err)
		}
	}

	if len(intel.ActionItems) > 0 {
		rows := make([]sqlc.InsertActionItemsParams, len(intel.ActionItems))
		for i, item := range intel.ActionItems {
			rows[i] = sqlc.InsertActionItemsParams{
				ID:           item.ID,
				MeetingID:    meetingID,
				Task:         item.Task,
				Assignee:     item.Assignee,
				Priority:     string(item.Priority),
				TimestampRef: item.TimestampRef,
				IsCompleted:  item.IsCompleted,
			}
		}
		if _, err := s.queries.InsertActionItems(ctx, rows); err != nil {
			return fmt.Errorf("insert action items: %w", err)
		}
	}

	if len(intel.SpeakerStats) > 0 {
		rows := make([]sqlc.InsertSpeakerStatsParams, len(intel.SpeakerStats))
		for i, stat := range intel.SpeakerStats {
			rows[i] = sqlc.InsertSpeakerStatsParams{
				ID:              stat.ID,
				MeetingID:       meetingID,
				SpeakerLabel:    stat.SpeakerLabel,
				SpeakerName:     stat.SpeakerName,
				TalkTimeSeconds: stat.TalkTimeSeconds,
				ContributionPct: stat.ContributionPct,
			}
		}
		if _, err := s.queries.InsertSpeakerStats(ctx, rows); err != nil {
			return fmt.Errorf("insert speaker stats: %w", err)
		}
	}

	return nil
}

func (s *intelligenceStore) ListSegments(ctx context.Context, meetingID int64) ([]model.MeetingSegment, error) {
	rows, err := s.queries.ListMeetingSegments(ctx, meetingID)
	if err != nil {
		return nil, err
	}
	result := make([]model.MeetingSegment, len(rows))
	for i, row := range rows {
		result[i] = model.MeetingSegment{
			ID:        row.ID,
			MeetingID: row.MeetingID,
			Topic:     row.Topic,
			StartTime: row.StartTime,
			EndTime:   row.EndTime,
			Type:      model.SegmentType(row.Type),
		}
	}
	return result, nil
}

func (s *intelligenceStore) ListActionItems(ctx context.Context, meetingID int64) ([]model.ActionItem, error) {
	rows, err := s.queries.ListActionItems(ctx, meetingID)
	if err != nil {
		return nil, err
	}
	result := make([]model.ActionItem, len(rows))
	for i, row := range rows {
		result[i] = toActionItemModel(row)
	}
	return result, nil
}

func (s *intelligenceStore) ListSpeakerStats(ctx context.Context, meetingID int64) ([]model.SpeakerStat, error) {
	rows, err := s.queries.ListSpeakerStats(ctx, meetingID)
	if err != nil {
		return nil, err
	}
	result := make([]model.SpeakerStat, len(rows))
	for i, row := range rows {
		result[i] = toSpeakerStatModel(row)
	}
	return result, nil
}

func (s *intelligenceStore) ListSpeakerStatsForMeetings(ctx context.Context, meetingIDs []int64) (map[int64][]model.SpeakerStat, error) {
	result := make(map[int64][]model.SpeakerStat, len(meetingIDs))
	if len(meetingIDs) == 0 {
		return result, nil
	}
	rows, err := s.queries.ListSpeakerStatsForMeetings(ctx, meetingIDs)
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		result[row.MeetingID] = append(result[row.MeetingID], toSpeakerStatModel(row))
	}
	return result, nil
}

func (s *intelligenceStore) UpdateActionItem(ctx context.Context, id int64, update ActionItemUpdate) (*model.ActionItem, error) {
	params := sqlc.UpdateActionItemParams{
		ID:          id,
		Task:        update.Task,
		Assignee:    update.Assignee,
		IsCompleted: update.IsCompleted,
	}
	if update.Priority != nil {
		p := string(*update.Priority)
		params.Priority = &p
	}

	row, err := s.queries.UpdateActionItem(ctx, params)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	item := toActionItemModel(row)
	return &item, nil
}

func (s *intelligenceStore) DeleteActionItem(ctx context.Context, id int64) error {
	rowsAffected, err := s.queries.DeleteActionItem(ctx, id)
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *intelligenceStore) RenameSpeaker(ctx context.Context, id int64, name string) (*model.SpeakerStat, error) {
	row, err := s.queries.RenameSpeaker(ctx, sqlc.RenameSpeakerParams{
		ID:          id,
		SpeakerName: &name,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	stat := toSpeakerStatModel(row)
	return &stat, nil
}

func toActionItemModel(row sqlc.ActionItem) model.ActionItem {
	return model.ActionItem{
		ID:           row.ID,
		MeetingID:    row.MeetingID,
		Task:         row.Task,
		Assignee:     row.Assignee,
		Priority:     model.Priority(row.Priority),
		TimestampRef: row.TimestampRef,
		IsCompleted:  row.IsCompleted,
	}
}

func toSpeakerStatModel(row sqlc.SpeakerStat) model.SpeakerStat {
	return model.SpeakerStat{
		ID:              row.ID,
		MeetingID:       row.MeetingID,
		SpeakerLabel:    row.SpeakerLabel,
		SpeakerName:     row.SpeakerName,
		TalkTimeSeconds: row.TalkTimeSeconds,
		ContributionPct: row.ContributionPct,
	}
}
