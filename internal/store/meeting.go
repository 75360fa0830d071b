package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"callnote.app/server/core/db/sqlc"
	"callnote.app/server/internal/domain"
	"callnote.app/server/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

type meetingStore struct {
	queries *sqlc.Queries
}

func newMeetingStore(queries *sqlc.Queries) MeetingStore {
	return &meetingStore{queries: queries}
}

func (s *meetingStore) Ensure(ctx context.Context, id int64, botID string, meetingURL *string) error {
	return s.queries.EnsureMeeting(ctx, sqlc.EnsureMeetingParams{
		ID:         id,
		BotID:      botID,
		MeetingUrl: meetingURL,
	})
}

func (s *meetingStore) GetByID(ctx context.Context, id int64) (*model.Meeting, error) {
	row, err := s.queries.GetMeeting(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return toMeetingModel(row)
}

func (s *meetingStore) GetByBotID(ctx context.Context, botID string) (*model.Meeting, error) {
	row, err := s.queries.GetMeetingByBotID(ctx, botID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return toMeetingModel(row)
}

func (s *meetingStore) GetByBotIDForUpdate(ctx context.Context, botID string) (*model.Meeting, error) {
	row, err := s.queries.GetMeetingByBotIDForUpdate(ctx, botID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return toMeetingModel(row)
}

func (s *meetingStore) ApplyTransition(ctx context.Context, botID string, t domain.Transition) (*model.Meeting, error) {
	params := sqlc.ApplyMeetingTransitionParams{
		BotID:                 botID,
		MeetingUrl:            t.MeetingURL,
		StartedAt:             timeToPgTimestamptz(t.StartedAt),
		AudioUrl:              t.MediaURL,
		DurationSeconds:       t.DurationSeconds,
		TranscriptFull:        t.TranscriptFull,
		BumpTranscriptVersion: t.TranscriptChanged,
	}
	if t.Status != nil {
		status := string(*t.Status)
		params.Status = &status
	}
	if t.TranscriptFull != nil {
		transcriptJSON, err := json.Marshal(t.Transcript)
		if err != nil {
			return nil, fmt.Errorf("marshal transcript: %w", err)
		}
		params.TranscriptJson = transcriptJSON
	}

	row, err := s.queries.ApplyMeetingTransition(ctx, params)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return toMeetingModel(row)
}

func (s *meetingStore) List(ctx context.Context, status *model.MeetingStatus, limit int32) ([]model.Meeting, error) {
	var statusStr *string
	if status != nil {
		v := string(*status)
		statusStr = &v
	}
	rows, err := s.queries.ListMeetings(ctx, sqlc.ListMeetingsParams{
		Status: statusStr,
		Limit:  limit,
	})
	if err != nil {
		return nil, err
	}
	return toMeetingModels(rows)
}

func (s *meetingStore) ListStale(ctx context.Context, statuses []model.MeetingStatus, updatedBefore time.Time, limit int32) ([]model.Meeting, error) {
	statusStrs := make([]string, len(statuses))
	for i, st := range statuses {
		statusStrs[i] = string(st)
	}
	rows, err := s.queries.ListStaleMeetings(ctx, sqlc.ListStaleMeetingsParams{
		Statuses:      statusStrs,
		UpdatedBefore: pgtype.Timestamptz{Time: updatedBefore, Valid: true},
		Limit:         limit,
	})
	if err != nil {
		return nil, err
	}
	return toMeetingModels(rows)
}

func (s *meetingStore) UpdateDetails(ctx context.Context, id int64, title *string, startedAt *time.Time) (*model.Meeting, error) {
	row, err := s.queries.UpdateMeetingDetails(ctx, sqlc.UpdateMeetingDetailsParams{
		ID:        id,
		Title:     title,
		StartedAt: timeToPgTimestamptz(startedAt),
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return toMeetingModel(row)
}

func (s *meetingStore) Touch(ctx context.Context, id int64) error {
	return s.queries.TouchMeeting(ctx, id)
}

func (s *meetingStore) Delete(ctx context.Context, id int64) error {
	rowsAffected, err := s.queries.DeleteMeeting(ctx, id)
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *meetingStore) ClaimEnrichment(ctx context.Context, botID string, force bool, staleBefore time.Time) (bool, *model.Meeting, error) {
	row, err := s.queries.ClaimMeetingEnrichment(ctx, sqlc.ClaimMeetingEnrichmentParams{
		BotID:       botID,
		Force:       force,
		StaleBefore: pgtype.Timestamptz{Time: staleBefore, Valid: true},
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// No transcript, already enriched at this version, or claimed by someone else
			return false, nil, nil
		}
		return false, nil, err
	}
	meeting, err := toMeetingModel(row)
	if err != nil {
		return false, nil, err
	}
	return true, meeting, nil
}

func (s *meetingStore) CompleteEnrichment(ctx context.Context, meetingID int64, intel *model.Intelligence, version int32) error {
	langJSON, err := json.Marshal(intel.LanguageStats)
	if err != nil {
		return fmt.Errorf("marshal language stats: %w", err)
	}

	var participants *int32
	if n := len(intel.SpeakerStats); n > 0 {
		v := int32(n)
		participants = &v
	}

	summary := intel.Summary
	return s.queries.CompleteMeetingEnrichment(ctx, sqlc.CompleteMeetingEnrichmentParams{
		ID:               meetingID,
		SummaryOverview:  &summary,
		LanguageStats:    langJSON,
		ParticipantCount: participants,
		EnrichedVersion:  version,
	})
}

func (s *meetingStore) FailEnrichment(ctx context.Context, meetingID int64) error {
	return s.queries.FailMeetingEnrichment(ctx, meetingID)
}

func toMeetingModel(row sqlc.Meeting) (*model.Meeting, error) {
	var utterances []model.Utterance
	if len(row.TranscriptJson) > 0 {
		if err := json.Unmarshal(row.TranscriptJson, &utterances); err != nil {
			return nil, fmt.Errorf("unmarshal transcript_json: %w", err)
		}
	}

	var langStats *model.LanguageStats
	if len(row.LanguageStats) > 0 {
		langStats = &model.LanguageStats{}
		if err := json.Unmarshal(row.LanguageStats, langStats); err != nil {
			return nil, fmt.Errorf("unmarshal language_stats: %w", err)
		}
	}

	return &model.Meeting{
		ID:                    row.ID,
		BotID:                 row.BotID,
		Title:                 row.Title,
		MeetingURL:            row.MeetingUrl,
		Status:                model.MeetingStatus(row.Status),
		StartedAt:             pgTimestamptzToTime(row.StartedAt),
		DurationSeconds:       row.DurationSeconds,
		ParticipantCount:      row.ParticipantCount,
		AudioURL:              row.AudioUrl,
		Transcript:            utterances,
		TranscriptFull:        row.TranscriptFull,
		TranscriptVersion:     row.TranscriptVersion,
		SummaryOverview:       row.SummaryOverview,
		LanguageStats:         langStats,
		EnrichmentState:       model.EnrichmentState(row.EnrichmentState),
		EnrichmentRequestedAt: pgTimestamptzToTime(row.EnrichmentRequestedAt),
		EnrichedVersion:       row.EnrichedVersion,
		CreatedAt:             row.CreatedAt.Time,
		UpdatedAt:             row.UpdatedAt.Time,
	}, nil
}

func toMeetingModels(rows []sqlc.Meeting) ([]model.Meeting, error) {
	result := make([]model.Meeting, 0, len(rows))
	for _, row := range rows {
		m, err := toMeetingModel(row)
		if err != nil {
			return nil, err
		}
		result = append(result, *m)
	}
	return result, nil
}

func timeToPgTimestamptz(t *time.Time) pgtype.Timestamptz {
	if t == nil {
		return pgtype.Timestamptz{Valid: false}
	}
	return pgtype.Timestamptz{Time: *t, Valid: true}
}

func pgTimestamptzToTime(ts pgtype.Timestamptz) *time.Time {
	if !ts.Valid {
		return nil
	}
	t := ts.Time
	return &t
}
