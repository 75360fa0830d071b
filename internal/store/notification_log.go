package store

import (
	"context"
	"encoding/json"

	"callnote.app/server/core/db/sqlc"
	"callnote.app/server/internal/model"
)

type notificationLogStore struct {
	queries *sqlc.Queries
}

func newNotificationLogStore(queries *sqlc.Queries) NotificationLogStore {
	return &notificationLogStore{queries: queries}
}

func (s *notificationLogStore) CreateOrGet(ctx context.Context, log *model.NotificationLog) (*model.NotificationLog, bool, error) {
	row, err := s.queries.UpsertNotificationLog(ctx, sqlc.UpsertNotificationLogParams{
		ID:        log.ID,
		BotID:     log.BotID,
		Source:    string(log.Source),
		Kind:      log.Kind,
		Payload:   []byte(log.Payload),
		DedupeKey: log.DedupeKey,
	})
	if err != nil {
		return nil, false, err
	}
	created := row.ID == log.ID
	return toNotificationLogModel(row), created, nil
}

func toNotificationLogModel(row sqlc.NotificationLog) *model.NotificationLog {
	return &model.NotificationLog{
		ID:        row.ID,
		BotID:     row.BotID,
		Source:    model.NotificationSource(row.Source),
		Kind:      row.Kind,
		Payload:   json.RawMessage(row.Payload),
		DedupeKey: row.DedupeKey,
		CreatedAt: row.CreatedAt.Time,
	}
}
