package store

import (
	"callnote.app/server/core/db/sqlc"
)

type Stores struct {
	queries *sqlc.Queries
}

func NewStores(queries *sqlc.Queries) *Stores {
	return &Stores{queries: queries}
}

func (s *Stores) Meetings() MeetingStore {
	return newMeetingStore(s.queries)
}

func (s *Stores) Intelligence() IntelligenceStore {
	return newIntelligenceStore(s.queries)
}

func (s *Stores) NotificationLogs() NotificationLogStore {
	return newNotificationLogStore(s.queries)
}

func (s *Stores) LLMEvals() LLMEvalStore {
	return newLLMEvalStore(s.queries)
}
