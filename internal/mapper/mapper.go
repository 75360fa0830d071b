package mapper

import (
	"encoding/json"
	"errors"

	"callnote.app/server/internal/domain"
)

// ErrUnknownKind is returned for provider kinds with no canonical mapping.
var ErrUnknownKind = errors.New("unknown notification kind")

type CanonicalKind string

const (
	KindJoinAnnounced      CanonicalKind = "join_announced"
	KindWaitingRoom        CanonicalKind = "waiting_room"
	KindInCall             CanonicalKind = "in_call"
	KindRecordingConfirmed CanonicalKind = "recording_confirmed"
	KindSessionDone        CanonicalKind = "session_done"
	KindError              CanonicalKind = "error"
	KindCalendarEvent      CanonicalKind = "calendar_event"
)

// Signal returns the lifecycle signal of a kind. ok is false for non-lifecycle kinds.
func (k CanonicalKind) Signal() (domain.Signal, bool) {
	switch k {
	case KindJoinAnnounced:
		return domain.SignalJoinAnnounced, true
	case KindWaitingRoom:
		return domain.SignalWaitingRoom, true
	case KindInCall:
		return domain.SignalInCall, true
	case KindRecordingConfirmed:
		return domain.SignalRecordingConfirmed, true
	case KindSessionDone:
		return domain.SignalSessionDone, true
	case KindError:
		return domain.SignalError, true
	}
	return "", false
}

// Payload is the provider-neutral content of one notification.
// Nil pointers mean the provider did not send the field.
type Payload struct {
	BotID           string
	MeetingURL      *string
	MediaURL        *string
	DurationSeconds *int32
	Transcript      json.RawMessage
	ErrorMessage    string

	CalendarID string
	Event      *CalendarEvent
}

// CalendarEvent is the event attached to a calendar notification, when present.
type CalendarEvent struct {
	SeriesID   string
	MeetingURL string
	Title      string
}

// EventMapper translates one recording provider's notifications.
type EventMapper interface {
	Map(kind string) (CanonicalKind, error)
	Decode(data json.RawMessage) (Payload, error)
}
