package domain

import (
	"time"

	"callnote.app/server/internal/transcript"
)

// Signal is the canonical lifecycle kind a provider notification maps to.
type Signal string

const (
	SignalJoinAnnounced      Signal = "join_announced"
	SignalWaitingRoom        Signal = "waiting_room"
	SignalInCall             Signal = "in_call"
	SignalRecordingConfirmed Signal = "recording_confirmed"
	SignalSessionDone        Signal = "session_done"
	SignalError              Signal = "error"
	SignalSync               Signal = "sync"
)

func (s Signal) IsValid() bool {
	switch s {
	case SignalJoinAnnounced, SignalWaitingRoom, SignalInCall, SignalRecordingConfirmed,
		SignalSessionDone, SignalError, SignalSync:
		return true
	}
	return false
}

// SignalInput is everything a notification or sync pull carries for one bot.
// Nil pointers mean the provider did not send the field.
type SignalInput struct {
	At              time.Time
	MeetingURL      *string
	MediaURL        *string
	DurationSeconds *int32
	Segments        []transcript.RawSegment
	Signal          Signal
	// HasTranscript is set when the payload contained a recognised transcript shape.
	HasTranscript bool
}
