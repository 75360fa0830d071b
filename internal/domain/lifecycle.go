package domain

import (
	"time"

	"callnote.app/server/internal/model"
	"callnote.app/server/internal/transcript"
)

// Policy holds the tunables of the meeting lifecycle.
type Policy struct {
	// GhostThresholdSeconds classifies finished sessions shorter than this as failed.
	GhostThresholdSeconds int
}

func DefaultPolicy() Policy {
	return Policy{GhostThresholdSeconds: 60}
}

// Transition is the complete field update for one signal. Nil fields are left
// untouched by persistence.
type Transition struct {
	Status          *model.MeetingStatus
	MeetingURL      *string
	StartedAt       *time.Time
	MediaURL        *string
	DurationSeconds *int32
	TranscriptFull  *string
	Transcript      []model.Utterance

	Ghost bool
	// TranscriptChanged is set when TranscriptFull differs from the stored text.
	TranscriptChanged bool
	// EnrichmentEligible is set when the meeting ends up with full text that has
	// not been enriched at its current version.
	EnrichmentEligible bool
}

// IsNoop reports whether the transition writes nothing.
func (t Transition) IsNoop() bool {
	return t.Status == nil && t.MeetingURL == nil && t.StartedAt == nil && t.MediaURL == nil &&
		t.DurationSeconds == nil && t.TranscriptFull == nil
}

var statusRank = map[model.MeetingStatus]int{
	model.MeetingStatusScheduled:  0,
	model.MeetingStatusRecording:  1,
	model.MeetingStatusProcessing: 2,
	model.MeetingStatusReady:      3,
}

// Advance returns the status a meeting moves to when a signal targets next.
// Failed always applies. Otherwise status only moves forward, and a failed
// meeting only leaves failed when allowRecovery is set.
func Advance(current, next model.MeetingStatus, allowRecovery bool) model.MeetingStatus {
	if next == model.MeetingStatusFailed {
		return model.MeetingStatusFailed
	}
	if current == model.MeetingStatusFailed {
		if allowRecovery {
			return next
		}
		return current
	}
	cur, ok := statusRank[current]
	if !ok {
		return next
	}
	if statusRank[next] > cur {
		return next
	}
	return current
}

// Plan computes the transition a signal applies to the current meeting row.
// It is pure: the same row and input always produce the same transition.
func Plan(current *model.Meeting, in SignalInput, policy Policy) Transition {
	var t Transition

	switch in.Signal {
	case SignalJoinAnnounced:
		t.MeetingURL = in.MeetingURL
		t.Status = statusPtr(Advance(current.Status, model.MeetingStatusScheduled, false))

	case SignalWaitingRoom:
		t.Status = statusPtr(Advance(current.Status, model.MeetingStatusScheduled, false))

	case SignalInCall:
		t.Status = statusPtr(Advance(current.Status, model.MeetingStatusRecording, false))
		if current.StartedAt == nil && current.Status != model.MeetingStatusFailed {
			at := in.At
			t.StartedAt = &at
		}

	case SignalRecordingConfirmed:
		t.Status = statusPtr(Advance(current.Status, model.MeetingStatusRecording, false))

	case SignalError:
		t.Status = statusPtr(model.MeetingStatusFailed)

	case SignalSessionDone:
		if in.DurationSeconds != nil && int(*in.DurationSeconds) < policy.GhostThresholdSeconds {
			t.Status = statusPtr(model.MeetingStatusFailed)
			t.DurationSeconds = in.DurationSeconds
			t.Ghost = true
			break
		}
		planContent(current, in, &t)
		t.Status = statusPtr(Advance(current.Status, model.MeetingStatusProcessing, t.TranscriptFull != nil))

	case SignalSync:
		planContent(current, in, &t)
		if t.TranscriptFull != nil {
			t.Status = statusPtr(Advance(current.Status, model.MeetingStatusProcessing, true))
		}
	}

	if t.Status != nil && *t.Status == current.Status {
		t.Status = nil
	}
	return t
}

// planContent fills media, duration and transcript fields from a content-bearing signal.
func planContent(current *model.Meeting, in SignalInput, t *Transition) {
	t.MediaURL = in.MediaURL
	t.DurationSeconds = in.DurationSeconds

	if in.HasTranscript && len(in.Segments) > 0 {
		utts := transcript.Merge(in.Segments)
		if full := transcript.FullText(utts); full != "" {
			t.Transcript = utts
			t.TranscriptFull = &full
		}
	}

	if t.TranscriptFull != nil {
		t.TranscriptChanged = current.TranscriptFull == nil || *current.TranscriptFull != *t.TranscriptFull
		t.EnrichmentEligible = t.TranscriptChanged || current.EnrichedVersion < current.TranscriptVersion
		// A failed run on the same text is only retried on request, not by re-syncs.
		if !t.TranscriptChanged && in.Signal == SignalSync && current.EnrichmentState == model.EnrichmentStateFailed {
			t.EnrichmentEligible = false
		}
	}
}

func statusPtr(s model.MeetingStatus) *model.MeetingStatus {
	return &s
}
