// Package intelligence derives summaries, chapters, action items and speaker
// stats from a meeting transcript.
package intelligence

import (
	"context"
	"math"

	"callnote.app/server/internal/model"
)

// DefaultDurationSeconds is assumed when a meeting has no recorded duration.
const DefaultDurationSeconds = 2700

type Input struct {
	MeetingID       int64
	Transcript      string
	DurationSeconds int32
}

// Duration returns the meeting length used to scale timings.
func (in Input) Duration() int32 {
	if in.DurationSeconds <= 0 {
		return DefaultDurationSeconds
	}
	return in.DurationSeconds
}

type Result struct {
	Intelligence model.Intelligence
	// Eval is the model call record for live analyzers; nil otherwise.
	Eval *model.LLMEval
}

type Analyzer interface {
	Name() string
	Analyze(ctx context.Context, in Input) (*Result, error)
}

// TalkTimeSeconds converts a talk-time percentage to seconds of the meeting.
func TalkTimeSeconds(pct float64, durationSeconds int32) int32 {
	if pct <= 0 || durationSeconds <= 0 {
		return 0
	}
	return int32(math.Round(pct / 100 * float64(durationSeconds)))
}
