package intelligence

import (
	"context"
	"math"

	"callnote.app/server/internal/model"
)

const PlaceholderAnalyzerName = "placeholder"

// PlaceholderAnalyzer returns fixed intelligence scaled to the meeting's
// duration. It stands in for the LLM when no enrichment key is configured, so
// equal durations always produce equal output.
type PlaceholderAnalyzer struct{}

func NewPlaceholderAnalyzer() *PlaceholderAnalyzer {
	return &PlaceholderAnalyzer{}
}

func (a *PlaceholderAnalyzer) Name() string {
	return PlaceholderAnalyzerName
}

var placeholderChapters = []struct {
	topic    string
	kind     model.SegmentType
	from, to float64
}{
	{"Q3 Performance Review", model.SegmentTypeDiscussion, 0, 0.25},
	{"Roadmap Planning", model.SegmentTypeDiscussion, 0.25, 0.45},
	{"Mobile App Launch", model.SegmentTypeDecision, 0.45, 0.65},
	{"API Optimization", model.SegmentTypeDecision, 0.65, 0.85},
	{"Payment Integration", model.SegmentTypeQuestion, 0.85, 1.0},
}

var placeholderSpeakers = []struct {
	label, name string
	pct         float64
}{
	{"Speaker A", "Budi", 45},
	{"Speaker B", "Siti", 32},
	{"Speaker C", "Alex", 23},
}

func (a *PlaceholderAnalyzer) Analyze(_ context.Context, in Input) (*Result, error) {
	duration := in.Duration()

	segments := make([]model.MeetingSegment, len(placeholderChapters))
	for i, ch := range placeholderChapters {
		segments[i] = model.MeetingSegment{
			Topic:     ch.topic,
			Type:      ch.kind,
			StartTime: fraction(duration, ch.from),
			EndTime:   fraction(duration, ch.to),
		}
	}

	stats := make([]model.SpeakerStat, len(placeholderSpeakers))
	for i, s := range placeholderSpeakers {
		name := s.name
		stats[i] = model.SpeakerStat{
			SpeakerLabel:    s.label,
			SpeakerName:     &name,
			TalkTimeSeconds: TalkTimeSeconds(s.pct, duration),
			ContributionPct: s.pct,
		}
	}

	return &Result{
		Intelligence: model.Intelligence{
			Summary: "This meeting covered Q3 roadmap planning, including mobile app launch timeline, " +
				"API performance optimization targets, and payment gateway integration schedules. " +
				"Key decisions were made regarding OKR targets.",
			LanguageStats: model.LanguageStats{EN: 62, ID: 38},
			Segments:      segments,
			ActionItems: []model.ActionItem{
				placeholderAction("Fix API endpoint response time optimization", "Rizky", model.PriorityHigh, "01:45"),
				placeholderAction("Deliver mobile app design mockups by next week", "Siti", model.PriorityHigh, "02:08"),
				placeholderAction("Schedule payment gateway integration kickoff", "Rizky", model.PriorityMedium, "02:40"),
			},
			SpeakerStats: stats,
		},
	}, nil
}

func fraction(duration int32, f float64) int32 {
	return int32(math.Round(float64(duration) * f))
}

func placeholderAction(task, assignee string, priority model.Priority, ts string) model.ActionItem {
	return model.ActionItem{
		Task:         task,
		Assignee:     &assignee,
		Priority:     priority,
		TimestampRef: &ts,
	}
}
