// Package transcript turns raw provider speech segments into merged,
// speaker-grouped utterances. Webhook and sync ingestion both go through Merge.
package transcript

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"callnote.app/server/internal/model"
)

const (
	// MergeGapSeconds is the exclusive upper bound on the pause between two
	// same-speaker segments for them to merge.
	MergeGapSeconds = 2.0

	// MaxMergeChars is the exclusive upper bound on an utterance's accumulated
	// text length for it to accept another segment.
	MaxMergeChars = 400

	// SecondsPerChar estimates an end time when the provider omits it (~20 chars/s).
	SecondsPerChar = 0.05

	DefaultSpeaker = "Speaker"
)

type Word struct {
	Word  string   `json:"word"`
	Start *float64 `json:"start,omitempty"`
	End   *float64 `json:"end,omitempty"`
}

// RawSegment is one speech fragment as delivered by the recording provider.
type RawSegment struct {
	End     *float64
	Speaker string
	Text    string
	Words   []Word
	Start   float64
}

// Merge folds consecutive same-speaker segments into utterances in a single
// order-preserving pass.
func Merge(raw []RawSegment) []model.Utterance {
	out := make([]model.Utterance, 0, len(raw))
	var cur *model.Utterance

	for _, seg := range raw {
		text := segmentText(seg)
		speaker := seg.Speaker
		if speaker == "" {
			speaker = DefaultSpeaker
		}
		end := segmentEnd(seg, text)

		if cur != nil && cur.Speaker == speaker &&
			seg.Start-cur.End < MergeGapSeconds &&
			utf8.RuneCountInString(cur.Text) < MaxMergeChars {
			cur.Text += " " + text
			cur.End = math.Max(end, cur.Start)
			continue
		}

		if cur != nil {
			out = append(out, *cur)
		}
		cur = &model.Utterance{
			Start:     seg.Start,
			End:       end,
			TimeLabel: FormatTimeLabel(seg.Start),
			Speaker:   speaker,
			Text:      text,
		}
	}

	if cur != nil {
		out = append(out, *cur)
	}
	return out
}

// FullText renders utterances as newline-joined "speaker: text" lines.
func FullText(utts []model.Utterance) string {
	lines := make([]string, len(utts))
	for i, u := range utts {
		lines[i] = u.Speaker + ": " + u.Text
	}
	return strings.Join(lines, "\n")
}

// FormatTimeLabel renders seconds as zero-padded mm:ss.
func FormatTimeLabel(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}
	total := int64(math.Floor(seconds))
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

func segmentText(seg RawSegment) string {
	if seg.Text != "" {
		return seg.Text
	}
	if len(seg.Words) == 0 {
		return ""
	}
	words := make([]string, len(seg.Words))
	for i, w := range seg.Words {
		words[i] = w.Word
	}
	return strings.Join(words, " ")
}

// segmentEnd returns the reported end, or an estimate from text length when
// the provider sends none (or zero). Never earlier than start.
func segmentEnd(seg RawSegment, text string) float64 {
	if seg.End != nil && *seg.End != 0 {
		return math.Max(*seg.End, seg.Start)
	}
	return seg.Start + float64(utf8.RuneCountInString(text))*SecondsPerChar
}
