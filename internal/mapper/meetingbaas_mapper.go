package mapper

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
)

type MeetingBaasMapper struct{}

func NewMeetingBaasMapper() *MeetingBaasMapper {
	return &MeetingBaasMapper{}
}

var meetingBaasKinds = map[string]CanonicalKind{
	"bot.joining":           KindJoinAnnounced,
	"joining":               KindJoinAnnounced,
	"bot.in_waiting_room":   KindWaitingRoom,
	"waiting":               KindWaitingRoom,
	"bot.in_call":           KindInCall,
	"in_call":               KindInCall,
	"bot.recording":         KindRecordingConfirmed,
	"recording":             KindRecordingConfirmed,
	"bot.done":              KindSessionDone,
	"bot.history_available": KindSessionDone,
	"done":                  KindSessionDone,
	"bot.error":             KindError,
	"error":                 KindError,
	"calendar.sync_events":  KindCalendarEvent,
	"event.added":           KindCalendarEvent,
	"event.updated":         KindCalendarEvent,
	"calendar_event":        KindCalendarEvent,
}

func (m *MeetingBaasMapper) Map(kind string) (CanonicalKind, error) {
	canonical, ok := meetingBaasKinds[kind]
	if !ok {
		return "", fmt.Errorf("meetingbaas kind %q: %w", kind, ErrUnknownKind)
	}
	return canonical, nil
}

type meetingBaasData struct {
	BotID           string          `json:"bot_id"`
	MeetingURL      *string         `json:"meeting_url"`
	MP4URL          *string         `json:"mp4_url"`
	Video           *string         `json:"video"`
	Audio           *string         `json:"audio"`
	DurationSeconds *float64        `json:"duration_seconds"`
	Duration        *float64        `json:"duration"`
	Transcript      json.RawMessage `json:"transcript"`
	Error           string          `json:"error"`
	Message         string          `json:"message"`
	CalendarID      string          `json:"calendar_id"`
	Event           *struct {
		SeriesID   string `json:"series_id"`
		MeetingURL string `json:"meeting_url"`
		Title      string `json:"title"`
	} `json:"event"`
}

// Decode reads the "data" object of a MeetingBaas notification.
func (m *MeetingBaasMapper) Decode(data json.RawMessage) (Payload, error) {
	if len(bytes.TrimSpace(data)) == 0 || bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return Payload{}, nil
	}

	var raw meetingBaasData
	if err := json.Unmarshal(data, &raw); err != nil {
		return Payload{}, fmt.Errorf("decode meetingbaas data: %w", err)
	}

	p := Payload{
		BotID:           raw.BotID,
		MeetingURL:      nonEmpty(raw.MeetingURL),
		MediaURL:        firstNonEmpty(raw.MP4URL, raw.Video, raw.Audio),
		DurationSeconds: seconds(raw.DurationSeconds, raw.Duration),
		Transcript:      raw.Transcript,
		ErrorMessage:    raw.Error,
		CalendarID:      raw.CalendarID,
	}
	if p.ErrorMessage == "" {
		p.ErrorMessage = raw.Message
	}
	if raw.Event != nil {
		p.Event = &CalendarEvent{
			SeriesID:   raw.Event.SeriesID,
			MeetingURL: raw.Event.MeetingURL,
			Title:      raw.Event.Title,
		}
	}
	return p, nil
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}

// firstNonEmpty implements the media priority mp4 > video > audio.
func firstNonEmpty(candidates ...*string) *string {
	for _, c := range candidates {
		if v := nonEmpty(c); v != nil {
			return v
		}
	}
	return nil
}

// seconds treats zero as "not reported"; a provider that sends 0 has no duration yet.
// Fractions are truncated so 59.9 stays under a 60 second threshold.
func seconds(candidates ...*float64) *int32 {
	for _, c := range candidates {
		if c == nil || math.IsNaN(*c) || *c <= 0 {
			continue
		}
		v := int32(math.Floor(*c))
		return &v
	}
	return nil
}
