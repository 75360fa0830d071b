package queue

type TaskType string

const (
	// TaskTypeEnrichment runs the intelligence analyzer for a meeting's transcript.
	TaskTypeEnrichment TaskType = "enrichment"
	// TaskTypeMeetingSync pulls a bot's current state from the recording provider.
	TaskTypeMeetingSync TaskType = "meeting_sync"
	// TaskTypeCalendarAutoJoin schedules calendar bots for upcoming events.
	TaskTypeCalendarAutoJoin TaskType = "calendar_auto_join"
)

type Task struct {
	TaskType   TaskType
	BotID      string
	MeetingID  *int64
	CalendarID string
	// SeriesID and MeetingURL target a single calendar event instead of a full refresh.
	SeriesID   string
	MeetingURL string
	TraceID    *string
	Attempt    int
}
