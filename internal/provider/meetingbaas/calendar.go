package meetingbaas

import (
	"sort"
	"time"
)

// FilterEventsNextNDays keeps events starting in [now, now+days).
func FilterEventsNextNDays(events []CalendarEvent, now time.Time, days int) []CalendarEvent {
	end := now.AddDate(0, 0, days)
	out := make([]CalendarEvent, 0, len(events))
	for _, e := range events {
		if e.StartTime.Before(now) || !e.StartTime.Before(end) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// SortEventsAscending orders events by start time, earliest first.
func SortEventsAscending(events []CalendarEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].StartTime.Before(events[j].StartTime)
	})
}

// SeriesWithMeetingURL returns the first event of every series that has a
// meeting URL, in input order.
func SeriesWithMeetingURL(events []CalendarEvent) []CalendarEvent {
	seen := make(map[string]struct{}, len(events))
	out := make([]CalendarEvent, 0, len(events))
	for _, e := range events {
		if e.SeriesID == "" || e.MeetingURL == "" {
			continue
		}
		if _, ok := seen[e.SeriesID]; ok {
			continue
		}
		seen[e.SeriesID] = struct{}{}
		out = append(out, e)
	}
	return out
}
