package dto

import (
	"time"

	"callnote.app/server/internal/provider/meetingbaas"
)

type AutoJoinRequest struct {
	CalendarID string `json:"calendar_id" binding:"required"`
}

type CalendarEventResponse struct {
	ID         string    `json:"id"`
	SeriesID   string    `json:"series_id,omitempty"`
	Title      string    `json:"title"`
	MeetingURL string    `json:"meeting_url,omitempty"`
	StartTime  time.Time `json:"start_time"`
	EndTime    time.Time `json:"end_time"`
}

type CalendarEventsResponse struct {
	Events []CalendarEventResponse `json:"events"`
}

func ToCalendarEventsResponse(events []meetingbaas.CalendarEvent) *CalendarEventsResponse {
	resp := &CalendarEventsResponse{Events: make([]CalendarEventResponse, len(events))}
	for i, e := range events {
		resp.Events[i] = CalendarEventResponse{
			ID:         e.ID,
			SeriesID:   e.SeriesID,
			Title:      e.DisplayTitle(),
			MeetingURL: e.MeetingURL,
			StartTime:  e.StartTime,
			EndTime:    e.EndTime,
		}
	}
	return resp
}
