package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"callnote.app/server/internal/http/dto"
	"callnote.app/server/internal/service"
)

const maxUpcomingDays = 30

type CalendarHandler struct {
	calendar service.CalendarScheduler
}

func NewCalendarHandler(calendar service.CalendarScheduler) *CalendarHandler {
	return &CalendarHandler{calendar: calendar}
}

func (h *CalendarHandler) Events(c *gin.Context) {
	days := service.DefaultUpcomingDays
	if raw := c.Query("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > maxUpcomingDays {
			abortWithError(c, http.StatusBadRequest, "invalid days", "days must be between 1 and 30")
			return
		}
		days = n
	}

	events, err := h.calendar.UpcomingEvents(c.Request.Context(), c.Param("calendar_id"), days)
	if err != nil {
		respondServiceError(c, err, "Failed to fetch calendar events")
		return
	}

	c.JSON(http.StatusOK, dto.ToCalendarEventsResponse(events))
}

// AutoJoin enqueues a refresh; bots are created by the worker.
func (h *CalendarHandler) AutoJoin(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.AutoJoinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "invalid request body", "error", err)
		abortWithError(c, http.StatusBadRequest, "calendar_id is required", err.Error())
		return
	}

	if err := h.calendar.Schedule(ctx, req.CalendarID, nil); err != nil {
		respondServiceError(c, err, "Failed to schedule auto-join")
		return
	}

	c.JSON(http.StatusAccepted, dto.SuccessResponse{
		Success: true,
		Message: "Auto-join scheduled",
	})
}
