package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"callnote.app/server/common/logger"
	"callnote.app/server/internal/http/dto"
	"callnote.app/server/internal/model"
	"callnote.app/server/internal/service"
)

type MeetingHandler struct {
	meetings service.MeetingService
	sync     service.SyncService
}

func NewMeetingHandler(meetings service.MeetingService, sync service.SyncService) *MeetingHandler {
	return &MeetingHandler{meetings: meetings, sync: sync}
}

func (h *MeetingHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	var params service.ListMeetingsParams
	if raw := c.Query("status"); raw != "" {
		status := model.MeetingStatus(raw)
		params.Status = &status
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.ParseInt(raw, 10, 32)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "invalid limit", err.Error())
			return
		}
		params.Limit = int32(limit)
	}

	meetings, err := h.meetings.List(ctx, params)
	if err != nil {
		respondServiceError(c, err, "Failed to fetch meetings")
		return
	}

	c.JSON(http.StatusOK, dto.ToMeetingList(meetings))
}

func (h *MeetingHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	details, err := h.meetings.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, "Failed to fetch meeting")
		return
	}

	c.JSON(http.StatusOK, dto.ToMeetingDetailResponse(details))
}

func (h *MeetingHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateMeetingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "invalid request body", "error", err)
		abortWithError(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	meeting, err := h.meetings.Update(ctx, id, service.UpdateMeetingParams{
		Title:     req.Title,
		StartedAt: req.StartedAt,
	})
	if err != nil {
		respondServiceError(c, err, "Failed to update meeting")
		return
	}

	c.JSON(http.StatusOK, dto.ToMeetingResponse(meeting))
}

func (h *MeetingHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.meetings.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, err, "Failed to delete meeting")
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{Success: true})
}

// Sync pulls the bot's current state from the recording provider.
func (h *MeetingHandler) Sync(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	ctx := logger.WithLogFields(c.Request.Context(), logger.LogFields{MeetingID: &id})

	result, err := h.sync.Sync(ctx, id)
	if err != nil {
		respondServiceError(c, err, "Failed to sync meeting")
		return
	}

	c.JSON(http.StatusOK, dto.ToSyncMeetingResponse(result))
}
