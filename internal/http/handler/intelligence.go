package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"callnote.app/server/common/logger"
	"callnote.app/server/internal/http/dto"
	"callnote.app/server/internal/service"
)

type IntelligenceHandler struct {
	enrichment service.EnrichmentService
	meetings   service.MeetingService
}

func NewIntelligenceHandler(enrichment service.EnrichmentService, meetings service.MeetingService) *IntelligenceHandler {
	return &IntelligenceHandler{enrichment: enrichment, meetings: meetings}
}

// Process re-runs the analyzer for a bot's meeting and waits for the result.
func (h *IntelligenceHandler) Process(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.ProcessIntelligenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "invalid request body", "error", err)
		abortWithError(c, http.StatusBadRequest, "bot_id is required", err.Error())
		return
	}
	ctx = logger.WithLogFields(ctx, logger.LogFields{BotID: &req.BotID})

	result, err := h.enrichment.Reprocess(ctx, req.BotID)
	if err != nil {
		respondServiceError(c, err, "Failed to process intelligence")
		return
	}

	c.JSON(http.StatusOK, dto.ToProcessIntelligenceResponse(result))
}

func (h *IntelligenceHandler) UpdateActionItem(c *gin.Context) {
	ctx := c.Request.Context()
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateActionItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "invalid request body", "error", err)
		abortWithError(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	item, err := h.meetings.UpdateActionItem(ctx, id, req.ToUpdate())
	if err != nil {
		respondServiceError(c, err, "Failed to update action item")
		return
	}

	c.JSON(http.StatusOK, dto.ToActionItemResponse(item))
}

func (h *IntelligenceHandler) DeleteActionItem(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.meetings.DeleteActionItem(c.Request.Context(), id); err != nil {
		respondServiceError(c, err, "Failed to delete action item")
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{Success: true})
}

func (h *IntelligenceHandler) RenameSpeaker(c *gin.Context) {
	ctx := c.Request.Context()
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateSpeakerStatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "invalid request body", "error", err)
		abortWithError(c, http.StatusBadRequest, "speaker_name is required", err.Error())
		return
	}

	stat, err := h.meetings.RenameSpeaker(ctx, id, req.SpeakerName)
	if err != nil {
		respondServiceError(c, err, "Failed to update speaker")
		return
	}

	c.JSON(http.StatusOK, dto.ToSpeakerStatResponse(stat))
}
