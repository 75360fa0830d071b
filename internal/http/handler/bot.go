package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"callnote.app/server/internal/http/dto"
	"callnote.app/server/internal/service"
)

type BotHandler struct {
	bots service.BotService
}

func NewBotHandler(bots service.BotService) *BotHandler {
	return &BotHandler{bots: bots}
}

func (h *BotHandler) Spawn(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.SpawnBotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "invalid request body", "error", err)
		abortWithError(c, http.StatusBadRequest, "meeting_url is required", err.Error())
		return
	}

	result, err := h.bots.Spawn(ctx, service.SpawnBotParams{
		MeetingURL: req.MeetingURL,
		BotName:    req.BotName,
		Title:      req.Title,
	})
	if err != nil {
		respondServiceError(c, err, "Failed to spawn bot")
		return
	}

	slog.InfoContext(ctx, "bot spawned", "bot_id", result.BotID)
	c.JSON(http.StatusOK, dto.ToSpawnBotResponse(result))
}

// List proxies the provider's bot list unchanged.
func (h *BotHandler) List(c *gin.Context) {
	raw, err := h.bots.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "Failed to list bots")
		return
	}

	c.Data(http.StatusOK, "application/json; charset=utf-8", raw)
}
