package router

import (
	"github.com/gin-gonic/gin"

	"callnote.app/server/internal/http/handler"
)

func IntelligenceRouter(router *gin.RouterGroup, h *handler.IntelligenceHandler) {
	router.POST("/process-intelligence", h.Process)
	router.PATCH("/action-items/:id", h.UpdateActionItem)
	router.DELETE("/action-items/:id", h.DeleteActionItem)
	router.PATCH("/speaker-stats/:id", h.RenameSpeaker)
}
