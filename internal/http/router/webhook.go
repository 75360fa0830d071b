package router

import (
	"github.com/gin-gonic/gin"

	"callnote.app/server/internal/http/handler"
)

func WebhookRouter(router *gin.RouterGroup, h *handler.WebhookHandler) {
	router.POST("/meetingbaas", h.MeetingBaas)
}
