package router

import (
	"github.com/gin-gonic/gin"

	"callnote.app/server/internal/http/handler"
)

func CalendarRouter(router *gin.RouterGroup, h *handler.CalendarHandler) {
	router.GET("/:calendar_id/events", h.Events)
	router.POST("/auto-join", h.AutoJoin)
}
