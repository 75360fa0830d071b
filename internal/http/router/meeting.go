package router

import (
	"github.com/gin-gonic/gin"

	"callnote.app/server/internal/http/handler"
)

func MeetingRouter(router *gin.RouterGroup, h *handler.MeetingHandler) {
	router.GET("", h.List)
	router.GET("/:id", h.Get)
	router.PATCH("/:id", h.Update)
	router.DELETE("/:id", h.Delete)
	router.POST("/:id/sync", h.Sync)
}
