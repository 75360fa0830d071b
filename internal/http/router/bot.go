package router

import (
	"github.com/gin-gonic/gin"

	"callnote.app/server/internal/http/handler"
)

func BotRouter(router *gin.RouterGroup, h *handler.BotHandler) {
	router.POST("", h.Spawn)
	router.GET("", h.List)
}
