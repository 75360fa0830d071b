package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"callnote.app/server/internal/http/handler"
	"callnote.app/server/internal/service"
)

type RouterConfig struct {
	TraceHeaderName string
	// Metrics serves the Prometheus exposition; nil leaves /metrics unmounted.
	Metrics http.Handler
}

func SetupRoutes(router *gin.Engine, services *service.Services, cfg RouterConfig) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if cfg.Metrics != nil {
		router.GET("/metrics", gin.WrapH(cfg.Metrics))
	}

	webhookHandler := handler.NewWebhookHandler(services.Dispatcher(), cfg.TraceHeaderName)
	WebhookRouter(router.Group("/webhooks"), webhookHandler)
	WebhookRouter(router.Group("/api/webhooks"), webhookHandler)

	meetingService := services.Meetings()

	v1 := router.Group("/api/v1")
	{
		meetingHandler := handler.NewMeetingHandler(meetingService, services.Sync())
		MeetingRouter(v1.Group("/meetings"), meetingHandler)

		intelligenceHandler := handler.NewIntelligenceHandler(services.Enrichment(), meetingService)
		IntelligenceRouter(v1, intelligenceHandler)

		botHandler := handler.NewBotHandler(services.Bots())
		BotRouter(v1.Group("/bots"), botHandler)

		calendarHandler := handler.NewCalendarHandler(services.Calendar())
		CalendarRouter(v1.Group("/calendar"), calendarHandler)
	}
}
