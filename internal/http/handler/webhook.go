package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"callnote.app/server/common/logger"
	"callnote.app/server/internal/http/dto"
	"callnote.app/server/internal/model"
	"callnote.app/server/internal/service"
)

const maxWebhookBody = 10 << 20

type WebhookHandler struct {
	dispatcher  service.Dispatcher
	traceHeader string
}

func NewWebhookHandler(dispatcher service.Dispatcher, traceHeader string) *WebhookHandler {
	return &WebhookHandler{
		dispatcher:  dispatcher,
		traceHeader: traceHeader,
	}
}

// MeetingBaas accepts a provider push. Unknown kinds and duplicates are
// acknowledged so the provider stops retrying them.
func (h *WebhookHandler) MeetingBaas(c *gin.Context) {
	ctx := c.Request.Context()
	receivedAt := time.Now()

	if logger.TraceIDFromContext(ctx) == "" {
		sc := logger.StartSpanFromTraceID(ctx, c.GetHeader(h.traceHeader), "webhook.meetingbaas")
		defer sc.End()
		ctx = sc.Context()
	}
	if traceID := logger.TraceIDFromContext(ctx); traceID != "" && h.traceHeader != "" {
		c.Header(h.traceHeader, traceID)
	}

	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "failed to read request body", err.Error())
		return
	}

	var req dto.MeetingBaasWebhookRequest
	if err := json.Unmarshal(body, &req); err != nil {
		slog.WarnContext(ctx, "invalid webhook payload", "error", err)
		abortWithError(c, http.StatusBadRequest, "invalid payload", err.Error())
		return
	}

	kind := req.EventKind()
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		NotificationKind: &kind,
		Component:        "callnote.http.webhook",
	})

	result, err := h.dispatcher.Dispatch(ctx, service.Notification{
		ReceivedAt: receivedAt,
		Source:     model.NotificationSourceWebhook,
		Kind:       kind,
		Data:       req.Data,
	})
	if err != nil {
		if errors.Is(err, service.ErrMalformedNotification) {
			slog.WarnContext(ctx, "malformed meetingbaas notification", "error", err)
			abortWithError(c, http.StatusBadRequest, "invalid payload", err.Error())
			return
		}
		slog.ErrorContext(ctx, "failed to process meetingbaas webhook", "error", err)
		abortWithError(c, http.StatusInternalServerError, "Webhook processing failed", err.Error())
		return
	}

	attrs := []any{
		"ignored", result.Ignored,
		"duplicate", result.Duplicate,
		"enrichment_requested", result.EnrichmentRequested,
		"calendar_scheduled", result.CalendarScheduled,
	}
	if result.Meeting != nil {
		attrs = append(attrs, "meeting_id", result.Meeting.ID, "status", result.Meeting.Status)
	}
	slog.InfoContext(ctx, "meetingbaas webhook processed", attrs...)

	c.JSON(http.StatusOK, dto.WebhookResponse{
		Received:  true,
		Duplicate: result.Duplicate,
		Ignored:   result.Ignored,
	})
}
