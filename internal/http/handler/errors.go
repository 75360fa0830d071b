package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"callnote.app/server/common/id"
	"callnote.app/server/internal/http/dto"
	"callnote.app/server/internal/provider/meetingbaas"
	"callnote.app/server/internal/service"
)

func abortWithError(c *gin.Context, status int, msg string, details string) {
	c.AbortWithStatusJSON(status, dto.ErrorResponse{Error: msg, Details: details})
}

// respondServiceError maps service and provider errors onto status codes.
// fallback is the message used for unexpected failures.
func respondServiceError(c *gin.Context, err error, fallback string) {
	ctx := c.Request.Context()

	var apiErr *meetingbaas.APIError
	switch {
	case errors.Is(err, service.ErrMeetingNotFound):
		abortWithError(c, http.StatusNotFound, "Meeting not found", "")
	case errors.Is(err, service.ErrActionItemNotFound):
		abortWithError(c, http.StatusNotFound, "Action item not found", "")
	case errors.Is(err, service.ErrSpeakerStatNotFound):
		abortWithError(c, http.StatusNotFound, "Speaker stat not found", "")
	case errors.Is(err, service.ErrNoBotID):
		abortWithError(c, http.StatusBadRequest, "No bot_id associated with this meeting", "")
	case errors.Is(err, service.ErrNoTranscript):
		abortWithError(c, http.StatusBadRequest, "No transcript available", "")
	case errors.Is(err, service.ErrInvalidInput), errors.Is(err, service.ErrMalformedNotification):
		abortWithError(c, http.StatusBadRequest, "Invalid request", err.Error())
	case errors.Is(err, service.ErrEnrichmentInFlight):
		abortWithError(c, http.StatusConflict, "Intelligence processing already in progress", "")
	case errors.Is(err, service.ErrProviderNotConfigured):
		abortWithError(c, http.StatusServiceUnavailable, "Recording provider not configured", "MEETINGBAAS_API_KEY is not set")
	case errors.As(err, &apiErr):
		slog.WarnContext(ctx, "recording provider rejected request",
			"op", apiErr.Op,
			"provider_status", apiErr.StatusCode)
		status := apiErr.StatusCode
		if status < 400 || status > 599 {
			status = http.StatusBadGateway
		}
		abortWithError(c, status, "Failed to fetch from provider", apiErr.Body)
	default:
		slog.ErrorContext(ctx, fallback, "error", err)
		abortWithError(c, http.StatusInternalServerError, fallback, err.Error())
	}
}

func parseIDParam(c *gin.Context, name string) (int64, bool) {
	v, err := id.Parse(c.Param(name))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid "+name, "")
		return 0, false
	}
	return v, true
}
