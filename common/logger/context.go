package logger

import (
	"context"
	"log/slog"
)

type contextKey string

const logFieldsKey contextKey = "log_fields"

// LogFields contains structured fields automatically added to all logs within a context.
// Handlers and workers set them once; every slog call below inherits them.
type LogFields struct {
	MeetingID        *int64  // Internal meeting ID
	BotID            *string // Recording provider bot ID
	NotificationID   *int64  // notification_log row that triggered the work
	NotificationKind *string // Provider kind, e.g. "bot.done"
	MessageID        *string // Redis stream message ID
	Component        string  // Component name, e.g. "callnote.service.dispatcher"
}

// WithLogFields enriches context with structured log fields.
// Multiple calls merge fields, with newer non-nil/non-empty values taking precedence.
func WithLogFields(ctx context.Context, fields LogFields) context.Context {
	existing := GetLogFields(ctx)
	merged := mergeFields(existing, fields)
	return context.WithValue(ctx, logFieldsKey, merged)
}

// GetLogFields retrieves log fields from context.
// Returns empty LogFields if none are set.
func GetLogFields(ctx context.Context) LogFields {
	if fields, ok := ctx.Value(logFieldsKey).(LogFields); ok {
		return fields
	}
	return LogFields{}
}

func mergeFields(existing, next LogFields) LogFields {
	result := existing

	if next.MeetingID != nil {
		result.MeetingID = next.MeetingID
	}
	if next.BotID != nil {
		result.BotID = next.BotID
	}
	if next.NotificationID != nil {
		result.NotificationID = next.NotificationID
	}
	if next.NotificationKind != nil {
		result.NotificationKind = next.NotificationKind
	}
	if next.MessageID != nil {
		result.MessageID = next.MessageID
	}
	if next.Component != "" {
		result.Component = next.Component
	}

	return result
}

func (f LogFields) attrs() []slog.Attr {
	attrs := make([]slog.Attr, 0, 6)
	if f.MeetingID != nil {
		attrs = append(attrs, slog.Int64("meeting_id", *f.MeetingID))
	}
	if f.BotID != nil {
		attrs = append(attrs, slog.String("bot_id", *f.BotID))
	}
	if f.NotificationID != nil {
		attrs = append(attrs, slog.Int64("notification_id", *f.NotificationID))
	}
	if f.NotificationKind != nil {
		attrs = append(attrs, slog.String("notification_kind", *f.NotificationKind))
	}
	if f.MessageID != nil {
		attrs = append(attrs, slog.String("message_id", *f.MessageID))
	}
	if f.Component != "" {
		attrs = append(attrs, slog.String("component", f.Component))
	}
	return attrs
}

// Ptr is a helper to create a pointer from a value.
// Useful for setting LogFields inline: logger.WithLogFields(ctx, logger.LogFields{BotID: logger.Ptr(botID)})
func Ptr[T any](v T) *T {
	return &v
}

// Truncate truncates a string to maxLen bytes, appending "..." if truncated.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
