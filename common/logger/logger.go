package logger

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"callnote.app/server/core/config"
	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel/log/global"
	"go.opentelemetry.io/otel/trace"
)

// Setup installs the process-wide slog logger. Production with an OTLP
// endpoint ships records through the otelslog bridge; otherwise JSON in
// production and text elsewhere.
func Setup(cfg config.Config) {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel, cfg.IsDevelopment())}

	var base slog.Handler
	switch {
	case cfg.IsProduction() && cfg.OTel.Enabled():
		base = otelslog.NewHandler(
			cfg.OTel.ServiceName,
			otelslog.WithLoggerProvider(global.GetLoggerProvider()),
		)
	case cfg.IsProduction():
		base = slog.NewJSONHandler(os.Stdout, opts)
	default:
		base = slog.NewTextHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(NewTraceHandler(base)))
}

func parseLevel(s string, development bool) slog.Level {
	var level slog.Level
	if s != "" && level.UnmarshalText([]byte(strings.ToUpper(s))) == nil {
		return level
	}
	if development {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

// TraceHandler stamps every record with the active trace/span ids and the
// LogFields carried by the context.
type TraceHandler struct {
	slog.Handler
}

func NewTraceHandler(h slog.Handler) *TraceHandler {
	return &TraceHandler{Handler: h}
}

func (h *TraceHandler) Handle(ctx context.Context, r slog.Record) error {
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		r.AddAttrs(
			slog.String("trace_id", sc.TraceID().String()),
			slog.String("span_id", sc.SpanID().String()),
		)
	}
	r.AddAttrs(GetLogFields(ctx).attrs()...)
	return h.Handler.Handle(ctx, r)
}

func (h *TraceHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &TraceHandler{Handler: h.Handler.WithAttrs(attrs)}
}

func (h *TraceHandler) WithGroup(name string) slog.Handler {
	return &TraceHandler{Handler: h.Handler.WithGroup(name)}
}
