package observability

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/docmark/internal/logfields"
)

// LogContext holds structured logging context for one render.
type LogContext struct {
	RenderID string
	Document string
	Format   string
}

type logContextKeyType string

const logContextKey logContextKeyType = "log-context"

// NewRenderID returns a fresh correlation id for a render.
func NewRenderID() string {
	return uuid.NewString()
}

// WithRenderID adds a render ID to the context.
func WithRenderID(ctx context.Context, renderID string) context.Context {
	lc := extractLogContext(ctx)
	lc.RenderID = renderID
	return context.WithValue(ctx, logContextKey, lc)
}

// WithDocument adds the document name to the context.
func WithDocument(ctx context.Context, document string) context.Context {
	lc := extractLogContext(ctx)
	lc.Document = document
	return context.WithValue(ctx, logContextKey, lc)
}

// WithFormat adds the output format to the context.
func WithFormat(ctx context.Context, format string) context.Context {
	lc := extractLogContext(ctx)
	lc.Format = format
	return context.WithValue(ctx, logContextKey, lc)
}

// StartRender tags ctx with the document and the output format. A render
// id already on ctx (set per HTTP request) is kept, otherwise a new one is
// assigned.
func StartRender(ctx context.Context, document, format string) context.Context {
	lc := extractLogContext(ctx)
	if lc.RenderID == "" {
		lc.RenderID = NewRenderID()
	}
	lc.Document = document
	lc.Format = format
	return context.WithValue(ctx, logContextKey, lc)
}

func extractLogContext(ctx context.Context) LogContext {
	if lc, ok := ctx.Value(logContextKey).(LogContext); ok {
		return lc
	}
	return LogContext{}
}

func getLogAttrs(ctx context.Context) []slog.Attr {
	lc := extractLogContext(ctx)
	attrs := make([]slog.Attr, 0, 3)
	if lc.RenderID != "" {
		attrs = append(attrs, logfields.RenderID(lc.RenderID))
	}
	if lc.Document != "" {
		attrs = append(attrs, logfields.Document(lc.Document))
	}
	if lc.Format != "" {
		attrs = append(attrs, logfields.Format(lc.Format))
	}
	return attrs
}

func logContext(ctx context.Context, level slog.Level, msg string, attrs []slog.Attr) {
	slog.LogAttrs(ctx, level, msg, append(getLogAttrs(ctx), attrs...)...)
}

// InfoContext logs an info message with context information.
func InfoContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	logContext(ctx, slog.LevelInfo, msg, attrs)
}

// WarnContext logs a warning message with context information.
func WarnContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	logContext(ctx, slog.LevelWarn, msg, attrs)
}

// ErrorContext logs an error message with context information.
func ErrorContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	logContext(ctx, slog.LevelError, msg, attrs)
}

// DebugContext logs a debug message with context information.
func DebugContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	logContext(ctx, slog.LevelDebug, msg, attrs)
}

// GetContext returns the structured log context from the provided context.
func GetContext(ctx context.Context) LogContext {
	return extractLogContext(ctx)
}
