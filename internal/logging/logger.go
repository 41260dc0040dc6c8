// Package logging provides structured logging configuration using log/slog.
//
// Loggers obtained through FromContext carry the chi request ID (for HTTP
// requests) and the pipeline run ID, so every entry of one feature build can
// be correlated.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
)

type ctxKey int

const runIDKey ctxKey = iota

// Setup configures the global slog logger based on level and format.
//
// Level values: "debug", "info", "warn", "error" (default: "info")
// Format values: "text", "json" (default: "text")
func Setup(level, format string) {
	slog.SetDefault(New(os.Stdout, level, format))
}

// New builds a logger writing to w. Exposed for tests and for commands that
// keep stdout for data output.
func New(w io.Writer, level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: parseLevel(level),
	}

	var handler slog.Handler
	if strings.ToLower(format) == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

// parseLevel converts a string log level to slog.Level.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithRunID returns a context carrying a pipeline run ID.
func WithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, runIDKey, id)
}

// RunID returns the run ID stored in ctx, or "".
func RunID(ctx context.Context) string {
	id, _ := ctx.Value(runIDKey).(string)
	return id
}

// FromContext returns the default logger enriched with the request ID set
// by chi's RequestID middleware and the run ID, when present.
//
// Usage:
//
//	logger := logging.FromContext(r.Context())
//	logger.Info("building features", "file", filename)
func FromContext(ctx context.Context) *slog.Logger {
	logger := slog.Default()

	if reqID := middleware.GetReqID(ctx); reqID != "" {
		logger = logger.With("request_id", reqID)
	}
	if runID := RunID(ctx); runID != "" {
		logger = logger.With("run_id", runID)
	}

	return logger
}

// WithFields returns a context logger with additional structured fields.
func WithFields(ctx context.Context, args ...any) *slog.Logger {
	return FromContext(ctx).With(args...)
}
