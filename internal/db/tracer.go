package db

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5/tracelog"
)

// traceLogger adapts slog to pgx's tracelog interface.
type traceLogger struct {
	logger *slog.Logger
}

func newTraceLogger(logger *slog.Logger) *traceLogger {
	return &traceLogger{logger: logger.With("component", "pgx")}
}

// Log implements tracelog.Logger by mapping pgx levels onto slog levels and
// passing the data map through as attributes.
func (l *traceLogger) Log(ctx context.Context, level tracelog.LogLevel, msg string, data map[string]any) {
	if level == tracelog.LogLevelNone {
		return
	}

	attrs := make([]any, 0, len(data)*2)
	for k, v := range data {
		attrs = append(attrs, k, v)
	}
	l.logger.Log(ctx, slogLevel(level), msg, attrs...)
}

func slogLevel(level tracelog.LogLevel) slog.Level {
	switch level {
	case tracelog.LogLevelTrace, tracelog.LogLevelDebug:
		return slog.LevelDebug
	case tracelog.LogLevelInfo:
		return slog.LevelInfo
	case tracelog.LogLevelWarn:
		return slog.LevelWarn
	case tracelog.LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
