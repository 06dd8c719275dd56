package db

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/jackc/pgx/v5/tracelog"
	"github.com/stretchr/testify/assert"
)

func TestTraceLoggerMapsLevels(t *testing.T) {
	var buf bytes.Buffer
	l := newTraceLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	l.Log(context.Background(), tracelog.LogLevelWarn, "Query", map[string]any{"sql": "SELECT 1"})
	l.Log(context.Background(), tracelog.LogLevelNone, "ignored", nil)

	out := buf.String()
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "component=pgx")
	assert.Contains(t, out, `sql="SELECT 1"`)
	assert.NotContains(t, out, "ignored")
}

func TestSlogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, slogLevel(tracelog.LogLevelTrace))
	assert.Equal(t, slog.LevelError, slogLevel(tracelog.LogLevelError))
	assert.Equal(t, slog.LevelInfo, slogLevel(tracelog.LogLevel(42)))
}
