package logger

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestLogger(level slog.Level) (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	h := NewHandlerWithWriter(&buf, Options{Level: level, NoColor: true})
	return slog.New(h), &buf
}

func TestCustomHandler_Format(t *testing.T) {
	log, buf := newTestLogger(slog.LevelDebug)

	log.Info("Command completed",
		slog.String("type", "cmd"),
		slog.String("name", "shift"),
		slog.String("user_name", "alice"),
		slog.String("status", "success"),
		slog.Duration("took", 1500*time.Millisecond),
		slog.String("guild_id", "42"),
	)

	out := buf.String()
	assert.Contains(t, out, "[CrewBot]")
	assert.Contains(t, out, "[INFO] [CMD] Command completed [shift by alice] [Status: success] (took 1.5s) guild_id=42")
	assert.NotContains(t, out, "\033[")
}

func TestCustomHandler_Errors(t *testing.T) {
	log, buf := newTestLogger(slog.LevelInfo)

	log.With(slog.String("type", "store")).Error("Failed to flush state",
		slog.String("backend", "file"),
		slog.Any("error", errors.New("disk full")))

	out := buf.String()
	assert.Contains(t, out, "[ERROR] [STORE] Failed to flush state: disk full backend=file")
}

func TestCustomHandler_LevelAndNoise(t *testing.T) {
	log, buf := newTestLogger(slog.LevelInfo)

	log.Debug("State flushed")
	log.Info("sending heartbeat")
	log.Info("new request to discord")
	assert.Empty(t, buf.String())

	log.Warn("Command executed slowly", slog.String("type", "component"))
	assert.Contains(t, buf.String(), "[WARN] [COMP]")
}

func useDefault(t *testing.T, level slog.Level) *bytes.Buffer {
	t.Helper()
	log, buf := newTestLogger(level)
	prev := slog.Default()
	slog.SetDefault(log)
	t.Cleanup(func() { slog.SetDefault(prev) })
	return buf
}

func TestGlobalHelpers(t *testing.T) {
	tests := []struct {
		name string
		emit func()
		want string
	}{
		{
			name: "store",
			emit: func() {
				LogStore(slog.LevelError, "Failed to flush state", "postgres", slog.Any("error", errors.New("timeout")))
			},
			want: "[ERROR] [STORE] Failed to flush state: timeout backend=postgres",
		},
		{
			name: "system",
			emit: func() {
				LogSystem(slog.LevelWarn, "Failed to refresh status board", slog.String("guild_id", "7"))
			},
			want: "[WARN] [SYS] Failed to refresh status board guild_id=7",
		},
		{
			name: "error",
			emit: func() {
				LogError("Interaction failed", errors.New("boom"))
			},
			want: "[ERROR] [ERR] Interaction failed: boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := useDefault(t, slog.LevelDebug)
			tt.emit()
			assert.Contains(t, buf.String(), tt.want)
		})
	}
}

func TestGlobalHelpers_RespectLevel(t *testing.T) {
	buf := useDefault(t, slog.LevelInfo)

	LogStore(slog.LevelDebug, "State flushed", "file")
	assert.Empty(t, buf.String())

	LogSystem(slog.LevelInfo, "Status refresher stopped")
	assert.Contains(t, buf.String(), "[INFO] [SYS] Status refresher stopped")
}
