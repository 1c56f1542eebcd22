package logger

import (
	"context"
	"log/slog"
)

// LogStore logs a state document operation
func LogStore(level slog.Level, msg string, backend string, attrs ...any) {
	baseAttrs := []any{
		slog.String("type", "store"),
		slog.String("backend", backend),
	}
	slog.Log(context.Background(), level, msg, append(baseAttrs, attrs...)...)
}

// LogSystem logs system events
func LogSystem(level slog.Level, msg string, attrs ...any) {
	baseAttrs := []any{slog.String("type", "sys")}
	slog.Log(context.Background(), level, msg, append(baseAttrs, attrs...)...)
}

// LogError logs error events
func LogError(msg string, err error, attrs ...any) {
	baseAttrs := []any{
		slog.String("type", "error"),
		slog.Any("error", err),
	}
	slog.Error(msg, append(baseAttrs, attrs...)...)
}
