package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	auth "github.com/goliatone/go-client-auth"
)

// slogLogger adapts a *slog.Logger to auth.Logger. Calls whose message
// carries printf verbs are formatted, everything else is logged as
// key/value attributes.
type slogLogger struct {
	log *slog.Logger
}

// newLogger writes JSON lines at level or above to w
func newLogger(w io.Writer, level string) auth.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: parseLevel(level),
	})
	return slogLogger{
		log: slog.New(handler).With("service", "auth-server"),
	}
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
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

func (l slogLogger) Debug(format string, args ...any) {
	l.emit(slog.LevelDebug, format, args...)
}

func (l slogLogger) Info(format string, args ...any) {
	l.emit(slog.LevelInfo, format, args...)
}

func (l slogLogger) Warn(format string, args ...any) {
	l.emit(slog.LevelWarn, format, args...)
}

func (l slogLogger) Error(format string, args ...any) {
	l.emit(slog.LevelError, format, args...)
}

func (l slogLogger) emit(level slog.Level, format string, args ...any) {
	if strings.Contains(format, "%") {
		l.log.Log(context.Background(), level, fmt.Sprintf(format, args...))
		return
	}
	l.log.Log(context.Background(), level, format, args...)
}
