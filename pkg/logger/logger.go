package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Log is the process-wide logger. It falls back to slog's default until Init runs.
var Log = slog.Default()

// Init builds the process logger. format is "json" (default) or "text".
func Init(level, format string) {
	Log = New(os.Stdout, level, format)
	slog.SetDefault(Log)
}

// New creates a logger writing to w.
func New(w io.Writer, level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}

	var handler slog.Handler
	if strings.EqualFold(format, "text") {
		handler = slog.NewTextHandler(w, opts)
	} else {
		// JSON handler for production-ready logging
		handler = slog.NewJSONHandler(w, opts)
	}
	return slog.New(handler)
}

// ParseLevel maps LOG_LEVEL values to slog levels; unknown values mean info.
func ParseLevel(level string) slog.Level {
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
