package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	gcplogger "github.com/kawabatas/olympics-catalog/internal/infra/platform/gcp/logger"
)

// ServiceName is reported to Cloud Logging as serviceContext.service.
const ServiceName = "olympics-catalog"

// New builds the process logger. The server logs JSON to stdout; the CLI
// uses "text" so that stdout stays free for command output.
func New(provider string, level slog.Level) *slog.Logger {
	return NewWithWriter(provider, level, nil)
}

// NewWithWriter is New with an explicit destination; nil picks the
// provider's default stream.
func NewWithWriter(provider string, level slog.Level, w io.Writer) *slog.Logger {
	switch strings.ToLower(provider) {
	case "text":
		if w == nil {
			w = os.Stderr
		}
		return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	default: // gcp
		if w == nil {
			w = os.Stdout
		}
		return gcplogger.New(w, level, ServiceName)
	}
}

func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "-4", "debug":
		return slog.LevelDebug
	case "0", "info":
		return slog.LevelInfo
	case "4", "warn":
		return slog.LevelWarn
	case "8", "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
