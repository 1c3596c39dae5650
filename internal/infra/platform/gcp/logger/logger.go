package logger

import (
	"io"
	"log/slog"
)

// LevelCritical is above slog.LevelError; Cloud Logging shows it as CRITICAL.
const LevelCritical = slog.Level(12)

// New returns a JSON slog.Logger writing to w with keys aligned for Cloud Logging.
// service が空でなければ serviceContext.service として付与し、Error Reporting でまとめられるようにする。
func New(w io.Writer, level slog.Level, service string) *slog.Logger {
	l := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:       level,
		AddSource:   true,
		ReplaceAttr: replaceAttr,
	}))
	if service != "" {
		l = l.With(slog.Group("serviceContext", slog.String("service", service)))
	}
	return l
}

func replaceAttr(groups []string, a slog.Attr) slog.Attr {
	if len(groups) > 0 {
		return a
	}
	switch a.Key {
	case slog.LevelKey:
		a.Key = "severity"
		if lvl, ok := a.Value.Any().(slog.Level); ok {
			a.Value = slog.StringValue(severity(lvl))
		}
	case slog.TimeKey:
		a.Key = "timestamp"
	case slog.MessageKey:
		a.Key = "message"
	case slog.SourceKey:
		a.Key = "logging.googleapis.com/sourceLocation"
	case "request_id":
		// リクエスト単位でログをまとめて表示できるようにする
		a.Key = "logging.googleapis.com/labels"
		a.Value = slog.GroupValue(slog.String("request_id", a.Value.String()))
	}
	return a
}

func severity(lvl slog.Level) string {
	switch {
	case lvl >= LevelCritical:
		return "CRITICAL"
	case lvl >= slog.LevelError:
		return "ERROR"
	case lvl >= slog.LevelWarn:
		return "WARNING"
	case lvl >= slog.LevelInfo:
		return "INFO"
	default:
		return "DEBUG"
	}
}
