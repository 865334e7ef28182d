package view

import (
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/lmittmann/tint"
)

type LogLevel int

type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

const (
	LogLevelDebug LogLevel = iota
	LogLevelInfo
	LogLevelWarn
	LogLevelError
	LogLevelSilent
)

// ParseLogLevel maps the ITL_LOG environment value to a LogLevel. Unknown
// values keep the default, silent.
func ParseLogLevel(s string) LogLevel {
	switch strings.ToLower(s) {
	case "debug":
		return LogLevelDebug
	case "info":
		return LogLevelInfo
	case "warn":
		return LogLevelWarn
	case "error":
		return LogLevelError
	default:
		return LogLevelSilent
	}
}

// toSlogLevel converts our LogLevel to slog.Level
func (l LogLevel) toSlogLevel() slog.Level {
	switch l {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelInfo:
		return slog.LevelInfo
	case LogLevelWarn:
		return slog.LevelWarn
	case LogLevelError:
		return slog.LevelError
	default:
		return slog.Level(100) // higher than any real level
	}
}

// slogLogger adapts a slog.Logger to the Logger interface. Human and JSON
// loggers differ only in the handler they are built on.
type slogLogger struct {
	logger *slog.Logger
}

var _ Logger = (*slogLogger)(nil)

func (l *slogLogger) Debug(msg string, args ...any) { l.logger.Debug(msg, args...) }
func (l *slogLogger) Info(msg string, args ...any)  { l.logger.Info(msg, args...) }
func (l *slogLogger) Warn(msg string, args ...any)  { l.logger.Warn(msg, args...) }
func (l *slogLogger) Error(msg string, args ...any) { l.logger.Error(msg, args...) }

func rewriteLogLevel(groups []string, a slog.Attr) slog.Attr {
	if a.Key == slog.LevelKey && len(groups) == 0 {
		level := a.Value.Any().(slog.Level)

		var levelText string
		switch level {
		case slog.LevelDebug:
			levelText = "DEBUG"
		case slog.LevelInfo:
			levelText = color.GreenString("INFO")
		case slog.LevelWarn:
			levelText = color.YellowString("WARN")
		case slog.LevelError:
			levelText = color.RedString("ERROR")
		default:
			levelText = level.String()
		}
		a.Value = slog.StringValue(levelText)
	}

	return a
}

// NewHumanLogger creates a human-readable slog logger
func NewHumanLogger(w io.Writer, level LogLevel) Logger {
	if level == LogLevelSilent {
		return NewNopLogger()
	}
	handler := tint.NewHandler(w, &tint.Options{
		Level:       level.toSlogLevel(),
		TimeFormat:  time.DateTime,
		ReplaceAttr: rewriteLogLevel,
	})
	return &slogLogger{logger: slog.New(handler)}
}

// NewJSONLogger creates a JSON-structured slog logger
func NewJSONLogger(w io.Writer, level LogLevel) Logger {
	if level == LogLevelSilent {
		return NewNopLogger()
	}
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level.toSlogLevel(),
	})
	return &slogLogger{logger: slog.New(handler)}
}

// NewNopLogger creates a no-op logger that discards all output
func NewNopLogger() Logger {
	handler := slog.NewJSONHandler(io.Discard, &slog.HandlerOptions{
		Level: LogLevelSilent.toSlogLevel(),
	})
	return &slogLogger{logger: slog.New(handler)}
}
