// Package log provides structured logging setup for MolKNN batch runs.
//
// The package configures Go's standard log/slog with a JSON handler and a
// wrapper that extracts stack traces from cockroachdb/errors values, plus a
// set of standard attribute keys so train and predict runs emit uniform,
// analyzable records.
package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

// SetupLogger configures the process-wide slog default logger with a JSON
// handler writing to stdout at the given level.
func SetupLogger(loglevel string) {
	SetupLoggerTo(os.Stdout, loglevel)
}

// SetupLoggerTo is SetupLogger with an explicit output destination. Tests
// use it to capture log records.
func SetupLoggerTo(w io.Writer, loglevel string) {
	ops := slog.HandlerOptions{
		Level: ToLogLevel(loglevel),
	}
	handler := slog.NewJSONHandler(w, &ops)
	slog.SetDefault(slog.New(WrapByErrFmtHandler(handler)))
}

// ToLogLevel converts a level name to a slog.Level.
func ToLogLevel(level string) slog.Level {
	switch level {
	case "info":
		return slog.LevelInfo
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		panic(fmt.Sprintf("invalid log level :%s", level))
	}
}

const (
	ErrAttrKey        = "error"
	StacktraceAttrKey = "stacktrace"
)

// ErrAttr is a wrapper to pass err to slog.
func ErrAttr(err error) slog.Attr {
	return slog.Any(ErrAttrKey, err)
}
