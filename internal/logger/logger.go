// Package logger configures the process-wide slog logger.
package logger

import (
	"io"
	"log/slog"
)

// New builds a logger writing to w. Debug enables debug level and source
// locations; format "json" selects the JSON handler, anything else text.
// The logger is also installed as the slog default.
func New(w io.Writer, format string, debug bool) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}
	if debug {
		opts.Level = slog.LevelDebug
		opts.AddSource = true
	}

	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// Discard returns a logger that drops everything. Used by tests and by code
// paths that were not handed a logger.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
