package logging

import (
	"io"
	"log/slog"
)

// Log keys shared across packages.
const (
	KeyComponent  = "component"
	KeyErr        = "err"
	KeyRequestID  = "request_id"
	KeyRunID      = "run_id"
	KeyTargetDate = "target_date"
	KeyEmployeeID = "employee_id"
	KeyUserID     = "user_id"
)

// Setup installs a JSON slog logger as the process default and returns it.
func Setup(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:     level,
		AddSource: debug,
	}))
	slog.SetDefault(logger)
	return logger
}

// Component returns a child logger tagged with the component name.
// A nil base falls back to slog.Default().
func Component(base *slog.Logger, name string) *slog.Logger {
	if base == nil {
		base = slog.Default()
	}
	return base.With(KeyComponent, name)
}

// Discard is a logger that drops everything; handy in tests.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
