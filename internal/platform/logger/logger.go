package logger

import (
	"io"
	"log/slog"
	"os"
)

// New returns a structured JSON logger on stderr. Stdout is kept for the
// announcement text itself.
func New(level slog.Leveler) *slog.Logger {
	return NewWithWriter(os.Stderr, level)
}

// NewWithWriter returns a structured JSON logger writing to w.
func NewWithWriter(w io.Writer, level slog.Leveler) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: level,
	}
	handler := slog.NewJSONHandler(w, opts)
	return slog.New(handler).With("service", "feriadobot")
}
