// Package logging provides structured logging using Go's slog package.
package logging

import (
	"io"
	"log/slog"
	"os"
)

// Format represents a log output format.
type Format int

const (
	// FormatText outputs logs in human-readable text format.
	FormatText Format = iota
	// FormatJSON outputs logs in JSON format.
	FormatJSON
)

// New creates a logger writing to w at the given level and format.
func New(w io.Writer, level slog.Level, format Format) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if format == FormatJSON {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

// NewStderr creates a text logger on stderr, the default for tools.
func NewStderr(level slog.Level) *slog.Logger {
	return New(os.Stderr, level, FormatText)
}

// Discard returns a logger that drops everything. Libraries use it when the
// caller supplies no logger.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
