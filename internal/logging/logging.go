// Package logging builds the structured logger shared by the CLI and services
package logging

import (
	"io"
	"log/slog"
	"os"
)

// Options configures the logger
type Options struct {
	// Verbose enables debug level records
	Verbose bool
	// JSON selects the JSON handler instead of the text handler
	JSON bool
	// Writer receives the records; defaults to stderr
	Writer io.Writer
}

// New creates a logger. Without Verbose only warnings and errors are emitted
// so that normal reports on stdout stay clean.
func New(opts Options) *slog.Logger {
	output := opts.Writer
	if output == nil {
		output = os.Stderr
	}

	level := slog.LevelWarn
	if opts.Verbose {
		level = slog.LevelDebug
	}

	handlerOpts := &slog.HandlerOptions{Level: level}
	if opts.JSON {
		return slog.New(slog.NewJSONHandler(output, handlerOpts))
	}
	return slog.New(slog.NewTextHandler(output, handlerOpts))
}

// Discard returns a logger that drops every record
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// OrDiscard returns logger, or a discarding logger when it is nil
func OrDiscard(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return Discard()
	}
	return logger
}
