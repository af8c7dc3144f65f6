// =============================================================================
// QRIS Dynamic Converter - Logging
// =============================================================================
//
// Builds the structured logger shared by every command. Components receive
// the logger and derive their own child with logger.With(...).
//
// =============================================================================

package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/exp/slog"
)

// Options controls where and how much is logged.
type Options struct {
	// Level is one of "debug", "info", "warn", "error".
	Level string

	// File, when set, receives the log instead of Output.
	File string

	// Verbose forces the debug level.
	Verbose bool

	// Output is used when File is empty. Defaults to os.Stderr.
	Output io.Writer
}

// New returns a text logger configured from opts, and a close function for
// the log file (a no-op when logging to Output).
func New(opts Options) (*slog.Logger, func() error, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, nil, err
	}
	if opts.Verbose {
		level = slog.LevelDebug
	}

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	closer := func() error { return nil }

	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0755); err != nil {
			return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		out = f
		closer = f.Close
	}

	handler := slog.HandlerOptions{Level: level}.NewTextHandler(out)
	return slog.New(handler), closer, nil
}

// ParseLevel maps a config level name to a slog level. An empty name is info.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("unknown log level %q", name)
}

// Discard returns a logger that drops everything; used by tests.
func Discard() *slog.Logger {
	return slog.New(slog.HandlerOptions{Level: slog.LevelError}.NewTextHandler(io.Discard))
}
