// Package logging builds the slog logger used for diagnostics. Logs go to
// stderr so command output on stdout stays machine-readable.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// DefaultLevel keeps absorbed failures quiet unless asked for.
const DefaultLevel = "warn"

// Options configures New.
type Options struct {
	Level     string
	Writer    io.Writer
	Component string
}

// New returns a text logger writing to opts.Writer (stderr when nil).
func New(opts Options) *slog.Logger {
	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}
	h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: ParseLevel(opts.Level)})
	lg := slog.New(h)
	if c := strings.TrimSpace(opts.Component); c != "" {
		lg = lg.With("component", c)
	}
	return lg
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// ParseLevel maps debug|info|warn|error to a slog level. Unknown or empty
// values fall back to warn.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
