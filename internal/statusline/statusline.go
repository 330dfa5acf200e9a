// Package statusline formats a one-line agent summary for tmux status bars
// and shell prompts.
//
// Output is plain text: tmux applies its own styling and prompts cannot
// assume ANSI support.
package statusline

import (
	"fmt"
	"strings"

	"github.com/groblegark/wtstatus/internal/monitoring"
)

// DefaultMaxWork is how many characters of the current work description are
// shown before truncation.
const DefaultMaxWork = 30

// Separator joins segments.
const Separator = " | "

// Options controls formatting.
type Options struct {
	// Task puts this task's own status first. Empty shows counts only.
	Task string

	// MaxWork truncates the task's work description. Zero means
	// DefaultMaxWork.
	MaxWork int
}

// Format renders s as a single line, for example
//
//	login: Implementing form [2/5] | 1 blocked | 2 active
func Format(s monitoring.Summary, opts Options) string {
	if opts.MaxWork <= 0 {
		opts.MaxWork = DefaultMaxWork
	}

	var parts []string
	if opts.Task != "" {
		parts = append(parts, taskSegment(s, opts))
	}

	counts := countSegments(s)
	if len(counts) == 0 && opts.Task == "" {
		return "no agents"
	}
	parts = append(parts, counts...)
	return strings.Join(parts, Separator)
}

func taskSegment(s monitoring.Summary, opts Options) string {
	e, ok := s.Find(opts.Task)
	if !ok {
		return opts.Task + ": not reported"
	}

	seg := opts.Task + ": " + Truncate(e.CurrentWork, opts.MaxWork)
	if completed, total, ok := e.Todos(); ok {
		seg += fmt.Sprintf(" [%d/%d]", completed, total)
	}
	switch e.Class {
	case monitoring.ClassBlocked:
		seg += " BLOCKED"
	case monitoring.ClassStale:
		seg += " (stale)"
	}
	return seg
}

// countSegments lists non-zero class counts in display order.
func countSegments(s monitoring.Summary) []string {
	var segs []string
	if s.Blocked > 0 {
		segs = append(segs, fmt.Sprintf("%d blocked", s.Blocked))
	}
	if s.Active > 0 {
		segs = append(segs, fmt.Sprintf("%d active", s.Active))
	}
	if s.Stale > 0 {
		segs = append(segs, fmt.Sprintf("%d stale", s.Stale))
	}
	return segs
}

// Truncate shortens s to at most n runes, ending in an ellipsis when cut.
func Truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
