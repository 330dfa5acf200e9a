// Package ui provides terminal capability detection and text layout helpers.
package ui

import (
	"os"

	"golang.org/x/term"
)

const (
	defaultWidth = 80
	maxWidth     = 100
)

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// ShouldUseColor reports whether stdout output should carry ANSI styling.
// NO_COLOR (any value) disables color; WT_FORCE_COLOR enables it even when
// stdout is not a terminal.
func ShouldUseColor() bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	if os.Getenv("WT_FORCE_COLOR") != "" {
		return true
	}
	return IsTerminal(os.Stdout)
}

// IsAgentMode reports whether wt runs under a coding agent rather than a
// person. Agents get plain wrapped text instead of styled output.
func IsAgentMode() bool {
	return os.Getenv("WT_AGENT_MODE") == "1" || os.Getenv("CLAUDECODE") == "1"
}

// TerminalWidth returns the stdout width for word wrapping, capped at 100
// columns. Falls back to 80 when stdout is not a terminal.
func TerminalWidth() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return defaultWidth
	}
	width, _, err := term.GetSize(fd)
	if err != nil || width <= 0 {
		return defaultWidth
	}
	return min(width, maxWidth)
}
