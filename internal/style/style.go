// Package style holds the terminal palette shared by every wt command.
package style

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Color palette
var (
	colorPrimary = lipgloss.Color("39")  // blue
	colorSuccess = lipgloss.Color("76")  // green
	colorWarning = lipgloss.Color("214") // orange
	colorError   = lipgloss.Color("196") // red
	colorMuted   = lipgloss.Color("242") // gray
	colorWhite   = lipgloss.Color("15")
)

// Package-level styles render through the default renderer, which detects
// color support from stdout.
var (
	Bold    = lipgloss.NewStyle().Bold(true)
	Dim     = lipgloss.NewStyle().Foreground(colorMuted)
	Success = lipgloss.NewStyle().Foreground(colorSuccess)
	Warning = lipgloss.NewStyle().Foreground(colorWarning)
	Error   = lipgloss.NewStyle().Foreground(colorError)
	Info    = lipgloss.NewStyle().Foreground(colorPrimary)

	SuccessPrefix = Success.Render("✓")
	WarningPrefix = Warning.Render("!")
	ErrorPrefix   = Error.Render("✗")
)

// Palette is a set of styles bound to one renderer. Renderers built with
// color disabled produce plain text, which keeps output deterministic in
// tests and pipes.
type Palette struct {
	Color bool

	Title   lipgloss.Style
	Bold    lipgloss.Style
	Dim     lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Info    lipgloss.Style

	BadgeBlocked lipgloss.Style
	BadgeActive  lipgloss.Style
	BadgeStale   lipgloss.Style

	BarFilled lipgloss.Style
	BarEmpty  lipgloss.Style
}

// NewPalette builds a palette rendering to w. With color off the renderer
// uses the Ascii profile and every style degrades to its plain text.
func NewPalette(w io.Writer, color bool) *Palette {
	if w == nil {
		w = io.Discard
	}
	profile := termenv.Ascii
	if color {
		profile = termenv.ANSI256
	}
	r := lipgloss.NewRenderer(w, termenv.WithProfile(profile))
	r.SetColorProfile(profile)
	badge := r.NewStyle().Bold(true).Foreground(colorWhite).Padding(0, 1)
	return &Palette{
		Color:        color,
		Title:        r.NewStyle().Bold(true).Foreground(colorPrimary),
		Bold:         r.NewStyle().Bold(true),
		Dim:          r.NewStyle().Foreground(colorMuted),
		Success:      r.NewStyle().Foreground(colorSuccess),
		Warning:      r.NewStyle().Foreground(colorWarning),
		Error:        r.NewStyle().Foreground(colorError),
		Info:         r.NewStyle().Foreground(colorPrimary),
		BadgeBlocked: badge.Background(colorError),
		BadgeActive:  badge.Background(colorSuccess),
		BadgeStale:   badge.Background(colorMuted),
		BarFilled:    r.NewStyle().Foreground(colorSuccess),
		BarEmpty:     r.NewStyle().Foreground(colorMuted),
	}
}

// Badge renders label as an upper-case status badge. Without color the
// badge is bracketed so it still stands out.
func (p *Palette) Badge(s lipgloss.Style, label string) string {
	label = strings.ToUpper(label)
	if !p.Color {
		return "[" + label + "]"
	}
	return s.Render(label)
}

var titleCaser = cases.Title(language.English)

// Title upper-cases the first letter of each word.
func Title(s string) string {
	return titleCaser.String(s)
}
