package ui

import (
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/glamour"
)

// WrapText wraps text at word boundaries to fit within width.
// Existing line breaks are preserved.
func WrapText(text string, width int) string {
	if width <= 0 {
		width = defaultWidth
	}

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = wrapLine(line, width)
	}
	return strings.Join(lines, "\n")
}

func wrapLine(line string, width int) string {
	if utf8.RuneCountInString(line) <= width {
		return line
	}

	var b strings.Builder
	n := 0
	for _, word := range strings.Fields(line) {
		wl := utf8.RuneCountInString(word)
		switch {
		case n == 0:
			// an over-long first word stays on its own line
		case n+1+wl <= width:
			b.WriteByte(' ')
			n++
		default:
			b.WriteByte('\n')
			n = 0
		}
		b.WriteString(word)
		n += wl
	}
	return b.String()
}

// MarkdownOptions controls RenderMarkdownWith.
type MarkdownOptions struct {
	Width int
	Color bool
}

// RenderMarkdown renders a task body for stdout, styling it with glamour
// when color is available and a person is reading.
func RenderMarkdown(markdown string) string {
	return RenderMarkdownWith(markdown, MarkdownOptions{
		Width: TerminalWidth(),
		Color: ShouldUseColor() && !IsAgentMode(),
	})
}

// RenderMarkdownWith renders markdown with explicit options. Without color
// the text is only wrapped. Glamour failures fall back to the raw markdown.
func RenderMarkdownWith(markdown string, opts MarkdownOptions) string {
	if !opts.Color {
		return WrapText(markdown, opts.Width)
	}

	width := opts.Width
	if width <= 0 {
		width = defaultWidth
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return markdown
	}
	rendered, err := renderer.Render(markdown)
	if err != nil {
		return markdown
	}
	return rendered
}
