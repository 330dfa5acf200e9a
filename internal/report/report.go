// Package report renders agent status summaries as a static table or JSON.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/groblegark/wtstatus/internal/monitoring"
	"github.com/groblegark/wtstatus/internal/status"
	"github.com/groblegark/wtstatus/internal/style"
)

// DefaultBarWidth is the number of cells in a todo progress bar.
const DefaultBarWidth = 10

// Bar cells.
const (
	barFilled      = "█"
	barEmpty       = "░"
	barPlaceholder = "-"
)

// Options controls rendering. The zero value renders plain text relative to
// the summary's generation time.
type Options struct {
	// Color enables ANSI styling.
	Color bool

	// Now is the reference time for "time ago" strings. Zero means the
	// summary's GeneratedAt.
	Now time.Time

	// BarWidth overrides DefaultBarWidth.
	BarWidth int

	// StatusDir is named in the guidance shown when there are no records.
	StatusDir string
}

// Renderer turns summaries into human-readable text.
type Renderer struct {
	opts Options
	p    *style.Palette
}

// NewRenderer creates a Renderer writing styles for w.
func NewRenderer(w io.Writer, opts Options) *Renderer {
	if opts.BarWidth <= 0 {
		opts.BarWidth = DefaultBarWidth
	}
	return &Renderer{opts: opts, p: style.NewPalette(w, opts.Color)}
}

// RenderTable writes s to w as one block per record.
func RenderTable(w io.Writer, s monitoring.Summary, opts Options) error {
	_, err := io.WriteString(w, NewRenderer(w, opts).Table(s))
	return err
}

// WriteJSON writes the machine-readable summary.
func WriteJSON(w io.Writer, s monitoring.Summary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

// Table renders the header and one block per record. Zero records render a
// guidance message.
func (r *Renderer) Table(s monitoring.Summary) string {
	var b strings.Builder
	b.WriteString(r.Header(s))
	b.WriteString("\n\n")

	if len(s.Agents) == 0 {
		b.WriteString(r.Empty())
		b.WriteString("\n")
		return b.String()
	}

	now := r.opts.Now
	if now.IsZero() {
		now = s.GeneratedAt
	}
	for i, e := range s.Agents {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(r.Block(e, now))
	}
	return b.String()
}

// Header summarizes the class counts on one line.
func (r *Renderer) Header(s monitoring.Summary) string {
	counts := []struct {
		class monitoring.Class
		n     int
		st    func(...string) string
	}{
		{monitoring.ClassBlocked, s.Blocked, r.p.Error.Render},
		{monitoring.ClassActive, s.Active, r.p.Success.Render},
		{monitoring.ClassStale, s.Stale, r.p.Dim.Render},
	}
	parts := make([]string, 0, len(counts))
	for _, c := range counts {
		parts = append(parts, c.st(fmt.Sprintf("%s: %d", style.Title(string(c.class)), c.n)))
	}
	return fmt.Sprintf("%s %s  %s",
		r.p.Title.Render("Agent Status"),
		r.p.Dim.Render(fmt.Sprintf("(%d total)", s.Total)),
		strings.Join(parts, "  "))
}

// Empty is the guidance shown when no worker has reported yet.
func (r *Renderer) Empty() string {
	msg := "No agent status records yet."
	if r.opts.StatusDir != "" {
		msg = fmt.Sprintf("No agent status records in %s.", r.opts.StatusDir)
	}
	return msg + "\n" + r.p.Dim.Render(`Workers report progress with: wt report "<what you are working on>"`)
}

// Block renders one record.
func (r *Renderer) Block(e monitoring.Entry, now time.Time) string {
	var b strings.Builder

	b.WriteString(r.badge(e.Class))
	b.WriteString(" ")
	b.WriteString(r.p.Bold.Render(e.TaskName))
	if e.Branch != nil && *e.Branch != "" {
		b.WriteString("  ")
		b.WriteString(r.p.Dim.Render(*e.Branch))
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "  %s\n", e.CurrentWork)

	fmt.Fprintf(&b, "  tests: %s   todos: %s   diff: %s   updated: %s\n",
		r.testIndicator(e.TestStatus),
		r.progress(e.AgentStatus),
		DiffSummary(e.DiffStats),
		TimeAgo(e.LastUpdate, now))

	if e.IsBlocked {
		reason := e.Reason()
		if reason == "" {
			reason = "no reason given"
		}
		b.WriteString("  ")
		b.WriteString(r.p.Error.Render("blocked: " + reason))
		b.WriteString("\n")
	}
	return b.String()
}

func (r *Renderer) badge(c monitoring.Class) string {
	switch c {
	case monitoring.ClassBlocked:
		return r.p.Badge(r.p.BadgeBlocked, string(c))
	case monitoring.ClassStale:
		return r.p.Badge(r.p.BadgeStale, string(c))
	default:
		return r.p.Badge(r.p.BadgeActive, string(c))
	}
}

func (r *Renderer) testIndicator(ts status.TestStatus) string {
	switch ts {
	case status.TestPassed:
		return r.p.Success.Render("✓ passed")
	case status.TestFailed:
		return r.p.Error.Render("✗ failed")
	default:
		return r.p.Dim.Render("? unknown")
	}
}

func (r *Renderer) progress(rec *status.AgentStatus) string {
	completed, total, ok := rec.Todos()
	if !ok {
		return r.p.Dim.Render("[" + strings.Repeat(barPlaceholder, r.opts.BarWidth) + "] -/-")
	}
	filled := FilledCells(completed, total, r.opts.BarWidth)
	return "[" +
		r.p.BarFilled.Render(strings.Repeat(barFilled, filled)) +
		r.p.BarEmpty.Render(strings.Repeat(barEmpty, r.opts.BarWidth-filled)) +
		fmt.Sprintf("] %d/%d", completed, total)
}

// FilledCells returns how many of width cells represent completed/total,
// clamped to [0, width]. A zero total fills nothing.
func FilledCells(completed, total, width int) int {
	if total <= 0 || completed <= 0 || width <= 0 {
		return 0
	}
	if completed >= total {
		return width
	}
	return completed * width / total
}

// DiffSummary formats diff statistics as "+a -d", or "n/a" when absent.
func DiffSummary(d *status.DiffStats) string {
	if d == nil {
		return "n/a"
	}
	return "+" + humanize.Comma(int64(d.Additions)) + " -" + humanize.Comma(int64(d.Deletions))
}

// TimeAgo formats then relative to now ("5 minutes ago").
func TimeAgo(then, now time.Time) string {
	if then.IsZero() {
		return "never"
	}
	return humanize.RelTime(then, now, "ago", "from now")
}
