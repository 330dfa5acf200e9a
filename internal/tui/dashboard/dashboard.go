// Package dashboard implements the continuously refreshing agent status
// view run by the orchestrator.
//
// The program starts by hiding the cursor and fetching once, then re-reads
// the status directory on every tick until it is interrupted. A failed
// fetch is shown as an error line; the next tick tries again.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/groblegark/wtstatus/internal/monitoring"
	"github.com/groblegark/wtstatus/internal/report"
	"github.com/groblegark/wtstatus/internal/status"
	"github.com/groblegark/wtstatus/internal/style"
)

// DefaultInterval is the refresh period when none is configured.
const DefaultInterval = 2 * time.Second

// Source supplies the records shown on each pass. *status.Store satisfies it.
type Source interface {
	ReadAll() ([]*status.AgentStatus, error)
}

// Config configures the dashboard.
type Config struct {
	Source     Source
	Classifier *monitoring.Classifier
	Interval   time.Duration
	StatusDir  string
	Color      bool
	Watch      bool
	Logger     *slog.Logger
}

type tickMsg time.Time

// snapshotMsg is the result of one fetch. seq orders fetches by the time
// they were issued, not the time they completed.
type snapshotMsg struct {
	seq     uint64
	summary monitoring.Summary
	err     error
}

// Model is the bubbletea model of the dashboard.
type Model struct {
	cfg      Config
	keys     keyMap
	help     help.Model
	watcher  *watcher
	palette  *style.Palette
	summary  monitoring.Summary
	err      error
	loaded   bool
	refresh  time.Time
	quitting bool

	fetchSeq   uint64 // last sequence number handed out
	appliedSeq uint64 // sequence number of the snapshot on screen
}

// New creates a dashboard model.
func New(cfg Config) *Model {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	if cfg.Classifier == nil {
		cfg.Classifier = monitoring.NewClassifier()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	h := help.New()
	if !cfg.Color {
		h.Styles = help.Styles{}
	}
	return &Model{
		cfg:     cfg,
		keys:    defaultKeyMap(),
		help:    h,
		palette: style.NewPalette(io.Discard, cfg.Color),
	}
}

// Init hides the cursor, fetches immediately and arms the timer.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tea.HideCursor, m.fetch(), m.tick()}
	if m.watcher != nil {
		cmds = append(cmds, m.watcher.next)
	}
	return tea.Batch(cmds...)
}

// Update handles one message.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Refresh):
			return m, m.fetch()
		}

	case tea.WindowSizeMsg:
		m.help.Width = msg.Width

	case tickMsg:
		return m, tea.Batch(m.fetch(), m.tick())

	case changedMsg:
		return m, tea.Batch(m.fetch(), m.watcher.next)

	case snapshotMsg:
		m.apply(msg)
	}
	return m, nil
}

// View renders the current state.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	var b strings.Builder
	b.WriteString(m.Render())
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	b.WriteString("\n")
	return b.String()
}

// Render returns the dashboard body for the last fetch: header, table and,
// when the last fetch failed, an error line.
func (m *Model) Render() string {
	var b strings.Builder
	b.WriteString(m.palette.Dim.Render(m.statusLine()))
	b.WriteString("\n\n")

	if m.loaded {
		r := report.NewRenderer(io.Discard, report.Options{
			Color:     m.cfg.Color,
			Now:       m.summary.GeneratedAt,
			StatusDir: m.cfg.StatusDir,
		})
		b.WriteString(r.Table(m.summary))
	} else if m.err == nil {
		b.WriteString("Loading...\n")
	}

	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(m.palette.Error.Render("Error: " + m.err.Error()))
		b.WriteString("\n")
	}
	return b.String()
}

func (m *Model) statusLine() string {
	parts := []string{"wt monitor"}
	if !m.refresh.IsZero() {
		parts = append(parts, "refreshed "+m.refresh.Local().Format("15:04:05"))
	}
	parts = append(parts, "every "+m.cfg.Interval.String())
	if m.watcher != nil {
		parts = append(parts, "watching")
	}
	return strings.Join(parts, "  ")
}

// snapshot reads and classifies all records once. A panic during the pass
// is reported as an error instead of taking the loop down.
func (m *Model) snapshot() (msg snapshotMsg) {
	defer func() {
		if r := recover(); r != nil {
			m.cfg.Logger.Error("dashboard render pass panicked", "panic", r)
			msg = snapshotMsg{err: fmt.Errorf("render pass failed: %v", r)}
		}
	}()
	records, err := m.cfg.Source.ReadAll()
	if err != nil {
		return snapshotMsg{err: fmt.Errorf("reading status: %w", err)}
	}
	return snapshotMsg{summary: m.cfg.Classifier.Summarize(records)}
}

// apply shows msg unless a later-issued fetch has already been shown.
// Fetches run concurrently, so a slow read can finish after a newer one.
func (m *Model) apply(msg snapshotMsg) {
	if msg.seq < m.appliedSeq {
		m.cfg.Logger.Debug("dropping out-of-order snapshot", "seq", msg.seq, "applied", m.appliedSeq)
		return
	}
	m.appliedSeq = msg.seq
	m.refresh = m.cfg.Classifier.Now()
	if msg.err != nil {
		m.err = msg.err
		return
	}
	m.err = nil
	m.loaded = true
	m.summary = msg.summary
}

// fetch returns a command reading one snapshot. The sequence number is
// taken here, on the update goroutine, so it reflects issue order.
func (m *Model) fetch() tea.Cmd {
	m.fetchSeq++
	seq := m.fetchSeq
	return func() tea.Msg {
		msg := m.snapshot()
		msg.seq = seq
		return msg
	}
}

func (m *Model) tick() tea.Cmd {
	return tea.Tick(m.cfg.Interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// RenderOnce performs a single fetch-and-render pass to w without a timer.
func RenderOnce(w io.Writer, cfg Config) error {
	m := New(cfg)
	m.apply(m.snapshot())
	_, err := io.WriteString(w, m.Render())
	return err
}

// Run drives the dashboard until ctx is cancelled or the user quits. An
// interrupt is a clean exit; the terminal cursor is restored on the way
// out.
func Run(ctx context.Context, cfg Config, opts ...tea.ProgramOption) error {
	m := New(cfg)
	if cfg.Watch {
		w, err := newWatcher(cfg.StatusDir, m.cfg.Logger)
		if err != nil {
			m.cfg.Logger.Warn("watch unavailable, polling only", "dir", cfg.StatusDir, "err", err)
		} else {
			m.watcher = w
			defer func() { _ = w.close() }()
		}
	}

	opts = append([]tea.ProgramOption{tea.WithContext(ctx), tea.WithAltScreen()}, opts...)
	_, err := tea.NewProgram(m, opts...).Run()
	if errors.Is(err, tea.ErrProgramKilled) || errors.Is(err, tea.ErrInterrupted) {
		return nil
	}
	return err
}
