package dashboard

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"

	"github.com/groblegark/wtstatus/internal/monitoring"
	"github.com/groblegark/wtstatus/internal/status"
)

var now = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

type fakeSource struct {
	records []*status.AgentStatus
	err     error
	panics  bool
	calls   int
}

func (f *fakeSource) ReadAll() ([]*status.AgentStatus, error) {
	f.calls++
	if f.panics {
		panic("corrupt state")
	}
	return f.records, f.err
}

func testConfig(src Source) Config {
	return Config{
		Source:     src,
		Classifier: monitoring.NewClassifier(monitoring.WithClock(func() time.Time { return now })),
		StatusDir:  "/repo/.claude/agent-status",
	}
}

func record(name string, age time.Duration, blocked bool) *status.AgentStatus {
	return &status.AgentStatus{
		TaskName:    name,
		CurrentWork: "working on " + name,
		TestStatus:  status.TestUnknown,
		IsBlocked:   blocked,
		LastUpdate:  now.Add(-age),
	}
}

func TestRenderOnce_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderOnce(&buf, testConfig(&fakeSource{})); err != nil {
		t.Fatalf("RenderOnce: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "No agent status records in /repo/.claude/agent-status.") {
		t.Errorf("missing guidance:\n%s", out)
	}
	if strings.Contains(out, "Error:") {
		t.Errorf("empty directory should not render an error:\n%s", out)
	}
}

func TestRenderOnce_SortsByClass(t *testing.T) {
	src := &fakeSource{records: []*status.AgentStatus{
		record("stale-c", 3*time.Hour, false),
		record("active-b", time.Minute, false),
		record("blocked-a", 5*time.Minute, true),
	}}
	var buf bytes.Buffer
	if err := RenderOnce(&buf, testConfig(src)); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	a, b, c := strings.Index(out, "blocked-a"), strings.Index(out, "active-b"), strings.Index(out, "stale-c")
	if a < 0 || !(a < b && b < c) {
		t.Errorf("order = %d, %d, %d, want blocked, active, stale:\n%s", a, b, c, out)
	}
	if src.calls != 1 {
		t.Errorf("ReadAll called %d times, want 1", src.calls)
	}
}

func TestRenderOnce_ReadErrorRendersErrorLine(t *testing.T) {
	var buf bytes.Buffer
	err := RenderOnce(&buf, testConfig(&fakeSource{err: errors.New("permission denied")}))
	if err != nil {
		t.Fatalf("RenderOnce returned %v, want error rendered in place", err)
	}
	if !strings.Contains(buf.String(), "Error: reading status: permission denied") {
		t.Errorf("missing error line:\n%s", buf.String())
	}
}

func TestRenderOnce_PanicIsContained(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderOnce(&buf, testConfig(&fakeSource{panics: true})); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "Error: render pass failed: corrupt state") {
		t.Errorf("missing error line:\n%s", buf.String())
	}
}

func TestUpdate_ErrorKeepsLastGoodSnapshot(t *testing.T) {
	src := &fakeSource{records: []*status.AgentStatus{record("alpha", time.Minute, false)}}
	m := New(testConfig(src))
	m.Update(m.fetch()())

	src.err = errors.New("disk on fire")
	m.Update(m.fetch()())

	out := m.Render()
	if !strings.Contains(out, "alpha") {
		t.Errorf("last good table dropped after error:\n%s", out)
	}
	if !strings.Contains(out, "disk on fire") {
		t.Errorf("missing error line:\n%s", out)
	}

	src.err = nil
	m.Update(m.fetch()())
	if strings.Contains(m.Render(), "Error:") {
		t.Errorf("error line should clear after a good pass:\n%s", m.Render())
	}
}

func TestUpdate_SlowFetchDoesNotOverwriteNewer(t *testing.T) {
	src := &fakeSource{records: []*status.AgentStatus{record("alpha", time.Minute, false)}}
	m := New(testConfig(src))
	slowMsg := m.fetch()()

	src.records = []*status.AgentStatus{record("bravo", time.Minute, false)}
	m.Update(m.fetch()())

	// The first fetch completes last.
	m.Update(slowMsg)

	out := m.Render()
	if !strings.Contains(out, "bravo") || strings.Contains(out, "alpha") {
		t.Errorf("out-of-order snapshot replaced the newer one:\n%s", out)
	}

	src.records = []*status.AgentStatus{record("charlie", time.Minute, false)}
	m.Update(m.fetch()())
	if !strings.Contains(m.Render(), "charlie") {
		t.Errorf("later fetch not applied:\n%s", m.Render())
	}
}

func TestUpdate_TickRefetches(t *testing.T) {
	src := &fakeSource{}
	cfg := testConfig(src)
	cfg.Interval = time.Millisecond
	m := New(cfg)

	_, cmd := m.Update(tickMsg(now))
	if cmd == nil {
		t.Fatal("tick returned no command")
	}
	msg := cmd()
	batch, ok := msg.(tea.BatchMsg)
	if !ok {
		t.Fatalf("tick command = %T, want tea.BatchMsg", msg)
	}
	var fetched bool
	for _, c := range batch {
		if c == nil {
			continue
		}
		// The batch also holds the re-armed timer; only run the fetch.
		if _, isTick := c().(tickMsg); isTick {
			continue
		}
		fetched = true
	}
	if !fetched || src.calls == 0 {
		t.Errorf("tick did not re-read records (calls = %d)", src.calls)
	}
}

func TestUpdate_Keys(t *testing.T) {
	tests := []struct {
		name     string
		msg      tea.KeyMsg
		wantQuit bool
	}{
		{"q quits", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")}, true},
		{"ctrl+c quits", tea.KeyMsg{Type: tea.KeyCtrlC}, true},
		{"r refreshes", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &fakeSource{}
			m := New(testConfig(src))
			_, cmd := m.Update(tt.msg)
			if cmd == nil {
				t.Fatal("no command returned")
			}
			msg := cmd()
			_, quit := msg.(tea.QuitMsg)
			if quit != tt.wantQuit {
				t.Errorf("quit = %v, want %v (msg %T)", quit, tt.wantQuit, msg)
			}
			if tt.wantQuit && m.View() != "" {
				t.Errorf("View after quit = %q, want empty", m.View())
			}
			if !tt.wantQuit {
				if _, ok := msg.(snapshotMsg); !ok || src.calls != 1 {
					t.Errorf("refresh msg = %T, calls = %d", msg, src.calls)
				}
			}
		})
	}
}

func TestView_ShowsHelpAndInterval(t *testing.T) {
	cfg := testConfig(&fakeSource{})
	cfg.Interval = 5 * time.Second
	m := New(cfg)
	m.Update(m.fetch()())

	out := m.View()
	for _, want := range []string{"wt monitor", "every 5s", "refresh", "quit"} {
		if !strings.Contains(out, want) {
			t.Errorf("View missing %q:\n%s", want, out)
		}
	}
}

func TestNew_Defaults(t *testing.T) {
	m := New(Config{Source: &fakeSource{}})
	if m.cfg.Interval != DefaultInterval {
		t.Errorf("Interval = %v, want %v", m.cfg.Interval, DefaultInterval)
	}
	if m.cfg.Classifier == nil || m.cfg.Logger == nil {
		t.Error("classifier and logger must be defaulted")
	}
	if !strings.Contains(m.Render(), "Loading...") {
		t.Errorf("initial render = %q, want loading placeholder", m.Render())
	}
}

func TestRun_CancelledContextIsCleanExit(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Run(ctx, testConfig(&fakeSource{}),
		tea.WithInput(nil),
		tea.WithOutput(&bytes.Buffer{}),
		tea.WithoutSignalHandler(),
	)
	if err != nil {
		t.Errorf("Run = %v, want nil on cancellation", err)
	}
}

func TestIsRecordEvent(t *testing.T) {
	tests := []struct {
		ev   fsnotify.Event
		want bool
	}{
		{fsnotify.Event{Name: "/d/alpha.json", Op: fsnotify.Create}, true},
		{fsnotify.Event{Name: "/d/alpha.json", Op: fsnotify.Remove}, true},
		{fsnotify.Event{Name: "/d/alpha.json", Op: fsnotify.Chmod}, false},
		{fsnotify.Event{Name: "/d/alpha.json.123.tmp", Op: fsnotify.Create}, false},
		{fsnotify.Event{Name: "/d/notes.txt", Op: fsnotify.Write}, false},
	}
	for _, tt := range tests {
		if got := isRecordEvent(tt.ev); got != tt.want {
			t.Errorf("isRecordEvent(%v) = %v, want %v", tt.ev, got, tt.want)
		}
	}
}

func TestWatcher_SignalsOnRecordWrite(t *testing.T) {
	dir := t.TempDir()
	w, err := newWatcher(dir, slog.New(slog.DiscardHandler))
	if err != nil {
		t.Skipf("fsnotify unavailable: %v", err)
	}
	defer func() { _ = w.close() }()

	got := make(chan tea.Msg, 1)
	go func() { got <- w.next() }()

	if err := os.WriteFile(filepath.Join(dir, "alpha.json.1.tmp"), []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}
	store := status.NewStore(dir)
	if err := store.Write(&status.AgentStatus{TaskName: "alpha", CurrentWork: "start"}); err != nil {
		t.Fatal(err)
	}

	select {
	case msg := <-got:
		if _, ok := msg.(changedMsg); !ok {
			t.Errorf("next() = %T, want changedMsg", msg)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no change signalled within 5s")
	}
}

func TestRun_WatchMissingDirectoryFallsBackToPolling(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := testConfig(&fakeSource{})
	cfg.Watch = true
	cfg.StatusDir = filepath.Join(t.TempDir(), "missing")
	err := Run(ctx, cfg, tea.WithInput(nil), tea.WithOutput(&bytes.Buffer{}), tea.WithoutSignalHandler())
	if err != nil {
		t.Errorf("Run = %v, want nil", err)
	}
}
