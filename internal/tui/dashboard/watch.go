package dashboard

import (
	"log/slog"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"

	"github.com/groblegark/wtstatus/internal/constants"
	"github.com/groblegark/wtstatus/internal/util"
)

// changedMsg reports that a record file in the status directory changed.
type changedMsg struct{}

// watcher turns fsnotify events on final record files into changedMsg.
// The refresh timer keeps running regardless, so a failed watch only costs
// latency.
type watcher struct {
	fs  *fsnotify.Watcher
	log *slog.Logger
}

func newWatcher(dir string, log *slog.Logger) (*watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(dir); err != nil {
		_ = fw.Close()
		return nil, err
	}
	return &watcher{fs: fw, log: log}, nil
}

// next waits for the next relevant event. It returns nil once the watcher
// is closed.
func (w *watcher) next() tea.Msg {
	for {
		select {
		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if !isRecordEvent(ev) {
				continue
			}
			w.drain()
			return changedMsg{}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("status directory watch error", "err", err)
		}
	}
}

// drain discards events already queued so one burst of writes causes one
// refresh.
func (w *watcher) drain() {
	for {
		select {
		case <-w.fs.Events:
		default:
			return
		}
	}
}

func (w *watcher) close() error {
	return w.fs.Close()
}

func isRecordEvent(ev fsnotify.Event) bool {
	if ev.Op == fsnotify.Chmod {
		return false
	}
	name := filepath.Base(ev.Name)
	return filepath.Ext(name) == constants.ExtRecord && !util.IsTempName(name)
}
