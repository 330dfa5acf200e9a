package status

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/groblegark/wtstatus/internal/constants"
	"github.com/groblegark/wtstatus/internal/util"
)

// Store reads and writes status records in a single directory.
type Store struct {
	dir string
	now func() time.Time
	log *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the time source used to stamp last_update.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLogger sets the logger used for absorbed failures.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.log = l }
}

// NewStore creates a Store rooted at dir. The directory is created lazily on
// the first write.
func NewStore(dir string, opts ...Option) *Store {
	s := &Store{
		dir: dir,
		now: time.Now,
		log: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dir returns the directory holding the records.
func (s *Store) Dir() string {
	return s.dir
}

// PathFor returns the record path for a task after validating its name.
func (s *Store) PathFor(taskName string) (string, error) {
	if err := ValidateTaskName(taskName); err != nil {
		return "", err
	}
	return filepath.Join(s.dir, taskName+constants.ExtRecord), nil
}

// Write validates rec, stamps LastUpdate with the current UTC time and
// atomically replaces the task's record. Nothing touches the filesystem when
// validation fails.
func (s *Store) Write(rec *AgentStatus) error {
	if rec.TestStatus == "" {
		rec.TestStatus = TestUnknown
	}
	if err := rec.Validate(); err != nil {
		return err
	}
	path, err := s.PathFor(rec.TaskName)
	if err != nil {
		return err
	}
	rec.LastUpdate = s.now().UTC()
	if err := WriteRecord(path, rec); err != nil {
		return err
	}
	s.log.Debug("status written", "task", rec.TaskName, "path", path)
	return nil
}

// ReadOne returns the record for a task. Missing and unparseable records
// both yield ErrNotFound.
func (s *Store) ReadOne(taskName string) (*AgentStatus, error) {
	path, err := s.PathFor(taskName)
	if err != nil {
		return nil, err
	}
	rec, err := ReadRecord(path)
	if err != nil {
		s.log.Debug("status unavailable", "task", taskName, "err", err)
		return nil, err
	}
	return rec, nil
}

// ReadAll returns every readable record in the store directory.
func (s *Store) ReadAll() ([]*AgentStatus, error) {
	return readDir(s.dir, s.log)
}

// Cleanup removes leftover temp files older than maxAge and returns how many
// were removed.
func (s *Store) Cleanup(maxAge time.Duration) (int, error) {
	return cleanupDir(s.dir, maxAge, s.now(), s.log)
}

// WriteRecord serializes rec and atomically writes it to path.
func WriteRecord(path string, rec *AgentStatus) error {
	if err := util.AtomicWriteJSON(path, rec); err != nil {
		return fmt.Errorf("writing status %s: %w", filepath.Base(path), err)
	}
	return nil
}

// ReadRecord reads a single record. A missing file or content that does not
// parse into a usable record returns ErrNotFound.
func ReadRecord(path string) (*AgentStatus, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	rec, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrNotFound, filepath.Base(path), err)
	}
	return rec, nil
}

func decode(data []byte) (*AgentStatus, error) {
	var rec AgentStatus
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	if err := ValidateTaskName(rec.TaskName); err != nil {
		return nil, err
	}
	if rec.LastUpdate.IsZero() {
		return nil, fmt.Errorf("missing last_update")
	}
	if rec.TestStatus == "" {
		rec.TestStatus = TestUnknown
	}
	return &rec, nil
}

func isRecordName(name string) bool {
	return strings.HasSuffix(name, constants.ExtRecord) && !util.IsTempName(name)
}

func readDir(dir string, log *slog.Logger) ([]*AgentStatus, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("listing status directory: %w", err)
	}

	var records []*AgentStatus
	for _, e := range entries {
		if e.IsDir() || !isRecordName(e.Name()) {
			continue
		}
		rec, err := ReadRecord(filepath.Join(dir, e.Name()))
		if err != nil {
			log.Warn("skipping unreadable status record", "file", e.Name(), "err", err)
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

func cleanupDir(dir string, maxAge time.Duration, now time.Time, log *slog.Logger) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("listing status directory: %w", err)
	}

	removed := 0
	for _, e := range entries {
		if e.IsDir() || !util.IsTempName(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue // Removed by its writer in the meantime
		}
		if now.Sub(info.ModTime()) <= maxAge {
			continue
		}
		path := filepath.Join(dir, e.Name())
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			log.Warn("removing orphaned temp file", "file", e.Name(), "err", err)
			continue
		}
		log.Debug("removed orphaned temp file", "file", e.Name(), "pid", util.TempPID(e.Name()))
		removed++
	}
	return removed, nil
}
