// Package status persists one agent status record per task in a shared
// directory.
//
// Each worker process is the only writer of its own task's record. Writes go
// through a PID-named temp file in the same directory followed by a rename,
// so concurrent readers observe either the previous complete record or the
// new one, never a partial file. No locks are taken.
package status

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Common errors
var (
	ErrNotFound           = errors.New("status record not found")
	ErrInvalidTaskName    = errors.New("invalid task name")
	ErrMissingDescription = errors.New("current work description is required")
	ErrInvalidTestStatus  = errors.New("invalid test status")
	ErrInvalidTodos       = errors.New("invalid todo progress")
)

var (
	taskNamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
	todosPattern    = regexp.MustCompile(`^\s*(\d+)\s*/\s*(\d+)\s*$`)
)

// TestStatus is the last known outcome of the task's test suite.
type TestStatus string

const (
	TestPassed  TestStatus = "passed"
	TestFailed  TestStatus = "failed"
	TestUnknown TestStatus = "unknown"
)

// ParseTestStatus parses a user-supplied test status. Empty input means unknown.
func ParseTestStatus(s string) (TestStatus, error) {
	switch TestStatus(strings.ToLower(strings.TrimSpace(s))) {
	case "", TestUnknown:
		return TestUnknown, nil
	case TestPassed:
		return TestPassed, nil
	case TestFailed:
		return TestFailed, nil
	default:
		return "", fmt.Errorf("%w: %q (want passed, failed or unknown)", ErrInvalidTestStatus, s)
	}
}

// Valid reports whether s is one of the known test statuses.
func (s TestStatus) Valid() bool {
	switch s {
	case TestPassed, TestFailed, TestUnknown:
		return true
	default:
		return false
	}
}

// DiffStats is the added/removed line count relative to a base reference.
type DiffStats struct {
	Additions int `json:"additions"`
	Deletions int `json:"deletions"`
}

// AgentStatus is the persisted snapshot of one task's latest reported state.
//
// Optional fields are pointers without omitempty: absence is written as an
// explicit null so readers can tell "not provided" from a zero value.
type AgentStatus struct {
	TaskName       string     `json:"task_name"`
	WorktreePath   *string    `json:"worktree_path"`
	Branch         *string    `json:"branch"`
	CurrentWork    string     `json:"current_work"`
	TestStatus     TestStatus `json:"test_status"`
	IsBlocked      bool       `json:"is_blocked"`
	BlockedReason  *string    `json:"blocked_reason"`
	TodosCompleted *int       `json:"todos_completed"`
	TodosTotal     *int       `json:"todos_total"`
	DiffStats      *DiffStats `json:"diff_stats"`
	LastUpdate     time.Time  `json:"last_update"`
}

// SetTodos records todo progress. Both counts are always set together.
func (s *AgentStatus) SetTodos(completed, total int) {
	s.TodosCompleted = &completed
	s.TodosTotal = &total
}

// Todos returns the todo progress and whether it is present.
func (s *AgentStatus) Todos() (completed, total int, ok bool) {
	if s.TodosCompleted == nil || s.TodosTotal == nil {
		return 0, 0, false
	}
	return *s.TodosCompleted, *s.TodosTotal, true
}

// Reason returns the blocked reason, or "" when absent.
func (s *AgentStatus) Reason() string {
	if s.BlockedReason == nil {
		return ""
	}
	return *s.BlockedReason
}

// Validate checks the record against the invariants enforced before writing.
func (s *AgentStatus) Validate() error {
	if err := ValidateTaskName(s.TaskName); err != nil {
		return err
	}
	if strings.TrimSpace(s.CurrentWork) == "" {
		return ErrMissingDescription
	}
	if !s.TestStatus.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidTestStatus, s.TestStatus)
	}
	if (s.TodosCompleted == nil) != (s.TodosTotal == nil) {
		return fmt.Errorf("%w: completed and total must both be set or both be absent", ErrInvalidTodos)
	}
	if s.TodosCompleted != nil && (*s.TodosCompleted < 0 || *s.TodosTotal < 0) {
		return fmt.Errorf("%w: counts must not be negative", ErrInvalidTodos)
	}
	return nil
}

// ValidateTaskName rejects names that could escape the status directory.
func ValidateTaskName(name string) error {
	if !taskNamePattern.MatchString(name) {
		return fmt.Errorf("%w: %q (allowed: letters, digits, '-' and '_')", ErrInvalidTaskName, name)
	}
	return nil
}

// ParseTodos parses "completed/total" progress such as "2/3".
func ParseTodos(s string) (completed, total int, err error) {
	m := todosPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, 0, fmt.Errorf("%w: %q (want completed/total, e.g. 2/5)", ErrInvalidTodos, s)
	}
	completed, err = strconv.Atoi(m[1])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidTodos, s)
	}
	total, err = strconv.Atoi(m[2])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidTodos, s)
	}
	return completed, total, nil
}

// StringPtr returns a pointer to s, or nil when s is empty.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
