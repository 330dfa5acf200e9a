// Package tasks reads task markdown files and relates them to branches and
// worktrees.
//
// A task file starts with a YAML frontmatter block:
//
//	---
//	name: m-implement-login
//	branch: feature/login
//	status: in-progress
//	created: 2025-01-15
//	---
//
// Files whose name contains TEMPLATE are ignored.
package tasks

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/groblegark/wtstatus/internal/constants"
)

// Task statuses used by the task files.
const (
	StatusPending    = "pending"
	StatusInProgress = "in-progress"
	StatusCompleted  = "completed"
	StatusBlocked    = "blocked"
	StatusUnknown    = "unknown"
)

// ErrNoTasksDir is returned when the tasks directory does not exist.
var ErrNoTasksDir = errors.New("tasks directory not found")

// Task is one task file.
type Task struct {
	File    string `json:"file"`
	Name    string `json:"name"`
	Status  string `json:"status"`
	Branch  string `json:"branch,omitempty"`
	Created string `json:"created,omitempty"`

	Path   string            `json:"-"`
	Fields map[string]string `json:"-"`
	Body   []byte            `json:"-"`
}

// Completed reports whether the task is done.
func (t Task) Completed() bool {
	return t.Status == StatusCompleted
}

// ParseFile reads a task file. Unlike LoadDir it requires frontmatter.
func ParseFile(path string) (*Task, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	fields, body, err := ParseFrontMatter(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	t := fromFields(path, fields)
	t.Body = body
	return &t, nil
}

// LoadDir reads every task file in dir, sorted by file name. Files without
// usable frontmatter are still listed, named after the file with status
// unknown.
func LoadDir(dir string) ([]Task, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNoTasksDir, dir)
	}
	if err != nil {
		return nil, err
	}

	var out []Task
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || filepath.Ext(name) != constants.ExtTask || strings.Contains(name, "TEMPLATE") {
			continue
		}
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		fields, body, err := ParseFrontMatter(data)
		if err != nil {
			fields = nil
		}
		t := fromFields(path, fields)
		t.Body = body
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].File < out[j].File })
	return out, nil
}

func fromFields(path string, fields map[string]string) Task {
	file := filepath.Base(path)
	t := Task{
		File:    file,
		Path:    path,
		Name:    fields["name"],
		Status:  fields["status"],
		Branch:  fields["branch"],
		Created: fields["created"],
		Fields:  fields,
	}
	if t.Name == "" {
		t.Name = strings.TrimSuffix(file, filepath.Ext(file))
	}
	if t.Status == "" {
		t.Status = StatusUnknown
	}
	return t
}

// ForBranch returns the tasks assigned to branch.
func ForBranch(all []Task, branch string) []Task {
	var out []Task
	for _, t := range all {
		if t.Branch == branch {
			out = append(out, t)
		}
	}
	return out
}
