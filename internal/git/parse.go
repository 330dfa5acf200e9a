package git

import (
	"fmt"
	"strconv"
	"strings"
)

// Worktree is one entry of `git worktree list --porcelain`.
type Worktree struct {
	Path     string `json:"path"`
	Head     string `json:"head,omitempty"`
	Branch   string `json:"branch,omitempty"`
	Bare     bool   `json:"bare,omitempty"`
	Detached bool   `json:"detached,omitempty"`
}

// ParseWorktreeList parses porcelain worktree output. Entries are separated
// by blank lines; unknown attributes are ignored.
func ParseWorktreeList(out string) []Worktree {
	var worktrees []Worktree
	var current *Worktree

	flush := func() {
		if current != nil {
			worktrees = append(worktrees, *current)
			current = nil
		}
	}

	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimRight(line, "\r")
		switch {
		case strings.HasPrefix(line, "worktree "):
			flush()
			current = &Worktree{Path: strings.TrimPrefix(line, "worktree ")}
		case current == nil:
			continue
		case strings.HasPrefix(line, "HEAD "):
			current.Head = strings.TrimPrefix(line, "HEAD ")
		case strings.HasPrefix(line, "branch "):
			current.Branch = strings.TrimPrefix(strings.TrimPrefix(line, "branch "), "refs/heads/")
		case line == "bare":
			current.Bare = true
		case line == "detached":
			current.Detached = true
		}
	}
	flush()
	return worktrees
}

// ParseNumStat sums `git diff --numstat` output. Lines for binary files
// ("-\t-\tpath") are skipped.
func ParseNumStat(out string) (additions, deletions int, err error) {
	for _, line := range strings.Split(out, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.SplitN(line, "\t", 3)
		if len(fields) < 3 {
			return 0, 0, fmt.Errorf("unexpected numstat line %q", line)
		}
		if fields[0] == "-" || fields[1] == "-" {
			continue
		}
		a, err := strconv.Atoi(fields[0])
		if err != nil {
			return 0, 0, fmt.Errorf("parsing additions in %q: %w", line, err)
		}
		d, err := strconv.Atoi(fields[1])
		if err != nil {
			return 0, 0, fmt.Errorf("parsing deletions in %q: %w", line, err)
		}
		additions += a
		deletions += d
	}
	return additions, deletions, nil
}
