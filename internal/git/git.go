// Package git wraps the git command line for the few queries the status
// tooling needs: diff statistics, worktree listing and cleanliness checks.
package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ErrNotRepo is returned when the directory is not inside a git work tree.
var ErrNotRepo = errors.New("not a git repository")

// Runner executes git with args in dir and returns stdout.
type Runner interface {
	Run(ctx context.Context, dir string, args ...string) (string, error)
}

// ExecRunner runs the real git binary.
type ExecRunner struct{}

// Run implements Runner.
func (ExecRunner) Run(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return "", fmt.Errorf("git %s: %w", strings.Join(args, " "), err)
		}
		return "", fmt.Errorf("git %s: %w: %s", strings.Join(args, " "), err, msg)
	}
	return stdout.String(), nil
}

// Git runs git commands in a fixed directory.
type Git struct {
	dir    string
	runner Runner
}

// NewGit creates a Git for dir using the real git binary.
func NewGit(dir string) *Git {
	return NewGitWithRunner(dir, ExecRunner{})
}

// NewGitWithRunner creates a Git for dir with a custom runner.
func NewGitWithRunner(dir string, r Runner) *Git {
	return &Git{dir: dir, runner: r}
}

// Dir returns the directory commands run in.
func (g *Git) Dir() string {
	return g.dir
}

func (g *Git) run(ctx context.Context, args ...string) (string, error) {
	return g.runner.Run(ctx, g.dir, args...)
}

// IsRepo reports whether the directory is inside a git work tree.
func (g *Git) IsRepo(ctx context.Context) bool {
	out, err := g.run(ctx, "rev-parse", "--is-inside-work-tree")
	return err == nil && strings.TrimSpace(out) == "true"
}

// CurrentBranch returns the checked-out branch, or "" when detached.
func (g *Git) CurrentBranch(ctx context.Context) (string, error) {
	out, err := g.run(ctx, "branch", "--show-current")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// RefExists reports whether ref resolves to a commit.
func (g *Git) RefExists(ctx context.Context, ref string) bool {
	_, err := g.run(ctx, "rev-parse", "--verify", "--quiet", ref+"^{commit}")
	return err == nil
}

// ResolveBase returns the first candidate ref that exists.
func (g *Git) ResolveBase(ctx context.Context, candidates []string) (string, bool) {
	for _, ref := range candidates {
		if g.RefExists(ctx, ref) {
			return ref, true
		}
	}
	return "", false
}

// MergeBase returns the best common ancestor of a and b.
func (g *Git) MergeBase(ctx context.Context, a, b string) (string, error) {
	out, err := g.run(ctx, "merge-base", a, b)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// NumStat returns the summed added/removed line counts of the working tree
// against ref. Binary files are ignored.
func (g *Git) NumStat(ctx context.Context, ref string) (additions, deletions int, err error) {
	out, err := g.run(ctx, "diff", "--numstat", ref)
	if err != nil {
		return 0, 0, err
	}
	return ParseNumStat(out)
}

// UncommittedChanges returns the porcelain status lines of the work tree.
func (g *Git) UncommittedChanges(ctx context.Context) ([]string, error) {
	out, err := g.run(ctx, "status", "--porcelain")
	if err != nil {
		return nil, err
	}
	var changes []string
	for _, line := range strings.Split(out, "\n") {
		if strings.TrimSpace(line) != "" {
			changes = append(changes, line)
		}
	}
	return changes, nil
}

// MergedBranches returns the branches merged into base.
func (g *Git) MergedBranches(ctx context.Context, base string) ([]string, error) {
	out, err := g.run(ctx, "branch", "--merged", base)
	if err != nil {
		return nil, err
	}
	var branches []string
	for _, line := range strings.Split(out, "\n") {
		name := strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "*+"))
		if name != "" {
			branches = append(branches, name)
		}
	}
	return branches, nil
}

// ListWorktrees parses `git worktree list --porcelain`.
func (g *Git) ListWorktrees(ctx context.Context) ([]Worktree, error) {
	out, err := g.run(ctx, "worktree", "list", "--porcelain")
	if err != nil {
		return nil, err
	}
	return ParseWorktreeList(out), nil
}
