package tasks

import (
	"os"
	"path/filepath"

	"github.com/groblegark/wtstatus/internal/workspace"
)

// Layout locates branch worktrees under a project root.
type Layout struct {
	Root     string
	TreesDir string
}

// WorktreePath returns the conventional worktree path for branch as shown to
// users: relative to the root unless TreesDir is absolute.
func (l Layout) WorktreePath(branch string) string {
	return filepath.Join(l.TreesDir, workspace.FolderFromBranch(branch))
}

// AbsWorktreePath returns the absolute worktree path for branch.
func (l Layout) AbsWorktreePath(branch string) string {
	p := l.WorktreePath(branch)
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(l.Root, p)
}

// WorktreeExists reports whether the conventional worktree for branch exists.
func (l Layout) WorktreeExists(branch string) bool {
	info, err := os.Stat(l.AbsWorktreePath(branch))
	return err == nil && info.IsDir()
}
