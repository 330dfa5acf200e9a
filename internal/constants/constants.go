// Package constants defines directory layout and naming conventions shared
// across the worktree status tooling.
package constants

import "path/filepath"

// Directory names.
const (
	// DirGit is the version-control metadata pointer at the top of a checkout.
	// It is a directory in the primary checkout and a file in a linked worktree.
	DirGit = ".git"

	// DirWorktrees is the administration directory inside DirGit that holds
	// one entry per linked worktree.
	DirWorktrees = "worktrees"

	// DirClaude holds per-project tooling state.
	DirClaude = ".claude"

	// DirAgentStatus holds one status record per task, relative to DirClaude.
	DirAgentStatus = "agent-status"

	// DirTrees is where isolated worktrees are created by convention.
	DirTrees = ".trees"

	// DirTasks is where task markdown files live by convention.
	DirTasks = "sessions/tasks"
)

// File names and extensions.
const (
	// FileConfig is the optional project configuration, relative to DirClaude.
	FileConfig = "wt.toml"

	// ExtRecord is the extension of a final status record file.
	ExtRecord = ".json"

	// ExtTask is the extension of task files.
	ExtTask = ".md"
)

// Branch naming.
const (
	BranchMain   = "main"
	BranchMaster = "master"
)

// BranchPrefixes are the conventional branch prefixes stripped when deriving
// a task name from a branch name.
var BranchPrefixes = []string{"feature/", "fix/", "hotfix/", "release/", "chore/"}

// DefaultBaseRefs are tried in order when computing diff statistics.
var DefaultBaseRefs = []string{"origin/main", "origin/master", "main", "master"}

// StatusDirPath returns the default status directory for a project root.
func StatusDirPath(projectRoot string) string {
	return filepath.Join(projectRoot, DirClaude, DirAgentStatus)
}

// ConfigPath returns the configuration file path for a project root.
func ConfigPath(projectRoot string) string {
	return filepath.Join(projectRoot, DirClaude, FileConfig)
}

// TreesPath returns the conventional worktree container for a project root.
func TreesPath(projectRoot string) string {
	return filepath.Join(projectRoot, DirTrees)
}

// TasksPath returns the conventional task directory for a project root.
func TasksPath(projectRoot string) string {
	return filepath.Join(projectRoot, DirTasks)
}
