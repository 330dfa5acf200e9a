// Package workspace classifies the calling process as a worker or an
// orchestrator by inspecting local git metadata.
//
// A linked worktree has a .git *file* pointing at
// <root>/.git/worktrees/<name>; the primary checkout has a .git *directory*.
// The primary checkout is an orchestrator when <root>/.git/worktrees exists.
// Detection never fails: missing information is reported as empty fields.
package workspace

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/groblegark/wtstatus/internal/constants"
	"github.com/groblegark/wtstatus/internal/status"
)

// ErrNoProjectRoot is returned when the project root cannot be determined.
var ErrNoProjectRoot = errors.New("cannot determine project root (not inside a git checkout)")

// Type is the role of the calling process.
type Type string

const (
	TypeWorker       Type = "worker"       // Inside a linked worktree
	TypeOrchestrator Type = "orchestrator" // Primary checkout with worktrees
	TypeBareRepo     Type = "bare-repo"    // Primary checkout, no worktrees
	TypeUnknown      Type = "unknown"      // No git metadata found
)

// Context is the result of detection. Empty string fields mean the value could
// not be determined.
type Context struct {
	Type         Type   `json:"type"`
	ProjectRoot  string `json:"project_root,omitempty"`
	WorktreePath string `json:"worktree_path,omitempty"`
	Branch       string `json:"branch,omitempty"`
	TaskName     string `json:"task_name,omitempty"`
}

// IsWorker reports whether the process runs inside a linked worktree.
func (c Context) IsWorker() bool { return c.Type == TypeWorker }

// IsOrchestrator reports whether the process runs in the primary checkout
// while worktrees exist.
func (c Context) IsOrchestrator() bool { return c.Type == TypeOrchestrator }

// DetectFromCwd runs Detect on the current working directory.
func DetectFromCwd() Context {
	cwd, err := os.Getwd()
	if err != nil {
		return Context{Type: TypeUnknown}
	}
	return Detect(cwd)
}

// FindFromCwdOrError returns the detected context, or ErrNoProjectRoot when
// no project root could be derived.
func FindFromCwdOrError() (Context, error) {
	ctx := DetectFromCwd()
	if ctx.ProjectRoot == "" {
		return ctx, ErrNoProjectRoot
	}
	return ctx, nil
}

// Detect classifies dir. The nearest .git entry at or above dir decides the
// role.
func Detect(dir string) Context {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return Context{Type: TypeUnknown}
	}

	top, info := findGitEntry(abs)
	if top == "" {
		return Context{Type: TypeUnknown}
	}
	gitPath := filepath.Join(top, constants.DirGit)

	if !info.IsDir() {
		return detectWorktree(top, gitPath)
	}

	ctx := Context{
		Type:        TypeBareRepo,
		ProjectRoot: top,
		Branch:      readHeadBranch(gitPath),
	}
	if isDir(filepath.Join(gitPath, constants.DirWorktrees)) {
		ctx.Type = TypeOrchestrator
	}
	return ctx
}

// detectWorktree handles a .git file inside a linked worktree.
func detectWorktree(top, gitFile string) Context {
	ctx := Context{
		Type:         TypeWorker,
		WorktreePath: top,
	}

	adminDir := readGitdirPointer(gitFile)
	if adminDir != "" {
		if !filepath.IsAbs(adminDir) {
			adminDir = filepath.Join(top, adminDir)
		}
		adminDir = filepath.Clean(adminDir)
		ctx.ProjectRoot = rootFromAdminDir(adminDir)
		ctx.Branch = readHeadBranch(adminDir)
	}
	if ctx.Branch == "" {
		ctx.Branch = BranchFromFolder(filepath.Base(top))
	}
	ctx.TaskName = TaskNameFromBranch(ctx.Branch)
	return ctx
}

// findGitEntry walks up from dir looking for a .git file or directory.
func findGitEntry(dir string) (string, os.FileInfo) {
	for {
		info, err := os.Stat(filepath.Join(dir, constants.DirGit))
		if err == nil {
			return dir, info
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// readGitdirPointer parses the "gitdir: <path>" line of a worktree .git file.
func readGitdirPointer(gitFile string) string {
	data, err := os.ReadFile(gitFile)
	if err != nil {
		return ""
	}
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if rest, ok := strings.CutPrefix(line, "gitdir:"); ok {
			return strings.TrimSpace(rest)
		}
	}
	return ""
}

// rootFromAdminDir walks up past <root>/.git/worktrees/<name>.
func rootFromAdminDir(adminDir string) string {
	worktrees := filepath.Dir(adminDir)
	gitDir := filepath.Dir(worktrees)
	if filepath.Base(worktrees) != constants.DirWorktrees || filepath.Base(gitDir) != constants.DirGit {
		return ""
	}
	return filepath.Dir(gitDir)
}

// readHeadBranch returns the branch HEAD points to, or "" when detached or
// unreadable.
func readHeadBranch(gitDir string) string {
	data, err := os.ReadFile(filepath.Join(gitDir, "HEAD"))
	if err != nil {
		return ""
	}
	head := strings.TrimSpace(string(data))
	if ref, ok := strings.CutPrefix(head, "ref: refs/heads/"); ok {
		return ref
	}
	return ""
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// BranchFromFolder reverses the branch-to-folder encoding used for worktree
// directories ("feature/login" lives in "feature-login"). Only the hyphen
// after a conventional prefix is turned back into a slash, since hyphens in
// the rest of the name are indistinguishable from encoded slashes.
func BranchFromFolder(folder string) string {
	for _, prefix := range constants.BranchPrefixes {
		encoded := strings.TrimSuffix(prefix, "/") + "-"
		if rest, ok := strings.CutPrefix(folder, encoded); ok && rest != "" {
			return prefix + rest
		}
	}
	return folder
}

// FolderFromBranch converts a branch name into a worktree folder name.
func FolderFromBranch(branch string) string {
	return strings.NewReplacer("/", "-", "_", "-").Replace(branch)
}

// TaskNameFromBranch strips a conventional prefix from a branch name and
// returns a name usable as a task identifier, or "" if none can be derived.
func TaskNameFromBranch(branch string) string {
	name := branch
	for _, prefix := range constants.BranchPrefixes {
		if rest, ok := strings.CutPrefix(name, prefix); ok {
			name = rest
			break
		}
	}
	name = strings.ReplaceAll(name, "/", "-")
	if status.ValidateTaskName(name) != nil {
		return ""
	}
	return name
}
