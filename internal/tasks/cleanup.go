package tasks

import (
	"context"
	"fmt"
	"slices"

	"github.com/groblegark/wtstatus/internal/constants"
	"github.com/groblegark/wtstatus/internal/git"
	"github.com/groblegark/wtstatus/internal/workspace"
)

// CleanupChecks are the individual conditions of a cleanup check.
type CleanupChecks struct {
	AllTasksCompleted    bool `json:"all_tasks_completed"`
	NoUncommittedChanges bool `json:"no_uncommitted_changes"`
	BranchMerged         bool `json:"branch_merged"`
}

// CleanupTasks summarizes the tasks on the branch.
type CleanupTasks struct {
	Total          int    `json:"total"`
	Completed      int    `json:"completed"`
	Incomplete     int    `json:"incomplete"`
	IncompleteList []Task `json:"incomplete_list"`
}

// CleanupReport says whether a branch's worktree can be removed.
type CleanupReport struct {
	Branch             string        `json:"branch"`
	Folder             string        `json:"folder"`
	WorktreePath       string        `json:"worktree_path"`
	WorktreeExists     bool          `json:"worktree_exists"`
	SafeToCleanup      bool          `json:"safe_to_cleanup"`
	Checks             CleanupChecks `json:"checks"`
	Tasks              CleanupTasks  `json:"tasks"`
	UncommittedChanges []string      `json:"uncommitted_changes"`
	Blockers           []string      `json:"blockers"`
	Warnings           []string      `json:"warnings"`
}

// CheckCleanup decides whether branch's worktree is safe to remove: every
// task on the branch is completed and the worktree has no uncommitted
// changes. An unmerged branch or a missing worktree only produce warnings.
// Git failures are treated as "no changes" and "not merged".
func CheckCleanup(ctx context.Context, branch string, all []Task, layout Layout, runner git.Runner) CleanupReport {
	r := CleanupReport{
		Branch:             branch,
		Folder:             workspace.FolderFromBranch(branch),
		WorktreePath:       layout.WorktreePath(branch),
		WorktreeExists:     layout.WorktreeExists(branch),
		UncommittedChanges: []string{},
		Blockers:           []string{},
		Warnings:           []string{},
		Tasks:              CleanupTasks{IncompleteList: []Task{}},
	}

	for _, t := range ForBranch(all, branch) {
		r.Tasks.Total++
		if t.Completed() {
			r.Tasks.Completed++
			continue
		}
		r.Tasks.Incomplete++
		r.Tasks.IncompleteList = append(r.Tasks.IncompleteList, t)
	}

	if r.WorktreeExists {
		changes, err := git.NewGitWithRunner(layout.AbsWorktreePath(branch), runner).UncommittedChanges(ctx)
		if err == nil && len(changes) > 0 {
			r.UncommittedChanges = changes
		}
	}

	merged, err := git.NewGitWithRunner(layout.Root, runner).MergedBranches(ctx, constants.BranchMain)
	r.Checks = CleanupChecks{
		AllTasksCompleted:    r.Tasks.Incomplete == 0,
		NoUncommittedChanges: len(r.UncommittedChanges) == 0,
		BranchMerged:         err == nil && slices.Contains(merged, branch),
	}
	r.SafeToCleanup = r.Checks.AllTasksCompleted && r.Checks.NoUncommittedChanges

	if !r.Checks.AllTasksCompleted {
		r.Blockers = append(r.Blockers, fmt.Sprintf("%d task(s) not completed", r.Tasks.Incomplete))
	}
	if !r.Checks.NoUncommittedChanges {
		r.Blockers = append(r.Blockers, fmt.Sprintf("%d uncommitted change(s)", len(r.UncommittedChanges)))
	}
	if !r.Checks.BranchMerged {
		r.Warnings = append(r.Warnings, "Branch not merged to main")
	}
	if !r.WorktreeExists {
		r.Warnings = append(r.Warnings, "Worktree does not exist (nothing to cleanup)")
	}
	return r
}
