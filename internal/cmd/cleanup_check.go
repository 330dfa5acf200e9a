package cmd

import (
	"github.com/spf13/cobra"

	"github.com/groblegark/wtstatus/internal/git"
	"github.com/groblegark/wtstatus/internal/tasks"
)

var cleanupCheckCmd = &cobra.Command{
	Use:     "cleanup-check <branch>",
	GroupID: GroupWorktrees,
	Short:   "Check whether a branch's worktree can be removed",
	Long: `Prints a JSON report and exits 0 when the worktree is safe to remove,
1 otherwise.

Safe means every task on the branch is completed and the worktree has no
uncommitted changes. An unmerged branch or a missing worktree are reported
as warnings only.

Examples:
  wt cleanup-check feature/login && git worktree remove .trees/feature-login`,
	Args: cobra.ExactArgs(1),
	RunE: runCleanupCheck,
}

func init() {
	rootCmd.AddCommand(cleanupCheckCmd)
}

func runCleanupCheck(cmd *cobra.Command, args []string) error {
	env, err := loadProject(cmd)
	if err != nil {
		return err
	}
	all, err := loadTasksOptional(env.cfg.TasksPath())
	if err != nil {
		return err
	}

	r := tasks.CheckCleanup(cmd.Context(), args[0], all, env.layout(), git.ExecRunner{})
	if err := writeJSON(cmd.OutOrStdout(), r); err != nil {
		return err
	}
	if !r.SafeToCleanup {
		return NewSilentExit(1)
	}
	return nil
}
