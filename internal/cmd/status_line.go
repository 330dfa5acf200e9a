package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/groblegark/wtstatus/internal/statusline"
)

var (
	statusLineTask    string
	statusLineMaxWork int
)

var statusLineCmd = &cobra.Command{
	Use:     "status-line",
	GroupID: GroupOrchestrator,
	Short:   "Print a one-line agent summary for tmux or a shell prompt",
	Long: `Prints counts of blocked, active and stale agents on a single line. Inside
a worktree the worker's own task is shown first.

Examples:
  set -g status-right '#(cd #{pane_current_path} && wt status-line)'
  wt status-line --task login`,
	Args: cobra.NoArgs,
	RunE: runStatusLine,
}

func init() {
	statusLineCmd.Flags().StringVar(&statusLineTask, "task", "", "Task to show first (default: this worktree's task)")
	statusLineCmd.Flags().IntVar(&statusLineMaxWork, "max-work", statusline.DefaultMaxWork, "Truncate the work description to this many characters")
	rootCmd.AddCommand(statusLineCmd)
}

func runStatusLine(cmd *cobra.Command, _ []string) error {
	env, err := loadProject(cmd)
	if err != nil {
		return err
	}
	summary, err := env.summary()
	if err != nil {
		return fmt.Errorf("reading status: %w", err)
	}
	task := statusLineTask
	if task == "" {
		task = env.ctx.TaskName
	}
	fmt.Fprintln(cmd.OutOrStdout(), statusline.Format(summary, statusline.Options{
		Task:    task,
		MaxWork: statusLineMaxWork,
	}))
	return nil
}
