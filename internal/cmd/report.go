package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/groblegark/wtstatus/internal/status"
	"github.com/groblegark/wtstatus/internal/style"
	"github.com/groblegark/wtstatus/internal/workspace"
)

var (
	reportTests   string
	reportTodos   string
	reportBlocked bool
	reportReason  string
	reportTask    string
	reportJSON    bool
)

var reportCmd = &cobra.Command{
	Use:     "report <what you are working on>",
	GroupID: GroupWorker,
	Short:   "Report this worker's current status",
	Long: `Writes this worktree's status record, replacing the previous one.

The task name is derived from the worktree's branch (feature/login -> login)
unless --task is given. Diff statistics against origin/main (or the first
base ref that exists) are collected automatically; failures to compute them
are ignored. Omitting --todos, --reason or --blocked on a later report clears
them: each report is a complete snapshot.

Examples:
  wt report "Implementing login form" --todos 2/5
  wt report "Tests green, polishing" --tests passed --todos 5/5
  wt report "Need API schema" --blocked --reason "waiting on backend"
  wt report "Spike" --task spike-auth`,
	Args: cobra.ArbitraryArgs,
	RunE: runReport,
}

func init() {
	reportCmd.Flags().StringVar(&reportTests, "tests", "", "Test status: passed, failed or unknown")
	reportCmd.Flags().StringVar(&reportTodos, "todos", "", "Todo progress as completed/total (e.g. 2/5)")
	reportCmd.Flags().BoolVar(&reportBlocked, "blocked", false, "Mark the task as blocked")
	reportCmd.Flags().StringVar(&reportReason, "reason", "", "Why the task is blocked (implies --blocked)")
	reportCmd.Flags().StringVar(&reportTask, "task", "", "Task name override (default: derived from branch)")
	reportCmd.Flags().BoolVar(&reportJSON, "json", false, "Print the written record as JSON")
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	env, err := loadProject(cmd)
	if err != nil {
		return err
	}

	rec, err := buildRecord(env.ctx, args)
	if err != nil {
		return err
	}

	dir := env.ctx.WorktreePath
	if !env.ctx.IsWorker() {
		logger.Info("reporting from outside a worktree", "type", env.ctx.Type, "task", rec.TaskName)
		if dir, err = os.Getwd(); err != nil {
			return err
		}
	}
	rec.DiffStats = env.diffSource().DiffStats(cmd.Context(), dir)

	store := env.store()
	if err := store.Write(rec); err != nil {
		return fmt.Errorf("writing status for %s: %w", rec.TaskName, err)
	}

	if n, err := store.Cleanup(env.cfg.TempMaxAge); err != nil {
		logger.Warn("temp sweep failed", "dir", store.Dir(), "err", err)
	} else if n > 0 {
		logger.Info("removed orphaned temp files", "dir", store.Dir(), "count", n)
	}

	out := cmd.OutOrStdout()
	if reportJSON {
		return writeJSON(out, rec)
	}
	msg := fmt.Sprintf("%s Reported status for %s", style.SuccessPrefix, style.Bold.Render(rec.TaskName))
	if rec.IsBlocked {
		msg += " " + style.Error.Render("(blocked)")
	}
	fmt.Fprintln(out, msg)
	return nil
}

// buildRecord validates the flags and arguments into a record. Nothing is
// written when it fails.
func buildRecord(wctx workspace.Context, args []string) (*status.AgentStatus, error) {
	work := strings.TrimSpace(strings.Join(args, " "))
	if work == "" {
		return nil, status.ErrMissingDescription
	}

	task := reportTask
	if task == "" {
		task = wctx.TaskName
	}
	if task == "" {
		if wctx.Branch == "" {
			return nil, fmt.Errorf("%w: no branch to derive one from; pass --task", status.ErrInvalidTaskName)
		}
		return nil, fmt.Errorf("%w: cannot derive one from branch %q; pass --task", status.ErrInvalidTaskName, wctx.Branch)
	}
	if err := status.ValidateTaskName(task); err != nil {
		return nil, err
	}

	tests, err := status.ParseTestStatus(reportTests)
	if err != nil {
		return nil, err
	}

	rec := &status.AgentStatus{
		TaskName:    task,
		CurrentWork: work,
		TestStatus:  tests,
		IsBlocked:   reportBlocked || reportReason != "",
	}
	if reportTodos != "" {
		completed, total, err := status.ParseTodos(reportTodos)
		if err != nil {
			return nil, err
		}
		rec.SetTodos(completed, total)
	}
	if rec.IsBlocked && reportReason != "" {
		rec.BlockedReason = status.StringPtr(reportReason)
	}
	if wctx.WorktreePath != "" {
		rec.WorktreePath = status.StringPtr(wctx.WorktreePath)
	}
	if wctx.Branch != "" {
		rec.Branch = status.StringPtr(wctx.Branch)
	}
	return rec, nil
}
