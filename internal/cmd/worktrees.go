package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/groblegark/wtstatus/internal/git"
	"github.com/groblegark/wtstatus/internal/monitoring"
	"github.com/groblegark/wtstatus/internal/style"
	"github.com/groblegark/wtstatus/internal/tasks"
)

var worktreesJSON bool

var worktreesCmd = &cobra.Command{
	Use:     "worktrees",
	GroupID: GroupWorktrees,
	Short:   "List worktrees with their tasks and agent status",
	Long: `Joins "git worktree list" with the task files (sessions/tasks/*.md) and
the reported agent status. Branches that have tasks but no worktree are
listed with a suggested worktree path.`,
	Args: cobra.NoArgs,
	RunE: runWorktrees,
}

func init() {
	worktreesCmd.Flags().BoolVar(&worktreesJSON, "json", false, "Output as JSON")
	rootCmd.AddCommand(worktreesCmd)
}

func runWorktrees(cmd *cobra.Command, _ []string) error {
	env, err := loadProject(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	g := git.NewGit(env.cfg.Root())

	worktrees, err := g.ListWorktrees(ctx)
	if err != nil {
		return fmt.Errorf("listing worktrees: %w", err)
	}
	current, err := g.CurrentBranch(ctx)
	if err != nil {
		logger.Debug("current branch unavailable", "err", err)
	}

	all, err := loadTasksOptional(env.cfg.TasksPath())
	if err != nil {
		return err
	}
	summary, err := env.summary()
	if err != nil {
		return fmt.Errorf("reading status: %w", err)
	}

	o := tasks.BuildOverview(current, worktrees, all, summary, env.layout())
	if worktreesJSON {
		return writeJSON(cmd.OutOrStdout(), o)
	}
	printOverview(cmd.OutOrStdout(), o)
	return nil
}

// loadTasksOptional loads task files, treating a missing directory as empty.
func loadTasksOptional(dir string) ([]tasks.Task, error) {
	all, err := tasks.LoadDir(dir)
	if errors.Is(err, tasks.ErrNoTasksDir) {
		logger.Debug("no tasks directory", "dir", dir)
		return nil, nil
	}
	return all, err
}

func printOverview(w io.Writer, o tasks.Overview) {
	fmt.Fprintf(w, "%s (%d)\n", style.Bold.Render("Worktrees"), o.Summary.TotalWorktrees)
	for _, wt := range o.Worktrees {
		branch := wt.Branch
		if branch == "" {
			branch = style.Dim.Render("(detached)")
		}
		marker := " "
		if wt.IsCurrent {
			marker = style.Success.Render("*")
		}
		fmt.Fprintf(w, "%s %s  %s  %s\n", marker, branch, style.Dim.Render(wt.Head), wt.Path)

		if wt.Agent != nil {
			flag := " "
			if wt.Agent.Class.NeedsAttention() {
				flag = style.WarningPrefix
			}
			fmt.Fprintf(w, "  %s agent: %s  %s\n", flag, classLabel(wt.Agent.Class), wt.Agent.CurrentWork)
		}
		for _, t := range wt.Tasks {
			fmt.Fprintf(w, "    task:  %s %s\n", t.Name, style.Dim.Render("["+t.Status+"]"))
		}
	}

	if len(o.BranchesWithoutWorktree) > 0 {
		fmt.Fprintf(w, "\n%s\n", style.Bold.Render("Branches with tasks but no worktree"))
		for _, m := range o.BranchesWithoutWorktree {
			fmt.Fprintf(w, "  %s  %d task(s)  %s\n", m.Branch, m.TaskCount,
				style.Dim.Render("git worktree add "+m.SuggestedPath+" "+m.Branch))
		}
	}
}

func classLabel(c monitoring.Class) string {
	switch c {
	case monitoring.ClassBlocked:
		return style.Error.Render(string(c))
	case monitoring.ClassStale:
		return style.Dim.Render(string(c))
	default:
		return style.Success.Render(string(c))
	}
}
