package cmd

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/groblegark/wtstatus/internal/style"
	"github.com/groblegark/wtstatus/internal/tasks"
)

var tasksJSON bool

var tasksCmd = &cobra.Command{
	Use:     "tasks",
	GroupID: GroupWorktrees,
	Short:   "List task files grouped by branch",
	Long: `Reads the task files (sessions/tasks/*.md by default) and groups them by
the branch named in their frontmatter, with per-status counts and whether
the branch's worktree exists. Files with TEMPLATE in their name are skipped.`,
	Args: cobra.NoArgs,
	RunE: runTasks,
}

func init() {
	tasksCmd.Flags().BoolVar(&tasksJSON, "json", false, "Output as JSON")
	rootCmd.AddCommand(tasksCmd)
}

func runTasks(cmd *cobra.Command, _ []string) error {
	env, err := loadProject(cmd)
	if err != nil {
		return err
	}
	all, err := tasks.LoadDir(env.cfg.TasksPath())
	if err != nil {
		return err
	}
	g := tasks.GroupByBranch(all, env.layout())
	if tasksJSON {
		return writeJSON(cmd.OutOrStdout(), g)
	}
	printGrouping(cmd.OutOrStdout(), g)
	return nil
}

func printGrouping(w io.Writer, g tasks.Grouping) {
	branches := make([]string, 0, len(g.Branches))
	for b := range g.Branches {
		branches = append(branches, b)
	}
	sort.Strings(branches)

	for _, b := range branches {
		bt := g.Branches[b]
		wt := style.Dim.Render("no worktree")
		if bt.WorktreeExists {
			wt = style.Success.Render(bt.WorktreePath)
		}
		fmt.Fprintf(w, "%s  %s\n", style.Bold.Render(b), wt)
		fmt.Fprintf(w, "  %d pending, %d in-progress, %d completed, %d blocked\n",
			bt.Statuses.Pending, bt.Statuses.InProgress, bt.Statuses.Completed, bt.Statuses.Blocked)
		for _, t := range bt.Tasks {
			fmt.Fprintf(w, "  - %s %s\n", t.Name, style.Dim.Render("["+t.Status+"]"))
		}
	}
	if len(g.TasksWithoutBranch) > 0 {
		fmt.Fprintf(w, "%s\n", style.Warning.Render("Tasks without a branch"))
		for _, t := range g.TasksWithoutBranch {
			fmt.Fprintf(w, "  - %s %s\n", t.Name, style.Dim.Render("["+t.Status+"]"))
		}
	}
	fmt.Fprintf(w, "\n%d task(s) on %d branch(es), %d without a branch\n",
		g.Summary.TotalTasks, g.Summary.TotalBranches, g.Summary.TasksWithoutBranch)
}
