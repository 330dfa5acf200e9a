package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/groblegark/wtstatus/internal/constants"
	"github.com/groblegark/wtstatus/internal/tasks"
	"github.com/groblegark/wtstatus/internal/ui"
	"github.com/groblegark/wtstatus/internal/workspace"
)

var taskRender bool

var taskCmd = &cobra.Command{
	Use:     "task <file>",
	GroupID: GroupWorktrees,
	Short:   "Show a task file's frontmatter",
	Long: `Prints the task's frontmatter as JSON, adding the worktree folder and path
derived from its branch. --render shows the task body as formatted markdown
instead.

Examples:
  wt task sessions/tasks/m-implement-login.md
  wt task sessions/tasks/m-implement-login.md --render`,
	Args: cobra.ExactArgs(1),
	RunE: runTask,
}

func init() {
	taskCmd.Flags().BoolVar(&taskRender, "render", false, "Render the task body as markdown")
	rootCmd.AddCommand(taskCmd)
}

func runTask(cmd *cobra.Command, args []string) error {
	t, err := tasks.ParseFile(args[0])
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if taskRender {
		_, err := fmt.Fprint(out, ui.RenderMarkdown(string(t.Body)))
		return err
	}

	fields := make(map[string]string, len(t.Fields)+4)
	for k, v := range t.Fields {
		fields[k] = v
	}
	if t.Branch != "" {
		layout := tasks.Layout{TreesDir: constants.DirTrees}
		fields["folder"] = workspace.FolderFromBranch(t.Branch)
		fields["worktree_path"] = filepath.ToSlash(layout.WorktreePath(t.Branch))
	}
	fields["file"] = args[0]
	fields["filename"] = filepath.Base(args[0])
	return writeJSON(out, fields)
}
