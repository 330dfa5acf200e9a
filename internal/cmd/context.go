package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/groblegark/wtstatus/internal/style"
	"github.com/groblegark/wtstatus/internal/workspace"
)

var contextJSON bool

var contextCmd = &cobra.Command{
	Use:     "context",
	GroupID: GroupDiag,
	Short:   "Show how wt classifies the current directory",
	Long: `Prints whether the current directory is a worker (linked worktree), the
orchestrator (main checkout with worktrees), a plain checkout, or outside git,
along with the derived project root, branch and task name.`,
	Args: cobra.NoArgs,
	RunE: runContext,
}

func init() {
	contextCmd.Flags().BoolVar(&contextJSON, "json", false, "Output as JSON")
	rootCmd.AddCommand(contextCmd)
}

func runContext(cmd *cobra.Command, _ []string) error {
	wctx := workspace.DetectFromCwd()
	out := cmd.OutOrStdout()
	if contextJSON {
		return writeJSON(out, wctx)
	}

	fmt.Fprintf(out, "%s %s\n", style.Bold.Render("Type:"), style.Info.Render(string(wctx.Type)))
	rows := []struct{ label, value string }{
		{"Project root:", wctx.ProjectRoot},
		{"Worktree:", wctx.WorktreePath},
		{"Branch:", wctx.Branch},
		{"Task:", wctx.TaskName},
	}
	for _, r := range rows {
		v := r.value
		if v == "" {
			v = style.Dim.Render("(none)")
		}
		fmt.Fprintf(out, "%s %s\n", style.Bold.Render(r.label), v)
	}
	return nil
}
