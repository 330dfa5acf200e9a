package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/groblegark/wtstatus/internal/report"
	"github.com/groblegark/wtstatus/internal/ui"
)

var (
	showJSON    bool
	showNoColor bool
)

var showCmd = &cobra.Command{
	Use:     "show [task]",
	GroupID: GroupOrchestrator,
	Short:   "Show reported agent status",
	Long: `Prints every agent's latest status, blocked agents first, then active,
then stale (no update within the stale threshold, 2h by default).

With a task name only that task is shown. --json prints the machine-readable
summary: counts per class plus the full records.

Examples:
  wt show
  wt show login
  wt show --json | jq '.agents[] | select(.class == "blocked")'`,
	Args: cobra.MaximumNArgs(1),
	RunE: runShow,
}

func init() {
	showCmd.Flags().BoolVar(&showJSON, "json", false, "Output as JSON")
	showCmd.Flags().BoolVar(&showNoColor, "no-color", false, "Disable colored output")
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	env, err := loadProject(cmd)
	if err != nil {
		return err
	}
	summary, err := env.summary()
	if err != nil {
		return fmt.Errorf("reading status: %w", err)
	}
	if len(args) == 1 {
		summary = summary.Filter(args[0])
	}

	out := cmd.OutOrStdout()
	if showJSON {
		return report.WriteJSON(out, summary)
	}
	if len(args) == 1 && summary.Total == 0 {
		fmt.Fprintf(out, "No status reported for task %q.\n", args[0])
		return nil
	}
	return report.RenderTable(out, summary, report.Options{
		Color:     ui.ShouldUseColor() && !showNoColor,
		Now:       now(),
		StatusDir: env.cfg.StatusPath(),
	})
}
