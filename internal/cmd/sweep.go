package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/groblegark/wtstatus/internal/style"
)

var sweepMaxAge time.Duration

var sweepCmd = &cobra.Command{
	Use:     "sweep",
	GroupID: GroupDiag,
	Short:   "Remove temp files left behind by crashed writers",
	Long: `Deletes temporary status files older than --max-age (default from
config, 10m). A writer holds its temp file for milliseconds, so anything
older is an orphan whatever its embedded PID.
Reads never see temp files, so this only bounds disk usage.`,
	Args: cobra.NoArgs,
	RunE: runSweep,
}

func init() {
	sweepCmd.Flags().DurationVar(&sweepMaxAge, "max-age", 0, "Minimum age of temp files to remove")
	rootCmd.AddCommand(sweepCmd)
}

func runSweep(cmd *cobra.Command, _ []string) error {
	env, err := loadProject(cmd)
	if err != nil {
		return err
	}
	maxAge := env.cfg.TempMaxAge
	if sweepMaxAge > 0 {
		maxAge = sweepMaxAge
	}
	store := env.store()
	n, err := store.Cleanup(maxAge)
	if err != nil {
		return fmt.Errorf("sweeping %s: %w", store.Dir(), err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s Removed %d temp file(s) from %s\n", style.SuccessPrefix, n, store.Dir())
	return nil
}
