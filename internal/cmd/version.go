package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/groblegark/wtstatus/internal/version"
)

var versionCmd = &cobra.Command{
	Use:     "version",
	GroupID: GroupDiag,
	Short:   "Print the wt version",
	Args:    cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version.String())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
