package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/groblegark/wtstatus/internal/config"
	"github.com/groblegark/wtstatus/internal/constants"
	"github.com/groblegark/wtstatus/internal/style"
	"github.com/groblegark/wtstatus/internal/workspace"
)

var configInitForce bool

var configCmd = &cobra.Command{
	Use:     "config",
	GroupID: GroupDiag,
	Short:   "Inspect or create the project configuration",
	Long: `wt reads optional settings from <project root>/.claude/wt.toml.
Environment variables (WT_STATUS_DIR, WT_STALE_HOURS, WT_REFRESH_INTERVAL,
WT_LOG_LEVEL) override the file.`,
	RunE: requireSubcommand,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration as TOML",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a wt.toml with the default settings",
	Args:  cobra.NoArgs,
	RunE:  runConfigInit,
}

func init() {
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "Overwrite an existing wt.toml")
	configCmd.AddCommand(configShowCmd, configInitCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	env, err := loadProject(cmd)
	if err != nil {
		return err
	}
	data, err := env.cfg.Encode()
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	wctx, err := workspace.FindFromCwdOrError()
	if err != nil {
		return err
	}
	path := constants.ConfigPath(wctx.ProjectRoot)
	if _, err := os.Stat(path); err == nil && !configInitForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	if err := config.Default(wctx.ProjectRoot).Save(); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s Wrote %s\n", style.SuccessPrefix, path)
	return nil
}
