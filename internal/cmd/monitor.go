package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/groblegark/wtstatus/internal/tui/dashboard"
	"github.com/groblegark/wtstatus/internal/ui"
)

var (
	monitorOnce     bool
	monitorInterval time.Duration
	monitorWatch    bool
	monitorNoColor  bool
)

var monitorCmd = &cobra.Command{
	Use:     "monitor",
	GroupID: GroupOrchestrator,
	Short:   "Live dashboard of all agents",
	Long: `Redraws the agent status table every refresh interval (2s by default)
until interrupted with q or Ctrl-C.

--watch additionally refreshes as soon as a status record changes. --once
renders a single pass and exits, which is also what happens when stdout is
not a terminal.

Examples:
  wt monitor
  wt monitor --interval 5s --watch
  wt monitor --once`,
	Args: cobra.NoArgs,
	RunE: runMonitor,
}

func init() {
	monitorCmd.Flags().BoolVar(&monitorOnce, "once", false, "Render once and exit")
	monitorCmd.Flags().DurationVar(&monitorInterval, "interval", 0, "Refresh interval (default from config, 2s)")
	monitorCmd.Flags().BoolVar(&monitorWatch, "watch", false, "Refresh immediately when a status record changes")
	monitorCmd.Flags().BoolVar(&monitorNoColor, "no-color", false, "Disable colored output")
	rootCmd.AddCommand(monitorCmd)
}

func runMonitor(cmd *cobra.Command, _ []string) error {
	env, err := loadProject(cmd)
	if err != nil {
		return err
	}

	if !env.ctx.IsOrchestrator() {
		logger.Info("no linked worktrees detected; showing whatever has been reported", "type", env.ctx.Type)
	}

	interval := env.cfg.RefreshInterval
	if monitorInterval > 0 {
		interval = monitorInterval
	}
	cfg := dashboard.Config{
		Source:     env.store(),
		Classifier: env.classifier(),
		Interval:   interval,
		StatusDir:  env.cfg.StatusPath(),
		Color:      ui.ShouldUseColor() && !monitorNoColor,
		Watch:      monitorWatch,
		Logger:     logger,
	}

	if monitorOnce || !ui.IsTerminal(os.Stdout) {
		if !monitorOnce {
			logger.Info("stdout is not a terminal, rendering once")
		}
		return dashboard.RenderOnce(cmd.OutOrStdout(), cfg)
	}

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()
	return dashboard.Run(ctx, cfg)
}
