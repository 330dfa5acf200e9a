// Package cmd implements the wt command tree.
package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/groblegark/wtstatus/internal/config"
	"github.com/groblegark/wtstatus/internal/logging"
	"github.com/groblegark/wtstatus/internal/style"
)

// Command groups.
const (
	GroupWorker       = "worker"
	GroupOrchestrator = "orchestrator"
	GroupWorktrees    = "worktrees"
	GroupDiag         = "diag"
)

var (
	logLevelFlag string

	// logger is rebuilt for every invocation in PersistentPreRunE.
	logger = logging.Discard()

	// now is replaced in tests.
	now = time.Now
)

var rootCmd = &cobra.Command{
	Use:   "wt",
	Short: "Coordinate agent status across git worktrees",
	Long: `wt lets agents working in isolated git worktrees report their progress,
and lets the orchestrator in the main checkout see every agent at a glance.

Workers run "wt report" from inside their worktree. The orchestrator runs
"wt show" for a snapshot or "wt monitor" for a live dashboard. Status records
live in <project root>/.claude/agent-status, one JSON file per task.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupLogging,
}

func init() {
	rootCmd.AddGroup(
		&cobra.Group{ID: GroupWorker, Title: "Worker Commands:"},
		&cobra.Group{ID: GroupOrchestrator, Title: "Orchestrator Commands:"},
		&cobra.Group{ID: GroupWorktrees, Title: "Worktree & Task Commands:"},
		&cobra.Group{ID: GroupDiag, Title: "Diagnostics:"},
	)
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Log level: debug, info, warn, error (env: WT_LOG_LEVEL)")
}

// Execute runs the command tree and returns the process exit code.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		var silent *SilentExitError
		if errors.As(err, &silent) {
			return silent.Code
		}
		fmt.Fprintf(os.Stderr, "%s %s %v\n", style.ErrorPrefix, style.Error.Render("Error:"), err)
		return 1
	}
	return 0
}

func setupLogging(cmd *cobra.Command, _ []string) error {
	level := logLevelFlag
	if level == "" {
		level = os.Getenv(config.EnvLogLevel)
	}
	if level == "" {
		level = logging.DefaultLevel
	}
	logger = newLogger(cmd, level)
	return nil
}

func newLogger(cmd *cobra.Command, level string) *slog.Logger {
	return logging.New(logging.Options{
		Level:     level,
		Writer:    cmd.ErrOrStderr(),
		Component: cmd.Name(),
	})
}

// requireSubcommand is the RunE of parent commands that only group others.
func requireSubcommand(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("requires a subcommand\n\nRun '%s --help' for available subcommands", cmd.CommandPath())
	}
	return fmt.Errorf("unknown subcommand %q for %q\n\nRun '%s --help' for available subcommands",
		args[0], cmd.CommandPath(), cmd.CommandPath())
}

// SilentExitError ends the process with Code without printing an error.
// Commands whose output already explains the outcome use it.
type SilentExitError struct {
	Code int
}

func (e *SilentExitError) Error() string {
	return fmt.Sprintf("exit %d", e.Code)
}

// NewSilentExit returns a SilentExitError for code.
func NewSilentExit(code int) error {
	return &SilentExitError{Code: code}
}
