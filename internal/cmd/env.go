package cmd

import (
	"encoding/json"
	"io"

	"github.com/spf13/cobra"

	"github.com/groblegark/wtstatus/internal/config"
	"github.com/groblegark/wtstatus/internal/git"
	"github.com/groblegark/wtstatus/internal/monitoring"
	"github.com/groblegark/wtstatus/internal/status"
	"github.com/groblegark/wtstatus/internal/tasks"
	"github.com/groblegark/wtstatus/internal/workspace"
)

// projectEnv is everything a command needs about the current project.
type projectEnv struct {
	ctx workspace.Context
	cfg *config.Config
}

// loadProject detects the workspace from the working directory and loads
// its configuration. It fails when no project root can be determined.
func loadProject(cmd *cobra.Command) (*projectEnv, error) {
	wctx, err := workspace.FindFromCwdOrError()
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(wctx.ProjectRoot)
	if err != nil {
		return nil, err
	}
	if logLevelFlag == "" && cfg.LogLevel != "" {
		logger = newLogger(cmd, cfg.LogLevel)
	}
	logger.Debug("project detected",
		"type", wctx.Type, "root", wctx.ProjectRoot, "branch", wctx.Branch, "task", wctx.TaskName)
	return &projectEnv{ctx: wctx, cfg: cfg}, nil
}

func (e *projectEnv) store() *status.Store {
	return status.NewStore(e.cfg.StatusPath(), status.WithClock(now), status.WithLogger(logger))
}

func (e *projectEnv) classifier() *monitoring.Classifier {
	return monitoring.NewClassifier(
		monitoring.WithStaleThreshold(e.cfg.StaleThreshold()),
		monitoring.WithClock(now),
	)
}

func (e *projectEnv) diffSource() git.DiffSource {
	return git.NewDiffCollector(git.WithBaseRefs(e.cfg.BaseRefs), git.WithLogger(logger))
}

func (e *projectEnv) layout() tasks.Layout {
	return tasks.Layout{Root: e.cfg.Root(), TreesDir: e.cfg.TreesDir}
}

// summary reads and classifies every record.
func (e *projectEnv) summary() (monitoring.Summary, error) {
	records, err := e.store().ReadAll()
	if err != nil {
		return monitoring.Summary{}, err
	}
	return e.classifier().Summarize(records), nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
