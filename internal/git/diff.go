package git

import (
	"context"
	"log/slog"
	"time"

	"github.com/groblegark/wtstatus/internal/constants"
	"github.com/groblegark/wtstatus/internal/status"
)

// DefaultDiffTimeout bounds the total time spent collecting diff statistics.
const DefaultDiffTimeout = 5 * time.Second

// DiffSource produces diff statistics for a directory. Implementations never
// fail: nil means "no diff data".
type DiffSource interface {
	DiffStats(ctx context.Context, dir string) *status.DiffStats
}

// DiffCollector computes diff statistics with git against the first base ref
// that resolves.
type DiffCollector struct {
	runner   Runner
	baseRefs []string
	timeout  time.Duration
	log      *slog.Logger
}

// DiffOption configures a DiffCollector.
type DiffOption func(*DiffCollector)

// WithRunner sets the command runner.
func WithRunner(r Runner) DiffOption {
	return func(c *DiffCollector) { c.runner = r }
}

// WithBaseRefs sets the base refs tried in order.
func WithBaseRefs(refs []string) DiffOption {
	return func(c *DiffCollector) {
		if len(refs) > 0 {
			c.baseRefs = refs
		}
	}
}

// WithTimeout sets the overall timeout.
func WithTimeout(d time.Duration) DiffOption {
	return func(c *DiffCollector) { c.timeout = d }
}

// WithLogger sets the logger for absorbed failures.
func WithLogger(l *slog.Logger) DiffOption {
	return func(c *DiffCollector) { c.log = l }
}

// NewDiffCollector creates a DiffCollector.
func NewDiffCollector(opts ...DiffOption) *DiffCollector {
	c := &DiffCollector{
		runner:   ExecRunner{},
		baseRefs: constants.DefaultBaseRefs,
		timeout:  DefaultDiffTimeout,
		log:      slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// DiffStats implements DiffSource. Every failure (not a repository, git
// missing, no base ref) is logged and yields nil.
func (c *DiffCollector) DiffStats(ctx context.Context, dir string) *status.DiffStats {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	g := NewGitWithRunner(dir, c.runner)
	if !g.IsRepo(ctx) {
		c.log.Debug("diff stats unavailable", "dir", dir, "err", ErrNotRepo)
		return nil
	}

	base, ok := g.ResolveBase(ctx, c.baseRefs)
	if !ok {
		c.log.Debug("diff stats unavailable: no base ref", "dir", dir, "tried", c.baseRefs)
		return nil
	}

	// Compare against the fork point so upstream progress on base does not
	// show up as local deletions.
	ref := base
	if mb, err := g.MergeBase(ctx, base, "HEAD"); err == nil && mb != "" {
		ref = mb
	}

	additions, deletions, err := g.NumStat(ctx, ref)
	if err != nil {
		c.log.Debug("diff stats unavailable", "dir", dir, "base", base, "err", err)
		return nil
	}
	return &status.DiffStats{Additions: additions, Deletions: deletions}
}

// NoDiff is a DiffSource that never reports data.
type NoDiff struct{}

// DiffStats implements DiffSource.
func (NoDiff) DiffStats(context.Context, string) *status.DiffStats { return nil }
