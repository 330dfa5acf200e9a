// Package config loads the optional per-project wt configuration.
//
// Values come from defaults, then <root>/.claude/wt.toml, then WT_*
// environment variables, in increasing priority. Command-line flags are
// applied on top by the caller.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/groblegark/wtstatus/internal/constants"
	"github.com/groblegark/wtstatus/internal/util"
)

// Defaults.
const (
	DefaultStaleThresholdHours = 2
	DefaultRefreshInterval     = 2 * time.Second
	DefaultTempMaxAge          = 10 * time.Minute
)

// Environment variables.
const (
	EnvStatusDir       = "WT_STATUS_DIR"
	EnvStaleHours      = "WT_STALE_HOURS"
	EnvRefreshInterval = "WT_REFRESH_INTERVAL"
	EnvLogLevel        = "WT_LOG_LEVEL"
)

// Config holds project configuration. Relative directories are resolved
// against the project root.
type Config struct {
	// StatusDir holds one status record per task (env: WT_STATUS_DIR).
	StatusDir string `toml:"status_dir"`

	// StaleThresholdHours is the age after which an unblocked record is
	// stale (env: WT_STALE_HOURS).
	StaleThresholdHours float64 `toml:"stale_threshold_hours"`

	// RefreshInterval is the dashboard tick (env: WT_REFRESH_INTERVAL).
	RefreshInterval time.Duration `toml:"refresh_interval"`

	// TempMaxAge is how old an orphaned temp file must be before sweep
	// removes it.
	TempMaxAge time.Duration `toml:"temp_max_age"`

	// BaseRefs are tried in order as the diff base.
	BaseRefs []string `toml:"base_refs"`

	TreesDir string `toml:"trees_dir"`
	TasksDir string `toml:"tasks_dir"`

	// LogLevel is debug, info, warn or error (env: WT_LOG_LEVEL).
	LogLevel string `toml:"log_level,omitempty"`

	root string
}

// Default returns the built-in configuration for a project root.
func Default(root string) *Config {
	return &Config{
		StatusDir:           filepath.Join(constants.DirClaude, constants.DirAgentStatus),
		StaleThresholdHours: DefaultStaleThresholdHours,
		RefreshInterval:     DefaultRefreshInterval,
		TempMaxAge:          DefaultTempMaxAge,
		BaseRefs:            append([]string(nil), constants.DefaultBaseRefs...),
		TreesDir:            constants.DirTrees,
		TasksDir:            constants.DirTasks,
		root:                root,
	}
}

// Load reads the configuration for root. A missing file yields defaults; a
// malformed file or unknown key is an error. Environment overrides are
// applied last.
func Load(root string) (*Config, error) {
	cfg := Default(root)
	path := constants.ConfigPath(root)

	md, err := toml.DecodeFile(path, cfg)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	default:
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, 0, len(undecoded))
			for _, k := range undecoded {
				keys = append(keys, k.String())
			}
			sort.Strings(keys)
			return nil, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	c.StatusDir = envOr(EnvStatusDir, c.StatusDir)
	c.LogLevel = envOr(EnvLogLevel, c.LogLevel)

	if v := os.Getenv(EnvStaleHours); v != "" {
		h, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%s=%q: %w", EnvStaleHours, v, err)
		}
		c.StaleThresholdHours = h
	}
	if v := os.Getenv(EnvRefreshInterval); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s=%q: %w", EnvRefreshInterval, v, err)
		}
		c.RefreshInterval = d
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// maxStaleThresholdHours is the largest threshold representable as a
// time.Duration.
const maxStaleThresholdHours = float64(math.MaxInt64) / float64(time.Hour)

// Validate rejects values the tooling cannot operate with.
func (c *Config) Validate() error {
	if h := c.StaleThresholdHours; math.IsNaN(h) || h <= 0 || h > maxStaleThresholdHours {
		return fmt.Errorf("stale_threshold_hours must be positive and at most %.0f, got %v", maxStaleThresholdHours, h)
	}
	if c.RefreshInterval <= 0 {
		return fmt.Errorf("refresh_interval must be positive, got %v", c.RefreshInterval)
	}
	if c.TempMaxAge <= 0 {
		return fmt.Errorf("temp_max_age must be positive, got %v", c.TempMaxAge)
	}
	if strings.TrimSpace(c.StatusDir) == "" {
		return errors.New("status_dir must not be empty")
	}
	if len(c.BaseRefs) == 0 {
		return errors.New("base_refs must list at least one ref")
	}
	return nil
}

// Root returns the project root the configuration belongs to.
func (c *Config) Root() string {
	return c.root
}

// StaleThreshold returns StaleThresholdHours as a duration.
func (c *Config) StaleThreshold() time.Duration {
	return time.Duration(c.StaleThresholdHours * float64(time.Hour))
}

// StatusPath returns the absolute status directory.
func (c *Config) StatusPath() string { return c.resolve(c.StatusDir) }

// TreesPath returns the absolute worktree container directory.
func (c *Config) TreesPath() string { return c.resolve(c.TreesDir) }

// TasksPath returns the absolute task directory.
func (c *Config) TasksPath() string { return c.resolve(c.TasksDir) }

func (c *Config) resolve(dir string) string {
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(c.root, dir)
}

// Encode renders the configuration as TOML.
func (c *Config) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Save writes the configuration to <root>/.claude/wt.toml atomically.
func (c *Config) Save() error {
	data, err := c.Encode()
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return util.AtomicWriteFile(constants.ConfigPath(c.root), data, 0644)
}
