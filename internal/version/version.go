// Package version reports the build version of the wt binary.
package version

import (
	"fmt"
	"runtime/debug"
)

// Set via ldflags at build time.
var (
	Version = "dev"
	Commit  = ""
)

// SetCommit overrides the embedded commit hash.
func SetCommit(commit string) {
	Commit = commit
}

// ShortCommit truncates a commit hash to 12 characters.
func ShortCommit(hash string) string {
	if len(hash) > 12 {
		return hash[:12]
	}
	return hash
}

// resolveCommitHash prefers the ldflags value and falls back to the VCS
// revision recorded by the Go toolchain.
func resolveCommitHash() string {
	if Commit != "" {
		return Commit
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	for _, s := range info.Settings {
		if s.Key == "vcs.revision" {
			return s.Value
		}
	}
	return ""
}

// String returns "wt <version> (<commit>)", omitting the commit when unknown.
func String() string {
	if c := ShortCommit(resolveCommitHash()); c != "" {
		return fmt.Sprintf("wt %s (%s)", Version, c)
	}
	return "wt " + Version
}
