// Package util provides common filesystem helpers.
package util

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"
)

// TempSuffix marks in-flight files written by AtomicWriteFile.
// Readers listing a directory must ignore names ending in it.
const TempSuffix = ".tmp"

// TempPath returns the temporary path used by the current process when
// writing path. The writer's PID is embedded so that independent processes
// writing into the same directory never share a temp file.
func TempPath(path string) string {
	return TempPathForPID(path, os.Getpid())
}

// TempPathForPID returns the temporary path a process with the given PID
// would use for path.
func TempPathForPID(path string, pid int) string {
	return path + "." + strconv.Itoa(pid) + TempSuffix
}

// IsTempName reports whether a directory entry name is an in-flight temp file.
func IsTempName(name string) bool {
	return strings.HasSuffix(name, TempSuffix)
}

// TempPID extracts the writer PID from a temp file name.
// Returns 0 when the name does not carry one.
func TempPID(name string) int {
	if !IsTempName(name) {
		return 0
	}
	trimmed := strings.TrimSuffix(name, TempSuffix)
	idx := strings.LastIndexByte(trimmed, '.')
	if idx < 0 {
		return 0
	}
	pid, err := strconv.Atoi(trimmed[idx+1:])
	if err != nil || pid <= 0 {
		return 0
	}
	return pid
}

// AtomicWriteJSON writes JSON data to a file atomically.
// It first writes to a temporary file, then renames it to the target path.
// This prevents data corruption if the process crashes during write.
func AtomicWriteJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	data = append(data, '\n')
	return AtomicWriteFile(path, data, 0644)
}

// AtomicWriteFile writes data to a file atomically.
//
// The parent directory is created if needed. Data goes to TempPath(path) in
// the same directory and is then renamed over path. On any failure the temp
// file is removed and path keeps whatever it held before.
//
// On Windows, concurrent writes to the same target are handled with retry logic
// to account for Windows file locking semantics.
func AtomicWriteFile(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	tmpPath := TempPath(path)
	tmpFile, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, perm)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	// Ensure cleanup on any failure path
	defer func() {
		if tmpPath != "" {
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		_ = tmpFile.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		_ = tmpFile.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := atomicRename(tmpPath, path); err != nil {
		return err
	}

	// Success - clear tmpPath so defer doesn't remove target
	tmpPath = ""
	return nil
}

// atomicRename renames src to dst atomically.
// On Windows, it includes retry logic for transient file locking errors.
func atomicRename(src, dst string) error {
	const maxRetries = 5
	var lastErr error

	for attempt := 0; attempt < maxRetries; attempt++ {
		if err := os.Rename(src, dst); err == nil {
			return nil
		} else {
			lastErr = err
		}

		// POSIX rename either works or fails definitively
		if runtime.GOOS != "windows" {
			break
		}

		time.Sleep(time.Duration(attempt+1) * 10 * time.Millisecond)
	}

	return fmt.Errorf("rename %s to %s: %w", src, dst, lastErr)
}
