// Package writer puts assembled artifacts on disk. Writes are atomic: the
// content lands in a temporary file next to the target and is renamed over
// it, so a crashed run never leaves a half-written configuration behind.
package writer

import (
	"fmt"
	"os"
	"path/filepath"
)

// Banner opens every written artifact. Grid files are the source of
// truth; hand edits to the output are lost on the next run.
const Banner = "# This file is managed by haproxygen. Manual changes will be overwritten.\n"

// Write atomically writes one artifact, banner included, creating parent
// directories as needed.
func Write(path, content string, mode os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".haproxygen-*")
	if err != nil {
		return fmt.Errorf("creating temporary file in %s: %w", dir, err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) // no-op after a successful rename

	if _, err := tmp.WriteString(Banner + content); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", tmpPath, err)
	}
	if err := tmp.Chmod(mode); err != nil {
		tmp.Close()
		return fmt.Errorf("setting mode on %s: %w", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", tmpPath, err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("renaming %s to %s: %w", tmpPath, path, err)
	}
	return nil
}
