// Package fileutil provides file and path helpers shared by the pipeline.
package fileutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// TempDir creates the per-invocation scratch directory. Everything the
// pipeline writes (cleaned copies, intermediate HTML, staged files) lives
// under it; the cleanup function removes it unconditionally.
func TempDir() (dir string, cleanup func(), err error) {
	dir, err = os.MkdirTemp("", "repopdf-*")
	if err != nil {
		return "", nil, fmt.Errorf("creating temp directory: %w", err)
	}
	return dir, func() { _ = os.RemoveAll(dir) }, nil
}

// WriteFileIn writes content to name inside dir, creating parents as
// needed, and returns the full path.
func WriteFileIn(dir, name, content string) (string, error) {
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return "", fmt.Errorf("creating directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", name, err)
	}
	return path, nil
}

// FileExists returns true if the path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// IsURL returns true if the string looks like a remote URL.
func IsURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// MoveFile relocates a file, falling back to copy-and-remove when rename
// crosses filesystems.
func MoveFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o750); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("reading %s: %w", src, err)
	}
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", dst, err)
	}
	return os.Remove(src)
}
