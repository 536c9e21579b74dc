// Package fileutil provides the local file store operations the export
// engine relies on: idempotent directory creation, existence checks, and
// crash-safe whole-file writes.
//
// Every write is a create of a complete file, never a partial update; an
// existing file of the expected name is treated as complete and is never
// re-validated or overwritten by the engine.
package fileutil

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnsureDir creates the directory and any missing parents. A pre-existing
// directory is not an error.
func EnsureDir(path string) error {
	if err := os.MkdirAll(path, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", path, err)
	}
	return nil
}

// Exists reports whether a file (not a directory) exists at path.
func Exists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// DirExists reports whether a directory exists at path.
func DirExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// WriteFile writes data to path atomically using a temp-file-and-rename
// strategy, so readers (and a crashed run's successor) never see a partial
// file.
//
// The process:
//  1. Create a temporary file in the same directory as the target
//  2. Write and sync the content
//  3. Rename the temporary file onto the target path (atomic on the same
//     filesystem)
func WriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := EnsureDir(dir); err != nil {
		return err
	}

	tempFile, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tempPath := tempFile.Name()

	// Clean up the temp file on any failure path.
	defer func() {
		if tempFile != nil {
			tempFile.Close()
			os.Remove(tempPath)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tempFile.Sync(); err != nil {
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Chmod(tempPath, 0644); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("failed to rename temp file to %s: %w", path, err)
	}

	// Rename succeeded; nothing left to clean up.
	tempFile = nil

	return nil
}
