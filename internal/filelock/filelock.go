// Package filelock guards the export output root against concurrent runs.
//
// The engine's skip/resume policy reads the local file tree to decide what
// work remains; two runs interleaving over the same tree would each trust
// stale decisions. An exclusive advisory lock on a well-known file under
// the output root keeps runs serialized across processes.
package filelock

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// lockFileName is the advisory lock file kept under the output root.
const lockFileName = ".whimsical-exporter.lock"

// RunLock is an exclusive advisory lock over an export output root.
type RunLock struct {
	flock *flock.Flock
	path  string
}

// New creates a run lock for the given output root. The lock file is
// created under the root; the root itself is created if missing.
func New(outputRoot string) (*RunLock, error) {
	if err := os.MkdirAll(outputRoot, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output root %s: %w", outputRoot, err)
	}
	path := filepath.Join(outputRoot, lockFileName)
	return &RunLock{
		flock: flock.New(path),
		path:  path,
	}, nil
}

// TryAcquire attempts to take the exclusive lock without blocking.
// Returns false when another run already holds it.
func (rl *RunLock) TryAcquire() (bool, error) {
	acquired, err := rl.flock.TryLock()
	if err != nil {
		return false, fmt.Errorf("failed to try lock on %s: %w", rl.path, err)
	}
	return acquired, nil
}

// Release releases the lock. The lock file is left in place; flock
// semantics make a stale file harmless.
func (rl *RunLock) Release() error {
	if err := rl.flock.Unlock(); err != nil {
		return fmt.Errorf("failed to release lock on %s: %w", rl.path, err)
	}
	return nil
}

// Path returns the lock file path, for log messages.
func (rl *RunLock) Path() string {
	return rl.path
}
