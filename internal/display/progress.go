// Package display provides terminal progress output for export runs.
//
// Once a folder's listing has loaded the child count is known, so the
// indicator can show folder-local [n/total] positions. Output uses raw
// ANSI codes and should only be wired up when stdout is a TTY.
package display

import (
	"fmt"
	"io"
)

// ProgressIndicator renders per-folder item progress with ANSI colors.
type ProgressIndicator struct {
	writer io.Writer
}

// NewProgressIndicator creates a progress indicator writing to w.
func NewProgressIndicator(w io.Writer) *ProgressIndicator {
	return &ProgressIndicator{writer: w}
}

// Step displays progress for one child within a folder: [n/total] folder (cyan)
func (p *ProgressIndicator) Step(folderName string, current, total int) {
	fmt.Fprintf(p.writer, "\x1b[36m  [%d/%d] %s\x1b[0m\n", current, total, folderName)
}

// Complete displays the end-of-run message with a green checkmark.
func (p *ProgressIndicator) Complete(boardsExported int) {
	fmt.Fprintf(p.writer, "\x1b[32m✓\x1b[0m Exported %d boards\n", boardsExported)
}
