package logger

import (
	"fmt"
	"strings"
	"time"

	"github.com/FdezRomero/whimsical-exporter/internal/engine"
	"github.com/fatih/color"
)

// colorizeLevel colors a log level tag by severity.
func colorizeLevel(level string) string {
	switch strings.ToUpper(level) {
	case "TRACE":
		return color.New(color.FgHiBlack).Sprint(level)
	case "DEBUG":
		return color.New(color.FgCyan).Sprint(level)
	case "INFO":
		return color.New(color.FgBlue).Sprint(level)
	case "WARN":
		return color.New(color.FgYellow).Sprint(level)
	case "ERROR":
		return color.New(color.FgRed).Sprint(level)
	default:
		return level
	}
}

// formatSummary renders the end-of-run summary block. Counters that carry
// a problem signal (failures) are colored red when non-zero; the headline
// exported count is green.
func formatSummary(stats engine.Stats, colorOutput bool) string {
	ts := timestamp()

	exported := fmt.Sprintf("%d", stats.BoardsExported)
	failures := fmt.Sprintf("%d", stats.FormatFailures)
	if colorOutput {
		exported = color.New(color.FgGreen).Sprint(exported)
		if stats.FormatFailures > 0 {
			failures = color.New(color.FgRed).Sprint(failures)
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\n[%s] === Export Summary ===\n", ts)
	fmt.Fprintf(&b, "[%s] Boards exported:  %s\n", ts, exported)
	fmt.Fprintf(&b, "[%s] Boards skipped:   %d\n", ts, stats.BoardsSkipped)
	fmt.Fprintf(&b, "[%s] Empty boards:     %d\n", ts, stats.EmptyBoards)
	fmt.Fprintf(&b, "[%s] Folders visited:  %d\n", ts, stats.FoldersVisited)
	fmt.Fprintf(&b, "[%s] Format failures:  %s\n", ts, failures)
	fmt.Fprintf(&b, "[%s] Duration:         %s\n", ts, formatDuration(stats.Duration))
	return b.String()
}

// formatDuration renders a duration rounded to whole seconds, with
// sub-second runs shown with two decimals so short runs remain readable.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%.2fs", d.Seconds())
	}
	return fmt.Sprintf("%.0fs", d.Seconds())
}
