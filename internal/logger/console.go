// Package logger provides logging implementations for export runs.
//
// The logger package offers structured logging of export progress at the
// item and summary levels. Implementations are thread-safe and support
// various output destinations (console, file). All of them satisfy
// engine.Logger.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/FdezRomero/whimsical-exporter/internal/engine"
	"github.com/fatih/color"
)

// Log level constants for filtering
const (
	levelTrace int = 0
	levelDebug int = 1
	levelInfo  int = 2
	levelWarn  int = 3
	levelError int = 4
)

// ConsoleLogger logs export progress to a writer with timestamps and thread
// safety. All output is prefixed with [HH:MM:SS] timestamps. It supports
// log level filtering, and color output is automatically enabled for
// terminal output (os.Stdout/os.Stderr).
type ConsoleLogger struct {
	writer      io.Writer
	logLevel    string
	mutex       sync.Mutex
	colorOutput bool
}

// NewConsoleLogger creates a ConsoleLogger that writes to the provided
// io.Writer. If writer is nil, messages are silently discarded.
// Valid levels: trace, debug, info, warn, error (case-insensitive);
// empty or invalid levels default to "info".
func NewConsoleLogger(writer io.Writer, logLevel string) *ConsoleLogger {
	return &ConsoleLogger{
		writer:      writer,
		logLevel:    normalizeLogLevel(logLevel),
		mutex:       sync.Mutex{},
		colorOutput: isTerminal(writer),
	}
}

// isTerminal checks if the writer is a terminal that supports colors.
// Returns true for os.Stdout and os.Stderr when they are TTYs.
func isTerminal(w io.Writer) bool {
	if w == nil {
		return false
	}

	if w == os.Stdout || w == os.Stderr {
		// The color library's TTY detection also honors NO_COLOR.
		return !color.NoColor
	}

	return false
}

// normalizeLogLevel converts a log level string to lowercase and validates
// it. Returns "info" as default for empty or invalid levels.
func normalizeLogLevel(level string) string {
	normalized := strings.ToLower(strings.TrimSpace(level))

	validLevels := map[string]bool{
		"trace": true,
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if validLevels[normalized] {
		return normalized
	}

	return "info"
}

// shouldLog checks if a message at the given level should be logged.
func (cl *ConsoleLogger) shouldLog(messageLevel string) bool {
	return logLevelToInt(messageLevel) >= logLevelToInt(cl.logLevel)
}

// logLevelToInt converts a log level string to its numeric value.
func logLevelToInt(level string) int {
	switch level {
	case "trace":
		return levelTrace
	case "debug":
		return levelDebug
	case "info":
		return levelInfo
	case "warn":
		return levelWarn
	case "error":
		return levelError
	default:
		return levelInfo
	}
}

// timestamp returns the current wall-clock time formatted for log prefixes.
func timestamp() string {
	return time.Now().Format("15:04:05")
}

// LogTrace logs a trace-level message (most verbose).
func (cl *ConsoleLogger) LogTrace(message string) {
	cl.logWithLevel("TRACE", message)
}

// LogDebug logs a debug-level message.
func (cl *ConsoleLogger) LogDebug(message string) {
	cl.logWithLevel("DEBUG", message)
}

// LogInfo logs an info-level message.
func (cl *ConsoleLogger) LogInfo(message string) {
	cl.logWithLevel("INFO", message)
}

// LogWarn logs a warning-level message.
func (cl *ConsoleLogger) LogWarn(message string) {
	cl.logWithLevel("WARN", message)
}

// LogError logs an error-level message.
func (cl *ConsoleLogger) LogError(message string) {
	cl.logWithLevel("ERROR", message)
}

// logWithLevel logs a message at the specified level if filtering allows it.
// Format: "[HH:MM:SS] [LEVEL] <message>"
func (cl *ConsoleLogger) logWithLevel(level string, message string) {
	if cl.writer == nil {
		return
	}

	if !cl.shouldLog(strings.ToLower(level)) {
		return
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	ts := timestamp()
	var formatted string

	if cl.colorOutput {
		formatted = fmt.Sprintf("[%s] [%s] %s\n", ts, colorizeLevel(level), message)
	} else {
		formatted = fmt.Sprintf("[%s] [%s] %s\n", ts, level, message)
	}

	cl.writer.Write([]byte(formatted))
}

// LogFolderStart logs entry into a folder at INFO level, after its listing
// has loaded and the child count is known.
// Format: "[HH:MM:SS] Entering <name>: <n> items"
func (cl *ConsoleLogger) LogFolderStart(name string, childCount int) {
	if cl.writer == nil || !cl.shouldLog("info") {
		return
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	ts := timestamp()
	itemLabel := "items"
	if childCount == 1 {
		itemLabel = "item"
	}

	var message string
	if cl.colorOutput {
		folderName := color.New(color.Bold).Sprint(name)
		message = fmt.Sprintf("[%s] Entering %s: %d %s\n", ts, folderName, childCount, itemLabel)
	} else {
		message = fmt.Sprintf("[%s] Entering %s: %d %s\n", ts, name, childCount, itemLabel)
	}

	cl.writer.Write([]byte(message))
}

// LogFormatExported logs a downloaded format file at INFO level.
// Format: "[HH:MM:SS] <name>.<format>: downloaded"
func (cl *ConsoleLogger) LogFormatExported(name string, format string) {
	cl.logItemStatus(name, format, "downloaded", color.FgGreen)
}

// LogFormatSkipped logs a format whose file already exists at INFO level.
// Format: "[HH:MM:SS] <name>.<format>: exists, skipped"
func (cl *ConsoleLogger) LogFormatSkipped(name string, format string) {
	cl.logItemStatus(name, format, "exists, skipped", color.FgYellow)
}

// logItemStatus renders a per-file status line with an optional status color.
func (cl *ConsoleLogger) logItemStatus(name, format, status string, attr color.Attribute) {
	if cl.writer == nil || !cl.shouldLog("info") {
		return
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	ts := timestamp()
	var message string
	if cl.colorOutput {
		statusText := color.New(attr).Sprint(status)
		message = fmt.Sprintf("[%s] %s.%s: %s\n", ts, name, format, statusText)
	} else {
		message = fmt.Sprintf("[%s] %s.%s: %s\n", ts, name, format, status)
	}

	cl.writer.Write([]byte(message))
}

// LogEmptyBoard logs an empty board at INFO level. Empty boards produce no
// files and do not count toward the summary.
// Format: "[HH:MM:SS] <name>: empty, skipped"
func (cl *ConsoleLogger) LogEmptyBoard(name string) {
	if cl.writer == nil || !cl.shouldLog("info") {
		return
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	ts := timestamp()
	var message string
	if cl.colorOutput {
		statusText := color.New(color.FgHiBlack).Sprint("empty, skipped")
		message = fmt.Sprintf("[%s] %s: %s\n", ts, name, statusText)
	} else {
		message = fmt.Sprintf("[%s] %s: empty, skipped\n", ts, name)
	}

	cl.writer.Write([]byte(message))
}

// LogSummary logs the run summary with final counters at INFO level.
func (cl *ConsoleLogger) LogSummary(stats engine.Stats) {
	if cl.writer == nil || !cl.shouldLog("info") {
		return
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	lines := formatSummary(stats, cl.colorOutput)
	cl.writer.Write([]byte(lines))
}
