package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/FdezRomero/whimsical-exporter/internal/engine"
)

// FileLogger logs export events to a per-run file under the log directory.
// It creates a timestamped run log named after the run ID and maintains a
// latest.log symlink pointing to the most recent run. It is thread-safe
// and implements engine.Logger. It supports log level filtering to control
// message verbosity.
type FileLogger struct {
	logDir   string
	runLog   *os.File
	runFile  string
	logLevel string
	mu       sync.Mutex
}

// NewFileLogger creates a FileLogger writing to logDir. The directory is
// created if missing; the run log is named run-<YYYYMMDD-HHMMSS>-<runID>.log
// and latest.log is re-pointed at it.
func NewFileLogger(logDir, runID, logLevel string) (*FileLogger, error) {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	ts := time.Now().Format("20060102-150405")
	runFile := filepath.Join(logDir, fmt.Sprintf("run-%s-%s.log", ts, runID))

	file, err := os.OpenFile(runFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to create run log file: %w", err)
	}

	symlinkPath := filepath.Join(logDir, "latest.log")

	// Replace any existing symlink so latest.log tracks this run.
	if _, err := os.Lstat(symlinkPath); err == nil {
		if err := os.Remove(symlinkPath); err != nil {
			file.Close()
			return nil, fmt.Errorf("failed to remove old symlink: %w", err)
		}
	}
	if err := os.Symlink(filepath.Base(runFile), symlinkPath); err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to create symlink: %w", err)
	}

	logger := &FileLogger{
		logDir:   logDir,
		runLog:   file,
		runFile:  runFile,
		logLevel: normalizeLogLevel(logLevel),
		mu:       sync.Mutex{},
	}

	logger.write("=== Whimsical Export Run Log ===\n")
	logger.write(fmt.Sprintf("Run ID: %s\n", runID))
	logger.write(fmt.Sprintf("Started at: %s\n\n", time.Now().Format(time.RFC3339)))

	return logger, nil
}

// Close closes the underlying run log file.
func (fl *FileLogger) Close() error {
	fl.mu.Lock()
	defer fl.mu.Unlock()
	if fl.runLog == nil {
		return nil
	}
	err := fl.runLog.Close()
	fl.runLog = nil
	return err
}

// RunFile returns the path of this run's log file.
func (fl *FileLogger) RunFile() string {
	return fl.runFile
}

// shouldLog checks if a message at the given level should be logged.
func (fl *FileLogger) shouldLog(messageLevel string) bool {
	return logLevelToInt(messageLevel) >= logLevelToInt(fl.logLevel)
}

// write appends to the run log under the mutex; write errors are dropped,
// logging must never fail the run.
func (fl *FileLogger) write(message string) {
	fl.mu.Lock()
	defer fl.mu.Unlock()
	if fl.runLog == nil {
		return
	}
	fl.runLog.WriteString(message)
}

// LogTrace logs a trace-level message (most verbose).
func (fl *FileLogger) LogTrace(message string) {
	fl.logWithLevel("TRACE", message)
}

// LogDebug logs a debug-level message.
func (fl *FileLogger) LogDebug(message string) {
	fl.logWithLevel("DEBUG", message)
}

// LogInfo logs an info-level message.
func (fl *FileLogger) LogInfo(message string) {
	fl.logWithLevel("INFO", message)
}

// LogWarn logs a warning-level message.
func (fl *FileLogger) LogWarn(message string) {
	fl.logWithLevel("WARN", message)
}

// LogError logs an error-level message.
func (fl *FileLogger) LogError(message string) {
	fl.logWithLevel("ERROR", message)
}

// logWithLevel logs a message at the specified level if filtering allows it.
func (fl *FileLogger) logWithLevel(level string, message string) {
	if !fl.shouldLog(strings.ToLower(level)) {
		return
	}
	fl.write(fmt.Sprintf("[%s] [%s] %s\n", timestamp(), level, message))
}

// LogFolderStart logs entry into a folder at INFO level.
func (fl *FileLogger) LogFolderStart(name string, childCount int) {
	if !fl.shouldLog("info") {
		return
	}

	itemLabel := "items"
	if childCount == 1 {
		itemLabel = "item"
	}
	fl.write(fmt.Sprintf("[%s] Entering %s: %d %s\n", timestamp(), name, childCount, itemLabel))
}

// LogFormatExported logs a downloaded format file at INFO level.
func (fl *FileLogger) LogFormatExported(name string, format string) {
	if !fl.shouldLog("info") {
		return
	}
	fl.write(fmt.Sprintf("[%s] %s.%s: downloaded\n", timestamp(), name, format))
}

// LogFormatSkipped logs a format whose file already exists at INFO level.
func (fl *FileLogger) LogFormatSkipped(name string, format string) {
	if !fl.shouldLog("info") {
		return
	}
	fl.write(fmt.Sprintf("[%s] %s.%s: exists, skipped\n", timestamp(), name, format))
}

// LogEmptyBoard logs an empty board at INFO level.
func (fl *FileLogger) LogEmptyBoard(name string) {
	if !fl.shouldLog("info") {
		return
	}
	fl.write(fmt.Sprintf("[%s] %s: empty, skipped\n", timestamp(), name))
}

// LogSummary logs the run summary with final counters at INFO level.
func (fl *FileLogger) LogSummary(stats engine.Stats) {
	if !fl.shouldLog("info") {
		return
	}

	ts := timestamp()
	fl.write(fmt.Sprintf(
		"\n[%s] === EXPORT SUMMARY ===\n"+
			"[%s] Boards exported:  %d\n"+
			"[%s] Boards skipped:   %d\n"+
			"[%s] Empty boards:     %d\n"+
			"[%s] Folders visited:  %d\n"+
			"[%s] Format failures:  %d\n"+
			"[%s] Duration:         %s\n"+
			"[%s] Completed at:     %s\n",
		ts,
		ts, stats.BoardsExported,
		ts, stats.BoardsSkipped,
		ts, stats.EmptyBoards,
		ts, stats.FoldersVisited,
		ts, stats.FormatFailures,
		ts, formatDuration(stats.Duration),
		ts, time.Now().Format(time.RFC3339),
	))
}
