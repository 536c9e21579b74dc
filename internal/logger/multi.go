package logger

import "github.com/FdezRomero/whimsical-exporter/internal/engine"

// MultiLogger fans every event out to a set of engine.Logger
// implementations, letting a run log to console and file at once.
type MultiLogger struct {
	loggers []engine.Logger
}

// NewMultiLogger creates a MultiLogger over the given loggers. Nil entries
// are ignored.
func NewMultiLogger(loggers ...engine.Logger) *MultiLogger {
	var filtered []engine.Logger
	for _, l := range loggers {
		if l != nil {
			filtered = append(filtered, l)
		}
	}
	return &MultiLogger{loggers: filtered}
}

// LogTrace fans out a trace-level message.
func (ml *MultiLogger) LogTrace(message string) {
	for _, l := range ml.loggers {
		l.LogTrace(message)
	}
}

// LogDebug fans out a debug-level message.
func (ml *MultiLogger) LogDebug(message string) {
	for _, l := range ml.loggers {
		l.LogDebug(message)
	}
}

// LogInfo fans out an info-level message.
func (ml *MultiLogger) LogInfo(message string) {
	for _, l := range ml.loggers {
		l.LogInfo(message)
	}
}

// LogWarn fans out a warning-level message.
func (ml *MultiLogger) LogWarn(message string) {
	for _, l := range ml.loggers {
		l.LogWarn(message)
	}
}

// LogError fans out an error-level message.
func (ml *MultiLogger) LogError(message string) {
	for _, l := range ml.loggers {
		l.LogError(message)
	}
}

// LogFolderStart fans out a folder-entry event.
func (ml *MultiLogger) LogFolderStart(name string, childCount int) {
	for _, l := range ml.loggers {
		l.LogFolderStart(name, childCount)
	}
}

// LogFormatExported fans out a downloaded-file event.
func (ml *MultiLogger) LogFormatExported(name string, format string) {
	for _, l := range ml.loggers {
		l.LogFormatExported(name, format)
	}
}

// LogFormatSkipped fans out a skipped-file event.
func (ml *MultiLogger) LogFormatSkipped(name string, format string) {
	for _, l := range ml.loggers {
		l.LogFormatSkipped(name, format)
	}
}

// LogEmptyBoard fans out an empty-board event.
func (ml *MultiLogger) LogEmptyBoard(name string) {
	for _, l := range ml.loggers {
		l.LogEmptyBoard(name)
	}
}

// LogSummary fans out the run summary.
func (ml *MultiLogger) LogSummary(stats engine.Stats) {
	for _, l := range ml.loggers {
		l.LogSummary(stats)
	}
}
