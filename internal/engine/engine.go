package engine

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/FdezRomero/whimsical-exporter/internal/fileutil"
)

// Default bounds for remote waits.
const (
	// DefaultPaginationWait bounds each scroll/await pagination round; a
	// round with no matching response within this window ends the listing
	// loop.
	DefaultPaginationWait = 1 * time.Second

	// DefaultExportWait bounds the asynchronous capture of a format's
	// byte payload (e.g. the copy-image blob response).
	DefaultExportWait = 30 * time.Second
)

// Logger receives the engine's per-item progress events. Implemented by the
// logger package's console and file loggers.
type Logger interface {
	LogTrace(message string)
	LogDebug(message string)
	LogInfo(message string)
	LogWarn(message string)
	LogError(message string)

	// LogFolderStart is emitted after a folder's listing has loaded, when
	// the child count is known.
	LogFolderStart(name string, childCount int)

	// LogFormatExported is emitted once per format file written.
	LogFormatExported(name string, format string)

	// LogFormatSkipped is emitted when a format's target file already
	// exists and no remote interaction happens for it.
	LogFormatSkipped(name string, format string)

	// LogEmptyBoard is emitted for boards classified as empty.
	LogEmptyBoard(name string)

	// LogSummary is emitted once at the end of the run.
	LogSummary(stats Stats)
}

// Stats accumulates the run's counters. BoardsExported counts boards, not
// files: a board exported in two formats counts once.
type Stats struct {
	BoardsExported int
	BoardsSkipped  int
	EmptyBoards    int
	FoldersVisited int
	FormatFailures int
	Duration       time.Duration
}

// Options configures an Engine.
type Options struct {
	// Surface is the authenticated remote canvas session.
	Surface Surface

	// BaseURL is the service base URL all identifiers are rooted at.
	BaseURL string

	// Formats is the non-empty set of formats to attempt per board.
	Formats []Format

	// Logger receives progress events. Required.
	Logger Logger

	// PaginationWait bounds each pagination round (default 1s).
	PaginationWait time.Duration

	// ExportWait bounds asynchronous format captures (default 30s).
	ExportWait time.Duration

	// Progress, when non-nil, is notified of per-folder child progress.
	Progress ProgressFunc
}

// ProgressFunc is called once per child processed within a folder, with the
// folder-local position and total.
type ProgressFunc func(folderName string, current, total int)

// Engine is the explicit context object the traversal threads through every
// call: it owns the Surface reference and the running counters. There is no
// process-wide state; two engines never share counters.
type Engine struct {
	surface        Surface
	baseURL        string
	formats        []Format
	log            Logger
	paginationWait time.Duration
	exportWait     time.Duration
	progress       ProgressFunc

	stats Stats
}

// New creates an Engine. Surface, BaseURL, Formats, and Logger are required.
func New(opts Options) (*Engine, error) {
	if opts.Surface == nil {
		return nil, fmt.Errorf("engine requires a surface")
	}
	if opts.BaseURL == "" {
		return nil, fmt.Errorf("engine requires a base URL")
	}
	if len(opts.Formats) == 0 {
		return nil, fmt.Errorf("engine requires at least one export format")
	}
	if opts.Logger == nil {
		return nil, fmt.Errorf("engine requires a logger")
	}

	paginationWait := opts.PaginationWait
	if paginationWait <= 0 {
		paginationWait = DefaultPaginationWait
	}
	exportWait := opts.ExportWait
	if exportWait <= 0 {
		exportWait = DefaultExportWait
	}

	return &Engine{
		surface:        opts.Surface,
		baseURL:        opts.BaseURL,
		formats:        opts.Formats,
		log:            opts.Logger,
		paginationWait: paginationWait,
		exportWait:     exportWait,
		progress:       opts.Progress,
	}, nil
}

// Stats returns the counters accumulated so far.
func (e *Engine) Stats() Stats {
	return e.stats
}

// ExportFolder recursively mirrors the remote folder onto local storage
// under basePath. Each recursive call fully drains its subtree before the
// parent's traversal continues to the next sibling, preserving the
// single-active-navigation invariant.
//
// Only context cancellation and internal invariant violations (identifier
// naming) propagate as errors; every per-item failure is contained and
// converted into a skip decision, so a re-run naturally retries the
// missing work.
func (e *Engine) ExportFolder(ctx context.Context, folderID, basePath string) error {
	name, err := LocalName(e.baseURL, folderID)
	if err != nil {
		return err
	}

	folderPath := filepath.Join(basePath, name)
	// Idempotent creation; a failure is treated as "already exists" and
	// any real filesystem fault surfaces on the first file write.
	if err := fileutil.EnsureDir(folderPath); err != nil {
		e.log.LogDebug(fmt.Sprintf("create directory %s: %v", folderPath, err))
	}

	children, err := e.ListChildren(ctx, folderID)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		// A folder whose listing cannot be loaded is skipped whole; the
		// next run retries it.
		e.log.LogError(fmt.Sprintf("failed to list folder %s: %v", name, err))
		return nil
	}

	e.stats.FoldersVisited++
	e.log.LogFolderStart(name, len(children))

	for i, childID := range children {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		childName, err := LocalName(e.baseURL, childID)
		if err != nil {
			return err
		}
		if e.progress != nil {
			e.progress(name, i+1, len(children))
		}

		// Skip/resume policy: when every requested format's file is
		// already present, no remote interaction happens for this child.
		if e.satisfied(folderPath, childName) {
			e.stats.BoardsSkipped++
			for _, f := range e.formats {
				e.log.LogFormatSkipped(childName, f.Ext())
			}
			continue
		}

		kind, err := e.Classify(ctx, childID)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			// Ambiguous classification is non-fatal: treated like an
			// empty board and left for a later run.
			e.log.LogWarn(fmt.Sprintf("could not classify %s: %v", childName, err))
			continue
		}

		switch kind {
		case KindFolder:
			if err := e.ExportFolder(ctx, childID, folderPath); err != nil {
				return err
			}
		case KindEmptyBoard:
			e.stats.EmptyBoards++
			e.log.LogEmptyBoard(childName)
		case KindBoard:
			e.exportBoard(ctx, childID, folderPath, childName)
		}
	}

	return nil
}

// exportBoard attempts every requested format whose target file is missing
// and increments the traversal counter once if at least one format
// succeeded. Formats whose file already exists are never re-exported.
func (e *Engine) exportBoard(ctx context.Context, boardID, folderPath, name string) {
	succeeded := 0

	for _, format := range e.formats {
		target := filepath.Join(folderPath, name+"."+format.Ext())
		if fileutil.Exists(target) {
			e.log.LogFormatSkipped(name, format.Ext())
			continue
		}

		data, err := e.exportFormat(ctx, format, boardID)
		if err != nil {
			e.stats.FormatFailures++
			e.log.LogWarn(fmt.Sprintf("%s: %s export failed: %v", name, format.Ext(), err))
			continue
		}

		if err := fileutil.WriteFile(target, data); err != nil {
			e.stats.FormatFailures++
			e.log.LogError(fmt.Sprintf("%s: write %s: %v", name, target, err))
			continue
		}

		succeeded++
		e.log.LogFormatExported(name, format.Ext())
	}

	if succeeded > 0 {
		e.stats.BoardsExported++
	}
}

// satisfied reports whether every requested format's target file already
// exists for the given local name, i.e. the format-completion rule holds
// and the child needs no remote interaction at all. Directories never
// satisfy the rule: folders are always recursed into, so their own
// children carry the skip decisions.
func (e *Engine) satisfied(folderPath, name string) bool {
	for _, format := range e.formats {
		if !fileutil.Exists(filepath.Join(folderPath, name+"."+format.Ext())) {
			return false
		}
	}
	return true
}
