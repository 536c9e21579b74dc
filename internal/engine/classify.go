package engine

import (
	"context"
	"fmt"
	"strings"
)

// ItemKind is the result of classifying a remote item.
type ItemKind int

const (
	// KindFolder is an item that contains other items.
	KindFolder ItemKind = iota
	// KindBoard is a board with a drawable canvas.
	KindBoard
	// KindEmptyBoard is a board with no canvas content. Skipped, never
	// exported, never counted.
	KindEmptyBoard
)

// String returns a human-readable kind name for log lines.
func (k ItemKind) String() string {
	switch k {
	case KindFolder:
		return "folder"
	case KindBoard:
		return "board"
	case KindEmptyBoard:
		return "empty board"
	default:
		return "unknown"
	}
}

// Classify determines whether the item is a folder, a board, or an empty
// board by probing the rendered surface. It navigates only when the session
// is not already at the identifier, creates no files, and never touches the
// traversal counter.
//
// Probe order (the two folder probes are not equivalent and are kept
// ordered deliberately):
//  1. folder-content marker present -> folder;
//  2. the item's vector sub-view renders the not-found title -> folder
//     whose vector sub-view does not exist (fallback for items where the
//     primary marker is absent);
//  3. canvas marker present -> board;
//  4. otherwise -> empty board.
func (e *Engine) Classify(ctx context.Context, identifier string) (ItemKind, error) {
	if err := e.navigateIfNeeded(ctx, identifier); err != nil {
		return 0, fmt.Errorf("navigate to %s: %w", identifier, err)
	}

	hasFolder, err := e.surface.Present(ctx, selFolderContent)
	if err != nil {
		return 0, fmt.Errorf("probe folder marker: %w", err)
	}
	if hasFolder {
		return KindFolder, nil
	}

	// Fallback folder probe: a folder without the primary marker has no
	// vector sub-view, which the service renders as a not-found page.
	if err := e.surface.Navigate(ctx, identifier+svgSuffix); err != nil {
		return 0, fmt.Errorf("navigate to vector sub-view: %w", err)
	}
	title, err := e.surface.Title(ctx)
	if err != nil {
		return 0, fmt.Errorf("read sub-view title: %w", err)
	}
	if strings.HasPrefix(title, notFoundTitle) {
		return KindFolder, nil
	}

	// The sub-view exists, so the item is a board; return to it to probe
	// for canvas content.
	if err := e.surface.Navigate(ctx, identifier); err != nil {
		return 0, fmt.Errorf("navigate back to %s: %w", identifier, err)
	}
	hasCanvas, err := e.surface.Present(ctx, selCanvas)
	if err != nil {
		return 0, fmt.Errorf("probe canvas marker: %w", err)
	}
	if hasCanvas {
		return KindBoard, nil
	}

	return KindEmptyBoard, nil
}

// navigateIfNeeded navigates the session to url unless it is already the
// active location. Navigation is a suspend point; no location invariant is
// assumed across calls.
func (e *Engine) navigateIfNeeded(ctx context.Context, url string) error {
	current, err := e.surface.CurrentURL(ctx)
	if err == nil && sameLocation(current, url) {
		return nil
	}
	return e.surface.Navigate(ctx, url)
}

// sameLocation compares two URLs ignoring a trailing slash.
func sameLocation(a, b string) bool {
	return strings.TrimSuffix(a, "/") == strings.TrimSuffix(b, "/")
}
