package engine

import (
	"context"
	"fmt"
)

// exportFormat runs the state machine for one format of one board and
// returns the captured bytes. Any failure means "this item yielded no
// usable content for this format": the caller logs it and moves on, it
// never aborts the run.
func (e *Engine) exportFormat(ctx context.Context, format Format, boardID string) ([]byte, error) {
	switch format {
	case FormatSVG:
		return e.exportSVG(ctx, boardID)
	case FormatPNG:
		return e.exportPNG(ctx, boardID)
	case FormatPDF:
		return e.exportPDF(ctx, boardID)
	default:
		return nil, fmt.Errorf("unsupported export format %q", format)
	}
}

// exportSVG captures the board's vector sub-view: navigate to it, apply the
// background normalization, and serialize the rendered markup.
func (e *Engine) exportSVG(ctx context.Context, boardID string) ([]byte, error) {
	if err := e.surface.Navigate(ctx, boardID+svgSuffix); err != nil {
		return nil, fmt.Errorf("navigate to vector sub-view: %w", err)
	}

	// Cosmetic normalization only; capture proceeds even if it fails.
	if err := e.surface.SetRootBackground(ctx, exportBackground); err != nil {
		e.log.LogDebug(fmt.Sprintf("background normalization failed for %s: %v", boardID, err))
	}

	html, err := e.surface.Content(ctx)
	if err != nil {
		return nil, fmt.Errorf("capture vector markup: %w", err)
	}
	return []byte(html), nil
}

// exportPNG captures the board as a raster image. The copy-image action
// delivers its payload asynchronously as a same-origin blob response, so
// the listener is armed before the click and awaited afterward. The share
// menu is closed on every path so no UI state leaks into the next item.
func (e *Engine) exportPNG(ctx context.Context, boardID string) (data []byte, err error) {
	if err := e.navigateIfNeeded(ctx, boardID); err != nil {
		return nil, fmt.Errorf("navigate to board: %w", err)
	}

	if err := e.surface.Click(ctx, selShareToggle); err != nil {
		return nil, fmt.Errorf("open share menu: %w", err)
	}
	defer e.closeShareMenu(ctx, boardID)

	enabled, err := e.surface.Enabled(ctx, selCopyImage)
	if err != nil {
		return nil, fmt.Errorf("probe copy-image control: %w", err)
	}
	if !enabled {
		return nil, ErrControlDisabled
	}

	waiter := e.surface.ExpectResponse(ctx, isBlobResponse)
	defer waiter.Cancel()

	if err := e.surface.Click(ctx, selCopyImage); err != nil {
		return nil, fmt.Errorf("invoke copy-image action: %w", err)
	}

	resp, err := waiter.Await(ctx, e.exportWait)
	if err != nil {
		return nil, fmt.Errorf("await image response: %w", err)
	}
	if resp.Status >= 300 {
		return nil, fmt.Errorf("image response reported status %d", resp.Status)
	}

	return resp.Body, nil
}

// exportPDF captures the board as a paginated document: the print action
// embeds a preview frame, whose markup replaces the page content before it
// is emitted as a landscape PDF with backgrounds included.
func (e *Engine) exportPDF(ctx context.Context, boardID string) ([]byte, error) {
	if err := e.navigateIfNeeded(ctx, boardID); err != nil {
		return nil, fmt.Errorf("navigate to board: %w", err)
	}

	if err := e.surface.Click(ctx, selShareToggle); err != nil {
		return nil, fmt.Errorf("open share menu: %w", err)
	}
	defer e.closeShareMenu(ctx, boardID)

	enabled, err := e.surface.Enabled(ctx, selPrintAction)
	if err != nil {
		return nil, fmt.Errorf("probe print control: %w", err)
	}
	if !enabled {
		return nil, ErrControlDisabled
	}

	if err := e.surface.Click(ctx, selPrintAction); err != nil {
		return nil, fmt.Errorf("invoke print action: %w", err)
	}

	frame, err := e.surface.FrameContent(ctx, selPrintFrame)
	if err != nil {
		return nil, fmt.Errorf("extract print preview frame: %w", err)
	}

	if err := e.surface.ReplaceContent(ctx, frame); err != nil {
		return nil, fmt.Errorf("stage print preview content: %w", err)
	}
	if err := e.surface.SetRootBackground(ctx, exportBackground); err != nil {
		e.log.LogDebug(fmt.Sprintf("background normalization failed for %s: %v", boardID, err))
	}

	pdf, err := e.surface.PrintPDF(ctx, true, true)
	if err != nil {
		return nil, fmt.Errorf("render paginated document: %w", err)
	}
	return pdf, nil
}

// closeShareMenu toggles the share menu closed regardless of export
// outcome. Failures are logged, not propagated: the menu state matters less
// than the export result, and the next navigation resets the page anyway.
func (e *Engine) closeShareMenu(ctx context.Context, boardID string) {
	if err := e.surface.Click(ctx, selShareToggle); err != nil {
		e.log.LogDebug(fmt.Sprintf("failed to close share menu on %s: %v", boardID, err))
	}
}
