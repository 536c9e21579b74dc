package engine

import "strings"

// Selectors and URL fragments that track the remote service's rendered UI.
// Whimsical ships hashed class names, so matching is by stable substrings.
// Everything the engine knows about the remote DOM lives here.
const (
	// selFolderContent marks the scrollable region a folder renders its
	// child items into. Present only on folder pages.
	selFolderContent = `div[class*="folder-content"]`

	// selFolderChildren matches the anchor of every child item inside the
	// folder-content region, in DOM order.
	selFolderChildren = `div[class*="folder-content"] a[href]`

	// selCanvas marks the drawing surface of a non-empty board.
	selCanvas = `div[class*="canvas-viewport"]`

	// selShareToggle opens and closes the share/export menu.
	selShareToggle = `button[class*="share-menu-toggle"]`

	// selCopyImage is the copy-as-image action inside the share menu.
	selCopyImage = `div[class*="share-menu"] div[class*="copy-image"]`

	// selPrintAction is the print/preview action inside the share menu.
	selPrintAction = `div[class*="share-menu"] div[class*="print-board"]`

	// selPrintFrame is the nested preview frame the print action embeds.
	selPrintFrame = `iframe[class*="print-preview"]`

	// svgSuffix is the canonical vector sub-view of a board identifier.
	svgSuffix = "/svg"

	// notFoundTitle is the page title the service renders for a missing
	// sub-view. Used by the classifier's fallback probe.
	notFoundTitle = "Not found"

	// itemsSyncPath identifies the lazy-pagination "items sync" API
	// response a scroll-to-bottom triggers.
	itemsSyncPath = "/api/items/sync"

	// exportBackground is the background normalization applied to vector
	// and paginated exports. Cosmetic only.
	exportBackground = "#ffffff"
)

// isItemsSync matches the pagination sync response by URL.
func isItemsSync(url string) bool {
	return strings.Contains(url, itemsSyncPath)
}

// isBlobResponse matches the same-origin blob response carrying the
// copy-image payload.
func isBlobResponse(url string) bool {
	return strings.HasPrefix(url, "blob:")
}
