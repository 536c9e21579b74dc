package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ListChildren returns the full set of child item identifiers of a folder,
// in DOM order. The folder's listing is lazily paginated: each
// scroll-to-bottom triggers an "items sync" response until the service has
// nothing more to send. One round timing out with no matching response is
// the termination condition, not an error.
func (e *Engine) ListChildren(ctx context.Context, folderID string) ([]string, error) {
	if err := e.navigateIfNeeded(ctx, folderID); err != nil {
		return nil, fmt.Errorf("navigate to folder %s: %w", folderID, err)
	}

	for {
		// Arm the listener before the scroll that triggers the response.
		waiter := e.surface.ExpectResponse(ctx, isItemsSync)

		if err := e.surface.ScrollToBottom(ctx, selFolderContent); err != nil {
			waiter.Cancel()
			return nil, fmt.Errorf("scroll folder listing: %w", err)
		}

		_, err := waiter.Await(ctx, e.paginationWait)
		waiter.Cancel()
		if err != nil {
			if errors.Is(err, ErrResponseTimeout) {
				break
			}
			return nil, fmt.Errorf("await items sync: %w", err)
		}
	}

	html, err := e.surface.Content(ctx)
	if err != nil {
		return nil, fmt.Errorf("read folder listing: %w", err)
	}

	return e.collectChildren(html)
}

// collectChildren extracts child identifiers from the folder-content region
// of the rendered listing, in document order, deduplicated. An empty result
// is valid: recursing into an empty folder is a no-op.
func (e *Engine) collectChildren(html string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse folder listing: %w", err)
	}

	seen := make(map[string]bool)
	var children []string

	doc.Find(selFolderChildren).Each(func(_ int, sel *goquery.Selection) {
		href, ok := sel.Attr("href")
		if !ok || href == "" {
			return
		}
		id := e.absoluteURL(href)
		if seen[id] {
			return
		}
		seen[id] = true
		children = append(children, id)
	})

	return children, nil
}

// absoluteURL resolves a listing href against the service base URL.
// Listings emit root-relative hrefs; absolute ones pass through.
func (e *Engine) absoluteURL(href string) string {
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return strings.TrimSuffix(href, "/")
	}
	return strings.TrimSuffix(e.baseURL, "/") + "/" + strings.TrimPrefix(href, "/")
}
