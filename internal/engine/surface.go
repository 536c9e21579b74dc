// Package engine implements the recursive export engine: the traversal
// algorithm over the lazily-paginated remote folder tree, per-item
// classification, the idempotent skip/resume policy, and the per-format
// export state machines.
//
// The engine drives the remote UI exclusively through the Surface interface
// and never talks to a browser directly, so the whole package is testable
// against an in-memory scripted surface.
package engine

import (
	"context"
	"errors"
	"time"
)

// Surface is the navigable remote canvas the engine drives. Exactly one
// location is active at a time; every method that depends on a location must
// Navigate first and must not assume the location survived a prior call.
type Surface interface {
	// Navigate loads the given URL and waits for the document to settle.
	Navigate(ctx context.Context, url string) error

	// CurrentURL returns the URL of the active location.
	CurrentURL(ctx context.Context) (string, error)

	// Title returns the document title of the active location.
	Title(ctx context.Context) (string, error)

	// Content returns the serialized markup of the active location.
	Content(ctx context.Context) (string, error)

	// Present reports whether at least one element matches the selector.
	Present(ctx context.Context, selector string) (bool, error)

	// Enabled reports whether the first element matching the selector is
	// interactive. A visually disabled control (pointer-events: none or a
	// disabled style) reports false without being clicked.
	Enabled(ctx context.Context, selector string) (bool, error)

	// Click simulates a click on the first element matching the selector.
	Click(ctx context.Context, selector string) error

	// ScrollToBottom scrolls the element matching the selector to its
	// bottom, triggering lazy pagination on scrollable listings.
	ScrollToBottom(ctx context.Context, selector string) error

	// SetRootBackground applies a background color to the document root.
	SetRootBackground(ctx context.Context, cssColor string) error

	// FrameContent returns the serialized markup of the same-origin frame
	// matching the selector.
	FrameContent(ctx context.Context, selector string) (string, error)

	// ReplaceContent replaces the active document's markup.
	ReplaceContent(ctx context.Context, html string) error

	// PrintPDF renders the active document as a paginated PDF byte stream.
	PrintPDF(ctx context.Context, landscape bool, printBackground bool) ([]byte, error)

	// ExpectResponse arms a single-shot listener for the next network
	// response whose URL satisfies match. The listener must be armed before
	// the interaction that triggers the response, and is released on every
	// Await outcome and on Cancel.
	ExpectResponse(ctx context.Context, match func(url string) bool) ResponseWaiter
}

// Response is a captured network response.
type Response struct {
	URL    string
	Status int
	Body   []byte
}

// ResponseWaiter is the single-shot listener handle returned by
// Surface.ExpectResponse.
type ResponseWaiter interface {
	// Await blocks until the matched response arrives or the timeout
	// elapses. A timeout yields ErrResponseTimeout.
	Await(ctx context.Context, timeout time.Duration) (*Response, error)

	// Cancel releases the listener. Safe to call after Await.
	Cancel()
}

// ErrResponseTimeout is returned by ResponseWaiter.Await when no matching
// response arrives within the wait. For pagination this is the normal loop
// terminator, not a failure.
var ErrResponseTimeout = errors.New("timed out waiting for matching network response")

// ErrControlDisabled is returned by format exporters when a required UI
// control is visually disabled and therefore treated as "not available".
var ErrControlDisabled = errors.New("export control is disabled")
