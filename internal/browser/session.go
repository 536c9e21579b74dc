// Package browser implements the engine's Surface on top of a headless
// Chrome session driven through chromedp. It is the only package that
// knows the remote canvas is a real browser; the engine sees the Surface
// interface and nothing else.
package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// Options configures a browser session.
type Options struct {
	// Headful makes the browser window visible for diagnosis.
	Headful bool

	// Timeout bounds each individual remote interaction (navigation,
	// element wait, click). Defaults to 30s.
	Timeout time.Duration
}

// Session is a live browser session. It implements engine.Surface. A
// session has exactly one active location; callers sequence navigation.
type Session struct {
	ctx     context.Context
	cancels []context.CancelFunc
	timeout time.Duration
}

// NewSession launches a browser and returns a connected session. Close must
// be called to shut the browser down.
func NewSession(ctx context.Context, opts Options) (*Session, error) {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	execOpts := []chromedp.ExecAllocatorOption{
		chromedp.Flag("headless", !opts.Headful),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("no-sandbox", true),
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, execOpts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	s := &Session{
		ctx:     browserCtx,
		cancels: []context.CancelFunc{browserCancel, allocCancel},
		timeout: timeout,
	}

	// Start the browser and enable network events so response listeners
	// observe traffic from the first navigation on.
	if err := chromedp.Run(browserCtx, network.Enable()); err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}

	return s, nil
}

// Close shuts the browser down. Safe to call more than once.
func (s *Session) Close() {
	for _, cancel := range s.cancels {
		cancel()
	}
}

// run executes chromedp actions bounded by the per-interaction timeout.
// The caller's context is honored for cancellation before the run starts;
// the actions themselves execute on the browser context, which is the
// only context chromedp accepts.
func (s *Session) run(ctx context.Context, actions ...chromedp.Action) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	tctx, cancel := context.WithTimeout(s.ctx, s.timeout)
	defer cancel()
	return chromedp.Run(tctx, actions...)
}

// Navigate loads the URL and waits for the document to reach readyState
// "complete", bounded by the interaction timeout.
func (s *Session) Navigate(ctx context.Context, url string) error {
	if err := s.run(ctx,
		chromedp.Navigate(url),
		waitForDocumentReady(),
	); err != nil {
		return fmt.Errorf("navigate to %s: %w", url, err)
	}
	return nil
}

// CurrentURL returns the URL of the active location.
func (s *Session) CurrentURL(ctx context.Context) (string, error) {
	var url string
	if err := s.run(ctx, chromedp.Location(&url)); err != nil {
		return "", fmt.Errorf("read location: %w", err)
	}
	return url, nil
}

// Title returns the document title of the active location.
func (s *Session) Title(ctx context.Context) (string, error) {
	var title string
	if err := s.run(ctx, chromedp.Title(&title)); err != nil {
		return "", fmt.Errorf("read title: %w", err)
	}
	return title, nil
}

// Content returns the serialized outer HTML of the active document.
func (s *Session) Content(ctx context.Context) (string, error) {
	var html string
	if err := s.run(ctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("serialize document: %w", err)
	}
	return html, nil
}

// Present reports whether at least one element matches the selector.
func (s *Session) Present(ctx context.Context, selector string) (bool, error) {
	var present bool
	js := fmt.Sprintf(`document.querySelector(%s) !== null`, jsString(selector))
	if err := s.run(ctx, chromedp.Evaluate(js, &present)); err != nil {
		return false, fmt.Errorf("probe %s: %w", selector, err)
	}
	return present, nil
}

// Enabled reports whether the first element matching the selector exists
// and is interactive: visually disabled controls (pointer-events: none,
// not-allowed cursor, or a disabled attribute) report false.
func (s *Session) Enabled(ctx context.Context, selector string) (bool, error) {
	var enabled bool
	js := fmt.Sprintf(`(() => {
		const el = document.querySelector(%s);
		if (!el || el.disabled) return false;
		const cs = getComputedStyle(el);
		return cs.pointerEvents !== 'none' && cs.cursor !== 'not-allowed';
	})()`, jsString(selector))
	if err := s.run(ctx, chromedp.Evaluate(js, &enabled)); err != nil {
		return false, fmt.Errorf("probe enablement of %s: %w", selector, err)
	}
	return enabled, nil
}

// Click waits for the element to be visible and clicks it.
func (s *Session) Click(ctx context.Context, selector string) error {
	if err := s.run(ctx,
		chromedp.WaitVisible(selector, chromedp.ByQuery),
		chromedp.Click(selector, chromedp.ByQuery),
	); err != nil {
		return fmt.Errorf("click %s: %w", selector, err)
	}
	return nil
}

// ScrollToBottom scrolls the matching element to its bottom, triggering
// lazy pagination on scrollable listings. A missing element is an error.
func (s *Session) ScrollToBottom(ctx context.Context, selector string) error {
	js := fmt.Sprintf(`(() => {
		const el = document.querySelector(%s);
		if (!el) return false;
		el.scrollTo(0, el.scrollHeight);
		return true;
	})()`, jsString(selector))

	var scrolled bool
	if err := s.run(ctx, chromedp.Evaluate(js, &scrolled)); err != nil {
		return fmt.Errorf("scroll %s: %w", selector, err)
	}
	if !scrolled {
		return fmt.Errorf("scroll %s: element not found", selector)
	}
	return nil
}

// SetRootBackground applies a background color to the document root.
func (s *Session) SetRootBackground(ctx context.Context, cssColor string) error {
	js := fmt.Sprintf(`document.documentElement.style.background = %s`, jsString(cssColor))
	if err := s.run(ctx, chromedp.Evaluate(js, nil)); err != nil {
		return fmt.Errorf("set root background: %w", err)
	}
	return nil
}

// FrameContent returns the serialized markup of the same-origin frame
// matching the selector.
func (s *Session) FrameContent(ctx context.Context, selector string) (string, error) {
	var html string
	js := fmt.Sprintf(`(() => {
		const frame = document.querySelector(%s);
		if (!frame || !frame.contentDocument) return '';
		return frame.contentDocument.documentElement.outerHTML;
	})()`, jsString(selector))
	if err := s.run(ctx,
		chromedp.WaitVisible(selector, chromedp.ByQuery),
		chromedp.Evaluate(js, &html),
	); err != nil {
		return "", fmt.Errorf("read frame %s: %w", selector, err)
	}
	if html == "" {
		return "", fmt.Errorf("frame %s has no accessible document", selector)
	}
	return html, nil
}

// ReplaceContent replaces the active document's markup in place.
func (s *Session) ReplaceContent(ctx context.Context, html string) error {
	js := fmt.Sprintf(`document.documentElement.innerHTML = %s`, jsString(html))
	if err := s.run(ctx, chromedp.Evaluate(js, nil)); err != nil {
		return fmt.Errorf("replace document content: %w", err)
	}
	return nil
}

// PrintPDF renders the active document as a paginated PDF byte stream.
func (s *Session) PrintPDF(ctx context.Context, landscape bool, printBackground bool) ([]byte, error) {
	var pdf []byte
	err := s.run(ctx, chromedp.ActionFunc(func(cctx context.Context) error {
		buf, _, err := page.PrintToPDF().
			WithLandscape(landscape).
			WithPrintBackground(printBackground).
			Do(cctx)
		if err != nil {
			return err
		}
		pdf = buf
		return nil
	}))
	if err != nil {
		return nil, fmt.Errorf("print to pdf: %w", err)
	}
	return pdf, nil
}

// waitForDocumentReady polls document.readyState until the page has
// finished loading. Bounded by the enclosing run timeout.
func waitForDocumentReady() chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		for {
			var readyState string
			if err := chromedp.Evaluate(`document.readyState`, &readyState).Do(ctx); err != nil {
				return err
			}
			if readyState == "complete" {
				return nil
			}
			select {
			case <-ticker.C:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	})
}

// jsString embeds a Go string into a JavaScript expression. JSON encoding
// produces a valid JS string literal for the values used here.
func jsString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}
