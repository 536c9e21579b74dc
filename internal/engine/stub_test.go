package engine

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
)

// fakeItem scripts one remote item for the fake surface.
type fakeItem struct {
	folder       bool
	noMarker     bool // folder that does not render the primary marker
	children     []string
	syncRounds   int // pagination rounds that return an items-sync response
	canvas       bool
	svgMarkup    string
	pngBody      []byte
	pngStatus    int
	copyDisabled bool
	frameMarkup  string
}

// fakeSurface is an in-memory scripted Surface. It emulates the remote
// canvas closely enough for the engine: navigation state, folder listings
// with lazy pagination, the share menu, and armed network responses.
type fakeSurface struct {
	mu    sync.Mutex
	base  string
	items map[string]*fakeItem

	current  string
	menuOpen bool
	pending  *Response
	replaced string

	navigations []string
	clicks      []string
	scrolls     map[string]int
	armed       int
	backgrounds int
}

func newFakeSurface(base string, items map[string]*fakeItem) *fakeSurface {
	return &fakeSurface{
		base:    base,
		items:   items,
		scrolls: make(map[string]int),
	}
}

// itemID strips a trailing vector sub-view suffix from the current URL.
func (f *fakeSurface) itemID() string {
	return strings.TrimSuffix(f.current, svgSuffix)
}

func (f *fakeSurface) atSVGView() bool {
	return strings.HasSuffix(f.current, svgSuffix)
}

func (f *fakeSurface) item() *fakeItem {
	return f.items[f.itemID()]
}

func (f *fakeSurface) Navigate(_ context.Context, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.navigations = append(f.navigations, url)
	f.current = url
	// Navigation resets transient UI state.
	f.menuOpen = false
	f.pending = nil
	return nil
}

func (f *fakeSurface) CurrentURL(context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current, nil
}

func (f *fakeSurface) Title(context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	item := f.item()
	if f.atSVGView() && (item == nil || item.folder) {
		return "Not found - Whimsical", nil
	}
	return "Whimsical", nil
}

func (f *fakeSurface) Content(context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	item := f.item()
	if item == nil {
		return "<html></html>", nil
	}
	if f.atSVGView() {
		if item.svgMarkup != "" {
			return item.svgMarkup, nil
		}
		return "<html><body><svg></svg></body></html>", nil
	}
	if item.folder {
		var b strings.Builder
		b.WriteString(`<html><body><div class="folder-content-x7f2">`)
		for _, child := range item.children {
			// Listings emit root-relative hrefs.
			fmt.Fprintf(&b, `<a href="%s">item</a>`, strings.TrimPrefix(child, f.base))
		}
		b.WriteString(`</div></body></html>`)
		return b.String(), nil
	}
	return "<html><body></body></html>", nil
}

func (f *fakeSurface) Present(_ context.Context, selector string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	item := f.item()
	switch selector {
	case selFolderContent:
		return item != nil && item.folder && !item.noMarker && !f.atSVGView(), nil
	case selCanvas:
		return item != nil && !item.folder && item.canvas && !f.atSVGView(), nil
	default:
		return false, nil
	}
}

func (f *fakeSurface) Enabled(_ context.Context, selector string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.menuOpen {
		return false, nil
	}
	item := f.item()
	switch selector {
	case selCopyImage:
		return item != nil && !item.copyDisabled, nil
	case selPrintAction:
		return item != nil, nil
	default:
		return false, nil
	}
}

func (f *fakeSurface) Click(_ context.Context, selector string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clicks = append(f.clicks, selector)
	item := f.item()

	switch selector {
	case selShareToggle:
		f.menuOpen = !f.menuOpen
		return nil
	case selCopyImage:
		if !f.menuOpen {
			return fmt.Errorf("element %s not visible", selector)
		}
		status := item.pngStatus
		if status == 0 {
			status = 200
		}
		f.pending = &Response{
			URL:    "blob:" + f.base + "/deadbeef",
			Status: status,
			Body:   item.pngBody,
		}
		return nil
	case selPrintAction:
		if !f.menuOpen {
			return fmt.Errorf("element %s not visible", selector)
		}
		return nil
	default:
		return fmt.Errorf("element %s not found", selector)
	}
}

func (f *fakeSurface) ScrollToBottom(_ context.Context, selector string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	item := f.item()
	if selector != selFolderContent || item == nil || !item.folder {
		return fmt.Errorf("element %s not found", selector)
	}
	f.scrolls[f.current]++
	if f.scrolls[f.current] <= item.syncRounds {
		f.pending = &Response{URL: f.base + itemsSyncPath, Status: 200}
	} else {
		f.pending = nil
	}
	return nil
}

func (f *fakeSurface) SetRootBackground(context.Context, string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.backgrounds++
	return nil
}

func (f *fakeSurface) FrameContent(_ context.Context, selector string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	item := f.item()
	if selector != selPrintFrame || item == nil || item.frameMarkup == "" {
		return "", fmt.Errorf("frame %s has no accessible document", selector)
	}
	return item.frameMarkup, nil
}

func (f *fakeSurface) ReplaceContent(_ context.Context, html string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replaced = html
	return nil
}

func (f *fakeSurface) PrintPDF(context.Context, bool, bool) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return []byte("%PDF-1.4\n" + f.replaced), nil
}

func (f *fakeSurface) ExpectResponse(_ context.Context, match func(url string) bool) ResponseWaiter {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.armed++
	return &fakeWaiter{f: f, match: match}
}

// clickCount returns how many recorded clicks hit the given selector.
func (f *fakeSurface) clickCount(selector string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.clicks {
		if c == selector {
			n++
		}
	}
	return n
}

// fakeWaiter delivers whatever response the last interaction staged, or a
// timeout when nothing matching is pending.
type fakeWaiter struct {
	f         *fakeSurface
	match     func(string) bool
	cancelled bool
}

func (w *fakeWaiter) Await(_ context.Context, _ time.Duration) (*Response, error) {
	w.f.mu.Lock()
	defer w.f.mu.Unlock()
	resp := w.f.pending
	if resp != nil && w.match(resp.URL) {
		w.f.pending = nil
		return resp, nil
	}
	return nil, ErrResponseTimeout
}

func (w *fakeWaiter) Cancel() {
	w.cancelled = true
}

// recordingLogger captures engine events for assertions. Implements Logger.
type recordingLogger struct {
	mu       sync.Mutex
	messages []string
	exported []string
	skipped  []string
	empty    []string
	folders  []string
	summary  *Stats
}

func (l *recordingLogger) record(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = append(l.messages, msg)
}

func (l *recordingLogger) LogTrace(m string) { l.record(m) }
func (l *recordingLogger) LogDebug(m string) { l.record(m) }
func (l *recordingLogger) LogInfo(m string)  { l.record(m) }
func (l *recordingLogger) LogWarn(m string)  { l.record(m) }
func (l *recordingLogger) LogError(m string) { l.record(m) }

func (l *recordingLogger) LogFolderStart(name string, childCount int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.folders = append(l.folders, fmt.Sprintf("%s:%d", name, childCount))
}

func (l *recordingLogger) LogFormatExported(name, format string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.exported = append(l.exported, name+"."+format)
}

func (l *recordingLogger) LogFormatSkipped(name, format string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.skipped = append(l.skipped, name+"."+format)
}

func (l *recordingLogger) LogEmptyBoard(name string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.empty = append(l.empty, name)
}

func (l *recordingLogger) LogSummary(stats Stats) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.summary = &stats
}
