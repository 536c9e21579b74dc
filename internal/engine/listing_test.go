package engine

import (
	"context"
	"reflect"
	"testing"
)

// TestListChildrenPagination verifies the scroll/await loop drains every
// pagination round and terminates on the first quiet round
func TestListChildrenPagination(t *testing.T) {
	folderID := testBaseURL + "/big-folder-Ff55"
	children := []string{
		testBaseURL + "/board-one-Aa11",
		testBaseURL + "/board-two-Bb22",
		testBaseURL + "/board-three-Cc33",
	}
	surface := newFakeSurface(testBaseURL, map[string]*fakeItem{
		folderID: {folder: true, children: children, syncRounds: 2},
	})
	eng, _ := newTestEngine(t, surface, []Format{FormatSVG})

	got, err := eng.ListChildren(context.Background(), folderID)
	if err != nil {
		t.Fatalf("ListChildren() error = %v", err)
	}
	if !reflect.DeepEqual(got, children) {
		t.Errorf("ListChildren() = %v, want %v", got, children)
	}

	// Two data rounds plus the terminating quiet round.
	if scrolls := surface.scrolls[folderID]; scrolls != 3 {
		t.Errorf("scroll rounds = %d, want 3", scrolls)
	}
	// The listener is re-armed before every scroll.
	if surface.armed != 3 {
		t.Errorf("armed listeners = %d, want 3", surface.armed)
	}
}

// TestListChildrenEmptyFolder verifies an empty listing is a valid result
func TestListChildrenEmptyFolder(t *testing.T) {
	folderID := testBaseURL + "/empty-folder-Ee00"
	surface := newFakeSurface(testBaseURL, map[string]*fakeItem{
		folderID: {folder: true},
	})
	eng, _ := newTestEngine(t, surface, []Format{FormatSVG})

	got, err := eng.ListChildren(context.Background(), folderID)
	if err != nil {
		t.Fatalf("ListChildren() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("ListChildren() = %v, want empty", got)
	}
}

// TestListChildrenDeduplicates verifies repeated listing entries collapse
// while preserving first-seen order
func TestListChildrenDeduplicates(t *testing.T) {
	folderID := testBaseURL + "/dup-folder-Dd77"
	surface := newFakeSurface(testBaseURL, map[string]*fakeItem{
		folderID: {
			folder: true,
			children: []string{
				testBaseURL + "/board-b-Bb22",
				testBaseURL + "/board-a-Aa11",
				testBaseURL + "/board-b-Bb22",
			},
		},
	})
	eng, _ := newTestEngine(t, surface, []Format{FormatSVG})

	got, err := eng.ListChildren(context.Background(), folderID)
	if err != nil {
		t.Fatalf("ListChildren() error = %v", err)
	}
	want := []string{
		testBaseURL + "/board-b-Bb22",
		testBaseURL + "/board-a-Aa11",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ListChildren() = %v, want %v", got, want)
	}
}

// TestCollectChildrenResolvesRelativeHrefs verifies root-relative hrefs are
// resolved against the base URL and absolute ones pass through
func TestCollectChildrenResolvesRelativeHrefs(t *testing.T) {
	surface := newFakeSurface(testBaseURL, nil)
	eng, _ := newTestEngine(t, surface, []Format{FormatSVG})

	html := `<html><body><div class="folder-content-x7f2">` +
		`<a href="/relative-board-Rr11">r</a>` +
		`<a href="https://whimsical.test/absolute-board-Qq22">q</a>` +
		`<a href="">blank</a>` +
		`</div></body></html>`

	got, err := eng.collectChildren(html)
	if err != nil {
		t.Fatalf("collectChildren() error = %v", err)
	}
	want := []string{
		testBaseURL + "/relative-board-Rr11",
		testBaseURL + "/absolute-board-Qq22",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("collectChildren() = %v, want %v", got, want)
	}
}

// TestCollectChildrenIgnoresOutsideMarker verifies anchors outside the
// folder-content region are not treated as children
func TestCollectChildrenIgnoresOutsideMarker(t *testing.T) {
	surface := newFakeSurface(testBaseURL, nil)
	eng, _ := newTestEngine(t, surface, []Format{FormatSVG})

	html := `<html><body>` +
		`<nav><a href="/help">help</a></nav>` +
		`<div class="folder-content-x7f2"><a href="/real-board-Zz99">z</a></div>` +
		`</body></html>`

	got, err := eng.collectChildren(html)
	if err != nil {
		t.Fatalf("collectChildren() error = %v", err)
	}
	if len(got) != 1 || got[0] != testBaseURL+"/real-board-Zz99" {
		t.Errorf("collectChildren() = %v, want only the folder-content child", got)
	}
}
