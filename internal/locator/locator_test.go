package locator

import (
	"testing"
	"time"

	"golang.org/x/net/html"

	"readaloud/internal/page"
	"readaloud/internal/playback"
)

const article = `<html><body>
<div id="wrapper">
  <p>The quick brown fox jumps over the lazy dog</p>
  <p hidden>Hidden copy of the sentence is here</p>
  <ul><li>Lists can hold a point as well</li></ul>
  <p>A much longer paragraph that mentions a small phrase somewhere inside of a very long stretch of unrelated text</p>
  <h2>Caf&#xe9; culture explained</h2>
</div>
<div id="readaloud-summary-player-container"><p>Overlay sentence that must not match</p></div>
</body></html>`

func load(t *testing.T) *page.Document {
	t.Helper()
	doc, err := page.ParseString(article, "")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return doc
}

func find(doc *page.Document, excerpt string) *html.Node {
	var n *html.Node
	doc.Do(func(root *html.Node) {
		n = Find(root, excerpt, FindOptions{ExcludeID: "readaloud-summary-player-container"})
	})
	return n
}

func TestFind(t *testing.T) {
	doc := load(t)
	tests := []struct {
		name    string
		excerpt string
		want    string
	}{
		{"exact paragraph", "The quick brown fox jumps over the lazy dog", "p"},
		{"whitespace differences", "  The quick brown\n fox jumps over the lazy dog ", "p"},
		{"list item", "Lists can hold a point as well", "li"},
		{"decomposed accent", "Cafe\u0301 culture explained", "h2"},
		{"too short for container", "a small phrase", ""},
		{"hidden element", "Hidden copy of the sentence is here", ""},
		{"overlay excluded", "Overlay sentence that must not match", ""},
		{"empty excerpt", "   ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := find(doc, tt.excerpt)
			if tt.want == "" {
				if got != nil {
					t.Fatalf("expected no match, got <%s>", got.Data)
				}
				return
			}
			if got == nil || got.Data != tt.want {
				t.Fatalf("expected <%s>, got %v", tt.want, got)
			}
		})
	}
}

func TestFindPrefersParagraphOverDiv(t *testing.T) {
	doc, err := page.ParseString(`<div><p>Single sentence inside a div</p></div>`, "")
	if err != nil {
		t.Fatal(err)
	}
	if got := find(doc, "Single sentence inside a div"); got == nil || got.Data != "p" {
		t.Fatalf("expected paragraph, got %v", got)
	}
}

type recordingScroller struct {
	scrolled []*html.Node
}

func (r *recordingScroller) ScrollIntoView(n *html.Node) {
	r.scrolled = append(r.scrolled, n)
}

func TestHighlighterMarksAndReleases(t *testing.T) {
	doc := load(t)
	clock := playback.NewManualClock()
	scroller := &recordingScroller{}
	h := NewHighlighter(doc, HighlighterOptions{
		Clock:     clock,
		Scroller:  scroller,
		ExcludeID: "readaloud-summary-player-container",
	})
	defer h.Close()

	if !h.Highlight("The quick brown fox jumps over the lazy dog") {
		t.Fatal("expected highlight")
	}
	first := h.Current()
	doc.Do(func(*html.Node) {
		if !page.HasClass(first, DefaultHighlightClass) || !page.HasClass(first, DefaultHighlightClass+"-active") {
			t.Fatal("expected both classes applied")
		}
	})
	if len(scroller.scrolled) != 0 {
		t.Fatal("auto-scroll is off by default")
	}

	clock.Advance(DefaultHold)
	doc.Do(func(*html.Node) {
		if page.HasClass(first, DefaultHighlightClass+"-active") {
			t.Fatal("active class should expire after the hold")
		}
		if !page.HasClass(first, DefaultHighlightClass) {
			t.Fatal("persistent class should remain")
		}
	})

	h.SetAutoScroll(true)
	if !h.Highlight("Lists can hold a point as well") {
		t.Fatal("expected second highlight")
	}
	doc.Do(func(*html.Node) {
		if page.HasClass(first, DefaultHighlightClass) {
			t.Fatal("previous element should be cleared")
		}
	})
	if len(scroller.scrolled) != 1 || scroller.scrolled[0] != h.Current() {
		t.Fatal("expected scroll to the new element")
	}
}

func TestHighlighterMissClearsPrevious(t *testing.T) {
	doc := load(t)
	clock := playback.NewManualClock()
	h := NewHighlighter(doc, HighlighterOptions{Clock: clock})
	defer h.Close()

	h.Highlight("The quick brown fox jumps over the lazy dog")
	prev := h.Current()
	if h.Highlight("nothing on this page matches this") {
		t.Fatal("expected miss")
	}
	if h.Current() != nil {
		t.Fatal("expected no current element after miss")
	}
	doc.Do(func(*html.Node) {
		if page.HasClass(prev, DefaultHighlightClass) {
			t.Fatal("expected previous marker removed")
		}
	})
	if clock.Pending() != 0 {
		t.Fatalf("expected pending removal canceled, got %d", clock.Pending())
	}
}

func TestHighlighterCloseCancelsTimer(t *testing.T) {
	doc := load(t)
	clock := playback.NewManualClock()
	h := NewHighlighter(doc, HighlighterOptions{Clock: clock, Hold: time.Second})
	h.Highlight("Lists can hold a point as well")
	h.Close()
	if clock.Pending() != 0 {
		t.Fatal("expected timer canceled")
	}
	if h.Highlight("Lists can hold a point as well") {
		t.Fatal("closed highlighter should not mark")
	}
}
