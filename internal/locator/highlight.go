package locator

import (
	"log/slog"
	"sync"
	"time"

	"golang.org/x/net/html"

	"readaloud/internal/logging"
	"readaloud/internal/page"
	"readaloud/internal/playback"
	"readaloud/internal/textutil"
)

const (
	DefaultHighlightClass = "readaloud-summary-highlight"
	DefaultHold           = 1500 * time.Millisecond
)

// Scroller brings an element into view. It is called with the document
// held and must not call back into it.
type Scroller interface {
	ScrollIntoView(n *html.Node)
}

// HighlighterOptions configures a Highlighter. Zero values fall back to the
// defaults above.
type HighlighterOptions struct {
	Class      string
	Hold       time.Duration
	Tolerance  float64
	ExcludeID  string
	AutoScroll bool
	Scroller   Scroller
	Clock      playback.Clock
	Logger     *slog.Logger
}

// Highlighter marks at most one element of a document at a time.
type Highlighter struct {
	mu          sync.Mutex
	doc         *page.Document
	class       string
	activeClass string
	hold        time.Duration
	find        FindOptions
	autoScroll  bool
	scroller    Scroller
	clock       playback.Clock
	logger      *slog.Logger
	current     *html.Node
	timer       playback.Timer
	generation  uint64
	closed      bool
}

// NewHighlighter builds a Highlighter over doc.
func NewHighlighter(doc *page.Document, opts HighlighterOptions) *Highlighter {
	h := &Highlighter{
		doc:        doc,
		class:      opts.Class,
		hold:       opts.Hold,
		find:       FindOptions{Tolerance: opts.Tolerance, ExcludeID: opts.ExcludeID},
		autoScroll: opts.AutoScroll,
		scroller:   opts.Scroller,
		clock:      opts.Clock,
		logger:     opts.Logger,
	}
	if h.class == "" {
		h.class = DefaultHighlightClass
	}
	h.activeClass = h.class + "-active"
	if h.hold <= 0 {
		h.hold = DefaultHold
	}
	if h.clock == nil {
		h.clock = playback.RealClock()
	}
	if h.logger == nil {
		h.logger = logging.NewNop()
	}
	h.logger = logging.NewComponentLogger(h.logger, "locator")
	return h
}

// Highlight moves the marker to the element matching excerpt. A miss clears
// the previous marker and is only logged.
func (h *Highlighter) Highlight(excerpt string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed || h.doc == nil {
		return false
	}
	h.cancelLocked()

	var found *html.Node
	h.doc.Do(func(root *html.Node) {
		if h.current != nil {
			page.RemoveClass(h.current, h.class)
			page.RemoveClass(h.current, h.activeClass)
			h.current = nil
		}
		found = Find(root, excerpt, h.find)
		if found == nil {
			return
		}
		page.AddClass(found, h.class)
		page.AddClass(found, h.activeClass)
		h.current = found
		if h.autoScroll && h.scroller != nil {
			h.scroller.ScrollIntoView(found)
		}
	})

	if found == nil {
		snippet, _ := textutil.Truncate(textutil.CollapseSpace(excerpt), 60)
		h.logger.Debug("section not found on page",
			logging.String(logging.FieldEventType, "locator_miss"),
			logging.String("excerpt", snippet),
		)
		return false
	}

	gen := h.generation
	h.timer = h.clock.AfterFunc(h.hold, func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if h.closed || gen != h.generation {
			return
		}
		h.timer = nil
		h.doc.Do(func(*html.Node) {
			page.RemoveClass(found, h.activeClass)
		})
	})
	return true
}

// SetAutoScroll toggles scrolling for subsequent highlights.
func (h *Highlighter) SetAutoScroll(enabled bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.autoScroll = enabled
}

// AutoScroll reports the current scrolling preference.
func (h *Highlighter) AutoScroll() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.autoScroll
}

// Current returns the marked element, if any.
func (h *Highlighter) Current() *html.Node {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.current
}

// Clear removes every marker.
func (h *Highlighter) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clearLocked()
}

// Close clears markers and cancels the pending transient removal.
func (h *Highlighter) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clearLocked()
	h.closed = true
}

func (h *Highlighter) clearLocked() {
	h.cancelLocked()
	if h.current == nil || h.doc == nil {
		return
	}
	current := h.current
	h.doc.Do(func(*html.Node) {
		page.RemoveClass(current, h.class)
		page.RemoveClass(current, h.activeClass)
	})
	h.current = nil
}

func (h *Highlighter) cancelLocked() {
	h.generation++
	if h.timer != nil {
		h.timer.Stop()
		h.timer = nil
	}
}

// LogScroller is a Scroller for headless pages: it records the scroll as a
// log line.
type LogScroller struct {
	Logger *slog.Logger
}

// ScrollIntoView implements Scroller.
func (s LogScroller) ScrollIntoView(n *html.Node) {
	if s.Logger == nil || n == nil {
		return
	}
	snippet, _ := textutil.Truncate(textutil.CollapseSpace(page.Text(n)), 60)
	s.Logger.Debug("scrolled section into view",
		logging.String(logging.FieldEventType, "scroll_into_view"),
		logging.String("element", n.Data),
		logging.String("text", snippet),
	)
}
