package overlay

import (
	"strconv"
	"strings"
	"sync"

	"readaloud/internal/playback"
	"readaloud/internal/summary"
	"readaloud/internal/textutil"
)

const (
	headerTitleLimit = 30
	defaultHeader    = "Article Summary"
	playLabel        = "Play ►"
	pauseLabel       = "Pause ❚❚"
)

// Status messages shown in place of point text.
const (
	StatusExtracting      = "Extracting article content..."
	StatusGenerating      = "Generating summary..."
	StatusNoArticle       = "Could not extract article content."
	StatusTransportFailed = "Error communicating with extension backend."
	StatusNoPoints        = "No summary points available."
	StatusNoPointsArticle = "No summary points available for this article."
)

// State is an immutable snapshot of the widget.
type State struct {
	ID              string
	Visible         bool
	Expanded        bool
	Header          string
	Tooltip         string
	Status          string
	Words           []string
	ActiveWord      int
	PointIndex      int
	PointCount      int
	PointIndicator  string
	TimeDisplay     string
	PlayLabel       string
	Playing         bool
	PlayEnabled     bool
	PreviousEnabled bool
	NextEnabled     bool
	AutoScroll      bool
}

// Widget is the player's view model. It is safe for concurrent use.
type Widget struct {
	mu sync.Mutex

	id         string
	visible    bool
	expanded   bool
	title      string
	status     string
	words      []string
	activeWord int
	pointIndex int
	pointCount int
	current    float64
	duration   float64
	playing    bool
	controls   bool
	autoScroll bool

	changed chan struct{}
}

// NewWidget creates a visible, collapsed widget with controls disabled.
func NewWidget(id string) *Widget {
	return &Widget{
		id:         id,
		visible:    true,
		activeWord: playback.NoWord,
		changed:    make(chan struct{}, 1),
	}
}

// Changed delivers a signal after every visible change. Signals coalesce.
func (w *Widget) Changed() <-chan struct{} {
	return w.changed
}

func (w *Widget) update(fn func()) {
	w.mu.Lock()
	fn()
	w.mu.Unlock()
	select {
	case w.changed <- struct{}{}:
	default:
	}
}

// ShowPoint replaces the displayed point.
func (w *Widget) ShowPoint(index, total int, point summary.Point) {
	w.update(func() {
		w.status = ""
		w.words = point.Words()
		if len(w.words) == 0 && strings.TrimSpace(point.Text) != "" {
			w.words = strings.Fields(point.Text)
		}
		w.activeWord = playback.NoWord
		w.pointIndex = index
		w.pointCount = total
		w.current = 0
		w.duration = point.Duration
	})
}

// HighlightWord marks the active word; playback.NoWord clears it.
func (w *Widget) HighlightWord(index int) {
	w.update(func() { w.activeWord = index })
}

// ShowTime updates the time display.
func (w *Widget) ShowTime(current, total float64) {
	w.update(func() {
		w.current = current
		w.duration = total
	})
}

// ShowPlaying switches the play button label.
func (w *Widget) ShowPlaying(playing bool) {
	w.update(func() { w.playing = playing })
}

// SetTitle sets the summary title shown in the header.
func (w *Widget) SetTitle(title string) {
	w.update(func() { w.title = strings.TrimSpace(title) })
}

// SetStatus shows a status message instead of point text.
func (w *Widget) SetStatus(msg string) {
	w.update(func() {
		w.status = msg
		w.words = nil
		w.activeWord = playback.NoWord
		w.current = 0
		w.duration = 0
		w.pointIndex = 0
		w.pointCount = 0
	})
}

// SetControlsEnabled turns play and navigation on or off.
func (w *Widget) SetControlsEnabled(enabled bool) {
	w.update(func() { w.controls = enabled })
}

// SetAutoScroll reflects the auto-scroll checkbox.
func (w *Widget) SetAutoScroll(enabled bool) {
	w.update(func() { w.autoScroll = enabled })
}

// Show makes the widget visible.
func (w *Widget) Show() { w.update(func() { w.visible = true }) }

// Hide hides the widget.
func (w *Widget) Hide() { w.update(func() { w.visible = false }) }

// Expand shows the full player, as on hover.
func (w *Widget) Expand() { w.update(func() { w.expanded = true }) }

// Collapse returns to the compact player.
func (w *Widget) Collapse() { w.update(func() { w.expanded = false }) }

// Visible reports whether the widget is shown.
func (w *Widget) Visible() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.visible
}

// Snapshot captures the current state.
func (w *Widget) Snapshot() State {
	w.mu.Lock()
	defer w.mu.Unlock()

	st := State{
		ID:         w.id,
		Visible:    w.visible,
		Expanded:   w.expanded,
		Header:     defaultHeader,
		Tooltip:    w.title,
		Status:     w.status,
		Words:      append([]string(nil), w.words...),
		ActiveWord: w.activeWord,
		PointIndex: w.pointIndex,
		PointCount: w.pointCount,
		Playing:    w.playing,
		AutoScroll: w.autoScroll,
		PlayLabel:  playLabel,
	}
	if w.title != "" {
		short, _ := textutil.Truncate(w.title, headerTitleLimit)
		st.Header = "Summary: " + short + "..."
	}
	if w.playing {
		st.PlayLabel = pauseLabel
	}
	if w.pointCount > 0 {
		st.PointIndicator = strconv.Itoa(w.pointIndex+1) + "/" + strconv.Itoa(w.pointCount)
		st.TimeDisplay = summary.FormatClock(w.current) + " / " + summary.FormatClock(w.duration)
	}
	st.PlayEnabled = w.controls && w.pointCount > 0
	st.PreviousEnabled = st.PlayEnabled && w.pointIndex > 0
	st.NextEnabled = st.PlayEnabled && w.pointIndex < w.pointCount-1
	return st
}

// PointText joins the displayed words.
func (s State) PointText() string {
	return strings.Join(s.Words, " ")
}
