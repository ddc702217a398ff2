package playback

import (
	"log/slog"
	"sync"

	"readaloud/internal/logging"
	"readaloud/internal/summary"
)

// State is the playback state of a Scheduler.
type State int

const (
	Stopped State = iota
	Playing
)

func (s State) String() string {
	if s == Playing {
		return "playing"
	}
	return "stopped"
}

// NoWord marks the absence of an active word.
const NoWord = -1

// View receives every visible playback transition. Implementations must not
// call back into the Scheduler.
type View interface {
	ShowPoint(index, total int, point summary.Point)
	HighlightWord(index int)
	ShowTime(current, total float64)
	ShowPlaying(playing bool)
}

// PointListener is notified whenever a different point becomes current.
type PointListener func(index int, point summary.Point)

// Cursor is a snapshot of the playback position.
type Cursor struct {
	PointIndex int
	PointTime  float64
	State      State
	ActiveWord int
}

// Scheduler plays a summary one word at a time.
type Scheduler struct {
	mu         sync.Mutex
	clock      Clock
	view       View
	onPoint    PointListener
	logger     *slog.Logger
	summary    *summary.Summary
	index      int
	time       float64
	state      State
	activeWord int
	timer      Timer
	generation uint64
	closed     bool
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithClock replaces the real clock, typically with a ManualClock in tests.
func WithClock(clock Clock) Option {
	return func(s *Scheduler) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithPointListener registers a callback for point changes.
func WithPointListener(fn PointListener) Option {
	return func(s *Scheduler) {
		s.onPoint = fn
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scheduler) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewScheduler constructs a stopped scheduler with nothing loaded.
func NewScheduler(view View, opts ...Option) *Scheduler {
	s := &Scheduler{
		clock:      RealClock(),
		view:       view,
		logger:     logging.NewNop(),
		activeWord: NoWord,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logging.NewComponentLogger(s.logger, "playback")
	return s
}

// Load replaces the playing summary and positions the cursor on the first
// point, stopped. An empty summary leaves nothing to play.
func (s *Scheduler) Load(sum *summary.Summary) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.cancelLocked()
	s.summary = sum
	s.index = 0
	s.time = 0
	s.activeWord = NoWord
	s.state = Stopped
	if sum.Empty() {
		return
	}
	s.changePointLocked(0, false)
}

// Play starts or resumes playback of the current point. Resuming restarts
// the word that was active when playback paused; a finished point replays
// from the beginning.
func (s *Scheduler) Play() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.summary.Empty() || s.state == Playing {
		return
	}
	s.startLocked()
}

// Pause stops the clock, keeping the position for a later resume.
func (s *Scheduler) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != Playing {
		return
	}
	s.stopLocked()
}

// Toggle flips between playing and paused.
func (s *Scheduler) Toggle() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.summary.Empty() {
		return
	}
	if s.state == Playing {
		s.stopLocked()
		return
	}
	s.startLocked()
}

// Next moves to the following point. It is a no-op on the last point.
func (s *Scheduler) Next() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.summary.Empty() || s.index >= len(s.summary.Points)-1 {
		return false
	}
	s.changePointLocked(s.index+1, s.state == Playing)
	return true
}

// Previous moves to the preceding point. It is a no-op on the first point.
func (s *Scheduler) Previous() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.summary.Empty() || s.index == 0 {
		return false
	}
	s.changePointLocked(s.index-1, s.state == Playing)
	return true
}

// Seek jumps to the point at index, restarting it from zero.
func (s *Scheduler) Seek(index int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.summary.Empty() || index < 0 || index >= len(s.summary.Points) {
		return false
	}
	s.changePointLocked(index, s.state == Playing)
	return true
}

// Refresh re-renders the current point without touching the position.
func (s *Scheduler) Refresh() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.summary.Empty() || s.view == nil {
		return
	}
	p := s.summary.Points[s.index]
	s.view.ShowPoint(s.index, len(s.summary.Points), p)
	s.view.HighlightWord(s.activeWord)
	s.view.ShowTime(s.time, p.Duration)
	s.view.ShowPlaying(s.state == Playing)
}

// Close stops playback for good. Pending timers are canceled and later
// calls become no-ops.
func (s *Scheduler) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelLocked()
	s.closed = true
	s.state = Stopped
}

// Cursor returns the current position.
func (s *Scheduler) Cursor() Cursor {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Cursor{
		PointIndex: s.index,
		PointTime:  s.time,
		State:      s.state,
		ActiveWord: s.activeWord,
	}
}

// Summary returns the loaded summary, or nil.
func (s *Scheduler) Summary() *summary.Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.summary
}

func (s *Scheduler) startLocked() {
	p := s.summary.Points[s.index]
	word := p.WordIndexAt(s.time)
	if word >= len(p.WordTimings) && len(p.WordTimings) > 0 {
		word = 0
		s.time = 0
	}
	if word < len(p.WordTimings) && s.time > p.WordTimings[word].Start {
		s.time = p.WordTimings[word].Start
	}
	s.state = Playing
	s.generation++
	s.showPlaying(true)
	s.logger.Debug("playback started",
		logging.Int(logging.FieldPointIndex, s.index),
		logging.Float64("point_time", s.time),
	)
	s.stepLocked(s.generation, word)
}

// stepLocked schedules activation of word i, or finishes the point when no
// words remain.
func (s *Scheduler) stepLocked(gen uint64, i int) {
	p := s.summary.Points[s.index]
	if i >= len(p.WordTimings) {
		s.finishPointLocked()
		return
	}
	delay := p.WordTimings[i].Start - s.time
	if delay > 0 {
		s.scheduleLocked(delay, gen, func() { s.activateLocked(gen, i) })
		return
	}
	s.activateLocked(gen, i)
}

func (s *Scheduler) activateLocked(gen uint64, i int) {
	p := s.summary.Points[s.index]
	w := p.WordTimings[i]
	s.time = w.Start
	s.activeWord = i
	if s.view != nil {
		s.view.HighlightWord(i)
		s.view.ShowTime(s.time, p.Duration)
	}
	s.scheduleLocked(w.Length(), gen, func() {
		s.time = w.End
		if s.view != nil {
			s.view.ShowTime(s.time, p.Duration)
		}
		s.stepLocked(gen, i+1)
	})
}

func (s *Scheduler) finishPointLocked() {
	p := s.summary.Points[s.index]
	s.time = p.Duration
	if s.index < len(s.summary.Points)-1 {
		s.changePointLocked(s.index+1, true)
		return
	}
	s.logger.Debug("playback finished", logging.Int(logging.FieldPointCount, len(s.summary.Points)))
	s.stopLocked()
	if s.view != nil {
		s.view.ShowTime(s.time, p.Duration)
	}
}

func (s *Scheduler) changePointLocked(i int, keepPlaying bool) {
	s.cancelLocked()
	s.index = i
	s.time = 0
	s.activeWord = NoWord
	p := s.summary.Points[i]
	if s.view != nil {
		s.view.ShowPoint(i, len(s.summary.Points), p)
		s.view.HighlightWord(NoWord)
		s.view.ShowTime(0, p.Duration)
	}
	if s.onPoint != nil {
		s.onPoint(i, p)
	}
	if keepPlaying {
		s.startLocked()
		return
	}
	s.state = Stopped
	s.showPlaying(false)
}

func (s *Scheduler) stopLocked() {
	s.cancelLocked()
	s.state = Stopped
	s.activeWord = NoWord
	if s.view != nil {
		s.view.HighlightWord(NoWord)
	}
	s.showPlaying(false)
}

func (s *Scheduler) showPlaying(playing bool) {
	if s.view != nil {
		s.view.ShowPlaying(playing)
	}
}

func (s *Scheduler) scheduleLocked(delay float64, gen uint64, fn func()) {
	s.timer = s.clock.AfterFunc(seconds(delay), func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.closed || s.state != Playing || gen != s.generation {
			return
		}
		s.timer = nil
		fn()
	})
}

func (s *Scheduler) cancelLocked() {
	s.generation++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}
