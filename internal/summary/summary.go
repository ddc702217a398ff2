package summary

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

// timingEpsilon absorbs float drift from summing fixed word durations.
const timingEpsilon = 1e-9

// WordTiming locates one word within a point's timeline, in seconds.
type WordTiming struct {
	Word  string  `json:"word" yaml:"word"`
	Start float64 `json:"start" yaml:"start"`
	End   float64 `json:"end" yaml:"end"`
}

// Length returns the time the word stays active.
func (w WordTiming) Length() float64 {
	return w.End - w.Start
}

// Point is one segment of a summary. Points are immutable once produced.
type Point struct {
	ID              string       `json:"id" yaml:"id"`
	Text            string       `json:"text" yaml:"text"`
	OriginalTextRef string       `json:"originalTextRef" yaml:"original_text_ref"`
	Duration        float64      `json:"duration" yaml:"duration"`
	WordTimings     []WordTiming `json:"wordTimings" yaml:"word_timings"`
}

// WordIndexAt returns the index of the word active at t, i.e. the first word
// whose end lies beyond t. It returns len(WordTimings) once t has passed the
// last word.
func (p Point) WordIndexAt(t float64) int {
	for i, w := range p.WordTimings {
		if w.End > t+timingEpsilon {
			return i
		}
	}
	return len(p.WordTimings)
}

// Words returns the plain word sequence of the point.
func (p Point) Words() []string {
	words := make([]string, len(p.WordTimings))
	for i, w := range p.WordTimings {
		words[i] = w.Word
	}
	return words
}

// Summary is the provider's answer to one page-processing request.
type Summary struct {
	Title  string  `json:"title" yaml:"title"`
	Points []Point `json:"points" yaml:"points"`
}

// Empty reports whether the summary has no points to play.
func (s *Summary) Empty() bool {
	return s == nil || len(s.Points) == 0
}

// TotalDuration sums the durations of every point.
func (s *Summary) TotalDuration() float64 {
	if s == nil {
		return 0
	}
	var total float64
	for _, p := range s.Points {
		total += p.Duration
	}
	return total
}

var (
	ErrNegativeDuration = errors.New("negative duration")
	ErrTimingOrder      = errors.New("word timings out of order")
	ErrTimingGap        = errors.New("word timings not contiguous")
	ErrTimingOverrun    = errors.New("word timing exceeds point duration")
)

// Validate checks the timing invariants of every point: timings start at or
// after zero, never run backwards, each word starts where the previous one
// ended, and no word ends after the point's duration.
func (s *Summary) Validate() error {
	if s == nil {
		return nil
	}
	for i, p := range s.Points {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("point %d (%s): %w", i, p.ID, err)
		}
	}
	return nil
}

// Validate checks the timing invariants of a single point.
func (p Point) Validate() error {
	if p.Duration < 0 {
		return ErrNegativeDuration
	}
	prevEnd := 0.0
	for i, w := range p.WordTimings {
		if w.Start < -timingEpsilon || w.End+timingEpsilon < w.Start {
			return fmt.Errorf("%w: word %d %q [%g, %g]", ErrTimingOrder, i, w.Word, w.Start, w.End)
		}
		if i > 0 && math.Abs(w.Start-prevEnd) > timingEpsilon {
			return fmt.Errorf("%w: word %d starts at %g, previous ended at %g", ErrTimingGap, i, w.Start, prevEnd)
		}
		if w.End > p.Duration+timingEpsilon {
			return fmt.Errorf("%w: word %d ends at %g, duration %g", ErrTimingOverrun, i, w.End, p.Duration)
		}
		prevEnd = w.End
	}
	return nil
}

// FormatClock renders seconds as m:ss, truncating fractions.
func FormatClock(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}
	total := int(math.Floor(seconds))
	sec := strconv.Itoa(total % 60)
	if len(sec) < 2 {
		sec = "0" + sec
	}
	return strconv.Itoa(total/60) + ":" + sec
}
