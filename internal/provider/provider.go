package provider

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"readaloud/internal/config"
	"readaloud/internal/logging"
	"readaloud/internal/services"
	"readaloud/internal/summary"
)

var sentenceTerminators = regexp.MustCompile(`[.!?]+`)

// Options tunes the stub summarizer.
type Options struct {
	MaxPoints         int
	MinSentenceLength int
	WordDuration      float64
	Latency           time.Duration
}

// OptionsFromConfig derives provider options from application configuration.
func OptionsFromConfig(cfg *config.Config) Options {
	if cfg == nil {
		d := config.Default()
		cfg = &d
	}
	return Options{
		MaxPoints:         cfg.Provider.MaxPoints,
		MinSentenceLength: cfg.Provider.MinSentenceLength,
		WordDuration:      cfg.Provider.WordDurationSeconds,
		Latency:           cfg.ProviderLatency(),
	}
}

// Generator produces summaries. It is safe for concurrent use.
type Generator struct {
	opts   Options
	logger *slog.Logger
	sleep  func(context.Context, time.Duration) error
}

// New constructs a Generator.
func New(opts Options, logger *slog.Logger) *Generator {
	if opts.MaxPoints <= 0 {
		opts.MaxPoints = 5
	}
	if opts.WordDuration <= 0 {
		opts.WordDuration = 0.4
	}
	return &Generator{
		opts:   opts,
		logger: logging.NewComponentLogger(logger, "provider"),
		sleep:  sleepContext,
	}
}

// GenerateSummary builds a summary for the article text. It either returns a
// complete summary or fails with an error marked services.ErrProcessing.
func (g *Generator) GenerateSummary(ctx context.Context, text, title string) (summary.Summary, error) {
	logger := logging.WithContext(ctx, g.logger)
	logger.Debug("generating summary", logging.String("title", title), logging.Int("text_length", len(text)))

	if err := ctx.Err(); err != nil {
		return summary.Summary{}, services.Wrap(services.ErrProcessing, "provider", "generate", "request canceled", err)
	}

	points := g.buildPoints(text)
	result := summary.Summary{Title: title, Points: points}
	if err := result.Validate(); err != nil {
		return summary.Summary{}, services.Wrap(services.ErrProcessing, "provider", "validate", "inconsistent word timings", err)
	}

	if g.opts.Latency > 0 {
		if err := g.sleep(ctx, g.opts.Latency); err != nil {
			return summary.Summary{}, services.Wrap(services.ErrProcessing, "provider", "generate", "request canceled", err)
		}
	}

	logger.Info("summary generated",
		logging.String("title", title),
		logging.Int(logging.FieldPointCount, len(points)),
		logging.Float64("total_seconds", result.TotalDuration()))
	return result, nil
}

// SplitSentences returns the candidate point texts for the article: trimmed
// fragments between sentence terminators that are longer than the minimum
// length, capped at the configured maximum.
func (g *Generator) SplitSentences(text string) []string {
	fragments := sentenceTerminators.Split(text, -1)
	out := make([]string, 0, g.opts.MaxPoints)
	for _, fragment := range fragments {
		trimmed := strings.TrimSpace(fragment)
		if utf8.RuneCountInString(trimmed) <= g.opts.MinSentenceLength {
			continue
		}
		out = append(out, trimmed)
		if len(out) == g.opts.MaxPoints {
			break
		}
	}
	return out
}

func (g *Generator) buildPoints(text string) []summary.Point {
	sentences := g.SplitSentences(text)
	points := make([]summary.Point, 0, len(sentences))
	for i, sentence := range sentences {
		words := strings.Fields(sentence)
		timings := make([]summary.WordTiming, 0, len(words))
		current := 0.0
		for _, word := range words {
			timings = append(timings, summary.WordTiming{Word: word, Start: current, End: current + g.opts.WordDuration})
			current += g.opts.WordDuration
		}
		points = append(points, summary.Point{
			ID:              fmt.Sprintf("point-%d", i),
			Text:            sentence,
			OriginalTextRef: sentence,
			Duration:        float64(len(words)) * g.opts.WordDuration,
			WordTimings:     timings,
		})
	}
	return points
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
