package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"readaloud/internal/extract"
	"readaloud/internal/logging"
	"readaloud/internal/services"
	"readaloud/internal/summary"
)

// Generator produces summaries from article text.
type Generator interface {
	GenerateSummary(ctx context.Context, text, title string) (summary.Summary, error)
}

// Summarizer is a Handler that writes <name>.summary.yaml beside each page.
type Summarizer struct {
	gen    Generator
	logger *slog.Logger
}

// NewSummarizer wraps gen.
func NewSummarizer(gen Generator, logger *slog.Logger) *Summarizer {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Summarizer{gen: gen, logger: logging.NewComponentLogger(logger, "watcher")}
}

// OutputPath returns where the summary of the page at path is written.
func OutputPath(path string) string {
	base := strings.TrimSuffix(path, filepath.Ext(path))
	return base + ".summary.yaml"
}

// Handle summarises the page at path.
func (s *Summarizer) Handle(ctx context.Context, path string) error {
	doc, err := extract.LoadFile(path)
	if err != nil {
		return err
	}
	article, err := extract.Extract(doc, extract.Options{})
	if err != nil {
		return err
	}
	sum, err := s.gen.GenerateSummary(ctx, article.Content, article.Title)
	if err != nil {
		return err
	}
	if sum.Empty() {
		return services.Wrap(services.ErrEmptySummary, "watcher", "summarize", filepath.Base(path), nil)
	}
	data, err := yaml.Marshal(sum)
	if err != nil {
		return services.Wrap(services.ErrProcessing, "watcher", "encode", "encode summary", err)
	}
	out := OutputPath(path)
	tmp := out + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	if err := os.Rename(tmp, out); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("write summary: %w", err)
	}
	s.logger.Info("summary written",
		logging.String("path", out),
		logging.Int(logging.FieldPointCount, len(sum.Points)),
	)
	return nil
}
