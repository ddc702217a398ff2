package api

import (
	"context"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"readaloud/internal/logging"
	"readaloud/internal/services"
	"readaloud/internal/summary"
)

// SummaryGenerator produces a summary for article text.
type SummaryGenerator interface {
	GenerateSummary(ctx context.Context, text, title string) (summary.Summary, error)
}

// ProcessPageService answers processPage requests.
type ProcessPageService struct {
	generator SummaryGenerator
	logger    *slog.Logger
	served    atomic.Int64
	failures  atomic.Int64
}

// NewProcessPageService wraps generator.
func NewProcessPageService(generator SummaryGenerator, logger *slog.Logger) *ProcessPageService {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &ProcessPageService{
		generator: generator,
		logger:    logging.NewComponentLogger(logger, "process-page"),
	}
}

// ProcessPage generates a summary for req. Failures become error responses;
// the returned response is always well formed.
func (s *ProcessPageService) ProcessPage(ctx context.Context, req ProcessPageRequest) ProcessPageResponse {
	s.served.Add(1)
	logger := logging.WithContext(ctx, s.logger)
	started := time.Now()

	if s.generator == nil {
		s.failures.Add(1)
		return Failure(services.Wrap(services.ErrConfiguration, "api", "processPage", "no summary generator configured", nil))
	}
	if req.Action != "" && req.Action != ActionProcessPage {
		s.failures.Add(1)
		return Failure(services.Wrap(services.ErrValidation, "api", "processPage", "unsupported action "+req.Action, nil))
	}
	if strings.TrimSpace(req.Article.Content) == "" {
		logger.Info("article has no content; returning empty summary",
			logging.String(logging.FieldEventType, "empty_article"),
		)
	}

	sum, err := s.generator.GenerateSummary(ctx, req.Article.Content, req.Article.Title)
	if err != nil {
		s.failures.Add(1)
		logging.WarnWithContext(logger, "summary generation failed", "summary_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check provider configuration"),
			logging.String(logging.FieldImpact, "page shows an error instead of a summary"),
		)
		return Failure(err)
	}

	logger.Info("summary generated",
		logging.String(logging.FieldEventType, "summary_generated"),
		logging.Int(logging.FieldPointCount, len(sum.Points)),
		logging.Duration("elapsed", time.Since(started)),
	)
	return Success(sum)
}

// Counters returns how many requests were served and how many failed.
func (s *ProcessPageService) Counters() (served, failures int64) {
	return s.served.Load(), s.failures.Load()
}

// Local adapts a ProcessPageService to the client-side calling convention, so
// the overlay can run without a daemon.
type Local struct {
	Service *ProcessPageService
}

// ProcessPage never fails at the transport level.
func (l Local) ProcessPage(ctx context.Context, req ProcessPageRequest) (ProcessPageResponse, error) {
	return l.Service.ProcessPage(ctx, req), nil
}
