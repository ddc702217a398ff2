package overlay

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"readaloud/internal/api"
	"readaloud/internal/extract"
	"readaloud/internal/locator"
	"readaloud/internal/logging"
	"readaloud/internal/page"
	"readaloud/internal/playback"
	"readaloud/internal/services"
	"readaloud/internal/summary"
)

// DefaultContainerID is the id of the element the overlay lives in.
const DefaultContainerID = "readaloud-summary-player-container"

// ErrTornDown is returned by operations on a controller after Teardown.
var ErrTornDown = errors.New("overlay torn down")

// Backend delivers processPage requests to the provider. An error means the
// exchange failed; provider failures arrive as error responses.
type Backend interface {
	ProcessPage(ctx context.Context, req api.ProcessPageRequest) (api.ProcessPageResponse, error)
}

// Preferences persists the auto-scroll setting.
type Preferences interface {
	AutoScrollEnabled(ctx context.Context) (bool, error)
	SetAutoScrollEnabled(ctx context.Context, enabled bool) error
}

// Options configures a Controller.
type Options struct {
	ContainerID     string
	HighlightClass  string
	HighlightHold   time.Duration
	LengthTolerance float64
	Clock           playback.Clock
	Scroller        locator.Scroller
	Preferences     Preferences
	Logger          *slog.Logger
}

// Controller runs the overlay for one page.
type Controller struct {
	mu sync.Mutex

	doc         *page.Document
	backend     Backend
	prefs       Preferences
	containerID string
	logger      *slog.Logger

	widget      *Widget
	scheduler   *playback.Scheduler
	highlighter *locator.Highlighter

	created  bool
	loadGen  uint64
	failure  services.FailureKind
	torn     bool
}

// NewController prepares an overlay for doc. Nothing is shown until Init.
func NewController(doc *page.Document, backend Backend, opts Options) *Controller {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	containerID := opts.ContainerID
	if containerID == "" {
		containerID = DefaultContainerID
	}
	clock := opts.Clock
	if clock == nil {
		clock = playback.RealClock()
	}

	c := &Controller{
		doc:         doc,
		backend:     backend,
		prefs:       opts.Preferences,
		containerID: containerID,
		logger:      logging.NewComponentLogger(logger, "overlay"),
		widget:      NewWidget(containerID),
	}
	c.highlighter = locator.NewHighlighter(doc, locator.HighlighterOptions{
		Class:     opts.HighlightClass,
		Hold:      opts.HighlightHold,
		Tolerance: opts.LengthTolerance,
		ExcludeID: containerID,
		Scroller:  opts.Scroller,
		Clock:     clock,
		Logger:    logger,
	})
	c.scheduler = playback.NewScheduler(c.widget,
		playback.WithClock(clock),
		playback.WithLogger(logger),
		playback.WithPointListener(func(_ int, p summary.Point) {
			c.highlighter.Highlight(p.OriginalTextRef)
		}),
	)
	return c
}

// Widget exposes the view model, mostly for rendering.
func (c *Controller) Widget() *Widget {
	return c.widget
}

// Scheduler exposes playback, mostly for inspection.
func (c *Controller) Scheduler() *playback.Scheduler {
	return c.scheduler
}

// Failure reports why the last Init ended without a playable summary.
func (c *Controller) Failure() services.FailureKind {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.failure
}

// Init creates the player, or reuses and shows an existing one, then extracts
// the article and loads its summary. Every failure leaves the player showing
// a terminal message with controls disabled; the error is also returned.
func (c *Controller) Init(ctx context.Context) error {
	c.mu.Lock()
	if c.torn {
		c.mu.Unlock()
		return ErrTornDown
	}
	c.ensureUILocked(ctx)
	c.loadGen++
	gen := c.loadGen
	c.failure = services.FailureNone
	c.scheduler.Load(nil)
	c.widget.SetControlsEnabled(false)
	c.widget.SetStatus(StatusExtracting)

	article, err := extract.Extract(c.doc, extract.Options{ExcludeID: c.containerID})
	if err != nil {
		c.failLocked(services.FailureExtraction, StatusNoArticle)
		c.mu.Unlock()
		logging.WarnWithContext(c.logger, "article extraction failed", "extraction_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "no summary for this page"),
			logging.String(logging.FieldErrorHint, "page may not contain article content"),
		)
		return err
	}
	c.widget.SetStatus(StatusGenerating)
	c.mu.Unlock()

	resp, err := c.backend.ProcessPage(ctx, api.ProcessPageRequest{
		Action:  api.ActionProcessPage,
		Article: api.ArticlePayload{Title: article.Title, Content: article.Content},
	})

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.torn || gen != c.loadGen {
		return nil
	}
	if err != nil {
		c.failLocked(services.FailureTransport, StatusTransportFailed)
		logging.WarnWithContext(c.logger, "provider unreachable", "transport_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "no summary for this page"),
			logging.String(logging.FieldErrorHint, "start the daemon with 'readaloud daemon'"),
		)
		return services.Wrap(services.ErrTransport, "overlay", "processPage", "", err)
	}

	sum, err := resp.Summary()
	if err != nil {
		if kind := services.Classify(err); kind == services.FailureTransport {
			c.failLocked(kind, StatusTransportFailed)
		} else {
			c.failLocked(kind, "Error generating summary: "+api.ProviderMessage(err))
		}
		logging.WarnWithContext(c.logger, "summary generation failed", "summary_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "no summary for this page"),
		)
		return err
	}

	c.widget.SetTitle(sum.Title)
	if sum.Empty() {
		msg := StatusNoPoints
		if sum.Title != "" {
			msg = fmt.Sprintf("No summary points for: %s.", sum.Title)
		}
		c.failLocked(services.FailureEmpty, msg)
		c.logger.Info("summary has no points", logging.String("title", sum.Title))
		return nil
	}

	c.widget.SetControlsEnabled(true)
	c.scheduler.Load(&sum)
	c.logger.Info("summary loaded",
		logging.String(logging.FieldEventType, "summary_loaded"),
		logging.Int(logging.FieldPointCount, len(sum.Points)),
	)
	return nil
}

func (c *Controller) failLocked(kind services.FailureKind, msg string) {
	c.failure = kind
	c.scheduler.Load(nil)
	c.widget.SetControlsEnabled(false)
	c.widget.SetStatus(msg)
}

// ensureUILocked injects the container once; later calls just show it.
func (c *Controller) ensureUILocked(ctx context.Context) {
	if c.created {
		c.widget.Show()
		return
	}
	c.doc.Do(func(root *html.Node) {
		if page.ElementByID(root, c.containerID) != nil {
			return
		}
		parent := page.Body(root)
		if parent == nil {
			parent = root
		}
		parent.AppendChild(page.NewElement(atom.Div, "id", c.containerID))
	})
	c.created = true
	c.widget.Show()

	autoScroll := false
	if c.prefs != nil {
		enabled, err := c.prefs.AutoScrollEnabled(ctx)
		if err != nil {
			c.logger.Debug("could not read auto-scroll preference", logging.Error(err))
		}
		autoScroll = enabled
	}
	c.widget.SetAutoScroll(autoScroll)
	c.highlighter.SetAutoScroll(autoScroll)
}

// TogglePlayer handles the host's togglePlayer message. Without a player it
// initialises one and reports "initialized"; otherwise it flips visibility.
// Hiding pauses playback; showing never resumes it.
func (c *Controller) TogglePlayer(ctx context.Context) (api.TogglePlayerResponse, error) {
	c.mu.Lock()
	created, torn := c.created, c.torn
	c.mu.Unlock()
	if torn {
		return api.TogglePlayerResponse{}, ErrTornDown
	}
	if !created {
		return api.Initialized(), c.Init(ctx)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.widget.Visible() {
		c.scheduler.Pause()
		c.widget.Hide()
		return api.Toggled(false), nil
	}
	c.widget.Show()
	c.scheduler.Refresh()
	return api.Toggled(true), nil
}

// HoverIn expands the player.
func (c *Controller) HoverIn() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.widget.Expand()
	c.scheduler.Refresh()
}

// HoverOut collapses the player and redraws the current point without
// touching the playback position.
func (c *Controller) HoverOut() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.widget.Collapse()
	c.scheduler.Refresh()
}

// TogglePlayPause is the play button.
func (c *Controller) TogglePlayPause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.widget.Snapshot().PlayEnabled {
		return
	}
	c.scheduler.Toggle()
}

// Next is the next button.
func (c *Controller) Next() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.scheduler.Next()
}

// Previous is the previous button.
func (c *Controller) Previous() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.scheduler.Previous()
}

// Close is the close button: pause and hide.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.scheduler.Pause()
	c.widget.Hide()
}

// SetAutoScroll updates and persists the auto-scroll checkbox.
func (c *Controller) SetAutoScroll(ctx context.Context, enabled bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.widget.SetAutoScroll(enabled)
	c.highlighter.SetAutoScroll(enabled)
	if c.prefs == nil {
		return nil
	}
	if err := c.prefs.SetAutoScrollEnabled(ctx, enabled); err != nil {
		logging.WarnWithContext(c.logger, "failed to persist auto-scroll preference", "settings_write_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "preference resets on next page"),
		)
		return err
	}
	return nil
}

// Teardown stops every timer, clears page markers and removes the container.
func (c *Controller) Teardown() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.torn {
		return
	}
	c.torn = true
	c.scheduler.Close()
	c.highlighter.Close()
	c.widget.Hide()
	c.doc.Do(func(root *html.Node) {
		if n := page.ElementByID(root, c.containerID); n != nil && n.Parent != nil {
			n.Parent.RemoveChild(n)
		}
	})
}
