package host

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"readaloud/internal/api"
	"readaloud/internal/logging"
	"readaloud/internal/overlay"
	"readaloud/internal/page"
)

var (
	// ErrUnknownTab reports a tab id the host never opened.
	ErrUnknownTab = errors.New("unknown tab")
	// ErrRestrictedPage reports a page scripts may not be injected into.
	ErrRestrictedPage = errors.New("page does not allow script injection")
	// ErrNoReceiver reports a togglePlayer message with no player to receive it.
	ErrNoReceiver = errors.New("no player attached to tab")
	// ErrUnknownAction reports a message the router does not handle.
	ErrUnknownAction = errors.New("unknown message action")
)

// Injected assets, in injection order.
const (
	AssetStylesheet    = "player.css"
	AssetExtractor     = "Readability.js"
	AssetContentScript = "content_script.js"
)

const assetAttr = "data-readaloud-asset"

var restrictedSchemes = []string{"chrome:", "chrome-extension:", "about:", "view-source:", "edge:", "devtools:"}

// ControllerFactory builds the player for a tab's document.
type ControllerFactory func(doc *page.Document) *overlay.Controller

// Tab is one open page.
type Tab struct {
	ID         int
	Doc        *page.Document
	controller *overlay.Controller
	injected   []string
}

// Injected lists the assets injected so far.
func (t *Tab) Injected() []string {
	return append([]string(nil), t.injected...)
}

// Host tracks tabs and dispatches actions to them.
type Host struct {
	mu          sync.Mutex
	tabs        map[int]*Tab
	nextID      int
	factory     ControllerFactory
	backend     overlay.Backend
	containerID string
	logger      *slog.Logger
}

// New creates a host. backend answers processPage messages.
func New(factory ControllerFactory, backend overlay.Backend, containerID string, logger *slog.Logger) *Host {
	if logger == nil {
		logger = logging.NewNop()
	}
	if containerID == "" {
		containerID = overlay.DefaultContainerID
	}
	return &Host{
		tabs:        make(map[int]*Tab),
		factory:     factory,
		backend:     backend,
		containerID: containerID,
		logger:      logging.NewComponentLogger(logger, "host"),
	}
}

// OpenTab registers a document as a new tab.
func (h *Host) OpenTab(doc *page.Document) *Tab {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextID++
	tab := &Tab{ID: h.nextID, Doc: doc}
	h.tabs[tab.ID] = tab
	return tab
}

// CloseTab tears down the tab's player and forgets the tab.
func (h *Host) CloseTab(id int) {
	h.mu.Lock()
	tab, ok := h.tabs[id]
	delete(h.tabs, id)
	h.mu.Unlock()
	if ok && tab.controller != nil {
		tab.controller.Teardown()
	}
}

// Controller returns the player injected into tab id, if any.
func (h *Host) Controller(id int) *overlay.Controller {
	h.mu.Lock()
	defer h.mu.Unlock()
	if tab, ok := h.tabs[id]; ok {
		return tab.controller
	}
	return nil
}

// ActionClicked handles the toolbar action for tab id. A tab that already
// hosts the player container gets a togglePlayer message; any other tab gets
// the stylesheet, extractor and content script injected in that order, after
// which the player initialises itself.
func (h *Host) ActionClicked(ctx context.Context, id int) (api.TogglePlayerResponse, error) {
	h.mu.Lock()
	tab, ok := h.tabs[id]
	h.mu.Unlock()
	if !ok {
		return api.TogglePlayerResponse{}, fmt.Errorf("%w: %d", ErrUnknownTab, id)
	}
	if restricted(tab.Doc.URL()) {
		logging.WarnWithContext(h.logger, "cannot inject into restricted page", "restricted_page",
			logging.String("url", tab.Doc.URL()),
			logging.String(logging.FieldImpact, "player unavailable on this page"),
			logging.String(logging.FieldErrorHint, "open a regular web page"),
		)
		return api.TogglePlayerResponse{}, ErrRestrictedPage
	}

	present := false
	tab.Doc.Do(func(root *html.Node) {
		present = page.ElementByID(root, h.containerID) != nil
	})
	if present {
		return h.Dispatch(ctx, id, Message{Action: api.ActionTogglePlayer})
	}

	h.inject(tab)
	ctrl := h.factory(tab.Doc)
	h.mu.Lock()
	tab.controller = ctrl
	h.mu.Unlock()
	return ctrl.TogglePlayer(ctx)
}

// Message is a runtime message.
type Message struct {
	Action  string              `json:"action"`
	Article *api.ArticlePayload `json:"article,omitempty"`
}

// Dispatch routes msg. processPage goes to the provider backend; togglePlayer
// goes to the tab's player.
func (h *Host) Dispatch(ctx context.Context, id int, msg Message) (api.TogglePlayerResponse, error) {
	switch msg.Action {
	case api.ActionTogglePlayer:
		ctrl := h.Controller(id)
		if ctrl == nil {
			h.logger.Debug("togglePlayer without a player", logging.Int("tab", id))
			return api.TogglePlayerResponse{}, ErrNoReceiver
		}
		return ctrl.TogglePlayer(ctx)
	default:
		return api.TogglePlayerResponse{}, fmt.Errorf("%w: %q", ErrUnknownAction, msg.Action)
	}
}

// ProcessPage routes a processPage message to the provider backend.
func (h *Host) ProcessPage(ctx context.Context, msg Message) (api.ProcessPageResponse, error) {
	if msg.Action != api.ActionProcessPage || msg.Article == nil {
		return api.ProcessPageResponse{}, fmt.Errorf("%w: %q", ErrUnknownAction, msg.Action)
	}
	return h.backend.ProcessPage(ctx, api.ProcessPageRequest{Action: msg.Action, Article: *msg.Article})
}

func (h *Host) inject(tab *Tab) {
	tab.Doc.Do(func(root *html.Node) {
		head := page.Head(root)
		if head == nil {
			head = root
		}
		head.AppendChild(page.NewElement(atom.Link, "rel", "stylesheet", "href", AssetStylesheet, assetAttr, AssetStylesheet))
		head.AppendChild(page.NewElement(atom.Script, "src", AssetExtractor, assetAttr, AssetExtractor))
		head.AppendChild(page.NewElement(atom.Script, "src", AssetContentScript, assetAttr, AssetContentScript))
	})
	h.mu.Lock()
	tab.injected = append(tab.injected, AssetStylesheet, AssetExtractor, AssetContentScript)
	h.mu.Unlock()
	h.logger.Debug("player injected", logging.Int("tab", tab.ID))
}

func restricted(url string) bool {
	lower := strings.ToLower(strings.TrimSpace(url))
	for _, scheme := range restrictedSchemes {
		if strings.HasPrefix(lower, scheme) {
			return true
		}
	}
	return false
}
