package api

import (
	"errors"
	"strings"

	"readaloud/internal/services"
	"readaloud/internal/summary"
)

// Response statuses.
const (
	StatusSuccess     = "success"
	StatusError       = "error"
	StatusToggled     = "toggled"
	StatusInitialized = "initialized"
)

// Message actions understood by the host router.
const (
	ActionProcessPage  = "processPage"
	ActionTogglePlayer = "togglePlayer"
)

// ArticlePayload is the extracted article sent to the provider.
type ArticlePayload struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// ProcessPageRequest asks the provider for a summary of an article.
type ProcessPageRequest struct {
	Action  string         `json:"action,omitempty"`
	Article ArticlePayload `json:"article"`
}

// ProcessPageResponse is the provider's answer.
type ProcessPageResponse struct {
	Status      string           `json:"status"`
	SummaryData *summary.Summary `json:"summaryData,omitempty"`
	Message     string           `json:"message,omitempty"`
}

// TogglePlayerResponse is the overlay's answer to togglePlayer.
type TogglePlayerResponse struct {
	Status     string `json:"status"`
	NowVisible *bool  `json:"nowVisible,omitempty"`
}

// DaemonStatus reports daemon runtime information.
type DaemonStatus struct {
	Running        bool   `json:"running"`
	PID            int    `json:"pid"`
	SocketPath     string `json:"socketPath"`
	APIBind        string `json:"apiBind,omitempty"`
	StartedAt      string `json:"startedAt"`
	RequestsServed int64  `json:"requestsServed"`
	Failures       int64  `json:"failures"`
}

// Success wraps a summary in a success response.
func Success(sum summary.Summary) ProcessPageResponse {
	return ProcessPageResponse{Status: StatusSuccess, SummaryData: &sum}
}

// Failure converts err to an error response. The message is the innermost
// human-readable reason.
func Failure(err error) ProcessPageResponse {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	return ProcessPageResponse{Status: StatusError, Message: msg}
}

// Toggled builds a togglePlayer reply for an existing overlay.
func Toggled(visible bool) TogglePlayerResponse {
	return TogglePlayerResponse{Status: StatusToggled, NowVisible: &visible}
}

// Initialized builds a togglePlayer reply for a freshly created overlay.
func Initialized() TogglePlayerResponse {
	return TogglePlayerResponse{Status: StatusInitialized}
}

// Summary returns the summary carried by a success response, or an error
// tagged services.ErrProcessing for error responses. A malformed response is
// treated as a transport failure.
func (r ProcessPageResponse) Summary() (summary.Summary, error) {
	switch r.Status {
	case StatusSuccess:
		if r.SummaryData == nil {
			return summary.Summary{}, services.Wrap(services.ErrTransport, "api", "processPage", "success response without summaryData", nil)
		}
		return *r.SummaryData, nil
	case StatusError:
		msg := strings.TrimSpace(r.Message)
		if msg == "" {
			msg = "unknown error"
		}
		return summary.Summary{}, &ProviderError{Message: msg}
	default:
		return summary.Summary{}, services.Wrap(services.ErrTransport, "api", "processPage", "unexpected status "+r.Status, nil)
	}
}

// ProviderError is an error reported by the provider itself. Its message is
// shown to the user verbatim.
type ProviderError struct {
	Message string
}

func (e *ProviderError) Error() string {
	return e.Message
}

// Is lets errors.Is classify provider errors as processing failures.
func (e *ProviderError) Is(target error) bool {
	return target == services.ErrProcessing
}

// ProviderMessage extracts the user-facing reason from err.
func ProviderMessage(err error) string {
	var perr *ProviderError
	if errors.As(err, &perr) {
		return perr.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
