package daemon

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"readaloud/internal/api"
	"readaloud/internal/services"
)

// HTTPClient calls the daemon's HTTP API.
type HTTPClient struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewHTTPClient targets the API at bind, a host:port or full URL.
func NewHTTPClient(bind, token string, client *http.Client) *HTTPClient {
	base := strings.TrimRight(strings.TrimSpace(bind), "/")
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "http://" + base
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPClient{baseURL: base, token: token, client: client}
}

// ProcessPage posts a processPage request. Non-200 answers are transport
// failures; provider failures arrive as error responses.
func (c *HTTPClient) ProcessPage(ctx context.Context, req api.ProcessPageRequest) (api.ProcessPageResponse, error) {
	if req.Action == "" {
		req.Action = api.ActionProcessPage
	}
	body, err := json.Marshal(req)
	if err != nil {
		return api.ProcessPageResponse{}, services.Wrap(services.ErrTransport, "http", "processPage", "encode request", err)
	}
	var resp api.ProcessPageResponse
	if err := c.do(ctx, http.MethodPost, "/api/process-page", bytes.NewReader(body), &resp); err != nil {
		return api.ProcessPageResponse{}, err
	}
	return resp, nil
}

// Status fetches daemon status.
func (c *HTTPClient) Status(ctx context.Context) (api.DaemonStatus, error) {
	var resp api.DaemonStatus
	if err := c.do(ctx, http.MethodGet, "/api/status", nil, &resp); err != nil {
		return api.DaemonStatus{}, err
	}
	return resp, nil
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return services.Wrap(services.ErrTransport, "http", path, "build request", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	res, err := c.client.Do(req)
	if err != nil {
		return services.Wrap(services.ErrTransport, "http", path, "", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		var apiErr errorBody
		_ = json.NewDecoder(io.LimitReader(res.Body, 4096)).Decode(&apiErr)
		return services.Wrap(services.ErrTransport, "http", path, fmt.Sprintf("status %d %s", res.StatusCode, apiErr.Error), nil)
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return services.Wrap(services.ErrTransport, "http", path, "decode response", err)
	}
	return nil
}
