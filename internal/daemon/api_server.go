package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"readaloud/internal/api"
	"readaloud/internal/config"
	"readaloud/internal/logging"
	"readaloud/internal/services"
)

const (
	maxRequestBytes = 8 << 20
	requestIDHeader = "X-Request-ID"
)

type processor interface {
	ProcessPage(ctx context.Context, req api.ProcessPageRequest) api.ProcessPageResponse
	Status(ctx context.Context) api.DaemonStatus
}

type apiServer struct {
	bind    string
	logger  *slog.Logger
	backend processor
	handler http.Handler

	listener net.Listener
	server   *http.Server
}

type errorBody struct {
	Error      string `json:"error"`
	RetryAfter string `json:"retryAfter,omitempty"`
}

// newAPIServer returns nil when no bind address is configured.
func newAPIServer(cfg *config.Config, backend processor, logger *slog.Logger) (*apiServer, error) {
	if cfg == nil || backend == nil {
		return nil, errors.New("api server requires config and backend")
	}
	bind := strings.TrimSpace(cfg.Paths.APIBind)
	if bind == "" {
		return nil, nil
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	srv := &apiServer{
		bind:    bind,
		logger:  logging.NewComponentLogger(logger, "api-server"),
		backend: backend,
	}

	limiter := newLimiter(cfg.Provider.RateLimitPerMinute)
	mux := http.NewServeMux()
	mux.Handle("/api/process-page", rateLimitMiddleware(limiter, http.HandlerFunc(srv.handleProcessPage)))
	mux.HandleFunc("/api/status", srv.handleStatus)
	srv.handler = authMiddleware(cfg.Paths.APIToken, srv.withRequestID(mux))

	srv.server = &http.Server{
		Handler:           srv.handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second + cfg.ProviderLatency(),
		IdleTimeout:       60 * time.Second,
	}
	return srv, nil
}

func (s *apiServer) listen() error {
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.listener = listener
	s.logger.Info("api server listening", logging.String("address", listener.Addr().String()))
	return nil
}

func (s *apiServer) addr() string {
	if s == nil || s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

func (s *apiServer) serve() error {
	if err := s.server.Serve(s.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("api server: %w", err)
	}
	return nil
}

func (s *apiServer) stop() {
	if s == nil || s.server == nil {
		return
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = s.server.Shutdown(shutdownCtx)
}

// withRequestID tags every request with a correlation id, honouring one sent
// by the caller.
func (s *apiServer) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(requestIDHeader))
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		ctx := services.WithRequestID(r.Context(), id)
		ctx = services.WithSource(ctx, "http")
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *apiServer) handleProcessPage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody{Error: "method not allowed"})
		return
	}
	var req api.ProcessPageRequest
	dec := json.NewDecoder(io.LimitReader(r.Body, maxRequestBytes))
	if err := dec.Decode(&req); err != nil {
		logging.WithContext(r.Context(), s.logger).Debug("rejecting malformed processPage body", logging.Error(err))
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body"})
		return
	}
	if req.Action != "" && req.Action != api.ActionProcessPage {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "unsupported action " + req.Action})
		return
	}
	writeJSON(w, http.StatusOK, s.backend.ProcessPage(r.Context(), req))
}

func (s *apiServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody{Error: "method not allowed"})
		return
	}
	writeJSON(w, http.StatusOK, s.backend.Status(r.Context()))
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}
