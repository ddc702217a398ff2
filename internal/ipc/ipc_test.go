package ipc_test

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"readaloud/internal/api"
	"readaloud/internal/ipc"
	"readaloud/internal/logging"
	"readaloud/internal/services"
	"readaloud/internal/summary"
	"readaloud/internal/testsupport"
)

type fakeBackend struct {
	requestIDs chan string
}

func (f *fakeBackend) ProcessPage(ctx context.Context, req api.ProcessPageRequest) api.ProcessPageResponse {
	if id, ok := services.RequestIDFromContext(ctx); ok {
		f.requestIDs <- id
	}
	if req.Article.Content == "fail" {
		return api.Failure(errors.New("cannot summarize"))
	}
	return api.Success(summary.Summary{
		Title:  req.Article.Title,
		Points: []summary.Point{{ID: "point-0", Text: req.Article.Content}},
	})
}

func (f *fakeBackend) Status(context.Context) api.DaemonStatus {
	return api.DaemonStatus{Running: true, PID: 42}
}

func startServer(t *testing.T) (string, *fakeBackend) {
	t.Helper()
	srv, backend := newServer(t)
	return srv.Path(), backend
}

func newServer(t *testing.T) (*ipc.Server, *fakeBackend) {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatal(err)
	}
	backend := &fakeBackend{requestIDs: make(chan string, 4)}

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	socket := cfg.Paths.SocketPath
	srv, err := ipc.NewServer(ctx, socket, backend, logging.NewNop())
	if err != nil {
		if strings.Contains(err.Error(), "operation not permitted") {
			t.Skipf("skipping IPC server test: %v", err)
		}
		t.Fatalf("ipc.NewServer: %v", err)
	}
	srv.Serve()
	t.Cleanup(srv.Close)
	return srv, backend
}

func TestProcessPageRoundTrip(t *testing.T) {
	socket, backend := startServer(t)

	client, err := ipc.Dial(socket)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	resp, err := client.ProcessPage(ctx, api.ProcessPageRequest{Article: api.ArticlePayload{Title: "T", Content: "Body text"}})
	if err != nil {
		t.Fatalf("ProcessPage: %v", err)
	}
	sum, err := resp.Summary()
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if sum.Title != "T" || len(sum.Points) != 1 || sum.Points[0].Text != "Body text" {
		t.Fatalf("unexpected summary: %+v", sum)
	}
	select {
	case id := <-backend.requestIDs:
		if id == "" {
			t.Fatal("expected correlation id")
		}
	default:
		t.Fatal("backend saw no correlation id")
	}

	resp, err = client.ProcessPage(ctx, api.ProcessPageRequest{Article: api.ArticlePayload{Content: "fail"}})
	if err != nil {
		t.Fatalf("ProcessPage failure transport: %v", err)
	}
	if resp.Status != api.StatusError || resp.Message != "cannot summarize" {
		t.Fatalf("unexpected error response: %+v", resp)
	}

	status, err := client.Status(ctx)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if !status.Running || status.PID != 42 {
		t.Fatalf("unexpected status: %+v", status)
	}
}

func TestDialMissingSocket(t *testing.T) {
	_, err := ipc.Dial(filepath.Join(t.TempDir(), "missing.sock"))
	if !errors.Is(err, services.ErrTransport) {
		t.Fatalf("expected transport error, got %v", err)
	}
}

func TestCloseDropsIdleClients(t *testing.T) {
	srv, _ := newServer(t)

	client, err := ipc.Dial(srv.Path())
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := client.ProcessPage(ctx, api.ProcessPageRequest{Article: api.ArticlePayload{Content: "Body text"}}); err != nil {
		t.Fatalf("ProcessPage: %v", err)
	}

	done := make(chan struct{})
	go func() {
		srv.Close()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Close blocked on an idle client connection")
	}

	if _, err := client.Status(ctx); err == nil {
		t.Fatal("expected error after server close")
	}
}
