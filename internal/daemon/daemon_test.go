package daemon_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"readaloud/internal/api"
	"readaloud/internal/daemon"
	"readaloud/internal/ipc"
	"readaloud/internal/logging"
	"readaloud/internal/provider"
	"readaloud/internal/testsupport"
)

func TestDaemonLockIsExclusive(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	gen := provider.New(provider.OptionsFromConfig(cfg), logging.NewNop())

	first, err := daemon.New(cfg, gen, logging.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	second, err := daemon.New(cfg, gen, logging.NewNop())
	if err != nil {
		t.Fatal(err)
	}

	if err := first.Start(); err != nil {
		t.Fatalf("first Start: %v", err)
	}
	defer first.Stop()

	if err := second.Start(); !errors.Is(err, daemon.ErrAlreadyRunning) {
		t.Fatalf("expected ErrAlreadyRunning, got %v", err)
	}
	if err := first.Start(); err == nil {
		t.Fatal("expected error starting twice")
	}

	first.Stop()
	if err := second.Start(); err != nil {
		t.Fatalf("second Start after release: %v", err)
	}
	second.Stop()
}

func TestDaemonNewRequiresGenerator(t *testing.T) {
	if _, err := daemon.New(testsupport.NewConfig(t), nil, nil); err == nil {
		t.Fatal("expected error without generator")
	}
}

func TestDaemonRunServesIPCAndHTTP(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	gen := provider.New(provider.OptionsFromConfig(cfg), logging.NewNop())
	d, err := daemon.New(cfg, gen, logging.NewNop())
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- d.Run(ctx) }()

	deadline := time.Now().Add(5 * time.Second)
	var client *ipc.Client
	for time.Now().Before(deadline) {
		client, err = ipc.Dial(cfg.Paths.SocketPath)
		if err == nil {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	if client == nil {
		cancel()
		if runErr := <-done; runErr != nil && strings.Contains(runErr.Error(), "operation not permitted") {
			t.Skipf("skipping daemon run test: %v", runErr)
		}
		t.Fatalf("daemon socket never came up: %v", err)
	}
	defer client.Close()

	resp, err := client.ProcessPage(ctx, api.ProcessPageRequest{Article: api.ArticlePayload{
		Title:   "Run",
		Content: "The daemon answers over its socket. Short. It also answers over HTTP!",
	}})
	if err != nil {
		t.Fatalf("ProcessPage: %v", err)
	}
	sum, err := resp.Summary()
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if len(sum.Points) != 2 {
		t.Fatalf("expected 2 points, got %d", len(sum.Points))
	}

	for d.APIAddr() == "" && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	httpClient := daemon.NewHTTPClient(d.APIAddr(), "", nil)
	status, err := httpClient.Status(ctx)
	if err != nil {
		t.Fatalf("HTTP Status: %v", err)
	}
	if !status.Running || status.RequestsServed != 1 {
		t.Fatalf("unexpected status: %+v", status)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("daemon did not shut down")
	}
	if d.Status(context.Background()).Running {
		t.Fatal("expected daemon stopped after Run")
	}
}
