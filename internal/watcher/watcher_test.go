package watcher_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"readaloud/internal/extract"
	"readaloud/internal/logging"
	"readaloud/internal/provider"
	"readaloud/internal/services"
	"readaloud/internal/summary"
	"readaloud/internal/testsupport"
	"readaloud/internal/watcher"
)

const page = `<html><head><title>Inbox Story</title></head><body>
<article><p>The first sentence is long enough. The second one is long too.</p></article>
</body></html>`

func TestIsPage(t *testing.T) {
	cases := map[string]bool{
		"a.html":         true,
		"b.HTM":          true,
		"c.xhtml":        true,
		"d.summary.yaml": false,
		"e.txt":          false,
	}
	for name, want := range cases {
		if got := watcher.IsPage(name); got != want {
			t.Errorf("IsPage(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestOutputPath(t *testing.T) {
	if got := watcher.OutputPath("/in/story.html"); got != "/in/story.summary.yaml" {
		t.Fatalf("unexpected output path %q", got)
	}
}

func TestSummarizerWritesYAML(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	path := filepath.Join(cfg.Paths.InboxDir, "story.html")
	if err := os.MkdirAll(cfg.Paths.InboxDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(page), 0o644); err != nil {
		t.Fatal(err)
	}

	s := watcher.NewSummarizer(provider.New(provider.OptionsFromConfig(cfg), logging.NewNop()), logging.NewNop())
	if err := s.Handle(context.Background(), path); err != nil {
		t.Fatalf("handle: %v", err)
	}

	data, err := os.ReadFile(watcher.OutputPath(path))
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	var got summary.Summary
	if err := yaml.Unmarshal(data, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Title != "Inbox Story" || len(got.Points) != 2 {
		t.Fatalf("unexpected summary: %+v", got)
	}
	if got.Points[0].OriginalTextRef != "The first sentence is long enough" {
		t.Fatalf("unexpected first point %q", got.Points[0].OriginalTextRef)
	}
}

func TestSummarizerReportsMissingArticle(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.html")
	if err := os.WriteFile(path, []byte(`<html><body></body></html>`), 0o644); err != nil {
		t.Fatal(err)
	}
	s := watcher.NewSummarizer(provider.New(provider.Options{}, logging.NewNop()), nil)
	err := s.Handle(context.Background(), path)
	if !extract.IsNoArticle(err) {
		t.Fatalf("expected no article error, got %v", err)
	}
	if _, statErr := os.Stat(watcher.OutputPath(path)); !errors.Is(statErr, os.ErrNotExist) {
		t.Fatal("no output should be written")
	}
}

func TestWatcherDispatchesCreatedPages(t *testing.T) {
	dir := t.TempDir()
	seen := make(chan string, 4)
	w, err := watcher.New(dir, func(_ context.Context, path string) error {
		seen <- path
		return nil
	}, watcher.Options{SettleDelay: 10 * time.Millisecond, MaxConcurrent: 1})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(dir, "story.html")
	if err := os.WriteFile(want, []byte(page), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case got := <-seen:
		if got != want {
			t.Fatalf("handler got %q, want %q", got, want)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("handler was not called")
	}

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context canceled, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
	if len(seen) != 0 {
		t.Fatalf("unexpected extra events: %d", len(seen))
	}
}

func TestSummarizerSkipsEmptySummaries(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "short.html")
	if err := os.WriteFile(path, []byte(`<html><body><article><p>Hi. Yo.</p></article></body></html>`), 0o644); err != nil {
		t.Fatal(err)
	}
	s := watcher.NewSummarizer(provider.New(provider.Options{MinSentenceLength: 10}, logging.NewNop()), nil)
	err := s.Handle(context.Background(), path)
	if services.Classify(err) != services.FailureEmpty {
		t.Fatalf("expected empty summary failure, got %v", err)
	}
	if _, statErr := os.Stat(watcher.OutputPath(path)); !errors.Is(statErr, os.ErrNotExist) {
		t.Fatal("no output should be written for an empty summary")
	}
}
