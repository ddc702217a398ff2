package extract

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"readaloud/internal/page"
	"readaloud/internal/services"
)

func parse(t *testing.T, markup string) *page.Document {
	t.Helper()
	doc, err := page.ParseString(markup, "")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return doc
}

func TestExtractPrefersArticle(t *testing.T) {
	doc := parse(t, `<html><head><title> A  Title </title></head><body>
<nav>Home | About</nav>
<article><h1>Heading</h1><p>First paragraph here.</p><p>Second   one.</p>
<script>var x = 1;</script></article>
<footer>Copyright</footer></body></html>`)

	article, err := Extract(doc, Options{})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if article.Title != "A Title" {
		t.Fatalf("title = %q", article.Title)
	}
	want := "Heading\nFirst paragraph here.\nSecond one."
	if article.Content != want {
		t.Fatalf("content = %q, want %q", article.Content, want)
	}
	if !strings.Contains(article.HTMLContent, "<article>") {
		t.Fatalf("expected html content to hold the article, got %q", article.HTMLContent)
	}
}

func TestExtractScoresParagraphContainers(t *testing.T) {
	doc := parse(t, `<html><body>
<div id="sidebar"><p>Tiny.</p></div>
<div id="story"><p>This is the long body of the story.</p><p>It keeps going for a while.</p></div>
</body></html>`)

	article, err := Extract(doc, Options{})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if strings.Contains(article.Content, "Tiny") {
		t.Fatalf("expected sidebar excluded, got %q", article.Content)
	}
	if !strings.HasPrefix(article.Content, "This is the long body") {
		t.Fatalf("content = %q", article.Content)
	}
}

func TestExtractIgnoresOverlayAndHidden(t *testing.T) {
	doc := parse(t, `<html><body><main>
<p>Real words live here.</p>
<p style="display:none">Invisible words.</p>
<div id="overlay"><p>Player text.</p></div>
</main></body></html>`)

	article, err := Extract(doc, Options{ExcludeID: "overlay"})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if article.Content != "Real words live here." {
		t.Fatalf("content = %q", article.Content)
	}
	if !strings.Contains(doc.String(), "Player text.") {
		t.Fatal("extraction must not modify the live document")
	}
}

func TestExtractNoArticle(t *testing.T) {
	doc := parse(t, `<html><head><title>Empty</title></head><body><nav>Only links</nav><script>x()</script></body></html>`)
	_, err := Extract(doc, Options{})
	if !IsNoArticle(err) {
		t.Fatalf("expected ErrNoArticle, got %v", err)
	}
	if !errors.Is(err, services.ErrExtraction) {
		t.Fatal("expected extraction marker")
	}
	if services.Classify(err) != services.FailureExtraction {
		t.Fatalf("classify = %q", services.Classify(err))
	}
}

func TestExtractTitleFallsBackToHeading(t *testing.T) {
	doc := parse(t, `<html><body><article><h1>Only Heading</h1><p>Body text.</p></article></body></html>`)
	article, err := Extract(doc, Options{})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if article.Title != "Only Heading" {
		t.Fatalf("title = %q", article.Title)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.html")
	if err := os.WriteFile(path, []byte(`<p>Hello from disk.</p>`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	doc, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if !strings.HasPrefix(doc.URL(), "file://") {
		t.Fatalf("url = %q", doc.URL())
	}
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.html")); !errors.Is(err, services.ErrExtraction) {
		t.Fatalf("expected extraction error for missing file, got %v", err)
	}
}

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`<html><head><title>Remote</title></head><body><article><p>Fetched body.</p></article></body></html>`))
	}))
	defer srv.Close()

	doc, err := Fetch(context.Background(), srv.Client(), srv.URL+"/story")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	article, err := Extract(doc, Options{})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if article.Title != "Remote" || article.Content != "Fetched body." {
		t.Fatalf("article = %+v", article)
	}

	if _, err := Fetch(context.Background(), srv.Client(), srv.URL+"/missing"); !errors.Is(err, services.ErrExtraction) {
		t.Fatalf("expected extraction error, got %v", err)
	}
}
