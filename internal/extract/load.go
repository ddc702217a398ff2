package extract

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"readaloud/internal/page"
	"readaloud/internal/services"
)

const maxDocumentBytes = 16 << 20

// Load parses a document from r.
func Load(r io.Reader, url string) (*page.Document, error) {
	doc, err := page.Parse(io.LimitReader(r, maxDocumentBytes), url)
	if err != nil {
		return nil, services.Wrap(services.ErrExtraction, "extract", "load", "parse document", err)
	}
	return doc, nil
}

// LoadFile parses the HTML file at path.
func LoadFile(path string) (*page.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, services.Wrap(services.ErrExtraction, "extract", "load", "open document", err)
	}
	defer f.Close()
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return Load(f, "file://"+abs)
}

// Fetch downloads and parses the page at url.
func Fetch(ctx context.Context, client *http.Client, url string) (*page.Document, error) {
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, services.Wrap(services.ErrExtraction, "extract", "fetch", "build request", err)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	resp, err := client.Do(req)
	if err != nil {
		return nil, services.Wrap(services.ErrExtraction, "extract", "fetch", "request page", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, services.Wrap(services.ErrExtraction, "extract", "fetch", fmt.Sprintf("unexpected status %d", resp.StatusCode), nil)
	}
	return Load(resp.Body, url)
}
