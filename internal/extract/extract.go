package extract

import (
	"bytes"
	"errors"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"readaloud/internal/page"
	"readaloud/internal/services"
	"readaloud/internal/textutil"
)

// ErrNoArticle reports a page without article-like content.
var ErrNoArticle = services.Wrap(services.ErrExtraction, "extract", "", "no article content detected", nil)

// Article is the readable content of a page.
type Article struct {
	Title       string `json:"title" yaml:"title"`
	Content     string `json:"content" yaml:"content"`
	HTMLContent string `json:"htmlContent,omitempty" yaml:"-"`
}

// Options tunes extraction.
type Options struct {
	// ExcludeID names an element to ignore entirely, normally the overlay
	// container.
	ExcludeID string
}

var stripped = map[atom.Atom]bool{
	atom.Script:   true,
	atom.Style:    true,
	atom.Nav:      true,
	atom.Header:   true,
	atom.Footer:   true,
	atom.Aside:    true,
	atom.Form:     true,
	atom.Noscript: true,
	atom.Template: true,
	atom.Iframe:   true,
	atom.Svg:      true,
}

var blocks = map[atom.Atom]bool{
	atom.P: true, atom.Div: true, atom.Li: true, atom.Ul: true, atom.Ol: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Br: true, atom.Section: true, atom.Article: true, atom.Main: true,
	atom.Tr: true, atom.Td: true, atom.Th: true, atom.Table: true,
	atom.Blockquote: true, atom.Pre: true, atom.Figcaption: true, atom.Dd: true, atom.Dt: true,
}

// Extract returns the article contained in doc. The document is not modified.
func Extract(doc *page.Document, opts Options) (Article, error) {
	if doc == nil {
		return Article{}, ErrNoArticle
	}
	work := doc.Clone()
	var (
		article Article
		err     error
	)
	work.Do(func(root *html.Node) {
		article.Title = title(root)
		prune(root, opts.ExcludeID)
		candidate := pickCandidate(root)
		if candidate == nil {
			err = ErrNoArticle
			return
		}
		article.Content = blockText(candidate)
		if article.Content == "" {
			err = ErrNoArticle
			return
		}
		var buf bytes.Buffer
		if renderErr := html.Render(&buf, candidate); renderErr == nil {
			article.HTMLContent = buf.String()
		}
	})
	if err != nil {
		return Article{}, err
	}
	return article, nil
}

// IsNoArticle reports whether err means no article was found.
func IsNoArticle(err error) bool {
	return errors.Is(err, ErrNoArticle)
}

func title(root *html.Node) string {
	if t := page.First(root, atom.Title); t != nil {
		if s := textutil.CollapseSpace(page.Text(t)); s != "" {
			return s
		}
	}
	if h := page.First(root, atom.H1); h != nil {
		return textutil.CollapseSpace(page.Text(h))
	}
	return ""
}

func prune(root *html.Node, excludeID string) {
	var doomed []*html.Node
	page.Walk(root, func(n *html.Node) bool {
		if n.Type == html.CommentNode {
			doomed = append(doomed, n)
			return false
		}
		if n.Type != html.ElementNode {
			return true
		}
		if n.DataAtom == atom.Head {
			return false
		}
		if stripped[n.DataAtom] {
			doomed = append(doomed, n)
			return false
		}
		if excludeID != "" {
			if id, ok := page.Attr(n, "id"); ok && id == excludeID {
				doomed = append(doomed, n)
				return false
			}
		}
		if !page.Visible(n) {
			doomed = append(doomed, n)
			return false
		}
		return true
	})
	for _, n := range doomed {
		if n.Parent != nil {
			n.Parent.RemoveChild(n)
		}
	}
}

func pickCandidate(root *html.Node) *html.Node {
	body := page.Body(root)
	if body == nil {
		return nil
	}
	if n := page.First(body, atom.Article); n != nil && strings.TrimSpace(page.Text(n)) != "" {
		return n
	}
	if n := page.First(body, atom.Main); n != nil && strings.TrimSpace(page.Text(n)) != "" {
		return n
	}
	var (
		best      *html.Node
		bestScore int
	)
	page.Walk(body, func(n *html.Node) bool {
		if n.Type != html.ElementNode {
			return true
		}
		if score := paragraphScore(n); score > bestScore {
			best, bestScore = n, score
		}
		return true
	})
	if best != nil {
		return best
	}
	if strings.TrimSpace(page.Text(body)) != "" {
		return body
	}
	return nil
}

// paragraphScore sums the text length of n's direct <p> children.
func paragraphScore(n *html.Node) int {
	score := 0
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.DataAtom == atom.P {
			score += textutil.Length(textutil.CollapseSpace(page.Text(c)))
		}
	}
	return score
}

// blockText flattens n to plain text, one line per block element.
func blockText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(cur *html.Node) {
		switch cur.Type {
		case html.TextNode:
			b.WriteString(cur.Data)
			return
		case html.ElementNode:
			if blocks[cur.DataAtom] {
				b.WriteByte('\n')
				defer b.WriteByte('\n')
			}
		}
		for c := cur.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)

	lines := strings.Split(b.String(), "\n")
	out := lines[:0]
	for _, line := range lines {
		if line = textutil.Normalize(line); line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}
