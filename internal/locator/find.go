package locator

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"readaloud/internal/page"
	"readaloud/internal/textutil"
)

// DefaultTolerance is the allowed relative length difference between an
// element's text and the excerpt.
const DefaultTolerance = 0.3

// searchOrder lists the candidate tags, most specific first.
var searchOrder = []atom.Atom{
	atom.P, atom.Li,
	atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6,
	atom.Td, atom.Span, atom.Div,
}

// FindOptions narrows the search.
type FindOptions struct {
	// Tolerance overrides DefaultTolerance when positive.
	Tolerance float64
	// ExcludeID names a subtree that never matches, normally the overlay.
	ExcludeID string
}

// Find returns the first visible element whose text contains excerpt and is
// close to it in length, or nil. Tags are tried in searchOrder; within a tag,
// document order wins. The caller must hold the document (see page.Document.Do).
func Find(root *html.Node, excerpt string, opts FindOptions) *html.Node {
	want := textutil.Normalize(excerpt)
	if want == "" || root == nil {
		return nil
	}
	tolerance := opts.Tolerance
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	var excluded *html.Node
	if opts.ExcludeID != "" {
		excluded = page.ElementByID(root, opts.ExcludeID)
	}
	wantLen := float64(textutil.Length(want))

	for _, tag := range searchOrder {
		for _, el := range page.ElementsByTag(root, tag) {
			if excluded != nil && page.Contains(excluded, el) {
				continue
			}
			text := textutil.Normalize(page.Text(el))
			if !strings.Contains(text, want) {
				continue
			}
			diff := float64(textutil.Length(text)) - wantLen
			if diff < 0 {
				diff = -diff
			}
			if diff >= wantLen*tolerance {
				continue
			}
			if !page.Visible(el) {
				continue
			}
			return el
		}
	}
	return nil
}
