package page

import (
	"strings"
	"testing"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const sample = `<html><head><title>T</title></head><body>
<div id="main" class="a b"><p>First <em>para</em></p>
<p hidden>Gone</p>
<p style="color: red; display : none !important">Styled away</p>
<section aria-hidden="true"><p>Shy</p></section>
</div></body></html>`

func mustParse(t *testing.T) *Document {
	t.Helper()
	doc, err := ParseString(sample, "https://example.test/a")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return doc
}

func TestTextAndLookup(t *testing.T) {
	doc := mustParse(t)
	doc.Do(func(root *html.Node) {
		main := ElementByID(root, "main")
		if main == nil {
			t.Fatal("expected #main")
		}
		ps := ElementsByTag(main, atom.P)
		if len(ps) != 4 {
			t.Fatalf("expected 4 paragraphs, got %d", len(ps))
		}
		if got := Text(ps[0]); got != "First para" {
			t.Fatalf("Text = %q", got)
		}
		if !Contains(main, ps[0].FirstChild) {
			t.Fatal("expected main to contain paragraph text")
		}
		if Contains(ps[0], main) {
			t.Fatal("child must not contain parent")
		}
	})
	if doc.URL() != "https://example.test/a" {
		t.Fatalf("URL = %q", doc.URL())
	}
}

func TestVisibility(t *testing.T) {
	doc := mustParse(t)
	doc.Do(func(root *html.Node) {
		ps := ElementsByTag(root, atom.P)
		want := []bool{true, false, false, false}
		for i, p := range ps {
			if got := Visible(p); got != want[i] {
				t.Errorf("paragraph %d visible = %v, want %v", i, got, want[i])
			}
		}
		if Visible(First(root, atom.Title)) {
			t.Error("title should not be visible")
		}
	})
}

func TestClassEditing(t *testing.T) {
	n := NewElement(atom.Div, "class", "a")
	AddClass(n, "b")
	AddClass(n, "b")
	if got, _ := Attr(n, "class"); got != "a b" {
		t.Fatalf("class = %q", got)
	}
	RemoveClass(n, "a")
	RemoveClass(n, "b")
	if _, ok := Attr(n, "class"); ok {
		t.Fatal("expected class attribute removed")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	doc := mustParse(t)
	clone := doc.Clone()
	clone.Do(func(root *html.Node) {
		main := ElementByID(root, "main")
		main.Parent.RemoveChild(main)
	})
	if !strings.Contains(doc.String(), `id="main"`) {
		t.Fatal("clone mutation leaked into original")
	}
	if strings.Contains(clone.String(), `id="main"`) {
		t.Fatal("expected clone to drop main")
	}
}
