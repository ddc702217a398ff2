package page

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var unrendered = map[atom.Atom]bool{
	atom.Head:     true,
	atom.Script:   true,
	atom.Style:    true,
	atom.Template: true,
	atom.Noscript: true,
	atom.Title:    true,
	atom.Meta:     true,
	atom.Link:     true,
}

// Visible reports whether n would take up space when rendered: neither it
// nor an ancestor is hidden by attribute, inline style or tag.
func Visible(n *html.Node) bool {
	for cur := n; cur != nil; cur = cur.Parent {
		if cur.Type != html.ElementNode {
			continue
		}
		if hiddenElement(cur) {
			return false
		}
	}
	return true
}

func hiddenElement(n *html.Node) bool {
	if unrendered[n.DataAtom] {
		return true
	}
	if _, ok := Attr(n, "hidden"); ok {
		return true
	}
	if v, ok := Attr(n, "aria-hidden"); ok && strings.EqualFold(strings.TrimSpace(v), "true") {
		return true
	}
	if style, ok := Attr(n, "style"); ok {
		for _, decl := range strings.Split(style, ";") {
			prop, val, found := strings.Cut(decl, ":")
			if !found {
				continue
			}
			prop = strings.ToLower(strings.TrimSpace(prop))
			val = strings.ToLower(strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(val), "!important")))
			if (prop == "display" && val == "none") || (prop == "visibility" && val == "hidden") {
				return true
			}
		}
	}
	return false
}
