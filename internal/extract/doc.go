// Package extract pulls the main article out of a page.
//
// The heuristic follows the readability family: an <article> wins, then
// <main>, then whichever element has the most paragraph text directly
// beneath it. Chrome such as navigation, headers, footers, forms and the
// overlay itself is stripped from a copy of the document before scoring, so
// the live page is never modified.
package extract
