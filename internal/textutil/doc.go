// Package textutil holds the text helpers shared by extraction, location and
// rendering: whitespace collapsing, Unicode normalisation, rune-aware
// truncation and filename sanitising.
package textutil
