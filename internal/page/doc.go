// Package page wraps a parsed HTML document. It is the in-process stand-in
// for a browser tab's DOM: extraction reads it, the section locator marks
// elements in it, and the host injects the overlay container into it.
//
// A Document serialises access with a mutex. Callers that need several
// reads or writes to be consistent use Do.
package page
