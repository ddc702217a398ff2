// Package summary holds the data model exchanged between the summary provider
// and the overlay controller: a titled list of points, each carrying its text,
// the source excerpt used for on-page matching, and word-level timings on the
// point's own virtual timeline.
package summary
