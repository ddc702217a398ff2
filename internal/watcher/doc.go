// Package watcher summarises HTML files dropped into the inbox directory.
//
// The Watcher reacts to create events, waits for the writer to settle and
// hands each file to a Handler with bounded concurrency. Summarizer is the
// Handler the CLI uses: it extracts the article, generates a summary and
// writes it as YAML next to the source file.
package watcher
