// Package main hosts the readaloud CLI.
//
// The Cobra command tree runs the provider daemon, summarises pages from the
// terminal, drives the overlay player against a saved page and manages the
// inbox watcher, persisted settings and configuration scaffolding. Commands
// stay thin: the behaviour lives in the internal packages.
package main
