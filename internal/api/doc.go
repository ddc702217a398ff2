// Package api defines the wire-format types exchanged between the overlay and
// the summary provider, plus the ProcessPageService both transports (JSON-RPC
// over the unix socket and HTTP) delegate to.
//
// # Key Types
//
// ProcessPageRequest/ProcessPageResponse: the processPage message. A response
// carries either status "success" with summaryData or status "error" with a
// message, never both.
//
// TogglePlayerResponse: reply to the host's togglePlayer message, either
// "toggled" with nowVisible or "initialized" when no overlay existed yet.
//
// DaemonStatus: runtime information reported by the daemon.
//
// # Design Notes
//
// DTOs use camelCase JSON tags, matching the add-on's message shapes.
package api
