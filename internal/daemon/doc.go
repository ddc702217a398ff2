// Package daemon runs the summary provider as a long-lived background
// process.
//
// A Daemon holds an exclusive flock so only one instance serves a state
// directory. Run brings up the JSON-RPC socket and, when an API bind address
// is configured, the HTTP API, then blocks until its context ends. Both
// transports delegate to the same api.ProcessPageService.
//
// The HTTP API exposes:
//
//	POST /api/process-page  processPage message, rate limited
//	GET  /api/status        daemon status
//
// When an API token is configured every route requires
// "Authorization: Bearer <token>".
package daemon
