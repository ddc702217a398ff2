// Package ipc exposes the summary provider over JSON-RPC on a Unix domain
// socket.
//
// The service is registered as "Provider", so the processPage message is the
// RPC method Provider.ProcessPage. Every call runs under a fresh correlation
// id so daemon log lines can be tied back to a single page load.
package ipc
