// Package services defines shared utilities consumed by the provider daemon,
// the overlay controller, and their transports.
//
// Key responsibilities:
//   - Context helpers that stamp correlation identifiers and page sources for
//     logging.
//   - Structured error markers plus the Wrap helper, and Classify which maps a
//     failure onto the user-visible failure kinds of the overlay.
//
// Use these helpers when wiring new components so error handling and
// observability stay uniform.
package services
