// Package settings persists player preferences in a small SQLite database.
//
// Values are stored as text under stable keys. The only key the player reads
// today is autoScrollEnabled; unknown keys round-trip untouched so the CLI can
// inspect whatever a newer build wrote.
package settings
