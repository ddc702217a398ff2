// Package config loads, normalizes, and validates readaloud configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// READALOUD_API_TOKEN. The Config type centralizes every knob the provider
// daemon, the overlay player, and the CLI need so that socket paths, summary
// tunables, and playback timings are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
