// Package config loads, normalizes, and validates matchdeck configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// MATCHDECK_API_TOKEN. The Config type centralizes every knob the daemon and
// CLI need: data and log directories, the API bind address, review staleness
// windows, and page sizing.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
