// Package config loads, normalizes, and validates rcg configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours credential fallbacks from the
// process environment and a local .env file (SPOTIFY_ID, SPOTIFY_SECRET,
// LAST_FM_ID). The Config type centralizes every knob the CLI and daemon
// need so the store path, external service endpoints, and chart timezone are
// discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths and clear validation errors.
package config
