// Package config loads, normalizes, and validates SoundVault configuration
// data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// FREESOUND_API_KEY. The Config type centralizes every knob the library and
// CLI need: the library root, database location, inbox and cache directories,
// remote service credentials, and logging output.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
