// Package logging builds the slog loggers used across the vault and the CLI.
//
// Two output formats are supported: a compact console format for interactive
// use and JSON for machine consumption. An optional log file mirrors either
// format. Component loggers carry a standardized component attribute so
// console lines read as "catalog: message" while JSON output stays queryable
// by the same key.
package logging
