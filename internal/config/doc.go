// Package config loads, normalizes, and validates ppifix configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment overrides such as
// PPIFIX_LOG_LEVEL and PPIFIX_LOCK_DIR. Command-line flags take precedence
// over everything loaded here; the CLI only falls back to these values when a
// flag is not set.
package config
