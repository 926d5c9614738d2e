// Package services defines shared utilities consumed by the rewrite pipeline
// and the CLI.
//
// Key responsibilities:
//   - Context helpers that stamp stage names, source paths, and correlation
//     identifiers for logging.
//   - Structured error markers plus the Wrap helper so callers can classify a
//     failure (invalid argument, not found, unknown format, unsupported
//     encoding, I/O) with errors.Is and map it to an exit code.
package services
