// Package logging assembles structured slog loggers and formatting helpers used
// across ppifix.
//
// It owns the console ("pretty") and JSON handlers, the optional JSON log file
// mirror, and context-aware helpers that tag log lines with the rewrite stage,
// the source image, and the request correlation ID. NewNop gives tests and
// wiring code a logger that cannot fail.
package logging
