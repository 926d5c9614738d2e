// Package main hosts the ppifix CLI entrypoint and command graph.
//
// The Cobra command tree resolves configuration, builds the logger and codec
// registry, and takes the per-image lock before handing work to
// internal/rewrite. Exit codes follow the error kind: 2 invalid argument,
// 3 not found, 4 unknown format, 5 unsupported encoding, 6 I/O, 1 otherwise.
package main
