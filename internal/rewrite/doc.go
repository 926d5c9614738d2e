// Package rewrite replaces a single image file with a copy whose resolution
// metadata has been rewritten, optionally converting it to PNG.
//
// Process runs validate, detect, decode, mutate, encode-to-temp, replace and
// cleanup in order. New bytes are always written to a "_temp" sibling first
// and then renamed over the final path, so the original file is intact until
// the replacement exists in full. Callers serialize invocations per path; see
// internal/pathlock.
package rewrite
