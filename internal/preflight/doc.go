// Package preflight provides readiness checks for the filesystem paths a
// rewrite touches.
//
// The CLI "ppifix rewrite" command runs ForImage before taking the per-image
// lock so a read-only directory fails fast with an I/O error instead of after
// a full decode. "ppifix inspect" shows the same results as table rows.
package preflight
