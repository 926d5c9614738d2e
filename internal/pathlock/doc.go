// Package pathlock serializes ppifix invocations that touch the same image.
//
// Rewriting is not safe to run twice on one path at once: both runs would
// share the same _temp sibling. The CLI takes a gofrs/flock advisory lock per
// image before handing the request to the rewriter.
package pathlock
