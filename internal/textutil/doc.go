// Package textutil provides small text helpers shared by the CLI and the
// lock layer: display labels for table headers and filesystem-safe tokens.
package textutil
