package preflight

import (
	"errors"
	"path/filepath"
	"slices"
	"strings"

	"ppifix/internal/config"
)

// Check names used by ForImage.
const (
	CheckSource    = "Source image"
	CheckOutputDir = "Output directory"
	CheckLockDir   = "Lock directory"
	CheckLogDir    = "Log directory"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// ForImage checks that the image is readable and that its directory accepts
// the temp sibling and the rename. The lock and log directories from cfg are
// checked when configured.
func ForImage(cfg *config.Config, imagePath string) []Result {
	results := []Result{
		CheckFileReadable(CheckSource, imagePath),
		CheckDirectoryAccess(CheckOutputDir, outputDir(imagePath)),
	}
	if cfg == nil {
		return results
	}
	if dir := strings.TrimSpace(cfg.Paths.LockDir); dir != "" {
		results = append(results, CheckDirectoryAccess(CheckLockDir, dir))
	}
	if dir := strings.TrimSpace(cfg.Paths.LogDir); dir != "" {
		results = append(results, CheckDirectoryAccess(CheckLogDir, dir))
	}
	return results
}

// FirstFailure returns an error describing the first failed check, or nil.
// Checks named in skip are ignored.
func FirstFailure(results []Result, skip ...string) error {
	for _, r := range results {
		if !r.Passed && !slices.Contains(skip, r.Name) {
			return errors.New(r.Name + ": " + r.Detail)
		}
	}
	return nil
}

func outputDir(imagePath string) string {
	abs, err := filepath.Abs(imagePath)
	if err != nil {
		return filepath.Dir(imagePath)
	}
	return filepath.Dir(abs)
}
