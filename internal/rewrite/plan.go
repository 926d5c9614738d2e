package rewrite

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"ppifix/internal/fileutil"
)

const tempSuffix = "_temp"

// Plan holds the two paths a rewrite writes to.
type Plan struct {
	TempPath  string
	FinalPath string
}

// PlanPaths computes the temp and final paths for source with the given
// output extension. A source without a parent component resolves against the
// working directory.
func PlanPaths(source, ext string) (Plan, error) {
	dir, base, _ := fileutil.SplitExt(source)
	if !strings.ContainsRune(source, filepath.Separator) {
		wd, err := os.Getwd()
		if err != nil {
			return Plan{}, fmt.Errorf("resolve working directory: %w", err)
		}
		dir = wd
	}
	return Plan{
		TempPath:  filepath.Join(dir, base+tempSuffix+ext),
		FinalPath: filepath.Join(dir, base+ext),
	}, nil
}

// outputExtension returns ".png" for conversions and otherwise the source
// extension lower-cased.
func outputExtension(source string, convert bool) string {
	if convert {
		return ".png"
	}
	return strings.ToLower(filepath.Ext(source))
}
