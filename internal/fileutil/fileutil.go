package fileutil

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotRegular is returned by StatRegular for directories, devices and other
// non-regular entries.
var ErrNotRegular = errors.New("not a regular file")

// StatRegular returns the file info for path when it names a regular file.
// Missing paths return an error matching fs.ErrNotExist.
func StatRegular(path string) (os.FileInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%s: %w", path, ErrNotRegular)
	}
	return info, nil
}

// Exists reports whether anything is present at path.
func Exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// RemoveIfExists deletes path, treating an already-missing file as success.
func RemoveIfExists(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// ReplaceFile moves src over dst. The rename is atomic on a single
// filesystem, so dst is either the old file or the complete new one.
func ReplaceFile(src, dst string) error {
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("replace %s: %w", dst, err)
	}
	return nil
}

// SamePath reports whether a and b refer to the same file. When both exist
// the filesystem decides, so photo.JPG and photo.jpg are the same file on a
// case-insensitive volume and two files elsewhere. When either is missing the
// paths are compared without regard to case.
func SamePath(a, b string) bool {
	a, b = filepath.Clean(a), filepath.Clean(b)
	if a == b {
		return true
	}
	ai, errA := os.Stat(a)
	bi, errB := os.Stat(b)
	if errA != nil || errB != nil {
		return strings.EqualFold(a, b)
	}
	return os.SameFile(ai, bi)
}

// SplitExt returns the directory, the file name without its extension, and
// the extension including the leading dot. A path without a parent component
// yields dir ".".
func SplitExt(path string) (dir, base, ext string) {
	dir = filepath.Dir(path)
	name := filepath.Base(path)
	ext = filepath.Ext(name)
	base = strings.TrimSuffix(name, ext)
	return dir, base, ext
}
