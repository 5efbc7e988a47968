// Package clean removes a project's build outputs.
package clean

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

// BuildDirName is the directory under the project root that holds every profile's outputs
const BuildDirName = "build"

// Stats describes what a clean removed
type Stats struct {
	Files int
	Bytes int64
	// Found is false when there was no build directory
	Found bool
}

func (s Stats) String() string {
	if !s.Found {
		return "nothing to clean"
	}
	return fmt.Sprintf("Removed %d files, %.1fMiB total", s.Files, float64(s.Bytes)/(1024*1024))
}

// Measure counts the files under dir and their total size without touching them
func Measure(dir string) (Stats, error) {
	var st Stats
	info, err := os.Stat(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return st, nil
	}
	if err != nil {
		return st, err
	}
	if !info.IsDir() {
		return st, fmt.Errorf("%s is not a directory", dir)
	}
	st.Found = true

	err = doublestar.GlobWalk(os.DirFS(dir), "**", func(path string, d fs.DirEntry) error {
		fi, err := d.Info()
		if err != nil {
			return err
		}
		st.Files++
		st.Bytes += fi.Size()
		return nil
	}, doublestar.WithFilesOnly(), doublestar.WithNoFollow())
	if err != nil {
		return st, fmt.Errorf("failed to read build directory: %w", err)
	}
	return st, nil
}

// Project removes the build directory of the project rooted at root
func Project(root string) (Stats, error) {
	dir := filepath.Join(root, BuildDirName)
	st, err := Measure(dir)
	if err != nil || !st.Found {
		return st, err
	}
	if err := os.RemoveAll(dir); err != nil {
		return st, fmt.Errorf("failed to clean build directory: %w", err)
	}
	return st, nil
}
