package builder

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/qobs-build/cork/internal/profile"
)

const (
	SourceExt = ".c"
	HeaderExt = ".h"
	ObjectExt = ".o"
)

// Layout locates the conventional directories of a project or dependency:
//
//	src/                       sources (non-recursive)
//	src/include/               private headers
//	include/                   public headers
//	build/<profile>/obj/       objects
//	build/<profile>/<name>     executable
type Layout struct {
	Root string
}

func NewLayout(root string) Layout { return Layout{Root: root} }

func (l Layout) Src() string            { return filepath.Join(l.Root, "src") }
func (l Layout) Include() string        { return filepath.Join(l.Root, "include") }
func (l Layout) PrivateInclude() string { return filepath.Join(l.Root, "src", "include") }
func (l Layout) BuildDir() string       { return filepath.Join(l.Root, "build") }

func (l Layout) ObjDir(p profile.Profile) string {
	return filepath.Join(l.BuildDir(), p.Dir(), "obj")
}

// Executable returns the output path of the linked program named after the manifest
func (l Layout) Executable(name string, p profile.Profile) string {
	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	return filepath.Join(l.BuildDir(), p.Dir(), name)
}

// BuildTarget is one compilation unit of the current build.
type BuildTarget struct {
	Source      string
	Object      string
	IncludeDirs []string
}

// objectPath derives the object file for source by extension substitution
func objectPath(objDir, source string) string {
	base := filepath.Base(source)
	return filepath.Join(objDir, strings.TrimSuffix(base, filepath.Ext(base))+ObjectExt)
}

func newTargets(sources []string, objDir string, includeDirs []string) []BuildTarget {
	targets := make([]BuildTarget, len(sources))
	for i, src := range sources {
		targets[i] = BuildTarget{Source: src, Object: objectPath(objDir, src), IncludeDirs: includeDirs}
	}
	return targets
}

// collectFiles lists the files directly inside dir that end in ext, sorted by name.
// The name must have a stem before ext.
// A missing or unreadable directory is an error.
func collectFiles(dir, ext string) ([]string, error) {
	stat, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !stat.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}

	matches, err := doublestar.Glob(os.DirFS(dir), "*"+ext, doublestar.WithFilesOnly(), doublestar.WithFailOnIOErrors())
	if err != nil {
		return nil, err
	}
	slices.Sort(matches)

	files := make([]string, 0, len(matches))
	for _, match := range matches {
		// a bare ".c" is a dotfile with no extension
		if match == ext {
			continue
		}
		files = append(files, filepath.Join(dir, match))
	}
	return files, nil
}
