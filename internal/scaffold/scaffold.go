// Package scaffold lays out new projects for `cork new` and `cork init`.
package scaffold

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v6"
	"github.com/qobs-build/cork/internal/manifest"
	"github.com/qobs-build/cork/internal/msg"
)

// ErrDestinationExists is returned by New when the target path is already taken
var ErrDestinationExists = errors.New("destination already exists")

const mainC = `#include <stdio.h>
#include "headers.h"

int main(void) {
    printf("Hello, Cork!\n");
    return 0;
}
`

const headersH = `#ifndef HEADERS_H
#define HEADERS_H

void some_function(void);

#endif // HEADERS_H
`

const testMainC = `#include <stdio.h>
#include "headers.h"

int main(void) {
    printf("Running tests\n");
    return 0;
}
`

const gitignore = `build/
`

func manifestFor(name string) string {
	return `[project]
name = "` + name + `"
version = "0.1.0"

[dependencies]
`
}

// Result lists what a scaffold call created, relative to the project root
type Result struct {
	Dir     string
	Name    string
	Created []string
	// GitInit is false when the directory already was a git repository
	GitInit bool
}

type scaffolder struct {
	res *Result
}

func (s *scaffolder) mkdir(elem ...string) error {
	path := filepath.Join(append([]string{s.res.Dir}, elem...)...)
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", path, err)
	}
	return nil
}

// writefile creates the file unless it already exists
func (s *scaffolder) writefile(content string, elem ...string) error {
	path := filepath.Join(append([]string{s.res.Dir}, elem...)...)
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("create file %s: %w", path, err)
	}
	rel := filepath.ToSlash(filepath.Join(elem...))
	s.res.Created = append(s.res.Created, rel)
	msg.Status("Created", "file: %s", rel)
	return nil
}

func (s *scaffolder) layout() error {
	for _, dir := range [][]string{{"src", "include"}, {"include"}, {"tests"}} {
		if err := s.mkdir(dir...); err != nil {
			return err
		}
	}

	files := []struct {
		content string
		elem    []string
	}{
		{manifestFor(s.res.Name), []string{manifest.Filename}},
		{mainC, []string{"src", "main.c"}},
		{headersH, []string{"include", "headers.h"}},
		{testMainC, []string{"tests", "test_main.c"}},
		{gitignore, []string{".gitignore"}},
	}
	for _, f := range files {
		if err := s.writefile(f.content, f.elem...); err != nil {
			return err
		}
	}

	_, err := git.PlainOpen(s.res.Dir)
	if err == nil {
		msg.Debug("%s is already a git repository", s.res.Dir)
		return nil
	}
	if !errors.Is(err, git.ErrRepositoryNotExists) {
		return fmt.Errorf("failed to open git repository: %w", err)
	}
	if _, err := git.PlainInit(s.res.Dir, false); err != nil {
		return fmt.Errorf("failed to initialize git repository: %w", err)
	}
	s.res.GitInit = true
	return nil
}

// New creates a project in a new directory at path, named after its last element.
func New(path string) (*Result, error) {
	if _, err := os.Lstat(path); err == nil {
		return nil, fmt.Errorf("destination `%s`: %w", path, ErrDestinationExists)
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	name := filepath.Base(filepath.Clean(path))
	if err := validateName(name); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", path, err)
	}

	s := &scaffolder{res: &Result{Dir: path, Name: name}}
	if err := s.layout(); err != nil {
		return nil, err
	}
	msg.Status("Creating", "project `%s`", name)
	return s.res, nil
}

// Init lays out a project inside the existing directory dir, keeping files that are
// already there. An empty name defaults to the directory name.
func Init(dir, name string) (*Result, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	if name == "" {
		name = filepath.Base(abs)
	}
	if err := validateName(name); err != nil {
		return nil, err
	}

	s := &scaffolder{res: &Result{Dir: dir, Name: name}}
	if err := s.layout(); err != nil {
		return nil, err
	}
	msg.Status("Initialized", "project `%s`", name)
	return s.res, nil
}

func validateName(name string) error {
	if name == "" || name == "." || name == string(filepath.Separator) {
		return fmt.Errorf("invalid project name %q", name)
	}
	if strings.ContainsAny(name, `"\/`) {
		return fmt.Errorf("invalid project name %q: must not contain quotes or path separators", name)
	}
	return nil
}
