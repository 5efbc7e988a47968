package builder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/qobs-build/cork/internal/manifest"
	"github.com/qobs-build/cork/internal/msg"
	"github.com/qobs-build/cork/internal/profile"
	"github.com/qobs-build/cork/internal/toolchain"
)

// Builder drives incremental builds of the project rooted at one directory.
type Builder struct {
	basedir string
	tc      toolchain.Toolchain

	// Stdin, Stdout and Stderr are handed to the program started by Run.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

func NewBuilderInDirectory(path string, tc toolchain.Toolchain) (*Builder, error) {
	path, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	return &Builder{
		basedir: path,
		tc:      tc,
		Stdin:   os.Stdin,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
	}, nil
}

// Dir returns the absolute project root
func (b *Builder) Dir() string { return b.basedir }

func (b *Builder) rel(path string) string {
	if rel, err := filepath.Rel(b.basedir, path); err == nil {
		return filepath.ToSlash(rel)
	}
	return path
}

// Build brings the executable for profile p up to date and returns its path.
//
// Dependencies are built first, in name order, then the project's own sources.
// The link runs when the executable is missing, when anything was recompiled, or
// when an object is newer than the executable. With nothing changed on disk no
// tool is invoked and no timestamp moves.
func (b *Builder) Build(ctx context.Context, p profile.Profile) (string, error) {
	cfg, err := manifest.LoadDir(b.basedir)
	if err != nil {
		return "", err
	}

	layout := NewLayout(b.basedir)
	objDir := layout.ObjDir(p)
	if err := os.MkdirAll(objDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create object directory: %w", err)
	}

	includeDirs := []string{layout.Include(), layout.PrivateInclude()}
	var objects []string
	compiled := 0

	for _, dep := range cfg.SortedDependencies() {
		out, err := b.BuildDependency(ctx, dep, p)
		if err != nil {
			return "", err
		}
		objects = append(objects, out.Objects...)
		compiled += out.Compiled
		includeDirs = append(includeDirs, out.IncludeDir)
	}

	sources, err := collectFiles(layout.Src(), SourceExt)
	if err != nil {
		return "", &SourceDiscoveryError{Dir: layout.Src(), Err: err}
	}
	if len(sources) == 0 {
		return "", &SourceDiscoveryError{Dir: layout.Src(), Err: ErrNoSources}
	}

	// own headers only: a dependency's header changes reach us through relinking
	var watched []string
	for _, dir := range []string{layout.Include(), layout.PrivateInclude()} {
		headers, err := collectFiles(dir, HeaderExt)
		if err != nil {
			return "", &SourceDiscoveryError{Dir: dir, Err: err}
		}
		watched = append(watched, headers...)
	}

	own, err := b.compileTargets(ctx, newTargets(sources, objDir, includeDirs), watched, p)
	if err != nil {
		return "", err
	}
	objects = append(objects, own.Objects...)
	compiled += own.Compiled

	exe := layout.Executable(cfg.Project.Name, p)
	if relink, reason := needsRelink(exe, objects, compiled); relink {
		msg.Debug("relink: %s", reason)
		if err := b.link(ctx, objects, exe, p); err != nil {
			return "", err
		}
	}

	msg.Status("Finished", "%s v%s (%s)", cfg.Project.Name, cfg.Project.Version, p.Describe())
	return exe, nil
}

func needsRelink(exe string, objects []string, compiled int) (bool, string) {
	exeInfo, err := os.Stat(exe)
	if err != nil {
		return true, "no executable"
	}
	if compiled > 0 {
		return true, fmt.Sprintf("%d object(s) recompiled", compiled)
	}
	for _, obj := range objects {
		objInfo, err := os.Stat(obj)
		if err != nil {
			return true, "cannot stat object " + obj
		}
		if objInfo.ModTime().After(exeInfo.ModTime()) {
			return true, "object newer than executable: " + obj
		}
	}
	return false, ""
}

// link writes to a temporary file next to exe and renames it into place,
// so a failed link leaves any previous executable untouched.
func (b *Builder) link(ctx context.Context, objects []string, exe string, p profile.Profile) error {
	ext := filepath.Ext(exe)
	stem := strings.TrimSuffix(filepath.Base(exe), ext)
	tmp := filepath.Join(filepath.Dir(exe), "."+stem+"-"+uuid.NewString()+ext)

	msg.Status("Linking", "%s", b.rel(exe))
	if err := b.tc.Link(ctx, objects, tmp, p); err != nil {
		os.Remove(tmp)
		var tcErr *toolchain.ToolchainError
		if errors.As(err, &tcErr) {
			tcErr.Unit = exe
		}
		return err
	}
	if err := os.Rename(tmp, exe); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to move linked executable into place: %w", err)
	}
	return nil
}

// Run builds the project if needed and runs the executable with args, waiting for it to exit.
// A non-zero exit or a signal is reported as a *RunError.
func (b *Builder) Run(ctx context.Context, p profile.Profile, args []string) error {
	exe, err := b.Build(ctx, p)
	if err != nil {
		return err
	}

	msg.Status("Running", "`%s`", strings.Join(append([]string{b.rel(exe)}, args...), " "))
	cmd := exec.CommandContext(ctx, exe, args...)
	cmd.Stdin = b.Stdin
	cmd.Stdout = b.Stdout
	cmd.Stderr = b.Stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &RunError{Path: exe, ExitCode: exitErr.ExitCode(), Err: err}
		}
		return &RunError{Path: exe, ExitCode: SignalExitCode, Err: err}
	}
	return nil
}
