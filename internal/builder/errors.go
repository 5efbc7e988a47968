package builder

import (
	"errors"
	"fmt"
	"os/exec"
)

// ErrNoSources is wrapped by a SourceDiscoveryError when src/ holds no source files.
var ErrNoSources = errors.New("no source files found")

// SignalExitCode is the RunError exit code when no exit status exists: the program
// was killed by a signal or never started.
const SignalExitCode = -1

// SourceDiscoveryError is returned when a source or header directory cannot be read,
// or when the project has nothing to compile.
type SourceDiscoveryError struct {
	Dir string
	Err error
}

func (e *SourceDiscoveryError) Error() string {
	if errors.Is(e.Err, ErrNoSources) {
		return fmt.Sprintf("no source files (*%s) found in `%s`", SourceExt, e.Dir)
	}
	return fmt.Sprintf("failed to read directory `%s`: %v", e.Dir, e.Err)
}

func (e *SourceDiscoveryError) Unwrap() error { return e.Err }

// DependencyError attributes a failure to the declared dependency that caused it.
type DependencyError struct {
	Name string
	Path string
	Err  error
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("dependency `%s` (%s): %v", e.Name, e.Path, e.Err)
}

func (e *DependencyError) Unwrap() error { return e.Err }

// RunError is returned when the built executable could not be started, exited non-zero
// or was terminated by a signal.
type RunError struct {
	Path     string
	ExitCode int
	Err      error
}

func (e *RunError) Error() string {
	var exitErr *exec.ExitError
	switch {
	case !errors.As(e.Err, &exitErr):
		return fmt.Sprintf("failed to run `%s`: %v", e.Path, e.Err)
	case e.ExitCode == SignalExitCode:
		return fmt.Sprintf("`%s` was terminated by a signal (%v)", e.Path, e.Err)
	default:
		return fmt.Sprintf("project execution failed with exit code: %d", e.ExitCode)
	}
}

func (e *RunError) Unwrap() error { return e.Err }
