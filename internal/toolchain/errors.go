package toolchain

import (
	"fmt"
	"strings"
)

// Phase names the toolchain step that failed
type Phase string

const (
	PhaseCompile Phase = "compile"
	PhaseLink    Phase = "link"
)

// ToolchainError is returned when the compiler or linker could not be spawned or exited non-zero.
// Diagnostic holds the tool's standard error exactly as it was written.
type ToolchainError struct {
	Phase      Phase
	Unit       string // source file for compile, output path for link
	Diagnostic string
	Err        error
}

// Summary is the one-line description without the diagnostic text
func (e *ToolchainError) Summary() string {
	return fmt.Sprintf("%s failed for %s: %v", e.Phase, e.Unit, e.Err)
}

func (e *ToolchainError) Error() string {
	diag := strings.TrimRight(e.Diagnostic, "\r\n")
	if diag == "" {
		return e.Summary()
	}
	return fmt.Sprintf("%s failed for %s:\n%s", e.Phase, e.Unit, diag)
}

func (e *ToolchainError) Unwrap() error { return e.Err }

// LinkError is a ToolchainError raised by the final link.
type LinkError struct {
	ToolchainError
}

func (e *LinkError) Error() string { return e.ToolchainError.Error() }

func (e *LinkError) Unwrap() error { return &e.ToolchainError }
