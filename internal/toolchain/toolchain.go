package toolchain

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"

	"github.com/qobs-build/cork/internal/msg"
	"github.com/qobs-build/cork/internal/profile"
)

//go:generate go run go.uber.org/mock/mockgen -source=toolchain.go -destination=mocks/mock_toolchain.go -package=mocks

// Toolchain compiles single translation units and links object sets.
// Implementations run synchronously and report failures as *ToolchainError or *LinkError.
type Toolchain interface {
	// Compile turns one source file into one object file.
	Compile(ctx context.Context, source, object string, includeDirs []string, p profile.Profile) error
	// Link produces an executable at output from objects, in the given order.
	Link(ctx context.Context, objects []string, output string, p profile.Profile) error
}

// OptimizeFlag is appended to compile invocations for optimized profiles
const OptimizeFlag = "-O3"

var errNoCompiler = errors.New("no C compiler found (set CC or --cc)")

// GCC drives a gcc-compatible compiler driver (gcc, clang, cc, tcc) as an external process.
type GCC struct {
	CC string
	// Stdout receives the tool's standard output; os.Stdout when nil.
	Stdout io.Writer
	// Warnings receives the standard error of invocations that succeeded; discarded when nil.
	Warnings io.Writer
}

func NewGCC(cc string) *GCC {
	return &GCC{CC: cc, Stdout: os.Stdout}
}

// CompileArgs returns the argument list for compiling source into object
func CompileArgs(source, object string, includeDirs []string, p profile.Profile) []string {
	args := make([]string, 0, 4+2*len(includeDirs)+1)
	args = append(args, "-c", source, "-o", object)
	for _, dir := range includeDirs {
		args = append(args, "-I", dir)
	}
	if p.Optimized() {
		args = append(args, OptimizeFlag)
	}
	return args
}

// LinkArgs returns the argument list for linking objects into output
func LinkArgs(objects []string, output string) []string {
	args := make([]string, 0, 2+len(objects))
	args = append(args, "-o", output)
	return append(args, objects...)
}

func (g *GCC) Compile(ctx context.Context, source, object string, includeDirs []string, p profile.Profile) error {
	if err := g.run(ctx, CompileArgs(source, object, includeDirs, p)); err != nil {
		err.Phase, err.Unit = PhaseCompile, source
		return err
	}
	return nil
}

func (g *GCC) Link(ctx context.Context, objects []string, output string, p profile.Profile) error {
	if err := g.run(ctx, LinkArgs(objects, output)); err != nil {
		err.Phase, err.Unit = PhaseLink, output
		return &LinkError{ToolchainError: *err}
	}
	return nil
}

func (g *GCC) run(ctx context.Context, args []string) *ToolchainError {
	if g.CC == "" {
		return &ToolchainError{Err: errNoCompiler}
	}

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, g.CC, args...)
	cmd.Stdout = g.Stdout
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return &ToolchainError{Diagnostic: stderr.String(), Err: err}
	}
	if stderr.Len() > 0 && g.Warnings != nil {
		// the tool succeeded; losing its warnings must not fail the build
		if _, err := io.Copy(g.Warnings, &stderr); err != nil {
			msg.Debug("failed to forward %s warnings: %v", g.CC, err)
		}
	}
	return nil
}
