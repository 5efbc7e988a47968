package cmd

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/qobs-build/cork/internal/builder"
	"github.com/qobs-build/cork/internal/msg"
	"github.com/qobs-build/cork/internal/profile"
	"github.com/qobs-build/cork/internal/toolchain"
	"github.com/spf13/cobra"
)

type EnumValue struct {
	value      string
	allowed    map[string]string // value -> help text
	defaultVal string
}

func NewEnumValue(defaultVal string, allowed map[string]string) EnumValue {
	if _, ok := allowed[defaultVal]; !ok {
		panic(fmt.Sprintf("default value %q not in allowed set", defaultVal))
	}
	return EnumValue{
		value:      defaultVal,
		allowed:    allowed,
		defaultVal: defaultVal,
	}
}

func (e *EnumValue) String() string     { return e.value }
func (e *EnumValue) HelpString() string { return "[" + strings.Join(e.AllowedKeys(), ", ") + "]" }
func (e *EnumValue) Type() string       { return "enum" }
func (e *EnumValue) Value() string      { return e.value }

func (e *EnumValue) Set(v string) error {
	if _, ok := e.allowed[v]; ok {
		e.value = v
		return nil
	}
	return fmt.Errorf("must be one of: %s", strings.Join(e.AllowedKeys(), ", "))
}

// AllowedKeys returns the accepted values in sorted order
func (e *EnumValue) AllowedKeys() []string {
	keys := make([]string, 0, len(e.allowed))
	for k := range e.allowed {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func (e *EnumValue) CompletionFunc() func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		items := make([]string, 0, len(e.allowed))
		for _, k := range e.AllowedKeys() {
			if help := e.allowed[k]; help != "" {
				items = append(items, fmt.Sprintf("%s\t%s", k, help))
			} else {
				items = append(items, k)
			}
		}
		return items, cobra.ShellCompDirectiveNoFileComp
	}
}

// buildFlags are the profile switches shared by build and run
type buildFlags struct {
	release bool
	profile EnumValue
}

func newBuildFlags() *buildFlags {
	return &buildFlags{
		profile: NewEnumValue(profile.Debug.String(), map[string]string{
			profile.Debug.String():   "Unoptimized build with debug info (default)",
			profile.Release.String(): "Optimized build",
		}),
	}
}

func (f *buildFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVarP(&f.release, "release", "r", false, "Build in release mode (same as --profile release)")
	cmd.Flags().VarP(&f.profile, "profile", "p", "Build with the given profile, one of "+f.profile.HelpString())
	cmd.RegisterFlagCompletionFunc("profile", f.profile.CompletionFunc())
}

// selected resolves the profile to build; --release wins over --profile
func (f *buildFlags) selected() (profile.Profile, error) {
	if f.release {
		return profile.Release, nil
	}
	return profile.Parse(f.profile.Value())
}

// reportError prints err the way the failing layer deserves and returns the process exit code.
// Compiler diagnostics are shown verbatim, indented under a one-line summary.
func reportError(err error) int {
	var runErr *builder.RunError
	if errors.As(err, &runErr) {
		msg.Error("%v", runErr)
		if runErr.ExitCode > 0 {
			return runErr.ExitCode
		}
		return 1
	}

	var tcErr *toolchain.ToolchainError
	if errors.As(err, &tcErr) {
		var depErr *builder.DependencyError
		if errors.As(err, &depErr) {
			msg.Error("failed to build dependency `%s` (%s)", depErr.Name, depErr.Path)
		}
		msg.Error("%s", tcErr.Summary())
		if diag := strings.TrimRight(tcErr.Diagnostic, "\r\n"); diag != "" {
			w := &msg.IndentWriter{Indent: "    ", W: msg.Stderr}
			fmt.Fprintln(w, diag)
		}
		return 1
	}

	msg.Error("%v", err)
	return 1
}
