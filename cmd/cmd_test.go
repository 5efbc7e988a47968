package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/qobs-build/cork/internal/builder"
	"github.com/qobs-build/cork/internal/manifest"
	"github.com/qobs-build/cork/internal/msg"
	"github.com/qobs-build/cork/internal/profile"
	"github.com/qobs-build/cork/internal/toolchain"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureMsg(t *testing.T) (*bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	oldOut, oldErr, oldNoColor := msg.Stdout, msg.Stderr, color.NoColor
	var out, errOut bytes.Buffer
	msg.Stdout, msg.Stderr, color.NoColor = &out, &errOut, true
	t.Cleanup(func() {
		msg.Stdout, msg.Stderr, color.NoColor = oldOut, oldErr, oldNoColor
		msg.SetVerbose(false)
	})
	return &out, &errOut
}

// ---------- Command tree ----------

func TestRootCommandHasSubcommands(t *testing.T) {
	root := newRootCommand()
	names := make([]string, 0, len(root.Commands()))
	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
	}
	for _, name := range []string{"build", "run", "new", "init", "clean"} {
		assert.Contains(t, names, name, "missing subcommand: %s", name)
	}
	assert.Equal(t, version, root.Version)
}

func TestAliases(t *testing.T) {
	root := newRootCommand()
	for alias, name := range map[string]string{"b": "build", "r": "run"} {
		cmd, _, err := root.Find([]string{alias})
		require.NoError(t, err)
		assert.Equal(t, name, cmd.Name())
	}
}

func TestBuildAndRunFlags(t *testing.T) {
	root := newRootCommand()
	for _, name := range []string{"build", "run"} {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err)
		assert.NotNil(t, cmd.Flags().Lookup("release"), "%s: missing --release", name)
		assert.NotNil(t, cmd.Flags().Lookup("profile"), "%s: missing --profile", name)
	}
	for _, name := range []string{"verbose", "cc", "directory"} {
		assert.NotNil(t, root.PersistentFlags().Lookup(name), "missing persistent flag: %s", name)
	}
}

// ---------- Flags ----------

func TestBuildFlagsSelected(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want profile.Profile
	}{
		{"default", nil, profile.Debug},
		{"release switch", []string{"--release"}, profile.Release},
		{"short release switch", []string{"-r"}, profile.Release},
		{"profile flag", []string{"--profile", "release"}, profile.Release},
		{"release wins", []string{"-p", "debug", "-r"}, profile.Release},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bf := newBuildFlags()
			cmd := &cobra.Command{Use: "x"}
			bf.register(cmd)
			require.NoError(t, cmd.Flags().Parse(tt.args))
			got, err := bf.selected()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestProfileFlagRejectsUnknown(t *testing.T) {
	bf := newBuildFlags()
	cmd := &cobra.Command{Use: "x"}
	bf.register(cmd)
	err := cmd.Flags().Parse([]string{"--profile", "fast"})
	assert.ErrorContains(t, err, "must be one of: debug, release")
}

func TestEnumValue(t *testing.T) {
	e := NewEnumValue("a", map[string]string{"b": "", "a": "first"})
	assert.Equal(t, "a", e.String())
	assert.Equal(t, "[a, b]", e.HelpString())
	assert.NoError(t, e.Set("b"))
	assert.Equal(t, "b", e.Value())
	assert.Error(t, e.Set("c"))

	items, _ := e.CompletionFunc()(nil, nil, "")
	assert.Equal(t, []string{"a\tfirst", "b"}, items)

	assert.Panics(t, func() { NewEnumValue("z", map[string]string{"a": ""}) })
}

func TestConfigFromEnvironment(t *testing.T) {
	t.Cleanup(func() { msg.SetVerbose(false) })

	newOpts := func() (*options, *cobra.Command) {
		opts := &options{v: viper.New()}
		cmd := &cobra.Command{Use: "x"}
		cmd.Flags().StringVar(&opts.cc, "cc", "", "")
		cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "")
		return opts, cmd
	}

	t.Setenv("CORK_CC", "/opt/cross/bin/cc")
	t.Setenv("CORK_VERBOSE", "true")
	opts, cmd := newOpts()
	require.NoError(t, opts.initConfig(cmd))
	assert.Equal(t, "/opt/cross/bin/cc", opts.compiler())
	assert.True(t, msg.Verbose())

	opts, cmd = newOpts()
	require.NoError(t, cmd.Flags().Parse([]string{"--cc", "clang-18"}))
	require.NoError(t, opts.initConfig(cmd))
	assert.Equal(t, "clang-18", opts.compiler())
}

// ---------- Error reporting ----------

func TestReportError(t *testing.T) {
	t.Run("run error forwards exit code", func(t *testing.T) {
		_, errOut := captureMsg(t)
		code := reportError(&builder.RunError{Path: "app", ExitCode: 7, Err: errors.New("exit status 7")})
		assert.Equal(t, 7, code)
		assert.Contains(t, errOut.String(), "app")
	})

	t.Run("signal maps to 1", func(t *testing.T) {
		captureMsg(t)
		assert.Equal(t, 1, reportError(&builder.RunError{Path: "app", ExitCode: builder.SignalExitCode, Err: errors.New("killed")}))
	})

	t.Run("diagnostic is indented verbatim", func(t *testing.T) {
		_, errOut := captureMsg(t)
		err := &builder.DependencyError{Name: "mathlib", Path: "/deps/mathlib", Err: &toolchain.ToolchainError{
			Phase:      toolchain.PhaseCompile,
			Unit:       "src/mathlib.c",
			Diagnostic: "src/mathlib.c:2:1: error: expected ';'\n    2 | }\n",
			Err:        errors.New("exit status 1"),
		}}
		assert.Equal(t, 1, reportError(err))
		out := errOut.String()
		assert.Contains(t, out, "error: failed to build dependency `mathlib` (/deps/mathlib)\n")
		assert.Contains(t, out, "error: compile failed for src/mathlib.c: exit status 1\n")
		assert.Contains(t, out, "    src/mathlib.c:2:1: error: expected ';'\n        2 | }\n")
	})

	t.Run("other errors", func(t *testing.T) {
		_, errOut := captureMsg(t)
		err := &manifest.ConfigError{Path: "/p/Cork.toml", Dir: "/p", Err: os.ErrNotExist}
		assert.Equal(t, 1, reportError(err))
		assert.Equal(t, "error: could not find `Cork.toml` in `/p`\n", errOut.String())
	})
}

// ---------- End to end ----------

func execute(t *testing.T, args ...string) error {
	t.Helper()
	root := newRootCommand()
	root.SetArgs(args)
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	return root.Execute()
}

func TestNewThenClean(t *testing.T) {
	out, _ := captureMsg(t)
	dir := filepath.Join(t.TempDir(), "demo")

	require.NoError(t, execute(t, "new", dir))
	assert.FileExists(t, filepath.Join(dir, "Cork.toml"))
	assert.Contains(t, out.String(), "project `demo`")

	err := execute(t, "new", dir)
	assert.Error(t, err)

	out.Reset()
	require.NoError(t, execute(t, "clean", dir))
	assert.Contains(t, out.String(), "nothing to clean")

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "build", "debug", "obj"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "build", "debug", "obj", "main.o"), []byte("obj"), 0o644))
	out.Reset()
	require.NoError(t, execute(t, "clean", dir))
	assert.Contains(t, out.String(), "Removed 1 files, 0.0MiB total")
	assert.NoDirExists(t, filepath.Join(dir, "build"))
}

func TestInitInDirectory(t *testing.T) {
	captureMsg(t)
	dir := t.TempDir()

	require.NoError(t, execute(t, "init", "-C", dir, "myproj"))
	cfg, err := manifest.LoadDir(dir)
	require.NoError(t, err)
	assert.Equal(t, "myproj", cfg.Project.Name)
}

func TestInitKeepsExistingManifest(t *testing.T) {
	_, errOut := captureMsg(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Cork.toml"), []byte("[project]\nname = \"old\"\nversion = \"2.0.0\"\n"), 0o644))

	require.NoError(t, execute(t, "init", "-C", dir, "renamed"))
	assert.Contains(t, errOut.String(), "kept existing Cork.toml")

	cfg, err := manifest.LoadDir(dir)
	require.NoError(t, err)
	assert.Equal(t, "old", cfg.Project.Name)
	assert.Equal(t, "2.0.0", cfg.Project.Version)
	assert.FileExists(t, filepath.Join(dir, "src", "main.c"))
}

func TestBuildWithoutManifest(t *testing.T) {
	captureMsg(t)
	err := execute(t, "build", t.TempDir())
	var cfgErr *manifest.ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.True(t, cfgErr.Missing())
}
