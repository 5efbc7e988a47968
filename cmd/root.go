// cork, cork build [path]
package cmd

import (
	"context"
	"os"

	"github.com/qobs-build/cork/internal/builder"
	"github.com/qobs-build/cork/internal/msg"
	"github.com/qobs-build/cork/internal/toolchain"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const envPrefix = "CORK"

// version is set at build time via ldflags.
var version = "0.1.0"

// options holds the flags shared by every command, merged with CORK_* variables by viper
type options struct {
	v       *viper.Viper
	cc      string
	verbose bool
	dir     string
}

func (o *options) initConfig(cmd *cobra.Command) error {
	o.v.SetEnvPrefix(envPrefix)
	o.v.AutomaticEnv()
	if err := o.v.BindPFlag("cc", cmd.Flags().Lookup("cc")); err != nil {
		return err
	}
	if err := o.v.BindPFlag("verbose", cmd.Flags().Lookup("verbose")); err != nil {
		return err
	}
	msg.SetVerbose(o.v.GetBool("verbose"))
	return nil
}

// compiler returns the configured compiler driver, falling back to discovery
func (o *options) compiler() string {
	return toolchain.FindCompiler(o.v.GetString("cc"))
}

func (o *options) newBuilder(dir string) (*builder.Builder, error) {
	cc := o.compiler()
	msg.Debug("using compiler %q", cc)
	gcc := toolchain.NewGCC(cc)
	gcc.Stdout = msg.Stdout
	gcc.Warnings = msg.Stderr
	return builder.NewBuilderInDirectory(dir, gcc)
}

// targetDir picks the positional path when given, the --directory flag otherwise
func (o *options) targetDir(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return o.dir
}

func newRootCommand() *cobra.Command {
	opts := &options{v: viper.New()}
	bf := newBuildFlags()

	cmd := &cobra.Command{
		Use:           "cork [path]",
		Short:         "A build tool for C projects",
		Long:          `A build tool for C projects. Without a subcommand, builds the project at path (default ".").`,
		Version:       version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.initConfig(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return doBuild(cmd.Context(), opts, bf, args)
		},
	}
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Print staleness decisions and tool invocations")
	cmd.PersistentFlags().StringVar(&opts.cc, "cc", "", "C compiler driver to use (default: $CC, then gcc, clang, cc, tcc)")
	cmd.PersistentFlags().StringVarP(&opts.dir, "directory", "C", ".", "Project root to operate on")
	bf.register(cmd)

	cmd.AddCommand(newBuildCommand(opts))
	cmd.AddCommand(newRunCommand(opts))
	cmd.AddCommand(newNewCommand())
	cmd.AddCommand(newInitCommand(opts))
	cmd.AddCommand(newCleanCommand(opts))
	return cmd
}

func doBuild(ctx context.Context, opts *options, bf *buildFlags, args []string) error {
	p, err := bf.selected()
	if err != nil {
		return err
	}
	b, err := opts.newBuilder(opts.targetDir(args))
	if err != nil {
		return err
	}
	_, err = b.Build(ctx, p)
	return err
}

func newBuildCommand(opts *options) *cobra.Command {
	bf := newBuildFlags()
	cmd := &cobra.Command{
		Use:     "build [path]",
		Aliases: []string{"b"},
		Short:   "Build the project",
		Long:    `Build the project and its dependencies, recompiling only what changed. If no path is given, uses "."`,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return doBuild(cmd.Context(), opts, bf, args)
		},
	}
	bf.register(cmd)
	return cmd
}

func Execute() {
	root := newRootCommand()
	if err := root.ExecuteContext(context.Background()); err != nil {
		os.Exit(reportError(err))
	}
}
