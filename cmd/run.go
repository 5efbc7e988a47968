// cork run [-- args...]
package cmd

import (
	"github.com/spf13/cobra"
)

func newRunCommand(opts *options) *cobra.Command {
	bf := newBuildFlags()
	cmd := &cobra.Command{
		Use:     "run [-- args...]",
		Aliases: []string{"r"},
		Short:   "Build and run the project",
		Long: `Build the project, then run the executable with the given arguments.
Use --directory to pick a project other than the current directory; the program
still runs in the current directory and its exit code becomes cork's.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := bf.selected()
			if err != nil {
				return err
			}
			b, err := opts.newBuilder(opts.dir)
			if err != nil {
				return err
			}
			b.Stdin = cmd.InOrStdin()
			b.Stdout = cmd.OutOrStdout()
			b.Stderr = cmd.ErrOrStderr()
			return b.Run(cmd.Context(), p, args)
		},
	}
	bf.register(cmd)
	return cmd
}
