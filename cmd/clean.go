// cork clean [path]
package cmd

import (
	"fmt"

	"github.com/qobs-build/cork/internal/clean"
	"github.com/qobs-build/cork/internal/msg"
	"github.com/spf13/cobra"
)

func newCleanCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "clean [path]",
		Short: "Remove the build directory",
		Long:  `Remove the build directory of the project, every profile included. If no path is given, uses "."`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := clean.Project(opts.targetDir(args))
			if err != nil {
				return err
			}
			fmt.Fprintln(msg.Stdout, st)
			return nil
		},
	}
}
