// cork new <path>, cork init [name]
package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/qobs-build/cork/internal/manifest"
	"github.com/qobs-build/cork/internal/msg"
	"github.com/qobs-build/cork/internal/scaffold"
	"github.com/spf13/cobra"
)

func getProgramName() string {
	if len(os.Args) == 0 {
		return "cork"
	}
	basename := filepath.Base(os.Args[0])
	return strings.TrimSuffix(basename, filepath.Ext(basename))
}

func printNextSteps(dir string) {
	programName := getProgramName()
	build, run := programName+" build", programName+" run"
	if dir != "." {
		build += " " + dir
		run += " -C " + dir
	}
	fmt.Fprintf(msg.Stdout, "You can now do %s to build, or %s to build and run.\n",
		color.HiCyanString(build), color.HiCyanString(run))
}

func newNewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "new <path>",
		Short: "Create a new project in a new directory",
		Long:  `Create a new project in a new directory. The project is named after the last path element.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := scaffold.New(args[0]); err != nil {
				return err
			}
			printNextSteps(args[0])
			return nil
		},
	}
}

func newInitCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "init [name]",
		Short: "Create a new project in the current directory",
		Long:  `Create a new project in the current directory (or --directory), keeping files that already exist.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) > 0 {
				name = args[0]
			}
			kept := manifest.Exists(opts.dir)
			res, err := scaffold.Init(opts.dir, name)
			if err != nil {
				return err
			}
			if kept {
				msg.Info("kept existing %s, the project name in it is unchanged", manifest.Filename)
			}
			if len(res.Created) == 0 {
				msg.Info("nothing to create, every file already exists")
			}
			printNextSteps(opts.dir)
			return nil
		},
	}
}
