package cmd

import (
	"os"

	"github.com/alecthomas/repr"
	"github.com/spf13/cobra"
)

var (
	dumpCmd = &cobra.Command{
		Use:   "dump file",
		Short: "Compile the program and pretty-print the item list instead of rendering it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prog, err := compileArg(args[0])
			if err != nil {
				return err
			}
			repr.New(os.Stdout, repr.Indent("  ")).Println(prog.Items)
			return nil
		},
	}
)

func init() {
	rootCmd.AddCommand(dumpCmd)
}
