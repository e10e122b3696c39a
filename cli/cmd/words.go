package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/forth65/forth65"
)

var (
	wordsCmd = &cobra.Command{
		Use:   "words file",
		Short: "Compile the program and list the definitions that survive dead-word elimination",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prog, err := compileArg(args[0])
			if err != nil {
				return err
			}
			for _, e := range prog.Dictionary.Entries() {
				if !e.IsUsed() {
					continue
				}
				var kind string
				switch e.(type) {
				case *forth65.Constant:
					kind = "constant"
				case *forth65.Variable:
					kind = "variable"
				case *forth65.Word:
					kind = "word"
				}
				fmt.Printf("%-8s %-16s %s\n", kind, e.EntryName(), e.AsmLabel())
			}
			return nil
		},
	}
)

func init() {
	rootCmd.AddCommand(wordsCmd)
}
