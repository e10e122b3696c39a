package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/forth65/forth65"
)

var (
	rootCmd = &cobra.Command{
		Use:          "forth65 [flags] file",
		Short:        "forth65",
		SilenceUsage: true,
		Long: `Cross-compiler from a stack-based, concatenative source language to 6502
assembly text. The compiled program (runtime, data and user words grouped
into named sections) is written to stdout.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prog, err := compileArg(args[0])
			if err != nil {
				return err
			}
			fmt.Print(prog.Render())
			return nil
		},
	}

	pstackBottom string
	pstackSize   int
	sections     []string
	verbose      bool
)

// Execute executes the root command.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
	}
	return err
}

func init() {
	rootCmd.SilenceErrors = true
	rootCmd.PersistentFlags().StringVarP(&pstackBottom, "pstack-bottom", "p", "",
		"parameter stack base address as an assembler literal (default $600)")
	rootCmd.PersistentFlags().IntVarP(&pstackSize, "pstack-size", "S", 0,
		"parameter stack size in bytes, masked to 8 bits (default 256)")
	rootCmd.PersistentFlags().StringSliceVarP(&sections, "sections", "s", nil,
		"comma-separated output section order (default init,boot,data,text)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"log compilation stages to stderr")
}

// compileArg compiles the named source file with options merged from the
// command line over the optional forth65.yaml next to the file.
func compileArg(file string) (*forth65.Program, error) {
	dir := filepath.Dir(file)

	cfg, err := LoadConfig(dir)
	if err != nil {
		return nil, err
	}

	log := logrus.New()
	log.SetOutput(os.Stderr)
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	opts := forth65.Options{
		PStackBottom: cfg.PStackBottom,
		PStackSize:   cfg.PStackSize,
		Sections:     cfg.Sections,
		Log:          log,
	}
	if pstackBottom != "" {
		opts.PStackBottom = pstackBottom
	}
	if pstackSize != 0 {
		opts.PStackSize = pstackSize
	}
	if len(sections) != 0 {
		opts.Sections = sections
	}

	return forth65.Compile(os.DirFS(dir), filepath.Base(file), opts)
}
