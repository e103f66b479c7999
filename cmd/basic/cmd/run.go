package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/ngeor/go-basic/internal/interp"
	"github.com/ngeor/go-basic/internal/ir"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run <file.bas>",
	Short: "Run a BASIC program",
	Long: `Run parses, lints, lowers, and executes a BASIC source file.

Examples:
  basic run hello.bas
  basic run --color=always game.bas`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runRun(_ *cobra.Command, args []string) error {
	src, filename, err := readSource(args)
	if err != nil {
		return err
	}
	return runFile(src, filename, os.Stdout)
}

// runFile drives the full pipeline (lint, lower, execute) for src,
// writing program output to out. Split out from runRun so tests can
// capture stdout without spawning a subprocess.
func runFile(src []byte, filename string, out io.Writer) error {
	prog, sem, err := lintFile(src, filename)
	if err != nil {
		return err
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "%s: lint ok (%d SUB, %d FUNCTION)\n", filename, len(prog.Subs), len(prog.Functions))
	}

	lowered, err := ir.Generate(prog)
	if err != nil {
		printErrs(asQErrors(err), src, filename)
		return fmt.Errorf("code generation failed")
	}

	it := interp.New(lowered, sem, out)
	if err := it.Run(); err != nil {
		printErrs(asQErrors(err), src, filename)
		return fmt.Errorf("execution failed")
	}
	return nil
}
