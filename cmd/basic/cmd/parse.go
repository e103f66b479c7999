package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var parseDumpAST bool

var parseCmd = &cobra.Command{
	Use:   "parse <file.bas>",
	Short: "Parse a BASIC file and print its AST",
	Long: `parse runs the lexer and parser over a BASIC source file and prints
the resulting untyped AST, without linting or running it.

Examples:
  basic parse game.bas --dump-ast`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)
	parseCmd.Flags().BoolVar(&parseDumpAST, "dump-ast", false, "print the parsed AST tree")
}

func runParse(_ *cobra.Command, args []string) error {
	src, filename, err := readSource(args)
	if err != nil {
		return err
	}

	prog, err := parseFile(src, filename)
	if err != nil {
		return err
	}

	if parseDumpAST {
		fmt.Print(dumpProgram(prog))
	} else {
		fmt.Printf("parsed %s: %d global statement(s), %d TYPE(s), %d DECLARE(s), %d SUB(s), %d FUNCTION(s)\n",
			filename, len(prog.Globals), len(prog.Types), len(prog.Declares), len(prog.Subs), len(prog.Functions))
	}
	return nil
}
