package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var lintCmd = &cobra.Command{
	Use:   "lint <file.bas>",
	Short: "Lint a BASIC file without running it",
	Long: `lint runs the full pipeline through the linter only: every name,
expression type, and constant is resolved and checked, but the program
is never lowered or executed. Reports errors and implicit-variable
warnings.`,
	Args: cobra.ExactArgs(1),
	RunE: runLint,
}

func init() {
	rootCmd.AddCommand(lintCmd)
}

func runLint(_ *cobra.Command, args []string) error {
	src, filename, err := readSource(args)
	if err != nil {
		return err
	}

	_, sem, err := lintFile(src, filename)
	if err != nil {
		return err
	}

	if len(sem.Global.Implicit) > 0 {
		fmt.Printf("%d implicit variable(s):\n", len(sem.Global.Implicit))
		for _, iv := range sem.Global.Implicit {
			fmt.Printf("  %s\n", iv.Name.String())
		}
	}
	fmt.Printf("%s: no errors\n", filename)
	return nil
}
