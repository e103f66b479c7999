package cmd

import (
	"fmt"

	"github.com/ngeor/go-basic/internal/lexer"
	"github.com/spf13/cobra"
)

var tokensCmd = &cobra.Command{
	Use:   "tokens <file.bas>",
	Short: "Dump the token stream for a BASIC file",
	Long: `tokens tokenizes a BASIC source file and prints every token, its
kind, and its row:col position, without parsing it. A debugging aid for
the lexer.`,
	Args: cobra.ExactArgs(1),
	RunE: runTokens,
}

func init() {
	rootCmd.AddCommand(tokensCmd)
}

func runTokens(_ *cobra.Command, args []string) error {
	src, _, err := readSource(args)
	if err != nil {
		return err
	}

	lx := lexer.New(src)
	for {
		tok, ok := lx.Next()
		if !ok {
			break
		}
		fmt.Printf("%-12s %4d:%-3d %q\n", tok.Type, tok.Pos.Row, tok.Pos.Col, tok.Text)
	}
	return nil
}
