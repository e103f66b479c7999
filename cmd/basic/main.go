// Command basic is the CLI for the BASIC toolchain: tokenize, parse,
// lint, and run QBasic-compatible programs.
package main

import (
	"fmt"
	"os"

	"github.com/ngeor/go-basic/cmd/basic/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
