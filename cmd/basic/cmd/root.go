// Package cmd implements the basic CLI's subcommands: one command per
// file, all registered onto a shared rootCmd.
package cmd

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"golang.org/x/text/encoding/charmap"
)

var (
	// Version is set by build flags; it defaults to a development marker
	// when built without them.
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	verbose     bool
	colorMode   string
	codePageArg string
)

var rootCmd = &cobra.Command{
	Use:   "basic",
	Short: "A QBasic-compatible language toolchain",
	Long: `basic tokenizes, parses, lints, and runs QBasic-compatible programs.

It covers numeric/string variables and arrays, SUB/FUNCTION procedures,
control flow (IF/FOR/WHILE/DO/SELECT CASE/GOTO/GOSUB), sequential file
I/O, and the built-in function library.`,
	Version:      Version,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&colorMode, "color", "auto", "colorize diagnostics: auto, always, never")
	rootCmd.PersistentFlags().StringVar(&codePageArg, "codepage", "none", "decode string literals above 0x7F using this code page: none, cp437, latin1")
}

// wantColor resolves --color against whether stdout is a terminal.
func wantColor() bool {
	switch colorMode {
	case "always":
		return true
	case "never":
		return false
	default:
		return isatty.IsTerminal(os.Stdout.Fd())
	}
}

// codePage resolves --codepage to the charmap it names, or nil for "none"
// (the default): string literals are then decoded byte-for-byte, matching
// behavior before --codepage existed.
func codePage() *charmap.Charmap {
	switch codePageArg {
	case "cp437":
		return charmap.CodePage437
	case "latin1":
		return charmap.ISO8859_1
	default:
		return nil
	}
}
