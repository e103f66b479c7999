package cmd

import (
	"fmt"
	"os"

	"github.com/ngeor/go-basic/internal/ast"
	"github.com/ngeor/go-basic/internal/common"
	"github.com/ngeor/go-basic/internal/diag"
	"github.com/ngeor/go-basic/internal/lexer"
	"github.com/ngeor/go-basic/internal/parser"
	"github.com/ngeor/go-basic/internal/pc"
	"github.com/ngeor/go-basic/internal/semantic"
)

// readSource loads the file named by args[0]; cobra.ExactArgs(1) on every
// subcommand that calls this guarantees args has exactly one element.
func readSource(args []string) (src []byte, filename string, err error) {
	filename = args[0]
	src, err = os.ReadFile(filename)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return src, filename, nil
}

// newLexer builds a Lexer over src honoring --codepage.
func newLexer(src []byte) *lexer.Lexer {
	if cm := codePage(); cm != nil {
		return lexer.New(src, lexer.WithCodePage(cm))
	}
	return lexer.New(src)
}

// parseFile runs the lexer and parser over src, reporting a syntax error
// through internal/diag on failure.
func parseFile(src []byte, filename string) (*ast.Program, error) {
	prog, err := parser.Program(pc.NewStream(newLexer(src)))
	if err != nil {
		printErrs(asQErrors(err), src, filename)
		return nil, fmt.Errorf("parsing failed")
	}
	return prog, nil
}

// lintFile parses then lints src, reporting every diagnostic from
// whichever stage fails.
func lintFile(src []byte, filename string) (*ast.Program, *semantic.Program, error) {
	prog, err := parseFile(src, filename)
	if err != nil {
		return nil, nil, err
	}
	sem, errs := semantic.Lint(prog)
	if len(errs) != 0 {
		printErrs(asQErrors(errs...), src, filename)
		return nil, nil, fmt.Errorf("linting failed with %d error(s)", len(errs))
	}
	return prog, sem, nil
}

// asQErrors normalizes one or more errors (every error raised by
// internal/pc, internal/parser, and internal/semantic is actually a
// *common.QError) into the slice internal/diag formats.
func asQErrors(errs ...error) []*common.QError {
	out := make([]*common.QError, 0, len(errs))
	for _, e := range errs {
		if qe, ok := e.(*common.QError); ok {
			out = append(out, qe)
			continue
		}
		out = append(out, common.New(common.ErrInternal, common.Position{}, "%v", e))
	}
	return out
}

func printErrs(errs []*common.QError, src []byte, filename string) {
	fmt.Fprint(os.Stderr, diag.FormatAll(errs, string(src), filename, wantColor()))
}
