package semantic

import "github.com/ngeor/go-basic/internal/ast"

// Lint runs the two-pass analysis over a parsed program: the
// global pass collects UDTs and subprogram signatures, then the body
// pass resolves every name and expression type using those registries.
// Errors from both passes are reported together rather than stopping at
// the first, since each is independently useful to a user fixing their
// program.
func Lint(prog *ast.Program) (*Program, []error) {
	out, globalErrs := globalPass(prog)
	bodyErrs := bodyPass(out)

	var errs []error
	for _, e := range globalErrs {
		errs = append(errs, e)
	}
	for _, e := range bodyErrs {
		errs = append(errs, e)
	}
	return out, errs
}
