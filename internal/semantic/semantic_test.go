package semantic

import (
	"testing"

	"github.com/ngeor/go-basic/internal/ast"
	"github.com/ngeor/go-basic/internal/common"
	"github.com/ngeor/go-basic/internal/lexer"
	"github.com/ngeor/go-basic/internal/parser"
	"github.com/ngeor/go-basic/internal/pc"
)

func parseProgram(t *testing.T, src string) *ast.Program {
	t.Helper()
	prog, err := parser.Program(pc.NewStream(lexer.New([]byte(src))))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	return prog
}

func TestImplicitVariableDefaultsToSingle(t *testing.T) {
	prog := parseProgram(t, "X = 1")
	out, errs := Lint(prog)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(out.Global.Implicit) != 1 || out.Global.Implicit[0].Name.String() != "X" {
		t.Fatalf("expected one implicit var X, got %#v", out.Global.Implicit)
	}
}

func TestDuplicateDimIsRejected(t *testing.T) {
	prog := parseProgram(t, "DIM X AS INTEGER\nDIM X AS INTEGER")
	_, errs := Lint(prog)
	if len(errs) == 0 {
		t.Fatalf("expected a duplicate-definition error")
	}
}

func TestCompactQualifiersCanCoexist(t *testing.T) {
	prog := parseProgram(t, "DIM X%\nDIM X$")
	_, errs := Lint(prog)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
}

func TestConstantFoldsAndResolves(t *testing.T) {
	prog := parseProgram(t, "CONST PI = 3\nX = PI")
	out, errs := Lint(prog)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if _, ok := out.Global.Constants["PI"]; !ok {
		t.Fatalf("expected constant PI to be registered")
	}
}

func TestBuiltinCallResolves(t *testing.T) {
	prog := parseProgram(t, "X = LEN(\"hi\")")
	_, errs := Lint(prog)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	assign := prog.Globals[0].(*ast.AssignStmt)
	call := assign.Value.(*ast.CallOrIndexExpr)
	if call.Resolved != ast.CallBuiltinFunction {
		t.Fatalf("expected LEN to resolve as a built-in, got %v", call.Resolved)
	}
}

func TestArrayElementResolves(t *testing.T) {
	prog := parseProgram(t, "DIM A(10) AS INTEGER\nX = A(1)")
	_, errs := Lint(prog)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	assign := prog.Globals[1].(*ast.AssignStmt)
	call := assign.Value.(*ast.CallOrIndexExpr)
	if call.Resolved != ast.CallArrayElement {
		t.Fatalf("expected A(1) to resolve as an array element, got %v", call.Resolved)
	}
}

func TestUserFunctionCallResolves(t *testing.T) {
	prog := parseProgram(t, "X = Square(2)\nFUNCTION Square(N)\nSquare = N * N\nEND FUNCTION")
	_, errs := Lint(prog)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	assign := prog.Globals[0].(*ast.AssignStmt)
	call := assign.Value.(*ast.CallOrIndexExpr)
	if call.Resolved != ast.CallUserFunction {
		t.Fatalf("expected Square(2) to resolve as a user function, got %v", call.Resolved)
	}
}

func TestUndefinedTypeIsReported(t *testing.T) {
	prog := parseProgram(t, "DIM P AS Point")
	_, errs := Lint(prog)
	if len(errs) == 0 {
		t.Fatalf("expected a type-not-defined error")
	}
}

func TestRecordFieldResolves(t *testing.T) {
	src := "TYPE Point\nX AS INTEGER\nY AS INTEGER\nEND TYPE\nDIM P AS Point\nP.X = 1"
	prog := parseProgram(t, src)
	_, errs := Lint(prog)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
}

func TestBinaryExprWidensToDouble(t *testing.T) {
	prog := parseProgram(t, "DIM A AS LONG\nDIM B AS DOUBLE\nDIM C AS DOUBLE\nC = A + B")
	_, errs := Lint(prog)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	assign := prog.Globals[3].(*ast.AssignStmt)
	if assign.Value.Type().Qual != common.QualDouble {
		t.Fatalf("expected LONG + DOUBLE to widen to DOUBLE, got %v", assign.Value.Type())
	}
}
