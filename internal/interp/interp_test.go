package interp

import (
	"bytes"
	"testing"

	"github.com/ngeor/go-basic/internal/ir"
	"github.com/ngeor/go-basic/internal/lexer"
	"github.com/ngeor/go-basic/internal/parser"
	"github.com/ngeor/go-basic/internal/pc"
	"github.com/ngeor/go-basic/internal/semantic"
)

func runSource(t *testing.T, src string) string {
	t.Helper()
	prog, err := parser.Program(pc.NewStream(lexer.New([]byte(src))))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	sem, errs := semantic.Lint(prog)
	if len(errs) != 0 {
		t.Fatalf("lint errors: %v", errs)
	}
	lowered, err := ir.Generate(prog)
	if err != nil {
		t.Fatalf("generate error: %v", err)
	}
	var out bytes.Buffer
	it := New(lowered, sem, &out)
	if err := it.Run(); err != nil {
		t.Fatalf("run error: %v", err)
	}
	return out.String()
}

func TestPrintLiteral(t *testing.T) {
	got := runSource(t, "PRINT \"HELLO\"")
	want := "HELLO\n"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestForLoopAccumulatesIntoVariable(t *testing.T) {
	got := runSource(t, "TOTAL% = 0\nFOR I% = 1 TO 5\nTOTAL% = TOTAL% + I%\nNEXT I%\nPRINT TOTAL%")
	want := " 15\n"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestForLoopNegativeStepRunsOnce(t *testing.T) {
	got := runSource(t, "FOR I% = 1 TO 1 STEP -1\nPRINT I%\nNEXT I%")
	want := " 1\n"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestIfElseIfElse(t *testing.T) {
	src := "X% = 2\nIF X% = 1 THEN\nPRINT \"ONE\"\nELSEIF X% = 2 THEN\nPRINT \"TWO\"\nELSE\nPRINT \"OTHER\"\nEND IF"
	got := runSource(t, src)
	if got != "TWO\n" {
		t.Fatalf("got %q", got)
	}
}

func TestSelectCaseRange(t *testing.T) {
	src := "X% = 3\nSELECT CASE X%\nCASE 1 TO 2\nPRINT \"LOW\"\nCASE 3 TO 5\nPRINT \"MID\"\nCASE ELSE\nPRINT \"HIGH\"\nEND SELECT"
	got := runSource(t, src)
	if got != "MID\n" {
		t.Fatalf("got %q", got)
	}
}

func TestGosubReturn(t *testing.T) {
	src := "GOSUB Greet\nEND\nGreet:\nPRINT \"HI\"\nRETURN"
	got := runSource(t, src)
	if got != "HI\n" {
		t.Fatalf("got %q", got)
	}
}

func TestUserFunctionCallAndReturn(t *testing.T) {
	src := "PRINT Double(4)\nFUNCTION Double(N AS INTEGER)\nDouble = N * 2\nEND FUNCTION"
	got := runSource(t, src)
	if got != " 8\n" {
		t.Fatalf("got %q", got)
	}
}

func TestSubByRefMutatesCaller(t *testing.T) {
	src := "X% = 1\nBump X%\nPRINT X%\nSUB Bump (N AS INTEGER)\nN = N + 1\nEND SUB"
	got := runSource(t, src)
	if got != " 2\n" {
		t.Fatalf("got %q", got)
	}
}

func TestArrayDimAndIndex(t *testing.T) {
	src := "DIM A(1 TO 3) AS INTEGER\nA(2) = 42\nPRINT A(2)"
	got := runSource(t, src)
	if got != " 42\n" {
		t.Fatalf("got %q", got)
	}
}

func TestBuiltinStringFunctions(t *testing.T) {
	got := runSource(t, "PRINT LEFT$(\"HELLO\", 3)")
	if got != "HEL\n" {
		t.Fatalf("got %q", got)
	}
}

func TestOnErrorGotoTrapsDivisionByZero(t *testing.T) {
	src := "ON ERROR GOTO Handler\nPRINT \"BEFORE\"\nX% = 1 / 0\nEND\nHandler:\nPRINT \"CAUGHT\"\nRESUME NEXT"
	got := runSource(t, src)
	if got != "BEFORE\nCAUGHT\n" {
		t.Fatalf("got %q", got)
	}
}
