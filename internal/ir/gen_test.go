package ir

import (
	"testing"

	"github.com/ngeor/go-basic/internal/ast"
	"github.com/ngeor/go-basic/internal/lexer"
	"github.com/ngeor/go-basic/internal/parser"
	"github.com/ngeor/go-basic/internal/pc"
	"github.com/ngeor/go-basic/internal/semantic"
)

func genMain(t *testing.T, src string) *Unit {
	t.Helper()
	prog, err := parser.Program(pc.NewStream(lexer.New([]byte(src))))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if _, errs := semantic.Lint(prog); len(errs) != 0 {
		t.Fatalf("lint errors: %v", errs)
	}
	out, err := Generate(prog)
	if err != nil {
		t.Fatalf("generate error: %v", err)
	}
	return out.Main
}

func TestForLoopLoweringWithLiteralStep(t *testing.T) {
	u := genMain(t, "FOR I% = 1 TO 10 STEP 2\nPRINT I%\nNEXT I%")
	var jumps, tests int
	for _, in := range u.Instructions {
		if in.Op == OpJump {
			jumps++
		}
		if in.Op == OpEvalInto {
			tests++
		}
	}
	if jumps == 0 || tests == 0 {
		t.Fatalf("expected at least one loop test and backward jump, got %#v", u.Instructions)
	}
}

func TestGotoForwardReferenceResolves(t *testing.T) {
	u := genMain(t, "GOTO Skip\nPRINT 1\nSkip:\nPRINT 2")
	found := false
	for _, in := range u.Instructions {
		if in.Op == OpJump && !in.Label.IsZero() {
			t.Fatalf("forward GOTO left unresolved: %#v", in)
		}
		if in.Op == OpJump {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a lowered GOTO jump")
	}
}

func TestIfElseIfElseLowersToJumpChain(t *testing.T) {
	src := "IF A = 1 THEN\nPRINT 1\nELSEIF A = 2 THEN\nPRINT 2\nELSE\nPRINT 3\nEND IF"
	u := genMain(t, src)
	var condTests int
	for _, in := range u.Instructions {
		if in.Op == OpJumpIfFalse {
			condTests++
		}
	}
	if condTests != 2 {
		t.Fatalf("expected 2 condition tests (IF and ELSEIF), got %d", condTests)
	}
}

func TestSelectCaseLowersArms(t *testing.T) {
	src := "SELECT CASE X\nCASE 1 TO 5\nPRINT 1\nCASE IS > 10\nPRINT 2\nCASE ELSE\nPRINT 3\nEND SELECT"
	u := genMain(t, src)
	hasAnd := false
	for _, in := range u.Instructions {
		if in.Op == OpEvalInto {
			if bin, ok := in.Expr.(*ast.BinaryExpr); ok && bin.Op == ast.OpAnd {
				hasAnd = true
			}
		}
	}
	if !hasAnd {
		t.Fatalf("expected the CASE 1 TO 5 range test to compile to an AND of two comparisons")
	}
}

func TestGosubAndReturnLower(t *testing.T) {
	u := genMain(t, "GOSUB Sub1\nEND\nSub1:\nPRINT 1\nRETURN")
	var hasGosub, hasReturn bool
	for _, in := range u.Instructions {
		if in.Op == OpGosub {
			hasGosub = true
		}
		if in.Op == OpReturn {
			hasReturn = true
		}
	}
	if !hasGosub || !hasReturn {
		t.Fatalf("expected GOSUB and RETURN to lower, got %#v", u.Instructions)
	}
}
