package parser

import (
	"testing"

	"github.com/ngeor/go-basic/internal/ast"
	"github.com/ngeor/go-basic/internal/lexer"
	"github.com/ngeor/go-basic/internal/pc"
)

func streamOf(src string) *pc.Stream {
	return pc.NewStream(lexer.New([]byte(src)))
}

func TestExpressionPrecedence(t *testing.T) {
	expr, err := Expression(streamOf("1 + 2 * 3"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	bin, ok := expr.(*ast.BinaryExpr)
	if !ok || bin.Op != ast.OpAdd {
		t.Fatalf("expected top-level +, got %#v", expr)
	}
	rhs, ok := bin.Right.(*ast.BinaryExpr)
	if !ok || rhs.Op != ast.OpMul {
		t.Fatalf("expected right side to be *, got %#v", bin.Right)
	}
}

func TestNotBindsLooserThanRelational(t *testing.T) {
	expr, err := Expression(streamOf("NOT A = B"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	un, ok := expr.(*ast.UnaryExpr)
	if !ok || un.Op != ast.OpNot {
		t.Fatalf("expected top-level NOT, got %#v", expr)
	}
	if _, ok := un.Operand.(*ast.BinaryExpr); !ok {
		t.Fatalf("expected NOT's operand to be the = comparison, got %#v", un.Operand)
	}
}

func TestNotTighterThanAnd(t *testing.T) {
	expr, err := Expression(streamOf("NOT A AND B"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	bin, ok := expr.(*ast.BinaryExpr)
	if !ok || bin.Op != ast.OpAnd {
		t.Fatalf("expected top-level AND, got %#v", expr)
	}
	if _, ok := bin.Left.(*ast.UnaryExpr); !ok {
		t.Fatalf("expected left side to be NOT A, got %#v", bin.Left)
	}
}

func TestUnaryMinusFoldsIntoIntLiteral(t *testing.T) {
	expr, err := Expression(streamOf("-5"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lit, ok := expr.(*ast.IntLiteral)
	if !ok || lit.Value != -5 {
		t.Fatalf("expected folded IntLiteral(-5), got %#v", expr)
	}
}

func TestLiteralAboveIntRangeParsesAsLong(t *testing.T) {
	expr, err := Expression(streamOf("32768"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lit, ok := expr.(*ast.LongLiteral)
	if !ok || lit.Value != 32768 {
		t.Fatalf("expected LongLiteral(32768), got %#v", expr)
	}
}

func TestUnaryMinusOnLongLiteral(t *testing.T) {
	expr, err := Expression(streamOf("-32768"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// the literal 32768 itself doesn't fit int16, so it parses as a Long
	// and negation folds directly into Long(-32768) without an
	// intermediate int16 overflow.
	lit, ok := expr.(*ast.LongLiteral)
	if !ok || lit.Value != -32768 {
		t.Fatalf("expected LongLiteral(-32768), got %#v", expr)
	}
}

func TestStringLiteralWithEscapedQuote(t *testing.T) {
	expr, err := Expression(streamOf(`"he said ""hi"""`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lit, ok := expr.(*ast.StringLiteral)
	if !ok || lit.Value != `he said "hi"` {
		t.Fatalf("unexpected literal: %#v", expr)
	}
}

func TestCallOrIndexExprParsesArgs(t *testing.T) {
	expr, err := Expression(streamOf("A(1, 2)"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	call, ok := expr.(*ast.CallOrIndexExpr)
	if !ok || len(call.Args) != 2 {
		t.Fatalf("expected CallOrIndexExpr with 2 args, got %#v", expr)
	}
}

func TestPrintStatementSeparators(t *testing.T) {
	stmt, err := Statement(streamOf(`PRINT 1; 2, 3`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p, ok := stmt.(*ast.PrintStmt)
	if !ok || len(p.Items) != 3 {
		t.Fatalf("expected 3 print items, got %#v", stmt)
	}
	if p.Items[0].Sep != ast.SepSemicolon || p.Items[1].Sep != ast.SepComma {
		t.Fatalf("unexpected separators: %#v", p.Items)
	}
}

func TestIfSingleLineVsBlock(t *testing.T) {
	stmt, err := Statement(streamOf(`IF A = 1 THEN B = 2`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ifs, ok := stmt.(*ast.IfStmt)
	if !ok || len(ifs.Then) != 1 {
		t.Fatalf("expected single-line IF with one then-statement, got %#v", stmt)
	}
}

func TestIfBlockWithElseif(t *testing.T) {
	src := "IF A = 1 THEN\nB = 2\nELSEIF A = 2 THEN\nB = 3\nELSE\nB = 4\nEND IF"
	stmt, err := Statement(streamOf(src))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ifs, ok := stmt.(*ast.IfStmt)
	if !ok {
		t.Fatalf("expected IfStmt, got %#v", stmt)
	}
	if len(ifs.ElseIfs) != 1 || len(ifs.Else) != 1 {
		t.Fatalf("expected 1 elseif and an else body, got %#v", ifs)
	}
}

func TestForLoopWithStep(t *testing.T) {
	src := "FOR I% = 1 TO 10 STEP 2\nPRINT I%\nNEXT I%"
	stmt, err := Statement(streamOf(src))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	f, ok := stmt.(*ast.ForStmt)
	if !ok || f.Step == nil {
		t.Fatalf("expected ForStmt with step, got %#v", stmt)
	}
}

func TestDimWithDimensionsAndType(t *testing.T) {
	stmt, err := Statement(streamOf(`DIM A(1 TO 10) AS INTEGER`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	d, ok := stmt.(*ast.DimStmt)
	if !ok || len(d.Vars) != 1 {
		t.Fatalf("expected DimStmt with 1 var, got %#v", stmt)
	}
	v := d.Vars[0]
	if len(v.Dims) != 1 || v.AsType == nil {
		t.Fatalf("expected one dimension and an AS type, got %#v", v)
	}
}

func TestSelectCaseWithRangeAndIs(t *testing.T) {
	src := "SELECT CASE X\nCASE 1 TO 5\nPRINT 1\nCASE IS > 10\nPRINT 2\nCASE ELSE\nPRINT 3\nEND SELECT"
	stmt, err := Statement(streamOf(src))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sel, ok := stmt.(*ast.SelectCaseStmt)
	if !ok || len(sel.Arms) != 3 {
		t.Fatalf("expected 3 arms, got %#v", stmt)
	}
	if sel.Arms[0].Tests[0].Kind != ast.CaseRange {
		t.Fatalf("expected first arm to be a range test")
	}
	if sel.Arms[1].Tests[0].Kind != ast.CaseIs {
		t.Fatalf("expected second arm to be an IS test")
	}
	if !sel.Arms[2].IsElse {
		t.Fatalf("expected third arm to be CASE ELSE")
	}
}

func TestProgramAssemblesSubsAndGlobals(t *testing.T) {
	src := "PRINT 1\nSUB Greet\nPRINT 2\nEND SUB\nPRINT 3"
	prog, err := Program(streamOf(src))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(prog.Globals) != 2 {
		t.Fatalf("expected 2 global statements, got %d", len(prog.Globals))
	}
	if len(prog.Subs) != 1 || prog.Subs[0].Name.String() != "Greet" {
		t.Fatalf("expected one SUB named Greet, got %#v", prog.Subs)
	}
}

func TestTypeDeclaration(t *testing.T) {
	src := "TYPE Point\nX AS INTEGER\nY AS INTEGER\nEND TYPE"
	prog, err := Program(streamOf(src))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(prog.Types) != 1 || len(prog.Types[0].Elements) != 2 {
		t.Fatalf("expected 1 type with 2 elements, got %#v", prog.Types)
	}
}

func TestOnErrorGotoAndResumeNext(t *testing.T) {
	stmt, err := Statement(streamOf("ON ERROR GOTO ErrHandler"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	og, ok := stmt.(*ast.OnErrorGotoStmt)
	if !ok || og.Label.String() != "ErrHandler" {
		t.Fatalf("unexpected ON ERROR GOTO: %#v", stmt)
	}
	stmt2, err := Statement(streamOf("RESUME NEXT"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rs, ok := stmt2.(*ast.ResumeStmt)
	if !ok || rs.Kind != ast.ResumeNext {
		t.Fatalf("unexpected RESUME: %#v", stmt2)
	}
}
