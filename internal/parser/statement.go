package parser

import (
	"strings"

	"github.com/ngeor/go-basic/internal/ast"
	"github.com/ngeor/go-basic/internal/common"
	"github.com/ngeor/go-basic/internal/lexer"
	"github.com/ngeor/go-basic/internal/pc"
)

// Statement parses one statement. The grammar dispatches on the first
// token; the only branch that peeks at a second token before deciding
// is the identifier one, which checks for the `:` of a label. Comment
// branches consume their opener before calling RestOfLine, the
// discipline RestOfLine-based comment reading depends on.
func Statement(s *pc.Stream) (ast.Statement, error) {
	t, ok := s.PeekNth(0)
	if !ok {
		return nil, common.Incomplete
	}

	if t.Type == lexer.TokSingleQuote {
		s.Next()
		c := &ast.CommentStmt{Text: s.RestOfLine()}
		c.SetPos(t.Pos)
		return c, nil
	}
	if t.IsKeyword("REM") {
		s.Next()
		c := &ast.CommentStmt{Text: s.RestOfLine()}
		c.SetPos(t.Pos)
		return c, nil
	}

	if t.Type == lexer.TokIdentifier {
		if nxt, ok := s.PeekNth(1); ok && nxt.IsPunct(":") && !nxt.SpaceBefore {
			s.Next()
			s.Next()
			l := &ast.LabelStmt{Label: common.NewName(t.Text)}
			l.SetPos(t.Pos)
			return l, nil
		}
	}

	switch {
	case t.IsKeyword("DIM"), t.IsKeyword("REDIM"):
		return parseDim(s)
	case t.IsKeyword("CONST"):
		return parseConst(s)
	case t.IsKeyword("PRINT"), t.IsKeyword("LPRINT"):
		return parsePrint(s)
	case t.IsKeyword("IF"):
		return parseIf(s)
	case t.IsKeyword("SELECT"):
		return parseSelectCase(s)
	case t.IsKeyword("FOR"):
		return parseFor(s)
	case t.IsKeyword("WHILE"):
		return parseWhile(s)
	case t.IsKeyword("DO"):
		return parseDoLoop(s)
	case t.IsKeyword("GOTO"):
		return parseGoto(s)
	case t.IsKeyword("GOSUB"):
		return parseGosub(s)
	case t.IsKeyword("RETURN"):
		return parseReturn(s)
	case t.IsKeyword("ON"):
		return parseOnErrorGoto(s)
	case t.IsKeyword("RESUME"):
		return parseResume(s)
	case t.IsKeyword("EXIT"):
		return parseExit(s)
	case t.IsKeyword("END"):
		s.Next()
		return &ast.EndStmt{}, nil
	case t.IsKeyword("SYSTEM"):
		s.Next()
		return &ast.SystemStmt{}, nil
	case t.IsKeyword("CALL"):
		return parseCallStmt(s)
	case t.IsKeyword("OPEN"):
		return parseOpen(s)
	case t.IsKeyword("CLOSE"):
		return parseClose(s)
	case t.IsKeyword("KILL"):
		return parseKill(s)
	case t.IsKeyword("NAME"):
		return parseName(s)
	case t.IsKeyword("INPUT"):
		return parseInput(s)
	case t.IsKeyword("LINE"):
		return parseLineInput(s)
	}

	if t.Type == lexer.TokIdentifier {
		return parseAssignOrBareCall(s)
	}

	return nil, common.Incomplete
}

// StatementList parses statements until a keyword in stop is seen (not
// consumed) or input ends, skipping blank lines between statements.
func StatementList(stop ...string) pc.Parser[[]ast.Statement] {
	return func(s *pc.Stream) ([]ast.Statement, error) {
		var out []ast.Statement
		for {
			skipBlankLines(s)
			if atStop(s, stop) {
				return out, nil
			}
			if _, ok := s.PeekNth(0); !ok {
				return out, nil
			}
			stmt, err := Statement(s)
			if err != nil {
				if common.IsIncomplete(err) {
					return out, nil
				}
				return out, err
			}
			out = append(out, stmt)
			if err := endOfStatement(s); err != nil {
				return out, err
			}
		}
	}
}

func atStop(s *pc.Stream, stop []string) bool {
	t, ok := s.PeekNth(0)
	if !ok {
		return false
	}
	for _, kw := range stop {
		if t.IsKeyword(kw) {
			return true
		}
	}
	return false
}

func skipBlankLines(s *pc.Stream) {
	for {
		t, ok := s.PeekNth(0)
		if !ok || t.Type != lexer.TokEOL {
			return
		}
		s.Next()
	}
}

// endOfStatement requires a statement separator (EOL, `:`, or EOF)
// after a statement body.
func endOfStatement(s *pc.Stream) error {
	t, ok := s.PeekNth(0)
	if !ok {
		return nil
	}
	if t.Type == lexer.TokEOL || t.IsPunct(":") {
		s.Next()
		return nil
	}
	return common.SyntaxError(t.Pos, "expected end of statement, got %q", t.Text)
}

func parseDim(s *pc.Stream) (ast.Statement, error) {
	first, _ := s.Next()
	redim := first.IsKeyword("REDIM")
	preserve := false
	if redim {
		if _, err := pc.Keyword("PRESERVE")(s); err == nil {
			preserve = true
		}
	}
	shared := false
	if _, err := pc.Keyword("SHARED")(s); err == nil {
		shared = true
	}
	vars, err := pc.DelimitedBy(dimVar(shared), pc.Punct(","), common.ErrSyntax, "expected variable after ,")(s)
	if err != nil {
		return nil, err
	}
	return &ast.DimStmt{Vars: vars, Redim: redim, Preserve: preserve}, nil
}

func dimVar(shared bool) pc.Parser[*ast.DimVar] {
	return func(s *pc.Stream) (*ast.DimVar, error) {
		nameTok, err := pc.OrSyntaxError(pc.Ident(), "expected variable name")(s)
		if err != nil {
			return nil, err
		}
		name, qual := splitQualifier(nameTok.Text)
		v := &ast.DimVar{Name: common.NewName(name), Qual: qual, Shared: shared}
		v.SetPos(nameTok.Pos)

		if _, err := pc.Punct("(")(s); err == nil {
			dims, err := pc.DelimitedBy(dimBound, pc.Punct(","), common.ErrSyntax, "expected bound after ,")(s)
			if err != nil {
				return nil, err
			}
			if _, err := pc.OrSyntaxError(pc.Punct(")"), "expected )")(s); err != nil {
				return nil, err
			}
			v.Dims = dims
		}

		if _, err := pc.Keyword("AS")(s); err == nil {
			typ, err := parseAsType(s)
			if err != nil {
				return nil, err
			}
			v.AsType = &typ
		}
		return v, nil
	}
}

func dimBound(s *pc.Stream) (ast.DimBound, error) {
	first, err := Expression(s)
	if err != nil {
		return ast.DimBound{}, err
	}
	if _, err := pc.Keyword("TO")(s); err == nil {
		upper, err := pc.OrSyntaxError(Expression, "expected upper bound after TO")(s)
		if err != nil {
			return ast.DimBound{}, err
		}
		return ast.DimBound{Lower: first, Upper: upper}, nil
	}
	return ast.DimBound{Upper: first}, nil
}

// parseAsType parses the type name following AS. INTEGER/LONG/SINGLE/
// DOUBLE/STRING are not reserved keywords (only their qualifier
// suffixes are), so they tokenize as plain identifiers and are matched
// here by text, the same way built-in function names are recognized by
// the linter rather than the tokenizer.
func parseAsType(s *pc.Stream) (common.Type, error) {
	t, err := pc.OrSyntaxError(pc.Ident(), "expected type name")(s)
	if err != nil {
		return common.Type{}, err
	}
	switch common.NewName(t.Text).Key() {
	case "INTEGER":
		return common.QualType(common.QualInteger), nil
	case "LONG":
		return common.QualType(common.QualLong), nil
	case "SINGLE":
		return common.QualType(common.QualSingle), nil
	case "DOUBLE":
		return common.QualType(common.QualDouble), nil
	case "STRING":
		if _, err := pc.Punct("*")(s); err == nil {
			lenTok, err := pc.OrSyntaxError(pc.Filter(func(t pc.Tok) bool { return t.Type == lexer.TokDigits }), "expected string length")(s)
			if err != nil {
				return common.Type{}, err
			}
			n := 0
			for i := 0; i < len(lenTok.Text); i++ {
				n = n*10 + int(lenTok.Text[i]-'0')
			}
			return common.FixedStringType(n), nil
		}
		return common.QualType(common.QualString), nil
	default:
		return common.UserType(common.NewName(t.Text)), nil
	}
}

func parseConst(s *pc.Stream) (ast.Statement, error) {
	s.Next()
	nameTok, err := pc.OrSyntaxError(pc.Ident(), "expected constant name")(s)
	if err != nil {
		return nil, err
	}
	name, qual := splitQualifier(nameTok.Text)
	if _, err := pc.OrSyntaxError(pc.Punct("="), "expected = in CONST")(s); err != nil {
		return nil, err
	}
	value, err := pc.OrSyntaxError(Expression, "expected constant value")(s)
	if err != nil {
		return nil, err
	}
	stmt := &ast.ConstStmt{Name: common.NewName(name), Qual: qual, Value: value}
	stmt.SetPos(nameTok.Pos)
	return stmt, nil
}

func parsePrint(s *pc.Stream) (ast.Statement, error) {
	first, _ := s.Next()
	stmt := &ast.PrintStmt{Lprint: first.IsKeyword("LPRINT")}
	stmt.SetPos(first.Pos)

	if _, err := pc.Punct("#")(s); err == nil {
		n, err := pc.OrSyntaxError(Expression, "expected file number")(s)
		if err != nil {
			return nil, err
		}
		stmt.FileNum = n
		if _, err := pc.OrSyntaxError(pc.Punct(","), "expected , after file number")(s); err != nil {
			return nil, err
		}
	}

	if _, err := pc.Keyword("USING")(s); err == nil {
		format, err := pc.OrSyntaxError(Expression, "expected format string")(s)
		if err != nil {
			return nil, err
		}
		stmt.UsingFormat = format
		if _, err := pc.OrSyntaxError(pc.Punct(";"), "expected ; after USING format")(s); err != nil {
			return nil, err
		}
	}

	for {
		t, ok := s.PeekNth(0)
		if !ok || t.Type == lexer.TokEOL || t.IsPunct(":") {
			break
		}
		if t.IsPunct(";") {
			s.Next()
			stmt.Items = append(stmt.Items, ast.PrintItem{Sep: ast.SepSemicolon})
			continue
		}
		if t.IsPunct(",") {
			s.Next()
			stmt.Items = append(stmt.Items, ast.PrintItem{Sep: ast.SepComma})
			continue
		}
		expr, err := Expression(s)
		if err != nil {
			if common.IsIncomplete(err) {
				break
			}
			return nil, err
		}
		sep := ast.SepNone
		if t2, ok := s.PeekNth(0); ok {
			if t2.IsPunct(";") {
				s.Next()
				sep = ast.SepSemicolon
			} else if t2.IsPunct(",") {
				s.Next()
				sep = ast.SepComma
			}
		}
		stmt.Items = append(stmt.Items, ast.PrintItem{Expr: expr, Sep: sep})
	}
	return stmt, nil
}

func parseIf(s *pc.Stream) (ast.Statement, error) {
	first, _ := s.Next()
	cond, err := pc.OrSyntaxError(Expression, "expected condition after IF")(s)
	if err != nil {
		return nil, err
	}
	if _, err := pc.OrSyntaxError(pc.Keyword("THEN"), "expected THEN")(s); err != nil {
		return nil, err
	}
	stmt := &ast.IfStmt{Cond: cond}
	stmt.SetPos(first.Pos)

	if t, ok := s.PeekNth(0); ok && t.Type != lexer.TokEOL {
		single, err := Statement(s)
		if err != nil {
			return nil, err
		}
		stmt.Then = []ast.Statement{single}
		if t2, ok := s.PeekNth(0); ok && t2.IsKeyword("ELSE") {
			s.Next()
			elseStmt, err := Statement(s)
			if err != nil {
				return nil, err
			}
			stmt.Else = []ast.Statement{elseStmt}
		}
		return stmt, nil
	}

	body, err := StatementList("ELSEIF", "ELSE", "END")(s)
	if err != nil {
		return nil, err
	}
	stmt.Then = body

	for {
		t, _ := s.PeekNth(0)
		if t.IsKeyword("ELSEIF") {
			s.Next()
			eCond, err := pc.OrSyntaxError(Expression, "expected condition after ELSEIF")(s)
			if err != nil {
				return nil, err
			}
			if _, err := pc.OrSyntaxError(pc.Keyword("THEN"), "expected THEN")(s); err != nil {
				return nil, err
			}
			eBody, err := StatementList("ELSEIF", "ELSE", "END")(s)
			if err != nil {
				return nil, err
			}
			clause := &ast.ElseIfClause{Cond: eCond, Body: eBody}
			clause.SetPos(t.Pos)
			stmt.ElseIfs = append(stmt.ElseIfs, clause)
			continue
		}
		break
	}

	if t, _ := s.PeekNth(0); t.IsKeyword("ELSE") {
		s.Next()
		eBody, err := StatementList("END")(s)
		if err != nil {
			return nil, err
		}
		stmt.Else = eBody
	}

	if err := expectEndBlock(s, "IF"); err != nil {
		return nil, err
	}
	return stmt, nil
}

func expectEndBlock(s *pc.Stream, kw string) error {
	if _, err := pc.OrSyntaxError(pc.Keyword("END"), "expected END "+kw)(s); err != nil {
		return err
	}
	if _, err := pc.OrSyntaxError(pc.Keyword(kw), "expected END "+kw)(s); err != nil {
		return err
	}
	return nil
}

func parseSelectCase(s *pc.Stream) (ast.Statement, error) {
	first, _ := s.Next()
	if _, err := pc.OrSyntaxError(pc.Keyword("CASE"), "expected CASE after SELECT")(s); err != nil {
		return nil, err
	}
	selector, err := pc.OrSyntaxError(Expression, "expected SELECT CASE expression")(s)
	if err != nil {
		return nil, err
	}
	stmt := &ast.SelectCaseStmt{Selector: selector}
	stmt.SetPos(first.Pos)
	skipBlankLines(s)

	for {
		t, ok := s.PeekNth(0)
		if !ok || !t.IsKeyword("CASE") {
			break
		}
		s.Next()
		arm, err := parseCaseArm(s, t)
		if err != nil {
			return nil, err
		}
		stmt.Arms = append(stmt.Arms, arm)
	}

	if err := expectEndBlock(s, "SELECT"); err != nil {
		return nil, err
	}
	return stmt, nil
}

func parseCaseArm(s *pc.Stream, first pc.Tok) (*ast.CaseArm, error) {
	arm := &ast.CaseArm{}
	arm.SetPos(first.Pos)
	if _, err := pc.Keyword("ELSE")(s); err == nil {
		arm.IsElse = true
	} else {
		tests, err := pc.DelimitedBy(caseArmTest, pc.Punct(","), common.ErrSyntax, "expected case test after ,")(s)
		if err != nil {
			return nil, err
		}
		arm.Tests = tests
	}
	body, err := StatementList("CASE", "END")(s)
	if err != nil {
		return nil, err
	}
	arm.Body = body
	return arm, nil
}

func caseArmTest(s *pc.Stream) (ast.CaseArmTest, error) {
	if _, err := pc.Keyword("IS")(s); err == nil {
		op, ok := relOpAt(s)
		if !ok {
			return ast.CaseArmTest{}, common.SyntaxError(s.Pos(), "expected comparison operator after IS")
		}
		v, err := pc.OrSyntaxError(Expression, "expected value after IS operator")(s)
		if err != nil {
			return ast.CaseArmTest{}, err
		}
		return ast.CaseArmTest{Kind: ast.CaseIs, RelOp: op, RelValue: v}, nil
	}
	first, err := Expression(s)
	if err != nil {
		return ast.CaseArmTest{}, err
	}
	if _, err := pc.Keyword("TO")(s); err == nil {
		high, err := pc.OrSyntaxError(Expression, "expected upper bound after TO")(s)
		if err != nil {
			return ast.CaseArmTest{}, err
		}
		return ast.CaseArmTest{Kind: ast.CaseRange, Low: first, High: high}, nil
	}
	return ast.CaseArmTest{Kind: ast.CaseSimple, Value: first}, nil
}

func parseFor(s *pc.Stream) (ast.Statement, error) {
	first, _ := s.Next()
	nameTok, err := pc.OrSyntaxError(pc.Ident(), "expected counter variable after FOR")(s)
	if err != nil {
		return nil, err
	}
	name, qual := splitQualifier(nameTok.Text)
	counter := ast.NewVariableExpr(nameTok.Pos, common.NewName(name), qual)
	if _, err := pc.OrSyntaxError(pc.Punct("="), "expected = after FOR counter")(s); err != nil {
		return nil, err
	}
	lower, err := pc.OrSyntaxError(Expression, "expected initial value")(s)
	if err != nil {
		return nil, err
	}
	if _, err := pc.OrSyntaxError(pc.Keyword("TO"), "expected TO")(s); err != nil {
		return nil, err
	}
	upper, err := pc.OrSyntaxError(Expression, "expected limit value")(s)
	if err != nil {
		return nil, err
	}
	var step ast.Expression
	if _, err := pc.Keyword("STEP")(s); err == nil {
		step, err = pc.OrSyntaxError(Expression, "expected step value")(s)
		if err != nil {
			return nil, err
		}
	}
	body, err := StatementList("NEXT")(s)
	if err != nil {
		return nil, err
	}
	if _, err := pc.OrSyntaxError(pc.Keyword("NEXT"), "expected NEXT")(s); err != nil {
		return nil, err
	}
	if _, err := pc.Ident()(s); err == nil {
		// optional repeated counter name after NEXT; it is consumed and
		// discarded, and nothing checks it against the FOR counter.
	}
	stmt := &ast.ForStmt{Counter: counter, Lower: lower, Upper: upper, Step: step, Body: body}
	stmt.SetPos(first.Pos)
	return stmt, nil
}

func parseWhile(s *pc.Stream) (ast.Statement, error) {
	first, _ := s.Next()
	cond, err := pc.OrSyntaxError(Expression, "expected condition after WHILE")(s)
	if err != nil {
		return nil, err
	}
	body, err := StatementList("WEND")(s)
	if err != nil {
		return nil, err
	}
	if _, err := pc.OrSyntaxError(pc.Keyword("WEND"), "expected WEND")(s); err != nil {
		return nil, err
	}
	stmt := &ast.WhileStmt{Cond: cond, Body: body}
	stmt.SetPos(first.Pos)
	return stmt, nil
}

func parseDoLoop(s *pc.Stream) (ast.Statement, error) {
	first, _ := s.Next()
	stmt := &ast.DoLoopStmt{}
	stmt.SetPos(first.Pos)

	if kind, cond, ok, err := parseLoopCondition(s); err != nil {
		return nil, err
	} else if ok {
		stmt.CondPos = ast.CondTop
		stmt.CondKind = kind
		stmt.Cond = cond
	}

	body, err := StatementList("LOOP")(s)
	if err != nil {
		return nil, err
	}
	stmt.Body = body
	if _, err := pc.OrSyntaxError(pc.Keyword("LOOP"), "expected LOOP")(s); err != nil {
		return nil, err
	}

	if stmt.CondPos == ast.CondNone {
		if kind, cond, ok, err := parseLoopCondition(s); err != nil {
			return nil, err
		} else if ok {
			stmt.CondPos = ast.CondBottom
			stmt.CondKind = kind
			stmt.Cond = cond
		}
	}
	return stmt, nil
}

func parseLoopCondition(s *pc.Stream) (ast.DoCondKind, ast.Expression, bool, error) {
	if _, err := pc.Keyword("WHILE")(s); err == nil {
		cond, err := pc.OrSyntaxError(Expression, "expected condition after WHILE")(s)
		if err != nil {
			return 0, nil, false, err
		}
		return ast.CondWhile, cond, true, nil
	}
	if _, err := pc.Keyword("UNTIL")(s); err == nil {
		cond, err := pc.OrSyntaxError(Expression, "expected condition after UNTIL")(s)
		if err != nil {
			return 0, nil, false, err
		}
		return ast.CondUntil, cond, true, nil
	}
	return 0, nil, false, nil
}

func parseGoto(s *pc.Stream) (ast.Statement, error) {
	first, _ := s.Next()
	label, err := labelRef(s)
	if err != nil {
		return nil, err
	}
	stmt := &ast.GotoStmt{Label: label}
	stmt.SetPos(first.Pos)
	return stmt, nil
}

func parseGosub(s *pc.Stream) (ast.Statement, error) {
	first, _ := s.Next()
	label, err := labelRef(s)
	if err != nil {
		return nil, err
	}
	stmt := &ast.GosubStmt{Label: label}
	stmt.SetPos(first.Pos)
	return stmt, nil
}

func labelRef(s *pc.Stream) (common.Name, error) {
	if t, ok := s.PeekNth(0); ok && t.Type == lexer.TokDigits {
		s.Next()
		return common.NewName(t.Text), nil
	}
	t, err := pc.OrSyntaxError(pc.Ident(), "expected label")(s)
	if err != nil {
		return common.Name{}, err
	}
	return common.NewName(t.Text), nil
}

func parseReturn(s *pc.Stream) (ast.Statement, error) {
	first, _ := s.Next()
	stmt := &ast.ReturnStmt{}
	stmt.SetPos(first.Pos)
	if t, ok := s.PeekNth(0); ok && (t.Type == lexer.TokIdentifier || t.Type == lexer.TokDigits) {
		label, err := labelRef(s)
		if err != nil {
			return nil, err
		}
		stmt.HasLabel = true
		stmt.Label = label
	}
	return stmt, nil
}

func parseOnErrorGoto(s *pc.Stream) (ast.Statement, error) {
	first, _ := s.Next()
	if _, err := pc.OrSyntaxError(pc.Keyword("ERROR"), "expected ERROR after ON")(s); err != nil {
		return nil, err
	}
	if _, err := pc.OrSyntaxError(pc.Keyword("GOTO"), "expected GOTO after ON ERROR")(s); err != nil {
		return nil, err
	}
	stmt := &ast.OnErrorGotoStmt{}
	stmt.SetPos(first.Pos)
	if t, ok := s.PeekNth(0); ok && t.Type == lexer.TokDigits && t.Text == "0" {
		s.Next()
		stmt.Disable = true
		return stmt, nil
	}
	label, err := labelRef(s)
	if err != nil {
		return nil, err
	}
	stmt.Label = label
	return stmt, nil
}

func parseResume(s *pc.Stream) (ast.Statement, error) {
	first, _ := s.Next()
	stmt := &ast.ResumeStmt{}
	stmt.SetPos(first.Pos)
	if _, err := pc.Keyword("NEXT")(s); err == nil {
		stmt.Kind = ast.ResumeNext
		return stmt, nil
	}
	if t, ok := s.PeekNth(0); ok && (t.Type == lexer.TokIdentifier || t.Type == lexer.TokDigits) {
		label, err := labelRef(s)
		if err != nil {
			return nil, err
		}
		stmt.Kind = ast.ResumeLabel
		stmt.Label = label
	}
	return stmt, nil
}

func parseExit(s *pc.Stream) (ast.Statement, error) {
	first, _ := s.Next()
	stmt := &ast.ExitStmt{}
	stmt.SetPos(first.Pos)
	if _, err := pc.Keyword("FUNCTION")(s); err == nil {
		stmt.Kind = ast.ExitFunction
		return stmt, nil
	}
	if _, err := pc.OrSyntaxError(pc.Keyword("SUB"), "expected SUB or FUNCTION after EXIT")(s); err != nil {
		return nil, err
	}
	stmt.Kind = ast.ExitSub
	return stmt, nil
}

func parseCallStmt(s *pc.Stream) (ast.Statement, error) {
	first, _ := s.Next()
	nameTok, err := pc.OrSyntaxError(pc.Ident(), "expected subprogram name after CALL")(s)
	if err != nil {
		return nil, err
	}
	var args []ast.Expression
	if _, err := pc.Punct("(")(s); err == nil {
		args, err = pc.DelimitedByZeroOrMore(Expression, pc.Punct(","), common.ErrSyntax, "expected expression after ,")(s)
		if err != nil {
			return nil, err
		}
		if _, err := pc.OrSyntaxError(pc.Punct(")"), "expected )")(s); err != nil {
			return nil, err
		}
	}
	stmt := &ast.CallStmt{Name: common.NewName(nameTok.Text), Args: args}
	stmt.SetPos(first.Pos)
	return stmt, nil
}

// parseAssignOrBareCall handles both `x = expr` and `Foo a, b` (a bare
// subprogram call without CALL or parentheses): the grammar can't tell
// them apart from the first token alone, so it parses a variable/call
// target and then looks for `=`.
func parseAssignOrBareCall(s *pc.Stream) (ast.Statement, error) {
	nameTok, _ := s.PeekNth(0)
	target, err := parseVariableOrCall(s, nameTok)
	if err != nil {
		return nil, err
	}
	if _, err := pc.Punct("=")(s); err == nil {
		value, err := pc.OrSyntaxError(Expression, "expected expression after =")(s)
		if err != nil {
			return nil, err
		}
		stmt := &ast.AssignStmt{Target: target, Value: value}
		stmt.SetPos(target.Pos())
		return stmt, nil
	}

	stmt := &ast.CallStmt{Name: common.NewName(nameTok.Text)}
	stmt.SetPos(nameTok.Pos)
	if call, ok := target.(*ast.CallOrIndexExpr); ok {
		stmt.Args = call.Args
	} else {
		args, err := pc.DelimitedByZeroOrMore(Expression, pc.Punct(","), common.ErrSyntax, "expected expression after ,")(s)
		if err != nil {
			return nil, err
		}
		stmt.Args = args
	}
	return stmt, nil
}

func parseFileMode(s *pc.Stream) (ast.FileMode, error) {
	if _, err := pc.Keyword("INPUT")(s); err == nil {
		return ast.ModeInput, nil
	}
	if _, err := pc.Keyword("OUTPUT")(s); err == nil {
		return ast.ModeOutput, nil
	}
	if _, err := pc.Keyword("APPEND")(s); err == nil {
		return ast.ModeAppend, nil
	}
	if _, err := pc.Keyword("RANDOM")(s); err == nil {
		return ast.ModeRandom, nil
	}
	if _, err := pc.Keyword("BINARY")(s); err == nil {
		return ast.ModeRandom, nil
	}
	return 0, common.SyntaxError(s.Pos(), "expected INPUT, OUTPUT, APPEND, RANDOM, or BINARY after FOR")
}

// parseOpen is OPEN path FOR mode [ACCESS ...] AS [#]n [LEN = reclen].
// The ACCESS clause is recognized and discarded: this interpreter never
// enforces read/write locking, only the mode (INPUT/OUTPUT/APPEND/
// RANDOM) that decides how files.go opens the underlying os.File.
func parseOpen(s *pc.Stream) (ast.Statement, error) {
	first, _ := s.Next()
	path, err := pc.OrSyntaxError(Expression, "expected file name after OPEN")(s)
	if err != nil {
		return nil, err
	}
	if _, err := pc.OrSyntaxError(pc.Keyword("FOR"), "expected FOR after file name")(s); err != nil {
		return nil, err
	}
	mode, err := parseFileMode(s)
	if err != nil {
		return nil, err
	}
	if _, err := pc.Keyword("ACCESS")(s); err == nil {
		for {
			t, ok := s.PeekNth(0)
			if !ok || t.IsKeyword("AS") {
				break
			}
			s.Next()
		}
	}
	if _, err := pc.OrSyntaxError(pc.Keyword("AS"), "expected AS after OPEN mode")(s); err != nil {
		return nil, err
	}
	pc.Punct("#")(s)
	fileNum, err := pc.OrSyntaxError(Expression, "expected file number after AS")(s)
	if err != nil {
		return nil, err
	}
	stmt := &ast.OpenStmt{Path: path, Mode: mode, FileNum: fileNum}
	stmt.SetPos(first.Pos)
	if matchWord(s, "LEN") {
		if _, err := pc.OrSyntaxError(pc.Punct("="), "expected = after LEN")(s); err != nil {
			return nil, err
		}
		recLen, err := pc.OrSyntaxError(Expression, "expected record length after LEN =")(s)
		if err != nil {
			return nil, err
		}
		stmt.RecLen = recLen
	}
	return stmt, nil
}

// matchWord consumes a single identifier token whose text matches word
// case-insensitively, for pseudo-keywords (like OPEN's LEN clause) that
// the lexer deliberately does not reserve since they double as built-in
// function names elsewhere in the grammar.
func matchWord(s *pc.Stream, word string) bool {
	t, ok := s.PeekNth(0)
	if !ok || t.Type != lexer.TokIdentifier || !strings.EqualFold(t.Text, word) {
		return false
	}
	s.Next()
	return true
}

// parseClose is CLOSE, CLOSE #1, or CLOSE #1, #2, ...
func parseClose(s *pc.Stream) (ast.Statement, error) {
	first, _ := s.Next()
	stmt := &ast.CloseStmt{}
	stmt.SetPos(first.Pos)
	if t, ok := s.PeekNth(0); !ok || t.Type == lexer.TokEOL || t.IsPunct(":") {
		return stmt, nil
	}
	for {
		pc.Punct("#")(s)
		n, err := pc.OrSyntaxError(Expression, "expected file number")(s)
		if err != nil {
			return nil, err
		}
		stmt.FileNums = append(stmt.FileNums, n)
		if _, err := pc.Punct(",")(s); err != nil {
			break
		}
	}
	return stmt, nil
}

func parseKill(s *pc.Stream) (ast.Statement, error) {
	first, _ := s.Next()
	path, err := pc.OrSyntaxError(Expression, "expected file name after KILL")(s)
	if err != nil {
		return nil, err
	}
	stmt := &ast.KillStmt{Path: path}
	stmt.SetPos(first.Pos)
	return stmt, nil
}

func parseName(s *pc.Stream) (ast.Statement, error) {
	first, _ := s.Next()
	oldPath, err := pc.OrSyntaxError(Expression, "expected file name after NAME")(s)
	if err != nil {
		return nil, err
	}
	if _, err := pc.OrSyntaxError(pc.Keyword("AS"), "expected AS after NAME old file")(s); err != nil {
		return nil, err
	}
	newPath, err := pc.OrSyntaxError(Expression, "expected new file name after AS")(s)
	if err != nil {
		return nil, err
	}
	stmt := &ast.NameStmt{OldPath: oldPath, NewPath: newPath}
	stmt.SetPos(first.Pos)
	return stmt, nil
}

func parseInput(s *pc.Stream) (ast.Statement, error) {
	first, _ := s.Next()
	return finishInput(s, first, false)
}

// parseLineInput handles LINE INPUT [#n,] var / LINE INPUT "prompt"; var:
// always reads one whole source line into a single string variable.
func parseLineInput(s *pc.Stream) (ast.Statement, error) {
	first, _ := s.Next()
	if _, err := pc.OrSyntaxError(pc.Keyword("INPUT"), "expected INPUT after LINE")(s); err != nil {
		return nil, err
	}
	return finishInput(s, first, true)
}

func finishInput(s *pc.Stream, first pc.Tok, lineMode bool) (ast.Statement, error) {
	stmt := &ast.InputStmt{LineMode: lineMode}
	stmt.SetPos(first.Pos)

	if _, err := pc.Punct("#")(s); err == nil {
		n, err := pc.OrSyntaxError(Expression, "expected file number")(s)
		if err != nil {
			return nil, err
		}
		stmt.FileNum = n
		if _, err := pc.OrSyntaxError(pc.Punct(","), "expected , after file number")(s); err != nil {
			return nil, err
		}
	} else {
		if t, ok := s.PeekNth(0); ok && t.Type == lexer.TokDoubleQuote {
			s.Next()
			value, _ := s.Lexer().DecodeString(t.Token)
			stmt.Prompt = value
			if _, err := pc.Punct(";")(s); err == nil {
				stmt.PromptQuest = true // "prompt"; adds the "? " suffix
			} else if _, err := pc.OrSyntaxError(pc.Punct(","), "expected , or ; after INPUT prompt")(s); err != nil {
				return nil, err
			}
			// "prompt", var suppresses the "? " suffix entirely.
		} else {
			stmt.PromptQuest = true
		}
	}

	vars, err := pc.DelimitedBy(inputVar, pc.Punct(","), common.ErrSyntax, "expected variable after ,")(s)
	if err != nil {
		return nil, err
	}
	stmt.Vars = vars
	return stmt, nil
}

func inputVar(s *pc.Stream) (ast.Expression, error) {
	t, err := pc.OrSyntaxError(pc.Ident(), "expected variable")(s)
	if err != nil {
		return nil, err
	}
	return parseVariableOrCall(s, t)
}
