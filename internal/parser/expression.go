// Package parser builds the untyped AST from the token stream
// using the internal/pc combinators. Expression parsing uses standard
// precedence climbing rather than the "parse flat then rebalance"
// technique described informally in the language notes; see DESIGN.md
// for why the two are equivalent here.
package parser

import (
	"strconv"
	"strings"

	"github.com/ngeor/go-basic/internal/ast"
	"github.com/ngeor/go-basic/internal/common"
	"github.com/ngeor/go-basic/internal/lexer"
	"github.com/ngeor/go-basic/internal/pc"
)

// Expression parses a full expression: OR/XOR/EQV/IMP is the loosest
// level, primary terms are the tightest.
func Expression(s *pc.Stream) (ast.Expression, error) {
	return parseOr(s)
}

func parseOr(s *pc.Stream) (ast.Expression, error) {
	left, err := parseAnd(s)
	if err != nil {
		return nil, err
	}
	for {
		op, ok := matchLogicalOp(s, "OR", ast.OpOr)
		if !ok {
			op, ok = matchLogicalOp(s, "XOR", ast.OpXor)
		}
		if !ok {
			op, ok = matchLogicalOp(s, "EQV", ast.OpEqv)
		}
		if !ok {
			op, ok = matchLogicalOp(s, "IMP", ast.OpImp)
		}
		if !ok {
			return left, nil
		}
		right, err := parseAnd(s)
		if err != nil {
			return nil, err
		}
		left = ast.NewBinaryExpr(left.Pos(), op, left, right)
	}
}

func matchLogicalOp(s *pc.Stream, kw string, op ast.BinaryOp) (ast.BinaryOp, bool) {
	mark := s.Mark()
	_, err := pc.Keyword(kw)(s)
	if err != nil {
		s.Reset(mark)
		return 0, false
	}
	return op, true
}

func parseAnd(s *pc.Stream) (ast.Expression, error) {
	left, err := parseNot(s)
	if err != nil {
		return nil, err
	}
	for {
		mark := s.Mark()
		if _, err := pc.Keyword("AND")(s); err != nil {
			s.Reset(mark)
			return left, nil
		}
		right, err := parseNot(s)
		if err != nil {
			return nil, err
		}
		left = ast.NewBinaryExpr(left.Pos(), ast.OpAnd, left, right)
	}
}

// parseNot binds NOT tighter than AND/OR but looser than the relational
// operators, so `NOT a = b` parses as `NOT (a = b)` and `NOT a AND b`
// parses as `(NOT a) AND b`.
func parseNot(s *pc.Stream) (ast.Expression, error) {
	mark := s.Mark()
	if tok, err := pc.Keyword("NOT")(s); err == nil {
		operand, err := parseNot(s)
		if err != nil {
			return nil, err
		}
		return ast.NewUnaryExpr(tok.Pos, ast.OpNot, operand), nil
	}
	s.Reset(mark)
	return parseRelational(s)
}

func parseRelational(s *pc.Stream) (ast.Expression, error) {
	left, err := parseAdditive(s)
	if err != nil {
		return nil, err
	}
	for {
		op, ok := relOpAt(s)
		if !ok {
			return left, nil
		}
		right, err := parseAdditive(s)
		if err != nil {
			return nil, err
		}
		left = ast.NewBinaryExpr(left.Pos(), op, left, right)
	}
}

func relOpAt(s *pc.Stream) (ast.BinaryOp, bool) {
	t, ok := s.PeekNth(0)
	if !ok {
		return 0, false
	}
	var op ast.BinaryOp
	switch {
	case t.IsPunct("="):
		op = ast.OpEq
	case t.IsPunct("<>"):
		op = ast.OpNotEq
	case t.IsPunct("<"):
		op = ast.OpLess
	case t.IsPunct("<="):
		op = ast.OpLessEq
	case t.IsPunct(">"):
		op = ast.OpGreater
	case t.IsPunct(">="):
		op = ast.OpGreaterEq
	default:
		return 0, false
	}
	s.Next()
	return op, true
}

func parseAdditive(s *pc.Stream) (ast.Expression, error) {
	left, err := parseMultiplicative(s)
	if err != nil {
		return nil, err
	}
	for {
		t, ok := s.PeekNth(0)
		if !ok || !(t.IsPunct("+") || t.IsPunct("-")) {
			return left, nil
		}
		s.Next()
		op := ast.OpAdd
		if t.Text == "-" {
			op = ast.OpSub
		}
		right, err := parseMultiplicative(s)
		if err != nil {
			return nil, err
		}
		left = ast.NewBinaryExpr(left.Pos(), op, left, right)
	}
}

func parseMultiplicative(s *pc.Stream) (ast.Expression, error) {
	left, err := parseUnary(s)
	if err != nil {
		return nil, err
	}
	for {
		mark := s.Mark()
		if t, ok := s.PeekNth(0); ok && (t.IsPunct("*") || t.IsPunct("/")) {
			s.Next()
			op := ast.OpMul
			if t.Text == "/" {
				op = ast.OpDiv
			}
			right, err := parseUnary(s)
			if err != nil {
				return nil, err
			}
			left = ast.NewBinaryExpr(left.Pos(), op, left, right)
			continue
		}
		if _, err := pc.Keyword("MOD")(s); err == nil {
			right, err := parseUnary(s)
			if err != nil {
				return nil, err
			}
			left = ast.NewBinaryExpr(left.Pos(), ast.OpMod, left, right)
			continue
		}
		s.Reset(mark)
		return left, nil
	}
}

func parseUnary(s *pc.Stream) (ast.Expression, error) {
	if t, ok := s.PeekNth(0); ok && t.IsPunct("-") {
		s.Next()
		operand, err := parseUnary(s)
		if err != nil {
			return nil, err
		}
		return foldOrWrapNegation(t.Pos, operand), nil
	}
	if t, ok := s.PeekNth(0); ok && t.IsPunct("+") {
		s.Next()
		return parseUnary(s)
	}
	return parsePrimary(s)
}

// foldOrWrapNegation implements the literal-folding rule: negating a
// literal that would overflow its current width promotes it to the
// next wider literal type rather than producing a runtime negation of
// the minimum-width value (which would overflow back around).
func foldOrWrapNegation(pos common.Position, operand ast.Expression) ast.Expression {
	switch lit := operand.(type) {
	case *ast.IntLiteral:
		v := int32(lit.Value) * -1
		if v >= -32768 && v <= 32767 {
			return ast.NewIntLiteral(pos, int16(v))
		}
		return ast.NewLongLiteral(pos, v)
	case *ast.LongLiteral:
		v := int64(lit.Value) * -1
		if v >= -2147483648 && v <= 2147483647 {
			return ast.NewLongLiteral(pos, int32(v))
		}
		return ast.NewDoubleLiteral(pos, float64(v))
	case *ast.SingleLiteral:
		return ast.NewSingleLiteral(pos, -lit.Value)
	case *ast.DoubleLiteral:
		return ast.NewDoubleLiteral(pos, -lit.Value)
	default:
		return ast.NewUnaryExpr(pos, ast.OpNeg, operand)
	}
}

func parsePrimary(s *pc.Stream) (ast.Expression, error) {
	if t, ok := s.PeekNth(0); ok && t.IsPunct("(") {
		s.Next()
		inner, err := Expression(s)
		if err != nil {
			return nil, err
		}
		if _, err := pc.OrSyntaxError(pc.Punct(")"), "expected )")(s); err != nil {
			return nil, err
		}
		return ast.NewParenExpr(t.Pos, inner), nil
	}

	if t, ok := s.PeekNth(0); ok && t.Type == lexer.TokDoubleQuote {
		s.Next()
		value, closed := s.Lexer().DecodeString(t.Token)
		if !closed {
			return nil, common.New(common.ErrSyntax, t.Pos, "unterminated string literal")
		}
		return ast.NewStringLiteral(t.Pos, value), nil
	}

	if t, ok := s.PeekNth(0); ok && (t.Type == lexer.TokDigits || t.Type == lexer.TokOctalDigits || t.Type == lexer.TokHexDigits) {
		return parseNumber(s)
	}

	if t, ok := s.PeekNth(0); ok && t.Type == lexer.TokIdentifier {
		return parseVariableOrCall(s, t)
	}

	return nil, common.Incomplete
}

func parseVariableOrCall(s *pc.Stream, first pc.Tok) (ast.Expression, error) {
	s.Next()
	name, qual := splitQualifier(first.Text)
	var expr ast.Expression = ast.NewVariableExpr(first.Pos, common.NewName(name), qual)

	if t, ok := s.PeekNth(0); ok && t.IsPunct("(") {
		s.Next()
		args, err := pc.DelimitedByZeroOrMore(Expression, pc.Punct(","), common.ErrSyntax, "expected expression after ,")(s)
		if err != nil {
			return nil, err
		}
		if _, err := pc.OrSyntaxError(pc.Punct(")"), "expected )")(s); err != nil {
			return nil, err
		}
		expr = ast.NewCallOrIndexExpr(first.Pos, common.NewName(name), qual, args)
	}

	for {
		mark := s.Mark()
		if _, err := pc.Punct(".")(s); err != nil {
			s.Reset(mark)
			break
		}
		member, err := pc.OrSyntaxError(pc.Ident(), "expected member name after .")(s)
		if err != nil {
			return nil, err
		}
		expr = ast.NewPropertyExpr(expr.Pos(), expr, common.NewName(member.Text))
	}
	return expr, nil
}

// splitQualifier separates a trailing type-qualifier suffix (% & ! # $)
// from a bare identifier's name.
func splitQualifier(text string) (string, common.Qualifier) {
	if text == "" {
		return text, common.QualNone
	}
	last := text[len(text)-1]
	if q, ok := common.QualifierFromByte(last); ok {
		return text[:len(text)-1], q
	}
	return text, common.QualNone
}

// parseNumber parses a decimal/octal/hex integer or floating literal,
// including an optional exponent marker (E or D followed by digits)
// fused onto the identifier-scanned token that follows, and an optional
// trailing type-qualifier suffix.
func parseNumber(s *pc.Stream) (ast.Expression, error) {
	first, _ := s.Next()
	pos := first.Pos

	switch first.Type {
	case lexer.TokOctalDigits:
		return radixLiteral(pos, first.Text[2:], 8)
	case lexer.TokHexDigits:
		return radixLiteral(pos, first.Text[2:], 16)
	}

	digits := first.Text
	isFloat := false
	var fraction, exponent string
	qual := common.QualNone

	if t, ok := s.PeekNth(0); ok && t.IsPunct(".") {
		s.Next()
		isFloat = true
		if t2, ok := s.PeekNth(0); ok && t2.Type == lexer.TokDigits {
			s.Next()
			fraction = t2.Text
		}
	}

	if t, ok := s.PeekNth(0); ok && t.Type == lexer.TokIdentifier {
		if exp, marker, rest, matched := splitExponent(t.Text); matched {
			s.Next()
			isFloat = true
			exponent = exp
			if marker == 'D' {
				qual = common.QualDouble
			} else {
				qual = common.QualSingle
			}
			if rest != "" {
				if q, ok := common.QualifierFromByte(rest[0]); ok {
					qual = q
				}
			}
		}
	}

	if qual == common.QualNone {
		if t, ok := s.PeekNth(0); ok && t.Type == lexer.TokPunctuation {
			if q, ok := common.QualifierFromByte(t.Text[0]); ok && q.IsNumeric() {
				s.Next()
				qual = q
			}
		}
	}

	if !isFloat && qual == common.QualNone {
		return intLiteralFromDecimal(pos, digits)
	}
	if !isFloat && (qual == common.QualInteger || qual == common.QualLong) {
		return intLiteralFromDecimal(pos, digits)
	}

	text := digits
	if fraction != "" || isFloat {
		text += "."
		text += fraction
	}
	if exponent != "" {
		text += "e" + exponent
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil, common.New(common.ErrOverflow, pos, "invalid numeric literal %q", text)
	}
	if qual == common.QualSingle {
		return ast.NewSingleLiteral(pos, float32(f)), nil
	}
	return ast.NewDoubleLiteral(pos, f), nil
}

// splitExponent recognizes an identifier token of the form `E2`, `D-10`
// etc. fused together by the tokenizer (exponent markers are letters,
// so they scan as part of an identifier run). Returns false when text
// does not start with E/D.
func splitExponent(text string) (digits string, marker byte, rest string, ok bool) {
	if text == "" {
		return "", 0, "", false
	}
	m := text[0]
	if m != 'E' && m != 'e' && m != 'D' && m != 'd' {
		return "", 0, "", false
	}
	body := text[1:]
	sign := ""
	if strings.HasPrefix(body, "-") || strings.HasPrefix(body, "+") {
		sign, body = body[:1], body[1:]
	}
	i := 0
	for i < len(body) && body[i] >= '0' && body[i] <= '9' {
		i++
	}
	if i == 0 {
		return "", 0, "", false
	}
	markerUpper := byte('E')
	if m == 'D' || m == 'd' {
		markerUpper = 'D'
	}
	return sign + body[:i], markerUpper, body[i:], true
}

func intLiteralFromDecimal(pos common.Position, digits string) (ast.Expression, error) {
	v, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return nil, common.New(common.ErrOverflow, pos, "invalid integer literal %q", digits)
	}
	return widenInt(pos, v), nil
}

func radixLiteral(pos common.Position, digits string, base int) (ast.Expression, error) {
	v, err := strconv.ParseUint(digits, base, 64)
	if err != nil {
		return nil, common.New(common.ErrOverflow, pos, "invalid numeric literal")
	}
	return widenInt(pos, int64(v)), nil
}

func widenInt(pos common.Position, v int64) ast.Expression {
	switch {
	case v >= -32768 && v <= 32767:
		return ast.NewIntLiteral(pos, int16(v))
	case v >= -2147483648 && v <= 2147483647:
		return ast.NewLongLiteral(pos, int32(v))
	default:
		return ast.NewDoubleLiteral(pos, float64(v))
	}
}
