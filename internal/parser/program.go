package parser

import (
	"github.com/ngeor/go-basic/internal/ast"
	"github.com/ngeor/go-basic/internal/common"
	"github.com/ngeor/go-basic/internal/pc"
)

// Program parses a whole source file: an interleaving of top-level
// executable statements, TYPE blocks, DECLAREs, and SUB/FUNCTION
// bodies, which the grammar splits into Program's typed slices (see
// DESIGN.md's "Program struct shape" entry) since only the relative
// order of Globals affects execution.
func Program(s *pc.Stream) (*ast.Program, error) {
	prog := &ast.Program{}
	for {
		skipBlankLines(s)
		t, ok := s.PeekNth(0)
		if !ok {
			return prog, nil
		}
		switch {
		case t.IsKeyword("TYPE"):
			decl, err := parseTypeDecl(s)
			if err != nil {
				return nil, err
			}
			prog.Types = append(prog.Types, decl)
		case t.IsKeyword("DECLARE"):
			decl, err := parseDeclare(s)
			if err != nil {
				return nil, err
			}
			prog.Declares = append(prog.Declares, decl)
		case t.IsKeyword("SUB"):
			decl, err := parseSub(s)
			if err != nil {
				return nil, err
			}
			prog.Subs = append(prog.Subs, decl)
		case t.IsKeyword("FUNCTION"):
			decl, err := parseFunction(s)
			if err != nil {
				return nil, err
			}
			prog.Functions = append(prog.Functions, decl)
		default:
			stmt, err := Statement(s)
			if err != nil {
				if common.IsIncomplete(err) {
					if tok, ok := s.PeekNth(0); ok {
						return nil, unmatchedBlockError(tok)
					}
					return prog, nil
				}
				return nil, err
			}
			prog.Globals = append(prog.Globals, stmt)
			if err := endOfStatement(s); err != nil {
				return nil, err
			}
		}
	}
}

// unmatchedBlockError turns a top-level token Statement couldn't parse
// into a hard QError. NEXT/WEND/LOOP/ELSE are block terminators that
// only StatementList's stop-keyword check consumes inside a block body;
// seen here, at the top level, with no opening FOR/WHILE/DO/IF to match,
// they mean exactly what QBasic's own diagnostics name.
func unmatchedBlockError(tok pc.Tok) error {
	switch {
	case tok.IsKeyword("NEXT"):
		return common.New(common.ErrNextWithoutFor, tok.Pos, "NEXT without FOR")
	case tok.IsKeyword("WEND"):
		return common.New(common.ErrWendWithoutWhile, tok.Pos, "WEND without WHILE")
	case tok.IsKeyword("LOOP"):
		return common.New(common.ErrLoopWithoutDo, tok.Pos, "LOOP without DO")
	case tok.IsKeyword("ELSE"):
		return common.New(common.ErrElseWithoutIf, tok.Pos, "ELSE without IF")
	default:
		return common.SyntaxError(tok.Pos, "unexpected %q", tok.Text)
	}
}

func parseTypeDecl(s *pc.Stream) (*ast.TypeDecl, error) {
	first, _ := s.Next()
	nameTok, err := pc.OrSyntaxError(pc.Ident(), "expected type name")(s)
	if err != nil {
		return nil, err
	}
	decl := &ast.TypeDecl{Name: common.NewName(nameTok.Text)}
	decl.SetPos(first.Pos)
	if err := endOfStatement(s); err != nil {
		return nil, err
	}

	for {
		skipBlankLines(s)
		t, ok := s.PeekNth(0)
		if !ok || t.IsKeyword("END") {
			break
		}
		elNameTok, err := pc.OrSyntaxError(pc.Ident(), "expected element name")(s)
		if err != nil {
			return nil, err
		}
		if _, err := pc.OrSyntaxError(pc.Keyword("AS"), "expected AS")(s); err != nil {
			return nil, err
		}
		typ, err := parseAsType(s)
		if err != nil {
			return nil, err
		}
		el := &ast.UDTElement{Name: common.NewName(elNameTok.Text), Type: typ}
		el.SetPos(elNameTok.Pos)
		decl.Elements = append(decl.Elements, el)
		if err := endOfStatement(s); err != nil {
			return nil, err
		}
	}

	if err := expectEndBlock(s, "TYPE"); err != nil {
		return nil, err
	}
	return decl, nil
}

func parseDeclare(s *pc.Stream) (*ast.DeclareStmt, error) {
	first, _ := s.Next()
	isFunc := false
	if _, err := pc.Keyword("FUNCTION")(s); err == nil {
		isFunc = true
	} else if _, err := pc.OrSyntaxError(pc.Keyword("SUB"), "expected SUB or FUNCTION")(s); err != nil {
		return nil, err
	}
	nameTok, err := pc.OrSyntaxError(pc.Ident(), "expected subprogram name")(s)
	if err != nil {
		return nil, err
	}
	name, qual := splitQualifier(nameTok.Text)
	params, err := parseParamList(s)
	if err != nil {
		return nil, err
	}
	decl := &ast.DeclareStmt{Name: common.NewName(name), IsFunction: isFunc, ResultQual: qual, Params: params}
	decl.SetPos(first.Pos)
	return decl, nil
}

func parseParamList(s *pc.Stream) ([]*ast.Param, error) {
	if _, err := pc.Punct("(")(s); err != nil {
		return nil, nil
	}
	if _, err := pc.Punct(")")(s); err == nil {
		return nil, nil
	}
	params, err := pc.DelimitedBy(parseParam, pc.Punct(","), common.ErrSyntax, "expected parameter after ,")(s)
	if err != nil {
		return nil, err
	}
	if _, err := pc.OrSyntaxError(pc.Punct(")"), "expected )")(s); err != nil {
		return nil, err
	}
	return params, nil
}

func parseParam(s *pc.Stream) (*ast.Param, error) {
	nameTok, err := pc.OrSyntaxError(pc.Ident(), "expected parameter name")(s)
	if err != nil {
		return nil, err
	}
	name, qual := splitQualifier(nameTok.Text)
	typ := common.QualType(qual)
	isArray := false
	if _, err := pc.Punct("(")(s); err == nil {
		if _, err := pc.OrSyntaxError(pc.Punct(")"), "expected ) in array parameter")(s); err != nil {
			return nil, err
		}
		isArray = true
		typ = common.ArrayType(typ)
	}
	if _, err := pc.Keyword("AS")(s); err == nil {
		asType, err := parseAsType(s)
		if err != nil {
			return nil, err
		}
		if isArray {
			typ = common.ArrayType(asType)
		} else {
			typ = asType
		}
	}
	p := ast.NewParam(nameTok.Pos, common.NewName(name), typ, isArray)
	return p, nil
}

func parseSub(s *pc.Stream) (*ast.SubDecl, error) {
	first, _ := s.Next()
	nameTok, err := pc.OrSyntaxError(pc.Ident(), "expected SUB name")(s)
	if err != nil {
		return nil, err
	}
	params, err := parseParamList(s)
	if err != nil {
		return nil, err
	}
	if err := endOfStatement(s); err != nil {
		return nil, err
	}
	body, err := StatementList("END")(s)
	if err != nil {
		return nil, err
	}
	if err := expectEndBlock(s, "SUB"); err != nil {
		return nil, err
	}
	decl := &ast.SubDecl{Name: common.NewName(nameTok.Text), Params: params, Body: body}
	decl.SetPos(first.Pos)
	return decl, nil
}

func parseFunction(s *pc.Stream) (*ast.FunctionDecl, error) {
	first, _ := s.Next()
	nameTok, err := pc.OrSyntaxError(pc.Ident(), "expected FUNCTION name")(s)
	if err != nil {
		return nil, err
	}
	name, qual := splitQualifier(nameTok.Text)
	params, err := parseParamList(s)
	if err != nil {
		return nil, err
	}
	if err := endOfStatement(s); err != nil {
		return nil, err
	}
	body, err := StatementList("END")(s)
	if err != nil {
		return nil, err
	}
	if err := expectEndBlock(s, "FUNCTION"); err != nil {
		return nil, err
	}
	decl := &ast.FunctionDecl{Name: common.NewName(name), ResultQual: qual, Params: params, Body: body}
	decl.SetPos(first.Pos)
	return decl, nil
}
