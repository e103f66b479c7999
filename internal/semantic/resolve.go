package semantic

import (
	"github.com/ngeor/go-basic/internal/ast"
	"github.com/ngeor/go-basic/internal/common"
)

// globalPass builds the UDT and subprogram registries from a single walk
// over the top-level declarations, before any statement body is
// resolved, over BASIC's flat TYPE/DECLARE/SUB/FUNCTION set.
func globalPass(prog *ast.Program) (*Program, []*common.QError) {
	var errs []*common.QError
	out := &Program{
		AST:        prog,
		Global:     NewScope(nil, true),
		UDTs:       map[string]*UDTInfo{},
		Subs:       map[string]*SubprogramInfo{},
		Functions:  map[string]*SubprogramInfo{},
		SubScopes:  map[*ast.SubDecl]*Scope{},
		FuncScopes: map[*ast.FunctionDecl]*Scope{},
	}

	for _, td := range prog.Types {
		key := td.Name.Key()
		if _, dup := out.UDTs[key]; dup {
			errs = append(errs, common.New(common.ErrDuplicateDefinition, td.Pos(), "duplicate definition of TYPE %s", td.Name.String()))
			continue
		}
		out.UDTs[key] = &UDTInfo{Name: td.Name, Elements: td.Elements}
	}

	for _, d := range prog.Declares {
		info := &SubprogramInfo{Name: d.Name, IsFunction: d.IsFunction, ResultQual: d.ResultQual, Params: d.Params}
		reg := out.Subs
		if d.IsFunction {
			reg = out.Functions
		}
		key := d.Name.Key()
		if _, dup := reg[key]; dup {
			errs = append(errs, common.New(common.ErrDuplicateDefinition, d.Pos(), "duplicate declaration of %s", d.Name.String()))
			continue
		}
		reg[key] = info
	}

	for _, s := range prog.Subs {
		key := s.Name.Key()
		if existing, ok := out.Subs[key]; ok {
			if len(existing.Params) != len(s.Params) {
				errs = append(errs, common.New(common.ErrArgumentCountMismatch, s.Pos(), "SUB %s does not match its DECLARE", s.Name.String()))
			}
		} else {
			out.Subs[key] = &SubprogramInfo{Name: s.Name, Params: s.Params}
		}
	}

	for _, f := range prog.Functions {
		key := f.Name.Key()
		if existing, ok := out.Functions[key]; ok {
			if len(existing.Params) != len(f.Params) {
				errs = append(errs, common.New(common.ErrArgumentCountMismatch, f.Pos(), "FUNCTION %s does not match its DECLARE", f.Name.String()))
			}
		} else {
			out.Functions[key] = &SubprogramInfo{Name: f.Name, IsFunction: true, ResultQual: f.ResultQual, Params: f.Params}
		}
	}

	populateDotClash(out)

	return out, errs
}

// populateDotClash collects every bare name the program reserves
// elsewhere for dot notation: extended ("AS type") variables, however
// deeply they're nested inside a block, and every SUB/FUNCTION name.
// spec.md's dot-clash invariant is program-wide, not per-scope, so the
// set lives on the global scope; every child scope sees it through
// its Parent chain.
func populateDotClash(out *Program) {
	set := out.Global.DotClash
	for key := range out.Subs {
		set[key] = true
	}
	for key := range out.Functions {
		set[key] = true
	}
	collectExtendedDims(out.AST.Globals, set)
	for _, s := range out.AST.Subs {
		collectExtendedDims(s.Body, set)
	}
	for _, f := range out.AST.Functions {
		collectExtendedDims(f.Body, set)
	}
}

// collectExtendedDims recurses through a statement list's nested block
// bodies (IF/SELECT CASE/FOR/WHILE/DO all carry their own) looking for
// DIM'd extended variables, since one can appear anywhere inside a
// block, not just at a body's top level.
func collectExtendedDims(list []ast.Statement, set map[string]bool) {
	for _, s := range list {
		switch st := s.(type) {
		case *ast.DimStmt:
			for _, v := range st.Vars {
				if v.AsType != nil {
					set[v.Name.Key()] = true
				}
			}
		case *ast.IfStmt:
			collectExtendedDims(st.Then, set)
			for _, ei := range st.ElseIfs {
				collectExtendedDims(ei.Body, set)
			}
			collectExtendedDims(st.Else, set)
		case *ast.SelectCaseStmt:
			for _, arm := range st.Arms {
				collectExtendedDims(arm.Body, set)
			}
		case *ast.ForStmt:
			collectExtendedDims(st.Body, set)
		case *ast.WhileStmt:
			collectExtendedDims(st.Body, set)
		case *ast.DoLoopStmt:
			collectExtendedDims(st.Body, set)
		}
	}
}
