// Package semantic implements the two-pass linter: a global
// pre-pass collects user types and subprogram signatures, then a body
// pass resolves every name, expression type, and constant in program
// order — the two passes a flat, class-free language actually needs.
package semantic

import (
	"github.com/ngeor/go-basic/internal/ast"
	"github.com/ngeor/go-basic/internal/common"
)

// UDTInfo is a resolved TYPE ... END TYPE record.
type UDTInfo struct {
	Name     common.Name
	Elements []*ast.UDTElement
}

// FieldType looks up an element's type by name, case-insensitively.
func (u *UDTInfo) FieldType(name common.Name) (common.Type, bool) {
	for _, el := range u.Elements {
		if el.Name.Equal(name) {
			return el.Type, true
		}
	}
	return common.Type{}, false
}

// SubprogramInfo is a resolved SUB/FUNCTION signature, collected from
// either a DECLARE or the implementation itself.
type SubprogramInfo struct {
	Name       common.Name
	IsFunction bool
	ResultQual common.Qualifier
	Params     []*ast.Param
}

// VarInfo is one declared (DIM'd) variable's resolved type and extent.
type VarInfo struct {
	Name   common.Name
	Type   common.Type
	Shared bool
	// Dims holds the DIM statement's bound expressions, nil for a scalar.
	Dims []ast.DimBound
}

// Scope is one lexical scope's symbol table: the global scope, or one
// SUB/FUNCTION body. Compact variables are keyed by bare name then by
// qualifier (QBasic allows `X%` and `X$` to coexist as distinct compact
// variables); extended variables (declared `AS type`) are keyed by bare
// name only, since only one `AS` declaration per name is legal.
type Scope struct {
	Parent    *Scope
	IsGlobal  bool
	Compact   map[string]map[common.Qualifier]*VarInfo
	Extended  map[string]*VarInfo
	Constants map[string]common.Variant
	ConstQual map[string]common.Qualifier
	// DotClash records every bare name the program reserves elsewhere as
	// an extended ("AS type") variable or a SUB/FUNCTION name, keyed
	// case-insensitively. Only the global scope's map is ever populated,
	// since the invariant is program-wide (spec.md: "any bare name used
	// elsewhere with a dot (A.B) whose prefix before the dot is in this
	// set is rejected"); child scopes see it through Parent.
	DotClash map[string]bool
	Labels   map[string]bool
	Implicit []*ast.ImplicitVar
}

// NewScope creates an empty scope.
func NewScope(parent *Scope, isGlobal bool) *Scope {
	return &Scope{
		Parent:    parent,
		IsGlobal:  isGlobal,
		Compact:   map[string]map[common.Qualifier]*VarInfo{},
		Extended:  map[string]*VarInfo{},
		Constants: map[string]common.Variant{},
		ConstQual: map[string]common.Qualifier{},
		DotClash:  map[string]bool{},
		Labels:    map[string]bool{},
	}
}

// LookupConst searches this scope, then its parent, for a constant.
func (s *Scope) LookupConst(name common.Name) (common.Variant, common.Qualifier, bool) {
	for sc := s; sc != nil; sc = sc.Parent {
		if v, ok := sc.Constants[name.Key()]; ok {
			return v, sc.ConstQual[name.Key()], true
		}
	}
	return common.Variant{}, common.QualNone, false
}

// LookupExtended searches this scope, then its parent, for an extended
// ("AS type") variable declaration.
func (s *Scope) LookupExtended(name common.Name) (*VarInfo, bool) {
	for sc := s; sc != nil; sc = sc.Parent {
		if v, ok := sc.Extended[name.Key()]; ok {
			return v, true
		}
	}
	return nil, false
}

// LookupCompact searches this scope, then its parent, for a compact
// variable matching name and qualifier.
func (s *Scope) LookupCompact(name common.Name, q common.Qualifier) (*VarInfo, bool) {
	for sc := s; sc != nil; sc = sc.Parent {
		if byQual, ok := sc.Compact[name.Key()]; ok {
			if v, ok := byQual[q]; ok {
				return v, true
			}
		}
	}
	return nil, false
}

// IsDotClash reports whether name is reserved elsewhere in the program
// as an extended variable or SUB/FUNCTION name, searching this scope
// then its parent chain (in practice only the global scope's map is
// ever populated).
func (s *Scope) IsDotClash(name common.Name) bool {
	for sc := s; sc != nil; sc = sc.Parent {
		if sc.DotClash[name.Key()] {
			return true
		}
	}
	return false
}

// Program is the linter's output: the same *ast.Program, annotated in
// place, plus the symbol tables the IR generator needs.
type Program struct {
	AST       *ast.Program
	Global    *Scope
	UDTs      map[string]*UDTInfo
	Subs      map[string]*SubprogramInfo
	Functions map[string]*SubprogramInfo
	// SubScopes and FuncScopes map each SubDecl/FunctionDecl to its resolved body scope,
	// by pointer identity — there is no separate "scope ID" type since
	// Go pointers already give each declaration a stable identity.
	SubScopes  map[*ast.SubDecl]*Scope
	FuncScopes map[*ast.FunctionDecl]*Scope
	// ScopeByName duplicates the same lookup keyed by case-folded name,
	// for the interpreter, which only has a name to go on when it calls
	// a SUB/FUNCTION by the ir.Unit it was lowered to (ir.Unit has no
	// back-reference to the ast.SubDecl/FunctionDecl it came from).
	ScopeByName map[string]*Scope
}
