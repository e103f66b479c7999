// Package ast defines the untyped and typed AST node types produced by
// the grammar and annotated in place by the linter. Every
// node carries a source Position.
package ast

import "github.com/ngeor/go-basic/internal/common"

// Node is the base capability every AST node provides.
type Node interface {
	Pos() common.Position
}

// Expression is any node that produces a Variant when evaluated. Every
// Expression tracks its resolved type, set to common.Unresolved until
// the linter runs — every binary/array/property node carries its
// resolved expression type after linting, generalized here to every
// expression node, not only those three, since the typed AST needs a
// uniform way to ask "what type is this").
type Expression interface {
	Node
	expressionNode()
	Type() common.Type
	SetType(common.Type)
}

// Statement is any node that performs an action without producing a
// value.
type Statement interface {
	Node
	statementNode()
}

// base is embedded by every concrete node to provide Pos().
type base struct {
	pos common.Position
}

func (b base) Pos() common.Position { return b.pos }

// SetPos is used by the grammar to stamp a node's position after
// construction, when the node is built incrementally (e.g. DimVar,
// which doesn't have a NewDimVar constructor since most of its fields
// are filled in across several grammar rules).
func (b *base) SetPos(p common.Position) { b.pos = p }

// typedBase is embedded by every Expression to provide Type()/SetType().
type typedBase struct {
	base
	typ common.Type
}

func (t typedBase) Type() common.Type    { return t.typ }
func (t *typedBase) SetType(ty common.Type) { t.typ = ty }

// Program is the root node: an ordered sequence of global statements,
// user-defined type declarations, DECLAREs, and subprogram bodies.
type Program struct {
	Globals    []Statement
	Types      []*TypeDecl
	Declares   []*DeclareStmt
	Subs       []*SubDecl
	Functions  []*FunctionDecl
}

// Param is one formal parameter of a SUB or FUNCTION.
type Param struct {
	base
	Name    common.Name
	ByRef   bool // always true: NewParam sets it for array and scalar parameters alike
	IsArray bool
	Type    common.Type
}

func NewParam(pos common.Position, name common.Name, typ common.Type, isArray bool) *Param {
	return &Param{base: base{pos}, Name: name, Type: typ, IsArray: isArray, ByRef: true}
}

// SubDecl is a user SUB's full implementation: name, parameters, body.
type SubDecl struct {
	base
	Name    common.Name
	Params  []*Param
	Body    []Statement
	// Implicits collected by the linter for this scope.
	Implicits []*ImplicitVar
}

// FunctionDecl is a user FUNCTION's full implementation.
type FunctionDecl struct {
	base
	Name       common.Name
	ResultQual common.Qualifier
	Params     []*Param
	Body       []Statement
	Implicits  []*ImplicitVar
}

// ImplicitVar records a bare-name variable the linter introduced
// because no declaration, constant, or built-in matched it.
type ImplicitVar struct {
	Name common.Name
	Qual common.Qualifier
}

// DeclareStmt is a forward DECLARE of a SUB or FUNCTION signature.
type DeclareStmt struct {
	base
	Name       common.Name
	IsFunction bool
	ResultQual common.Qualifier
	Params     []*Param
}

func (d *DeclareStmt) statementNode() {}

// UDTElement is one named, typed field inside a TYPE ... END TYPE block.
type UDTElement struct {
	base
	Name common.Name
	Type common.Type
}

// TypeDecl is a user-defined record type declaration.
type TypeDecl struct {
	base
	Name     common.Name
	Elements []*UDTElement
}
