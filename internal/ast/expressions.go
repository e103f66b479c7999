package ast

import "github.com/ngeor/go-basic/internal/common"

// IntLiteral is a 16-bit integer literal.
type IntLiteral struct {
	typedBase
	Value int16
}

func NewIntLiteral(pos common.Position, v int16) *IntLiteral {
	n := &IntLiteral{Value: v}
	n.pos = pos
	n.typ = common.QualType(common.QualInteger)
	return n
}
func (*IntLiteral) expressionNode() {}

// LongLiteral is a 32-bit integer literal.
type LongLiteral struct {
	typedBase
	Value int32
}

func NewLongLiteral(pos common.Position, v int32) *LongLiteral {
	n := &LongLiteral{Value: v}
	n.pos = pos
	n.typ = common.QualType(common.QualLong)
	return n
}
func (*LongLiteral) expressionNode() {}

// SingleLiteral is a single-precision float literal.
type SingleLiteral struct {
	typedBase
	Value float32
}

func NewSingleLiteral(pos common.Position, v float32) *SingleLiteral {
	n := &SingleLiteral{Value: v}
	n.pos = pos
	n.typ = common.QualType(common.QualSingle)
	return n
}
func (*SingleLiteral) expressionNode() {}

// DoubleLiteral is a double-precision float literal.
type DoubleLiteral struct {
	typedBase
	Value float64
}

func NewDoubleLiteral(pos common.Position, v float64) *DoubleLiteral {
	n := &DoubleLiteral{Value: v}
	n.pos = pos
	n.typ = common.QualType(common.QualDouble)
	return n
}
func (*DoubleLiteral) expressionNode() {}

// StringLiteral is a string literal.
type StringLiteral struct {
	typedBase
	Value string
}

func NewStringLiteral(pos common.Position, v string) *StringLiteral {
	n := &StringLiteral{Value: v}
	n.pos = pos
	n.typ = common.QualType(common.QualString)
	return n
}
func (*StringLiteral) expressionNode() {}

// VariableExpr is a bare or qualified name use, before the linter
// decides whether it denotes a compact variable, extended variable,
// constant, function-result slot, or implicit variable.
type VariableExpr struct {
	typedBase
	Name common.Name
	Qual common.Qualifier // QualNone if bare
}

func NewVariableExpr(pos common.Position, name common.Name, qual common.Qualifier) *VariableExpr {
	n := &VariableExpr{Name: name, Qual: qual}
	n.pos = pos
	return n
}
func (*VariableExpr) expressionNode() {}

// CallKind tags what a CallOrIndexExpr was resolved to during linting.
type CallKind int

const (
	CallUnresolved CallKind = iota
	CallArrayElement
	CallUserFunction
	CallBuiltinFunction
)

// CallOrIndexExpr is `Name(args...)`: syntactically ambiguous between
// an array-element access and a function call until the linter
// consults the symbol table.
type CallOrIndexExpr struct {
	typedBase
	Name     common.Name
	Qual     common.Qualifier
	Args     []Expression
	Resolved CallKind
}

func NewCallOrIndexExpr(pos common.Position, name common.Name, qual common.Qualifier, args []Expression) *CallOrIndexExpr {
	n := &CallOrIndexExpr{Name: name, Qual: qual, Args: args}
	n.pos = pos
	return n
}
func (*CallOrIndexExpr) expressionNode() {}

// BinaryOp enumerates arithmetic, relational, and logical binary
// operators.
type BinaryOp int

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpEq
	OpNotEq
	OpLess
	OpLessEq
	OpGreater
	OpGreaterEq
	OpAnd
	OpOr
	OpXor
	OpEqv
	OpImp
)

// BinaryExpr is a binary operator application; its resolved type is set
// by the linter per its casting rules.
type BinaryExpr struct {
	typedBase
	Op    BinaryOp
	Left  Expression
	Right Expression
}

func NewBinaryExpr(pos common.Position, op BinaryOp, l, r Expression) *BinaryExpr {
	n := &BinaryExpr{Op: op, Left: l, Right: r}
	n.pos = pos
	return n
}
func (*BinaryExpr) expressionNode() {}

// UnaryOp enumerates unary operators.
type UnaryOp int

const (
	OpNeg UnaryOp = iota
	OpPos
	OpNot
)

// UnaryExpr is a unary operator application.
type UnaryExpr struct {
	typedBase
	Op      UnaryOp
	Operand Expression
}

func NewUnaryExpr(pos common.Position, op UnaryOp, operand Expression) *UnaryExpr {
	n := &UnaryExpr{Op: op, Operand: operand}
	n.pos = pos
	return n
}
func (*UnaryExpr) expressionNode() {}

// ParenExpr is a parenthesised expression, kept distinct (rather than
// collapsed into its inner expression) because the grammar's
// precedence rebalancing and the SELECT CASE `TO` whitespace rule both
// need to know a sub-expression was parenthesised.
type ParenExpr struct {
	typedBase
	Inner Expression
}

func NewParenExpr(pos common.Position, inner Expression) *ParenExpr {
	n := &ParenExpr{Inner: inner}
	n.pos = pos
	return n
}
func (*ParenExpr) expressionNode() {}

// PropertyExpr is `base.Member`, a step in a dotted chain into a
// user-defined-type record.
type PropertyExpr struct {
	typedBase
	Base   Expression
	Member common.Name
}

func NewPropertyExpr(pos common.Position, b Expression, member common.Name) *PropertyExpr {
	n := &PropertyExpr{Base: b, Member: member}
	n.pos = pos
	return n
}
func (*PropertyExpr) expressionNode() {}
