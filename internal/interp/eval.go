package interp

import (
	"math"

	"github.com/ngeor/go-basic/internal/ast"
	"github.com/ngeor/go-basic/internal/common"
)

// Eval computes an expression's runtime value.
func (it *Interp) Eval(ctx *execCtx, e ast.Expression) (common.Variant, error) {
	switch x := e.(type) {
	case *ast.IntLiteral:
		return common.Integer(x.Value), nil
	case *ast.LongLiteral:
		return common.Long(x.Value), nil
	case *ast.SingleLiteral:
		return common.Single(x.Value), nil
	case *ast.DoubleLiteral:
		return common.Double(x.Value), nil
	case *ast.StringLiteral:
		return common.Str(x.Value), nil
	case *ast.ParenExpr:
		return it.Eval(ctx, x.Inner)
	case *ast.VariableExpr:
		return it.evalVariable(ctx, x)
	case *ast.CallOrIndexExpr:
		return it.evalCall(ctx, x)
	case *ast.PropertyExpr:
		return it.evalProperty(ctx, x)
	case *ast.UnaryExpr:
		return it.evalUnary(ctx, x)
	case *ast.BinaryExpr:
		return it.evalBinary(ctx, x)
	}
	return common.Variant{}, common.New(common.ErrInternal, e.Pos(), "cannot evaluate %T", e)
}

// Truthy implements BASIC's "0 is false, nonzero is true" rule used by
// IF/WHILE/DO conditions.
func Truthy(v common.Variant) bool {
	switch v.Kind() {
	case common.KindInteger:
		return v.AsInteger() != 0
	case common.KindLong:
		return v.AsLong() != 0
	case common.KindSingle:
		return v.AsSingle() != 0
	case common.KindDouble:
		return v.AsDouble() != 0
	case common.KindString:
		return v.AsString() != ""
	default:
		return false
	}
}

func (it *Interp) evalVariable(ctx *execCtx, x *ast.VariableExpr) (common.Variant, error) {
	if v, _, ok := ctx.scope.LookupConst(x.Name); ok && x.Qual == common.QualNone {
		return v, nil
	}
	cell, err := it.variableCell(ctx, x)
	if err != nil {
		return common.Variant{}, err
	}
	return *cell, nil
}

// variableCell returns the addressable storage for a bare/qualified
// variable reference, creating it with its zero value on first use.
func (it *Interp) variableCell(ctx *execCtx, x *ast.VariableExpr) (*common.Variant, error) {
	if x.Qual == common.QualNone {
		if info, ok := ctx.scope.LookupExtended(x.Name); ok {
			f := it.frameForExtended(ctx, x.Name)
			return f.getOrCreateExtended(x.Name, func() common.Variant { return zeroValueFor(info.Type, it.udtElements) }), nil
		}
	}
	// compact variable, or a bare implicit variable (stored under
	// QualNone, separate from any qualified compact slot of the same
	// name since the key includes the qualifier).
	f := it.frameForCompact(ctx, x.Name)
	typ := x.Type()
	return f.getOrCreateCompact(x.Name, x.Qual, func() common.Variant { return zeroValueFor(typ, it.udtElements) }), nil
}

func (it *Interp) evalCall(ctx *execCtx, x *ast.CallOrIndexExpr) (common.Variant, error) {
	switch x.Resolved {
	case ast.CallArrayElement:
		cell, err := it.arrayElementCell(ctx, x)
		if err != nil {
			return common.Variant{}, err
		}
		return *cell, nil
	case ast.CallUserFunction:
		return it.callFunction(ctx, x.Name, x.Args)
	case ast.CallBuiltinFunction:
		return it.callBuiltinFunction(ctx, x)
	default:
		return common.Variant{}, common.New(common.ErrArrayNotDefined, x.Pos(), "%s is not defined", x.Name.String())
	}
}

// arrayElementCell evaluates the index expressions and resolves the
// flattened storage slot inside the target array's Variant.
func (it *Interp) arrayElementCell(ctx *execCtx, x *ast.CallOrIndexExpr) (*common.Variant, error) {
	cell, err := it.arrayCell(ctx, x.Name, x.Qual)
	if err != nil {
		return nil, err
	}
	arr := cell.AsArray()
	if arr == nil {
		return nil, common.New(common.ErrArrayNotDefined, x.Pos(), "%s is not an array", x.Name.String())
	}
	idx := make([]int32, len(x.Args))
	for i, a := range x.Args {
		v, err := it.Eval(ctx, a)
		if err != nil {
			return nil, err
		}
		idx[i] = int32(v.ToFloat64())
	}
	flat, err := flattenIndex(arr, idx)
	if err != nil {
		return nil, common.New(common.ErrSubscriptOutOfRange, x.Pos(), "subscript out of range")
	}
	return &arr.Elements[flat], nil
}

// arrayCell looks up an already-DIM'd array variable's storage cell,
// consulting the scope chain (not the expression's own Type(), which a
// bare CallOrIndexExpr before indexing doesn't carry) for its declared
// element type.
func (it *Interp) arrayCell(ctx *execCtx, name common.Name, qual common.Qualifier) (*common.Variant, error) {
	if info, ok := ctx.scope.LookupExtended(name); ok && qual == common.QualNone {
		f := it.frameForExtended(ctx, name)
		return f.getOrCreateExtended(name, func() common.Variant { return zeroValueFor(info.Type, it.udtElements) }), nil
	}
	if info, ok := ctx.scope.LookupCompact(name, qual); ok {
		f := it.frameForCompact(ctx, name)
		return f.getOrCreateCompact(name, qual, func() common.Variant { return zeroValueFor(info.Type, it.udtElements) }), nil
	}
	return nil, common.New(common.ErrArrayNotDefined, common.Position{}, "%s is not defined", name.String())
}

func flattenIndex(arr *common.ArrayValue, idx []int32) (int, error) {
	if len(idx) != len(arr.Dims) {
		return 0, common.New(common.ErrSubscriptOutOfRange, common.Position{}, "wrong number of subscripts")
	}
	offset := 0
	for i, dim := range arr.Dims {
		if idx[i] < dim.Lower || idx[i] > dim.Upper {
			return 0, common.New(common.ErrSubscriptOutOfRange, common.Position{}, "subscript out of range")
		}
		offset = offset*dim.Len() + int(idx[i]-dim.Lower)
	}
	return offset, nil
}

func (it *Interp) evalProperty(ctx *execCtx, x *ast.PropertyExpr) (common.Variant, error) {
	cell, err := it.propertyCell(ctx, x)
	if err != nil {
		return common.Variant{}, err
	}
	return *cell, nil
}

func (it *Interp) propertyCell(ctx *execCtx, x *ast.PropertyExpr) (*common.Variant, error) {
	base, err := it.lvalueCell(ctx, x.Base)
	if err != nil {
		return nil, err
	}
	return fieldCell(base, x.Member), nil
}

// lvalueCell resolves any assignable expression shape to its storage
// cell: a bare variable, a resolved array element, or a record property.
func (it *Interp) lvalueCell(ctx *execCtx, e ast.Expression) (*common.Variant, error) {
	switch x := e.(type) {
	case *ast.VariableExpr:
		return it.variableCell(ctx, x)
	case *ast.CallOrIndexExpr:
		return it.arrayElementCell(ctx, x)
	case *ast.PropertyExpr:
		return it.propertyCell(ctx, x)
	default:
		return nil, common.New(common.ErrVariableRequired, e.Pos(), "expected a variable")
	}
}

func (it *Interp) evalUnary(ctx *execCtx, x *ast.UnaryExpr) (common.Variant, error) {
	v, err := it.Eval(ctx, x.Operand)
	if err != nil {
		return common.Variant{}, err
	}
	switch x.Op {
	case ast.OpPos:
		return v, nil
	case ast.OpNeg:
		return negate(v), nil
	case ast.OpNot:
		return common.Integer(int16(^int64(v.ToFloat64()))), nil
	}
	return common.Variant{}, common.New(common.ErrInternal, x.Pos(), "unknown unary operator")
}

func negate(v common.Variant) common.Variant {
	switch v.Kind() {
	case common.KindInteger:
		return common.Integer(-v.AsInteger())
	case common.KindLong:
		return common.Long(-v.AsLong())
	case common.KindSingle:
		return common.Single(-v.AsSingle())
	case common.KindDouble:
		return common.Double(-v.AsDouble())
	default:
		return v
	}
}

func (it *Interp) evalBinary(ctx *execCtx, x *ast.BinaryExpr) (common.Variant, error) {
	l, err := it.Eval(ctx, x.Left)
	if err != nil {
		return common.Variant{}, err
	}
	r, err := it.Eval(ctx, x.Right)
	if err != nil {
		return common.Variant{}, err
	}

	switch x.Op {
	case ast.OpAdd:
		if l.Kind() == common.KindString || r.Kind() == common.KindString {
			return common.Str(l.AsString() + r.AsString()), nil
		}
		return arith(x.Type().Qual, l, r, func(a, b float64) float64 { return a + b }), nil
	case ast.OpSub:
		return arith(x.Type().Qual, l, r, func(a, b float64) float64 { return a - b }), nil
	case ast.OpMul:
		return arith(x.Type().Qual, l, r, func(a, b float64) float64 { return a * b }), nil
	case ast.OpDiv:
		if r.ToFloat64() == 0 {
			return common.Variant{}, common.New(common.ErrDivisionByZero, x.Pos(), "division by zero")
		}
		return arith(x.Type().Qual, l, r, func(a, b float64) float64 { return a / b }), nil
	case ast.OpMod:
		if int64(r.ToFloat64()) == 0 {
			return common.Variant{}, common.New(common.ErrDivisionByZero, x.Pos(), "division by zero")
		}
		return arith(x.Type().Qual, l, r, func(a, b float64) float64 { return float64(int64(a) % int64(b)) }), nil
	case ast.OpEq:
		return boolResult(compareEqual(l, r)), nil
	case ast.OpNotEq:
		return boolResult(!compareEqual(l, r)), nil
	case ast.OpLess:
		return boolResult(compareLess(l, r)), nil
	case ast.OpLessEq:
		return boolResult(compareLess(l, r) || compareEqual(l, r)), nil
	case ast.OpGreater:
		return boolResult(!compareLess(l, r) && !compareEqual(l, r)), nil
	case ast.OpGreaterEq:
		return boolResult(!compareLess(l, r)), nil
	case ast.OpAnd:
		return common.Integer(int16(int64(l.ToFloat64()) & int64(r.ToFloat64()))), nil
	case ast.OpOr:
		return common.Integer(int16(int64(l.ToFloat64()) | int64(r.ToFloat64()))), nil
	case ast.OpXor:
		return common.Integer(int16(int64(l.ToFloat64()) ^ int64(r.ToFloat64()))), nil
	case ast.OpEqv:
		return common.Integer(int16(^(int64(l.ToFloat64()) ^ int64(r.ToFloat64())))), nil
	case ast.OpImp:
		return common.Integer(int16((^int64(l.ToFloat64())) | int64(r.ToFloat64()))), nil
	}
	return common.Variant{}, common.New(common.ErrInternal, x.Pos(), "unknown binary operator")
}

// boolResult renders a comparison as BASIC's -1/0 boolean integers.
func boolResult(b bool) common.Variant {
	if b {
		return common.Integer(-1)
	}
	return common.Integer(0)
}

func compareEqual(l, r common.Variant) bool {
	if l.Kind() == common.KindString || r.Kind() == common.KindString {
		return l.AsString() == r.AsString()
	}
	return math.Abs(l.ToFloat64()-r.ToFloat64()) <= common.FloatTolerance
}

func compareLess(l, r common.Variant) bool {
	if l.Kind() == common.KindString || r.Kind() == common.KindString {
		return l.AsString() < r.AsString()
	}
	return l.ToFloat64() < r.ToFloat64()
}

// arith computes a numeric binary op in float64 and narrows the result
// to resultQual, matching the "widen to the wider operand" rule
// already baked into x.Type() by the linter.
func arith(resultQual common.Qualifier, l, r common.Variant, op func(a, b float64) float64) common.Variant {
	f := op(l.ToFloat64(), r.ToFloat64())
	switch resultQual {
	case common.QualInteger:
		return common.Integer(int16(f))
	case common.QualLong:
		return common.Long(int32(f))
	case common.QualSingle:
		return common.Single(float32(f))
	default:
		return common.Double(f)
	}
}
