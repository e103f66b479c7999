package semantic

import (
	"github.com/ngeor/go-basic/internal/ast"
	"github.com/ngeor/go-basic/internal/builtin"
	"github.com/ngeor/go-basic/internal/common"
)

// bodyPass resolves every statement and expression in program order: the
// global statements in the global scope, then each SUB/FUNCTION body in
// its own child scope seeded with its parameters. Implicit variables
// created along the way are recorded on the owning scope and, for
// subprogram bodies, copied onto the AST node itself.
func bodyPass(p *Program) []*common.QError {
	var errs []*common.QError

	r := &resolver{prog: p}
	errs = append(errs, r.stmts(p.AST.Globals, p.Global)...)

	p.ScopeByName = map[string]*Scope{}

	for _, s := range p.AST.Subs {
		scope := NewScope(p.Global, false)
		errs = append(errs, r.bindParams(s.Params, scope)...)
		p.SubScopes[s] = scope
		p.ScopeByName[s.Name.Key()] = scope
		errs = append(errs, r.stmts(s.Body, scope)...)
		s.Implicits = scope.Implicit
	}

	for _, f := range p.AST.Functions {
		scope := NewScope(p.Global, false)
		errs = append(errs, r.bindParams(f.Params, scope)...)
		// the function name itself is the result slot: assigning to it
		// inside the body sets the return value.
		resultType := common.QualType(f.ResultQual)
		if f.ResultQual == common.QualNone {
			resultType = common.QualType(common.QualSingle)
		}
		scope.Extended[f.Name.Key()] = &VarInfo{Name: f.Name, Type: resultType}
		p.FuncScopes[f] = scope
		p.ScopeByName[f.Name.Key()] = scope
		errs = append(errs, r.stmts(f.Body, scope)...)
		f.Implicits = scope.Implicit
	}

	return errs
}

type resolver struct {
	prog *Program
}

func (r *resolver) bindParams(params []*ast.Param, scope *Scope) []*common.QError {
	var errs []*common.QError
	for _, p := range params {
		if p.IsArray {
			typ := common.ArrayType(p.Type)
			scope.Extended[p.Name.Key()] = &VarInfo{Name: p.Name, Type: typ}
			continue
		}
		scope.Extended[p.Name.Key()] = &VarInfo{Name: p.Name, Type: p.Type}
	}
	return errs
}

func (r *resolver) stmts(list []ast.Statement, scope *Scope) []*common.QError {
	var errs []*common.QError
	for _, s := range list {
		errs = append(errs, r.stmt(s, scope)...)
	}
	return errs
}

func (r *resolver) stmt(s ast.Statement, scope *Scope) []*common.QError {
	var errs []*common.QError
	switch st := s.(type) {
	case *ast.DimStmt:
		for _, v := range st.Vars {
			errs = append(errs, r.resolveDim(v, scope)...)
		}
	case *ast.ConstStmt:
		errs = append(errs, r.resolveExpr(st.Value, scope)...)
		if _, dup := scope.Constants[st.Name.Key()]; dup {
			errs = append(errs, common.New(common.ErrDuplicateDefinition, st.Pos(), "duplicate CONST %s", st.Name.String()))
			break
		}
		val, ok := evalConst(st.Value, scope)
		if !ok {
			errs = append(errs, common.New(common.ErrInvalidConstant, st.Pos(), "CONST %s is not a constant expression", st.Name.String()))
			break
		}
		scope.Constants[st.Name.Key()] = val
		scope.ConstQual[st.Name.Key()] = st.Qual
	case *ast.AssignStmt:
		errs = append(errs, r.resolveExpr(st.Target, scope)...)
		errs = append(errs, r.resolveExpr(st.Value, scope)...)
	case *ast.CallStmt:
		errs = append(errs, r.resolveCallName(st.Name, &st.Resolved, scope)...)
		for _, a := range st.Args {
			errs = append(errs, r.resolveExpr(a, scope)...)
		}
	case *ast.PrintStmt:
		if st.FileNum != nil {
			errs = append(errs, r.resolveExpr(st.FileNum, scope)...)
		}
		if st.UsingFormat != nil {
			errs = append(errs, r.resolveExpr(st.UsingFormat, scope)...)
		}
		for _, it := range st.Items {
			if it.Expr != nil {
				errs = append(errs, r.resolveExpr(it.Expr, scope)...)
			}
		}
	case *ast.IfStmt:
		errs = append(errs, r.resolveExpr(st.Cond, scope)...)
		errs = append(errs, r.stmts(st.Then, scope)...)
		for _, ei := range st.ElseIfs {
			errs = append(errs, r.resolveExpr(ei.Cond, scope)...)
			errs = append(errs, r.stmts(ei.Body, scope)...)
		}
		errs = append(errs, r.stmts(st.Else, scope)...)
	case *ast.SelectCaseStmt:
		errs = append(errs, r.resolveExpr(st.Selector, scope)...)
		for _, arm := range st.Arms {
			for _, t := range arm.Tests {
				switch t.Kind {
				case ast.CaseSimple:
					errs = append(errs, r.resolveExpr(t.Value, scope)...)
				case ast.CaseRange:
					errs = append(errs, r.resolveExpr(t.Low, scope)...)
					errs = append(errs, r.resolveExpr(t.High, scope)...)
				case ast.CaseIs:
					errs = append(errs, r.resolveExpr(t.RelValue, scope)...)
				}
			}
			errs = append(errs, r.stmts(arm.Body, scope)...)
		}
	case *ast.ForStmt:
		errs = append(errs, r.resolveExpr(st.Counter, scope)...)
		errs = append(errs, r.resolveExpr(st.Lower, scope)...)
		errs = append(errs, r.resolveExpr(st.Upper, scope)...)
		if st.Step != nil {
			errs = append(errs, r.resolveExpr(st.Step, scope)...)
		}
		errs = append(errs, r.stmts(st.Body, scope)...)
	case *ast.WhileStmt:
		errs = append(errs, r.resolveExpr(st.Cond, scope)...)
		errs = append(errs, r.stmts(st.Body, scope)...)
	case *ast.DoLoopStmt:
		if st.Cond != nil {
			errs = append(errs, r.resolveExpr(st.Cond, scope)...)
		}
		errs = append(errs, r.stmts(st.Body, scope)...)
	case *ast.LabelStmt:
		if scope.Labels[st.Label.Key()] {
			errs = append(errs, common.New(common.ErrDuplicateLabel, st.Pos(), "duplicate label %s", st.Label.String()))
			break
		}
		scope.Labels[st.Label.Key()] = true
	case *ast.OpenStmt:
		errs = append(errs, r.resolveExpr(st.Path, scope)...)
		errs = append(errs, r.resolveExpr(st.FileNum, scope)...)
		if st.RecLen != nil {
			errs = append(errs, r.resolveExpr(st.RecLen, scope)...)
		}
	case *ast.CloseStmt:
		for _, n := range st.FileNums {
			errs = append(errs, r.resolveExpr(n, scope)...)
		}
	case *ast.KillStmt:
		errs = append(errs, r.resolveExpr(st.Path, scope)...)
	case *ast.NameStmt:
		errs = append(errs, r.resolveExpr(st.OldPath, scope)...)
		errs = append(errs, r.resolveExpr(st.NewPath, scope)...)
	case *ast.InputStmt:
		if st.FileNum != nil {
			errs = append(errs, r.resolveExpr(st.FileNum, scope)...)
		}
		for _, v := range st.Vars {
			errs = append(errs, r.resolveExpr(v, scope)...)
		}
	}
	return errs
}

// resolveDim registers a DIM'd variable, resolving its element type
// (following a UDT reference if one was named) and rejecting a
// redeclaration of the same compact/extended slot.
func (r *resolver) resolveDim(v *ast.DimVar, scope *Scope) []*common.QError {
	var errs []*common.QError
	typ := common.QualType(v.Qual)
	if v.AsType != nil {
		typ = *v.AsType
		if typ.Kind == common.TypeUserDefined {
			if _, ok := r.prog.UDTs[typ.TypeName.Key()]; !ok {
				errs = append(errs, common.New(common.ErrTypeNotDefined, v.Pos(), "type %s is not defined", typ.TypeName.String()))
			}
		}
	}
	if len(v.Dims) > 0 {
		typ = common.ArrayType(typ)
	}
	info := &VarInfo{Name: v.Name, Type: typ, Shared: v.Shared, Dims: v.Dims}

	if v.AsType != nil {
		if _, dup := scope.Extended[v.Name.Key()]; dup {
			errs = append(errs, common.New(common.ErrDuplicateDefinition, v.Pos(), "duplicate definition of %s", v.Name.String()))
			return errs
		}
		scope.Extended[v.Name.Key()] = info
		return errs
	}
	byQual, ok := scope.Compact[v.Name.Key()]
	if !ok {
		byQual = map[common.Qualifier]*VarInfo{}
		scope.Compact[v.Name.Key()] = byQual
	}
	if _, dup := byQual[v.Qual]; dup {
		errs = append(errs, common.New(common.ErrDuplicateDefinition, v.Pos(), "duplicate definition of %s", v.Name.String()))
		return errs
	}
	byQual[v.Qual] = info
	return errs
}

// resolveExpr walks an expression tree, resolving every VariableExpr and
// CallOrIndexExpr against the scope chain, in order:
// constant, extended variable, compact variable, array/user function,
// built-in function, then (for a bare variable) an implicit declaration.
func (r *resolver) resolveExpr(e ast.Expression, scope *Scope) []*common.QError {
	if e == nil {
		return nil
	}
	var errs []*common.QError
	switch x := e.(type) {
	case *ast.VariableExpr:
		errs = append(errs, r.resolveVariable(x, scope)...)
	case *ast.CallOrIndexExpr:
		kind, kErrs := r.classifyCall(x.Name, scope)
		errs = append(errs, kErrs...)
		x.Resolved = kind
		for _, a := range x.Args {
			errs = append(errs, r.resolveExpr(a, scope)...)
		}
		x.SetType(r.callResultType(x.Name, x.Qual, kind, scope))
	case *ast.BinaryExpr:
		errs = append(errs, r.resolveExpr(x.Left, scope)...)
		errs = append(errs, r.resolveExpr(x.Right, scope)...)
		x.SetType(binaryResultType(x.Op, x.Left.Type(), x.Right.Type()))
	case *ast.UnaryExpr:
		errs = append(errs, r.resolveExpr(x.Operand, scope)...)
		x.SetType(x.Operand.Type())
	case *ast.ParenExpr:
		errs = append(errs, r.resolveExpr(x.Inner, scope)...)
		x.SetType(x.Inner.Type())
	case *ast.PropertyExpr:
		errs = append(errs, r.resolveExpr(x.Base, scope)...)
		errs = append(errs, r.resolveProperty(x, scope)...)
	}
	return errs
}

func (r *resolver) resolveVariable(x *ast.VariableExpr, scope *Scope) []*common.QError {
	if x.Qual == common.QualNone {
		if v, q, ok := scope.LookupConst(x.Name); ok {
			x.Qual = q
			x.SetType(common.QualType(v.Qualifier()))
			return nil
		}
		if v, ok := scope.LookupExtended(x.Name); ok {
			x.SetType(v.Type)
			return nil
		}
	}
	if v, ok := scope.LookupCompact(x.Name, x.Qual); ok {
		x.SetType(v.Type)
		return nil
	}
	// nothing declared: implicit variable, defaulting to single
	// precision; DEFINT/DEFDBL/DEFLNG/DEFSNG/DEFSTR default-type
	// statements are not modeled.
	qual := x.Qual
	if qual == common.QualNone {
		qual = common.QualSingle
	}
	scope.Implicit = append(scope.Implicit, &ast.ImplicitVar{Name: x.Name, Qual: qual})
	x.SetType(common.QualType(qual))
	return nil
}

func (r *resolver) resolveCallName(name common.Name, kind *ast.CallKind, scope *Scope) []*common.QError {
	k, errs := r.classifyCall(name, scope)
	*kind = k
	return errs
}

func (r *resolver) classifyCall(name common.Name, scope *Scope) (ast.CallKind, []*common.QError) {
	key := name.Key()
	for sc := scope; sc != nil; sc = sc.Parent {
		if _, ok := sc.Compact[key]; ok {
			return ast.CallArrayElement, nil
		}
		if v, ok := sc.Extended[key]; ok && v.Type.Kind == common.TypeArray {
			return ast.CallArrayElement, nil
		}
	}
	if _, ok := r.prog.Functions[key]; ok {
		return ast.CallUserFunction, nil
	}
	if builtin.IsFunction(name) {
		return ast.CallBuiltinFunction, nil
	}
	if _, ok := r.prog.Subs[key]; ok {
		return ast.CallUserFunction, nil
	}
	// unknown call target resolves as an array element on an implicit
	// array, matching QBasic's "undeclared array autosizes to 10" rule
	// at the interpreter level; the linter records it as unresolved so
	// the interpreter can decide at first use.
	return ast.CallUnresolved, nil
}

func (r *resolver) callResultType(name common.Name, qual common.Qualifier, kind ast.CallKind, scope *Scope) common.Type {
	switch kind {
	case ast.CallUserFunction:
		if info, ok := r.prog.Functions[name.Key()]; ok {
			return common.QualType(info.ResultQual)
		}
	case ast.CallArrayElement:
		for sc := scope; sc != nil; sc = sc.Parent {
			if byQual, ok := sc.Compact[name.Key()]; ok {
				if v, ok := byQual[qual]; ok && v.Type.Kind == common.TypeArray {
					return *v.Type.Elem
				}
			}
			if v, ok := sc.Extended[name.Key()]; ok && v.Type.Kind == common.TypeArray {
				return *v.Type.Elem
			}
		}
	}
	if qual != common.QualNone {
		return common.QualType(qual)
	}
	return common.QualType(common.QualSingle)
}

func (r *resolver) resolveProperty(x *ast.PropertyExpr, scope *Scope) []*common.QError {
	base := x.Base.Type()
	if base.Kind != common.TypeUserDefined {
		if name, ok := baseName(x.Base); ok && scope.IsDotClash(name) {
			return []*common.QError{common.New(common.ErrDotClash, x.Pos(), "%s is reserved elsewhere as a record or subprogram name and cannot be used here with dot notation", name.String())}
		}
		return []*common.QError{common.New(common.ErrElementNotDefined, x.Pos(), "dot notation requires a record variable")}
	}
	udt, ok := r.prog.UDTs[base.TypeName.Key()]
	if !ok {
		return []*common.QError{common.New(common.ErrTypeNotDefined, x.Pos(), "type %s is not defined", base.TypeName.String())}
	}
	ft, ok := udt.FieldType(x.Member)
	if !ok {
		return []*common.QError{common.New(common.ErrElementNotDefined, x.Pos(), "element %s is not defined in %s", x.Member.String(), base.TypeName.String())}
	}
	x.SetType(ft)
	return nil
}

// baseName extracts a PropertyExpr's base bare name when its base is
// itself a plain variable reference (A.B), as opposed to a nested
// property chain (A.B.C) or some other expression shape that a
// dot-clash check doesn't apply to.
func baseName(e ast.Expression) (common.Name, bool) {
	if v, ok := e.(*ast.VariableExpr); ok {
		return v.Name, true
	}
	return common.Name{}, false
}

// binaryResultType applies the casting rules: relational and logical
// operators always yield INTEGER (BASIC's boolean representation);
// arithmetic widens to the wider of its two numeric operands.
func binaryResultType(op ast.BinaryOp, l, r common.Type) common.Type {
	switch op {
	case ast.OpEq, ast.OpNotEq, ast.OpLess, ast.OpLessEq, ast.OpGreater, ast.OpGreaterEq,
		ast.OpAnd, ast.OpOr, ast.OpXor, ast.OpEqv, ast.OpImp:
		return common.QualType(common.QualInteger)
	}
	if l.IsString() || r.IsString() {
		return common.QualType(common.QualString)
	}
	if !l.IsNumeric() || !r.IsNumeric() {
		return common.QualType(common.QualSingle)
	}
	wide, ok := common.WiderNumeric(l.Qual, r.Qual)
	if !ok {
		return common.QualType(common.QualSingle)
	}
	return common.QualType(wide)
}

// evalConst folds a CONST initializer down to a Variant: literals,
// parenthesized sub-expressions, unary -/NOT, binary arithmetic/
// relational/logical operators, and bare references to constants
// already declared in scope all recurse; anything else (a variable
// that isn't a constant, a function call, an array/property access,
// ...) is not a constant expression and fails. This is a compile-time
// fold kept independent of internal/interp's runtime evaluator (which
// internal/semantic cannot import without a package cycle), not a
// re-skinning of it, so it only needs to cover the operators a CONST
// initializer's grammar can actually produce.
func evalConst(e ast.Expression, scope *Scope) (common.Variant, bool) {
	switch x := e.(type) {
	case *ast.IntLiteral:
		return common.Integer(x.Value), true
	case *ast.LongLiteral:
		return common.Long(x.Value), true
	case *ast.SingleLiteral:
		return common.Single(x.Value), true
	case *ast.DoubleLiteral:
		return common.Double(x.Value), true
	case *ast.StringLiteral:
		return common.Str(x.Value), true
	case *ast.ParenExpr:
		return evalConst(x.Inner, scope)
	case *ast.UnaryExpr:
		return evalConstUnary(x, scope)
	case *ast.BinaryExpr:
		return evalConstBinary(x, scope)
	case *ast.VariableExpr:
		// resolveExpr (already run over st.Value before evalConst is
		// called) rewrites a bare constant reference's Qual to the
		// constant's own qualifier, so the lookup here is keyed on Name
		// alone, not gated on Qual being unset.
		v, _, ok := scope.LookupConst(x.Name)
		return v, ok
	default:
		return common.Variant{}, false
	}
}

func evalConstUnary(x *ast.UnaryExpr, scope *Scope) (common.Variant, bool) {
	v, ok := evalConst(x.Operand, scope)
	if !ok {
		return common.Variant{}, false
	}
	switch x.Op {
	case ast.OpPos:
		return v, true
	case ast.OpNeg:
		return constNegate(v), true
	case ast.OpNot:
		return common.Integer(int16(^int64(v.ToFloat64()))), true
	}
	return common.Variant{}, false
}

func constNegate(v common.Variant) common.Variant {
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

func evalConstBinary(x *ast.BinaryExpr, scope *Scope) (common.Variant, bool) {
	l, ok := evalConst(x.Left, scope)
	if !ok {
		return common.Variant{}, false
	}
	r, ok := evalConst(x.Right, scope)
	if !ok {
		return common.Variant{}, false
	}

	resultQual := x.Type().Qual
	switch x.Op {
	case ast.OpAdd:
		if l.Kind() == common.KindString || r.Kind() == common.KindString {
			return common.Str(l.AsString() + r.AsString()), true
		}
		return constArith(resultQual, l, r, func(a, b float64) float64 { return a + b }), true
	case ast.OpSub:
		return constArith(resultQual, l, r, func(a, b float64) float64 { return a - b }), true
	case ast.OpMul:
		return constArith(resultQual, l, r, func(a, b float64) float64 { return a * b }), true
	case ast.OpDiv:
		if r.ToFloat64() == 0 {
			return common.Variant{}, false
		}
		return constArith(resultQual, l, r, func(a, b float64) float64 { return a / b }), true
	case ast.OpMod:
		if int64(r.ToFloat64()) == 0 {
			return common.Variant{}, false
		}
		return constArith(resultQual, l, r, func(a, b float64) float64 { return float64(int64(a) % int64(b)) }), true
	case ast.OpEq:
		return constBool(constEqual(l, r)), true
	case ast.OpNotEq:
		return constBool(!constEqual(l, r)), true
	case ast.OpLess:
		return constBool(constLess(l, r)), true
	case ast.OpLessEq:
		return constBool(constLess(l, r) || constEqual(l, r)), true
	case ast.OpGreater:
		return constBool(!constLess(l, r) && !constEqual(l, r)), true
	case ast.OpGreaterEq:
		return constBool(!constLess(l, r)), true
	case ast.OpAnd:
		return common.Integer(int16(int64(l.ToFloat64()) & int64(r.ToFloat64()))), true
	case ast.OpOr:
		return common.Integer(int16(int64(l.ToFloat64()) | int64(r.ToFloat64()))), true
	case ast.OpXor:
		return common.Integer(int16(int64(l.ToFloat64()) ^ int64(r.ToFloat64()))), true
	case ast.OpEqv:
		return common.Integer(int16(^(int64(l.ToFloat64()) ^ int64(r.ToFloat64())))), true
	case ast.OpImp:
		return common.Integer(int16((^int64(l.ToFloat64())) | int64(r.ToFloat64()))), true
	}
	return common.Variant{}, false
}

// constBool renders a comparison as BASIC's -1/0 boolean integers.
func constBool(b bool) common.Variant {
	if b {
		return common.Integer(-1)
	}
	return common.Integer(0)
}

func constEqual(l, r common.Variant) bool {
	if l.Kind() == common.KindString || r.Kind() == common.KindString {
		return l.AsString() == r.AsString()
	}
	return l.ToFloat64() == r.ToFloat64()
}

func constLess(l, r common.Variant) bool {
	if l.Kind() == common.KindString || r.Kind() == common.KindString {
		return l.AsString() < r.AsString()
	}
	return l.ToFloat64() < r.ToFloat64()
}

// constArith computes a numeric binary op in float64 and narrows the
// result to resultQual, matching the "widen to the wider operand" rule
// binaryResultType already baked into x.Type().
func constArith(resultQual common.Qualifier, l, r common.Variant, op func(a, b float64) float64) common.Variant {
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
