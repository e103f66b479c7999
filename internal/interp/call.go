package interp

import (
	"github.com/ngeor/go-basic/internal/ast"
	"github.com/ngeor/go-basic/internal/common"
)

// callFunction invokes a user SUB or FUNCTION by name, used both for
// OpCallSub (statement-position calls) and CallUserFunction expressions.
// Every formal parameter is passed by reference: an argument that resolves
// to a storage cell aliases that cell directly, so the callee mutating it
// is visible to the caller; anything else (a literal or a computed
// expression) gets a private cell the callee can still freely reassign
// without it going anywhere.
func (it *Interp) callFunction(ctx *execCtx, name common.Name, args []ast.Expression) (common.Variant, error) {
	unit, ok := it.Program.Functions[name.Key()]
	if !ok {
		unit, ok = it.Program.Subs[name.Key()]
	}
	if !ok {
		return common.Variant{}, common.New(common.ErrSubprogramNotDefined, common.Position{}, "%s is not defined", name.String())
	}
	scope, ok := it.Sem.ScopeByName[name.Key()]
	if !ok {
		return common.Variant{}, common.New(common.ErrInternal, common.Position{}, "no scope recorded for %s", name.String())
	}

	callee := NewFrame()
	for i, param := range unit.Params {
		if i >= len(args) {
			break
		}
		cell, err := it.bindArg(ctx, param, args[i])
		if err != nil {
			return common.Variant{}, err
		}
		callee.Extended[param.Name.Key()] = cell
	}

	calleeCtx := &execCtx{unit: unit, frame: callee, scope: scope, isGlobal: false}
	return it.runUnit(calleeCtx)
}

// bindArg resolves one call argument to the cell its formal parameter
// aliases.
func (it *Interp) bindArg(ctx *execCtx, param *ast.Param, arg ast.Expression) (*common.Variant, error) {
	if cell, err := it.lvalueCell(ctx, arg); err == nil {
		return cell, nil
	}
	v, err := it.Eval(ctx, arg)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
