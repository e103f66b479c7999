package interp

import (
	"github.com/ngeor/go-basic/internal/ast"
	"github.com/ngeor/go-basic/internal/common"
	"github.com/ngeor/go-basic/internal/ir"
)

// runUnit drives one unit's instruction stream to completion: falling off
// the end, an EXIT SUB/FUNCTION (OpExit, which jumps to Epilogue), or a
// program-wide END/SYSTEM (OpEnd, which unwinds via errHalt). A
// fetch-decode-execute loop, generalized from an operand-stack machine to
// a jump-addressed one (see internal/ir's package doc).
func (it *Interp) runUnit(ctx *execCtx) (common.Variant, error) {
	var regs [4]bool
	pc := 0
	for pc < len(ctx.unit.Instructions) {
		instr := &ctx.unit.Instructions[pc]
		switch instr.Op {
		case ir.OpExec:
			if err := it.execStmt(ctx, instr.Stmt); err != nil {
				handled, next, propagate := it.dispatchErr(ctx, pc, err)
				if !handled {
					return common.Variant{}, propagate
				}
				pc = next
				continue
			}
			pc++
		case ir.OpEvalInto:
			v, err := it.Eval(ctx, instr.Expr)
			if err != nil {
				handled, next, propagate := it.dispatchErr(ctx, pc, err)
				if !handled {
					return common.Variant{}, propagate
				}
				pc = next
				continue
			}
			regs[instr.Reg] = Truthy(v)
			pc++
		case ir.OpJump:
			pc = instr.Target
		case ir.OpJumpIfFalse:
			if !regs[instr.Reg] {
				pc = instr.Target
			} else {
				pc++
			}
		case ir.OpJumpIfTrue:
			if regs[instr.Reg] {
				pc = instr.Target
			} else {
				pc++
			}
		case ir.OpGosub:
			ctx.frame.Gosub = append(ctx.frame.Gosub, pc+1)
			pc = instr.Target
		case ir.OpReturn:
			if instr.HasLabel {
				pc = instr.Target
				continue
			}
			if len(ctx.frame.Gosub) == 0 {
				return common.Variant{}, common.New(common.ErrInternal, common.Position{}, "RETURN without GOSUB")
			}
			n := len(ctx.frame.Gosub) - 1
			pc = ctx.frame.Gosub[n]
			ctx.frame.Gosub = ctx.frame.Gosub[:n]
		case ir.OpCallSub:
			if _, err := it.callFunction(ctx, instr.CallName, instr.CallArgs); err != nil {
				handled, next, propagate := it.dispatchErr(ctx, pc, err)
				if !handled {
					return common.Variant{}, propagate
				}
				pc = next
				continue
			}
			pc++
		case ir.OpExit:
			pc = ctx.unit.Epilogue
		case ir.OpOnErrorGoto:
			if instr.Disable {
				ctx.frame.ErrorHandler = -1
			} else {
				ctx.frame.ErrorHandler = instr.Target
			}
			pc++
		case ir.OpResume:
			switch instr.ResumeKind {
			case ast.ResumeBare:
				pc = ctx.frame.ResumeAt
			case ast.ResumeNext:
				pc = ctx.frame.ResumeAt + 1
			default: // ResumeLabel
				pc = instr.Target
			}
		case ir.OpCheckForStep:
			v, err := it.Eval(ctx, instr.Expr)
			if err != nil {
				handled, next, propagate := it.dispatchErr(ctx, pc, err)
				if !handled {
					return common.Variant{}, propagate
				}
				pc = next
				continue
			}
			if !Truthy(v) {
				err := common.New(common.ErrForLoopZeroStep, instr.Expr.Pos(), "for loop step is zero")
				handled, next, propagate := it.dispatchErr(ctx, pc, err)
				if !handled {
					return common.Variant{}, propagate
				}
				pc = next
				continue
			}
			pc++
		case ir.OpEnd:
			return common.Variant{}, errHalt
		default:
			return common.Variant{}, common.New(common.ErrInternal, common.Position{}, "unknown instruction")
		}
	}
	return it.resultValue(ctx), nil
}

// dispatchErr decides what an error raised mid-unit means: errHalt always
// unwinds untouched, an installed ON ERROR GOTO handler traps anything
// else and resumes at its label (remembering pc so RESUME/RESUME NEXT
// know where to go back to), and everything else propagates to the
// caller.
func (it *Interp) dispatchErr(ctx *execCtx, pc int, err error) (handled bool, next int, propagate error) {
	if err == errHalt {
		return false, 0, errHalt
	}
	if ctx.frame.ErrorHandler < 0 {
		return false, 0, err
	}
	ctx.frame.ResumeAt = pc
	return true, ctx.frame.ErrorHandler, nil
}

// resultValue reads back a FUNCTION's return value from its own
// result-slot variable (bound by the semantic pass under the function's
// own name, see body.go); zero Variant for a SUB or the main unit.
func (it *Interp) resultValue(ctx *execCtx) common.Variant {
	if !ctx.unit.IsFunction {
		return common.Variant{}
	}
	if cell, ok := ctx.frame.Extended[ctx.unit.Name.Key()]; ok {
		return *cell
	}
	resultQual := ctx.unit.ResultQual
	if resultQual == common.QualNone {
		resultQual = common.QualSingle
	}
	return zeroValueFor(common.QualType(resultQual), it.udtElements)
}
