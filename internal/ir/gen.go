package ir

import (
	"fmt"

	"github.com/ngeor/go-basic/internal/ast"
	"github.com/ngeor/go-basic/internal/common"
)

// Program is the whole lowered program: one Unit per entry point.
type Program struct {
	Main      *Unit
	Subs      map[string]*Unit
	Functions map[string]*Unit
}

// Generate lowers a linted *ast.Program (CallOrIndexExpr/CallStmt nodes
// already annotated with their Resolved kind) into its IR form.
func Generate(prog *ast.Program) (*Program, error) {
	out := &Program{Subs: map[string]*Unit{}, Functions: map[string]*Unit{}}

	g := newGenerator()
	main := &Unit{Instructions: g.block(prog.Globals)}
	main.Instructions = append(main.Instructions, Instr{Op: OpEnd})
	main.Epilogue = len(main.Instructions) - 1
	if err := g.resolveLabels(main); err != nil {
		return nil, err
	}
	out.Main = main

	for _, s := range prog.Subs {
		g := newGenerator()
		u := &Unit{Name: s.Name, Params: s.Params, Instructions: g.block(s.Body)}
		u.Epilogue = len(u.Instructions)
		if err := g.resolveLabels(u); err != nil {
			return nil, err
		}
		out.Subs[s.Name.Key()] = u
	}

	for _, f := range prog.Functions {
		g := newGenerator()
		u := &Unit{Name: f.Name, IsFunction: true, ResultQual: f.ResultQual, Params: f.Params, Instructions: g.block(f.Body)}
		u.Epilogue = len(u.Instructions)
		if err := g.resolveLabels(u); err != nil {
			return nil, err
		}
		out.Functions[f.Name.Key()] = u
	}

	return out, nil
}

// generator accumulates the flat instruction slice for a single unit
// and tracks forward references to GOTO/GOSUB/RESUME labels not yet
// seen, resolved once the whole body has been walked.
type generator struct {
	labelAddr map[string]int
	tempCount int
}

func newGenerator() *generator {
	return &generator{labelAddr: map[string]int{}}
}

func (g *generator) tempName() common.Name {
	g.tempCount++
	return common.NewName(fmt.Sprintf("__tmp%d", g.tempCount))
}

// block lowers a statement list into a flat instruction slice, recursing
// into structured control flow. Labels are resolved against instr
// positions within the returned slice by the caller via resolveLabels,
// since a label can be the target of a GOTO appearing earlier in the
// same unit but in an outer or sibling block.
func (g *generator) block(stmts []ast.Statement) []Instr {
	var out []Instr
	for _, s := range stmts {
		out = g.stmt(out, s)
	}
	return out
}

func (g *generator) stmt(out []Instr, s ast.Statement) []Instr {
	switch st := s.(type) {
	case *ast.LabelStmt:
		g.labelAddr[st.Label.Key()] = len(out)
		return out
	case *ast.GotoStmt:
		return append(out, g.jumpTo(OpJump, st.Label))
	case *ast.GosubStmt:
		return append(out, g.jumpTo(OpGosub, st.Label))
	case *ast.ReturnStmt:
		return append(out, Instr{Op: OpReturn, HasLabel: st.HasLabel, Label: st.Label})
	case *ast.OnErrorGotoStmt:
		return append(out, Instr{Op: OpOnErrorGoto, Disable: st.Disable, Label: st.Label})
	case *ast.ResumeStmt:
		return append(out, Instr{Op: OpResume, ResumeKind: st.Kind, Label: st.Label})
	case *ast.ExitStmt:
		return append(out, Instr{Op: OpExit})
	case *ast.EndStmt, *ast.SystemStmt:
		return append(out, Instr{Op: OpEnd})
	case *ast.CallStmt:
		if st.Resolved == ast.CallUserFunction {
			return append(out, Instr{Op: OpCallSub, CallName: st.Name, CallArgs: st.Args})
		}
		return append(out, Instr{Op: OpExec, Stmt: st})
	case *ast.IfStmt:
		return g.ifStmt(out, st)
	case *ast.SelectCaseStmt:
		return g.selectCase(out, st)
	case *ast.ForStmt:
		return g.forStmt(out, st)
	case *ast.WhileStmt:
		return g.whileStmt(out, st)
	case *ast.DoLoopStmt:
		return g.doLoop(out, st)
	default:
		return append(out, Instr{Op: OpExec, Stmt: s})
	}
}

// jumpTo builds a GOTO/GOSUB instruction, resolving Target immediately
// if the label's address is already known (a backward jump) or deferring
// resolution to resolveLabels (a forward jump).
func (g *generator) jumpTo(op Op, label common.Name) Instr {
	instr := Instr{Op: op}
	if addr, ok := g.labelAddr[label.Key()]; ok {
		instr.Target = addr
		return instr
	}
	instr.Label = label // marks this as needing a patch; recorded by the caller's index
	return instr
}

// resolveLabels makes a second pass over a finished Unit's instructions,
// patching every GOTO/GOSUB/RETURN label/ON ERROR GOTO/RESUME label whose
// target wasn't yet known on the first pass (the label appeared later in
// the source than the reference). Once patched, Target is authoritative
// and Label is cleared.
func (g *generator) resolveLabels(u *Unit) error {
	for i := range u.Instructions {
		instr := &u.Instructions[i]
		switch instr.Op {
		case OpJump, OpGosub:
			if instr.Label.IsZero() {
				continue
			}
		case OpOnErrorGoto:
			if instr.Disable {
				continue
			}
		case OpResume:
			if instr.ResumeKind != ast.ResumeLabel {
				continue
			}
		case OpReturn:
			if !instr.HasLabel {
				continue
			}
		default:
			continue
		}
		addr, ok := g.labelAddr[instr.Label.Key()]
		if !ok {
			return common.New(common.ErrLabelNotDefined, common.Position{}, "label %s is not defined", instr.Label.String())
		}
		instr.Target = addr
		instr.Label = common.Name{}
	}
	return nil
}

// ifStmt lowers IF/ELSEIF/ELSE to a chain of condition-test-then-jump
// blocks, each branch jumping to a shared end label once control falls
// off the end of its body.
func (g *generator) ifStmt(out []Instr, st *ast.IfStmt) []Instr {
	var endPatches []int

	emitBranch := func(cond ast.Expression, body []ast.Statement) {
		out = append(out, Instr{Op: OpEvalInto, Expr: cond, Reg: RegA})
		testIdx := len(out)
		out = append(out, Instr{Op: OpJumpIfFalse, Reg: RegA}) // Target patched below
		out = g.block2(out, body)
		jumpIdx := len(out)
		out = append(out, Instr{Op: OpJump}) // to end, patched below
		endPatches = append(endPatches, jumpIdx)
		out[testIdx].Target = len(out)
	}

	emitBranch(st.Cond, st.Then)
	for _, ei := range st.ElseIfs {
		emitBranch(ei.Cond, ei.Body)
	}
	out = g.block2(out, st.Else)

	end := len(out)
	for _, idx := range endPatches {
		out[idx].Target = end
	}
	return out
}

// block2 appends a nested statement list's instructions onto an
// already-started instruction slice (used where the slice itself, not
// just a fresh one, needs extending in place).
func (g *generator) block2(out []Instr, stmts []ast.Statement) []Instr {
	for _, s := range stmts {
		out = g.stmt(out, s)
	}
	return out
}

// selectCase lowers SELECT CASE by caching the selector in a hidden
// temporary once, then testing each arm in turn as a chain of OR'd
// equality/range/relational comparisons against that temporary.
func (g *generator) selectCase(out []Instr, st *ast.SelectCaseStmt) []Instr {
	tmp := g.tempName()
	tmpVar := ast.NewVariableExpr(st.Selector.Pos(), tmp, common.QualNone)
	tmpVar.SetType(st.Selector.Type())
	assign := &ast.AssignStmt{Target: tmpVar, Value: st.Selector}
	out = append(out, Instr{Op: OpExec, Stmt: assign})

	var endPatches []int
	for _, arm := range st.Arms {
		if arm.IsElse {
			out = g.block2(out, arm.Body)
			continue
		}
		cond := armCondition(tmpVar, arm)
		out = append(out, Instr{Op: OpEvalInto, Expr: cond, Reg: RegA})
		testIdx := len(out)
		out = append(out, Instr{Op: OpJumpIfFalse, Reg: RegA})
		out = g.block2(out, arm.Body)
		jumpIdx := len(out)
		out = append(out, Instr{Op: OpJump})
		endPatches = append(endPatches, jumpIdx)
		out[testIdx].Target = len(out)
	}

	end := len(out)
	for _, idx := range endPatches {
		out[idx].Target = end
	}
	return out
}

// armCondition builds the boolean expression equivalent to a whole
// comma-separated CASE arm: an OR-chain of its individual tests.
func armCondition(selector ast.Expression, arm *ast.CaseArm) ast.Expression {
	var cond ast.Expression
	for _, t := range arm.Tests {
		var test ast.Expression
		switch t.Kind {
		case ast.CaseSimple:
			test = ast.NewBinaryExpr(t.Value.Pos(), ast.OpEq, selector, t.Value)
		case ast.CaseRange:
			lo := ast.NewBinaryExpr(t.Low.Pos(), ast.OpGreaterEq, selector, t.Low)
			hi := ast.NewBinaryExpr(t.High.Pos(), ast.OpLessEq, selector, t.High)
			test = ast.NewBinaryExpr(t.Low.Pos(), ast.OpAnd, lo, hi)
		case ast.CaseIs:
			test = ast.NewBinaryExpr(t.RelValue.Pos(), t.RelOp, selector, t.RelValue)
		}
		if cond == nil {
			cond = test
		} else {
			cond = ast.NewBinaryExpr(cond.Pos(), ast.OpOr, cond, test)
		}
	}
	return cond
}

// forStmt lowers FOR/NEXT. A literal STEP's sign is known at generation
// time, so the continuation test is compiled directly as `counter <=
// upper` or `counter >= upper` (the "mirrored pos/neg-step" blocks); a
// non-literal STEP expression is cached once into a hidden temporary and
// the continuation test picks its comparison direction at run time based
// on that temporary's sign.
func (g *generator) forStmt(out []Instr, st *ast.ForStmt) []Instr {
	step := st.Step
	if step == nil {
		step = ast.NewIntLiteral(st.Pos(), 1)
	}

	init := &ast.AssignStmt{Target: st.Counter, Value: st.Lower}
	out = append(out, Instr{Op: OpExec, Stmt: init})

	upperTmp := g.tempName()
	upperVar := ast.NewVariableExpr(st.Upper.Pos(), upperTmp, common.QualNone)
	upperVar.SetType(st.Upper.Type())
	out = append(out, Instr{Op: OpExec, Stmt: &ast.AssignStmt{Target: upperVar, Value: st.Upper}})

	var stepLit ast.Expression
	switch step.(type) {
	case *ast.IntLiteral, *ast.LongLiteral, *ast.SingleLiteral, *ast.DoubleLiteral:
		stepLit = step
	}

	stepTmp := g.tempName()
	stepVar := ast.NewVariableExpr(step.Pos(), stepTmp, common.QualNone)
	stepVar.SetType(step.Type())
	out = append(out, Instr{Op: OpExec, Stmt: &ast.AssignStmt{Target: stepVar, Value: step}})
	out = append(out, Instr{Op: OpCheckForStep, Expr: stepVar})

	loopStart := len(out)

	var testCond ast.Expression
	if stepLit != nil && isNegativeLiteral(stepLit) {
		testCond = ast.NewBinaryExpr(st.Pos(), ast.OpGreaterEq, st.Counter, upperVar)
	} else if stepLit != nil {
		testCond = ast.NewBinaryExpr(st.Pos(), ast.OpLessEq, st.Counter, upperVar)
	} else {
		// dynamic step: (step >= 0 AND counter <= upper) OR (step < 0 AND counter >= upper)
		zero := ast.NewIntLiteral(st.Pos(), 0)
		posBranch := ast.NewBinaryExpr(st.Pos(), ast.OpAnd,
			ast.NewBinaryExpr(st.Pos(), ast.OpGreaterEq, stepVar, zero),
			ast.NewBinaryExpr(st.Pos(), ast.OpLessEq, st.Counter, upperVar))
		negBranch := ast.NewBinaryExpr(st.Pos(), ast.OpAnd,
			ast.NewBinaryExpr(st.Pos(), ast.OpLess, stepVar, zero),
			ast.NewBinaryExpr(st.Pos(), ast.OpGreaterEq, st.Counter, upperVar))
		testCond = ast.NewBinaryExpr(st.Pos(), ast.OpOr, posBranch, negBranch)
	}

	out = append(out, Instr{Op: OpEvalInto, Expr: testCond, Reg: RegA})
	testIdx := len(out)
	out = append(out, Instr{Op: OpJumpIfFalse, Reg: RegA})

	out = g.block2(out, st.Body)

	incr := &ast.AssignStmt{Target: st.Counter, Value: ast.NewBinaryExpr(st.Pos(), ast.OpAdd, st.Counter, stepVar)}
	out = append(out, Instr{Op: OpExec, Stmt: incr})
	out = append(out, Instr{Op: OpJump, Target: loopStart})

	out[testIdx].Target = len(out)
	return out
}

func isNegativeLiteral(e ast.Expression) bool {
	switch l := e.(type) {
	case *ast.IntLiteral:
		return l.Value < 0
	case *ast.LongLiteral:
		return l.Value < 0
	case *ast.SingleLiteral:
		return l.Value < 0
	case *ast.DoubleLiteral:
		return l.Value < 0
	}
	return false
}

func (g *generator) whileStmt(out []Instr, st *ast.WhileStmt) []Instr {
	loopStart := len(out)
	out = append(out, Instr{Op: OpEvalInto, Expr: st.Cond, Reg: RegA})
	testIdx := len(out)
	out = append(out, Instr{Op: OpJumpIfFalse, Reg: RegA})
	out = g.block2(out, st.Body)
	out = append(out, Instr{Op: OpJump, Target: loopStart})
	out[testIdx].Target = len(out)
	return out
}

func (g *generator) doLoop(out []Instr, st *ast.DoLoopStmt) []Instr {
	loopStart := len(out)
	var topTestIdx = -1

	if st.CondPos == ast.CondTop {
		cond := conditionForLoop(st.Cond, st.CondKind)
		out = append(out, Instr{Op: OpEvalInto, Expr: cond, Reg: RegA})
		topTestIdx = len(out)
		out = append(out, Instr{Op: OpJumpIfFalse, Reg: RegA})
	}

	out = g.block2(out, st.Body)

	if st.CondPos == ast.CondBottom {
		cond := conditionForLoop(st.Cond, st.CondKind)
		out = append(out, Instr{Op: OpEvalInto, Expr: cond, Reg: RegA})
		out = append(out, Instr{Op: OpJumpIfTrue, Reg: RegA, Target: loopStart})
	} else {
		out = append(out, Instr{Op: OpJump, Target: loopStart})
	}

	if topTestIdx >= 0 {
		out[topTestIdx].Target = len(out)
	}
	return out
}

// conditionForLoop wraps an UNTIL condition with NOT, so the generator
// only ever has to emit "continue while true" tests.
func conditionForLoop(cond ast.Expression, kind ast.DoCondKind) ast.Expression {
	if kind == ast.CondUntil {
		return ast.NewUnaryExpr(cond.Pos(), ast.OpNot, cond)
	}
	return cond
}
