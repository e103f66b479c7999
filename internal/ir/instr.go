// Package ir lowers a linted program into a flat, register-addressed
// instruction sequence per SUB/FUNCTION (and one for the top-level main
// body): structured control flow (IF/FOR/WHILE/DO/SELECT CASE) is
// compiled down to conditional jumps over a linear instruction list,
// the same way a real backend would, rather than walked as a tree at
// run time. A register-addressed design rather than a stack-based VM:
// BASIC's GOTO/GOSUB/RESUME model needs addressable statement
// positions, which a stack machine's implicit operand stack doesn't
// give you, so instructions here are addressed by integer Target
// indices instead.
package ir

import (
	"github.com/ngeor/go-basic/internal/ast"
	"github.com/ngeor/go-basic/internal/common"
)

// Reg names one of the four scratch slots a condition's truth value is
// written into before the jump instruction that consumes it. They hold
// no state across instructions; a loop whose test needs to survive
// across iterations (a FOR loop's dynamic STEP sign) is instead cached
// in a hidden compiler-generated variable, the same way a real BASIC
// compiler spills a loop-invariant temporary, so Reg only ever carries
// one instruction's worth of condition result.
type Reg int

const (
	RegA Reg = iota
	RegB
	RegC
	RegD
)

// Op enumerates the instruction kinds a Unit's Instructions stream can
// hold.
type Op int

const (
	// OpExec runs a single non-control-flow statement (assignment, DIM,
	// CONST, PRINT, CALL, ...) via the interpreter's existing
	// statement-execution path; the IR doesn't re-express these, since
	// they have no internal jump structure to linearize.
	OpExec Op = iota
	// OpEvalInto evaluates Expr as a condition and stores its truth value
	// (BASIC's "0 is false, nonzero is true" rule) into Reg, for the
	// OpJumpIfFalse/OpJumpIfTrue that immediately follows.
	OpEvalInto
	// OpJump is an unconditional jump to Target.
	OpJump
	// OpJumpIfFalse jumps to Target when Reg holds a false (zero) value.
	OpJumpIfFalse
	// OpJumpIfTrue jumps to Target when Reg holds a true (nonzero) value.
	OpJumpIfTrue
	// OpGosub pushes the return address (the instruction after this one)
	// onto the interpreter's call stack and jumps to Target.
	OpGosub
	// OpReturn pops the most recent GOSUB return address and jumps there;
	// HasLabel overrides it with Label when the source used `RETURN
	// label`.
	OpReturn
	// OpCallSub invokes a user SUB by name with the given argument
	// expressions, then continues at the next instruction.
	OpCallSub
	// OpExit jumps to the owning unit's epilogue (used by EXIT
	// SUB/FUNCTION so cleanup/result-binding logic runs exactly once,
	// whether reached via EXIT or by falling off the end of the body).
	OpExit
	// OpOnErrorGoto installs (or, if Disable, clears) the active error
	// handler label for the remainder of this unit.
	OpOnErrorGoto
	// OpResume resumes after a trapped error: at the failing instruction
	// (Kind == ResumeBare), at the instruction after it (ResumeNext), or
	// at Label's address (ResumeLabel).
	OpResume
	// OpEnd halts program execution immediately.
	OpEnd
	// OpCheckForStep evaluates Expr (a FOR loop's cached STEP value) and
	// raises ForLoopZeroStep if it is zero, whether STEP was a literal
	// zero or a runtime-evaluated expression that happened to be zero.
	OpCheckForStep
)

// Instr is one addressable step of a Unit's linear program. Only the
// fields relevant to Op are populated; the rest are zero.
type Instr struct {
	Op   Op
	Stmt ast.Statement  // OpExec
	Expr ast.Expression // OpEvalInto, OpCheckForStep
	Reg  Reg            // OpEvalInto, OpJumpIfFalse, OpJumpIfTrue

	Target int // jump destination: an index into Instructions

	HasLabel bool        // OpReturn
	Label    common.Name // OpReturn, OpOnErrorGoto, OpResume (ResumeKind == ResumeLabel)
	Disable  bool        // OpOnErrorGoto

	ResumeKind ast.ResumeKind // OpResume

	CallName common.Name      // OpCallSub
	CallArgs []ast.Expression // OpCallSub
}

// Unit is one SUB/FUNCTION's (or the program's top-level main body's)
// compiled instruction stream.
type Unit struct {
	// Name is the zero Name for the top-level main unit.
	Name       common.Name
	IsFunction bool
	ResultQual common.Qualifier
	Params     []*ast.Param
	// Instructions is the flat, jump-addressed program.
	Instructions []Instr
	// Epilogue is the address EXIT SUB/FUNCTION, and a natural fall-off-
	// the-end, both jump to: len(Instructions) for a SUB/FUNCTION, and
	// the address of the closing OpEnd for the main unit. Kept as a
	// named field since a future RETURN-value coercion step would insert
	// instructions there.
	Epilogue int
}
