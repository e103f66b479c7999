package interp

import (
	"bufio"
	"errors"
	"io"
	"math/rand"
	"os"

	"github.com/ngeor/go-basic/internal/ast"
	"github.com/ngeor/go-basic/internal/common"
	"github.com/ngeor/go-basic/internal/ir"
	"github.com/ngeor/go-basic/internal/platform"
	"github.com/ngeor/go-basic/internal/semantic"
)

// errHalt is the sentinel an OpEnd instruction returns to unwind every
// nested runUnit call back to Run, implementing END/SYSTEM's "stop the
// whole program, not just this procedure" rule. It is never wrapped in a
// *common.QError so ON ERROR GOTO never catches it.
var errHalt = errors.New("interp: program halted")

// Interp runs a linted, lowered program against a console I/O surface:
// one long-lived value holding everything a run needs, built once by
// New and driven by Run.
type Interp struct {
	Program *ir.Program
	Sem     *semantic.Program
	Out     io.Writer
	In      io.Reader
	Screen  platform.Screen
	global  *Frame
	rng     *rand.Rand
	column  int // current PRINT output column, for zone/comma spacing
	files   map[int]*openFile
	inReader *bufio.Reader // lazily wraps In on first console INPUT
}

// New builds an interpreter ready to run prog against out. In defaults
// to os.Stdin and Screen is picked from out via platform.NewScreen;
// both can be overridden on the returned value before Run.
func New(prog *ir.Program, sem *semantic.Program, out io.Writer) *Interp {
	return &Interp{
		Program: prog,
		Sem:     sem,
		Out:     out,
		In:      os.Stdin,
		Screen:  platform.NewScreen(out),
		global:  NewFrame(),
		rng:     rand.New(rand.NewSource(1)),
		files:   map[int]*openFile{},
	}
}

// execCtx bundles a running unit's mutable state: its frame, its lexical
// scope (for global-vs-local variable residency, see frameForCompact),
// and the instruction stream being executed.
type execCtx struct {
	unit     *ir.Unit
	frame    *Frame
	scope    *semantic.Scope
	isGlobal bool
}

// Run executes the top-level main body:
// execution starts at the first global statement and ends at END, at
// falling off the last global statement, or at a SYSTEM statement.
func (it *Interp) Run() error {
	ctx := &execCtx{unit: it.Program.Main, frame: it.global, scope: it.Sem.Global, isGlobal: true}
	_, err := it.runUnit(ctx)
	if err == errHalt {
		return nil
	}
	return err
}

// frameForCompact/frameForExtended pick the frame a variable's storage
// actually lives in: the global frame for anything declared at module
// level (so a SUB/FUNCTION body can read it without needing a separate
// SHARED mechanism modeled at run time — see DESIGN.md's "variable
// residency" entry), the local frame otherwise.
func (it *Interp) frameForCompact(ctx *execCtx, name common.Name) *Frame {
	if ctx.isGlobal {
		return ctx.frame
	}
	if _, ok := it.Sem.Global.Compact[name.Key()]; ok {
		return it.global
	}
	return ctx.frame
}

func (it *Interp) frameForExtended(ctx *execCtx, name common.Name) *Frame {
	if ctx.isGlobal {
		return ctx.frame
	}
	if _, ok := it.Sem.Global.Extended[name.Key()]; ok {
		return it.global
	}
	return ctx.frame
}

// udtElements looks up a user type's field list by name, for record
// zero-initialization.
func (it *Interp) udtElements(name common.Name) []*ast.UDTElement {
	if u, ok := it.Sem.UDTs[name.Key()]; ok {
		return u.Elements
	}
	return nil
}
