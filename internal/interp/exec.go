package interp

import (
	"fmt"
	"io"
	"strings"

	"github.com/ngeor/go-basic/internal/ast"
	"github.com/ngeor/go-basic/internal/common"
)

// execStmt runs one OpExec-wrapped statement: everything with no internal
// jump structure for the IR to linearize (assignment, DIM, CONST, PRINT,
// and built-in-statement calls; user SUB calls are lowered to OpCallSub
// instead, see internal/ir/gen.go).
func (it *Interp) execStmt(ctx *execCtx, s ast.Statement) error {
	switch st := s.(type) {
	case *ast.DimStmt:
		for _, v := range st.Vars {
			if len(v.Dims) == 0 {
				continue
			}
			if err := it.dimArray(ctx, v, st.Preserve); err != nil {
				return err
			}
		}
		return nil
	case *ast.ConstStmt:
		// already folded into the scope's constant table by the linter.
		return nil
	case *ast.AssignStmt:
		return it.execAssign(ctx, st)
	case *ast.PrintStmt:
		return it.execPrint(ctx, st)
	case *ast.CallStmt:
		return it.execBuiltinStatement(ctx, st)
	case *ast.CommentStmt:
		return nil
	case *ast.OpenStmt:
		return it.execOpen(ctx, st)
	case *ast.CloseStmt:
		return it.execClose(ctx, st)
	case *ast.KillStmt:
		return it.execKill(ctx, st)
	case *ast.NameStmt:
		return it.execRename(ctx, st)
	case *ast.InputStmt:
		return it.execInput(ctx, st)
	default:
		return common.New(common.ErrInternal, s.Pos(), "cannot execute %T", s)
	}
}

// dimArray materializes an array variable's bounds: the element shell
// already exists (created lazily with an empty Dims by zeroValueFor on
// first reference), DIM just fills in its bounds and zero-filled backing
// slice. REDIM PRESERVE copies across whatever overlaps the old extent.
func (it *Interp) dimArray(ctx *execCtx, v *ast.DimVar, preserve bool) error {
	cell, err := it.arrayCell(ctx, v.Name, v.Qual)
	if err != nil {
		return err
	}
	arr := cell.AsArray()
	if arr == nil {
		return common.New(common.ErrArrayNotDefined, v.Pos(), "%s is not an array", v.Name.String())
	}

	dims := make([]common.Dimension, len(v.Dims))
	total := 1
	for i, d := range v.Dims {
		var lower int32
		if d.Lower != nil {
			lv, err := it.Eval(ctx, d.Lower)
			if err != nil {
				return err
			}
			lower = int32(lv.ToFloat64())
		}
		uv, err := it.Eval(ctx, d.Upper)
		if err != nil {
			return err
		}
		dims[i] = common.Dimension{Lower: lower, Upper: int32(uv.ToFloat64())}
		total *= dims[i].Len()
	}

	elements := make([]common.Variant, total)
	for i := range elements {
		elements[i] = zeroValueFor(arr.ElemType, it.udtElements)
	}
	if preserve {
		n := len(elements)
		if len(arr.Elements) < n {
			n = len(arr.Elements)
		}
		copy(elements[:n], arr.Elements[:n])
	}
	arr.Dims = dims
	arr.Elements = elements
	return nil
}

func (it *Interp) execAssign(ctx *execCtx, st *ast.AssignStmt) error {
	v, err := it.Eval(ctx, st.Value)
	if err != nil {
		return err
	}
	cell, err := it.lvalueCell(ctx, st.Target)
	if err != nil {
		return err
	}
	*cell = coerceAssign(*cell, v)
	return nil
}

// coerceAssign narrows/widens a numeric value to match its target cell's
// existing scalar kind: expression evaluation already picked a widened
// result type, so assignment additionally narrows back down to a smaller
// target, e.g. assigning a DOUBLE expression to an INTEGER variable.
// Record and array assignment replace the cell wholesale.
func coerceAssign(target, v common.Variant) common.Variant {
	switch target.Kind() {
	case common.KindInteger:
		return common.Integer(int16(v.ToFloat64()))
	case common.KindLong:
		return common.Long(int32(v.ToFloat64()))
	case common.KindSingle:
		return common.Single(float32(v.ToFloat64()))
	case common.KindDouble:
		return common.Double(v.ToFloat64())
	default:
		return v
	}
}

// execPrint implements PRINT's zone (14-column) and immediate (`;`)
// spacing. Console output tracks its column on the interpreter itself,
// since it persists across statements on the same logical line;
// PRINT #n, tracks it on that file's own openFile entry instead, and
// terminates lines with CRLF rather than the console's bare LF.
func (it *Interp) execPrint(ctx *execCtx, st *ast.PrintStmt) error {
	w := it.Out
	col := &it.column
	newline := "\n"

	if st.FileNum != nil {
		numV, err := it.Eval(ctx, st.FileNum)
		if err != nil {
			return err
		}
		of, ok := it.files[int(numV.ToFloat64())]
		if !ok {
			return common.New(common.ErrBadFileNameOrNumber, st.Pos(), "bad file number")
		}
		w = of.f
		col = &of.column
		newline = "\r\n"
	}

	if st.UsingFormat != nil {
		return it.execPrintUsing(ctx, st, w, col, newline)
	}

	trailingSep := ast.SepNone
	for _, item := range st.Items {
		if item.Expr != nil {
			v, err := it.Eval(ctx, item.Expr)
			if err != nil {
				return err
			}
			printValueTo(w, col, v)
		}
		trailingSep = item.Sep
		if item.Sep == ast.SepComma {
			printZoneTabTo(w, col)
		}
	}
	if trailingSep == ast.SepNone {
		io.WriteString(w, newline)
		*col = 0
	}
	return nil
}

// execPrintUsing evaluates every PRINT USING argument left to right, then
// renders them all at once through formatUsing: the format string's
// fields and literal text drive spacing entirely, so print-zone/
// immediate (`,`/`;`) separators between arguments are not applied (only
// the final separator, which still suppresses the trailing newline).
func (it *Interp) execPrintUsing(ctx *execCtx, st *ast.PrintStmt, w io.Writer, col *int, newline string) error {
	fmtV, err := it.Eval(ctx, st.UsingFormat)
	if err != nil {
		return err
	}

	var args []common.Variant
	trailingSep := ast.SepNone
	for _, item := range st.Items {
		if item.Expr != nil {
			v, err := it.Eval(ctx, item.Expr)
			if err != nil {
				return err
			}
			args = append(args, v)
		}
		trailingSep = item.Sep
	}

	printValueTo(w, col, common.Str(formatUsing(fmtV.AsString(), args)))
	if trailingSep == ast.SepNone {
		io.WriteString(w, newline)
		*col = 0
	}
	return nil
}

func printValueTo(w io.Writer, col *int, v common.Variant) {
	s := v.String()
	fmt.Fprint(w, s)
	*col += len(s)
}

const printZoneWidth = 14

func printZoneTabTo(w io.Writer, col *int) {
	pad := printZoneWidth - (*col % printZoneWidth)
	fmt.Fprint(w, strings.Repeat(" ", pad))
	*col += pad
}
