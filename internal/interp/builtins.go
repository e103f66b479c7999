package interp

import (
	"encoding/binary"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ngeor/go-basic/internal/ast"
	"github.com/ngeor/go-basic/internal/common"
	"github.com/ngeor/go-basic/internal/platform"
)

// builtinFunc is one built-in function's implementation, dispatched by
// name from builtinFunctions; args are already evaluated left to right.
type builtinFunc func(it *Interp, pos common.Position, args []common.Variant) (common.Variant, error)

// builtinFunctions mirrors internal/builtin's name table, split out here
// since only the interpreter (not the linter) needs the actual behavior.
var builtinFunctions = map[string]builtinFunc{
	"ABS": biAbs, "SGN": biSgn, "INT": biInt, "FIX": biFix,
	"SQR": mathFn(math.Sqrt), "SIN": mathFn(math.Sin), "COS": mathFn(math.Cos),
	"TAN": mathFn(math.Tan), "ATN": mathFn(math.Atan),
	"EXP": mathFn(math.Exp), "LOG": mathFn(math.Log), "RND": biRnd,

	"LEN": biLen, "LEFT": biLeft, "RIGHT": biRight, "MID": biMid,
	"INSTR": biInstr, "UCASE": biUcase, "LCASE": biLcase,
	"LTRIM": biLtrim, "RTRIM": biRtrim, "SPACE": biSpace, "STRING": biStringDollar,
	"CHR": biChr, "ASC": biAsc, "STR": biStr, "VAL": biVal,

	"CVD": biCvd, "CVS": biCvs, "CVI": biCvi, "CVL": biCvl,
	"MKD": biMkd, "MKS": biMks, "MKI": biMki, "MKL": biMkl,

	"LBOUND": biLbound, "UBOUND": biUbound,

	"ENVIRON": biEnvironDollar, "COMMAND": biCommand,

	"EOF": biEof, "LOF": biLof,

	"VARSEG": biZeroLong, "VARPTR": biZeroLong, "PEEK": biZeroInt,

	"TIMER": biTimer,
}

// callBuiltinFunction evaluates a built-in function call's arguments and
// dispatches to its implementation.
func (it *Interp) callBuiltinFunction(ctx *execCtx, x *ast.CallOrIndexExpr) (common.Variant, error) {
	fn, ok := builtinFunctions[x.Name.Key()]
	if !ok {
		return common.Variant{}, common.New(common.ErrIllegalFunctionCall, x.Pos(), "%s is not implemented", x.Name.String())
	}
	args := make([]common.Variant, len(x.Args))
	for i, a := range x.Args {
		v, err := it.Eval(ctx, a)
		if err != nil {
			return common.Variant{}, err
		}
		args[i] = v
	}
	return fn(it, x.Pos(), args)
}

func mathFn(f func(float64) float64) builtinFunc {
	return func(it *Interp, pos common.Position, args []common.Variant) (common.Variant, error) {
		x := args[0].ToFloat64()
		r := f(x)
		if args[0].Kind() == common.KindDouble {
			return common.Double(r), nil
		}
		return common.Single(float32(r)), nil
	}
}

func biAbs(it *Interp, pos common.Position, args []common.Variant) (common.Variant, error) {
	v := args[0]
	switch v.Kind() {
	case common.KindInteger:
		if v.AsInteger() < 0 {
			return common.Integer(-v.AsInteger()), nil
		}
		return v, nil
	case common.KindLong:
		if v.AsLong() < 0 {
			return common.Long(-v.AsLong()), nil
		}
		return v, nil
	case common.KindSingle:
		return common.Single(float32(math.Abs(float64(v.AsSingle())))), nil
	default:
		return common.Double(math.Abs(v.ToFloat64())), nil
	}
}

func biSgn(it *Interp, pos common.Position, args []common.Variant) (common.Variant, error) {
	f := args[0].ToFloat64()
	switch {
	case f > 0:
		return common.Integer(1), nil
	case f < 0:
		return common.Integer(-1), nil
	default:
		return common.Integer(0), nil
	}
}

func biInt(it *Interp, pos common.Position, args []common.Variant) (common.Variant, error) {
	return numericLike(args[0], math.Floor(args[0].ToFloat64())), nil
}

func biFix(it *Interp, pos common.Position, args []common.Variant) (common.Variant, error) {
	return numericLike(args[0], math.Trunc(args[0].ToFloat64())), nil
}

// numericLike rebuilds f as the same numeric kind as like, for INT/FIX
// which preserve their argument's type.
func numericLike(like common.Variant, f float64) common.Variant {
	switch like.Kind() {
	case common.KindInteger:
		return common.Integer(int16(f))
	case common.KindLong:
		return common.Long(int32(f))
	case common.KindSingle:
		return common.Single(float32(f))
	default:
		return common.Double(f)
	}
}

func biRnd(it *Interp, pos common.Position, args []common.Variant) (common.Variant, error) {
	return common.Single(float32(it.rng.Float64())), nil
}

func biLen(it *Interp, pos common.Position, args []common.Variant) (common.Variant, error) {
	return common.Integer(int16(len(args[0].AsString()))), nil
}

func biLeft(it *Interp, pos common.Position, args []common.Variant) (common.Variant, error) {
	s := args[0].AsString()
	n := int(args[1].ToFloat64())
	if n < 0 {
		return common.Variant{}, common.New(common.ErrIllegalFunctionCall, pos, "illegal function call")
	}
	if n > len(s) {
		n = len(s)
	}
	return common.Str(s[:n]), nil
}

func biRight(it *Interp, pos common.Position, args []common.Variant) (common.Variant, error) {
	s := args[0].AsString()
	n := int(args[1].ToFloat64())
	if n < 0 {
		return common.Variant{}, common.New(common.ErrIllegalFunctionCall, pos, "illegal function call")
	}
	if n > len(s) {
		n = len(s)
	}
	return common.Str(s[len(s)-n:]), nil
}

func biMid(it *Interp, pos common.Position, args []common.Variant) (common.Variant, error) {
	s := args[0].AsString()
	start := int(args[1].ToFloat64())
	if start < 1 {
		return common.Variant{}, common.New(common.ErrIllegalFunctionCall, pos, "illegal function call")
	}
	if start > len(s) {
		return common.Str(""), nil
	}
	n := len(s) - start + 1
	if len(args) >= 3 {
		n = int(args[2].ToFloat64())
		if n < 0 {
			n = 0
		}
	}
	end := start - 1 + n
	if end > len(s) {
		end = len(s)
	}
	return common.Str(s[start-1 : end]), nil
}

func biInstr(it *Interp, pos common.Position, args []common.Variant) (common.Variant, error) {
	start := 1
	hay, needle := args[0].AsString(), args[1].AsString()
	if len(args) == 3 {
		start = int(args[0].ToFloat64())
		hay, needle = args[1].AsString(), args[2].AsString()
	}
	if start < 1 {
		start = 1
	}
	if start > len(hay)+1 {
		return common.Integer(0), nil
	}
	idx := strings.Index(hay[start-1:], needle)
	if idx < 0 {
		return common.Integer(0), nil
	}
	return common.Integer(int16(start + idx)), nil
}

func biUcase(it *Interp, pos common.Position, args []common.Variant) (common.Variant, error) {
	return common.Str(strings.ToUpper(args[0].AsString())), nil
}

func biLcase(it *Interp, pos common.Position, args []common.Variant) (common.Variant, error) {
	return common.Str(strings.ToLower(args[0].AsString())), nil
}

func biLtrim(it *Interp, pos common.Position, args []common.Variant) (common.Variant, error) {
	return common.Str(strings.TrimLeft(args[0].AsString(), " ")), nil
}

func biRtrim(it *Interp, pos common.Position, args []common.Variant) (common.Variant, error) {
	return common.Str(strings.TrimRight(args[0].AsString(), " ")), nil
}

func biSpace(it *Interp, pos common.Position, args []common.Variant) (common.Variant, error) {
	n := int(args[0].ToFloat64())
	if n < 0 {
		return common.Variant{}, common.New(common.ErrIllegalFunctionCall, pos, "illegal function call")
	}
	return common.Str(strings.Repeat(" ", n)), nil
}

func biStringDollar(it *Interp, pos common.Position, args []common.Variant) (common.Variant, error) {
	n := int(args[0].ToFloat64())
	if n < 0 {
		return common.Variant{}, common.New(common.ErrIllegalFunctionCall, pos, "illegal function call")
	}
	var ch byte
	if args[1].Kind() == common.KindString {
		s := args[1].AsString()
		if s == "" {
			return common.Variant{}, common.New(common.ErrIllegalFunctionCall, pos, "illegal function call")
		}
		ch = s[0]
	} else {
		code := int(args[1].ToFloat64())
		if code < 0 || code > 255 {
			return common.Variant{}, common.New(common.ErrIllegalFunctionCall, pos, "illegal function call")
		}
		ch = byte(code)
	}
	return common.Str(strings.Repeat(string(ch), n)), nil
}

func biChr(it *Interp, pos common.Position, args []common.Variant) (common.Variant, error) {
	code := int(args[0].ToFloat64())
	if code < 0 || code > 255 {
		return common.Variant{}, common.New(common.ErrIllegalFunctionCall, pos, "illegal function call")
	}
	return common.Str(string(byte(code))), nil
}

func biAsc(it *Interp, pos common.Position, args []common.Variant) (common.Variant, error) {
	s := args[0].AsString()
	if s == "" {
		return common.Variant{}, common.New(common.ErrIllegalFunctionCall, pos, "illegal function call")
	}
	return common.Integer(int16(s[0])), nil
}

func biStr(it *Interp, pos common.Position, args []common.Variant) (common.Variant, error) {
	return common.Str(args[0].String()), nil
}

func biVal(it *Interp, pos common.Position, args []common.Variant) (common.Variant, error) {
	s := strings.TrimSpace(args[0].AsString())
	end := 0
	for end < len(s) && (s[end] == '+' || s[end] == '-' || s[end] == '.' || (s[end] >= '0' && s[end] <= '9')) {
		end++
	}
	if end == 0 {
		return common.Double(0), nil
	}
	f, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return common.Double(0), nil
	}
	return common.Double(f), nil
}

func biCvi(it *Interp, pos common.Position, args []common.Variant) (common.Variant, error) {
	b := []byte(args[0].AsString())
	if len(b) < 2 {
		return common.Variant{}, common.New(common.ErrIllegalFunctionCall, pos, "illegal function call")
	}
	return common.Integer(int16(binary.LittleEndian.Uint16(b))), nil
}

func biCvl(it *Interp, pos common.Position, args []common.Variant) (common.Variant, error) {
	b := []byte(args[0].AsString())
	if len(b) < 4 {
		return common.Variant{}, common.New(common.ErrIllegalFunctionCall, pos, "illegal function call")
	}
	return common.Long(int32(binary.LittleEndian.Uint32(b))), nil
}

func biCvs(it *Interp, pos common.Position, args []common.Variant) (common.Variant, error) {
	b := []byte(args[0].AsString())
	if len(b) < 4 {
		return common.Variant{}, common.New(common.ErrIllegalFunctionCall, pos, "illegal function call")
	}
	return common.Single(math.Float32frombits(binary.LittleEndian.Uint32(b))), nil
}

func biCvd(it *Interp, pos common.Position, args []common.Variant) (common.Variant, error) {
	b := []byte(args[0].AsString())
	if len(b) < 8 {
		return common.Variant{}, common.New(common.ErrIllegalFunctionCall, pos, "illegal function call")
	}
	return common.Double(math.Float64frombits(binary.LittleEndian.Uint64(b))), nil
}

func biMki(it *Interp, pos common.Position, args []common.Variant) (common.Variant, error) {
	b := make([]byte, 2)
	binary.LittleEndian.PutUint16(b, uint16(int16(args[0].ToFloat64())))
	return common.Str(string(b)), nil
}

func biMkl(it *Interp, pos common.Position, args []common.Variant) (common.Variant, error) {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, uint32(int32(args[0].ToFloat64())))
	return common.Str(string(b)), nil
}

func biMks(it *Interp, pos common.Position, args []common.Variant) (common.Variant, error) {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, math.Float32bits(float32(args[0].ToFloat64())))
	return common.Str(string(b)), nil
}

func biMkd(it *Interp, pos common.Position, args []common.Variant) (common.Variant, error) {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, math.Float64bits(args[0].ToFloat64()))
	return common.Str(string(b)), nil
}

func biLbound(it *Interp, pos common.Position, args []common.Variant) (common.Variant, error) {
	arr := args[0].AsArray()
	if arr == nil {
		return common.Variant{}, common.New(common.ErrArrayNotDefined, pos, "not an array")
	}
	dim := dimIndex(args)
	if dim < 0 || dim >= len(arr.Dims) {
		return common.Variant{}, common.New(common.ErrSubscriptOutOfRange, pos, "subscript out of range")
	}
	return common.Integer(int16(arr.Dims[dim].Lower)), nil
}

func biUbound(it *Interp, pos common.Position, args []common.Variant) (common.Variant, error) {
	arr := args[0].AsArray()
	if arr == nil {
		return common.Variant{}, common.New(common.ErrArrayNotDefined, pos, "not an array")
	}
	dim := dimIndex(args)
	if dim < 0 || dim >= len(arr.Dims) {
		return common.Variant{}, common.New(common.ErrSubscriptOutOfRange, pos, "subscript out of range")
	}
	return common.Integer(int16(arr.Dims[dim].Upper)), nil
}

func dimIndex(args []common.Variant) int {
	if len(args) < 2 {
		return 0
	}
	return int(args[1].ToFloat64()) - 1
}

func biEnvironDollar(it *Interp, pos common.Position, args []common.Variant) (common.Variant, error) {
	return common.Str(os.Getenv(args[0].AsString())), nil
}

func biCommand(it *Interp, pos common.Position, args []common.Variant) (common.Variant, error) {
	return common.Str(""), nil
}

// biZeroLong/biZeroInt back the segmented-memory builtins (VARSEG,
// VARPTR, PEEK), which have no meaningful value on a machine without a
// flat-addressed BASIC heap; they always report 0 rather than raising,
// matching programs that call them only to print a placeholder.
func biZeroLong(it *Interp, pos common.Position, args []common.Variant) (common.Variant, error) {
	return common.Long(0), nil
}

func biZeroInt(it *Interp, pos common.Position, args []common.Variant) (common.Variant, error) {
	return common.Integer(0), nil
}

func biTimer(it *Interp, pos common.Position, args []common.Variant) (common.Variant, error) {
	now := time.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return common.Single(float32(now.Sub(midnight).Seconds())), nil
}

// execBuiltinStatement dispatches CallStmt nodes the linter resolved to a
// built-in statement (everything that isn't a user SUB, which is lowered
// to OpCallSub instead, see internal/ir/gen.go).
func (it *Interp) execBuiltinStatement(ctx *execCtx, st *ast.CallStmt) error {
	args := make([]common.Variant, len(st.Args))
	for i, a := range st.Args {
		v, err := it.Eval(ctx, a)
		if err != nil {
			return err
		}
		args[i] = v
	}
	switch st.Name.Key() {
	case "BEEP":
		it.Screen.Beep()
		return nil
	case "CLS":
		it.Screen.Cls()
		return nil
	case "COLOR":
		fg, bg := -1, -1
		if len(args) > 0 {
			fg = int(args[0].ToFloat64())
		}
		if len(args) > 1 {
			bg = int(args[1].ToFloat64())
		}
		it.Screen.Color(platform.Color(fg), platform.Color(bg))
		return nil
	case "LOCATE":
		row, col := 1, 1
		if len(args) > 0 {
			row = int(args[0].ToFloat64())
		}
		if len(args) > 1 {
			col = int(args[1].ToFloat64())
		}
		it.Screen.Locate(row, col)
		return nil
	case "POKE":
		return nil
	case "ENVIRON":
		if len(args) > 0 {
			parts := strings.SplitN(args[0].AsString(), "=", 2)
			if len(parts) == 2 {
				return os.Setenv(parts[0], parts[1])
			}
		}
		return nil
	default:
		return common.New(common.ErrIllegalFunctionCall, st.Pos(), "%s is not implemented", st.Name.String())
	}
}
