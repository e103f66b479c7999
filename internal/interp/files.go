package interp

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/ngeor/go-basic/internal/ast"
	"github.com/ngeor/go-basic/internal/common"
)

// openFile is one entry in the interpreter's file table (1..255, though
// nothing here enforces the upper bound): the underlying *os.File plus
// whatever buffering its mode needs, and PRINT#'s own column tracker
// since print-zone spacing is per output stream, not global.
type openFile struct {
	f      *os.File
	mode   ast.FileMode
	reader *bufio.Reader
	column int
}

// execOpen implements OPEN: picks the os.OpenFile flags for the
// requested mode and registers the handle under its file number. A file
// number already in the table is BadFileNameOrNumber, matching QBasic's
// "file already open" behavior.
func (it *Interp) execOpen(ctx *execCtx, st *ast.OpenStmt) error {
	pathV, err := it.Eval(ctx, st.Path)
	if err != nil {
		return err
	}
	numV, err := it.Eval(ctx, st.FileNum)
	if err != nil {
		return err
	}
	num := int(numV.ToFloat64())
	if _, exists := it.files[num]; exists {
		return common.New(common.ErrBadFileNameOrNumber, st.Pos(), "file #%d is already open", num)
	}

	path := pathV.AsString()
	var f *os.File
	switch st.Mode {
	case ast.ModeInput:
		f, err = os.Open(path)
		if err != nil {
			return common.New(common.ErrFileNotFound, st.Pos(), "file not found: %s", path)
		}
	case ast.ModeOutput:
		f, err = os.Create(path)
	case ast.ModeAppend:
		f, err = os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	default: // ModeRandom/binary: read-write, created if missing
		f, err = os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	}
	if err != nil {
		return common.New(common.ErrBadFileNameOrNumber, st.Pos(), "%v", err)
	}

	of := &openFile{f: f, mode: st.Mode}
	if st.Mode == ast.ModeInput || st.Mode == ast.ModeRandom {
		of.reader = bufio.NewReader(f)
	}
	it.files[num] = of
	return nil
}

func (it *Interp) execClose(ctx *execCtx, st *ast.CloseStmt) error {
	if len(st.FileNums) == 0 {
		for num, of := range it.files {
			of.f.Close()
			delete(it.files, num)
		}
		return nil
	}
	for _, e := range st.FileNums {
		v, err := it.Eval(ctx, e)
		if err != nil {
			return err
		}
		num := int(v.ToFloat64())
		if of, ok := it.files[num]; ok {
			of.f.Close()
			delete(it.files, num)
		}
	}
	return nil
}

func (it *Interp) execKill(ctx *execCtx, st *ast.KillStmt) error {
	v, err := it.Eval(ctx, st.Path)
	if err != nil {
		return err
	}
	if err := os.Remove(v.AsString()); err != nil {
		return common.New(common.ErrFileNotFound, st.Pos(), "file not found: %s", v.AsString())
	}
	return nil
}

func (it *Interp) execRename(ctx *execCtx, st *ast.NameStmt) error {
	oldV, err := it.Eval(ctx, st.OldPath)
	if err != nil {
		return err
	}
	newV, err := it.Eval(ctx, st.NewPath)
	if err != nil {
		return err
	}
	if err := os.Rename(oldV.AsString(), newV.AsString()); err != nil {
		return common.New(common.ErrFileNotFound, st.Pos(), "file not found: %s", oldV.AsString())
	}
	return nil
}

// execInput implements INPUT/LINE INPUT, from the console or a file:
// read a line, then either assign it whole (LINE INPUT) or split it on
// unquoted commas and assign one field per variable (INPUT).
func (it *Interp) execInput(ctx *execCtx, st *ast.InputStmt) error {
	if st.FileNum != nil {
		return it.execFileInput(ctx, st)
	}
	return it.execConsoleInput(ctx, st)
}

func (it *Interp) execConsoleInput(ctx *execCtx, st *ast.InputStmt) error {
	prompt := st.Prompt
	if st.PromptQuest {
		prompt += "? "
	}
	if prompt != "" {
		io.WriteString(it.Out, prompt)
	}
	if it.inReader == nil {
		it.inReader = bufio.NewReader(it.In)
	}
	line, err := readLine(it.inReader)
	if err != nil {
		return common.New(common.ErrBadFileNameOrNumber, st.Pos(), "input past end")
	}
	return it.assignInputFields(ctx, st.Vars, line, st.LineMode)
}

func (it *Interp) execFileInput(ctx *execCtx, st *ast.InputStmt) error {
	numV, err := it.Eval(ctx, st.FileNum)
	if err != nil {
		return err
	}
	num := int(numV.ToFloat64())
	of, ok := it.files[num]
	if !ok || of.reader == nil {
		return common.New(common.ErrBadFileNameOrNumber, st.Pos(), "bad file number")
	}
	line, err := readLine(of.reader)
	if err != nil {
		return common.New(common.ErrBadFileNameOrNumber, st.Pos(), "input past end of file")
	}
	return it.assignInputFields(ctx, st.Vars, line, st.LineMode)
}

func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	line = strings.TrimRight(line, "\r\n")
	if err != nil && line == "" {
		return "", err
	}
	return line, nil
}

func (it *Interp) assignInputFields(ctx *execCtx, vars []ast.Expression, line string, lineMode bool) error {
	if lineMode {
		cell, err := it.lvalueCell(ctx, vars[0])
		if err != nil {
			return err
		}
		*cell = common.Str(line)
		return nil
	}
	fields := splitInputFields(line)
	for i, ve := range vars {
		cell, err := it.lvalueCell(ctx, ve)
		if err != nil {
			return err
		}
		var raw string
		if i < len(fields) {
			raw = strings.TrimSpace(fields[i])
		}
		if cell.Kind() == common.KindString {
			*cell = common.Str(unquoteField(raw))
			continue
		}
		f, _ := strconv.ParseFloat(raw, 64)
		*cell = coerceAssign(*cell, common.Double(f))
	}
	return nil
}

func unquoteField(raw string) string {
	if len(raw) >= 2 && raw[0] == '"' && raw[len(raw)-1] == '"' {
		return raw[1 : len(raw)-1]
	}
	return raw
}

// splitInputFields splits one INPUT line on commas, except commas
// inside a double-quoted field (QBasic lets a quoted string field carry
// its own commas).
func splitInputFields(line string) []string {
	var fields []string
	var cur strings.Builder
	inQuotes := false
	for _, r := range line {
		switch {
		case r == '"':
			inQuotes = !inQuotes
			cur.WriteRune(r)
		case r == ',' && !inQuotes:
			fields = append(fields, cur.String())
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	fields = append(fields, cur.String())
	return fields
}

func biEof(it *Interp, pos common.Position, args []common.Variant) (common.Variant, error) {
	of, err := it.openFileFor(pos, args)
	if err != nil {
		return common.Variant{}, err
	}
	if of.reader == nil {
		return common.Integer(boolToInt16(true)), nil
	}
	_, err = of.reader.Peek(1)
	return common.Integer(boolToInt16(err == io.EOF)), nil
}

func biLof(it *Interp, pos common.Position, args []common.Variant) (common.Variant, error) {
	of, err := it.openFileFor(pos, args)
	if err != nil {
		return common.Variant{}, err
	}
	info, err := of.f.Stat()
	if err != nil {
		return common.Variant{}, common.New(common.ErrBadFileNameOrNumber, pos, "bad file number")
	}
	return common.Long(int32(info.Size())), nil
}

func (it *Interp) openFileFor(pos common.Position, args []common.Variant) (*openFile, error) {
	num := int(args[0].ToFloat64())
	of, ok := it.files[num]
	if !ok {
		return nil, common.New(common.ErrBadFileNameOrNumber, pos, "bad file number")
	}
	return of, nil
}

func boolToInt16(b bool) int16 {
	if b {
		return -1 // QBasic's TRUE
	}
	return 0
}
