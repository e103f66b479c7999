// Package diag formats QErrors for terminal output: a plain
// "error at row:col: message" line by default, or (when color is
// requested) a decorated form with a source-line-and-caret display and
// ANSI styling.
package diag

import (
	"fmt"
	"strings"

	"github.com/ngeor/go-basic/internal/common"
)

// Report pairs one QError with the source it was raised against, so it
// can render its own context line without the caller threading source
// text through every error path.
type Report struct {
	Err    *common.QError
	Source string
	File   string
}

// NewReport builds a Report for err against source, read from file (file
// may be empty for stdin/REPL input).
func NewReport(err *common.QError, source, file string) *Report {
	return &Report{Err: err, Source: source, File: file}
}

// Format renders the report. With color false, it is the plain
// "error at row:col: message" line the CLI contract names. With color
// true, it adds a gutter-and-caret source excerpt and ANSI styling,
// the decorated form offered via --color.
func (r *Report) Format(color bool) string {
	if !color {
		return fmt.Sprintf("error at %d:%d: %s\n", r.Err.Pos.Row, r.Err.Pos.Col, r.Err.Message)
	}

	var sb strings.Builder

	if r.File != "" {
		fmt.Fprintf(&sb, "%s:%d:%d: ", r.File, r.Err.Pos.Row, r.Err.Pos.Col)
	} else {
		fmt.Fprintf(&sb, "line %d:%d: ", r.Err.Pos.Row, r.Err.Pos.Col)
	}
	sb.WriteString("\033[1;31m")
	sb.WriteString(r.Err.Kind.String())
	sb.WriteString("\033[0m")
	sb.WriteString(": ")
	sb.WriteString(r.Err.Message)
	sb.WriteString("\n")

	if line := sourceLine(r.Source, r.Err.Pos.Row); line != "" {
		gutter := fmt.Sprintf("%4d | ", r.Err.Pos.Row)
		sb.WriteString(gutter)
		sb.WriteString(line)
		sb.WriteString("\n")

		sb.WriteString(strings.Repeat(" ", len(gutter)+caretOffset(r.Err.Pos.Col)))
		sb.WriteString("\033[1;31m^\033[0m\n")
	}

	return sb.String()
}

// caretOffset converts a 1-based column into the number of leading spaces
// needed before the caret; a column of 0 (position unknown) aligns under
// the first character rather than going negative.
func caretOffset(col int) int {
	if col < 1 {
		return 0
	}
	return col - 1
}

func sourceLine(source string, row int) string {
	if source == "" || row < 1 {
		return ""
	}
	lines := strings.Split(source, "\n")
	if row > len(lines) {
		return ""
	}
	return lines[row-1]
}

// FormatAll renders every error in errs against the same source/file. In
// plain mode each is its own "error at row:col: message" line; in color
// mode they're separated by a blank line and prefixed with a count when
// there is more than one.
func FormatAll(errs []*common.QError, source, file string, color bool) string {
	if len(errs) == 0 {
		return ""
	}
	if !color {
		var sb strings.Builder
		for _, e := range errs {
			sb.WriteString(NewReport(e, source, file).Format(false))
		}
		return sb.String()
	}
	if len(errs) == 1 {
		return NewReport(errs[0], source, file).Format(true)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d errors:\n\n", len(errs))
	for i, e := range errs {
		sb.WriteString(NewReport(e, source, file).Format(true))
		if i < len(errs)-1 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}
