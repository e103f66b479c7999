// Package builtin is the shared name table for BASIC's built-in
// functions: both the linter (to tell a built-in call apart from an
// array index or a user function) and the interpreter (to dispatch the
// call) need the same answer to "is this name a built-in", so it lives
// here rather than being duplicated or creating a semantic→interp
// dependency.
package builtin

import "github.com/ngeor/go-basic/internal/common"

// Category groups built-ins the way QBasic's documentation lists them.
type Category string

const (
	CategoryMath       Category = "math"
	CategoryString     Category = "string"
	CategoryConversion Category = "conversion"
	CategoryArray      Category = "array"
	CategoryEnvironment Category = "environment"
	CategoryFile       Category = "file"
	CategoryMemory     Category = "memory"
	CategorySystem     Category = "system"
)

// functions maps the canonical (upper-cased, qualifier-stripped) name to
// its category. The grammar splits a trailing `$`/`%`/etc. qualifier
// suffix off the identifier before building a common.Name (see
// parser.splitQualifier), so "LEFT$" is looked up here as "LEFT" with a
// separate QualString on the call node; this table only answers "is
// this name a built-in", not "which qualifier form was used". Only the
// name/category is a linting concern. Neither this table nor the linter
// checks argument counts; the interpreter's built-ins (internal/interp)
// branch on len(args) where a built-in has optional arguments (e.g.
// MID's 2 vs 3 argument forms).
var functions = map[string]Category{
	"ABS": CategoryMath, "SGN": CategoryMath, "INT": CategoryMath,
	"FIX": CategoryMath, "SQR": CategoryMath, "SIN": CategoryMath,
	"COS": CategoryMath, "TAN": CategoryMath, "ATN": CategoryMath,
	"EXP": CategoryMath, "LOG": CategoryMath, "RND": CategoryMath,

	"LEN": CategoryString, "LEFT": CategoryString, "RIGHT": CategoryString,
	"MID": CategoryString, "INSTR": CategoryString, "UCASE": CategoryString,
	"LCASE": CategoryString, "LTRIM": CategoryString, "RTRIM": CategoryString,
	"SPACE": CategoryString, "STRING": CategoryString, "CHR": CategoryString,
	"ASC": CategoryString, "STR": CategoryString, "VAL": CategoryString,

	"CVD": CategoryConversion, "CVS": CategoryConversion, "CVI": CategoryConversion,
	"CVL": CategoryConversion, "MKD": CategoryConversion, "MKS": CategoryConversion,
	"MKI": CategoryConversion, "MKL": CategoryConversion,

	"LBOUND": CategoryArray, "UBOUND": CategoryArray,

	"ENVIRON": CategoryEnvironment, "COMMAND": CategoryEnvironment,

	"EOF": CategoryFile, "LOF": CategoryFile,

	"VARSEG": CategoryMemory, "VARPTR": CategoryMemory, "PEEK": CategoryMemory,

	"TIMER": CategorySystem,
}

// statements is the (much shorter) set of built-in names that are
// statements, not functions — they share the identifier namespace for
// the linter's "is this name taken" checks but are parsed and dispatched
// differently (CategorySystem covers the ENVIRON, KILL, NAME, OPEN,
// CLOSE, BEEP, CLS, COLOR, LOCATE and POKE entries below; SYSTEM is a
// keyword handled by the parser, not by this table).
var statements = map[string]Category{
	"ENVIRON": CategorySystem, "KILL": CategorySystem, "NAME": CategorySystem,
	"OPEN": CategorySystem, "CLOSE": CategorySystem, "BEEP": CategorySystem,
	"CLS": CategorySystem, "COLOR": CategorySystem, "LOCATE": CategorySystem,
	"POKE": CategorySystem,
}

// IsFunction reports whether name (any case) is a built-in function.
func IsFunction(name common.Name) bool {
	_, ok := functions[name.Key()]
	return ok
}

// IsStatement reports whether name (any case) is a built-in statement.
func IsStatement(name common.Name) bool {
	_, ok := statements[name.Key()]
	return ok
}
