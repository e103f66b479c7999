package common

import "fmt"

// ErrKind enumerates the QError taxonomy. Incomplete is the
// parser's soft-failure marker and must never reach a caller outside
// internal/pc and internal/parser.
type ErrKind int

const (
	ErrSyntax ErrKind = iota
	ErrDuplicateDefinition
	ErrDuplicateLabel
	ErrTypeMismatch
	ErrArgumentCountMismatch
	ErrArgumentTypeMismatch
	ErrVariableRequired
	ErrTypeNotDefined
	ErrElementNotDefined
	ErrIdentifierCannotIncludePeriod
	ErrDotClash
	ErrInvalidConstant
	ErrSubscriptOutOfRange
	ErrArrayNotDefined
	ErrOutOfStringSpace
	ErrIllegalFunctionCall
	ErrOverflow
	ErrDivisionByZero
	ErrForLoopZeroStep
	ErrNextWithoutFor
	ErrWendWithoutWhile
	ErrLoopWithoutDo
	ErrElseWithoutIf
	ErrSubprogramNotDefined
	ErrLabelNotDefined
	ErrBadFileNameOrNumber
	ErrFileNotFound
	ErrFunctionNeedsArguments
	ErrIncomplete
	ErrInternal
)

var errKindNames = map[ErrKind]string{
	ErrSyntax:                        "SyntaxError",
	ErrDuplicateDefinition:           "DuplicateDefinition",
	ErrDuplicateLabel:                "DuplicateLabel",
	ErrTypeMismatch:                  "TypeMismatch",
	ErrArgumentCountMismatch:         "ArgumentCountMismatch",
	ErrArgumentTypeMismatch:          "ArgumentTypeMismatch",
	ErrVariableRequired:              "VariableRequired",
	ErrTypeNotDefined:                "TypeNotDefined",
	ErrElementNotDefined:             "ElementNotDefined",
	ErrIdentifierCannotIncludePeriod: "IdentifierCannotIncludePeriod",
	ErrDotClash:                      "DotClash",
	ErrInvalidConstant:               "InvalidConstant",
	ErrSubscriptOutOfRange:           "SubscriptOutOfRange",
	ErrArrayNotDefined:               "ArrayNotDefined",
	ErrOutOfStringSpace:              "OutOfStringSpace",
	ErrIllegalFunctionCall:           "IllegalFunctionCall",
	ErrOverflow:                      "Overflow",
	ErrDivisionByZero:                "DivisionByZero",
	ErrForLoopZeroStep:               "ForLoopZeroStep",
	ErrNextWithoutFor:                "NextWithoutFor",
	ErrWendWithoutWhile:              "WendWithoutWhile",
	ErrLoopWithoutDo:                 "LoopWithoutDo",
	ErrElseWithoutIf:                 "ElseWithoutIf",
	ErrSubprogramNotDefined:          "SubprogramNotDefined",
	ErrLabelNotDefined:               "LabelNotDefined",
	ErrBadFileNameOrNumber:           "BadFileNameOrNumber",
	ErrFileNotFound:                  "FileNotFound",
	ErrFunctionNeedsArguments:        "FunctionNeedsArguments",
	ErrIncomplete:                    "Incomplete",
	ErrInternal:                      "InternalError",
}

// String names the error kind.
func (k ErrKind) String() string {
	if s, ok := errKindNames[k]; ok {
		return s
	}
	return "UnknownError"
}

// QError is the single error type that flows through every stage of the
// pipeline: soft parser failures, hard parser failures, lint errors, and
// runtime errors.
type QError struct {
	Kind    ErrKind
	Message string
	Pos     Position
}

func (e *QError) Error() string {
	if e.Message == "" {
		return e.Kind.String()
	}
	return e.Message
}

// New builds a QError at pos with a formatted message.
func New(kind ErrKind, pos Position, format string, args ...any) *QError {
	return &QError{Kind: kind, Pos: pos, Message: fmt.Sprintf(format, args...)}
}

// Incomplete is the shared soft-failure sentinel. Parsers compare
// against it with IsIncomplete, never with pointer identity, since
// combinators may wrap it with additional context-free copies.
var Incomplete = &QError{Kind: ErrIncomplete, Message: "incomplete"}

// IsIncomplete reports whether err is the parser's soft-failure marker.
func IsIncomplete(err error) bool {
	qe, ok := err.(*QError)
	return ok && qe.Kind == ErrIncomplete
}

// SyntaxError is a convenience constructor for the common "expected X"
// hard-failure case raised by or_fail/or_syntax_error.
func SyntaxError(pos Position, format string, args ...any) *QError {
	return New(ErrSyntax, pos, format, args...)
}
