package common

import "fmt"

// TypeKind tags the shape of a resolved expression type.
type TypeKind int

const (
	// TypeUnresolved marks a pre-lint expression whose type has not yet
	// been computed.
	TypeUnresolved TypeKind = iota
	// TypeQualifier is one of the five built-in scalar types.
	TypeQualifier
	// TypeFixedString is a fixed-length string of Length in [1, 32767].
	TypeFixedString
	// TypeUserDefined names a TYPE ... END TYPE record.
	TypeUserDefined
	// TypeArray is an array of Elem's type.
	TypeArray
)

// Type is the resolved type of an expression, a variable, a parameter,
// or a user-defined-type element.
type Type struct {
	Kind     TypeKind
	Qual     Qualifier // valid when Kind == TypeQualifier or TypeFixedString (element qualifier for by-ref string matching)
	Length   int       // valid when Kind == TypeFixedString
	TypeName Name      // valid when Kind == TypeUserDefined
	Elem     *Type     // valid when Kind == TypeArray
}

// Unresolved is the zero-ish sentinel type assigned before linting.
var Unresolved = Type{Kind: TypeUnresolved}

// QualType builds a built-in scalar type.
func QualType(q Qualifier) Type {
	return Type{Kind: TypeQualifier, Qual: q}
}

// FixedStringType builds a fixed-length string type.
func FixedStringType(length int) Type {
	return Type{Kind: TypeFixedString, Qual: QualString, Length: length}
}

// UserType builds a reference to a named user-defined type.
func UserType(name Name) Type {
	return Type{Kind: TypeUserDefined, TypeName: name}
}

// ArrayType builds an array-of-elem type.
func ArrayType(elem Type) Type {
	return Type{Kind: TypeArray, Elem: &elem}
}

// IsString reports whether t is string-compatible (string or
// fixed-length string).
func (t Type) IsString() bool {
	return (t.Kind == TypeQualifier && t.Qual == QualString) || t.Kind == TypeFixedString
}

// IsNumeric reports whether t is one of the four numeric scalar types.
func (t Type) IsNumeric() bool {
	return t.Kind == TypeQualifier && t.Qual.IsNumeric()
}

// String renders the type for diagnostics.
func (t Type) String() string {
	switch t.Kind {
	case TypeUnresolved:
		return "<unresolved>"
	case TypeQualifier:
		return qualifierTypeName(t.Qual)
	case TypeFixedString:
		return fmt.Sprintf("STRING*%d", t.Length)
	case TypeUserDefined:
		return t.TypeName.String()
	case TypeArray:
		return t.Elem.String() + "()"
	default:
		return "?"
	}
}

func qualifierTypeName(q Qualifier) string {
	switch q {
	case QualSingle:
		return "SINGLE"
	case QualDouble:
		return "DOUBLE"
	case QualString:
		return "STRING"
	case QualInteger:
		return "INTEGER"
	case QualLong:
		return "LONG"
	default:
		return "VARIANT"
	}
}

// Equal reports structural type equality (used for UDT element and
// array-element comparisons; record types are invariant).
func (t Type) Equal(o Type) bool {
	if t.Kind != o.Kind {
		return false
	}
	switch t.Kind {
	case TypeQualifier:
		return t.Qual == o.Qual
	case TypeFixedString:
		return t.Length == o.Length
	case TypeUserDefined:
		return t.TypeName.Equal(o.TypeName)
	case TypeArray:
		return t.Elem.Equal(*o.Elem)
	default:
		return true
	}
}
