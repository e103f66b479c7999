package common

import (
	"fmt"
	"math"
)

// Kind tags the payload actually stored in a Variant.
type Kind int

const (
	KindInteger Kind = iota // 16-bit signed
	KindLong                // 32-bit signed
	KindSingle
	KindDouble
	KindString
	KindRecord
	KindArray
)

// FloatTolerance is the absolute tolerance QBasic uses when comparing
// floating point values.
const FloatTolerance = 1e-5

// Variant is the tagged runtime value every BASIC expression evaluates
// to. Exactly one of the payload fields is meaningful, selected by Kind.
type Variant struct {
	kind   Kind
	i16    int16
	i32    int32
	f32    float32
	f64    float64
	str    string
	record *RecordValue
	array  *ArrayValue
}

// RecordField is one named slot of a record value, kept in declaration
// order so whole-record iteration and copying are order-stable.
type RecordField struct {
	Name  Name
	Value Variant
}

// RecordValue is a runtime instance of a user-defined type.
type RecordValue struct {
	TypeName Name
	Fields   []RecordField
}

// ArrayValue is a runtime array: a flattened, row-major element slice
// plus the per-dimension bounds recorded at DIM/REDIM time. A
// zero-dimension array is a scalar-carrying container (used for a
// freshly-declared array before its bounds are known).
type ArrayValue struct {
	ElemType Type
	Dims     []Dimension
	Elements []Variant
}

// Dimension is one array axis's inclusive [Lower, Upper] bound range.
type Dimension struct {
	Lower int32
	Upper int32
}

// Len returns the number of elements spanned by a dimension.
func (d Dimension) Len() int {
	if d.Upper < d.Lower {
		return 0
	}
	return int(d.Upper-d.Lower) + 1
}

func Integer(v int16) Variant { return Variant{kind: KindInteger, i16: v} }
func Long(v int32) Variant    { return Variant{kind: KindLong, i32: v} }
func Single(v float32) Variant { return Variant{kind: KindSingle, f32: v} }
func Double(v float64) Variant { return Variant{kind: KindDouble, f64: v} }
func Str(v string) Variant    { return Variant{kind: KindString, str: v} }

func Record(v *RecordValue) Variant { return Variant{kind: KindRecord, record: v} }
func Array(v *ArrayValue) Variant   { return Variant{kind: KindArray, array: v} }

// Kind exposes the runtime tag.
func (v Variant) Kind() Kind { return v.kind }

func (v Variant) AsInteger() int16      { return v.i16 }
func (v Variant) AsLong() int32         { return v.i32 }
func (v Variant) AsSingle() float32     { return v.f32 }
func (v Variant) AsDouble() float64     { return v.f64 }
func (v Variant) AsString() string      { return v.str }
func (v Variant) AsRecord() *RecordValue { return v.record }
func (v Variant) AsArray() *ArrayValue   { return v.array }

// Qualifier returns the built-in qualifier that corresponds to v's kind.
// Panics if v holds a record or array, which has no scalar qualifier.
func (v Variant) Qualifier() Qualifier {
	switch v.kind {
	case KindInteger:
		return QualInteger
	case KindLong:
		return QualLong
	case KindSingle:
		return QualSingle
	case KindDouble:
		return QualDouble
	case KindString:
		return QualString
	default:
		panic("common: Qualifier() on non-scalar Variant")
	}
}

// ToFloat64 widens any numeric Variant to float64 for comparisons and
// arithmetic that needs the common representation.
func (v Variant) ToFloat64() float64 {
	switch v.kind {
	case KindInteger:
		return float64(v.i16)
	case KindLong:
		return float64(v.i32)
	case KindSingle:
		return float64(v.f32)
	case KindDouble:
		return v.f64
	default:
		panic("common: ToFloat64() on non-numeric Variant")
	}
}

// String renders the value the way PRINT would, sans print-zone padding.
func (v Variant) String() string {
	switch v.kind {
	case KindInteger:
		if v.i16 >= 0 {
			return fmt.Sprintf(" %d", v.i16)
		}
		return fmt.Sprintf("%d", v.i16)
	case KindLong:
		if v.i32 >= 0 {
			return fmt.Sprintf(" %d", v.i32)
		}
		return fmt.Sprintf("%d", v.i32)
	case KindSingle:
		return formatFloat(float64(v.f32), 7)
	case KindDouble:
		return formatFloat(v.f64, 16)
	case KindString:
		return v.str
	case KindRecord:
		return v.record.TypeName.String() + "{...}"
	case KindArray:
		return "Array()"
	default:
		return "?"
	}
}

// formatFloat mimics QBasic's default numeric-to-string conversion:
// Go's %g with prec significant digits (7 for SINGLE, 16 for DOUBLE),
// with a leading space for non-negative values (the same leading-space
// convention PRINT uses for numbers).
func formatFloat(f float64, prec int) string {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return fmt.Sprintf("%v", f)
	}
	s := trimFloat(f, prec)
	if f >= 0 {
		return " " + s
	}
	return s
}

func trimFloat(f float64, prec int) string {
	s := fmt.Sprintf("%.*g", prec, f)
	return s
}

// ZeroOf returns the default value for a resolved type: 0 for numerics,
// "" for strings, and Length NUL bytes for fixed-length strings. Any
// other type (user-defined, array) also yields "": building a record or
// an array shell needs type information this package does not have.
func ZeroOf(t Type) Variant {
	switch t.Kind {
	case TypeQualifier:
		switch t.Qual {
		case QualInteger:
			return Integer(0)
		case QualLong:
			return Long(0)
		case QualSingle:
			return Single(0)
		case QualDouble:
			return Double(0)
		case QualString:
			return Str("")
		}
	case TypeFixedString:
		return Str(string(make([]byte, t.Length)))
	}
	return Str("")
}
