// Package interp executes a linted, lowered program (component G):
// expressions are evaluated by walking the typed AST directly (there is
// no benefit to re-expressing arithmetic as IR), while control flow
// replays the internal/ir.Unit instruction stream the way a real
// machine would, jumping between addressable instructions instead of
// recursing through Go call frames for every GOTO/GOSUB target.
package interp

import (
	"github.com/ngeor/go-basic/internal/ast"
	"github.com/ngeor/go-basic/internal/common"
)

// Frame is one call frame's variable storage: the top-level program and
// every SUB/FUNCTION invocation each get their own, since BASIC has no
// nested lexical scoping beyond "global vs. this procedure's locals"
// (see Interp.frameForCompact/frameForExtended for how a reference picks
// which frame it actually lives in). Variables are stored behind a
// pointer so that binding a SUB/FUNCTION's by-reference parameter is
// just copying the pointer.
type Frame struct {
	Compact  map[string]map[common.Qualifier]*common.Variant
	Extended map[string]*common.Variant
	// Gosub is the return-address stack pushed by OpGosub and popped by
	// a bare RETURN.
	Gosub []int
	// ErrorHandler is the active ON ERROR GOTO label's instruction
	// address, or -1 if none is installed.
	ErrorHandler int
	// ResumeAt is the address of the statement that raised the most
	// recently trapped error, used by RESUME/RESUME NEXT.
	ResumeAt int
}

// NewFrame creates an empty frame with no active error handler.
func NewFrame() *Frame {
	return &Frame{
		Compact:      map[string]map[common.Qualifier]*common.Variant{},
		Extended:     map[string]*common.Variant{},
		ErrorHandler: -1,
	}
}

// getOrCreateCompact returns the addressable storage slot for a compact
// variable, calling create to build its zero value on first use.
func (f *Frame) getOrCreateCompact(name common.Name, q common.Qualifier, create func() common.Variant) *common.Variant {
	byQual, ok := f.Compact[name.Key()]
	if !ok {
		byQual = map[common.Qualifier]*common.Variant{}
		f.Compact[name.Key()] = byQual
	}
	cell, ok := byQual[q]
	if !ok {
		v := create()
		cell = &v
		byQual[q] = cell
	}
	return cell
}

// getOrCreateExtended returns the addressable storage slot for an
// extended (or implicit) variable, calling create to build its zero
// value on first use.
func (f *Frame) getOrCreateExtended(name common.Name, create func() common.Variant) *common.Variant {
	cell, ok := f.Extended[name.Key()]
	if !ok {
		v := create()
		cell = &v
		f.Extended[name.Key()] = cell
	}
	return cell
}

// fieldCell drills into a record Variant to reach one named field's
// storage, used by PropertyExpr assignment/read.
func fieldCell(rec *common.Variant, member common.Name) *common.Variant {
	rv := rec.AsRecord()
	for i := range rv.Fields {
		if rv.Fields[i].Name.Equal(member) {
			return &rv.Fields[i].Value
		}
	}
	panic("interp: unresolved record field " + member.String())
}

// newRecordValue zero-initializes a record instance for a UDT, in field
// declaration order.
func newRecordValue(name common.Name, elements []*ast.UDTElement) *common.RecordValue {
	rv := &common.RecordValue{TypeName: name}
	for _, el := range elements {
		rv.Fields = append(rv.Fields, common.RecordField{Name: el.Name, Value: zeroValueFor(el.Type, nil)})
	}
	return rv
}

// zeroValueFor builds a type's default value, extending common.ZeroOf
// with the two shapes it can't build without outside help: a record
// (needs the UDT's field list, fetched via udtElements when non-nil) and
// an array (an empty shell with no bounds yet, filled in by DIM/REDIM).
func zeroValueFor(t common.Type, udtElements func(common.Name) []*ast.UDTElement) common.Variant {
	switch t.Kind {
	case common.TypeUserDefined:
		var elems []*ast.UDTElement
		if udtElements != nil {
			elems = udtElements(t.TypeName)
		}
		return common.Record(newRecordValue(t.TypeName, elems))
	case common.TypeArray:
		return common.Array(&common.ArrayValue{ElemType: *t.Elem})
	default:
		return common.ZeroOf(t)
	}
}
