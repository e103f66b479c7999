package cmd

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/ngeor/go-basic/internal/ast"
)

// stringerOrNil renders v via its String method when it implements
// fmt.Stringer (common.Name, common.Variant, common.Position, ...),
// so leaf value types print their contents instead of an empty struct
// dump of their unexported fields.
func stringerOrNil(v any) (string, bool) {
	if s, ok := v.(fmt.Stringer); ok {
		return s.String(), true
	}
	return "", false
}

// dumpAST prints node as an indented tree via reflection: the untyped
// AST has far more node kinds than a hand-written switch could
// comfortably enumerate, so every exported field of every ast.Node is
// walked generically instead.
func dumpAST(node any, indent int, w *strings.Builder) {
	pad := strings.Repeat("  ", indent)

	v := reflect.ValueOf(node)
	if !v.IsValid() || (v.Kind() == reflect.Ptr && v.IsNil()) {
		return
	}
	for v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return
		}
		v = v.Elem()
	}

	if s, ok := stringerOrNil(v.Interface()); ok {
		fmt.Fprintf(w, "%s%s\n", pad, s)
		return
	}

	switch v.Kind() {
	case reflect.Slice:
		for i := 0; i < v.Len(); i++ {
			dumpAST(v.Index(i).Interface(), indent, w)
		}
		return
	case reflect.Struct:
		name := v.Type().Name()
		fmt.Fprintf(w, "%s%s\n", pad, name)
		for i := 0; i < v.NumField(); i++ {
			field := v.Type().Field(i)
			if !field.IsExported() {
				continue
			}
			fv := v.Field(i)
			dumpField(field.Name, fv, indent+1, w)
		}
	default:
		fmt.Fprintf(w, "%s%v\n", pad, v.Interface())
	}
}

func dumpField(name string, fv reflect.Value, indent int, w *strings.Builder) {
	pad := strings.Repeat("  ", indent)

	switch fv.Kind() {
	case reflect.Ptr, reflect.Interface:
		if fv.IsNil() {
			return
		}
		fmt.Fprintf(w, "%s%s:\n", pad, name)
		dumpAST(fv.Interface(), indent+1, w)
	case reflect.Slice:
		if fv.Len() == 0 {
			return
		}
		fmt.Fprintf(w, "%s%s: (%d)\n", pad, name, fv.Len())
		for i := 0; i < fv.Len(); i++ {
			dumpAST(fv.Index(i).Interface(), indent+1, w)
		}
	case reflect.Struct:
		if s, ok := stringerOrNil(fv.Interface()); ok {
			fmt.Fprintf(w, "%s%s: %s\n", pad, name, s)
			return
		}
		fmt.Fprintf(w, "%s%s:\n", pad, name)
		dumpAST(fv.Interface(), indent+1, w)
	default:
		fmt.Fprintf(w, "%s%s: %v\n", pad, name, fv.Interface())
	}
}

// dumpProgram renders a whole ast.Program as an indented tree, one
// top-level section per declaration list.
func dumpProgram(prog *ast.Program) string {
	var sb strings.Builder
	sb.WriteString("Program\n")
	sections := []struct {
		name string
		v    any
	}{
		{"Types", prog.Types},
		{"Declares", prog.Declares},
		{"Globals", prog.Globals},
		{"Subs", prog.Subs},
		{"Functions", prog.Functions},
	}
	for _, s := range sections {
		rv := reflect.ValueOf(s.v)
		if rv.Len() == 0 {
			continue
		}
		fmt.Fprintf(&sb, "  %s: (%d)\n", s.name, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			dumpAST(rv.Index(i).Interface(), 2, &sb)
		}
	}
	return sb.String()
}
