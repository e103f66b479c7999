package interp

import (
	"strconv"
	"strings"

	"github.com/ngeor/go-basic/internal/common"
)

// usingField is one placeholder in a PRINT USING format string: either a
// numeric picture (#.,+-$*^) or a string picture (& ! \..\). A format
// string is parsed once per PRINT USING into a flat list of usingParts
// (literal runs and fields interleaved); rendering walks that list once
// per argument, wrapping back to the start whenever more arguments
// remain than the format had fields, matching QBasic's "format repeats
// for leftover arguments" rule.
type usingPart struct {
	literal string // set when this part is plain text, field zero-valued
	field   usingField
	isField bool
}

type usingFieldKind int

const (
	fieldNone usingFieldKind = iota
	fieldNumeric
	fieldStringAll    // &
	fieldStringFirst  // !
	fieldStringFixed  // \ ... \
)

type usingField struct {
	kind       usingFieldKind
	intDigits  int
	decDigits  int
	comma      bool
	dollar     bool // $$ floating dollar sign
	star       bool // ** asterisk fill
	leadSign   bool // leading +/- directive
	leadPlus   bool // leading sign is '+' (always shown) vs '-' (negative only)
	trailSign  bool // trailing +/- directive
	trailPlus  bool
	exponent   bool // trailing ^^^^
	fixedWidth int  // fieldStringFixed's total width
}

// parseUsingFormat splits a PRINT USING format string into literal runs
// and recognized fields. Anything that doesn't match a field shape
// (a lone '$', stray '+', ...) is copied through as literal text.
func parseUsingFormat(format string) []usingPart {
	runes := []rune(format)
	var parts []usingPart
	var lit strings.Builder
	flushLit := func() {
		if lit.Len() > 0 {
			parts = append(parts, usingPart{literal: lit.String()})
			lit.Reset()
		}
	}

	i := 0
	for i < len(runes) {
		r := runes[i]
		switch {
		case r == '_' && i+1 < len(runes): // _x literal escape
			lit.WriteRune(runes[i+1])
			i += 2
		case r == '&':
			flushLit()
			parts = append(parts, usingPart{isField: true, field: usingField{kind: fieldStringAll}})
			i++
		case r == '!':
			flushLit()
			parts = append(parts, usingPart{isField: true, field: usingField{kind: fieldStringFirst}})
			i++
		case r == '\\':
			j := i + 1
			width := 2
			for j < len(runes) && runes[j] == ' ' {
				j++
				width++
			}
			if j < len(runes) && runes[j] == '\\' {
				flushLit()
				parts = append(parts, usingPart{isField: true, field: usingField{kind: fieldStringFixed, fixedWidth: width}})
				i = j + 1
			} else {
				lit.WriteRune(r)
				i++
			}
		case isNumericFieldStart(runes, i):
			field, consumed := scanNumericField(runes, i)
			flushLit()
			parts = append(parts, usingPart{isField: true, field: field})
			i += consumed
		default:
			lit.WriteRune(r)
			i++
		}
	}
	flushLit()
	return parts
}

func isNumericFieldStart(runes []rune, i int) bool {
	if runes[i] == '#' {
		return true
	}
	if runes[i] == '$' && i+1 < len(runes) && runes[i+1] == '$' {
		return true
	}
	if runes[i] == '*' && i+1 < len(runes) && runes[i+1] == '*' {
		return true
	}
	if (runes[i] == '+' || runes[i] == '-') && i+1 < len(runes) {
		j := i + 1
		if runes[j] == '$' && j+1 < len(runes) && runes[j+1] == '$' {
			return true
		}
		if runes[j] == '*' && j+1 < len(runes) && runes[j+1] == '*' {
			return true
		}
		return runes[j] == '#'
	}
	return false
}

// scanNumericField consumes one numeric picture starting at runes[i],
// returning the field description and the number of runes consumed.
func scanNumericField(runes []rune, i int) (usingField, int) {
	var f usingField
	f.kind = fieldNumeric
	start := i

	if runes[i] == '+' || runes[i] == '-' {
		f.leadSign = true
		f.leadPlus = runes[i] == '+'
		i++
	}
	if i+1 < len(runes) && runes[i] == '$' && runes[i+1] == '$' {
		f.dollar = true
		i += 2
	} else if i+1 < len(runes) && runes[i] == '*' && runes[i+1] == '*' {
		f.star = true
		i += 2
	}
	for i < len(runes) && (runes[i] == '#' || runes[i] == ',') {
		if runes[i] == ',' {
			f.comma = true
		} else {
			f.intDigits++
		}
		i++
	}
	if i < len(runes) && runes[i] == '.' {
		i++
		for i < len(runes) && runes[i] == '#' {
			f.decDigits++
			i++
		}
	}
	if i < len(runes) && (runes[i] == '+' || runes[i] == '-') && !f.leadSign {
		f.trailSign = true
		f.trailPlus = runes[i] == '+'
		i++
	}
	if i+3 < len(runes) && runes[i] == '^' && runes[i+1] == '^' && runes[i+2] == '^' && runes[i+3] == '^' {
		f.exponent = true
		i += 4
	}
	return f, i - start
}

// formatUsing renders args through format, cycling back to the start of
// the parsed field list whenever more args remain than the format has
// fields for.
func formatUsing(format string, args []common.Variant) string {
	parts := parseUsingFormat(format)
	if !hasField(parts) {
		var b strings.Builder
		for _, p := range parts {
			b.WriteString(p.literal)
		}
		return b.String()
	}

	var b strings.Builder
	argIdx := 0
	for argIdx < len(args) {
		progressed := false
		for _, p := range parts {
			if !p.isField {
				b.WriteString(p.literal)
				continue
			}
			if argIdx >= len(args) {
				break
			}
			b.WriteString(renderUsingField(p.field, args[argIdx]))
			argIdx++
			progressed = true
		}
		if !progressed {
			break
		}
	}
	return b.String()
}

func hasField(parts []usingPart) bool {
	for _, p := range parts {
		if p.isField {
			return true
		}
	}
	return false
}

func renderUsingField(f usingField, v common.Variant) string {
	switch f.kind {
	case fieldStringAll:
		return v.AsString()
	case fieldStringFirst:
		s := v.AsString()
		if s == "" {
			return ""
		}
		return s[:1]
	case fieldStringFixed:
		s := v.AsString()
		if len(s) > f.fixedWidth {
			return s[:f.fixedWidth]
		}
		return s + strings.Repeat(" ", f.fixedWidth-len(s))
	case fieldNumeric:
		return renderUsingNumber(f, v.ToFloat64())
	default:
		return ""
	}
}

func renderUsingNumber(f usingField, value float64) string {
	neg := value < 0
	abs := value
	if neg {
		abs = -abs
	}

	if f.exponent {
		return renderUsingExponent(f, value)
	}

	decDigits := f.decDigits
	intPart := strconv.FormatFloat(abs, 'f', decDigits, 64)
	var intStr, fracStr string
	if decDigits > 0 {
		dot := strings.IndexByte(intPart, '.')
		intStr, fracStr = intPart[:dot], intPart[dot+1:]
	} else {
		intStr = intPart
	}

	if f.comma {
		intStr = groupThousands(intStr)
	}

	body := intStr
	if decDigits > 0 {
		body += "." + fracStr
	}

	prefix, suffix := "", ""
	if f.leadSign {
		if neg {
			prefix = "-"
		} else if f.leadPlus {
			prefix = "+"
		} else {
			prefix = " "
		}
	}
	if f.trailSign {
		if neg {
			suffix = "-"
		} else if f.trailPlus {
			suffix = "+"
		} else {
			suffix = " "
		}
	}
	if f.dollar {
		prefix += "$"
	}

	width := f.intDigits
	if f.comma {
		width += (f.intDigits - 1) / 3
	}
	pad := width - len(intStr)
	fill := " "
	if f.star {
		fill = "*"
	}
	if pad > 0 {
		body = strings.Repeat(fill, pad) + body
	} else if pad < 0 {
		// overflow: QBasic prefixes with % and shows the full number.
		return "%" + prefix + body + suffix
	}

	return prefix + body + suffix
}

// renderUsingExponent renders a ^^^^ field as QBasic's "D.DDDE+nn"
// scientific form: one leading digit, f.decDigits mantissa digits, a
// signed two-digit exponent.
func renderUsingExponent(f usingField, value float64) string {
	neg := value < 0
	mantissa := strconv.FormatFloat(value, 'e', f.decDigits, 64)
	// Go renders as "d.ddde±dd"; reshape the exponent to QBasic's
	// "E+dd"/"E-dd", at least two digits, no leading zero trimming.
	eIdx := strings.IndexByte(mantissa, 'e')
	digits, expPart := mantissa[:eIdx], mantissa[eIdx+1:]
	digits = strings.TrimPrefix(digits, "-")
	sign := "+"
	if expPart[0] == '-' {
		sign = "-"
	}
	exp := strings.TrimLeft(expPart[1:], "0")
	if exp == "" {
		exp = "0"
	}
	if len(exp) < 2 {
		exp = "0" + exp
	}
	prefix := ""
	if f.leadSign {
		if neg {
			prefix = "-"
		} else if f.leadPlus {
			prefix = "+"
		} else {
			prefix = " "
		}
	} else if neg {
		prefix = "-"
	}
	return prefix + digits + "E" + sign + exp
}

func groupThousands(digits string) string {
	n := len(digits)
	if n <= 3 {
		return digits
	}
	var b strings.Builder
	first := n % 3
	if first == 0 {
		first = 3
	}
	b.WriteString(digits[:first])
	for i := first; i < n; i += 3 {
		b.WriteByte(',')
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
