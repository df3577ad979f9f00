// Package literal defines the tagged-union literal value used by meta
// entries, integer/double/string expression nodes, and the builder.
package literal

import "fmt"

// Tag discriminates which field of a Value is meaningful.
type Tag int

const (
	Invalid Tag = iota
	Int
	Uint
	Bool
	String
	Symbol    // a bare identifier used as a value (e.g. a module constant)
	Reference // a reference to another named entity, resolved later
)

// Value is a tagged union over YARA's literal forms. Integers retain both
// their numeric value and original textual form so that `0x2A` round-trips
// as `0x2A`, not `42`. Strings retain both the raw bytes (which may be
// non-UTF-8, see spec.md §6) and an escaped, printable form.
type Value struct {
	Tag Tag

	IntVal  int64
	UintVal uint64
	BoolVal bool

	Raw     []byte // String: raw bytes as they appear in the source program's data
	Escaped string // String: printable/escaped form; Symbol/Reference: the name

	// Printed is the original textual form of an Int (e.g. "0x2A", "10KB").
	// Empty means render via strconv from IntVal.
	Printed string
}

// NewInt builds an integer literal that renders as strconv.FormatInt(v,10).
func NewInt(v int64) Value { return Value{Tag: Int, IntVal: v} }

// NewIntPrinted builds an integer literal preserving its original text
// (hex, or with a KB/MB size suffix).
func NewIntPrinted(v int64, printed string) Value {
	return Value{Tag: Int, IntVal: v, Printed: printed}
}

// NewBool builds a boolean literal.
func NewBool(v bool) Value { return Value{Tag: Bool, BoolVal: v} }

// NewString builds a string literal from raw bytes and its escaped form.
func NewString(raw []byte, escaped string) Value {
	return Value{Tag: String, Raw: raw, Escaped: escaped}
}

// NewSymbol builds a bare-identifier literal (used in meta/builder contexts
// where a symbolic name, not a quoted string, is the value).
func NewSymbol(name string) Value { return Value{Tag: Symbol, Escaped: name} }

// Text renders the literal the way it would appear in YARA source.
func (v Value) Text() string {
	switch v.Tag {
	case Int:
		if v.Printed != "" {
			return v.Printed
		}
		return fmt.Sprintf("%d", v.IntVal)
	case Uint:
		return fmt.Sprintf("%d", v.UintVal)
	case Bool:
		if v.BoolVal {
			return "true"
		}
		return "false"
	case String:
		return `"` + v.Escaped + `"`
	case Symbol, Reference:
		return v.Escaped
	default:
		return ""
	}
}

// Interface returns the Go-native value (string, int64, bool, ...) — the
// shape the teacher's ast.MetaEntry.Value field used (spec.md §3: meta
// values are "key→Literal").
func (v Value) Interface() any {
	switch v.Tag {
	case Int:
		return v.IntVal
	case Uint:
		return v.UintVal
	case Bool:
		return v.BoolVal
	case String:
		return string(v.Raw)
	case Symbol, Reference:
		return v.Escaped
	default:
		return nil
	}
}
