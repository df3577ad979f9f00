package ast

import "github.com/sansecio/yaraast/regexast"

// StringFlags are the string-definition modifiers (spec.md §3 "String
// definition"). Canonical print order, per spec.md §6, is
// "ascii wide nocase fullword"; the parser accepts any order.
type StringFlags struct {
	Ascii    bool
	Wide     bool
	Nocase   bool
	Fullword bool
	Private  bool
	Xor      bool
	XorLo    int
	XorHi    int // equal to XorLo when a single key, not a range, was given
	HasXorHi bool
}

// RegexModifiers are the inline suffix flags on a `/pattern/im` literal.
type RegexModifiers struct {
	CaseInsensitive bool // i
	DotMatchesAll   bool // s
}

// StringValue is implemented by the three string-definition payload kinds.
type StringValue interface {
	stringValue()
}

// PlainString is a quoted text string definition.
type PlainString struct {
	Raw     []byte
	Escaped string
}

func (PlainString) stringValue() {}

// HexStringValue is a `{ ... }` hex string definition.
type HexStringValue struct {
	Tokens []HexToken
}

func (HexStringValue) stringValue() {}

// RegexStringValue is a `/pattern/` string definition.
type RegexStringValue struct {
	Pattern   regexast.Node
	Source    string
	Modifiers RegexModifiers
}

func (RegexStringValue) stringValue() {}

// HexToken is implemented by every hex-string component.
type HexToken interface {
	hexToken()
}

// HexByte is a literal byte, optionally with one nibble wildcarded
// (spec.md's hex grammar permits `4?` / `?4` alongside full bytes).
type HexByte struct {
	Hi, Lo     byte // 0-15; meaningful only when the matching Wild flag is false
	WildHi     bool
	WildLo     bool
}

func (HexByte) hexToken() {}

// HexWildcard is `??`.
type HexWildcard struct{}

func (HexWildcard) hexToken() {}

// HexJump is `[n-m]`, `[n]`, `[n-]`, `[-m]`, or `[-]`.
type HexJump struct {
	Min *int
	Max *int
}

func (HexJump) hexToken() {}

// HexAlt is `(a|b|c)` where each alternative is itself a short run of hex
// tokens (bytes/wildcards), matching real YARA's grammar more closely than
// a flat byte-or-wildcard list.
type HexAlt struct {
	Alternatives [][]HexToken
}

func (HexAlt) hexToken() {}

// StringDef is one `strings:` section entry (spec.md §3).
type StringDef struct {
	Span
	Name  string // "$foo", or "$" for anonymous
	Value StringValue
	Flags StringFlags
}

// MetaEntry is one `meta:` section entry: a key and its literal value.
type MetaEntry struct {
	Span
	Key   string
	Value MetaValue
}

// MetaValue is the tagged literal carried by a meta entry (spec.md §3:
// "metas (ordered list of key→Literal)").
type MetaValue struct {
	IsString bool
	IsBool   bool
	Str      string
	Int      int64
	Printed  string // original integer text, e.g. "0x10"
	Bool     bool
}
