package ast

import (
	"github.com/sansecio/yaraast/literal"
	"github.com/sansecio/yaraast/regexast"
	"github.com/sansecio/yaraast/symbols"
)

// Expr is implemented by every condition expression node (spec.md §3). The
// set is closed — exhaustive type switches over Expr are a supported,
// expected way to consume the tree (the teacher's scanner/condeval.go does
// exactly this over its smaller 10-variant set; ours does the same over the
// full ~45-variant set).
type Expr interface {
	Ranged
	exprNode()
}

// ---- literals ----

type BoolLiteral struct {
	Span
	Value bool
}

func (BoolLiteral) exprNode() {}

type IntLiteral struct {
	Span
	Value literal.Value
}

func (IntLiteral) exprNode() {}

type DoubleLiteral struct {
	Span
	Value float64
}

func (DoubleLiteral) exprNode() {}

// StringLiteral is a quoted text literal used as a condition operand, e.g.
// the right side of `pe.sections[0].name == "text"`.
type StringLiteral struct {
	Span
	Value literal.Value
}

func (StringLiteral) exprNode() {}

// ---- string references ----

// StringRef is a bare `$foo` reference.
type StringRef struct {
	Span
	Name string
}

func (StringRef) exprNode() {}

// StringWildcard is `$foo*`, valid only inside a Set/Of pattern.
type StringWildcard struct {
	Span
	Prefix string
}

func (StringWildcard) exprNode() {}

// StringAt is `$foo at <expr>`.
type StringAt struct {
	Span
	Ref StringRef
	At  Expr
}

func (StringAt) exprNode() {}

// StringInRange is `$foo in <range-expr>`.
type StringInRange struct {
	Span
	Ref   StringRef
	Range Expr
}

func (StringInRange) exprNode() {}

// StringCount is `#foo` (or `#foo[i]` for the indexed form inside a loop).
type StringCount struct {
	Span
	Name  string
	Index Expr // nil if unindexed
}

func (StringCount) exprNode() {}

// StringOffset is `@foo` or `@foo[i]`.
type StringOffset struct {
	Span
	Name  string
	Index Expr // nil if unindexed
}

func (StringOffset) exprNode() {}

// StringLength is `!foo` or `!foo[i]` — the match-length divergence named
// in spec.md §6.
type StringLength struct {
	Span
	Name  string
	Index Expr // nil if unindexed
}

func (StringLength) exprNode() {}

// ---- unary ----

// UnaryBase is embedded by every single-operand expression.
type UnaryBase struct {
	Span
	Operand Expr
}

type Not struct{ UnaryBase }

func (Not) exprNode() {}

type UnaryMinus struct{ UnaryBase }

func (UnaryMinus) exprNode() {}

type BitwiseNot struct{ UnaryBase }

func (BitwiseNot) exprNode() {}

// ---- binary ----

// BinaryBase is embedded by every two-operand expression.
type BinaryBase struct {
	Span
	Left, Right Expr
}

type And struct{ BinaryBase }

func (And) exprNode() {}

type Or struct{ BinaryBase }

func (Or) exprNode() {}

type Lt struct{ BinaryBase }

func (Lt) exprNode() {}

type Le struct{ BinaryBase }

func (Le) exprNode() {}

type Gt struct{ BinaryBase }

func (Gt) exprNode() {}

type Ge struct{ BinaryBase }

func (Ge) exprNode() {}

type Eq struct{ BinaryBase }

func (Eq) exprNode() {}

type Neq struct{ BinaryBase }

func (Neq) exprNode() {}

type Plus struct{ BinaryBase }

func (Plus) exprNode() {}

type Minus struct{ BinaryBase }

func (Minus) exprNode() {}

type Multiply struct{ BinaryBase }

func (Multiply) exprNode() {}

type Divide struct{ BinaryBase }

func (Divide) exprNode() {}

type Modulo struct{ BinaryBase }

func (Modulo) exprNode() {}

type BitwiseXor struct{ BinaryBase }

func (BitwiseXor) exprNode() {}

type BitwiseAnd struct{ BinaryBase }

func (BitwiseAnd) exprNode() {}

type BitwiseOr struct{ BinaryBase }

func (BitwiseOr) exprNode() {}

type ShiftLeft struct{ BinaryBase }

func (ShiftLeft) exprNode() {}

type ShiftRight struct{ BinaryBase }

func (ShiftRight) exprNode() {}

type Contains struct{ BinaryBase }

func (Contains) exprNode() {}

// Matches is `<expr> matches <regexp>`; Right is always a Regexp node.
type Matches struct{ BinaryBase }

func (Matches) exprNode() {}

// ---- iteration / aggregation ----

// ForInt is `for <quantifier> <var> in <iterable> : ( <body> )`.
type ForInt struct {
	Span
	Quantifier Expr
	Variable   string
	Iterable   Expr // Range, Set, or a single expression
	Body       Expr
}

func (ForInt) exprNode() {}

// ForString is `for <quantifier> of <string-set> : ( <body> )`.
type ForString struct {
	Span
	Quantifier Expr
	StringSet  Expr
	Body       Expr
}

func (ForString) exprNode() {}

// Of is `<quantifier> of <string-set>` with no body, e.g. `any of them`.
type Of struct {
	Span
	Quantifier Expr
	StringSet  Expr
}

func (Of) exprNode() {}

// Set is an explicit element list: `($a, $b, $c)` or `(1, 2, 3)`.
type Set struct {
	Span
	Elements []Expr
}

func (Set) exprNode() {}

// Range is `(<low>..<high>)`.
type Range struct {
	Span
	Low, High Expr
}

func (Range) exprNode() {}

// ---- identifier / access ----

// Id is a bare identifier referencing a previously-declared rule or an
// imported module (spec.md §4.4).
type Id struct {
	Span
	Name   string
	Symbol *symbols.Symbol // resolved by the parser; nil on a parse error recovery path and in builder-made nodes
}

func (Id) exprNode() {}

// StructAccess is `<base>.<field>`.
type StructAccess struct {
	Span
	Base   Expr
	Field  string
	Symbol *symbols.Symbol
}

func (StructAccess) exprNode() {}

// ArrayAccess is `<base>[<index>]`.
type ArrayAccess struct {
	Span
	Base  Expr
	Index Expr
}

func (ArrayAccess) exprNode() {}

// FunctionCall is `<callee>(<args...>)`.
type FunctionCall struct {
	Span
	Callee Expr
	Args   []Expr
	Symbol *symbols.Symbol
}

func (FunctionCall) exprNode() {}

// ---- keywords ----

type Filesize struct{ Span }

func (Filesize) exprNode() {}

type Entrypoint struct{ Span }

func (Entrypoint) exprNode() {}

type All struct{ Span }

func (All) exprNode() {}

type Any struct{ Span }

func (Any) exprNode() {}

type Them struct{ Span }

func (Them) exprNode() {}

// ---- group ----

// Parentheses is an explicit `( <inner> )` grouping kept distinct from its
// inner expression so formatting/round-trip preserves the parens.
type Parentheses struct {
	Span
	Inner Expr
}

func (Parentheses) exprNode() {}

// ---- other ----

// IntFunction is `int32be(<offset>)` and its siblings (int8, int16, int32,
// uint8, uint16, uint32, each with optional "be" suffix).
type IntFunction struct {
	Span
	Name   string // e.g. "int32be"
	Offset Expr
}

func (IntFunction) exprNode() {}

// Regexp is a `/pattern/flags` literal used as a condition operand (the
// right side of Matches, or standalone where YARA permits it).
type Regexp struct {
	Span
	Pattern   regexast.Node
	Modifiers RegexModifiers
	Source    string // original pattern text, pre-parse, for exact round-trip
}

func (Regexp) exprNode() {}
