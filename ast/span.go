// Package ast defines the typed abstract syntax tree for a YARA file: the
// Expression sum type (condition.go), string/hex/regex definitions
// (strings.go), and the Rule/YaraFile containers (file.go).
package ast

import "github.com/sansecio/yaraast/token"

// Span is the (first, last) token handle pair every syntactic AST node
// carries, delimiting its textual extent in the owning Stream (spec.md §3
// invariant: "Every AST node that carries syntactic identity holds a pair
// of handles... delimiting its textual extent").
type Span struct {
	First, Last token.Handle
}

// Range implements the Ranged interface.
func (s Span) Range() Span { return s }

// Ranged is implemented by every node that carries a token Span: every
// Expr, plus Rule, StringDef, MetaEntry.
type Ranged interface {
	Range() Span
}

// Text renders the exact source text of a span by concatenating token text
// in the given stream.
func (s Span) Text(stream *token.Stream) string {
	return stream.RangeText(s.First, s.Last)
}
