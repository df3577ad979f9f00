// Package builder implements the fluent construction API for assembling
// ast.Expr trees and ast.Rule/ast.YaraFile values programmatically
// (spec.md §4.7), rather than by parsing source text. Every constructor
// emits real tokens into the Builder's own scratch token.Stream so the
// result renders exact YARA source immediately, with no separate
// pretty-printing step required before a round-trip.
package builder

import (
	"fmt"
	"strconv"

	"github.com/sansecio/yaraast/ast"
	"github.com/sansecio/yaraast/internal/collect"
	"github.com/sansecio/yaraast/literal"
	"github.com/sansecio/yaraast/token"
)

// Builder accumulates tokens for one or more expressions/rules under
// construction. Call Into to graft a finished Span into a destination
// file's Stream once the destination rule's body is being assembled.
type Builder struct {
	stream *token.Stream
}

// New creates an empty Builder.
func New() *Builder {
	return &Builder{stream: token.New()}
}

// Stream exposes the Builder's scratch stream, mainly so Into can splice
// from it.
func (b *Builder) Stream() *token.Stream { return b.stream }

func (b *Builder) emit(kind token.Kind, text string) token.Handle {
	return b.stream.Append(token.Token{Kind: kind, Text: text})
}

func (b *Builder) punct(kind token.Kind, text string) token.Handle {
	return b.emit(kind, text)
}

func (b *Builder) space() { b.emit(token.WHITESPACE, " ") }

func spanOf(first, last token.Handle) ast.Span { return ast.Span{First: first, Last: last} }

// Bool builds a `true`/`false` literal.
func (b *Builder) Bool(v bool) ast.Expr {
	text := "false"
	if v {
		text = "true"
	}
	kind := token.FALSE
	if v {
		kind = token.TRUE
	}
	h := b.emit(kind, text)
	return ast.BoolLiteral{Span: spanOf(h, h), Value: v}
}

// Int builds a decimal integer literal.
func (b *Builder) Int(v int64) ast.Expr {
	h := b.emit(token.INTEGER, strconv.FormatInt(v, 10))
	return ast.IntLiteral{Span: spanOf(h, h), Value: literal.NewInt(v)}
}

// Hex builds a `0x...`-printed integer literal with the same numeric value.
func (b *Builder) Hex(v int64) ast.Expr {
	text := fmt.Sprintf("0x%X", v)
	h := b.emit(token.INTEGER, text)
	return ast.IntLiteral{Span: spanOf(h, h), Value: literal.NewIntPrinted(v, text)}
}

// Str builds a quoted string literal.
func (b *Builder) Str(s string) ast.Expr {
	h := b.emit(token.STRING_LITERAL, `"`+s+`"`)
	return ast.StringLiteral{Span: spanOf(h, h), Value: literal.NewString([]byte(s), s)}
}

// StringRef builds a `$name` reference. name must include the leading `$`.
func (b *Builder) StringRef(name string) ast.Expr {
	h := b.emit(token.STRING_IDENT, name)
	return ast.StringRef{Span: spanOf(h, h), Name: name}
}

// Id builds a bare identifier reference (an imported module or declared
// rule name); Symbol is left nil since a builder-constructed tree has no
// symbol table of its own (spec.md §4.7: builder trees are validated, if at
// all, by a subsequent parse of their rendered text).
func (b *Builder) Id(name string) ast.Expr {
	h := b.emit(token.IDENT, name)
	return ast.Id{Span: spanOf(h, h), Name: name}
}

func (b *Builder) Filesize() ast.Expr {
	h := b.emit(token.FILESIZE, "filesize")
	return ast.Filesize{Span: spanOf(h, h)}
}

func (b *Builder) Entrypoint() ast.Expr {
	h := b.emit(token.ENTRYPOINT, "entrypoint")
	return ast.Entrypoint{Span: spanOf(h, h)}
}

func (b *Builder) All() ast.Expr  { h := b.emit(token.ALL, "all"); return ast.All{Span: spanOf(h, h)} }
func (b *Builder) Any() ast.Expr  { h := b.emit(token.ANY, "any"); return ast.Any{Span: spanOf(h, h)} }
func (b *Builder) Them() ast.Expr { h := b.emit(token.THEM, "them"); return ast.Them{Span: spanOf(h, h)} }

// Not builds `not <operand>`.
func (b *Builder) Not(operand ast.Expr) ast.Expr {
	first := b.emit(token.NOT, "not")
	b.space()
	// operand was emitted before `not`; move it after the keyword.
	b.stream.SpliceRange(b.stream, operand.Range().First, operand.Range().Last, token.Invalid)
	last := operand.Range().Last
	return ast.Not{UnaryBase: ast.UnaryBase{Span: spanOf(first, last), Operand: operand}}
}

// Paren builds `( <inner> )`, the builder's way of forcing explicit
// grouping the way a hand-written rule would (spec.md §4.7's "construct
// nested boolean expressions").
func (b *Builder) Paren(inner ast.Expr) ast.Expr {
	first := b.punct(token.LPAREN, "(")
	last := b.punct(token.RPAREN, ")")
	// Splice inner's already-emitted tokens between the parens: since
	// inner was built on this same Builder, its tokens already sit right
	// before `first` in append order, so pull them up through
	// SpliceRange rather than re-emitting.
	b.stream.SpliceRange(b.stream, inner.Range().First, inner.Range().Last, last)
	return ast.Parentheses{Span: spanOf(first, last), Inner: inner}
}

func (b *Builder) binary(op token.Kind, opText string, left, right ast.Expr, make func(ast.BinaryBase) ast.Expr) ast.Expr {
	first := left.Range().First
	opStart := b.emit(token.WHITESPACE, " ")
	b.emit(op, opText)
	b.space()
	// left and right were emitted before the operator; move them around it
	// so the tokens read `left op right` in stream order.
	b.stream.SpliceRange(b.stream, left.Range().First, left.Range().Last, opStart)
	b.stream.SpliceRange(b.stream, right.Range().First, right.Range().Last, token.Invalid)
	last := right.Range().Last
	return make(ast.BinaryBase{Span: spanOf(first, last), Left: left, Right: right})
}

func (b *Builder) And(l, r ast.Expr) ast.Expr {
	return b.binary(token.AND, "and", l, r, func(x ast.BinaryBase) ast.Expr { return ast.And{BinaryBase: x} })
}

func (b *Builder) Or(l, r ast.Expr) ast.Expr {
	return b.binary(token.OR, "or", l, r, func(x ast.BinaryBase) ast.Expr { return ast.Or{BinaryBase: x} })
}

// Conjunction folds And across operands left-to-right, matching the
// builder's fluent-chaining style; an empty list yields `true`, a
// single-element list returns it unwrapped (spec.md §4.7).
func (b *Builder) Conjunction(operands ...ast.Expr) ast.Expr {
	return b.fold(operands, true, b.And)
}

// Disjunction folds Or across operands; an empty list yields `false`.
func (b *Builder) Disjunction(operands ...ast.Expr) ast.Expr {
	return b.fold(operands, false, b.Or)
}

func (b *Builder) fold(operands []ast.Expr, identity bool, combine func(l, r ast.Expr) ast.Expr) ast.Expr {
	nonNil := collect.Filter(operands, func(e ast.Expr) bool { return e != nil })
	if len(nonNil) == 0 {
		return b.Bool(identity)
	}
	acc := nonNil[0]
	for _, e := range nonNil[1:] {
		acc = combine(acc, e)
	}
	return acc
}

func (b *Builder) Eq(l, r ast.Expr) ast.Expr {
	return b.binary(token.EQ, "==", l, r, func(x ast.BinaryBase) ast.Expr { return ast.Eq{BinaryBase: x} })
}
func (b *Builder) Neq(l, r ast.Expr) ast.Expr {
	return b.binary(token.NEQ, "!=", l, r, func(x ast.BinaryBase) ast.Expr { return ast.Neq{BinaryBase: x} })
}
func (b *Builder) Lt(l, r ast.Expr) ast.Expr {
	return b.binary(token.LT, "<", l, r, func(x ast.BinaryBase) ast.Expr { return ast.Lt{BinaryBase: x} })
}
func (b *Builder) Le(l, r ast.Expr) ast.Expr {
	return b.binary(token.LE, "<=", l, r, func(x ast.BinaryBase) ast.Expr { return ast.Le{BinaryBase: x} })
}
func (b *Builder) Gt(l, r ast.Expr) ast.Expr {
	return b.binary(token.GT, ">", l, r, func(x ast.BinaryBase) ast.Expr { return ast.Gt{BinaryBase: x} })
}
func (b *Builder) Ge(l, r ast.Expr) ast.Expr {
	return b.binary(token.GE, ">=", l, r, func(x ast.BinaryBase) ast.Expr { return ast.Ge{BinaryBase: x} })
}
func (b *Builder) Plus(l, r ast.Expr) ast.Expr {
	return b.binary(token.PLUS, "+", l, r, func(x ast.BinaryBase) ast.Expr { return ast.Plus{BinaryBase: x} })
}
func (b *Builder) Minus(l, r ast.Expr) ast.Expr {
	return b.binary(token.MINUS, "-", l, r, func(x ast.BinaryBase) ast.Expr { return ast.Minus{BinaryBase: x} })
}
func (b *Builder) Contains(l, r ast.Expr) ast.Expr {
	return b.binary(token.CONTAINS, "contains", l, r, func(x ast.BinaryBase) ast.Expr { return ast.Contains{BinaryBase: x} })
}

// Of builds `<quantifier> of <string-set>`, e.g. b.Of(b.Any(), b.Them()).
func (b *Builder) Of(quantifier, stringSet ast.Expr) ast.Expr {
	first := quantifier.Range().First
	ofStart := b.emit(token.WHITESPACE, " ")
	b.emit(token.OF, "of")
	b.space()
	b.stream.SpliceRange(b.stream, quantifier.Range().First, quantifier.Range().Last, ofStart)
	b.stream.SpliceRange(b.stream, stringSet.Range().First, stringSet.Range().Last, token.Invalid)
	last := stringSet.Range().Last
	return ast.Of{Span: spanOf(first, last), Quantifier: quantifier, StringSet: stringSet}
}

// Set builds an explicit `(a, b, c)` element list, e.g. for a string-set
// argument to Of, or a numeric set for `for ... in`.
func (b *Builder) Set(elements ...ast.Expr) ast.Expr {
	first := b.punct(token.LPAREN, "(")
	for i, e := range elements {
		if i > 0 {
			b.punct(token.COMMA, ",")
			b.space()
		}
		b.stream.SpliceRange(b.stream, e.Range().First, e.Range().Last, token.Invalid)
	}
	last := b.punct(token.RPAREN, ")")
	return ast.Set{Span: spanOf(first, last), Elements: collect.Map(elements, func(e ast.Expr) ast.Expr { return e })}
}

// StructAccess builds `<base>.<field>`.
func (b *Builder) StructAccess(base ast.Expr, field string) ast.Expr {
	first := base.Range().First
	b.punct(token.DOT, ".")
	last := b.emit(token.IDENT, field)
	return ast.StructAccess{Span: spanOf(first, last), Base: base, Field: field}
}

// FunctionCall builds `<callee>(<args...>)`.
func (b *Builder) FunctionCall(callee ast.Expr, args ...ast.Expr) ast.Expr {
	first := callee.Range().First
	b.punct(token.LPAREN, "(")
	for i, a := range args {
		if i > 0 {
			b.punct(token.COMMA, ",")
			b.space()
		}
		b.stream.SpliceRange(b.stream, a.Range().First, a.Range().Last, token.Invalid)
	}
	last := b.punct(token.RPAREN, ")")
	return ast.FunctionCall{Span: spanOf(first, last), Callee: callee, Args: args}
}

// Into splices expr's token range out of the Builder's scratch stream and
// into dest immediately before at (token.Invalid appends at the end),
// returning expr with its Span updated to reference dest's handles. This
// is how a tree assembled with Builder gets attached into a parsed or
// previously-built ast.YaraFile's own Stream (spec.md §4.7).
func Into(dest *token.Stream, src *Builder, expr ast.Expr, at token.Handle) ast.Expr {
	first, last := dest.SpliceRange(src.stream, expr.Range().First, expr.Range().Last, at)
	return rehome(expr, first, last)
}

// rehome returns a copy of expr with its own Span set to (first, last);
// nested children keep their own already-correct handles from the same
// splice, since SpliceRange moves the whole contiguous range atomically.
func rehome(expr ast.Expr, first, last token.Handle) ast.Expr {
	switch n := expr.(type) {
	case ast.BoolLiteral:
		n.Span = spanOf(first, last)
		return n
	case ast.IntLiteral:
		n.Span = spanOf(first, last)
		return n
	case ast.StringLiteral:
		n.Span = spanOf(first, last)
		return n
	case ast.StringRef:
		n.Span = spanOf(first, last)
		return n
	case ast.Id:
		n.Span = spanOf(first, last)
		return n
	case ast.Filesize:
		n.Span = spanOf(first, last)
		return n
	case ast.Entrypoint:
		n.Span = spanOf(first, last)
		return n
	case ast.All:
		n.Span = spanOf(first, last)
		return n
	case ast.Any:
		n.Span = spanOf(first, last)
		return n
	case ast.Them:
		n.Span = spanOf(first, last)
		return n
	case ast.Not:
		n.Span = spanOf(first, last)
		return n
	case ast.And:
		n.Span = spanOf(first, last)
		return n
	case ast.Or:
		n.Span = spanOf(first, last)
		return n
	case ast.Eq:
		n.Span = spanOf(first, last)
		return n
	case ast.Neq:
		n.Span = spanOf(first, last)
		return n
	case ast.Lt:
		n.Span = spanOf(first, last)
		return n
	case ast.Le:
		n.Span = spanOf(first, last)
		return n
	case ast.Gt:
		n.Span = spanOf(first, last)
		return n
	case ast.Ge:
		n.Span = spanOf(first, last)
		return n
	case ast.Plus:
		n.Span = spanOf(first, last)
		return n
	case ast.Minus:
		n.Span = spanOf(first, last)
		return n
	case ast.Contains:
		n.Span = spanOf(first, last)
		return n
	case ast.Of:
		n.Span = spanOf(first, last)
		return n
	case ast.Set:
		n.Span = spanOf(first, last)
		return n
	case ast.StructAccess:
		n.Span = spanOf(first, last)
		return n
	case ast.FunctionCall:
		n.Span = spanOf(first, last)
		return n
	case ast.Parentheses:
		n.Span = spanOf(first, last)
		return n
	default:
		return expr
	}
}
