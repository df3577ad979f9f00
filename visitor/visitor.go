// Package visitor implements observing and modifying traversal of an
// ast.YaraFile (spec.md §4.6): read-only visitors, and mutating visitors
// that can replace or delete the node they're currently visiting. A
// ModifyingVisitor's decisions are applied to both representations at
// once — the AST tree and the token.Stream backing it — so
// ast.YaraFile.Text() always reflects the rewritten tree (spec.md §2, §4.6:
// "the framework splices both AST edges and token ranges atomically").
package visitor

import (
	"github.com/sansecio/yaraast/ast"
	"github.com/sansecio/yaraast/format"
	"github.com/sansecio/yaraast/token"
)

// Action is the result of visiting a node under a ModifyingVisitor.
type Action int

const (
	// Keep leaves the visited node (and its already-rebuilt children) in
	// place.
	Keep Action = iota
	// Replace substitutes the visited node with Result.
	Replace
	// Delete removes the visited node; its parent decides how to absorb
	// the hole (see rebuildChildren below).
	Delete
)

// Result pairs an Action with the replacement expression when Action ==
// Replace.
type Result struct {
	Action Action
	Node   ast.Expr
}

func KeepResult() Result            { return Result{Action: Keep} }
func ReplaceWith(n ast.Expr) Result { return Result{Action: Replace, Node: n} }
func DeleteResult() Result          { return Result{Action: Delete} }

// Observer is implemented by read-only visitors over the condition tree.
// Walk calls Visit once per node, pre-order; Visit receives every node
// kind and ignores the kinds it does not care about.
type Observer interface {
	Visit(e ast.Expr)
}

// ObserverFunc adapts a plain function to the Observer interface.
type ObserverFunc func(ast.Expr)

func (f ObserverFunc) Visit(e ast.Expr) { f(e) }

// Walk performs a pre-order read-only traversal of e and its descendants.
func Walk(e ast.Expr, v Observer) {
	if e == nil {
		return
	}
	v.Visit(e)
	for _, child := range children(e) {
		Walk(child, v)
	}
}

// WalkFile visits every rule's condition in a file, in declaration order.
func WalkFile(f *ast.YaraFile, v Observer) {
	for _, r := range f.Rules {
		Walk(r.Condition, v)
	}
}

// Modifier is implemented by mutating visitors. VisitExpr is called
// bottom-up (children are rebuilt before their parent is visited) so a
// Replace/Delete decision at a parent sees the already-rewritten children.
type Modifier interface {
	VisitExpr(e ast.Expr) Result
}

// Rewrite rebuilds e bottom-up under v, splicing or erasing the
// corresponding range of stream wherever a Replace or Delete fires (or a
// descendant's own splice changed this node's extent), so stream.Text()
// renders the rewritten tree exactly. stream must be the same Stream e's
// tokens belong to (an ast.YaraFile's Stream, or a Builder's scratch
// stream); stream may be nil, in which case Rewrite rebuilds the AST only,
// matching the pre-token-splicing behavior for callers that never render
// text from a mutated tree.
//
// Rewrite returns the replacement tree and whether e itself survived
// (deletion inside a Set or boolean chain is absorbed per the rules in
// rebuildChildren and never surfaces as ok=false to that node's own
// caller).
func Rewrite(stream *token.Stream, e ast.Expr, v Modifier) (ast.Expr, bool) {
	result, ok, _ := rewrite(stream, e, v)
	return result, ok
}

// rewrite is Rewrite's recursive implementation; the third return reports
// whether this call spliced the stream (directly, or because a descendant
// did), so a caller one level up knows whether its own cached token extent
// is still accurate or needs re-rendering.
func rewrite(stream *token.Stream, e ast.Expr, v Modifier) (ast.Expr, bool, bool) {
	if e == nil {
		return nil, false, false
	}
	if stream == nil {
		rebuilt, _ := rebuildChildren(stream, e, v)
		res := v.VisitExpr(rebuilt)
		switch res.Action {
		case Replace:
			return res.Node, true, true
		case Delete:
			return nil, false, true
		default:
			return rebuilt, true, false
		}
	}

	sp := e.Range()
	anchorBefore := stream.Prev(sp.First)
	anchorAfter := stream.Next(sp.Last)

	rebuilt, touched := rebuildChildren(stream, e, v)
	res := v.VisitExpr(rebuilt)

	first, last := liveExtent(stream, anchorBefore, anchorAfter)

	switch res.Action {
	case Replace:
		return spliceNode(stream, anchorAfter, first, last, res.Node), true, true
	case Delete:
		if first != token.Invalid {
			stream.EraseRange(first, last)
		}
		return nil, false, true
	default:
		if touched {
			return spliceNode(stream, anchorAfter, first, last, rebuilt), true, true
		}
		return rebuilt, true, false
	}
}

// RewriteFile applies v to every rule's condition in place, against the
// file's own token stream. A rule whose condition is wholly deleted gets
// the spec's root-level default: a BoolLiteral(true) condition — both in
// the AST and, since nothing else will, spliced into the stream at the
// vacated position — matching YARA's convention that an empty condition is
// vacuously true.
func RewriteFile(f *ast.YaraFile, v Modifier) {
	for _, r := range f.Rules {
		r.Condition = rewriteRoot(f.Stream, r.Condition, v)
	}
}

func rewriteRoot(stream *token.Stream, e ast.Expr, v Modifier) ast.Expr {
	var anchorAfter token.Handle
	if stream != nil {
		anchorAfter = stream.Next(e.Range().Last)
	}
	result, ok, _ := rewrite(stream, e, v)
	if ok {
		return result
	}
	fallback := ast.Expr(ast.BoolLiteral{Value: true})
	if stream == nil {
		return fallback
	}
	h := insertAt(stream, anchorAfter, token.Token{Kind: token.TRUE, Text: "true"})
	return withSpan(fallback, ast.Span{First: h, Last: h})
}

// liveExtent recomputes the currently-live token range bounded by the two
// (never-erased, always-live) neighbors captured before any rewriting
// happened. Children rewritten below e may have spliced or erased tokens
// strictly inside [anchorBefore, anchorAfter], shifting e's own effective
// first/last handles; the neighbors themselves are never touched by that
// work, so re-deriving from them is always safe.
func liveExtent(stream *token.Stream, anchorBefore, anchorAfter token.Handle) (token.Handle, token.Handle) {
	first := stream.Head()
	if anchorBefore != token.Invalid {
		first = stream.Next(anchorBefore)
	}
	last := stream.Tail()
	if anchorAfter != token.Invalid {
		last = stream.Prev(anchorAfter)
	}
	return first, last
}

// insertAt inserts tok immediately before anchorAfter, or at the end of
// stream if anchorAfter is Invalid.
func insertAt(stream *token.Stream, anchorAfter token.Handle, tok token.Token) token.Handle {
	if anchorAfter != token.Invalid {
		return stream.InsertBefore(anchorAfter, tok)
	}
	return stream.Append(tok)
}

// spliceNode renders n's current AST shape to text and installs it as a
// single token occupying [first,last]'s old position, then erases
// [first,last] — the generic form of spec.md §4.6's "splices the
// replacement's token range in place of the original's, using a
// TokenStreamContext captured before visiting": anchorAfter plus the
// pre-computed [first,last] together are that context.
func spliceNode(stream *token.Stream, anchorAfter, first, last token.Handle, n ast.Expr) ast.Expr {
	h := insertAt(stream, anchorAfter, token.Token{Kind: token.SYNTHETIC, Text: format.ExprSource(n)})
	if first != token.Invalid {
		stream.EraseRange(first, last)
	}
	return withSpan(n, ast.Span{First: h, Last: h})
}

// ExchangeTokens swaps a and b's token ranges within stream so each ends up
// physically occupying the other's old position (spec.md §4.5: "exchange
// tokens with another node"), and returns copies of a and b with their own
// Spans updated to match. a must precede b in stream order. Modifiers that
// rebuild a node from its own (possibly reordered) children — e.g. turning
// `a == b` into `Neq(b, a)` — can use this to keep each operand's original
// token range attached to the text it still renders, rather than relying
// on Rewrite's generic whole-subtree re-render.
func ExchangeTokens(stream *token.Stream, a, b ast.Expr) (ast.Expr, ast.Expr) {
	spA, spB := a.Range(), b.Range()
	newA, newB := stream.ExchangeRanges(spA.First, spA.Last, spB.First, spB.Last)
	return withSpan(a, ast.Span{First: newA[0], Last: newA[1]}), withSpan(b, ast.Span{First: newB[0], Last: newB[1]})
}

// ReplaceMetaValue updates a parsed meta entry's value both in the AST and,
// in place, in stream: the value token's literal payload and rendered text
// are rewritten directly via SetLiteral/SetText rather than splicing a new
// token range, since a meta value always occupies exactly one token
// (spec.md §4.6 scenario: a meta-value replace round-trips through Text()).
func ReplaceMetaValue(stream *token.Stream, m *ast.MetaEntry, v ast.MetaValue) {
	h := m.Span.Last
	stream.SetText(h, format.MetaValueSource(v))
	stream.SetLiteral(h, metaLiteral(v))
	m.Value = v
}

func metaLiteral(v ast.MetaValue) token.Literal {
	switch {
	case v.IsString:
		return token.Literal{Str: v.Str}
	case v.IsBool:
		return token.Literal{Bool: v.Bool}
	default:
		return token.Literal{Int: v.Int}
	}
}

// rebuildChildren rewrites e's immediate children under v and returns a
// copy of e with the rebuilt children installed, applying each node kind's
// Delete-absorption policy (spec.md §4.6 open question, decided in
// DESIGN.md): And/Or substitute a boolean identity element for a deleted
// operand (And: true, Or: false) rather than propagating the deletion;
// Not and the bodies of ForInt/ForString substitute false; every other
// node treats the deletion of a required operand as a no-op (the original
// operand is kept, since these nodes have no identity element to
// substitute); Set and FunctionCall drop a deleted
// element/argument outright, leaving the rest. The second return reports
// whether any child's own rewrite touched the stream, so the caller
// (rewrite) knows whether e's cached token extent needs re-rendering.
func rebuildChildren(stream *token.Stream, e ast.Expr, v Modifier) (ast.Expr, bool) {
	switch n := e.(type) {
	case ast.Not:
		var t bool
		n.Operand, t = rewriteOrPropagate(stream, n.Operand, v, ast.BoolLiteral{Value: false})
		return n, t
	case ast.UnaryMinus:
		var t bool
		n.Operand, t = rewriteRequired(stream, n.Operand, v)
		return n, t
	case ast.BitwiseNot:
		var t bool
		n.Operand, t = rewriteRequired(stream, n.Operand, v)
		return n, t

	case ast.And:
		var t1, t2 bool
		n.Left, t1 = rewriteOrPropagate(stream, n.Left, v, ast.BoolLiteral{Value: true})
		n.Right, t2 = rewriteOrPropagate(stream, n.Right, v, ast.BoolLiteral{Value: true})
		return n, t1 || t2
	case ast.Or:
		var t1, t2 bool
		n.Left, t1 = rewriteOrPropagate(stream, n.Left, v, ast.BoolLiteral{Value: false})
		n.Right, t2 = rewriteOrPropagate(stream, n.Right, v, ast.BoolLiteral{Value: false})
		return n, t1 || t2
	case ast.Lt:
		var t bool
		n.BinaryBase, t = rebuildBinaryBase(stream, n.BinaryBase, v)
		return n, t
	case ast.Le:
		var t bool
		n.BinaryBase, t = rebuildBinaryBase(stream, n.BinaryBase, v)
		return n, t
	case ast.Gt:
		var t bool
		n.BinaryBase, t = rebuildBinaryBase(stream, n.BinaryBase, v)
		return n, t
	case ast.Ge:
		var t bool
		n.BinaryBase, t = rebuildBinaryBase(stream, n.BinaryBase, v)
		return n, t
	case ast.Eq:
		var t bool
		n.BinaryBase, t = rebuildBinaryBase(stream, n.BinaryBase, v)
		return n, t
	case ast.Neq:
		var t bool
		n.BinaryBase, t = rebuildBinaryBase(stream, n.BinaryBase, v)
		return n, t
	case ast.Plus:
		var t bool
		n.BinaryBase, t = rebuildBinaryBase(stream, n.BinaryBase, v)
		return n, t
	case ast.Minus:
		var t bool
		n.BinaryBase, t = rebuildBinaryBase(stream, n.BinaryBase, v)
		return n, t
	case ast.Multiply:
		var t bool
		n.BinaryBase, t = rebuildBinaryBase(stream, n.BinaryBase, v)
		return n, t
	case ast.Divide:
		var t bool
		n.BinaryBase, t = rebuildBinaryBase(stream, n.BinaryBase, v)
		return n, t
	case ast.Modulo:
		var t bool
		n.BinaryBase, t = rebuildBinaryBase(stream, n.BinaryBase, v)
		return n, t
	case ast.BitwiseXor:
		var t bool
		n.BinaryBase, t = rebuildBinaryBase(stream, n.BinaryBase, v)
		return n, t
	case ast.BitwiseAnd:
		var t bool
		n.BinaryBase, t = rebuildBinaryBase(stream, n.BinaryBase, v)
		return n, t
	case ast.BitwiseOr:
		var t bool
		n.BinaryBase, t = rebuildBinaryBase(stream, n.BinaryBase, v)
		return n, t
	case ast.ShiftLeft:
		var t bool
		n.BinaryBase, t = rebuildBinaryBase(stream, n.BinaryBase, v)
		return n, t
	case ast.ShiftRight:
		var t bool
		n.BinaryBase, t = rebuildBinaryBase(stream, n.BinaryBase, v)
		return n, t
	case ast.Contains:
		var t bool
		n.BinaryBase, t = rebuildBinaryBase(stream, n.BinaryBase, v)
		return n, t
	case ast.Matches:
		var t bool
		n.BinaryBase, t = rebuildBinaryBase(stream, n.BinaryBase, v)
		return n, t

	case ast.StringAt:
		var t bool
		n.At, t = rewriteRequired(stream, n.At, v)
		return n, t
	case ast.StringInRange:
		var t bool
		n.Range, t = rewriteRequired(stream, n.Range, v)
		return n, t
	case ast.StringCount:
		if n.Index != nil {
			var t bool
			n.Index, t = rewriteRequired(stream, n.Index, v)
			return n, t
		}
		return n, false
	case ast.StringOffset:
		if n.Index != nil {
			var t bool
			n.Index, t = rewriteRequired(stream, n.Index, v)
			return n, t
		}
		return n, false
	case ast.StringLength:
		if n.Index != nil {
			var t bool
			n.Index, t = rewriteRequired(stream, n.Index, v)
			return n, t
		}
		return n, false

	case ast.ForInt:
		var t1, t2, t3 bool
		n.Quantifier, t1 = rewriteRequired(stream, n.Quantifier, v)
		n.Iterable, t2 = rewriteRequired(stream, n.Iterable, v)
		n.Body, t3 = rewriteOrPropagate(stream, n.Body, v, ast.BoolLiteral{Value: false})
		return n, t1 || t2 || t3
	case ast.ForString:
		var t1, t2, t3 bool
		n.Quantifier, t1 = rewriteRequired(stream, n.Quantifier, v)
		n.StringSet, t2 = rewriteRequired(stream, n.StringSet, v)
		n.Body, t3 = rewriteOrPropagate(stream, n.Body, v, ast.BoolLiteral{Value: false})
		return n, t1 || t2 || t3
	case ast.Of:
		var t1, t2 bool
		n.Quantifier, t1 = rewriteRequired(stream, n.Quantifier, v)
		n.StringSet, t2 = rewriteRequired(stream, n.StringSet, v)
		return n, t1 || t2
	case ast.Set:
		var touched bool
		var kept []ast.Expr
		for _, el := range n.Elements {
			r, ok, t := rewrite(stream, el, v)
			if t {
				touched = true
			}
			if ok {
				kept = append(kept, r)
			} else {
				touched = true
			}
		}
		n.Elements = kept
		return n, touched
	case ast.Range:
		var t1, t2 bool
		n.Low, t1 = rewriteRequired(stream, n.Low, v)
		n.High, t2 = rewriteRequired(stream, n.High, v)
		return n, t1 || t2

	case ast.StructAccess:
		var t bool
		n.Base, t = rewriteRequired(stream, n.Base, v)
		return n, t
	case ast.ArrayAccess:
		var t1, t2 bool
		n.Base, t1 = rewriteRequired(stream, n.Base, v)
		n.Index, t2 = rewriteRequired(stream, n.Index, v)
		return n, t1 || t2
	case ast.FunctionCall:
		var touched bool
		var t bool
		n.Callee, t = rewriteRequired(stream, n.Callee, v)
		touched = t
		var args []ast.Expr
		for _, a := range n.Args {
			r, ok, at := rewrite(stream, a, v)
			if at {
				touched = true
			}
			if ok {
				args = append(args, r)
			} else {
				touched = true
			}
		}
		n.Args = args
		return n, touched

	case ast.Parentheses:
		var t bool
		n.Inner, t = rewriteRequired(stream, n.Inner, v)
		return n, t

	case ast.IntFunction:
		var t bool
		n.Offset, t = rewriteRequired(stream, n.Offset, v)
		return n, t

	default:
		// Leaves: BoolLiteral, IntLiteral, DoubleLiteral, StringLiteral,
		// StringRef, StringWildcard, Id, Filesize, Entrypoint, All, Any,
		// Them, Regexp — no children to rewrite.
		return e, false
	}
}

// rebuildBinaryBase rewrites bb's operands and returns an updated copy
// alongside whether either one touched the stream. Every binary Expr type
// embeds BinaryBase under a distinct concrete name (ast.Eq, ast.Lt, ...),
// so this operates on the extracted embedded value and the caller
// reassigns it back into its own concrete-typed copy, preserving identity.
func rebuildBinaryBase(stream *token.Stream, bb ast.BinaryBase, v Modifier) (ast.BinaryBase, bool) {
	var t1, t2 bool
	bb.Left, t1 = rewriteRequired(stream, bb.Left, v)
	bb.Right, t2 = rewriteRequired(stream, bb.Right, v)
	return bb, t1 || t2
}

// rewriteRequired rewrites a child that has no sensible default when
// deleted; a Modifier deleting it anyway is a contract violation the
// caller surfaces as a no-op (Keep the original e) rather than panicking.
// Even in that no-op case touched is reported true: rewrite already erased
// e's own old token range before its deletion was rejected here, so the
// parent must still re-render its own span to put e's text back.
func rewriteRequired(stream *token.Stream, e ast.Expr, v Modifier) (ast.Expr, bool) {
	r, ok, touched := rewrite(stream, e, v)
	if ok {
		return r, touched
	}
	return e, true
}

// rewriteOrPropagate rewrites a child, substituting fallback if the child
// was deleted. A deletion always counts as touching the stream, even
// though the fallback substitution itself carries no new tokens of its
// own: the parent's re-render (triggered by the returned touched=true)
// is what actually makes the fallback's text appear in place of the
// deleted child's.
func rewriteOrPropagate(stream *token.Stream, e ast.Expr, v Modifier, fallback ast.Expr) (ast.Expr, bool) {
	r, ok, touched := rewrite(stream, e, v)
	if ok {
		return r, touched
	}
	return fallback, true
}

// withSpan returns a copy of e with its Span replaced by sp. Every
// concrete Expr embeds Span (directly, or via UnaryBase/BinaryBase), so
// Go's field promotion lets a single assignment reach it regardless of
// nesting depth.
func withSpan(e ast.Expr, sp ast.Span) ast.Expr {
	switch n := e.(type) {
	case ast.BoolLiteral:
		n.Span = sp
		return n
	case ast.IntLiteral:
		n.Span = sp
		return n
	case ast.DoubleLiteral:
		n.Span = sp
		return n
	case ast.StringLiteral:
		n.Span = sp
		return n
	case ast.StringRef:
		n.Span = sp
		return n
	case ast.StringWildcard:
		n.Span = sp
		return n
	case ast.StringAt:
		n.Span = sp
		return n
	case ast.StringInRange:
		n.Span = sp
		return n
	case ast.StringCount:
		n.Span = sp
		return n
	case ast.StringOffset:
		n.Span = sp
		return n
	case ast.StringLength:
		n.Span = sp
		return n
	case ast.Not:
		n.Span = sp
		return n
	case ast.UnaryMinus:
		n.Span = sp
		return n
	case ast.BitwiseNot:
		n.Span = sp
		return n
	case ast.And:
		n.Span = sp
		return n
	case ast.Or:
		n.Span = sp
		return n
	case ast.Lt:
		n.Span = sp
		return n
	case ast.Le:
		n.Span = sp
		return n
	case ast.Gt:
		n.Span = sp
		return n
	case ast.Ge:
		n.Span = sp
		return n
	case ast.Eq:
		n.Span = sp
		return n
	case ast.Neq:
		n.Span = sp
		return n
	case ast.Plus:
		n.Span = sp
		return n
	case ast.Minus:
		n.Span = sp
		return n
	case ast.Multiply:
		n.Span = sp
		return n
	case ast.Divide:
		n.Span = sp
		return n
	case ast.Modulo:
		n.Span = sp
		return n
	case ast.BitwiseXor:
		n.Span = sp
		return n
	case ast.BitwiseAnd:
		n.Span = sp
		return n
	case ast.BitwiseOr:
		n.Span = sp
		return n
	case ast.ShiftLeft:
		n.Span = sp
		return n
	case ast.ShiftRight:
		n.Span = sp
		return n
	case ast.Contains:
		n.Span = sp
		return n
	case ast.Matches:
		n.Span = sp
		return n
	case ast.ForInt:
		n.Span = sp
		return n
	case ast.ForString:
		n.Span = sp
		return n
	case ast.Of:
		n.Span = sp
		return n
	case ast.Set:
		n.Span = sp
		return n
	case ast.Range:
		n.Span = sp
		return n
	case ast.Id:
		n.Span = sp
		return n
	case ast.StructAccess:
		n.Span = sp
		return n
	case ast.ArrayAccess:
		n.Span = sp
		return n
	case ast.FunctionCall:
		n.Span = sp
		return n
	case ast.Filesize:
		n.Span = sp
		return n
	case ast.Entrypoint:
		n.Span = sp
		return n
	case ast.All:
		n.Span = sp
		return n
	case ast.Any:
		n.Span = sp
		return n
	case ast.Them:
		n.Span = sp
		return n
	case ast.Parentheses:
		n.Span = sp
		return n
	case ast.IntFunction:
		n.Span = sp
		return n
	case ast.Regexp:
		n.Span = sp
		return n
	default:
		return e
	}
}

// children returns the immediate child expressions of e, for read-only
// Walk. Order matches source order.
func children(e ast.Expr) []ast.Expr {
	switch n := e.(type) {
	case ast.Not:
		return []ast.Expr{n.Operand}
	case ast.UnaryMinus:
		return []ast.Expr{n.Operand}
	case ast.BitwiseNot:
		return []ast.Expr{n.Operand}
	case ast.And:
		return []ast.Expr{n.Left, n.Right}
	case ast.Or:
		return []ast.Expr{n.Left, n.Right}
	case ast.Lt:
		return []ast.Expr{n.Left, n.Right}
	case ast.Le:
		return []ast.Expr{n.Left, n.Right}
	case ast.Gt:
		return []ast.Expr{n.Left, n.Right}
	case ast.Ge:
		return []ast.Expr{n.Left, n.Right}
	case ast.Eq:
		return []ast.Expr{n.Left, n.Right}
	case ast.Neq:
		return []ast.Expr{n.Left, n.Right}
	case ast.Plus:
		return []ast.Expr{n.Left, n.Right}
	case ast.Minus:
		return []ast.Expr{n.Left, n.Right}
	case ast.Multiply:
		return []ast.Expr{n.Left, n.Right}
	case ast.Divide:
		return []ast.Expr{n.Left, n.Right}
	case ast.Modulo:
		return []ast.Expr{n.Left, n.Right}
	case ast.BitwiseXor:
		return []ast.Expr{n.Left, n.Right}
	case ast.BitwiseAnd:
		return []ast.Expr{n.Left, n.Right}
	case ast.BitwiseOr:
		return []ast.Expr{n.Left, n.Right}
	case ast.ShiftLeft:
		return []ast.Expr{n.Left, n.Right}
	case ast.ShiftRight:
		return []ast.Expr{n.Left, n.Right}
	case ast.Contains:
		return []ast.Expr{n.Left, n.Right}
	case ast.Matches:
		return []ast.Expr{n.Left, n.Right}
	case ast.StringAt:
		return []ast.Expr{n.At}
	case ast.StringInRange:
		return []ast.Expr{n.Range}
	case ast.StringCount:
		return nonNil(n.Index)
	case ast.StringOffset:
		return nonNil(n.Index)
	case ast.StringLength:
		return nonNil(n.Index)
	case ast.ForInt:
		return []ast.Expr{n.Quantifier, n.Iterable, n.Body}
	case ast.ForString:
		return []ast.Expr{n.Quantifier, n.StringSet, n.Body}
	case ast.Of:
		return []ast.Expr{n.Quantifier, n.StringSet}
	case ast.Set:
		return n.Elements
	case ast.Range:
		return []ast.Expr{n.Low, n.High}
	case ast.StructAccess:
		return []ast.Expr{n.Base}
	case ast.ArrayAccess:
		return []ast.Expr{n.Base, n.Index}
	case ast.FunctionCall:
		out := []ast.Expr{n.Callee}
		return append(out, n.Args...)
	case ast.Parentheses:
		return []ast.Expr{n.Inner}
	case ast.IntFunction:
		return []ast.Expr{n.Offset}
	default:
		return nil
	}
}

func nonNil(e ast.Expr) []ast.Expr {
	if e == nil {
		return nil
	}
	return []ast.Expr{e}
}
