// Package format renders an ast.YaraFile back to text: either the exact
// original bytes (Text, a thin wrapper over the token stream) or a
// canonical pretty-printed layout (TextFormatted) that is idempotent under
// repeated application (spec.md §4.8).
package format

import (
	"fmt"
	"strings"

	"github.com/sansecio/yaraast/ast"
)

// Text renders f exactly as its token stream records it — a lossless
// round-trip of whatever was parsed or built (spec.md §8 invariant 1).
func Text(f *ast.YaraFile) string {
	return f.Text()
}

// TextFormatted renders f in a canonical layout: one blank line between
// rules, an opening brace on its own line, one-tab indentation per nesting
// level, and boolean chains of two or more operands broken one per line.
// Applying TextFormatted to its own output is a no-op (spec.md §4.8).
func TextFormatted(f *ast.YaraFile) string {
	var b strings.Builder
	for _, imp := range f.Imports {
		fmt.Fprintf(&b, "import \"%s\"\n", imp)
	}
	if len(f.Imports) > 0 {
		b.WriteString("\n")
	}
	for i, r := range f.Rules {
		if i > 0 {
			b.WriteString("\n")
		}
		writeRule(&b, r)
	}
	return b.String()
}

func writeRule(b *strings.Builder, r *ast.Rule) {
	if mod := r.Modifier.String(); mod != "" {
		fmt.Fprintf(b, "%s rule %s", mod, r.Name)
	} else {
		fmt.Fprintf(b, "rule %s", r.Name)
	}
	for _, tag := range r.Tags {
		fmt.Fprintf(b, " %s", tag)
	}
	b.WriteString("\n{\n")

	if len(r.Meta) > 0 {
		b.WriteString("\tmeta:\n")
		for _, m := range r.Meta {
			fmt.Fprintf(b, "\t\t%s = %s\n", m.Key, metaValueText(m.Value))
		}
	}
	if len(r.Strings) > 0 {
		b.WriteString("\tstrings:\n")
		for _, s := range r.Strings {
			fmt.Fprintf(b, "\t\t%s = %s%s\n", s.Name, stringValueText(s.Value), flagsText(s.Flags))
		}
	}
	b.WriteString("\tcondition:\n")
	b.WriteString("\t\t")
	writeExpr(b, r.Condition, 2)
	b.WriteString("\n}\n")
}

func metaValueText(v ast.MetaValue) string {
	switch {
	case v.IsString:
		return `"` + v.Str + `"`
	case v.IsBool:
		if v.Bool {
			return "true"
		}
		return "false"
	default:
		if v.Printed != "" {
			return v.Printed
		}
		return fmt.Sprintf("%d", v.Int)
	}
}

func stringValueText(v ast.StringValue) string {
	switch sv := v.(type) {
	case ast.PlainString:
		return `"` + sv.Escaped + `"`
	case ast.RegexStringValue:
		return sv.Source
	case ast.HexStringValue:
		return "{ " + hexTokensText(sv.Tokens) + " }"
	default:
		return ""
	}
}

func hexTokensText(toks []ast.HexToken) string {
	parts := make([]string, 0, len(toks))
	for _, t := range toks {
		parts = append(parts, hexTokenText(t))
	}
	return strings.Join(parts, " ")
}

func hexTokenText(t ast.HexToken) string {
	switch h := t.(type) {
	case ast.HexByte:
		hi, lo := "?", "?"
		if !h.WildHi {
			hi = fmt.Sprintf("%X", h.Hi)
		}
		if !h.WildLo {
			lo = fmt.Sprintf("%X", h.Lo)
		}
		return hi + lo
	case ast.HexWildcard:
		return "??"
	case ast.HexJump:
		switch {
		case h.Min == nil && h.Max == nil:
			return "[-]"
		case h.Min != nil && h.Max != nil && *h.Min == *h.Max:
			return fmt.Sprintf("[%d]", *h.Min)
		case h.Max == nil:
			return fmt.Sprintf("[%d-]", *h.Min)
		case h.Min == nil:
			return fmt.Sprintf("[-%d]", *h.Max)
		default:
			return fmt.Sprintf("[%d-%d]", *h.Min, *h.Max)
		}
	case ast.HexAlt:
		alts := make([]string, 0, len(h.Alternatives))
		for _, a := range h.Alternatives {
			alts = append(alts, hexTokensText(a))
		}
		return "(" + strings.Join(alts, " | ") + ")"
	default:
		return ""
	}
}

func flagsText(f ast.StringFlags) string {
	var parts []string
	if f.Ascii {
		parts = append(parts, "ascii")
	}
	if f.Wide {
		parts = append(parts, "wide")
	}
	if f.Nocase {
		parts = append(parts, "nocase")
	}
	if f.Fullword {
		parts = append(parts, "fullword")
	}
	if f.Private {
		parts = append(parts, "private")
	}
	if f.Xor {
		if f.HasXorHi {
			parts = append(parts, fmt.Sprintf("xor(%d-%d)", f.XorLo, f.XorHi))
		} else {
			parts = append(parts, "xor")
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return " " + strings.Join(parts, " ")
}

// writeExpr renders e at the given indent depth, breaking a top-level
// And/Or chain of 2+ operands one-per-line (spec.md §4.8).
func writeExpr(b *strings.Builder, e ast.Expr, indent int) {
	switch n := e.(type) {
	case ast.And:
		writeChain(b, flattenAnd(n), "and", indent)
	case ast.Or:
		writeChain(b, flattenOr(n), "or", indent)
	default:
		b.WriteString(exprText(e))
	}
}

func flattenAnd(n ast.And) []ast.Expr {
	var out []ast.Expr
	if l, ok := n.Left.(ast.And); ok {
		out = append(out, flattenAnd(l)...)
	} else {
		out = append(out, n.Left)
	}
	if r, ok := n.Right.(ast.And); ok {
		out = append(out, flattenAnd(r)...)
	} else {
		out = append(out, n.Right)
	}
	return out
}

func flattenOr(n ast.Or) []ast.Expr {
	var out []ast.Expr
	if l, ok := n.Left.(ast.Or); ok {
		out = append(out, flattenOr(l)...)
	} else {
		out = append(out, n.Left)
	}
	if r, ok := n.Right.(ast.Or); ok {
		out = append(out, flattenOr(r)...)
	} else {
		out = append(out, n.Right)
	}
	return out
}

func writeChain(b *strings.Builder, operands []ast.Expr, joiner string, indent int) {
	pad := strings.Repeat("\t", indent)
	for i, op := range operands {
		if i > 0 {
			b.WriteString("\n")
			b.WriteString(pad)
			b.WriteString(joiner)
			b.WriteString(" ")
		}
		writeExpr(b, op, indent)
	}
}

// ExprSource renders e (and, recursively, its children) as a single-line
// expression directly from its AST fields, with no dependency on any token
// stream. The visitor package uses this to re-tokenize a subtree whose
// shape changed under a ModifyingVisitor, since the rewritten AST is the
// only reliable source of truth for what its text should now be.
func ExprSource(e ast.Expr) string { return exprText(e) }

// MetaValueSource renders v the way it appears on the right of `key = `.
func MetaValueSource(v ast.MetaValue) string { return metaValueText(v) }

// exprText renders e (and, recursively, its children) as a single-line
// expression, used for every node kind except the top-level boolean chain
// breaking handled by writeExpr/writeChain.
func exprText(e ast.Expr) string {
	switch n := e.(type) {
	case ast.BoolLiteral:
		if n.Value {
			return "true"
		}
		return "false"
	case ast.IntLiteral:
		return n.Value.Text()
	case ast.DoubleLiteral:
		return fmt.Sprintf("%g", n.Value)
	case ast.StringLiteral:
		return n.Value.Text()
	case ast.StringRef:
		return n.Name
	case ast.StringWildcard:
		return n.Prefix + "*"
	case ast.StringAt:
		return fmt.Sprintf("%s at %s", n.Ref.Name, exprText(n.At))
	case ast.StringInRange:
		return fmt.Sprintf("%s in %s", n.Ref.Name, exprText(n.Range))
	case ast.StringCount:
		return indexedText(n.Name, n.Index)
	case ast.StringOffset:
		return indexedText(n.Name, n.Index)
	case ast.StringLength:
		return indexedText(n.Name, n.Index)
	case ast.Not:
		return "not " + exprText(n.Operand)
	case ast.UnaryMinus:
		return "-" + exprText(n.Operand)
	case ast.BitwiseNot:
		return "~" + exprText(n.Operand)
	case ast.And:
		return exprText(n.Left) + " and " + exprText(n.Right)
	case ast.Or:
		return exprText(n.Left) + " or " + exprText(n.Right)
	case ast.Lt:
		return binText(n.Left, "<", n.Right)
	case ast.Le:
		return binText(n.Left, "<=", n.Right)
	case ast.Gt:
		return binText(n.Left, ">", n.Right)
	case ast.Ge:
		return binText(n.Left, ">=", n.Right)
	case ast.Eq:
		return binText(n.Left, "==", n.Right)
	case ast.Neq:
		return binText(n.Left, "!=", n.Right)
	case ast.Plus:
		return binText(n.Left, "+", n.Right)
	case ast.Minus:
		return binText(n.Left, "-", n.Right)
	case ast.Multiply:
		return binText(n.Left, "*", n.Right)
	case ast.Divide:
		return binText(n.Left, "\\", n.Right)
	case ast.Modulo:
		return binText(n.Left, "%", n.Right)
	case ast.BitwiseXor:
		return binText(n.Left, "^", n.Right)
	case ast.BitwiseAnd:
		return binText(n.Left, "&", n.Right)
	case ast.BitwiseOr:
		return binText(n.Left, "|", n.Right)
	case ast.ShiftLeft:
		return binText(n.Left, "<<", n.Right)
	case ast.ShiftRight:
		return binText(n.Left, ">>", n.Right)
	case ast.Contains:
		return binText(n.Left, "contains", n.Right)
	case ast.Matches:
		return binText(n.Left, "matches", n.Right)
	case ast.ForInt:
		return fmt.Sprintf("for %s %s in %s : ( %s )", exprText(n.Quantifier), n.Variable, exprText(n.Iterable), exprText(n.Body))
	case ast.ForString:
		return fmt.Sprintf("for %s of %s : ( %s )", exprText(n.Quantifier), exprText(n.StringSet), exprText(n.Body))
	case ast.Of:
		return fmt.Sprintf("%s of %s", exprText(n.Quantifier), exprText(n.StringSet))
	case ast.Set:
		parts := make([]string, len(n.Elements))
		for i, el := range n.Elements {
			parts[i] = exprText(el)
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case ast.Range:
		return fmt.Sprintf("(%s..%s)", exprText(n.Low), exprText(n.High))
	case ast.Id:
		return n.Name
	case ast.StructAccess:
		return exprText(n.Base) + "." + n.Field
	case ast.ArrayAccess:
		return fmt.Sprintf("%s[%s]", exprText(n.Base), exprText(n.Index))
	case ast.FunctionCall:
		args := make([]string, len(n.Args))
		for i, a := range n.Args {
			args[i] = exprText(a)
		}
		return fmt.Sprintf("%s(%s)", exprText(n.Callee), strings.Join(args, ", "))
	case ast.Filesize:
		return "filesize"
	case ast.Entrypoint:
		return "entrypoint"
	case ast.All:
		return "all"
	case ast.Any:
		return "any"
	case ast.Them:
		return "them"
	case ast.Parentheses:
		return "(" + exprText(n.Inner) + ")"
	case ast.IntFunction:
		return fmt.Sprintf("%s(%s)", n.Name, exprText(n.Offset))
	case ast.Regexp:
		return n.Source
	default:
		return ""
	}
}

func indexedText(name string, idx ast.Expr) string {
	if idx == nil {
		return name
	}
	return fmt.Sprintf("%s[%s]", name, exprText(idx))
}

func binText(l ast.Expr, op string, r ast.Expr) string {
	return exprText(l) + " " + op + " " + exprText(r)
}
