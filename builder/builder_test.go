package builder

import (
	"testing"

	"github.com/sansecio/yaraast/ast"
	"github.com/sansecio/yaraast/token"
)

func text(e ast.Expr, s *token.Stream) string {
	r := e.Range()
	return s.RangeText(r.First, r.Last)
}

func TestBuilderBoolAndInt(t *testing.T) {
	b := New()
	v := b.Bool(true)
	if got := text(v, b.Stream()); got != "true" {
		t.Errorf("Bool(true) text = %q, want %q", got, "true")
	}
	n := b.Int(42)
	if got := text(n, b.Stream()); got != "42" {
		t.Errorf("Int(42) text = %q, want %q", got, "42")
	}
}

func TestBuilderComparisonExpr(t *testing.T) {
	b := New()
	cmp := b.Gt(b.Filesize(), b.Int(100))
	if got := text(cmp, b.Stream()); got != "filesize > 100" {
		t.Errorf("got %q, want %q", got, "filesize > 100")
	}
	if _, ok := cmp.(ast.Gt); !ok {
		t.Errorf("expected ast.Gt, got %T", cmp)
	}
}

func TestBuilderConjunctionAndDisjunction(t *testing.T) {
	b := New()
	c := b.Conjunction(b.Bool(true), b.Bool(false), b.Bool(true))
	if got := text(c, b.Stream()); got != "true and false and true" {
		t.Errorf("Conjunction text = %q", got)
	}

	d := b.Disjunction()
	if got := text(d, b.Stream()); got != "false" {
		t.Errorf("Disjunction() with no operands = %q, want %q (Or identity)", got, "false")
	}

	empty := b.Conjunction()
	if got := text(empty, b.Stream()); got != "true" {
		t.Errorf("Conjunction() with no operands = %q, want %q (And identity)", got, "true")
	}

	single := b.Disjunction(b.Bool(true))
	if _, ok := single.(ast.BoolLiteral); !ok {
		t.Errorf("single-operand Disjunction should unwrap, got %T", single)
	}
}

func TestBuilderParen(t *testing.T) {
	b := New()
	inner := b.Eq(b.Int(1), b.Int(1))
	p := b.Paren(inner)
	if got := text(p, b.Stream()); got != "(1 == 1)" {
		t.Errorf("Paren text = %q, want %q", got, "(1 == 1)")
	}
}

func TestBuilderOf(t *testing.T) {
	b := New()
	of := b.Of(b.Any(), b.Them())
	if got := text(of, b.Stream()); got != "any of them" {
		t.Errorf("Of text = %q, want %q", got, "any of them")
	}
}

func TestBuilderSet(t *testing.T) {
	b := New()
	set := b.Set(b.Int(1), b.Int(2), b.Int(3))
	if got := text(set, b.Stream()); got != "(1, 2, 3)" {
		t.Errorf("Set text = %q, want %q", got, "(1, 2, 3)")
	}
}

func TestBuilderStructAccessAndCall(t *testing.T) {
	b := New()
	access := b.StructAccess(b.Id("pe"), "number_of_sections")
	if got := text(access, b.Stream()); got != "pe.number_of_sections" {
		t.Errorf("StructAccess text = %q", got)
	}

	call := b.FunctionCall(b.Id("uint32"), b.Int(0))
	if got := text(call, b.Stream()); got != "uint32(0)" {
		t.Errorf("FunctionCall text = %q, want %q", got, "uint32(0)")
	}
}

func TestBuilderInto(t *testing.T) {
	src := New()
	expr := src.Gt(src.Filesize(), src.Int(10))

	dest := token.New()
	dest.Append(token.Token{Kind: token.CONDITION, Text: "condition"})
	dest.Append(token.Token{Kind: token.COLON, Text: ":"})
	dest.Append(token.Token{Kind: token.WHITESPACE, Text: " "})

	rehomed := Into(dest, src, expr, token.Invalid)
	if got := dest.Text(); got != "condition: filesize > 10" {
		t.Errorf("dest.Text() = %q, want %q", got, "condition: filesize > 10")
	}
	if src.Stream().Len() != 0 {
		t.Errorf("expected src stream drained after Into, len=%d", src.Stream().Len())
	}
	gt, ok := rehomed.(ast.Gt)
	if !ok {
		t.Fatalf("expected ast.Gt after rehome, got %T", rehomed)
	}
	if gt.Span.First == 0 || gt.Span.Last == 0 {
		t.Errorf("expected non-zero rehomed span, got %+v", gt.Span)
	}
}
