package visitor

import (
	"testing"

	"github.com/sansecio/yaraast/ast"
	"github.com/sansecio/yaraast/builder"
	"github.com/sansecio/yaraast/parser"
)

func TestWalkCountsNodes(t *testing.T) {
	b := builder.New()
	cond := b.And(b.Gt(b.Filesize(), b.Int(100)), b.Bool(true))

	var count int
	Walk(cond, ObserverFunc(func(ast.Expr) { count++ }))
	// And, Gt, Filesize, Int(100), Bool(true) = 5 nodes.
	if count != 5 {
		t.Errorf("Walk visited %d nodes, want 5", count)
	}
}

func TestWalkFileVisitsEveryRuleCondition(t *testing.T) {
	b := builder.New()
	f := &ast.YaraFile{Rules: []*ast.Rule{
		{Name: "a", Condition: b.Bool(true)},
		{Name: "b", Condition: b.Bool(false)},
	}}

	var seen []ast.Expr
	WalkFile(f, ObserverFunc(func(e ast.Expr) { seen = append(seen, e) }))
	if len(seen) != 2 {
		t.Fatalf("expected 2 visited roots, got %d", len(seen))
	}
}

type replaceAll struct {
	match func(ast.Expr) bool
	with  ast.Expr
}

func (r replaceAll) VisitExpr(e ast.Expr) Result {
	if r.match(e) {
		return ReplaceWith(r.with)
	}
	return KeepResult()
}

func TestRewriteReplace(t *testing.T) {
	b := builder.New()
	cond := b.Gt(b.Filesize(), b.Int(100))

	v := replaceAll{
		match: func(e ast.Expr) bool { _, ok := e.(ast.Filesize); return ok },
		with:  b.Entrypoint(),
	}
	out, ok := Rewrite(b.Stream(), cond, v)
	if !ok {
		t.Fatal("expected rewrite to keep the root")
	}
	gt := out.(ast.Gt)
	if _, ok := gt.Left.(ast.Entrypoint); !ok {
		t.Errorf("expected Left replaced with Entrypoint, got %T", gt.Left)
	}
	if got, want := b.Stream().Text(), "entrypoint > 100"; got != want {
		t.Errorf("Stream().Text() = %q, want %q", got, want)
	}
}

type deleteMatching struct {
	match func(ast.Expr) bool
}

func (d deleteMatching) VisitExpr(e ast.Expr) Result {
	if d.match(e) {
		return DeleteResult()
	}
	return KeepResult()
}

func TestRewriteDeleteAndAbsorption(t *testing.T) {
	b := builder.New()
	// Delete the right operand (Bool(false)) of an And: absorbed as `true`.
	cond := b.And(b.Gt(b.Filesize(), b.Int(100)), b.Bool(false))

	v := deleteMatching{match: func(e ast.Expr) bool {
		bl, ok := e.(ast.BoolLiteral)
		return ok && !bl.Value
	}}
	out, ok := Rewrite(b.Stream(), cond, v)
	if !ok {
		t.Fatal("expected root to survive (only a child was deleted)")
	}
	and := out.(ast.And)
	right, ok := and.Right.(ast.BoolLiteral)
	if !ok || !right.Value {
		t.Errorf("expected And.Right absorbed to BoolLiteral(true), got %+v", and.Right)
	}
	if got, want := b.Stream().Text(), "filesize > 100 and true"; got != want {
		t.Errorf("Stream().Text() = %q, want %q", got, want)
	}
}

func TestRewriteDeleteOrAbsorption(t *testing.T) {
	b := builder.New()
	cond := b.Or(b.Bool(true), b.Bool(false))

	v := deleteMatching{match: func(e ast.Expr) bool {
		bl, ok := e.(ast.BoolLiteral)
		return ok && bl.Value
	}}
	out, ok := Rewrite(b.Stream(), cond, v)
	if !ok {
		t.Fatal("expected root to survive")
	}
	or := out.(ast.Or)
	left, ok := or.Left.(ast.BoolLiteral)
	if !ok || left.Value {
		t.Errorf("expected Or.Left absorbed to BoolLiteral(false), got %+v", or.Left)
	}
	if got, want := b.Stream().Text(), "false or false"; got != want {
		t.Errorf("Stream().Text() = %q, want %q", got, want)
	}
}

func TestRewriteDeleteSetElementDropsIt(t *testing.T) {
	b := builder.New()
	set := b.Set(b.Int(1), b.Int(2), b.Int(3))

	v := deleteMatching{match: func(e ast.Expr) bool {
		il, ok := e.(ast.IntLiteral)
		return ok && il.Value.IntVal == 2
	}}
	out, ok := Rewrite(b.Stream(), set, v)
	if !ok {
		t.Fatal("expected Set itself to survive")
	}
	s := out.(ast.Set)
	if len(s.Elements) != 2 {
		t.Fatalf("expected 2 remaining elements, got %d", len(s.Elements))
	}
	if got, want := b.Stream().Text(), "(1, 3)"; got != want {
		t.Errorf("Stream().Text() = %q, want %q: the dropped element must not leave a dangling comma", got, want)
	}
}

func TestRewriteDeleteRequiredChildIsNoOp(t *testing.T) {
	b := builder.New()
	cond := b.Gt(b.Filesize(), b.Int(100))

	v := deleteMatching{match: func(e ast.Expr) bool {
		_, ok := e.(ast.Filesize)
		return ok
	}}
	out, ok := Rewrite(b.Stream(), cond, v)
	if !ok {
		t.Fatal("expected root to survive")
	}
	gt := out.(ast.Gt)
	if _, ok := gt.Left.(ast.Filesize); !ok {
		t.Errorf("expected deletion of a required child to be a no-op, got %T", gt.Left)
	}
	if got, want := b.Stream().Text(), "filesize > 100"; got != want {
		t.Errorf("Stream().Text() = %q, want %q: rejecting the deletion of a required child must still render its original text", got, want)
	}
}

func TestRewriteFileRootDeletionDefaultsToTrue(t *testing.T) {
	b := builder.New()
	f := &ast.YaraFile{
		Stream: b.Stream(),
		Rules:  []*ast.Rule{{Name: "foo", Condition: b.Bool(false), Stream: b.Stream()}},
	}
	v := deleteMatching{match: func(e ast.Expr) bool {
		bl, ok := e.(ast.BoolLiteral)
		return ok && !bl.Value
	}}
	RewriteFile(f, v)
	bl, ok := f.Rules[0].Condition.(ast.BoolLiteral)
	if !ok || !bl.Value {
		t.Errorf("expected root-deleted condition to default to BoolLiteral(true), got %+v", f.Rules[0].Condition)
	}
	if got, want := f.Text(), "true"; got != want {
		t.Errorf("f.Text() = %q, want %q", got, want)
	}
}

type swapEqToNeq struct{}

func (swapEqToNeq) VisitExpr(e ast.Expr) Result {
	eq, ok := e.(ast.Eq)
	if !ok {
		return KeepResult()
	}
	return ReplaceWith(ast.Neq{BinaryBase: ast.BinaryBase{
		Span:  eq.Span,
		Left:  eq.Right,
		Right: eq.Left,
	}})
}

func TestRewriteReplaceSwapsOperandsInRenderedText(t *testing.T) {
	f, err := parser.New().Parse([]byte("rule r {\n\tcondition:\n\t\t$a == $b\n}\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	r := f.Rules[0]
	out, ok := Rewrite(f.Stream, r.Condition, swapEqToNeq{})
	if !ok {
		t.Fatal("expected the condition to survive")
	}
	r.Condition = out

	neq, ok := out.(ast.Neq)
	if !ok {
		t.Fatalf("expected Neq, got %T", out)
	}
	if got, want := neq.Range().Text(f.Stream), "$b != $a"; got != want {
		t.Errorf("rewritten condition text = %q, want %q", got, want)
	}
}

func TestReplaceMetaValueUpdatesText(t *testing.T) {
	f, err := parser.New().Parse([]byte("rule r {\n\tmeta:\n\t\tscore = 10\n\tcondition:\n\t\ttrue\n}\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	m := f.Rules[0].Meta[0]

	ReplaceMetaValue(f.Stream, m, ast.MetaValue{Int: 20, Printed: "20"})

	if m.Value.Int != 20 {
		t.Errorf("m.Value.Int = %d, want 20", m.Value.Int)
	}
	if got, want := m.Span.Text(f.Stream), "score = 20"; got != want {
		t.Errorf("meta entry text = %q, want %q", got, want)
	}
}
