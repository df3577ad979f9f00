package parser

import (
	"errors"
	"testing"

	"github.com/sansecio/yaraast/ast"
	"github.com/sansecio/yaraast/symbols"
	"github.com/sansecio/yaraast/yaraerr"
)

func mustParse(t *testing.T, src string, opts ...Option) *ast.YaraFile {
	t.Helper()
	f, err := New(opts...).Parse([]byte(src))
	if err != nil {
		t.Fatalf("Parse(%q) error: %v", src, err)
	}
	return f
}

func TestParseMinimalRule(t *testing.T) {
	f := mustParse(t, `rule foo { strings: $a = "text" condition: any of them }`)
	if len(f.Rules) != 1 {
		t.Fatalf("expected 1 rule, got %d", len(f.Rules))
	}
	r := f.Rules[0]
	if r.Name != "foo" {
		t.Errorf("Name = %q, want foo", r.Name)
	}
	if _, ok := r.Condition.(ast.Of); !ok {
		t.Errorf("Condition = %T, want ast.Of", r.Condition)
	}
	if len(r.Strings) != 1 || r.Strings[0].Name != "$a" {
		t.Errorf("unexpected Strings: %+v", r.Strings)
	}
}

func TestParseRoundTrip(t *testing.T) {
	src := "rule foo\n{\n\tcondition: filesize > 100\n}\n"
	f := mustParse(t, src)
	if got := f.Text(); got != src {
		t.Errorf("Text() = %q, want %q", got, src)
	}
}

func TestParseRuleModifiers(t *testing.T) {
	f := mustParse(t, `global private rule foo { condition: true }`)
	if f.Rules[0].Modifier != ast.PrivateGlobal {
		t.Errorf("Modifier = %v, want PrivateGlobal", f.Rules[0].Modifier)
	}
}

func TestParseMeta(t *testing.T) {
	f := mustParse(t, `rule foo {
		meta:
			author = "me"
			count = 3
			active = true
		condition: true
	}`)
	meta := f.Rules[0].Meta
	if len(meta) != 3 {
		t.Fatalf("expected 3 meta entries, got %d", len(meta))
	}
	if meta[0].Key != "author" || !meta[0].Value.IsString || meta[0].Value.Str != "me" {
		t.Errorf("meta[0] = %+v", meta[0])
	}
	if meta[1].Key != "count" || meta[1].Value.Int != 3 {
		t.Errorf("meta[1] = %+v", meta[1])
	}
	if meta[2].Key != "active" || !meta[2].Value.IsBool || !meta[2].Value.Bool {
		t.Errorf("meta[2] = %+v", meta[2])
	}
}

func TestParseBooleanChain(t *testing.T) {
	f := mustParse(t, `rule foo { condition: true and false or true }`)
	// 'and' binds tighter than 'or', so this is (true and false) or true.
	top, ok := f.Rules[0].Condition.(ast.Or)
	if !ok {
		t.Fatalf("expected top-level Or, got %T", f.Rules[0].Condition)
	}
	if _, ok := top.Left.(ast.And); !ok {
		t.Errorf("expected Or.Left to be And, got %T", top.Left)
	}
}

func TestParseComparisonAndArithmetic(t *testing.T) {
	f := mustParse(t, `rule foo { condition: filesize \ 2 > 100 }`)
	gt, ok := f.Rules[0].Condition.(ast.Gt)
	if !ok {
		t.Fatalf("expected Gt, got %T", f.Rules[0].Condition)
	}
	if _, ok := gt.Left.(ast.Divide); !ok {
		t.Errorf("expected Gt.Left to be Divide, got %T", gt.Left)
	}
}

func TestParseStringReferences(t *testing.T) {
	f := mustParse(t, `rule foo {
		strings:
			$a = "x"
		condition:
			$a and #a > 1 and @a[1] == 0 and !a == 3
	}`)
	if len(f.Rules[0].Strings) != 1 {
		t.Fatalf("expected 1 string def")
	}
	// Just confirm it parses to nested Ands without error; the string-ref
	// node kinds inside are not checked here.
	if _, ok := f.Rules[0].Condition.(ast.And); !ok {
		t.Errorf("expected And at top, got %T", f.Rules[0].Condition)
	}
}

func TestParseHexString(t *testing.T) {
	f := mustParse(t, `rule foo { strings: $a = { E2 34 ?? [1-3] ( 00 | 01 ) } condition: $a }`)
	hex, ok := f.Rules[0].Strings[0].Value.(ast.HexStringValue)
	if !ok {
		t.Fatalf("expected HexStringValue, got %T", f.Rules[0].Strings[0].Value)
	}
	if len(hex.Tokens) != 5 {
		t.Fatalf("expected 5 hex tokens, got %d: %+v", len(hex.Tokens), hex.Tokens)
	}
	if _, ok := hex.Tokens[4].(ast.HexAlt); !ok {
		t.Errorf("expected last token to be HexAlt, got %T", hex.Tokens[4])
	}
}

func TestParseHexJumpWithLowExceedingHighIsSyntaxError(t *testing.T) {
	_, err := New().Parse([]byte(`rule foo { strings: $a = { E2 [5-1] 34 } condition: $a }`))
	if err == nil {
		t.Fatal("expected a syntax error for a hex jump with low bound above high bound")
	}
	var yerrs *yaraerr.List
	if !errors.As(err, &yerrs) {
		t.Fatalf("expected *yaraerr.List, got %T", err)
	}
	found := false
	for _, e := range yerrs.Errors {
		if e.Kind == yaraerr.Syntax {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a Syntax-kind error among %+v", yerrs.Errors)
	}
}

func TestParseRegexString(t *testing.T) {
	f := mustParse(t, `rule foo { strings: $a = /ab+c/i condition: $a }`)
	rv, ok := f.Rules[0].Strings[0].Value.(ast.RegexStringValue)
	if !ok {
		t.Fatalf("expected RegexStringValue, got %T", f.Rules[0].Strings[0].Value)
	}
	if !rv.Modifiers.CaseInsensitive {
		t.Error("expected CaseInsensitive modifier")
	}
	if rv.Pattern == nil {
		t.Error("expected parsed regex pattern")
	}
}

func TestParseModuleAccess(t *testing.T) {
	f := mustParse(t, `import "pe"
rule foo { condition: pe.number_of_sections > 2 }`)
	gt := f.Rules[0].Condition.(ast.Gt)
	access, ok := gt.Left.(ast.StructAccess)
	if !ok {
		t.Fatalf("expected StructAccess, got %T", gt.Left)
	}
	if access.Field != "number_of_sections" {
		t.Errorf("Field = %q, want number_of_sections", access.Field)
	}
}

func TestParseUndeclaredModuleIsSemanticError(t *testing.T) {
	_, err := New(WithImportFeatures(symbols.VirusTotal)).Parse(
		[]byte(`import "cuckoo"
rule foo { condition: true }`))
	if err == nil {
		t.Fatal("expected semantic error for module unavailable under VirusTotal features")
	}
}

func TestParseForLoop(t *testing.T) {
	f := mustParse(t, `rule foo {
		strings:
			$a = "x"
		condition:
			for any i in (1..3) : ( @a[i] > 0 )
	}`)
	forInt, ok := f.Rules[0].Condition.(ast.ForInt)
	if !ok {
		t.Fatalf("expected ForInt, got %T", f.Rules[0].Condition)
	}
	if forInt.Variable != "i" {
		t.Errorf("Variable = %q, want i", forInt.Variable)
	}
	if _, ok := forInt.Iterable.(ast.Range); !ok {
		t.Errorf("expected Range iterable, got %T", forInt.Iterable)
	}
}

func TestParseDuplicateRuleNameIsSemanticError(t *testing.T) {
	_, err := New().Parse([]byte(`
		rule foo { condition: true }
		rule foo { condition: false }
	`))
	if err == nil {
		t.Fatal("expected semantic error for duplicate rule name")
	}
}

func TestParsePartialSuccessOnSyntaxError(t *testing.T) {
	f, err := New().Parse([]byte(`
		rule broken { condition:
		rule ok { condition: true }
	`))
	if err == nil {
		t.Fatal("expected a syntax error")
	}
	if f == nil {
		t.Fatal("expected a non-nil partial file even on error")
	}
}
