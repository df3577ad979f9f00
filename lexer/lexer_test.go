package lexer

import (
	"testing"

	"github.com/sansecio/yaraast/token"
)

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, 0, len(toks))
	for _, t := range toks {
		if t.Kind == token.WHITESPACE || t.Kind == token.NEW_LINE {
			continue
		}
		out = append(out, t.Kind)
	}
	return out
}

func mustLex(t *testing.T, src string) *token.Stream {
	t.Helper()
	s, err := New([]byte(src)).Lex()
	if err != nil {
		t.Fatalf("Lex(%q) error: %v", src, err)
	}
	return s
}

func TestLexMinimalRule(t *testing.T) {
	s := mustLex(t, `rule foo { condition: true }`)
	got := kinds(s.Tokens())
	want := []token.Kind{
		token.RULE, token.IDENT, token.LBRACE,
		token.CONDITION, token.COLON, token.TRUE, token.RBRACE,
	}
	if len(got) != len(want) {
		t.Fatalf("kind count = %d, want %d (%v)", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("kind[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestLexTextRoundTrip(t *testing.T) {
	src := "rule foo\n{\n\tcondition: filesize > 100\n}\n"
	s := mustLex(t, src)
	if got := s.Text(); got != src {
		t.Errorf("Text() = %q, want %q", got, src)
	}
}

func TestLexComments(t *testing.T) {
	src := "// header\nrule foo { condition: /* inline */ true }"
	s := mustLex(t, src)
	var sawLine, sawBlock bool
	for _, tok := range s.Tokens() {
		if tok.Kind == token.COMMENT_LINE {
			sawLine = true
		}
		if tok.Kind == token.COMMENT_BLOCK {
			sawBlock = true
		}
	}
	if !sawLine || !sawBlock {
		t.Errorf("expected both comment kinds, line=%v block=%v", sawLine, sawBlock)
	}
	if got := s.Text(); got != src {
		t.Errorf("Text() = %q, want %q", got, src)
	}
}

func TestLexDivisionIsBackslash(t *testing.T) {
	s := mustLex(t, `rule foo { condition: filesize \ 2 > 0 }`)
	got := kinds(s.Tokens())
	foundBackslash := false
	for _, k := range got {
		if k == token.BACKSLASH {
			foundBackslash = true
		}
	}
	if !foundBackslash {
		t.Errorf("expected BACKSLASH (division) token, got %v", got)
	}
}

func TestLexBareSlashIsRegex(t *testing.T) {
	s := mustLex(t, `rule foo { condition: $a matches /abc/i }`)
	var sawRegex bool
	for _, tok := range s.Tokens() {
		if tok.Kind == token.REGEXP {
			sawRegex = true
			if tok.Text != "/abc/i" {
				t.Errorf("REGEXP text = %q, want %q", tok.Text, "/abc/i")
			}
		}
	}
	if !sawRegex {
		t.Error("expected a REGEXP token")
	}
}

func TestLexStringDefinitionWithModifiers(t *testing.T) {
	s := mustLex(t, "rule foo { strings: $a = \"bar\" nocase wide condition: $a }")
	got := kinds(s.Tokens())
	want := []token.Kind{
		token.RULE, token.IDENT, token.LBRACE,
		token.STRINGS, token.COLON,
		token.STRING_IDENT, token.EQUALS, token.STRING_LITERAL, token.NOCASE, token.WIDE,
		token.CONDITION, token.COLON, token.STRING_IDENT, token.RBRACE,
	}
	if len(got) != len(want) {
		t.Fatalf("kind count = %d, want %d\ngot:  %v\nwant: %v", len(got), len(want), got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("kind[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestLexHexString(t *testing.T) {
	s := mustLex(t, "rule foo { strings: $a = { E2 34 ?? ?1 [2-4] } condition: $a }")
	var sawJump, sawWildcard bool
	for _, tok := range s.Tokens() {
		switch tok.Kind {
		case token.HEX_JUMP:
			sawJump = true
			if tok.Text != "[2-4]" {
				t.Errorf("HEX_JUMP text = %q", tok.Text)
			}
		case token.HEX_WILDCARD:
			sawWildcard = true
		}
	}
	if !sawJump || !sawWildcard {
		t.Errorf("missing expected hex tokens: jump=%v wildcard=%v", sawJump, sawWildcard)
	}
}

func TestLexIntegerSizeSuffix(t *testing.T) {
	s := mustLex(t, `rule foo { condition: filesize > 10KB }`)
	for _, tok := range s.Tokens() {
		if tok.Kind == token.INTEGER {
			if tok.Literal.Int != 10*1024 {
				t.Errorf("INTEGER value = %d, want %d", tok.Literal.Int, 10*1024)
			}
			if tok.Literal.SizeUnit != "KB" {
				t.Errorf("SizeUnit = %q, want KB", tok.Literal.SizeUnit)
			}
		}
	}
}

func TestLexUnterminatedStringIsError(t *testing.T) {
	_, err := New([]byte(`rule foo { strings: $a = "unterminated condition: $a }`)).Lex()
	if err == nil {
		t.Fatal("expected lexical error for unterminated string")
	}
}
