package token

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func tok(text string) Token { return Token{Kind: IDENT, Text: text} }

func TestStreamAppendAndText(t *testing.T) {
	s := New()
	s.Append(tok("rule"))
	s.Append(tok(" "))
	s.Append(tok("foo"))

	if got, want := s.Text(), "rule foo"; got != want {
		t.Errorf("Text() = %q, want %q", got, want)
	}
	if got, want := s.Len(), 3; got != want {
		t.Errorf("Len() = %d, want %d", got, want)
	}
}

func TestStreamInsertBeforeAfter(t *testing.T) {
	s := New()
	a := s.Append(tok("a"))
	c := s.Append(tok("c"))
	s.InsertBefore(c, tok("b"))

	if got, want := s.Text(), "abc"; got != want {
		t.Fatalf("Text() = %q, want %q", got, want)
	}

	s.InsertAfter(a, tok("X"))
	if got, want := s.Text(), "aXbc"; got != want {
		t.Errorf("Text() = %q, want %q", got, want)
	}
}

func TestStreamEraseRange(t *testing.T) {
	s := New()
	s.Append(tok("a"))
	b := s.Append(tok("b"))
	c := s.Append(tok("c"))
	s.Append(tok("d"))

	s.EraseRange(b, c)
	if got, want := s.Text(), "ad"; got != want {
		t.Errorf("Text() after erase = %q, want %q", got, want)
	}
	if got, want := s.Len(), 2; got != want {
		t.Errorf("Len() after erase = %d, want %d", got, want)
	}
}

func TestStreamSpliceRangeAcrossStreams(t *testing.T) {
	dest := New()
	x := dest.Append(tok("x"))
	dest.Append(tok("y"))

	src := New()
	src.Append(tok("1"))
	l := src.Append(tok("2"))

	dest.SpliceRange(src, src.Head(), l, x)
	if got, want := dest.Text(), "12xy"; got != want {
		t.Errorf("Text() after splice = %q, want %q", got, want)
	}
	if got, want := src.Len(), 0; got != want {
		t.Errorf("src.Len() after splice = %d, want %d (src should be emptied)", got, want)
	}
}

func TestStreamExchangeRanges(t *testing.T) {
	s := New()
	a := s.Append(tok("A"))
	s.Append(tok("-"))
	b := s.Append(tok("B"))
	s.Append(tok("-"))
	c := s.Append(tok("C"))
	s.Append(tok("-"))
	d := s.Append(tok("D"))

	s.ExchangeRanges(a, b, c, d)
	if got, want := s.Text(), "C-D-A-B"; got != want {
		t.Errorf("Text() after exchange = %q, want %q", got, want)
	}
}

func TestTokensSnapshotAfterSplice(t *testing.T) {
	dest := New()
	x := dest.Append(tok("x"))
	dest.Append(tok("y"))

	src := New()
	src.Append(tok("1"))
	l := src.Append(tok("2"))

	dest.SpliceRange(src, src.Head(), l, x)

	got := make([]string, 0, dest.Len())
	for _, tk := range dest.Tokens() {
		got = append(got, tk.Text)
	}
	want := []string{"1", "2", "x", "y"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Tokens() mismatch (-want +got):\n%s", diff)
	}
}

func TestRangeText(t *testing.T) {
	s := New()
	s.Append(tok("a"))
	b := s.Append(tok("b"))
	c := s.Append(tok("c"))
	s.Append(tok("d"))

	if got, want := s.RangeText(b, c), "bc"; got != want {
		t.Errorf("RangeText() = %q, want %q", got, want)
	}
}
