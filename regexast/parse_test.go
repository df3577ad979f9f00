package regexast

import "testing"

func TestParseConcatAndChar(t *testing.T) {
	n, err := Parse("abc")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	c, ok := n.(Concat)
	if !ok {
		t.Fatalf("expected Concat, got %T", n)
	}
	if len(c.Items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(c.Items))
	}
}

func TestParseAlternation(t *testing.T) {
	n, err := Parse("a|b")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if _, ok := n.(Or); !ok {
		t.Fatalf("expected Or, got %T", n)
	}
}

func TestParseShorthandClasses(t *testing.T) {
	n, err := Parse(`\w\d\s.`)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	c, ok := n.(Concat)
	if !ok || len(c.Items) != 4 {
		t.Fatalf("expected 4-item Concat, got %#v", n)
	}
	want := []Shorthand{Word, Digit, Space, AnyChar}
	for i, w := range want {
		sc, ok := c.Items[i].(ShorthandClass)
		if !ok {
			t.Fatalf("item %d: expected ShorthandClass, got %T", i, c.Items[i])
		}
		if sc.Kind != w {
			t.Errorf("item %d: Kind = %v, want %v", i, sc.Kind, w)
		}
	}
}

func TestParseQuantifiers(t *testing.T) {
	cases := []struct {
		src  string
		kind string
	}{
		{"a*", "Iteration"},
		{"a+", "PositiveIteration"},
		{"a?", "Optional"},
		{"a{2,4}", "Range"},
	}
	for _, tc := range cases {
		n, err := Parse(tc.src)
		if err != nil {
			t.Fatalf("Parse(%q) error: %v", tc.src, err)
		}
		switch tc.kind {
		case "Iteration":
			if _, ok := n.(Iteration); !ok {
				t.Errorf("Parse(%q) = %T, want Iteration", tc.src, n)
			}
		case "PositiveIteration":
			if _, ok := n.(PositiveIteration); !ok {
				t.Errorf("Parse(%q) = %T, want PositiveIteration", tc.src, n)
			}
		case "Optional":
			if _, ok := n.(Optional); !ok {
				t.Errorf("Parse(%q) = %T, want Optional", tc.src, n)
			}
		case "Range":
			r, ok := n.(Range)
			if !ok {
				t.Fatalf("Parse(%q) = %T, want Range", tc.src, n)
			}
			if r.Min == nil || *r.Min != 2 || r.Max == nil || *r.Max != 4 {
				t.Errorf("Range bounds = %v..%v, want 2..4", r.Min, r.Max)
			}
		}
	}
}

func TestParseCharacterClass(t *testing.T) {
	n, err := Parse("[a-zA-Z0-9]")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	cls, ok := n.(Class)
	if !ok {
		t.Fatalf("expected Class, got %T", n)
	}
	if cls.Negated {
		t.Error("expected non-negated class")
	}
	if cls.Original != "[a-zA-Z0-9]" {
		t.Errorf("Original = %q, want %q", cls.Original, "[a-zA-Z0-9]")
	}
	if len(cls.Items) != 3 {
		t.Errorf("expected 3 class items, got %d: %+v", len(cls.Items), cls.Items)
	}
}

func TestParseNegatedClass(t *testing.T) {
	n, err := Parse(`[^\x00-\x1f]`)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	cls, ok := n.(Class)
	if !ok || !cls.Negated {
		t.Fatalf("expected negated Class, got %#v", n)
	}
}

func TestParseGroup(t *testing.T) {
	n, err := Parse("(ab)+")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	pi, ok := n.(PositiveIteration)
	if !ok {
		t.Fatalf("expected PositiveIteration, got %T", n)
	}
	if _, ok := pi.Operand.(Group); !ok {
		t.Errorf("expected Group operand, got %T", pi.Operand)
	}
}
