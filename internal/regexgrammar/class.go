// Package regexgrammar parses the body of a YARA regex character class
// (the text between `[` and `]`, negation marker already stripped) using a
// participle struct-tag grammar. Character classes are the one piece of the
// regex mini-language with a clean, self-contained token grammar (a
// sequence of singleton chars, char-char ranges, and shorthand escapes),
// which is exactly the shape alecthomas/participle is for; the rest of the
// regex grammar (alternation, quantifiers, greediness) is driven by the
// surrounding precedence-climbing parser in regexast, since participle's
// struct tags do not express "optional comma disambiguates {n} vs {n,}"
// cleanly.
package regexgrammar

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var classLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Shorthand", Pattern: `\\[wWsSdD]`},
	{Name: "HexEsc", Pattern: `\\x[0-9A-Fa-f]{2}`},
	{Name: "Esc", Pattern: `\\.`},
	{Name: "Dash", Pattern: `-`},
	{Name: "Char", Pattern: `.`},
})

// classItem is one participle-parsed member of a class body.
type classItem struct {
	Shorthand string `parser:"( @Shorthand"`
	HexEsc    string `parser:"| @HexEsc"`
	Esc       string `parser:"| @Esc"`
	Lo        string `parser:"| @(Char|Dash) )"`
	Dash      string `parser:"@Dash?"`
	Hi        string `parser:"@(Char|Dash|Esc|HexEsc)?"`
}

type classBody struct {
	Items []*classItem `parser:"@@*"`
}

var classParser = participle.MustBuild[classBody](
	participle.Lexer(classLexer),
	participle.UseLookahead(2),
)

// Item is one resolved class member: either a shorthand escape (Shorthand
// non-empty) or a rune range [Lo, Hi] (Hi == Lo for a singleton).
type Item struct {
	Shorthand string // "\w", "\s", "\d", "\W", "\S", "\D", or "" if not a shorthand
	Lo, Hi    rune
}

// Parse parses a class body (no surrounding brackets, no leading `^`).
func Parse(body string) ([]Item, error) {
	parsed, err := classParser.ParseString("", body)
	if err != nil {
		return nil, err
	}
	var items []Item
	for _, it := range parsed.Items {
		if it.Shorthand != "" {
			items = append(items, Item{Shorthand: it.Shorthand})
		} else {
			// exactly one of Lo, HexEsc, Esc holds the first char
			lo := decodeRune(it.Lo + it.HexEsc + it.Esc)
			if it.Dash != "" && it.Hi != "" {
				items = append(items, Item{Lo: lo, Hi: decodeRune(it.Hi)})
				continue
			}
			items = append(items, Item{Lo: lo, Hi: lo})
		}
		if it.Dash != "" {
			// trailing literal dash, e.g. "[a-]"
			items = append(items, Item{Lo: '-', Hi: '-'})
		}
		if it.Hi != "" {
			// no dash in between: Hi is a singleton of its own, e.g. "b" in "[ab]"
			hi := decodeRune(it.Hi)
			items = append(items, Item{Lo: hi, Hi: hi})
		}
	}
	return items, nil
}

func decodeRune(tok string) rune {
	switch {
	case len(tok) >= 2 && tok[0] == '\\' && tok[1] == 'x' && len(tok) == 4:
		var v rune
		for _, c := range tok[2:] {
			v <<= 4
			switch {
			case c >= '0' && c <= '9':
				v |= rune(c - '0')
			case c >= 'a' && c <= 'f':
				v |= rune(c-'a') + 10
			case c >= 'A' && c <= 'F':
				v |= rune(c-'A') + 10
			}
		}
		return v
	case len(tok) >= 2 && tok[0] == '\\':
		return rune(tok[1])
	default:
		r := []rune(tok)
		if len(r) == 0 {
			return 0
		}
		return r[0]
	}
}
