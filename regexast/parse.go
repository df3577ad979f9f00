package regexast

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sansecio/yaraast/internal/regexgrammar"
)

// Parse parses the body of a YARA regex literal (the text between the
// opening and closing `/`, with any trailing `i`/`s` modifier already
// stripped by the caller). It implements the precedence-climbing grammar
// described in spec.md §4.3: alternation of concatenations of quantified
// atoms, with classes delegated to internal/regexgrammar.
func Parse(body string) (Node, error) {
	p := &parser{src: body}
	n, err := p.parseAlt()
	if err != nil {
		return nil, err
	}
	if p.pos != len(p.src) {
		return nil, fmt.Errorf("regexast: unexpected %q at offset %d", p.src[p.pos], p.pos)
	}
	return n, nil
}

type parser struct {
	src string
	pos int
}

func (p *parser) eof() bool { return p.pos >= len(p.src) }

func (p *parser) peek() byte {
	if p.eof() {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) parseAlt() (Node, error) {
	left, err := p.parseConcat()
	if err != nil {
		return nil, err
	}
	if !p.eof() && p.peek() == '|' {
		p.pos++
		right, err := p.parseAlt()
		if err != nil {
			return nil, err
		}
		return Or{Left: left, Right: right}, nil
	}
	return left, nil
}

func (p *parser) parseConcat() (Node, error) {
	var items []Node
	for !p.eof() && p.peek() != '|' && p.peek() != ')' {
		item, err := p.parseQuantified()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	switch len(items) {
	case 0:
		return Concat{}, nil
	case 1:
		return items[0], nil
	default:
		return Concat{Items: items}, nil
	}
}

func (p *parser) parseQuantified() (Node, error) {
	atom, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	for !p.eof() {
		switch p.peek() {
		case '*':
			p.pos++
			atom = Iteration{Operand: atom, Greedy: p.consumeGreedy()}
		case '+':
			p.pos++
			atom = PositiveIteration{Operand: atom, Greedy: p.consumeGreedy()}
		case '?':
			p.pos++
			atom = Optional{Operand: atom, Greedy: p.consumeGreedy()}
		case '{':
			if r, ok, err := p.tryParseRange(atom); err != nil {
				return nil, err
			} else if ok {
				atom = r
				continue
			}
			return atom, nil
		default:
			return atom, nil
		}
	}
	return atom, nil
}

// consumeGreedy implements the tie-break in spec.md §4.3: a trailing `?`
// after a quantifier sets greedy=false; its absence leaves greedy=true.
func (p *parser) consumeGreedy() bool {
	if !p.eof() && p.peek() == '?' {
		p.pos++
		return false
	}
	return true
}

// tryParseRange attempts to parse a `{n,m}` bound at the current position.
// Returns ok=false (and rewinds) if what follows `{` isn't a valid bound,
// treating `{` as a literal character instead — matching how regex engines
// disambiguate `{` as either a quantifier opener or a literal.
func (p *parser) tryParseRange(operand Node) (Node, bool, error) {
	start := p.pos
	p.pos++ // consume '{'

	min, hasMin := p.tryReadInt()
	var max *int
	hasComma := false
	if !p.eof() && p.peek() == ',' {
		hasComma = true
		p.pos++
		if m, ok := p.tryReadInt(); ok {
			max = &m
		}
	}
	if p.eof() || p.peek() != '}' {
		p.pos = start
		return nil, false, nil
	}
	p.pos++ // consume '}'

	var minPtr *int
	if hasMin {
		minPtr = &min
	}
	if !hasComma && hasMin {
		max = &min // {n} means exactly n: min==max
	}
	if !hasMin && !hasComma {
		p.pos = start
		return nil, false, nil
	}
	return Range{Operand: operand, Min: minPtr, Max: max, Greedy: p.consumeGreedy()}, true, nil
}

func (p *parser) tryReadInt() (int, bool) {
	start := p.pos
	for !p.eof() && p.src[p.pos] >= '0' && p.src[p.pos] <= '9' {
		p.pos++
	}
	if p.pos == start {
		return 0, false
	}
	v, _ := strconv.Atoi(p.src[start:p.pos])
	return v, true
}

func (p *parser) parseAtom() (Node, error) {
	if p.eof() {
		return nil, fmt.Errorf("regexast: unexpected end of pattern")
	}
	switch c := p.peek(); c {
	case '(':
		p.pos++
		inner, err := p.parseAlt()
		if err != nil {
			return nil, err
		}
		if p.eof() || p.peek() != ')' {
			return nil, fmt.Errorf("regexast: unterminated group at offset %d", p.pos)
		}
		p.pos++
		return Group{Inner: inner}, nil
	case '[':
		return p.parseClass()
	case '.':
		p.pos++
		return ShorthandClass{Kind: AnyChar}, nil
	case '^':
		p.pos++
		return StartOfLine{}, nil
	case '$':
		p.pos++
		return EndOfLine{}, nil
	case '\\':
		return p.parseEscape()
	default:
		r, size := decodeRuneAt(p.src, p.pos)
		p.pos += size
		return Text{Char: r}, nil
	}
}

func (p *parser) parseEscape() (Node, error) {
	start := p.pos
	p.pos++ // skip backslash
	if p.eof() {
		return nil, fmt.Errorf("regexast: dangling backslash at offset %d", start)
	}
	c := p.src[p.pos]
	p.pos++
	switch c {
	case 'w':
		return ShorthandClass{Kind: Word}, nil
	case 'W':
		return ShorthandClass{Kind: NotWord}, nil
	case 's':
		return ShorthandClass{Kind: Space}, nil
	case 'S':
		return ShorthandClass{Kind: NotSpace}, nil
	case 'd':
		return ShorthandClass{Kind: Digit}, nil
	case 'D':
		return ShorthandClass{Kind: NotDigit}, nil
	case 'b':
		return ShorthandClass{Kind: WordBoundary}, nil
	case 'B':
		return ShorthandClass{Kind: NotWordBoundary}, nil
	case 'x':
		if p.pos+2 <= len(p.src) {
			v, err := strconv.ParseUint(p.src[p.pos:p.pos+2], 16, 8)
			if err == nil {
				p.pos += 2
				return Text{Char: rune(v)}, nil
			}
		}
		return Text{Char: 'x'}, nil
	default:
		return Text{Char: rune(c)}, nil
	}
}

func (p *parser) parseClass() (Node, error) {
	start := p.pos
	p.pos++ // consume '['
	negated := false
	if !p.eof() && p.peek() == '^' {
		negated = true
		p.pos++
	}
	bodyStart := p.pos
	// A leading ']' is a literal member, not the closer.
	if !p.eof() && p.peek() == ']' {
		p.pos++
	}
	for !p.eof() && p.peek() != ']' {
		if p.peek() == '\\' && p.pos+1 < len(p.src) {
			p.pos += 2
			continue
		}
		p.pos++
	}
	if p.eof() {
		return nil, fmt.Errorf("regexast: unterminated character class at offset %d", start)
	}
	body := p.src[bodyStart:p.pos]
	p.pos++ // consume ']'

	items, err := regexgrammar.Parse(body)
	if err != nil {
		return nil, fmt.Errorf("regexast: invalid character class %q: %w", body, err)
	}
	var classItems []ClassItem
	for _, it := range items {
		if it.Shorthand != "" {
			classItems = append(classItems, shorthandRange(it.Shorthand)...)
			continue
		}
		classItems = append(classItems, ClassItem{Lo: it.Lo, Hi: it.Hi})
	}
	return Class{
		Negated:  negated,
		Items:    classItems,
		Original: p.src[start:p.pos],
	}, nil
}

// shorthandRange expands a nested shorthand (e.g. "[\d\s]") into concrete
// ranges for the Class.Items membership test, while Class.Original keeps
// the unexpanded source text for exact round-trip rendering.
func shorthandRange(s string) []ClassItem {
	switch s {
	case `\d`:
		return []ClassItem{{Lo: '0', Hi: '9'}}
	case `\D`:
		return []ClassItem{{Lo: 0, Hi: '0' - 1}, {Lo: '9' + 1, Hi: 0x10FFFF}}
	case `\w`:
		return []ClassItem{{Lo: '0', Hi: '9'}, {Lo: 'A', Hi: 'Z'}, {Lo: 'a', Hi: 'z'}, {Lo: '_', Hi: '_'}}
	case `\s`:
		return []ClassItem{{Lo: ' ', Hi: ' '}, {Lo: '\t', Hi: '\t'}, {Lo: '\n', Hi: '\n'}, {Lo: '\r', Hi: '\r'}, {Lo: '\f', Hi: '\f'}, {Lo: '\v', Hi: '\v'}}
	default:
		return nil
	}
}

func decodeRuneAt(s string, i int) (rune, int) {
	if i >= len(s) {
		return 0, 0
	}
	if s[i] < 0x80 {
		return rune(s[i]), 1
	}
	for j := 1; j <= 4 && i+j <= len(s); j++ {
		r := []rune(s[i : i+j])
		if len(r) == 1 {
			return r[0], j
		}
	}
	return rune(s[i]), 1
}

// Render renders a Node back to YARA regex syntax — the inverse of Parse.
func Render(n Node) string {
	var b strings.Builder
	render(&b, n)
	return b.String()
}

func render(b *strings.Builder, n Node) {
	switch v := n.(type) {
	case Text:
		b.WriteRune(v.Char)
	case Concat:
		for _, it := range v.Items {
			render(b, it)
		}
	case Or:
		render(b, v.Left)
		b.WriteByte('|')
		render(b, v.Right)
	case Class:
		b.WriteString(v.Original)
	case ShorthandClass:
		b.WriteString(shorthandText(v.Kind))
	case StartOfLine:
		b.WriteByte('^')
	case EndOfLine:
		b.WriteByte('$')
	case Group:
		b.WriteByte('(')
		render(b, v.Inner)
		b.WriteByte(')')
	case Iteration:
		render(b, v.Operand)
		b.WriteByte('*')
		writeGreedy(b, v.Greedy)
	case PositiveIteration:
		render(b, v.Operand)
		b.WriteByte('+')
		writeGreedy(b, v.Greedy)
	case Optional:
		render(b, v.Operand)
		b.WriteByte('?')
		writeGreedy(b, v.Greedy)
	case Range:
		render(b, v.Operand)
		b.WriteByte('{')
		if v.Min != nil {
			fmt.Fprintf(b, "%d", *v.Min)
		}
		if v.Max == nil || v.Min == nil || *v.Max != *v.Min {
			b.WriteByte(',')
			if v.Max != nil {
				fmt.Fprintf(b, "%d", *v.Max)
			}
		}
		b.WriteByte('}')
		writeGreedy(b, v.Greedy)
	}
}

func writeGreedy(b *strings.Builder, greedy bool) {
	if !greedy {
		b.WriteByte('?')
	}
}

func shorthandText(k Shorthand) string {
	switch k {
	case Word:
		return `\w`
	case NotWord:
		return `\W`
	case Space:
		return `\s`
	case NotSpace:
		return `\S`
	case Digit:
		return `\d`
	case NotDigit:
		return `\D`
	case AnyChar:
		return `.`
	case WordBoundary:
		return `\b`
	case NotWordBoundary:
		return `\B`
	}
	return ""
}
