// Package parser builds an ast.YaraFile from a token.Stream produced by
// package lexer, resolving module/rule identifiers against a symbols.Table
// as it goes (spec.md §4.2, §4.4).
package parser

import (
	"strconv"
	"strings"

	"github.com/sansecio/yaraast/ast"
	"github.com/sansecio/yaraast/lexer"
	"github.com/sansecio/yaraast/literal"
	"github.com/sansecio/yaraast/regexast"
	"github.com/sansecio/yaraast/symbols"
	"github.com/sansecio/yaraast/token"
	"github.com/sansecio/yaraast/yaraerr"
)

// Option configures a Parser.
type Option func(*Parser)

// WithImportFeatures selects which module catalog import statements may
// reference (spec.md §6). Defaults to symbols.VirusTotal.
func WithImportFeatures(f symbols.ImportFeatures) Option {
	return func(p *Parser) { p.features = f }
}

// Parser holds the configuration for repeated Parse calls; it carries no
// per-parse state itself.
type Parser struct {
	features symbols.ImportFeatures
}

// New constructs a Parser with the given options.
func New(opts ...Option) *Parser {
	p := &Parser{features: symbols.VirusTotal}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Parse lexes and parses src into a *ast.YaraFile. Per spec.md §4.2/§4.9's
// partial-success guarantee, a non-nil error never discards the file: the
// returned *ast.YaraFile always carries the full TokenStream produced by
// the lexer, plus every ast.Rule successfully parsed before the failure.
func (p *Parser) Parse(src []byte) (*ast.YaraFile, error) {
	stream, lexErr := lexer.New(src).Lex()

	c := &cursor{stream: stream, errs: &yaraerr.List{}}
	if lexErr != nil {
		if le, ok := lexErr.(*lexer.Error); ok {
			c.errs.Add(yaraerr.New(yaraerr.Lexical, le.Pos, "%s", le.Message))
		} else {
			c.errs.Add(yaraerr.New(yaraerr.Lexical, token.Position{}, "%s", lexErr.Error()))
		}
	}

	ps := &parseState{cursor: c, table: symbols.NewTable(p.features)}
	file := ps.parseFile()
	file.Stream = stream
	for _, r := range file.Rules {
		r.Stream = stream
	}

	if c.errs.HasErrors() {
		return file, c.errs
	}
	return file, nil
}

// cursor walks the live (non-trivia) tokens of a Stream while keeping the
// underlying stream intact for round-trip rendering.
type cursor struct {
	stream *token.Stream
	h      token.Handle
	errs   *yaraerr.List
}

func isTrivia(k token.Kind) bool {
	switch k {
	case token.WHITESPACE, token.NEW_LINE, token.COMMENT_LINE, token.COMMENT_BLOCK:
		return true
	default:
		return false
	}
}

func (c *cursor) init() {
	c.h = c.stream.Head()
	c.skipTrivia()
}

func (c *cursor) skipTrivia() {
	for c.h != token.Invalid && isTrivia(c.stream.Token(c.h).Kind) {
		c.h = c.stream.Next(c.h)
	}
}

func (c *cursor) cur() token.Token {
	if c.h == token.Invalid {
		return token.Token{Kind: token.EOF}
	}
	return c.stream.Token(c.h)
}

func (c *cursor) kind() token.Kind { return c.cur().Kind }

func (c *cursor) handle() token.Handle { return c.h }

func (c *cursor) advance() token.Token {
	t := c.cur()
	if c.h != token.Invalid {
		c.h = c.stream.Next(c.h)
		c.skipTrivia()
	}
	return t
}

func (c *cursor) at(k token.Kind) bool { return c.kind() == k }

func (c *cursor) expect(k token.Kind) (token.Token, bool) {
	if c.kind() != k {
		c.errs.Add(yaraerr.NewAt(yaraerr.Syntax, c.cur(), "expected %s, found %s %q", k, c.kind(), c.cur().Text))
		return c.cur(), false
	}
	return c.advance(), true
}

// syncTo advances past tokens until one of the given kinds (or EOF) is
// reached, the recovery strategy for the partial-success guarantee: one
// malformed rule doesn't stop the rest of the file from parsing.
func (c *cursor) syncTo(kinds ...token.Kind) {
	for c.kind() != token.EOF {
		for _, k := range kinds {
			if c.kind() == k {
				return
			}
		}
		c.advance()
	}
}

type parseState struct {
	*cursor
	table      *symbols.Table
	curRule    *ast.Rule
	curStrings []*ast.StringDef
}

func (ps *parseState) parseFile() *ast.YaraFile {
	ps.init()
	file := &ast.YaraFile{}
	for ps.kind() != token.EOF {
		switch ps.kind() {
		case token.IMPORT:
			ps.advance()
			str, ok := ps.expect(token.STRING_LITERAL)
			if ok {
				name := str.Literal.Str
				file.Imports = append(file.Imports, name)
				if !ps.moduleAllowed(name) {
					ps.errs.Add(yaraerr.NewAt(yaraerr.Semantic, str, "module %q is not available under the configured import features", name))
				}
			}
		case token.GLOBAL, token.PRIVATE, token.RULE:
			rule := ps.parseRule()
			if rule != nil {
				if _, dup := file.RuleByName(rule.Name); dup {
					ps.errs.Add(yaraerr.New(yaraerr.Semantic, ps.cur().Pos, "duplicate rule name %q", rule.Name))
				} else {
					ps.table.DeclareRule(rule.Name)
				}
				file.Rules = append(file.Rules, rule)
			}
		default:
			ps.errs.Add(yaraerr.NewAt(yaraerr.Syntax, ps.cur(), "unexpected token %s at top level", ps.kind()))
			ps.syncTo(token.GLOBAL, token.PRIVATE, token.RULE, token.IMPORT)
		}
	}
	return file
}

func (ps *parseState) moduleAllowed(name string) bool {
	_, ok := ps.table.Module(name)
	return ok
}

func (ps *parseState) parseRule() *ast.Rule {
	startH := ps.handle()
	mod := ast.Empty
	sawGlobal, sawPrivate := false, false
	for ps.kind() == token.GLOBAL || ps.kind() == token.PRIVATE {
		if ps.kind() == token.GLOBAL {
			sawGlobal = true
		} else {
			sawPrivate = true
		}
		ps.advance()
	}
	switch {
	case sawGlobal && sawPrivate:
		mod = ast.PrivateGlobal
	case sawGlobal:
		mod = ast.Global
	case sawPrivate:
		mod = ast.Private
	}

	if _, ok := ps.expect(token.RULE); !ok {
		ps.syncTo(token.LBRACE, token.RULE, token.GLOBAL, token.PRIVATE)
		return nil
	}
	nameTok, ok := ps.expect(token.IDENT)
	if !ok {
		ps.syncTo(token.LBRACE)
	}
	name := nameTok.Literal.Str

	var tags []string
	if ps.at(token.COLON) {
		ps.advance()
		for ps.at(token.IDENT) {
			tags = append(tags, ps.advance().Literal.Str)
		}
	}

	if _, ok := ps.expect(token.LBRACE); !ok {
		ps.syncTo(token.RBRACE)
		ps.advance()
		return nil
	}

	rule := &ast.Rule{Name: name, Modifier: mod, Tags: tags}
	ps.curRule = rule
	ps.curStrings = nil

	for ps.kind() == token.META || ps.kind() == token.STRINGS {
		if ps.kind() == token.META {
			ps.advance()
			ps.expect(token.COLON)
			rule.Meta = ps.parseMeta()
		} else {
			ps.advance()
			ps.expect(token.COLON)
			rule.Strings = ps.parseStrings()
			ps.curStrings = rule.Strings
		}
	}

	if ps.at(token.CONDITION) {
		ps.advance()
		ps.expect(token.COLON)
		rule.Condition = ps.parseExpr()
	} else {
		ps.errs.Add(yaraerr.NewAt(yaraerr.Syntax, ps.cur(), "expected condition section"))
	}

	endH := ps.handle()
	ps.expect(token.RBRACE)
	rule.Span = spanBetween(startH, ps.stream, endH)
	ps.curRule = nil
	return rule
}

func spanBetween(start token.Handle, stream *token.Stream, endExclusive token.Handle) ast.Span {
	last := stream.Prev(endExclusive)
	if last == token.Invalid {
		last = stream.Tail()
	}
	// Trivia between the node's last token and the cursor is not part of it.
	for last != start && last != token.Invalid && isTrivia(stream.Token(last).Kind) {
		last = stream.Prev(last)
	}
	return ast.Span{First: start, Last: last}
}

func (ps *parseState) parseMeta() []*ast.MetaEntry {
	var out []*ast.MetaEntry
	for ps.at(token.IDENT) {
		startH := ps.handle()
		key := ps.advance().Literal.Str
		ps.expect(token.EQUALS)
		var val ast.MetaValue
		switch ps.kind() {
		case token.STRING_LITERAL:
			t := ps.advance()
			val = ast.MetaValue{IsString: true, Str: t.Literal.Str}
		case token.TRUE, token.FALSE:
			t := ps.advance()
			val = ast.MetaValue{IsBool: true, Bool: t.Kind == token.TRUE}
		case token.INTEGER:
			t := ps.advance()
			val = ast.MetaValue{Int: t.Literal.Int, Printed: t.Text}
		case token.MINUS:
			ps.advance()
			t, _ := ps.expect(token.INTEGER)
			val = ast.MetaValue{Int: -t.Literal.Int, Printed: "-" + t.Text}
		default:
			ps.errs.Add(yaraerr.NewAt(yaraerr.Syntax, ps.cur(), "expected meta value"))
			ps.advance()
		}
		out = append(out, &ast.MetaEntry{Span: spanBetween(startH, ps.stream, ps.handle()), Key: key, Value: val})
	}
	return out
}

func (ps *parseState) parseStrings() []*ast.StringDef {
	var out []*ast.StringDef
	for ps.at(token.STRING_IDENT) {
		startH := ps.handle()
		name := ps.advance().Literal.Str
		ps.expect(token.EQUALS)

		var value ast.StringValue
		switch ps.kind() {
		case token.STRING_LITERAL:
			t := ps.advance()
			value = ast.PlainString{Raw: t.Literal.Raw, Escaped: t.Literal.Str}
		case token.REGEXP:
			t := ps.advance()
			value = ps.parseRegexValue(t)
		case token.LBRACE:
			value = ps.parseHexValue()
		default:
			ps.errs.Add(yaraerr.NewAt(yaraerr.Syntax, ps.cur(), "expected string value"))
			ps.advance()
		}

		flags := ps.parseStringFlags()
		for _, dup := range out {
			if dup.Name == name {
				ps.errs.Add(yaraerr.New(yaraerr.Semantic, ps.cur().Pos, "duplicate string name %q", name))
			}
		}
		out = append(out, &ast.StringDef{
			Span:  spanBetween(startH, ps.stream, ps.handle()),
			Name:  name,
			Value: value,
			Flags: flags,
		})
	}
	return out
}

func (ps *parseState) parseStringFlags() ast.StringFlags {
	var f ast.StringFlags
	for {
		switch ps.kind() {
		case token.ASCII:
			f.Ascii = true
		case token.WIDE:
			f.Wide = true
		case token.NOCASE:
			f.Nocase = true
		case token.FULLWORD:
			f.Fullword = true
		case token.PRIVATE:
			f.Private = true
		case token.XOR:
			f.Xor = true
			ps.advance()
			if ps.at(token.LPAREN) {
				ps.advance()
				lo, _ := ps.expect(token.INTEGER)
				f.XorLo = int(lo.Literal.Int)
				f.XorHi = f.XorLo
				if ps.at(token.MINUS) {
					ps.advance()
					hi, _ := ps.expect(token.INTEGER)
					f.XorHi = int(hi.Literal.Int)
					f.HasXorHi = true
				}
				ps.expect(token.RPAREN)
			}
			continue
		default:
			return f
		}
		ps.advance()
	}
}

func (ps *parseState) parseRegexValue(t token.Token) ast.RegexStringValue {
	body, mods := splitRegexLiteral(t.Text)
	node, err := regexast.Parse(body)
	if err != nil {
		ps.errs.Add(yaraerr.NewAt(yaraerr.Syntax, t, "invalid regex literal: %s", err.Error()))
	}
	return ast.RegexStringValue{Pattern: node, Source: t.Text, Modifiers: mods}
}

// splitRegexLiteral strips the enclosing slashes and trailing i/s modifier
// letters from a REGEXP token's raw text.
func splitRegexLiteral(text string) (body string, mods ast.RegexModifiers) {
	if len(text) < 2 || text[0] != '/' {
		return text, mods
	}
	end := len(text) - 1
	for end > 0 && (text[end] == 'i' || text[end] == 's') {
		if text[end] == 'i' {
			mods.CaseInsensitive = true
		} else {
			mods.DotMatchesAll = true
		}
		end--
	}
	return text[1:end], mods
}

func (ps *parseState) parseHexValue() ast.HexStringValue {
	ps.expect(token.LBRACE)
	toks := ps.parseHexTokenRun(token.RBRACE)
	ps.expect(token.RBRACE)
	return ast.HexStringValue{Tokens: toks}
}

func (ps *parseState) parseHexTokenRun(stopAt token.Kind) []ast.HexToken {
	var out []ast.HexToken
	for ps.kind() != stopAt && ps.kind() != token.EOF {
		switch ps.kind() {
		case token.HEX_BYTE:
			t := ps.advance()
			out = append(out, decodeHexByte(t))
		case token.HEX_WILDCARD:
			ps.advance()
			out = append(out, ast.HexWildcard{})
		case token.HEX_JUMP:
			t := ps.advance()
			jump := decodeHexJump(t.Text)
			if jump.Min != nil && jump.Max != nil && *jump.Min > *jump.Max {
				ps.errs.Add(yaraerr.NewAt(yaraerr.Syntax, t, "invalid jump range [%d-%d]: low bound exceeds high bound", *jump.Min, *jump.Max))
			}
			out = append(out, jump)
		case token.HEX_ALT_BAR:
			if t := ps.cur(); t.Literal.Str == "(" {
				ps.advance()
				out = append(out, ps.parseHexAlt())
			} else {
				ps.advance() // stray ')' or '|': recovery
			}
		default:
			ps.errs.Add(yaraerr.NewAt(yaraerr.Syntax, ps.cur(), "unexpected token in hex string"))
			ps.advance()
		}
	}
	return out
}

func (ps *parseState) parseHexAlt() ast.HexAlt {
	var alts [][]ast.HexToken
	alts = append(alts, ps.parseHexTokenRun(token.HEX_ALT_BAR))
	for ps.cur().Literal.Str == "|" {
		ps.advance()
		alts = append(alts, ps.parseHexTokenRun(token.HEX_ALT_BAR))
	}
	if ps.cur().Literal.Str == ")" {
		ps.advance()
	}
	return ast.HexAlt{Alternatives: alts}
}

func decodeHexByte(t token.Token) ast.HexByte {
	switch t.Literal.Int {
	case 1: // "hi nibble only": Str holds the hi nibble char
		hi, _ := strconv.ParseUint(t.Literal.Str, 16, 8)
		return ast.HexByte{Hi: byte(hi), WildLo: true}
	case 2: // "lo nibble only"
		lo, _ := strconv.ParseUint(t.Literal.Str, 16, 8)
		return ast.HexByte{Lo: byte(lo), WildHi: true}
	default:
		v := byte(t.Literal.Int)
		return ast.HexByte{Hi: v >> 4, Lo: v & 0xF}
	}
}

func decodeHexJump(text string) ast.HexJump {
	inner := strings.TrimSuffix(strings.TrimPrefix(text, "["), "]")
	parts := strings.SplitN(inner, "-", 2)
	parseOpt := func(s string) *int {
		s = strings.TrimSpace(s)
		if s == "" {
			return nil
		}
		v, _ := strconv.Atoi(s)
		return &v
	}
	if len(parts) == 1 {
		v := parseOpt(parts[0])
		return ast.HexJump{Min: v, Max: v}
	}
	return ast.HexJump{Min: parseOpt(parts[0]), Max: parseOpt(parts[1])}
}

func intLit(i int64) literal.Value { return literal.NewInt(i) }
