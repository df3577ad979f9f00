package parser

import (
	"github.com/sansecio/yaraast/ast"
	"github.com/sansecio/yaraast/literal"
	"github.com/sansecio/yaraast/regexast"
	"github.com/sansecio/yaraast/token"
	"github.com/sansecio/yaraast/yaraerr"
)

// Precedence-climbing condition-expression parser, mirroring the operator
// table in spec.md §3/§4 ("boolean: and/or; comparison: == != < <= > >=;
// bitwise; additive/multiplicative; unary").

type binOp struct {
	prec int
	make func(ast.BinaryBase) ast.Expr
}

var binOps = map[token.Kind]binOp{
	token.OR:        {1, func(b ast.BinaryBase) ast.Expr { return ast.Or{BinaryBase: b} }},
	token.AND:       {2, func(b ast.BinaryBase) ast.Expr { return ast.And{BinaryBase: b} }},
	token.EQ:        {3, func(b ast.BinaryBase) ast.Expr { return ast.Eq{BinaryBase: b} }},
	token.NEQ:       {3, func(b ast.BinaryBase) ast.Expr { return ast.Neq{BinaryBase: b} }},
	token.LT:        {3, func(b ast.BinaryBase) ast.Expr { return ast.Lt{BinaryBase: b} }},
	token.LE:        {3, func(b ast.BinaryBase) ast.Expr { return ast.Le{BinaryBase: b} }},
	token.GT:        {3, func(b ast.BinaryBase) ast.Expr { return ast.Gt{BinaryBase: b} }},
	token.GE:        {3, func(b ast.BinaryBase) ast.Expr { return ast.Ge{BinaryBase: b} }},
	token.CONTAINS:  {3, func(b ast.BinaryBase) ast.Expr { return ast.Contains{BinaryBase: b} }},
	token.MATCHES:   {3, func(b ast.BinaryBase) ast.Expr { return ast.Matches{BinaryBase: b} }},
	token.PIPE:      {4, func(b ast.BinaryBase) ast.Expr { return ast.BitwiseOr{BinaryBase: b} }},
	token.CARET:     {5, func(b ast.BinaryBase) ast.Expr { return ast.BitwiseXor{BinaryBase: b} }},
	token.AMP:       {6, func(b ast.BinaryBase) ast.Expr { return ast.BitwiseAnd{BinaryBase: b} }},
	token.SHL:       {7, func(b ast.BinaryBase) ast.Expr { return ast.ShiftLeft{BinaryBase: b} }},
	token.SHR:       {7, func(b ast.BinaryBase) ast.Expr { return ast.ShiftRight{BinaryBase: b} }},
	token.PLUS:      {8, func(b ast.BinaryBase) ast.Expr { return ast.Plus{BinaryBase: b} }},
	token.MINUS:     {8, func(b ast.BinaryBase) ast.Expr { return ast.Minus{BinaryBase: b} }},
	token.STAR:      {9, func(b ast.BinaryBase) ast.Expr { return ast.Multiply{BinaryBase: b} }},
	token.BACKSLASH: {9, func(b ast.BinaryBase) ast.Expr { return ast.Divide{BinaryBase: b} }},
	token.PERCENT:   {9, func(b ast.BinaryBase) ast.Expr { return ast.Modulo{BinaryBase: b} }},
}

func (ps *parseState) parseExpr() ast.Expr {
	return ps.parseBinary(0)
}

func (ps *parseState) parseBinary(minPrec int) ast.Expr {
	left := ps.parseUnary()
	for {
		op, ok := binOps[ps.kind()]
		if !ok || op.prec < minPrec {
			return left
		}
		startH := left.Range().First
		ps.advance()
		right := ps.parseBinary(op.prec + 1)
		left = op.make(ast.BinaryBase{
			Span:  spanBetween(startH, ps.stream, ps.handle()),
			Left:  left,
			Right: right,
		})
	}
}

func (ps *parseState) parseUnary() ast.Expr {
	startH := ps.handle()
	switch ps.kind() {
	case token.NOT:
		ps.advance()
		operand := ps.parseUnary()
		return ast.Not{UnaryBase: ast.UnaryBase{Span: spanBetween(startH, ps.stream, ps.handle()), Operand: operand}}
	case token.MINUS:
		ps.advance()
		operand := ps.parseUnary()
		return ast.UnaryMinus{UnaryBase: ast.UnaryBase{Span: spanBetween(startH, ps.stream, ps.handle()), Operand: operand}}
	case token.TILDE:
		ps.advance()
		operand := ps.parseUnary()
		return ast.BitwiseNot{UnaryBase: ast.UnaryBase{Span: spanBetween(startH, ps.stream, ps.handle()), Operand: operand}}
	default:
		return ps.parsePostfix(ps.parsePrimary())
	}
}

// parsePostfix handles `.field`, `[index]`, `(args)`, `at <expr>`, and
// `in <range>` suffixes that chain onto a primary expression.
func (ps *parseState) parsePostfix(base ast.Expr) ast.Expr {
	startH := base.Range().First
	for {
		switch ps.kind() {
		case token.DOT:
			ps.advance()
			fieldTok, _ := ps.expect(token.IDENT)
			base = ast.StructAccess{
				Span:  spanBetween(startH, ps.stream, ps.handle()),
				Base:  base,
				Field: fieldTok.Literal.Str,
			}
		case token.LBRACKET:
			ps.advance()
			idx := ps.parseExpr()
			ps.expect(token.RBRACKET)
			base = ast.ArrayAccess{
				Span:  spanBetween(startH, ps.stream, ps.handle()),
				Base:  base,
				Index: idx,
			}
		case token.LPAREN:
			ps.advance()
			var args []ast.Expr
			if !ps.at(token.RPAREN) {
				args = append(args, ps.parseExpr())
				for ps.at(token.COMMA) {
					ps.advance()
					args = append(args, ps.parseExpr())
				}
			}
			ps.expect(token.RPAREN)
			base = ast.FunctionCall{
				Span:   spanBetween(startH, ps.stream, ps.handle()),
				Callee: base,
				Args:   args,
			}
		case token.AT:
			ref, ok := base.(ast.StringRef)
			if !ok {
				return base
			}
			ps.advance()
			at := ps.parseBinary(4) // additive/bitwise offset expr, not a full boolean expr
			base = ast.StringAt{Span: spanBetween(startH, ps.stream, ps.handle()), Ref: ref, At: at}
		case token.IN:
			ref, ok := base.(ast.StringRef)
			if !ok {
				return base
			}
			ps.advance()
			rng := ps.parseRange()
			base = ast.StringInRange{Span: spanBetween(startH, ps.stream, ps.handle()), Ref: ref, Range: rng}
		default:
			return base
		}
	}
}

func (ps *parseState) parseRange() ast.Expr {
	startH := ps.handle()
	ps.expect(token.LPAREN)
	low := ps.parseBinary(8)
	ps.expect(token.DOTDOT)
	high := ps.parseBinary(8)
	ps.expect(token.RPAREN)
	return ast.Range{Span: spanBetween(startH, ps.stream, ps.handle()), Low: low, High: high}
}

func (ps *parseState) parsePrimary() ast.Expr {
	startH := ps.handle()
	t := ps.cur()
	switch t.Kind {
	case token.TRUE:
		ps.advance()
		return ast.BoolLiteral{Span: spanBetween(startH, ps.stream, ps.handle()), Value: true}
	case token.FALSE:
		ps.advance()
		return ast.BoolLiteral{Span: spanBetween(startH, ps.stream, ps.handle()), Value: false}
	case token.INTEGER:
		ps.advance()
		var v literal.Value
		if t.Literal.SizeUnit != "" || t.Literal.IsHex {
			v = literal.NewIntPrinted(t.Literal.Int, t.Text)
		} else {
			v = intLit(t.Literal.Int)
		}
		return ast.IntLiteral{Span: spanBetween(startH, ps.stream, ps.handle()), Value: v}
	case token.DOUBLE:
		ps.advance()
		return ast.DoubleLiteral{Span: spanBetween(startH, ps.stream, ps.handle()), Value: t.Literal.Double}
	case token.STRING_LITERAL:
		ps.advance()
		return ast.StringLiteral{
			Span:  spanBetween(startH, ps.stream, ps.handle()),
			Value: literal.NewString(t.Literal.Raw, t.Literal.Str),
		}
	case token.FILESIZE:
		ps.advance()
		return ast.Filesize{Span: spanBetween(startH, ps.stream, ps.handle())}
	case token.ENTRYPOINT:
		ps.advance()
		return ast.Entrypoint{Span: spanBetween(startH, ps.stream, ps.handle())}
	case token.ALL, token.ANY:
		ps.advance()
		var quant ast.Expr = ast.Any{Span: spanBetween(startH, ps.stream, ps.handle())}
		if t.Kind == token.ALL {
			quant = ast.All{Span: spanBetween(startH, ps.stream, ps.handle())}
		}
		if ps.at(token.OF) {
			ps.advance()
			set := ps.parseStringSet()
			return ast.Of{Span: spanBetween(startH, ps.stream, ps.handle()), Quantifier: quant, StringSet: set}
		}
		return quant
	case token.THEM:
		ps.advance()
		return ast.Them{Span: spanBetween(startH, ps.stream, ps.handle())}
	case token.STRING_IDENT:
		ps.advance()
		return ast.StringRef{Span: spanBetween(startH, ps.stream, ps.handle()), Name: t.Literal.Str}
	case token.STRING_IDENT_WILD:
		ps.advance()
		return ast.StringWildcard{Span: spanBetween(startH, ps.stream, ps.handle()), Prefix: trimWild(t.Literal.Str)}
	case token.STRING_COUNT:
		ps.advance()
		return ps.parseIndexedStringRef(startH, t.Literal.Str, newStringCount)
	case token.STRING_OFFSET:
		ps.advance()
		return ps.parseIndexedStringRef(startH, t.Literal.Str, newStringOffset)
	case token.STRING_LENGTH:
		ps.advance()
		return ps.parseIndexedStringRef(startH, t.Literal.Str, newStringLength)
	case token.REGEXP:
		ps.advance()
		return ps.parseRegexExpr(startH, t)
	case token.LPAREN:
		return ps.parseParenOrSet(startH)
	case token.FOR:
		return ps.parseForExpr(startH)
	case token.IDENT:
		return ps.parseIdentChain(startH)
	default:
		if name, ok := intFuncName(t); ok {
			ps.advance()
			ps.expect(token.LPAREN)
			offset := ps.parseExpr()
			ps.expect(token.RPAREN)
			return ast.IntFunction{Span: spanBetween(startH, ps.stream, ps.handle()), Name: name, Offset: offset}
		}
		ps.errs.Add(yaraerr.NewAt(yaraerr.Syntax, t, "unexpected token %s in expression", t.Kind))
		ps.advance()
		return ast.BoolLiteral{Span: spanBetween(startH, ps.stream, ps.handle()), Value: false}
	}
}

func trimWild(s string) string {
	if len(s) > 0 && s[len(s)-1] == '*' {
		return s[:len(s)-1]
	}
	return s
}

func newStringCount(span ast.Span, name string, idx ast.Expr) ast.Expr {
	return ast.StringCount{Span: span, Name: name, Index: idx}
}
func newStringOffset(span ast.Span, name string, idx ast.Expr) ast.Expr {
	return ast.StringOffset{Span: span, Name: name, Index: idx}
}
func newStringLength(span ast.Span, name string, idx ast.Expr) ast.Expr {
	return ast.StringLength{Span: span, Name: name, Index: idx}
}

func (ps *parseState) parseIndexedStringRef(startH token.Handle, name string, make func(ast.Span, string, ast.Expr) ast.Expr) ast.Expr {
	var idx ast.Expr
	if ps.at(token.LBRACKET) {
		ps.advance()
		idx = ps.parseExpr()
		ps.expect(token.RBRACKET)
	}
	return make(spanBetween(startH, ps.stream, ps.handle()), name, idx)
}

// intFuncName recognizes the int8/int16/int32/uint8/.../be family of
// built-in functions, which the lexer tokenizes as plain IDENTs.
func intFuncName(t token.Token) (string, bool) {
	if t.Kind != token.IDENT {
		return "", false
	}
	switch t.Literal.Str {
	case "int8", "int16", "int32", "int8be", "int16be", "int32be",
		"uint8", "uint16", "uint32", "uint8be", "uint16be", "uint32be":
		return t.Literal.Str, true
	default:
		return "", false
	}
}

func (ps *parseState) parseRegexExpr(startH token.Handle, t token.Token) ast.Expr {
	body, mods := splitRegexLiteral(t.Text)
	node, err := regexast.Parse(body)
	if err != nil {
		ps.errs.Add(yaraerr.NewAt(yaraerr.Syntax, t, "invalid regex literal: %s", err.Error()))
	}
	return ast.Regexp{
		Span:      spanBetween(startH, ps.stream, ps.handle()),
		Pattern:   node,
		Modifiers: mods,
		Source:    t.Text,
	}
}

func (ps *parseState) parseParenOrSet(startH token.Handle) ast.Expr {
	ps.advance() // '('
	if ps.at(token.RPAREN) {
		ps.advance()
		return ast.Set{Span: spanBetween(startH, ps.stream, ps.handle())}
	}
	first := ps.parseExpr()
	if ps.at(token.DOTDOT) {
		ps.advance()
		high := ps.parseBinary(8)
		ps.expect(token.RPAREN)
		return ast.Range{Span: spanBetween(startH, ps.stream, ps.handle()), Low: first, High: high}
	}
	if ps.at(token.COMMA) {
		elems := []ast.Expr{first}
		for ps.at(token.COMMA) {
			ps.advance()
			elems = append(elems, ps.parseExpr())
		}
		ps.expect(token.RPAREN)
		return ast.Set{Span: spanBetween(startH, ps.stream, ps.handle()), Elements: elems}
	}
	ps.expect(token.RPAREN)
	return ast.Parentheses{Span: spanBetween(startH, ps.stream, ps.handle()), Inner: first}
}

func (ps *parseState) parseForExpr(startH token.Handle) ast.Expr {
	ps.advance() // 'for'
	quant := ps.parseQuantifier()

	if ps.at(token.OF) {
		ps.advance()
		set := ps.parseStringSet()
		if ps.at(token.COLON) {
			ps.advance()
			ps.expect(token.LPAREN)
			body := ps.parseExpr()
			ps.expect(token.RPAREN)
			return ast.ForString{
				Span:       spanBetween(startH, ps.stream, ps.handle()),
				Quantifier: quant, StringSet: set, Body: body,
			}
		}
		return ast.Of{Span: spanBetween(startH, ps.stream, ps.handle()), Quantifier: quant, StringSet: set}
	}

	varTok, _ := ps.expect(token.IDENT)
	ps.expect(token.IN)
	iterable := ps.parseIterable()
	ps.expect(token.COLON)
	ps.expect(token.LPAREN)
	body := ps.parseExpr()
	ps.expect(token.RPAREN)
	return ast.ForInt{
		Span:       spanBetween(startH, ps.stream, ps.handle()),
		Quantifier: quant, Variable: varTok.Literal.Str, Iterable: iterable, Body: body,
	}
}

func (ps *parseState) parseQuantifier() ast.Expr {
	startH := ps.handle()
	switch ps.kind() {
	case token.ALL:
		ps.advance()
		return ast.All{Span: spanBetween(startH, ps.stream, ps.handle())}
	case token.ANY:
		ps.advance()
		return ast.Any{Span: spanBetween(startH, ps.stream, ps.handle())}
	default:
		return ps.parseBinary(8)
	}
}

func (ps *parseState) parseStringSet() ast.Expr {
	startH := ps.handle()
	if ps.at(token.THEM) {
		ps.advance()
		return ast.Them{Span: spanBetween(startH, ps.stream, ps.handle())}
	}
	ps.expect(token.LPAREN)
	var elems []ast.Expr
	if !ps.at(token.RPAREN) {
		elems = append(elems, ps.parseStringSetElem())
		for ps.at(token.COMMA) {
			ps.advance()
			elems = append(elems, ps.parseStringSetElem())
		}
	}
	ps.expect(token.RPAREN)
	return ast.Set{Span: spanBetween(startH, ps.stream, ps.handle()), Elements: elems}
}

func (ps *parseState) parseStringSetElem() ast.Expr {
	startH := ps.handle()
	t := ps.cur()
	switch t.Kind {
	case token.STRING_IDENT:
		ps.advance()
		return ast.StringRef{Span: spanBetween(startH, ps.stream, ps.handle()), Name: t.Literal.Str}
	case token.STRING_IDENT_WILD:
		ps.advance()
		return ast.StringWildcard{Span: spanBetween(startH, ps.stream, ps.handle()), Prefix: trimWild(t.Literal.Str)}
	default:
		ps.errs.Add(yaraerr.NewAt(yaraerr.Syntax, t, "expected string reference in string set"))
		ps.advance()
		return ast.StringRef{Span: spanBetween(startH, ps.stream, ps.handle())}
	}
}

func (ps *parseState) parseIterable() ast.Expr {
	startH := ps.handle()
	if ps.at(token.LPAREN) {
		return ps.parseRange()
	}
	first := ps.parseBinary(8)
	if ps.at(token.COMMA) {
		elems := []ast.Expr{first}
		for ps.at(token.COMMA) {
			ps.advance()
			elems = append(elems, ps.parseBinary(8))
		}
		return ast.Set{Span: spanBetween(startH, ps.stream, ps.handle()), Elements: elems}
	}
	return first
}

func (ps *parseState) parseIdentChain(startH token.Handle) ast.Expr {
	t := ps.advance()
	var base ast.Expr
	if sym, ok := ps.table.Module(t.Literal.Str); ok {
		base = ast.Id{Span: spanBetween(startH, ps.stream, ps.handle()), Name: t.Literal.Str, Symbol: sym}
	} else if sym, ok := ps.table.Rule(t.Literal.Str); ok {
		base = ast.Id{Span: spanBetween(startH, ps.stream, ps.handle()), Name: t.Literal.Str, Symbol: sym}
	} else {
		ps.errs.Add(yaraerr.NewAt(yaraerr.Semantic, t, "undefined identifier %q", t.Literal.Str))
		base = ast.Id{Span: spanBetween(startH, ps.stream, ps.handle()), Name: t.Literal.Str}
	}
	return base
}
