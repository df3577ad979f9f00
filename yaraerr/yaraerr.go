// Package yaraerr defines the single error type raised by the lexer,
// parser, and builder (spec.md §7), unifying what the distilled spec
// describes as four separate error kinds into one struct with a Kind tag,
// the shape bufbuild's protocompile reporter.ErrorWithPos uses for its own
// multi-stage compiler errors.
package yaraerr

import (
	"fmt"

	"github.com/sansecio/yaraast/token"
	"github.com/tidwall/sjson"
)

// Kind classifies which stage raised an Error.
type Kind int

const (
	// Lexical errors come from the lexer: malformed literals, unterminated
	// strings/comments, characters that start no valid token.
	Lexical Kind = iota
	// Syntax errors come from the parser: token sequences the grammar
	// doesn't accept (missing ':', unbalanced braces, and so on).
	Syntax
	// Semantic errors come from the parser's checks made while parsing: duplicate
	// rule/string names, unresolved identifiers, undeclared modules.
	Semantic
	// Builder errors come from the fluent construction API: malformed
	// trees handed to it programmatically rather than parsed from text.
	Builder
)

func (k Kind) String() string {
	switch k {
	case Lexical:
		return "lexical"
	case Syntax:
		return "syntax"
	case Semantic:
		return "semantic"
	case Builder:
		return "builder"
	default:
		return "unknown"
	}
}

// Error is the single error type produced anywhere in this module
// (spec.md §7). Pos is the zero Position when Kind is Builder, since
// builder errors have no source location.
type Error struct {
	Kind    Kind
	Pos     token.Position
	Message string
	Token   token.Token // zero value if not associated with a specific token
}

func (e *Error) Error() string {
	if e.Kind == Builder {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", e.Pos, e.Kind, e.Message)
}

// New constructs a positioned Error.
func New(kind Kind, pos token.Position, format string, args ...any) *Error {
	return &Error{Kind: kind, Pos: pos, Message: fmt.Sprintf(format, args...)}
}

// NewAt constructs an Error anchored to tok, using tok's own position.
func NewAt(kind Kind, tok token.Token, format string, args ...any) *Error {
	return &Error{Kind: kind, Pos: tok.Pos, Message: fmt.Sprintf(format, args...), Token: tok}
}

// NewBuilder constructs a Builder-kind Error, which carries no position.
func NewBuilder(format string, args ...any) *Error {
	return &Error{Kind: Builder, Message: fmt.Sprintf(format, args...)}
}

// List collects multiple errors accumulated during one parse, matching the
// partial-success model of spec.md §4.2/§4.9: a failed parse still returns
// as much of the TokenStream/AST as it managed to build, plus every error
// encountered rather than stopping at the first one.
type List struct {
	Errors []*Error
}

func (l *List) Add(err *Error) {
	l.Errors = append(l.Errors, err)
}

func (l *List) HasErrors() bool { return len(l.Errors) > 0 }

// Unwrap exposes the individual *Error values to errors.Is/errors.As, so a
// caller can recover the typed error for a specific failure (e.g. to check
// Kind == Syntax) without re-parsing List's combined Error() string.
func (l *List) Unwrap() []error {
	errs := make([]error, len(l.Errors))
	for i, e := range l.Errors {
		errs[i] = e
	}
	return errs
}

func (l *List) Error() string {
	if len(l.Errors) == 0 {
		return ""
	}
	if len(l.Errors) == 1 {
		return l.Errors[0].Error()
	}
	msg := l.Errors[0].Error()
	return fmt.Sprintf("%s (and %d more errors)", msg, len(l.Errors)-1)
}

// JSON renders the list as a JSON array of {kind, line, column, message}
// objects, for tools (editor plugins, CI annotations) that want structured
// diagnostics instead of the plain-text Error() form.
func (l *List) JSON() (string, error) {
	doc := "[]"
	var err error
	for i, e := range l.Errors {
		doc, err = sjson.Set(doc, fmt.Sprintf("%d.kind", i), e.Kind.String())
		if err != nil {
			return "", err
		}
		doc, err = sjson.Set(doc, fmt.Sprintf("%d.line", i), e.Pos.Line)
		if err != nil {
			return "", err
		}
		doc, err = sjson.Set(doc, fmt.Sprintf("%d.column", i), e.Pos.Column)
		if err != nil {
			return "", err
		}
		doc, err = sjson.Set(doc, fmt.Sprintf("%d.message", i), e.Message)
		if err != nil {
			return "", err
		}
	}
	return doc, nil
}
