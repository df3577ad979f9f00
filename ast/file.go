package ast

import "github.com/sansecio/yaraast/token"

// Modifier is a rule's declaration modifier (spec.md §3).
type Modifier int

const (
	Empty Modifier = iota
	Private
	Global
	PrivateGlobal
)

func (m Modifier) String() string {
	switch m {
	case Private:
		return "private"
	case Global:
		return "global"
	case PrivateGlobal:
		return "private global"
	default:
		return ""
	}
}

// Rule is one named pattern-match declaration (spec.md §3).
type Rule struct {
	Span
	Name      string
	Modifier  Modifier
	Tags      []string
	Meta      []*MetaEntry
	Strings   []*StringDef
	Condition Expr
	Stream    *token.Stream // the stream shared by this rule's file
}

// StringByName looks up a declared string by its `$name` (including the
// leading `$`). The parser does not call it: references to undeclared
// strings are not reported as errors.
func (r *Rule) StringByName(name string) (*StringDef, bool) {
	for _, s := range r.Strings {
		if s.Name == name {
			return s, true
		}
	}
	return nil, false
}

// YaraFile is the top-level parse/build result (spec.md §3).
type YaraFile struct {
	Imports []string
	Rules   []*Rule
	Stream  *token.Stream
}

// RuleByName looks up a declared rule by name.
func (f *YaraFile) RuleByName(name string) (*Rule, bool) {
	for _, r := range f.Rules {
		if r.Name == name {
			return r, true
		}
	}
	return nil, false
}

// Text renders the exact source text by walking the token stream
// (spec.md §8 invariant 1: round-trip).
func (f *YaraFile) Text() string {
	if f.Stream == nil {
		return ""
	}
	return f.Stream.Text()
}
