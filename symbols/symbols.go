// Package symbols implements the static module symbol tables the parser
// consults to resolve module attribute accesses (spec.md §4.4), plus the
// per-file table of declared rule names that lets later rules reference
// earlier ones.
package symbols

// Kind discriminates the shape of a Symbol.
type Kind int

const (
	Scalar Kind = iota
	Struct
	Array        // array of Struct
	Dict         // dictionary of Struct, keyed by string
	Function
	RuleSymbol // a declared YARA rule, usable as a boolean in conditions
)

// ScalarType names the primitive type of a Scalar symbol, purely for
// diagnostics; the parser does not type-check arithmetic.
type ScalarType int

const (
	Integer ScalarType = iota
	Float
	Text
	Boolean
)

// Signature describes one overload of a Function symbol.
type Signature struct {
	Params  []ScalarType
	Returns ScalarType
}

// Symbol is a node in a module's symbol tree, or a top-level rule symbol.
type Symbol struct {
	Name       string
	Kind       Kind
	Scalar     ScalarType
	Signatures []Signature       // for Kind == Function
	Children   map[string]*Symbol // for Kind == Struct, Array, Dict
}

// Child looks up a named attribute of a Struct/Array/Dict symbol.
func (s *Symbol) Child(name string) (*Symbol, bool) {
	if s == nil || s.Children == nil {
		return nil, false
	}
	c, ok := s.Children[name]
	return c, ok
}

// Table is the symbol environment available while parsing one YaraFile:
// the enabled modules plus every rule declared so far.
type Table struct {
	Features ImportFeatures
	modules  map[string]*Symbol
	rules    map[string]*Symbol
}

// NewTable creates a symbol table exposing the module catalogs selected by
// features.
func NewTable(features ImportFeatures) *Table {
	return &Table{
		Features: features,
		modules:  catalogFor(features),
		rules:    make(map[string]*Symbol),
	}
}

// Module looks up a top-level module symbol (e.g. "pe"), returning ok=false
// if the name isn't registered in the table's enabled ImportFeatures.
func (t *Table) Module(name string) (*Symbol, bool) {
	m, ok := t.modules[name]
	return m, ok
}

// DeclareRule registers name as a rule symbol so later rules' conditions can
// reference it via Id (spec.md §4.4: "Rules, once declared, add themselves
// as symbols").
func (t *Table) DeclareRule(name string) *Symbol {
	sym := &Symbol{Name: name, Kind: RuleSymbol, Scalar: Boolean}
	t.rules[name] = sym
	return sym
}

// Rule looks up a previously declared rule symbol.
func (t *Table) Rule(name string) (*Symbol, bool) {
	s, ok := t.rules[name]
	return s, ok
}

// HasRule reports whether name has been declared as a rule yet.
func (t *Table) HasRule(name string) bool {
	_, ok := t.rules[name]
	return ok
}
