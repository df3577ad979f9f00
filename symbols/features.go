package symbols

// ImportFeatures selects which module catalog is available to the parser
// (spec.md §6). Importing a module outside the selected set is a
// SemanticError raised by the parser, not by this package.
type ImportFeatures int

const (
	VirusTotal ImportFeatures = iota
	Avast
	Everything
)

func (f ImportFeatures) String() string {
	switch f {
	case VirusTotal:
		return "VirusTotal"
	case Avast:
		return "Avast"
	case Everything:
		return "Everything"
	default:
		return "Unknown"
	}
}

func catalogFor(f ImportFeatures) map[string]*Symbol {
	switch f {
	case Avast:
		return mergeCatalogs(baseModules(), avastModules())
	case Everything:
		return mergeCatalogs(baseModules(), virusTotalModules(), avastModules())
	default: // VirusTotal
		return mergeCatalogs(baseModules(), virusTotalModules())
	}
}

func mergeCatalogs(maps ...map[string]*Symbol) map[string]*Symbol {
	out := make(map[string]*Symbol)
	for _, m := range maps {
		for k, v := range m {
			out[k] = v
		}
	}
	return out
}

// --- small struct-builder helpers, used by catalog_*.go ---

func structSym(name string, children ...*Symbol) *Symbol {
	m := make(map[string]*Symbol, len(children))
	for _, c := range children {
		m[c.Name] = c
	}
	return &Symbol{Name: name, Kind: Struct, Children: m}
}

func arraySym(name string, elem *Symbol) *Symbol {
	m := map[string]*Symbol{"$elem": elem}
	return &Symbol{Name: name, Kind: Array, Children: m}
}

func dictSym(name string, elem *Symbol) *Symbol {
	m := map[string]*Symbol{"$elem": elem}
	return &Symbol{Name: name, Kind: Dict, Children: m}
}

func scalar(name string, t ScalarType) *Symbol {
	return &Symbol{Name: name, Kind: Scalar, Scalar: t}
}

func fn(name string, ret ScalarType, params ...ScalarType) *Symbol {
	return &Symbol{
		Name: name, Kind: Function,
		Signatures: []Signature{{Params: params, Returns: ret}},
	}
}
