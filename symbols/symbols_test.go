package symbols

import "testing"

func TestNewTableVirusTotal(t *testing.T) {
	tbl := NewTable(VirusTotal)
	if _, ok := tbl.Module("pe"); !ok {
		t.Error("expected base module 'pe' to be available")
	}
	if _, ok := tbl.Module("vt"); !ok {
		t.Error("expected 'vt' module under VirusTotal features")
	}
	if _, ok := tbl.Module("cuckoo"); ok {
		t.Error("did not expect 'cuckoo' module under VirusTotal features")
	}
}

func TestNewTableAvast(t *testing.T) {
	tbl := NewTable(Avast)
	if _, ok := tbl.Module("cuckoo"); !ok {
		t.Error("expected 'cuckoo' module under Avast features")
	}
	if _, ok := tbl.Module("vt"); ok {
		t.Error("did not expect 'vt' module under Avast features")
	}
}

func TestNewTableEverything(t *testing.T) {
	tbl := NewTable(Everything)
	for _, name := range []string{"pe", "elf", "math", "hash", "time", "vt", "cuckoo"} {
		if _, ok := tbl.Module(name); !ok {
			t.Errorf("expected module %q under Everything features", name)
		}
	}
}

func TestDeclareAndLookupRule(t *testing.T) {
	tbl := NewTable(VirusTotal)
	if tbl.HasRule("other_rule") {
		t.Fatal("rule should not exist before declaration")
	}
	tbl.DeclareRule("other_rule")
	sym, ok := tbl.Rule("other_rule")
	if !ok {
		t.Fatal("expected rule to be declared")
	}
	if sym.Kind != RuleSymbol || sym.Scalar != Boolean {
		t.Errorf("unexpected rule symbol shape: %+v", sym)
	}
}

func TestModuleChildLookup(t *testing.T) {
	tbl := NewTable(VirusTotal)
	pe, ok := tbl.Module("pe")
	if !ok {
		t.Fatal("expected 'pe' module")
	}
	if _, ok := pe.Child("number_of_sections"); !ok {
		t.Error("expected pe.number_of_sections to resolve")
	}
}
