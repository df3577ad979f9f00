package symbols

// virusTotalModules adds the VT-specific extension module named in
// spec.md §6 ("VirusTotal — standard YARA modules plus VT-extensions").
func virusTotalModules() map[string]*Symbol {
	return map[string]*Symbol{
		"vt": vtModule(),
	}
}

func vtModule() *Symbol {
	behaviour := structSym("behaviour",
		arraySym("network", scalar("$elem", Text)),
		arraySym("files_dropped", scalar("$elem", Text)),
	)
	metadata := structSym("metadata",
		scalar("first_submission_date", Integer),
		scalar("last_submission_date", Integer),
		scalar("positives", Integer),
		scalar("total", Integer),
		behaviour,
	)
	return structSym("vt",
		metadata,
		fn("detections_at_least", Boolean, Integer),
	)
}
