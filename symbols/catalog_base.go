package symbols

// baseModules returns the modules available regardless of ImportFeatures —
// the standard YARA module set (spec.md §6 names "pe", "cuckoo", "elf" as
// representative catalog entries; "pe" and "elf" ship with every YARA
// build, so they belong in every feature set).
func baseModules() map[string]*Symbol {
	return map[string]*Symbol{
		"pe":   peModule(),
		"elf":  elfModule(),
		"math": mathModule(),
		"hash": hashModule(),
		"time": timeModule(),
	}
}

func peModule() *Symbol {
	section := structSym("section",
		scalar("name", Text),
		scalar("virtual_address", Integer),
		scalar("virtual_size", Integer),
		scalar("raw_data_offset", Integer),
		scalar("raw_data_size", Integer),
	)
	importFn := structSym("import",
		scalar("library_name", Text),
		scalar("function_name", Text),
	)
	return structSym("pe",
		scalar("number_of_sections", Integer),
		scalar("entry_point", Integer),
		scalar("machine", Integer),
		scalar("is_pe", Boolean),
		arraySym("sections", section),
		arraySym("import_details", importFn),
		fn("imports", Boolean, Text, Text),
		fn("exports", Boolean, Text),
		fn("section_index", Integer, Text),
	)
}

func elfModule() *Symbol {
	section := structSym("section",
		scalar("name", Text),
		scalar("type", Integer),
		scalar("size", Integer),
	)
	return structSym("elf",
		scalar("type", Integer),
		scalar("machine", Integer),
		scalar("number_of_sections", Integer),
		arraySym("sections", section),
	)
}

func mathModule() *Symbol {
	return structSym("math",
		fn("entropy", Float, Integer, Integer),
		fn("mean", Float, Integer, Integer),
		fn("deviation", Float, Integer, Integer, Float),
		fn("in_range", Boolean, Float, Float, Float),
	)
}

func hashModule() *Symbol {
	return structSym("hash",
		fn("md5", Text, Integer, Integer),
		fn("sha1", Text, Integer, Integer),
		fn("sha256", Text, Integer, Integer),
		fn("crc32", Integer, Integer, Integer),
	)
}

func timeModule() *Symbol {
	return structSym("time",
		fn("now", Integer),
	)
}
