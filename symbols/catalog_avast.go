package symbols

// avastModules adds the Avast-specific module symbols named in spec.md §6:
// "new_file", and "cuckoo" submodules such as "filesystem.file_access" and
// "registry.key_access".
func avastModules() map[string]*Symbol {
	return map[string]*Symbol{
		"cuckoo":   cuckooModule(),
		"new_file": newFileModule(),
	}
}

func cuckooModule() *Symbol {
	filesystem := structSym("filesystem",
		fn("file_access", Boolean, Text),
		fn("file_written", Boolean, Text),
		fn("file_deleted", Boolean, Text),
	)
	registry := structSym("registry",
		fn("key_access", Boolean, Text),
		fn("key_written", Boolean, Text),
	)
	network := structSym("network",
		fn("dns_lookup", Boolean, Text),
		fn("http_request", Boolean, Text),
	)
	sync := structSym("sync",
		fn("mutex", Boolean, Text),
	)
	return structSym("cuckoo", filesystem, registry, network, sync)
}

func newFileModule() *Symbol {
	return structSym("new_file",
		scalar("path", Text),
		scalar("size", Integer),
	)
}
