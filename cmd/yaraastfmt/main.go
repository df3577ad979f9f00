// Command yaraastfmt parses a YARA rule file and re-emits it, either as an
// exact round-trip or in canonical formatted layout.
package main

import (
	"fmt"
	"os"

	"github.com/sansecio/yaraast/format"
	"github.com/sansecio/yaraast/parser"
)

func main() {
	canonical := false
	args := os.Args[1:]
	if len(args) > 0 && args[0] == "-w" {
		canonical = true
		args = args[1:]
	}
	if len(args) != 1 {
		fmt.Fprintf(os.Stderr, "usage: yaraastfmt [-w] <rules.yar>\n")
		os.Exit(1)
	}

	src, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "error reading %s: %v\n", args[0], err)
		os.Exit(1)
	}

	file, err := parser.New().Parse(src)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error parsing %s: %v\n", args[0], err)
		if file == nil {
			os.Exit(1)
		}
	}

	if canonical {
		fmt.Print(format.TextFormatted(file))
	} else {
		fmt.Print(format.Text(file))
	}
	if err != nil {
		os.Exit(1)
	}
}
