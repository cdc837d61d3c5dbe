package tester

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// SymbolTable resolves names to 16-bit addresses for $name, <$name (low
// byte) and >$name (high byte) expressions in the DSL.
type SymbolTable struct {
	symbols map[string]uint16
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{symbols: make(map[string]uint16)}
}

func (t *SymbolTable) Add(name string, addr uint16) {
	t.symbols[name] = addr
}

func (t *SymbolTable) Remove(name string) {
	delete(t.symbols, name)
}

func (t *SymbolTable) Lookup(name string) (uint16, bool) {
	addr, ok := t.symbols[name]
	return addr, ok
}

// LoadVICELabels reads a VICE-format label file: one symbol per line,
// whitespace-separated "al <hexaddr> .<name>", the format produced by the
// CA65/LD65 toolchain's --vice-labels output. Lines that are not "al" lines
// with at least three fields are skipped rather than treated as errors,
// since the format is loosely specified and tools emit harmless variants
// (comments, blank lines, other directive kinds); an "al" line whose
// address is not a 16-bit hex number is an error.
func (t *SymbolTable) LoadVICELabels(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 3 || fields[0] != "al" {
			continue
		}
		addrText := strings.TrimPrefix(fields[1], "0x")
		addr, err := strconv.ParseUint(addrText, 16, 16)
		if err != nil {
			return fmt.Errorf("parsing VICE label address %q: %w", fields[1], err)
		}
		name := strings.TrimPrefix(fields[2], ".")
		t.Add(name, uint16(addr))
	}
	return scanner.Err()
}
