// Package tester implements the line-oriented DSL that drives the 65C02
// emulator: a parser turning script lines into a command AST, an executor
// that runs those commands against one (Registers, MemoryStack) pair, and a
// symbol table / binary-format loader layer the parser and executor share.
package tester

import "soft65c02/cpu"

// OutputToken is what the executor emits for each parsed, non-empty line.
type OutputToken struct {
	Kind        TokenKind
	Description string   // Marker text, or an Assertion's description
	Success     bool     // Assertion only
	Setup       []string // Setup only: human-readable notes ("3 bytes written")
	LogLines    []cpu.LogLine
}

type TokenKind int

const (
	TokenNone TokenKind = iota
	TokenMarker
	TokenSetup
	TokenAssertion
	TokenRun
)
