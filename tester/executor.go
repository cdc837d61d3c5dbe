package tester

import (
	"bufio"
	"fmt"
	"io"

	"soft65c02/cpu"
	"soft65c02/mem"
)

// ExecutionRound is the live state a plan runs against: one register file
// and one memory stack. A marker line resets both.
type ExecutionRound struct {
	Registers *cpu.Registers
	Memory    *mem.MemoryStack
	Symbols   *SymbolTable
}

// NewExecutionRound builds a fresh round: registers initialized with CP=0,
// a default RAM-backed memory stack, and an empty symbol table.
func NewExecutionRound() *ExecutionRound {
	return &ExecutionRound{
		Registers: cpu.New(0),
		Memory:    mem.NewStackWithRAM(),
		Symbols:   NewSymbolTable(),
	}
}

// ExecutorConfiguration controls how a plan reacts to failures.
type ExecutorConfiguration struct {
	StopOnFailure         bool // halt the plan on a parser error
	StopOnFailedAssertion bool // halt the plan on a failed assertion
	Verbose               bool // display cares about this; executor just carries it through
}

// DefaultExecutorConfiguration matches the DSL's documented defaults.
func DefaultExecutorConfiguration() ExecutorConfiguration {
	return ExecutorConfiguration{StopOnFailure: true, StopOnFailedAssertion: true}
}

// Executor runs a script of DSL lines against a single ExecutionRound,
// resetting the round on every marker line and streaming one OutputToken
// per non-empty line to out. Symbols persist across marker resets: a marker
// only resets registers and memory, not the symbol table built up by prior
// `symbols load/add` commands, since scripts commonly load symbols once up
// front and then run several independent scenarios against them.
type Executor struct {
	Config ExecutorConfiguration

	// Round is the most recently active ExecutionRound, available once Run
	// returns (or stops early) for callers that want to inspect final
	// machine state, e.g. the interactive monitor.
	Round *ExecutionRound
}

func NewExecutor(cfg ExecutorConfiguration) *Executor {
	return &Executor{Config: cfg}
}

// Run reads one command per line from r and sends an OutputToken for each
// non-blank line to out. It returns the first parse or execution error it
// decides not to swallow; with StopOnFailure true (the default), any parse
// error stops the run immediately, otherwise the offending line is skipped.
func (e *Executor) Run(r io.Reader, out chan<- OutputToken) error {
	round := NewExecutionRound()
	e.Round = round
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		cmd, err := Parse(line, round.Symbols)
		if err != nil {
			if e.Config.StopOnFailure {
				return fmt.Errorf("line %d: %w", lineNo, err)
			}
			continue
		}
		if cmd == nil {
			continue // blank line or comment-only line
		}

		if _, ok := cmd.(Marker); ok {
			round.Registers = cpu.New(0)
			round.Memory = mem.NewStackWithRAM()
		}

		token, err := cmd.Execute(round)
		if err != nil {
			if e.Config.StopOnFailure {
				return fmt.Errorf("line %d: %w", lineNo, err)
			}
			continue
		}
		out <- token

		if token.Kind == TokenAssertion && !token.Success && e.Config.StopOnFailedAssertion {
			return fmt.Errorf("line %d: assertion failed: %s", lineNo, token.Description)
		}
	}
	return scanner.Err()
}
