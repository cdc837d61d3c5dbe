package tester

import (
	"errors"
	"fmt"

	"soft65c02/cpu"
	"soft65c02/disasm"
	"soft65c02/mem"
	"soft65c02/tester/formats"
)

// Command is one parsed DSL line. Execute runs it against round and
// produces the OutputToken the executor forwards to the displayer.
type Command interface {
	Execute(round *ExecutionRound) (OutputToken, error)
}

// Marker starts a new plan: the executor resets the round before calling
// Execute, so Marker itself only needs to produce the token.
type Marker struct {
	Text string
}

func (m Marker) Execute(*ExecutionRound) (OutputToken, error) {
	return OutputToken{Kind: TokenMarker, Description: m.Text}, nil
}

// Assert evaluates Condition against the live round.
type Assert struct {
	Condition   BooleanExpression
	Description string
}

func (a Assert) Execute(round *ExecutionRound) (OutputToken, error) {
	ok := a.Condition.Eval(round.Registers, round.Memory)
	return OutputToken{Kind: TokenAssertion, Description: a.Description, Success: ok}, nil
}

// StartAddr is the optional start address of a run command: either a fixed
// numeric address, or "init" (the reset vector at 0xFFFC/0xFFFD).
type StartAddr struct {
	Addr       uint16
	FromVector bool
}

// Run repeatedly single-steps the CPU, starting at Start (or wherever CP
// already is), until StopWhen becomes true, ContinueWhile becomes false, or
// a self-loop or fault halts it.
type Run struct {
	Start         *StartAddr
	StopWhen      BooleanExpression // nil if absent
	ContinueWhile BooleanExpression // nil if absent
}

func (run Run) Execute(round *ExecutionRound) (OutputToken, error) {
	if run.Start != nil {
		addr := run.Start.Addr
		if run.Start.FromVector {
			vec, err := round.Memory.Read(0xFFFC, 2)
			if err != nil {
				return OutputToken{}, err
			}
			addr = mem.LittleEndianBytes(vec)
		}
		round.Registers.CP = addr
	}

	machine := cpu.CPU{Regs: round.Registers, Mem: round.Memory}
	var lines []cpu.LogLine
	for {
		cpBefore := machine.Regs.CP
		line, err := machine.ExecuteStep()
		lines = append(lines, line)
		if err != nil {
			var cpuErr *cpu.Error
			if errors.As(err, &cpuErr) && cpuErr.Fault != nil {
				break // STP/WAI: halt gracefully, the fault itself is not a plan error
			}
			return OutputToken{Kind: TokenRun, LogLines: lines}, err
		}

		if run.StopWhen != nil && run.StopWhen.Eval(round.Registers, round.Memory) {
			break
		}
		if run.ContinueWhile != nil && !run.ContinueWhile.Eval(round.Registers, round.Memory) {
			break
		}
		if machine.Regs.CP == cpBefore {
			break // self-loop
		}
	}
	return OutputToken{Kind: TokenRun, LogLines: lines}, nil
}

// MemoryFlush replaces the round's memory with a fresh default-RAM stack.
type MemoryFlush struct{}

func (MemoryFlush) Execute(round *ExecutionRound) (OutputToken, error) {
	round.Memory = mem.NewStackWithRAM()
	return OutputToken{Kind: TokenSetup, Setup: []string{"memory flushed"}}, nil
}

// MemoryWrite writes a literal byte list starting at Addr.
type MemoryWrite struct {
	Addr  uint16
	Bytes []byte
}

func (w MemoryWrite) Execute(round *ExecutionRound) (OutputToken, error) {
	if err := round.Memory.Write(uint32(w.Addr), w.Bytes); err != nil {
		return OutputToken{}, err
	}
	return OutputToken{Kind: TokenSetup, Setup: []string{
		fmt.Sprintf("%d byte(s) written at #0x%04X", len(w.Bytes), w.Addr),
	}}, nil
}

// MemoryLoad loads a binary image from disk, either as a flat byte blob at
// a fixed address or via one of the structured loaders (AppleSingle, Atari
// binary), each of which may also set the init/run vectors.
type MemoryLoad struct {
	Addr   uint16
	Path   string
	Format string // "", "apple", "atari" -- "" means a flat load at Addr
	Read   func(path string) ([]byte, error)
}

func (l MemoryLoad) Execute(round *ExecutionRound) (OutputToken, error) {
	read := l.Read
	if read == nil {
		read = defaultFileReader
	}
	data, err := read(l.Path)
	if err != nil {
		return OutputToken{}, err
	}

	var notes []string
	switch l.Format {
	case "":
		if err := round.Memory.Write(uint32(l.Addr), data); err != nil {
			return OutputToken{}, err
		}
		notes = append(notes, fmt.Sprintf("%d byte(s) loaded at #0x%04X from %q", len(data), l.Addr, l.Path))
	case "apple":
		img, err := formats.ParseAppleSingle(data)
		if err != nil {
			return OutputToken{}, err
		}
		if err := round.Memory.Write(uint32(img.LoadAddress), img.Data); err != nil {
			return OutputToken{}, err
		}
		notes = append(notes, fmt.Sprintf("%d byte(s) loaded at #0x%04X from AppleSingle %q", len(img.Data), img.LoadAddress, l.Path))
	case "atari":
		img, err := formats.ParseAtariBinary(data)
		if err != nil {
			return OutputToken{}, err
		}
		for _, seg := range img.Segments {
			if err := round.Memory.Write(uint32(seg.Address), seg.Bytes); err != nil {
				return OutputToken{}, err
			}
			notes = append(notes, fmt.Sprintf("%d byte(s) loaded at #0x%04X from Atari binary %q", len(seg.Bytes), seg.Address, l.Path))
		}
		if img.InitAddr != nil {
			if err := round.Memory.Write(0x02E2, []byte{byte(*img.InitAddr), byte(*img.InitAddr >> 8)}); err != nil {
				return OutputToken{}, err
			}
		}
		if img.RunAddr != nil {
			if err := round.Memory.Write(0x02E0, []byte{byte(*img.RunAddr), byte(*img.RunAddr >> 8)}); err != nil {
				return OutputToken{}, err
			}
		}
	default:
		return OutputToken{}, fmt.Errorf("unknown memory load format %q", l.Format)
	}
	return OutputToken{Kind: TokenSetup, Setup: notes}, nil
}

func defaultFileReader(path string) ([]byte, error) {
	return readFile(path)
}

// MemoryFill writes Value (default 0x00) across [Start,End] inclusive.
type MemoryFill struct {
	Start, End uint16
	Value      byte
}

func (f MemoryFill) Execute(round *ExecutionRound) (OutputToken, error) {
	n := int(f.End) - int(f.Start) + 1
	if n <= 0 {
		return OutputToken{}, fmt.Errorf("memory fill: end #0x%04X precedes start #0x%04X", f.End, f.Start)
	}
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = f.Value
	}
	if err := round.Memory.Write(uint32(f.Start), buf); err != nil {
		return OutputToken{}, err
	}
	return OutputToken{Kind: TokenSetup, Setup: []string{
		fmt.Sprintf("%d byte(s) filled with 0x%02X from #0x%04X to #0x%04X", n, f.Value, f.Start, f.End),
	}}, nil
}

// MemoryShow hex-dumps Len bytes from Addr, Width bytes per row (default
// 16), as a Setup note.
type MemoryShow struct {
	Addr        uint16
	Len         uint16
	Width       uint16
	Description string
}

func (s MemoryShow) Execute(round *ExecutionRound) (OutputToken, error) {
	width := s.Width
	if width == 0 {
		width = 16
	}
	data, err := round.Memory.Read(uint32(s.Addr), uint32(s.Len))
	if err != nil {
		return OutputToken{}, err
	}
	dump := formatHexDump(s.Addr, data, int(width))
	desc := s.Description
	if desc == "" {
		desc = dump
	} else {
		desc = desc + "\n" + dump
	}
	return OutputToken{Kind: TokenSetup, Setup: []string{desc}}, nil
}

// LoadSymbols loads a VICE label file into the round's symbol table.
type LoadSymbols struct {
	Path string
	Read func(path string) ([]byte, error)
}

func (l LoadSymbols) Execute(round *ExecutionRound) (OutputToken, error) {
	read := l.Read
	if read == nil {
		read = defaultFileReader
	}
	data, err := read(l.Path)
	if err != nil {
		return OutputToken{}, err
	}
	if err := round.Symbols.LoadVICELabels(bytesReader(data)); err != nil {
		return OutputToken{}, err
	}
	return OutputToken{Kind: TokenSetup, Setup: []string{fmt.Sprintf("symbols loaded from %q", l.Path)}}, nil
}

// AddSymbol adds or overwrites a single symbol.
type AddSymbol struct {
	Name string
	Addr uint16
}

func (a AddSymbol) Execute(round *ExecutionRound) (OutputToken, error) {
	round.Symbols.Add(a.Name, a.Addr)
	return OutputToken{Kind: TokenSetup, Setup: []string{fmt.Sprintf("symbol %s=#0x%04X added", a.Name, a.Addr)}}, nil
}

// RemoveSymbol deletes a symbol.
type RemoveSymbol struct{ Name string }

func (r RemoveSymbol) Execute(round *ExecutionRound) (OutputToken, error) {
	round.Symbols.Remove(r.Name)
	return OutputToken{Kind: TokenSetup, Setup: []string{fmt.Sprintf("symbol %s removed", r.Name)}}, nil
}

// RegistersFlush re-initializes the register file (CP=0).
type RegistersFlush struct{}

func (RegistersFlush) Execute(round *ExecutionRound) (OutputToken, error) {
	round.Registers.Initialize(0)
	return OutputToken{Kind: TokenSetup, Setup: []string{"registers flushed"}}, nil
}

// RegisterName identifies which register RegistersSet/RegistersShow target.
type RegisterName int

const (
	RegA RegisterName = iota
	RegX
	RegY
	RegS
	RegSP
	RegCP
)

// RegistersSet assigns a literal value to one register.
type RegistersSet struct {
	Register RegisterName
	Value    uint64
}

func (s RegistersSet) Execute(round *ExecutionRound) (OutputToken, error) {
	r := round.Registers
	switch s.Register {
	case RegA:
		r.A = byte(s.Value)
	case RegX:
		r.X = byte(s.Value)
	case RegY:
		r.Y = byte(s.Value)
	case RegS:
		r.SetStatusRegister(byte(s.Value))
	case RegSP:
		r.SP = byte(s.Value)
	case RegCP:
		r.CP = uint16(s.Value)
	}
	return OutputToken{Kind: TokenSetup, Setup: []string{fmt.Sprintf("register %s set to 0x%X", registerName(s.Register), s.Value)}}, nil
}

// RegistersShow renders the requested register (or all of them, if Register
// is nil) as a Setup note.
type RegistersShow struct {
	Register *RegisterName
}

func (s RegistersShow) Execute(round *ExecutionRound) (OutputToken, error) {
	r := round.Registers
	if s.Register == nil {
		return OutputToken{Kind: TokenSetup, Setup: []string{fmt.Sprintf(
			"A=0x%02X X=0x%02X Y=0x%02X S=0x%02X SP=0x%02X CP=0x%04X cycle_count=%d",
			r.A, r.X, r.Y, r.GetStatusRegister(), r.SP, r.CP, r.CycleCount,
		)}}, nil
	}
	var v uint64
	switch *s.Register {
	case RegA:
		v = uint64(r.A)
	case RegX:
		v = uint64(r.X)
	case RegY:
		v = uint64(r.Y)
	case RegS:
		v = uint64(r.GetStatusRegister())
	case RegSP:
		v = uint64(r.SP)
	case RegCP:
		v = uint64(r.CP)
	}
	return OutputToken{Kind: TokenSetup, Setup: []string{fmt.Sprintf("%s=0x%X", registerName(*s.Register), v)}}, nil
}

func registerName(r RegisterName) string {
	switch r {
	case RegA:
		return "A"
	case RegX:
		return "X"
	case RegY:
		return "Y"
	case RegS:
		return "S"
	case RegSP:
		return "SP"
	case RegCP:
		return "CP"
	}
	return "?"
}

// Disassemble dumps Len bytes of instructions starting at Addr as a Setup
// note; it defers to the disasm package for the actual decoding.
type Disassemble struct {
	Addr uint16
	Len  uint16
}

func (d Disassemble) Execute(round *ExecutionRound) (OutputToken, error) {
	lines, err := disasm.Disassemble(round.Memory, d.Addr, d.Addr+d.Len)
	if err != nil {
		return OutputToken{}, err
	}
	notes := make([]string, len(lines))
	for i, l := range lines {
		notes[i] = l.String()
	}
	return OutputToken{Kind: TokenSetup, Setup: notes}, nil
}

// Feature names accepted by enable/disable.
type Feature int

const (
	FeatureTrace Feature = iota
)

type EnableFeature struct{ Feature Feature }
type DisableFeature struct{ Feature Feature }

func (e EnableFeature) Execute(*ExecutionRound) (OutputToken, error) {
	return OutputToken{Kind: TokenSetup, Setup: []string{fmt.Sprintf("feature %d enabled", e.Feature)}}, nil
}

func (d DisableFeature) Execute(*ExecutionRound) (OutputToken, error) {
	return OutputToken{Kind: TokenSetup, Setup: []string{fmt.Sprintf("feature %d disabled", d.Feature)}}, nil
}

// None is a blank or comment-only line: the parser returns a nil Command
// for it, never this type, but it's kept as a documented zero value.
type None struct{}

func (None) Execute(*ExecutionRound) (OutputToken, error) {
	return OutputToken{Kind: TokenNone}, nil
}
