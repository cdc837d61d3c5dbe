// Package disasm is a stateless 65C02 disassembler built on the same
// addressing-mode metadata the cpu package uses to execute instructions, so
// disassembly and execution can never disagree about operand shape.
package disasm

import (
	"fmt"
	"strings"

	"soft65c02/cpu"
	"soft65c02/mem"
)

// Line is one disassembled instruction.
type Line struct {
	Address uint16
	Bytes   []byte
	Text    string // "MNEM  operand", already formatted
}

// String renders a Line as "#0xAAAA: (bb bb bb) MNEM  operand".
func (l Line) String() string {
	hex := make([]string, len(l.Bytes))
	for i, b := range l.Bytes {
		hex[i] = fmt.Sprintf("%02x", b)
	}
	return fmt.Sprintf("#0x%04X: (%s) %s", l.Address, strings.Join(hex, " "), l.Text)
}

// Disassembler steps through memory one instruction at a time. It holds no
// CPU state -- only the next address to decode -- so it can be restarted
// from any address by constructing a new one.
type Disassembler struct {
	mem *mem.MemoryStack
	at  uint16
}

// New returns a Disassembler that will next decode the instruction at at.
func New(m *mem.MemoryStack, at uint16) *Disassembler {
	return &Disassembler{mem: m, at: at}
}

// Next decodes one instruction and advances past it.
func (d *Disassembler) Next() (Line, error) {
	addr := d.at
	opcodeByte, err := d.mem.Read(uint32(addr), 1)
	if err != nil {
		return Line{}, err
	}
	row := cpu.OpcodeTable[opcodeByte[0]]

	resolved, err := cpu.Resolve(row.AddressingMode, addr, d.mem, cpu.New(addr))
	if err != nil {
		return Line{}, err
	}

	length := 1 + cpu.OperandCount(row.AddressingMode)
	all := append([]byte{opcodeByte[0]}, resolved.Operands...)

	operand := cpu.FormatOperand(row.AddressingMode, resolved)
	text := row.Mnemonic
	if operand != "" {
		text += "  " + operand
	}

	d.at = addr + uint16(length)
	return Line{Address: addr, Bytes: all, Text: text}, nil
}

// Disassemble decodes instructions starting at start, stopping strictly
// before end (an instruction straddling end is still included in full, as
// long as it started before end).
func Disassemble(m *mem.MemoryStack, start, end uint16) ([]Line, error) {
	d := New(m, start)
	var lines []Line
	for d.at < end {
		line, err := d.Next()
		if err != nil {
			return lines, err
		}
		lines = append(lines, line)
	}
	return lines, nil
}
