package cpu

import "soft65c02/mem"

// CPU bundles the register file with the memory bus it operates on. It
// carries no other state: every microcode function is a pure transformation
// of (Regs, Mem) plus the addressing-mode resolution already done by the
// dispatch driver.
type CPU struct {
	Regs *Registers
	Mem  *mem.MemoryStack
}

// New65C02 wires a fresh register file to the given bus, with CP set to cp.
func New65C02(m *mem.MemoryStack, cp uint16) *CPU {
	return &CPU{Regs: New(cp), Mem: m}
}

// opResult is what a microcode function reports back to the dispatch driver:
// cycles beyond the opcode table's base count. Control-flow ops (branches
// taken, JMP, JSR, RTS, RTI, BRK) set Regs.CP themselves, overriding the
// driver's default (cp + 1 + operand count) advance in place.
type opResult struct {
	ExtraCycles byte
	Fault       *Fault
}

// readTarget fetches the byte an instruction operates on: the accumulator
// itself in Accumulator mode, otherwise the byte at the resolved address.
func (c *CPU) readTarget(mode AddressingMode, r Resolved) (byte, error) {
	if mode == Accumulator {
		return c.Regs.A, nil
	}
	if !r.HasAddress {
		return 0, nil
	}
	b, err := c.Mem.Read(uint32(r.Address), 1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// writeTarget is the dual of readTarget, used by the read-modify-write
// instructions (ASL, LSR, ROL, ROR, INC, DEC, TRB, TSB).
func (c *CPU) writeTarget(mode AddressingMode, r Resolved, v byte) error {
	if mode == Accumulator {
		c.Regs.A = v
		return nil
	}
	return c.Mem.Write(uint32(r.Address), []byte{v})
}
