// Package cpu implements the WDC 65C02 microprocessor: its register file,
// addressing-mode resolver, one microcode function per mnemonic, and the
// 256-entry opcode table that ties them together into a single-step
// dispatch loop.
package cpu

import "soft65c02/mem"

// Status register bit layout: N V U B D I Z C (bit 7 down to bit 0).
const (
	FlagCarry            = 1 << 0 // C
	FlagZero             = 1 << 1 // Z
	FlagInterruptDisable = 1 << 2 // I
	FlagDecimal          = 1 << 3 // D
	FlagBreak            = 1 << 4 // B
	FlagUnused           = 1 << 5 // U, always 1
	FlagOverflow         = 1 << 6 // V
	FlagNegative         = 1 << 7 // N
)

// Registers is the 65C02 register file: the three general-purpose
// registers, the stack pointer, the packed status byte, the command
// (program) pointer, and a running cycle counter.
type Registers struct {
	A, X, Y byte
	SP      byte // indexes into page 1, 0x0100-0x01FF
	S       byte // packed status flags, see Flag* constants
	CP      uint16

	CycleCount uint64
}

// New returns a Registers initialized as if the CPU had just come out of
// reset, with the command pointer set to cp.
func New(cp uint16) *Registers {
	r := &Registers{}
	r.Initialize(cp)
	return r
}

// Initialize resets A, X, Y to zero, SP to 0xFF, flags to
// I=1,B=1,U=1 (others clear), CP to cp, and the cycle counter to zero.
func (r *Registers) Initialize(cp uint16) {
	r.A, r.X, r.Y = 0, 0, 0
	r.SP = 0xFF
	r.S = FlagInterruptDisable | FlagBreak | FlagUnused
	r.CP = cp
	r.CycleCount = 0
}

// GetStatusRegister packs N,V,U,B,D,I,Z,C into a single byte. U is always
// reported as 1 regardless of the in-memory value, matching 65C02 hardware.
func (r *Registers) GetStatusRegister() byte {
	return r.S | FlagUnused
}

// SetStatusRegister unpacks b into the status flags, forcing U=1.
func (r *Registers) SetStatusRegister(b byte) {
	r.S = b | FlagUnused
}

func (r *Registers) flag(mask byte) bool { return r.S&mask != 0 }

func (r *Registers) setFlag(mask byte, on bool) {
	if on {
		r.S |= mask
	} else {
		r.S &^= mask
	}
}

func (r *Registers) Negative() bool { return r.flag(FlagNegative) }
func (r *Registers) Overflow() bool { return r.flag(FlagOverflow) }
func (r *Registers) Break() bool    { return r.flag(FlagBreak) }
func (r *Registers) Decimal() bool  { return r.flag(FlagDecimal) }
func (r *Registers) Interrupt() bool { return r.flag(FlagInterruptDisable) }
func (r *Registers) Zero() bool     { return r.flag(FlagZero) }
func (r *Registers) Carry() bool    { return r.flag(FlagCarry) }

func (r *Registers) SetNegative(v bool)  { r.setFlag(FlagNegative, v) }
func (r *Registers) SetOverflow(v bool)  { r.setFlag(FlagOverflow, v) }
func (r *Registers) SetBreak(v bool)     { r.setFlag(FlagBreak, v) }
func (r *Registers) SetDecimal(v bool)   { r.setFlag(FlagDecimal, v) }
func (r *Registers) SetInterrupt(v bool) { r.setFlag(FlagInterruptDisable, v) }
func (r *Registers) SetZero(v bool)      { r.setFlag(FlagZero, v) }
func (r *Registers) SetCarry(v bool)     { r.setFlag(FlagCarry, v) }

// SetNZ sets the Negative and Zero flags from the given result byte, the
// single most common flag update in the instruction set.
func (r *Registers) SetNZ(value byte) {
	r.SetNegative(value&0x80 != 0)
	r.SetZero(value == 0)
}

// Push writes b at 0x0100|SP, then decrements SP (wrapping mod 256).
func (r *Registers) Push(m *mem.MemoryStack, b byte) error {
	if err := m.Write(0x0100|uint32(r.SP), []byte{b}); err != nil {
		return err
	}
	r.SP--
	return nil
}

// Pop increments SP (wrapping mod 256), then reads the byte at 0x0100|SP.
func (r *Registers) Pop(m *mem.MemoryStack) (byte, error) {
	r.SP++
	bytes, err := m.Read(0x0100|uint32(r.SP), 1)
	if err != nil {
		return 0, err
	}
	return bytes[0], nil
}

// Push16 pushes a 16-bit value high byte first, then low byte, matching
// 6502 stack semantics (so Pop16 below retrieves it in the same order it
// was conceptually written).
func (r *Registers) Push16(m *mem.MemoryStack, v uint16) error {
	if err := r.Push(m, byte(v>>8)); err != nil {
		return err
	}
	return r.Push(m, byte(v))
}

// Pop16 pops a low byte then a high byte, the inverse of Push16.
func (r *Registers) Pop16(m *mem.MemoryStack) (uint16, error) {
	lo, err := r.Pop(m)
	if err != nil {
		return 0, err
	}
	hi, err := r.Pop(m)
	if err != nil {
		return 0, err
	}
	return mem.LittleEndian(lo, hi), nil
}
