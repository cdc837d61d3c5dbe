package cpu

import "soft65c02/mem"

// AddressingMode identifies one of the 65C02's addressing modes. The
// NMOS 6502 modes are extended with the 65C02-specific (ZeroPage) and
// ZeroPage,Relative (used by BBRn/BBSn).
type AddressingMode int

const (
	Implied     AddressingMode = iota
	Accumulator                // operates on A directly
	Immediate                  // operand byte itself is the value
	ZeroPage                   // 0x00LL
	ZeroPageX                  // (LL+X) mod 256
	ZeroPageY                  // (LL+Y) mod 256
	Absolute                   // LLHH
	AbsoluteX                  // LLHH+X
	AbsoluteY                  // LLHH+Y
	Indirect                   // (LLHH), JMP only; 65C02 fixes the page-wrap bug
	IndirectX                  // (LL+X), zero-page wrap
	IndirectY                  // (LL),Y, zero-page wrap on the pointer fetch
	IndirectZP                 // (LL), 65C02 addition: like IndirectY without the +Y
	Relative                   // CP + signed 8-bit offset
	ZeroPageRelative           // zero-page operand, then a relative offset (BBRn/BBSn)
	AbsoluteIndexedIndirect    // (LLHH,X), JMP only: 65C02 addition
)

// OperandCount reports how many bytes follow the opcode for this mode.
func OperandCount(mode AddressingMode) int {
	switch mode {
	case Implied, Accumulator:
		return 0
	case ZeroPageRelative:
		return 2
	case Absolute, AbsoluteX, AbsoluteY, Indirect, AbsoluteIndexedIndirect:
		return 2
	default:
		return 1
	}
}

// Resolved is what the addressing-mode resolver produces: an effective
// address (when the mode has one), the raw operand bytes that followed the
// opcode, an extra-cycle hint, and whether a page boundary was crossed.
// It is transient -- produced fresh for each instruction.
type Resolved struct {
	Address      uint16
	HasAddress   bool
	Operands     []byte
	ExtraCycles  byte
	PageCrossed  bool
	BranchTarget uint16 // valid for Relative and ZeroPageRelative
}

// Resolve is a pure function of (cp, memory, registers): it reads the
// operand bytes following the opcode at cp and computes the effective
// address per mode, without mutating registers or memory.
func Resolve(mode AddressingMode, cp uint16, m *mem.MemoryStack, regs *Registers) (Resolved, error) {
	operandAddr := uint32(cp) + 1 // the opcode byte itself is at cp

	readOperands := func(n int) ([]byte, error) {
		if n == 0 {
			return nil, nil
		}
		return m.Read(operandAddr, uint32(n))
	}

	switch mode {
	case Implied, Accumulator:
		return Resolved{}, nil

	case Immediate:
		ops, err := readOperands(1)
		if err != nil {
			return Resolved{}, err
		}
		return Resolved{Address: cp + 1, HasAddress: true, Operands: ops}, nil

	case ZeroPage:
		ops, err := readOperands(1)
		if err != nil {
			return Resolved{}, err
		}
		return Resolved{Address: uint16(ops[0]), HasAddress: true, Operands: ops}, nil

	case ZeroPageX:
		ops, err := readOperands(1)
		if err != nil {
			return Resolved{}, err
		}
		return Resolved{Address: uint16(byte(ops[0] + regs.X)), HasAddress: true, Operands: ops}, nil

	case ZeroPageY:
		ops, err := readOperands(1)
		if err != nil {
			return Resolved{}, err
		}
		return Resolved{Address: uint16(byte(ops[0] + regs.Y)), HasAddress: true, Operands: ops}, nil

	case Absolute:
		ops, err := readOperands(2)
		if err != nil {
			return Resolved{}, err
		}
		return Resolved{Address: mem.LittleEndianBytes(ops), HasAddress: true, Operands: ops}, nil

	case AbsoluteX:
		ops, err := readOperands(2)
		if err != nil {
			return Resolved{}, err
		}
		base := mem.LittleEndianBytes(ops)
		addr := base + uint16(regs.X)
		return Resolved{
			Address: addr, HasAddress: true, Operands: ops,
			PageCrossed: (addr & 0xFF00) != (base & 0xFF00),
		}, nil

	case AbsoluteY:
		ops, err := readOperands(2)
		if err != nil {
			return Resolved{}, err
		}
		base := mem.LittleEndianBytes(ops)
		addr := base + uint16(regs.Y)
		return Resolved{
			Address: addr, HasAddress: true, Operands: ops,
			PageCrossed: (addr & 0xFF00) != (base & 0xFF00),
		}, nil

	case Indirect:
		ops, err := readOperands(2)
		if err != nil {
			return Resolved{}, err
		}
		ptr := mem.LittleEndianBytes(ops)
		// 65C02 fixes the NMOS page-wrap bug: the high byte is always
		// fetched from ptr+1, even when ptr is the last byte of a page.
		lohi, err := m.Read(uint32(ptr), 2)
		if err != nil {
			return Resolved{}, err
		}
		return Resolved{Address: mem.LittleEndianBytes(lohi), HasAddress: true, Operands: ops}, nil

	case AbsoluteIndexedIndirect:
		ops, err := readOperands(2)
		if err != nil {
			return Resolved{}, err
		}
		ptr := mem.LittleEndianBytes(ops) + uint16(regs.X)
		lohi, err := m.Read(uint32(ptr), 2)
		if err != nil {
			return Resolved{}, err
		}
		return Resolved{Address: mem.LittleEndianBytes(lohi), HasAddress: true, Operands: ops}, nil

	case IndirectX:
		ops, err := readOperands(1)
		if err != nil {
			return Resolved{}, err
		}
		zp := byte(ops[0] + regs.X)
		// The pointer fetch wraps within the zero page (0xFF -> 0x00), so
		// the two bytes are read individually rather than as one range.
		lo, err := m.Read(uint32(zp), 1)
		if err != nil {
			return Resolved{}, err
		}
		hi, err := m.Read(uint32(byte(zp+1)), 1)
		if err != nil {
			return Resolved{}, err
		}
		return Resolved{Address: mem.LittleEndian(lo[0], hi[0]), HasAddress: true, Operands: ops}, nil

	case IndirectY:
		ops, err := readOperands(1)
		if err != nil {
			return Resolved{}, err
		}
		zp := ops[0]
		lo, err := m.Read(uint32(zp), 1)
		if err != nil {
			return Resolved{}, err
		}
		hi, err := m.Read(uint32(byte(zp+1)), 1)
		if err != nil {
			return Resolved{}, err
		}
		base := mem.LittleEndian(lo[0], hi[0])
		addr := base + uint16(regs.Y)
		return Resolved{
			Address: addr, HasAddress: true, Operands: ops,
			PageCrossed: (addr & 0xFF00) != (base & 0xFF00),
		}, nil

	case IndirectZP:
		ops, err := readOperands(1)
		if err != nil {
			return Resolved{}, err
		}
		zp := ops[0]
		lo, err := m.Read(uint32(zp), 1)
		if err != nil {
			return Resolved{}, err
		}
		hi, err := m.Read(uint32(byte(zp+1)), 1)
		if err != nil {
			return Resolved{}, err
		}
		return Resolved{Address: mem.LittleEndian(lo[0], hi[0]), HasAddress: true, Operands: ops}, nil

	case Relative:
		ops, err := readOperands(1)
		if err != nil {
			return Resolved{}, err
		}
		next := cp + 2
		target := next + uint16(int16(int8(ops[0])))
		return Resolved{
			Operands: ops, BranchTarget: target,
			PageCrossed: (target & 0xFF00) != (next & 0xFF00),
		}, nil

	case ZeroPageRelative:
		ops, err := readOperands(2)
		if err != nil {
			return Resolved{}, err
		}
		next := cp + 3
		target := next + uint16(int16(int8(ops[1])))
		return Resolved{
			Address: uint16(ops[0]), HasAddress: true, Operands: ops,
			BranchTarget: target,
			PageCrossed:  (target & 0xFF00) != (next & 0xFF00),
		}, nil
	}

	return Resolved{}, nil
}
