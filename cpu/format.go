package cpu

import (
	"fmt"

	"soft65c02/mem"
)

// FormatOperand renders a resolved addressing result the way a 65C02
// disassembler would: immediate = "#$nn", absolute = "$nnnn", indexed =
// "$nn,X", etc. Used both by the disassembler and by LogLine-based trace
// output, so the two always agree.
func FormatOperand(mode AddressingMode, r Resolved) string {
	switch mode {
	case Implied:
		return ""
	case Accumulator:
		return "A"
	case Immediate:
		return fmt.Sprintf("#$%02X", r.Operands[0])
	case ZeroPage:
		return fmt.Sprintf("$%02X", r.Operands[0])
	case ZeroPageX:
		return fmt.Sprintf("$%02X,X", r.Operands[0])
	case ZeroPageY:
		return fmt.Sprintf("$%02X,Y", r.Operands[0])
	case Absolute:
		return fmt.Sprintf("$%04X", mem.LittleEndianBytes(r.Operands))
	case AbsoluteX:
		return fmt.Sprintf("$%04X,X", mem.LittleEndianBytes(r.Operands))
	case AbsoluteY:
		return fmt.Sprintf("$%04X,Y", mem.LittleEndianBytes(r.Operands))
	case Indirect:
		return fmt.Sprintf("($%04X)", mem.LittleEndianBytes(r.Operands))
	case AbsoluteIndexedIndirect:
		return fmt.Sprintf("($%04X,X)", mem.LittleEndianBytes(r.Operands))
	case IndirectX:
		return fmt.Sprintf("($%02X,X)", r.Operands[0])
	case IndirectY:
		return fmt.Sprintf("($%02X),Y", r.Operands[0])
	case IndirectZP:
		return fmt.Sprintf("($%02X)", r.Operands[0])
	case Relative:
		return fmt.Sprintf("$%04X", r.BranchTarget)
	case ZeroPageRelative:
		return fmt.Sprintf("$%02X,$%04X", r.Operands[0], r.BranchTarget)
	default:
		return ""
	}
}
