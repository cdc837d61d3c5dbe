package tester

import (
	"bytes"
	"fmt"

	"soft65c02/cpu"
	"soft65c02/mem"
)

// SourceKind identifies what a Source reads from.
type SourceKind int

const (
	SourceAccumulator SourceKind = iota
	SourceRegisterX
	SourceRegisterY
	SourceRegisterS
	SourceRegisterSP
	SourceRegisterCP
	SourceCycleCount
	SourceMemory
	SourceValue
)

// Source is one operand of a comparison: a register, a memory byte, or a
// bare literal.
type Source struct {
	Kind SourceKind
	Addr uint16 // SourceMemory
	Val  uint64 // SourceValue
}

func RegisterSource(kind SourceKind) Source { return Source{Kind: kind} }
func MemorySource(addr uint16) Source        { return Source{Kind: SourceMemory, Addr: addr} }
func ValueSource(v uint64) Source            { return Source{Kind: SourceValue, Val: v} }

// Get reads the current value of the source from the running machine.
func (s Source) Get(regs *cpu.Registers, m *mem.MemoryStack) (uint64, error) {
	switch s.Kind {
	case SourceAccumulator:
		return uint64(regs.A), nil
	case SourceRegisterX:
		return uint64(regs.X), nil
	case SourceRegisterY:
		return uint64(regs.Y), nil
	case SourceRegisterS:
		return uint64(regs.GetStatusRegister()), nil
	case SourceRegisterSP:
		return uint64(regs.SP), nil
	case SourceRegisterCP:
		return uint64(regs.CP), nil
	case SourceCycleCount:
		return regs.CycleCount, nil
	case SourceMemory:
		b, err := m.Read(uint32(s.Addr), 1)
		if err != nil {
			return 0, err
		}
		return uint64(b[0]), nil
	case SourceValue:
		return s.Val, nil
	}
	return 0, fmt.Errorf("unknown source kind %d", s.Kind)
}

func (s Source) String() string {
	switch s.Kind {
	case SourceAccumulator:
		return "A"
	case SourceRegisterX:
		return "X"
	case SourceRegisterY:
		return "Y"
	case SourceRegisterS:
		return "S"
	case SourceRegisterSP:
		return "SP"
	case SourceRegisterCP:
		return "CP"
	case SourceCycleCount:
		return "cycle_count"
	case SourceMemory:
		return fmt.Sprintf("#0x%04X", s.Addr)
	default:
		return fmt.Sprintf("0x%X", s.Val)
	}
}

// CompareOp is one of the six comparison operators the DSL supports.
type CompareOp int

const (
	OpEqual CompareOp = iota
	OpNotEqual
	OpLess
	OpLessOrEqual
	OpGreater
	OpGreaterOrEqual
)

// BooleanExpression is the DSL's condition grammar: comparisons between two
// Sources, a memory-sequence predicate, boolean literals, and the usual
// logical connectives with full parenthesization (NOT binds tighter than
// AND, which binds tighter than OR).
type BooleanExpression interface {
	Eval(regs *cpu.Registers, m *mem.MemoryStack) bool
	String() string
}

type Literal struct{ Value bool }

func (l Literal) Eval(*cpu.Registers, *mem.MemoryStack) bool { return l.Value }
func (l Literal) String() string {
	if l.Value {
		return "true"
	}
	return "false"
}

type Compare struct {
	Left, Right Source
	Op          CompareOp
}

func (c Compare) Eval(regs *cpu.Registers, m *mem.MemoryStack) bool {
	lhs, err := c.Left.Get(regs, m)
	if err != nil {
		return false
	}
	rhs, err := c.Right.Get(regs, m)
	if err != nil {
		return false
	}
	switch c.Op {
	case OpEqual:
		return lhs == rhs
	case OpNotEqual:
		return lhs != rhs
	case OpLess:
		return lhs < rhs
	case OpLessOrEqual:
		return lhs <= rhs
	case OpGreater:
		return lhs > rhs
	case OpGreaterOrEqual:
		return lhs >= rhs
	}
	return false
}

func (c Compare) String() string {
	ops := map[CompareOp]string{
		OpEqual: "=", OpNotEqual: "!=", OpLess: "<", OpLessOrEqual: "<=",
		OpGreater: ">", OpGreaterOrEqual: ">=",
	}
	return fmt.Sprintf("%s %s %s", c.Left, ops[c.Op], c.Right)
}

// MemorySequence is the `ADDR ~ bytes` predicate: true when the bytes
// starting at Addr match Expected exactly. An out-of-range read is defined
// to evaluate false, never to halt the plan (see the error-handling design:
// assert never halts merely because a comparison touched unmapped memory).
type MemorySequence struct {
	Addr     uint16
	Expected []byte
}

func (ms MemorySequence) Eval(_ *cpu.Registers, m *mem.MemoryStack) bool {
	actual, err := m.Read(uint32(ms.Addr), uint32(len(ms.Expected)))
	if err != nil {
		return false
	}
	return bytes.Equal(actual, ms.Expected)
}

func (ms MemorySequence) String() string {
	return fmt.Sprintf("#0x%04X ~ (%d bytes)", ms.Addr, len(ms.Expected))
}

type Not struct{ Inner BooleanExpression }

func (n Not) Eval(regs *cpu.Registers, m *mem.MemoryStack) bool { return !n.Inner.Eval(regs, m) }
func (n Not) String() string                                    { return "NOT " + n.Inner.String() }

type And struct{ Left, Right BooleanExpression }

func (a And) Eval(regs *cpu.Registers, m *mem.MemoryStack) bool {
	return a.Left.Eval(regs, m) && a.Right.Eval(regs, m)
}
func (a And) String() string { return fmt.Sprintf("%s AND %s", a.Left, a.Right) }

type Or struct{ Left, Right BooleanExpression }

func (o Or) Eval(regs *cpu.Registers, m *mem.MemoryStack) bool {
	return o.Left.Eval(regs, m) || o.Right.Eval(regs, m)
}
func (o Or) String() string { return fmt.Sprintf("(%s OR %s)", o.Left, o.Right) }

// PointerAssertion builds the `ADDR -> TARGET[+-OFFSET]` sugar: an And of two
// byte-equalities checking the little-endian pointer stored at addr against
// target (with 16-bit wraparound).
func PointerAssertion(addr uint16, target uint16) BooleanExpression {
	return And{
		Left:  Compare{Left: MemorySource(addr), Op: OpEqual, Right: ValueSource(uint64(target & 0xFF))},
		Right: Compare{Left: MemorySource(addr + 1), Op: OpEqual, Right: ValueSource(uint64((target >> 8) & 0xFF))},
	}
}
