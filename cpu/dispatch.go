package cpu

// ExecuteStep runs exactly one instruction: fetch the opcode at Regs.CP,
// resolve its operand per the opcode table's addressing mode, advance CP by
// default (the microcode function may override this -- branches taken,
// JMP, JSR, RTS, RTI, BRK), invoke the microcode, and accumulate cycles.
//
// Self-loop detection (an instruction that leaves CP unchanged, e.g. a
// branch to itself) is the caller's concern, not this function's: it always
// executes precisely one instruction and reports what happened.
func (c *CPU) ExecuteStep() (LogLine, error) {
	fetchCP := c.Regs.CP

	opcodeBytes, err := c.Mem.Read(uint32(fetchCP), 1)
	if err != nil {
		return LogLine{}, memErr(err)
	}
	opcode := opcodeBytes[0]
	r := OpcodeTable[opcode]

	resolved, err := Resolve(r.AddressingMode, fetchCP, c.Mem, c.Regs)
	if err != nil {
		return LogLine{}, memErr(err)
	}

	defaultNext := fetchCP + 1 + uint16(OperandCount(r.AddressingMode))
	c.Regs.CP = defaultNext

	ctx := execContext{FetchCP: fetchCP, R: resolved, Mode: r.AddressingMode, BitNum: r.BitNum}
	result, err := r.Microcode(c, ctx)
	if err != nil {
		return LogLine{}, memErr(err)
	}

	cycles := r.Cycles + result.ExtraCycles
	if r.PageCrossCost && resolved.PageCrossed {
		cycles++
	}
	c.Regs.CycleCount += uint64(cycles)

	line := LogLine{
		FetchCP:        fetchCP,
		Opcode:         opcode,
		Operands:       resolved.Operands,
		Mnemonic:       r.Mnemonic,
		Mode:           r.AddressingMode,
		Resolved:       resolved,
		CyclesSpent:    cycles,
		RegistersAfter: *c.Regs,
	}

	if result.Fault != nil {
		return line, faultErr(*result.Fault)
	}
	return line, nil
}
