package cpu

import "soft65c02/mem"

// execContext is everything a microcode function needs beyond the CPU
// itself: the address the opcode byte was fetched from (needed by BRK/JSR,
// which compute push values relative to it rather than to the post-operand
// command pointer), the resolved addressing-mode result, the mode itself
// (needed by the read-modify-write group to choose between the accumulator
// and memory), and -- for the SMBn/RMBn/BBRn/BBSn family only -- which bit
// of the operand byte is being tested or altered.
type execContext struct {
	FetchCP uint16
	R       Resolved
	Mode    AddressingMode
	BitNum  byte
}

// microcodeFunc is one instruction's behavior: given the CPU and the already
// -resolved addressing result, mutate registers/memory (including Regs.CP
// for control-flow ops) and report extra cycles plus any halt fault.
type microcodeFunc func(c *CPU, ctx execContext) (opResult, error)

const brkVector = 0xFFFE

// --- load / store -----------------------------------------------------

func opLDA(c *CPU, ctx execContext) (opResult, error) {
	v, err := c.readTarget(ctx.Mode, ctx.R)
	if err != nil {
		return opResult{}, err
	}
	c.Regs.A = v
	c.Regs.SetNZ(v)
	return opResult{}, nil
}

func opLDX(c *CPU, ctx execContext) (opResult, error) {
	v, err := c.readTarget(ctx.Mode, ctx.R)
	if err != nil {
		return opResult{}, err
	}
	c.Regs.X = v
	c.Regs.SetNZ(v)
	return opResult{}, nil
}

func opLDY(c *CPU, ctx execContext) (opResult, error) {
	v, err := c.readTarget(ctx.Mode, ctx.R)
	if err != nil {
		return opResult{}, err
	}
	c.Regs.Y = v
	c.Regs.SetNZ(v)
	return opResult{}, nil
}

func opSTA(c *CPU, ctx execContext) (opResult, error) {
	return opResult{}, c.Mem.Write(uint32(ctx.R.Address), []byte{c.Regs.A})
}

func opSTX(c *CPU, ctx execContext) (opResult, error) {
	return opResult{}, c.Mem.Write(uint32(ctx.R.Address), []byte{c.Regs.X})
}

func opSTY(c *CPU, ctx execContext) (opResult, error) {
	return opResult{}, c.Mem.Write(uint32(ctx.R.Address), []byte{c.Regs.Y})
}

func opSTZ(c *CPU, ctx execContext) (opResult, error) {
	return opResult{}, c.Mem.Write(uint32(ctx.R.Address), []byte{0})
}

// --- register transfers -------------------------------------------------

func opTAX(c *CPU, ctx execContext) (opResult, error) {
	c.Regs.X = c.Regs.A
	c.Regs.SetNZ(c.Regs.X)
	return opResult{}, nil
}

func opTAY(c *CPU, ctx execContext) (opResult, error) {
	c.Regs.Y = c.Regs.A
	c.Regs.SetNZ(c.Regs.Y)
	return opResult{}, nil
}

func opTXA(c *CPU, ctx execContext) (opResult, error) {
	c.Regs.A = c.Regs.X
	c.Regs.SetNZ(c.Regs.A)
	return opResult{}, nil
}

func opTYA(c *CPU, ctx execContext) (opResult, error) {
	c.Regs.A = c.Regs.Y
	c.Regs.SetNZ(c.Regs.A)
	return opResult{}, nil
}

func opTSX(c *CPU, ctx execContext) (opResult, error) {
	c.Regs.X = c.Regs.SP
	c.Regs.SetNZ(c.Regs.X)
	return opResult{}, nil
}

func opTXS(c *CPU, ctx execContext) (opResult, error) {
	c.Regs.SP = c.Regs.X // TXS alone does not touch N/Z
	return opResult{}, nil
}

// --- stack ---------------------------------------------------------------

func opPHA(c *CPU, ctx execContext) (opResult, error) {
	return opResult{}, c.Regs.Push(c.Mem, c.Regs.A)
}

func opPHP(c *CPU, ctx execContext) (opResult, error) {
	return opResult{}, c.Regs.Push(c.Mem, c.Regs.GetStatusRegister()|FlagBreak)
}

func opPHX(c *CPU, ctx execContext) (opResult, error) {
	return opResult{}, c.Regs.Push(c.Mem, c.Regs.X)
}

func opPHY(c *CPU, ctx execContext) (opResult, error) {
	return opResult{}, c.Regs.Push(c.Mem, c.Regs.Y)
}

func opPLA(c *CPU, ctx execContext) (opResult, error) {
	v, err := c.Regs.Pop(c.Mem)
	if err != nil {
		return opResult{}, err
	}
	c.Regs.A = v
	c.Regs.SetNZ(v)
	return opResult{}, nil
}

func opPLP(c *CPU, ctx execContext) (opResult, error) {
	v, err := c.Regs.Pop(c.Mem)
	if err != nil {
		return opResult{}, err
	}
	c.Regs.SetStatusRegister(v)
	return opResult{}, nil
}

func opPLX(c *CPU, ctx execContext) (opResult, error) {
	v, err := c.Regs.Pop(c.Mem)
	if err != nil {
		return opResult{}, err
	}
	c.Regs.X = v
	c.Regs.SetNZ(v)
	return opResult{}, nil
}

func opPLY(c *CPU, ctx execContext) (opResult, error) {
	v, err := c.Regs.Pop(c.Mem)
	if err != nil {
		return opResult{}, err
	}
	c.Regs.Y = v
	c.Regs.SetNZ(v)
	return opResult{}, nil
}

// --- arithmetic ------------------------------------------------------

func opADC(c *CPU, ctx execContext) (opResult, error) {
	m, err := c.readTarget(ctx.Mode, ctx.R)
	if err != nil {
		return opResult{}, err
	}
	a := c.Regs.A
	carryIn := byte(0)
	if c.Regs.Carry() {
		carryIn = 1
	}

	if c.Regs.Decimal() {
		lo := int(a&0x0F) + int(m&0x0F) + int(carryIn)
		hi := int(a>>4) + int(m>>4)
		if lo > 9 {
			lo += 6
			hi++
		}
		binResult := byte(int(a) + int(m) + int(carryIn))
		v := (^(a ^ m) & (a ^ binResult) & 0x80) != 0
		carryOut := hi > 9
		if carryOut {
			hi += 6
		}
		result := byte(hi<<4) | byte(lo&0x0F)
		c.Regs.A = result
		c.Regs.SetCarry(carryOut)
		c.Regs.SetOverflow(v)
		c.Regs.SetNZ(result)
		// decimal ADC costs one extra cycle on the 65C02
		return opResult{ExtraCycles: 1}, nil
	}

	sum := int(a) + int(m) + int(carryIn)
	result := byte(sum)
	c.Regs.A = result
	c.Regs.SetCarry(sum > 0xFF)
	c.Regs.SetOverflow((^(a ^ m) & (a ^ result) & 0x80) != 0)
	c.Regs.SetNZ(result)
	return opResult{}, nil
}

func opSBC(c *CPU, ctx execContext) (opResult, error) {
	m, err := c.readTarget(ctx.Mode, ctx.R)
	if err != nil {
		return opResult{}, err
	}
	a := c.Regs.A
	borrow := 0
	if !c.Regs.Carry() {
		borrow = 1
	}

	binResult := byte(int(a) - int(m) - borrow)
	v := ((a ^ m) & (a ^ binResult) & 0x80) != 0
	carryOut := int(a)-int(m)-borrow >= 0

	if c.Regs.Decimal() {
		lo := int(a&0x0F) - int(m&0x0F) - borrow
		hi := int(a>>4) - int(m>>4)
		if lo < 0 {
			lo += 10
			hi--
		}
		if hi < 0 {
			hi += 10
		}
		result := byte(hi<<4) | byte(lo&0x0F)
		c.Regs.A = result
		c.Regs.SetCarry(carryOut)
		c.Regs.SetOverflow(v)
		c.Regs.SetNZ(result)
		return opResult{ExtraCycles: 1}, nil
	}

	c.Regs.A = binResult
	c.Regs.SetCarry(carryOut)
	c.Regs.SetOverflow(v)
	c.Regs.SetNZ(binResult)
	return opResult{}, nil
}

// --- bitwise ----------------------------------------------------------

func opAND(c *CPU, ctx execContext) (opResult, error) {
	m, err := c.readTarget(ctx.Mode, ctx.R)
	if err != nil {
		return opResult{}, err
	}
	c.Regs.A &= m
	c.Regs.SetNZ(c.Regs.A)
	return opResult{}, nil
}

func opORA(c *CPU, ctx execContext) (opResult, error) {
	m, err := c.readTarget(ctx.Mode, ctx.R)
	if err != nil {
		return opResult{}, err
	}
	c.Regs.A |= m
	c.Regs.SetNZ(c.Regs.A)
	return opResult{}, nil
}

func opEOR(c *CPU, ctx execContext) (opResult, error) {
	m, err := c.readTarget(ctx.Mode, ctx.R)
	if err != nil {
		return opResult{}, err
	}
	c.Regs.A ^= m
	c.Regs.SetNZ(c.Regs.A)
	return opResult{}, nil
}

func opBIT(c *CPU, ctx execContext) (opResult, error) {
	m, err := c.readTarget(ctx.Mode, ctx.R)
	if err != nil {
		return opResult{}, err
	}
	c.Regs.SetZero(c.Regs.A&m == 0)
	if ctx.Mode != Immediate {
		c.Regs.SetNegative(m&0x80 != 0)
		c.Regs.SetOverflow(m&0x40 != 0)
	}
	return opResult{}, nil
}

// --- shifts / rotates ---------------------------------------------------

func opASL(c *CPU, ctx execContext) (opResult, error) {
	v, err := c.readTarget(ctx.Mode, ctx.R)
	if err != nil {
		return opResult{}, err
	}
	result := v << 1
	c.Regs.SetCarry(v&0x80 != 0)
	c.Regs.SetNZ(result)
	return opResult{}, c.writeTarget(ctx.Mode, ctx.R, result)
}

func opLSR(c *CPU, ctx execContext) (opResult, error) {
	v, err := c.readTarget(ctx.Mode, ctx.R)
	if err != nil {
		return opResult{}, err
	}
	result := v >> 1
	c.Regs.SetCarry(v&0x01 != 0)
	c.Regs.SetNZ(result)
	return opResult{}, c.writeTarget(ctx.Mode, ctx.R, result)
}

func opROL(c *CPU, ctx execContext) (opResult, error) {
	v, err := c.readTarget(ctx.Mode, ctx.R)
	if err != nil {
		return opResult{}, err
	}
	carryIn := byte(0)
	if c.Regs.Carry() {
		carryIn = 1
	}
	result := (v << 1) | carryIn
	c.Regs.SetCarry(v&0x80 != 0)
	c.Regs.SetNZ(result)
	return opResult{}, c.writeTarget(ctx.Mode, ctx.R, result)
}

func opROR(c *CPU, ctx execContext) (opResult, error) {
	v, err := c.readTarget(ctx.Mode, ctx.R)
	if err != nil {
		return opResult{}, err
	}
	carryIn := byte(0)
	if c.Regs.Carry() {
		carryIn = 0x80
	}
	result := (v >> 1) | carryIn
	c.Regs.SetCarry(v&0x01 != 0)
	c.Regs.SetNZ(result)
	return opResult{}, c.writeTarget(ctx.Mode, ctx.R, result)
}

// --- increment / decrement ----------------------------------------------

func opINC(c *CPU, ctx execContext) (opResult, error) {
	v, err := c.readTarget(ctx.Mode, ctx.R)
	if err != nil {
		return opResult{}, err
	}
	v++
	c.Regs.SetNZ(v)
	return opResult{}, c.writeTarget(ctx.Mode, ctx.R, v)
}

func opDEC(c *CPU, ctx execContext) (opResult, error) {
	v, err := c.readTarget(ctx.Mode, ctx.R)
	if err != nil {
		return opResult{}, err
	}
	v--
	c.Regs.SetNZ(v)
	return opResult{}, c.writeTarget(ctx.Mode, ctx.R, v)
}

func opINX(c *CPU, ctx execContext) (opResult, error) {
	c.Regs.X++
	c.Regs.SetNZ(c.Regs.X)
	return opResult{}, nil
}

func opDEX(c *CPU, ctx execContext) (opResult, error) {
	c.Regs.X--
	c.Regs.SetNZ(c.Regs.X)
	return opResult{}, nil
}

func opINY(c *CPU, ctx execContext) (opResult, error) {
	c.Regs.Y++
	c.Regs.SetNZ(c.Regs.Y)
	return opResult{}, nil
}

func opDEY(c *CPU, ctx execContext) (opResult, error) {
	c.Regs.Y--
	c.Regs.SetNZ(c.Regs.Y)
	return opResult{}, nil
}

// --- compares ----------------------------------------------------------

func compare(c *CPU, reg byte, ctx execContext) (opResult, error) {
	m, err := c.readTarget(ctx.Mode, ctx.R)
	if err != nil {
		return opResult{}, err
	}
	result := reg - m
	c.Regs.SetCarry(reg >= m)
	c.Regs.SetNZ(result)
	return opResult{}, nil
}

func opCMP(c *CPU, ctx execContext) (opResult, error) { return compare(c, c.Regs.A, ctx) }
func opCPX(c *CPU, ctx execContext) (opResult, error) { return compare(c, c.Regs.X, ctx) }
func opCPY(c *CPU, ctx execContext) (opResult, error) { return compare(c, c.Regs.Y, ctx) }

// --- branches ------------------------------------------------------------

func branchIf(c *CPU, ctx execContext, cond bool) (opResult, error) {
	if !cond {
		return opResult{}, nil
	}
	extra := byte(1)
	if ctx.R.PageCrossed {
		extra++
	}
	c.Regs.CP = ctx.R.BranchTarget
	return opResult{ExtraCycles: extra}, nil
}

func opBPL(c *CPU, ctx execContext) (opResult, error) { return branchIf(c, ctx, !c.Regs.Negative()) }
func opBMI(c *CPU, ctx execContext) (opResult, error) { return branchIf(c, ctx, c.Regs.Negative()) }
func opBVC(c *CPU, ctx execContext) (opResult, error) { return branchIf(c, ctx, !c.Regs.Overflow()) }
func opBVS(c *CPU, ctx execContext) (opResult, error) { return branchIf(c, ctx, c.Regs.Overflow()) }
func opBCC(c *CPU, ctx execContext) (opResult, error) { return branchIf(c, ctx, !c.Regs.Carry()) }
func opBCS(c *CPU, ctx execContext) (opResult, error) { return branchIf(c, ctx, c.Regs.Carry()) }
func opBNE(c *CPU, ctx execContext) (opResult, error) { return branchIf(c, ctx, !c.Regs.Zero()) }
func opBEQ(c *CPU, ctx execContext) (opResult, error) { return branchIf(c, ctx, c.Regs.Zero()) }
func opBRA(c *CPU, ctx execContext) (opResult, error) { return branchIf(c, ctx, true) }

// --- BBRn / BBSn / SMBn / RMBn (65C02-only) ------------------------------

func opBBR(c *CPU, ctx execContext) (opResult, error) {
	v, err := c.readTarget(ZeroPage, ctx.R)
	if err != nil {
		return opResult{}, err
	}
	return branchIf(c, ctx, !testBit(v, ctx.BitNum))
}

func opBBS(c *CPU, ctx execContext) (opResult, error) {
	v, err := c.readTarget(ZeroPage, ctx.R)
	if err != nil {
		return opResult{}, err
	}
	return branchIf(c, ctx, testBit(v, ctx.BitNum))
}

func opSMB(c *CPU, ctx execContext) (opResult, error) {
	v, err := c.readTarget(ZeroPage, ctx.R)
	if err != nil {
		return opResult{}, err
	}
	return opResult{}, c.writeTarget(ZeroPage, ctx.R, setBit(v, ctx.BitNum))
}

func opRMB(c *CPU, ctx execContext) (opResult, error) {
	v, err := c.readTarget(ZeroPage, ctx.R)
	if err != nil {
		return opResult{}, err
	}
	return opResult{}, c.writeTarget(ZeroPage, ctx.R, clearBit(v, ctx.BitNum))
}

// --- control flow ---------------------------------------------------------

func opJMP(c *CPU, ctx execContext) (opResult, error) {
	c.Regs.CP = ctx.R.Address
	return opResult{}, nil
}

func opJSR(c *CPU, ctx execContext) (opResult, error) {
	if err := c.Regs.Push16(c.Mem, ctx.FetchCP+2); err != nil {
		return opResult{}, err
	}
	c.Regs.CP = ctx.R.Address
	return opResult{}, nil
}

func opRTS(c *CPU, ctx execContext) (opResult, error) {
	addr, err := c.Regs.Pop16(c.Mem)
	if err != nil {
		return opResult{}, err
	}
	c.Regs.CP = addr + 1
	return opResult{}, nil
}

func opRTI(c *CPU, ctx execContext) (opResult, error) {
	status, err := c.Regs.Pop(c.Mem)
	if err != nil {
		return opResult{}, err
	}
	c.Regs.SetStatusRegister(status)
	addr, err := c.Regs.Pop16(c.Mem)
	if err != nil {
		return opResult{}, err
	}
	c.Regs.CP = addr
	return opResult{}, nil
}

func opBRK(c *CPU, ctx execContext) (opResult, error) {
	if err := c.Regs.Push16(c.Mem, ctx.FetchCP+2); err != nil {
		return opResult{}, err
	}
	if err := c.Regs.Push(c.Mem, c.Regs.GetStatusRegister()|FlagBreak); err != nil {
		return opResult{}, err
	}
	c.Regs.SetInterrupt(true)
	c.Regs.SetDecimal(false)
	vec, err := c.Mem.Read(brkVector, 2)
	if err != nil {
		return opResult{}, err
	}
	c.Regs.CP = mem.LittleEndianBytes(vec)
	return opResult{}, nil
}

func opNOP(c *CPU, ctx execContext) (opResult, error) { return opResult{}, nil }

func opSTP(c *CPU, ctx execContext) (opResult, error) {
	f := FaultStop
	return opResult{Fault: &f}, nil
}

func opWAI(c *CPU, ctx execContext) (opResult, error) {
	f := FaultWait
	return opResult{Fault: &f}, nil
}

// --- flags ----------------------------------------------------------------

func opCLC(c *CPU, ctx execContext) (opResult, error) { c.Regs.SetCarry(false); return opResult{}, nil }
func opSEC(c *CPU, ctx execContext) (opResult, error) { c.Regs.SetCarry(true); return opResult{}, nil }
func opCLD(c *CPU, ctx execContext) (opResult, error) { c.Regs.SetDecimal(false); return opResult{}, nil }
func opSED(c *CPU, ctx execContext) (opResult, error) { c.Regs.SetDecimal(true); return opResult{}, nil }
func opCLI(c *CPU, ctx execContext) (opResult, error) {
	c.Regs.SetInterrupt(false)
	return opResult{}, nil
}
func opSEI(c *CPU, ctx execContext) (opResult, error) {
	c.Regs.SetInterrupt(true)
	return opResult{}, nil
}
func opCLV(c *CPU, ctx execContext) (opResult, error) {
	c.Regs.SetOverflow(false)
	return opResult{}, nil
}

// --- TRB / TSB (65C02-only) ------------------------------------------------

func opTRB(c *CPU, ctx execContext) (opResult, error) {
	v, err := c.readTarget(ctx.Mode, ctx.R)
	if err != nil {
		return opResult{}, err
	}
	c.Regs.SetZero(c.Regs.A&v == 0)
	return opResult{}, c.writeTarget(ctx.Mode, ctx.R, v&^c.Regs.A)
}

func opTSB(c *CPU, ctx execContext) (opResult, error) {
	v, err := c.readTarget(ctx.Mode, ctx.R)
	if err != nil {
		return opResult{}, err
	}
	c.Regs.SetZero(c.Regs.A&v == 0)
	return opResult{}, c.writeTarget(ctx.Mode, ctx.R, v|c.Regs.A)
}
