package z80

// opALU dispatches the eight-entry ALU group (ADD, ADC, SUB, SBC, AND,
// XOR, OR, CP) shared by "ALU[y] A,r[z]" and "ALU[y] A,n".
func (c *CPU) opALU(y byte, value byte) {
	switch y {
	case 0:
		c.addA(value, 0)
	case 1:
		c.addA(value, carryBit(c))
	case 2:
		c.subA(value, 0, true)
	case 3:
		c.subA(value, carryBit(c), true)
	case 4:
		c.andA(value)
	case 5:
		c.xorA(value)
	case 6:
		c.orA(value)
	case 7:
		c.subA(value, 0, false)
	}
}

func carryBit(c *CPU) byte {
	if c.flag(flagC) {
		return 1
	}
	return 0
}

// opAccumOp dispatches the z=7 quadrant-0 single-byte accumulator group:
// RLCA, RRCA, RLA, RRA, DAA, CPL, SCF, CCF.
func (c *CPU) opAccumOp(y byte) {
	switch y {
	case 0:
		res, carry := rotateLeft(c.reg.A, c.reg.A&0x80 != 0)
		c.reg.A = res
		c.updateRotateFlags(carry)
	case 1:
		res, carry := rotateRight(c.reg.A, c.reg.A&0x01 != 0)
		c.reg.A = res
		c.updateRotateFlags(carry)
	case 2:
		newCarry := c.reg.A&0x80 != 0
		c.reg.A = (c.reg.A << 1) | carryBit(c)
		c.updateRotateFlags(newCarry)
	case 3:
		newCarry := c.reg.A&0x01 != 0
		oldCarry := carryBit(c)
		c.reg.A = (c.reg.A >> 1) | (oldCarry << 7)
		c.updateRotateFlags(newCarry)
	case 4:
		c.opDAA()
	case 5:
		c.opCPL()
	case 6:
		c.opSCF()
	case 7:
		c.opCCF()
	}
	c.cycles += 4
}

func (c *CPU) opADDHLrp(p byte) {
	res := c.addHL16(c.hlValue(), c.readRP16(p))
	c.setHLValue(res)
	if c.index != indexNone {
		c.cycles += 15
	} else {
		c.cycles += 11
	}
}
