package z80

// rotOpVal applies CB rotate/shift group member y to value, per the
// standard rot[y] table: RLC, RRC, RL, RR, SLA, SRA, SLL (undocumented),
// SRL.
func rotOpVal(y byte, value byte, carryIn bool) (byte, bool) {
	switch y {
	case 0:
		return rotateLeft(value, value&0x80 != 0)
	case 1:
		return rotateRight(value, value&0x01 != 0)
	case 2:
		return rotateLeft(value, carryIn)
	case 3:
		return rotateRight(value, carryIn)
	case 4:
		return shiftLeftArithmetic(value)
	case 5:
		return shiftRightArithmetic(value)
	case 6:
		return shiftLeftLogicalUndoc(value)
	case 7:
		return shiftRightLogical(value)
	}
	return value, false
}

func (c *CPU) dispatchCB(op byte) {
	x := op >> 6
	y := (op >> 3) & 7
	z := op & 7

	switch x {
	case 0:
		value := c.readR8(z)
		res, carry := rotOpVal(y, value, c.flag(flagC))
		c.writeR8(z, res)
		c.reg.F &^= flagH | flagN
		c.setFlag(flagC, carry)
		c.setSZPFlags(res)
		c.cbCycles(z)
	case 1:
		value := c.readR8(z)
		c.bitTest(y, value)
		c.cbBitCycles(z)
	case 2:
		value := c.readR8(z)
		c.writeR8(z, value&^(1<<y))
		c.cbCycles(z)
	case 3:
		value := c.readR8(z)
		c.writeR8(z, value|(1<<y))
		c.cbCycles(z)
	}
}

// dispatchCBIndexed handles the DD CB d op / FD CB d op four-byte forms.
// The memory operand is always (index+disp); for every group except
// BIT, the result is also copied into register z (the undocumented
// "copy to register" behavior) when z != (HL).
func (c *CPU) dispatchCBIndexed(op byte, disp int8) {
	addr := uint16(int32(c.baseIndexReg()) + int32(disp))
	value := c.readByte(addr)
	x := op >> 6
	y := (op >> 3) & 7
	z := op & 7

	switch x {
	case 0:
		res, carry := rotOpVal(y, value, c.flag(flagC))
		c.writeByte(addr, res)
		if z != r8HL {
			c.writeR8Plain(z, res)
		}
		c.reg.F &^= flagH | flagN
		c.setFlag(flagC, carry)
		c.setSZPFlags(res)
		c.cycles += 23
	case 1:
		c.bitTest(y, value)
		c.cycles += 20
	case 2:
		res := value &^ (1 << y)
		c.writeByte(addr, res)
		if z != r8HL {
			c.writeR8Plain(z, res)
		}
		c.cycles += 23
	case 3:
		res := value | (1 << y)
		c.writeByte(addr, res)
		if z != r8HL {
			c.writeR8Plain(z, res)
		}
		c.cycles += 23
	}
}

func (c *CPU) baseIndexReg() uint16 {
	if c.index == indexIY {
		return c.reg.IY
	}
	return c.reg.IX
}

// bitTest sets Z/S/PV/H/N/X/Y from testing bit y of value, leaving C untouched.
func (c *CPU) bitTest(y byte, value byte) {
	bit := value & (1 << y)
	c.reg.F = (c.reg.F & flagC) | flagH
	c.setFlag(flagZ, bit == 0)
	c.setFlag(flagPV, bit == 0)
	c.setFlag(flagS, y == 7 && bit != 0)
	c.reg.F |= value & (flagX | flagY)
}

func (c *CPU) cbCycles(z byte) {
	if z == r8HL {
		c.cycles += 15
	} else {
		c.cycles += 8
	}
}

func (c *CPU) cbBitCycles(z byte) {
	if z == r8HL {
		c.cycles += 12
	} else {
		c.cycles += 8
	}
}
