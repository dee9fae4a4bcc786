package z80

// --- 8-bit load group (LD r,r'; LD r,(HL); LD (HL),r) ---

func (c *CPU) opLDrr(dst, src byte) {
	c.writeR8(dst, c.readR8(src))
	switch {
	case dst == r8HL || src == r8HL:
		if c.index != indexNone {
			c.cycles += 19
		} else {
			c.cycles += 7
		}
	default:
		c.cycles += 4
	}
}

func (c *CPU) opNOP() { c.cycles += 4 }

func (c *CPU) opHALT() {
	c.halted = true
	c.cycles += 4
}

func (c *CPU) opDI() {
	c.reg.IFF1 = false
	c.reg.IFF2 = false
	c.cycles += 4
}

func (c *CPU) opEI() {
	c.reg.IFF1 = true
	c.reg.IFF2 = true
	c.iffDelay = true
	c.cycles += 4
}

// --- 16-bit load/register-pair group ---

func (c *CPU) opLDrpNN(p byte) {
	nn := c.fetchWord()
	c.writeRP16(p, nn)
	if c.index != indexNone {
		c.cycles += 14
	} else {
		c.cycles += 10
	}
}

// opIndirectLoad covers the four z=2 forms of quadrant 0: LD (BC),A /
// LD (DE),A / LD (nn),HL / LD (nn),A for q=0, and their A/HL-loading
// mirrors for q=1.
func (c *CPU) opIndirectLoad(p, q byte) {
	if q == 0 {
		switch p {
		case 0:
			c.writeByte(c.bc(), c.reg.A)
			c.cycles += 7
		case 1:
			c.writeByte(c.de(), c.reg.A)
			c.cycles += 7
		case 2:
			addr := c.fetchWord()
			c.writeWord(addr, c.hlValue())
			c.cycles += 16
			if c.index != indexNone {
				c.cycles += 4
			}
		case 3:
			addr := c.fetchWord()
			c.writeByte(addr, c.reg.A)
			c.cycles += 13
		}
		return
	}
	switch p {
	case 0:
		c.reg.A = c.readByte(c.bc())
		c.cycles += 7
	case 1:
		c.reg.A = c.readByte(c.de())
		c.cycles += 7
	case 2:
		addr := c.fetchWord()
		c.setHLValue(c.readWord(addr))
		c.cycles += 16
		if c.index != indexNone {
			c.cycles += 4
		}
	case 3:
		addr := c.fetchWord()
		c.reg.A = c.readByte(addr)
		c.cycles += 13
	}
}

func (c *CPU) bc() uint16 { return uint16(c.reg.B)<<8 | uint16(c.reg.C) }
func (c *CPU) de() uint16 { return uint16(c.reg.D)<<8 | uint16(c.reg.E) }

func (c *CPU) opINCrp(p byte) {
	c.writeRP16(p, c.readRP16(p)+1)
	if c.index != indexNone {
		c.cycles += 10
	} else {
		c.cycles += 6
	}
}

func (c *CPU) opDECrp(p byte) {
	c.writeRP16(p, c.readRP16(p)-1)
	if c.index != indexNone {
		c.cycles += 10
	} else {
		c.cycles += 6
	}
}

func (c *CPU) opEXAFAF2() {
	c.reg.A, c.reg.A2 = c.reg.A2, c.reg.A
	c.reg.F, c.reg.F2 = c.reg.F2, c.reg.F
	c.cycles += 4
}

func (c *CPU) opEXX() {
	c.reg.B, c.reg.B2 = c.reg.B2, c.reg.B
	c.reg.C, c.reg.C2 = c.reg.C2, c.reg.C
	c.reg.D, c.reg.D2 = c.reg.D2, c.reg.D
	c.reg.E, c.reg.E2 = c.reg.E2, c.reg.E
	c.reg.H, c.reg.H2 = c.reg.H2, c.reg.H
	c.reg.L, c.reg.L2 = c.reg.L2, c.reg.L
	c.cycles += 4
}

func (c *CPU) opEXDEHL() {
	c.reg.D, c.reg.H = c.reg.H, c.reg.D
	c.reg.E, c.reg.L = c.reg.L, c.reg.E
	c.cycles += 4
}

func (c *CPU) opEXSPHL() {
	v := c.readWord(c.reg.SP)
	c.writeWord(c.reg.SP, c.hlValue())
	c.setHLValue(v)
	if c.index != indexNone {
		c.cycles += 23
	} else {
		c.cycles += 19
	}
}

func (c *CPU) opLDSPHL() {
	c.reg.SP = c.hlValue()
	if c.index != indexNone {
		c.cycles += 10
	} else {
		c.cycles += 6
	}
}

func (c *CPU) opJPHL() {
	c.reg.PC = c.hlValue()
	c.cycles += 4
}

func (c *CPU) opPUSHrp2(p byte) {
	c.push16(c.readRP2(p))
	if c.index != indexNone {
		c.cycles += 15
	} else {
		c.cycles += 11
	}
}

func (c *CPU) opPOPrp2(p byte) {
	c.writeRP2(p, c.pop16())
	if c.index != indexNone {
		c.cycles += 14
	} else {
		c.cycles += 10
	}
}
