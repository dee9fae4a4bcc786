package z80

// dispatchED handles the ED-prefix sub-decoder: I/O, 16-bit arithmetic,
// interrupt-mode selection, I/R transfer, RRD/RLD, and the block-move
// family. Per the decoder's resolved ambiguity, every ED-prefixed block
// instruction other than LDI/LDIR/LDD/LDDR (CPI/CPIR/CPD/CPDR,
// INI/INIR/IND/INDR, OUTI/OTIR/OUTD/OTDR) is deliberately unimplemented
// and decodes to an illegal-instruction error rather than acting as a NOP.
func (c *CPU) dispatchED(op byte) {
	x := op >> 6
	y := (op >> 3) & 7
	z := op & 7
	p := y >> 1
	q := y & 1

	switch x {
	case 1:
		c.dispatchED1(y, z, p, q)
	case 2:
		c.dispatchED2(y, z)
	default:
		c.illegal(0xED, op)
	}
}

func (c *CPU) dispatchED1(y, z, p, q byte) {
	switch z {
	case 0:
		v := c.in(c.bc())
		if y != 6 {
			c.writeR8Plain(y, v)
		}
		c.setSZPFlags(v)
		c.reg.F &^= flagH | flagN
		c.cycles += 12
	case 1:
		if y == 6 {
			c.out(c.bc(), 0)
		} else {
			c.out(c.bc(), c.readR8Plain(y))
		}
		c.cycles += 12
	case 2:
		if q == 0 {
			c.setHLValue(c.sbcHL16(c.hlValue(), c.readRP16(p)))
		} else {
			c.setHLValue(c.adcHL16(c.hlValue(), c.readRP16(p)))
		}
		c.cycles += 15
	case 3:
		if q == 0 {
			addr := c.fetchWord()
			c.writeWord(addr, c.readRP16(p))
		} else {
			addr := c.fetchWord()
			c.writeRP16(p, c.readWord(addr))
		}
		c.cycles += 20
	case 4:
		c.opNEG()
		c.cycles += 8
	case 5:
		if y == 1 {
			c.opRETI()
		} else {
			c.opRETN()
		}
		c.cycles += 14
	case 6:
		ims := [8]uint8{0, 0, 1, 2, 0, 0, 1, 2}
		c.reg.IM = ims[y]
		c.cycles += 8
	case 7:
		c.dispatchEDMisc(y)
	}
}

func (c *CPU) opNEG() {
	a := c.reg.A
	c.reg.A = 0
	c.subA(a, 0, true)
}

func (c *CPU) opRETN() {
	c.reg.PC = c.pop16()
	c.reg.IFF1 = c.reg.IFF2
}

func (c *CPU) opRETI() {
	c.reg.PC = c.pop16()
	c.reg.IFF1 = c.reg.IFF2
}

func (c *CPU) dispatchEDMisc(y byte) {
	switch y {
	case 0:
		c.reg.I = c.reg.A
		c.cycles += 9
	case 1:
		c.reg.R = c.reg.A
		c.cycles += 9
	case 2:
		c.reg.A = c.reg.I
		c.updateLDAIRFlags()
		c.cycles += 9
	case 3:
		c.reg.A = c.reg.R
		c.updateLDAIRFlags()
		c.cycles += 9
	case 4:
		c.opRRD()
		c.cycles += 18
	case 5:
		c.opRLD()
		c.cycles += 18
	default:
		c.cycles += 8 // documented NOP forms (ED 71 region variants)
	}
}

// opRRD rotates the low nibble of (HL) into A's low nibble, A's old low
// nibble into (HL)'s high nibble, and (HL)'s old high nibble into its
// own low nibble (a 12-bit rotate right through memory and A).
func (c *CPU) opRRD() {
	addr := c.hlValue()
	mem := c.readByte(addr)
	a := c.reg.A
	c.reg.A = (a & 0xF0) | (mem & 0x0F)
	c.writeByte(addr, (a<<4)|(mem>>4))
	c.setSZPFlags(c.reg.A)
	c.reg.F &^= flagH | flagN
}

func (c *CPU) opRLD() {
	addr := c.hlValue()
	mem := c.readByte(addr)
	a := c.reg.A
	c.reg.A = (a & 0xF0) | (mem >> 4)
	c.writeByte(addr, (mem<<4)|(a&0x0F))
	c.setSZPFlags(c.reg.A)
	c.reg.F &^= flagH | flagN
}

// dispatchED2 handles the block-instruction quadrant (ED opcodes
// 0x80-0xBF): LDI/LDIR/LDD/LDDR are implemented; every other block
// instruction in this range is the decoder's deliberately-unimplemented set.
func (c *CPU) dispatchED2(y, z byte) {
	if z > 3 || y < 4 {
		c.illegal(0xED, 0x80|y<<3|z)
		return
	}

	switch {
	case y == 4 && z == 0:
		c.opLDI()
	case y == 5 && z == 0:
		c.opLDD()
	case y == 6 && z == 0:
		c.opLDIR()
	case y == 7 && z == 0:
		c.opLDDR()
	default:
		// y in {4,5,6,7}, z in {1,2,3}: CPI/CPIR/CPD/CPDR,
		// INI/INIR/IND/INDR, OUTI/OTIR/OUTD/OTDR.
		c.illegal(0xED, 0x80|y<<3|z)
	}
}

func (c *CPU) opLDI() {
	v := c.readByte(c.hlValue())
	c.writeByte(c.de(), v)
	c.setHLValue(c.hlValue() + 1)
	c.setDE(c.de() + 1)
	bc := c.bc() - 1
	c.setBC(bc)
	c.updateLDIFlags(v, bc)
	c.cycles += 16
}

func (c *CPU) opLDD() {
	v := c.readByte(c.hlValue())
	c.writeByte(c.de(), v)
	c.setHLValue(c.hlValue() - 1)
	c.setDE(c.de() - 1)
	bc := c.bc() - 1
	c.setBC(bc)
	c.updateLDIFlags(v, bc)
	c.cycles += 16
}

func (c *CPU) opLDIR() {
	c.opLDI()
	if c.bc() != 0 {
		c.reg.PC -= 2
		c.cycles += 5
	}
}

func (c *CPU) opLDDR() {
	c.opLDD()
	if c.bc() != 0 {
		c.reg.PC -= 2
		c.cycles += 5
	}
}

func (c *CPU) setDE(v uint16) { c.reg.D, c.reg.E = byte(v>>8), byte(v) }
func (c *CPU) setBC(v uint16) { c.reg.B, c.reg.C = byte(v>>8), byte(v) }
