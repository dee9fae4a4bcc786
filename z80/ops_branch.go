package z80

func (c *CPU) opJR() {
	disp := int8(c.fetchByte())
	c.reg.PC = uint16(int32(c.reg.PC) + int32(disp))
	c.cycles += 12
}

func (c *CPU) opJRcc(cc byte) {
	disp := int8(c.fetchByte())
	if c.testCC(cc) {
		c.reg.PC = uint16(int32(c.reg.PC) + int32(disp))
		c.cycles += 12
	} else {
		c.cycles += 7
	}
}

func (c *CPU) opDJNZ() {
	disp := int8(c.fetchByte())
	c.reg.B--
	if c.reg.B != 0 {
		c.reg.PC = uint16(int32(c.reg.PC) + int32(disp))
		c.cycles += 13
	} else {
		c.cycles += 8
	}
}

func (c *CPU) opJP() {
	addr := c.fetchWord()
	c.reg.PC = addr
	c.cycles += 10
}

func (c *CPU) opJPcc(cc byte) {
	addr := c.fetchWord()
	if c.testCC(cc) {
		c.reg.PC = addr
	}
	c.cycles += 10
}

func (c *CPU) opCALL() {
	addr := c.fetchWord()
	c.push16(c.reg.PC)
	c.reg.PC = addr
	c.cycles += 17
}

func (c *CPU) opCALLcc(cc byte) {
	addr := c.fetchWord()
	if c.testCC(cc) {
		c.push16(c.reg.PC)
		c.reg.PC = addr
		c.cycles += 17
	} else {
		c.cycles += 10
	}
}

func (c *CPU) opRET() {
	c.reg.PC = c.pop16()
	c.cycles += 10
}

func (c *CPU) opRETcc(cc byte) {
	if c.testCC(cc) {
		c.reg.PC = c.pop16()
		c.cycles += 11
	} else {
		c.cycles += 5
	}
}

func (c *CPU) opRST(y byte) {
	c.push16(c.reg.PC)
	c.reg.PC = uint16(y) * 8
	c.cycles += 11
}

func (c *CPU) opOUTnA() {
	n := c.fetchByte()
	port := uint16(c.reg.A)<<8 | uint16(n)
	c.out(port, c.reg.A)
	c.cycles += 11
}

func (c *CPU) opINAn() {
	n := c.fetchByte()
	port := uint16(c.reg.A)<<8 | uint16(n)
	c.reg.A = c.in(port)
	c.cycles += 11
}
