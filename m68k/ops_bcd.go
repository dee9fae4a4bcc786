package m68k

// Packed-BCD arithmetic: ABCD, SBCD, NBCD. All three correct a binary
// add/subtract by adding or subtracting 6 from a nibble that overflowed
// decimal range, then fold the extend bit in as a tenth input so chained
// multi-byte BCD arithmetic carries correctly across bytes.
func init() {
	registerABCD()
	registerSBCD()
	registerNBCD()
}

// --- ABCD ---

// registerABCD covers both ABCD operand forms: Dy,Dx (R=0) and
// -(Ay),-(Ax) (R=1), encoded as 1100 XXX1 0000 RYYY.
func registerABCD() {
	for rx := uint16(0); rx < 8; rx++ {
		for ry := uint16(0); ry < 8; ry++ {
			opcodeTable[0xC100|rx<<9|ry] = opABCDreg
			opcodeTable[0xC108|rx<<9|ry] = opABCDmem
		}
	}
}

func opABCDreg(c *CPU) {
	rx := (c.ir >> 9) & 7
	ry := c.ir & 7

	sum := bcdAdd(c, c.reg.D[ry]&0xFF, c.reg.D[rx]&0xFF)
	c.reg.D[rx] = (c.reg.D[rx] & 0xFFFFFF00) | sum

	c.cycles += 6
}

func opABCDmem(c *CPU) {
	rx := (c.ir >> 9) & 7
	ry := c.ir & 7

	src := c.resolveEA(4, uint8(ry), Byte) // -(Ay)
	dst := c.resolveEA(4, uint8(rx), Byte) // -(Ax)
	sum := bcdAdd(c, src.read(c, Byte), dst.read(c, Byte))
	dst.write(c, Byte, sum)

	c.cycles += 18
}

// bcdAdd adds two packed-BCD bytes plus the extend bit, correcting each
// nibble that carried past 9, and sets C/X/N/V from the corrected byte.
// Z is only cleared (on a nonzero result), never set.
func bcdAdd(c *CPU, s, d uint32) uint32 {
	extend := uint32(0)
	if c.reg.SR&flagX != 0 {
		extend = 1
	}

	uncorrected := s + d + extend

	lowNibble := (s & 0x0F) + (d & 0x0F) + extend
	if lowNibble > 9 {
		lowNibble += 6
	}
	corrected := (s & 0xF0) + (d & 0xF0) + lowNibble

	decimalCarry := corrected > 0x99
	if decimalCarry {
		corrected += 0x60
	}
	result := corrected & 0xFF

	c.reg.SR &^= flagC | flagX | flagN | flagV
	if decimalCarry {
		c.reg.SR |= flagC | flagX
	}
	if result&0x80 != 0 {
		c.reg.SR |= flagN
	}
	// V fires only on a sign change the decimal correction itself caused.
	if uncorrected&0x80 == 0 && result&0x80 != 0 {
		c.reg.SR |= flagV
	}
	if result != 0 {
		c.reg.SR &^= flagZ
	}

	return result
}

// --- SBCD ---

func registerSBCD() {
	for rx := uint16(0); rx < 8; rx++ {
		for ry := uint16(0); ry < 8; ry++ {
			opcodeTable[0x8100|rx<<9|ry] = opSBCDreg
			opcodeTable[0x8108|rx<<9|ry] = opSBCDmem
		}
	}
}

func opSBCDreg(c *CPU) {
	rx := (c.ir >> 9) & 7
	ry := c.ir & 7

	diff := bcdSub(c, c.reg.D[ry]&0xFF, c.reg.D[rx]&0xFF)
	c.reg.D[rx] = (c.reg.D[rx] & 0xFFFFFF00) | diff

	c.cycles += 6
}

func opSBCDmem(c *CPU) {
	rx := (c.ir >> 9) & 7
	ry := c.ir & 7

	src := c.resolveEA(4, uint8(ry), Byte)
	dst := c.resolveEA(4, uint8(rx), Byte)
	diff := bcdSub(c, src.read(c, Byte), dst.read(c, Byte))
	dst.write(c, Byte, diff)

	c.cycles += 18
}

// bcdSub computes minuend-subtrahend-extend over packed-BCD bytes,
// borrowing 6 from a nibble that went negative, mirroring bcdAdd's
// correction in the opposite direction.
func bcdSub(c *CPU, subtrahend, minuend uint32) uint32 {
	extend := uint32(0)
	if c.reg.SR&flagX != 0 {
		extend = 1
	}

	uncorrected := minuend - subtrahend - extend

	lowNibble := (minuend & 0x0F) - (subtrahend & 0x0F) - extend
	result := uncorrected
	if lowNibble&0x10 != 0 {
		result -= 6
	}

	borrow := minuend < subtrahend+extend
	if borrow {
		result -= 0x60
	}

	r8 := result & 0xFF

	c.reg.SR &^= flagC | flagX | flagN | flagV
	if borrow {
		c.reg.SR |= flagC | flagX
	}
	if r8&0x80 != 0 {
		c.reg.SR |= flagN
	}
	// V fires on a sign change (1->0) the decimal correction caused.
	if uncorrected&0x80 != 0 && r8&0x80 == 0 {
		c.reg.SR |= flagV
	}
	if r8 != 0 {
		c.reg.SR &^= flagZ
	}

	return r8
}

// --- NBCD ---

func registerNBCD() {
	// Encoding: 0100 1000 00ss ssss
	for mode := uint16(0); mode < 8; mode++ {
		if mode == 1 {
			continue
		}
		for reg := uint16(0); reg < 8; reg++ {
			if mode == 7 && reg > 1 {
				continue
			}
			opcodeTable[0x4800|mode<<3|reg] = opNBCD
		}
	}
}

// opNBCD negates a packed-BCD byte, implemented as 0 - operand - X.
func opNBCD(c *CPU) {
	mode := uint8((c.ir >> 3) & 7)
	reg := uint8(c.ir & 7)

	dst := c.resolveEA(mode, reg, Byte)
	negated := bcdSub(c, dst.read(c, Byte), 0)
	dst.write(c, Byte, negated)

	if mode == 0 {
		c.cycles += 6
	} else {
		c.cycles += 8 + eaFetchCycles(mode, reg, Byte)
	}
}
