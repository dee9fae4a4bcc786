package m68k

// 68020 long multiply/divide forms: a 32x32 multiply producing a 64-bit
// or 32-bit result, and a 64/32 or 32/32 divide producing a 32-bit
// quotient and remainder, each in a register pair named by an extension
// word rather than the single Dn of the word forms.
func init() {
	registerMULL()
	registerDIVL()
	registerCHKL()
}

func registerMULL() {
	for mode := uint16(0); mode < 8; mode++ {
		if mode == 1 {
			continue
		}
		for reg := uint16(0); reg < 8; reg++ {
			if mode == 7 && reg > 4 {
				continue
			}
			opcodeTable[0x4C00|mode<<3|reg] = opMULL
		}
	}
}

func opMULL(c *CPU) {
	if c.variant < MC68020 {
		c.exception(vecIllegalInstruction)
		return
	}
	mode := uint8((c.ir >> 3) & 7)
	reg := uint8(c.ir & 7)

	ext := c.fetchPC()
	dh := (ext >> 12) & 7
	dl := ext & 7
	signed := ext&0x0800 != 0
	wide := ext&0x0400 != 0

	src := c.resolveEA(mode, reg, Long)
	s := src.read(c, Long)
	d := c.reg.D[dl]

	c.reg.SR &^= flagN | flagZ | flagV | flagC

	if signed {
		product := int64(int32(s)) * int64(int32(d))
		if wide {
			c.reg.D[dh] = uint32(uint64(product) >> 32)
			c.reg.D[dl] = uint32(uint64(product))
		} else {
			if product > 0x7FFFFFFF || product < -0x80000000 {
				c.reg.SR |= flagV
			}
			c.reg.D[dl] = uint32(product)
		}
		if int64(int32(c.reg.D[dl])) == 0 && (!wide || c.reg.D[dh] == 0) {
			c.reg.SR |= flagZ
		}
		if wide && c.reg.D[dh]&0x80000000 != 0 {
			c.reg.SR |= flagN
		} else if !wide && c.reg.D[dl]&0x80000000 != 0 {
			c.reg.SR |= flagN
		}
	} else {
		product := uint64(s) * uint64(d)
		if wide {
			c.reg.D[dh] = uint32(product >> 32)
			c.reg.D[dl] = uint32(product)
		} else {
			if product > 0xFFFFFFFF {
				c.reg.SR |= flagV
			}
			c.reg.D[dl] = uint32(product)
		}
		if c.reg.D[dl] == 0 && (!wide || c.reg.D[dh] == 0) {
			c.reg.SR |= flagZ
		}
		if wide && c.reg.D[dh]&0x80000000 != 0 {
			c.reg.SR |= flagN
		} else if !wide && c.reg.D[dl]&0x80000000 != 0 {
			c.reg.SR |= flagN
		}
	}

	c.cycles += 28 + eaFetchCycles(mode, reg, Long)
}

// registerCHKL registers CHK.L <ea>,Dn, the 68020 32-bit-bound form of CHK.
// Encoding: 0100 DDD 100 MMM RRR
func registerCHKL() {
	for dn := uint16(0); dn < 8; dn++ {
		for mode := uint16(0); mode < 8; mode++ {
			if mode == 1 {
				continue
			}
			for reg := uint16(0); reg < 8; reg++ {
				if mode == 7 && reg > 4 {
					continue
				}
				opcodeTable[0x4100|dn<<9|mode<<3|reg] = opCHKL
			}
		}
	}
}

func opCHKL(c *CPU) {
	if c.variant < MC68020 {
		c.exception(vecIllegalInstruction)
		return
	}
	dn := (c.ir >> 9) & 7
	mode := uint8((c.ir >> 3) & 7)
	reg := uint8(c.ir & 7)

	src := c.resolveEA(mode, reg, Long)
	bound := int32(src.read(c, Long))
	val := int32(c.reg.D[dn])

	if val < 0 {
		c.reg.SR &^= flagN | flagZ | flagV | flagC
		c.reg.SR |= flagN
		c.exception(vecCHK)
		return
	}
	if val > bound {
		c.reg.SR &^= flagN | flagZ | flagV | flagC
		c.exception(vecCHK)
		return
	}

	c.cycles += 10 + eaFetchCycles(mode, reg, Long)
}

func registerDIVL() {
	for mode := uint16(0); mode < 8; mode++ {
		if mode == 1 {
			continue
		}
		for reg := uint16(0); reg < 8; reg++ {
			if mode == 7 && reg > 4 {
				continue
			}
			opcodeTable[0x4C40|mode<<3|reg] = opDIVL
		}
	}
}

func opDIVL(c *CPU) {
	if c.variant < MC68020 {
		c.exception(vecIllegalInstruction)
		return
	}
	mode := uint8((c.ir >> 3) & 7)
	reg := uint8(c.ir & 7)

	ext := c.fetchPC()
	dr := (ext >> 12) & 7
	dq := ext & 7
	signed := ext&0x0800 != 0
	wide := ext&0x0400 != 0

	src := c.resolveEA(mode, reg, Long)
	divisor := src.read(c, Long)
	if divisor == 0 {
		c.exception(vecDivideByZero)
		return
	}

	c.reg.SR &^= flagN | flagZ | flagV | flagC

	if signed {
		var dividend int64
		if wide {
			dividend = int64(uint64(c.reg.D[dr])<<32 | uint64(c.reg.D[dq]))
		} else {
			dividend = int64(int32(c.reg.D[dq]))
		}
		div := int64(int32(divisor))
		quotient := dividend / div
		remainder := dividend % div
		if quotient > 0x7FFFFFFF || quotient < -0x80000000 {
			c.reg.SR |= flagV
			return
		}
		c.reg.D[dq] = uint32(quotient)
		c.reg.D[dr] = uint32(remainder)
		if quotient == 0 {
			c.reg.SR |= flagZ
		}
		if quotient < 0 {
			c.reg.SR |= flagN
		}
	} else {
		var dividend uint64
		if wide {
			dividend = uint64(c.reg.D[dr])<<32 | uint64(c.reg.D[dq])
		} else {
			dividend = uint64(c.reg.D[dq])
		}
		div := uint64(divisor)
		quotient := dividend / div
		remainder := dividend % div
		if quotient > 0xFFFFFFFF {
			c.reg.SR |= flagV
			return
		}
		c.reg.D[dq] = uint32(quotient)
		c.reg.D[dr] = uint32(remainder)
		if quotient == 0 {
			c.reg.SR |= flagZ
		}
		if uint32(quotient)&0x80000000 != 0 {
			c.reg.SR |= flagN
		}
	}

	c.cycles += 84 + eaFetchCycles(mode, reg, Long)
}
