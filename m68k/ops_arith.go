package m68k

func init() {
	registerADD()
	registerADDA()
	registerADDI()
	registerADDQ()
	registerADDX()
	registerSUB()
	registerSUBA()
	registerSUBI()
	registerSUBQ()
	registerSUBX()
	registerCMP()
	registerCMPA()
	registerCMPI()
	registerCMPM()
	registerMULU()
	registerMULS()
	registerDIVU()
	registerDIVS()
	registerNEG()
	registerNEGX()
	registerCLR()
	registerEXT()
	registerCHK()
}

// sizeEncoding maps the standard 2-bit size field (bits 7-6) to Size.
func sizeEncoding(bits uint16) Size {
	switch bits {
	case 0:
		return Byte
	case 1:
		return Word
	case 2:
		return Long
	}
	return 0
}

// arithCombine is the two-operand shape ADD and SUB share: given the
// source and destination values, compute the result that setFlags and
// the write-back both need. ADD and SUB differ only in this function
// and in which of setFlagsAdd/setFlagsSub applies; the addressing-mode
// dispatch, register packing, and cycle accounting below are identical
// for both families and are written once.
type arithCombine func(src, dst uint32) uint32
type flagsFn func(c *CPU, src, dst, result uint32, sz Size)

func addCombine(src, dst uint32) uint32 { return src + dst }
func subCombine(src, dst uint32) uint32 { return dst - src }

// execToReg implements the "<ea> OP Dn -> Dn" direction shared by ADD
// and SUB.
func (c *CPU) execToReg(combine arithCombine, setFlags flagsFn) {
	dn := (c.ir >> 9) & 7
	sz := sizeEncoding((c.ir >> 6) & 3)
	mode := uint8((c.ir >> 3) & 7)
	reg := uint8(c.ir & 7)

	src := c.resolveEA(mode, reg, sz)
	s := src.read(c, sz)
	d := c.reg.D[dn] & sz.Mask()
	result := combine(s, d)
	setFlags(c, s, d, result, sz)

	mask := sz.Mask()
	c.reg.D[dn] = (c.reg.D[dn] & ^mask) | (result & mask)

	fetch := eaFetchCycles(mode, reg, sz)
	if sz != Long {
		c.cycles += 4 + fetch
	} else if mode >= 2 && !(mode == 7 && reg == 4) {
		c.cycles += 6 + fetch
	} else {
		c.cycles += 8 + fetch
	}
}

// execToEA implements the "Dn OP <ea> -> <ea>" direction shared by ADD
// and SUB.
func (c *CPU) execToEA(combine arithCombine, setFlags flagsFn) {
	dn := (c.ir >> 9) & 7
	sz := sizeEncoding(((c.ir >> 6) & 7) - 4)
	mode := uint8((c.ir >> 3) & 7)
	reg := uint8(c.ir & 7)

	dst := c.resolveEA(mode, reg, sz)
	d := dst.read(c, sz)
	s := c.reg.D[dn] & sz.Mask()
	result := combine(s, d)
	setFlags(c, s, d, result, sz)
	dst.write(c, sz, result)

	fetch := eaFetchCycles(mode, reg, sz)
	if sz == Long {
		c.cycles += 12 + fetch
	} else {
		c.cycles += 8 + fetch
	}
}

// execToAddrReg implements ADDA/SUBA: sign-extend a word source to 32
// bits, combine into An, and skip the flag logic entirely (address
// arithmetic never touches the condition codes).
func (c *CPU) execToAddrReg(combine func(val, an uint32) uint32) {
	an := (c.ir >> 9) & 7
	sz := Word
	if (c.ir>>6)&7 == 7 {
		sz = Long
	}
	mode := uint8((c.ir >> 3) & 7)
	reg := uint8(c.ir & 7)

	src := c.resolveEA(mode, reg, sz)
	val := src.read(c, sz)
	if sz == Word {
		val = uint32(int32(int16(val)))
	}
	c.reg.A[an] = combine(val, c.reg.A[an])

	fetch := eaFetchCycles(mode, reg, sz)
	if sz == Long && mode >= 2 && !(mode == 7 && reg == 4) {
		c.cycles += 6 + fetch
	} else {
		c.cycles += 8 + fetch
	}
}

// execImmediate implements ADDI/SUBI: fetch the size-matched
// immediate and combine it into the addressed destination.
func (c *CPU) execImmediate(combine arithCombine, setFlags flagsFn) {
	sz := sizeEncoding((c.ir >> 6) & 3)
	mode := uint8((c.ir >> 3) & 7)
	reg := uint8(c.ir & 7)

	var imm uint32
	if sz == Long {
		imm = c.fetchPCLong()
	} else {
		imm = uint32(c.fetchPC()) & sz.Mask()
	}

	dst := c.resolveEA(mode, reg, sz)
	d := dst.read(c, sz)
	result := combine(imm, d)
	setFlags(c, imm, d, result, sz)
	dst.write(c, sz, result)

	if mode == 0 {
		if sz == Long {
			c.cycles += 16
		} else {
			c.cycles += 8
		}
	} else {
		fetch := eaFetchCycles(mode, reg, sz)
		if sz == Long {
			c.cycles += 20 + fetch
		} else {
			c.cycles += 12 + fetch
		}
	}
}

// execQuick implements ADDQ/SUBQ: combine a 1-8 immediate (encoded in
// the opcode itself) into the destination, with a fast path for An
// (always 32-bit, never touches the flags).
func (c *CPU) execQuick(combine arithCombine, setFlags flagsFn, addrRegOp func(an *uint32, data uint32)) {
	data := uint32((c.ir >> 9) & 7)
	if data == 0 {
		data = 8
	}
	sz := sizeEncoding((c.ir >> 6) & 3)
	mode := uint8((c.ir >> 3) & 7)
	reg := uint8(c.ir & 7)

	if mode == 1 {
		addrRegOp(&c.reg.A[reg], data)
		c.cycles += 8
		return
	}

	dst := c.resolveEA(mode, reg, sz)
	d := dst.read(c, sz)
	result := combine(data, d)
	setFlags(c, data, d, result, sz)
	dst.write(c, sz, result)

	if mode == 0 {
		if sz == Long {
			c.cycles += 8
		} else {
			c.cycles += 4
		}
	} else {
		fetch := eaFetchCycles(mode, reg, sz)
		if sz == Long {
			c.cycles += 12 + fetch
		} else {
			c.cycles += 8 + fetch
		}
	}
}

// execX implements ADDX/SUBX's Dn,Dn form: combine two data registers
// plus the extend bit, preserving Z across multi-precision chains (the
// chain reads as zero only if every step produced zero; X-ops clear Z
// on a nonzero result but never set it).
func (c *CPU) execX(combine func(s, d, x uint32) uint32, setFlags flagsFn) {
	rx := (c.ir >> 9) & 7
	sz := sizeEncoding((c.ir >> 6) & 3)
	ry := c.ir & 7

	s := c.reg.D[ry] & sz.Mask()
	d := c.reg.D[rx] & sz.Mask()
	x := extendBit(c)
	result := combine(s, d, x)

	oldZ := c.reg.SR & flagZ
	setFlags(c, s, d, result, sz)
	if result&sz.Mask() == 0 {
		c.reg.SR = (c.reg.SR &^ flagZ) | oldZ
	}

	mask := sz.Mask()
	c.reg.D[rx] = (c.reg.D[rx] & ^mask) | (result & mask)

	c.cycles += 4
	if sz == Long {
		c.cycles += 4
	}
}

// execXmem implements ADDX/SUBX's -(Ay),-(Ax) form.
func (c *CPU) execXmem(combine func(s, d, x uint32) uint32, setFlags flagsFn) {
	rx := (c.ir >> 9) & 7
	sz := sizeEncoding((c.ir >> 6) & 3)
	ry := c.ir & 7

	src := c.resolveEA(4, uint8(ry), sz) // -(Ay)
	s := src.read(c, sz)
	dst := c.resolveEA(4, uint8(rx), sz) // -(Ax)
	d := dst.read(c, sz)
	x := extendBit(c)
	result := combine(s, d, x)

	oldZ := c.reg.SR & flagZ
	setFlags(c, s, d, result, sz)
	if result&sz.Mask() == 0 {
		c.reg.SR = (c.reg.SR &^ flagZ) | oldZ
	}

	dst.write(c, sz, result)
	if sz == Long {
		c.cycles += 30
	} else {
		c.cycles += 18
	}
}

func extendBit(c *CPU) uint32 {
	if c.reg.SR&flagX != 0 {
		return 1
	}
	return 0
}

// --- Opcode-space registration helpers ---

// registerToReg wires the "<ea>,Dn" direction shared by ADD/SUB across
// every EA mode and size (An-direct excluded for Byte: neither
// instruction supports a byte-sized address-register source).
func registerToReg(opcodeBase uint16, fn opFunc) {
	for dn := uint16(0); dn < 8; dn++ {
		for szBits := uint16(0); szBits < 3; szBits++ {
			for mode := uint16(0); mode < 8; mode++ {
				for reg := uint16(0); reg < 8; reg++ {
					if mode == 7 && reg > 4 {
						continue
					}
					if mode == 1 && szBits == 0 {
						continue
					}
					opcodeTable[opcodeBase|dn<<9|szBits<<6|mode<<3|reg] = fn
				}
			}
		}
	}
}

// registerToEA wires the "Dn,<ea>" direction shared by ADD/SUB: memory-
// alterable destinations only.
func registerToEA(opcodeBase uint16, fn opFunc) {
	for dn := uint16(0); dn < 8; dn++ {
		for szBits := uint16(0); szBits < 3; szBits++ {
			for mode := uint16(2); mode < 8; mode++ {
				for reg := uint16(0); reg < 8; reg++ {
					if mode == 7 && reg > 1 {
						continue
					}
					opcodeTable[opcodeBase|dn<<9|(szBits+4)<<6|mode<<3|reg] = fn
				}
			}
		}
	}
}

// registerToAddrReg wires ADDA/SUBA across every EA mode at Word and Long.
func registerToAddrReg(opcodeBase uint16, fn opFunc) {
	for an := uint16(0); an < 8; an++ {
		for _, szBit := range []uint16{3, 7} { // 3=Word, 7=Long
			for mode := uint16(0); mode < 8; mode++ {
				for reg := uint16(0); reg < 8; reg++ {
					if mode == 7 && reg > 4 {
						continue
					}
					opcodeTable[opcodeBase|an<<9|szBit<<6|mode<<3|reg] = fn
				}
			}
		}
	}
}

// registerImmediateArith wires ADDI/SUBI and the other immediate/
// alterable-destination families (NEG/NEGX/CLR) across every memory
// destination mode and size (An-direct excluded: none of these
// instructions write to an address register).
func registerImmediateArith(opcodeBase uint16, fn opFunc) {
	for szBits := uint16(0); szBits < 3; szBits++ {
		for mode := uint16(0); mode < 8; mode++ {
			if mode == 1 {
				continue
			}
			for reg := uint16(0); reg < 8; reg++ {
				if mode == 7 && reg > 1 {
					continue
				}
				opcodeTable[opcodeBase|szBits<<6|mode<<3|reg] = fn
			}
		}
	}
}

// registerQuick wires ADDQ/SUBQ across every EA mode/size including An
// (byte excluded for An, same restriction as the to-Dn direction above).
func registerQuick(opcodeBase uint16, fn opFunc) {
	for data := uint16(0); data < 8; data++ {
		for szBits := uint16(0); szBits < 3; szBits++ {
			for mode := uint16(0); mode < 8; mode++ {
				for reg := uint16(0); reg < 8; reg++ {
					if mode == 7 && reg > 1 {
						continue
					}
					if mode == 1 && szBits == 0 {
						continue
					}
					opcodeTable[opcodeBase|data<<9|szBits<<6|mode<<3|reg] = fn
				}
			}
		}
	}
}

// registerXGroup wires ADDX/SUBX's two operand forms (Dn,Dn and
// -(Ax),-(Ay)) across every size.
func registerXGroup(regBase, memBase uint16, regFn, memFn opFunc) {
	for rx := uint16(0); rx < 8; rx++ {
		for ry := uint16(0); ry < 8; ry++ {
			for szBits := uint16(0); szBits < 3; szBits++ {
				opcodeTable[regBase|rx<<9|szBits<<6|ry] = regFn
				opcodeTable[memBase|rx<<9|szBits<<6|ry] = memFn
			}
		}
	}
}

// registerEAFamily wires a one-operand, every-EA-mode family (MULU,
// MULS, DIVU, DIVS, CHK) that shares the Dn-plus-<ea> register layout
// but whose bodies differ too much (multiply/divide semantics, trap
// conditions) to fold into a single combine function.
func registerEAFamily(opcodeBase uint16, fn opFunc) {
	for dn := uint16(0); dn < 8; dn++ {
		for mode := uint16(0); mode < 8; mode++ {
			if mode == 1 {
				continue
			}
			for reg := uint16(0); reg < 8; reg++ {
				if mode == 7 && reg > 4 {
					continue
				}
				opcodeTable[opcodeBase|dn<<9|mode<<3|reg] = fn
			}
		}
	}
}

// --- ADD ---

// registerADD registers ADD <ea>,Dn and ADD Dn,<ea>.
// Encoding: 1101 DDD O SS eee eee
//
//	O=0: <ea>+Dn->Dn  O=1: Dn+<ea>-><ea>
func registerADD() {
	registerToReg(0xD000, opADDtoReg)
	registerToEA(0xD000, opADDtoEA)
}

func opADDtoReg(c *CPU) { c.execToReg(addCombine, (*CPU).setFlagsAdd) }
func opADDtoEA(c *CPU)  { c.execToEA(addCombine, (*CPU).setFlagsAdd) }

// --- ADDA ---

func registerADDA() {
	registerToAddrReg(0xD000, opADDA)
}

func opADDA(c *CPU) { c.execToAddrReg(func(val, an uint32) uint32 { return an + val }) }

// --- ADDI ---

func registerADDI() {
	registerImmediateArith(0x0600, opADDI)
}

func opADDI(c *CPU) { c.execImmediate(addCombine, (*CPU).setFlagsAdd) }

// --- ADDQ ---

func registerADDQ() {
	registerQuick(0x5000, opADDQ)
}

func opADDQ(c *CPU) {
	c.execQuick(addCombine, (*CPU).setFlagsAdd, func(an *uint32, data uint32) { *an += data })
}

// --- ADDX ---

func registerADDX() {
	registerXGroup(0xD100, 0xD108, opADDXreg, opADDXmem)
}

func addXCombine(s, d, x uint32) uint32 { return d + s + x }

func opADDXreg(c *CPU) { c.execX(addXCombine, (*CPU).setFlagsAdd) }
func opADDXmem(c *CPU) { c.execXmem(addXCombine, (*CPU).setFlagsAdd) }

// --- SUB ---

func registerSUB() {
	registerToReg(0x9000, opSUBtoReg)
	registerToEA(0x9000, opSUBtoEA)
}

func opSUBtoReg(c *CPU) { c.execToReg(subCombine, (*CPU).setFlagsSub) }
func opSUBtoEA(c *CPU)  { c.execToEA(subCombine, (*CPU).setFlagsSub) }

// --- SUBA ---

func registerSUBA() {
	registerToAddrReg(0x9000, opSUBA)
}

func opSUBA(c *CPU) { c.execToAddrReg(func(val, an uint32) uint32 { return an - val }) }

// --- SUBI ---

func registerSUBI() {
	registerImmediateArith(0x0400, opSUBI)
}

func opSUBI(c *CPU) { c.execImmediate(subCombine, (*CPU).setFlagsSub) }

// --- SUBQ ---

func registerSUBQ() {
	registerQuick(0x5100, opSUBQ)
}

func opSUBQ(c *CPU) {
	c.execQuick(subCombine, (*CPU).setFlagsSub, func(an *uint32, data uint32) { *an -= data })
}

// --- SUBX ---

func registerSUBX() {
	registerXGroup(0x9100, 0x9108, opSUBXreg, opSUBXmem)
}

func subXCombine(s, d, x uint32) uint32 { return d - s - x }

func opSUBXreg(c *CPU) { c.execX(subXCombine, (*CPU).setFlagsSub) }
func opSUBXmem(c *CPU) { c.execXmem(subXCombine, (*CPU).setFlagsSub) }

// --- CMP ---

func registerCMP() {
	registerToReg(0xB000, opCMP)
}

func opCMP(c *CPU) {
	dn := (c.ir >> 9) & 7
	sz := sizeEncoding((c.ir >> 6) & 3)
	mode := uint8((c.ir >> 3) & 7)
	reg := uint8(c.ir & 7)

	src := c.resolveEA(mode, reg, sz)
	s := src.read(c, sz)
	d := c.reg.D[dn] & sz.Mask()
	result := d - s
	c.setFlagsCmp(s, d, result, sz)

	fetch := eaFetchCycles(mode, reg, sz)
	if sz == Long {
		c.cycles += 6 + fetch
	} else {
		c.cycles += 4 + fetch
	}
}

// --- CMPA ---

func registerCMPA() {
	registerToAddrReg(0xB000, opCMPA)
}

func opCMPA(c *CPU) {
	an := (c.ir >> 9) & 7
	sz := Word
	if (c.ir>>6)&7 == 7 {
		sz = Long
	}
	mode := uint8((c.ir >> 3) & 7)
	reg := uint8(c.ir & 7)

	src := c.resolveEA(mode, reg, sz)
	val := src.read(c, sz)
	if sz == Word {
		val = uint32(int32(int16(val)))
	}
	d := c.reg.A[an]
	result := d - val
	c.setFlagsCmp(val, d, result, Long)

	c.cycles += 6 + eaFetchCycles(mode, reg, sz)
}

// --- CMPI ---

func registerCMPI() {
	registerImmediateArith(0x0C00, opCMPI)
}

func opCMPI(c *CPU) {
	sz := sizeEncoding((c.ir >> 6) & 3)
	mode := uint8((c.ir >> 3) & 7)
	reg := uint8(c.ir & 7)

	var imm uint32
	if sz == Long {
		imm = c.fetchPCLong()
	} else {
		imm = uint32(c.fetchPC()) & sz.Mask()
	}

	dst := c.resolveEA(mode, reg, sz)
	d := dst.read(c, sz)
	result := d - imm
	c.setFlagsCmp(imm, d, result, sz)

	if mode == 0 {
		if sz == Long {
			c.cycles += 14
		} else {
			c.cycles += 8
		}
	} else {
		fetch := eaFetchCycles(mode, reg, sz)
		if sz == Long {
			c.cycles += 12 + fetch
		} else {
			c.cycles += 8 + fetch
		}
	}
}

// --- CMPM ---

func registerCMPM() {
	for ax := uint16(0); ax < 8; ax++ {
		for ay := uint16(0); ay < 8; ay++ {
			for szBits := uint16(0); szBits < 3; szBits++ {
				opcodeTable[0xB108|ax<<9|szBits<<6|ay] = opCMPM
			}
		}
	}
}

func opCMPM(c *CPU) {
	sz := sizeEncoding((c.ir >> 6) & 3)
	ay := c.ir & 7
	ax := (c.ir >> 9) & 7

	src := c.resolveEA(3, uint8(ay), sz) // (Ay)+
	s := src.read(c, sz)
	dst := c.resolveEA(3, uint8(ax), sz) // (Ax)+
	d := dst.read(c, sz)
	result := d - s
	c.setFlagsCmp(s, d, result, sz)

	if sz == Long {
		c.cycles += 20
	} else {
		c.cycles += 12
	}
}

// --- MULU ---

func registerMULU() {
	registerEAFamily(0xC0C0, opMULU)
}

func opMULU(c *CPU) {
	dn := (c.ir >> 9) & 7
	mode := uint8((c.ir >> 3) & 7)
	reg := uint8(c.ir & 7)

	src := c.resolveEA(mode, reg, Word)
	s := src.read(c, Word)
	d := c.reg.D[dn] & 0xFFFF
	result := s * d
	c.reg.D[dn] = result

	c.setFlagsLogical(result, Long)
	c.cycles += 70 + eaFetchCycles(mode, reg, Word) // base varies 38-70, using worst-case
}

// --- MULS ---

func registerMULS() {
	registerEAFamily(0xC1C0, opMULS)
}

func opMULS(c *CPU) {
	dn := (c.ir >> 9) & 7
	mode := uint8((c.ir >> 3) & 7)
	reg := uint8(c.ir & 7)

	src := c.resolveEA(mode, reg, Word)
	s := int32(int16(src.read(c, Word)))
	d := int32(int16(c.reg.D[dn] & 0xFFFF))
	result := uint32(s * d)
	c.reg.D[dn] = result

	c.setFlagsLogical(result, Long)
	c.cycles += 70 + eaFetchCycles(mode, reg, Word) // base varies 38-70, using worst-case
}

// --- DIVU ---

func registerDIVU() {
	registerEAFamily(0x80C0, opDIVU)
}

func opDIVU(c *CPU) {
	dn := (c.ir >> 9) & 7
	mode := uint8((c.ir >> 3) & 7)
	reg := uint8(c.ir & 7)

	src := c.resolveEA(mode, reg, Word)
	divisor := src.read(c, Word)

	if divisor == 0 {
		c.exception(vecDivideByZero)
		return
	}

	dividend := c.reg.D[dn]
	quotient := dividend / divisor
	remainder := dividend % divisor

	if quotient > 0xFFFF {
		c.reg.SR |= flagV
		c.reg.SR &^= flagC
	} else {
		c.reg.D[dn] = (remainder&0xFFFF)<<16 | (quotient & 0xFFFF)
		c.setFlagsLogical(quotient, Word)
	}

	c.cycles += 140 + eaFetchCycles(mode, reg, Word) // base varies 76-140, using worst-case
}

// --- DIVS ---

func registerDIVS() {
	registerEAFamily(0x81C0, opDIVS)
}

func opDIVS(c *CPU) {
	dn := (c.ir >> 9) & 7
	mode := uint8((c.ir >> 3) & 7)
	reg := uint8(c.ir & 7)

	src := c.resolveEA(mode, reg, Word)
	divisor := int32(int16(src.read(c, Word)))

	if divisor == 0 {
		c.exception(vecDivideByZero)
		return
	}

	dividend := int32(c.reg.D[dn])
	quotient := dividend / divisor
	remainder := dividend % divisor

	if quotient > 32767 || quotient < -32768 {
		c.reg.SR |= flagV | flagN
		c.reg.SR &^= flagC | flagZ
	} else {
		c.reg.D[dn] = uint32(remainder&0xFFFF)<<16 | uint32(quotient)&0xFFFF
		c.setFlagsLogical(uint32(quotient), Word)
	}

	c.cycles += 158 + eaFetchCycles(mode, reg, Word) // base varies 120-158, using worst-case
}

// --- NEG ---

func registerNEG() {
	registerImmediateArith(0x4400, opNEG)
}

func opNEG(c *CPU) {
	sz := sizeEncoding((c.ir >> 6) & 3)
	mode := uint8((c.ir >> 3) & 7)
	reg := uint8(c.ir & 7)

	dst := c.resolveEA(mode, reg, sz)
	d := dst.read(c, sz)
	result := uint32(0) - d
	c.setFlagsSub(d, 0, result, sz)
	dst.write(c, sz, result)

	if mode == 0 {
		if sz == Long {
			c.cycles += 6
		} else {
			c.cycles += 4
		}
	} else {
		fetch := eaFetchCycles(mode, reg, sz)
		if sz == Long {
			c.cycles += 12 + fetch
		} else {
			c.cycles += 8 + fetch
		}
	}
}

// --- NEGX ---

func registerNEGX() {
	registerImmediateArith(0x4000, opNEGX)
}

func opNEGX(c *CPU) {
	sz := sizeEncoding((c.ir >> 6) & 3)
	mode := uint8((c.ir >> 3) & 7)
	reg := uint8(c.ir & 7)

	dst := c.resolveEA(mode, reg, sz)
	d := dst.read(c, sz)
	x := extendBit(c)
	result := uint32(0) - d - x
	oldZ := c.reg.SR & flagZ
	c.setFlagsSub(d, 0, result, sz)
	// NEGX: Z flag only cleared, never set (preserves Z across multi-precision)
	if result&sz.Mask() == 0 {
		c.reg.SR = (c.reg.SR &^ flagZ) | oldZ
	}
	dst.write(c, sz, result)

	if mode == 0 {
		if sz == Long {
			c.cycles += 6
		} else {
			c.cycles += 4
		}
	} else {
		fetch := eaFetchCycles(mode, reg, sz)
		if sz == Long {
			c.cycles += 12 + fetch
		} else {
			c.cycles += 8 + fetch
		}
	}
}

// --- CLR ---

func registerCLR() {
	registerImmediateArith(0x4200, opCLR)
}

func opCLR(c *CPU) {
	sz := sizeEncoding((c.ir >> 6) & 3)
	mode := uint8((c.ir >> 3) & 7)
	reg := uint8(c.ir & 7)

	dst := c.resolveEA(mode, reg, sz)
	dst.write(c, sz, 0)

	// CLR always sets Z, clears NVC
	c.reg.SR &^= flagN | flagV | flagC
	c.reg.SR |= flagZ

	if mode == 0 {
		if sz == Long {
			c.cycles += 6
		} else {
			c.cycles += 4
		}
	} else {
		fetch := eaFetchCycles(mode, reg, sz)
		if sz == Long {
			c.cycles += 12 + fetch
		} else {
			c.cycles += 8 + fetch
		}
	}
}

// --- EXT ---

func registerEXT() {
	for dn := uint16(0); dn < 8; dn++ {
		opcodeTable[0x4880|dn] = opEXTW // byte->word
		opcodeTable[0x48C0|dn] = opEXTL // word->long
	}
}

func opEXTW(c *CPU) {
	dn := c.ir & 7
	val := uint32(int16(int8(c.reg.D[dn])))
	c.reg.D[dn] = (c.reg.D[dn] & 0xFFFF0000) | (val & 0xFFFF)
	c.setFlagsLogical(val, Word)
	c.cycles += 4
}

func opEXTL(c *CPU) {
	dn := c.ir & 7
	val := uint32(int32(int16(c.reg.D[dn])))
	c.reg.D[dn] = val
	c.setFlagsLogical(val, Long)
	c.cycles += 4
}

// --- CHK ---

// registerCHK registers CHK <ea>,Dn (word only on 68000).
// Encoding: 0100 DDD 110 MMM RRR
func registerCHK() {
	registerEAFamily(0x4180, opCHK)
}

func opCHK(c *CPU) {
	dn := (c.ir >> 9) & 7
	mode := uint8((c.ir >> 3) & 7)
	reg := uint8(c.ir & 7)

	src := c.resolveEA(mode, reg, Word)
	bound := int16(src.read(c, Word))
	val := int16(c.reg.D[dn] & 0xFFFF)

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

	c.cycles += 10 + eaFetchCycles(mode, reg, Word)
}
