package m68k

func init() {
	registerNOP()
	registerSTOP()
	registerRESET()
	registerTRAP()
	registerTRAPV()
	registerLINK()
	registerUNLK()
	registerMoveToFromSR()
	registerAndiOriEoriSRCCR()
	registerRTD()
	registerMOVEC()
	registerLINKL()
}

// --- NOP ---

func registerNOP() {
	opcodeTable[0x4E71] = opNOP
}

func opNOP(c *CPU) {
	c.cycles += 4
}

// --- STOP ---

func registerSTOP() {
	opcodeTable[0x4E72] = opSTOP
}

func opSTOP(c *CPU) {
	if !c.supervisor() {
		c.exception(vecPrivilegeViolation)
		return
	}

	imm := c.fetchPC()
	c.setSR(imm)
	c.stopped = true
	// The 68000 halts after STOP, and the prefetch pipeline does not
	// advance. To match the hardware PC state, rewind PC to the
	// instruction start so that resuming via interrupt sees the
	// correct next-instruction address in the exception frame.
	c.reg.PC = c.prevPC
	c.cycles += 4
}

// --- RESET ---

func registerRESET() {
	opcodeTable[0x4E70] = opRESET
}

func opRESET(c *CPU) {
	if !c.supervisor() {
		c.exception(vecPrivilegeViolation)
		return
	}

	if c.resetHook != nil {
		c.resetHook()
	}
	c.cycles += 132
}

// --- TRAP ---

func registerTRAP() {
	// Encoding: 0100 1110 0100 VVVV (vector 0-15 -> exception vectors 32-47)
	for v := uint16(0); v < 16; v++ {
		opcode := 0x4E40 | v
		opcodeTable[opcode] = opTRAP
	}
}

func opTRAP(c *CPU) {
	vector := int(c.ir&0xF) + vecTrap0
	c.exception(vector)
}

// --- TRAPV ---

func registerTRAPV() {
	opcodeTable[0x4E76] = opTRAPV
}

func opTRAPV(c *CPU) {
	if c.reg.SR&flagV != 0 {
		c.exception(vecTRAPV)
	} else {
		c.cycles += 4
	}
}

// --- LINK ---

func registerLINK() {
	// Encoding: 0100 1110 0101 0AAA
	for an := uint16(0); an < 8; an++ {
		opcodeTable[0x4E50|an] = opLINK
	}
}

func opLINK(c *CPU) {
	an := c.ir & 7
	disp := int16(c.fetchPC())

	c.pushLong(c.reg.A[an])
	c.reg.A[an] = c.reg.A[7]
	c.reg.A[7] = uint32(int32(c.reg.A[7]) + int32(disp))

	c.cycles += 16
}

// --- LINK.L (68020+) ---

func registerLINKL() {
	// Encoding: 0100 1000 0000 1AAA
	for an := uint16(0); an < 8; an++ {
		opcodeTable[0x4808|an] = opLINKL
	}
}

func opLINKL(c *CPU) {
	if c.variant < MC68020 {
		c.exception(vecIllegalInstruction)
		return
	}
	an := c.ir & 7
	disp := int32(c.fetchPCLong())

	c.pushLong(c.reg.A[an])
	c.reg.A[an] = c.reg.A[7]
	c.reg.A[7] = uint32(int32(c.reg.A[7]) + disp)

	c.cycles += 16
}

// --- UNLK ---

func registerUNLK() {
	// Encoding: 0100 1110 0101 1AAA
	for an := uint16(0); an < 8; an++ {
		opcodeTable[0x4E58|an] = opUNLK
	}
}

func opUNLK(c *CPU) {
	an := c.ir & 7
	c.reg.A[7] = c.reg.A[an]
	c.reg.A[an] = c.popLong()

	c.cycles += 12
}

// --- MOVE to/from SR, MOVE to CCR, MOVE to/from USP ---

func registerMoveToFromSR() {
	// MOVE SR,<ea> (read SR - privileged on 010+, unprivileged on 000)
	// Encoding: 0100 0000 11ss ssss
	for mode := uint16(0); mode < 8; mode++ {
		if mode == 1 {
			continue
		}
		for reg := uint16(0); reg < 8; reg++ {
			if mode == 7 && reg > 1 {
				continue
			}
			opcodeTable[0x40C0|mode<<3|reg] = opMOVEfromSR
		}
	}

	// MOVE <ea>,CCR
	// Encoding: 0100 0100 11ss ssss
	for mode := uint16(0); mode < 8; mode++ {
		if mode == 1 {
			continue
		}
		for reg := uint16(0); reg < 8; reg++ {
			if mode == 7 && reg > 4 {
				continue
			}
			opcodeTable[0x44C0|mode<<3|reg] = opMOVEtoCCR
		}
	}

	// MOVE <ea>,SR (privileged)
	// Encoding: 0100 0110 11ss ssss
	for mode := uint16(0); mode < 8; mode++ {
		if mode == 1 {
			continue
		}
		for reg := uint16(0); reg < 8; reg++ {
			if mode == 7 && reg > 4 {
				continue
			}
			opcodeTable[0x46C0|mode<<3|reg] = opMOVEtoSR
		}
	}

	// MOVE USP,An and MOVE An,USP (privileged)
	// Encoding: 0100 1110 0110 DAAA (D=0: An->USP, D=1: USP->An)
	for an := uint16(0); an < 8; an++ {
		opcodeTable[0x4E60|an] = opMOVEtoUSP
		opcodeTable[0x4E68|an] = opMOVEfromUSP
	}
}

func opMOVEfromSR(c *CPU) {
	if c.variant >= MC68010 && !c.supervisor() {
		c.exception(vecPrivilegeViolation)
		return
	}

	mode := uint8((c.ir >> 3) & 7)
	reg := uint8(c.ir & 7)

	dst := c.resolveEA(mode, reg, Word)
	dst.write(c, Word, uint32(c.reg.SR))

	if mode == 0 {
		c.cycles += 6
	} else {
		c.cycles += 8 + eaFetchCycles(mode, reg, Word)
	}
}

func opMOVEtoCCR(c *CPU) {
	mode := uint8((c.ir >> 3) & 7)
	reg := uint8(c.ir & 7)

	src := c.resolveEA(mode, reg, Word)
	val := src.read(c, Word)
	c.setCCR(uint8(val))

	c.cycles += 12 + eaFetchCycles(mode, reg, Word)
}

func opMOVEtoSR(c *CPU) {
	if !c.supervisor() {
		c.exception(vecPrivilegeViolation)
		return
	}

	mode := uint8((c.ir >> 3) & 7)
	reg := uint8(c.ir & 7)

	src := c.resolveEA(mode, reg, Word)
	val := src.read(c, Word)
	c.setSR(uint16(val))

	c.cycles += 12 + eaFetchCycles(mode, reg, Word)
}

func opMOVEtoUSP(c *CPU) {
	if !c.supervisor() {
		c.exception(vecPrivilegeViolation)
		return
	}
	an := c.ir & 7
	c.reg.USP = c.reg.A[an]
	c.cycles += 4
}

func opMOVEfromUSP(c *CPU) {
	if !c.supervisor() {
		c.exception(vecPrivilegeViolation)
		return
	}
	an := c.ir & 7
	c.reg.A[an] = c.reg.USP
	c.cycles += 4
}

// --- ANDI/ORI/EORI to CCR and SR ---

func registerAndiOriEoriSRCCR() {
	// ANDI to CCR: 0000 0010 0011 1100
	opcodeTable[0x023C] = opANDItoCCR
	// ANDI to SR:  0000 0010 0111 1100
	opcodeTable[0x027C] = opANDItoSR
	// ORI to CCR:  0000 0000 0011 1100
	opcodeTable[0x003C] = opORItoCCR
	// ORI to SR:   0000 0000 0111 1100
	opcodeTable[0x007C] = opORItoSR
	// EORI to CCR: 0000 1010 0011 1100
	opcodeTable[0x0A3C] = opEORItoCCR
	// EORI to SR:  0000 1010 0111 1100
	opcodeTable[0x0A7C] = opEORItoSR
}

// srCombine is the shape ANDI/ORI/EORI-to-CCR/SR all share: fold an
// immediate into the status register with a bitwise operator, CCR
// forms working on the low byte only and SR forms requiring
// supervisor mode. The six entry points below are one-line wrappers,
// around execCCRImmediate for the CCR forms and execSRImmediate for the
// SR forms, parameterized by this function.
type srCombine func(sr, imm uint16) uint16

func andSR(sr, imm uint16) uint16 { return sr & imm }
func orSR(sr, imm uint16) uint16  { return sr | imm }
func eorSR(sr, imm uint16) uint16 { return sr ^ imm }

func (c *CPU) execCCRImmediate(combine srCombine) {
	imm := c.fetchPC()
	c.setCCR(uint8(combine(uint16(uint8(c.reg.SR)), imm)))
	c.cycles += 20
}

func (c *CPU) execSRImmediate(combine srCombine) {
	if !c.supervisor() {
		c.exception(vecPrivilegeViolation)
		return
	}
	imm := c.fetchPC()
	c.setSR(combine(c.reg.SR, imm))
	c.cycles += 20
}

func opANDItoCCR(c *CPU) { c.execCCRImmediate(andSR) }
func opANDItoSR(c *CPU)  { c.execSRImmediate(andSR) }
func opORItoCCR(c *CPU)  { c.execCCRImmediate(orSR) }
func opORItoSR(c *CPU)   { c.execSRImmediate(orSR) }
func opEORItoCCR(c *CPU) { c.execCCRImmediate(eorSR) }
func opEORItoSR(c *CPU)  { c.execSRImmediate(eorSR) }

// --- RTD (68010+) ---

func registerRTD() {
	opcodeTable[0x4E74] = opRTD
}

// opRTD pops the return address like RTS, then additionally adjusts the
// stack pointer by a signed 16-bit displacement fetched after the
// opcode, collapsing the caller's argument frame in one instruction.
func opRTD(c *CPU) {
	if c.variant < MC68010 {
		c.exception(vecIllegalInstruction)
		return
	}
	addr := c.popLong()
	disp := int16(c.fetchPC())
	c.reg.PC = addr
	c.reg.A[7] = uint32(int32(c.reg.A[7]) + int32(disp))
	c.cycles += 16
}

// --- MOVEC (68010+) ---

// Control register numbers addressable by MOVEC. Only the subset
// meaningful without full MMU/cache emulation is implemented; others
// read back zero and silently discard writes.
const (
	ctrlSFC = 0x000
	ctrlDFC = 0x001
	ctrlUSP = 0x800
	ctrlVBR = 0x801
)

func registerMOVEC() {
	// MOVEC Rc,Rn (control register to general register)
	opcodeTable[0x4E7A] = opMOVECfrom
	// MOVEC Rn,Rc (general register to control register)
	opcodeTable[0x4E7B] = opMOVECto
}

func opMOVECfrom(c *CPU) {
	if c.variant < MC68010 {
		c.exception(vecIllegalInstruction)
		return
	}
	if !c.supervisor() {
		c.exception(vecPrivilegeViolation)
		return
	}
	ext := c.fetchPC()
	val := c.readControlRegister(ext & 0xFFF)
	c.writeGeneralRegister(ext, val)
	c.cycles += 4
}

func opMOVECto(c *CPU) {
	if c.variant < MC68010 {
		c.exception(vecIllegalInstruction)
		return
	}
	if !c.supervisor() {
		c.exception(vecPrivilegeViolation)
		return
	}
	ext := c.fetchPC()
	val := c.readGeneralRegister(ext)
	c.writeControlRegister(ext&0xFFF, val)
	c.cycles += 4
}

func (c *CPU) readGeneralRegister(ext uint16) uint32 {
	reg := (ext >> 12) & 7
	if ext&0x8000 != 0 {
		return c.reg.A[reg]
	}
	return c.reg.D[reg]
}

func (c *CPU) writeGeneralRegister(ext uint16, val uint32) {
	reg := (ext >> 12) & 7
	if ext&0x8000 != 0 {
		c.reg.A[reg] = val
	} else {
		c.reg.D[reg] = val
	}
}

func (c *CPU) readControlRegister(ctrl uint16) uint32 {
	switch ctrl {
	case ctrlSFC:
		return c.sfc
	case ctrlDFC:
		return c.dfc
	case ctrlUSP:
		return c.reg.USP
	case ctrlVBR:
		return c.reg.VBR
	}
	return 0
}

func (c *CPU) writeControlRegister(ctrl uint16, val uint32) {
	switch ctrl {
	case ctrlSFC:
		c.sfc = val & 7
	case ctrlDFC:
		c.dfc = val & 7
	case ctrlUSP:
		c.reg.USP = val
	case ctrlVBR:
		c.reg.VBR = val
	}
}
