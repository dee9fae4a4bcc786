package m68k

// Bit instructions: BTST, BCHG, BCLR, BSET. Each has two addressing forms
// for where the bit number comes from:
//
//	Dynamic: 0000 DDD1 00tt teee (bit number in data register Dn)
//	Static:  0000 1000 00tt teee + immediate word (bit number in the
//	         extension word)
//
// tt = 00:BTST, 01:BCHG, 10:BCLR, 11:BSET. A data-register destination
// treats the field as a 32-bit operand (bit number mod 32); any memory
// destination treats it as a single byte (bit number mod 8). All four
// share the same "test Z against the old bit, then combine" shape, so
// one pair of dynamic/static drivers takes the actual bit operation as a
// parameter instead of repeating the addressing logic four times.
func init() {
	registerBTST()
	registerBCHG()
	registerBCLR()
	registerBSET()
}

// bitCombine computes the new field value given its old value and the
// single-bit mask selected by the instruction; BTST's combine is the
// identity (it only ever reads).
type bitCombine func(val, mask uint32) uint32

func bitIdentity(val, mask uint32) uint32 { return val }
func bitToggle(val, mask uint32) uint32   { return val ^ mask }
func bitClear(val, mask uint32) uint32    { return val &^ mask }
func bitSet(val, mask uint32) uint32      { return val | mask }

// execBitOp resolves the bit's destination (Dn or memory), sets Z from
// the bit's value before combine runs, writes back combine's result, and
// charges the appropriate cycle cost for the addressing mode actually used.
func (c *CPU) execBitOp(mode, reg uint8, bitNum uint32, combine bitCombine, regCycles, memCycles uint64) {
	if mode == 0 {
		mask := uint32(1) << (bitNum & 31)
		old := c.reg.D[reg]
		c.setZFromBitMask(old, mask)
		c.reg.D[reg] = combine(old, mask)
		c.cycles += regCycles
		return
	}

	mask := uint32(1) << (bitNum & 7)
	dst := c.resolveEA(mode, reg, Byte)
	old := dst.read(c, Byte)
	c.setZFromBitMask(old, mask)
	dst.write(c, Byte, combine(old, mask))
	c.cycles += memCycles
}

func (c *CPU) setZFromBitMask(val, mask uint32) {
	if val&mask == 0 {
		c.reg.SR |= flagZ
	} else {
		c.reg.SR &^= flagZ
	}
}

// bitOpDyn decodes the dynamic form's Dn/mode/reg fields and dispatches
// through execBitOp.
func (c *CPU) bitOpDyn(combine bitCombine, regCycles, memCycles uint64) {
	dn := (c.ir >> 9) & 7
	mode := uint8((c.ir >> 3) & 7)
	reg := uint8(c.ir & 7)
	c.execBitOp(mode, reg, c.reg.D[dn], combine, regCycles, memCycles)
}

// bitOpStatic fetches the static form's immediate bit-number word, then
// dispatches through execBitOp.
func (c *CPU) bitOpStatic(combine bitCombine, regCycles, memCycles uint64) {
	bitNum := uint32(c.fetchPC() & 0xFF)
	mode := uint8((c.ir >> 3) & 7)
	reg := uint8(c.ir & 7)
	c.execBitOp(mode, reg, bitNum, combine, regCycles, memCycles)
}

// registerBitGroup wires both addressing forms of one tt field across every
// valid mode/reg combination, with maxReg bounding the register field for
// the An-direct-excluding mode-7 submodes (BTST's dynamic form alone
// additionally allows immediate source, hence its own maxReg of 4).
func registerBitGroup(dynBase, staticBase uint16, dynHandler, staticHandler opFunc, dynMaxReg, staticMaxReg uint16) {
	for dn := uint16(0); dn < 8; dn++ {
		for mode := uint16(0); mode < 8; mode++ {
			if mode == 1 {
				continue
			}
			for reg := uint16(0); reg < 8; reg++ {
				if mode == 7 && reg > dynMaxReg {
					continue
				}
				opcodeTable[dynBase|dn<<9|mode<<3|reg] = dynHandler
			}
		}
	}
	for mode := uint16(0); mode < 8; mode++ {
		if mode == 1 {
			continue
		}
		for reg := uint16(0); reg < 8; reg++ {
			if mode == 7 && reg > staticMaxReg {
				continue
			}
			opcodeTable[staticBase|mode<<3|reg] = staticHandler
		}
	}
}

// --- BTST ---

func registerBTST() {
	registerBitGroup(0x0100, 0x0800, opBTSTdyn, opBTSTstatic, 4, 3)
}

func opBTSTdyn(c *CPU)    { c.bitOpDyn(bitIdentity, 6, 4) }
func opBTSTstatic(c *CPU) { c.bitOpStatic(bitIdentity, 10, 8) }

// --- BCHG ---

func registerBCHG() {
	registerBitGroup(0x0140, 0x0840, opBCHGdyn, opBCHGstatic, 1, 1)
}

func opBCHGdyn(c *CPU)    { c.bitOpDyn(bitToggle, 8, 8) }
func opBCHGstatic(c *CPU) { c.bitOpStatic(bitToggle, 12, 12) }

// --- BCLR ---

func registerBCLR() {
	registerBitGroup(0x0180, 0x0880, opBCLRdyn, opBCLRstatic, 1, 1)
}

func opBCLRdyn(c *CPU)    { c.bitOpDyn(bitClear, 10, 8) }
func opBCLRstatic(c *CPU) { c.bitOpStatic(bitClear, 14, 12) }

// --- BSET ---

func registerBSET() {
	registerBitGroup(0x01C0, 0x08C0, opBSETdyn, opBSETstatic, 1, 1)
}

func opBSETdyn(c *CPU)    { c.bitOpDyn(bitSet, 8, 8) }
func opBSETstatic(c *CPU) { c.bitOpStatic(bitSet, 12, 12) }
