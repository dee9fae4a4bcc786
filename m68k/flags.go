package m68k

// Status register flag bits.
const (
	flagC uint16 = 1 << iota // Carry
	flagV                    // Overflow
	flagZ                    // Zero
	flagN                    // Negative
	flagX                    // Extend

	flagS uint16 = 1 << 13 // Supervisor
	flagT uint16 = 1 << 15 // Trace
)

// znBits returns the Z/N flag bits implied by a masked result, shared by
// every flag-setting routine below since Z and N are computed identically
// regardless of which operation produced the result.
func znBits(r, msb uint32) uint16 {
	var bits uint16
	if r == 0 {
		bits |= flagZ
	}
	if r&msb != 0 {
		bits |= flagN
	}
	return bits
}

// setFlagsAdd sets XNZVC after an addition: result = dst + src.
func (c *CPU) setFlagsAdd(src, dst, result uint32, sz Size) {
	msb := sz.MSB()
	mask := sz.Mask()
	r := result & mask
	s := src & mask
	d := dst & mask

	bits := znBits(r, msb)
	// Overflow: both operands same sign, result different sign
	if (s^r)&(d^r)&msb != 0 {
		bits |= flagV
	}
	// Carry: unsigned overflow
	if result&(msb<<1) != 0 || (sz == Long && ((s&d|(s|d)&^r)&msb != 0)) {
		bits |= flagC | flagX
	}

	c.reg.SR = (c.reg.SR &^ (flagX | flagN | flagZ | flagV | flagC)) | bits
}

// setFlagsSub sets XNZVC after a subtraction: result = dst - src.
func (c *CPU) setFlagsSub(src, dst, result uint32, sz Size) {
	msb := sz.MSB()
	mask := sz.Mask()
	r := result & mask
	s := src & mask
	d := dst & mask

	bits := znBits(r, msb)
	// Overflow: operands different sign, result sign differs from dst
	if (s^d)&(r^d)&msb != 0 {
		bits |= flagV
	}
	// Borrow
	if (s&^d|r&^d|s&r)&msb != 0 {
		bits |= flagC | flagX
	}

	c.reg.SR = (c.reg.SR &^ (flagX | flagN | flagZ | flagV | flagC)) | bits
}

// setFlagsCmp sets NZVC after a comparison (subtraction without storing).
// Does not modify the X flag.
func (c *CPU) setFlagsCmp(src, dst, result uint32, sz Size) {
	msb := sz.MSB()
	mask := sz.Mask()
	r := result & mask
	s := src & mask
	d := dst & mask

	bits := znBits(r, msb)
	if (s^d)&(r^d)&msb != 0 {
		bits |= flagV
	}
	if (s&^d|r&^d|s&r)&msb != 0 {
		bits |= flagC
	}

	c.reg.SR = (c.reg.SR &^ (flagN | flagZ | flagV | flagC)) | bits
}

// setFlagsLogical sets NZ, clears VC after a logical operation.
func (c *CPU) setFlagsLogical(result uint32, sz Size) {
	bits := znBits(result&sz.Mask(), sz.MSB())
	c.reg.SR = (c.reg.SR &^ (flagN | flagZ | flagV | flagC)) | bits
}

// ccEval is one condition code's test against the status register.
type ccEval func(sr uint16) bool

// conditionTable implements all sixteen MC68000 condition codes (PRM
// Table 4-2) as direct predicates over SR, indexed by the 4-bit cc field
// that Bcc/DBcc/Scc all share.
var conditionTable = [16]ccEval{
	0:  func(sr uint16) bool { return true },               // T
	1:  func(sr uint16) bool { return false },              // F
	2:  func(sr uint16) bool { return sr&(flagC|flagZ) == 0 }, // HI
	3:  func(sr uint16) bool { return sr&(flagC|flagZ) != 0 }, // LS
	4:  func(sr uint16) bool { return sr&flagC == 0 },        // CC
	5:  func(sr uint16) bool { return sr&flagC != 0 },        // CS
	6:  func(sr uint16) bool { return sr&flagZ == 0 },        // NE
	7:  func(sr uint16) bool { return sr&flagZ != 0 },        // EQ
	8:  func(sr uint16) bool { return sr&flagV == 0 },        // VC
	9:  func(sr uint16) bool { return sr&flagV != 0 },        // VS
	10: func(sr uint16) bool { return sr&flagN == 0 },        // PL
	11: func(sr uint16) bool { return sr&flagN != 0 },        // MI
	12: func(sr uint16) bool { // GE
		n, v := sr&flagN != 0, sr&flagV != 0
		return n == v
	},
	13: func(sr uint16) bool { // LT
		n, v := sr&flagN != 0, sr&flagV != 0
		return n != v
	},
	14: func(sr uint16) bool { // GT
		n, v, z := sr&flagN != 0, sr&flagV != 0, sr&flagZ != 0
		return n == v && !z
	},
	15: func(sr uint16) bool { // LE
		n, v, z := sr&flagN != 0, sr&flagV != 0, sr&flagZ != 0
		return z || n != v
	},
}

// testCondition evaluates an MC68000 condition code (0-15).
func (c *CPU) testCondition(cc uint16) bool {
	return conditionTable[cc](c.reg.SR)
}
