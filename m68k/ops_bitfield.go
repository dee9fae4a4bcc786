package m68k

import "math/bits"

// Bit-field instructions (68020+): BFTST, BFEXTU, BFCHG, BFEXTS, BFCLR,
// BFFFO, BFSET, BFINS. All eight share one base opcode and extension
// word layout; only the operation performed on the extracted field
// differs. Offset and width may each be given as a literal or
// taken from a data register, and the field may live in a data register
// (treated as a rotating 32-bit field) or in memory (treated as a
// bit-addressable byte stream starting at the effective address).
func init() {
	registerBitField()
}

const (
	bfTST = iota
	bfEXTU
	bfCHG
	bfEXTS
	bfCLR
	bfFFO
	bfSET
	bfINS
)

func registerBitField() {
	for op := uint16(0); op < 8; op++ {
		for mode := uint16(0); mode < 8; mode++ {
			// Bit-field instructions take Dn direct or a control
			// addressing mode; An direct and the auto-increment/
			// auto-decrement modes are not valid effective addresses here.
			if mode == 1 || mode == 3 || mode == 4 {
				continue
			}
			for reg := uint16(0); reg < 8; reg++ {
				if mode == 7 && reg > 3 {
					continue
				}
				opcode := 0xE8C0 | op<<8 | mode<<3 | reg
				opcodeTable[opcode] = opBitField
			}
		}
	}
}

func opBitField(c *CPU) {
	if c.variant < MC68020 {
		c.exception(vecIllegalInstruction)
		return
	}

	op := uint8((c.ir >> 8) & 7)
	mode := uint8((c.ir >> 3) & 7)
	reg := uint8(c.ir & 7)
	ext := c.fetchPC()

	dn := uint8((ext >> 12) & 7)
	offset := c.bitFieldOffset(ext)
	width := c.bitFieldWidth(ext)

	if mode == 0 {
		c.execBitFieldReg(op, reg, dn, offset, width)
	} else {
		e := c.resolveEA(mode, reg, Long)
		c.execBitFieldMem(op, e.address(), dn, offset, width)
	}
	c.cycles += 8
}

// bitFieldOffset decodes the extension word's offset field: bit 11
// selects a register holding the (possibly negative) bit offset,
// otherwise it is a literal 0..31.
func (c *CPU) bitFieldOffset(ext uint16) int32 {
	if ext&0x0800 != 0 {
		return int32(c.reg.D[(ext>>6)&7])
	}
	return int32((ext >> 6) & 0x1F)
}

// bitFieldWidth decodes the extension word's width field: bit 5 selects
// a register holding the width, otherwise it is a literal 1..32 (a
// literal of 0 means 32).
func (c *CPU) bitFieldWidth(ext uint16) uint8 {
	if ext&0x0020 != 0 {
		w := c.reg.D[ext&7] & 0x1F
		if w == 0 {
			return 32
		}
		return uint8(w)
	}
	w := ext & 0x1F
	if w == 0 {
		return 32
	}
	return uint8(w)
}

// execBitFieldReg performs a bit-field operation on a field within data
// register reg, treating it as a rotating 32-bit field: offset is taken
// modulo 32, and a field that runs past bit 0 wraps around to bit 31.
func (c *CPU) execBitFieldReg(op, reg uint8, dn uint8, offset int32, width uint8) {
	val := c.reg.D[reg]
	off := uint32(((offset % 32) + 32) % 32)

	field := bits.RotateLeft32(val, int(off)) >> (32 - width)
	signBit := field&(1<<(width-1)) != 0

	c.setBitFieldFlags(field, width, signBit)

	switch op {
	case bfTST:
		// Flags only.
	case bfEXTU:
		c.reg.D[dn] = field
	case bfEXTS:
		c.reg.D[dn] = signExtendField(field, width)
	case bfFFO:
		c.reg.D[dn] = uint32(int32(offset) + findFirstOneOffset(field, width))
	case bfCHG, bfCLR, bfSET, bfINS:
		var newField uint32
		switch op {
		case bfCHG:
			newField = field ^ (mask32(width))
		case bfCLR:
			newField = 0
		case bfSET:
			newField = mask32(width)
		case bfINS:
			newField = c.reg.D[dn] & mask32(width)
		}
		shifted := newField << (32 - width)
		cleared := val &^ bits.RotateLeft32(mask32(width)<<(32-width), -int(off))
		updated := cleared | bits.RotateLeft32(shifted, -int(off))
		c.reg.D[reg] = updated
	}
}

// execBitFieldMem performs a bit-field operation on a field within
// memory starting at base, addressed as a bit stream: bit 0 of the field
// is the most significant bit of the byte at base + offset/8.
func (c *CPU) execBitFieldMem(op uint8, base uint32, dn uint8, offset int32, width uint8) {
	byteOff := offset >> 3
	bitOff := uint8(((offset % 8) + 8) % 8)
	addr := uint32(int32(base) + byteOff)

	totalBits := int(bitOff) + int(width)
	nBytes := (totalBits + 7) / 8

	var buf [5]byte
	for i := 0; i < nBytes; i++ {
		buf[i] = byte(c.readBus(Byte, addr+uint32(i)))
	}

	field := extractBits(buf[:nBytes], bitOff, width)
	signBit := field&(1<<(width-1)) != 0
	c.setBitFieldFlags(field, width, signBit)

	switch op {
	case bfTST:
		return
	case bfEXTU:
		c.reg.D[dn] = field
		return
	case bfEXTS:
		c.reg.D[dn] = signExtendField(field, width)
		return
	case bfFFO:
		c.reg.D[dn] = uint32(int32(offset) + findFirstOneOffset(field, width))
		return
	}

	var newField uint32
	switch op {
	case bfCHG:
		newField = field ^ mask32(width)
	case bfCLR:
		newField = 0
	case bfSET:
		newField = mask32(width)
	case bfINS:
		newField = c.reg.D[dn] & mask32(width)
	}

	insertBits(buf[:nBytes], bitOff, width, newField)
	for i := 0; i < nBytes; i++ {
		c.writeBus(Byte, addr+uint32(i), uint32(buf[i]))
	}
}

// setBitFieldFlags sets NZ per the extracted field (before any
// modification) and always clears V and C, per the bit-field instruction
// family's condition code behavior.
func (c *CPU) setBitFieldFlags(field uint32, width uint8, signBit bool) {
	c.reg.SR &^= flagN | flagZ | flagV | flagC
	if field == 0 {
		c.reg.SR |= flagZ
	}
	if signBit {
		c.reg.SR |= flagN
	}
}

func mask32(width uint8) uint32 {
	if width >= 32 {
		return 0xFFFFFFFF
	}
	return (uint32(1) << width) - 1
}

func signExtendField(field uint32, width uint8) uint32 {
	if width >= 32 {
		return field
	}
	signBit := uint32(1) << (width - 1)
	if field&signBit != 0 {
		return field | ^mask32(width)
	}
	return field
}

// findFirstOneOffset returns the bit position (counted from the field's
// own offset, 0-based from its MSB) of the first set bit, or the field
// width if none are set, matching BFFFO semantics of "offset + width"
// when the field is all zero.
func findFirstOneOffset(field uint32, width uint8) int32 {
	for i := uint8(0); i < width; i++ {
		if field&(1<<(width-1-i)) != 0 {
			return int32(i)
		}
	}
	return int32(width)
}

// extractBits reads a width-bit field starting bitOff bits into buf,
// treating buf as a big-endian bit stream (bit 0 = MSB of buf[0]).
func extractBits(buf []byte, bitOff uint8, width uint8) uint32 {
	var acc uint64
	for _, b := range buf {
		acc = acc<<8 | uint64(b)
	}
	totalBits := len(buf) * 8
	shift := totalBits - int(bitOff) - int(width)
	return uint32((acc >> uint(shift)) & uint64(mask32(width)))
}

// insertBits writes a width-bit field into buf starting bitOff bits in,
// leaving the surrounding bits untouched.
func insertBits(buf []byte, bitOff uint8, width uint8, val uint32) {
	var acc uint64
	for _, b := range buf {
		acc = acc<<8 | uint64(b)
	}
	totalBits := len(buf) * 8
	shift := totalBits - int(bitOff) - int(width)
	clearMask := uint64(mask32(width)) << uint(shift)
	acc = (acc &^ clearMask) | (uint64(val&mask32(width)) << uint(shift))

	for i := len(buf) - 1; i >= 0; i-- {
		buf[i] = byte(acc)
		acc >>= 8
	}
}
