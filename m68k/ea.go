package m68k

// EA addressing mode categories.
const (
	eaDataReg   = iota // Data register direct (Dn)
	eaAddrReg          // Address register direct (An)
	eaMemory           // All memory addressing modes
	eaImmediate        // Immediate (#imm)
)

// ea represents a resolved effective address operand.
type ea struct {
	mode uint8  // eaDataReg, eaAddrReg, eaMemory, eaImmediate
	reg  uint8  // register number (for register modes)
	addr uint32 // memory address (for memory modes)
	imm  uint32 // immediate value (for immediate mode)
}

// read returns the value at this effective address.
func (e ea) read(c *CPU, sz Size) uint32 {
	switch e.mode {
	case eaDataReg:
		return c.reg.D[e.reg] & sz.Mask()
	case eaAddrReg:
		return c.reg.A[e.reg] & sz.Mask()
	case eaMemory:
		return c.readBus(sz, e.addr)
	case eaImmediate:
		return e.imm & sz.Mask()
	}
	return 0
}

// write stores a value at this effective address.
// Data register writes preserve upper bits for byte/word operations.
// Address register writes always store the full 32-bit value.
func (e ea) write(c *CPU, sz Size, val uint32) {
	switch e.mode {
	case eaDataReg:
		mask := sz.Mask()
		c.reg.D[e.reg] = (c.reg.D[e.reg] & ^mask) | (val & mask)
	case eaAddrReg:
		c.reg.A[e.reg] = val
	case eaMemory:
		c.writeBus(sz, e.addr, val)
	}
}

// address returns the memory address (only valid for memory EAs).
func (e ea) address() uint32 {
	return e.addr
}

// resolveEA decodes and resolves an effective address from a mode/register pair.
// The mode is bits 5-3 and reg is bits 2-0 of the standard EA field.
// Extension words are fetched from the instruction stream as needed.
func (c *CPU) resolveEA(mode, reg uint8, sz Size) ea {
	switch mode {
	case 0: // Dn - Data register direct
		return ea{mode: eaDataReg, reg: reg}

	case 1: // An - Address register direct
		return ea{mode: eaAddrReg, reg: reg}

	case 2: // (An) - Address register indirect
		return ea{mode: eaMemory, addr: c.reg.A[reg]}

	case 3: // (An)+ - Address register indirect with postincrement
		addr := c.reg.A[reg]
		inc := uint32(sz)
		if reg == 7 && sz == Byte {
			inc = 2 // SP always stays word-aligned
		}
		c.reg.A[reg] += inc
		return ea{mode: eaMemory, addr: addr}

	case 4: // -(An) - Address register indirect with predecrement
		dec := uint32(sz)
		if reg == 7 && sz == Byte {
			dec = 2 // SP always stays word-aligned
		}
		c.reg.A[reg] -= dec
		return ea{mode: eaMemory, addr: c.reg.A[reg]}

	case 5: // d16(An) - Address register indirect with displacement
		disp := int16(c.fetchPC())
		return ea{mode: eaMemory, addr: uint32(int32(c.reg.A[reg]) + int32(disp))}

	case 6: // d8(An,Xn) - Address register indirect with index
		ext := c.fetchPC()
		return ea{mode: eaMemory, addr: c.resolveIndexed(c.reg.A[reg], ext)}

	case 7:
		switch reg {
		case 0: // abs.W - Absolute short (sign-extended to 32 bits)
			addr := int16(c.fetchPC())
			return ea{mode: eaMemory, addr: uint32(int32(addr))}

		case 1: // abs.L - Absolute long
			addr := c.fetchPCLong()
			return ea{mode: eaMemory, addr: addr}

		case 2: // d16(PC) - PC relative with displacement
			pc := c.reg.PC // PC points to the extension word
			disp := int16(c.fetchPC())
			return ea{mode: eaMemory, addr: uint32(int32(pc) + int32(disp))}

		case 3: // d8(PC,Xn) - PC relative with index
			pc := c.reg.PC // PC points to the extension word
			ext := c.fetchPC()
			return ea{mode: eaMemory, addr: c.resolveIndexed(pc, ext)}

		case 4: // #imm - Immediate
			switch sz {
			case Byte:
				val := c.fetchPC()
				return ea{mode: eaImmediate, imm: uint32(val & 0xFF)}
			case Word:
				val := c.fetchPC()
				return ea{mode: eaImmediate, imm: uint32(val)}
			case Long:
				val := c.fetchPCLong()
				return ea{mode: eaImmediate, imm: val}
			}
		}
	}

	// Invalid EA - treat as illegal instruction
	c.exception(vecIllegalInstruction)
	return ea{}
}

// resolveIndexed decodes an indexed addressing mode extension word. On a
// 68000 or 68010 only the brief format exists: base + scaled index +
// 8-bit displacement. On a 68020, bit 8 selects the full format, which
// adds a scale factor, optional base/index suppression, a base
// displacement of 0/16/32 bits, and optional memory indirection with an
// outer displacement — grounded on the 68020 addressing modes the brief
// format is a strict subset of.
func (c *CPU) resolveIndexed(base uint32, ext uint16) uint32 {
	if c.variant < MC68020 || ext&0x0100 == 0 {
		return c.calcBriefIndex(base, ext)
	}
	return c.calcFullIndex(base, ext)
}

// calcBriefIndex computes a base + scaled-index + d8 address from a brief
// extension word: D/A | Reg(3) | W/L | Scale(2) | 0 | Disp(8). The scale
// field only exists on a 68020; on 68000/68010 calcBriefIndex ignores
// bits 9-10 and always uses a scale of 1.
func (c *CPU) calcBriefIndex(base uint32, ext uint16) uint32 {
	disp := int8(ext & 0xFF)
	idx := c.indexValue(ext)
	scale := uint32(1)
	if c.variant >= MC68020 {
		scale = 1 << ((ext >> 9) & 3)
	}
	return uint32(int32(base) + idx*int32(scale) + int32(disp))
}

// indexValue reads and sign-extends (if W/L=0) the register selected by
// a brief or full extension word's D/A and Reg fields.
func (c *CPU) indexValue(ext uint16) int32 {
	xn := (ext >> 12) & 7
	var idx int32
	if ext&0x8000 != 0 {
		idx = int32(c.reg.A[xn])
	} else {
		idx = int32(c.reg.D[xn])
	}
	if ext&0x0800 == 0 {
		idx = int32(int16(idx))
	}
	return idx
}

// calcFullIndex decodes a 68020 full-format extension word:
//
//	D/A Reg(3) W/L Scale(2) 1 BS IS BDSIZE(2) 0 I/IS(3)
//
// and resolves base displacement, optional memory indirection, and
// outer displacement per the I/IS field.
func (c *CPU) calcFullIndex(base uint32, ext uint16) uint32 {
	baseSuppress := ext&0x0080 != 0
	indexSuppress := ext&0x0040 != 0
	bdSize := (ext >> 4) & 3
	iis := ext & 7

	if baseSuppress {
		base = 0
	}

	var baseDisp int32
	switch bdSize {
	case 2:
		baseDisp = int32(int16(c.fetchPC()))
	case 3:
		baseDisp = int32(c.fetchPCLong())
	}

	var scaledIndex int32
	if !indexSuppress {
		scale := uint32(1) << ((ext >> 9) & 3)
		scaledIndex = c.indexValue(ext) * int32(scale)
	}

	intermediate := uint32(int32(base) + baseDisp)

	if iis == 0 {
		return uint32(int32(intermediate) + scaledIndex)
	}

	var indirectAddr uint32
	if iis <= 3 {
		// Preindexed: index is added before the memory indirection.
		indirectAddr = c.readBus(Long, uint32(int32(intermediate)+scaledIndex))
	} else {
		// Postindexed: index is added after the memory indirection.
		indirectAddr = c.readBus(Long, intermediate)
	}

	var outerDisp int32
	switch iis & 3 {
	case 2:
		outerDisp = int32(int16(c.fetchPC()))
	case 3:
		outerDisp = int32(c.fetchPCLong())
	}

	result := int32(indirectAddr) + outerDisp
	if iis > 3 {
		result += scaledIndex
	}
	return uint32(result)
}
