package m68k

// eaModeCycles holds the base PRM Table 8-1 cost for one addressing mode;
// mode 7's sub-modes (abs.W/abs.L/d16(PC)/d8(PC,Xn)/#imm) live in the
// separate eaMode7Cycles array below, indexed by reg.
var eaModeCycles = [8]uint64{
	0: 0, // Dn
	1: 0, // An
	2: 4, // (An)
	3: 4, // (An)+
	4: 6, // -(An)
	5: 8, // d16(An)
	6: 10, // d8(An,Xn)
}

var eaMode7Cycles = [8]uint64{
	0: 8,  // abs.W
	1: 12, // abs.L
	2: 8,  // d16(PC)
	3: 10, // d8(PC,Xn)
	4: 4,  // #imm
}

// eaBaseCycles returns the fetch-side base cost of one addressing mode
// before the long-size surcharge is applied.
func eaBaseCycles(mode, reg uint8) uint64 {
	if mode == 7 {
		return eaMode7Cycles[reg]
	}
	return eaModeCycles[mode]
}

// eaFetchCycles returns the source operand EA timing (PRM Table 8-1).
// For register-direct modes (Dn, An) returns 0. For memory/immediate
// modes returns the fetch cost. Long adds 4 to all non-zero values.
func eaFetchCycles(mode, reg uint8, sz Size) uint64 {
	base := eaBaseCycles(mode, reg)
	if sz == Long && base > 0 {
		base += 4
	}
	return base
}

// eaWriteCycles returns the destination EA write timing. Identical to
// eaFetchCycles except -(An) costs 4 instead of 6 (no extra cycle to
// compute the predecremented address on a write-only destination) and
// mode 7 is restricted to the alterable sub-modes (abs.W/abs.L); #imm
// and d16(PC)/d8(PC,Xn) are never valid write destinations.
func eaWriteCycles(mode, reg uint8, sz Size) uint64 {
	var base uint64
	switch {
	case mode == 4:
		base = 4
	case mode == 7:
		if reg <= 1 {
			base = eaMode7Cycles[reg]
		}
	default:
		base = eaBaseCycles(mode, reg)
	}
	if sz == Long && base > 0 {
		base += 4
	}
	return base
}
