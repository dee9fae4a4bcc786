// Package m68k implements a Motorola 68000/68010/68020 CPU interpreter.
//
// The M68k family is a 32-bit internal CISC processor with:
//   - Eight 32-bit data registers (D0-D7)
//   - Eight 32-bit address registers (A0-A7), where A7 is the stack pointer
//   - A 32-bit program counter
//   - A 16-bit status register (system byte + condition code register)
//   - Dual stack pointers (USP for user mode, SSP for supervisor mode)
//   - On the 68010 and later, a vector base register (VBR) that relocates
//     the exception vector table out of address zero
//
// Bus arbitration is not modelled cycle by cycle: all of an instruction's
// bus accesses are made at the clock of the Step that runs it, and
// contention with DMA or other bus masters is not simulated.
package m68k

import (
	"errors"
	"log/slog"

	"github.com/user-none/go-chip-core/bus"
	"github.com/user-none/go-chip-core/irq"
	"github.com/user-none/go-chip-core/kernel"
	"github.com/user-none/go-chip-core/simerr"
	"github.com/user-none/go-chip-core/vtime"
)

// Variant selects which member of the M68k family to emulate. Later
// variants are supersets of earlier ones: a 68020 decodes every 68000
// and 68010 instruction plus its own additions.
type Variant int

const (
	MC68000 Variant = iota
	MC68010
	MC68020
)

// Registers holds the programmer-visible state of the CPU.
type Registers struct {
	D   [8]uint32 // Data registers
	A   [8]uint32 // Address registers (A7 is active stack pointer)
	PC  uint32    // Program counter
	SR  uint16    // Status register
	USP uint32    // User stack pointer (shadowed)
	SSP uint32    // Supervisor stack pointer (shadowed)
	VBR uint32    // Vector base register (68010+); always 0 on a 68000
	IR  uint16    // Instruction register (first word of executing instruction)
}

// CPU is an M68k family processor, driven one instruction at a time by
// the simulation kernel via Step.
type CPU struct {
	reg     Registers
	variant Variant

	port *bus.BusPort
	freq vtime.Frequency

	irqc *irq.Controller

	// clock is the simulation instant of the bus access currently in
	// progress; refreshed at the top of every runOneInstruction call and
	// threaded through bus helpers via the CPU rather than as an extra
	// argument on every opFunc, so the large table of instruction
	// handlers need not take a clock parameter.
	clock vtime.Instant

	cycles uint64

	// The instruction register holds the first word of the currently
	// executing instruction, latched at fetch time.
	ir uint16

	stopped bool   // Set by STOP, cleared by interrupt
	halted  bool   // Set by double bus fault or an unhandled bus error
	prevPC  uint32 // PC of the previous instruction (for diagnostics)

	// Interrupt state set by RequestInterrupt, used when the CPU is not
	// wired to a kernel interrupt controller (e.g. in unit tests).
	pendingIPL uint8
	pendingVec *uint8

	// Cycle deficit from StepCycles when an instruction's cost exceeded the budget.
	deficit int

	// sfc/dfc are the source/destination function code registers (68010+),
	// settable via MOVEC. No address-space/MMU model consumes them; they
	// are tracked only so MOVEC round-trips correctly.
	sfc, dfc uint32

	// resetHook, if set, is invoked by the RESET instruction to let the
	// host broadcast a reset to peripherals sharing the bus.
	resetHook func()

	// busErr carries a bus error surfaced mid-instruction back out through
	// Step, after the instruction handler returns. M68k instructions have
	// no natural place to propagate a Go error from deep inside ALU helper
	// calls, so the fetch/read/write helpers record it here and halt.
	busErr error

	log *slog.Logger
}

// New creates a CPU of the given variant wired to port, which provides
// its view of the shared address bus, and performs a hardware reset.
// freq is the CPU's clock rate, used to convert cycle counts into
// simulation Durations.
func New(variant Variant, port *bus.BusPort, freq vtime.Frequency) *CPU {
	c := &CPU{variant: variant, port: port, freq: freq, log: slog.Default()}
	c.resetAt(vtime.START)
	return c
}

// SetResetHook installs a callback invoked by the RESET instruction.
func (c *CPU) SetResetHook(fn func()) { c.resetHook = fn }

// SetInterruptController wires c to controller, so that checkInterrupt
// consults it in addition to (and in preference to) RequestInterrupt.
func (c *CPU) SetInterruptController(controller *irq.Controller) {
	c.irqc = controller
}

// Variant reports which family member this CPU emulates.
func (c *CPU) Variant() Variant { return c.variant }

// Reset performs a hardware reset: loads SSP from vector 0 and PC from
// vector 1, enters supervisor mode with interrupts masked, and clears VBR.
func (c *CPU) Reset() { c.resetAt(vtime.START) }

func (c *CPU) resetAt(clock vtime.Instant) {
	c.clock = clock
	c.reg = Registers{SR: 0x2700}
	c.stopped = false
	c.halted = false
	c.cycles = 0
	c.deficit = 0
	c.pendingIPL = 0
	c.pendingVec = nil
	c.busErr = nil
	c.sfc, c.dfc = 0, 0

	ssp := c.readBus(Long, 0)
	c.reg.A[7] = ssp
	c.reg.SSP = ssp
	c.reg.PC = c.readBus(Long, 4)
}

// Halted returns true if the CPU is halted due to a double bus fault or
// an unrecoverable bus error.
func (c *CPU) Halted() bool {
	return c.halted
}

// Step implements kernel.Steppable: it runs exactly one instruction (or
// services a pending STOP/interrupt cycle) against sys's clock and
// interrupt controller, and returns the simulated duration consumed.
func (c *CPU) Step(sys *kernel.System) (vtime.Duration, error) {
	if c.irqc == nil && sys.InterruptController != nil {
		c.irqc = sys.InterruptController
	}
	before := c.cycles
	c.runOneInstruction(sys.Clock)
	consumed := c.cycles - before

	var stepErr error
	if c.busErr != nil {
		stepErr = c.busErr
		c.busErr = nil
	}
	return c.freq.Period().Mul(consumed), stepErr
}

// runOneInstruction fetches, decodes, and runs a single instruction (or
// STOP idle cycle). clock is latched onto c for the duration of the call
// so that every bus helper (readBus/writeBus/fetchPC and everything built
// on them) can keep its original no-argument signature.
func (c *CPU) runOneInstruction(clock vtime.Instant) {
	c.clock = clock

	if c.halted {
		return
	}

	if c.stopped {
		c.cycles += 4
		c.checkInterrupt()
		return
	}

	c.checkInterrupt()
	if c.halted {
		return
	}

	if c.reg.PC&1 != 0 {
		c.log.Error("m68k: address error, odd PC", "pc", c.reg.PC, "prevPC", c.prevPC)
		c.halted = true
		return
	}

	c.prevPC = c.reg.PC
	c.ir = c.fetchPC()
	c.reg.IR = c.ir
	if c.halted {
		return
	}

	c.dispatch()

	if !c.halted && c.reg.PC&1 != 0 {
		c.log.Error("m68k: address error, odd branch target", "pc", c.reg.PC, "prevPC", c.prevPC, "ir", c.ir)
		c.halted = true
	}
}

// StepCycles executes a single instruction within the given cycle budget,
// using clock for any bus access. If a previous instruction's cost
// exceeded its budget, the deficit is paid down first. Provided for hosts
// that drive the CPU directly rather than through the kernel.
func (c *CPU) StepCycles(clock vtime.Instant, budget int) int {
	if c.halted {
		return 0
	}

	if c.deficit > 0 {
		if budget >= c.deficit {
			n := c.deficit
			c.deficit = 0
			return n
		}
		c.deficit -= budget
		return budget
	}

	before := c.cycles
	c.runOneInstruction(clock)
	cost := int(c.cycles - before)

	if cost <= budget {
		return cost
	}

	c.deficit = cost - budget
	return budget
}

// Deficit returns the remaining cycle deficit from a previous StepCycles
// call where the instruction cost exceeded the budget.
func (c *CPU) Deficit() int {
	return c.deficit
}

// Cycles returns the total cycle count since the last reset.
func (c *CPU) Cycles() uint64 {
	return c.cycles
}

// AddCycles advances the cycle counter by n without executing any
// instruction. Used to account for external bus-hold periods such as
// DMA seizing the bus.
func (c *CPU) AddCycles(n uint64) {
	c.cycles += n
}

// Registers returns a snapshot of the current register state.
func (c *CPU) Registers() Registers {
	return c.reg
}

// RequestInterrupt queues an interrupt at the given priority level (1-7).
// Pass nil for vector to use auto-vectoring. A higher level replaces a
// lower pending level. This path is independent of a wired
// irq.Controller and exists for direct, kernel-free use (e.g. tests).
func (c *CPU) RequestInterrupt(level uint8, vector *uint8) {
	if level > c.pendingIPL {
		c.pendingIPL = level
		c.pendingVec = vector
	}
}

// readBus reads from the bus through port, with address-bus masking
// delegated to the port itself. Word and long accesses to odd addresses
// halt the CPU (address error). A bus error from the underlying device
// (e.g. an unmapped access) also halts the CPU and is surfaced by Step.
func (c *CPU) readBus(sz Size, addr uint32) uint32 {
	if c.halted {
		return 0
	}
	if sz != Byte && addr&1 != 0 {
		c.log.Error("m68k: address error on read", "size", sz, "addr", addr, "pc", c.reg.PC)
		c.halted = true
		return 0
	}
	var (
		val uint32
		err error
	)
	switch sz {
	case Byte:
		var b byte
		b, err = bus.ReadByte(c.port, c.clock, bus.Address(addr))
		val = uint32(b)
	case Word:
		var w uint16
		w, err = bus.ReadBEWord(c.port, c.clock, bus.Address(addr))
		val = uint32(w)
	case Long:
		val, err = bus.ReadBELong(c.port, c.clock, bus.Address(addr))
	}
	if err != nil {
		c.busFault(err)
		return 0
	}
	return val
}

// writeBus writes to the bus through port. Word and long accesses to odd
// addresses halt the CPU (address error).
func (c *CPU) writeBus(sz Size, addr uint32, val uint32) {
	if c.halted {
		return
	}
	if sz != Byte && addr&1 != 0 {
		c.log.Error("m68k: address error on write", "size", sz, "addr", addr, "val", val&sz.Mask(), "pc", c.reg.PC)
		c.halted = true
		return
	}
	val &= sz.Mask()
	var err error
	switch sz {
	case Byte:
		err = bus.WriteByte(c.port, c.clock, bus.Address(addr), byte(val))
	case Word:
		err = bus.WriteBEWord(c.port, c.clock, bus.Address(addr), uint16(val))
	case Long:
		err = bus.WriteBELong(c.port, c.clock, bus.Address(addr), val)
	}
	if err != nil {
		c.busFault(err)
	}
}

// busFault records a bus error that is not a Breakpoint as the reason the
// CPU halted; a Breakpoint is recorded too but does not necessarily
// indicate a halt condition by itself at this layer (the kernel
// classifies it on the way out of Step).
func (c *CPU) busFault(err error) {
	var bp *simerr.Breakpoint
	if !errors.As(err, &bp) {
		c.halted = true
	}
	c.busErr = err
}

// fetchPC reads a 16-bit word at the current PC and advances PC by 2.
func (c *CPU) fetchPC() uint16 {
	val := c.readBus(Word, c.reg.PC)
	c.reg.PC += 2
	return uint16(val)
}

// fetchPCLong reads a 32-bit long at the current PC and advances PC by 4.
func (c *CPU) fetchPCLong() uint32 {
	hi := c.fetchPC()
	lo := c.fetchPC()
	return uint32(hi)<<16 | uint32(lo)
}

// pushWord pushes a 16-bit word onto the active stack (A7).
func (c *CPU) pushWord(val uint16) {
	c.reg.A[7] -= 2
	c.writeBus(Word, c.reg.A[7], uint32(val))
}

// pushLong pushes a 32-bit long onto the active stack (A7).
func (c *CPU) pushLong(val uint32) {
	c.reg.A[7] -= 4
	c.writeBus(Long, c.reg.A[7], val)
}

// popWord pops a 16-bit word from the active stack (A7).
func (c *CPU) popWord() uint16 {
	val := c.readBus(Word, c.reg.A[7])
	c.reg.A[7] += 2
	return uint16(val)
}

// popLong pops a 32-bit long from the active stack (A7).
func (c *CPU) popLong() uint32 {
	val := c.readBus(Long, c.reg.A[7])
	c.reg.A[7] += 4
	return val
}

// supervisor returns true if the CPU is in supervisor mode.
func (c *CPU) supervisor() bool {
	return c.reg.SR&flagS != 0
}

// setSR sets the status register, handling stack pointer swaps
// when transitioning between supervisor and user mode.
func (c *CPU) setSR(sr uint16) {
	oldS := c.reg.SR & flagS
	newS := sr & flagS

	if oldS != 0 && newS == 0 {
		c.reg.SSP = c.reg.A[7]
		c.reg.A[7] = c.reg.USP
	} else if oldS == 0 && newS != 0 {
		c.reg.USP = c.reg.A[7]
		c.reg.A[7] = c.reg.SSP
	}

	// Mask to valid SR bits: T__S__III___XNZVC (0xA71F)
	c.reg.SR = sr & 0xA71F
}

// setCCR sets only the condition code register (low byte of SR).
func (c *CPU) setCCR(ccr uint8) {
	c.reg.SR = (c.reg.SR & 0xFF00) | uint16(ccr&0x1F)
}

// SetState sets all programmer-visible registers directly without
// performing a hardware reset. Intended for testing, where exact CPU
// state must be established before executing an instruction.
func (c *CPU) SetState(regs Registers) {
	c.reg.D = regs.D
	c.reg.SR = regs.SR
	c.reg.USP = regs.USP
	c.reg.SSP = regs.SSP
	c.reg.PC = regs.PC
	c.reg.VBR = regs.VBR
	c.stopped = false
	c.halted = false
	c.cycles = 0
	c.deficit = 0
	c.pendingIPL = 0
	c.pendingVec = nil
	c.busErr = nil

	for i := 0; i < 7; i++ {
		c.reg.A[i] = regs.A[i]
	}
	if regs.SR&flagS != 0 {
		c.reg.A[7] = regs.SSP
	} else {
		c.reg.A[7] = regs.USP
	}
}
