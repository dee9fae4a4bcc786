package bus

import (
	"fmt"

	"github.com/user-none/go-chip-core/vtime"
)

// hexDumpLine renders one row of a memory dump (an address header followed
// by up to 8 big-endian words) as a single log-friendly string.
func hexDumpLine(addr Address, words []uint16) string {
	line := fmt.Sprintf("%#010x:", addr)
	for _, w := range words {
		line += fmt.Sprintf(" %#06x", w)
	}
	return line
}

// BusPort adapts a wide Bus to the narrower address and data width of a
// CPU: it masks every address to address_bits and splits any transfer
// wider than data_width into sequential same-width bus cycles. This
// models, for example, a 68000's 16-bit data path performing a 32-bit
// access as two word cycles, without the CPU needing to know.
type BusPort struct {
	offset      Address
	addressMask Address
	dataWidth   int
	sub         *Bus
}

// NewBusPort builds a BusPort in front of bus. addressBits bounds the
// address space visible through the port; dataBits is the bus cycle
// width in bits (must be a multiple of 8).
func NewBusPort(offset Address, addressBits, dataBits int, b *Bus) *BusPort {
	return &BusPort{
		offset:      offset,
		addressMask: (Address(1) << uint(addressBits)) - 1,
		dataWidth:   dataBits / 8,
		sub:         b,
	}
}

// AddressMask returns the mask applied to every address before dispatch.
func (p *BusPort) AddressMask() Address { return p.addressMask }

// DataWidth returns the bus cycle width in bytes.
func (p *BusPort) DataWidth() int { return p.dataWidth }

func (p *BusPort) Size() int { return p.sub.Size() }

func (p *BusPort) Read(clock vtime.Instant, addr Address, data []byte) error {
	base := p.offset + (addr & p.addressMask)
	for i := 0; i < len(data); i += p.dataWidth {
		end := i + p.dataWidth
		if end > len(data) {
			end = len(data)
		}
		cycleAddr := (base + Address(i)) & p.addressMask
		if err := p.sub.Read(clock, cycleAddr, data[i:end]); err != nil {
			return err
		}
	}
	return nil
}

func (p *BusPort) Write(clock vtime.Instant, addr Address, data []byte) error {
	base := p.offset + (addr & p.addressMask)
	for i := 0; i < len(data); i += p.dataWidth {
		end := i + p.dataWidth
		if end > len(data) {
			end = len(data)
		}
		cycleAddr := (base + Address(i)) & p.addressMask
		if err := p.sub.Write(clock, cycleAddr, data[i:end]); err != nil {
			return err
		}
	}
	return nil
}

// DumpMemory logs a hex grid of count bytes starting at addr through the
// underlying Bus's DumpMemory, for use by textual debugger "dump" commands.
func (p *BusPort) DumpMemory(clock vtime.Instant, addr, count Address) {
	p.sub.DumpMemory(clock, p.offset+(addr&p.addressMask), count)
}

// DumpMemory logs a hex grid of count bytes starting at addr, one log
// record per row of up to 8 words.
func (b *Bus) DumpMemory(clock vtime.Instant, addr, count Address) {
	for count > 0 {
		wordsThisLine := count / 2
		if wordsThisLine > 8 {
			wordsThisLine = 8
		}
		rowAddr := addr
		words := make([]uint16, 0, wordsThisLine)
		for i := Address(0); i < wordsThisLine; i++ {
			word, err := ReadBEWord(b, clock, addr)
			if err != nil {
				b.log.Debug("bus: dump truncated", "line", hexDumpLine(rowAddr, words), "err", err)
				return
			}
			words = append(words, word)
			addr += 2
			count -= 2
		}
		b.log.Debug("bus: dump", "line", hexDumpLine(rowAddr, words))
	}
}
