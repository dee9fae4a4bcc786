package z80

import (
	"github.com/user-none/go-chip-core/bus"
	"github.com/user-none/go-chip-core/vtime"
)

// newTestCPU builds a CPU with a flat 64KB RAM block behind a 16-bit
// BusPort, matching the Z80's native address and data bus width, and no
// I/O port wired.
func newTestCPU() (*CPU, *bus.MemoryBlock) {
	mem := bus.NewMemoryBlockSize(64 * 1024)
	b := bus.NewBus()
	b.SetIgnoreUnmapped(true)
	b.Insert(0, mem)
	port := bus.NewBusPort(0, 16, 8, b)
	cpu := New(port, nil, vtime.Frequency(4_000_000))
	return cpu, mem
}

func loadBytes(mem *bus.MemoryBlock, addr uint16, data ...byte) {
	mem.LoadAt(bus.Address(addr), data)
}

func readByte(mem *bus.MemoryBlock, addr uint16) byte {
	var got [1]byte
	mem.Read(vtime.START, bus.Address(addr), got[:])
	return got[0]
}

type fakeIOPort struct {
	in  map[uint16]byte
	out map[uint16]byte
}

func newFakeIOPort() *fakeIOPort {
	return &fakeIOPort{in: map[uint16]byte{}, out: map[uint16]byte{}}
}

func (f *fakeIOPort) In(port uint16) byte { return f.in[port] }
func (f *fakeIOPort) Out(port uint16, value byte) { f.out[port] = value }
