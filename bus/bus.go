// Package bus implements the memory-mapped address bus: a sorted list of
// mapped address ranges dispatching sized reads and writes to the device
// that owns each range, plus a width-adapting BusPort in front of it for
// narrow-bus CPUs.
package bus

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/user-none/go-chip-core/simerr"
	"github.com/user-none/go-chip-core/vtime"
)

// Address is an unsigned 64-bit logical address. Peripherals interpret
// only the relevant low bits.
type Address = uint64

// Addressable is the capability to respond to sized reads and writes at
// relative addresses 0..Size().
type Addressable interface {
	Size() int
	Read(clock vtime.Instant, addr Address, data []byte) error
	Write(clock vtime.Instant, addr Address, data []byte) error
}

// MemoryBlock owns a contiguous byte slice and an optional read-only flag.
type MemoryBlock struct {
	contents []byte
	readOnly bool
}

// NewMemoryBlock wraps contents (not copied) as a MemoryBlock.
func NewMemoryBlock(contents []byte) *MemoryBlock {
	return &MemoryBlock{contents: contents}
}

// NewMemoryBlockSize allocates a zeroed MemoryBlock of the given size.
func NewMemoryBlockSize(size int) *MemoryBlock {
	return &MemoryBlock{contents: make([]byte, size)}
}

// SetReadOnly marks the block read-only; subsequent writes fail with a
// Breakpoint error.
func (m *MemoryBlock) SetReadOnly() { m.readOnly = true }

// Resize grows or shrinks the backing slice, zero-filling on growth.
func (m *MemoryBlock) Resize(newSize int) {
	if newSize <= len(m.contents) {
		m.contents = m.contents[:newSize]
		return
	}
	grown := make([]byte, newSize)
	copy(grown, m.contents)
	m.contents = grown
}

// LoadAt copies data into the block starting at addr.
func (m *MemoryBlock) LoadAt(addr Address, data []byte) error {
	end := int(addr) + len(data)
	if end > len(m.contents) {
		return simerr.Newf("memory block: load of %d bytes at %#x exceeds size %d", len(data), addr, len(m.contents))
	}
	copy(m.contents[addr:end], data)
	return nil
}

func (m *MemoryBlock) Size() int { return len(m.contents) }

func (m *MemoryBlock) Read(_ vtime.Instant, addr Address, data []byte) error {
	end := int(addr) + len(data)
	if end > len(m.contents) {
		return simerr.NewBusError(addr, "read past end of memory block")
	}
	copy(data, m.contents[addr:end])
	return nil
}

func (m *MemoryBlock) Write(_ vtime.Instant, addr Address, data []byte) error {
	if m.readOnly {
		return simerr.NewBreakpoint(fmt.Sprintf("write to read-only memory at %#x", addr))
	}
	end := int(addr) + len(data)
	if end > len(m.contents) {
		return simerr.NewBusError(addr, "write past end of memory block")
	}
	copy(m.contents[addr:end], data)
	return nil
}

// AddressRepeater wraps an Addressable with a larger size R; any access
// at offset a is forwarded to the inner device at a mod inner_size. Used
// to mirror a small ROM across a larger address region.
type AddressRepeater struct {
	inner Addressable
	size  int
}

// NewAddressRepeater wraps inner so that it appears to span size bytes,
// repeating inner's contents.
func NewAddressRepeater(inner Addressable, size int) *AddressRepeater {
	return &AddressRepeater{inner: inner, size: size}
}

func (r *AddressRepeater) Size() int { return r.size }

func (r *AddressRepeater) Read(clock vtime.Instant, addr Address, data []byte) error {
	innerSize := Address(r.inner.Size())
	return r.inner.Read(clock, addr%innerSize, data)
}

func (r *AddressRepeater) Write(clock vtime.Instant, addr Address, data []byte) error {
	innerSize := Address(r.inner.Size())
	return r.inner.Write(clock, addr%innerSize, data)
}

// AddressTranslator wraps an Addressable with a pure function applied to
// every access address.
type AddressTranslator struct {
	inner Addressable
	size  int
	fn    func(Address) Address
}

// NewAddressTranslator wraps inner, translating every address through fn
// before forwarding. size is the apparent size of the translator.
func NewAddressTranslator(inner Addressable, size int, fn func(Address) Address) *AddressTranslator {
	return &AddressTranslator{inner: inner, size: size, fn: fn}
}

func (t *AddressTranslator) Size() int { return t.size }

func (t *AddressTranslator) Read(clock vtime.Instant, addr Address, data []byte) error {
	return t.inner.Read(clock, t.fn(addr), data)
}

func (t *AddressTranslator) Write(clock vtime.Instant, addr Address, data []byte) error {
	return t.inner.Write(clock, t.fn(addr), data)
}

// block is one mapped range on a Bus.
type block struct {
	base Address
	size int
	dev  Addressable
}

// Bus is a sorted collection of Addressable devices mapped to disjoint
// address ranges. It is the fundamental way CPU implementations reach
// memory and peripherals.
type Bus struct {
	blocks          []block
	ignoreUnmapped  bool
	watchers        []Address
	watcherModified bool
	log             *slog.Logger
}

// NewBus creates an empty Bus.
func NewBus() *Bus {
	return &Bus{log: slog.Default()}
}

// SetIgnoreUnmapped changes unmapped reads to return zero and unmapped
// writes to be silent no-ops (each logged), instead of returning an error.
func (b *Bus) SetIgnoreUnmapped(ignore bool) { b.ignoreUnmapped = ignore }

// Insert maps dev at base. The device's size is queried once at insertion
// time. Blocks are kept sorted by base address ascending.
func (b *Bus) Insert(base Address, dev Addressable) {
	blk := block{base: base, size: dev.Size(), dev: dev}
	i := sort.Search(len(b.blocks), func(i int) bool { return b.blocks[i].base > base })
	b.blocks = append(b.blocks, block{})
	copy(b.blocks[i+1:], b.blocks[i:])
	b.blocks[i] = blk
}

// ClearAllDevices removes every mapped block.
func (b *Bus) ClearAllDevices() { b.blocks = nil }

// DeviceAt locates the unique block containing [addr, addr+count) and
// returns the device and the address relative to that block's base.
func (b *Bus) DeviceAt(addr Address, count int) (Addressable, Address, error) {
	for _, blk := range b.blocks {
		if addr >= blk.base && addr < blk.base+Address(blk.size) {
			rel := addr - blk.base
			if int(rel)+count <= blk.size {
				return blk.dev, rel, nil
			}
			return nil, 0, simerr.NewBusError(addr, "access spans block boundary")
		}
	}
	return nil, 0, simerr.NewBusError(addr, "no mapped block at this address")
}

func (b *Bus) Read(clock vtime.Instant, addr Address, data []byte) error {
	dev, rel, err := b.DeviceAt(addr, len(data))
	if err != nil {
		if b.ignoreUnmapped {
			b.log.Info("bus: ignoring unmapped read", "addr", addr, "err", err)
			for i := range data {
				data[i] = 0
			}
			return nil
		}
		return err
	}
	return dev.Read(clock, rel, data)
}

func (b *Bus) Write(clock vtime.Instant, addr Address, data []byte) error {
	for _, w := range b.watchers {
		if w == addr {
			b.log.Info("bus: watched address written", "addr", addr, "data", data)
			b.watcherModified = true
			break
		}
	}

	dev, rel, err := b.DeviceAt(addr, len(data))
	if err != nil {
		if b.ignoreUnmapped {
			b.log.Info("bus: ignoring unmapped write", "addr", addr, "err", err)
			return nil
		}
		return err
	}
	return dev.Write(clock, rel, data)
}

// Size returns the address one past the end of the highest-mapped block.
func (b *Bus) Size() int {
	if len(b.blocks) == 0 {
		return 0
	}
	last := b.blocks[len(b.blocks)-1]
	return int(last.base) + last.size
}

// AddWatcher arms a write watchpoint on addr.
func (b *Bus) AddWatcher(addr Address) {
	b.watchers = append(b.watchers, addr)
}

// RemoveWatcher disarms a write watchpoint on addr. It is a no-op if addr
// was never armed, and idempotent if called twice. It does not add addr
// as a side effect, unlike the buggy older draft this behavior supersedes.
func (b *Bus) RemoveWatcher(addr Address) {
	for i, w := range b.watchers {
		if w == addr {
			b.watchers = append(b.watchers[:i], b.watchers[i+1:]...)
			return
		}
	}
}

// CheckAndResetWatcherModified reports whether any watched address was
// written since the last call, then clears the flag.
func (b *Bus) CheckAndResetWatcherModified() bool {
	result := b.watcherModified
	b.watcherModified = false
	return result
}
