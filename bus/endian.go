package bus

import "github.com/user-none/go-chip-core/vtime"

// ReadByte reads a single byte at addr.
func ReadByte(a Addressable, clock vtime.Instant, addr Address) (byte, error) {
	var buf [1]byte
	if err := a.Read(clock, addr, buf[:]); err != nil {
		return 0, err
	}
	return buf[0], nil
}

// WriteByte writes a single byte at addr.
func WriteByte(a Addressable, clock vtime.Instant, addr Address, val byte) error {
	buf := [1]byte{val}
	return a.Write(clock, addr, buf[:])
}

// ReadBEWord reads a big-endian 16-bit word.
func ReadBEWord(a Addressable, clock vtime.Instant, addr Address) (uint16, error) {
	var buf [2]byte
	if err := a.Read(clock, addr, buf[:]); err != nil {
		return 0, err
	}
	return uint16(buf[0])<<8 | uint16(buf[1]), nil
}

// WriteBEWord writes a big-endian 16-bit word.
func WriteBEWord(a Addressable, clock vtime.Instant, addr Address, val uint16) error {
	buf := [2]byte{byte(val >> 8), byte(val)}
	return a.Write(clock, addr, buf[:])
}

// ReadBELong reads a big-endian 32-bit long.
func ReadBELong(a Addressable, clock vtime.Instant, addr Address) (uint32, error) {
	var buf [4]byte
	if err := a.Read(clock, addr, buf[:]); err != nil {
		return 0, err
	}
	return uint32(buf[0])<<24 | uint32(buf[1])<<16 | uint32(buf[2])<<8 | uint32(buf[3]), nil
}

// WriteBELong writes a big-endian 32-bit long.
func WriteBELong(a Addressable, clock vtime.Instant, addr Address, val uint32) error {
	buf := [4]byte{byte(val >> 24), byte(val >> 16), byte(val >> 8), byte(val)}
	return a.Write(clock, addr, buf[:])
}

// ReadLEWord reads a little-endian 16-bit word.
func ReadLEWord(a Addressable, clock vtime.Instant, addr Address) (uint16, error) {
	var buf [2]byte
	if err := a.Read(clock, addr, buf[:]); err != nil {
		return 0, err
	}
	return uint16(buf[1])<<8 | uint16(buf[0]), nil
}

// WriteLEWord writes a little-endian 16-bit word.
func WriteLEWord(a Addressable, clock vtime.Instant, addr Address, val uint16) error {
	buf := [2]byte{byte(val), byte(val >> 8)}
	return a.Write(clock, addr, buf[:])
}

// ReadLELong reads a little-endian 32-bit long.
func ReadLELong(a Addressable, clock vtime.Instant, addr Address) (uint32, error) {
	var buf [4]byte
	if err := a.Read(clock, addr, buf[:]); err != nil {
		return 0, err
	}
	return uint32(buf[3])<<24 | uint32(buf[2])<<16 | uint32(buf[1])<<8 | uint32(buf[0]), nil
}

// WriteLELong writes a little-endian 32-bit long.
func WriteLELong(a Addressable, clock vtime.Instant, addr Address, val uint32) error {
	buf := [4]byte{byte(val), byte(val >> 8), byte(val >> 16), byte(val >> 24)}
	return a.Write(clock, addr, buf[:])
}
