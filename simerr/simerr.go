// Package simerr defines the three error classes used throughout the
// simulation kernel and CPU interpreters: Breakpoint, CPU exceptions
// (handled internally by the executors and never surfaced through this
// package), and a catch-all class carried by BusError for unmapped or
// out-of-range bus access and by the generic Error for everything else
// (bad device id, halted CPU).
package simerr

import "fmt"

// Breakpoint is raised by a CPU hitting a PC breakpoint, a bus write to
// read-only memory, or any other intentionally trapped condition. The
// kernel returns it to the caller without invoking any device's OnError
// hook, preserving simulation state for debugger inspection.
type Breakpoint struct {
	Reason string
}

func (b *Breakpoint) Error() string {
	return fmt.Sprintf("breakpoint: %s", b.Reason)
}

// NewBreakpoint constructs a Breakpoint error with the given reason.
func NewBreakpoint(reason string) *Breakpoint {
	return &Breakpoint{Reason: reason}
}

// BusError reports an unmapped or out-of-range bus access.
type BusError struct {
	Addr uint64
	Msg  string
}

func (e *BusError) Error() string {
	return fmt.Sprintf("bus error at %#x: %s", e.Addr, e.Msg)
}

// NewBusError constructs a BusError for the given address.
func NewBusError(addr uint64, msg string) *BusError {
	return &BusError{Addr: addr, Msg: msg}
}

// Error is the catch-all class: bad device id, halted CPU, malformed
// input, and any other condition that is neither a Breakpoint nor a
// CPU exception. The kernel logs these, runs every steppable device's
// OnError hook, and returns the error to the caller.
type Error struct {
	Msg string
}

func (e *Error) Error() string { return e.Msg }

// New constructs a generic Error.
func New(msg string) *Error { return &Error{Msg: msg} }

// Newf constructs a generic Error with a formatted message.
func Newf(format string, args ...any) *Error { return &Error{Msg: fmt.Sprintf(format, args...)} }
