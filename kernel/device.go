// Package kernel implements the simulation kernel: the device registry,
// the virtual-clock event queue, and the step/run loop that advances
// heterogeneous clocked devices without drifting.
package kernel

import (
	"github.com/user-none/go-chip-core/bus"
	"github.com/user-none/go-chip-core/vtime"
)

// DeviceID is a process-unique identifier assigned when a device is
// added to the kernel.
type DeviceID uint32

// Steppable is the capability to advance simulation by running until the
// device's next scheduled event, returning the duration until the one
// after. sys gives the device a handle back into the kernel so it can
// reach the bus and the interrupt controller while it steps.
type Steppable interface {
	Step(sys *System) (vtime.Duration, error)
}

// OnErrorHook is implemented by a Steppable that wants to dump state when
// any non-Breakpoint error terminates the simulation.
type OnErrorHook interface {
	OnError(sys *System)
}

// Interruptable is the capability to receive a vectored interrupt
// acknowledge cycle from the CPU or controller driving this device.
type Interruptable interface {
	AcknowledgeInterrupt(vector uint8)
}

// Debuggable is the capability to be inspected and to honor breakpoints.
type Debuggable interface {
	Inspect() string
	SetBreakpoint(addr bus.Address)
	ClearBreakpoint(addr bus.Address)
}

// Device is a handle to a registered simulation object. It exposes type
// assertions to whichever capability interfaces the concrete device
// implements, mirroring the Rust source's runtime "as_addressable" /
// "as_steppable" downcasts but using Go's native interface assertions.
type Device struct {
	id   DeviceID
	name string
	impl any
}

func (d *Device) ID() DeviceID { return d.id }
func (d *Device) Name() string { return d.name }

// AsAddressable returns the device as a bus.Addressable, if it implements it.
func (d *Device) AsAddressable() (bus.Addressable, bool) {
	a, ok := d.impl.(bus.Addressable)
	return a, ok
}

// AsSteppable returns the device as a Steppable, if it implements it.
func (d *Device) AsSteppable() (Steppable, bool) {
	s, ok := d.impl.(Steppable)
	return s, ok
}

// AsInterruptable returns the device as an Interruptable, if it implements it.
func (d *Device) AsInterruptable() (Interruptable, bool) {
	s, ok := d.impl.(Interruptable)
	return s, ok
}

// AsDebuggable returns the device as a Debuggable, if it implements it.
func (d *Device) AsDebuggable() (Debuggable, bool) {
	s, ok := d.impl.(Debuggable)
	return s, ok
}
