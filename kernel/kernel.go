package kernel

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/user-none/go-chip-core/bus"
	"github.com/user-none/go-chip-core/irq"
	"github.com/user-none/go-chip-core/simerr"
	"github.com/user-none/go-chip-core/vtime"
)

// nextStep is one entry in the kernel's event queue: the device due to
// step next_clock simulation time. The queue is kept ordered so that the
// last element always holds the soonest-due event, making both pop and
// the common-case insert O(1).
type nextStep struct {
	nextClock vtime.Instant
	device    DeviceID
}

// DeviceSettings controls what a device is registered for when added to
// the kernel: an optional human name, an optional primary-bus mapping
// address, whether it is tracked as debuggable, and whether it is
// enqueued for stepping.
type DeviceSettings struct {
	Name       string
	Address    *bus.Address
	Debuggable bool
	Queue      bool
}

// System is the simulation kernel: it owns the virtual clock, the device
// registry, the primary bus, any secondary named buses, the interrupt
// controller, and the event queue. System never stores a reference back
// to itself inside a device; devices only see the System (and through it
// the bus) for the duration of a single Step call, which breaks the
// device/bus/kernel reference cycle described in the design notes.
type System struct {
	Clock vtime.Instant

	devices    map[DeviceID]*Device
	nextID     DeviceID
	idToName   map[DeviceID]string
	eventQueue []nextStep
	debuggables []DeviceID

	Bus               *bus.Bus
	buses             map[string]*bus.Bus
	InterruptController *irq.Controller

	log *slog.Logger
}

// NewSystem creates an empty kernel with a fresh primary bus and
// interrupt controller.
func NewSystem() *System {
	return &System{
		Clock:               vtime.START,
		devices:              make(map[DeviceID]*Device),
		idToName:             make(map[DeviceID]string),
		Bus:                  bus.NewBus(),
		buses:                make(map[string]*bus.Bus),
		InterruptController:  irq.New(),
		log:                  slog.Default(),
	}
}

// NamedBus returns (creating if necessary) a secondary bus registered
// under name, for devices that need a bus separate from the primary one
// (e.g. a Z80 I/O port space).
func (s *System) NamedBus(name string) *bus.Bus {
	if b, ok := s.buses[name]; ok {
		return b
	}
	b := bus.NewBus()
	s.buses[name] = b
	return b
}

// GetDevice returns the device registered under id.
func (s *System) GetDevice(id DeviceID) (*Device, error) {
	d, ok := s.devices[id]
	if !ok {
		return nil, simerr.Newf("kernel: bad device id %d", id)
	}
	return d, nil
}

// GetDeviceByName returns the device registered under the given name.
func (s *System) GetDeviceByName(name string) (*Device, error) {
	for id, n := range s.idToName {
		if n == name {
			return s.GetDevice(id)
		}
	}
	return nil, simerr.Newf("kernel: no device named %q", name)
}

// AddDevice registers impl under settings and returns its fresh id. impl
// may implement any subset of bus.Addressable, Steppable, Interruptable,
// and Debuggable; AddDevice wires it into the bus / event queue /
// debuggables set accordingly.
func (s *System) AddDevice(impl any, settings DeviceSettings) DeviceID {
	s.nextID++
	id := s.nextID

	dev := &Device{id: id, name: settings.Name, impl: impl}
	s.devices[id] = dev
	s.idToName[id] = settings.Name

	if settings.Debuggable {
		if _, ok := dev.AsDebuggable(); ok {
			s.debuggables = append(s.debuggables, id)
		}
	}
	if settings.Queue {
		if _, ok := dev.AsSteppable(); ok {
			s.queueDevice(nextStep{nextClock: vtime.START, device: id})
		}
	}
	if settings.Address != nil {
		if a, ok := dev.AsAddressable(); ok {
			s.Bus.Insert(*settings.Address, a)
		}
	}
	return id
}

// AddNamedSteppable registers a named device and enqueues it for stepping.
func (s *System) AddNamedSteppable(name string, impl any) DeviceID {
	return s.AddDevice(impl, DeviceSettings{Name: name, Queue: true})
}

// AddAddressableDevice maps impl onto the primary bus at addr and enqueues
// it for stepping if it is Steppable.
func (s *System) AddAddressableDevice(addr bus.Address, impl any) DeviceID {
	name := fmt.Sprintf("mem%x", addr)
	return s.AddDevice(impl, DeviceSettings{Name: name, Address: &addr, Queue: true})
}

// AddPeripheral registers a named, addressed, steppable peripheral.
func (s *System) AddPeripheral(name string, addr bus.Address, impl any) DeviceID {
	return s.AddDevice(impl, DeviceSettings{Name: name, Address: &addr, Queue: true})
}

// AddInterruptableDevice registers a named, steppable, interruptable device.
func (s *System) AddInterruptableDevice(name string, impl any) DeviceID {
	return s.AddDevice(impl, DeviceSettings{Name: name, Queue: true})
}

// queueDevice inserts step keeping the queue ordered so that the tail
// (last element) is always the soonest-due event. It walks from the tail
// backward until it finds an entry with a strictly later next_clock, and
// inserts just after that position; ties are broken by insertion order,
// since a newly (re)inserted entry lands further from the tail than
// entries already at the same clock, so those earlier entries pop first.
func (s *System) queueDevice(step nextStep) {
	for i := len(s.eventQueue) - 1; i >= 0; i-- {
		if s.eventQueue[i].nextClock.Compare(step.nextClock) > 0 {
			s.eventQueue = append(s.eventQueue, nextStep{})
			copy(s.eventQueue[i+2:], s.eventQueue[i+1:])
			s.eventQueue[i+1] = step
			return
		}
	}
	s.eventQueue = append(s.eventQueue, nextStep{})
	copy(s.eventQueue[1:], s.eventQueue[:len(s.eventQueue)-1])
	s.eventQueue[0] = step
}

// processOneEvent pops the soonest-due device, advances the clock to its
// scheduled instant, and steps it exactly once.
func (s *System) processOneEvent() error {
	event := s.eventQueue[len(s.eventQueue)-1]
	s.eventQueue = s.eventQueue[:len(s.eventQueue)-1]
	s.Clock = event.nextClock

	dev, err := s.GetDevice(event.device)
	if err != nil {
		return err
	}
	steppable, ok := dev.AsSteppable()
	if !ok {
		return simerr.Newf("kernel: device %d is not steppable", event.device)
	}

	diff, stepErr := steppable.Step(s)
	event.nextClock = s.Clock.Add(diff)
	s.queueDevice(event)
	return stepErr
}

// Step advances the simulation by exactly one event. Breakpoint errors
// propagate immediately, leaving kernel state intact for inspection. Any
// other error runs every steppable device's OnError hook (if present)
// before being returned.
func (s *System) Step() error {
	err := s.processOneEvent()
	if err == nil {
		return nil
	}

	var bp *simerr.Breakpoint
	if errors.As(err, &bp) {
		return err
	}

	s.log.Error("kernel: step failed", "err", err)
	s.exitError()
	return err
}

// exitError runs the OnError hook of every steppable device that has one.
func (s *System) exitError() {
	for _, dev := range s.devices {
		if _, ok := dev.AsSteppable(); !ok {
			continue
		}
		if hook, ok := dev.impl.(OnErrorHook); ok {
			hook.OnError(s)
		}
	}
}

// NextEventDeviceID returns the id of the device due to step next.
func (s *System) NextEventDeviceID() DeviceID {
	return s.eventQueue[len(s.eventQueue)-1].device
}

// NextDebuggableDevice returns the id of the nearest-due debuggable
// device in the queue, if any.
func (s *System) NextDebuggableDevice() (DeviceID, bool) {
	for i := len(s.eventQueue) - 1; i >= 0; i-- {
		dev, err := s.GetDevice(s.eventQueue[i].device)
		if err != nil {
			continue
		}
		if _, ok := dev.AsDebuggable(); ok {
			return s.eventQueue[i].device, true
		}
	}
	return 0, false
}

// StepUntilDevice steps the simulation until the next event is for id.
func (s *System) StepUntilDevice(id DeviceID) error {
	for {
		if err := s.Step(); err != nil {
			return err
		}
		if s.NextEventDeviceID() == id {
			return nil
		}
	}
}

// StepUntilDebuggable steps until the next-due device is debuggable.
func (s *System) StepUntilDebuggable() error {
	for {
		if err := s.Step(); err != nil {
			return err
		}
		dev, err := s.GetDevice(s.NextEventDeviceID())
		if err != nil {
			continue
		}
		if _, ok := dev.AsDebuggable(); ok {
			return nil
		}
	}
}

// RunUntilClock steps while the clock is before t.
func (s *System) RunUntilClock(t vtime.Instant) error {
	for s.Clock.Before(t) {
		if err := s.Step(); err != nil {
			return err
		}
	}
	return nil
}

// RunForDuration steps for the given simulated duration.
func (s *System) RunForDuration(d vtime.Duration) error {
	return s.RunUntilClock(s.Clock.Add(d))
}

// RunForever steps until the clock saturates at vtime.FOREVER or an
// error occurs.
func (s *System) RunForever() error {
	return s.RunUntilClock(vtime.FOREVER)
}
