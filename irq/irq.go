// Package irq implements the shared interrupt controller: a 7-level
// priority latch with an acknowledge cycle, used by both CPU interpreters
// and any peripheral that raises interrupts.
package irq

// Controller is a 7-level (priority 1..=7) interrupt latch. Priority 7
// is conventionally non-maskable on M68k semantics; the controller
// itself only tracks assertion and vectors, leaving maskability to the
// CPU that consumes Check.
type Controller struct {
	slots   [8]slot // index 1..7 used; 0 unused
	highest uint8
}

type slot struct {
	asserted bool
	vector   uint8
}

// New creates an empty Controller with nothing asserted.
func New() *Controller {
	return &Controller{}
}

// Set asserts or clears priority level p (1..=7) with the given vector.
// If asserted and p is higher than the current highest asserted level,
// highest is raised to p.
func (c *Controller) Set(asserted bool, p uint8, vector uint8) {
	c.slots[p].asserted = asserted
	c.slots[p].vector = vector
	if asserted && p > c.highest {
		c.highest = p
	}
}

// Check returns whether any interrupt is asserted, the highest asserted
// priority, and the vector registered at that priority.
func (c *Controller) Check() (asserted bool, priority uint8, vector uint8) {
	if c.highest == 0 {
		return false, 0, 0
	}
	return true, c.highest, c.slots[c.highest].vector
}

// Acknowledge clears priority level p and returns the vector that was
// registered there, then walks highest down past any now-unasserted
// levels.
func (c *Controller) Acknowledge(p uint8) uint8 {
	vector := c.slots[p].vector
	c.slots[p].asserted = false
	for c.highest > 0 && !c.slots[c.highest].asserted {
		c.highest--
	}
	return vector
}
