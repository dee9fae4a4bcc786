package z80

import "fmt"

// IllegalInstructionError is returned (via a halt, surfaced through
// Step) when the decoder reaches an opcode this interpreter deliberately
// does not implement, rather than silently treating it as a NOP.
type IllegalInstructionError struct {
	Opcode []byte
}

func (e *IllegalInstructionError) Error() string {
	return fmt.Sprintf("z80: illegal instruction %#v", e.Opcode)
}

func (c *CPU) illegal(opcode ...byte) {
	c.halted = true
	c.fatal = true
	c.busErr = &IllegalInstructionError{Opcode: opcode}
}
