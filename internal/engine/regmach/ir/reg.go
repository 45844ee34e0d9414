// Package ir defines the register-machine intermediate representation:
// the untyped value cell, register ids, branch offsets, block fuel, the
// comparator enumeration, and the flat instruction encoding that the
// translator emits and the executor walks.
package ir

// Reg is a 16-bit signed register identifier.
//
// Non-negative values index the current function's local/temporary
// window. Negative values index the function's constant pool, so an
// immediate that doesn't fit inline can still be referenced by a single
// register id. Which of the two a Reg refers to is determined entirely
// by its sign; there is no separate discriminator field.
type Reg int16

// ConstPoolIndex returns the index of r into the owning function's
// constant pool. Only valid when r.IsConst() is true.
func (r Reg) ConstPoolIndex() int {
	return int(-r) - 1
}

// IsConst reports whether r refers to the constant pool rather than the
// frame window.
func (r Reg) IsConst() bool {
	return r < 0
}

// FrameIndex returns the index of r into the current call frame's
// value window. Only valid when r.IsConst() is false.
func (r Reg) FrameIndex() int {
	return int(r)
}

// RegFromConstPoolIndex returns the Reg that refers to the i'th slot of
// the constant pool.
func RegFromConstPoolIndex(i int) Reg {
	return Reg(-i - 1)
}
