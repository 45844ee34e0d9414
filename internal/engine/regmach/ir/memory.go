package ir

// --- generic register-value stores: Op(ptr, offset_lo) +
// Param(RegisterAndImm32{value, offset_hi}) ------------------------------

// NewStoreHead builds the head slot of a general store against ptr
// with a 64-bit offset, using a runtime base pointer (default memory
// fast path when mem == 0, the general multi-memory path otherwise).
func NewStoreHead(op Opcode, ptr Reg, offsetLo uint32, mem uint32) Instruction {
	return Instruction{Op: op, A: ptr, Imm32: offsetLo, Mem: mem}
}

// NewStoreParam builds the trailing param of a general register-value
// store: the value register plus the offset's high 32 bits.
func NewStoreParam(value Reg, offsetHi uint32) Instruction {
	return NewParamRegisterAndImm32(value, offsetHi)
}

// NewStoreImmParam builds the trailing param of a general
// immediate-value store: the 16-bit immediate (reinterpreted via
// Instruction.Imm16) plus the offset's high 32 bits.
func NewStoreImmParam(imm16 int16, offsetHi uint32) Instruction {
	return NewParamRegisterAndImm32(Reg(imm16), offsetHi)
}

// formOp maps the generic opcode of a store/load width (OpStore32,
// OpI32Store8Imm, OpLoad32, OpV128Store, ...) to its Offset16 (form 1)
// or At (form 2) sibling. Scalar store widths declare six forms (Store,
// StoreImm, StoreOffset16, StoreOffset16Imm, StoreAt, StoreAtImm), so
// their siblings are two apart; loads and v128 stores declare three.
func formOp(op Opcode, form Opcode) Opcode {
	if op >= OpStore32 && op <= OpI64Store32AtImm16 {
		return op + 2*form
	}
	return op + form
}

// NewStoreOffset16 builds the default-memory, inline-16-bit-offset,
// register-value store form: single slot, no trailing param. op is the
// width's generic Store opcode.
func NewStoreOffset16(op Opcode, ptr Reg, offset BranchOffset16, value Reg) Instruction {
	return Instruction{Op: formOp(op, 1), A: ptr, B: value, Off16: offset}
}

// NewStoreOffset16Imm builds the default-memory, inline-16-bit-offset,
// immediate-value store form. op is the width's generic StoreImm opcode.
func NewStoreOffset16Imm(op Opcode, ptr Reg, offset BranchOffset16, imm16 int16) Instruction {
	return Instruction{Op: formOp(op, 1), A: ptr, B: Reg(imm16), Off16: offset}
}

// NewStoreAt builds the absolute-address, register-value store form.
// op is the width's generic Store opcode.
func NewStoreAt(op Opcode, addr32 uint32, value Reg, mem uint32) Instruction {
	return Instruction{Op: formOp(op, 2), A: value, Imm32: addr32, Mem: mem}
}

// NewStoreAtImm builds the absolute-address, immediate-value store
// form. op is the width's generic StoreImm opcode.
func NewStoreAtImm(op Opcode, addr32 uint32, imm16 int16, mem uint32) Instruction {
	return Instruction{Op: formOp(op, 2), B: Reg(imm16), Imm32: addr32, Mem: mem}
}

// --- loads: Op(result, ptr, offset_lo) + Param(offset_hi) ---------------

// NewLoadHead builds the head slot of a general load.
func NewLoadHead(op Opcode, result, ptr Reg, offsetLo uint32, mem uint32) Instruction {
	return Instruction{Op: op, Result: result, A: ptr, Imm32: offsetLo, Mem: mem}
}

// NewLoadParam builds the trailing param of a general load: just the
// offset's high 32 bits.
func NewLoadParam(offsetHi uint32) Instruction {
	return NewParamImm32(offsetHi)
}

// NewLoadOffset16 builds the default-memory, inline-16-bit-offset load
// form. op is the width's generic Load opcode.
func NewLoadOffset16(op Opcode, result, ptr Reg, offset BranchOffset16) Instruction {
	return Instruction{Op: formOp(op, 1), Result: result, A: ptr, Off16: offset}
}

// NewLoadAt builds the absolute-address load form. op is the width's
// generic Load opcode.
func NewLoadAt(op Opcode, result Reg, addr32 uint32, mem uint32) Instruction {
	return Instruction{Op: formOp(op, 2), Result: result, Imm32: addr32, Mem: mem}
}
