package ir

// Instruction represents a single slot of the flat, addressable
// instruction stream. Since Go doesn't have a union type, we use this
// flattened struct for every opcode, and therefore each field has a
// different meaning depending on Op — following the same shape wazero's
// own SSA Instruction uses for its (differently-shaped) instruction set.
//
// A few opcodes are never the head of a logical operation: the
// OpParam* family only ever appears as a trailing slot immediately
// after the instruction that declares it needs one, and is decoded with
// AsParamRegister / AsParamRegisterAndImm32 / AsParamImm32, which panic
// if the tag doesn't match — the translator is responsible for emitting
// the correct trailing tag, so the executor does not recover from a
// mismatch, it treats one as an internal-consistency bug.
type Instruction struct {
	Op     Opcode
	Result Reg
	A      Reg
	B      Reg
	Off16  BranchOffset16
	Off32  BranchOffset
	Cmp    Comparator
	Imm32  uint32
	Lane   uint8
	Mem    uint32 // memory index (0 selects the cached default memory), or global index for OpGlobalGet/OpGlobalSet
}

// SlotCount returns how many adjacent slots (1, 2, or 3) this logical
// operation occupies, including itself. The executor advances its
// instruction pointer by exactly this amount after executing op.
func (i Instruction) SlotCount() int {
	switch i.Op {
	case OpSelect, OpSelectRev, OpSelectImm32, OpSelectI64Imm32, OpSelectF64Imm32,
		OpStore32, OpStore32Imm16, OpStore64, OpStore64Imm16,
		OpI32Store8, OpI32Store8Imm, OpI32Store16, OpI32Store16Imm,
		OpI64Store8, OpI64Store8Imm, OpI64Store16, OpI64Store16Imm,
		OpI64Store32, OpI64Store32Imm16,
		OpLoad32, OpLoad64,
		OpI32Load8S, OpI32Load8U, OpI32Load16S, OpI32Load16U,
		OpI64Load8S, OpI64Load8U, OpI64Load16S, OpI64Load16U,
		OpI64Load32S, OpI64Load32U,
		OpV128Load, OpV128Store,
		OpI8x16Shuffle, OpV128Bitselect:
		return 2
	default:
		return 1
	}
}

// --- Param decoding ---------------------------------------------------

// ParamRegister is the value carried by an OpParamRegister trailing
// slot.
type ParamRegister struct{ Reg Reg }

// AsParamRegister decodes i as a trailing OpParamRegister slot.
//
// Panics if i is not that tag: a mismatch here means the translator
// emitted (or the stream was corrupted into) an instruction whose
// trailing slot doesn't match what the preceding opcode promised, an
// internal-consistency violation the executor does not try to recover
// from.
func (i Instruction) AsParamRegister() ParamRegister {
	if i.Op != OpParamRegister {
		panic("ir: expected a trailing OpParamRegister slot")
	}
	return ParamRegister{Reg: i.A}
}

// ParamRegisterAndImm32 is the value carried by an
// OpParamRegisterAndImm32 trailing slot. Reg is reused to carry a raw
// 16-bit immediate (reinterpreted via int16(Reg)) when the owning
// instruction is one of the *Imm variants — the physical layout is
// identical, only the caller's interpretation differs.
type ParamRegisterAndImm32 struct {
	Reg   Reg
	Imm32 uint32
}

// AsParamRegisterAndImm32 decodes i as a trailing
// OpParamRegisterAndImm32 slot.
func (i Instruction) AsParamRegisterAndImm32() ParamRegisterAndImm32 {
	if i.Op != OpParamRegisterAndImm32 {
		panic("ir: expected a trailing OpParamRegisterAndImm32 slot")
	}
	return ParamRegisterAndImm32{Reg: i.A, Imm32: i.Imm32}
}

// ParamImm32 is the value carried by an OpParamImm32 trailing slot.
type ParamImm32 struct{ Imm32 uint32 }

// AsParamImm32 decodes i as a trailing OpParamImm32 slot.
func (i Instruction) AsParamImm32() ParamImm32 {
	if i.Op != OpParamImm32 {
		panic("ir: expected a trailing OpParamImm32 slot")
	}
	return ParamImm32{Imm32: i.Imm32}
}

// NewParamRegister builds a trailing OpParamRegister slot.
func NewParamRegister(reg Reg) Instruction {
	return Instruction{Op: OpParamRegister, A: reg}
}

// NewParamRegisterAndImm32 builds a trailing OpParamRegisterAndImm32
// slot.
func NewParamRegisterAndImm32(reg Reg, imm32 uint32) Instruction {
	return Instruction{Op: OpParamRegisterAndImm32, A: reg, Imm32: imm32}
}

// NewParamImm32 builds a trailing OpParamImm32 slot.
func NewParamImm32(imm32 uint32) Instruction {
	return Instruction{Op: OpParamImm32, Imm32: imm32}
}

// --- Offset64: the pair of a Store/Load's inline low half and its
// trailing param's high half -------------------------------------------

// CombineOffset64 reassembles the 64-bit memory offset split across a
// generic Store/Load's inline Imm32 (low half) and its trailing param's
// Imm32 (high half).
func CombineOffset64(lo, hi uint32) uint64 {
	return uint64(hi)<<32 | uint64(lo)
}

// SplitOffset64 splits a 64-bit memory offset into the (lo, hi) halves
// CombineOffset64 reassembles.
func SplitOffset64(offset uint64) (lo, hi uint32) {
	return uint32(offset), uint32(offset >> 32)
}

// --- common constructors, named the way original_source names its
// `Instruction::` associated functions -----------------------------------

// NewReturn builds a zero-result return.
func NewReturn() Instruction { return Instruction{Op: OpReturn} }

// NewReturnReg builds a return of a single register's value.
func NewReturnReg(value Reg) Instruction {
	return Instruction{Op: OpReturnReg, Result: value}
}

// NewReturnImm32 builds a return of an i32/f32-bit-pattern constant.
func NewReturnImm32(value uint32) Instruction {
	return Instruction{Op: OpReturnImm32, Imm32: value}
}

// NewReturnI64Imm32 builds a return of an i64 constant that fits a
// 32-bit sign-extended encoding.
func NewReturnI64Imm32(value int32) Instruction {
	return Instruction{Op: OpReturnI64Imm32, Imm32: uint32(value)}
}

// NewReturnF64Imm32 builds a return of an f64 constant whose value fits
// an f32 bit pattern (the translator is responsible for checking that).
func NewReturnF64Imm32(value uint32) Instruction {
	return Instruction{Op: OpReturnF64Imm32, Imm32: value}
}

// NewCopy builds a register-to-register copy.
func NewCopy(result, src Reg) Instruction {
	return Instruction{Op: OpCopy, Result: result, A: src}
}

// NewSelect builds the general select form: Result = lhs (held in B) if
// the register named by cond (held in A) is non-zero, else the value
// carried by the trailing Register param (added by the caller via
// NewParamRegister).
func NewSelect(result, cond, lhs Reg) Instruction {
	return Instruction{Op: OpSelect, Result: result, A: cond, B: lhs}
}

// NewSelectRev builds the reversed select form: the left operand is an
// inline immediate, the right operand is the trailing Register param.
func NewSelectRev(result, cond Reg, lhsImm32 uint32) Instruction {
	return Instruction{Op: OpSelectRev, Result: result, A: cond, Imm32: lhsImm32}
}

// NewSelectImm32 builds the select form where both arms are small i32
// constants: lhsImm32 inline, rhsImm32 in the trailing Imm32 param.
func NewSelectImm32(result, cond Reg, lhsImm32 uint32) Instruction {
	return Instruction{Op: OpSelectImm32, Result: result, A: cond, Imm32: lhsImm32}
}

// NewSelectI64Imm32 is NewSelectImm32's i64 counterpart.
func NewSelectI64Imm32(result, cond Reg, lhsImm32 uint32) Instruction {
	return Instruction{Op: OpSelectI64Imm32, Result: result, A: cond, Imm32: lhsImm32}
}

// NewSelectF64Imm32 is NewSelectImm32's f64 counterpart.
func NewSelectF64Imm32(result, cond Reg, lhsImm32 uint32) Instruction {
	return Instruction{Op: OpSelectF64Imm32, Result: result, A: cond, Imm32: lhsImm32}
}

// NewBranch builds an unconditional branch with a 32-bit offset.
func NewBranch(offset BranchOffset) Instruction {
	return Instruction{Op: OpBranch, Off32: offset}
}

// NewBranchCmp builds a fused compare-and-branch using a 16-bit inline
// offset.
func NewBranchCmp(cmp Comparator, lhs, rhs Reg, offset BranchOffset16) Instruction {
	return Instruction{Op: OpBranchCmp, Cmp: cmp, A: lhs, B: rhs, Off16: offset}
}

// NewBranchCmpFallback builds the fallback form used when the offset
// doesn't fit in 16 bits: params indexes a constant-pool slot holding a
// packed ComparatorAndOffset, lhs and rhs are the two comparison
// operands. lhs rides in the Result field — this opcode never produces
// a value, so the field is free to carry a third operand instead.
func NewBranchCmpFallback(params, lhs, rhs Reg) Instruction {
	return Instruction{Op: OpBranchCmpFallback, Result: lhs, A: params, B: rhs}
}

// NewCmp builds a boolean-producing comparison sharing Comparator's
// primitive test logic with NewBranchCmp.
func NewCmp(cmp Comparator, result, lhs, rhs Reg) Instruction {
	return Instruction{Op: OpCmp, Cmp: cmp, Result: result, A: lhs, B: rhs}
}

// NewConsumeFuel builds the opcode the translator places at the top of
// every basic block, charging the block's summed static cost.
func NewConsumeFuel(amount uint32) Instruction {
	return Instruction{Op: OpConsumeFuel, Imm32: amount}
}

// NewMemorySize builds a memory.size query against mem.
func NewMemorySize(result Reg, mem uint32) Instruction {
	return Instruction{Op: OpMemorySize, Result: result, Mem: mem}
}

// NewMemoryGrow builds a memory.grow of memory mem by the page count in
// delta.
func NewMemoryGrow(result, delta Reg, mem uint32) Instruction {
	return Instruction{Op: OpMemoryGrow, Result: result, A: delta, Mem: mem}
}

// NewGlobalGet builds a global.get of global idx.
func NewGlobalGet(result Reg, idx uint32) Instruction {
	return Instruction{Op: OpGlobalGet, Result: result, Mem: idx}
}

// NewGlobalSet builds a global.set of global idx from the value in src.
func NewGlobalSet(src Reg, idx uint32) Instruction {
	return Instruction{Op: OpGlobalSet, A: src, Mem: idx}
}
