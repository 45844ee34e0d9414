package ir

// Opcode identifies the operation an Instruction performs. Opcodes are
// grouped by family in the order the constants are declared; the
// numeric values themselves carry no meaning beyond identity.
type Opcode uint16

const (
	// OpTrap never appears in a finalized stream; the zero value is
	// reserved so an accidentally-zeroed Instruction is visibly invalid
	// rather than silently decoding as some other opcode.
	OpTrap Opcode = iota

	// --- control / returns -------------------------------------------------

	OpReturn         // no operands: return with zero results
	OpReturnReg      // return the value in Result
	OpReturnImm32    // return an i32/f32-bit-pattern constant (Imm32)
	OpReturnI64Imm32 // return a sign-extended i64 constant that fits in 32 bits (Imm32)
	OpReturnF64Imm32 // return an f64 constant whose value fits an f32 bit pattern (Imm32)

	OpCopy // Result = A

	OpBranch // unconditional branch, BranchOffset32 in Off32

	// OpBranchCmp* fuse a Comparator test over (A, B) with a conditional
	// branch using a 16-bit inline offset.
	OpBranchCmp
	// OpBranchCmpFallback is used when the offset does not fit in 16
	// bits: A indexes a constant-pool slot holding a packed
	// ComparatorAndOffset, Result holds the left-hand comparison
	// operand (this opcode never produces a value, so the field is
	// free), and B holds the right-hand operand.
	OpBranchCmpFallback

	OpConsumeFuel // charge BlockFuel at the top of a basic block (amount in Imm32)

	OpMemorySize // Result = current size, in pages, of memory Mem

	// OpMemoryGrow: Result = previous size in pages of memory Mem, or -1
	// (as i32) if growing by the page count in A would exceed the
	// memory's configured maximum. The executor caches the default
	// memory as a *Memory handle, which stays valid across a grow; it
	// re-assigns that handle after this opcode when Mem == 0.
	OpMemoryGrow

	OpGlobalGet // Result = the value of global Mem (reused as a global index here)
	OpGlobalSet // global Mem = the value in A

	// --- select --------------------------------------------------------

	// OpSelect: A holds the condition register, B holds the
	// "condition true" value register. Result = B if A is non-zero,
	// else the register carried in the trailing Param slot.
	OpSelect
	// OpSelectRev: A holds the condition register, the inline Imm32
	// holds the "condition true" arm. Result = Imm32 if A is non-zero,
	// else the trailing Param register.
	OpSelectRev
	// OpSelectImm32/OpSelectI64Imm32/OpSelectF64Imm32: both sides are
	// small constants carried inline across two adjacent slots — Imm32
	// in this instruction, the other in the trailing Param slot.
	OpSelectImm32
	OpSelectI64Imm32
	OpSelectF64Imm32

	// --- arithmetic: i32 -------------------------------------------------

	OpI32Add
	OpI32AddImm16
	OpI32Sub
	OpI32SubImm16Rev // Result = Imm16 - A (non-commutative, immediate on the left)
	OpI32Mul
	OpI32MulImm16
	OpI32DivS
	OpI32DivU
	OpI32RemS
	OpI32RemU
	OpI32And
	OpI32AndImm16
	OpI32Or
	OpI32OrImm16
	OpI32Xor
	OpI32XorImm16
	OpI32Shl
	OpI32ShlImm16
	OpI32ShrS
	OpI32ShrSImm16
	OpI32ShrU
	OpI32ShrUImm16
	OpI32Rotl
	OpI32Rotr

	// Note: there is no separate wide-immediate opcode. When a constant
	// operand doesn't fit a 16-bit immediate, the translator allocates
	// it a constant-pool slot and emits the plain Reg/Reg opcode above
	// with a negative (constant-pool) register id — the sign-bit
	// discriminator on Reg already distinguishes "this operand is a
	// constant" without a dedicated tag (spec.md §9's constant-pool
	// design note).

	// --- arithmetic: i64 -------------------------------------------------

	OpI64Add
	OpI64AddImm16
	OpI64Sub
	OpI64SubImm16Rev
	OpI64Mul
	OpI64MulImm16
	OpI64DivS
	OpI64DivU
	OpI64RemS
	OpI64RemU
	OpI64And
	OpI64AndImm16
	OpI64Or
	OpI64OrImm16
	OpI64Xor
	OpI64XorImm16
	OpI64Shl
	OpI64ShlImm16
	OpI64ShrS
	OpI64ShrSImm16
	OpI64ShrU
	OpI64ShrUImm16
	OpI64Rotl
	OpI64Rotr

	// --- arithmetic: f32 / f64 -------------------------------------------
	//
	// Floats have no *Imm16 form (a folded 16-bit float immediate isn't
	// useful — float constants rarely fit a meaningful reduced range),
	// matching original_source, whose float binary ops only ever appear
	// in reg/reg form plus the wide-immediate-via-constant-pool form
	// noted above.

	OpF32Add
	OpF32Sub
	OpF32Mul
	OpF32Div
	OpF32Min
	OpF32Max
	OpF32Copysign

	OpF64Add
	OpF64Sub
	OpF64Mul
	OpF64Div
	OpF64Min
	OpF64Max
	OpF64Copysign

	// --- comparisons producing an i32 boolean result ---------------------

	// OpCmp evaluates Cmp over (A, B) and writes 0/1 into Result. Shares
	// the Comparator enumeration with OpBranchCmp so the same primitive
	// test logic backs both the boolean-producing and branch-fusing
	// forms.
	OpCmp

	// --- memory: generic store[N] family ---------------------------------
	//
	// Each width gets the 6-way expansion spec.md §4.2 calls out:
	// Store, StoreImm, StoreOffset16, StoreOffset16Imm16, StoreAt,
	// StoreAtImm16. "Store"/"StoreImm" use a runtime base pointer plus a
	// 64-bit offset split across this slot (Imm32) and a trailing
	// Param(RegisterAndImm32) carrying the offset's high bits (and, for
	// the *Imm forms, the immediate value). "*Offset16*" fold a 16-bit
	// offset inline against the default memory. "*At*" bake an absolute
	// 32-bit address into the instruction itself.

	OpStore32
	OpStore32Imm16
	OpStore32Offset16
	OpStore32Offset16Imm16
	OpStore32At
	OpStore32AtImm16

	OpStore64
	OpStore64Imm16
	OpStore64Offset16
	OpStore64Offset16Imm16
	OpStore64At
	OpStore64AtImm16

	OpI32Store8
	OpI32Store8Imm
	OpI32Store8Offset16
	OpI32Store8Offset16Imm
	OpI32Store8At
	OpI32Store8AtImm

	OpI32Store16
	OpI32Store16Imm
	OpI32Store16Offset16
	OpI32Store16Offset16Imm
	OpI32Store16At
	OpI32Store16AtImm

	OpI64Store8
	OpI64Store8Imm
	OpI64Store8Offset16
	OpI64Store8Offset16Imm
	OpI64Store8At
	OpI64Store8AtImm

	OpI64Store16
	OpI64Store16Imm
	OpI64Store16Offset16
	OpI64Store16Offset16Imm
	OpI64Store16At
	OpI64Store16AtImm

	OpI64Store32
	OpI64Store32Imm16
	OpI64Store32Offset16
	OpI64Store32Offset16Imm16
	OpI64Store32At
	OpI64Store32AtImm16

	// --- memory: load family ----------------------------------------------
	//
	// Loads have no immediate-source variant (there is nothing to fold:
	// the loaded value always comes from memory), so each width only
	// gets the 3-way Load / LoadOffset16 / LoadAt expansion.

	OpLoad32 // generic 32-bit load, reinterpreted as i32 or f32 by the caller
	OpLoad32Offset16
	OpLoad32At

	OpLoad64 // generic 64-bit load, reinterpreted as i64 or f64
	OpLoad64Offset16
	OpLoad64At

	OpI32Load8S
	OpI32Load8SOffset16
	OpI32Load8SAt
	OpI32Load8U
	OpI32Load8UOffset16
	OpI32Load8UAt

	OpI32Load16S
	OpI32Load16SOffset16
	OpI32Load16SAt
	OpI32Load16U
	OpI32Load16UOffset16
	OpI32Load16UAt

	OpI64Load8S
	OpI64Load8SOffset16
	OpI64Load8SAt
	OpI64Load8U
	OpI64Load8UOffset16
	OpI64Load8UAt

	OpI64Load16S
	OpI64Load16SOffset16
	OpI64Load16SAt
	OpI64Load16U
	OpI64Load16UOffset16
	OpI64Load16UAt

	OpI64Load32S
	OpI64Load32SOffset16
	OpI64Load32SAt
	OpI64Load32U
	OpI64Load32UOffset16
	OpI64Load32UAt

	// --- SIMD --------------------------------------------------------------
	//
	// Each variant below has its own distinct opcode constant. This is
	// a deliberate departure from original_source, whose dispatch table
	// reuses Instruction::I16x8Neg and Instruction::I16x8Abs as the tag
	// for the 32-bit/64-bit/float unary variants — a documented
	// copy-paste bug (spec.md §9) that this implementation does not
	// reproduce.

	OpV128Load
	OpV128LoadOffset16
	OpV128LoadAt
	OpV128Store
	OpV128StoreOffset16
	OpV128StoreAt

	OpI8x16Neg
	OpI16x8Neg
	OpI32x4Neg
	OpI64x2Neg
	OpF32x4Neg
	OpF64x2Neg

	OpI8x16Abs
	OpI16x8Abs
	OpI32x4Abs
	OpI64x2Abs
	OpF32x4Abs
	OpF64x2Abs

	OpV128Not

	OpI8x16Add
	OpI16x8Add
	OpI32x4Add
	OpI64x2Add
	OpF32x4Add
	OpF64x2Add

	OpI8x16Sub
	OpI16x8Sub
	OpI32x4Sub
	OpI64x2Sub
	OpF32x4Sub
	OpF64x2Sub

	OpI32x4Mul
	OpF32x4Mul
	OpF64x2Mul

	OpF32x4Min
	OpF32x4Max
	OpF64x2Min
	OpF64x2Max

	OpV128And
	OpV128Or
	OpV128Xor

	// OpI8x16ExtractLaneS/U etc. carry the lane index inline in Lane.
	OpI8x16ExtractLaneS
	OpI8x16ExtractLaneU
	OpI16x8ExtractLaneS
	OpI16x8ExtractLaneU
	OpI32x4ExtractLane
	OpI64x2ExtractLane
	OpF32x4ExtractLane
	OpF64x2ExtractLane

	// OpI*ShlByImm / OpI*ShrByImm carry a ShiftAmount<u32> inline in
	// Imm32; the simd lane functions reduce it modulo the lane width.
	OpI8x16ShlByImm
	OpI16x8ShlByImm
	OpI32x4ShlByImm
	OpI64x2ShlByImm
	OpI8x16ShrSByImm
	OpI16x8ShrSByImm
	OpI32x4ShrSByImm
	OpI64x2ShrSByImm
	OpI8x16ShrUByImm
	OpI16x8ShrUByImm
	OpI32x4ShrUByImm
	OpI64x2ShrUByImm

	// OpI8x16Shuffle additionally fetches a 16-byte selector from a
	// trailing Register Param.
	OpI8x16Shuffle
	// OpV128Bitselect consumes a third v128 operand the same way.
	OpV128Bitselect

	// --- trailing parameter tags ------------------------------------------
	//
	// These never appear as the head of a logical operation; they are
	// only ever found as the Nth trailing slot of a multi-slot
	// instruction. The executor asserts on decode that the slot it
	// finds carries exactly the tag it expects — it never looks ahead
	// speculatively.

	OpParamRegister           // carries a single Reg (A)
	OpParamRegisterAndImm32   // carries a Reg (A) and a 32-bit value (Imm32): used for wide-offset/wide-immediate continuations
	OpParamImm32              // carries a bare 32-bit value (Imm32): used for select_imm32's second operand
)
