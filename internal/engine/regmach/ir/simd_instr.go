package ir

// NewSimdUnary builds a unary SIMD lane-op: Result = op(A).
func NewSimdUnary(op Opcode, result, src Reg) Instruction {
	return Instruction{Op: op, Result: result, A: src}
}

// NewSimdBinary builds a binary SIMD lane-op: Result = op(A, B).
func NewSimdBinary(op Opcode, result, lhs, rhs Reg) Instruction {
	return Instruction{Op: op, Result: result, A: lhs, B: rhs}
}

// NewSimdExtractLane builds an extract-lane op with a statically
// validated, inline lane index.
func NewSimdExtractLane(op Opcode, result, src Reg, lane uint8) Instruction {
	return Instruction{Op: op, Result: result, A: src, Lane: lane}
}

// NewSimdShiftByImm builds a shift-by-immediate op. shiftAmount is
// stored as given; the simd lane functions reduce it modulo the lane
// width when the op executes.
func NewSimdShiftByImm(op Opcode, result, src Reg, shiftAmount uint32) Instruction {
	return Instruction{Op: op, Result: result, A: src, Imm32: shiftAmount}
}

// NewI8x16ShuffleHead builds the head slot of i8x16.shuffle; the
// selector is carried by a trailing Register param built with
// NewParamRegister.
func NewI8x16ShuffleHead(result, lhs, rhs Reg) Instruction {
	return Instruction{Op: OpI8x16Shuffle, Result: result, A: lhs, B: rhs}
}

// NewV128BitselectHead builds the head slot of v128.bitselect; the
// third (selector) operand is carried by a trailing Register param.
func NewV128BitselectHead(result, lhs, rhs Reg) Instruction {
	return Instruction{Op: OpV128Bitselect, Result: result, A: lhs, B: rhs}
}
