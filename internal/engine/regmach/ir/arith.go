package ir

// ArithBinary builds the register/register form of a scalar binary
// opcode: Result = op(A, B).
func ArithBinary(op Opcode, result, lhs, rhs Reg) Instruction {
	return Instruction{Op: op, Result: result, A: lhs, B: rhs}
}

// ArithBinaryImm16 builds the register/immediate-16 form: Result =
// op(A, imm16). Used for commutative ops (the immediate is always
// presented on the right by the translator) and non-reversed
// non-commutative ops.
func ArithBinaryImm16(op Opcode, result, lhs Reg, imm16 int16) Instruction {
	return Instruction{Op: op, Result: result, A: lhs, B: Reg(imm16)}
}

// ArithBinaryImm16Rev builds the reversed register/immediate-16 form
// used by non-commutative ops when the immediate is the left operand:
// Result = op(imm16, A).
func ArithBinaryImm16Rev(op Opcode, result Reg, imm16 int16, rhs Reg) Instruction {
	return Instruction{Op: op, Result: result, A: rhs, B: Reg(imm16)}
}

// Imm16 reads the 16-bit immediate folded into B by ArithBinaryImm16 /
// ArithBinaryImm16Rev.
func (i Instruction) Imm16() int16 {
	return int16(i.B)
}
