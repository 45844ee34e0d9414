package translator

import (
	"math"

	"github.com/orsinium-forks/wasmi/internal/engine/regmach/ir"
)

func (t *Translator) translateBinary(op BinOp, ty ValType) {
	rhs := t.pop()
	lhs := t.pop()

	if v, ok := evalConstBinary(op, ty, lhs, rhs); ok {
		t.push(constOperand(v))
		t.chargeFuel(1)
		return
	}
	if v, ok := identity(op, ty, lhs, rhs); ok {
		t.push(v)
		t.chargeFuel(1)
		return
	}

	if isCommutative(op) && lhs.kind == opConst && rhs.kind != opConst {
		lhs, rhs = rhs, lhs
	}

	dst := t.allocTemp()
	instr, ok := t.tryImm16(op, ty, dst, lhs, rhs)
	if !ok {
		instr = ir.ArithBinary(plainOpcode(op, ty), dst, t.regOf(lhs), t.regOf(rhs))
	}
	t.emit(instr)
	t.push(regOperand(dst))
	t.chargeFuel(1)
}

func (t *Translator) translateCompare(op CmpOp, ty ValType) {
	rhs := t.pop()
	lhs := t.pop()
	cmp := comparatorFor(op, ty)
	// Copy into heap-escaping locals: operand embeds these by pointer so
	// BrIf can fuse the comparator directly without re-deriving lhs/rhs
	// from the emitted-instruction stream.
	l, r := lhs, rhs
	t.push(operand{kind: opPendingCmp, cmp: cmp, cmpLHS: &l, cmpRHS: &r})
	t.chargeFuel(1)
}

func isCommutative(op BinOp) bool {
	switch op {
	case Add, Mul, And, Or, Xor, Min, Max:
		return true
	default:
		return false
	}
}

// evalConstBinary fully folds a binary op at translation time when both
// operands are constants and the op cannot trap. DivS/DivU/RemS/RemU are
// deliberately excluded even when both sides are constant: folding them
// would pre-empt the divide-by-zero / INT_MIN-by-(-1) trap the executor
// must still raise at the instruction's original program point.
func evalConstBinary(op BinOp, ty ValType, lhs, rhs operand) (uint64, bool) {
	if lhs.kind != opConst || rhs.kind != opConst {
		return 0, false
	}
	switch op {
	case DivS, DivU, RemS, RemU:
		if ty == I32 || ty == I64 {
			return 0, false
		}
	}
	switch ty {
	case I32:
		a, b := lhs.i32(), rhs.i32()
		v, ok := evalInt32(op, a, b)
		return uint64(uint32(v)), ok
	case I64:
		a, b := lhs.i64(), rhs.i64()
		v, ok := evalInt64(op, a, b)
		return uint64(v), ok
	case F32:
		a, b := ir.FromU32(lhs.u32()).F32(), ir.FromU32(rhs.u32()).F32()
		v, ok := evalFloat32(op, a, b)
		return uint64(ir.FromF32(v)), ok
	case F64:
		a, b := ir.FromU64(lhs.bits).F64(), ir.FromU64(rhs.bits).F64()
		v, ok := evalFloat64(op, a, b)
		return uint64(ir.FromF64(v)), ok
	}
	return 0, false
}

func evalInt32(op BinOp, a, b int32) (int32, bool) {
	switch op {
	case Add:
		return a + b, true
	case Sub:
		return a - b, true
	case Mul:
		return a * b, true
	case And:
		return a & b, true
	case Or:
		return a | b, true
	case Xor:
		return a ^ b, true
	case Shl:
		return a << (uint32(b) & 31), true
	case ShrS:
		return a >> (uint32(b) & 31), true
	case ShrU:
		return int32(uint32(a) >> (uint32(b) & 31)), true
	case Rotl:
		n := uint32(b) & 31
		u := uint32(a)
		return int32(u<<n | u>>(32-n)), true
	case Rotr:
		n := uint32(b) & 31
		u := uint32(a)
		return int32(u>>n | u<<(32-n)), true
	}
	return 0, false
}

func evalInt64(op BinOp, a, b int64) (int64, bool) {
	switch op {
	case Add:
		return a + b, true
	case Sub:
		return a - b, true
	case Mul:
		return a * b, true
	case And:
		return a & b, true
	case Or:
		return a | b, true
	case Xor:
		return a ^ b, true
	case Shl:
		return a << (uint64(b) & 63), true
	case ShrS:
		return a >> (uint64(b) & 63), true
	case ShrU:
		return int64(uint64(a) >> (uint64(b) & 63)), true
	case Rotl:
		n := uint64(b) & 63
		u := uint64(a)
		return int64(u<<n | u>>(64-n)), true
	case Rotr:
		n := uint64(b) & 63
		u := uint64(a)
		return int64(u>>n | u<<(64-n)), true
	}
	return 0, false
}

func evalFloat32(op BinOp, a, b float32) (float32, bool) {
	switch op {
	case Add:
		return a + b, true
	case Sub:
		return a - b, true
	case Mul:
		return a * b, true
	case Div:
		return a / b, true
	case Min:
		return f32MinMax(a, b, true), true
	case Max:
		return f32MinMax(a, b, false), true
	case Copysign:
		return copysign32(a, b), true
	}
	return 0, false
}

func evalFloat64(op BinOp, a, b float64) (float64, bool) {
	switch op {
	case Add:
		return a + b, true
	case Sub:
		return a - b, true
	case Mul:
		return a * b, true
	case Div:
		return a / b, true
	case Min:
		return f64MinMax(a, b, true), true
	case Max:
		return f64MinMax(a, b, false), true
	case Copysign:
		return copysign64(a, b), true
	}
	return 0, false
}

// identity applies the algebraic rewrites spec.md names that the plain
// evalConstBinary fold doesn't cover (only one side needs to be
// constant): x*0->0, x*1->x, x+0->x, min(x,+inf)->x, max(x,-inf)->x,
// and min/max(x, NaN)->NaN (NaN propagates regardless of which operand
// carries it, so this fires even when x is not itself constant).
func identity(op BinOp, ty ValType, lhs, rhs operand) (operand, bool) {
	switch op {
	case Mul:
		if lhs.isZero(ty) || rhs.isZero(ty) {
			return constOperand(zeroBits(ty)), true
		}
		if lhs.isOne(ty) {
			return rhs, true
		}
		if rhs.isOne(ty) {
			return lhs, true
		}
	case Add:
		if lhs.isZero(ty) {
			return rhs, true
		}
		if rhs.isZero(ty) {
			return lhs, true
		}
	case Min, Max:
		if isNaNConst(lhs, ty) || isNaNConst(rhs, ty) {
			return constOperand(canonicalNaNBits(ty)), true
		}
		if op == Min {
			if isPosInf(rhs, ty) {
				return lhs, true
			}
			if isPosInf(lhs, ty) {
				return rhs, true
			}
		} else {
			if isNegInf(rhs, ty) {
				return lhs, true
			}
			if isNegInf(lhs, ty) {
				return rhs, true
			}
		}
	}
	return operand{}, false
}

// zeroBits is 0 regardless of ty: i32/i64 zero and the IEEE-754 +0.0 bit
// pattern for f32/f64 are all the all-zero word.
func zeroBits(ValType) uint64 { return 0 }

func isPosInf(o operand, ty ValType) bool { return isInfSign(o, ty, 1) }
func isNegInf(o operand, ty ValType) bool { return isInfSign(o, ty, -1) }

func isInfSign(o operand, ty ValType, sign int) bool {
	if o.kind != opConst {
		return false
	}
	switch ty {
	case F32:
		return math.IsInf(float64(ir.FromU32(o.u32()).F32()), sign)
	case F64:
		return math.IsInf(ir.FromU64(o.bits).F64(), sign)
	}
	return false
}

// isNaNConst reports whether o is a constant NaN of type ty.
func isNaNConst(o operand, ty ValType) bool {
	if o.kind != opConst {
		return false
	}
	switch ty {
	case F32:
		return math.IsNaN(float64(ir.FromU32(o.u32()).F32()))
	case F64:
		return math.IsNaN(ir.FromU64(o.bits).F64())
	}
	return false
}

// canonicalNaNBits returns a NaN bit pattern for ty — min/max(x, NaN)
// propagates NaN regardless of which operand carries it or the NaN's
// original payload bits (spec.md §"Numeric semantics").
func canonicalNaNBits(ty ValType) uint64 {
	if ty == F32 {
		return uint64(ir.FromF32(float32(math.NaN())).U32())
	}
	return ir.FromF64(math.NaN()).U64()
}

// tryImm16 folds a constant operand into a 16-bit inline immediate when
// the opcode family supports one at that operand position. Returns
// false for anything without a dedicated Imm16 opcode (Rotl/Rotr,
// Div*/Rem*, and every float op), which falls through to the plain
// Reg/Reg form with the constant routed through the constant pool.
func (t *Translator) tryImm16(op BinOp, ty ValType, dst ir.Reg, lhs, rhs operand) (ir.Instruction, bool) {
	if ty != I32 && ty != I64 {
		return ir.Instruction{}, false
	}
	switch op {
	case Add:
		if rhs.kind == opConst {
			if v, ok := asImm16(rhs, ty); ok {
				return ir.ArithBinaryImm16(addImm16Op(ty), dst, t.regOf(lhs), v), true
			}
		}
	case Sub:
		if rhs.kind == opConst {
			if v, ok := asImm16Negated(rhs, ty); ok {
				return ir.ArithBinaryImm16(addImm16Op(ty), dst, t.regOf(lhs), v), true
			}
		}
		if lhs.kind == opConst {
			if v, ok := asImm16(lhs, ty); ok {
				return ir.ArithBinaryImm16Rev(subImm16RevOp(ty), dst, v, t.regOf(rhs)), true
			}
		}
	case Mul, And, Or, Xor:
		if rhs.kind == opConst {
			if v, ok := asImm16(rhs, ty); ok {
				return ir.ArithBinaryImm16(commutativeImm16Op(op, ty), dst, t.regOf(lhs), v), true
			}
		}
	case Shl, ShrS, ShrU:
		if rhs.kind == opConst {
			// Shift counts are always masked modulo the operand width by
			// the executor (arith.go), so truncating the count to i16 keeps
			// the low bits, which are all the masked shift uses.
			return ir.ArithBinaryImm16(shiftImm16Op(op, ty), dst, t.regOf(lhs), int16(rhs.u32())), true
		}
	}
	return ir.Instruction{}, false
}

func asImm16(o operand, ty ValType) (int16, bool) {
	var v int64
	if ty == I32 {
		v = int64(o.i32())
	} else {
		v = o.i64()
	}
	if !fits16(v) {
		return 0, false
	}
	return int16(v), true
}

func asImm16Negated(o operand, ty ValType) (int16, bool) {
	var v int64
	if ty == I32 {
		v = int64(o.i32())
	} else {
		v = o.i64()
	}
	neg := -v
	if !fits16(neg) {
		return 0, false
	}
	return int16(neg), true
}

func fits16(v int64) bool { return v >= -32768 && v <= 32767 }

// regOf resolves an operand to a Reg without necessarily emitting an
// instruction: plain registers are returned as-is, constants are routed
// through the (deduplicated) constant pool, and a pending comparison is
// materialized via OpCmp only as a last resort — every direct caller
// that can fuse a comparator into a branch avoids this path entirely.
func (t *Translator) regOf(o operand) ir.Reg {
	switch o.kind {
	case opReg:
		return o.reg
	case opConst:
		return t.constReg(o.bits)
	case opPendingCmp:
		return t.materialize(o)
	}
	panic("translator: unreachable operand kind")
}

func plainOpcode(op BinOp, ty ValType) ir.Opcode {
	switch ty {
	case I32:
		switch op {
		case Add:
			return ir.OpI32Add
		case Sub:
			return ir.OpI32Sub
		case Mul:
			return ir.OpI32Mul
		case DivS:
			return ir.OpI32DivS
		case DivU:
			return ir.OpI32DivU
		case RemS:
			return ir.OpI32RemS
		case RemU:
			return ir.OpI32RemU
		case And:
			return ir.OpI32And
		case Or:
			return ir.OpI32Or
		case Xor:
			return ir.OpI32Xor
		case Shl:
			return ir.OpI32Shl
		case ShrS:
			return ir.OpI32ShrS
		case ShrU:
			return ir.OpI32ShrU
		case Rotl:
			return ir.OpI32Rotl
		case Rotr:
			return ir.OpI32Rotr
		}
	case I64:
		switch op {
		case Add:
			return ir.OpI64Add
		case Sub:
			return ir.OpI64Sub
		case Mul:
			return ir.OpI64Mul
		case DivS:
			return ir.OpI64DivS
		case DivU:
			return ir.OpI64DivU
		case RemS:
			return ir.OpI64RemS
		case RemU:
			return ir.OpI64RemU
		case And:
			return ir.OpI64And
		case Or:
			return ir.OpI64Or
		case Xor:
			return ir.OpI64Xor
		case Shl:
			return ir.OpI64Shl
		case ShrS:
			return ir.OpI64ShrS
		case ShrU:
			return ir.OpI64ShrU
		case Rotl:
			return ir.OpI64Rotl
		case Rotr:
			return ir.OpI64Rotr
		}
	case F32:
		switch op {
		case Add:
			return ir.OpF32Add
		case Sub:
			return ir.OpF32Sub
		case Mul:
			return ir.OpF32Mul
		case Div:
			return ir.OpF32Div
		case Min:
			return ir.OpF32Min
		case Max:
			return ir.OpF32Max
		case Copysign:
			return ir.OpF32Copysign
		}
	case F64:
		switch op {
		case Add:
			return ir.OpF64Add
		case Sub:
			return ir.OpF64Sub
		case Mul:
			return ir.OpF64Mul
		case Div:
			return ir.OpF64Div
		case Min:
			return ir.OpF64Min
		case Max:
			return ir.OpF64Max
		case Copysign:
			return ir.OpF64Copysign
		}
	}
	panic("translator: no plain opcode for this (op, type) pair")
}

func addImm16Op(ty ValType) ir.Opcode {
	if ty == I32 {
		return ir.OpI32AddImm16
	}
	return ir.OpI64AddImm16
}

func subImm16RevOp(ty ValType) ir.Opcode {
	if ty == I32 {
		return ir.OpI32SubImm16Rev
	}
	return ir.OpI64SubImm16Rev
}

func commutativeImm16Op(op BinOp, ty ValType) ir.Opcode {
	if ty == I32 {
		switch op {
		case Mul:
			return ir.OpI32MulImm16
		case And:
			return ir.OpI32AndImm16
		case Or:
			return ir.OpI32OrImm16
		case Xor:
			return ir.OpI32XorImm16
		}
	}
	switch op {
	case Mul:
		return ir.OpI64MulImm16
	case And:
		return ir.OpI64AndImm16
	case Or:
		return ir.OpI64OrImm16
	case Xor:
		return ir.OpI64XorImm16
	}
	panic("translator: no commutative imm16 opcode for this (op, type) pair")
}

func shiftImm16Op(op BinOp, ty ValType) ir.Opcode {
	if ty == I32 {
		switch op {
		case Shl:
			return ir.OpI32ShlImm16
		case ShrS:
			return ir.OpI32ShrSImm16
		case ShrU:
			return ir.OpI32ShrUImm16
		}
	}
	switch op {
	case Shl:
		return ir.OpI64ShlImm16
	case ShrS:
		return ir.OpI64ShrSImm16
	case ShrU:
		return ir.OpI64ShrUImm16
	}
	panic("translator: no shift imm16 opcode for this (op, type) pair")
}

func comparatorFor(op CmpOp, ty ValType) ir.Comparator {
	switch ty {
	case I32:
		switch op {
		case Eq:
			return ir.I32Eq
		case Ne:
			return ir.I32Ne
		case LtS:
			return ir.I32LtS
		case LtU:
			return ir.I32LtU
		case LeS:
			return ir.I32LeS
		case LeU:
			return ir.I32LeU
		case GtS:
			return ir.I32GtS
		case GtU:
			return ir.I32GtU
		case GeS:
			return ir.I32GeS
		case GeU:
			return ir.I32GeU
		case BitAnd:
			return ir.I32And
		case BitOr:
			return ir.I32Or
		case BitXor:
			return ir.I32Xor
		case BitAndEqz:
			return ir.I32AndEqz
		case BitOrEqz:
			return ir.I32OrEqz
		case BitXorEqz:
			return ir.I32XorEqz
		}
	case I64:
		switch op {
		case Eq:
			return ir.I64Eq
		case Ne:
			return ir.I64Ne
		case LtS:
			return ir.I64LtS
		case LtU:
			return ir.I64LtU
		case LeS:
			return ir.I64LeS
		case LeU:
			return ir.I64LeU
		case GtS:
			return ir.I64GtS
		case GtU:
			return ir.I64GtU
		case GeS:
			return ir.I64GeS
		case GeU:
			return ir.I64GeU
		}
	case F32:
		switch op {
		case Eq:
			return ir.F32Eq
		case Ne:
			return ir.F32Ne
		case LtS:
			return ir.F32Lt
		case LeS:
			return ir.F32Le
		case GtS:
			return ir.F32Gt
		case GeS:
			return ir.F32Ge
		}
	case F64:
		switch op {
		case Eq:
			return ir.F64Eq
		case Ne:
			return ir.F64Ne
		case LtS:
			return ir.F64Lt
		case LeS:
			return ir.F64Le
		case GtS:
			return ir.F64Gt
		case GeS:
			return ir.F64Ge
		}
	}
	panic("translator: no comparator for this (op, type) pair")
}
