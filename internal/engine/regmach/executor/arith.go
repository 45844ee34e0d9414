package executor

import (
	"math"
	"math/bits"

	"github.com/orsinium-forks/wasmi/internal/engine/regmach/ir"
)

// tryArith handles every scalar i32/i64/f32/f64 binary opcode. handled
// is false for any opcode it doesn't recognize, letting the caller fall
// through to the next dispatch table. trap is non-nil only for the
// integer division family.
func (e *Executor) tryArith(instr ir.Instruction) (handled bool, t *Trap) {
	switch instr.Op {

	// --- i32 ---------------------------------------------------------

	case ir.OpI32Add:
		e.set(instr.Result, ir.FromI32(e.get(instr.A).I32()+e.get(instr.B).I32()))
	case ir.OpI32AddImm16:
		e.set(instr.Result, ir.FromI32(e.get(instr.A).I32()+int32(instr.Imm16())))
	case ir.OpI32Sub:
		e.set(instr.Result, ir.FromI32(e.get(instr.A).I32()-e.get(instr.B).I32()))
	case ir.OpI32SubImm16Rev:
		e.set(instr.Result, ir.FromI32(int32(instr.Imm16())-e.get(instr.A).I32()))
	case ir.OpI32Mul:
		e.set(instr.Result, ir.FromI32(e.get(instr.A).I32()*e.get(instr.B).I32()))
	case ir.OpI32MulImm16:
		e.set(instr.Result, ir.FromI32(e.get(instr.A).I32()*int32(instr.Imm16())))
	case ir.OpI32DivS:
		lhs, rhs := e.get(instr.A).I32(), e.get(instr.B).I32()
		if rhs == 0 {
			return true, trap(IntegerDivisionByZero)
		}
		if lhs == math.MinInt32 && rhs == -1 {
			return true, trap(IntegerOverflow)
		}
		e.set(instr.Result, ir.FromI32(lhs/rhs))
	case ir.OpI32DivU:
		lhs, rhs := e.get(instr.A).U32(), e.get(instr.B).U32()
		if rhs == 0 {
			return true, trap(IntegerDivisionByZero)
		}
		e.set(instr.Result, ir.FromU32(lhs/rhs))
	case ir.OpI32RemS:
		lhs, rhs := e.get(instr.A).I32(), e.get(instr.B).I32()
		if rhs == 0 {
			return true, trap(IntegerDivisionByZero)
		}
		if lhs == math.MinInt32 && rhs == -1 {
			e.set(instr.Result, ir.FromI32(0))
		} else {
			e.set(instr.Result, ir.FromI32(lhs%rhs))
		}
	case ir.OpI32RemU:
		lhs, rhs := e.get(instr.A).U32(), e.get(instr.B).U32()
		if rhs == 0 {
			return true, trap(IntegerDivisionByZero)
		}
		e.set(instr.Result, ir.FromU32(lhs%rhs))
	case ir.OpI32And:
		e.set(instr.Result, ir.FromU32(e.get(instr.A).U32()&e.get(instr.B).U32()))
	case ir.OpI32AndImm16:
		e.set(instr.Result, ir.FromU32(e.get(instr.A).U32()&uint32(uint16(instr.Imm16()))))
	case ir.OpI32Or:
		e.set(instr.Result, ir.FromU32(e.get(instr.A).U32()|e.get(instr.B).U32()))
	case ir.OpI32OrImm16:
		e.set(instr.Result, ir.FromU32(e.get(instr.A).U32()|uint32(uint16(instr.Imm16()))))
	case ir.OpI32Xor:
		e.set(instr.Result, ir.FromU32(e.get(instr.A).U32()^e.get(instr.B).U32()))
	case ir.OpI32XorImm16:
		e.set(instr.Result, ir.FromU32(e.get(instr.A).U32()^uint32(uint16(instr.Imm16()))))
	case ir.OpI32Shl:
		e.set(instr.Result, ir.FromU32(e.get(instr.A).U32()<<(e.get(instr.B).U32()&31)))
	case ir.OpI32ShlImm16:
		e.set(instr.Result, ir.FromU32(e.get(instr.A).U32()<<(uint32(instr.Imm16())&31)))
	case ir.OpI32ShrS:
		e.set(instr.Result, ir.FromI32(e.get(instr.A).I32()>>(e.get(instr.B).U32()&31)))
	case ir.OpI32ShrSImm16:
		e.set(instr.Result, ir.FromI32(e.get(instr.A).I32()>>(uint32(instr.Imm16())&31)))
	case ir.OpI32ShrU:
		e.set(instr.Result, ir.FromU32(e.get(instr.A).U32()>>(e.get(instr.B).U32()&31)))
	case ir.OpI32ShrUImm16:
		e.set(instr.Result, ir.FromU32(e.get(instr.A).U32()>>(uint32(instr.Imm16())&31)))
	case ir.OpI32Rotl:
		e.set(instr.Result, ir.FromU32(bits.RotateLeft32(e.get(instr.A).U32(), int(e.get(instr.B).U32()&31))))
	case ir.OpI32Rotr:
		e.set(instr.Result, ir.FromU32(bits.RotateLeft32(e.get(instr.A).U32(), -int(e.get(instr.B).U32()&31))))

	// --- i64 ---------------------------------------------------------

	case ir.OpI64Add:
		e.set(instr.Result, ir.FromI64(e.get(instr.A).I64()+e.get(instr.B).I64()))
	case ir.OpI64AddImm16:
		e.set(instr.Result, ir.FromI64(e.get(instr.A).I64()+int64(instr.Imm16())))
	case ir.OpI64Sub:
		e.set(instr.Result, ir.FromI64(e.get(instr.A).I64()-e.get(instr.B).I64()))
	case ir.OpI64SubImm16Rev:
		e.set(instr.Result, ir.FromI64(int64(instr.Imm16())-e.get(instr.A).I64()))
	case ir.OpI64Mul:
		e.set(instr.Result, ir.FromI64(e.get(instr.A).I64()*e.get(instr.B).I64()))
	case ir.OpI64MulImm16:
		e.set(instr.Result, ir.FromI64(e.get(instr.A).I64()*int64(instr.Imm16())))
	case ir.OpI64DivS:
		lhs, rhs := e.get(instr.A).I64(), e.get(instr.B).I64()
		if rhs == 0 {
			return true, trap(IntegerDivisionByZero)
		}
		if lhs == math.MinInt64 && rhs == -1 {
			return true, trap(IntegerOverflow)
		}
		e.set(instr.Result, ir.FromI64(lhs/rhs))
	case ir.OpI64DivU:
		lhs, rhs := e.get(instr.A).U64(), e.get(instr.B).U64()
		if rhs == 0 {
			return true, trap(IntegerDivisionByZero)
		}
		e.set(instr.Result, ir.FromU64(lhs/rhs))
	case ir.OpI64RemS:
		lhs, rhs := e.get(instr.A).I64(), e.get(instr.B).I64()
		if rhs == 0 {
			return true, trap(IntegerDivisionByZero)
		}
		if lhs == math.MinInt64 && rhs == -1 {
			e.set(instr.Result, ir.FromI64(0))
		} else {
			e.set(instr.Result, ir.FromI64(lhs%rhs))
		}
	case ir.OpI64RemU:
		lhs, rhs := e.get(instr.A).U64(), e.get(instr.B).U64()
		if rhs == 0 {
			return true, trap(IntegerDivisionByZero)
		}
		e.set(instr.Result, ir.FromU64(lhs%rhs))
	case ir.OpI64And:
		e.set(instr.Result, ir.FromU64(e.get(instr.A).U64()&e.get(instr.B).U64()))
	case ir.OpI64AndImm16:
		e.set(instr.Result, ir.FromU64(e.get(instr.A).U64()&uint64(uint16(instr.Imm16()))))
	case ir.OpI64Or:
		e.set(instr.Result, ir.FromU64(e.get(instr.A).U64()|e.get(instr.B).U64()))
	case ir.OpI64OrImm16:
		e.set(instr.Result, ir.FromU64(e.get(instr.A).U64()|uint64(uint16(instr.Imm16()))))
	case ir.OpI64Xor:
		e.set(instr.Result, ir.FromU64(e.get(instr.A).U64()^e.get(instr.B).U64()))
	case ir.OpI64XorImm16:
		e.set(instr.Result, ir.FromU64(e.get(instr.A).U64()^uint64(uint16(instr.Imm16()))))
	case ir.OpI64Shl:
		e.set(instr.Result, ir.FromU64(e.get(instr.A).U64()<<(e.get(instr.B).U64()&63)))
	case ir.OpI64ShlImm16:
		e.set(instr.Result, ir.FromU64(e.get(instr.A).U64()<<(uint64(instr.Imm16())&63)))
	case ir.OpI64ShrS:
		e.set(instr.Result, ir.FromI64(e.get(instr.A).I64()>>(e.get(instr.B).U64()&63)))
	case ir.OpI64ShrSImm16:
		e.set(instr.Result, ir.FromI64(e.get(instr.A).I64()>>(uint64(instr.Imm16())&63)))
	case ir.OpI64ShrU:
		e.set(instr.Result, ir.FromU64(e.get(instr.A).U64()>>(e.get(instr.B).U64()&63)))
	case ir.OpI64ShrUImm16:
		e.set(instr.Result, ir.FromU64(e.get(instr.A).U64()>>(uint64(instr.Imm16())&63)))
	case ir.OpI64Rotl:
		e.set(instr.Result, ir.FromU64(bits.RotateLeft64(e.get(instr.A).U64(), int(e.get(instr.B).U64()&63))))
	case ir.OpI64Rotr:
		e.set(instr.Result, ir.FromU64(bits.RotateLeft64(e.get(instr.A).U64(), -int(e.get(instr.B).U64()&63))))

	// --- f32 -----------------------------------------------------------

	case ir.OpF32Add:
		e.set(instr.Result, ir.FromF32(e.get(instr.A).F32()+e.get(instr.B).F32()))
	case ir.OpF32Sub:
		e.set(instr.Result, ir.FromF32(e.get(instr.A).F32()-e.get(instr.B).F32()))
	case ir.OpF32Mul:
		e.set(instr.Result, ir.FromF32(e.get(instr.A).F32()*e.get(instr.B).F32()))
	case ir.OpF32Div:
		e.set(instr.Result, ir.FromF32(e.get(instr.A).F32()/e.get(instr.B).F32()))
	case ir.OpF32Min:
		e.set(instr.Result, ir.FromF32(f32MinMax(e.get(instr.A).F32(), e.get(instr.B).F32(), true)))
	case ir.OpF32Max:
		e.set(instr.Result, ir.FromF32(f32MinMax(e.get(instr.A).F32(), e.get(instr.B).F32(), false)))
	case ir.OpF32Copysign:
		e.set(instr.Result, ir.FromF32(float32(math.Copysign(float64(e.get(instr.A).F32()), float64(e.get(instr.B).F32())))))

	// --- f64 -----------------------------------------------------------

	case ir.OpF64Add:
		e.set(instr.Result, ir.FromF64(e.get(instr.A).F64()+e.get(instr.B).F64()))
	case ir.OpF64Sub:
		e.set(instr.Result, ir.FromF64(e.get(instr.A).F64()-e.get(instr.B).F64()))
	case ir.OpF64Mul:
		e.set(instr.Result, ir.FromF64(e.get(instr.A).F64()*e.get(instr.B).F64()))
	case ir.OpF64Div:
		e.set(instr.Result, ir.FromF64(e.get(instr.A).F64()/e.get(instr.B).F64()))
	case ir.OpF64Min:
		e.set(instr.Result, ir.FromF64(f64MinMax(e.get(instr.A).F64(), e.get(instr.B).F64(), true)))
	case ir.OpF64Max:
		e.set(instr.Result, ir.FromF64(f64MinMax(e.get(instr.A).F64(), e.get(instr.B).F64(), false)))
	case ir.OpF64Copysign:
		e.set(instr.Result, ir.FromF64(math.Copysign(e.get(instr.A).F64(), e.get(instr.B).F64())))

	default:
		return false, nil
	}
	return true, nil
}

// f32MinMax and f64MinMax implement Wasm's NaN-propagating min/max:
// either operand being NaN makes the result NaN, regardless of order —
// matching the rule the simd package applies lane-wise.
func f32MinMax(a, b float32, isMin bool) float32 {
	if math.IsNaN(float64(a)) || math.IsNaN(float64(b)) {
		return float32(math.NaN())
	}
	if isMin {
		return float32(math.Min(float64(a), float64(b)))
	}
	return float32(math.Max(float64(a), float64(b)))
}

func f64MinMax(a, b float64, isMin bool) float64 {
	if math.IsNaN(a) || math.IsNaN(b) {
		return math.NaN()
	}
	if isMin {
		return math.Min(a, b)
	}
	return math.Max(a, b)
}

// evalComparator evaluates cmp over (a, b), shared by OpCmp's
// boolean-producing form and OpBranchCmp/OpBranchCmpFallback's
// branch-fusing form.
func evalComparator(cmp ir.Comparator, a, b ir.UntypedVal) bool {
	switch cmp {
	case ir.I32Eq:
		return a.I32() == b.I32()
	case ir.I32Ne:
		return a.I32() != b.I32()
	case ir.I32LtS:
		return a.I32() < b.I32()
	case ir.I32LtU:
		return a.U32() < b.U32()
	case ir.I32LeS:
		return a.I32() <= b.I32()
	case ir.I32LeU:
		return a.U32() <= b.U32()
	case ir.I32GtS:
		return a.I32() > b.I32()
	case ir.I32GtU:
		return a.U32() > b.U32()
	case ir.I32GeS:
		return a.I32() >= b.I32()
	case ir.I32GeU:
		return a.U32() >= b.U32()
	case ir.I32And:
		return (a.U32() & b.U32()) != 0
	case ir.I32Or:
		return (a.U32() | b.U32()) != 0
	case ir.I32Xor:
		return (a.U32() ^ b.U32()) != 0
	case ir.I32AndEqz:
		return (a.U32() & b.U32()) == 0
	case ir.I32OrEqz:
		return (a.U32() | b.U32()) == 0
	case ir.I32XorEqz:
		return (a.U32() ^ b.U32()) == 0
	case ir.I64Eq:
		return a.I64() == b.I64()
	case ir.I64Ne:
		return a.I64() != b.I64()
	case ir.I64LtS:
		return a.I64() < b.I64()
	case ir.I64LtU:
		return a.U64() < b.U64()
	case ir.I64LeS:
		return a.I64() <= b.I64()
	case ir.I64LeU:
		return a.U64() <= b.U64()
	case ir.I64GtS:
		return a.I64() > b.I64()
	case ir.I64GtU:
		return a.U64() > b.U64()
	case ir.I64GeS:
		return a.I64() >= b.I64()
	case ir.I64GeU:
		return a.U64() >= b.U64()
	case ir.F32Eq:
		return a.F32() == b.F32()
	case ir.F32Ne:
		return a.F32() != b.F32()
	case ir.F32Lt:
		return a.F32() < b.F32()
	case ir.F32Le:
		return a.F32() <= b.F32()
	case ir.F32Gt:
		return a.F32() > b.F32()
	case ir.F32Ge:
		return a.F32() >= b.F32()
	case ir.F64Eq:
		return a.F64() == b.F64()
	case ir.F64Ne:
		return a.F64() != b.F64()
	case ir.F64Lt:
		return a.F64() < b.F64()
	case ir.F64Le:
		return a.F64() <= b.F64()
	case ir.F64Gt:
		return a.F64() > b.F64()
	case ir.F64Ge:
		return a.F64() >= b.F64()
	}
	panic("executor: unknown comparator")
}
