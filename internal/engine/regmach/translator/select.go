package translator

import "github.com/orsinium-forks/wasmi/internal/engine/regmach/ir"

// translateSelect lowers Wasm's select/typed-select into the narrowest
// opcode the two arms allow, trying each family in order from cheapest
// to most general:
//
//  1. select(a, a, _) -> a: the condition is never even materialized.
//  2. both arms constant and representable in the Imm32 encoding for ty
//     -> the *Imm32 family (two instruction slots, zero runtime
//     register traffic beyond the condition).
//  3. the true arm an i32/f32 constant -> SelectRev (true arm inline,
//     false arm in the trailing register param).
//  4. general register/register form -> plain Select, routing any
//     constant arm through the constant pool "for free" (it costs a
//     pool slot, not an instruction).
func (t *Translator) translateSelect(ty ValType) {
	cond := t.pop()
	rhs := t.pop() // the "false" arm
	lhs := t.pop() // the "true" arm

	if sameOperand(lhs, rhs) {
		t.push(lhs)
		return
	}

	condReg := t.materialize(cond)

	if lhs.kind == opConst && rhs.kind == opConst {
		if lhsImm, lok := fitsSelectImm32(lhs, ty); lok {
			if rhsImm, rok := fitsSelectImm32(rhs, ty); rok {
				dst := t.allocTemp()
				t.emit(selectImm32Ctor(ty)(dst, condReg, lhsImm))
				t.emit(ir.NewParamImm32(rhsImm))
				t.push(regOperand(dst))
				return
			}
		}
	}

	if lhs.kind == opConst && (ty == I32 || ty == F32) {
		if lhsImm, ok := fitsSelectImm32(lhs, ty); ok {
			dst := t.allocTemp()
			t.emit(ir.NewSelectRev(dst, condReg, lhsImm))
			t.emit(ir.NewParamRegister(t.regOf(rhs)))
			t.push(regOperand(dst))
			return
		}
	}

	dst := t.allocTemp()
	t.emit(ir.NewSelect(dst, condReg, t.regOf(lhs)))
	t.emit(ir.NewParamRegister(t.regOf(rhs)))
	t.push(regOperand(dst))
}

func sameOperand(a, b operand) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case opReg:
		return a.reg == b.reg
	case opConst:
		return a.bits == b.bits
	default:
		return false
	}
}

// fitsSelectImm32 reports whether a constant operand can ride in a
// select's inline Imm32 slot for the given type: I32/F32 always fit
// (they are already 32 bits); I64/F64 fit only when the value
// round-trips through the narrower encoding, matching
// NewReturnI64Imm32/NewReturnF64Imm32's documented contract.
func fitsSelectImm32(o operand, ty ValType) (uint32, bool) {
	switch ty {
	case I32, F32:
		return uint32(o.bits), true
	case I64:
		v := o.i64()
		if v != int64(int32(v)) {
			return 0, false
		}
		return uint32(int32(v)), true
	case F64:
		f := ir.FromU64(o.bits).F64()
		f32 := float32(f)
		if float64(f32) != f {
			return 0, false
		}
		return ir.FromF32(f32).U32(), true
	}
	panic("translator: unreachable value type")
}

func selectImm32Ctor(ty ValType) func(result, cond ir.Reg, lhsImm32 uint32) ir.Instruction {
	switch ty {
	case I64:
		return ir.NewSelectI64Imm32
	case F64:
		return ir.NewSelectF64Imm32
	default:
		return ir.NewSelectImm32
	}
}
