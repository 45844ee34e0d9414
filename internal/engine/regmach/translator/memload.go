package translator

import "github.com/orsinium-forks/wasmi/internal/engine/regmach/ir"

// translateLoad picks the narrowest of the three addressing forms
// spec.md §4.2 names: an absolute baked-in address when the pointer is
// itself a compile-time constant (rare, but cheap to detect since
// operand already tracks constness for free), an inline 16-bit offset
// against the default memory for everything else whose offset fits,
// and the general 64-bit-offset form as the catch-all.
func (t *Translator) translateLoad(op StackOp) {
	ptr := t.pop()
	dst := t.allocTemp()

	if ptr.kind == opConst {
		if addr, ok := addAddr32(ptr.u32(), op.Offset); ok {
			t.emit(ir.NewLoadAt(loadOpcode(op.Type, op.Width), dst, addr, op.Mem))
			t.push(regOperand(dst))
			t.chargeFuel(1)
			return
		}
	}

	ptrReg := t.regOf(ptr)
	if op.Mem == 0 {
		if off16, err := ir.BranchOffset16FromBranchOffset(ir.BranchOffsetFromI32(int32(op.Offset))); err == nil {
			t.emit(ir.NewLoadOffset16(loadOpcode(op.Type, op.Width), dst, ptrReg, off16))
			t.push(regOperand(dst))
			t.chargeFuel(1)
			return
		}
	}

	lo, hi := ir.SplitOffset64(op.Offset)
	t.emit(ir.NewLoadHead(loadOpcode(op.Type, op.Width), dst, ptrReg, lo, op.Mem))
	t.emit(ir.NewLoadParam(hi))
	t.push(regOperand(dst))
	t.chargeFuel(1)
}

func (t *Translator) translateStore(op StackOp) {
	value := t.pop()
	ptr := t.pop()

	if ptr.kind == opConst {
		if addr, ok := addAddr32(ptr.u32(), op.Offset); ok {
			if value.kind == opConst {
				if v, ok := asImm16Bits(value, op.Width); ok {
					t.emit(ir.NewStoreAtImm(storeOpcode(op.Type, op.Width, true), addr, v, op.Mem))
					t.chargeFuel(1)
					return
				}
			}
			t.emit(ir.NewStoreAt(storeOpcode(op.Type, op.Width, false), addr, t.regOf(value), op.Mem))
			t.chargeFuel(1)
			return
		}
	}

	ptrReg := t.regOf(ptr)
	if op.Mem == 0 {
		if off16, err := ir.BranchOffset16FromBranchOffset(ir.BranchOffsetFromI32(int32(op.Offset))); err == nil {
			if value.kind == opConst {
				if v, ok := asImm16Bits(value, op.Width); ok {
					t.emit(ir.NewStoreOffset16Imm(storeOpcode(op.Type, op.Width, true), ptrReg, off16, v))
					t.chargeFuel(1)
					return
				}
			}
			t.emit(ir.NewStoreOffset16(storeOpcode(op.Type, op.Width, false), ptrReg, off16, t.regOf(value)))
			t.chargeFuel(1)
			return
		}
	}

	lo, hi := ir.SplitOffset64(op.Offset)
	valueReg := t.regOf(value)
	t.emit(ir.NewStoreHead(storeOpcode(op.Type, op.Width, false), ptrReg, lo, op.Mem))
	t.emit(ir.NewStoreParam(valueReg, hi))
	t.chargeFuel(1)
}

func addAddr32(base uint32, offset uint64) (uint32, bool) {
	addr := uint64(base) + offset
	if addr > uint64(^uint32(0)) {
		return 0, false
	}
	return uint32(addr), true
}

func asImm16Bits(o operand, width MemWidth) (int16, bool) {
	switch width {
	case Width8S, Width8U:
		v := int64(int8(o.bits))
		if !fits16(v) {
			return 0, false
		}
		return int16(v), true
	case Width16S, Width16U:
		v := int64(int16(o.bits))
		return int16(v), true
	default:
		// 32/64-bit stores only have an Imm16 form for the i64.store32
		// width (OpI64Store32Imm16) plus the width-agnostic Store32/64Imm16
		// used for f32/f64 bit patterns; both still need the stored value
		// itself to fit 16 bits, same fits16 check as the arithmetic path.
		v := int64(o.i32())
		if width == Width64 {
			v = o.i64()
		}
		if !fits16(v) {
			return 0, false
		}
		return int16(v), true
	}
}

// loadOpcode picks the width/signedness/result-type variant: a
// sub-32-bit width needs ty to choose between the i32 and i64 extending
// forms (i32.load8_s vs. i64.load8_s read the same bytes but extend
// into registers of different width).
func loadOpcode(ty ValType, w MemWidth) ir.Opcode {
	switch w {
	case Width32:
		return ir.OpLoad32 // reinterpreted as i32 or f32 by the caller, per its doc comment
	case Width64:
		return ir.OpLoad64 // reinterpreted as i64 or f64
	case Width8S:
		if ty == I64 {
			return ir.OpI64Load8S
		}
		return ir.OpI32Load8S
	case Width8U:
		if ty == I64 {
			return ir.OpI64Load8U
		}
		return ir.OpI32Load8U
	case Width16S:
		if ty == I64 {
			return ir.OpI64Load16S
		}
		return ir.OpI32Load16S
	case Width16U:
		if ty == I64 {
			return ir.OpI64Load16U
		}
		return ir.OpI32Load16U
	case Width32S:
		return ir.OpI64Load32S
	case Width32U:
		return ir.OpI64Load32U
	}
	panic("translator: unhandled load width")
}

func storeOpcode(ty ValType, w MemWidth, imm bool) ir.Opcode {
	switch w {
	case Width32:
		if imm {
			return ir.OpStore32Imm16
		}
		return ir.OpStore32
	case Width64:
		if imm {
			return ir.OpStore64Imm16
		}
		return ir.OpStore64
	case Width8S, Width8U:
		if ty == I64 {
			if imm {
				return ir.OpI64Store8Imm
			}
			return ir.OpI64Store8
		}
		if imm {
			return ir.OpI32Store8Imm
		}
		return ir.OpI32Store8
	case Width16S, Width16U:
		if ty == I64 {
			if imm {
				return ir.OpI64Store16Imm
			}
			return ir.OpI64Store16
		}
		if imm {
			return ir.OpI32Store16Imm
		}
		return ir.OpI32Store16
	case Width32S, Width32U:
		if imm {
			return ir.OpI64Store32Imm16
		}
		return ir.OpI64Store32
	}
	panic("translator: unhandled store width")
}
