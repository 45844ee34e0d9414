package executor

import (
	"github.com/orsinium-forks/wasmi/internal/engine/regmach/ir"
	"github.com/orsinium-forks/wasmi/internal/engine/regmach/simd"
	"github.com/orsinium-forks/wasmi/internal/wasmstore"
)

// trySimd handles every SIMD opcode: the v128 load/store family, the
// unary/binary lane-ops, extract-lane, shift-by-immediate, shuffle, and
// bitselect. It owns its own instruction-pointer advancement since
// shuffle/bitselect span two slots while everything else is one.
func (e *Executor) trySimd(instr ir.Instruction) (handled bool, t *Trap) {
	switch instr.Op {

	case ir.OpV128Load, ir.OpV128LoadOffset16, ir.OpV128LoadAt:
		kind := v128Kind(instr.Op)
		mem, addr, slots := e.loadAddr(instr, kind)
		v, tr := loadV128(mem, addr)
		if tr != nil {
			return true, tr
		}
		e.setV128(instr.Result, v)
		e.ip += ir.InstrIdx(slots)
		return true, nil

	case ir.OpV128Store, ir.OpV128StoreOffset16, ir.OpV128StoreAt:
		kind := v128Kind(instr.Op)
		mem, addr, slots := e.storeAddr(instr, kind)
		value := e.storeValueV128(instr, kind)
		if tr := storeV128(mem, addr, value); tr != nil {
			return true, tr
		}
		e.ip += ir.InstrIdx(slots)
		return true, nil

	case ir.OpI8x16Shuffle:
		selectorReg := e.param().AsParamRegister().Reg
		lhs, rhs := e.getV128(instr.A), e.getV128(instr.B)
		selector := e.getV128(selectorReg).Bytes()
		e.setV128(instr.Result, simd.I8x16Shuffle(lhs, rhs, selector))
		e.ip += 2
		return true, nil

	case ir.OpV128Bitselect:
		thirdReg := e.param().AsParamRegister().Reg
		a, b := e.getV128(instr.A), e.getV128(instr.B)
		sel := e.getV128(thirdReg)
		e.setV128(instr.Result, simd.V128Bitselect(a, b, sel))
		e.ip += 2
		return true, nil
	}

	if fn, ok := simdUnary[instr.Op]; ok {
		e.setV128(instr.Result, fn(e.getV128(instr.A)))
		e.ip++
		return true, nil
	}
	if fn, ok := simdBinary[instr.Op]; ok {
		e.setV128(instr.Result, fn(e.getV128(instr.A), e.getV128(instr.B)))
		e.ip++
		return true, nil
	}
	if fn, ok := simdExtractLane[instr.Op]; ok {
		e.set(instr.Result, fn(e.getV128(instr.A), instr.Lane))
		e.ip++
		return true, nil
	}
	if fn, ok := simdShift[instr.Op]; ok {
		e.setV128(instr.Result, fn(e.getV128(instr.A), instr.Imm32))
		e.ip++
		return true, nil
	}
	return false, nil
}

func v128Kind(op ir.Opcode) memAddrKind {
	switch op {
	case ir.OpV128LoadOffset16, ir.OpV128StoreOffset16:
		return memOffset16
	case ir.OpV128LoadAt, ir.OpV128StoreAt:
		return memAt
	default:
		return memGeneric
	}
}

func loadV128(mem *wasmstore.Memory, addr uint64) (ir.V128, *Trap) {
	data := mem.DataMut()
	if addr+16 > uint64(len(data)) {
		return ir.V128{}, trap(MemoryOutOfBounds)
	}
	var b [16]byte
	copy(b[:], data[addr:addr+16])
	return ir.V128FromBytes(b), nil
}

func storeV128(mem *wasmstore.Memory, addr uint64, v ir.V128) *Trap {
	data := mem.DataMut()
	if addr+16 > uint64(len(data)) {
		return trap(MemoryOutOfBounds)
	}
	b := v.Bytes()
	copy(data[addr:addr+16], b[:])
	return nil
}

var simdUnary = map[ir.Opcode]func(ir.V128) ir.V128{
	ir.OpI8x16Neg: simd.I8x16Neg,
	ir.OpI16x8Neg: simd.I16x8Neg,
	ir.OpI32x4Neg: simd.I32x4Neg,
	ir.OpI64x2Neg: simd.I64x2Neg,
	ir.OpF32x4Neg: simd.F32x4Neg,
	ir.OpF64x2Neg: simd.F64x2Neg,

	ir.OpI8x16Abs: simd.I8x16Abs,
	ir.OpI16x8Abs: simd.I16x8Abs,
	ir.OpI32x4Abs: simd.I32x4Abs,
	ir.OpI64x2Abs: simd.I64x2Abs,
	ir.OpF32x4Abs: simd.F32x4Abs,
	ir.OpF64x2Abs: simd.F64x2Abs,

	ir.OpV128Not: simd.V128Not,
}

var simdBinary = map[ir.Opcode]func(ir.V128, ir.V128) ir.V128{
	ir.OpI8x16Add: simd.I8x16Add,
	ir.OpI16x8Add: simd.I16x8Add,
	ir.OpI32x4Add: simd.I32x4Add,
	ir.OpI64x2Add: simd.I64x2Add,
	ir.OpF32x4Add: simd.F32x4Add,
	ir.OpF64x2Add: simd.F64x2Add,

	ir.OpI8x16Sub: simd.I8x16Sub,
	ir.OpI16x8Sub: simd.I16x8Sub,
	ir.OpI32x4Sub: simd.I32x4Sub,
	ir.OpI64x2Sub: simd.I64x2Sub,
	ir.OpF32x4Sub: simd.F32x4Sub,
	ir.OpF64x2Sub: simd.F64x2Sub,

	ir.OpI32x4Mul: simd.I32x4Mul,
	ir.OpF32x4Mul: simd.F32x4Mul,
	ir.OpF64x2Mul: simd.F64x2Mul,

	ir.OpF32x4Min: simd.F32x4Min,
	ir.OpF32x4Max: simd.F32x4Max,
	ir.OpF64x2Min: simd.F64x2Min,
	ir.OpF64x2Max: simd.F64x2Max,

	ir.OpV128And: simd.V128And,
	ir.OpV128Or:  simd.V128Or,
	ir.OpV128Xor: simd.V128Xor,
}

var simdExtractLane = map[ir.Opcode]func(ir.V128, uint8) ir.UntypedVal{
	ir.OpI8x16ExtractLaneS: func(v ir.V128, l uint8) ir.UntypedVal { return ir.FromI32(simd.I8x16ExtractLaneS(v, l)) },
	ir.OpI8x16ExtractLaneU: func(v ir.V128, l uint8) ir.UntypedVal { return ir.FromI32(simd.I8x16ExtractLaneU(v, l)) },
	ir.OpI16x8ExtractLaneS: func(v ir.V128, l uint8) ir.UntypedVal { return ir.FromI32(simd.I16x8ExtractLaneS(v, l)) },
	ir.OpI16x8ExtractLaneU: func(v ir.V128, l uint8) ir.UntypedVal { return ir.FromI32(simd.I16x8ExtractLaneU(v, l)) },
	ir.OpI32x4ExtractLane:  func(v ir.V128, l uint8) ir.UntypedVal { return ir.FromI32(simd.I32x4ExtractLane(v, l)) },
	ir.OpI64x2ExtractLane:  func(v ir.V128, l uint8) ir.UntypedVal { return ir.FromI64(simd.I64x2ExtractLane(v, l)) },
	ir.OpF32x4ExtractLane:  func(v ir.V128, l uint8) ir.UntypedVal { return ir.FromF32(simd.F32x4ExtractLane(v, l)) },
	ir.OpF64x2ExtractLane:  func(v ir.V128, l uint8) ir.UntypedVal { return ir.FromF64(simd.F64x2ExtractLane(v, l)) },
}

var simdShift = map[ir.Opcode]func(ir.V128, uint32) ir.V128{
	ir.OpI8x16ShlByImm:   simd.I8x16ShlByImm,
	ir.OpI16x8ShlByImm:   simd.I16x8ShlByImm,
	ir.OpI32x4ShlByImm:   simd.I32x4ShlByImm,
	ir.OpI64x2ShlByImm:   simd.I64x2ShlByImm,
	ir.OpI8x16ShrSByImm:  simd.I8x16ShrSByImm,
	ir.OpI16x8ShrSByImm:  simd.I16x8ShrSByImm,
	ir.OpI32x4ShrSByImm:  simd.I32x4ShrSByImm,
	ir.OpI64x2ShrSByImm:  simd.I64x2ShrSByImm,
	ir.OpI8x16ShrUByImm:  simd.I8x16ShrUByImm,
	ir.OpI16x8ShrUByImm:  simd.I16x8ShrUByImm,
	ir.OpI32x4ShrUByImm:  simd.I32x4ShrUByImm,
	ir.OpI64x2ShrUByImm:  simd.I64x2ShrUByImm,
}
