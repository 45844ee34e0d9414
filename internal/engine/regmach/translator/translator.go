package translator

import "github.com/orsinium-forks/wasmi/internal/engine/regmach/ir"

// Translator turns a []StackOp sequence into a finalized instruction
// stream plus the constant pool it references, following wazero's own
// frontend/lower.go shape: a single forward pass over the source
// sequence maintaining an explicit operand-provenance stack, emitting
// into a flat instruction buffer as it goes rather than building and
// then lowering an intermediate tree.
type Translator struct {
	// locals holds the register assigned to each local (params first,
	// then declared locals), fixed for the lifetime of one function.
	locals []ir.Reg
	// nextTemp is the next unused frame register beyond the locals.
	nextTemp ir.Reg

	constPool  []ir.UntypedVal
	constIndex map[uint64]ir.Reg

	code  []ir.Instruction
	stack []operand

	blocks []blockCtx

	// blockFuelSlot indexes the OpConsumeFuel code currently accumulating
	// the enclosing basic block's static cost; -1 before the first block
	// has been opened.
	blockFuelSlot int
}

// Result is everything a translated function needs to build an
// executor.Executor: the finalized code plus the two constant-pool
// arrays and the frame sizes to allocate.
type Result struct {
	Code          []ir.Instruction
	ConstPool     []ir.UntypedVal
	ConstPoolV128 []ir.V128 // always empty: StackOp has no v128 surface (spec.md §4.3)
	FrameSize     int
}

// NewTranslator starts a translation with numLocals registers (params
// followed by declared locals) pre-assigned to the bottom of the frame.
func NewTranslator(numLocals int) *Translator {
	locals := make([]ir.Reg, numLocals)
	for i := range locals {
		locals[i] = ir.Reg(i)
	}
	t := &Translator{
		locals:        locals,
		nextTemp:      ir.Reg(numLocals),
		constIndex:    make(map[uint64]ir.Reg),
		blockFuelSlot: -1,
	}
	t.openBlockFuel()
	return t
}

func (t *Translator) allocTemp() ir.Reg {
	r := t.nextTemp
	t.nextTemp++
	return r
}

func (t *Translator) emit(i ir.Instruction) ir.InstrIdx {
	idx := ir.InstrIdx(len(t.code))
	t.code = append(t.code, i)
	return idx
}

// openBlockFuel places a fresh OpConsumeFuel at the current code
// position and starts accumulating cost into it. Every Block/Loop entry
// (including the implicit function-entry block) starts a new one, since
// fuel is charged once per block regardless of which branch inside it
// is taken.
func (t *Translator) openBlockFuel() {
	t.blockFuelSlot = int(t.emit(ir.NewConsumeFuel(0)))
}

func (t *Translator) chargeFuel(cost uint32) {
	instr := &t.code[t.blockFuelSlot]
	instr.Imm32 += cost
}

// Translate runs ops through the translator and returns the finalized
// function. Translate is single-use: build a new *Translator per
// function.
func Translate(numLocals int, ops []StackOp) (Result, error) {
	t := NewTranslator(numLocals)
	for _, op := range ops {
		if err := t.step(op); err != nil {
			return Result{}, err
		}
	}
	return Result{
		Code:      t.code,
		ConstPool: t.constPool,
		FrameSize: int(t.nextTemp),
	}, nil
}

func (t *Translator) step(op StackOp) error {
	switch op.Kind {
	case OpConst:
		t.push(constOperand(zeroExtendConst(op.Type, op.ConstBits)))
		t.chargeFuel(1)
		return nil

	case OpLocalGet:
		t.push(regOperand(t.locals[op.LocalIdx]))
		t.chargeFuel(1)
		return nil

	case OpLocalSet, OpLocalTee:
		v := t.pop()
		dst := t.locals[op.LocalIdx]
		t.emit(ir.NewCopy(dst, t.materialize(v)))
		if op.Kind == OpLocalTee {
			t.push(regOperand(dst))
		}
		t.chargeFuel(1)
		return nil

	case OpBinary:
		t.translateBinary(op.Bin, op.Type)
		return nil

	case OpCompare:
		t.translateCompare(op.Cmp, op.Type)
		return nil

	case OpSelect:
		t.translateSelect(op.Type)
		return nil

	case OpBlock:
		t.pushBlock(blockKindBlock)
		return nil

	case OpLoop:
		t.pushBlock(blockKindLoop)
		return nil

	case OpEnd:
		return t.endBlock()

	case OpBr:
		return t.translateBr(op.Depth)

	case OpBrIf:
		return t.translateBrIf(op.Depth)

	case OpLoad:
		t.translateLoad(op)
		return nil

	case OpStore:
		t.translateStore(op)
		return nil

	case OpMemorySize:
		dst := t.allocTemp()
		t.emit(ir.NewMemorySize(dst, op.Mem))
		t.push(regOperand(dst))
		t.chargeFuel(1)
		return nil

	case OpMemoryGrow:
		delta := t.materialize(t.pop())
		dst := t.allocTemp()
		t.emit(ir.NewMemoryGrow(dst, delta, op.Mem))
		t.push(regOperand(dst))
		t.chargeFuel(1)
		return nil

	case OpGlobalGet:
		dst := t.allocTemp()
		t.emit(ir.NewGlobalGet(dst, op.GlobalIdx))
		t.push(regOperand(dst))
		t.chargeFuel(1)
		return nil

	case OpGlobalSet:
		v := t.materialize(t.pop())
		t.emit(ir.NewGlobalSet(v, op.GlobalIdx))
		t.chargeFuel(1)
		return nil

	case OpReturn:
		t.emit(ir.NewReturn())
		return nil

	case OpReturnValue:
		t.translateReturnValue(op.Type)
		return nil
	}
	panic("translator: unhandled StackOp kind")
}

// translateReturnValue picks the narrowest return encoding for ty,
// matching the three *Imm32 return variants' documented contracts
// (ir/instruction.go): I32/F32 constants always fit return_imm32 as-is;
// I64/F64 constants only fit their narrower forms when the value
// round-trips through it (same check translateSelect's
// fitsSelectImm32 uses for the select family), otherwise the constant
// is materialized into a register and returned via return_reg.
func (t *Translator) translateReturnValue(ty ValType) {
	v := t.pop()
	if v.kind == opConst {
		switch ty {
		case I32, F32:
			t.emit(ir.NewReturnImm32(v.u32()))
			return
		case I64:
			if imm, ok := fitsSelectImm32(v, I64); ok {
				t.emit(ir.NewReturnI64Imm32(int32(imm)))
				return
			}
		case F64:
			if imm, ok := fitsSelectImm32(v, F64); ok {
				t.emit(ir.NewReturnF64Imm32(imm))
				return
			}
		}
	}
	t.emit(ir.NewReturnReg(t.materialize(v)))
}

func zeroExtendConst(ty ValType, bits uint64) uint64 {
	switch ty {
	case I32, F32:
		return uint64(uint32(bits))
	default:
		return bits
	}
}
