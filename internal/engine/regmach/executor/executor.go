package executor

import (
	"github.com/orsinium-forks/wasmi/internal/engine/regmach/ir"
	"github.com/orsinium-forks/wasmi/internal/wasmstore"
)

// ExecResult is what a function invocation produced on a normal
// (non-trapping) return. Multi-value returns are out of scope: every
// OpReturn* variant carries at most one value.
type ExecResult struct {
	HasValue bool
	Value    ir.UntypedVal
}

// Executor runs a single function's flat instruction stream against a
// register frame, a constant pool, and a borrowed Store.
//
// The frame and constant pool are split into a scalar array
// (ir.UntypedVal) and a parallel vector array (ir.V128) rather than one
// tagged union, the same way the Store keeps Memory/Global apart: a
// register's static type at each read site already tells the executor
// which array to index, so there is nothing to discriminate at
// runtime.
type Executor struct {
	code []ir.Instruction
	ip   ir.InstrIdx

	frame     []ir.UntypedVal
	frameV128 []ir.V128

	constPool     []ir.UntypedVal
	constPoolV128 []ir.V128

	store *wasmstore.Store

	// defaultMem caches store.Memories[0] so the hot store/load path
	// (spec.md §4.4) skips the ResolveMemoryMut index lookup on every
	// access. Unlike original_source, which caches a raw pointer into
	// the backing byte buffer and must re-resolve it after Grow
	// reallocates that buffer, this cache holds the stable
	// *wasmstore.Memory handle: DataMut() fetches the live byte slice
	// fresh on every store/load, so Grow never invalidates this field.
	// It is still re-assigned after OpMemoryGrow for symmetry with the
	// ResolveMemoryMut fallback path, which would otherwise be the only
	// way a later memory.grow (index 0) becomes visible.
	defaultMem *wasmstore.Memory
}

// NewExecutor builds an Executor over a finalized instruction stream.
// frameSize and frameV128Size size the scalar and vector register
// windows; constPool/constPoolV128 are the function's precomputed
// constant-pool slots, indexed by ir.Reg.ConstPoolIndex.
func NewExecutor(code []ir.Instruction, frameSize, frameV128Size int, constPool []ir.UntypedVal, constPoolV128 []ir.V128, store *wasmstore.Store) *Executor {
	e := &Executor{
		code:          code,
		frame:         make([]ir.UntypedVal, frameSize),
		frameV128:     make([]ir.V128, frameV128Size),
		constPool:     constPool,
		constPoolV128: constPoolV128,
		store:         store,
	}
	if len(store.Memories) > 0 {
		e.defaultMem = store.Memories[0]
	}
	return e
}

func (e *Executor) get(r ir.Reg) ir.UntypedVal {
	if r.IsConst() {
		return e.constPool[r.ConstPoolIndex()]
	}
	return e.frame[r.FrameIndex()]
}

func (e *Executor) set(r ir.Reg, v ir.UntypedVal) {
	e.frame[r.FrameIndex()] = v
}

func (e *Executor) getV128(r ir.Reg) ir.V128 {
	if r.IsConst() {
		return e.constPoolV128[r.ConstPoolIndex()]
	}
	return e.frameV128[r.FrameIndex()]
}

func (e *Executor) setV128(r ir.Reg, v ir.V128) {
	e.frameV128[r.FrameIndex()] = v
}

// SetRegister writes an argument into the scalar frame before Run,
// the caller-side counterpart of the register window a call convention
// would otherwise populate.
func (e *Executor) SetRegister(r ir.Reg, v ir.UntypedVal) { e.set(r, v) }

// GetRegister reads a scalar register, e.g. to inspect frame state in a
// test or after a trapped Run.
func (e *Executor) GetRegister(r ir.Reg) ir.UntypedVal { return e.get(r) }

// SetRegisterV128 is SetRegister's vector counterpart.
func (e *Executor) SetRegisterV128(r ir.Reg, v ir.V128) { e.setV128(r, v) }

// GetRegisterV128 is GetRegister's vector counterpart.
func (e *Executor) GetRegisterV128(r ir.Reg) ir.V128 { return e.getV128(r) }

// param returns the trailing parameter slot immediately following the
// instruction at e.ip. Every multi-slot opcode's SlotCount accounts for
// this when the dispatch loop advances the instruction pointer.
func (e *Executor) param() ir.Instruction {
	return e.code[e.ip+1]
}

// Run executes the instruction stream from its current instruction
// pointer (0 on a freshly built Executor) until a return opcode
// produces a result or an opcode traps.
func (e *Executor) Run() (ExecResult, *Trap) {
	for {
		instr := e.code[e.ip]
		switch instr.Op {

		case ir.OpTrap:
			// The zero Opcode value is reserved precisely so a
			// corrupted or never-finalized stream fails loudly here
			// rather than decoding as some other operation.
			panic("executor: encountered reserved OpTrap — uninitialized or corrupt instruction stream")

		case ir.OpReturn:
			return ExecResult{}, nil

		case ir.OpReturnReg:
			return ExecResult{HasValue: true, Value: e.get(instr.Result)}, nil

		case ir.OpReturnImm32:
			return ExecResult{HasValue: true, Value: ir.FromU32(instr.Imm32)}, nil

		case ir.OpReturnI64Imm32:
			return ExecResult{HasValue: true, Value: ir.FromI64(int64(int32(instr.Imm32)))}, nil

		case ir.OpReturnF64Imm32:
			return ExecResult{HasValue: true, Value: ir.FromF64(float64(ir.FromU32(instr.Imm32).F32()))}, nil

		case ir.OpCopy:
			e.set(instr.Result, e.get(instr.A))
			e.ip++
			continue

		case ir.OpBranch:
			e.ip = ir.InstrIdx(int64(e.ip) + int64(instr.Off32.ToI32()))
			continue

		case ir.OpBranchCmp:
			if evalComparator(instr.Cmp, e.get(instr.A), e.get(instr.B)) {
				e.ip = ir.InstrIdx(int64(e.ip) + int64(instr.Off16.ToI16()))
			} else {
				e.ip++
			}
			continue

		case ir.OpBranchCmpFallback:
			packed := e.get(instr.A)
			co, ok := ir.ComparatorAndOffsetFromUntyped(packed)
			if !ok {
				panic("executor: malformed ComparatorAndOffset constant-pool entry")
			}
			lhs, rhs := e.get(instr.Result), e.get(instr.B)
			if evalComparator(co.Cmp, lhs, rhs) {
				e.ip = ir.InstrIdx(int64(e.ip) + int64(co.Offset.ToI32()))
			} else {
				e.ip++
			}
			continue

		case ir.OpConsumeFuel:
			if !e.store.ConsumeFuel(instr.Imm32) {
				return ExecResult{}, trap(OutOfFuel)
			}
			e.ip++
			continue

		case ir.OpMemorySize:
			mem, err := e.memory(instr.Mem)
			if err != nil {
				panic("executor: memory.size against unregistered memory")
			}
			e.set(instr.Result, ir.FromU32(mem.SizeInPages()))
			e.ip++
			continue

		case ir.OpMemoryGrow:
			mem, err := e.memory(instr.Mem)
			if err != nil {
				panic("executor: memory.grow against unregistered memory")
			}
			delta := e.get(instr.A).U32()
			prev, ok := mem.Grow(delta)
			if !ok {
				e.set(instr.Result, ir.FromI32(-1))
			} else {
				e.set(instr.Result, ir.FromU32(prev))
			}
			if instr.Mem == 0 {
				e.defaultMem = mem
			}
			e.ip++
			continue

		case ir.OpGlobalGet:
			v, err := e.store.GlobalGet(instr.Mem)
			if err != nil {
				panic("executor: global.get against unregistered global")
			}
			e.set(instr.Result, v)
			e.ip++
			continue

		case ir.OpGlobalSet:
			if err := e.store.GlobalSet(instr.Mem, e.get(instr.A)); err != nil {
				panic("executor: global.set against unregistered global")
			}
			e.ip++
			continue

		case ir.OpSelect:
			param := e.param().AsParamRegister()
			if e.get(instr.A).U32() != 0 {
				e.set(instr.Result, e.get(instr.B))
			} else {
				e.set(instr.Result, e.get(param.Reg))
			}
			e.ip += 2
			continue

		case ir.OpSelectRev:
			param := e.param().AsParamRegister()
			if e.get(instr.A).U32() != 0 {
				e.set(instr.Result, ir.FromU32(instr.Imm32))
			} else {
				e.set(instr.Result, e.get(param.Reg))
			}
			e.ip += 2
			continue

		case ir.OpSelectImm32, ir.OpSelectI64Imm32, ir.OpSelectF64Imm32:
			param := e.param().AsParamImm32()
			imm := param.Imm32
			if e.get(instr.A).U32() != 0 {
				imm = instr.Imm32
			}
			switch instr.Op {
			case ir.OpSelectI64Imm32:
				e.set(instr.Result, ir.FromI64(int64(int32(imm))))
			case ir.OpSelectF64Imm32:
				e.set(instr.Result, ir.FromF64(float64(ir.FromU32(imm).F32())))
			default:
				e.set(instr.Result, ir.FromU32(imm))
			}
			e.ip += 2
			continue

		case ir.OpCmp:
			e.set(instr.Result, boolVal(evalComparator(instr.Cmp, e.get(instr.A), e.get(instr.B))))
			e.ip++
			continue

		default:
			if handled, t := e.tryArith(instr); handled {
				if t != nil {
					return ExecResult{}, t
				}
				e.ip++
				continue
			}
			if handled, t := e.tryMemory(instr); handled {
				if t != nil {
					return ExecResult{}, t
				}
				continue
			}
			if handled, t := e.trySimd(instr); handled {
				if t != nil {
					return ExecResult{}, t
				}
				continue
			}
			panic("executor: unhandled opcode")
		}
	}
}

// memory resolves a memory index to a *wasmstore.Memory, taking the
// cached-pointer fast path for the default memory (index 0) and falling
// back to the Store for any other index, per spec.md §4.4.
func (e *Executor) memory(idx uint32) (*wasmstore.Memory, error) {
	if idx == 0 && e.defaultMem != nil {
		return e.defaultMem, nil
	}
	return e.store.ResolveMemoryMut(idx)
}

func boolVal(b bool) ir.UntypedVal {
	if b {
		return ir.FromU32(1)
	}
	return ir.FromU32(0)
}
