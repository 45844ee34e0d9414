package translator

import "github.com/orsinium-forks/wasmi/internal/engine/regmach/ir"

// operand is the provenance of one value-stack slot during translation.
// Constants stay unmaterialized (no register, no instruction emitted)
// until something actually consumes them, which is what lets immediate
// folding and the zero/one algebraic identities see past a local.get or
// a prior fold without walking the emitted instruction stream.
type operand struct {
	kind operandKind
	reg  ir.Reg
	bits uint64 // raw bit pattern for kind == opConst, reinterpreted per ty

	// A pending comparison result: Compare pushes one of these instead of
	// materializing an OpCmp, so a directly-following BrIf can fuse the
	// comparator into the branch instead of paying for two instructions.
	cmp     ir.Comparator
	cmpLHS  *operand
	cmpRHS  *operand
}

type operandKind uint8

const (
	opReg operandKind = iota
	opConst
	opPendingCmp
)

func regOperand(r ir.Reg) operand { return operand{kind: opReg, reg: r} }

func constOperand(bits uint64) operand { return operand{kind: opConst, bits: bits} }

func (o operand) i32() int32    { return int32(uint32(o.bits)) }
func (o operand) u32() uint32   { return uint32(o.bits) }
func (o operand) i64() int64    { return int64(o.bits) }
func (o operand) isZero(ty ValType) bool {
	if o.kind != opConst {
		return false
	}
	switch ty {
	case I32:
		return o.u32() == 0
	case I64:
		return o.bits == 0
	case F32:
		return ir.FromU32(o.u32()).F32() == 0
	case F64:
		return ir.FromU64(o.bits).F64() == 0
	}
	return false
}

func (o operand) isOne(ty ValType) bool {
	if o.kind != opConst {
		return false
	}
	switch ty {
	case I32:
		return o.u32() == 1
	case I64:
		return o.bits == 1
	case F32:
		return ir.FromU32(o.u32()).F32() == 1
	case F64:
		return ir.FromU64(o.bits).F64() == 1
	}
	return false
}

// push/pop manage the translator's operand stack, the compile-time
// mirror of the Wasm value stack.
func (t *Translator) push(o operand) { t.stack = append(t.stack, o) }

func (t *Translator) pop() operand {
	n := len(t.stack)
	o := t.stack[n-1]
	t.stack = t.stack[:n-1]
	return o
}

// materialize forces an operand into an actual register, allocating a
// temp register and emitting whatever constant-producing instruction is
// needed. Used where the consumer takes only a register: local.set/tee,
// global.set, the memory.grow delta, the select condition, a returned
// value, and (through regOf) any pending comparison used as an operand.
func (t *Translator) materialize(o operand) ir.Reg {
	switch o.kind {
	case opReg:
		return o.reg
	case opConst:
		return t.constReg(o.bits)
	case opPendingCmp:
		dst := t.allocTemp()
		lhs := t.materialize(*o.cmpLHS)
		rhs := t.materialize(*o.cmpRHS)
		t.emit(ir.NewCmp(o.cmp, dst, lhs, rhs))
		return dst
	}
	panic("translator: unreachable operand kind")
}

// constReg returns a Reg for a constant value, allocating (and
// deduplicating) a constant-pool slot.
func (t *Translator) constReg(bits uint64) ir.Reg {
	if r, ok := t.constIndex[bits]; ok {
		return r
	}
	idx := len(t.constPool)
	t.constPool = append(t.constPool, ir.FromU64(bits))
	r := ir.RegFromConstPoolIndex(idx)
	t.constIndex[bits] = r
	return r
}
