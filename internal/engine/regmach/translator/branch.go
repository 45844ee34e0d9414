package translator

import "github.com/orsinium-forks/wasmi/internal/engine/regmach/ir"

type blockKind uint8

const (
	blockKindBlock blockKind = iota
	blockKindLoop
)

type fixupKind uint8

const (
	fixupBranch32 fixupKind = iota
	fixupFallbackConst
)

// fixup records a forward branch whose target (the enclosing block's
// End) isn't known yet. branchIP is always the branch instruction
// itself, since that is what BranchOffsetFromSrcToDst needs as src once
// the target becomes known; constIdx/cmp are only meaningful for the
// constant-pool fallback form.
type fixup struct {
	kind     fixupKind
	branchIP ir.InstrIdx
	constIdx int
	cmp      ir.Comparator
}

// blockCtx tracks one open Block/Loop. Branches that exit a Block are
// forward (target unknown until End, so they go through fixup); branches
// that continue a Loop are backward (target is the loop's own top,
// known the instant the branch is emitted), matching Wasm's label
// semantics: branching to a loop's label re-enters the loop, branching
// to a block's label exits past it.
type blockCtx struct {
	kind           blockKind
	loopStart      ir.InstrIdx // only meaningful for blockKindLoop
	fixups         []fixup     // only accumulated for blockKindBlock
	parentFuelSlot int
}

func (t *Translator) pushBlock(kind blockKind) {
	parentFuelSlot := t.blockFuelSlot
	t.openBlockFuel()
	t.blocks = append(t.blocks, blockCtx{
		kind:           kind,
		loopStart:      ir.InstrIdx(t.blockFuelSlot),
		parentFuelSlot: parentFuelSlot,
	})
}

func (t *Translator) endBlock() error {
	n := len(t.blocks)
	ctx := t.blocks[n-1]
	t.blocks = t.blocks[:n-1]

	if ctx.kind == blockKindBlock {
		dst := ir.InstrIdx(len(t.code))
		for _, fx := range ctx.fixups {
			offset, err := ir.BranchOffsetFromSrcToDst(fx.branchIP, dst)
			if err != nil {
				return err
			}
			switch fx.kind {
			case fixupBranch32:
				t.code[fx.branchIP].Off32.Init(offset)
			case fixupFallbackConst:
				co := ir.NewComparatorAndOffset(fx.cmp, offset)
				t.constPool[fx.constIdx] = co.Untyped()
			}
		}
	}

	t.blockFuelSlot = ctx.parentFuelSlot
	return nil
}

func (t *Translator) recordFixup(depth uint32, fx fixup) {
	idx := len(t.blocks) - 1 - int(depth)
	t.blocks[idx].fixups = append(t.blocks[idx].fixups, fx)
}

func (t *Translator) translateBr(depth uint32) error {
	target := t.blocks[len(t.blocks)-1-int(depth)]
	if target.kind == blockKindLoop {
		offset, err := ir.BranchOffsetFromSrcToDst(ir.InstrIdx(len(t.code)), target.loopStart)
		if err != nil {
			return err
		}
		t.emit(ir.NewBranch(offset))
		return nil
	}
	branchIP := t.emit(ir.NewBranch(ir.UninitBranchOffset()))
	t.recordFixup(depth, fixup{kind: fixupBranch32, branchIP: branchIP})
	return nil
}

// translateBrIf fuses the branch condition with the comparator that
// produced it when possible (cond is a still-pending Compare result),
// falling back to an explicit "cond != 0" test against a zero constant
// otherwise. The fused form itself then picks the cheapest encoding: an
// inline 16-bit offset when the distance is known and fits (always true
// for backward/loop branches, since their target is already fixed),
// the constant-pool ComparatorAndOffset fallback otherwise (always true
// for forward/block branches, since their distance isn't known until
// End is reached).
func (t *Translator) translateBrIf(depth uint32) error {
	cond := t.pop()

	var cmp ir.Comparator
	var lhs, rhs ir.Reg
	if cond.kind == opPendingCmp {
		cmp = cond.cmp
		lhs = t.regOf(*cond.cmpLHS)
		rhs = t.regOf(*cond.cmpRHS)
	} else {
		cmp = ir.I32Ne
		lhs = t.regOf(cond)
		rhs = t.constReg(0)
	}

	target := t.blocks[len(t.blocks)-1-int(depth)]
	if target.kind == blockKindLoop {
		offset, err := ir.BranchOffsetFromSrcToDst(ir.InstrIdx(len(t.code)), target.loopStart)
		if err != nil {
			return err
		}
		if off16, err := ir.BranchOffset16FromBranchOffset(offset); err == nil {
			t.emit(ir.NewBranchCmp(cmp, lhs, rhs, off16))
			return nil
		}
		t.emitFallbackBranchCmp(cmp, lhs, rhs, offset)
		return nil
	}

	constIdx := len(t.constPool)
	co := ir.NewComparatorAndOffset(cmp, ir.UninitBranchOffset())
	t.constPool = append(t.constPool, co.Untyped())
	params := ir.RegFromConstPoolIndex(constIdx)
	branchIP := t.emit(ir.NewBranchCmpFallback(params, lhs, rhs))
	t.recordFixup(depth, fixup{kind: fixupFallbackConst, branchIP: branchIP, constIdx: constIdx, cmp: cmp})
	return nil
}

func (t *Translator) emitFallbackBranchCmp(cmp ir.Comparator, lhs, rhs ir.Reg, offset ir.BranchOffset) {
	co := ir.NewComparatorAndOffset(cmp, offset)
	constIdx := len(t.constPool)
	t.constPool = append(t.constPool, co.Untyped())
	params := ir.RegFromConstPoolIndex(constIdx)
	t.emit(ir.NewBranchCmpFallback(params, lhs, rhs))
}
