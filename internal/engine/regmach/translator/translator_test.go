package translator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/orsinium-forks/wasmi/internal/engine/regmach/ir"
)

// TestMulByZero pins the x*0->0 identity, consteval-style, the same
// scenario original_source's i32_mul.rs "reg_zero" test names.
func TestMulByZero(t *testing.T) {
	ops := []StackOp{
		{Kind: OpLocalGet, LocalIdx: 0},
		{Kind: OpConst, Type: I32, ConstBits: 0},
		{Kind: OpBinary, Type: I32, Bin: Mul},
		{Kind: OpReturnValue},
	}
	res, err := Translate(1, ops)
	require.NoError(t, err)
	require.Equal(t, ir.NewReturnImm32(0), last(res.Code))
}

// TestMulByOne pins the x*1->x identity (original_source's "reg_one").
func TestMulByOne(t *testing.T) {
	ops := []StackOp{
		{Kind: OpLocalGet, LocalIdx: 0},
		{Kind: OpConst, Type: I32, ConstBits: 1},
		{Kind: OpBinary, Type: I32, Bin: Mul},
		{Kind: OpReturnValue},
	}
	res, err := Translate(1, ops)
	require.NoError(t, err)
	require.Equal(t, ir.NewReturnReg(ir.Reg(0)), last(res.Code))
}

// TestConsteval pins full constant folding of both-constant arithmetic
// (original_source's "consteval" test): no instruction at all besides
// the return of the already-computed value.
func TestConsteval(t *testing.T) {
	ops := []StackOp{
		{Kind: OpConst, Type: I32, ConstBits: 1},
		{Kind: OpConst, Type: I32, ConstBits: 2},
		{Kind: OpBinary, Type: I32, Bin: Mul},
		{Kind: OpReturnValue},
	}
	res, err := Translate(0, ops)
	require.NoError(t, err)
	require.Len(t, res.Code, 2) // ConsumeFuel (function-entry block) + ReturnImm32
	require.Equal(t, ir.NewReturnImm32(2), last(res.Code))
}

// TestConstevalSkipsDivByZero confirms DivS is never folded even when
// both sides are constant: the trap must still happen at runtime, at
// this instruction's position in the stream.
func TestConstevalSkipsDivByZero(t *testing.T) {
	ops := []StackOp{
		{Kind: OpConst, Type: I32, ConstBits: 10},
		{Kind: OpConst, Type: I32, ConstBits: 0},
		{Kind: OpBinary, Type: I32, Bin: DivS},
		{Kind: OpReturnValue},
	}
	res, err := Translate(0, ops)
	require.NoError(t, err)
	found := false
	for _, instr := range res.Code {
		if instr.Op == ir.OpI32DivS {
			found = true
		}
	}
	require.True(t, found, "division by a constant zero must still emit a runtime DivS, not fold away the trap")
}

// TestAddImm16Folding pins x+c folding into the Imm16 family when c fits.
func TestAddImm16Folding(t *testing.T) {
	ops := []StackOp{
		{Kind: OpLocalGet, LocalIdx: 0},
		{Kind: OpConst, Type: I32, ConstBits: uint64(uint32(int32(100)))},
		{Kind: OpBinary, Type: I32, Bin: Add},
		{Kind: OpReturnValue},
	}
	res, err := Translate(1, ops)
	require.NoError(t, err)
	found := false
	for _, instr := range res.Code {
		if instr.Op == ir.OpI32AddImm16 {
			require.Equal(t, int16(100), instr.Imm16())
			found = true
		}
	}
	require.True(t, found)
}

// TestSubConstLeftUsesReversedImm16 pins "c - x" using SubImm16Rev
// rather than materializing c through the constant pool.
func TestSubConstLeftUsesReversedImm16(t *testing.T) {
	ops := []StackOp{
		{Kind: OpConst, Type: I32, ConstBits: uint64(uint32(int32(100)))},
		{Kind: OpLocalGet, LocalIdx: 0},
		{Kind: OpBinary, Type: I32, Bin: Sub},
		{Kind: OpReturnValue},
	}
	res, err := Translate(1, ops)
	require.NoError(t, err)
	found := false
	for _, instr := range res.Code {
		if instr.Op == ir.OpI32SubImm16Rev {
			found = true
		}
	}
	require.True(t, found)
}

// TestSelectSameOperand pins select(a,a,_)->a: the condition is never
// even materialized into an instruction.
func TestSelectSameOperand(t *testing.T) {
	ops := []StackOp{
		{Kind: OpLocalGet, LocalIdx: 1}, // input
		{Kind: OpLocalGet, LocalIdx: 1}, // input (same local both times)
		{Kind: OpLocalGet, LocalIdx: 0}, // condition
		{Kind: OpSelect, Type: I32},
		{Kind: OpReturnValue},
	}
	res, err := Translate(2, ops)
	require.NoError(t, err)
	require.Equal(t, ir.NewReturnReg(ir.Reg(1)), last(res.Code))
}

// TestSelectRegisterForm pins the general register/register select
// lowering: condition, lhs, rhs all locals (the "reg" scenario in
// original_source's select.rs).
func TestSelectRegisterForm(t *testing.T) {
	ops := []StackOp{
		{Kind: OpLocalGet, LocalIdx: 1}, // lhs
		{Kind: OpLocalGet, LocalIdx: 2}, // rhs
		{Kind: OpLocalGet, LocalIdx: 0}, // condition
		{Kind: OpSelect, Type: I32},
		{Kind: OpReturnValue},
	}
	res, err := Translate(3, ops)
	require.NoError(t, err)
	var found bool
	for i, instr := range res.Code {
		if instr.Op == ir.OpSelect {
			require.Equal(t, ir.OpParamRegister, res.Code[i+1].Op)
			found = true
		}
	}
	require.True(t, found)
}

// TestSelectBothConstFitsImm32 pins the typed-select-of-two-constants
// scenario (spec.md §8.3, pinned at the executor level too in
// executor_test.go's TestSelectImm32_TypedConstants).
func TestSelectBothConstFitsImm32(t *testing.T) {
	ops := []StackOp{
		{Kind: OpConst, Type: I32, ConstBits: 111},
		{Kind: OpConst, Type: I32, ConstBits: 222},
		{Kind: OpLocalGet, LocalIdx: 0},
		{Kind: OpSelect, Type: I32},
		{Kind: OpReturnValue},
	}
	res, err := Translate(1, ops)
	require.NoError(t, err)
	var found bool
	for i, instr := range res.Code {
		if instr.Op == ir.OpSelectImm32 {
			require.EqualValues(t, 111, instr.Imm32)
			require.Equal(t, ir.OpParamImm32, res.Code[i+1].Op)
			require.EqualValues(t, 222, res.Code[i+1].Imm32)
			found = true
		}
	}
	require.True(t, found)
}

// TestLoopBrIfFusesComparator pins compare-then-branch fusion on a
// backward (loop) edge using the inline 16-bit offset — the executor-level
// TestBranchCmpFusion_Loop scenario, exercised here at the translator
// boundary with StackOps instead of hand-built ir.Instructions.
func TestLoopBrIfFusesComparator(t *testing.T) {
	ops := []StackOp{
		{Kind: OpLoop},
		{Kind: OpLocalGet, LocalIdx: 0},
		{Kind: OpConst, Type: I32, ConstBits: 1},
		{Kind: OpBinary, Type: I32, Bin: Add},
		{Kind: OpLocalSet, LocalIdx: 0},
		{Kind: OpLocalGet, LocalIdx: 0},
		{Kind: OpConst, Type: I32, ConstBits: 3},
		{Kind: OpCompare, Type: I32, Cmp: LtS},
		{Kind: OpBrIf, Depth: 0},
		{Kind: OpEnd},
		{Kind: OpLocalGet, LocalIdx: 0},
		{Kind: OpReturnValue},
	}
	res, err := Translate(1, ops)
	require.NoError(t, err)
	var found bool
	for _, instr := range res.Code {
		if instr.Op == ir.OpBranchCmp {
			require.Equal(t, ir.I32LtS, instr.Cmp)
			found = true
		}
	}
	require.True(t, found, "a backward br_if over a fresh comparison should fuse into a single OpBranchCmp")
}

// TestBlockBrIfPatchesForwardFallback pins the forward-branch path: the
// target isn't known until End, so the translator must go through the
// constant-pool ComparatorAndOffset fallback and patch it once End's
// position becomes known.
func TestBlockBrIfPatchesForwardFallback(t *testing.T) {
	ops := []StackOp{
		{Kind: OpBlock},
		{Kind: OpLocalGet, LocalIdx: 0},
		{Kind: OpConst, Type: I32, ConstBits: 0},
		{Kind: OpCompare, Type: I32, Cmp: Eq},
		{Kind: OpBrIf, Depth: 0},
		{Kind: OpConst, Type: I32, ConstBits: 99},
		{Kind: OpReturnValue},
		{Kind: OpEnd},
		{Kind: OpConst, Type: I32, ConstBits: 0},
		{Kind: OpReturnValue},
	}
	res, err := Translate(1, ops)
	require.NoError(t, err)

	var branchIdx = -1
	for i, instr := range res.Code {
		if instr.Op == ir.OpBranchCmpFallback {
			branchIdx = i
		}
	}
	require.NotEqual(t, -1, branchIdx)

	packed := res.ConstPool[res.Code[branchIdx].A.ConstPoolIndex()]
	co, ok := ir.ComparatorAndOffsetFromUntyped(packed)
	require.True(t, ok)
	require.True(t, co.Offset.IsInit(), "the fallback's offset must be patched by the time Translate returns")
	dst := int64(branchIdx) + int64(co.Offset.ToI32())
	require.Equal(t, int64(len(res.Code)-1), dst, "the patched offset must land exactly on the code emitted after End")
}

// TestMemoryGrowRoundTrip pins the memory.grow supplemented feature
// (SPEC_FULL.md §10) translating to a single OpMemoryGrow.
func TestMemoryGrowRoundTrip(t *testing.T) {
	ops := []StackOp{
		{Kind: OpLocalGet, LocalIdx: 0},
		{Kind: OpMemoryGrow, Mem: 0},
		{Kind: OpReturnValue},
	}
	res, err := Translate(1, ops)
	require.NoError(t, err)
	var found bool
	for _, instr := range res.Code {
		if instr.Op == ir.OpMemoryGrow {
			found = true
		}
	}
	require.True(t, found)
}

// TestStoreLoadOffset16RoundTrip pins the common default-memory,
// 16-bit-offset addressing form end to end through the translator.
func TestStoreLoadOffset16RoundTrip(t *testing.T) {
	ops := []StackOp{
		{Kind: OpLocalGet, LocalIdx: 0}, // ptr
		{Kind: OpConst, Type: I32, ConstBits: 0x2a}, // value
		{Kind: OpStore, Type: I32, Width: Width32, Offset: 8},
		{Kind: OpLocalGet, LocalIdx: 0},
		{Kind: OpLoad, Type: I32, Width: Width32, Offset: 8},
		{Kind: OpReturnValue},
	}
	res, err := Translate(1, ops)
	require.NoError(t, err)
	var sawStore, sawLoad bool
	for _, instr := range res.Code {
		if instr.Op == ir.OpStore32Offset16Imm16 {
			sawStore = true
		}
		if instr.Op == ir.OpLoad32Offset16 {
			sawLoad = true
		}
	}
	require.True(t, sawStore)
	require.True(t, sawLoad)
}

// TestReturnI64ConstWide pins an i64 constant return that does not fit
// the 32-bit return_i64imm32 encoding: it must materialize through the
// constant pool and return_reg, never truncate through return_imm32.
func TestReturnI64ConstWide(t *testing.T) {
	const wide uint64 = 0x1_0000_0001 // exceeds int32 range both ways
	ops := []StackOp{
		{Kind: OpConst, Type: I64, ConstBits: wide},
		{Kind: OpReturnValue, Type: I64},
	}
	res, err := Translate(0, ops)
	require.NoError(t, err)
	instr := last(res.Code)
	require.Equal(t, ir.OpReturnReg, instr.Op)
	require.EqualValues(t, wide, res.ConstPool[instr.Result.ConstPoolIndex()])
}

// TestReturnI64ConstNarrow pins an i64 constant that DOES round-trip
// through a 32-bit sign extension: it should use return_i64imm32 rather
// than paying for a constant-pool slot and a register return.
func TestReturnI64ConstNarrow(t *testing.T) {
	ops := []StackOp{
		{Kind: OpConst, Type: I64, ConstBits: uint64(int64(-42))},
		{Kind: OpReturnValue, Type: I64},
	}
	res, err := Translate(0, ops)
	require.NoError(t, err)
	instr := last(res.Code)
	require.Equal(t, ir.OpReturnI64Imm32, instr.Op)
	require.EqualValues(t, int32(-42), int32(instr.Imm32))
}

// TestReturnF64ConstWide pins an f64 constant return whose value does
// not round-trip through float32 (the bug the maintainer flagged: this
// used to truncate to uint32(bits) and silently return 0.0).
func TestReturnF64ConstWide(t *testing.T) {
	ops := []StackOp{
		{Kind: OpConst, Type: F64, ConstBits: ir.FromF64(1.0).U64()},
		{Kind: OpReturnValue, Type: F64},
	}
	res, err := Translate(0, ops)
	require.NoError(t, err)
	instr := last(res.Code)
	require.Equal(t, ir.OpReturnF64Imm32, instr.Op)
	require.Equal(t, float32(1.0), ir.FromU32(instr.Imm32).F32())

	nonRoundTrip := ir.FromF64(1.0000000000000002).U64() // nearest f64 above 1.0, doesn't survive an f32 round trip
	ops2 := []StackOp{
		{Kind: OpConst, Type: F64, ConstBits: nonRoundTrip},
		{Kind: OpReturnValue, Type: F64},
	}
	res2, err := Translate(0, ops2)
	require.NoError(t, err)
	instr2 := last(res2.Code)
	require.Equal(t, ir.OpReturnReg, instr2.Op)
	require.EqualValues(t, nonRoundTrip, res2.ConstPool[instr2.Result.ConstPoolIndex()])
}

// TestGlobalGetSetRoundTrip exercises the wired global.get/global.set
// opcode pair end to end through the translator.
func TestGlobalGetSetRoundTrip(t *testing.T) {
	ops := []StackOp{
		{Kind: OpGlobalGet, GlobalIdx: 0},
		{Kind: OpConst, Type: I32, ConstBits: 1},
		{Kind: OpBinary, Type: I32, Bin: Add},
		{Kind: OpGlobalSet, GlobalIdx: 0},
		{Kind: OpReturn},
	}
	res, err := Translate(0, ops)
	require.NoError(t, err)
	var sawGet, sawSet bool
	for _, instr := range res.Code {
		if instr.Op == ir.OpGlobalGet {
			require.EqualValues(t, 0, instr.Mem)
			sawGet = true
		}
		if instr.Op == ir.OpGlobalSet {
			require.EqualValues(t, 0, instr.Mem)
			sawSet = true
		}
	}
	require.True(t, sawGet)
	require.True(t, sawSet)
}

// TestMaxPropagatesNaN pins min/max(x, NaN)->NaN firing even when x is
// not itself constant (spec's NaN-propagation rule, independent of
// operand order).
func TestMaxPropagatesNaN(t *testing.T) {
	ops := []StackOp{
		{Kind: OpLocalGet, LocalIdx: 0},
		{Kind: OpConst, Type: F64, ConstBits: ir.FromF64(math.NaN()).U64()},
		{Kind: OpBinary, Type: F64, Bin: Max},
		{Kind: OpReturnValue, Type: F64},
	}
	res, err := Translate(1, ops)
	require.NoError(t, err)
	instr := last(res.Code)
	require.Equal(t, ir.OpReturnReg, instr.Op)
	require.True(t, math.IsNaN(res.ConstPool[instr.Result.ConstPoolIndex()].F64()))
}

func last(code []ir.Instruction) ir.Instruction { return code[len(code)-1] }
