package simd

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/orsinium-forks/wasmi/internal/engine/regmach/ir"
)

func v128FromI32x4(a, b, c, d int32) ir.V128 {
	return fromLanes32([4]int32{a, b, c, d})
}

func TestI32x4Neg(t *testing.T) {
	v := v128FromI32x4(1, -2, 0, math.MinInt32)
	got := lanes32(I32x4Neg(v))
	require.Equal(t, [4]int32{-1, 2, 0, math.MinInt32}, got) // MinInt32 negation wraps, matching Wasm i32 wraparound
}

func TestI32x4Add(t *testing.T) {
	a := v128FromI32x4(1, 2, 3, 4)
	b := v128FromI32x4(10, 20, 30, 40)
	got := lanes32(I32x4Add(a, b))
	require.Equal(t, [4]int32{11, 22, 33, 44}, got)
}

func TestF32x4MaxMin_NaNPropagates(t *testing.T) {
	nan := float32(math.NaN())
	a := fromLanesF32([4]float32{nan, 1, 2, 3})
	b := fromLanesF32([4]float32{0, 1, 2, 3})

	maxed := lanesF32(F32x4Max(a, b))
	require.True(t, math.IsNaN(float64(maxed[0])))

	minned := lanesF32(F32x4Min(a, b))
	require.True(t, math.IsNaN(float64(minned[0])))
}

func TestV128Bitselect(t *testing.T) {
	a := ir.FromU128(0xFFFFFFFFFFFFFFFF, 0)
	b := ir.FromU128(0, 0)
	sel := ir.FromU128(0x00000000FFFFFFFF, 0)
	got := V128Bitselect(a, b, sel)
	lo, _ := got.U128()
	require.Equal(t, uint64(0xFFFFFFFF), lo)
}

func TestI8x16Shuffle_Interleave(t *testing.T) {
	var lhsBytes, rhsBytes [16]byte
	for i := range lhsBytes {
		lhsBytes[i] = byte(i)
		rhsBytes[i] = byte(i + 100)
	}
	lhs := ir.V128FromBytes(lhsBytes)
	rhs := ir.V128FromBytes(rhsBytes)

	var selector [16]uint8
	for i := 0; i < 8; i++ {
		selector[2*i] = uint8(i)
		selector[2*i+1] = uint8(16 + i)
	}
	out := I8x16Shuffle(lhs, rhs, selector).Bytes()
	for i := 0; i < 8; i++ {
		require.Equal(t, byte(i), out[2*i])
		require.Equal(t, byte(i+100), out[2*i+1])
	}
}

func TestI8x16Shuffle_OutOfRangeSelectorPanics(t *testing.T) {
	var selector [16]uint8
	selector[0] = 32
	require.Panics(t, func() {
		I8x16Shuffle(ir.V128{}, ir.V128{}, selector)
	})
}

func TestShiftByImm_ReducesModuloLaneWidth(t *testing.T) {
	v := fromLanes32([4]int32{1, 1, 1, 1})
	// shiftAmount 32 reduces to 0 mod the 32-bit lane width: a no-op shift.
	got := lanes32(I32x4ShlByImm(v, 32))
	require.Equal(t, [4]int32{1, 1, 1, 1}, got)
}

func TestExtractLane_SignVsZeroExtend(t *testing.T) {
	v := fromLanes8([16]int8{-1})
	require.Equal(t, int32(-1), I8x16ExtractLaneS(v, 0))
	require.Equal(t, int32(255), I8x16ExtractLaneU(v, 0))
}
