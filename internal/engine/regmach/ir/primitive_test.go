package ir

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBranchOffsetFromSrcToDst_Backward(t *testing.T) {
	off, err := BranchOffsetFromSrcToDst(10, 4)
	require.NoError(t, err)
	require.Equal(t, int32(-6), off.ToI32())
	require.True(t, off.IsInit())
}

func TestBranchOffsetInit_PanicsOnDoubleInit(t *testing.T) {
	off := UninitBranchOffset()
	valid := BranchOffsetFromI32(3)
	off.Init(valid)
	require.Panics(t, func() { off.Init(valid) })
}

func TestBranchOffsetInit_PanicsOnUninitSource(t *testing.T) {
	off := UninitBranchOffset()
	require.Panics(t, func() { off.Init(UninitBranchOffset()) })
}

func TestBranchOffset16FromBranchOffset_OutOfRange(t *testing.T) {
	_, err := BranchOffset16FromBranchOffset(BranchOffsetFromI32(1 << 20))
	require.ErrorIs(t, err, ErrBranchOffsetOutOfBounds)
}

func TestBlockFuelBumpBy_FailsOnOverflow(t *testing.T) {
	f, err := BlockFuelFromU64(uint64(maxUint32) - 1)
	require.NoError(t, err)
	require.Error(t, f.BumpBy(10))
}

func TestBlockFuelBumpBy_Accumulates(t *testing.T) {
	var f BlockFuel
	require.NoError(t, f.BumpBy(3))
	require.NoError(t, f.BumpBy(4))
	require.Equal(t, uint64(7), f.ToU64())
}
