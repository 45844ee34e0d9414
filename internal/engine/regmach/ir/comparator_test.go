package ir

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestComparatorAndOffset_RoundTrip(t *testing.T) {
	co := NewComparatorAndOffset(I64GeU, BranchOffsetFromI32(-12345))
	packed := co.AsU64()
	back, ok := ComparatorAndOffsetFromU64(packed)
	require.True(t, ok)
	require.Equal(t, co, back)
}

// TestComparatorAndOffset_OrNotAnd pins the bug fix: packing must use
// bitwise-OR. A bitwise-AND pack would zero the low (offset) word
// whenever the high (comparator) word has any bit set that the low word
// lacks, which a nonzero comparator ordinal combined with a negative
// offset (all its low bits plausibly 1) would expose immediately.
func TestComparatorAndOffset_OrNotAnd(t *testing.T) {
	co := NewComparatorAndOffset(I32GeU, BranchOffsetFromI32(-1)) // offset bit pattern: all ones
	got := co.AsU64()
	wantOr := uint64(uint32(I32GeU))<<32 | uint64(uint32(int32(-1)))
	require.Equal(t, wantOr, got)
}

func TestComparatorAndOffsetFromU64_RejectsInvalidComparator(t *testing.T) {
	bogus := uint64(1<<32-1) << 32 // way past comparatorCount
	_, ok := ComparatorAndOffsetFromU64(bogus)
	require.False(t, ok)
}

func TestComparatorFromU32_RangeChecks(t *testing.T) {
	_, err := ComparatorFromU32(uint32(comparatorCount))
	require.ErrorIs(t, err, ErrComparatorOutOfBounds)

	got, err := ComparatorFromU32(uint32(F64Ge))
	require.NoError(t, err)
	require.Equal(t, F64Ge, got)
}
