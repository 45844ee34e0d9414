package wasmstore

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/orsinium-forks/wasmi/internal/engine/regmach/ir"
)

func TestMemoryGrow_RespectsMax(t *testing.T) {
	m := NewMemory(1, 2)
	prev, ok := m.Grow(1)
	require.True(t, ok)
	require.Equal(t, uint32(1), prev)
	require.Equal(t, uint32(2), m.SizeInPages())

	_, ok = m.Grow(1)
	require.False(t, ok)
	require.Equal(t, uint32(2), m.SizeInPages())
}

func TestMemoryGrow_Unbounded(t *testing.T) {
	m := NewMemory(0, 0)
	_, ok := m.Grow(100)
	require.True(t, ok)
	require.Equal(t, uint32(100), m.SizeInPages())
}

func TestConsumeFuel_DisabledIsNoop(t *testing.T) {
	s := NewStore(Config{FuelEnabled: false})
	require.True(t, s.ConsumeFuel(1_000_000))
	require.Equal(t, int64(0), s.Fuel.Remaining)
}

// TestConsumeFuel_ExhaustsAfterExactBudget pins the scenario spec.md §8
// calls out: fuel = 3 traps on exactly the 4th charge of 1, not before.
func TestConsumeFuel_ExhaustsAfterExactBudget(t *testing.T) {
	s := NewStore(Config{InitialFuel: 3, FuelEnabled: true})
	require.True(t, s.ConsumeFuel(1))
	require.True(t, s.ConsumeFuel(1))
	require.True(t, s.ConsumeFuel(1))
	require.False(t, s.ConsumeFuel(1))
}

func TestGlobalGetSet(t *testing.T) {
	s := NewStore(Config{})
	idx := s.AddGlobal(&Global{Value: ir.FromI32(5), Mutable: true})
	v, err := s.GlobalGet(idx)
	require.NoError(t, err)
	require.Equal(t, int32(5), v.I32())

	require.NoError(t, s.GlobalSet(idx, ir.FromI32(9)))
	v, _ = s.GlobalGet(idx)
	require.Equal(t, int32(9), v.I32())

	_, err = s.GlobalGet(idx + 1)
	require.ErrorIs(t, err, ErrNoSuchGlobal)
}

func TestResolveMemoryMut_UnknownIndex(t *testing.T) {
	s := NewStore(Config{})
	_, err := s.ResolveMemoryMut(0)
	require.ErrorIs(t, err, ErrNoSuchMemory)
}
