package ir

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSlotCount(t *testing.T) {
	require.Equal(t, 1, Instruction{Op: OpReturn}.SlotCount())
	require.Equal(t, 1, Instruction{Op: OpI32Add}.SlotCount())
	require.Equal(t, 2, Instruction{Op: OpSelect}.SlotCount())
	require.Equal(t, 2, Instruction{Op: OpStore32}.SlotCount())
	require.Equal(t, 1, Instruction{Op: OpStore32Offset16}.SlotCount())
	require.Equal(t, 1, Instruction{Op: OpStore32At}.SlotCount())
	require.Equal(t, 2, Instruction{Op: OpLoad64}.SlotCount())
	require.Equal(t, 1, Instruction{Op: OpLoad64At}.SlotCount())
	require.Equal(t, 2, Instruction{Op: OpI8x16Shuffle}.SlotCount())
	require.Equal(t, 2, Instruction{Op: OpV128Bitselect}.SlotCount())
	require.Equal(t, 1, Instruction{Op: OpMemoryGrow}.SlotCount())
}

func TestParamDecode_PanicsOnTagMismatch(t *testing.T) {
	wrong := Instruction{Op: OpI32Add}
	require.Panics(t, func() { wrong.AsParamRegister() })
	require.Panics(t, func() { wrong.AsParamRegisterAndImm32() })
	require.Panics(t, func() { wrong.AsParamImm32() })
}

func TestParamDecode_RoundTrips(t *testing.T) {
	p := NewParamRegister(Reg(7))
	require.Equal(t, ParamRegister{Reg: 7}, p.AsParamRegister())

	p2 := NewParamRegisterAndImm32(Reg(-3), 0xDEADBEEF)
	got := p2.AsParamRegisterAndImm32()
	require.Equal(t, Reg(-3), got.Reg)
	require.Equal(t, uint32(0xDEADBEEF), got.Imm32)

	p3 := NewParamImm32(42)
	require.Equal(t, ParamImm32{Imm32: 42}, p3.AsParamImm32())
}

func TestOffset64_RoundTrip(t *testing.T) {
	lo, hi := SplitOffset64(0x1122334455667788)
	require.Equal(t, uint64(0x1122334455667788), CombineOffset64(lo, hi))
}

func TestImm16_RoundTrip(t *testing.T) {
	instr := ArithBinaryImm16(OpI32AddImm16, Reg(1), Reg(2), -100)
	require.Equal(t, int16(-100), instr.Imm16())
}
