package executor

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/orsinium-forks/wasmi/internal/engine/regmach/ir"
	"github.com/orsinium-forks/wasmi/internal/wasmstore"
)

func newTestExecutor(code []ir.Instruction, store *wasmstore.Store) *Executor {
	if store == nil {
		store = wasmstore.NewStore(wasmstore.Config{})
	}
	return NewExecutor(code, 8, 4, nil, nil, store)
}

func TestAdd_RegReg(t *testing.T) {
	code := []ir.Instruction{
		ir.ArithBinary(ir.OpI32Add, ir.Reg(2), ir.Reg(0), ir.Reg(1)),
		ir.NewReturnReg(ir.Reg(2)),
	}
	e := newTestExecutor(code, nil)
	e.SetRegister(0, ir.FromI32(5))
	e.SetRegister(1, ir.FromI32(7))
	res, tr := e.Run()
	require.Nil(t, tr)
	require.True(t, res.HasValue)
	require.Equal(t, int32(12), res.Value.I32())
}

func TestDivS_ByZero_Traps(t *testing.T) {
	code := []ir.Instruction{
		ir.ArithBinary(ir.OpI32DivS, ir.Reg(2), ir.Reg(0), ir.Reg(1)),
		ir.NewReturnReg(ir.Reg(2)),
	}
	e := newTestExecutor(code, nil)
	e.SetRegister(0, ir.FromI32(10))
	e.SetRegister(1, ir.FromI32(0))
	_, tr := e.Run()
	require.NotNil(t, tr)
	require.Equal(t, IntegerDivisionByZero, tr.Code)
}

func TestDivS_MinIntByNegOne_Overflows(t *testing.T) {
	code := []ir.Instruction{
		ir.ArithBinary(ir.OpI32DivS, ir.Reg(2), ir.Reg(0), ir.Reg(1)),
		ir.NewReturnReg(ir.Reg(2)),
	}
	e := newTestExecutor(code, nil)
	e.SetRegister(0, ir.FromI32(-2147483648))
	e.SetRegister(1, ir.FromI32(-1))
	_, tr := e.Run()
	require.NotNil(t, tr)
	require.Equal(t, IntegerOverflow, tr.Code)
}

// TestSelectImm32_TypedConstants mirrors spec.md §8.3's "typed select of
// two constants" scenario.
func TestSelectImm32_TypedConstants(t *testing.T) {
	code := []ir.Instruction{
		ir.NewSelectImm32(ir.Reg(1), ir.Reg(0), 111),
		ir.NewParamImm32(222),
		ir.NewReturnReg(ir.Reg(1)),
	}
	e := newTestExecutor(code, nil)
	e.SetRegister(0, ir.FromI32(1)) // condition true
	res, tr := e.Run()
	require.Nil(t, tr)
	require.Equal(t, int32(111), res.Value.I32())

	e2 := newTestExecutor(code, nil)
	e2.SetRegister(0, ir.FromI32(0)) // condition false
	res2, tr2 := e2.Run()
	require.Nil(t, tr2)
	require.Equal(t, int32(222), res2.Value.I32())
}

// TestBranchCmpFusion_Loop counts register 0 up to 3 via a fused
// compare-and-branch, then returns it — the "compare-branch fusion"
// scenario from spec.md §8.
func TestBranchCmpFusion_Loop(t *testing.T) {
	// 0: r0 = r0 + 1
	// 1: consume_fuel(1)
	// 2: branch_cmp(r0 < 3) -> -2 (back to slot 0)
	// 3: return r0
	code := make([]ir.Instruction, 4)
	code[0] = ir.ArithBinaryImm16(ir.OpI32AddImm16, ir.Reg(0), ir.Reg(0), 1)
	code[1] = ir.NewConsumeFuel(1)
	off, err := ir.BranchOffset16FromBranchOffset(ir.BranchOffsetFromI32(-2))
	require.NoError(t, err)
	code[2] = ir.NewBranchCmp(ir.I32LtS, ir.Reg(0), ir.Reg(1), off)
	code[3] = ir.NewReturnReg(ir.Reg(0))

	store := wasmstore.NewStore(wasmstore.Config{})
	e := newTestExecutor(code, store)
	e.SetRegister(0, ir.FromI32(0))
	e.SetRegister(1, ir.FromI32(3))
	res, tr := e.Run()
	require.Nil(t, tr)
	require.Equal(t, int32(3), res.Value.I32())
}

// TestConsumeFuel_TrapsAfterExactBudget pins the scenario spec.md §8
// names explicitly: a budget of 3 succeeds exactly 3 times, then traps
// on the 4th charge — not before, not after.
func TestConsumeFuel_TrapsAfterExactBudget(t *testing.T) {
	code := make([]ir.Instruction, 4)
	code[0] = ir.ArithBinaryImm16(ir.OpI32AddImm16, ir.Reg(0), ir.Reg(0), 1)
	code[1] = ir.NewConsumeFuel(1)
	off, err := ir.BranchOffset16FromBranchOffset(ir.BranchOffsetFromI32(-2))
	require.NoError(t, err)
	code[2] = ir.NewBranchCmp(ir.I32LtS, ir.Reg(0), ir.Reg(1), off)
	code[3] = ir.NewReturnReg(ir.Reg(0))

	store := wasmstore.NewStore(wasmstore.Config{InitialFuel: 3, FuelEnabled: true})
	e := newTestExecutor(code, store)
	e.SetRegister(0, ir.FromI32(0))
	e.SetRegister(1, ir.FromI32(100)) // never naturally exits the loop
	_, tr := e.Run()
	require.NotNil(t, tr)
	require.Equal(t, OutOfFuel, tr.Code)
}

func TestStoreLoad32_RoundTrip(t *testing.T) {
	store := wasmstore.NewStore(wasmstore.Config{})
	store.AddMemory(wasmstore.NewMemory(1, 1))

	off16, err := ir.BranchOffset16FromBranchOffset(ir.BranchOffsetFromI32(8))
	require.NoError(t, err)
	code := []ir.Instruction{
		ir.NewStoreOffset16(ir.OpStore32, ir.Reg(0), off16, ir.Reg(1)),
		ir.NewLoadOffset16(ir.OpLoad32, ir.Reg(2), ir.Reg(0), off16),
		ir.NewReturnReg(ir.Reg(2)),
	}
	e := newTestExecutor(code, store)
	e.SetRegister(0, ir.FromU32(0))         // base pointer
	e.SetRegister(1, ir.FromI32(0x12345678)) // value to store
	res, tr := e.Run()
	require.Nil(t, tr)
	require.Equal(t, int32(0x12345678), res.Value.I32())
}

func TestStore_OutOfBounds_Traps(t *testing.T) {
	store := wasmstore.NewStore(wasmstore.Config{})
	store.AddMemory(wasmstore.NewMemory(1, 1)) // one page = 64 KiB

	off16 := ir.UninitBranchOffset16()
	code := []ir.Instruction{
		ir.NewStoreOffset16(ir.OpStore32, ir.Reg(0), off16, ir.Reg(1)),
		ir.NewReturnReg(ir.Reg(1)),
	}
	e := newTestExecutor(code, store)
	e.SetRegister(0, ir.FromU32(wasmstore.PageSize-2)) // leaves only 2 bytes, need 4
	e.SetRegister(1, ir.FromI32(1))
	_, tr := e.Run()
	require.NotNil(t, tr)
	require.Equal(t, MemoryOutOfBounds, tr.Code)
}

func TestMemoryGrow_InvalidatesDefaultMemoryCache(t *testing.T) {
	store := wasmstore.NewStore(wasmstore.Config{})
	store.AddMemory(wasmstore.NewMemory(1, 4))

	off16, err := ir.BranchOffset16FromBranchOffset(ir.BranchOffsetFromI32(0))
	require.NoError(t, err)
	_ = off16 // offset 0 is indistinguishable from uninitialized; use a nonzero one below instead
	offset, err := ir.BranchOffset16FromBranchOffset(ir.BranchOffsetFromI32(4))
	require.NoError(t, err)

	code := []ir.Instruction{
		ir.NewMemoryGrow(ir.Reg(2), ir.Reg(1), 0),
		ir.NewStoreOffset16(ir.OpStore32, ir.Reg(0), offset, ir.Reg(3)),
		ir.NewLoadOffset16(ir.OpLoad32, ir.Reg(4), ir.Reg(0), offset),
		ir.NewReturnReg(ir.Reg(4)),
	}
	e := newTestExecutor(code, store)
	e.SetRegister(0, ir.FromU32(wasmstore.PageSize)) // base pointer: start of page 2 (doesn't exist yet)
	e.SetRegister(1, ir.FromU32(1))                  // grow by one page
	e.SetRegister(3, ir.FromI32(99))
	res, tr := e.Run()
	require.Nil(t, tr)
	require.Equal(t, int32(99), res.Value.I32())
	require.Equal(t, uint32(2), store.Memories[0].SizeInPages())
}

// TestReturnI64Imm32_SignExtends pins the fix for decoding
// OpReturnI64Imm32 with sign extension rather than zero extension: a
// negative 32-bit immediate must read back as a negative i64.
func TestReturnI64Imm32_SignExtends(t *testing.T) {
	code := []ir.Instruction{
		ir.NewReturnI64Imm32(-42),
	}
	e := newTestExecutor(code, nil)
	res, tr := e.Run()
	require.Nil(t, tr)
	require.Equal(t, int64(-42), res.Value.I64())
}

// TestReturnF64Imm32_WidensF32BitPattern pins the fix for decoding
// OpReturnF64Imm32: the inline Imm32 is an f32 bit pattern that must be
// widened to its f64 value, not reinterpreted as raw low bits.
func TestReturnF64Imm32_WidensF32BitPattern(t *testing.T) {
	code := []ir.Instruction{
		ir.NewReturnF64Imm32(ir.FromF32(1.5).U32()),
	}
	e := newTestExecutor(code, nil)
	res, tr := e.Run()
	require.Nil(t, tr)
	require.Equal(t, float64(1.5), res.Value.F64())
}

// TestGlobalGetSet_RoundTrip exercises the Store-backed global opcodes.
func TestGlobalGetSet_RoundTrip(t *testing.T) {
	store := wasmstore.NewStore(wasmstore.Config{})
	store.AddGlobal(&wasmstore.Global{Value: ir.FromI32(10), Mutable: true})

	code := []ir.Instruction{
		ir.NewGlobalGet(ir.Reg(0), 0),
		ir.ArithBinaryImm16(ir.OpI32AddImm16, ir.Reg(1), ir.Reg(0), 5),
		ir.NewGlobalSet(ir.Reg(1), 0),
		ir.NewReturnReg(ir.Reg(1)),
	}
	e := newTestExecutor(code, store)
	res, tr := e.Run()
	require.Nil(t, tr)
	require.Equal(t, int32(15), res.Value.I32())
	require.Equal(t, int32(15), store.Globals[0].Value.I32())
}

func TestV128StoreLoad_RoundTrip(t *testing.T) {
	store := wasmstore.NewStore(wasmstore.Config{})
	store.AddMemory(wasmstore.NewMemory(1, 1))

	off16, err := ir.BranchOffset16FromBranchOffset(ir.BranchOffsetFromI32(16))
	require.NoError(t, err)
	code := []ir.Instruction{
		ir.NewStoreOffset16(ir.OpV128Store, ir.Reg(0), off16, ir.Reg(1)),
		ir.NewLoadOffset16(ir.OpV128Load, ir.Reg(2), ir.Reg(0), off16),
		ir.NewReturnReg(ir.Reg(0)),
	}
	e := newTestExecutor(code, store)
	e.SetRegister(0, ir.FromU32(0))
	e.SetRegisterV128(1, ir.FromU128(0x1122334455667788, 0x99AABBCCDDEEFF00))
	_, tr := e.Run()
	require.Nil(t, tr)
	got := e.GetRegisterV128(2)
	lo, hi := got.U128()
	require.Equal(t, uint64(0x1122334455667788), lo)
	require.Equal(t, uint64(0x99AABBCCDDEEFF00), hi)
}
