package executor

import (
	"encoding/binary"

	"github.com/orsinium-forks/wasmi/internal/engine/regmach/ir"
	"github.com/orsinium-forks/wasmi/internal/wasmstore"
)

// memAddrKind distinguishes the three addressing forms every store[N]
// and load[N] family gets (spec.md §4.2): a runtime base pointer plus a
// 64-bit offset split across two slots, a runtime base pointer plus a
// 16-bit offset folded inline against the default memory, or a fully
// baked-in absolute address.
type memAddrKind int

const (
	memGeneric memAddrKind = iota
	memOffset16
	memAt
)

type storeDesc struct {
	kind  memAddrKind
	width int
	imm   bool
}

type loadDesc struct {
	kind        memAddrKind
	srcWidth    int
	resultWidth int
	signed      bool
}

var storeDescs = map[ir.Opcode]storeDesc{
	ir.OpStore32:              {memGeneric, 4, false},
	ir.OpStore32Imm16:         {memGeneric, 4, true},
	ir.OpStore32Offset16:      {memOffset16, 4, false},
	ir.OpStore32Offset16Imm16: {memOffset16, 4, true},
	ir.OpStore32At:            {memAt, 4, false},
	ir.OpStore32AtImm16:       {memAt, 4, true},

	ir.OpStore64:              {memGeneric, 8, false},
	ir.OpStore64Imm16:         {memGeneric, 8, true},
	ir.OpStore64Offset16:      {memOffset16, 8, false},
	ir.OpStore64Offset16Imm16: {memOffset16, 8, true},
	ir.OpStore64At:            {memAt, 8, false},
	ir.OpStore64AtImm16:       {memAt, 8, true},

	ir.OpI32Store8:             {memGeneric, 1, false},
	ir.OpI32Store8Imm:          {memGeneric, 1, true},
	ir.OpI32Store8Offset16:     {memOffset16, 1, false},
	ir.OpI32Store8Offset16Imm:  {memOffset16, 1, true},
	ir.OpI32Store8At:           {memAt, 1, false},
	ir.OpI32Store8AtImm:        {memAt, 1, true},

	ir.OpI32Store16:            {memGeneric, 2, false},
	ir.OpI32Store16Imm:         {memGeneric, 2, true},
	ir.OpI32Store16Offset16:    {memOffset16, 2, false},
	ir.OpI32Store16Offset16Imm: {memOffset16, 2, true},
	ir.OpI32Store16At:          {memAt, 2, false},
	ir.OpI32Store16AtImm:       {memAt, 2, true},

	ir.OpI64Store8:             {memGeneric, 1, false},
	ir.OpI64Store8Imm:          {memGeneric, 1, true},
	ir.OpI64Store8Offset16:     {memOffset16, 1, false},
	ir.OpI64Store8Offset16Imm:  {memOffset16, 1, true},
	ir.OpI64Store8At:           {memAt, 1, false},
	ir.OpI64Store8AtImm:        {memAt, 1, true},

	ir.OpI64Store16:            {memGeneric, 2, false},
	ir.OpI64Store16Imm:         {memGeneric, 2, true},
	ir.OpI64Store16Offset16:    {memOffset16, 2, false},
	ir.OpI64Store16Offset16Imm: {memOffset16, 2, true},
	ir.OpI64Store16At:          {memAt, 2, false},
	ir.OpI64Store16AtImm:       {memAt, 2, true},

	ir.OpI64Store32:              {memGeneric, 4, false},
	ir.OpI64Store32Imm16:         {memGeneric, 4, true},
	ir.OpI64Store32Offset16:      {memOffset16, 4, false},
	ir.OpI64Store32Offset16Imm16: {memOffset16, 4, true},
	ir.OpI64Store32At:            {memAt, 4, false},
	ir.OpI64Store32AtImm16:       {memAt, 4, true},
}

var loadDescs = map[ir.Opcode]loadDesc{
	ir.OpLoad32:         {memGeneric, 4, 4, false},
	ir.OpLoad32Offset16: {memOffset16, 4, 4, false},
	ir.OpLoad32At:       {memAt, 4, 4, false},

	ir.OpLoad64:         {memGeneric, 8, 8, false},
	ir.OpLoad64Offset16: {memOffset16, 8, 8, false},
	ir.OpLoad64At:       {memAt, 8, 8, false},

	ir.OpI32Load8S:         {memGeneric, 1, 4, true},
	ir.OpI32Load8SOffset16: {memOffset16, 1, 4, true},
	ir.OpI32Load8SAt:       {memAt, 1, 4, true},
	ir.OpI32Load8U:         {memGeneric, 1, 4, false},
	ir.OpI32Load8UOffset16: {memOffset16, 1, 4, false},
	ir.OpI32Load8UAt:       {memAt, 1, 4, false},

	ir.OpI32Load16S:         {memGeneric, 2, 4, true},
	ir.OpI32Load16SOffset16: {memOffset16, 2, 4, true},
	ir.OpI32Load16SAt:       {memAt, 2, 4, true},
	ir.OpI32Load16U:         {memGeneric, 2, 4, false},
	ir.OpI32Load16UOffset16: {memOffset16, 2, 4, false},
	ir.OpI32Load16UAt:       {memAt, 2, 4, false},

	ir.OpI64Load8S:         {memGeneric, 1, 8, true},
	ir.OpI64Load8SOffset16: {memOffset16, 1, 8, true},
	ir.OpI64Load8SAt:       {memAt, 1, 8, true},
	ir.OpI64Load8U:         {memGeneric, 1, 8, false},
	ir.OpI64Load8UOffset16: {memOffset16, 1, 8, false},
	ir.OpI64Load8UAt:       {memAt, 1, 8, false},

	ir.OpI64Load16S:         {memGeneric, 2, 8, true},
	ir.OpI64Load16SOffset16: {memOffset16, 2, 8, true},
	ir.OpI64Load16SAt:       {memAt, 2, 8, true},
	ir.OpI64Load16U:         {memGeneric, 2, 8, false},
	ir.OpI64Load16UOffset16: {memOffset16, 2, 8, false},
	ir.OpI64Load16UAt:       {memAt, 2, 8, false},

	ir.OpI64Load32S:         {memGeneric, 4, 8, true},
	ir.OpI64Load32SOffset16: {memOffset16, 4, 8, true},
	ir.OpI64Load32SAt:       {memAt, 4, 8, true},
	ir.OpI64Load32U:         {memGeneric, 4, 8, false},
	ir.OpI64Load32UOffset16: {memOffset16, 4, 8, false},
	ir.OpI64Load32UAt:       {memAt, 4, 8, false},
}

// tryMemory handles every store[N]/load[N] opcode. Unlike tryArith it
// owns instruction-pointer advancement itself, since the three
// addressing kinds have different slot counts.
func (e *Executor) tryMemory(instr ir.Instruction) (handled bool, t *Trap) {
	if desc, ok := storeDescs[instr.Op]; ok {
		mem, addr, slots := e.storeAddr(instr, desc.kind)
		value := e.storeValue(instr, desc.kind, desc.imm)
		if tr := storeBytes(mem, addr, desc.width, value); tr != nil {
			return true, tr
		}
		e.ip += ir.InstrIdx(slots)
		return true, nil
	}
	if desc, ok := loadDescs[instr.Op]; ok {
		mem, addr, slots := e.loadAddr(instr, desc.kind)
		val, tr := loadBytes(mem, addr, desc.srcWidth, desc.resultWidth, desc.signed)
		if tr != nil {
			return true, tr
		}
		e.set(instr.Result, val)
		e.ip += ir.InstrIdx(slots)
		return true, nil
	}
	return false, nil
}

func (e *Executor) resolveMemOrPanic(idx uint32) *wasmstore.Memory {
	mem, err := e.memory(idx)
	if err != nil {
		panic("executor: memory access against unregistered memory index")
	}
	return mem
}

func (e *Executor) storeAddr(instr ir.Instruction, kind memAddrKind) (mem *wasmstore.Memory, addr uint64, slots int) {
	switch kind {
	case memGeneric:
		mem = e.resolveMemOrPanic(instr.Mem)
		ptr := e.get(instr.A).U32()
		param := e.param().AsParamRegisterAndImm32()
		return mem, uint64(ptr) + ir.CombineOffset64(instr.Imm32, param.Imm32), 2
	case memOffset16:
		mem = e.resolveMemOrPanic(0)
		ptr := e.get(instr.A).U32()
		return mem, uint64(ptr) + uint64(uint16(instr.Off16.ToI16())), 1
	default: // memAt
		mem = e.resolveMemOrPanic(instr.Mem)
		return mem, uint64(instr.Imm32), 1
	}
}

// storeValue extracts the value (or immediate) operand. Its field
// position depends on both the addressing kind and whether this is an
// immediate-value store: NewStoreAt puts a register value in A (there
// being no ptr operand to occupy it) but an immediate in B, while
// NewStoreOffset16/NewStoreOffset16Imm always use B for either.
func (e *Executor) storeValue(instr ir.Instruction, kind memAddrKind, imm bool) uint64 {
	var raw ir.Reg
	switch kind {
	case memGeneric:
		raw = e.param().AsParamRegisterAndImm32().Reg
	case memOffset16:
		raw = instr.B
	default: // memAt
		if imm {
			raw = instr.B
		} else {
			raw = instr.A
		}
	}
	if imm {
		return uint64(int64(int16(raw)))
	}
	return e.get(raw).U64()
}

// storeValueV128 is storeValue's vector counterpart: V128 stores have
// no immediate form, so every kind reads a register.
func (e *Executor) storeValueV128(instr ir.Instruction, kind memAddrKind) ir.V128 {
	switch kind {
	case memGeneric:
		return e.getV128(e.param().AsParamRegisterAndImm32().Reg)
	case memOffset16:
		return e.getV128(instr.B)
	default: // memAt
		return e.getV128(instr.A)
	}
}

func (e *Executor) loadAddr(instr ir.Instruction, kind memAddrKind) (mem *wasmstore.Memory, addr uint64, slots int) {
	switch kind {
	case memGeneric:
		mem = e.resolveMemOrPanic(instr.Mem)
		ptr := e.get(instr.A).U32()
		param := e.param().AsParamImm32()
		return mem, uint64(ptr) + ir.CombineOffset64(instr.Imm32, param.Imm32), 2
	case memOffset16:
		mem = e.resolveMemOrPanic(0)
		ptr := e.get(instr.A).U32()
		return mem, uint64(ptr) + uint64(uint16(instr.Off16.ToI16())), 1
	default: // memAt
		mem = e.resolveMemOrPanic(instr.Mem)
		return mem, uint64(instr.Imm32), 1
	}
}

// storeBytes writes the low width bytes of value, little-endian, at
// addr. Traps MemoryOutOfBounds rather than panicking: an out-of-bounds
// access is a guest program error, not an engine bug.
func storeBytes(mem *wasmstore.Memory, addr uint64, width int, value uint64) *Trap {
	data := mem.DataMut()
	if addr+uint64(width) > uint64(len(data)) {
		return trap(MemoryOutOfBounds)
	}
	switch width {
	case 1:
		data[addr] = byte(value)
	case 2:
		binary.LittleEndian.PutUint16(data[addr:], uint16(value))
	case 4:
		binary.LittleEndian.PutUint32(data[addr:], uint32(value))
	case 8:
		binary.LittleEndian.PutUint64(data[addr:], value)
	}
	return nil
}

// loadBytes reads srcWidth little-endian bytes at addr and widens the
// result to resultWidth bytes, sign-extending when signed is set.
func loadBytes(mem *wasmstore.Memory, addr uint64, srcWidth, resultWidth int, signed bool) (ir.UntypedVal, *Trap) {
	data := mem.DataMut()
	if addr+uint64(srcWidth) > uint64(len(data)) {
		return 0, trap(MemoryOutOfBounds)
	}
	var raw uint64
	switch srcWidth {
	case 1:
		raw = uint64(data[addr])
	case 2:
		raw = uint64(binary.LittleEndian.Uint16(data[addr:]))
	case 4:
		raw = uint64(binary.LittleEndian.Uint32(data[addr:]))
	case 8:
		raw = binary.LittleEndian.Uint64(data[addr:])
	}
	if !signed {
		return ir.FromU64(raw), nil
	}
	shift := 64 - srcWidth*8
	sval := int64(raw<<shift) >> shift
	if resultWidth == 4 {
		return ir.FromI32(int32(sval)), nil
	}
	return ir.FromI64(sval), nil
}
