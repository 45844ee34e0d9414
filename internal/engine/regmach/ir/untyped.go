package ir

import "math"

// UntypedVal is a 64-bit bit-pattern container for a single register's
// scalar value. Its meaning is entirely determined by the opcode that
// reads or writes it: the same 64 bits may be read as an i32, i64, f32,
// or f64 depending on the static type of the register at that read
// site.
type UntypedVal uint64

// I32 returns the low 32 bits reinterpreted as a signed i32.
func (v UntypedVal) I32() int32 { return int32(uint32(v)) }

// U32 returns the low 32 bits reinterpreted as an unsigned u32.
func (v UntypedVal) U32() uint32 { return uint32(v) }

// I64 returns all 64 bits reinterpreted as a signed i64.
func (v UntypedVal) I64() int64 { return int64(v) }

// U64 returns all 64 bits as an unsigned u64.
func (v UntypedVal) U64() uint64 { return uint64(v) }

// F32 returns the low 32 bits reinterpreted as an IEEE-754 f32.
func (v UntypedVal) F32() float32 { return math.Float32frombits(uint32(v)) }

// F64 returns all 64 bits reinterpreted as an IEEE-754 f64.
func (v UntypedVal) F64() float64 { return math.Float64frombits(uint64(v)) }

// FromI32 writes an i32 into the low 32 bits; the upper 32 bits are
// defined to be zero.
func FromI32(x int32) UntypedVal { return UntypedVal(uint32(x)) }

// FromU32 writes a u32 into the low 32 bits; the upper 32 bits are
// defined to be zero.
func FromU32(x uint32) UntypedVal { return UntypedVal(x) }

// FromI64 writes an i64 occupying all 64 bits.
func FromI64(x int64) UntypedVal { return UntypedVal(x) }

// FromU64 writes a u64 occupying all 64 bits.
func FromU64(x uint64) UntypedVal { return UntypedVal(x) }

// FromF32 writes an f32's bit pattern into the low 32 bits; the upper 32
// bits are defined to be zero.
func FromF32(x float32) UntypedVal { return UntypedVal(math.Float32bits(x)) }

// FromF64 writes an f64's bit pattern occupying all 64 bits.
func FromF64(x float64) UntypedVal { return UntypedVal(math.Float64bits(x)) }
