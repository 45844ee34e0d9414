// Package simd implements the pure, lane-wise SIMD functions the
// executor calls after fetching its operands. Every function here is a
// plain value-in/value-out transform over ir.V128 — none of them touch
// registers, memory, or the instruction stream, matching
// original_source's `core::simd` module, which the executor's SIMD
// handlers call into after decoding their operands
// (`get_register_as::<V128>`) and before writing the result back
// (`set_register_as::<V128>`).
package simd

import (
	"encoding/binary"
	"math"

	"github.com/orsinium-forks/wasmi/internal/engine/regmach/ir"
)

func lanes8(v ir.V128) [16]int8 {
	b := v.Bytes()
	var out [16]int8
	for i, x := range b {
		out[i] = int8(x)
	}
	return out
}

func fromLanes8(l [16]int8) ir.V128 {
	var b [16]byte
	for i, x := range l {
		b[i] = byte(x)
	}
	return ir.V128FromBytes(b)
}

func lanes16(v ir.V128) [8]int16 {
	b := v.Bytes()
	var out [8]int16
	for i := 0; i < 8; i++ {
		out[i] = int16(binary.LittleEndian.Uint16(b[i*2 : i*2+2]))
	}
	return out
}

func fromLanes16(l [8]int16) ir.V128 {
	var b [16]byte
	for i, x := range l {
		binary.LittleEndian.PutUint16(b[i*2:i*2+2], uint16(x))
	}
	return ir.V128FromBytes(b)
}

func lanes32(v ir.V128) [4]int32 {
	b := v.Bytes()
	var out [4]int32
	for i := 0; i < 4; i++ {
		out[i] = int32(binary.LittleEndian.Uint32(b[i*4 : i*4+4]))
	}
	return out
}

func fromLanes32(l [4]int32) ir.V128 {
	var b [16]byte
	for i, x := range l {
		binary.LittleEndian.PutUint32(b[i*4:i*4+4], uint32(x))
	}
	return ir.V128FromBytes(b)
}

func lanes64(v ir.V128) [2]int64 {
	lo, hi := v.U128()
	return [2]int64{int64(lo), int64(hi)}
}

func fromLanes64(l [2]int64) ir.V128 {
	return ir.FromU128(uint64(l[0]), uint64(l[1]))
}

func lanesF32(v ir.V128) [4]float32 {
	raw := lanes32(v)
	var out [4]float32
	for i, x := range raw {
		out[i] = math.Float32frombits(uint32(x))
	}
	return out
}

func fromLanesF32(l [4]float32) ir.V128 {
	var raw [4]int32
	for i, x := range l {
		raw[i] = int32(math.Float32bits(x))
	}
	return fromLanes32(raw)
}

func lanesF64(v ir.V128) [2]float64 {
	raw := lanes64(v)
	var out [2]float64
	for i, x := range raw {
		out[i] = math.Float64frombits(uint64(x))
	}
	return out
}

func fromLanesF64(l [2]float64) ir.V128 {
	var raw [2]int64
	for i, x := range l {
		raw[i] = int64(math.Float64bits(x))
	}
	return fromLanes64(raw)
}

// --- unary: neg / abs / not --------------------------------------------

func I8x16Neg(v ir.V128) ir.V128 {
	l := lanes8(v)
	for i := range l {
		l[i] = -l[i]
	}
	return fromLanes8(l)
}

func I16x8Neg(v ir.V128) ir.V128 {
	l := lanes16(v)
	for i := range l {
		l[i] = -l[i]
	}
	return fromLanes16(l)
}

func I32x4Neg(v ir.V128) ir.V128 {
	l := lanes32(v)
	for i := range l {
		l[i] = -l[i]
	}
	return fromLanes32(l)
}

func I64x2Neg(v ir.V128) ir.V128 {
	l := lanes64(v)
	for i := range l {
		l[i] = -l[i]
	}
	return fromLanes64(l)
}

func F32x4Neg(v ir.V128) ir.V128 {
	l := lanesF32(v)
	for i := range l {
		l[i] = -l[i]
	}
	return fromLanesF32(l)
}

func F64x2Neg(v ir.V128) ir.V128 {
	l := lanesF64(v)
	for i := range l {
		l[i] = -l[i]
	}
	return fromLanesF64(l)
}

func absI8(x int8) int8 {
	if x < 0 {
		return -x
	}
	return x
}

func I8x16Abs(v ir.V128) ir.V128 {
	l := lanes8(v)
	for i := range l {
		l[i] = absI8(l[i])
	}
	return fromLanes8(l)
}

func I16x8Abs(v ir.V128) ir.V128 {
	l := lanes16(v)
	for i := range l {
		if l[i] < 0 {
			l[i] = -l[i]
		}
	}
	return fromLanes16(l)
}

func I32x4Abs(v ir.V128) ir.V128 {
	l := lanes32(v)
	for i := range l {
		if l[i] < 0 {
			l[i] = -l[i]
		}
	}
	return fromLanes32(l)
}

func I64x2Abs(v ir.V128) ir.V128 {
	l := lanes64(v)
	for i := range l {
		if l[i] < 0 {
			l[i] = -l[i]
		}
	}
	return fromLanes64(l)
}

func F32x4Abs(v ir.V128) ir.V128 {
	l := lanesF32(v)
	for i := range l {
		l[i] = float32(math.Abs(float64(l[i])))
	}
	return fromLanesF32(l)
}

func F64x2Abs(v ir.V128) ir.V128 {
	l := lanesF64(v)
	for i := range l {
		l[i] = math.Abs(l[i])
	}
	return fromLanesF64(l)
}

func V128Not(v ir.V128) ir.V128 {
	b := v.Bytes()
	for i := range b {
		b[i] = ^b[i]
	}
	return ir.V128FromBytes(b)
}

// --- binary: add / sub / mul / min / max / and / or / xor --------------

func I8x16Add(a, b ir.V128) ir.V128 {
	la, lb := lanes8(a), lanes8(b)
	var out [16]int8
	for i := range out {
		out[i] = la[i] + lb[i]
	}
	return fromLanes8(out)
}

func I16x8Add(a, b ir.V128) ir.V128 {
	la, lb := lanes16(a), lanes16(b)
	var out [8]int16
	for i := range out {
		out[i] = la[i] + lb[i]
	}
	return fromLanes16(out)
}

func I32x4Add(a, b ir.V128) ir.V128 {
	la, lb := lanes32(a), lanes32(b)
	var out [4]int32
	for i := range out {
		out[i] = la[i] + lb[i]
	}
	return fromLanes32(out)
}

func I64x2Add(a, b ir.V128) ir.V128 {
	la, lb := lanes64(a), lanes64(b)
	var out [2]int64
	for i := range out {
		out[i] = la[i] + lb[i]
	}
	return fromLanes64(out)
}

func F32x4Add(a, b ir.V128) ir.V128 {
	la, lb := lanesF32(a), lanesF32(b)
	var out [4]float32
	for i := range out {
		out[i] = la[i] + lb[i]
	}
	return fromLanesF32(out)
}

func F64x2Add(a, b ir.V128) ir.V128 {
	la, lb := lanesF64(a), lanesF64(b)
	var out [2]float64
	for i := range out {
		out[i] = la[i] + lb[i]
	}
	return fromLanesF64(out)
}

func I8x16Sub(a, b ir.V128) ir.V128 {
	la, lb := lanes8(a), lanes8(b)
	var out [16]int8
	for i := range out {
		out[i] = la[i] - lb[i]
	}
	return fromLanes8(out)
}

func I16x8Sub(a, b ir.V128) ir.V128 {
	la, lb := lanes16(a), lanes16(b)
	var out [8]int16
	for i := range out {
		out[i] = la[i] - lb[i]
	}
	return fromLanes16(out)
}

func I32x4Sub(a, b ir.V128) ir.V128 {
	la, lb := lanes32(a), lanes32(b)
	var out [4]int32
	for i := range out {
		out[i] = la[i] - lb[i]
	}
	return fromLanes32(out)
}

func I64x2Sub(a, b ir.V128) ir.V128 {
	la, lb := lanes64(a), lanes64(b)
	var out [2]int64
	for i := range out {
		out[i] = la[i] - lb[i]
	}
	return fromLanes64(out)
}

func F32x4Sub(a, b ir.V128) ir.V128 {
	la, lb := lanesF32(a), lanesF32(b)
	var out [4]float32
	for i := range out {
		out[i] = la[i] - lb[i]
	}
	return fromLanesF32(out)
}

func F64x2Sub(a, b ir.V128) ir.V128 {
	la, lb := lanesF64(a), lanesF64(b)
	var out [2]float64
	for i := range out {
		out[i] = la[i] - lb[i]
	}
	return fromLanesF64(out)
}

func I32x4Mul(a, b ir.V128) ir.V128 {
	la, lb := lanes32(a), lanes32(b)
	var out [4]int32
	for i := range out {
		out[i] = la[i] * lb[i]
	}
	return fromLanes32(out)
}

func F32x4Mul(a, b ir.V128) ir.V128 {
	la, lb := lanesF32(a), lanesF32(b)
	var out [4]float32
	for i := range out {
		out[i] = la[i] * lb[i]
	}
	return fromLanesF32(out)
}

func F64x2Mul(a, b ir.V128) ir.V128 {
	la, lb := lanesF64(a), lanesF64(b)
	var out [2]float64
	for i := range out {
		out[i] = la[i] * lb[i]
	}
	return fromLanesF64(out)
}

// f32Max and f64Max implement Wasm's NaN-propagating max: if either
// operand is NaN, the result is NaN regardless of operand order. Min is
// symmetric.

func f32Max(a, b float32) float32 {
	if math.IsNaN(float64(a)) || math.IsNaN(float64(b)) {
		return float32(math.NaN())
	}
	return float32(math.Max(float64(a), float64(b)))
}

func f32Min(a, b float32) float32 {
	if math.IsNaN(float64(a)) || math.IsNaN(float64(b)) {
		return float32(math.NaN())
	}
	return float32(math.Min(float64(a), float64(b)))
}

func f64Max(a, b float64) float64 {
	if math.IsNaN(a) || math.IsNaN(b) {
		return math.NaN()
	}
	return math.Max(a, b)
}

func f64Min(a, b float64) float64 {
	if math.IsNaN(a) || math.IsNaN(b) {
		return math.NaN()
	}
	return math.Min(a, b)
}

func F32x4Max(a, b ir.V128) ir.V128 {
	la, lb := lanesF32(a), lanesF32(b)
	var out [4]float32
	for i := range out {
		out[i] = f32Max(la[i], lb[i])
	}
	return fromLanesF32(out)
}

func F32x4Min(a, b ir.V128) ir.V128 {
	la, lb := lanesF32(a), lanesF32(b)
	var out [4]float32
	for i := range out {
		out[i] = f32Min(la[i], lb[i])
	}
	return fromLanesF32(out)
}

func F64x2Max(a, b ir.V128) ir.V128 {
	la, lb := lanesF64(a), lanesF64(b)
	var out [2]float64
	for i := range out {
		out[i] = f64Max(la[i], lb[i])
	}
	return fromLanesF64(out)
}

func F64x2Min(a, b ir.V128) ir.V128 {
	la, lb := lanesF64(a), lanesF64(b)
	var out [2]float64
	for i := range out {
		out[i] = f64Min(la[i], lb[i])
	}
	return fromLanesF64(out)
}

func V128And(a, b ir.V128) ir.V128 {
	ab, bb := a.Bytes(), b.Bytes()
	var out [16]byte
	for i := range out {
		out[i] = ab[i] & bb[i]
	}
	return ir.V128FromBytes(out)
}

func V128Or(a, b ir.V128) ir.V128 {
	ab, bb := a.Bytes(), b.Bytes()
	var out [16]byte
	for i := range out {
		out[i] = ab[i] | bb[i]
	}
	return ir.V128FromBytes(out)
}

func V128Xor(a, b ir.V128) ir.V128 {
	ab, bb := a.Bytes(), b.Bytes()
	var out [16]byte
	for i := range out {
		out[i] = ab[i] ^ bb[i]
	}
	return ir.V128FromBytes(out)
}

// V128Bitselect selects bits from a where selector is 1, from b where
// selector is 0: (a & selector) | (b & ^selector).
func V128Bitselect(a, b, selector ir.V128) ir.V128 {
	ab, bb, sb := a.Bytes(), b.Bytes(), selector.Bytes()
	var out [16]byte
	for i := range out {
		out[i] = (ab[i] & sb[i]) | (bb[i] & ^sb[i])
	}
	return ir.V128FromBytes(out)
}

// --- extract lane --------------------------------------------------------

func I8x16ExtractLaneS(v ir.V128, lane uint8) int32 { return int32(lanes8(v)[lane]) }
func I8x16ExtractLaneU(v ir.V128, lane uint8) int32 { return int32(uint8(lanes8(v)[lane])) }
func I16x8ExtractLaneS(v ir.V128, lane uint8) int32 { return int32(lanes16(v)[lane]) }
func I16x8ExtractLaneU(v ir.V128, lane uint8) int32 { return int32(uint16(lanes16(v)[lane])) }
func I32x4ExtractLane(v ir.V128, lane uint8) int32  { return lanes32(v)[lane] }
func I64x2ExtractLane(v ir.V128, lane uint8) int64  { return lanes64(v)[lane] }
func F32x4ExtractLane(v ir.V128, lane uint8) float32 { return lanesF32(v)[lane] }
func F64x2ExtractLane(v ir.V128, lane uint8) float64 { return lanesF64(v)[lane] }

// --- shift by immediate ----------------------------------------------------
//
// Each function reduces shiftAmount modulo its lane width before
// shifting (ShiftAmount<u32> in original_source).

func I8x16ShlByImm(v ir.V128, shiftAmount uint32) ir.V128 {
	l := lanes8(v)
	s := shiftAmount % 8
	for i := range l {
		l[i] = int8(uint8(l[i]) << s)
	}
	return fromLanes8(l)
}

func I16x8ShlByImm(v ir.V128, shiftAmount uint32) ir.V128 {
	l := lanes16(v)
	s := shiftAmount % 16
	for i := range l {
		l[i] = int16(uint16(l[i]) << s)
	}
	return fromLanes16(l)
}

func I32x4ShlByImm(v ir.V128, shiftAmount uint32) ir.V128 {
	l := lanes32(v)
	s := shiftAmount % 32
	for i := range l {
		l[i] = int32(uint32(l[i]) << s)
	}
	return fromLanes32(l)
}

func I64x2ShlByImm(v ir.V128, shiftAmount uint32) ir.V128 {
	l := lanes64(v)
	s := shiftAmount % 64
	for i := range l {
		l[i] = int64(uint64(l[i]) << s)
	}
	return fromLanes64(l)
}

func I8x16ShrSByImm(v ir.V128, shiftAmount uint32) ir.V128 {
	l := lanes8(v)
	s := shiftAmount % 8
	for i := range l {
		l[i] >>= s
	}
	return fromLanes8(l)
}

func I16x8ShrSByImm(v ir.V128, shiftAmount uint32) ir.V128 {
	l := lanes16(v)
	s := shiftAmount % 16
	for i := range l {
		l[i] >>= s
	}
	return fromLanes16(l)
}

func I32x4ShrSByImm(v ir.V128, shiftAmount uint32) ir.V128 {
	l := lanes32(v)
	s := shiftAmount % 32
	for i := range l {
		l[i] >>= s
	}
	return fromLanes32(l)
}

func I64x2ShrSByImm(v ir.V128, shiftAmount uint32) ir.V128 {
	l := lanes64(v)
	s := shiftAmount % 64
	for i := range l {
		l[i] >>= s
	}
	return fromLanes64(l)
}

func I8x16ShrUByImm(v ir.V128, shiftAmount uint32) ir.V128 {
	l := lanes8(v)
	s := shiftAmount % 8
	for i := range l {
		l[i] = int8(uint8(l[i]) >> s)
	}
	return fromLanes8(l)
}

func I16x8ShrUByImm(v ir.V128, shiftAmount uint32) ir.V128 {
	l := lanes16(v)
	s := shiftAmount % 16
	for i := range l {
		l[i] = int16(uint16(l[i]) >> s)
	}
	return fromLanes16(l)
}

func I32x4ShrUByImm(v ir.V128, shiftAmount uint32) ir.V128 {
	l := lanes32(v)
	s := shiftAmount % 32
	for i := range l {
		l[i] = int32(uint32(l[i]) >> s)
	}
	return fromLanes32(l)
}

func I64x2ShrUByImm(v ir.V128, shiftAmount uint32) ir.V128 {
	l := lanes64(v)
	s := shiftAmount % 64
	for i := range l {
		l[i] = int64(uint64(l[i]) >> s)
	}
	return fromLanes64(l)
}

// --- shuffle ---------------------------------------------------------------

// I8x16Shuffle builds the result vector by selecting, for each output
// lane i, byte selector[i] from the 32-byte concatenation of lhs and
// rhs. selector[i] must be in [0, 32) — the translator/validator
// guarantees this statically, so an out-of-range entry here is an
// internal-consistency bug, not a runtime condition to recover from.
//
// The selector is read in wire (little-endian) order via
// ir.V128.Bytes, not the host's native byte order — original_source's
// equivalent used `to_ne_bytes`, a documented bug on big-endian hosts.
func I8x16Shuffle(lhs, rhs ir.V128, selector [16]uint8) ir.V128 {
	lb, rb := lhs.Bytes(), rhs.Bytes()
	var both [32]byte
	copy(both[:16], lb[:])
	copy(both[16:], rb[:])
	var out [16]byte
	for i, idx := range selector {
		if idx >= 32 {
			panic("simd: shuffle selector lane index out of bounds")
		}
		out[i] = both[idx]
	}
	return ir.V128FromBytes(out)
}
