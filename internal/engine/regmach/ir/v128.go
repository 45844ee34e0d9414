package ir

import "encoding/binary"

// V128 is a 128-bit SIMD value. It is stored alongside the 64-bit
// UntypedVal cell in a parallel register file rather than folded into
// it, since a register's static type at each read site already tells
// the executor which array to index.
type V128 [16]byte

// U128 returns the vector's bit pattern as a little-endian uint128 split
// into low/high 64-bit halves.
func (v V128) U128() (lo, hi uint64) {
	return binary.LittleEndian.Uint64(v[0:8]), binary.LittleEndian.Uint64(v[8:16])
}

// FromU128 builds a V128 from little-endian low/high 64-bit halves.
func FromU128(lo, hi uint64) V128 {
	var v V128
	binary.LittleEndian.PutUint64(v[0:8], lo)
	binary.LittleEndian.PutUint64(v[8:16], hi)
	return v
}

// Bytes returns the vector's 16 lanes in wire (little-endian) order.
//
// This is deliberately explicit rather than relying on the host's native
// byte order: original_source's `i8x16_shuffle` selector decoding used
// `to_ne_bytes`, a documented bug, since the wire encoding is always
// little-endian regardless of host architecture.
func (v V128) Bytes() [16]byte {
	return v
}

// V128FromBytes builds a V128 from 16 wire-order (little-endian) lane
// bytes.
func V128FromBytes(b [16]byte) V128 {
	return V128(b)
}
