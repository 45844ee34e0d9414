package ir

import "errors"

// Errors returned by the IR primitives. These are translation-time
// failures: pure values, never panics, surfaced to the embedder through
// the translator.
var (
	ErrBranchOffsetOutOfBounds = errors.New("ir: branch offset out of bounds")
	ErrBlockFuelOutOfBounds    = errors.New("ir: block fuel out of bounds")
	ErrComparatorOutOfBounds   = errors.New("ir: comparator out of bounds")
)

// InstrIdx is an index into a function's flat instruction sequence.
type InstrIdx uint32

// BranchOffset is a signed, instruction-pointer-delta (not byte-delta)
// offset for a conditional or unconditional branch.
//
// The zero value means "uninitialized": forward branches are emitted as
// a placeholder and patched via Init once their target address is known.
type BranchOffset struct {
	val int32
}

// BranchOffsetFromI32 wraps a raw (already-computed) i32 delta.
func BranchOffsetFromI32(v int32) BranchOffset {
	return BranchOffset{val: v}
}

// BranchOffsetFromSrcToDst computes the initialized offset from src to
// dst. Backward branches (dst <= src) can be computed immediately since
// their target is already known.
func BranchOffsetFromSrcToDst(src, dst InstrIdx) (BranchOffset, error) {
	delta := int64(dst) - int64(src)
	if delta < int64(minInt32) || delta > int64(maxInt32) {
		return BranchOffset{}, ErrBranchOffsetOutOfBounds
	}
	return BranchOffset{val: int32(delta)}, nil
}

// UninitBranchOffset returns an uninitialized BranchOffset, the
// placeholder emitted for a forward branch before its target is known.
func UninitBranchOffset() BranchOffset { return BranchOffset{} }

// IsInit reports whether the offset has been patched to a real value.
func (o BranchOffset) IsInit() bool { return o.val != 0 }

// Init patches an uninitialized offset to validOffset.
//
// Panics if o is already initialized or if validOffset itself is not
// initialized — both indicate a bug in the translator's fix-up
// bookkeeping, not a condition the embedder can recover from.
func (o *BranchOffset) Init(validOffset BranchOffset) {
	if !validOffset.IsInit() {
		panic("ir: Init called with an uninitialized BranchOffset")
	}
	if o.IsInit() {
		panic("ir: BranchOffset already initialized")
	}
	*o = validOffset
}

// ToI32 returns the offset as a raw instruction-pointer delta.
func (o BranchOffset) ToI32() int32 { return o.val }

// BranchOffset16 is the 16-bit-wide variant of BranchOffset, folded
// inline alongside other operands in a single instruction slot.
type BranchOffset16 struct {
	val int16
}

// BranchOffset16FromI16 wraps a raw 16-bit delta (test-only convenience,
// mirroring the Rust source's `#[cfg(test)] impl From<i16>`).
func BranchOffset16FromI16(v int16) BranchOffset16 {
	return BranchOffset16{val: v}
}

// UninitBranchOffset16 returns an uninitialized BranchOffset16.
func UninitBranchOffset16() BranchOffset16 { return BranchOffset16{} }

// IsInit reports whether the offset has been patched to a real value.
func (o BranchOffset16) IsInit() bool { return o.val != 0 }

// Init patches an uninitialized 16-bit offset from a (now-known) 32-bit
// offset, failing if it doesn't fit.
func (o *BranchOffset16) Init(validOffset BranchOffset) error {
	if !validOffset.IsInit() {
		panic("ir: Init called with an uninitialized BranchOffset")
	}
	if o.IsInit() {
		panic("ir: BranchOffset16 already initialized")
	}
	o16, err := BranchOffset16FromBranchOffset(validOffset)
	if err != nil {
		return err
	}
	*o = o16
	return nil
}

// BranchOffset16FromBranchOffset narrows a 32-bit offset to 16 bits,
// failing if it doesn't fit.
func BranchOffset16FromBranchOffset(o BranchOffset) (BranchOffset16, error) {
	v := o.ToI32()
	if v < int32(minInt16) || v > int32(maxInt16) {
		return BranchOffset16{}, ErrBranchOffsetOutOfBounds
	}
	return BranchOffset16{val: int16(v)}, nil
}

// ToI16 returns the offset as a raw instruction-pointer delta.
func (o BranchOffset16) ToI16() int16 { return o.val }

// ToBranchOffset widens a BranchOffset16 back to a full BranchOffset.
func (o BranchOffset16) ToBranchOffset() BranchOffset {
	return BranchOffset{val: int32(o.val)}
}

// BlockFuel is the 32-bit accumulated fuel cost of a basic block,
// charged in one shot by the ConsumeFuel opcode at block entry.
type BlockFuel struct {
	val uint32
}

// BlockFuelFromU64 constructs a BlockFuel from a 64-bit accumulator,
// failing if it overflows 32 bits.
func BlockFuelFromU64(v uint64) (BlockFuel, error) {
	if v > uint64(maxUint32) {
		return BlockFuel{}, ErrBlockFuelOutOfBounds
	}
	return BlockFuel{val: uint32(v)}, nil
}

// BumpBy adds amount to the fuel counter. It only ever fails — it never
// wraps or saturates silently.
func (f *BlockFuel) BumpBy(amount uint64) error {
	sum := f.ToU64() + amount
	if sum > uint64(maxUint32) {
		return ErrBlockFuelOutOfBounds
	}
	f.val = uint32(sum)
	return nil
}

// ToU64 returns the fuel counter widened to 64 bits.
func (f BlockFuel) ToU64() uint64 { return uint64(f.val) }

const (
	minInt16  = -1 << 15
	maxInt16  = 1<<15 - 1
	minInt32  = -1 << 31
	maxInt32  = 1<<31 - 1
	maxUint32 = 1<<32 - 1
)
