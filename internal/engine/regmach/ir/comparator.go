package ir

// Comparator names a primitive scalar test used to fuse a comparison
// with a conditional branch into a single instruction. The ordinals are
// contiguous from zero so that decoding a 32-bit wire value is a simple
// range check.
type Comparator uint32

const (
	I32Eq Comparator = iota
	I32Ne
	I32LtS
	I32LtU
	I32LeS
	I32LeU
	I32GtS
	I32GtU
	I32GeS
	I32GeU

	// I32And, I32Or, I32Xor and their *Eqz forms are "reduced" compound
	// comparators: they let the translator fuse a logical op with a
	// conditional branch (e.g. `i32.and; i32.eqz; br_if` collapses to a
	// single AndEqz-comparator branch) rather than spending an extra
	// instruction slot on the logical op.
	I32And
	I32Or
	I32Xor
	I32AndEqz
	I32OrEqz
	I32XorEqz

	I64Eq
	I64Ne
	I64LtS
	I64LtU
	I64LeS
	I64LeU
	I64GtS
	I64GtU
	I64GeS
	I64GeU

	F32Eq
	F32Ne
	F32Lt
	F32Le
	F32Gt
	F32Ge
	F64Eq
	F64Ne
	F64Lt
	F64Le
	F64Gt
	F64Ge

	comparatorCount
)

// ComparatorFromU32 decodes a Comparator from its wire ordinal,
// range-checking it.
func ComparatorFromU32(v uint32) (Comparator, error) {
	if v >= uint32(comparatorCount) {
		return 0, ErrComparatorOutOfBounds
	}
	return Comparator(v), nil
}

// ComparatorAndOffset packs a Comparator and a BranchOffset into a
// single 64-bit word, so that a general "compare-and-branch" instruction
// can store both of its parameters in one constant-pool slot referenced
// by a single register id.
type ComparatorAndOffset struct {
	Cmp    Comparator
	Offset BranchOffset
}

// NewComparatorAndOffset builds a ComparatorAndOffset pair.
func NewComparatorAndOffset(cmp Comparator, offset BranchOffset) ComparatorAndOffset {
	return ComparatorAndOffset{Cmp: cmp, Offset: offset}
}

// AsU64 packs the pair into a 64-bit word: the high 32 bits hold the
// comparator ordinal, the low 32 bits hold the offset reinterpreted as
// unsigned.
//
// original_source computes this as `hi << 32 & lo`, which is a bug —
// bitwise-AND against the low word zeroes it out whenever any high bit
// is set. The correct (and here, authoritative) expression is
// bitwise-OR, which is what ComparatorAndOffset::from_u64 already
// assumes when unpacking.
func (c ComparatorAndOffset) AsU64() uint64 {
	hi := uint64(uint32(c.Cmp))
	lo := uint64(uint32(c.Offset.ToI32()))
	return hi<<32 | lo
}

// ComparatorAndOffsetFromU64 unpacks a ComparatorAndOffset from a 64-bit
// word, range-checking the comparator half. Returns false if the
// encoding is invalid.
func ComparatorAndOffsetFromU64(value uint64) (ComparatorAndOffset, bool) {
	hi := uint32(value >> 32)
	lo := uint32(value & 0xFFFF_FFFF)
	cmp, err := ComparatorFromU32(hi)
	if err != nil {
		return ComparatorAndOffset{}, false
	}
	return ComparatorAndOffset{Cmp: cmp, Offset: BranchOffsetFromI32(int32(lo))}, true
}

// ComparatorAndOffsetFromUntyped unpacks a ComparatorAndOffset from the
// UntypedVal stored in a constant-pool slot.
func ComparatorAndOffsetFromUntyped(v UntypedVal) (ComparatorAndOffset, bool) {
	return ComparatorAndOffsetFromU64(v.U64())
}

// Untyped packs the pair back into the UntypedVal representation used
// when it is stored as a constant-pool entry.
func (c ComparatorAndOffset) Untyped() UntypedVal {
	return FromU64(c.AsU64())
}
