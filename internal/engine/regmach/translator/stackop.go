// Package translator lowers a validated stack-machine instruction
// sequence into the flat register-machine encoding the executor walks:
// immediate folding, commutativity-driven operand ordering, algebraic
// identities, select lowering, branch patching, and compare-then-branch
// fusion.
package translator

// ValType is the value type an operand carries. The translator needs
// this to pick the right opcode family (i32 vs. i64 vs. f32 vs. f64) for
// an otherwise type-agnostic StackOp.
type ValType uint8

const (
	I32 ValType = iota
	I64
	F32
	F64
)

// BinOp names an arithmetic or bitwise binary operator, independent of
// operand width — Type on the owning StackOp selects the width.
type BinOp uint8

const (
	Add BinOp = iota
	Sub
	Mul
	DivS
	DivU
	RemS
	RemU
	And
	Or
	Xor
	Shl
	ShrS
	ShrU
	Rotl
	Rotr
	Div // float division (f32/f64); integers use DivS/DivU
	Min
	Max
	Copysign
)

// CmpOp names a comparison operator. Pushed as a pending (not yet
// materialized) boolean so a following BrIf can fuse it directly into a
// branch instead of paying for a separate OpCmp.
type CmpOp uint8

const (
	Eq CmpOp = iota
	Ne
	LtS
	LtU
	LeS
	LeU
	GtS
	GtU
	GeS
	GeU

	// Bitwise-reduced comparators: fuse a logical op with an eqz test,
	// exercising ir.Comparator's I32And/Or/Xor/*Eqz family directly
	// rather than requiring the translator to pattern-match a
	// Binary{And}+Compare{Eqz}+BrIf triple across three separate
	// StackOps. I32 only.
	BitAnd
	BitOr
	BitXor
	BitAndEqz
	BitOrEqz
	BitXorEqz
)

// MemWidth names a load/store's transfer width and, for sub-32/64-bit
// widths, its sign-extension behavior on load.
type MemWidth uint8

const (
	Width32 MemWidth = iota
	Width64
	Width8S
	Width8U
	Width16S
	Width16U
	Width32S // i64.load32_s / i64.store32 only valid combined with I64
	Width32U
)

// Kind discriminates the StackOp union.
type Kind uint8

const (
	OpConst Kind = iota
	OpLocalGet
	OpLocalSet
	OpLocalTee
	OpBinary
	OpCompare
	OpSelect
	OpBlock
	OpLoop
	OpEnd
	OpBr
	OpBrIf
	OpLoad
	OpStore
	OpMemorySize
	OpMemoryGrow
	OpGlobalGet
	OpGlobalSet
	OpReturn
	OpReturnValue
)

// StackOp is one entry of the stack-form instruction sequence the
// translator consumes. It stands in for "the validated source
// instruction stream" a binary-format parser/validator would otherwise
// produce — out of scope here, so tests build a []StackOp by hand.
type StackOp struct {
	Kind Kind
	Type ValType

	// OpConst
	ConstBits uint64 // reinterpret via ValType: i32/f32 in the low 32 bits, i64/f64 in all 64

	// OpLocalGet / OpLocalSet / OpLocalTee
	LocalIdx uint32

	// OpBinary
	Bin BinOp

	// OpCompare
	Cmp CmpOp

	// OpBlock / OpLoop: result type of the block, for completeness; this
	// translator does not produce multi-value block results (spec's
	// single-return-value model), so it is presently unused beyond
	// documentation of the source op.
	BlockResult ValType

	// OpBr / OpBrIf: how many enclosing blocks/loops to exit, 0 = the
	// innermost.
	Depth uint32

	// OpLoad / OpStore
	Width  MemWidth
	Offset uint64
	Mem    uint32

	// OpGlobalGet / OpGlobalSet
	GlobalIdx uint32
}
