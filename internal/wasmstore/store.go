// Package wasmstore implements the Store façade (spec component C6):
// the owner of linear memories and globals that the executor borrows
// mutable byte slices and register operands from. It is the boundary
// contract spec.md §1 calls out as an external collaborator — in a
// full runtime a linker would construct one of these from a parsed
// module; here it is a small concrete type so the executor is testable
// standalone.
package wasmstore

import (
	"errors"

	"github.com/orsinium-forks/wasmi/internal/engine/regmach/ir"
)

// PageSize is the size, in bytes, of one unit of linear memory growth.
const PageSize = 64 * 1024

var (
	// ErrMemoryOutOfBounds describes a grow past the configured maximum.
	// Grow itself reports that case with ok == false and does not return
	// this error.
	ErrMemoryOutOfBounds = errors.New("wasmstore: memory grow out of bounds")
	// ErrNoSuchMemory is returned by ResolveMemoryMut for an unknown
	// index.
	ErrNoSuchMemory = errors.New("wasmstore: no such memory")
	// ErrNoSuchGlobal is returned by GlobalGet/GlobalSet for an unknown
	// index.
	ErrNoSuchGlobal = errors.New("wasmstore: no such global")
)

// Memory is a single growable linear memory.
type Memory struct {
	data     []byte
	maxPages uint32 // 0 means unbounded
}

// NewMemory creates a Memory with initPages pages already committed.
// maxPages bounds future growth; 0 means unbounded.
func NewMemory(initPages, maxPages uint32) *Memory {
	return &Memory{data: make([]byte, int(initPages)*PageSize), maxPages: maxPages}
}

// DataMut returns the memory's backing bytes for the duration of a
// single store/load opcode. Callers must not retain the returned slice
// across an opcode boundary: a subsequent Grow reallocates the backing
// array, which would silently alias stale memory otherwise.
func (m *Memory) DataMut() []byte { return m.data }

// SizeInPages returns the memory's current size in pages.
func (m *Memory) SizeInPages() uint32 { return uint32(len(m.data) / PageSize) }

// Grow adds delta pages, returning the previous size in pages, or false
// if the growth would exceed maxPages.
func (m *Memory) Grow(delta uint32) (previousPages uint32, ok bool) {
	previousPages = m.SizeInPages()
	newPages := previousPages + delta
	if m.maxPages != 0 && newPages > m.maxPages {
		return previousPages, false
	}
	grown := make([]byte, int(newPages)*PageSize)
	copy(grown, m.data)
	m.data = grown
	return previousPages, true
}

// Global is a single mutable-or-immutable global value cell.
type Global struct {
	Value   ir.UntypedVal
	Mutable bool
}

// Fuel is the embedder's remaining execution budget.
type Fuel struct {
	Remaining int64
	// Enabled is false when the store was constructed without an
	// explicit fuel budget: ConsumeFuel is then a no-op that never
	// traps, rather than treating the zero value as an already-
	// exhausted budget.
	Enabled bool
}

// Store owns a module instance's memories, globals, and the fuel
// budget the executor charges against. Tables/call_indirect are out of
// scope: an indirect call needs a function table populated by a
// linker, which this module never constructs (spec.md §1 excludes the
// linker and host-function invocation).
type Store struct {
	Memories []*Memory
	Globals  []*Global
	Fuel     Fuel
}

// Config configures a new Store. There is no file-based configuration
// surface — this is a library, and the embedder builds one of these
// programmatically, the same way wazero's api.RuntimeConfig is built.
type Config struct {
	// InitialFuel is the budget charged against by ConsumeFuel.
	InitialFuel int64
	// FuelEnabled turns on fuel metering. When false, ConsumeFuel is a
	// no-op that never traps.
	FuelEnabled bool
}

// NewStore creates an empty Store from cfg. Memories/Globals are added
// with AddMemory/AddGlobal.
func NewStore(cfg Config) *Store {
	return &Store{Fuel: Fuel{Remaining: cfg.InitialFuel, Enabled: cfg.FuelEnabled}}
}

// AddMemory registers a memory and returns its index.
func (s *Store) AddMemory(m *Memory) uint32 {
	s.Memories = append(s.Memories, m)
	return uint32(len(s.Memories) - 1)
}

// AddGlobal registers a global and returns its index.
func (s *Store) AddGlobal(g *Global) uint32 {
	s.Globals = append(s.Globals, g)
	return uint32(len(s.Globals) - 1)
}

// ResolveMemoryMut resolves memory index idx, returning its pointer for
// a mutable-byte-slice borrow scoped to a single opcode.
//
// This is the fallback resolver the executor's cold path calls through
// spec.md §4.4 ("fetch_non_default_memory_bytes_mut") — index 0 is
// always the cached default memory and never reaches here on the fast
// path.
func (s *Store) ResolveMemoryMut(idx uint32) (*Memory, error) {
	if int(idx) >= len(s.Memories) {
		return nil, ErrNoSuchMemory
	}
	return s.Memories[idx], nil
}

// GlobalGet reads the global at idx.
func (s *Store) GlobalGet(idx uint32) (ir.UntypedVal, error) {
	if int(idx) >= len(s.Globals) {
		return 0, ErrNoSuchGlobal
	}
	return s.Globals[idx].Value, nil
}

// GlobalSet writes the global at idx.
func (s *Store) GlobalSet(idx uint32, v ir.UntypedVal) error {
	if int(idx) >= len(s.Globals) {
		return ErrNoSuchGlobal
	}
	s.Globals[idx].Value = v
	return nil
}

// ConsumeFuel charges amount against the remaining budget. ok is false
// when doing so would take the budget negative — the caller traps with
// OutOfFuel in that case rather than ConsumeFuel silently clamping.
// Fuel metering is a no-op (always ok) unless the store was constructed
// with FuelEnabled.
func (s *Store) ConsumeFuel(amount uint32) (ok bool) {
	if !s.Fuel.Enabled {
		return true
	}
	s.Fuel.Remaining -= int64(amount)
	return s.Fuel.Remaining >= 0
}
