package ir

import (
	"fmt"

	"github.com/weft-analysis/weft/utils"
)

// Index is the canonical key of a memory location inside the shadow store.
// Two updates to the same location must produce equal indices, regardless of
// the address expression they were reached through.
type Index interface {
	Hash() uint32
	Equal(Index) bool
	String() string
}

// IndexHasher makes indices usable as hashed-container keys.
type IndexHasher struct{}

func (IndexHasher) Hash(i Index) uint32   { return i.Hash() }
func (IndexHasher) Equal(a, b Index) bool { return a.Equal(b) }

// Location is the address abstraction the shadow store classifies entries
// by. The engine supplies the classification; the store never inspects
// address expressions itself.
type Location interface {
	// Index is the canonical per-location key.
	Index() Index
	// Site is the program site the location is attributed to in the
	// projected interpolant.
	Site() Site
	// Symbolic reports whether the address is a symbolic formula rather
	// than a fixed concrete address.
	Symbolic() bool
}

// ConcreteIndex keys a concretely-addressed location by its address.
type ConcreteIndex uint64

func (i ConcreteIndex) Hash() uint32 {
	return utils.HashCombine(uint32(i), uint32(i>>32))
}

func (i ConcreteIndex) Equal(o Index) bool {
	oi, ok := o.(ConcreteIndex)
	return ok && i == oi
}

func (i ConcreteIndex) String() string {
	return fmt.Sprintf("0x%x", uint64(i))
}

// SymbolicIndex keys a symbolically-addressed location by the canonical
// rendering of its address formula.
type SymbolicIndex string

func (i SymbolicIndex) Hash() uint32 {
	return utils.HashString(string(i))
}

func (i SymbolicIndex) Equal(o Index) bool {
	oi, ok := o.(SymbolicIndex)
	return ok && i == oi
}

func (i SymbolicIndex) String() string {
	return string(i)
}

// MemoryLocation is the Location implementation used by the trace frontend
// and the tests.
type MemoryLocation struct {
	site     Site
	index    Index
	symbolic bool
}

// ConcreteLocation builds a concretely-addressed location at the given site.
func ConcreteLocation(site Site, addr uint64) MemoryLocation {
	return MemoryLocation{site: site, index: ConcreteIndex(addr)}
}

// SymbolicLocation builds a symbolically-addressed location at the given site.
func SymbolicLocation(site Site, formula string) MemoryLocation {
	return MemoryLocation{site: site, index: SymbolicIndex(formula), symbolic: true}
}

func (l MemoryLocation) Index() Index   { return l.index }
func (l MemoryLocation) Site() Site     { return l.site }
func (l MemoryLocation) Symbolic() bool { return l.symbolic }

func (l MemoryLocation) String() string {
	return fmt.Sprintf("%s[%s]", l.site.Name(), l.index)
}
