package shadow

import (
	"fmt"

	"github.com/weft-analysis/weft/analysis/ir"
	"github.com/weft-analysis/weft/utils/tree"
)

// Store is the shadow memory of one execution state. The two parts are
// independent: one keyed by concrete address indices, one by symbolic
// ones. Each part pairs a persistent map with the list of its keys in
// first-insertion order; overwrites preserve the original position. The
// ordered keys are what make interpolant generation reproducible.
type Store struct {
	concrete     tree.Tree[ir.Index, *Entry]
	concreteKeys []ir.Index
	symbolic     tree.Tree[ir.Index, *Entry]
	symbolicKeys []ir.Index

	released bool
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		concrete: tree.NewTree[ir.Index, *Entry](ir.IndexHasher{}),
		symbolic: tree.NewTree[ir.Index, *Entry](ir.IndexHasher{}),
	}
}

// UpdateStore relates a location with the value written into it.
func (s *Store) UpdateStore(loc ir.Location, addressValue, content ir.Expr) {
	s.update(loc, addressValue, content, false)
}

// UpdateStoreWithLoadedValue relates a location with a value observed by
// loading from it. The binding mechanism is the same as UpdateStore; only
// the recorded provenance differs.
func (s *Store) UpdateStoreWithLoadedValue(loc ir.Location, addressValue, content ir.Expr) {
	s.update(loc, addressValue, content, true)
}

func (s *Store) update(loc ir.Location, addressValue, content ir.Expr, viaLoad bool) {
	s.ensureLive("update")

	part, keys := &s.concrete, &s.concreteKeys
	if loc.Symbolic() {
		part, keys = &s.symbolic, &s.symbolicKeys
	}

	key := loc.Index()
	if prev, ok := part.Lookup(key); ok {
		// Overwrite. The key keeps its original position in the order.
		if prev.shared() {
			// Clone-on-write: the previous entry is visible through
			// other snapshots and must not be touched.
			*part = part.Insert(key, newEntry(loc, addressValue, content, viaLoad))
			prev.release()
		} else {
			prev.set(loc, addressValue, content, viaLoad)
		}
		return
	}

	*part = part.Insert(key, newEntry(loc, addressValue, content, viaLoad))
	*keys = append(*keys, key)
}

// Lookup finds the entry for a location in the part matching its address
// kind. Absent keys are a plain miss, never an error.
func (s *Store) Lookup(loc ir.Location) (*Entry, bool) {
	s.ensureLive("lookup")
	if loc.Symbolic() {
		return s.symbolic.Lookup(loc.Index())
	}
	return s.concrete.Lookup(loc.Index())
}

// Clone snapshots the store for a forked execution state. The persistent
// maps are shared structurally and every entry's reference count is
// incremented; the key-order lists are copied. O(map size), not O(total
// data).
func (s *Store) Clone() *Store {
	s.ensureLive("clone")

	s.concrete.ForEach(func(_ ir.Index, e *Entry) { e.retain() })
	s.symbolic.ForEach(func(_ ir.Index, e *Entry) { e.retain() })

	return &Store{
		concrete:     s.concrete,
		concreteKeys: append([]ir.Index(nil), s.concreteKeys...),
		symbolic:     s.symbolic,
		symbolicKeys: append([]ir.Index(nil), s.symbolicKeys...),
	}
}

// Release drops this snapshot's references. Entries die when their last
// snapshot releases them. Releasing twice is fatal.
func (s *Store) Release() {
	s.ensureLive("release")
	s.released = true

	s.concrete.ForEach(func(_ ir.Index, e *Entry) { e.release() })
	s.symbolic.ForEach(func(_ ir.Index, e *Entry) { e.release() })

	s.concreteKeys = nil
	s.symbolicKeys = nil
}

func (s *Store) ensureLive(op string) {
	if s.released {
		panic(fmt.Sprintf("shadow: %s on a released store", op))
	}
}

// checkKeys is run before projections: each key-order list must
// contain exactly the key set of its map. A desync is a programming
// error in the update path and fails fast.
func (s *Store) checkKeys() {
	check := func(part tree.Tree[ir.Index, *Entry], keys []ir.Index, name string) {
		if sz := part.Size(); sz != len(keys) {
			panic(fmt.Sprintf("shadow: %s key list has %d keys for %d map entries", name, len(keys), sz))
		}
		for _, k := range keys {
			if _, ok := part.Lookup(k); !ok {
				panic(fmt.Sprintf("shadow: %s key list contains %s, absent from the map", name, k))
			}
		}
	}
	check(s.concrete, s.concreteKeys, "concrete")
	check(s.symbolic, s.symbolicKeys, "symbolic")
}
