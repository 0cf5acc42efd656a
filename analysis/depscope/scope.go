// Package depscope accumulates dependency facts per program point while a
// path is replayed. Scopes form a backward-linked, persistent chain: each
// scope holds a non-owning reference to its predecessor and never copies
// it, so pushing a scope at call entry is O(1) and forked paths can share
// common prefixes of the chain.
package depscope

import (
	"fmt"

	"github.com/weft-analysis/weft/analysis/config"
	"github.com/weft-analysis/weft/analysis/entity"
	"github.com/weft-analysis/weft/analysis/ir"
	"github.com/weft-analysis/weft/analysis/relation"
	"github.com/weft-analysis/weft/utils/hmap"
)

// Scope owns every entity and relation record it creates. Fact lists are
// append-only while the scope is open; facts are released only by Close.
type Scope struct {
	// tail is the enclosing scope. Non-owning, never forward: the chain
	// is acyclic by construction.
	tail *Scope

	reg entity.VersionSource
	cfg *config.Config

	// callee and args are the pending call registration, consumed by the
	// callee scope's argument binding.
	callee *ir.Func
	args   []*entity.Value

	equalities []relation.PointerEquality
	cells      []relation.StorageCell
	flows      []relation.FlowsTo
	values     []*entity.Value
	allocs     []*entity.Allocation

	// latestVals and latestAllocs index the newest binding per site in
	// this scope alone; chain lookups consult them scope by scope.
	latestVals   *hmap.Map[ir.Site, *entity.Value]
	latestAllocs *hmap.Map[ir.Site, *entity.Allocation]

	closed bool
}

// NewRoot creates the outermost scope of a path.
func NewRoot(reg entity.VersionSource, cfg *config.Config) *Scope {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Scope{
		reg:          reg,
		cfg:          cfg,
		latestVals:   hmap.NewMap[*entity.Value](ir.SiteHasher{}),
		latestAllocs: hmap.NewMap[*entity.Allocation](ir.SiteHasher{}),
	}
}

// NewScope pushes a scope for a callee body onto the chain.
func NewScope(parent *Scope) *Scope {
	parent.ensureOpen("push scope")
	s := NewRoot(parent.reg, parent.cfg)
	s.tail = parent
	return s
}

// Cdr returns the enclosing scope, or nil at the root.
func (s *Scope) Cdr() *Scope {
	return s.tail
}

// Close releases the scope's facts and entities. The scope only
// transitions open → closed; any further use is a fatal error.
func (s *Scope) Close() {
	s.ensureOpen("close")
	s.closed = true
	s.equalities = nil
	s.cells = nil
	s.flows = nil
	s.values = nil
	s.allocs = nil
	s.args = nil
	s.latestVals = nil
	s.latestAllocs = nil
}

func (s *Scope) ensureOpen(op string) {
	if s.closed {
		panic(fmt.Sprintf("depscope: %s on a closed scope", op))
	}
}

// newValue creates a fresh value owned by this scope and makes it the
// site's latest binding.
func (s *Scope) newValue(site ir.Site) *entity.Value {
	v := s.reg.NextValue(site)
	s.values = append(s.values, v)
	s.latestVals.Set(site, v)
	return v
}

// newUnboundValue creates a fresh value owned by this scope without making
// it the site's binding. Store instructions define no named value; their
// synthetic content values must not shadow the site namespace.
func (s *Scope) newUnboundValue(site ir.Site) *entity.Value {
	v := s.reg.NextValue(site)
	s.values = append(s.values, v)
	return v
}

// newAllocation creates a fresh allocation owned by this scope and makes
// it the site's latest binding.
func (s *Scope) newAllocation(site ir.Site, composite bool) *entity.Allocation {
	a := s.reg.NextAllocation(site, composite)
	s.allocs = append(s.allocs, a)
	s.latestAllocs.Set(site, a)
	return a
}

// latestValue returns the newest value defined at the site, searching this
// scope first and then ancestors. Nearer scopes shadow older bindings.
func (s *Scope) latestValue(site ir.Site) (*entity.Value, bool) {
	for cur := s; cur != nil; cur = cur.tail {
		if v, ok := cur.latestVals.GetOk(site); ok {
			return v, true
		}
	}
	return nil, false
}

// latestAllocation is the allocation analogue of latestValue.
func (s *Scope) latestAllocation(site ir.Site) (*entity.Allocation, bool) {
	for cur := s; cur != nil; cur = cur.tail {
		if a, ok := cur.latestAllocs.GetOk(site); ok {
			return a, true
		}
	}
	return nil, false
}

// LatestValue returns the newest value defined at the site that is
// visible from this scope.
func (s *Scope) LatestValue(site ir.Site) (*entity.Value, bool) {
	s.ensureOpen("lookup")
	return s.latestValue(site)
}

// getOrCreateValue returns the site's latest visible value, creating a
// fresh one in this scope when the site has not been seen before.
func (s *Scope) getOrCreateValue(site ir.Site) *entity.Value {
	if v, ok := s.latestValue(site); ok {
		return v
	}
	return s.newValue(site)
}

// addEquality records that v holds the address of a. Discovering a second
// allocation for an already-bound value reveals that the two allocations
// denote the same memory object, so their must-alias regions are unioned.
func (s *Scope) addEquality(v *entity.Value, a *entity.Allocation) {
	if prev, ok := s.resolveAllocation(v); ok && !prev.Same(a) {
		prev.MergeRegion(a)
	}
	s.equalities = append(s.equalities, relation.PointerEquality{Value: v, Alloc: a})
}

func (s *Scope) addCell(a *entity.Allocation, v *entity.Value) {
	s.cells = append(s.cells, relation.StorageCell{Alloc: a, Value: v})
}

func (s *Scope) addFlow(src, tgt *entity.Value) {
	s.flows = append(s.flows, relation.FlowsTo{Source: src, Target: tgt})
}

// resolveAllocation returns the allocation v is pointer-equal to, searching
// this scope's equalities newest-first, then ancestors.
func (s *Scope) resolveAllocation(v *entity.Value) (*entity.Allocation, bool) {
	for cur := s; cur != nil; cur = cur.tail {
		for i := len(cur.equalities) - 1; i >= 0; i-- {
			if a, ok := cur.equalities[i].Equals(v); ok {
				return a, true
			}
		}
	}
	return nil, false
}

// ResolveAllocation is the public entry point of pointer resolution.
func (s *Scope) ResolveAllocation(v *entity.Value) (*entity.Allocation, bool) {
	s.ensureOpen("resolve")
	return s.resolveAllocation(v)
}

// stores returns the most recent value stored into a. Cells are searched
// newest-first within each scope, then outward: newer cells shadow older
// ones without replacing them. For composite allocations any cell whose
// allocation shares a's must-alias region matches.
func (s *Scope) stores(a *entity.Allocation) (*entity.Value, bool) {
	for cur := s; cur != nil; cur = cur.tail {
		for i := len(cur.cells) - 1; i >= 0; i-- {
			cell := cur.cells[i]
			if v, ok := cell.Stores(a); ok {
				return v, true
			}
			if a.Composite() && cell.Alloc.Composite() && cell.Alloc.SameRegion(a) {
				return cell.Value, true
			}
		}
	}
	return nil, false
}

// forEachLiveAllocation visits every allocation visible from this scope,
// innermost scope first, in reverse creation order within each scope.
func (s *Scope) forEachLiveAllocation(f func(*entity.Allocation)) {
	for cur := s; cur != nil; cur = cur.tail {
		for i := len(cur.allocs) - 1; i >= 0; i-- {
			f(cur.allocs[i])
		}
	}
}

// forEachValue visits every value visible from this scope.
func (s *Scope) forEachValue(f func(*entity.Value)) {
	for cur := s; cur != nil; cur = cur.tail {
		for _, v := range cur.values {
			f(v)
		}
	}
}

// forEachFlow visits every flow edge visible from this scope.
func (s *Scope) forEachFlow(f func(relation.FlowsTo)) {
	for cur := s; cur != nil; cur = cur.tail {
		for _, edge := range cur.flows {
			f(edge)
		}
	}
}
