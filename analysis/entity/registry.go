package entity

import (
	"sync/atomic"

	"github.com/weft-analysis/weft/analysis/ir"

	uf "github.com/spakin/disjoint"
)

// Registry issues versions for values and allocations. Versions are
// strictly increasing per kind and never reused, so creation order is
// recoverable from version comparison.
//
// A Registry is deliberately an explicit parameter of entity construction
// rather than process-wide state: each explored path owns one, keeping
// version assignment deterministic under concurrent path exploration.
// Computation along a single path is sequential, so no locking is needed.
type Registry struct {
	valueVersion uint64
	allocVersion uint64
}

func NewRegistry() *Registry {
	return &Registry{}
}

// NextValue creates a fresh value at the given site.
func (r *Registry) NextValue(site ir.Site) *Value {
	r.valueVersion++
	return &Value{site: site, version: r.valueVersion}
}

// NextAllocation creates a fresh allocation at the given site, in its own
// singleton must-alias region.
func (r *Registry) NextAllocation(site ir.Site, composite bool) *Allocation {
	r.allocVersion++
	return &Allocation{
		site:      site,
		version:   r.allocVersion,
		composite: composite,
		region:    uf.NewElement(),
	}
}

// SharedRegistry issues versions from atomic counters. Engines that need
// version comparability across concurrently explored paths share one of
// these between path workers; everything else should prefer Registry.
type SharedRegistry struct {
	valueVersion uint64
	allocVersion uint64
}

func NewSharedRegistry() *SharedRegistry {
	return &SharedRegistry{}
}

func (r *SharedRegistry) NextValue(site ir.Site) *Value {
	return &Value{site: site, version: atomic.AddUint64(&r.valueVersion, 1)}
}

func (r *SharedRegistry) NextAllocation(site ir.Site, composite bool) *Allocation {
	return &Allocation{
		site:      site,
		version:   atomic.AddUint64(&r.allocVersion, 1),
		composite: composite,
		region:    uf.NewElement(),
	}
}

// VersionSource abstracts the two registry flavours for scope construction.
type VersionSource interface {
	NextValue(ir.Site) *Value
	NextAllocation(ir.Site, bool) *Allocation
}

var (
	_ VersionSource = (*Registry)(nil)
	_ VersionSource = (*SharedRegistry)(nil)
)
