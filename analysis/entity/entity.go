package entity

import (
	"fmt"

	"github.com/weft-analysis/weft/analysis/ir"
	"github.com/weft-analysis/weft/utils"

	"github.com/fatih/color"
	uf "github.com/spakin/disjoint"
)

// colorize is used for pretty-printing.
var colorize = struct {
	Site    func(...interface{}) string
	Version func(...interface{}) string
	Attr    func(...interface{}) string
}{
	Site: func(is ...interface{}) string {
		return utils.CanColorize(color.New(color.FgHiGreen).SprintFunc())(is...)
	},
	Version: func(is ...interface{}) string {
		return utils.CanColorize(color.New(color.FgHiCyan).SprintFunc())(is...)
	},
	Attr: func(is ...interface{}) string {
		return utils.CanColorize(color.New(color.FgHiYellow).SprintFunc())(is...)
	},
}

// Value is a program value observed at a point of the replayed path,
// disambiguated from other values of the same site by its version.
// Versions are strictly increasing in creation order and never reused.
type Value struct {
	site    ir.Site
	version uint64
	// unsound marks a value produced by a load whose pointer could not be
	// resolved under the "none" policy. Consumers must not treat such a
	// value as having a complete dependency set.
	unsound bool
}

func (v *Value) Site() ir.Site   { return v.site }
func (v *Value) Version() uint64 { return v.version }

// Same reports identity: equality of (site, version).
func (v *Value) Same(o *Value) bool {
	if v == o {
		return true
	}
	return v != nil && o != nil && v.version == o.version && v.site.Equal(o.site)
}

func (v *Value) Hash() uint32 {
	return utils.HashCombine(v.site.Hash(), uint32(v.version), uint32(v.version>>32))
}

// MarkUnsound flags the value as carrying an incomplete dependency set.
func (v *Value) MarkUnsound() { v.unsound = true }

func (v *Value) Unsound() bool { return v.unsound }

// Ident renders the identity without any terminal colorization, for use
// as a stable key in graph output.
func (v *Value) Ident() string {
	return fmt.Sprintf("%s#%d", v.site.Name(), v.version)
}

func (v *Value) String() string {
	str := fmt.Sprintf("%s%s", colorize.Site(v.site.Name()),
		colorize.Version(fmt.Sprintf("#%d", v.version)))
	if v.unsound {
		str += colorize.Attr("!")
	}
	return str
}

// Allocation is a memory object created along the replayed path. Composite
// allocations (structs, arrays) must be treated conservatively for partial
// aliasing: storage lookups for them consult the whole must-alias region.
type Allocation struct {
	site      ir.Site
	version   uint64
	composite bool
	// region is the must-alias class of the allocation. Allocations start
	// in singleton regions; regions are unioned when the path reveals that
	// two allocations denote the same memory object.
	region *uf.Element
}

func (a *Allocation) Site() ir.Site   { return a.site }
func (a *Allocation) Version() uint64 { return a.version }
func (a *Allocation) Composite() bool { return a.composite }

// Same reports identity: equality of (site, version).
func (a *Allocation) Same(o *Allocation) bool {
	if a == o {
		return true
	}
	return a != nil && o != nil && a.version == o.version && a.site.Equal(o.site)
}

func (a *Allocation) Hash() uint32 {
	return utils.HashCombine(a.site.Hash(), uint32(a.version), uint32(a.version>>32))
}

// SameRegion reports whether two allocations are in the same must-alias
// region.
func (a *Allocation) SameRegion(o *Allocation) bool {
	return a.region.Find() == o.region.Find()
}

// MergeRegion unions the must-alias regions of the two allocations.
func (a *Allocation) MergeRegion(o *Allocation) {
	uf.Union(a.region, o.region)
}

// Ident renders the identity without any terminal colorization.
func (a *Allocation) Ident() string {
	return fmt.Sprintf("%s#%d", a.site.Name(), a.version)
}

func (a *Allocation) String() string {
	str := fmt.Sprintf("‹%s%s›", colorize.Site(a.site.Name()),
		colorize.Version(fmt.Sprintf("#%d", a.version)))
	if a.composite {
		str += colorize.Attr("*")
	}
	return str
}
