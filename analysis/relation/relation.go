// Package relation defines the three atomic fact kinds recorded while
// replaying a path: pointer equalities, storage cells, and flow edges.
// Records match queries by entity identity, (site, version) equality,
// never by structural content.
package relation

import (
	"fmt"

	"github.com/weft-analysis/weft/analysis/entity"
	"github.com/weft-analysis/weft/utils"

	"github.com/fatih/color"
)

var colorize = struct {
	Rel func(...interface{}) string
}{
	Rel: func(is ...interface{}) string {
		return utils.CanColorize(color.New(color.FgHiBlue).SprintFunc())(is...)
	},
}

// PointerEquality asserts that the runtime content of Value is the address
// of Alloc.
type PointerEquality struct {
	Value *entity.Value
	Alloc *entity.Allocation
}

// Equals returns the associated allocation iff the record's value has the
// same identity as v.
func (r PointerEquality) Equals(v *entity.Value) (*entity.Allocation, bool) {
	if r.Value.Same(v) {
		return r.Alloc, true
	}
	return nil, false
}

func (r PointerEquality) String() string {
	return fmt.Sprintf("%s %s %s", r.Value, colorize.Rel("="), r.Alloc)
}

// StorageCell asserts that, at the point of its creation, Alloc held Value.
// Later cells for the same allocation shadow earlier ones in lookup order;
// they never replace them.
type StorageCell struct {
	Alloc *entity.Allocation
	Value *entity.Value
}

// Stores returns the held value iff the record's allocation has the same
// identity as a.
func (c StorageCell) Stores(a *entity.Allocation) (*entity.Value, bool) {
	if c.Alloc.Same(a) {
		return c.Value, true
	}
	return nil, false
}

// StorageOf returns the allocation iff the record's value has the same
// identity as v.
func (c StorageCell) StorageOf(v *entity.Value) (*entity.Allocation, bool) {
	if c.Value.Same(v) {
		return c.Alloc, true
	}
	return nil, false
}

func (c StorageCell) String() string {
	return fmt.Sprintf("%s %s %s", c.Alloc, colorize.Rel("↦"), c.Value)
}

// FlowsTo asserts that Target's computation depends directly on Source.
// Transitive influence is computed by the consumer over the direct edges.
type FlowsTo struct {
	Source *entity.Value
	Target *entity.Value
}

// Depends reports whether the record is exactly the direct edge (s, t).
func (f FlowsTo) Depends(s, t *entity.Value) bool {
	return f.Source.Same(s) && f.Target.Same(t)
}

func (f FlowsTo) String() string {
	return fmt.Sprintf("%s %s %s", f.Source, colorize.Rel("→"), f.Target)
}
