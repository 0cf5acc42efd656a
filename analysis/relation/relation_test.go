package relation

import (
	"testing"

	"github.com/weft-analysis/weft/analysis/entity"
	"github.com/weft-analysis/weft/analysis/ir"
)

func TestPointerEquality(t *testing.T) {
	reg := entity.NewRegistry()
	p := reg.NextValue(ir.NewSite("p"))
	q := reg.NextValue(ir.NewSite("q"))
	obj := reg.NextAllocation(ir.NewSite("obj"), false)

	r := PointerEquality{Value: p, Alloc: obj}

	if a, ok := r.Equals(p); !ok || !a.Same(obj) {
		t.Error("record does not yield its allocation for the matching value")
	}
	if _, ok := r.Equals(q); ok {
		t.Error("record matched a foreign value")
	}
}

func TestStorageCell(t *testing.T) {
	reg := entity.NewRegistry()
	v := reg.NextValue(ir.NewSite("v"))
	w := reg.NextValue(ir.NewSite("w"))
	obj := reg.NextAllocation(ir.NewSite("obj"), false)
	other := reg.NextAllocation(ir.NewSite("other"), false)

	c := StorageCell{Alloc: obj, Value: v}

	if got, ok := c.Stores(obj); !ok || !got.Same(v) {
		t.Error("cell does not yield its value for the matching allocation")
	}
	if _, ok := c.Stores(other); ok {
		t.Error("cell matched a foreign allocation")
	}
	if got, ok := c.StorageOf(v); !ok || !got.Same(obj) {
		t.Error("cell does not yield its allocation for the matching value")
	}
	if _, ok := c.StorageOf(w); ok {
		t.Error("cell matched a foreign value")
	}
}

func TestFlowsTo(t *testing.T) {
	reg := entity.NewRegistry()
	src := reg.NextValue(ir.NewSite("src"))
	tgt := reg.NextValue(ir.NewSite("tgt"))

	f := FlowsTo{Source: src, Target: tgt}

	if !f.Depends(src, tgt) {
		t.Error("direct edge not found")
	}
	// Only the exact pair matches; no symmetry, no transitivity.
	if f.Depends(tgt, src) {
		t.Error("edge matched in reverse")
	}
	if f.Depends(src, src) {
		t.Error("edge matched a foreign pair")
	}
}
