package entity

import (
	"testing"

	"github.com/weft-analysis/weft/analysis/ir"
)

func TestVersionMonotonicity(t *testing.T) {
	reg := NewRegistry()
	site := ir.NewSite("x")

	var prev uint64
	for i := 0; i < 100; i++ {
		v := reg.NextValue(site)
		if v.Version() <= prev {
			t.Fatalf("value version %d not strictly greater than %d", v.Version(), prev)
		}
		prev = v.Version()
	}

	// Allocation versions run on their own counter.
	a1 := reg.NextAllocation(site, false)
	a2 := reg.NextAllocation(site, true)
	if a1.Version() != 1 || a2.Version() != 2 {
		t.Errorf("allocation versions = %d, %d; expected 1, 2", a1.Version(), a2.Version())
	}
}

func TestIdentity(t *testing.T) {
	reg := NewRegistry()
	site := ir.NewSite("x")

	v1 := reg.NextValue(site)
	v2 := reg.NextValue(site)

	if !v1.Same(v1) {
		t.Error("value not identical to itself")
	}
	if v1.Same(v2) {
		t.Error("distinct versions at the same site compare identical")
	}

	other := reg.NextValue(ir.NewSite("y"))
	if v1.Same(other) {
		t.Error("values at distinct sites compare identical")
	}
}

func TestSharedRegistry(t *testing.T) {
	reg := NewSharedRegistry()
	site := ir.NewSite("x")

	seen := map[uint64]bool{}
	done := make(chan []uint64)
	for w := 0; w < 4; w++ {
		go func() {
			versions := make([]uint64, 0, 50)
			for i := 0; i < 50; i++ {
				versions = append(versions, reg.NextValue(site).Version())
			}
			done <- versions
		}()
	}

	for w := 0; w < 4; w++ {
		for _, v := range <-done {
			if seen[v] {
				t.Fatalf("version %d issued twice", v)
			}
			seen[v] = true
		}
	}
}

func TestRegions(t *testing.T) {
	reg := NewRegistry()

	a := reg.NextAllocation(ir.NewSite("p"), true)
	b := reg.NextAllocation(ir.NewSite("q"), true)
	c := reg.NextAllocation(ir.NewSite("r"), false)

	if a.SameRegion(b) {
		t.Error("fresh allocations share a region")
	}

	a.MergeRegion(b)
	if !a.SameRegion(b) {
		t.Error("allocations not in the same region after merge")
	}
	if a.SameRegion(c) {
		t.Error("unrelated allocation pulled into region")
	}
}
