package depscope

import (
	"github.com/weft-analysis/weft/analysis/entity"
	"github.com/weft-analysis/weft/analysis/relation"

	"github.com/yourbasic/graph"
)

// Depends reports whether a direct flow edge from src to tgt is recorded
// in this scope or an ancestor. No transitive closure is taken.
func (s *Scope) Depends(src, tgt *entity.Value) bool {
	s.ensureOpen("query")
	for cur := s; cur != nil; cur = cur.tail {
		for _, f := range cur.flows {
			if f.Depends(src, tgt) {
				return true
			}
		}
	}
	return false
}

// flowGraph lowers the visible flow edges into an integer-vertex graph.
// Vertices are assigned in chain-visiting order, which is deterministic
// for a given execution; the returned slice maps vertex ids back to
// values.
func (s *Scope) flowGraph() (*graph.Mutable, map[uint64]int, []*entity.Value) {
	ids := map[uint64]int{}
	vals := []*entity.Value{}
	intern := func(v *entity.Value) int {
		id, ok := ids[v.Version()]
		if !ok {
			id = len(vals)
			ids[v.Version()] = id
			vals = append(vals, v)
		}
		return id
	}

	s.forEachValue(func(v *entity.Value) { intern(v) })

	type edge struct{ from, to int }
	edges := []edge{}
	s.forEachFlow(func(f relation.FlowsTo) {
		edges = append(edges, edge{intern(f.Source), intern(f.Target)})
	})

	g := graph.New(len(vals))
	for _, e := range edges {
		g.Add(e.from, e.to)
	}
	return g, ids, vals
}

// DependsTransitively reports whether tgt is reachable from src over one
// or more direct flow edges.
func (s *Scope) DependsTransitively(src, tgt *entity.Value) bool {
	s.ensureOpen("query")

	g, ids, _ := s.flowGraph()
	sv, ok := ids[src.Version()]
	tv, ok2 := ids[tgt.Version()]
	if !ok || !ok2 {
		return false
	}

	reached := false
	graph.BFS(g, sv, func(v, w int) {
		if w == tv {
			reached = true
		}
	})
	return reached
}

// Influence returns every value transitively depending on src, in
// breadth-first discovery order.
func (s *Scope) Influence(src *entity.Value) []*entity.Value {
	s.ensureOpen("query")

	g, ids, vals := s.flowGraph()
	sv, ok := ids[src.Version()]
	if !ok {
		return nil
	}

	influenced := []*entity.Value{}
	graph.BFS(g, sv, func(v, w int) {
		influenced = append(influenced, vals[w])
	})
	return influenced
}

// Query is the top-level dependency query: direct by default, transitive
// when the configuration says so. The split exists for differential
// comparison against reference behaviour.
func (s *Scope) Query(src, tgt *entity.Value) bool {
	if s.cfg.TransitiveQueries {
		return s.DependsTransitively(src, tgt)
	}
	return s.Depends(src, tgt)
}
