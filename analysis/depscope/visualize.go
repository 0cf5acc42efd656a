package depscope

import (
	"github.com/weft-analysis/weft/analysis/entity"
	"github.com/weft-analysis/weft/analysis/relation"
	"github.com/weft-analysis/weft/utils/dot"
)

// FlowDotGraph renders the visible value-flow graph. Values become nodes,
// flow edges become edges; values that are pointer-equal to an allocation
// are tinted and labelled with the allocation they address.
func (s *Scope) FlowDotGraph() *dot.DotGraph {
	nodes := map[uint64]*dot.DotNode{}
	nodeList := []*dot.DotNode{}

	node := func(v *entity.Value) *dot.DotNode {
		if n, ok := nodes[v.Version()]; ok {
			return n
		}
		n := &dot.DotNode{
			ID:    v.Ident(),
			Attrs: dot.DotAttrs{},
		}
		if a, ok := s.resolveAllocation(v); ok {
			n.Attrs["fillcolor"] = "lightblue"
			n.Attrs["label"] = v.Ident() + " = &" + a.Ident()
		}
		if v.Unsound() {
			n.Attrs["fillcolor"] = "lightsalmon"
		}
		nodes[v.Version()] = n
		nodeList = append(nodeList, n)
		return n
	}

	edges := []*dot.DotEdge{}
	s.forEachValue(func(v *entity.Value) { node(v) })
	s.forEachFlow(func(f relation.FlowsTo) {
		edges = append(edges, &dot.DotEdge{
			From:  node(f.Source),
			To:    node(f.Target),
			Attrs: dot.DotAttrs{},
		})
	})

	return &dot.DotGraph{
		Title:   "value flow",
		Nodes:   nodeList,
		Edges:   edges,
		Options: map[string]string{},
	}
}
