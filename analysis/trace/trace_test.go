package trace

import (
	"strings"
	"testing"

	"github.com/weft-analysis/weft/analysis/depscope"
	"github.com/weft-analysis/weft/analysis/entity"
	"github.com/weft-analysis/weft/analysis/ir"
	"github.com/weft-analysis/weft/analysis/shadow"
)

const sampleTrace = `
functions:
  - name: g
    params: [g.a]
instructions:
  - op: alloc
    site: p
  - op: store
    site: st
    operands: [{value: x}, {value: p}]
    addr: 16
    address: "&p"
    content: x0
  - op: load
    site: y
    operands: [{value: p}]
  - op: binop
    site: z
    operands: [{value: y}, {const: "1"}]
  - op: call
    site: call-g
    callee: g
    operands: [{value: z}]
  - op: bind
`

func TestParse(t *testing.T) {
	tr, err := Parse([]byte(sampleTrace))
	if err != nil {
		t.Fatal(err)
	}
	if len(tr.Steps) != 6 {
		t.Fatalf("parsed %d steps, want 6", len(tr.Steps))
	}

	store := tr.Steps[1]
	if store.Ins.Kind != ir.Store {
		t.Errorf("step 1 is %v, want store", store.Ins.Kind)
	}
	if store.Loc == nil || store.Loc.Symbolic() {
		t.Error("store step lost its concrete memory detail")
	}
	if store.Content != ir.Term("x0") {
		t.Errorf("store content is %v, want x0", store.Content)
	}

	call := tr.Steps[4].Ins
	if call.Callee == nil || call.Callee.Name != "g" || len(call.Callee.Params) != 1 {
		t.Error("call step did not resolve its callee declaration")
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name string
		doc  string
		want string
	}{
		{"unknown op", "instructions: [{op: jump, site: a}]", "unknown op"},
		{"missing site", "instructions: [{op: alloc}]", "without a site"},
		{"undeclared callee", "instructions: [{op: call, site: c, callee: g}]", "undeclared function"},
		{"callee on non-call", "instructions: [{op: alloc, site: a, callee: g}]", "with a callee"},
		{"ambiguous operand", "instructions: [{op: load, site: a, operands: [{value: x, const: \"1\"}]}]", "exactly one"},
		{"both address kinds", "instructions: [{op: store, site: a, addr: 1, formula: f, content: c}]", "both a concrete"},
		{"detail without content", "instructions: [{op: store, site: a, addr: 1}]", "without content"},
		{"detail on non-memory op", "instructions: [{op: binop, site: a, addr: 1, content: c}]", "with memory detail"},
		{"unknown field", "instructions: [{op: alloc, site: a, wat: 1}]", "wat"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := Parse([]byte(c.doc))
			if err == nil {
				t.Fatal("parse succeeded")
			}
			if !strings.Contains(err.Error(), c.want) {
				t.Errorf("error %q does not mention %q", err, c.want)
			}
		})
	}
}

func TestReplay(t *testing.T) {
	tr, err := Parse([]byte(sampleTrace))
	if err != nil {
		t.Fatal(err)
	}

	root := depscope.NewRoot(entity.NewRegistry(), nil)
	store := shadow.NewStore()
	innermost := Replay(tr, root, store)

	if innermost == root {
		t.Fatal("bind step did not push a callee scope")
	}
	if innermost.Cdr() != root {
		t.Error("callee scope is not chained onto the root")
	}

	if _, ok := store.Lookup(ir.ConcreteLocation(ir.NewSite("st"), 16)); !ok {
		t.Error("store step's memory detail did not reach the shadow store")
	}
}

func TestReplayWithoutStore(t *testing.T) {
	tr, err := Parse([]byte(sampleTrace))
	if err != nil {
		t.Fatal(err)
	}
	// Fact-only replay: memory detail is simply dropped.
	Replay(tr, depscope.NewRoot(entity.NewRegistry(), nil), nil)
}
