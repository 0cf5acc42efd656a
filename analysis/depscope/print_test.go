package depscope

import (
	"bytes"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/weft-analysis/weft/analysis/entity"
	"github.com/weft-analysis/weft/analysis/ir"
	"github.com/weft-analysis/weft/utils"
)

func TestDumpGolden(t *testing.T) {
	utils.SetNoColorize()

	p := ir.NewSite("p")
	x := ir.NewSite("x")
	y := ir.NewSite("y")
	st := ir.NewSite("st")
	param := ir.NewSite("g.a")
	g := &ir.Func{Name: "g", Params: []ir.Site{param}}

	outer := NewRoot(entity.NewRegistry(), nil)
	outer.Execute(ir.Instruction{Kind: ir.Alloc, Site: p})
	outer.Execute(ir.Instruction{Kind: ir.Store, Site: st, Operands: []ir.Operand{ir.ValueRef(x), ir.ValueRef(p)}})
	outer.Execute(ir.Instruction{Kind: ir.Call, Site: ir.NewSite("call-g"), Callee: g, Operands: []ir.Operand{ir.ValueRef(x)}})

	inner := NewScope(outer)
	inner.Execute(ir.Instruction{Kind: ir.Bind})
	inner.Execute(ir.Instruction{Kind: ir.Load, Site: y, Operands: []ir.Operand{ir.ValueRef(p)}})

	var buf bytes.Buffer
	inner.Dump(&buf)

	gold := goldie.New(t)
	gold.Assert(t, "scope-chain", buf.Bytes())
}
