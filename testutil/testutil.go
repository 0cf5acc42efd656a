// Package testutil provides compact builders for the instruction
// sequences the analysis tests replay.
package testutil

import "github.com/weft-analysis/weft/analysis/ir"

// V references the latest value at a named site.
func V(site string) ir.Operand { return ir.ValueRef(ir.NewSite(site)) }

// C is a literal constant operand.
func C(lit string) ir.Operand { return ir.Const(ir.Term(lit)) }

// A references a named allocation site.
func A(site string) ir.Operand { return ir.AllocRef(ir.NewSite(site)) }

// Site builds a plain named site.
func Site(name string) ir.Site { return ir.NewSite(name) }

// FuncDecl builds a callee descriptor with named parameter sites.
func FuncDecl(name string, params ...string) *ir.Func {
	sites := make([]ir.Site, len(params))
	for i, p := range params {
		sites[i] = ir.NewSite(p)
	}
	return &ir.Func{Name: name, Params: sites}
}

// Seq accumulates an instruction sequence fluently.
type Seq struct {
	instrs []ir.Instruction
}

func NewSeq() *Seq { return &Seq{} }

func (s *Seq) emit(ins ir.Instruction) *Seq {
	s.instrs = append(s.instrs, ins)
	return s
}

func (s *Seq) Alloc(site string) *Seq {
	return s.emit(ir.Instruction{Kind: ir.Alloc, Site: ir.NewSite(site)})
}

func (s *Seq) CompositeAlloc(site string) *Seq {
	return s.emit(ir.Instruction{Kind: ir.Alloc, Site: ir.NewSite(site), Composite: true})
}

// Store writes the latest value of a site through a pointer site.
func (s *Seq) Store(site, value, ptr string) *Seq {
	return s.emit(ir.Instruction{Kind: ir.Store, Site: ir.NewSite(site),
		Operands: []ir.Operand{V(value), V(ptr)}})
}

// StoreConst writes a literal through a pointer site.
func (s *Seq) StoreConst(site, lit, ptr string) *Seq {
	return s.emit(ir.Instruction{Kind: ir.Store, Site: ir.NewSite(site),
		Operands: []ir.Operand{C(lit), V(ptr)}})
}

func (s *Seq) Load(site, ptr string) *Seq {
	return s.emit(ir.Instruction{Kind: ir.Load, Site: ir.NewSite(site),
		Operands: []ir.Operand{V(ptr)}})
}

func (s *Seq) BinOp(site string, operands ...ir.Operand) *Seq {
	return s.emit(ir.Instruction{Kind: ir.BinOp, Site: ir.NewSite(site), Operands: operands})
}

func (s *Seq) UnOp(site string, operand ir.Operand) *Seq {
	return s.emit(ir.Instruction{Kind: ir.UnOp, Site: ir.NewSite(site),
		Operands: []ir.Operand{operand}})
}

func (s *Seq) Convert(site string, operand ir.Operand) *Seq {
	return s.emit(ir.Instruction{Kind: ir.Convert, Site: ir.NewSite(site),
		Operands: []ir.Operand{operand}})
}

func (s *Seq) Call(site string, callee *ir.Func, args ...ir.Operand) *Seq {
	return s.emit(ir.Instruction{Kind: ir.Call, Site: ir.NewSite(site),
		Callee: callee, Operands: args})
}

func (s *Seq) Bind() *Seq {
	return s.emit(ir.Instruction{Kind: ir.Bind})
}

func (s *Seq) Build() []ir.Instruction {
	return s.instrs
}
