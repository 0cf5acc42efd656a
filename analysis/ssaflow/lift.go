// Package ssaflow lifts golang.org/x/tools/go/ssa code into the
// instruction stream the dependency analysis consumes. Only instructions
// that define tracked dataflow are lifted; control flow and the rest of
// the SSA instruction set carry no value or memory facts and are skipped.
package ssaflow

import (
	"fmt"
	"go/token"
	"go/types"

	"golang.org/x/tools/go/ssa"

	"github.com/weft-analysis/weft/analysis/ir"
	"github.com/weft-analysis/weft/utils"
)

// Site identifies an SSA register or object, with its source position
// resolved at lift time. Distinct functions reuse register names (t0,
// t1, ...); the position keeps such sites apart.
type Site struct {
	name string
	pos  string
}

func (s Site) Hash() uint32 {
	return utils.HashCombine(utils.HashString(s.name), utils.HashString(s.pos))
}

func (s Site) Equal(o ir.Site) bool {
	os, ok := o.(Site)
	return ok && s == os
}

func (s Site) Name() string { return s.name }

func (s Site) Pos() string { return s.pos }

func (s Site) String() string { return s.name }

// LiftBlocks lifts the instructions of the given basic blocks, in block
// order. Callers lift a function's body via fn.Blocks and replay callee
// bodies after the emitted call/bind pair.
func LiftBlocks(blocks []*ssa.BasicBlock) []ir.Instruction {
	if len(blocks) == 0 {
		return nil
	}

	l := &lifter{fset: blocks[0].Parent().Prog.Fset}
	for _, b := range blocks {
		for _, ins := range b.Instrs {
			l.lift(ins)
		}
	}
	return l.out
}

// LiftFunction lifts a whole function body.
func LiftFunction(fn *ssa.Function) []ir.Instruction {
	return LiftBlocks(fn.Blocks)
}

type lifter struct {
	fset *token.FileSet
	// stores counts lifted store instructions. Stores define no SSA
	// register, so each gets a synthetic site of its own.
	stores int
	out    []ir.Instruction
}

func (l *lifter) emit(ins ir.Instruction) {
	l.out = append(l.out, ins)
}

func (l *lifter) position(pos token.Pos) string {
	if !pos.IsValid() {
		return ""
	}
	return l.fset.Position(pos).String()
}

func (l *lifter) site(v ssa.Value) Site {
	name := v.Name()
	if g, ok := v.(*ssa.Global); ok {
		name = g.RelString(nil)
	}
	return Site{name: name, pos: l.position(v.Pos())}
}

// operand maps an SSA value to an instruction operand. Constants carry
// their literal; globals reference their object's site, materializing the
// allocation on first use; everything else references the defining
// register's site.
func (l *lifter) operand(v ssa.Value) ir.Operand {
	switch v := v.(type) {
	case *ssa.Const:
		return ir.Const(ir.Term(v.String()))
	case *ssa.Global:
		return ir.AllocRef(l.site(v))
	default:
		return ir.ValueRef(l.site(v))
	}
}

func (l *lifter) operands(vs ...ssa.Value) []ir.Operand {
	ops := make([]ir.Operand, len(vs))
	for i, v := range vs {
		ops[i] = l.operand(v)
	}
	return ops
}

func (l *lifter) lift(ins ssa.Instruction) {
	switch ins := ins.(type) {
	case *ssa.Alloc:
		l.emit(ir.Instruction{
			Kind:      ir.Alloc,
			Site:      l.site(ins),
			Composite: compositeAlloc(ins),
		})

	case *ssa.UnOp:
		if ins.Op == token.MUL {
			l.emit(ir.Instruction{Kind: ir.Load, Site: l.site(ins), Operands: l.operands(ins.X)})
			return
		}
		l.emit(ir.Instruction{Kind: ir.UnOp, Site: l.site(ins), Operands: l.operands(ins.X)})

	case *ssa.Store:
		l.stores++
		site := Site{name: fmt.Sprintf("st%d", l.stores), pos: l.position(ins.Pos())}
		l.emit(ir.Instruction{Kind: ir.Store, Site: site, Operands: l.operands(ins.Val, ins.Addr)})

	case *ssa.BinOp:
		l.emit(ir.Instruction{Kind: ir.BinOp, Site: l.site(ins), Operands: l.operands(ins.X, ins.Y)})

	case *ssa.Convert:
		l.emit(ir.Instruction{Kind: ir.Convert, Site: l.site(ins), Operands: l.operands(ins.X)})

	case *ssa.ChangeType:
		l.emit(ir.Instruction{Kind: ir.Convert, Site: l.site(ins), Operands: l.operands(ins.X)})

	case *ssa.FieldAddr:
		// A derived pointer into the same object: lifting it as a
		// single-operand conversion transfers the base's pointer
		// equality to the result.
		l.emit(ir.Instruction{Kind: ir.Convert, Site: l.site(ins), Operands: l.operands(ins.X)})

	case *ssa.IndexAddr:
		l.emit(ir.Instruction{Kind: ir.BinOp, Site: l.site(ins), Operands: l.operands(ins.X, ins.Index)})

	case *ssa.Call:
		l.liftCall(ins)
	}
	// Everything else (control flow, debug refs, ...) defines no
	// tracked dataflow.
}

// liftCall emits a call/bind pair for statically resolved calls. Dynamic
// calls have no callee descriptor to bind against and are skipped.
func (l *lifter) liftCall(call *ssa.Call) {
	callee := call.Common().StaticCallee()
	if callee == nil {
		return
	}

	params := make([]ir.Site, len(callee.Params))
	for i, p := range callee.Params {
		params[i] = l.site(p)
	}

	l.emit(ir.Instruction{
		Kind:     ir.Call,
		Site:     l.site(call),
		Callee:   &ir.Func{Name: callee.Name(), Params: params},
		Operands: l.operands(call.Common().Args...),
	})
	l.emit(ir.Instruction{Kind: ir.Bind})
}

// compositeAlloc reports whether the allocated object is a struct or
// array, which must be treated conservatively for partial aliasing.
func compositeAlloc(a *ssa.Alloc) bool {
	elem := a.Type().(*types.Pointer).Elem()
	switch elem.Underlying().(type) {
	case *types.Struct, *types.Array:
		return true
	}
	return false
}
