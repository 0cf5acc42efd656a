package ssaflow

import (
	"go/ast"
	"go/importer"
	"go/parser"
	"go/token"
	"go/types"
	"testing"

	"golang.org/x/tools/go/ssa"
	"golang.org/x/tools/go/ssa/ssautil"

	"github.com/weft-analysis/weft/analysis/depscope"
	"github.com/weft-analysis/weft/analysis/entity"
	"github.com/weft-analysis/weft/analysis/ir"
)

func buildSSA(t *testing.T, src string) *ssa.Package {
	t.Helper()

	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, "p.go", src, 0)
	if err != nil {
		t.Fatal(err)
	}

	pkg, _, err := ssautil.BuildPackage(
		&types.Config{Importer: importer.Default()},
		fset, types.NewPackage("p", ""), []*ast.File{f},
		ssa.SanityCheckFunctions)
	if err != nil {
		t.Fatal(err)
	}
	return pkg
}

func kinds(instrs []ir.Instruction) []ir.Kind {
	ks := make([]ir.Kind, len(instrs))
	for i, ins := range instrs {
		ks[i] = ins.Kind
	}
	return ks
}

func findKind(t *testing.T, instrs []ir.Instruction, k ir.Kind) ir.Instruction {
	t.Helper()
	for _, ins := range instrs {
		if ins.Kind == k {
			return ins
		}
	}
	t.Fatalf("no %v instruction in the lifted stream %v", k, kinds(instrs))
	return ir.Instruction{}
}

func TestLiftLoadStore(t *testing.T) {
	pkg := buildSSA(t, `package p

func f(a int) int {
	p := new(int)
	*p = a
	return *p
}
`)
	instrs := LiftFunction(pkg.Func("f"))

	alloc := findKind(t, instrs, ir.Alloc)
	store := findKind(t, instrs, ir.Store)
	load := findKind(t, instrs, ir.Load)
	if alloc.Composite {
		t.Error("scalar allocation lifted as composite")
	}
	if len(store.Operands) != 2 || len(load.Operands) != 1 {
		t.Fatal("store/load operand shapes are wrong")
	}

	// The lifted stream must carry the dataflow: the loaded result
	// depends on the parameter that was stored.
	s := depscope.NewRoot(entity.NewRegistry(), nil)
	for _, ins := range instrs {
		s.Execute(ins)
	}

	param, ok := s.LatestValue(store.Operands[0].Site)
	if !ok {
		t.Fatal("stored parameter has no value")
	}
	loaded, ok := s.LatestValue(load.Site)
	if !ok {
		t.Fatal("load result has no value")
	}
	if !s.Depends(param, loaded) {
		t.Error("load result does not depend on the stored parameter")
	}
}

func TestLiftCompositeAlloc(t *testing.T) {
	pkg := buildSSA(t, `package p

func g() int {
	var s struct{ x, y int }
	s.x = 1
	return s.x
}
`)
	instrs := LiftFunction(pkg.Func("g"))

	if alloc := findKind(t, instrs, ir.Alloc); !alloc.Composite {
		t.Error("struct allocation not lifted as composite")
	}
	// The field address is a derived pointer and must keep the base's
	// pointer equality, so the field load resolves to the allocation.
	s := depscope.NewRoot(entity.NewRegistry(), nil)
	for _, ins := range instrs {
		s.Execute(ins)
	}

	load := findKind(t, instrs, ir.Load)
	ptr, ok := s.LatestValue(load.Operands[0].Site)
	if !ok {
		t.Fatal("field pointer has no value")
	}
	if _, ok := s.ResolveAllocation(ptr); !ok {
		t.Error("derived field pointer does not resolve to the allocation")
	}
}

func TestLiftStaticCall(t *testing.T) {
	pkg := buildSSA(t, `package p

func callee(b int) int { return b }

func caller(a int) int { return callee(a) }
`)
	instrs := LiftFunction(pkg.Func("caller"))

	call := findKind(t, instrs, ir.Call)
	if call.Callee == nil || call.Callee.Name != "callee" {
		t.Fatalf("call lifted without its static callee")
	}
	if len(call.Callee.Params) != 1 || call.Callee.Params[0].Name() != "b" {
		t.Error("callee parameter sites are wrong")
	}

	bind := instrs[len(instrs)-1]
	if bind.Kind != ir.Bind {
		t.Errorf("call not followed by a bind, stream ends with %v", bind.Kind)
	}

	// Binding in a callee scope wires the argument to the parameter.
	caller := depscope.NewRoot(entity.NewRegistry(), nil)
	for _, ins := range instrs[:len(instrs)-1] {
		caller.Execute(ins)
	}
	callee := depscope.NewScope(caller)
	callee.Execute(bind)

	arg, ok := caller.LatestValue(call.Operands[0].Site)
	if !ok {
		t.Fatal("call argument has no value")
	}
	param, ok := callee.LatestValue(call.Callee.Params[0])
	if !ok {
		t.Fatal("bound parameter has no value")
	}
	if !callee.Depends(arg, param) {
		t.Error("parameter does not depend on the call argument")
	}
}

func TestLiftSkipsControlFlow(t *testing.T) {
	pkg := buildSSA(t, `package p

func h(a int) int {
	if a > 0 {
		return a
	}
	return -a
}
`)
	instrs := LiftFunction(pkg.Func("h"))

	for _, ins := range instrs {
		switch ins.Kind {
		case ir.Load, ir.Store, ir.Alloc, ir.Call, ir.Bind:
			t.Errorf("control-flow-only function lifted a %v", ins.Kind)
		}
	}
}
