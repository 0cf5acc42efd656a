package depscope

import (
	"fmt"

	"github.com/weft-analysis/weft/analysis/config"
	"github.com/weft-analysis/weft/analysis/entity"
	"github.com/weft-analysis/weft/analysis/ir"
)

// Execute translates one instruction into versioned entities and relation
// records. The dispatch is exhaustive over the closed instruction set.
func (s *Scope) Execute(ins ir.Instruction) {
	s.ensureOpen("execute")

	switch ins.Kind {
	case ir.Alloc:
		s.execAlloc(ins)
	case ir.Load:
		s.execLoad(ins)
	case ir.Store:
		s.execStore(ins)
	case ir.BinOp, ir.UnOp, ir.Convert:
		s.execCompute(ins)
	case ir.Call:
		s.RegisterCallArguments(ins)
	case ir.Bind:
		s.BindCallArguments()
	default:
		panic(fmt.Sprintf("depscope: unrecognized instruction kind: %v", ins.Kind))
	}
}

// execAlloc creates the memory object and the pointer value holding its
// address.
func (s *Scope) execAlloc(ins ir.Instruction) {
	a := s.newAllocation(ins.Site, ins.Composite)
	v := s.newValue(ins.Site)
	s.addEquality(v, a)
}

// execLoad resolves the pointer operand to an allocation and makes the
// result depend on the most recent value stored into it. A pointer that
// resolves to nothing falls back to the configured conservative policy;
// the result value is created either way, never dropped.
func (s *Scope) execLoad(ins ir.Instruction) {
	s.requireOperands(ins, 1)

	ptr, ok := s.operandValue(ins.Operands[0])
	result := s.newValue(ins.Site)
	if !ok {
		s.applyUnresolved(result)
		return
	}

	a, resolved := s.resolveAllocation(ptr)
	if !resolved {
		s.applyUnresolved(result)
		return
	}

	if stored, ok := s.stores(a); ok {
		s.addFlow(stored, result)
	}
	// An allocation with no recorded cell is an uninitialized read: the
	// result legitimately has no dependency.
}

// execStore appends a storage cell for the resolved allocation, shadowing
// prior cells in lookup order, and a flow edge from the stored value to a
// synthetic content value so later loads depend on this write.
func (s *Scope) execStore(ins ir.Instruction) {
	s.requireOperands(ins, 2)

	v, ok := s.operandValue(ins.Operands[0])
	if !ok {
		// A stored constant carries no prior value; materialize one so
		// the cell has an identity to hand out to later loads.
		v = s.newUnboundValue(ins.Site)
	}
	content := s.newUnboundValue(ins.Site)
	s.addFlow(v, content)

	ptr, ok := s.operandValue(ins.Operands[1])
	if ok {
		if a, resolved := s.resolveAllocation(ptr); resolved {
			s.addCell(a, v)
			return
		}
	}

	// Unresolved store target.
	switch s.cfg.UnresolvedPolicy {
	case config.PolicyAllLive:
		// The write may land anywhere: weakly update every live
		// allocation.
		s.forEachLiveAllocation(func(a *entity.Allocation) {
			s.addCell(a, v)
		})
	case config.PolicyNone:
		content.MarkUnsound()
	default:
		panic(fmt.Sprintf("depscope: unrecognized unresolved-policy: %q", s.cfg.UnresolvedPolicy))
	}
}

// execCompute handles the arithmetic/cast/unary family: the result depends
// on all of its direct inputs. A pointer operand additionally transfers
// its pointer equality to the result, keeping derived pointers inside the
// allocation's must-alias region.
func (s *Scope) execCompute(ins ir.Instruction) {
	result := s.newValue(ins.Site)
	for _, op := range ins.Operands {
		v, ok := s.operandValue(op)
		if !ok {
			continue
		}
		s.addFlow(v, result)
		if a, resolved := s.resolveAllocation(v); resolved {
			s.addEquality(result, a)
		}
	}
}

// RegisterCallArguments records the caller's evaluated argument values and
// the target callee, to be consumed by the callee scope's argument binding.
func (s *Scope) RegisterCallArguments(ins ir.Instruction) {
	s.ensureOpen("register call arguments")
	if ins.Callee == nil {
		panic("depscope: call instruction without a callee descriptor")
	}

	args := make([]*entity.Value, 0, len(ins.Operands))
	for _, op := range ins.Operands {
		if v, ok := s.operandValue(op); ok {
			args = append(args, v)
		} else {
			// Constant arguments get a fresh value at the call site so
			// positional binding stays aligned with the parameter list.
			args = append(args, s.newUnboundValue(ins.Site))
		}
	}

	s.callee = ins.Callee
	s.args = args
}

// BindCallArguments matches the arguments recorded by the enclosing scope
// positionally against the callee's formal parameters. Each parameter
// receives a fresh value depending on its argument; pointer arguments
// transfer their equality. A count mismatch is a fatal precondition
// violation: it means the instruction stream and the fork protocol
// disagree.
func (s *Scope) BindCallArguments() {
	s.ensureOpen("bind call arguments")
	caller := s.tail
	if caller == nil || caller.callee == nil {
		panic("depscope: argument binding without a registered call")
	}

	callee := caller.callee
	if len(caller.args) != len(callee.Params) {
		panic(fmt.Sprintf("depscope: call to %s with %d arguments for %d parameters",
			callee.Name, len(caller.args), len(callee.Params)))
	}

	s.callee = callee
	for i, arg := range caller.args {
		param := s.newValue(callee.Params[i])
		s.addFlow(arg, param)
		if a, resolved := s.resolveAllocation(arg); resolved {
			s.addEquality(param, a)
		}
	}

	// The registration is consumed.
	caller.callee = nil
	caller.args = nil
}

// applyUnresolved implements the configured policy for a load through an
// unresolved pointer.
func (s *Scope) applyUnresolved(result *entity.Value) {
	switch s.cfg.UnresolvedPolicy {
	case config.PolicyAllLive:
		s.forEachLiveAllocation(func(a *entity.Allocation) {
			if stored, ok := s.stores(a); ok {
				s.addFlow(stored, result)
			}
		})
	case config.PolicyNone:
		result.MarkUnsound()
	default:
		panic(fmt.Sprintf("depscope: unrecognized unresolved-policy: %q", s.cfg.UnresolvedPolicy))
	}
}

// operandValue evaluates an operand to the value it references. Constants
// reference no prior value. An allocation-site operand that has not been
// materialized yet creates the allocation and its address value on the
// spot.
func (s *Scope) operandValue(op ir.Operand) (*entity.Value, bool) {
	switch op.Kind {
	case ir.ConstOperand:
		return nil, false
	case ir.ValueOperand:
		return s.getOrCreateValue(op.Site), true
	case ir.AllocOperand:
		if v, ok := s.latestValue(op.Site); ok {
			return v, true
		}
		a := s.newAllocation(op.Site, false)
		v := s.newValue(op.Site)
		s.addEquality(v, a)
		return v, true
	}
	panic(fmt.Sprintf("depscope: unrecognized operand kind: %v", op.Kind))
}

func (s *Scope) requireOperands(ins ir.Instruction, n int) {
	if len(ins.Operands) != n {
		panic(fmt.Sprintf("depscope: %v instruction with %d operands, expected %d",
			ins.Kind, len(ins.Operands), n))
	}
}
