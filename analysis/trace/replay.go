package trace

import (
	"github.com/weft-analysis/weft/analysis/depscope"
	"github.com/weft-analysis/weft/analysis/ir"
	"github.com/weft-analysis/weft/analysis/shadow"
)

// Replay drives every step through the scope chain and, when a store is
// given, mirrors the recorded memory detail into it. Bind steps push a
// callee scope onto the chain. The returned scope is the innermost one
// after the last step; callers query and dump through it.
func Replay(t *Trace, scope *depscope.Scope, store *shadow.Store) *depscope.Scope {
	cur := scope
	for _, step := range t.Steps {
		if step.Ins.Kind == ir.Bind {
			cur = depscope.NewScope(cur)
		}
		cur.Execute(step.Ins)

		if store == nil || step.Loc == nil {
			continue
		}
		if step.Ins.Kind == ir.Load {
			store.UpdateStoreWithLoadedValue(step.Loc, step.Address, step.Content)
		} else {
			store.UpdateStore(step.Loc, step.Address, step.Content)
		}
	}
	return cur
}
