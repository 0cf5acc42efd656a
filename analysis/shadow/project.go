package shadow

import (
	"fmt"

	"github.com/weft-analysis/weft/analysis/ir"
)

// LowerStore maps address indices within one allocation site to the
// expression stored there.
type LowerStore = map[ir.Index]ir.Expr

// TopStore groups lower stores by the allocation site of their address.
type TopStore = map[ir.Site]LowerStore

// GetStoredExpressions projects the store into interpolant form. Stored
// expressions are rewritten through the renamer so they are phrased in
// the caller's vocabulary; a renamer that also understands call
// histories is given callHistory for context-sensitive rewriting. With
// coreOnly set, entries whose content the core oracle does not claim are
// omitted. coreOnly without an oracle is a programming error.
func (s *Store) GetStoredExpressions(
	callHistory []ir.Site,
	renamer ir.Renamer,
	core ir.CoreOracle,
	coreOnly bool,
) (concrete, symbolic TopStore) {
	s.ensureLive("projection")
	if coreOnly && core == nil {
		panic("shadow: core-restricted projection without a core oracle")
	}
	s.checkKeys()

	concrete = s.project(s.concrete.Lookup, s.concreteKeys, callHistory, renamer, core, coreOnly)
	symbolic = s.project(s.symbolic.Lookup, s.symbolicKeys, callHistory, renamer, core, coreOnly)
	return
}

func (s *Store) project(
	lookup func(ir.Index) (*Entry, bool),
	keys []ir.Index,
	callHistory []ir.Site,
	renamer ir.Renamer,
	core ir.CoreOracle,
	coreOnly bool,
) TopStore {
	res := TopStore{}
	for _, k := range keys {
		e, ok := lookup(k)
		if !ok {
			panic(fmt.Sprintf("shadow: ordered key %s vanished during projection", k))
		}
		if coreOnly && !core.InCore(e.Content()) {
			continue
		}

		content := e.Content()
		if renamer != nil {
			if ctx, ok := renamer.(ir.ContextRenamer); ok {
				content = ctx.RenameIn(callHistory, content)
			} else {
				content = renamer.Rename(content)
			}
		}

		site := e.Location().Site()
		lower, ok := res[site]
		if !ok {
			lower = LowerStore{}
			res[site] = lower
		}
		lower[e.Index()] = content
	}
	return res
}
