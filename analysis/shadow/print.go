package shadow

import (
	"fmt"
	"io"
	"strings"

	"github.com/weft-analysis/weft/analysis/ir"
	"github.com/weft-analysis/weft/utils"
	i "github.com/weft-analysis/weft/utils/indenter"

	"github.com/fatih/color"
)

var colorize = struct {
	Part  func(...interface{}) string
	Index func(...interface{}) string
}{
	Part: func(is ...interface{}) string {
		return utils.CanColorize(color.New(color.FgHiWhite, color.Faint).SprintFunc())(is...)
	},
	Index: func(is ...interface{}) string {
		return utils.CanColorize(color.New(color.FgHiCyan).SprintFunc())(is...)
	},
}

func (s *Store) renderPart(lookup func(ir.Index) (*Entry, bool), keys []ir.Index) string {
	if len(keys) == 0 {
		return "∅"
	}
	entries := make([]string, len(keys))
	for idx, k := range keys {
		e, ok := lookup(k)
		if !ok {
			panic(fmt.Sprintf("shadow: ordered key %s vanished during rendering", k))
		}
		tag := ""
		if e.ViaLoad() {
			tag = " (loaded)"
		}
		entries[idx] = fmt.Sprintf("%s@%s ↦ %s%s",
			e.Location().Site().Name(), colorize.Index(k.String()), e.Content(), tag)
	}
	return strings.Join(entries, ", ")
}

// String renders both parts in first-insertion key order, concrete part
// first. Identical internal state always renders identically.
func (s *Store) String() string {
	s.ensureLive("rendering")
	s.checkKeys()

	return i.Indenter().Start("store {").NestStrings(
		colorize.Part("concrete: ")+s.renderPart(s.concrete.Lookup, s.concreteKeys),
		colorize.Part("symbolic: ")+s.renderPart(s.symbolic.Lookup, s.symbolicKeys),
	).End("}")
}

// Dump writes the rendering to the given writer.
func (s *Store) Dump(w io.Writer) {
	fmt.Fprintln(w, s)
}
