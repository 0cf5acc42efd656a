package depscope

import (
	"fmt"
	"io"
	"strings"

	"github.com/weft-analysis/weft/utils"
	i "github.com/weft-analysis/weft/utils/indenter"

	"github.com/fatih/color"
)

var colorize = struct {
	Field  func(...interface{}) string
	Callee func(...interface{}) string
}{
	Field: func(is ...interface{}) string {
		return utils.CanColorize(color.New(color.FgHiWhite, color.Faint).SprintFunc())(is...)
	},
	Callee: func(is ...interface{}) string {
		return utils.CanColorize(color.New(color.FgHiMagenta).SprintFunc())(is...)
	},
}

func renderList[T fmt.Stringer](xs []T) string {
	if len(xs) == 0 {
		return "∅"
	}
	strs := make([]string, len(xs))
	for idx, x := range xs {
		strs[idx] = x.String()
	}
	return strings.Join(strs, ", ")
}

// String renders this scope's own facts in insertion order. The rendering
// is deterministic for identical internal state, which the golden-file
// regression tests rely on.
func (s *Scope) String() string {
	if s.closed {
		return "scope (closed)"
	}

	header := "scope {"
	if s.callee != nil {
		header = fmt.Sprintf("scope %s {", colorize.Callee(s.callee.Name))
	}

	return i.Indenter().Start(header).NestStrings(
		colorize.Field("values: ")+renderList(s.values),
		colorize.Field("allocations: ")+renderList(s.allocs),
		colorize.Field("equalities: ")+renderList(s.equalities),
		colorize.Field("cells: ")+renderList(s.cells),
		colorize.Field("flows: ")+renderList(s.flows),
	).End("}")
}

// ChainString renders the scope and all of its ancestors, innermost first,
// each level nested one tab deeper as the chain recedes.
func (s *Scope) ChainString() string {
	var sb strings.Builder
	depth := 0
	for cur := s; cur != nil; cur = cur.tail {
		pad := strings.Repeat("  ", depth)
		for _, line := range strings.Split(cur.String(), "\n") {
			sb.WriteString(pad)
			sb.WriteString(line)
			sb.WriteString("\n")
		}
		depth++
	}
	return sb.String()
}

// Dump writes the chain rendering to the given writer.
func (s *Scope) Dump(w io.Writer) {
	fmt.Fprint(w, s.ChainString())
}
