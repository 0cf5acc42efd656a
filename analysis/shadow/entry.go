// Package shadow maintains the longer-lived view of a path's memory: a
// two-part map from canonical location indices to stored expressions,
// partitioned by whether the address is concrete or symbolic. The store
// materializes the facts the interpolant projection draws from, and
// clones cheaply when the engine forks an execution state.
package shadow

import (
	"fmt"
	"sync/atomic"

	"github.com/weft-analysis/weft/analysis/ir"
)

// Entry is a single memory binding. Entries are shared between store
// snapshots created by forking; the reference count governs when an entry
// dies and whether it may be mutated in place. A shared entry is
// immutable: mutating it without cloning first is a fatal invariant
// violation, not a recoverable condition.
type Entry struct {
	refs int32

	loc          ir.Location
	addressValue ir.Expr
	content      ir.Expr

	// viaLoad distinguishes facts observed by loading from facts written
	// by storing, for consumers that care about provenance.
	viaLoad bool
}

func newEntry(loc ir.Location, addressValue, content ir.Expr, viaLoad bool) *Entry {
	return &Entry{
		refs:         1,
		loc:          loc,
		addressValue: addressValue,
		content:      content,
		viaLoad:      viaLoad,
	}
}

func (e *Entry) Index() ir.Index       { return e.loc.Index() }
func (e *Entry) Location() ir.Location { return e.loc }
func (e *Entry) AddressValue() ir.Expr { return e.addressValue }
func (e *Entry) Content() ir.Expr      { return e.content }
func (e *Entry) ViaLoad() bool         { return e.viaLoad }

func (e *Entry) retain() {
	atomic.AddInt32(&e.refs, 1)
}

func (e *Entry) release() {
	if atomic.AddInt32(&e.refs, -1) < 0 {
		panic("shadow: entry released more times than retained")
	}
}

// shared reports whether more than one snapshot references the entry.
func (e *Entry) shared() bool {
	return atomic.LoadInt32(&e.refs) > 1
}

// set overwrites the binding in place. Only legal on an unshared entry;
// callers must clone-on-write otherwise.
func (e *Entry) set(loc ir.Location, addressValue, content ir.Expr, viaLoad bool) {
	if e.shared() {
		panic("shadow: in-place mutation of a shared entry")
	}
	e.loc = loc
	e.addressValue = addressValue
	e.content = content
	e.viaLoad = viaLoad
}

func (e *Entry) String() string {
	tag := ""
	if e.viaLoad {
		tag = " (loaded)"
	}
	return fmt.Sprintf("%s ↦ %s%s", e.loc.Index(), e.content, tag)
}
