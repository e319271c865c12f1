package gc

import (
	"github.com/dolthub/swiss"

	"github.com/Valkyrja-Design/holo/lang/object"
)

// Intern is holo's string interning table: a canonical ObjString per
// distinct string content, so that two holo string values with equal
// content are always represented by the same heap pointer. This is what
// lets value.Equal compare strings by identity instead of by content.
type Intern struct {
	gc     *GC
	table  *swiss.Map[string, *object.ObjString]
}

// NewIntern returns an empty intern table backed by gc for allocation.
func NewIntern(gc *GC) *Intern {
	return &Intern{gc: gc, table: swiss.NewMap[string, *object.ObjString](64)}
}

// Get returns the canonical ObjString for s, allocating and registering one
// through gc the first time s is seen.
func (in *Intern) Get(s string) *object.ObjString {
	if existing, ok := in.table.Get(s); ok {
		return existing
	}
	obj := in.gc.NewString(s)
	in.table.Put(s, obj)
	return obj
}

// RemoveUnmarked drops every entry whose ObjString was not marked during the
// most recent trace. It must run after trace() and before sweep(), the same
// ordering a weak-reference table requires with a tracing collector:
// otherwise sweep would unlink the now-unreachable string from the
// all-objects list while Intern still holds a stale pointer to it.
func (in *Intern) RemoveUnmarked() {
	var dead []string
	in.table.Iter(func(s string, obj *object.ObjString) (stop bool) {
		if !obj.GCHeader().Marked {
			dead = append(dead, s)
		}
		return false
	})
	for _, s := range dead {
		in.table.Delete(s)
	}
}
