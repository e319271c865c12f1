package gc_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Valkyrja-Design/holo/lang/gc"
	"github.com/Valkyrja-Design/holo/lang/value"
)

func TestCollectSweepsUnreachable(t *testing.T) {
	heap := gc.New()
	kept := heap.NewString("kept")
	heap.NewString("garbage")

	before := heap.BytesAllocated()
	require.Greater(t, before, 0)

	heap.Collect(func(mark func(value.Value)) {
		mark(kept)
	})

	require.Equal(t, 1, heap.Collections())
	require.Equal(t, len(kept.Str), heap.BytesAllocated())
}

func TestCollectKeepsTransitiveChildren(t *testing.T) {
	heap := gc.New()
	fn := heap.NewFunction()
	fn.Name = "f"
	clos := heap.NewClosure(fn, 0)
	before := heap.BytesAllocated()

	heap.Collect(func(mark func(value.Value)) {
		mark(clos)
	})

	// fn is reached only through clos, so nothing is swept.
	require.Equal(t, before, heap.BytesAllocated())
	require.True(t, fn.GCHeader().Marked == false) // cleared after sweep
	require.Equal(t, 1, heap.Collections())
}

func TestInternReturnsCanonicalPointer(t *testing.T) {
	heap := gc.New()
	in := gc.NewIntern(heap)

	a := in.Get("hello")
	b := in.Get("hello")
	require.Same(t, a, b)

	c := in.Get("world")
	require.NotSame(t, a, c)
}

func TestInternRemoveUnmarkedDropsDeadEntries(t *testing.T) {
	heap := gc.New()
	in := gc.NewIntern(heap)
	kept := in.Get("kept")
	garbage := in.Get("garbage")

	kept.GCHeader().Marked = true
	in.RemoveUnmarked()

	again := in.Get("kept")
	require.Same(t, kept, again)

	fresh := in.Get("garbage")
	require.NotNil(t, fresh)
	require.NotSame(t, garbage, fresh)
}

func TestSymTabAssignsDenseSlots(t *testing.T) {
	st := gc.NewSymTab()
	a := st.Intern("a")
	b := st.Intern("b")
	again := st.Intern("a")

	require.Equal(t, 0, a)
	require.Equal(t, 1, b)
	require.Equal(t, a, again)
	require.Equal(t, "a", st.Name(0))
	require.Equal(t, 2, st.Len())

	idx, ok := st.Lookup("b")
	require.True(t, ok)
	require.Equal(t, b, idx)

	_, ok = st.Lookup("missing")
	require.False(t, ok)
}
