// Package gc implements holo's tracing mark-and-sweep collector: the
// allocation entry points for every heap object kind, the gray-worklist
// mark/trace pass, and the sweep that unlinks unreached objects from the
// collector's own bookkeeping (Go's runtime collector reclaims the memory
// once nothing references it, exactly as letting go of the last pointer to
// any other Go value does).
package gc

import (
	"github.com/Valkyrja-Design/holo/lang/object"
	"github.com/Valkyrja-Design/holo/lang/value"
)

const (
	// initialThreshold is bytesAllocated's starting collection threshold.
	initialThreshold = 1 << 20 // 1 MiB
	// growthFactor scales the threshold after each collection to
	// bytesAllocated * growthFactor, so the collector runs less often as
	// the live set grows.
	growthFactor = 2.0
)

// GC owns every heap object allocated during a run, via an intrusive
// singly-linked list threaded through each object's Header.Next. It tracks
// estimated bytes allocated and, through ShouldCollect, reports when that
// crosses a threshold that grows with the live set.
type GC struct {
	objects   value.Obj // head of the all-objects list
	bytes     int
	threshold int
	growth    float64

	gray []value.Value // mark worklist, shared across every object kind

	collections int // number of completed collections, surfaced under --verbose
}

// New returns a GC with the default initial threshold and growth factor.
func New() *GC {
	return &GC{threshold: initialThreshold, growth: growthFactor}
}

// NewWithPolicy returns a GC with an explicit initial threshold and growth
// factor, read from configuration (see internal/maincmd.RuntimeConfig).
func NewWithPolicy(initialBytes int, growth float64) *GC {
	if initialBytes <= 0 {
		initialBytes = initialThreshold
	}
	if growth <= 1.0 {
		growth = growthFactor
	}
	return &GC{threshold: initialBytes, growth: growth}
}

// BytesAllocated returns the collector's current estimate of live heap
// bytes, for -v instrumentation.
func (gc *GC) BytesAllocated() int { return gc.bytes }

// Collections returns how many sweeps have run.
func (gc *GC) Collections() int { return gc.collections }

// ShouldCollect reports whether bytesAllocated has crossed the threshold
// since the last collection. The VM calls this at safe points (after each
// instruction completes) rather than gc checking it on every allocation, so
// a collection can never interrupt an allocation sequence mid object.
func (gc *GC) ShouldCollect() bool { return gc.bytes > gc.threshold }

func (gc *GC) register(obj value.Obj, size int) {
	header := obj.GCHeader()
	header.Next = gc.objects
	header.Size = size
	gc.objects = obj
	gc.bytes += size
}

// NewString allocates and registers a new ObjString. Callers needing
// canonical, deduplicated strings should go through an Intern table
// instead; NewString is for cases where distinct identity is acceptable or
// desired.
func (gc *GC) NewString(s string) *object.ObjString {
	obj := &object.ObjString{Str: s}
	gc.register(obj, len(s))
	return obj
}

// NewFunction allocates and registers a new, empty ObjFunction that the
// compiler then fills in as it compiles the function body.
func (gc *GC) NewFunction() *object.ObjFunction {
	obj := &object.ObjFunction{}
	gc.register(obj, sizeofFunction)
	return obj
}

// NewClosure allocates and registers a closure over fn with room for
// upvalueCount upvalue slots.
func (gc *GC) NewClosure(fn *object.ObjFunction, upvalueCount int) *object.ObjClosure {
	obj := &object.ObjClosure{Function: fn, Upvalues: make([]*object.ObjUpvalue, upvalueCount)}
	gc.register(obj, sizeofClosure+upvalueCount*sizeofPointer)
	return obj
}

// NewUpvalue allocates and registers an open upvalue pointing at location.
func (gc *GC) NewUpvalue(location *value.Value, stackIndex int) *object.ObjUpvalue {
	obj := &object.ObjUpvalue{Location: location, StackIndex: stackIndex}
	gc.register(obj, sizeofUpvalue)
	return obj
}

// NewClass allocates and registers a class named name with an empty method
// table.
func (gc *GC) NewClass(name *object.ObjString) *object.ObjClass {
	obj := object.NewClass(name)
	gc.register(obj, sizeofClass)
	return obj
}

// NewInstance allocates and registers an instance of class.
func (gc *GC) NewInstance(class *object.ObjClass) *object.ObjInstance {
	obj := object.NewInstance(class)
	gc.register(obj, sizeofInstance)
	return obj
}

// NewBoundMethod allocates and registers a method bound to receiver.
func (gc *GC) NewBoundMethod(receiver *object.ObjInstance, method *object.ObjClosure) *object.ObjBoundMethod {
	obj := &object.ObjBoundMethod{Receiver: receiver, Method: method}
	gc.register(obj, sizeofBoundMethod)
	return obj
}

// NewNative allocates and registers a native function.
func (gc *GC) NewNative(name string, arity int, fn object.NativeFn) *object.ObjNative {
	obj := &object.ObjNative{Name: name, Arity: arity, Fn: fn}
	gc.register(obj, sizeofNative)
	return obj
}

// Rough per-kind size estimates used only to decide when to collect; they do
// not need to match Go's actual allocator layout.
const (
	sizeofPointer     = 8
	sizeofFunction    = 64
	sizeofClosure     = 32
	sizeofUpvalue     = 40
	sizeofClass       = 48
	sizeofInstance    = 48
	sizeofBoundMethod = 24
	sizeofNative      = 48
)

// mark pushes v onto the gray worklist if it is a heap object that has not
// already been marked. Scalars (Nil, Bool, Number) are inert and ignored.
func (gc *GC) mark(v value.Value) {
	obj, ok := v.(value.Obj)
	if !ok {
		return
	}
	header := obj.GCHeader()
	if header.Marked {
		return
	}
	header.Marked = true
	gc.gray = append(gc.gray, v)
}

// trace repeatedly pops the gray worklist, asking each object for its
// directly-reachable children and marking those in turn, until the worklist
// is empty. A single shared worklist serves every object kind; each kind's
// own Children method supplies the kind-specific marking logic spec callers
// would otherwise split into per-kind gray sets.
func (gc *GC) trace() {
	for len(gc.gray) > 0 {
		v := gc.gray[len(gc.gray)-1]
		gc.gray = gc.gray[:len(gc.gray)-1]
		obj := v.(value.Obj)
		obj.Children(gc.mark)
	}
}

// sweep walks the all-objects list, unlinking and forgetting every object
// that was not marked this cycle (freeing the object is then Go runtime
// GC's job, once nothing else references it), and clears the mark bit on
// every survivor for the next cycle.
func (gc *GC) sweep() {
	var prev value.Obj
	cur := gc.objects
	for cur != nil {
		header := cur.GCHeader()
		next := header.Next
		if header.Marked {
			header.Marked = false
			prev = cur
		} else {
			gc.bytes -= header.Size
			if prev == nil {
				gc.objects = next
			} else {
				prev.GCHeader().Next = next
			}
		}
		cur = next
	}
}

// Collect runs one full mark-and-sweep cycle. markRoots is called once with
// gc's own mark function, and is expected to mark every root: the VM's
// value stack, its call-frame closures, open upvalues and globals. The
// intern table is not a root: its entries are weak and are dropped by the
// preSweep hook below when their string was not marked.
//
// preSweep, if given, runs after trace() but before sweep() — the window in
// which every live object's mark bit is still set, so callers that need to
// know liveness (the intern table dropping entries for strings that didn't
// survive) see accurate bits. sweep clears the mark bit on every survivor as
// it goes, so a hook run after Collect returns would see nothing as marked.
func (gc *GC) Collect(markRoots func(mark func(value.Value)), preSweep ...func()) {
	markRoots(gc.mark)
	gc.trace()
	for _, hook := range preSweep {
		hook()
	}
	gc.sweep()
	gc.collections++
	gc.threshold = int(float64(gc.bytes) * gc.growth)
}
