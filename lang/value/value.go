// Package value defines the runtime Value representation shared by the
// compiler, the garbage collector and the virtual machine: the tagged union
// of scalars and heap handles described in spec.md §3.
//
// Each variant is its own small Go type implementing Value, the same
// per-variant pattern the example corpus uses for its own runtime values
// (lang/machine/nil.go, lang/machine/float.go).
package value

import "strconv"

// Value is the tagged union of every runtime value: Nil, Bool, Number, or a
// handle into the GC heap (any type additionally implementing Obj).
//
// Equality on Values reduces to Go's own interface equality: Nil, Bool and
// Number are compared by their underlying scalar, and heap handles — which
// are always pointers — are compared by identity. Because the intern table
// guarantees equal string content always yields the same *object.ObjString
// pointer, identity comparison of two String values is equivalent to content
// comparison, exactly as spec.md's interning invariant requires.
type Value interface {
	// String returns the display form printed by the PRINT opcode.
	String() string
	// TypeName names the runtime type, used in error messages.
	TypeName() string
}

// NilType is the type of the single Nil value.
type NilType struct{}

func (NilType) String() string   { return "nil" }
func (NilType) TypeName() string { return "nil" }

// Nil is the sole value of type NilType.
var Nil Value = NilType{}

// Bool is a boolean scalar value.
type Bool bool

func (b Bool) String() string {
	if b {
		return "true"
	}
	return "false"
}
func (Bool) TypeName() string { return "bool" }

// Number is a double-precision scalar value. holo has no separate integer
// type, per spec.md §3.
type Number float64

func (n Number) String() string   { return strconv.FormatFloat(float64(n), 'g', -1, 64) }
func (n Number) TypeName() string { return "number" }

// IsTruthy implements holo's truthiness rule: only nil and false are falsy.
func IsTruthy(v Value) bool {
	switch v := v.(type) {
	case NilType:
		return false
	case Bool:
		return bool(v)
	default:
		return true
	}
}

// Equal implements spec.md's total equality: any two Values may be compared,
// heterogeneous pairs are never equal, and scalars compare by value while
// heap handles compare by identity.
func Equal(a, b Value) bool {
	return a == b
}

// Header is the intrusive bookkeeping every heap object (Obj) carries for the
// garbage collector: its mark bit, its link in the GC's all-objects list, and
// its accounted size in bytes_allocated.
type Header struct {
	Marked bool
	Next   Obj
	Size   int
}

// Obj is a Value additionally known to be a garbage-collected heap object:
// String, Function, Closure, Upvalue, Class, Instance, BoundMethod or
// NativeFn, per spec.md §3. GCHeader exposes the object's collector
// bookkeeping; Children enumerates every Value directly reachable from this
// object, the per-kind marking logic spec.md §4.4 describes.
type Obj interface {
	Value
	GCHeader() *Header
	Children(mark func(Value))
}
