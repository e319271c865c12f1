package object

import (
	"fmt"

	"github.com/Valkyrja-Design/holo/lang/value"
)

// NativeFn is the signature every native (built-in) function implements: it
// receives its already-evaluated arguments and returns a result or a
// runtime error, which the VM reports the same way as an error raised from
// holo source.
type NativeFn func(args []value.Value) (value.Value, error)

// ObjNative wraps a Go function so it can be stored as a global and called
// from holo code like any other callable.
type ObjNative struct {
	value.Header
	Name  string
	Arity int // -1 means variadic
	Fn    NativeFn
}

var _ value.Obj = (*ObjNative)(nil)

func (n *ObjNative) String() string            { return fmt.Sprintf("<native fn %s>", n.Name) }
func (*ObjNative) TypeName() string            { return "function" }
func (n *ObjNative) GCHeader() *value.Header   { return &n.Header }

func (n *ObjNative) Children(mark func(value.Value)) {}
