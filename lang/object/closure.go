package object

import "github.com/Valkyrja-Design/holo/lang/value"

// ObjClosure pairs a compiled ObjFunction with the upvalues it captured at
// the point it was created by OP_CLOSURE. Every callable holo function value
// the VM pushes, passes, and invokes is a closure, even one with zero
// upvalues.
type ObjClosure struct {
	value.Header
	Function *ObjFunction
	Upvalues []*ObjUpvalue
}

var _ value.Obj = (*ObjClosure)(nil)

func (c *ObjClosure) String() string            { return c.Function.String() }
func (*ObjClosure) TypeName() string            { return "function" }
func (c *ObjClosure) GCHeader() *value.Header   { return &c.Header }

func (c *ObjClosure) Children(mark func(value.Value)) {
	mark(c.Function)
	for _, uv := range c.Upvalues {
		mark(uv)
	}
}
