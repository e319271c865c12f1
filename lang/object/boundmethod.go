package object

import "github.com/Valkyrja-Design/holo/lang/value"

// ObjBoundMethod pairs a method closure with the instance it was looked up
// on, produced by OP_GET_PROPERTY/OP_GET_SUPER when the named property
// resolves to a method rather than a field. Calling a bound method pushes
// its receiver into local slot 0 in place of the usual callee-itself slot.
type ObjBoundMethod struct {
	value.Header
	Receiver *ObjInstance
	Method   *ObjClosure
}

var _ value.Obj = (*ObjBoundMethod)(nil)

func (b *ObjBoundMethod) String() string            { return b.Method.String() }
func (*ObjBoundMethod) TypeName() string            { return "function" }
func (b *ObjBoundMethod) GCHeader() *value.Header   { return &b.Header }

func (b *ObjBoundMethod) Children(mark func(value.Value)) {
	mark(b.Receiver)
	mark(b.Method)
}
