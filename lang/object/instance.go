package object

import (
	"github.com/dolthub/swiss"

	"github.com/Valkyrja-Design/holo/lang/value"
)

// ObjInstance is an instance of an ObjClass: its class pointer and its own
// field table. Fields are created lazily by the first SetProperty that
// names them; there is no fixed field list declared by a class.
type ObjInstance struct {
	value.Header
	Class  *ObjClass
	Fields *swiss.Map[string, value.Value]
}

var _ value.Obj = (*ObjInstance)(nil)

// NewInstance returns an instance of class with an empty field table.
func NewInstance(class *ObjClass) *ObjInstance {
	return &ObjInstance{Class: class, Fields: swiss.NewMap[string, value.Value](8)}
}

func (i *ObjInstance) String() string            { return i.Class.Name.Str + " instance" }
func (*ObjInstance) TypeName() string            { return "instance" }
func (i *ObjInstance) GCHeader() *value.Header   { return &i.Header }

func (i *ObjInstance) Children(mark func(value.Value)) {
	mark(i.Class)
	i.Fields.Iter(func(_ string, v value.Value) (stop bool) {
		mark(v)
		return false
	})
}
