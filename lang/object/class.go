package object

import (
	"github.com/dolthub/swiss"

	"github.com/Valkyrja-Design/holo/lang/value"
)

// ObjClass is a class declaration: its name, its superclass and its method
// table, keyed by method name. OP_INHERIT copies the superclass's methods
// into the subclass's table once, at class-definition time, before the
// subclass's own methods are added (and override them); FindMethod
// additionally walks the Superclass chain when a name is not in the table.
type ObjClass struct {
	value.Header
	Name       *ObjString
	Methods    *swiss.Map[string, *ObjClosure]
	Superclass *ObjClass
}

var _ value.Obj = (*ObjClass)(nil)

// NewClass returns a class with an empty method table.
func NewClass(name *ObjString) *ObjClass {
	return &ObjClass{Name: name, Methods: swiss.NewMap[string, *ObjClosure](8)}
}

func (c *ObjClass) String() string            { return c.Name.Str }
func (*ObjClass) TypeName() string            { return "class" }
func (c *ObjClass) GCHeader() *value.Header   { return &c.Header }

// FindMethod looks up name in c's own method table, then its superclass
// chain. It returns nil if no class in the chain defines it.
func (c *ObjClass) FindMethod(name string) *ObjClosure {
	if m, ok := c.Methods.Get(name); ok {
		return m
	}
	if c.Superclass != nil {
		return c.Superclass.FindMethod(name)
	}
	return nil
}

func (c *ObjClass) Children(mark func(value.Value)) {
	mark(c.Name)
	if c.Superclass != nil {
		mark(c.Superclass)
	}
	c.Methods.Iter(func(_ string, m *ObjClosure) (stop bool) {
		mark(m)
		return false
	})
}
