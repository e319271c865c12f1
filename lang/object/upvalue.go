package object

import "github.com/Valkyrja-Design/holo/lang/value"

// ObjUpvalue is a reference cell a closure uses to share a captured local
// variable with the frame that declares it. While open, Location points
// directly into the VM's value stack; StackIndex records which slot, so the
// VM can find and dedupe open upvalues by index. Closing an upvalue (when
// its owning frame returns, or its block exits) copies the current value
// into Closed and repoints Location at it, after which the stack slot may be
// reused freely.
type ObjUpvalue struct {
	value.Header
	Location   *value.Value
	Closed     value.Value
	StackIndex int
	IsClosed   bool
}

var _ value.Obj = (*ObjUpvalue)(nil)

func (*ObjUpvalue) String() string               { return "upvalue" }
func (*ObjUpvalue) TypeName() string             { return "upvalue" }
func (u *ObjUpvalue) GCHeader() *value.Header    { return &u.Header }

// Close copies the current value out of the stack slot Location points to,
// making the upvalue self-contained. After Close, Get/Set operate on Closed
// regardless of whether the originating stack slot is later reused.
func (u *ObjUpvalue) Close() {
	u.Closed = *u.Location
	u.Location = &u.Closed
	u.IsClosed = true
}

func (u *ObjUpvalue) Get() value.Value  { return *u.Location }
func (u *ObjUpvalue) Set(v value.Value) { *u.Location = v }

func (u *ObjUpvalue) Children(mark func(value.Value)) {
	mark(*u.Location)
}
