// Package object defines the heap-allocated object kinds of holo's runtime:
// strings, functions, closures, upvalues, classes, instances, bound methods
// and natives. Each is a small Go type implementing value.Obj, the same
// per-kind pattern the example corpus uses for its own runtime values
// (lang/machine/function.go, lang/machine/map.go, lang/machine/cell.go).
package object

import (
	"github.com/Valkyrja-Design/holo/lang/value"
)

// ObjString is an interned, immutable string value. Two ObjStrings with
// equal content are always the same pointer once they have passed through
// the garbage collector's intern table, so Value equality's pointer
// comparison doubles as content comparison for strings.
type ObjString struct {
	value.Header
	Str string
}

var _ value.Obj = (*ObjString)(nil)

func (s *ObjString) String() string           { return s.Str }
func (*ObjString) TypeName() string           { return "string" }
func (s *ObjString) GCHeader() *value.Header   { return &s.Header }
func (s *ObjString) Children(mark func(value.Value)) {}
