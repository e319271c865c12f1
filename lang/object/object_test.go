package object_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Valkyrja-Design/holo/lang/object"
	"github.com/Valkyrja-Design/holo/lang/value"
)

func TestClassFindMethodWalksSuperclass(t *testing.T) {
	base := object.NewClass(&object.ObjString{Str: "Animal"})
	speak := &object.ObjClosure{Function: &object.ObjFunction{Name: "speak"}}
	base.Methods.Put("speak", speak)

	derived := object.NewClass(&object.ObjString{Str: "Dog"})
	derived.Superclass = base

	found := derived.FindMethod("speak")
	require.Same(t, speak, found)
	require.Nil(t, derived.FindMethod("bark"))
}

func TestInstanceFieldsAreLazy(t *testing.T) {
	class := object.NewClass(&object.ObjString{Str: "Point"})
	inst := object.NewInstance(class)
	_, ok := inst.Fields.Get("x")
	require.False(t, ok)

	inst.Fields.Put("x", value.Number(3))
	v, ok := inst.Fields.Get("x")
	require.True(t, ok)
	require.Equal(t, value.Number(3), v)
}

func TestUpvalueCloseSnapshotsValue(t *testing.T) {
	slot := value.Value(value.Number(1))
	uv := &object.ObjUpvalue{Location: &slot}
	require.False(t, uv.IsClosed)
	require.Equal(t, value.Number(1), uv.Get())

	slot = value.Number(2)
	require.Equal(t, value.Number(2), uv.Get())

	uv.Close()
	require.True(t, uv.IsClosed)
	slot = value.Number(99) // mutating the old stack slot no longer affects uv
	require.Equal(t, value.Number(2), uv.Get())
}

func TestClosureChildrenIncludeFunctionAndUpvalues(t *testing.T) {
	fn := &object.ObjFunction{Name: "f"}
	slot := value.Value(value.Nil)
	uv := &object.ObjUpvalue{Location: &slot}
	clos := &object.ObjClosure{Function: fn, Upvalues: []*object.ObjUpvalue{uv}}

	var seen []value.Value
	clos.Children(func(v value.Value) { seen = append(seen, v) })
	require.Contains(t, seen, value.Value(fn))
	require.Contains(t, seen, value.Value(uv))
}
