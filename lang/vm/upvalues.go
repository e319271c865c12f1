package vm

import (
	"golang.org/x/exp/slices"

	"github.com/Valkyrja-Design/holo/lang/object"
)

// captureUpvalue returns an open upvalue for the stack slot at absolute
// index stackIndex, reusing an existing one if the same local is already
// captured by another closure (so both closures observe the same writes).
// openUpvalues is kept sorted descending by StackIndex, mirroring clox's
// linked list ordered from the top of the stack down; BinarySearchFunc/
// Insert from x/exp/slices keep the list ordered without a full scan+sort
// on every capture.
func (vm *VM) captureUpvalue(stackIndex int) *object.ObjUpvalue {
	cmp := func(uv *object.ObjUpvalue, target int) int {
		return target - uv.StackIndex // descending order
	}
	i, found := slices.BinarySearchFunc(vm.openUpvalues, stackIndex, cmp)
	if found {
		return vm.openUpvalues[i]
	}

	created := vm.heap.NewUpvalue(&vm.stack[stackIndex], stackIndex)
	vm.openUpvalues = slices.Insert(vm.openUpvalues, i, created)
	return created
}

// closeUpvalues closes every open upvalue at or above absolute stack index
// from, snapshotting each one's value before its stack slot is discarded or
// reused, then drops them from the open list (they remain reachable only
// through whichever closures captured them).
func (vm *VM) closeUpvalues(from int) {
	i := 0
	for i < len(vm.openUpvalues) && vm.openUpvalues[i].StackIndex >= from {
		vm.openUpvalues[i].Close()
		i++
	}
	vm.openUpvalues = vm.openUpvalues[i:]
}
