// Package vm implements holo's stack-based bytecode virtual machine: the
// dispatch loop that executes a compiled ObjFunction, its call/return and
// closure-capture machinery, and the runtime error reporting spec.md
// mandates.
//
// The Thread/Frame split the example corpus's own machine package uses
// (lang/machine/thread.go, lang/machine/frame.go) is the model for VM and
// frame here, adapted from nenuphar's register-free, heap-allocated frame
// list to holo's flat value stack with stack-relative call frames.
package vm

import (
	"context"
	"io"
	"os"

	"github.com/Valkyrja-Design/holo/lang/gc"
	"github.com/Valkyrja-Design/holo/lang/object"
	"github.com/Valkyrja-Design/holo/lang/value"
)

// defaultStackMax is used when New is called without an explicit stack
// bound (e.g. from tests), matching spec.md §3's "bounded by a configurable
// maximum" with a generous default.
const defaultStackMax = 256 * maxFrames

// VM executes compiled holo programs. One VM corresponds to one program
// run: it owns the GC heap, the intern table and the global symbol table
// the compiler populated, plus its own value stack and call frames.
type VM struct {
	// Stdout and Stderr default to os.Stdout/os.Stderr when nil.
	Stdout io.Writer
	Stderr io.Writer

	heap   *gc.GC
	intern *gc.Intern
	symtab *gc.SymTab

	stack    []value.Value
	stackMax int
	frames   []frame

	globals []value.Value // parallel to symtab, by slot index

	openUpvalues []*object.ObjUpvalue // sorted descending by StackIndex

	initString string
}

// New returns a VM ready to run closures compiled against heap/intern/symtab.
// stackMax optionally overrides the maximum number of live values the
// value stack may hold (see internal/maincmd.RuntimeConfig's
// HOLO_STACK_MAX); when omitted, defaultStackMax is used.
func New(heap *gc.GC, intern *gc.Intern, symtab *gc.SymTab, stackMax ...int) *VM {
	max := defaultStackMax
	if len(stackMax) > 0 && stackMax[0] > 0 {
		max = stackMax[0]
	}
	return &VM{
		heap:       heap,
		intern:     intern,
		symtab:     symtab,
		stack:      make([]value.Value, 0, max),
		stackMax:   max,
		initString: "init",
	}
}

func (vm *VM) stdout() io.Writer {
	if vm.Stdout != nil {
		return vm.Stdout
	}
	return os.Stdout
}

func (vm *VM) stderr() io.Writer {
	if vm.Stderr != nil {
		return vm.Stderr
	}
	return os.Stderr
}

// push appends v to the value stack, failing with a runtime error once the
// stack has grown to stackMax — the configurable bound spec.md §3 requires.
// The stack is allocated with capacity stackMax up front, so append never
// moves it and open upvalues' pointers into it stay valid.
func (vm *VM) push(v value.Value) error {
	if len(vm.stack) >= vm.stackMax {
		return vm.runtimeError("Stack overflow.")
	}
	vm.stack = append(vm.stack, v)
	return nil
}

func (vm *VM) pop() value.Value {
	v := vm.stack[len(vm.stack)-1]
	vm.stack = vm.stack[:len(vm.stack)-1]
	return v
}

func (vm *VM) popN(n int) { vm.stack = vm.stack[:len(vm.stack)-n] }

func (vm *VM) peek(distance int) value.Value {
	return vm.stack[len(vm.stack)-1-distance]
}

func (vm *VM) currentFrame() *frame { return &vm.frames[len(vm.frames)-1] }

// Interpret runs fn (the top-level script function the compiler produced)
// to completion. Run stops at the first uncaught runtime error, or when ctx
// is cancelled; cancellation is only observed at the top of the dispatch
// loop, between instructions, never in the middle of one.
func (vm *VM) Interpret(ctx context.Context, fn *object.ObjFunction) error {
	closure := vm.heap.NewClosure(fn, fn.Upvalues)
	if err := vm.push(closure); err != nil {
		return err
	}
	vm.frames = append(vm.frames, frame{closure: closure, stackBase: 0})

	if err := vm.run(ctx); err != nil {
		return err
	}
	return nil
}

// DefineNative installs a native function as a global, the same mechanism
// the VM uses for every built-in: natives are ordinary global values, not a
// distinct instruction.
func (vm *VM) DefineNative(name string, arity int, fn object.NativeFn) {
	native := vm.heap.NewNative(name, arity, fn)
	slot := vm.symtab.Intern(name)
	vm.setGlobalSlot(slot, native)
}

func (vm *VM) setGlobalSlot(slot int, v value.Value) {
	for len(vm.globals) <= slot {
		vm.globals = append(vm.globals, nil)
	}
	vm.globals[slot] = v
}

// markRoots is passed to gc.Collect: it marks every GC root currently
// reachable from the VM's own state, namely the value stack, every live
// call frame's closure, every open upvalue and every defined global.
func (vm *VM) markRoots(mark func(value.Value)) {
	for _, v := range vm.stack {
		if v != nil {
			mark(v)
		}
	}
	for _, fr := range vm.frames {
		mark(fr.closure)
	}
	for _, uv := range vm.openUpvalues {
		mark(uv)
	}
	for _, g := range vm.globals {
		if g != nil {
			mark(g)
		}
	}
}

// maybeCollect triggers a collection at the current safe point (the end of
// each dispatch-loop iteration, between instructions) if the heap's bookkeeping says
// it's time. RemoveUnmarked runs as Collect's preSweep hook — after trace,
// before sweep — so it still sees every live string's mark bit set; sweep
// itself clears that bit on every survivor as part of resetting state for
// the next cycle, so running RemoveUnmarked after Collect returns would see
// every entry as unmarked and evict the whole intern table on every cycle.
func (vm *VM) maybeCollect() {
	if vm.heap.ShouldCollect() {
		vm.heap.Collect(vm.markRoots, vm.intern.RemoveUnmarked)
	}
}
